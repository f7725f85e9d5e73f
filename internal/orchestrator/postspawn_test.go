package orchestrator

import (
	"context"
	"testing"

	"github.com/paritytech/zombienet-go/internal/netconfig"
)

func TestAddNodeJoinsRunningNetwork(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	cfg := testConfig()

	handle, err := orch.Spawn(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	node, err := orch.AddNode(context.Background(), handle, cfg, netconfig.NodeSpec{Name: "charlie", IsValidator: true})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if node.Name() != "charlie" {
		t.Fatalf("expected node named charlie, got %q", node.Name())
	}
	if _, ok := handle.GetNode("charlie"); !ok {
		t.Fatal("expected charlie to be registered on the handle")
	}
	if len(handle.Nodes()) != 3 {
		t.Fatalf("expected 3 relay nodes after AddNode, got %d", len(handle.Nodes()))
	}
}

func TestAddNodeRejectsDuplicateName(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	cfg := testConfig()

	handle, err := orch.Spawn(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if _, err := orch.AddNode(context.Background(), handle, cfg, netconfig.NodeSpec{Name: "alice"}); err == nil {
		t.Fatal("expected AddNode to reject a name already in the network")
	}
}

func TestAddCollatorJoinsExistingParachain(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	cfg := testConfig()

	handle, err := orch.Spawn(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	node, err := orch.AddCollator(context.Background(), handle, cfg, 2000, netconfig.NodeSpec{Name: "collator-2000-extra", Command: "polkadot-parachain"})
	if err != nil {
		t.Fatalf("AddCollator: %v", err)
	}
	if node.Name() != "collator-2000-extra" {
		t.Fatalf("expected node named collator-2000-extra, got %q", node.Name())
	}

	collators := handle.ParachainByUniqueID("2000")
	if len(collators) != 2 {
		t.Fatalf("expected 2 collators for para 2000 after AddCollator, got %d", len(collators))
	}
	if _, ok := collators["collator-2000-extra"]; !ok {
		t.Fatal("expected collator-2000-extra under UniqueID 2000")
	}
}

func TestAddCollatorRejectsUnknownParaID(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	cfg := testConfig()

	handle, err := orch.Spawn(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if _, err := orch.AddCollator(context.Background(), handle, cfg, 9999, netconfig.NodeSpec{Name: "ghost-collator"}); err == nil {
		t.Fatal("expected AddCollator to reject an unknown para_id")
	}
}

func TestAddParachainRegistersNewParachainAgainstLiveNetwork(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	cfg := testConfig()

	handle, err := orch.Spawn(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	ctx := context.Background()
	if err := orch.FS.WriteFile(ctx, "/src/para-3000.wasm", []byte("0x0a0b"), 0o644); err != nil {
		t.Fatalf("seed para wasm: %v", err)
	}
	if err := orch.FS.WriteFile(ctx, "/src/para-3000.state", []byte("0x0c0d"), 0o644); err != nil {
		t.Fatalf("seed para state: %v", err)
	}

	para := netconfig.ParachainSpec{
		ParaID:               3000,
		Chain:                "para-3000",
		RegistrationStrategy: netconfig.RegistrationUsingExtrinsic,
		GenesisWASMPath:      "/src/para-3000.wasm",
		GenesisStatePath:     "/src/para-3000.state",
		Collators: []netconfig.NodeSpec{
			{Name: "collator-3000-0", Command: "polkadot-parachain"},
		},
	}

	if err := orch.AddParachain(ctx, handle, para); err != nil {
		t.Fatalf("AddParachain: %v", err)
	}

	collators := handle.ParachainByUniqueID("3000")
	if len(collators) != 1 {
		t.Fatalf("expected 1 collator for newly added para 3000, got %d", len(collators))
	}
	if _, ok := collators["collator-3000-0"]; !ok {
		t.Fatal("expected collator-3000-0 under UniqueID 3000")
	}
}

func TestAddParachainSharingExistingParaIDGetsDistinctUniqueID(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	cfg := testConfig()

	handle, err := orch.Spawn(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	ctx := context.Background()
	if err := orch.FS.WriteFile(ctx, "/src/para-2000-c.wasm", []byte("0x0e0f"), 0o644); err != nil {
		t.Fatalf("seed para wasm: %v", err)
	}
	if err := orch.FS.WriteFile(ctx, "/src/para-2000-c.state", []byte("0x1011"), 0o644); err != nil {
		t.Fatalf("seed para state: %v", err)
	}

	para := netconfig.ParachainSpec{
		ParaID:               2000,
		Chain:                "para-2000-c",
		RegistrationStrategy: netconfig.RegistrationUsingExtrinsic,
		GenesisWASMPath:      "/src/para-2000-c.wasm",
		GenesisStatePath:     "/src/para-2000-c.state",
		Collators: []netconfig.NodeSpec{
			{Name: "collator-2000-new", Command: "polkadot-parachain"},
		},
	}

	if err := orch.AddParachain(ctx, handle, para); err != nil {
		t.Fatalf("AddParachain: %v", err)
	}

	if len(handle.ParachainByUniqueID("2000")) != 1 {
		t.Fatalf("expected the original parachain's collator set under UniqueID 2000 to be untouched")
	}
	newCollators := handle.ParachainByUniqueID("2000-1")
	if len(newCollators) != 1 {
		t.Fatalf("expected the newly added parachain to land under UniqueID 2000-1, got %d collators", len(newCollators))
	}
	if _, ok := newCollators["collator-2000-new"]; !ok {
		t.Fatal("expected collator-2000-new under UniqueID 2000-1")
	}
}
