package netconfig

import "testing"

func minimalValidConfig() *NetworkConfig {
	return &NetworkConfig{
		RelayChain: RelayChainSpec{
			Chain:            "rococo-local",
			ChainSpecCommand: "{{mainCommand}} build-spec --chain {{chainName}}",
			DefaultCommand:   "polkadot",
			Nodes: []NodeSpec{
				{Name: "alice", IsValidator: true, IsBootnode: true},
				{Name: "bob", IsValidator: true},
			},
		},
	}
}

func TestValidateMinimalConfig(t *testing.T) {
	cfg := minimalValidConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestValidateRejectsDuplicateNodeNames(t *testing.T) {
	cfg := minimalValidConfig()
	cfg.RelayChain.Nodes = append(cfg.RelayChain.Nodes, NodeSpec{Name: "alice"})

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected duplicate node name to be rejected")
	}
}

func TestValidateRequiresChainSpecSource(t *testing.T) {
	cfg := minimalValidConfig()
	cfg.RelayChain.ChainSpecCommand = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing chain_spec_command/path to be rejected")
	}
}

func TestValidateAssignsUniqueIDsForSharedParaID(t *testing.T) {
	cfg := minimalValidConfig()
	cfg.Parachains = []ParachainSpec{
		{
			ParaID:              2000,
			GenesisWASMCommand:  "build-wasm",
			GenesisStateCommand: "build-state",
			Collators:           []NodeSpec{{Name: "collator-a", Command: "polkadot-parachain"}},
		},
		{
			ParaID:              2000,
			GenesisWASMCommand:  "build-wasm",
			GenesisStateCommand: "build-state",
			Collators:           []NodeSpec{{Name: "collator-b", Command: "polkadot-parachain"}},
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
	if cfg.Parachains[0].UniqueID != "2000" {
		t.Fatalf("got UniqueID %q, want %q", cfg.Parachains[0].UniqueID, "2000")
	}
	if cfg.Parachains[1].UniqueID != "2000-1" {
		t.Fatalf("got UniqueID %q, want %q", cfg.Parachains[1].UniqueID, "2000-1")
	}
}

func TestValidateRejectsConflictingPorts(t *testing.T) {
	cfg := minimalValidConfig()
	cfg.RelayChain.Nodes[0].RPCPort = 9944
	cfg.RelayChain.Nodes[1].RPCPort = 9944

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected conflicting explicit ports to be rejected")
	}
}
