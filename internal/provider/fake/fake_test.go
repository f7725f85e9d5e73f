package fake

import (
	"context"
	"testing"

	"github.com/paritytech/zombienet-go/internal/provider"
)

func TestSpawnNodeRecordsDefinition(t *testing.T) {
	p := New()
	ns, err := p.CreateNamespace(context.Background())
	if err != nil {
		t.Fatalf("CreateNamespace: %v", err)
	}

	def := provider.NodeDefinition{Name: "alice", Program: "polkadot"}
	node, err := ns.SpawnNode(context.Background(), def)
	if err != nil {
		t.Fatalf("SpawnNode: %v", err)
	}
	if node.Name() != "alice" {
		t.Fatalf("got %q", node.Name())
	}

	fakeNS := ns.(*Namespace)
	got := fakeNS.SpawnedDefinitions()
	if len(got) != 1 || got[0].Name != "alice" {
		t.Fatalf("got %+v", got)
	}
}

func TestDestroyClearsNodesAndMarksDestroyed(t *testing.T) {
	p := New()
	ns, _ := p.CreateNamespace(context.Background())
	_, _ = ns.SpawnNode(context.Background(), provider.NodeDefinition{Name: "alice"})

	if err := ns.Destroy(context.Background()); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if !ns.(*Namespace).Destroyed() {
		t.Fatal("expected Destroyed() true")
	}
	if len(ns.Nodes()) != 0 {
		t.Fatalf("expected no nodes after destroy, got %d", len(ns.Nodes()))
	}
}

func TestOnSpawnCanRejectANode(t *testing.T) {
	p := New()
	ns, _ := p.CreateNamespace(context.Background())
	fakeNS := ns.(*Namespace)
	fakeNS.OnSpawn = func(def provider.NodeDefinition) error {
		if def.Name == "bob" {
			return errBobRefusesToStart
		}
		return nil
	}

	if _, err := ns.SpawnNode(context.Background(), provider.NodeDefinition{Name: "bob"}); err == nil {
		t.Fatal("expected bob's spawn to fail")
	}
}

var errBobRefusesToStart = testError("bob refuses to start")

type testError string

func (e testError) Error() string { return string(e) }
