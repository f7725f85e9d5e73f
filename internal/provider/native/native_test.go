package native

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paritytech/zombienet-go/internal/process"
	"github.com/paritytech/zombienet-go/internal/provider"
)

func TestSpawnNodeWritesPIDFileAndLog(t *testing.T) {
	base := t.TempDir()
	manager := process.NewFakeManager()
	manager.OnStart(func(cmd process.Command) (string, string, error) {
		return "node starting\n", "", nil
	})

	p := New(manager)
	ns, err := p.CreateNamespaceWithBaseDir(context.Background(), base)
	if err != nil {
		t.Fatalf("CreateNamespaceWithBaseDir: %v", err)
	}

	node, err := ns.SpawnNode(context.Background(), provider.NodeDefinition{Name: "alice", Program: "polkadot"})
	if err != nil {
		t.Fatalf("SpawnNode: %v", err)
	}
	defer node.Destroy(context.Background())

	fakeNS := ns.(*Namespace)
	pidPath := filepath.Join(fakeNS.dir, "nodes", "alice", "node.pid")
	if _, err := os.Stat(pidPath); err != nil {
		t.Fatalf("expected PID file at %s: %v", pidPath, err)
	}
}

func TestDestroyRemovesNamespaceDir(t *testing.T) {
	base := t.TempDir()
	manager := process.NewFakeManager()

	p := New(manager)
	ns, err := p.CreateNamespaceWithBaseDir(context.Background(), base)
	if err != nil {
		t.Fatalf("CreateNamespaceWithBaseDir: %v", err)
	}
	if _, err := ns.SpawnNode(context.Background(), provider.NodeDefinition{Name: "alice", Program: "polkadot"}); err != nil {
		t.Fatalf("SpawnNode: %v", err)
	}

	fakeNS := ns.(*Namespace)
	dir := fakeNS.dir
	if err := ns.Destroy(context.Background()); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected namespace dir to be removed, got err=%v", err)
	}
}
