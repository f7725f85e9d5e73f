package spawner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/provider/fake"
)

func TestSpawnNodeComposesCommandAndReleasesPorts(t *testing.T) {
	p := fake.New()
	ns, err := p.CreateNamespaceWithBaseDir(context.Background(), "/tmp/ns-base")
	if err != nil {
		t.Fatalf("CreateNamespaceWithBaseDir: %v", err)
	}

	s := &Spawner{FS: fs.NewMemFilesystem(), Namespace: ns, BaseDir: "/tmp/ns-base"}
	req := NodeRequest{
		Name:          "alice",
		Command:       "polkadot",
		ChainSpecPath: "/ns/rococo-local.json",
		IsValidator:   true,
		IsBootnode:    true,
	}

	sn, err := s.SpawnNode(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("SpawnNode: %v", err)
	}
	if sn.Node.Name() != "alice" {
		t.Fatalf("got %q", sn.Node.Name())
	}
	if sn.Identity.PeerID == "" {
		t.Fatal("expected a non-empty peer id")
	}
	if sn.P2PPort == 0 || sn.RPCPort == 0 || sn.PromPort == 0 {
		t.Fatalf("expected nonzero ports, got %+v", sn)
	}
}

func TestSpawnNodeInjectsBootnodeArg(t *testing.T) {
	p := fake.New()
	ns, _ := p.CreateNamespaceWithBaseDir(context.Background(), "/tmp/ns-base")
	s := &Spawner{FS: fs.NewMemFilesystem(), Namespace: ns, BaseDir: "/tmp/ns-base"}

	_, err := s.SpawnNode(context.Background(), NodeRequest{
		Name:          "bob",
		Command:       "polkadot",
		ChainSpecPath: "/ns/rococo-local.json",
	}, []string{"/ip4/127.0.0.1/tcp/30333/p2p/12D3KooWExample"})
	if err != nil {
		t.Fatalf("SpawnNode: %v", err)
	}

	defs := ns.(*fake.Namespace).SpawnedDefinitions()
	if len(defs) != 1 {
		t.Fatalf("got %d node definitions, want 1", len(defs))
	}
	found := false
	for i, a := range defs[0].Args {
		if a == "--bootnodes" && i+1 < len(defs[0].Args) {
			found = defs[0].Args[i+1] == "/ip4/127.0.0.1/tcp/30333/p2p/12D3KooWExample"
		}
	}
	if !found {
		t.Fatalf("expected --bootnodes in argv, got %v", defs[0].Args)
	}
}

func TestWaitReadySucceedsOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("metric_value 1\n"))
	}))
	defer srv.Close()

	if err := WaitReady(context.Background(), srv.Client(), "alice", srv.URL, time.Second); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
}

func TestWaitReadyTimesOutWhenNeverReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := WaitReady(context.Background(), srv.Client(), "alice", srv.URL, 100*time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}
