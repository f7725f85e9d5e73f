package generator

import "testing"

func TestGenerateBootnodeAddrDefaultFormat(t *testing.T) {
	addr := GenerateBootnodeAddr("12D3KooWExample", "127.0.0.1", 30333, nil, "")
	want := "/ip4/127.0.0.1/tcp/30333/ws/p2p/12D3KooWExample"
	if addr != want {
		t.Fatalf("got %q, want %q", addr, want)
	}
}

func TestGenerateBootnodeAddrRewritesListenAddr(t *testing.T) {
	args := []string{"--listen-addr", "/ip4/0.0.0.0/tcp/0/ws"}
	addr := GenerateBootnodeAddr("12D3KooWExample", "10.0.0.5", 30333, args, "")
	want := "/ip4/10.0.0.5/tcp/30333/ws/p2p/12D3KooWExample"
	if addr != want {
		t.Fatalf("got %q, want %q", addr, want)
	}
}

func TestGenerateBootnodeAddrIsIdempotent(t *testing.T) {
	args := []string{"--listen-addr", "/ip4/0.0.0.0/tcp/0/ws"}
	a := GenerateBootnodeAddr("12D3KooWExample", "10.0.0.5", 30333, args, "")
	b := GenerateBootnodeAddr("12D3KooWExample", "10.0.0.5", 30333, args, "")
	if a != b {
		t.Fatalf("expected idempotent output, got %q then %q", a, b)
	}
}

func TestGenerateBootnodeAddrAppendsCertHash(t *testing.T) {
	addr := GenerateBootnodeAddr("12D3KooWExample", "127.0.0.1", 30333, nil, "uEi...")
	want := "/ip4/127.0.0.1/tcp/30333/ws/p2p/12D3KooWExample/certhash/uEi..."
	if addr != want {
		t.Fatalf("got %q, want %q", addr, want)
	}
}
