package docker

import "testing"

func TestContainerNameIsNamespaceScoped(t *testing.T) {
	got := containerName("zombie-abc", "alice")
	want := "zombie-abc-alice"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNewDefaultsImageWhenEmpty(t *testing.T) {
	p := New("")
	if p.image != defaultImage {
		t.Fatalf("got %q, want %q", p.image, defaultImage)
	}
}

func TestNewKeepsExplicitImage(t *testing.T) {
	p := New("parity/polkadot:v1.2.3")
	if p.image != "parity/polkadot:v1.2.3" {
		t.Fatalf("got %q", p.image)
	}
}
