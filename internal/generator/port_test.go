package generator

import "testing"

func TestGenerateParkedPortReturnsDistinctPorts(t *testing.T) {
	a, err := GenerateParkedPort(0)
	if err != nil {
		t.Fatalf("GenerateParkedPort: %v", err)
	}
	defer a.Close()

	b, err := GenerateParkedPort(0)
	if err != nil {
		t.Fatalf("GenerateParkedPort: %v", err)
	}
	defer b.Close()

	if a.Port == 0 || b.Port == 0 {
		t.Fatal("expected nonzero ports")
	}
	if a.Port == b.Port {
		t.Fatalf("expected distinct ports, got %d twice", a.Port)
	}
}

func TestGenerateParkedPortCloseReleasesSocket(t *testing.T) {
	p, err := GenerateParkedPort(0)
	if err != nil {
		t.Fatalf("GenerateParkedPort: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Closing twice must not panic or error loudly enough to fail the caller.
	_ = p.Close()
}
