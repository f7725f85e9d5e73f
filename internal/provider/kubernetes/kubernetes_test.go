package kubernetes

import "testing"

func TestCutEnvSplitsOnFirstEquals(t *testing.T) {
	name, value, ok := cutEnv("CHAIN=rococo-local")
	if !ok || name != "CHAIN" || value != "rococo-local" {
		t.Fatalf("got (%q, %q, %v)", name, value, ok)
	}
}

func TestCutEnvRejectsMissingEquals(t *testing.T) {
	if _, _, ok := cutEnv("NOEQUALS"); ok {
		t.Fatal("expected ok=false for a value with no '='")
	}
}

func TestEnvVarsSkipsMalformedEntries(t *testing.T) {
	got := envVars([]string{"A=1", "malformed", "B=2"})
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("got %+v", got)
	}
}
