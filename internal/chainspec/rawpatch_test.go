package chainspec

import "testing"

func TestApplyRawOverrideMergesPatch(t *testing.T) {
	spec, err := Parse([]byte(`{"name":"dev","genesis":{"raw":{"top":[["0x1","0x2"]]}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if err := spec.ApplyRawOverride(map[string]any{"bootNodes": []any{"/ip4/127.0.0.1/tcp/30333"}}); err != nil {
		t.Fatalf("ApplyRawOverride: %v", err)
	}

	if spec.Tree()["name"] != "dev" {
		t.Fatalf("patch should not disturb unrelated keys, got %+v", spec.Tree())
	}
	bootNodes, ok := spec.Tree()["bootNodes"].([]any)
	if !ok || len(bootNodes) != 1 {
		t.Fatalf("got %+v, want one bootnode entry", spec.Tree()["bootNodes"])
	}
}

func TestApplyRawOverrideNilPatchIsNoop(t *testing.T) {
	spec, err := Parse([]byte(`{"name":"dev"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := spec.ApplyRawOverride(nil); err != nil {
		t.Fatalf("ApplyRawOverride: %v", err)
	}
	if spec.Tree()["name"] != "dev" {
		t.Fatal("nil override should leave the tree untouched")
	}
}

func TestReplaceRuntimeCode(t *testing.T) {
	spec, err := Parse([]byte(`{"genesis":{"runtimeGenesis":{"code":"0xold"}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	spec.ReplaceRuntimeCode([]byte{0xde, 0xad, 0xbe, 0xef})

	code := spec.Tree()["genesis"].(map[string]any)["runtimeGenesis"].(map[string]any)["code"]
	if code != "0xdeadbeef" {
		t.Fatalf("got %v, want 0xdeadbeef", code)
	}
}
