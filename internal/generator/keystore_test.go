package generator

import (
	"context"
	"testing"

	"github.com/paritytech/zombienet-go/internal/fs"
)

func TestGenerateKeystoreWritesAllPrefixes(t *testing.T) {
	ctx := context.Background()
	mem := fs.NewMemFilesystem()

	accounts, err := GenerateKeys("//alice")
	if err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}
	accounts.Node = "alice"

	if err := GenerateKeystore(ctx, mem, "/ns/nodes/alice/keystore", accounts, ""); err != nil {
		t.Fatalf("GenerateKeystore: %v", err)
	}

	files := mem.ListPrefix("/ns/nodes/alice/keystore")
	if len(files) != len(keystorePrefixes) {
		t.Fatalf("got %d keystore files, want %d", len(files), len(keystorePrefixes))
	}
}

func TestGenerateKeystoreAuraFlavorSwitchesAccount(t *testing.T) {
	ctx := context.Background()
	accounts, _ := GenerateKeys("//alice")
	accounts.Node = "alice"

	memDefault := fs.NewMemFilesystem()
	if err := GenerateKeystore(ctx, memDefault, "/ns", accounts, ""); err != nil {
		t.Fatalf("GenerateKeystore: %v", err)
	}
	auraFileDefault := "/ns/" + hexPrefix("aura") + accounts.SR.PublicHex

	memAssetHub := fs.NewMemFilesystem()
	if err := GenerateKeystore(ctx, memAssetHub, "/ns", accounts, "asset_hub_polkadot"); err != nil {
		t.Fatalf("GenerateKeystore: %v", err)
	}
	auraFileAssetHub := "/ns/" + hexPrefix("aura") + accounts.ED.PublicHex

	if !memDefault.Exists(ctx, auraFileDefault) {
		t.Fatalf("expected default-flavor aura file using the sr account at %s", auraFileDefault)
	}
	if !memAssetHub.Exists(ctx, auraFileAssetHub) {
		t.Fatalf("expected asset_hub_polkadot aura file using the ed account at %s", auraFileAssetHub)
	}
}

func hexPrefix(prefix string) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(prefix)*2)
	for i := 0; i < len(prefix); i++ {
		out[i*2] = hextable[prefix[i]>>4]
		out[i*2+1] = hextable[prefix[i]&0x0f]
	}
	return string(out)
}
