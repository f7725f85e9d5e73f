package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// keyPrefixAccountKind maps each of the 11 session-key prefixes to the
// account slot whose keypair backs it (§4.3). "aura" is resolved
// separately since it depends on the chain flavor.
var keyPrefixAccountKind = map[string]AccountKind{
	"babe": AccountSR,
	"imon": AccountSR,
	"audi": AccountSR,
	"asgn": AccountSR,
	"para": AccountSR,
	"nmbs": AccountSR,
	"rand": AccountSR,
	"gran": AccountED,
	"rate": AccountED,
	"beef": AccountEC,
}

// keystorePrefixes is the fixed, ordered set of key-type prefixes
// written into every node's keystore.
var keystorePrefixes = []string{
	"aura", "babe", "imon", "gran", "audi", "asgn", "para", "beef", "nmbs", "rand", "rate",
}

func auraAccountKind(flavor string) AccountKind {
	if flavor == "asset_hub_polkadot" {
		return AccountED
	}
	return AccountSR
}

func accountFor(accounts NodeAccounts, kind AccountKind) Account {
	switch kind {
	case AccountED:
		return accounts.ED
	case AccountEC:
		return accounts.EC
	default:
		return accounts.SR
	}
}

// GenerateKeystore writes one keystore file per prefix in
// keystorePrefixes into dir. Filenames are hex(prefix) + hex(pubkey);
// contents are the account's seed string, JSON-quoted. All files are
// written concurrently; if any write fails the whole call fails (§4.3).
func GenerateKeystore(ctx context.Context, filesystem fs.FS, dir string, accounts NodeAccounts, flavor string) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, prefix := range keystorePrefixes {
		prefix := prefix
		kind := keyPrefixAccountKind[prefix]
		if prefix == "aura" {
			kind = auraAccountKind(flavor)
		}
		account := accountFor(accounts, kind)

		g.Go(func() error {
			filename := fmt.Sprintf("%x%s", []byte(prefix), account.PublicHex)
			content, err := json.Marshal(account.Seed)
			if err != nil {
				return &zerrors.GeneratorError{Kind: "key", Node: accounts.Node, Err: err}
			}
			path := dir + "/" + filename
			if err := filesystem.WriteFile(gctx, path, content, 0o600); err != nil {
				return &zerrors.GeneratorError{Kind: "filesystem", Node: accounts.Node, Err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}
