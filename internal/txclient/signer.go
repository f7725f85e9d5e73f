package txclient

import (
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/paritytech/zombienet-go/internal/generator"
	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// Signer produces the (public key, signature) pair for an extrinsic
// payload, abstracting over the two seed formats §4.9 accepts.
type Signer interface {
	PublicKey() []byte
	Sign(payload []byte) ([]byte, error)
}

type devSeedSigner struct {
	seed string
	pub  []byte
}

func (s *devSeedSigner) PublicKey() []byte { return s.pub }

func (s *devSeedSigner) Sign(payload []byte) ([]byte, error) {
	_, sig, err := generator.SignWithSeed(s.seed, payload)
	return sig, err
}

// LoadSigner resolves a configured sudo_seed into a Signer. It first
// tries decoding raw as a BIP39 mnemonic phrase; if that fails, it falls
// back to the "//Name"-style raw dev seed used everywhere else in the
// orchestrator (§4.9).
func LoadSigner(raw string) (Signer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "//Alice"
	}

	if bip39.IsMnemonicValid(raw) {
		seedBytes := bip39.NewSeed(raw, "")
		pub, _, err := generator.SignWithSeed(string(seedBytes), nil)
		if err != nil {
			return nil, &zerrors.GeneratorError{Kind: "sudo-seed", Err: err}
		}
		return &devSeedSigner{seed: string(seedBytes), pub: pub}, nil
	}

	pub, _, err := generator.SignWithSeed(raw, nil)
	if err != nil {
		return nil, &zerrors.GeneratorError{Kind: "sudo-seed", Err: err}
	}
	return &devSeedSigner{seed: raw, pub: pub}, nil
}
