package generator

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// AccountKind names one of the three account slots derived per node.
type AccountKind string

const (
	AccountSR AccountKind = "sr"
	AccountED AccountKind = "ed"
	AccountEC AccountKind = "ec"
)

// Account is one derived keypair: its SS58-style address and hex public key.
type Account struct {
	Kind      AccountKind
	SS58      string
	PublicHex string
	Seed      string // the seed string used to derive this account, persisted into the keystore
	publicKey []byte
	secretKey []byte
}

// NodeAccounts holds the three accounts derived for a single node.
type NodeAccounts struct {
	Node string
	SR   Account
	ED   Account
	EC   Account
}

// ss58AddressVersionByte is a dev-network placeholder prefix (the
// generic substrate "42" format); real chains select their own prefix,
// out of scope for a local testnet.
const ss58AddressVersionByte = 42

// srDomainSeparator distinguishes the "sr" slot's seed from the "ed"
// slot's seed. No pure-Go sr25519 (Schnorrkel) implementation exists in
// the retrieved example corpus (see SPEC_FULL.md §12 / DESIGN.md); the
// sr slot is therefore a second, domain-separated ed25519 keypair
// rather than a true Schnorrkel key.
const srDomainSeparator = "/sr25519"

// GenerateKeys derives the sr/ed/ec account triple for a node from its
// seed ("//" + node name, §3).
func GenerateKeys(seed string) (NodeAccounts, error) {
	edSeed := sha256.Sum256([]byte(seed))
	edPriv := ed25519.NewKeyFromSeed(edSeed[:])
	edPub := edPriv.Public().(ed25519.PublicKey)

	srSeed := sha256.Sum256([]byte(seed + srDomainSeparator))
	srPriv := ed25519.NewKeyFromSeed(srSeed[:])
	srPub := srPriv.Public().(ed25519.PublicKey)

	ecSeed := sha256.Sum256([]byte(seed + "/ecdsa"))
	_, ecPub := btcec.PrivKeyFromBytes(ecSeed[:])
	ecPubCompressed := ecPub.SerializeCompressed()
	ecPubBytes := ecPubCompressed[1:] // 32-byte X coordinate, drop the parity prefix

	ss58ED, err := ss58Encode(edPub)
	if err != nil {
		return NodeAccounts{}, &zerrors.GeneratorError{Kind: "key", Err: err}
	}
	ss58SR, err := ss58Encode(srPub)
	if err != nil {
		return NodeAccounts{}, &zerrors.GeneratorError{Kind: "key", Err: err}
	}
	ss58EC, err := ss58Encode(ecPubBytes)
	if err != nil {
		return NodeAccounts{}, &zerrors.GeneratorError{Kind: "key", Err: err}
	}

	return NodeAccounts{
		ED: Account{Kind: AccountED, SS58: ss58ED, PublicHex: hexEncode(edPub), Seed: seed, publicKey: edPub, secretKey: edPriv},
		SR: Account{Kind: AccountSR, SS58: ss58SR, PublicHex: hexEncode(srPub), Seed: seed, publicKey: srPub, secretKey: srPriv},
		EC: Account{Kind: AccountEC, SS58: ss58EC, PublicHex: hexEncode(ecPubBytes), Seed: seed, publicKey: ecPubBytes},
	}, nil
}

// ss58Encode applies the chain-agnostic SS58 address scheme: a version
// byte, the 32-byte public key, and a 2-byte blake2b-512 checksum,
// base58-encoded.
func ss58Encode(pubKey []byte) (string, error) {
	key := pubKey
	if len(key) > 32 {
		key = key[:32]
	}
	payload := append([]byte{ss58AddressVersionByte}, key...)

	h, err := blake2b.New512(nil)
	if err != nil {
		return "", err
	}
	h.Write([]byte("SS58PRE"))
	h.Write(payload)
	checksum := h.Sum(nil)[:2]

	full := append(payload, checksum...)
	return base58.Encode(full), nil
}

// SignWithSeed re-derives the ed slot's keypair for seed and signs msg,
// returning the public key and signature — used by internal/txclient to
// sign extrinsics with a dev account (e.g. "//Alice") without exposing
// Account's private key fields outside this package.
func SignWithSeed(seed string, msg []byte) (pub, sig []byte, err error) {
	edSeed := sha256.Sum256([]byte(seed))
	priv := ed25519.NewKeyFromSeed(edSeed[:])
	return priv.Public().(ed25519.PublicKey), ed25519.Sign(priv, msg), nil
}

func hexEncode(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hextable[v>>4]
		out[i*2+1] = hextable[v&0x0f]
	}
	return string(out)
}
