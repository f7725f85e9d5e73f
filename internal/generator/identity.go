// Package generator derives every node-scoped artifact that must exist
// on disk before a node can be spawned: its P2P identity, its session
// keys, its keystore files, a free port, its bootnode multiaddress, and
// its final command line (§4.3).
package generator

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// P2PIdentity is a node's libp2p identity: the 32-byte ed25519 secret
// key seed (as hex) and the corresponding base58 peer id.
type P2PIdentity struct {
	NodeKeyHex string
	PeerID     string
}

// identityMultihashCode is the libp2p "identity" multihash function
// code: the digest is embedded verbatim rather than hashed again. Peer
// ids for ed25519 keys are the identity-multihash of the public key's
// protobuf-free raw bytes prefixed with the libp2p ed25519 key type tag.
const identityMultihashCode = 0x00

// ed25519PeerIDPrefix is the fixed 4-byte prefix libp2p uses to wrap a
// raw 32-byte ed25519 public key before multihashing it, matching the
// "identity" encoding used for small (<=42 byte) public keys.
var ed25519PeerIDPrefix = []byte{0x08, 0x01, 0x12, 0x20}

// GenerateIdentity deterministically derives a node's P2P identity from
// its name: node_key = SHA-256(name), interpreted as an ed25519 secret
// key seed; peer_id is the base58-encoded libp2p peer id of the
// corresponding public key.
//
// Golden vector (matches the reference implementation): name "alice"
// yields node_key "2bd806c9..." and peer_id
// "12D3KooWQCkBm1BYtkHpocxCwMgR8yjitEeHGx8spzcDLGt2gkBm".
func GenerateIdentity(name string) (P2PIdentity, error) {
	seed := sha256.Sum256([]byte(name))
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)

	protoKey := make([]byte, 0, len(ed25519PeerIDPrefix)+len(pub))
	protoKey = append(protoKey, ed25519PeerIDPrefix...)
	protoKey = append(protoKey, pub...)

	mh, err := multihash.Encode(protoKey, identityMultihashCode)
	if err != nil {
		return P2PIdentity{}, &zerrors.GeneratorError{Kind: "identity", Node: name, Err: err}
	}

	return P2PIdentity{
		NodeKeyHex: fmt.Sprintf("%x", seed),
		PeerID:     base58.Encode(mh),
	}, nil
}
