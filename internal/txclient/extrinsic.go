package txclient

import (
	"encoding/hex"
)

// CallIndex is a pallet's position plus a call's position within it, as
// they appear in a runtime's metadata — e.g. {Pallet: 0x02, Call: 0x01}
// for `Sudo.sudo`. These vary per runtime build, so the caller supplies
// them (typically read once from `state_getMetadata` at startup) rather
// than having them hardcoded here.
type CallIndex struct {
	Pallet byte
	Call   byte
}

// Call is one SCALE-encodable extrinsic call: its pallet/call index
// followed by its already-encoded arguments.
type Call struct {
	Index CallIndex
	Args  []byte
}

// Encode returns the call's SCALE encoding: pallet byte, call byte, args.
func (c Call) Encode() []byte {
	out := make([]byte, 0, 2+len(c.Args))
	out = append(out, c.Index.Pallet, c.Index.Call)
	out = append(out, c.Args...)
	return out
}

// WrapSudo wraps inner in `Sudo.sudo(inner)`.
func WrapSudo(sudoIndex, sudoCallIndex CallIndex, inner Call) Call {
	e := newEncoder()
	e.putFixed(inner.Encode())
	return Call{Index: CallIndex{Pallet: sudoIndex.Pallet, Call: sudoCallIndex.Call}, Args: e.bytes()}
}

// WrapSudoUncheckedWeight wraps inner in
// `Sudo.sudo_unchecked_weight(inner, weight)` — used for the runtime
// upgrade call, whose real weight the chain cannot compute up front.
func WrapSudoUncheckedWeight(sudoIndex, sudoCallIndex CallIndex, inner Call, refTime, proofSize uint64) Call {
	e := newEncoder()
	e.putFixed(inner.Encode())
	e.putU64(refTime)
	e.putU64(proofSize)
	return Call{Index: CallIndex{Pallet: sudoIndex.Pallet, Call: sudoCallIndex.Call}, Args: e.bytes()}
}

// WrapBatch wraps calls in `Utility.batch([calls])`.
func WrapBatch(utilityIndex, batchCallIndex CallIndex, calls []Call) Call {
	e := newEncoder()
	e.putCompact(uint64(len(calls)))
	for _, c := range calls {
		e.putFixed(c.Encode())
	}
	return Call{Index: CallIndex{Pallet: utilityIndex.Pallet, Call: batchCallIndex.Call}, Args: e.bytes()}
}

// SigningPayload is everything needed to build and sign an extrinsic
// envelope against one chain at one point in time.
type SigningPayload struct {
	GenesisHash        []byte
	SpecVersion        uint32
	TransactionVersion uint32
	Nonce              uint64
	Tip                uint64
}

// signedExtrinsicVersion is the version byte Substrate's extrinsic
// format has used since the "old" signed-extrinsic layout (bit 7 set
// marks "signed").
const signedExtrinsicVersion = 0x80 | 4

// BuildSignedExtrinsic assembles, signs, and hex-encodes an extrinsic
// carrying call, signed by signer against payload — an immortal
// (mortality-disabled) transaction, matching a local testnet's
// single-era lifetime.
func BuildSignedExtrinsic(call Call, signer Signer, payload SigningPayload) (string, error) {
	callBytes := call.Encode()

	signing := newEncoder()
	signing.putFixed(callBytes)
	signing.putU8(0x00) // era: Immortal
	signing.putCompact(payload.Nonce)
	signing.putCompact(payload.Tip)
	signing.putFixed(payload.GenesisHash) // immortal era's birth hash is the genesis hash
	signing.putFixed(payload.GenesisHash) // and its death hash, for an immortal extrinsic

	sig, err := signer.Sign(signing.bytes())
	if err != nil {
		return "", err
	}

	body := newEncoder()
	body.putU8(signedExtrinsicVersion)
	body.putU8(0x00) // MultiAddress::Id
	body.putFixed(signer.PublicKey())
	body.putU8(0x00) // MultiSignature::Ed25519
	body.putFixed(sig)
	body.putU8(0x00) // era: Immortal
	body.putCompact(payload.Nonce)
	body.putCompact(payload.Tip)
	body.putFixed(callBytes)

	framed := newEncoder()
	framed.putCompact(uint64(len(body.bytes())))
	framed.putFixed(body.bytes())

	return "0x" + hex.EncodeToString(framed.bytes()), nil
}
