package txclient

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCompactEncodingSmallValue(t *testing.T) {
	e := newEncoder()
	e.putCompact(3)
	if got := e.bytes(); len(got) != 1 || got[0] != 3<<2 {
		t.Fatalf("got %v", got)
	}
}

func TestCompactEncodingMediumValue(t *testing.T) {
	e := newEncoder()
	e.putCompact(1000)
	got := e.bytes()
	if len(got) != 2 {
		t.Fatalf("expected 2 bytes, got %v", got)
	}
	if got[0]&0b11 != 0b01 {
		t.Fatalf("expected the two-byte mode tag, got %v", got)
	}
}

func TestCallEncodeLeadsWithPalletAndCallIndex(t *testing.T) {
	c := Call{Index: CallIndex{Pallet: 0x02, Call: 0x01}, Args: []byte{0xAA}}
	got := c.Encode()
	if got[0] != 0x02 || got[1] != 0x01 || got[2] != 0xAA {
		t.Fatalf("got %v", got)
	}
}

func TestLoadSignerFallsBackToRawDevSeed(t *testing.T) {
	s, err := LoadSigner("//Alice")
	if err != nil {
		t.Fatalf("LoadSigner: %v", err)
	}
	if len(s.PublicKey()) != 32 {
		t.Fatalf("expected a 32-byte ed25519 public key, got %d bytes", len(s.PublicKey()))
	}
	sig, err := s.Sign([]byte("payload"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(sig) != 64 {
		t.Fatalf("expected a 64-byte ed25519 signature, got %d bytes", len(sig))
	}
}

func TestLoadSignerDefaultsWhenEmpty(t *testing.T) {
	s, err := LoadSigner("")
	if err != nil {
		t.Fatalf("LoadSigner: %v", err)
	}
	alice, err := LoadSigner("//Alice")
	if err != nil {
		t.Fatalf("LoadSigner: %v", err)
	}
	if string(s.PublicKey()) != string(alice.PublicKey()) {
		t.Fatal("expected an empty seed to default to //Alice")
	}
}

func TestBuildSignedExtrinsicProducesHexString(t *testing.T) {
	signer, err := LoadSigner("//Alice")
	if err != nil {
		t.Fatalf("LoadSigner: %v", err)
	}
	call := Call{Index: CallIndex{Pallet: 0x00, Call: 0x00}, Args: []byte{}}
	hexStr, err := BuildSignedExtrinsic(call, signer, SigningPayload{GenesisHash: make([]byte, 32)})
	if err != nil {
		t.Fatalf("BuildSignedExtrinsic: %v", err)
	}
	if !strings.HasPrefix(hexStr, "0x") {
		t.Fatalf("expected a 0x-prefixed hex string, got %q", hexStr)
	}
}

func TestParseStatusRecognizesFinalized(t *testing.T) {
	raw := json.RawMessage(`{"finalized":"0xabc"}`)
	status := parseStatus(raw)
	if status.Finalized != "0xabc" {
		t.Fatalf("got %+v", status)
	}
	if !status.Terminal() {
		t.Fatal("expected a finalized status to be terminal")
	}
}

func TestParseStatusRecognizesInvalid(t *testing.T) {
	raw := json.RawMessage(`"invalid"`)
	status := parseStatus(raw)
	if !status.Failed() {
		t.Fatalf("expected invalid to be a failure, got %+v", status)
	}
}

func TestWrapSudoPrependsSudoIndex(t *testing.T) {
	inner := Call{Index: CallIndex{Pallet: 0x10, Call: 0x02}, Args: []byte{0x01}}
	wrapped := WrapSudo(CallIndex{Pallet: 0x02}, CallIndex{Call: 0x00}, inner)
	if wrapped.Index.Pallet != 0x02 || wrapped.Index.Call != 0x00 {
		t.Fatalf("got %+v", wrapped.Index)
	}
}
