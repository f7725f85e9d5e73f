package generator

import "testing"

func TestGenerateIdentityAliceGoldenVector(t *testing.T) {
	id, err := GenerateIdentity("alice")
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}

	const wantNodeKey = "2bd806c97f0e00af1a1fc3328fa763a9269723c8db8fac4f93af71db186d6e90"
	if id.NodeKeyHex != wantNodeKey {
		t.Fatalf("node_key = %s, want %s", id.NodeKeyHex, wantNodeKey)
	}

	const wantPeerID = "12D3KooWQCkBm1BYtkHpocxCwMgR8yjitEeHGx8spzcDLGt2gkBm"
	if id.PeerID != wantPeerID {
		t.Fatalf("peer_id = %s, want %s", id.PeerID, wantPeerID)
	}
}

func TestGenerateIdentityIsDeterministic(t *testing.T) {
	a, err := GenerateIdentity("bob")
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	b, err := GenerateIdentity("bob")
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical identities for the same name, got %+v vs %+v", a, b)
	}
}

func TestGenerateIdentityVariesByName(t *testing.T) {
	a, _ := GenerateIdentity("alice")
	b, _ := GenerateIdentity("bob")
	if a.NodeKeyHex == b.NodeKeyHex || a.PeerID == b.PeerID {
		t.Fatal("expected distinct identities for distinct names")
	}
}
