package generator

import "testing"

func TestGenerateKeysProducesThreeDistinctAccounts(t *testing.T) {
	accounts, err := GenerateKeys("//alice")
	if err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}
	if accounts.SR.PublicHex == accounts.ED.PublicHex {
		t.Fatal("expected sr and ed accounts to differ")
	}
	if accounts.SR.PublicHex == accounts.EC.PublicHex {
		t.Fatal("expected sr and ec accounts to differ")
	}
	if accounts.SR.SS58 == "" || accounts.ED.SS58 == "" || accounts.EC.SS58 == "" {
		t.Fatal("expected all three accounts to have an SS58 address")
	}
}

func TestGenerateKeysIsDeterministic(t *testing.T) {
	a, err := GenerateKeys("//alice")
	if err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}
	b, err := GenerateKeys("//alice")
	if err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}
	if a.SR.PublicHex != b.SR.PublicHex || a.ED.PublicHex != b.ED.PublicHex || a.EC.PublicHex != b.EC.PublicHex {
		t.Fatal("expected identical accounts for the same seed")
	}
}
