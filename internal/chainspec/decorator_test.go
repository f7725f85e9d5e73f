package chainspec

import "testing"

func emptyPlainSpec() *Spec {
	s, err := Parse([]byte(`{"genesis":{"runtime":{}}}`))
	if err != nil {
		panic(err)
	}
	return s
}

func TestDefaultAddBalancesWritesCanonicalSection(t *testing.T) {
	spec := emptyPlainSpec()
	in := Inputs{Balances: []BalanceInput{{AccountSS58: "5Alice", Amount: "1000000000000"}}}

	p := NewPipeline()
	if err := p.RunRelay(spec, in); err != nil {
		t.Fatalf("RunRelay: %v", err)
	}

	balances := spec.Tree()["genesis"].(map[string]any)["runtime"].(map[string]any)["balances"].(map[string]any)["balances"].([]any)
	if len(balances) != 1 {
		t.Fatalf("got %d balance entries, want 1", len(balances))
	}
	entry := balances[0].([]any)
	if entry[0] != "5Alice" || entry[1] != "1000000000000" {
		t.Fatalf("got %+v", entry)
	}
}

func TestDecoratorClaimingAStepSkipsDefault(t *testing.T) {
	spec := emptyPlainSpec()
	in := Inputs{Balances: []BalanceInput{{AccountSS58: "5Alice", Amount: "1"}}}

	p := NewPipeline()
	if err := p.Register(Decorator{
		Name: "custom-balances",
		Hooks: map[Step]DecoratorFunc{
			StepAddBalances: func(spec *Spec, in Inputs) (bool, error) {
				balances := path(spec.Tree(), "genesis", "runtime", "balances")
				balances["balances"] = []any{[]any{"5Custom", "42"}}
				return true, nil
			},
		},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := p.RunRelay(spec, in); err != nil {
		t.Fatalf("RunRelay: %v", err)
	}

	balances := spec.Tree()["genesis"].(map[string]any)["runtime"].(map[string]any)["balances"].(map[string]any)["balances"].([]any)
	if len(balances) != 1 || balances[0].([]any)[0] != "5Custom" {
		t.Fatalf("decorator's result was overwritten by default: %+v", balances)
	}
}

func TestDuplicateDecoratorNameRejected(t *testing.T) {
	p := NewPipeline()
	d := Decorator{Name: "dup"}
	if err := p.Register(d); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := p.Register(d); err == nil {
		t.Fatal("expected an error registering a duplicate decorator name")
	}
}

func TestClearAuthoritiesEmptiesExistingKeys(t *testing.T) {
	spec, err := Parse([]byte(`{"genesis":{"runtime":{"session":{"keys":[["a","a",{}]]},"aura":{"authorities":["x"]}}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	p := NewPipeline()
	if err := p.RunRelay(spec, Inputs{}); err != nil {
		t.Fatalf("RunRelay: %v", err)
	}

	session := spec.Tree()["genesis"].(map[string]any)["runtime"].(map[string]any)["session"].(map[string]any)
	if len(session["keys"].([]any)) != 0 {
		t.Fatalf("expected session.keys cleared, got %+v", session["keys"])
	}
}
