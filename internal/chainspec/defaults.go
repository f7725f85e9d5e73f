package chainspec

import "fmt"

// Inputs carries the data the default chain-agnostic edits need: the
// accounts and balances for the nodes/collators being seeded into
// genesis, and the HRMP channels declared for this relay chain (§4.4.1,
// §3). The orchestrator builds this from netconfig + generator output
// before invoking a Pipeline.
type Inputs struct {
	Authorities []AuthorityInput
	Balances    []BalanceInput
	HrmpChannels []HrmpChannelInput
}

// AuthorityInput is one validator or collator's session-key material, in
// whatever subset the chain family cares about (a collator contributes
// only Aura; a relay validator contributes all four).
type AuthorityInput struct {
	Name          string
	AccountSS58   string // the `sr` account, used as the session "owner"
	AuraPublicHex string
	GrandpaPublicHex string
	AuthorityDiscoveryHex string
	BeefyPublicHex string
	Invulnerable  bool // collator selection: exempt from candidacy rotation
}

// BalanceInput seeds one account's free balance at genesis.
type BalanceInput struct {
	AccountSS58 string
	Amount      string // decimal string; kept as string to avoid precision loss across arbitrarily large chain-native units
}

// HrmpChannelInput mirrors netconfig.HrmpChannel without importing that
// package, keeping chainspec independent of the config file format.
type HrmpChannelInput struct {
	Sender         uint32
	Recipient      uint32
	MaxCapacity    uint32
	MaxMessageSize uint32
}

// applyDefault runs the chain-agnostic edit for a step that no decorator
// claimed, writing into the canonical spec sections named in §4.4.1.
func applyDefault(step Step, spec *Spec, in Inputs) error {
	switch step {
	case StepClearAuthorities:
		return defaultClearAuthorities(spec)
	case StepAddAuraAuthorities:
		return defaultAddAuraAuthorities(spec, in)
	case StepAddGrandpaAuthorities:
		return defaultAddGrandpaAuthorities(spec, in)
	case StepAddCollatorSelection:
		return defaultAddCollatorSelection(spec, in)
	case StepAddBalances:
		return defaultAddBalances(spec, in)
	case StepAddStaking:
		return defaultAddStaking(spec, in)
	case StepAddHrmpChannels:
		return defaultAddHrmpChannels(spec, in)
	default:
		return fmt.Errorf("chainspec: unknown step %q", step)
	}
}

func defaultClearAuthorities(spec *Spec) error {
	runtime := path(spec.Tree(), "genesis", "runtime")
	if session, ok := runtime["session"].(map[string]any); ok {
		session["keys"] = []any{}
	}
	if aura, ok := runtime["aura"].(map[string]any); ok {
		aura["authorities"] = []any{}
	}
	if grandpa, ok := runtime["grandpa"].(map[string]any); ok {
		grandpa["authorities"] = []any{}
	}
	return nil
}

func defaultAddAuraAuthorities(spec *Spec, in Inputs) error {
	aura := path(spec.Tree(), "genesis", "runtime", "aura")
	authorities := list(spec.Tree(), []string{"genesis", "runtime", "aura"}, "authorities")
	for _, a := range in.Authorities {
		if a.AuraPublicHex == "" {
			continue
		}
		authorities = append(authorities, a.AuraPublicHex)
	}
	aura["authorities"] = authorities
	return addSessionKeys(spec, in, "aura", func(a AuthorityInput) string { return a.AuraPublicHex })
}

func defaultAddGrandpaAuthorities(spec *Spec, in Inputs) error {
	grandpa := path(spec.Tree(), "genesis", "runtime", "grandpa")
	authorities := list(spec.Tree(), []string{"genesis", "runtime", "grandpa"}, "authorities")
	for _, a := range in.Authorities {
		if a.GrandpaPublicHex == "" {
			continue
		}
		authorities = append(authorities, []any{a.GrandpaPublicHex, 1})
	}
	grandpa["authorities"] = authorities
	return addSessionKeys(spec, in, "gran", func(a AuthorityInput) string { return a.GrandpaPublicHex })
}

// addSessionKeys appends one (account, account, keys) session tuple per
// authority that has a non-empty key for the given slot, matching the
// canonical `genesis.runtime.session.keys` shape shared by all the
// chain-agnostic authority edits.
func addSessionKeys(spec *Spec, in Inputs, slot string, pick func(AuthorityInput) string) error {
	session := path(spec.Tree(), "genesis", "runtime", "session")
	keys := list(spec.Tree(), []string{"genesis", "runtime", "session"}, "keys")
	for _, a := range in.Authorities {
		key := pick(a)
		if key == "" {
			continue
		}
		keys = append(keys, []any{
			a.AccountSS58,
			a.AccountSS58,
			map[string]any{slot: key},
		})
	}
	session["keys"] = keys
	return nil
}

func defaultAddCollatorSelection(spec *Spec, in Inputs) error {
	cs := path(spec.Tree(), "genesis", "runtime", "collatorSelection")
	invulnerables := list(spec.Tree(), []string{"genesis", "runtime", "collatorSelection"}, "invulnerables")
	for _, a := range in.Authorities {
		if !a.Invulnerable {
			continue
		}
		invulnerables = append(invulnerables, a.AccountSS58)
	}
	cs["invulnerables"] = invulnerables
	return nil
}

func defaultAddBalances(spec *Spec, in Inputs) error {
	balances := path(spec.Tree(), "genesis", "runtime", "balances")
	entries := list(spec.Tree(), []string{"genesis", "runtime", "balances"}, "balances")
	for _, b := range in.Balances {
		entries = append(entries, []any{b.AccountSS58, b.Amount})
	}
	balances["balances"] = entries
	return nil
}

func defaultAddStaking(spec *Spec, in Inputs) error {
	staking := path(spec.Tree(), "genesis", "runtime", "staking")
	stakers := list(spec.Tree(), []string{"genesis", "runtime", "staking"}, "stakers")
	for _, a := range in.Authorities {
		if a.AuthorityDiscoveryHex == "" {
			continue
		}
		stakers = append(stakers, []any{a.AccountSS58, a.AccountSS58, "0", "Validator"})
	}
	staking["stakers"] = stakers
	return nil
}

func defaultAddHrmpChannels(spec *Spec, in Inputs) error {
	cfg := path(spec.Tree(), "genesis", "runtime", "parachainsConfiguration", "config")
	channels := list(spec.Tree(), []string{"genesis", "runtime", "parachainsConfiguration", "config"}, "hrmpChannels")
	for _, c := range in.HrmpChannels {
		channels = append(channels, map[string]any{
			"sender":         c.Sender,
			"recipient":      c.Recipient,
			"maxCapacity":    c.MaxCapacity,
			"maxMessageSize": c.MaxMessageSize,
		})
	}
	cfg["hrmpChannels"] = channels
	return nil
}
