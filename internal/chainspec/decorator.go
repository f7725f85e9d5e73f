package chainspec

import (
	"fmt"
	"sort"
	"sync"
)

// Step names one of the chain-agnostic edit points a decorator may claim
// (§4.4.1). Each step falls back independently to its default edit if no
// registered decorator's hook for that step returns handled=true.
type Step string

const (
	StepClearAuthorities     Step = "clear_authorities"
	StepAddAuraAuthorities   Step = "add_aura_authorities"
	StepAddGrandpaAuthorities Step = "add_grandpa_authorities"
	StepAddCollatorSelection Step = "add_collator_selection"
	StepAddBalances          Step = "add_balances"
	StepAddStaking           Step = "add_staking"
	StepAddHrmpChannels      Step = "add_hrmp_channels"
)

// orderedSteps is the fixed application order for a spec build, matching
// §4.4.1's declared sequence (clearing authorities must precede adding
// them; balances/staking/hrmp are independent of authority setup and of
// each other but are still run in a stable order for reproducibility).
var orderedSteps = []Step{
	StepClearAuthorities,
	StepAddAuraAuthorities,
	StepAddGrandpaAuthorities,
	StepAddCollatorSelection,
	StepAddBalances,
	StepAddStaking,
	StepAddHrmpChannels,
}

// DecoratorFunc customizes a spec in place for one step. Returning
// handled=false, err=nil defers to that step's default chain-agnostic
// edit; handled=true, err=nil means the decorator fully handled the step;
// handled=true, err!=nil means it attempted the step and failed, which
// aborts spec generation (§4.4.1).
type DecoratorFunc func(spec *Spec, in Inputs) (handled bool, err error)

// Decorator is a named bundle of per-step hooks, registered once and
// applied to both the relay chain's and every parachain's spec build
// (CustomizeRelay/CustomizePara in the distilled spec become "does this
// decorator apply to relay builds / para builds" via RelayOnly/ParaOnly).
type Decorator struct {
	Name     string
	RelayOnly bool
	ParaOnly  bool
	Hooks    map[Step]DecoratorFunc
}

// registry holds decorators in declaration order, grounded on the
// mutex-guarded name-keyed map idiom used for network-module registration
// in the teacher's codebase, adapted here from an unordered module lookup
// to an ORDERED decorator pipeline: §4.4.1 requires decorators to run in
// declaration order, so a plain map can't serve as the backing store.
type registry struct {
	mu         sync.Mutex
	decorators []Decorator
	byName     map[string]int
}

func newRegistry() *registry {
	return &registry{byName: make(map[string]int)}
}

// Register appends a decorator, in order, after rejecting duplicate names.
func (r *registry) Register(d Decorator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("chainspec: decorator %q already registered", d.Name)
	}
	r.byName[d.Name] = len(r.decorators)
	r.decorators = append(r.decorators, d)
	return nil
}

func (r *registry) List() []Decorator {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Decorator, len(r.decorators))
	copy(out, r.decorators)
	return out
}

func (r *registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.decorators))
	for i, d := range r.decorators {
		names[i] = d.Name
	}
	sort.Strings(names)
	return names
}

// Pipeline holds an ordered set of decorators plus the default
// chain-agnostic edit for each step (§4.4.1). A Pipeline is safe for
// reuse across relay-chain and parachain spec builds.
type Pipeline struct {
	reg *registry
}

// NewPipeline returns an empty pipeline; callers register decorators and
// call RunRelay/RunPara once per spec.
func NewPipeline() *Pipeline {
	return &Pipeline{reg: newRegistry()}
}

// Register adds d to the pipeline in call order.
func (p *Pipeline) Register(d Decorator) error {
	return p.reg.Register(d)
}

// DecoratorNames lists every registered decorator, sorted, for diagnostics.
func (p *Pipeline) DecoratorNames() []string {
	return p.reg.Names()
}

// RunRelay applies every registered decorator not marked ParaOnly to spec,
// step by step in orderedSteps, falling back to the default chain-agnostic
// edit for any step no decorator claims.
func (p *Pipeline) RunRelay(spec *Spec, in Inputs) error {
	return p.run(spec, in, func(d Decorator) bool { return !d.ParaOnly })
}

// RunPara is RunRelay's parachain counterpart.
func (p *Pipeline) RunPara(spec *Spec, in Inputs) error {
	return p.run(spec, in, func(d Decorator) bool { return !d.RelayOnly })
}

func (p *Pipeline) run(spec *Spec, in Inputs, applies func(Decorator) bool) error {
	decorators := p.reg.List()
	for _, step := range orderedSteps {
		claimed := false
		for _, d := range decorators {
			if !applies(d) {
				continue
			}
			fn, ok := d.Hooks[step]
			if !ok || fn == nil {
				continue
			}
			handled, err := fn(spec, in)
			if err != nil {
				return fmt.Errorf("chainspec: decorator %q step %q: %w", d.Name, step, err)
			}
			if handled {
				claimed = true
				break
			}
		}
		if !claimed {
			if err := applyDefault(step, spec, in); err != nil {
				return fmt.Errorf("chainspec: default edit for step %q: %w", step, err)
			}
		}
	}
	return nil
}
