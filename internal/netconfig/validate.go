package netconfig

import (
	"fmt"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// Validate checks every invariant in §3 and returns a MultiError
// accumulating every problem found, rather than failing on the first.
func (c *NetworkConfig) Validate() error {
	var errs zerrors.MultiError

	if c.RelayChain.Chain == "" {
		errs.Add(&zerrors.InvalidConfigError{Path: "relaychain.chain", Reason: "required"})
	}
	if c.RelayChain.ChainSpecCommand == "" && c.RelayChain.ChainSpecPath == "" {
		errs.Add(&zerrors.InvalidConfigError{
			Path:   "relaychain",
			Reason: "one of chain_spec_command or chain_spec_path is required",
		})
	}
	if len(c.RelayChain.Nodes) == 0 {
		errs.Add(&zerrors.InvalidConfigError{Path: "relaychain.nodes", Reason: "at least one node is required"})
	}

	names := map[string]string{}
	checkNode := func(path string, n NodeSpec, defaultCommand, defaultImage string) {
		if n.Name == "" {
			errs.Add(&zerrors.InvalidConfigError{Path: path + ".name", Reason: "required"})
			return
		}
		if prior, dup := names[n.Name]; dup {
			errs.Add(&zerrors.InvalidNodeConfigError{
				Node:   n.Name,
				Reason: fmt.Sprintf("duplicate name, already used at %s", prior),
			})
		}
		names[n.Name] = path
		if n.Command == "" && defaultCommand == "" {
			errs.Add(&zerrors.InvalidNodeConfigError{Node: n.Name, Reason: "no resolvable command"})
		}
		if n.Image == "" {
			n.Image = defaultImage
		}
	}

	for i, n := range c.RelayChain.Nodes {
		checkNode(fmt.Sprintf("relaychain.nodes[%d]", i), n, c.RelayChain.DefaultCommand, c.RelayChain.DefaultImage)
	}

	seenParaIDs := map[uint32]int{}
	for i := range c.Parachains {
		p := &c.Parachains[i]
		path := fmt.Sprintf("parachains[%d]", i)
		if p.ParaID == 0 {
			errs.Add(&zerrors.InvalidConfigError{Path: path + ".id", Reason: "required and must be nonzero"})
		}
		switch p.RegistrationStrategy {
		case "", RegistrationInGenesis, RegistrationUsingExtrinsic, RegistrationManual:
		default:
			errs.Add(&zerrors.InvalidConfigError{
				Path:   path + ".registration_strategy",
				Reason: fmt.Sprintf("unknown strategy %q", p.RegistrationStrategy),
			})
		}
		if p.RegistrationStrategy == "" {
			p.RegistrationStrategy = RegistrationInGenesis
		}
		if p.GenesisWASMPath == "" && p.GenesisWASMCommand == "" {
			errs.Add(&zerrors.InvalidConfigError{
				Path:   path,
				Reason: "one of genesis_wasm_path or genesis_wasm_command is required",
			})
		}
		if p.GenesisStatePath == "" && p.GenesisStateCommand == "" {
			errs.Add(&zerrors.InvalidConfigError{
				Path:   path,
				Reason: "one of genesis_state_path or genesis_state_command is required",
			})
		}
		if len(p.Collators) == 0 {
			errs.Add(&zerrors.InvalidConfigError{Path: path + ".collators", Reason: "at least one collator is required"})
		}
		for j, col := range p.Collators {
			checkNode(fmt.Sprintf("%s.collators[%d]", path, j), col, c.defaultCollatorCommand(p), "")
		}

		n := seenParaIDs[p.ParaID]
		if n == 0 {
			p.UniqueID = fmt.Sprint(p.ParaID)
		} else {
			p.UniqueID = fmt.Sprintf("%d-%d", p.ParaID, n)
		}
		seenParaIDs[p.ParaID] = n + 1
	}

	ports := map[int]string{}
	checkPort := func(path string, port int) {
		if port == 0 {
			return
		}
		if prior, dup := ports[port]; dup {
			errs.Add(&zerrors.InvalidConfigError{
				Path:   path,
				Reason: fmt.Sprintf("port %d already used at %s", port, prior),
			})
			return
		}
		ports[port] = path
	}
	for i, n := range c.RelayChain.Nodes {
		base := fmt.Sprintf("relaychain.nodes[%d]", i)
		checkPort(base+".rpc_port", n.RPCPort)
		checkPort(base+".p2p_port", n.P2PPort)
		checkPort(base+".prometheus_port", n.PrometheusPort)
	}
	for i, p := range c.Parachains {
		for j, n := range p.Collators {
			base := fmt.Sprintf("parachains[%d].collators[%d]", i, j)
			checkPort(base+".rpc_port", n.RPCPort)
			checkPort(base+".p2p_port", n.P2PPort)
			checkPort(base+".prometheus_port", n.PrometheusPort)
		}
	}

	for i, h := range c.HrmpChannels {
		path := fmt.Sprintf("hrmp_channels[%d]", i)
		if h.Sender == 0 || h.Recipient == 0 {
			errs.Add(&zerrors.InvalidConfigError{Path: path, Reason: "sender and recipient are both required"})
		}
		if h.MaxCapacity == 0 {
			errs.Add(&zerrors.InvalidConfigError{Path: path + ".max_capacity", Reason: "required"})
		}
	}

	return errs.ErrorOrNil()
}

func (c *NetworkConfig) defaultCollatorCommand(p *ParachainSpec) string {
	if c.RelayChain.DefaultCommand != "" {
		return c.RelayChain.DefaultCommand
	}
	return ""
}
