package generator

import "strings"

// ComposedCommand is the final program + argv a provider will execute.
type ComposedCommand struct {
	Program string
	Args    []string
}

// DefaultArgs describes the chain-standard flags the generator inserts
// before node-level args, ahead of the removal pass.
type DefaultArgs struct {
	ChainSpecPath  string
	BasePath       string
	Name           string
	RoleFlag       string // "--validator" or "--collator", empty for a plain full node
	RPCPort        int
	P2PPort        int
	PrometheusPort int
	Bootnodes      []string
	// UseDefaultPorts controls whether explicit port flags are emitted;
	// providers whose networking already supplies them (e.g. a
	// container with published ports) set this false.
	UseDefaultPorts bool
}

// GenerateCommand assembles a node's final argv: defaults, then the
// node's own declared args, then the "-:<prefix>" removal pass (§4.3).
func GenerateCommand(program string, defaults DefaultArgs, nodeArgs []string) ComposedCommand {
	argv := []string{
		"--chain", defaults.ChainSpecPath,
		"--base-path", defaults.BasePath,
		"--name", defaults.Name,
	}
	if defaults.RoleFlag != "" {
		argv = append(argv, defaults.RoleFlag)
	}
	if defaults.UseDefaultPorts {
		argv = append(argv,
			"--rpc-port", itoa(defaults.RPCPort),
			"--port", itoa(defaults.P2PPort),
			"--prometheus-port", itoa(defaults.PrometheusPort),
			"--prometheus-external",
			"--rpc-external",
			"--rpc-cors", "all",
		)
	}
	for _, bn := range defaults.Bootnodes {
		argv = append(argv, "--bootnodes", bn)
	}

	argv = append(argv, nodeArgs...)
	argv = applyRemovals(argv)

	return ComposedCommand{Program: program, Args: argv}
}

// applyRemovals strips any argv element beginning with "-:<prefix>" and
// every other element, before or after it, whose string representation
// starts with that prefix. Removal tokens never appear in the output.
func applyRemovals(argv []string) []string {
	var removals []string
	for _, a := range argv {
		if strings.HasPrefix(a, "-:") {
			removals = append(removals, strings.TrimPrefix(a, "-:"))
		}
	}
	if len(removals) == 0 {
		return argv
	}

	out := make([]string, 0, len(argv))
	for _, a := range argv {
		if strings.HasPrefix(a, "-:") {
			continue
		}
		removed := false
		for _, prefix := range removals {
			if strings.HasPrefix(a, prefix) {
				removed = true
				break
			}
		}
		if !removed {
			out = append(out, a)
		}
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
