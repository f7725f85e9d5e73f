// Package spawner composes a single node's derived artifacts (identity,
// keys, keystore, parked ports, command line) into a provider.NodeDefinition
// and spawns it, then polls the node's Prometheus endpoint for readiness
// (§4.7).
package spawner

import (
	"context"
	"fmt"

	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/generator"
	"github.com/paritytech/zombienet-go/internal/paths"
	"github.com/paritytech/zombienet-go/internal/provider"
	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// NodeRequest is everything the spawner needs for one node, already
// resolved by the caller (the orchestrator): config-level fields plus
// the namespace-relative artifact paths it must mount.
type NodeRequest struct {
	Name           string
	Command        string
	Image          string
	Args           []string
	Env            map[string]string
	IsValidator    bool
	IsBootnode     bool
	ChainSpecPath  string // namespace-relative raw spec path
	Flavor         string
	PreferredRPC   int
	PreferredP2P   int
	PreferredProm  int
	UseDefaultPorts bool
}

// SpawnedNode is the result of spawning one node: its provider handle
// plus everything the bootnode-multiaddr and readiness steps need.
type SpawnedNode struct {
	Node     provider.Node
	Identity generator.P2PIdentity
	Accounts generator.NodeAccounts
	P2PPort  int
	RPCPort  int
	PromPort int
	IsBootnode bool
}

// Spawner binds the generator outputs to a namespace.
type Spawner struct {
	FS        fs.FS
	Namespace provider.Namespace
	BaseDir   string
}

// SpawnNode derives a node's identity, keys, keystore, and ports, writes
// the keystore into the namespace, composes the final argv (bootnodes
// already resolved by the caller), and asks the namespace to spawn it.
// Port reservations are released immediately before SpawnNode calls the
// namespace, per §4.7 step 5 — the namespace.SpawnNode call itself is
// the earliest point another process could legitimately bind the port.
func (s *Spawner) SpawnNode(ctx context.Context, req NodeRequest, bootnodes []string) (*SpawnedNode, error) {
	identity, err := generator.GenerateIdentity(req.Name)
	if err != nil {
		return nil, err
	}
	accounts, err := generator.GenerateKeys("//" + req.Name)
	if err != nil {
		return nil, err
	}

	keystoreDir := paths.KeystoreDir(s.BaseDir, s.Namespace.Name(), req.Name)
	if req.IsValidator {
		if err := generator.GenerateKeystore(ctx, s.FS, keystoreDir, accounts, req.Flavor); err != nil {
			return nil, err
		}
	}

	rpcPort, err := generator.GenerateParkedPort(req.PreferredRPC)
	if err != nil {
		return nil, err
	}
	p2pPort, err := generator.GenerateParkedPort(req.PreferredP2P)
	if err != nil {
		rpcPort.Close()
		return nil, err
	}
	promPort, err := generator.GenerateParkedPort(req.PreferredProm)
	if err != nil {
		rpcPort.Close()
		p2pPort.Close()
		return nil, err
	}

	roleFlag := ""
	if req.IsValidator {
		roleFlag = "--validator"
	}
	composed := generator.GenerateCommand(req.Command, generator.DefaultArgs{
		ChainSpecPath:   req.ChainSpecPath,
		BasePath:        paths.NodeDir(s.BaseDir, s.Namespace.Name(), req.Name),
		Name:            req.Name,
		RoleFlag:        roleFlag,
		RPCPort:         rpcPort.Port,
		P2PPort:         p2pPort.Port,
		PrometheusPort:  promPort.Port,
		Bootnodes:       bootnodes,
		UseDefaultPorts: req.UseDefaultPorts,
	}, req.Args)

	env := make([]string, 0, len(req.Env))
	for k, v := range req.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	def := provider.NodeDefinition{
		Name:    req.Name,
		Program: composed.Program,
		Args:    composed.Args,
		Env:     env,
		Image:   req.Image,
		Ports: []provider.PortMapping{
			{Name: "rpc", NodePort: rpcPort.Port, HostPort: rpcPort.Port},
			{Name: "p2p", NodePort: p2pPort.Port, HostPort: p2pPort.Port},
			{Name: "prometheus", NodePort: promPort.Port, HostPort: promPort.Port},
		},
	}

	// Release reservations immediately before handing the ports to the
	// namespace (§4.7 step 5).
	rpcPort.Close()
	p2pPort.Close()
	promPort.Close()

	node, err := s.Namespace.SpawnNode(ctx, def)
	if err != nil {
		return nil, &zerrors.ProviderError{Provider: s.Namespace.Name(), Kind: "spawn", Node: req.Name, Err: err}
	}

	return &SpawnedNode{
		Node:       node,
		Identity:   identity,
		Accounts:   accounts,
		P2PPort:    p2pPort.Port,
		RPCPort:    rpcPort.Port,
		PromPort:   promPort.Port,
		IsBootnode: req.IsBootnode,
	}, nil
}

// BootnodeAddr builds the multiaddress for a spawned bootnode, to be
// injected into every subsequent node's argv as --bootnodes (§4.7).
func BootnodeAddr(sn *SpawnedNode, ip string) string {
	return generator.GenerateBootnodeAddr(sn.Identity.PeerID, ip, sn.P2PPort, nil, "")
}
