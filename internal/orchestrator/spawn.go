package orchestrator

import (
	"context"
	"fmt"
	"os"
	"time"

	"cosmossdk.io/log"

	"github.com/paritytech/zombienet-go/internal/chainspec"
	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/generator"
	"github.com/paritytech/zombienet-go/internal/netconfig"
	"github.com/paritytech/zombienet-go/internal/output"
	"github.com/paritytech/zombienet-go/internal/paraartifact"
	"github.com/paritytech/zombienet-go/internal/paths"
	"github.com/paritytech/zombienet-go/internal/process"
	"github.com/paritytech/zombienet-go/internal/provider"
	"github.com/paritytech/zombienet-go/internal/spawner"
	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// Orchestrator drives a network's full lifecycle, directly grounded on
// the teacher's internal/devnet/runner.go RunService.Start — its
// multi-stage progress.Stage(...) narration over prerequisites →
// provision → generate → init → configure → start → wait-healthy is
// generalized here from a single fixed cosmos devnet's stage list to
// this pipeline's validate → build-relay-spec → build-para-artifacts →
// spawn-relay → spawn-collators → verify stages, and its dual-logger pattern
// (structured cosmossdk.io/log alongside colored output.Logger) is kept
// as-is.
type Orchestrator struct {
	Provider provider.Provider
	FS       fs.FS
	Manager  process.Manager

	Logger       *output.Logger
	StructLogger log.Logger

	// WaitReady is the per-node readiness probe, defaulting to
	// spawner.WaitReady (an HTTP poll of the node's Prometheus
	// endpoint). Tests override it to avoid depending on a real node
	// process answering on a real port.
	WaitReady func(ctx context.Context, nodeName, promURL string, timeout time.Duration) error
}

// New builds an Orchestrator with sensible defaults for any field left
// nil.
func New(p provider.Provider, filesystem fs.FS, manager process.Manager) *Orchestrator {
	return &Orchestrator{
		Provider:     p,
		FS:           filesystem,
		Manager:      manager,
		Logger:       output.NewLogger(),
		StructLogger: log.NewLogger(os.Stderr),
		WaitReady: func(ctx context.Context, nodeName, promURL string, timeout time.Duration) error {
			return spawner.WaitReady(ctx, nil, nodeName, promURL, timeout)
		},
	}
}

// Spawn runs the full pipeline (§4.8) and returns a live NetworkHandle.
func (o *Orchestrator) Spawn(ctx context.Context, cfg netconfig.NetworkConfig) (*NetworkHandle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	networkTimeout := cfg.Settings.NetworkSpawnTimeoutDuration()
	ctx, cancel := context.WithTimeout(ctx, networkTimeout)
	defer cancel()

	progress := output.NewProgress(6)
	slog := o.StructLogger.With("component", "orchestrator")

	progress.Stage("validating configuration")
	slog.Info("configuration validated", "parachains", len(cfg.Parachains))

	baseDir := cfg.Settings.BaseDir
	if baseDir == "" {
		baseDir = paths.DefaultBaseDir()
	}
	ns, err := o.Provider.CreateNamespaceWithBaseDir(ctx, baseDir)
	if err != nil {
		return nil, &zerrors.ProviderError{Provider: o.Provider.Name(), Kind: "spawn", Err: err}
	}
	handle := newHandle(ns)

	progress.Stage("building relay chain spec")
	relaySpec, err := o.buildRelaySpec(ctx, ns, cfg)
	if err != nil {
		_ = ns.Destroy(ctx)
		return nil, err
	}

	progress.Stage("building parachain artifacts")
	paraArtifacts, err := o.buildParaArtifacts(ctx, ns, cfg)
	if err != nil {
		_ = ns.Destroy(ctx)
		return nil, err
	}

	if err := o.mergeInGenesisParachains(ctx, ns, cfg, relaySpec, paraArtifacts); err != nil {
		_ = ns.Destroy(ctx)
		return nil, err
	}

	progress.Stage("spawning relay chain nodes")
	if err := o.spawnRelayNodes(ctx, ns, handle, cfg, relaySpec); err != nil {
		_ = ns.Destroy(ctx)
		return nil, err
	}

	progress.Stage("spawning parachain collators")
	for _, para := range cfg.Parachains {
		handle.AddParachain(para.UniqueID, para.ParaID)
		if para.RegistrationStrategy == netconfig.RegistrationUsingExtrinsic {
			slog.Info("parachain registration via extrinsic is performed by the caller through internal/txclient", "para_id", para.ParaID)
		}
		if err := o.spawnCollators(ctx, ns, handle, para, relaySpec); err != nil {
			_ = ns.Destroy(ctx)
			return nil, err
		}
	}

	progress.Stage("verifying readiness")
	progress.Done(fmt.Sprintf("network %s is up", ns.Name()))

	if err := o.persistHandle(ctx, ns, baseDir, handle); err != nil {
		slog.Error("failed to persist network handle", "err", err)
	}

	return handle, nil
}

func (o *Orchestrator) buildRelaySpec(ctx context.Context, ns provider.Namespace, cfg netconfig.NetworkConfig) (*chainspec.Spec, error) {
	pipeline := chainspec.NewPipeline()
	builder := &chainspec.Builder{Manager: o.Manager, FS: o.FS, Pipeline: pipeline}

	req := chainspec.BuildRequest{
		Chain:       cfg.RelayChain.Chain,
		Binary:      cfg.RelayChain.DefaultCommand,
		PlainPath:   cfg.RelayChain.ChainSpecPath,
		PlainDest:   paths.ChainSpecPlainPath(ns.BaseDir(), ns.Name(), cfg.RelayChain.Chain),
		RawDest:     paths.ChainSpecRawPath(ns.BaseDir(), ns.Name(), cfg.RelayChain.Chain),
		RawOverride: cfg.RelayChain.RawSpecOverride,
	}

	in := chainspec.Inputs{}
	for _, n := range cfg.RelayChain.Nodes {
		if !n.IsValidator {
			continue
		}
		authority, err := authorityInputFor(n)
		if err != nil {
			return nil, err
		}
		in.Authorities = append(in.Authorities, authority)
	}
	for _, ch := range cfg.HrmpChannels {
		in.HrmpChannels = append(in.HrmpChannels, chainspec.HrmpChannelInput{
			Sender: ch.Sender, Recipient: ch.Recipient,
			MaxCapacity: ch.MaxCapacity, MaxMessageSize: ch.MaxMessageSize,
		})
	}

	if err := builder.Build(ctx, req, in, false); err != nil {
		return nil, err
	}
	raw, err := o.FS.ReadFile(ctx, req.RawDest)
	if err != nil {
		return nil, err
	}
	return chainspec.Parse(raw)
}

// authorityInputFor derives a validator's session-key material from its
// name-seeded account triple (§4.3's seed = "//" + name), mapping the sr/
// ed/ec slots onto the four session-key flavors the relay genesis needs:
// aura and authority-discovery both take the sr25519-family key, grandpa
// takes the ed25519-family key, and beefy takes the ecdsa-family key —
// matching the real key types those subsystems expect.
func authorityInputFor(n netconfig.NodeSpec) (chainspec.AuthorityInput, error) {
	accounts, err := generator.GenerateKeys("//" + n.Name)
	if err != nil {
		return chainspec.AuthorityInput{}, err
	}
	return chainspec.AuthorityInput{
		Name:                  n.Name,
		AccountSS58:           accounts.SR.SS58,
		AuraPublicHex:         accounts.SR.PublicHex,
		GrandpaPublicHex:      accounts.ED.PublicHex,
		AuthorityDiscoveryHex: accounts.SR.PublicHex,
		BeefyPublicHex:        accounts.EC.PublicHex,
		Invulnerable:          n.IsInvulnerable,
	}, nil
}

func (o *Orchestrator) buildParaArtifacts(ctx context.Context, ns provider.Namespace, cfg netconfig.NetworkConfig) (map[string][2]string, error) {
	builder := &paraartifact.Builder{Manager: o.Manager, FS: o.FS}
	out := make(map[string][2]string, len(cfg.Parachains))

	for _, para := range cfg.Parachains {
		wasmDest := paths.ParaArtifactWASMPath(ns.BaseDir(), ns.Name(), para.UniqueID)
		stateDest := paths.ParaArtifactStatePath(ns.BaseDir(), ns.Name(), para.UniqueID)

		var override []byte
		if para.WASMOverride != "" {
			data, err := o.FS.ReadFile(ctx, para.WASMOverride)
			if err != nil {
				return nil, err
			}
			override = data
		}

		if _, err := builder.Build(ctx, paraartifact.Request{
			ParaID: para.ParaID, Kind: paraartifact.KindWASM,
			ProvidedPath: para.GenesisWASMPath, Binary: collatorBinary(para),
			Args: []string{"export-genesis-wasm"}, Dest: wasmDest, Override: override,
		}); err != nil {
			return nil, err
		}
		if _, err := builder.Build(ctx, paraartifact.Request{
			ParaID: para.ParaID, Kind: paraartifact.KindState,
			ProvidedPath: para.GenesisStatePath, Binary: collatorBinary(para),
			Args: []string{"export-genesis-state"}, Dest: stateDest,
		}); err != nil {
			return nil, err
		}
		out[para.UniqueID] = [2]string{wasmDest, stateDest}
	}
	return out, nil
}

// mergeInGenesisParachains folds every InGenesis parachain's genesis head
// and validation code into the relay spec's raw document and rewrites it
// to disk, so spawnRelayNodes's --chain argument already carries the
// parachain at first block (§4.8: "if registration_strategy == in_genesis,
// merge the parachain into the relay genesis before spawning").
// UsingExtrinsic parachains are deliberately left out here — the caller
// registers those itself via internal/txclient once the relay chain is
// up and producing blocks.
func (o *Orchestrator) mergeInGenesisParachains(ctx context.Context, ns provider.Namespace, cfg netconfig.NetworkConfig, relaySpec *chainspec.Spec, paraArtifacts map[string][2]string) error {
	var touched bool
	for _, para := range cfg.Parachains {
		if para.RegistrationStrategy != netconfig.RegistrationInGenesis {
			continue
		}
		artifactPaths, ok := paraArtifacts[para.UniqueID]
		if !ok {
			return fmt.Errorf("orchestrator: no genesis artifacts built for in-genesis parachain %s (para_id %d)", para.UniqueID, para.ParaID)
		}
		stateBytes, err := o.FS.ReadFile(ctx, artifactPaths[1])
		if err != nil {
			return err
		}
		wasmBytes, err := o.FS.ReadFile(ctx, artifactPaths[0])
		if err != nil {
			return err
		}
		relaySpec.InjectParachainGenesis(para.ParaID, asHex(stateBytes), asHex(wasmBytes))
		touched = true
	}
	if !touched {
		return nil
	}

	final, err := relaySpec.Marshal()
	if err != nil {
		return err
	}
	rawDest := paths.ChainSpecRawPath(ns.BaseDir(), ns.Name(), cfg.RelayChain.Chain)
	return o.FS.WriteFile(ctx, rawDest, final, 0o644)
}

func asHex(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hextable[v>>4]
		out[i*2+1] = hextable[v&0x0f]
	}
	return "0x" + string(out)
}

func collatorBinary(para netconfig.ParachainSpec) string {
	if len(para.Collators) > 0 && para.Collators[0].Command != "" {
		return para.Collators[0].Command
	}
	return "polkadot-parachain"
}

func (o *Orchestrator) spawnRelayNodes(ctx context.Context, ns provider.Namespace, handle *NetworkHandle, cfg netconfig.NetworkConfig, relaySpec *chainspec.Spec) error {
	chainSpecPath := paths.ChainSpecRawPath(ns.BaseDir(), ns.Name(), cfg.RelayChain.Chain)
	sp := &spawner.Spawner{FS: o.FS, Namespace: ns, BaseDir: ns.BaseDir()}

	ordered := orderBootnodeFirst(cfg.RelayChain.Nodes)

	var bootnodeAddrs []string
	for _, n := range ordered {
		sn, err := sp.SpawnNode(ctx, nodeRequest(n, cfg.RelayChain.DefaultCommand, cfg.RelayChain.DefaultImage, chainSpecPath, cfg.Settings), bootnodeAddrs)
		if err != nil {
			return err
		}
		handle.AddNode(sn.Node)
		if sn.IsBootnode {
			addr := spawner.BootnodeAddr(sn, "127.0.0.1")
			bootnodeAddrs = append(bootnodeAddrs, addr)
			handle.recordBootnodeAddr(addr)
		}
		if err := o.waitReady(ctx, sn, cfg.Settings); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) spawnCollators(ctx context.Context, ns provider.Namespace, handle *NetworkHandle, para netconfig.ParachainSpec, relaySpec *chainspec.Spec) error {
	chainSpecPath := paths.ChainSpecRawPath(ns.BaseDir(), ns.Name(), para.Chain)
	sp := &spawner.Spawner{FS: o.FS, Namespace: ns, BaseDir: ns.BaseDir()}

	for _, c := range para.Collators {
		sn, err := sp.SpawnNode(ctx, nodeRequest(c, collatorBinary(para), "", chainSpecPath, netconfig.GlobalSettings{}), nil)
		if err != nil {
			return err
		}
		handle.AddCollator(para.UniqueID, sn.Node)
	}
	return nil
}

func (o *Orchestrator) waitReady(ctx context.Context, sn *spawner.SpawnedNode, settings netconfig.GlobalSettings) error {
	promURL := fmt.Sprintf("http://127.0.0.1:%d/metrics", sn.PromPort)
	return o.WaitReady(ctx, sn.Node.Name(), promURL, settings.NodeSpawnTimeoutDuration())
}

func nodeRequest(n netconfig.NodeSpec, defaultCommand, defaultImage, chainSpecPath string, settings netconfig.GlobalSettings) spawner.NodeRequest {
	command := n.Command
	if command == "" {
		command = defaultCommand
	}
	image := n.Image
	if image == "" {
		image = defaultImage
	}
	return spawner.NodeRequest{
		Name:            n.Name,
		Command:         command,
		Image:           image,
		Args:            n.Args,
		Env:             n.Env,
		IsValidator:     n.IsValidator,
		IsBootnode:      n.IsBootnode,
		ChainSpecPath:   chainSpecPath,
		PreferredRPC:    n.RPCPort,
		PreferredP2P:    n.P2PPort,
		PreferredProm:   n.PrometheusPort,
		UseDefaultPorts: true,
	}
}

// orderBootnodeFirst moves every node with IsBootnode (or, absent any
// such flag, the first validator) to the front, so its multiaddr is
// known before any other node is spawned (§4.7).
func orderBootnodeFirst(nodes []netconfig.NodeSpec) []netconfig.NodeSpec {
	var boot, rest []netconfig.NodeSpec
	sawBootnode := false
	for _, n := range nodes {
		if n.IsBootnode {
			boot = append(boot, n)
			sawBootnode = true
		} else {
			rest = append(rest, n)
		}
	}
	if !sawBootnode {
		for i, n := range rest {
			if n.IsValidator {
				n.IsBootnode = true
				boot = append(boot, n)
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}
	return append(boot, rest...)
}

func (o *Orchestrator) persistHandle(ctx context.Context, ns provider.Namespace, baseDir string, handle *NetworkHandle) error {
	data, err := handle.marshalRecord(time.Now().UTC())
	if err != nil {
		return err
	}
	return o.FS.WriteFile(ctx, paths.ZombieJSONPath(baseDir, ns.Name()), data, 0o644)
}
