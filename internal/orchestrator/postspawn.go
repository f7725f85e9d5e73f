package orchestrator

import (
	"context"
	"fmt"

	"github.com/paritytech/zombienet-go/internal/netconfig"
	"github.com/paritytech/zombienet-go/internal/paraartifact"
	"github.com/paritytech/zombienet-go/internal/paths"
	"github.com/paritytech/zombienet-go/internal/provider"
	"github.com/paritytech/zombienet-go/internal/spawner"
)

// AddNode runs the same derivation pipeline Spawn uses for a relay-chain
// node — identity, keys, keystore, parked ports, command, then
// namespace.SpawnNode — against an already-running network, joining it
// through the bootnodes recorded at Spawn time (§4.10's add_node).
func (o *Orchestrator) AddNode(ctx context.Context, handle *NetworkHandle, cfg netconfig.NetworkConfig, n netconfig.NodeSpec) (provider.Node, error) {
	if _, ok := handle.GetNode(n.Name); ok {
		return nil, fmt.Errorf("orchestrator: node %q already exists in this network", n.Name)
	}

	ns := handle.Namespace
	chainSpecPath := paths.ChainSpecRawPath(ns.BaseDir(), ns.Name(), cfg.RelayChain.Chain)
	sp := &spawner.Spawner{FS: o.FS, Namespace: ns, BaseDir: ns.BaseDir()}

	req := nodeRequest(n, cfg.RelayChain.DefaultCommand, cfg.RelayChain.DefaultImage, chainSpecPath, cfg.Settings)
	sn, err := sp.SpawnNode(ctx, req, handle.BootnodeAddrs())
	if err != nil {
		return nil, err
	}

	handle.AddNode(sn.Node)
	if sn.IsBootnode {
		handle.recordBootnodeAddr(spawner.BootnodeAddr(sn, "127.0.0.1"))
	}
	if err := o.waitReady(ctx, sn, cfg.Settings); err != nil {
		return nil, err
	}
	return sn.Node, nil
}

// AddCollator spawns one more collator for an already-registered
// parachain, identified by its raw para_id — the first-registered
// parachain with that para_id wins when two share one, matching
// NetworkHandle.Parachain's first-match semantics (§4.10's add_collator).
// cfg must be the same NetworkConfig the parachain was originally spawned
// or added from, since a live handle doesn't itself retain chain names or
// collator binary defaults.
func (o *Orchestrator) AddCollator(ctx context.Context, handle *NetworkHandle, cfg netconfig.NetworkConfig, paraID uint32, n netconfig.NodeSpec) (provider.Node, error) {
	if _, ok := handle.GetNode(n.Name); ok {
		return nil, fmt.Errorf("orchestrator: node %q already exists in this network", n.Name)
	}

	uniqueID, ok := handle.uniqueIDForParaID(paraID)
	if !ok {
		return nil, fmt.Errorf("orchestrator: no parachain with para_id %d in this network", paraID)
	}
	para, ok := findParachainByUniqueID(cfg, uniqueID)
	if !ok {
		return nil, fmt.Errorf("orchestrator: parachain %s (para_id %d) not present in the supplied config", uniqueID, paraID)
	}

	ns := handle.Namespace
	chainSpecPath := paths.ChainSpecRawPath(ns.BaseDir(), ns.Name(), para.Chain)
	sp := &spawner.Spawner{FS: o.FS, Namespace: ns, BaseDir: ns.BaseDir()}

	sn, err := sp.SpawnNode(ctx, nodeRequest(n, collatorBinary(para), "", chainSpecPath, cfg.Settings), nil)
	if err != nil {
		return nil, err
	}
	handle.AddCollator(uniqueID, sn.Node)
	if err := o.waitReady(ctx, sn, cfg.Settings); err != nil {
		return nil, err
	}
	return sn.Node, nil
}

// AddParachain runs §4.5 (genesis artifact production) and spawns a new
// parachain's collators against an already-running network (§4.10's
// add_parachain). The relay chain is already producing blocks by the
// time this runs, so in-genesis merging never applies here — on-chain
// registration by extrinsic is left to the caller through
// internal/txclient, the same split Spawn uses for
// RegistrationUsingExtrinsic parachains.
//
// If para.UniqueID is empty, one is derived from handle via NextUniqueID
// (§3's disambiguation rule), which is what lets a caller deliberately
// reuse an existing para_id (the add_parachain(..., existing_id?) case)
// and still get the two parachains tracked distinctly.
func (o *Orchestrator) AddParachain(ctx context.Context, handle *NetworkHandle, para netconfig.ParachainSpec) error {
	if para.UniqueID == "" {
		para.UniqueID = handle.NextUniqueID(para.ParaID)
	}

	ns := handle.Namespace
	builder := &paraartifact.Builder{Manager: o.Manager, FS: o.FS}
	wasmDest := paths.ParaArtifactWASMPath(ns.BaseDir(), ns.Name(), para.UniqueID)
	stateDest := paths.ParaArtifactStatePath(ns.BaseDir(), ns.Name(), para.UniqueID)

	var override []byte
	if para.WASMOverride != "" {
		data, err := o.FS.ReadFile(ctx, para.WASMOverride)
		if err != nil {
			return err
		}
		override = data
	}
	if _, err := builder.Build(ctx, paraartifact.Request{
		ParaID: para.ParaID, Kind: paraartifact.KindWASM,
		ProvidedPath: para.GenesisWASMPath, Binary: collatorBinary(para),
		Args: []string{"export-genesis-wasm"}, Dest: wasmDest, Override: override,
	}); err != nil {
		return err
	}
	if _, err := builder.Build(ctx, paraartifact.Request{
		ParaID: para.ParaID, Kind: paraartifact.KindState,
		ProvidedPath: para.GenesisStatePath, Binary: collatorBinary(para),
		Args: []string{"export-genesis-state"}, Dest: stateDest,
	}); err != nil {
		return err
	}

	handle.AddParachain(para.UniqueID, para.ParaID)

	chainSpecPath := paths.ChainSpecRawPath(ns.BaseDir(), ns.Name(), para.Chain)
	sp := &spawner.Spawner{FS: o.FS, Namespace: ns, BaseDir: ns.BaseDir()}
	for _, c := range para.Collators {
		if _, ok := handle.GetNode(c.Name); ok {
			return fmt.Errorf("orchestrator: node %q already exists in this network", c.Name)
		}
		sn, err := sp.SpawnNode(ctx, nodeRequest(c, collatorBinary(para), "", chainSpecPath, netconfig.GlobalSettings{}), nil)
		if err != nil {
			return err
		}
		handle.AddCollator(para.UniqueID, sn.Node)
	}
	return nil
}

func findParachainByUniqueID(cfg netconfig.NetworkConfig, uniqueID string) (netconfig.ParachainSpec, bool) {
	for _, p := range cfg.Parachains {
		if p.UniqueID == uniqueID {
			return p, true
		}
	}
	return netconfig.ParachainSpec{}, false
}
