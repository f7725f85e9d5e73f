// Package orchestrator drives the end-to-end network lifecycle:
// validate → build chain specs → spawn the relay chain → register and
// spawn parachains → verify readiness (§4.8), and the post-spawn
// operations exposed on the resulting NetworkHandle (§4.10).
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/paritytech/zombienet-go/internal/provider"
)

// NetworkHandle is the live, in-memory record of a spawned network: its
// namespace, every node grouped by relay/para, and the relay bootnode
// multiaddrs. It is also what gets persisted to zombie.json (§6.3) so a
// later `attach` can reconstruct it.
type NetworkHandle struct {
	Namespace provider.Namespace

	mu            sync.RWMutex
	relayNodes    map[string]provider.Node
	paraNodes     map[string]map[string]provider.Node // keyed by UniqueID (§3), not the raw para_id
	paraIDs       map[string]uint32                   // UniqueID -> raw para_id
	paraOrder     []string                            // UniqueID insertion order, for deterministic first-match lookups
	bootnodeAddrs []string                            // every relay bootnode's multiaddr, for joining nodes added after Spawn
}

func newHandle(ns provider.Namespace) *NetworkHandle {
	return &NetworkHandle{
		Namespace:  ns,
		relayNodes: make(map[string]provider.Node),
		paraNodes:  make(map[string]map[string]provider.Node),
		paraIDs:    make(map[string]uint32),
	}
}

// GetNode returns a relay-chain or parachain-collator node by name.
func (h *NetworkHandle) GetNode(name string) (provider.Node, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n, ok := h.relayNodes[name]; ok {
		return n, true
	}
	for _, nodes := range h.paraNodes {
		if n, ok := nodes[name]; ok {
			return n, true
		}
	}
	return nil, false
}

// AddNode registers a freshly spawned relay-chain node into the handle.
func (h *NetworkHandle) AddNode(n provider.Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relayNodes[n.Name()] = n
}

// AddCollator registers a freshly spawned collator under the parachain
// identified by uniqueID (§3: the orchestrator-assigned id that
// disambiguates two parachains sharing the same raw para_id).
func (h *NetworkHandle) AddCollator(uniqueID string, n provider.Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reserveParachainLocked(uniqueID, 0)
	h.paraNodes[uniqueID][n.Name()] = n
}

// AddParachain reserves an (initially empty) collator set for uniqueID,
// recording its raw para_id, so a caller can observe the parachain exists
// before any collator is spawned (e.g. while registration is still in
// flight).
func (h *NetworkHandle) AddParachain(uniqueID string, paraID uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reserveParachainLocked(uniqueID, paraID)
}

// reserveParachainLocked ensures uniqueID has a collator set and a
// recorded para_id, appending it to paraOrder on first sight. Callers
// must already hold h.mu.
func (h *NetworkHandle) reserveParachainLocked(uniqueID string, paraID uint32) {
	if h.paraNodes[uniqueID] == nil {
		h.paraNodes[uniqueID] = make(map[string]provider.Node)
		h.paraOrder = append(h.paraOrder, uniqueID)
	}
	if paraID != 0 {
		h.paraIDs[uniqueID] = paraID
	}
}

// recordBootnodeAddr remembers a relay bootnode's multiaddr so a node
// added later via AddNode can still join the network.
func (h *NetworkHandle) recordBootnodeAddr(addr string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bootnodeAddrs = append(h.bootnodeAddrs, addr)
}

// BootnodeAddrs returns every relay bootnode's multiaddr known so far.
func (h *NetworkHandle) BootnodeAddrs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string{}, h.bootnodeAddrs...)
}

// NextUniqueID computes the UniqueID a new parachain with paraID would
// be assigned if it were part of the original config, using the same
// first-one-bare, subsequent-ones-suffixed rule netconfig.Validate
// applies (§3) — so add_parachain can share a para_id with an existing
// parachain and still come out distinguishable.
func (h *NetworkHandle) NextUniqueID(paraID uint32) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, id := range h.paraIDs {
		if id == paraID {
			n++
		}
	}
	if n == 0 {
		return fmt.Sprint(paraID)
	}
	return fmt.Sprintf("%d-%d", paraID, n)
}

// uniqueIDForParaID resolves the first-registered parachain with the
// given raw para_id to its UniqueID, mirroring Parachain's first-match
// semantics (§3).
func (h *NetworkHandle) uniqueIDForParaID(paraID uint32) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, uniqueID := range h.paraOrder {
		if h.paraIDs[uniqueID] == paraID {
			return uniqueID, true
		}
	}
	return "", false
}

// Nodes returns every relay-chain node, by name.
func (h *NetworkHandle) Nodes() map[string]provider.Node {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]provider.Node, len(h.relayNodes))
	for k, v := range h.relayNodes {
		out[k] = v
	}
	return out
}

// ParachainByUniqueID returns every collator, by name, for the parachain
// registered under uniqueID — the disambiguated identity from §3 that
// distinguishes two parachains sharing the same raw para_id.
func (h *NetworkHandle) ParachainByUniqueID(uniqueID string) map[string]provider.Node {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]provider.Node, len(h.paraNodes[uniqueID]))
	for k, v := range h.paraNodes[uniqueID] {
		out[k] = v
	}
	return out
}

// Parachain returns every collator, by name, for the first-registered
// parachain with the given raw para_id. When two parachains share a
// para_id (§3), this only ever reaches the first one spawned; a caller
// that needs the second must track its UniqueID and call
// ParachainByUniqueID directly.
func (h *NetworkHandle) Parachain(paraID uint32) map[string]provider.Node {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, uniqueID := range h.paraOrder {
		if h.paraIDs[uniqueID] != paraID {
			continue
		}
		out := make(map[string]provider.Node, len(h.paraNodes[uniqueID]))
		for k, v := range h.paraNodes[uniqueID] {
			out[k] = v
		}
		return out
	}
	return nil
}

// Pause/Resume/Restart/Destroy delegate to the node, erroring with the
// node's name if it isn't part of this network — the operations named
// in §4.10.

func (h *NetworkHandle) Pause(ctx context.Context, name string) error {
	n, ok := h.GetNode(name)
	if !ok {
		return fmt.Errorf("orchestrator: no such node %q", name)
	}
	return n.Pause(ctx)
}

func (h *NetworkHandle) Resume(ctx context.Context, name string) error {
	n, ok := h.GetNode(name)
	if !ok {
		return fmt.Errorf("orchestrator: no such node %q", name)
	}
	return n.Resume(ctx)
}

func (h *NetworkHandle) RestartNode(ctx context.Context, name string) error {
	n, ok := h.GetNode(name)
	if !ok {
		return fmt.Errorf("orchestrator: no such node %q", name)
	}
	return n.Restart(ctx)
}

// Destroy tears down the entire namespace: every relay and parachain
// node, then the namespace's own backend resource.
func (h *NetworkHandle) Destroy(ctx context.Context) error {
	return h.Namespace.Destroy(ctx)
}

// parachainRecord is one parachain's entry in zombie.json, keyed by its
// UniqueID (§3) so two parachains sharing a raw para_id round-trip as
// distinct entries rather than merging.
type parachainRecord struct {
	ParaID    uint32   `json:"para_id"`
	Collators []string `json:"collators"`
}

// record is zombie.json's on-disk shape (§6.3): just enough to let
// AttachToLive tell which of a namespace's running nodes are relay
// nodes versus which parachain's collators, since provider.Namespace
// itself only knows node names.
type record struct {
	Namespace     string                     `json:"namespace"`
	CreatedAt     time.Time                  `json:"created_at"`
	RelayNode     []string                   `json:"relay_nodes"`
	Parachain     map[string]parachainRecord `json:"parachains"` // UniqueID -> para_id + collator names
	BootnodeAddrs []string                   `json:"bootnode_addrs"`
}

func (h *NetworkHandle) marshalRecord(createdAt time.Time) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rec := record{
		Namespace:     h.Namespace.Name(),
		CreatedAt:     createdAt,
		Parachain:     make(map[string]parachainRecord, len(h.paraNodes)),
		BootnodeAddrs: append([]string{}, h.bootnodeAddrs...),
	}
	for name := range h.relayNodes {
		rec.RelayNode = append(rec.RelayNode, name)
	}
	for _, uniqueID := range h.paraOrder {
		nodes := h.paraNodes[uniqueID]
		names := make([]string, 0, len(nodes))
		for name := range nodes {
			names = append(names, name)
		}
		rec.Parachain[uniqueID] = parachainRecord{ParaID: h.paraIDs[uniqueID], Collators: names}
	}
	return json.MarshalIndent(rec, "", "  ")
}

// AttachToLive reconstructs a NetworkHandle for a namespace that is
// already running, by reading its persisted zombie.json record and
// looking up each named node on the live namespace (§6.3 `attach`).
func AttachToLive(ns provider.Namespace, recordBytes []byte) (*NetworkHandle, error) {
	var rec record
	if err := json.Unmarshal(recordBytes, &rec); err != nil {
		return nil, fmt.Errorf("orchestrator: parse zombie.json: %w", err)
	}

	live := ns.Nodes()
	handle := newHandle(ns)
	handle.bootnodeAddrs = append([]string{}, rec.BootnodeAddrs...)

	for _, name := range rec.RelayNode {
		node, ok := live[name]
		if !ok {
			return nil, fmt.Errorf("orchestrator: relay node %q from zombie.json is not running in namespace %q", name, ns.Name())
		}
		handle.AddNode(node)
	}
	for uniqueID, pr := range rec.Parachain {
		handle.AddParachain(uniqueID, pr.ParaID)
		for _, name := range pr.Collators {
			node, ok := live[name]
			if !ok {
				return nil, fmt.Errorf("orchestrator: collator %q from zombie.json is not running in namespace %q", name, ns.Name())
			}
			handle.AddCollator(uniqueID, node)
		}
	}

	return handle, nil
}
