// Package fake is an in-memory Provider implementation satisfying the
// full interface (§4.6, §8) so generators, the spawner, and the
// orchestrator can be tested without touching the OS.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/paritytech/zombienet-go/internal/provider"
)

func init() {
	provider.Register("fake", func() provider.Provider { return New() })
}

// Provider is the in-memory backend.
type Provider struct {
	mu         sync.Mutex
	namespaces map[string]*Namespace
}

func New() *Provider {
	return &Provider{namespaces: make(map[string]*Namespace)}
}

func (p *Provider) Name() string { return "fake" }

func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{}
}

func (p *Provider) CreateNamespace(ctx context.Context) (provider.Namespace, error) {
	return p.CreateNamespaceWithBaseDir(ctx, "")
}

func (p *Provider) CreateNamespaceWithBaseDir(ctx context.Context, baseDir string) (provider.Namespace, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	name := fmt.Sprintf("zombie-%s", uuid.NewString())
	if baseDir == "" {
		baseDir = "/tmp/" + name
	}
	ns := &Namespace{name: name, baseDir: baseDir, nodes: make(map[string]provider.Node)}
	p.namespaces[name] = ns
	return ns, nil
}

func (p *Provider) Namespaces() map[string]provider.Namespace {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]provider.Namespace, len(p.namespaces))
	for k, v := range p.namespaces {
		out[k] = v
	}
	return out
}

// Namespace is the in-memory namespace: it never spawns a real process,
// only records what was asked of it so a test can assert against
// SpawnedDefinitions.
type Namespace struct {
	name    string
	baseDir string

	mu       sync.Mutex
	nodes    map[string]provider.Node
	spawned  []provider.NodeDefinition
	destroyed bool

	// OnSpawn lets a test fail a specific node's spawn, e.g. to exercise
	// the orchestrator's partial-teardown path.
	OnSpawn func(def provider.NodeDefinition) error
}

func (n *Namespace) Name() string    { return n.name }
func (n *Namespace) BaseDir() string { return n.baseDir }

func (n *Namespace) SpawnNode(ctx context.Context, def provider.NodeDefinition) (provider.Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.OnSpawn != nil {
		if err := n.OnSpawn(def); err != nil {
			return nil, err
		}
	}

	node := &Node{name: def.Name, def: def}
	n.nodes[def.Name] = node
	n.spawned = append(n.spawned, def)
	return node, nil
}

func (n *Namespace) Nodes() map[string]provider.Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]provider.Node, len(n.nodes))
	for k, v := range n.nodes {
		out[k] = v
	}
	return out
}

// SpawnedDefinitions returns every NodeDefinition passed to SpawnNode, in
// call order — the primary assertion surface for spawner/orchestrator
// tests.
func (n *Namespace) SpawnedDefinitions() []provider.NodeDefinition {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]provider.NodeDefinition, len(n.spawned))
	copy(out, n.spawned)
	return out
}

func (n *Namespace) Destroy(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destroyed = true
	n.nodes = make(map[string]provider.Node)
	return nil
}

func (n *Namespace) Destroyed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.destroyed
}

// Node is the in-memory node handle.
type Node struct {
	name string
	def  provider.NodeDefinition

	mu       sync.Mutex
	paused   bool
	restarts int
	destroyed bool
}

func (nd *Node) Name() string { return nd.name }

func (nd *Node) Logs(ctx context.Context) (string, error) {
	return fmt.Sprintf("fake logs for %s", nd.name), nil
}

func (nd *Node) Pause(ctx context.Context) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.paused = true
	return nil
}

func (nd *Node) Resume(ctx context.Context) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.paused = false
	return nil
}

func (nd *Node) Restart(ctx context.Context) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.restarts++
	return nil
}

func (nd *Node) Destroy(ctx context.Context) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.destroyed = true
	return nil
}

var _ provider.Provider = (*Provider)(nil)
var _ provider.Namespace = (*Namespace)(nil)
var _ provider.Node = (*Node)(nil)
