// Package native runs every node as a plain child process on the host,
// grounded on the teacher's internal/node/local.go PID-file/SIGTERM-
// then-SIGKILL idiom — generalized here from that file's single
// cosmos-specific LocalManager into the process.Manager abstraction so
// the same logic serves any node binary (§4.6).
package native

import (
	"context"
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/google/uuid"

	"github.com/paritytech/zombienet-go/internal/paths"
	"github.com/paritytech/zombienet-go/internal/process"
	"github.com/paritytech/zombienet-go/internal/provider"
)

const (
	sigstop = syscall.SIGSTOP
	sigcont = syscall.SIGCONT
)

func init() {
	provider.Register("native", func() provider.Provider { return New(process.NewOSManager()) })
}

// Provider spawns nodes as local OS processes.
type Provider struct {
	manager process.Manager

	mu         sync.Mutex
	namespaces map[string]*Namespace
}

func New(manager process.Manager) *Provider {
	return &Provider{manager: manager, namespaces: make(map[string]*Namespace)}
}

func (p *Provider) Name() string { return "native" }

func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{PrefixWithFullPath: true}
}

func (p *Provider) CreateNamespace(ctx context.Context) (provider.Namespace, error) {
	return p.CreateNamespaceWithBaseDir(ctx, paths.DefaultBaseDir())
}

func (p *Provider) CreateNamespaceWithBaseDir(ctx context.Context, baseDir string) (provider.Namespace, error) {
	name := fmt.Sprintf("zombie-%s", uuid.NewString())
	dir := paths.NamespaceDir(baseDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("native: create namespace dir %s: %w", dir, err)
	}

	ns := &Namespace{
		name:    name,
		baseDir: baseDir,
		dir:     dir,
		manager: p.manager,
		nodes:   make(map[string]*Node),
	}

	p.mu.Lock()
	p.namespaces[name] = ns
	p.mu.Unlock()
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

// Namespace is a directory under the provider's base dir holding every
// spawned node's files.
type Namespace struct {
	name    string
	baseDir string
	dir     string
	manager process.Manager

	mu    sync.Mutex
	nodes map[string]*Node
}

func (n *Namespace) Name() string    { return n.name }
func (n *Namespace) BaseDir() string { return n.dir }

func (n *Namespace) SpawnNode(ctx context.Context, def provider.NodeDefinition) (provider.Node, error) {
	nodeDir := paths.NodeDir(n.baseDir, n.name, def.Name)
	if err := os.MkdirAll(nodeDir, 0o755); err != nil {
		return nil, fmt.Errorf("native: create node dir %s: %w", nodeDir, err)
	}

	logPath := paths.LogFile(n.baseDir, n.name, def.Name)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("native: open log file %s: %w", logPath, err)
	}

	cmd := process.Command{
		Program:     def.Program,
		Args:        def.Args,
		Env:         def.Env,
		Dir:         nodeDir,
		Stdout:      process.StdioPiped,
		Stderr:      process.StdioPiped,
		KillOnClose: true,
	}
	proc, err := n.manager.Start(ctx, cmd)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("native: start %s: %w", def.Name, err)
	}

	go process.PipeToLog(ctx, proc.Stdout(), func(b []byte) error { _, err := logFile.Write(b); return err })
	go process.PipeToLog(ctx, proc.Stderr(), func(b []byte) error { _, err := logFile.Write(b); return err })

	pidPath := paths.PIDFile(n.baseDir, n.name, def.Name)
	_ = os.WriteFile(pidPath, []byte(fmt.Sprintf("%d", proc.PID())), 0o644)

	node := &Node{def: def, proc: proc, logFile: logFile, logPath: logPath}

	n.mu.Lock()
	n.nodes[def.Name] = node
	n.mu.Unlock()
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

func (n *Namespace) Destroy(ctx context.Context) error {
	n.mu.Lock()
	nodes := make([]*Node, 0, len(n.nodes))
	for _, nd := range n.nodes {
		nodes = append(nodes, nd)
	}
	n.nodes = make(map[string]*Node)
	n.mu.Unlock()

	var firstErr error
	for _, nd := range nodes {
		if err := nd.Destroy(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := os.RemoveAll(n.dir); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("native: remove namespace dir %s: %w", n.dir, err)
	}
	return firstErr
}

// Node is a running child process.
type Node struct {
	def     provider.NodeDefinition
	proc    process.Process
	logFile *os.File
	logPath string

	mu      sync.Mutex
	paused  bool
}

func (nd *Node) Name() string { return nd.def.Name }

func (nd *Node) Logs(ctx context.Context) (string, error) {
	data, err := os.ReadFile(nd.logPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Pause/Resume send SIGSTOP/SIGCONT, the Unix job-control signals for
// suspending a process in place without losing its state — no container
// runtime to delegate to here, unlike Docker/Kubernetes.
func (nd *Node) Pause(ctx context.Context) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.paused = true
	return nd.proc.Signal(sigstop)
}

func (nd *Node) Resume(ctx context.Context) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.paused = false
	return nd.proc.Signal(sigcont)
}

func (nd *Node) Restart(ctx context.Context) error {
	return fmt.Errorf("native: Restart requires namespace-level respawn, not yet wired for node %q", nd.def.Name)
}

func (nd *Node) Destroy(ctx context.Context) error {
	err := nd.proc.Close()
	nd.logFile.Close()
	return err
}

var _ provider.Provider = (*Provider)(nil)
var _ provider.Namespace = (*Namespace)(nil)
var _ provider.Node = (*Node)(nil)
