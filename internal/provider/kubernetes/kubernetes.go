// Package kubernetes runs each node as a pod in a dedicated cluster
// namespace, shelling out to `kubectl` rather than importing
// k8s.io/client-go — no repo in the retrieved corpus talks to a cluster
// through the Go client, and `kubectl apply -f -` piped a generated
// manifest is the idiom-consistent choice for a tool meant to be as
// portable as the orchestrator itself (§4.6).
package kubernetes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/paritytech/zombienet-go/internal/provider"
)

func init() {
	provider.Register("kubernetes", func() provider.Provider { return New("") })
}

const defaultNamespacePrefix = "zombie"

// Provider manages one Kubernetes namespace (in the cluster sense) per
// network namespace (in the orchestrator's sense) — an unfortunate but
// unavoidable name collision between the two domains.
type Provider struct {
	kubeconfig string

	mu         sync.Mutex
	namespaces map[string]*Namespace
}

func New(kubeconfig string) *Provider {
	return &Provider{kubeconfig: kubeconfig, namespaces: make(map[string]*Namespace)}
}

func (p *Provider) Name() string { return "kubernetes" }

func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{RequiresImage: true, HasResources: true, UseDefaultPortsInCmd: true}
}

func (p *Provider) CreateNamespace(ctx context.Context) (provider.Namespace, error) {
	return p.CreateNamespaceWithBaseDir(ctx, "")
}

func (p *Provider) CreateNamespaceWithBaseDir(ctx context.Context, baseDir string) (provider.Namespace, error) {
	name := fmt.Sprintf("%s-%s", defaultNamespacePrefix, uuid.NewString())

	manifest, err := yaml.Marshal(namespaceManifest{
		APIVersion: "v1",
		Kind:       "Namespace",
		Metadata:   metadata{Name: name},
	})
	if err != nil {
		return nil, fmt.Errorf("kubernetes: marshal namespace manifest: %w", err)
	}

	klog.V(2).Infof("applying namespace manifest for %s", name)
	if out, err := p.kubectlApply(ctx, manifest); err != nil {
		return nil, fmt.Errorf("kubernetes: create namespace %s: %w: %s", name, err, out)
	}

	ns := &Namespace{name: name, baseDir: baseDir, kubeconfig: p.kubeconfig, nodes: make(map[string]*Node)}
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

func (p *Provider) kubectlApply(ctx context.Context, manifest []byte) ([]byte, error) {
	return p.kubectl(ctx, bytes.NewReader(manifest), "apply", "-f", "-")
}

func (p *Provider) kubectl(ctx context.Context, stdin *bytes.Reader, args ...string) ([]byte, error) {
	full := args
	if p.kubeconfig != "" {
		full = append([]string{"--kubeconfig", p.kubeconfig}, args...)
	}
	cmd := exec.CommandContext(ctx, "kubectl", full...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Namespace is a Kubernetes cluster namespace grouping one pod per node.
type Namespace struct {
	name       string
	baseDir    string
	kubeconfig string

	mu    sync.Mutex
	nodes map[string]*Node
}

func (n *Namespace) Name() string    { return n.name }
func (n *Namespace) BaseDir() string { return n.baseDir }

func (n *Namespace) SpawnNode(ctx context.Context, def provider.NodeDefinition) (provider.Node, error) {
	pod := podManifest{
		APIVersion: "v1",
		Kind:       "Pod",
		Metadata:   metadata{Name: def.Name, Namespace: n.name},
		Spec: podSpec{
			Containers: []containerSpec{{
				Name:    def.Name,
				Image:   def.Image,
				Command: append([]string{def.Program}, def.Args...),
				Env:     envVars(def.Env),
			}},
		},
	}
	manifest, err := yaml.Marshal(pod)
	if err != nil {
		return nil, fmt.Errorf("kubernetes: marshal pod manifest for %s: %w", def.Name, err)
	}

	klog.V(2).Infof("applying pod manifest %s/%s", n.name, def.Name)
	p := &Provider{kubeconfig: n.kubeconfig}
	if out, err := p.kubectlApply(ctx, manifest); err != nil {
		return nil, fmt.Errorf("kubernetes: create pod %s/%s: %w: %s", n.name, def.Name, err, out)
	}

	node := &Node{namespace: n.name, name: def.Name, kubeconfig: n.kubeconfig}
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
	p := &Provider{kubeconfig: n.kubeconfig}
	klog.V(2).Infof("deleting namespace %s", n.name)
	_, err := p.kubectl(ctx, nil, "delete", "namespace", n.name, "--ignore-not-found")
	n.mu.Lock()
	n.nodes = make(map[string]*Node)
	n.mu.Unlock()
	return err
}

// Node is a pod.
type Node struct {
	namespace  string
	name       string
	kubeconfig string
}

func (nd *Node) Name() string { return nd.name }

func (nd *Node) Logs(ctx context.Context) (string, error) {
	p := &Provider{kubeconfig: nd.kubeconfig}
	out, err := p.kubectl(ctx, nil, "logs", "-n", nd.namespace, nd.name)
	return string(out), err
}

// Pause/Resume have no pod-native equivalent; Kubernetes moved away from
// a freeze primitive, so these return an error pointing at Restart.
func (nd *Node) Pause(ctx context.Context) error {
	return fmt.Errorf("kubernetes: pause is not supported for pods, use Restart to cycle %q", nd.name)
}

func (nd *Node) Resume(ctx context.Context) error {
	return fmt.Errorf("kubernetes: resume is not supported for pods, use Restart to cycle %q", nd.name)
}

func (nd *Node) Restart(ctx context.Context) error {
	p := &Provider{kubeconfig: nd.kubeconfig}
	_, err := p.kubectl(ctx, nil, "delete", "pod", "-n", nd.namespace, nd.name, "--wait=false")
	return err
}

func (nd *Node) Destroy(ctx context.Context) error {
	p := &Provider{kubeconfig: nd.kubeconfig}
	_, err := p.kubectl(ctx, nil, "delete", "pod", "-n", nd.namespace, nd.name, "--ignore-not-found")
	return err
}

func envVars(env []string) []envVar {
	out := make([]envVar, 0, len(env))
	for _, kv := range env {
		name, value, ok := cutEnv(kv)
		if !ok {
			continue
		}
		out = append(out, envVar{Name: name, Value: value})
	}
	return out
}

func cutEnv(kv string) (name, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}

// Manifest types, kept minimal: only the fields the orchestrator
// actually sets, marshaled to YAML for `kubectl apply -f -`.

type metadata struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

type namespaceManifest struct {
	APIVersion string   `json:"apiVersion"`
	Kind       string   `json:"kind"`
	Metadata   metadata `json:"metadata"`
}

type envVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type containerSpec struct {
	Name    string   `json:"name"`
	Image   string   `json:"image"`
	Command []string `json:"command,omitempty"`
	Env     []envVar `json:"env,omitempty"`
}

type podSpec struct {
	Containers []containerSpec `json:"containers"`
}

type podManifest struct {
	APIVersion string   `json:"apiVersion"`
	Kind       string   `json:"kind"`
	Metadata   metadata `json:"metadata"`
	Spec       podSpec  `json:"spec"`
}

var _ provider.Provider = (*Provider)(nil)
var _ provider.Namespace = (*Namespace)(nil)
var _ provider.Node = (*Node)(nil)
