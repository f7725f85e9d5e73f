// Package provider abstracts the backend a network's nodes run on —
// native OS processes, Docker containers, or Kubernetes pods — behind a
// single Provider/Namespace surface (§4.6). A fourth, in-memory
// implementation (internal/provider/fake) lets every other package in the
// module test against the full interface without touching the OS.
package provider

import (
	"context"
)

// Capabilities describes backend-specific behavior the rest of the
// orchestrator must adapt to rather than assume.
type Capabilities struct {
	// RequiresImage is true when a node definition without an Image is
	// invalid for this provider (Docker, Kubernetes).
	RequiresImage bool
	// HasResources is true when CPU/memory limits on a node are
	// meaningful to this provider.
	HasResources bool
	// PrefixWithFullPath is true when the provider must invoke the node
	// binary by an absolute path rather than relying on $PATH.
	PrefixWithFullPath bool
	// UseDefaultPortsInCmd is true when the provider's networking model
	// makes fixed well-known ports (rather than orchestrator-parked ones)
	// the right choice for argv (e.g. one container per node, so port
	// collisions across nodes don't exist).
	UseDefaultPortsInCmd bool
}

// Mount describes a host path made visible inside a node's runtime
// environment (the node's own directory under the namespace, for native;
// a bind mount, for Docker; a config-map/init-container source, for
// Kubernetes).
type Mount struct {
	HostPath      string
	ContainerPath string
	ReadOnly      bool
}

// PortMapping exposes one of a node's ports to the host.
type PortMapping struct {
	Name        string // "rpc" | "p2p" | "prometheus"
	NodePort    int
	HostPort    int
}

// NodeDefinition is everything a Namespace needs to spawn one node
// (§4.7 step 4).
type NodeDefinition struct {
	Name    string
	Program string
	Args    []string
	Env     []string
	Image   string // Docker/Kubernetes only
	Mounts  []Mount
	Ports   []PortMapping
}

// Node is a handle to a spawned, running (or exited) node.
type Node interface {
	Name() string
	// Logs returns the text of the node's captured output, for the
	// orchestrator or the CLI to print.
	Logs(ctx context.Context) (string, error)
	// Pause/Resume suspend/continue the node without destroying it.
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	// Restart cycles the node: Docker restarts the container and
	// Kubernetes deletes the pod. The native provider does not restart
	// processes; its Restart returns an error and leaves the node as is.
	Restart(ctx context.Context) error
	// Destroy stops the node and releases its resources.
	Destroy(ctx context.Context) error
}

// Namespace groups every node and generated file belonging to one
// network spawn.
type Namespace interface {
	Name() string
	BaseDir() string
	SpawnNode(ctx context.Context, def NodeDefinition) (Node, error)
	Nodes() map[string]Node
	// Destroy tears down every node in the namespace and releases
	// whatever backend-level grouping resource (directory, Docker
	// network, Kubernetes namespace) it occupied.
	Destroy(ctx context.Context) error
}

// Provider offers namespaces for a particular backend.
type Provider interface {
	Name() string
	Capabilities() Capabilities
	CreateNamespace(ctx context.Context) (Namespace, error)
	CreateNamespaceWithBaseDir(ctx context.Context, baseDir string) (Namespace, error)
	Namespaces() map[string]Namespace
}
