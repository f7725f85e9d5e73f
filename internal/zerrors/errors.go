// Package zerrors defines the closed set of error types the orchestrator
// returns. Configuration errors carry the configuration-tree path (or
// node name) that produced them; the others wrap the underlying error.
package zerrors

import "fmt"

// UserFacingError is implemented by errors whose Error() string is safe
// to print directly to a terminal without a stack trace or Go-internal
// detail.
type UserFacingError interface {
	error
	UserMessage() string
}

// RecoverableError is implemented by errors that do not require tearing
// down the network — the caller may retry or skip the failed step.
type RecoverableError interface {
	error
	Recoverable() bool
}

// InvalidConfigError reports a configuration value that failed
// validation before any generation or spawning began.
type InvalidConfigError struct {
	Path   string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config at %s: %s", e.Path, e.Reason)
}

func (e *InvalidConfigError) UserMessage() string { return e.Error() }

// InvalidConfigForProviderError reports a configuration value that is
// otherwise well-formed but unsupported by the selected provider (e.g. a
// docker-only field set while running the native provider).
type InvalidConfigForProviderError struct {
	Path     string
	Provider string
	Reason   string
}

func (e *InvalidConfigForProviderError) Error() string {
	return fmt.Sprintf("invalid config at %s for provider %q: %s", e.Path, e.Provider, e.Reason)
}

func (e *InvalidConfigForProviderError) UserMessage() string { return e.Error() }

// InvalidNodeConfigError reports a problem scoped to a single node
// definition (duplicate name, unresolvable command, conflicting port).
type InvalidNodeConfigError struct {
	Node   string
	Reason string
}

func (e *InvalidNodeConfigError) Error() string {
	return fmt.Sprintf("invalid node config for %q: %s", e.Node, e.Reason)
}

func (e *InvalidNodeConfigError) UserMessage() string { return e.Error() }

// InvariantError signals a bug: a precondition the orchestrator itself
// guarantees was violated. It is never expected to surface from correct
// configuration input.
type InvariantError struct {
	Where string
	Want  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %s", e.Where, e.Want)
}

// GlobalTimeoutError reports that a network- or node-level timeout
// elapsed before the pipeline reached the expected state.
type GlobalTimeoutError struct {
	Phase   string
	Seconds int
}

func (e *GlobalTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %ds waiting for %s", e.Seconds, e.Phase)
}

func (e *GlobalTimeoutError) UserMessage() string { return e.Error() }

// GeneratorError reports a failure producing a derived artifact: a key,
// a port, a chain spec, a P2P identity, or a bootnode address.
type GeneratorError struct {
	Kind string // "key" | "port" | "identity" | "filesystem" | "chainspec-parse" | "chainspec-marshal" | "chainspec-override" | "paraartifact" | "sudo-seed"
	Node string
	Err  error
}

func (e *GeneratorError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("generator error (%s) for node %q: %v", e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("generator error (%s): %v", e.Kind, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

// ProviderError reports a failure inside the backend abstraction:
// conflicting namespace, duplicated node name, spawn failure, a node
// that never became ready, or an underlying I/O error.
type ProviderError struct {
	Provider string
	Kind     string // "conflicting-namespace" | "duplicate-node" | "spawn" | "not-ready" | "io"
	Node     string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("provider %s: %s (node %q): %v", e.Provider, e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Recoverable() bool {
	return e.Kind == "not-ready"
}

// FileSystemError reports a failure from the fs abstraction, classified
// per the closed taxonomy §4.1 requires.
type FileSystemError struct {
	Path string
	Kind string // "not-found" | "already-exists" | "is-directory" | "invalid-utf8-path" | "invalid-utf8-file" | "other"
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("filesystem error (%s) at %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// SpawnerError reports a failure composing or launching a single node.
type SpawnerError struct {
	Node string
	Err  error
}

func (e *SpawnerError) Error() string {
	return fmt.Sprintf("spawner error for node %q: %v", e.Node, e.Err)
}

func (e *SpawnerError) Unwrap() error { return e.Err }

// MultiError accumulates independent validation failures so callers can
// report every problem in a configuration tree at once instead of
// failing on the first one.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Add(err error) {
	if err == nil {
		return
	}
	m.Errors = append(m.Errors, err)
}

func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	s := fmt.Sprintf("%d configuration errors:", len(m.Errors))
	for _, e := range m.Errors {
		s += "\n  - " + e.Error()
	}
	return s
}
