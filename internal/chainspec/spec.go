// Package chainspec builds and mutates chain specification JSON for the
// relay chain and each parachain (§4.4): plain spec generation, decorator
// edits, raw spec generation, and a final merge-patch override.
package chainspec

import (
	"encoding/json"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// Spec is a parsed chain-spec document. The orchestrator never needs the
// full runtime type, so it is kept as a generic JSON tree rather than a
// chain-specific struct.
type Spec struct {
	tree map[string]any
}

// Parse loads a plain or raw chain-spec document from its JSON bytes.
func Parse(data []byte) (*Spec, error) {
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, &zerrors.GeneratorError{Kind: "chainspec-parse", Err: err}
	}
	return &Spec{tree: tree}, nil
}

// Marshal serializes the spec back to JSON indented by two spaces — the
// orchestrator writes it straight to disk.
func (s *Spec) Marshal() ([]byte, error) {
	return json.MarshalIndent(s.tree, "", "  ")
}

// Tree exposes the underlying generic document for decorators and the
// default chain-agnostic edits.
func (s *Spec) Tree() map[string]any {
	return s.tree
}

// path walks a dotted key path, creating intermediate maps as needed, and
// returns the map that directly holds the final key.
func path(root map[string]any, keys ...string) map[string]any {
	cur := root
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[k] = next
		}
		cur = next
	}
	return cur
}

// list returns the []any stored at the dotted path under key, creating an
// empty one if absent or of the wrong type.
func list(root map[string]any, keys []string, key string) []any {
	m := path(root, keys...)
	arr, ok := m[key].([]any)
	if !ok {
		arr = []any{}
	}
	return arr
}
