// Package paraartifact produces a parachain's genesis WASM and genesis
// state — either by copying a provided file into the namespace, or by
// running the collator binary's export commands (§4.5).
package paraartifact

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/process"
	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// Kind distinguishes the two artifacts a parachain needs at genesis.
type Kind string

const (
	KindWASM  Kind = "wasm"
	KindState Kind = "state"
)

// Request describes how to produce one artifact for one parachain.
type Request struct {
	ParaID    uint32
	Kind      Kind
	// ProvidedPath, if set, is copied into Dest as-is (genesis_wasm_path /
	// genesis_state_path).
	ProvidedPath string
	// Binary and Args, used when ProvidedPath is empty: the collator binary and
	// the export subcommand args, e.g. ["export-genesis-wasm"] or
	// ["export-genesis-state"], optionally with "--chain", rawSpecPath.
	Binary string
	Args   []string
	// Dest is the namespace-relative destination path, e.g.
	// "<ns>/2000.wasm" or "<ns>/2000.state".
	Dest string
	// Override, if non-nil, replaces the produced bytes unconditionally
	// (wasm_override, §4.5) — only meaningful for KindWASM.
	Override []byte
}

// Builder runs artifact production against a process manager and a
// namespace filesystem, grounded on the teacher's provisioner copy-then-
// export idiom (internal/provision/provisioner.go), generalized from a
// single genesis-snapshot file to arbitrary per-parachain artifact bytes.
type Builder struct {
	Manager process.Manager
	FS      fs.FS
}

// Build produces req.Dest, returning the bytes it wrote.
func (b *Builder) Build(ctx context.Context, req Request) ([]byte, error) {
	if req.Override != nil {
		if err := b.FS.WriteFile(ctx, req.Dest, req.Override, 0o644); err != nil {
			return nil, err
		}
		return req.Override, nil
	}

	if req.ProvidedPath != "" {
		if err := b.FS.Copy(ctx, req.ProvidedPath, req.Dest); err != nil {
			return nil, err
		}
		return b.FS.ReadFile(ctx, req.Dest)
	}

	data, err := b.runExport(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := b.FS.WriteFile(ctx, req.Dest, data, 0o644); err != nil {
		return nil, err
	}
	return data, nil
}

func (b *Builder) runExport(ctx context.Context, req Request) ([]byte, error) {
	cmd := process.Command{
		Program: req.Binary,
		Args:    req.Args,
		Stdout:  process.StdioPiped,
		Stderr:  process.StdioPiped,
	}
	proc, err := b.Manager.Start(ctx, cmd)
	if err != nil {
		return nil, &zerrors.GeneratorError{Kind: "paraartifact", Err: err}
	}
	defer proc.Close()

	var out, errOut bytes.Buffer
	if stdout := proc.Stdout(); stdout != nil {
		if _, err := io.Copy(&out, stdout); err != nil {
			return nil, &zerrors.GeneratorError{Kind: "paraartifact", Err: err}
		}
	}
	if stderr := proc.Stderr(); stderr != nil {
		_, _ = io.Copy(&errOut, stderr)
	}
	if err := proc.Wait(ctx); err != nil {
		return nil, &zerrors.GeneratorError{
			Kind: "paraartifact",
			Err:  fmt.Errorf("%s for para artifact %q: %w: %s", req.Binary, req.Dest, err, errOut.String()),
		}
	}
	return out.Bytes(), nil
}
