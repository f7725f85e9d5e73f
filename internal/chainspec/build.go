package chainspec

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/process"
	"github.com/paritytech/zombienet-go/internal/zerrors"
)

const defaultFilePerm = 0o644

// BuildRequest describes how to produce one chain's spec file (§4.4).
type BuildRequest struct {
	// Chain is the logical chain name passed to `--chain`.
	Chain string
	// Binary is the node binary that understands `build-spec`.
	Binary string
	// PlainPath, if non-empty, is a pre-built plain-spec file read in
	// place of Binary's plain `build-spec` run; Binary is still invoked
	// for the `--raw` conversion.
	PlainPath string
	// PlainDest/RawDest are the namespace-relative output paths for the
	// plain and raw documents.
	PlainDest string
	RawDest   string
	// RawOverride is an optional RFC 7396 merge patch applied to the raw
	// document before it is written (§4.4 step 5).
	RawOverride map[string]any
	// RuntimeWASM, if non-nil, replaces genesis.runtimeGenesis.code.
	RuntimeWASM []byte
}

// Builder runs the plain/raw chain-spec pipeline (§4.4) against a process
// manager and a namespace filesystem.
type Builder struct {
	Manager  process.Manager
	FS       fs.FS
	Pipeline *Pipeline
}

// Build produces req.PlainDest and req.RawDest, applying decorators (via
// in) and any raw override, per §4.4's five-step pipeline.
func (b *Builder) Build(ctx context.Context, req BuildRequest, in Inputs, isPara bool) error {
	plainBytes, err := b.producePlain(ctx, req)
	if err != nil {
		return err
	}
	if err := b.FS.WriteFile(ctx, req.PlainDest, plainBytes, defaultFilePerm); err != nil {
		return err
	}

	spec, err := Parse(plainBytes)
	if err != nil {
		return err
	}
	if b.Pipeline != nil {
		if isPara {
			err = b.Pipeline.RunPara(spec, in)
		} else {
			err = b.Pipeline.RunRelay(spec, in)
		}
		if err != nil {
			return err
		}
	}
	mutated, err := spec.Marshal()
	if err != nil {
		return &zerrors.GeneratorError{Kind: "chainspec-marshal", Err: err}
	}
	if err := b.FS.WriteFile(ctx, req.PlainDest, mutated, defaultFilePerm); err != nil {
		return err
	}

	rawBytes, err := b.runBuildSpec(ctx, req.Binary, "--raw", "--chain", req.PlainDest)
	if err != nil {
		return err
	}
	raw, err := Parse(rawBytes)
	if err != nil {
		return err
	}
	if req.RuntimeWASM != nil {
		raw.ReplaceRuntimeCode(req.RuntimeWASM)
	}
	if err := raw.ApplyRawOverride(req.RawOverride); err != nil {
		return err
	}
	final, err := raw.Marshal()
	if err != nil {
		return &zerrors.GeneratorError{Kind: "chainspec-marshal", Err: err}
	}
	if err := b.FS.WriteFile(ctx, req.RawDest, final, defaultFilePerm); err != nil {
		return err
	}
	return nil
}

func (b *Builder) producePlain(ctx context.Context, req BuildRequest) ([]byte, error) {
	if req.PlainPath != "" {
		return b.FS.ReadFile(ctx, req.PlainPath)
	}
	return b.runBuildSpec(ctx, req.Binary, "--chain", req.Chain, "--disable-default-bootnode")
}

func (b *Builder) runBuildSpec(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := process.Command{
		Program: binary,
		Args:    append([]string{"build-spec"}, args...),
		Stdout:  process.StdioPiped,
		Stderr:  process.StdioPiped,
	}
	proc, err := b.Manager.Start(ctx, cmd)
	if err != nil {
		return nil, &zerrors.SpawnerError{Node: binary, Err: err}
	}
	defer proc.Close()

	var out, errOut bytes.Buffer
	if stdout := proc.Stdout(); stdout != nil {
		if _, err := io.Copy(&out, stdout); err != nil {
			return nil, &zerrors.SpawnerError{Node: binary, Err: err}
		}
	}
	if stderr := proc.Stderr(); stderr != nil {
		_, _ = io.Copy(&errOut, stderr)
	}
	if err := proc.Wait(ctx); err != nil {
		return nil, &zerrors.SpawnerError{Node: binary, Err: fmt.Errorf("%w: %s", err, errOut.String())}
	}
	return out.Bytes(), nil
}
