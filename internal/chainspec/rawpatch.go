package chainspec

import (
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// ApplyRawOverride merges patch, an RFC 7396 JSON merge patch, onto the
// raw spec document (§4.4 step 5). patch is nil-safe: a nil/empty map is
// a no-op.
func (s *Spec) ApplyRawOverride(patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	original, err := s.Marshal()
	if err != nil {
		return &zerrors.GeneratorError{Kind: "chainspec-override", Err: err}
	}

	patchDoc, err := marshalJSON(patch)
	if err != nil {
		return &zerrors.GeneratorError{Kind: "chainspec-override", Err: err}
	}

	merged, err := jsonpatch.MergePatch(original, patchDoc)
	if err != nil {
		return &zerrors.GeneratorError{Kind: "chainspec-override", Err: err}
	}

	parsed, err := Parse(merged)
	if err != nil {
		return &zerrors.GeneratorError{Kind: "chainspec-override", Err: err}
	}
	s.tree = parsed.tree
	return nil
}

// ReplaceRuntimeCode sets genesis.runtimeGenesis.code to the hex-encoded
// wasmBytes, overriding whatever the `build-spec` binary put there
// (§4.4's `chain_spec_runtime` operation, independent of the decorator
// pipeline).
func (s *Spec) ReplaceRuntimeCode(wasmBytes []byte) {
	runtimeGenesis := path(s.tree, "genesis", "runtimeGenesis")
	runtimeGenesis["code"] = "0x" + hexEncode(wasmBytes)
}

// InjectParachainGenesis adds paraID's genesis head and validation code to
// the relay spec's para-registrar genesis list, the raw-spec-level
// counterpart of registering a parachain by extrinsic after the chain is
// already running (§4.8's in-genesis registration strategy). It appends
// an entry shaped like `paras.paras` in a relay runtime's genesis config:
// `[paraId, {genesisHead, validationCode, parachain: true}]`.
func (s *Spec) InjectParachainGenesis(paraID uint32, genesisHeadHex, validationCodeHex string) {
	runtime := path(s.tree, "genesis", "runtime")
	parasSection := path(runtime, "paras")
	entries := list(runtime, []string{"paras"}, "paras")
	entries = append(entries, []any{
		paraID,
		map[string]any{
			"genesisHead":    genesisHeadHex,
			"validationCode": validationCodeHex,
			"parachain":      true,
		},
	})
	parasSection["paras"] = entries
}

func marshalJSON(v map[string]any) ([]byte, error) {
	return (&Spec{tree: v}).Marshal()
}

func hexEncode(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hextable[v>>4]
		out[i*2+1] = hextable[v&0x0f]
	}
	return string(out)
}
