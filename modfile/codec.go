package modfile

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("modfile: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	dm, err := cbor.DecOptions{ExtraReturnErrors: cbor.ExtraDecErrorUnknownField}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("modfile: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// MarshalYAML writes the module as a YAML document.
func MarshalYAML(m *wasm.Module) ([]byte, error) {
	data, err := yaml.Marshal(FromModule(m))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "marshal yaml")
	}
	return data, nil
}

// UnmarshalYAML reads a module from a YAML document. Unknown fields are
// rejected.
func UnmarshalYAML(data []byte) (*wasm.Module, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Load("unmarshal yaml", err)
	}
	return f.Module()
}

// MarshalCBOR writes the module as canonical CBOR, so equal modules encode
// to equal bytes.
func MarshalCBOR(m *wasm.Module) ([]byte, error) {
	data, err := cborEncMode.Marshal(FromModule(m))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "marshal cbor")
	}
	return data, nil
}

// UnmarshalCBOR reads a module from CBOR.
func UnmarshalCBOR(data []byte) (*wasm.Module, error) {
	var f File
	if err := cborDecMode.Unmarshal(data, &f); err != nil {
		return nil, errors.Load("unmarshal cbor", err)
	}
	return f.Module()
}
