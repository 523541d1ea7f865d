package wasm

import (
	"github.com/wippyai/zod/errors"
)

// Validate checks the module for structural validity: every function names
// an existing signature and every export names an existing function.
func (m *Module) Validate() error {
	if err := m.validateTypeIndices(); err != nil {
		return err
	}
	if err := m.validateExports(); err != nil {
		return err
	}
	return nil
}

func (m *Module) validateTypeIndices() error {
	numTypes := len(m.Types)
	for i, f := range m.Funcs {
		if int(f.TypeIdx) >= numTypes {
			return errors.New(errors.PhaseValidate, errors.KindMalformedModule).
				Path("function").
				Value(f.TypeIdx).
				Detail("function %d references type %d, module has %d types", i, f.TypeIdx, numTypes).
				Build()
		}
	}
	return nil
}

func (m *Module) validateExports() error {
	for _, exp := range m.Exports {
		if exp.Kind != KindFunc {
			return errors.New(errors.PhaseValidate, errors.KindInvalidExportType).
				Path("export", exp.Name).
				Value(exp.Kind).
				Detail("unknown export kind 0x%02x", exp.Kind).
				Build()
		}
		if int(exp.Idx) >= len(m.Funcs) {
			return errors.New(errors.PhaseValidate, errors.KindMalformedModule).
				Path("export", exp.Name).
				Value(exp.Idx).
				Detail("export references function %d, module has %d functions", exp.Idx, len(m.Funcs)).
				Build()
		}
	}
	return nil
}
