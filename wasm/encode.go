package wasm

import (
	"strconv"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm/internal/binary"
)

// Encode encodes the module to the binary format: header, then the type,
// function, export and code sections, each present even when empty.
func (m *Module) Encode() ([]byte, error) {
	w := binary.NewWriter()

	// Magic number and version
	w.Dword(Magic)
	w.Dword(Version)

	// Type section
	sec := binary.NewWriter()
	if err := writeCount(sec, len(m.Types), "type"); err != nil {
		return nil, err
	}
	for i, ft := range m.Types {
		sec.Byte(FuncTypeByte)
		path := []string{"type", strconv.Itoa(i)}
		if err := writeValTypes(sec, ft.Params, path); err != nil {
			return nil, err
		}
		if err := writeValTypes(sec, ft.Results, path); err != nil {
			return nil, err
		}
	}
	if err := writeSection(w, SectionType, sec); err != nil {
		return nil, err
	}

	// Function section
	sec = binary.NewWriter()
	if err := writeCount(sec, len(m.Funcs), "function"); err != nil {
		return nil, err
	}
	for i, f := range m.Funcs {
		if err := writeIndex(sec, f.TypeIdx, "function", strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	if err := writeSection(w, SectionFunction, sec); err != nil {
		return nil, err
	}

	// Export section
	sec = binary.NewWriter()
	if err := writeCount(sec, len(m.Exports), "export"); err != nil {
		return nil, err
	}
	for _, exp := range m.Exports {
		if exp.Kind != KindFunc {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidExportType).
				Path("export", exp.Name).
				Value(exp.Kind).
				Detail("unknown export kind 0x%02x", exp.Kind).
				Build()
		}
		if !sec.Small(len(exp.Name)) {
			return nil, errors.Overflow(errors.PhaseEncode, []string{"export", exp.Name}, len(exp.Name), MaxCount)
		}
		sec.Raw([]byte(exp.Name))
		sec.Byte(ExportReserved)
		sec.Byte(exp.Kind)
		if err := writeIndex(sec, exp.Idx, "export", exp.Name); err != nil {
			return nil, err
		}
	}
	if err := writeSection(w, SectionExport, sec); err != nil {
		return nil, err
	}

	// Code section, bodies in function order
	sec = binary.NewWriter()
	if err := writeCount(sec, len(m.Funcs), "code"); err != nil {
		return nil, err
	}
	for i, f := range m.Funcs {
		body, err := encodeBody(f, strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		if !sec.Small(len(body)) {
			return nil, errors.Overflow(errors.PhaseEncode, []string{"code", strconv.Itoa(i)}, len(body), MaxCount)
		}
		sec.Raw(body)
	}
	if err := writeSection(w, SectionCode, sec); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

func encodeBody(f Func, name string) ([]byte, error) {
	w := binary.NewWriter()
	if err := writeValTypes(w, f.Locals, []string{"code", name, "locals"}); err != nil {
		return nil, err
	}
	for _, instr := range f.Body {
		if err := encodeInstruction(w, instr); err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Path = append([]string{"code", name}, e.Path...)
			}
			return nil, err
		}
	}
	w.Byte(OpEnd)
	return w.Bytes(), nil
}

func writeSection(w *binary.Writer, id byte, payload *binary.Writer) error {
	if !w.FixedSection(id, payload) {
		return errors.Overflow(errors.PhaseEncode, []string{SectionName(id)}, payload.Len(), MaxCount)
	}
	return nil
}

func writeCount(w *binary.Writer, n int, section string) error {
	if !w.Small(n) {
		return errors.Overflow(errors.PhaseEncode, []string{section}, n, MaxCount)
	}
	return nil
}

func writeIndex(w *binary.Writer, idx uint32, path ...string) error {
	if idx > MaxCount || !w.Small(int(idx)) {
		return errors.Overflow(errors.PhaseEncode, path, idx, MaxCount)
	}
	return nil
}

func writeValTypes(w *binary.Writer, types []ValType, path []string) error {
	if !w.Small(len(types)) {
		return errors.Overflow(errors.PhaseEncode, path, len(types), MaxCount)
	}
	for _, vt := range types {
		if !vt.Valid() {
			return errors.New(errors.PhaseEncode, errors.KindInvalidValueType).
				Path(path...).
				Value(vt).
				Detail("unknown value type 0x%02x", byte(vt)).
				Build()
		}
		w.Byte(byte(vt))
	}
	return nil
}
