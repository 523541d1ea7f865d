package wasm

import (
	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm/internal/binary"
)

// EncodeStandard encodes the module as a WebAssembly 1.0 core binary:
// LEB128 counts and sizes, exports without the reserved byte, and locals
// grouped by type. Other engines can load the result directly.
func (m *Module) EncodeStandard() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	w := binary.NewWriter()
	w.Dword(Magic)
	w.Dword(Version)

	if len(m.Types) > 0 {
		sec := binary.NewWriter()
		sec.Uleb(uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.Byte(FuncTypeByte)
			if err := writeStandardValTypes(sec, ft.Params); err != nil {
				return nil, err
			}
			if err := writeStandardValTypes(sec, ft.Results); err != nil {
				return nil, err
			}
		}
		w.Section(SectionType, sec)
	}

	if len(m.Funcs) > 0 {
		sec := binary.NewWriter()
		sec.Uleb(uint32(len(m.Funcs)))
		for _, f := range m.Funcs {
			sec.Uleb(f.TypeIdx)
		}
		w.Section(SectionFunction, sec)
	}

	if len(m.Exports) > 0 {
		sec := binary.NewWriter()
		sec.Uleb(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.Name(exp.Name)
			sec.Byte(exp.Kind)
			sec.Uleb(exp.Idx)
		}
		w.Section(SectionExport, sec)
	}

	if len(m.Funcs) > 0 {
		sec := binary.NewWriter()
		sec.Uleb(uint32(len(m.Funcs)))
		for _, f := range m.Funcs {
			body, err := encodeStandardBody(f)
			if err != nil {
				return nil, err
			}
			sec.Uleb(uint32(len(body)))
			sec.Raw(body)
		}
		w.Section(SectionCode, sec)
	}

	return w.Bytes(), nil
}

func encodeStandardBody(f Func) ([]byte, error) {
	w := binary.NewWriter()

	// Consecutive locals of one type share a declaration.
	type localGroup struct {
		count uint32
		typ   ValType
	}
	var groups []localGroup
	for _, vt := range f.Locals {
		if !vt.Valid() {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidValueType).
				Value(vt).
				Detail("unknown value type 0x%02x", byte(vt)).
				Build()
		}
		if n := len(groups); n > 0 && groups[n-1].typ == vt {
			groups[n-1].count++
			continue
		}
		groups = append(groups, localGroup{count: 1, typ: vt})
	}
	w.Uleb(uint32(len(groups)))
	for _, g := range groups {
		w.Uleb(g.count)
		w.Byte(byte(g.typ))
	}

	for _, instr := range f.Body {
		info, ok := opcodes[instr.Opcode]
		if !ok {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInstruction).
				Value(instr.Opcode).
				Detail("unknown opcode 0x%02x", instr.Opcode).
				Build()
		}
		w.Byte(instr.Opcode)
		if info.ImmType == ImmIndex {
			idx, _ := instr.Index()
			w.Uleb(idx)
		}
	}
	w.Byte(OpEnd)
	return w.Bytes(), nil
}

func writeStandardValTypes(w *binary.Writer, types []ValType) error {
	w.Uleb(uint32(len(types)))
	for _, vt := range types {
		if !vt.Valid() {
			return errors.New(errors.PhaseEncode, errors.KindInvalidValueType).
				Value(vt).
				Detail("unknown value type 0x%02x", byte(vt)).
				Build()
		}
		w.Byte(byte(vt))
	}
	return nil
}
