package wasm_test

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

func TestEncodeAddModule(t *testing.T) {
	data, err := addModule().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, addBinary()) {
		t.Errorf("Encode =\n% x\nwant\n% x", data, addBinary())
	}
}

func TestEncodeEmptyModule(t *testing.T) {
	data, err := (&wasm.Module{}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x01, 0x00,
		0x03, 0x01, 0x00,
		0x07, 0x01, 0x00,
		0x0a, 0x01, 0x00,
	}
	if !bytes.Equal(data, want) {
		t.Errorf("Encode = % x, want % x", data, want)
	}
}

func TestEncodeSectionSizes(t *testing.T) {
	m := addModule()
	m.Funcs[0].Locals = []wasm.ValType{wasm.ValI64}
	m.Exports = append(m.Exports, wasm.Export{Name: "sum", Kind: wasm.KindFunc, Idx: 0})

	data, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Walk the sections using only the size bytes.
	pos := wasm.HeaderSize
	for _, id := range []byte{wasm.SectionType, wasm.SectionFunction, wasm.SectionExport, wasm.SectionCode} {
		if data[pos] != id {
			t.Fatalf("offset %d: section 0x%02x, want 0x%02x", pos, data[pos], id)
		}
		pos += 2 + int(data[pos+1])
	}
	if pos != len(data) {
		t.Errorf("sizes cover %d bytes, module has %d", pos, len(data))
	}
}

func TestEncodeErrors(t *testing.T) {
	manyTypes := make([]wasm.FuncType, wasm.MaxCount+1)
	longBody := make([]wasm.Instruction, 128)
	for i := range longBody {
		longBody[i] = wasm.LocalGet(0)
	}

	tests := []struct {
		name   string
		module *wasm.Module
		want   *errors.Error
	}{
		{
			name:   "too many types",
			module: &wasm.Module{Types: manyTypes},
			want:   errors.ErrOverflow,
		},
		{
			name: "export name too long",
			module: &wasm.Module{
				Types:   addModule().Types,
				Funcs:   addModule().Funcs,
				Exports: []wasm.Export{{Name: strings.Repeat("x", 256), Kind: wasm.KindFunc}},
			},
			want: errors.ErrOverflow,
		},
		{
			name: "local index too wide",
			module: &wasm.Module{
				Types: addModule().Types,
				Funcs: []wasm.Func{{Body: []wasm.Instruction{wasm.LocalGet(256)}}},
			},
			want: errors.ErrOverflow,
		},
		{
			name: "body too long",
			module: &wasm.Module{
				Types: addModule().Types,
				Funcs: []wasm.Func{{Body: longBody}},
			},
			want: errors.ErrOverflow,
		},
		{
			name: "unknown value type",
			module: &wasm.Module{
				Types: []wasm.FuncType{{Params: []wasm.ValType{0x7d}}},
			},
			want: errors.ErrInvalidValueType,
		},
		{
			name: "unknown local type",
			module: &wasm.Module{
				Types: addModule().Types,
				Funcs: []wasm.Func{{Locals: []wasm.ValType{0x40}}},
			},
			want: errors.ErrInvalidValueType,
		},
		{
			name: "unknown opcode",
			module: &wasm.Module{
				Types: addModule().Types,
				Funcs: []wasm.Func{{Body: []wasm.Instruction{{Opcode: 0x6b}}}},
			},
			want: errors.ErrInvalidInstruction,
		},
		{
			name: "unknown export kind",
			module: &wasm.Module{
				Types:   addModule().Types,
				Funcs:   addModule().Funcs,
				Exports: []wasm.Export{{Name: "mem", Kind: 0x02}},
			},
			want: errors.ErrInvalidExportType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.module.Encode()
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("got %v, want %s", err, tt.want.Kind)
			}
			if data != nil {
				t.Errorf("failed encode returned %d bytes", len(data))
			}
		})
	}
}

func TestEncodeMaxCount(t *testing.T) {
	types := make([]wasm.FuncType, wasm.MaxCount)
	data, err := (&wasm.Module{Types: types[:80]}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(m.Types) != 80 {
		t.Errorf("got %d types", len(m.Types))
	}

	// 255 empty signatures need 3*255+1 payload bytes, which no size byte holds.
	if _, err := (&wasm.Module{Types: types}).Encode(); !stderrors.Is(err, errors.ErrOverflow) {
		t.Errorf("got %v, want overflow", err)
	}
}

func TestEncodeStandard(t *testing.T) {
	m := addModule()
	data, err := m.EncodeStandard()
	if err != nil {
		t.Fatalf("EncodeStandard: %v", err)
	}

	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
		0x03, 0x02, 0x01, 0x00,
		0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x00,
		0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
	}
	if !bytes.Equal(data, want) {
		t.Errorf("EncodeStandard =\n% x\nwant\n% x", data, want)
	}
}

func TestEncodeStandardGroupsLocals(t *testing.T) {
	m := addModule()
	m.Funcs[0].Locals = []wasm.ValType{wasm.ValI64, wasm.ValI64, wasm.ValI32}
	m.Funcs[0].Body = []wasm.Instruction{wasm.LocalGet(300)}

	data, err := m.EncodeStandard()
	if err != nil {
		t.Fatalf("EncodeStandard: %v", err)
	}
	body := []byte{0x02, 0x02, 0x7e, 0x01, 0x7f, 0x20, 0xac, 0x02, 0x0b}
	if !bytes.HasSuffix(data, body) {
		t.Errorf("code body = % x, want suffix % x", data, body)
	}
}

func TestEncodeStandardRejectsInvalid(t *testing.T) {
	m := addModule()
	m.Exports[0].Idx = 3
	if _, err := m.EncodeStandard(); !stderrors.Is(err, errors.ErrMalformedModule) {
		t.Errorf("got %v, want malformed module", err)
	}
}
