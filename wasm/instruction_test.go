package wasm_test

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

func TestInstructionString(t *testing.T) {
	tests := []struct {
		instr wasm.Instruction
		want  string
	}{
		{wasm.LocalGet(0), "local.get 0"},
		{wasm.LocalGet(255), "local.get 255"},
		{wasm.I32Add(), "i32.add"},
		{wasm.Instruction{Opcode: 0x41}, "<0x41>"},
	}
	for _, tt := range tests {
		if got := tt.instr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseInstruction(t *testing.T) {
	tests := []struct {
		text    string
		want    wasm.Instruction
		wantErr *errors.Error
	}{
		{text: "local.get 1", want: wasm.LocalGet(1)},
		{text: "  local.get   7 ", want: wasm.LocalGet(7)},
		{text: "i32.add", want: wasm.I32Add()},
		{text: "", wantErr: &errors.Error{Kind: errors.KindInvalidInput}},
		{text: "i32.sub", wantErr: errors.ErrInvalidInstruction},
		{text: "local.get", wantErr: &errors.Error{Kind: errors.KindInvalidInput}},
		{text: "local.get x", wantErr: &errors.Error{Kind: errors.KindInvalidInput}},
		{text: "local.get -1", wantErr: &errors.Error{Kind: errors.KindInvalidInput}},
		{text: "i32.add 1", wantErr: &errors.Error{Kind: errors.KindInvalidInput}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := wasm.ParseInstruction(tt.text)
			if tt.wantErr != nil {
				if !stderrors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %s", err, tt.wantErr.Kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInstruction: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstructionTextRoundTrip(t *testing.T) {
	for _, instr := range []wasm.Instruction{wasm.LocalGet(0), wasm.LocalGet(42), wasm.I32Add()} {
		got, err := wasm.ParseInstruction(instr.String())
		if err != nil {
			t.Fatalf("ParseInstruction(%q): %v", instr.String(), err)
		}
		if !got.Equal(instr) {
			t.Errorf("%q parsed to %v", instr.String(), got)
		}
	}
}

func TestLookup(t *testing.T) {
	op, info, ok := wasm.LookupName("local.get")
	if !ok || op != wasm.OpLocalGet || info.ImmType != wasm.ImmIndex {
		t.Errorf("LookupName(local.get) = 0x%02x %+v %v", op, info, ok)
	}
	if _, _, ok := wasm.LookupName("end"); ok {
		t.Error("end is not a body instruction")
	}

	info, ok = wasm.LookupOpcode(wasm.OpI32Add)
	if !ok || info.Name != "i32.add" || info.ImmType != wasm.ImmNone {
		t.Errorf("LookupOpcode(0x6a) = %+v %v", info, ok)
	}
	if _, ok := wasm.LookupOpcode(0x00); ok {
		t.Error("0x00 should not be an opcode")
	}
}

func TestInstructionIndex(t *testing.T) {
	if idx, ok := wasm.LocalGet(3).Index(); !ok || idx != 3 {
		t.Errorf("Index() = %d, %v", idx, ok)
	}
	if _, ok := wasm.I32Add().Index(); ok {
		t.Error("i32.add has no index")
	}
}
