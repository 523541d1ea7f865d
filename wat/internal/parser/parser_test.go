package parser

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
	"github.com/wippyai/zod/wat/internal/token"
)

func parse(t *testing.T, src string) (*wasm.Module, error) {
	t.Helper()
	tokens, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	return New(tokens).Parse()
}

func mustParse(t *testing.T, src string) *wasm.Module {
	t.Helper()
	mod, err := parse(t, src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return mod
}

func TestParseEmptyModule(t *testing.T) {
	mod := mustParse(t, "(module)")
	if len(mod.Types) != 0 || len(mod.Funcs) != 0 || len(mod.Exports) != 0 {
		t.Errorf("expected empty module, got %+v", mod)
	}
}

func TestParseModuleWithName(t *testing.T) {
	mustParse(t, "(module $mymodule)")
}

func TestParseFunc(t *testing.T) {
	i32, i64 := wasm.ValI32, wasm.ValI64

	tests := []struct {
		name  string
		input string
		sig   wasm.FuncType
		fn    wasm.Func
	}{
		{
			name:  "empty",
			input: "(module (func))",
			fn:    wasm.Func{},
		},
		{
			name:  "indexed params",
			input: "(module (func (param i32 i64) (result i32) local.get 1 local.get 0 i32.add))",
			sig:   wasm.FuncType{Params: []wasm.ValType{i32, i64}, Results: []wasm.ValType{i32}},
			fn:    wasm.Func{Body: []wasm.Instruction{wasm.LocalGet(1), wasm.LocalGet(0), wasm.I32Add()}},
		},
		{
			name:  "named params and locals",
			input: "(module (func (param $a i32) (param $b i32) (local $t i64) (local i32 i32) local.get $t local.get $b))",
			sig:   wasm.FuncType{Params: []wasm.ValType{i32, i32}},
			fn: wasm.Func{
				Locals: []wasm.ValType{i64, i32, i32},
				Body:   []wasm.Instruction{wasm.LocalGet(2), wasm.LocalGet(1)},
			},
		},
		{
			name:  "folded",
			input: "(module (func (param i32 i32) (i32.add (local.get 1) (i32.add (local.get 0) (local.get 1)))))",
			sig:   wasm.FuncType{Params: []wasm.ValType{i32, i32}},
			fn: wasm.Func{Body: []wasm.Instruction{
				wasm.LocalGet(1), wasm.LocalGet(0), wasm.LocalGet(1), wasm.I32Add(), wasm.I32Add(),
			}},
		},
		{
			name:  "hex index",
			input: "(module (func local.get 0x10))",
			fn:    wasm.Func{Body: []wasm.Instruction{wasm.LocalGet(16)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := mustParse(t, tt.input)
			if len(mod.Funcs) != 1 || len(mod.Types) != 1 {
				t.Fatalf("got %d funcs, %d types", len(mod.Funcs), len(mod.Types))
			}
			if !mod.Types[0].Equal(tt.sig) {
				t.Errorf("signature %s, want %s", mod.Types[0], tt.sig)
			}
			if !mod.Funcs[0].Equal(tt.fn) {
				t.Errorf("func %+v, want %+v", mod.Funcs[0], tt.fn)
			}
		})
	}
}

func TestParseTypeDedup(t *testing.T) {
	mod := mustParse(t, `(module
		(func (param i32 i32) (result i32) local.get 0)
		(func (param i32) (result i32) local.get 0)
		(func (param i32 i32) (result i32) local.get 1))`)

	if len(mod.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(mod.Types))
	}
	want := []uint32{0, 1, 0}
	for i, fn := range mod.Funcs {
		if fn.TypeIdx != want[i] {
			t.Errorf("func %d type %d, want %d", i, fn.TypeIdx, want[i])
		}
	}
}

func TestParseTypeUse(t *testing.T) {
	mod := mustParse(t, `(module
		(func $f (type $bin) (local $x i32) local.get $x local.get 1 i32.add)
		(type $un (func (param i64)))
		(type $bin (func (param i32 i32) (result i32)))
		(func (type 0) (param i64)))`)

	if len(mod.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(mod.Types))
	}
	if mod.Funcs[0].TypeIdx != 1 || mod.Funcs[1].TypeIdx != 0 {
		t.Errorf("type indices %d, %d", mod.Funcs[0].TypeIdx, mod.Funcs[1].TypeIdx)
	}
	// $x follows the two parameters of $bin.
	if idx, _ := mod.Funcs[0].Body[0].Index(); idx != 2 {
		t.Errorf("$x resolved to %d, want 2", idx)
	}
}

func TestParseExportOrder(t *testing.T) {
	mod := mustParse(t, `(module
		(export "late" (func $b))
		(func $a (export "a1") (export "a2"))
		(func $b (export "b"))
		(export "first" (func 0)))`)

	want := []wasm.Export{
		{Name: "a1", Kind: wasm.KindFunc, Idx: 0},
		{Name: "a2", Kind: wasm.KindFunc, Idx: 0},
		{Name: "b", Kind: wasm.KindFunc, Idx: 1},
		{Name: "late", Kind: wasm.KindFunc, Idx: 1},
		{Name: "first", Kind: wasm.KindFunc, Idx: 0},
	}
	if len(mod.Exports) != len(want) {
		t.Fatalf("got %d exports, want %d", len(mod.Exports), len(want))
	}
	for i := range want {
		if mod.Exports[i] != want[i] {
			t.Errorf("export %d = %+v, want %+v", i, mod.Exports[i], want[i])
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"param after local", "(module\n(func (local i32)\n(param i32)))", 3},
		{"signature mismatch", "(module\n(type (func (param i32)))\n(func (type 0) (param i64)))", 3},
		{"type out of range", "(module\n(func (type 3)))", 2},
		{"unknown type name", "(module (func (type $nope)))", 1},
		{"duplicate func", "(module (func $f)\n(func $f))", 2},
		{"duplicate local", "(module (func (param $a i32) (local $a i32)))", 1},
		{"export index out of range", "(module\n(export \"f\" (func 1)))", 2},
		{"trailing tokens", "(module)\n(module)", 2},
		{"stray token", "(module\nfunc)", 2},
		{"eof", "(module\n(func\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.input)
			var zerr *errors.Error
			if !stderrors.As(err, &zerr) {
				t.Fatalf("got %v, want *errors.Error", err)
			}
			if zerr.Phase != errors.PhaseParse || zerr.Value != tt.line {
				t.Errorf("got %v, want parse error on line %d", zerr, tt.line)
			}
		})
	}
}
