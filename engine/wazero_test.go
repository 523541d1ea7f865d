package engine_test

import (
	"context"
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/zod/engine"
	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

func newWazero(t *testing.T) *engine.Wazero {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.NewWazeroWithConfig(ctx, &engine.Config{Interpret: true})
	if err != nil {
		t.Fatalf("NewWazeroWithConfig: %v", err)
	}
	t.Cleanup(func() {
		if err := eng.Close(ctx); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return eng
}

func TestWazeroAdd(t *testing.T) {
	ctx := context.Background()
	eng := newWazero(t)
	m := addModule()

	tests := []struct {
		args []int64
		want int64
	}{
		{[]int64{3, 4}, 7},
		{[]int64{-1, 1}, 0},
		{[]int64{math.MaxInt32, 1}, math.MinInt32},
		{[]int64{1<<32 + 5, 2}, 7},
	}
	for _, tt := range tests {
		got, err := eng.Invoke(ctx, m, "add", tt.args)
		if err != nil {
			t.Fatalf("Invoke%v: %v", tt.args, err)
		}
		if got != tt.want {
			t.Errorf("add%v = %d, want %d", tt.args, got, tt.want)
		}
	}
}

func TestWazeroI64(t *testing.T) {
	eng := newWazero(t)
	m := singleFunc([]wasm.ValType{i64}, []wasm.ValType{i64}, []wasm.ValType{i32}, wasm.LocalGet(0))
	got, err := eng.Invoke(context.Background(), m, "f", []int64{-1 << 40})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != -1<<40 {
		t.Errorf("got %d", got)
	}
}

func TestWazeroResolveErrors(t *testing.T) {
	ctx := context.Background()
	eng := newWazero(t)

	if _, err := eng.Invoke(ctx, addModule(), "sub", nil); !stderrors.Is(err, errors.ErrExportNotFound) {
		t.Errorf("missing export: %v", err)
	}
	if _, err := eng.Invoke(ctx, addModule(), "add", []int64{1}); !stderrors.Is(err, errors.ErrArgumentCountMismatch) {
		t.Errorf("arity: %v", err)
	}
}

func TestWazeroRejectsInvalidBody(t *testing.T) {
	eng := newWazero(t)
	m := singleFunc(nil, []wasm.ValType{i32}, nil, wasm.I32Add())

	_, err := eng.Invoke(context.Background(), m, "f", nil)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindInvalidData}) {
		t.Fatalf("got %v, want runtime invalid_data", err)
	}
}

func TestWazeroReusesCompiledModule(t *testing.T) {
	ctx := context.Background()
	eng := newWazero(t)
	m := addModule()

	for i := int64(0); i < 3; i++ {
		got, err := eng.Invoke(ctx, m, "add", []int64{i, i})
		if err != nil {
			t.Fatalf("Invoke: %v", err)
		}
		if got != 2*i {
			t.Errorf("add(%d, %d) = %d", i, i, got)
		}
	}
	if n := eng.CompiledModules(); n != 1 {
		t.Fatalf("CompiledModules() = %d, want 1", n)
	}
}

func TestWazeroRelease(t *testing.T) {
	ctx := context.Background()
	eng := newWazero(t)

	for i := 0; i < 20; i++ {
		m := addModule()
		if _, err := eng.Invoke(ctx, m, "add", []int64{1, 2}); err != nil {
			t.Fatalf("Invoke: %v", err)
		}
		if err := eng.Release(ctx, m); err != nil {
			t.Fatalf("Release: %v", err)
		}
		if n := eng.CompiledModules(); n != 0 {
			t.Fatalf("round %d: CompiledModules() = %d, want 0", i, n)
		}
	}

	m := addModule()
	if err := eng.Release(ctx, m); err != nil {
		t.Fatalf("Release of unknown module: %v", err)
	}
	got, err := eng.Invoke(ctx, m, "add", []int64{20, 22})
	if err != nil {
		t.Fatalf("Invoke after Release: %v", err)
	}
	if got != 42 {
		t.Errorf("add(20, 22) = %d, want 42", got)
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	for _, name := range engine.Names() {
		t.Run(name, func(t *testing.T) {
			eng, err := engine.New(ctx, name, nil)
			if err != nil {
				t.Fatalf("New(%q): %v", name, err)
			}
			defer eng.Close(ctx)

			got, err := eng.Invoke(ctx, addModule(), "add", []int64{3, 4})
			if err != nil || got != 7 {
				t.Errorf("add(3, 4) = %d, %v", got, err)
			}
		})
	}

	if _, err := engine.New(ctx, "jit", nil); !stderrors.Is(err, &errors.Error{Kind: errors.KindUnsupported}) {
		t.Errorf("unknown engine: %v", err)
	}
}
