package engine

import (
	"context"
	"strconv"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

// Engine names accepted by New.
const (
	NameInterpreter = "interpreter"
	NameWazero      = "wazero"
)

// Names lists the available engines.
func Names() []string {
	return []string{NameInterpreter, NameWazero}
}

// Engine invokes exported functions of a decoded module.
type Engine interface {
	// Invoke calls the function exported as name with args and returns its
	// single result.
	Invoke(ctx context.Context, m *wasm.Module, name string, args []int64) (int64, error)
	// Release drops any state the engine keeps for m. The module may still
	// be invoked afterwards.
	Release(ctx context.Context, m *wasm.Module) error
	Close(ctx context.Context) error
}

// New creates the engine registered under name. cfg only applies to the
// wazero engine and may be nil.
func New(ctx context.Context, name string, cfg *Config) (Engine, error) {
	switch name {
	case NameInterpreter, "":
		return NewInterpreter(), nil
	case NameWazero:
		return NewWazeroWithConfig(ctx, cfg)
	default:
		return nil, errors.New(errors.PhaseRuntime, errors.KindUnsupported).
			Value(name).
			Detail("unknown engine %q", name).
			Build()
	}
}

// Target is a resolved export: the function it names and that function's
// signature.
type Target struct {
	Name    string
	Type    wasm.FuncType
	Func    wasm.Func
	FuncIdx uint32
}

// Resolve looks up the export called name and checks args against the
// signature of the function it targets.
func Resolve(m *wasm.Module, name string, args []int64) (Target, error) {
	exp, ok := m.FindExport(name)
	if !ok {
		return Target{}, errors.New(errors.PhaseRuntime, errors.KindExportNotFound).
			Value(name).
			Detail("no export named %q", name).
			Build()
	}
	if exp.Kind != wasm.KindFunc {
		return Target{}, errors.New(errors.PhaseRuntime, errors.KindUnsupportedExportKind).
			Path("export", name).
			Value(exp.Kind).
			Detail("export kind 0x%02x is not a function", exp.Kind).
			Build()
	}

	if int(exp.Idx) >= len(m.Funcs) {
		return Target{}, errors.OutOfRange(errors.PhaseRuntime, errors.KindMalformedModule,
			[]string{"export", name}, int(exp.Idx), len(m.Funcs))
	}
	fn := m.Funcs[exp.Idx]
	ft, ok := m.FuncType(exp.Idx)
	if !ok {
		return Target{}, errors.OutOfRange(errors.PhaseRuntime, errors.KindMalformedModule,
			[]string{"func", strconv.Itoa(int(exp.Idx))}, int(fn.TypeIdx), len(m.Types))
	}

	if len(args) != len(ft.Params) {
		return Target{}, errors.New(errors.PhaseRuntime, errors.KindArgumentCountMismatch).
			Path("export", name).
			Value(len(args)).
			Detail("%s expects %d arguments, got %d", ft, len(ft.Params), len(args)).
			Build()
	}

	return Target{Name: name, FuncIdx: exp.Idx, Func: fn, Type: ft}, nil
}
