package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

// Config holds configuration for the wazero engine
type Config struct {
	// Interpret selects wazero's interpreter instead of its compiler.
	Interpret bool
}

// Wazero implements Engine by running the standard WebAssembly encoding of
// a module on wazero.
type Wazero struct {
	runtime  wazero.Runtime
	compiled map[*wasm.Module]wazero.CompiledModule
	mu       sync.Mutex
}

// NewWazero creates a wazero engine with the default configuration.
func NewWazero(ctx context.Context) (*Wazero, error) {
	return NewWazeroWithConfig(ctx, nil)
}

// NewWazeroWithConfig creates a wazero engine. cfg may be nil.
func NewWazeroWithConfig(ctx context.Context, cfg *Config) (*Wazero, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.Interpret {
		runtimeCfg = wazero.NewRuntimeConfigInterpreter()
	}
	runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)

	return &Wazero{
		runtime:  wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		compiled: make(map[*wasm.Module]wazero.CompiledModule),
	}, nil
}

// Invoke resolves the export exactly like the interpreter, then calls it on
// a fresh wazero instance. Compiled modules are cached per *wasm.Module until
// Release or Close, so a module must not change after its first invocation.
func (e *Wazero) Invoke(ctx context.Context, m *wasm.Module, name string, args []int64) (int64, error) {
	t, err := Resolve(m, name, args)
	if err != nil {
		return 0, err
	}

	compiled, err := e.compile(ctx, m)
	if err != nil {
		return 0, err
	}

	instance, err := e.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "instantiate module")
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			Logger().Warn("close instance", zap.Error(err))
		}
	}()

	fn := instance.ExportedFunction(name)
	if fn == nil {
		return 0, errors.New(errors.PhaseRuntime, errors.KindExportNotFound).
			Value(name).
			Detail("no export named %q", name).
			Build()
	}

	params := make([]uint64, len(args))
	for i, arg := range args {
		params[i] = encodeValue(t.Type.Params[i], arg)
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "call "+name)
	}
	if len(results) != 1 {
		return 0, errors.New(errors.PhaseRuntime, errors.KindResultArityMismatch).
			Path("export", name).
			Value(len(results)).
			Detail("function returned %d values, want 1", len(results)).
			Build()
	}
	return decodeValue(t.Type.Results[0], results[0]), nil
}

func (e *Wazero) compile(ctx context.Context, m *wasm.Module) (wazero.CompiledModule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if compiled, ok := e.compiled[m]; ok {
		return compiled, nil
	}

	bin, err := m.EncodeStandard()
	if err != nil {
		return nil, err
	}
	compiled, err := e.runtime.CompileModule(ctx, bin)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "compile module")
	}

	debug("module compiled", func() []zap.Field {
		return []zap.Field{zap.Int("bytes", len(bin)), zap.Int("funcs", len(m.Funcs))}
	})
	e.compiled[m] = compiled
	return compiled, nil
}

// Release closes and evicts the compiled module cached for m.
func (e *Wazero) Release(ctx context.Context, m *wasm.Module) error {
	e.mu.Lock()
	compiled, ok := e.compiled[m]
	delete(e.compiled, m)
	e.mu.Unlock()

	if !ok {
		return nil
	}
	if err := compiled.Close(ctx); err != nil {
		return errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "close compiled module")
	}
	return nil
}

// CompiledModules returns the number of cached compiled modules.
func (e *Wazero) CompiledModules() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.compiled)
}

// Close releases compiled modules and the wazero runtime.
func (e *Wazero) Close(ctx context.Context) error {
	e.mu.Lock()
	for m, compiled := range e.compiled {
		if err := compiled.Close(ctx); err != nil {
			Logger().Warn("close compiled module", zap.Error(err))
		}
		delete(e.compiled, m)
	}
	e.mu.Unlock()

	return e.runtime.Close(ctx)
}

func encodeValue(vt wasm.ValType, v int64) uint64 {
	if vt == wasm.ValI32 {
		return api.EncodeI32(int32(v))
	}
	return api.EncodeI64(v)
}

func decodeValue(vt wasm.ValType, v uint64) int64 {
	if vt == wasm.ValI32 {
		return int64(api.DecodeI32(v))
	}
	return int64(v)
}
