package runtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/zod/engine"
	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

// Options configures a Runtime.
type Options struct {
	// Wazero configures the wazero engine. Ignored by the interpreter.
	Wazero *engine.Config

	// Engine names the execution engine: "interpreter" (default) or "wazero".
	Engine string
}

// Runtime compiles modules to the binary format and executes their
// exported functions.
type Runtime struct {
	engine engine.Engine
	name   string
}

func New(ctx context.Context, opts Options) (*Runtime, error) {
	name := opts.Engine
	if name == "" {
		name = engine.NameInterpreter
	}

	eng, err := engine.New(ctx, name, opts.Wazero)
	if err != nil {
		return nil, errors.Load("create engine", err)
	}

	Logger().Debug("runtime created", zap.String("engine", name))
	return &Runtime{engine: eng, name: name}, nil
}

// Engine returns the name of the engine in use.
func (r *Runtime) Engine() string {
	return r.name
}

// Close releases all runtime resources.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}

// Compile validates the module and encodes it to the binary format.
func (r *Runtime) Compile(m *wasm.Module) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	bin, err := m.Encode()
	if err != nil {
		return nil, err
	}

	Logger().Debug("module compiled",
		zap.Int("types", len(m.Types)),
		zap.Int("funcs", len(m.Funcs)),
		zap.Int("exports", len(m.Exports)),
		zap.Int("bytes", len(bin)))
	return bin, nil
}

// Load decodes a binary module.
func (r *Runtime) Load(bin []byte) (*Module, error) {
	m, err := wasm.ParseModule(bin)
	if err != nil {
		return nil, err
	}
	return &Module{runtime: r, module: m}, nil
}

// Execute decodes bin and calls the function exported as name. Engine state
// for the decoded module is released before it returns.
func (r *Runtime) Execute(ctx context.Context, bin []byte, name string, args []int64) (int64, error) {
	mod, err := r.Load(bin)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := mod.Close(ctx); err != nil {
			Logger().Warn("release module", zap.String("export", name), zap.Error(err))
		}
	}()
	return mod.Call(ctx, name, args...)
}
