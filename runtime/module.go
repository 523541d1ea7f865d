package runtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/zod/wasm"
)

// Module is a decoded module bound to the runtime that loaded it.
type Module struct {
	runtime *Runtime
	module  *wasm.Module
}

// Raw returns the decoded module.
func (m *Module) Raw() *wasm.Module {
	return m.module
}

// Export describes an exported function.
type Export struct {
	Name      string
	Signature wasm.FuncType
}

// Exports lists the function exports in declaration order.
func (m *Module) Exports() []Export {
	exports := make([]Export, 0, len(m.module.Exports))
	for _, exp := range m.module.Exports {
		if exp.Kind != wasm.KindFunc {
			continue
		}
		ft, _ := m.module.FuncType(exp.Idx)
		exports = append(exports, Export{Name: exp.Name, Signature: ft})
	}
	return exports
}

// Call invokes the function exported as name.
func (m *Module) Call(ctx context.Context, name string, args ...int64) (int64, error) {
	result, err := m.runtime.engine.Invoke(ctx, m.module, name, args)
	if err != nil {
		Logger().Debug("call failed", zap.String("export", name), zap.Error(err))
		return 0, err
	}
	Logger().Debug("call",
		zap.String("export", name),
		zap.Int64s("args", args),
		zap.Int64("result", result))
	return result, nil
}

// Close releases engine state held for the module, such as a compiled
// wazero module. The module can still be called afterwards.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.engine.Release(ctx, m.module)
}
