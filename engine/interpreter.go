package engine

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

// Interpreter executes function bodies on an operand stack.
type Interpreter struct{}

// NewInterpreter returns a stack machine interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Invoke resolves the export and runs its body.
func (in *Interpreter) Invoke(ctx context.Context, m *wasm.Module, name string, args []int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidInput, err, "invoke "+name)
	}
	return Execute(m, name, args)
}

// Release is a no-op; the interpreter keeps no per-module state.
func (in *Interpreter) Release(context.Context, *wasm.Module) error {
	return nil
}

// Close is a no-op; the interpreter holds no resources.
func (in *Interpreter) Close(context.Context) error {
	return nil
}

// Execute calls the function exported as name with args on the stack
// machine and returns its result.
func Execute(m *wasm.Module, name string, args []int64) (int64, error) {
	t, err := Resolve(m, name, args)
	if err != nil {
		return 0, err
	}

	debug("function resolved", func() []zap.Field {
		return []zap.Field{
			zap.String("export", name),
			zap.Uint32("func", t.FuncIdx),
			zap.Int("params", len(t.Type.Params)),
			zap.Int("locals", len(t.Func.Locals)),
		}
	})

	result, err := run(t, args)
	if err != nil {
		return 0, err
	}

	debug("function returned", func() []zap.Field {
		return []zap.Field{zap.String("export", name), zap.Int64("result", result)}
	})
	return result, nil
}

func run(t Target, args []int64) (int64, error) {
	f := newFrame(t, args)
	path := []string{"func", strconv.Itoa(int(t.FuncIdx))}

	for pc, instr := range t.Func.Body {
		switch instr.Opcode {
		case wasm.OpLocalGet:
			idx, ok := instr.Index()
			if !ok {
				return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidInstruction).
					Path(path...).
					Value(instr.Opcode).
					Detail("instruction %d: local.get without an index", pc).
					Build()
			}
			v, ok := f.local(idx)
			if !ok {
				return 0, errors.New(errors.PhaseRuntime, errors.KindLocalIndexOutOfRange).
					Path(path...).
					Value(idx).
					Detail("instruction %d: local %d, frame has %d slots", pc, idx, len(f.locals)).
					Build()
			}
			f.push(v)

		case wasm.OpI32Add:
			a, b, ok := f.pop2()
			if !ok {
				return 0, errors.New(errors.PhaseRuntime, errors.KindStackUnderflow).
					Path(path...).
					Value(len(f.stack)).
					Detail("instruction %d: i32.add needs 2 operands, stack has %d", pc, len(f.stack)).
					Build()
			}
			f.push(int64(int32(a) + int32(b)))

		default:
			return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidInstruction).
				Path(path...).
				Value(instr.Opcode).
				Detail("instruction %d: unknown opcode 0x%02x", pc, instr.Opcode).
				Build()
		}
	}

	if len(f.stack) != 1 {
		return 0, errors.New(errors.PhaseRuntime, errors.KindResultArityMismatch).
			Path(path...).
			Value(len(f.stack)).
			Detail("body left %d values, want 1", len(f.stack)).
			Build()
	}
	return f.stack[0], nil
}
