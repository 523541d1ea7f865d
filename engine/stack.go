package engine

import "github.com/wippyai/zod/wasm"

// frame is the state of a single active call: the local slots and the
// operand stack.
type frame struct {
	locals []int64
	stack  []int64
}

// newFrame lays out the arguments followed by the zeroed declared locals.
// Arguments bound to i32 parameters are wrapped to 32 bits.
func newFrame(t Target, args []int64) *frame {
	locals := make([]int64, len(args)+len(t.Func.Locals))
	for i, arg := range args {
		if t.Type.Params[i] == wasm.ValI32 {
			arg = int64(int32(arg))
		}
		locals[i] = arg
	}
	return &frame{
		locals: locals,
		stack:  make([]int64, 0, len(t.Func.Body)),
	}
}

func (f *frame) push(v int64) {
	f.stack = append(f.stack, v)
}

// pop2 removes the top two operands, returning them in push order.
func (f *frame) pop2() (a, b int64, ok bool) {
	n := len(f.stack)
	if n < 2 {
		return 0, 0, false
	}
	a, b = f.stack[n-2], f.stack[n-1]
	f.stack = f.stack[:n-2]
	return a, b, true
}

func (f *frame) local(idx uint32) (int64, bool) {
	if int(idx) >= len(f.locals) {
		return 0, false
	}
	return f.locals[idx], true
}
