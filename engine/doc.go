// Package engine executes functions of decoded modules.
//
// Two engines implement the Engine interface:
//
//	Interpreter - a stack machine that runs instruction bodies directly
//	Wazero      - a reference engine that runs the standard WebAssembly
//	              encoding of the module on wazero
//
// Both resolve exports the same way (see Resolve), so lookup and arity
// failures are identical regardless of the engine in use.
//
// # Execution Model
//
// A call builds one frame: the arguments in order, followed by the declared
// locals initialized to zero. The body is a straight-line sequence of
// instructions operating on an operand stack:
//
//	local.get i   push local slot i
//	i32.add       pop two operands, push their 32-bit wrapping sum
//
// When the body ends, exactly one value must remain on the stack; it is the
// result. Values are int64. Slots typed i32 hold the sign-extended 32-bit
// value, so arguments for i32 parameters are wrapped on entry.
//
// # Usage
//
//	module, _ := wasm.ParseModule(data)
//	eng := engine.NewInterpreter()
//	result, err := eng.Invoke(ctx, module, "add", []int64{3, 4})
//	// result == 7
//
// Errors are *errors.Error values in the runtime phase. Match them with the
// standard errors.Is and the sentinels of the errors package:
//
//	if errors.Is(err, zoderrors.ErrStackUnderflow) { ... }
//
// # Concurrency
//
// The Interpreter holds no state; Invoke may be called concurrently. The
// Wazero engine shares one wazero runtime across calls, which wazero
// supports concurrently. Close it when done.
package engine
