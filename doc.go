// Package zod is a compiler and runtime for a minimal WebAssembly-like
// module format.
//
// A module declares function signatures, functions built from a tiny
// instruction set (local.get, i32.add) and named exports. The toolchain
// compiles a text form to a compact binary and executes exported functions
// with integer arguments.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	zod/
//	├── wasm/            Module model, binary decoder and encoder
//	├── wat/             Text format to module compiler
//	├── engine/          Stack interpreter and wazero execution engines
//	├── runtime/         High-level API for compiling, loading and calling modules
//	├── modfile/         YAML and CBOR module descriptions
//	├── config/          zod.toml configuration
//	├── errors/          Structured error types for debugging
//	└── cmd/zod/         Command line tool
//
// # Quick Start
//
// Compile and run a module:
//
//	bin, err := wat.Compile(`(module
//	  (func (export "add") (param i32 i32) (result i32)
//	    local.get 0
//	    local.get 1
//	    i32.add))`)
//	if err != nil {
//	    return err
//	}
//
//	rt, err := runtime.New(ctx, runtime.Options{})
//	if err != nil {
//	    return err
//	}
//	defer rt.Close(ctx)
//
//	result, err := rt.Execute(ctx, bin, "add", []int64{3, 4}) // 7
//
// # Binary Format
//
// A binary module is the magic "\0asm", version 1, then the type, function,
// export and code sections in that order. Counts and indices are single
// bytes. See the wasm package for the full layout.
//
// # Engines
//
// The interpreter executes function bodies directly on an operand stack.
// The wazero engine re-encodes the module as standard WebAssembly and runs
// it on wazero. Both produce the same results for valid modules.
//
// # Command Line
//
//	zod compile add.wat                 writes add.bin
//	zod execute add.bin add 3 4         prints ">> 7"
//	zod execute -i add.bin              interactive function picker
//	zod inspect -format yaml add.bin    module description
//
// # Error Handling
//
// Errors are *errors.Error values carrying a phase and a kind:
//
//	_, err := rt.Execute(ctx, bin, "sub", nil)
//	if errors.Is(err, errors.ErrExportNotFound) {
//	    // handle missing export
//	}
package zod
