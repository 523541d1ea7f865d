// Package wat parses the WebAssembly text format subset understood by zod.
//
// Basic usage:
//
//	bin, err := wat.Compile(`(module
//		(func (export "add") (param i32 i32) (result i32)
//			(i32.add (local.get 0) (local.get 1)))
//	)`)
//
// Supported:
//   - Type definitions: (type $name (func (param ...) (result ...)))
//   - Functions with params, results and locals, named or indexed
//   - Type uses: (func (type $name) ...), optionally repeating the signature
//   - Inline exports (func (export "name") ...) and module-level exports
//     (export "name" (func $f))
//   - Plain and folded instructions: local.get, i32.add
//   - Comments: line (;;) and block (; ;), nested
//
// Signatures written inline are deduplicated into the type table. Exports
// appear in the module in declaration order, inline exports first.
//
// Errors are parse phase *errors.Error values whose detail starts with the
// source line.
package wat
