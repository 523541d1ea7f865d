// Package runtime provides the command surface for compiling and executing
// modules.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, runtime.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	// Compile a text module to the binary format
//	bin, err := rt.CompileSource(runtime.FormatWAT, source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Execute an export
//	result, err := rt.Execute(ctx, bin, "add", []int64{3, 4})
//	fmt.Println(result) // 7
//
// # Sources
//
// Module descriptions come in three formats:
//
//	wat   - WebAssembly text (see package wat)
//	yaml  - YAML module description (see package modfile)
//	cbor  - CBOR module description (see package modfile)
//
// FormatOf maps a file extension to its format.
//
// # Engines
//
// Options.Engine selects the engine that runs functions: "interpreter" runs
// bodies directly, "wazero" runs the standard WebAssembly encoding on
// wazero. Both produce the same results and the same lookup errors.
//
// Loaded modules can be inspected before calling:
//
//	mod, _ := rt.Load(bin)
//	for _, exp := range mod.Exports() {
//	    fmt.Println(exp.Name, exp.Signature)
//	}
//	result, err := mod.Call(ctx, "add", 3, 4)
package runtime
