package main

import (
	"fmt"
	"strings"

	"github.com/wippyai/zod/wasm"
)

// disassemble renders a module as a plain listing of its tables.
func disassemble(m *wasm.Module) string {
	var b strings.Builder

	for i, ft := range m.Types {
		fmt.Fprintf(&b, "type %d: %s\n", i, ft)
	}
	for i, fn := range m.Funcs {
		ft, _ := m.FuncType(uint32(i))
		fmt.Fprintf(&b, "func %d: type %d %s\n", i, fn.TypeIdx, ft)
		if len(fn.Locals) > 0 {
			locals := make([]string, len(fn.Locals))
			for j, vt := range fn.Locals {
				locals[j] = vt.String()
			}
			fmt.Fprintf(&b, "  locals: %s\n", strings.Join(locals, ", "))
		}
		for _, instr := range fn.Body {
			fmt.Fprintf(&b, "  %s\n", instr)
		}
	}
	for _, exp := range m.Exports {
		fmt.Fprintf(&b, "export %q: func %d\n", exp.Name, exp.Idx)
	}

	return b.String()
}
