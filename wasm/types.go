package wasm

import (
	"strings"

	"github.com/wippyai/zod/errors"
)

// Module represents a decoded module: the type table, the function table
// and the export table.
type Module struct {
	Types   []FuncType
	Funcs   []Func
	Exports []Export
}

// FuncType represents a function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Func is a function: its type-table index, its declared locals (parameters
// are not repeated) and its body without the trailing end marker.
type Func struct {
	Locals  []ValType
	Body    []Instruction
	TypeIdx uint32
}

// Export names an externally invocable entry point.
// Kind uses the KindFunc constant.
type Export struct {
	Name string
	Idx  uint32
	Kind byte
}

// ValType represents a value type.
// See constants.go for ValI32 and ValI64.
type ValType byte

// valTypeNames is the single mapping between value types, their bytes and
// their text names.
var valTypeNames = map[ValType]string{
	ValI32: "i32",
	ValI64: "i64",
}

func (v ValType) String() string {
	if name, ok := valTypeNames[v]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether v is a known value type.
func (v ValType) Valid() bool {
	_, ok := valTypeNames[v]
	return ok
}

// ParseValType maps a text name such as "i32" to its value type.
func ParseValType(name string) (ValType, error) {
	for vt, n := range valTypeNames {
		if n == name {
			return vt, nil
		}
	}
	return 0, errors.New(errors.PhaseParse, errors.KindInvalidValueType).
		Value(name).
		Detail("unknown value type %q", name).
		Build()
}

// String renders a signature as "(i32, i32) -> i32".
func (ft FuncType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range ft.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	switch len(ft.Results) {
	case 0:
		b.WriteString("()")
	case 1:
		b.WriteString(ft.Results[0].String())
	default:
		b.WriteByte('(')
		for i, r := range ft.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Equal reports whether two signatures have the same params and results.
func (ft FuncType) Equal(other FuncType) bool {
	return valTypesEqual(ft.Params, other.Params) && valTypesEqual(ft.Results, other.Results)
}

// Equal reports structural equality of two functions.
func (f Func) Equal(other Func) bool {
	if f.TypeIdx != other.TypeIdx || !valTypesEqual(f.Locals, other.Locals) {
		return false
	}
	if len(f.Body) != len(other.Body) {
		return false
	}
	for i := range f.Body {
		if !f.Body[i].Equal(other.Body[i]) {
			return false
		}
	}
	return true
}

// Equal reports structural equality across the type, function and export
// tables. Nil and empty slices compare equal.
func (m *Module) Equal(other *Module) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.Types) != len(other.Types) || len(m.Funcs) != len(other.Funcs) || len(m.Exports) != len(other.Exports) {
		return false
	}
	for i := range m.Types {
		if !m.Types[i].Equal(other.Types[i]) {
			return false
		}
	}
	for i := range m.Funcs {
		if !m.Funcs[i].Equal(other.Funcs[i]) {
			return false
		}
	}
	for i := range m.Exports {
		if m.Exports[i] != other.Exports[i] {
			return false
		}
	}
	return true
}

// FindExport returns the export with the given name.
func (m *Module) FindExport(name string) (Export, bool) {
	for _, exp := range m.Exports {
		if exp.Name == name {
			return exp, true
		}
	}
	return Export{}, false
}

// FuncType returns the signature of function funcIdx.
func (m *Module) FuncType(funcIdx uint32) (FuncType, bool) {
	if int(funcIdx) >= len(m.Funcs) {
		return FuncType{}, false
	}
	typeIdx := m.Funcs[funcIdx].TypeIdx
	if int(typeIdx) >= len(m.Types) {
		return FuncType{}, false
	}
	return m.Types[typeIdx], true
}

func valTypesEqual(a, b []ValType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
