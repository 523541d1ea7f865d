package modfile

import (
	"strconv"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
)

// File is the document form of a module. Value types are written by name
// and function bodies as instruction text, one instruction per entry.
type File struct {
	Types   []Signature `yaml:"types"   cbor:"1,keyasint"`
	Funcs   []Function  `yaml:"funcs"   cbor:"2,keyasint"`
	Exports []Export    `yaml:"exports" cbor:"3,keyasint"`
}

// Signature is a function type.
type Signature struct {
	Params  []string `yaml:"params,omitempty"  cbor:"1,keyasint,omitempty"`
	Results []string `yaml:"results,omitempty" cbor:"2,keyasint,omitempty"`
}

// Function references its signature by index into Types.
type Function struct {
	Locals []string `yaml:"locals,omitempty" cbor:"2,keyasint,omitempty"`
	Body   []string `yaml:"body"             cbor:"3,keyasint"`
	Type   uint32   `yaml:"type"             cbor:"1,keyasint"`
}

// Export names a function by index into Funcs. Kind defaults to "func".
type Export struct {
	Name string `yaml:"name"           cbor:"1,keyasint"`
	Kind string `yaml:"kind,omitempty" cbor:"2,keyasint,omitempty"`
	Func uint32 `yaml:"func"           cbor:"3,keyasint"`
}

const exportKindFunc = "func"

// FromModule converts a module to its document form.
func FromModule(m *wasm.Module) *File {
	f := &File{
		Types:   make([]Signature, len(m.Types)),
		Funcs:   make([]Function, len(m.Funcs)),
		Exports: make([]Export, len(m.Exports)),
	}
	for i, ft := range m.Types {
		f.Types[i] = Signature{Params: typeNames(ft.Params), Results: typeNames(ft.Results)}
	}
	for i, fn := range m.Funcs {
		body := make([]string, len(fn.Body))
		for j, instr := range fn.Body {
			body[j] = instr.String()
		}
		f.Funcs[i] = Function{Type: fn.TypeIdx, Locals: typeNames(fn.Locals), Body: body}
	}
	for i, exp := range m.Exports {
		f.Exports[i] = Export{Name: exp.Name, Func: exp.Idx}
	}
	return f
}

// Module converts the document to a module. Instruction text is parsed
// through the shared instruction table.
func (f *File) Module() (*wasm.Module, error) {
	m := &wasm.Module{}

	for i, sig := range f.Types {
		path := []string{"types", strconv.Itoa(i)}
		params, err := parseTypes(sig.Params, append(path, "params"))
		if err != nil {
			return nil, err
		}
		results, err := parseTypes(sig.Results, append(path, "results"))
		if err != nil {
			return nil, err
		}
		m.Types = append(m.Types, wasm.FuncType{Params: params, Results: results})
	}

	for i, fn := range f.Funcs {
		path := []string{"funcs", strconv.Itoa(i)}
		locals, err := parseTypes(fn.Locals, append(path, "locals"))
		if err != nil {
			return nil, err
		}
		body := make([]wasm.Instruction, 0, len(fn.Body))
		for j, text := range fn.Body {
			instr, err := wasm.ParseInstruction(text)
			if err != nil {
				return nil, withPath(err, append(path, "body", strconv.Itoa(j)))
			}
			body = append(body, instr)
		}
		m.Funcs = append(m.Funcs, wasm.Func{TypeIdx: fn.Type, Locals: locals, Body: body})
	}

	for _, exp := range f.Exports {
		if exp.Kind != "" && exp.Kind != exportKindFunc {
			return nil, errors.New(errors.PhaseLoad, errors.KindUnsupportedExportKind).
				Path("exports", exp.Name).
				Value(exp.Kind).
				Detail("export kind %q", exp.Kind).
				Build()
		}
		m.Exports = append(m.Exports, wasm.Export{Name: exp.Name, Kind: wasm.KindFunc, Idx: exp.Func})
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func typeNames(types []wasm.ValType) []string {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, len(types))
	for i, vt := range types {
		names[i] = vt.String()
	}
	return names
}

func parseTypes(names []string, path []string) ([]wasm.ValType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	types := make([]wasm.ValType, len(names))
	for i, name := range names {
		vt, err := wasm.ParseValType(name)
		if err != nil {
			return nil, withPath(err, append(path, strconv.Itoa(i)))
		}
		types[i] = vt
	}
	return types, nil
}

func withPath(err error, path []string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Phase = errors.PhaseLoad
		e.Path = path
	}
	return err
}
