package wasm

import (
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm/internal/binary"
)

// funcBody is one code-section entry before it is joined with its type index.
type funcBody struct {
	locals []ValType
	body   []Instruction
}

// ParseModule decodes a binary module. Sections are read in the fixed order
// Type, Function, Export, Code; the function and code sections are then
// joined positionally.
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewReader(data)

	if err := checkHeader(r); err != nil {
		return nil, err
	}

	types, err := parseTypeSection(r)
	if err != nil {
		return nil, r.WrapError("type", err)
	}
	typeIndices, err := parseFunctionSection(r)
	if err != nil {
		return nil, r.WrapError("function", err)
	}
	exports, err := parseExportSection(r)
	if err != nil {
		return nil, r.WrapError("export", err)
	}
	code, err := parseCodeSection(r)
	if err != nil {
		return nil, r.WrapError("code", err)
	}

	if r.Len() > 0 {
		return nil, errors.New(errors.PhaseDecode, errors.KindMalformedModule).
			Value(r.Len()).
			Detail("%d trailing bytes after code section", r.Len()).
			Build()
	}

	if len(typeIndices) != len(code) {
		return nil, errors.New(errors.PhaseDecode, errors.KindMalformedModule).
			Detail("function section declares %d functions, code section has %d bodies", len(typeIndices), len(code)).
			Build()
	}

	m := &Module{
		Types:   types,
		Funcs:   make([]Func, len(typeIndices)),
		Exports: exports,
	}
	for i, typeIdx := range typeIndices {
		m.Funcs[i] = Func{
			TypeIdx: typeIdx,
			Locals:  code[i].locals,
			Body:    code[i].body,
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func checkHeader(r *binary.Reader) error {
	if r.Size() < HeaderSize {
		return errors.New(errors.PhaseDecode, errors.KindModuleTooShort).
			Value(r.Size()).
			Detail("module is %d bytes, header needs %d", r.Size(), HeaderSize).
			Build()
	}

	magic, err := r.ReadDword()
	if err != nil {
		return r.WrapError("header", err)
	}
	if magic != Magic {
		return errors.New(errors.PhaseDecode, errors.KindWrongMagicHeader).
			Path("header").
			Value(magic).
			Detail("magic 0x%08x", magic).
			Build()
	}

	version, err := r.ReadDword()
	if err != nil {
		return r.WrapError("header", err)
	}
	if version != Version {
		return errors.New(errors.PhaseDecode, errors.KindWrongVersionHeader).
			Path("header").
			Value(version).
			Detail("version %d, want %d", version, Version).
			Build()
	}
	return nil
}

// readSectionHeader checks the section tag and consumes the size byte and
// the count byte. The size is not needed to parse the payload.
func readSectionHeader(r *binary.Reader, want byte) (int, error) {
	id, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if id != want {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidSectionCode).
			Value(id).
			Detail("at offset %d: expected section 0x%02x (%s), got 0x%02x", r.Position()-1, want, SectionName(want), id).
			Build()
	}
	if _, err := r.ReadByte(); err != nil {
		return 0, err
	}
	count, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func parseTypeSection(r *binary.Reader) ([]FuncType, error) {
	count, err := readSectionHeader(r, SectionType)
	if err != nil {
		return nil, err
	}

	types := make([]FuncType, 0, count)
	for i := 0; i < count; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if form != FuncTypeByte {
			return nil, errors.New(errors.PhaseDecode, errors.KindMalformedModule).
				Path("type "+strconv.Itoa(i)).
				Value(form).
				Detail("at offset %d: expected func form 0x%02x, got 0x%02x", r.Position()-1, FuncTypeByte, form).
				Build()
		}
		params, err := readValTypes(r)
		if err != nil {
			return nil, err
		}
		results, err := readValTypes(r)
		if err != nil {
			return nil, err
		}
		types = append(types, FuncType{Params: params, Results: results})
	}
	return types, nil
}

func parseFunctionSection(r *binary.Reader) ([]uint32, error) {
	count, err := readSectionHeader(r, SectionFunction)
	if err != nil {
		return nil, err
	}

	indices := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		idx, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		indices = append(indices, uint32(idx))
	}
	return indices, nil
}

func parseExportSection(r *binary.Reader) ([]Export, error) {
	count, err := readSectionHeader(r, SectionExport)
	if err != nil {
		return nil, err
	}

	exports := make([]Export, 0, count)
	for i := 0; i < count; i++ {
		length, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(name) {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidExportName).
				Value(append([]byte(nil), name...)).
				Detail("export %d: name is not valid UTF-8", i).
				Build()
		}
		if _, err := r.ReadByte(); err != nil {
			return nil, err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if kind != KindFunc {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidExportType).
				Value(kind).
				Detail("export %q: unknown kind 0x%02x", name, kind).
				Build()
		}
		idx, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		exports = append(exports, Export{Name: string(name), Kind: kind, Idx: uint32(idx)})
	}
	return exports, nil
}

func parseCodeSection(r *binary.Reader) ([]funcBody, error) {
	count, err := readSectionHeader(r, SectionCode)
	if err != nil {
		return nil, err
	}

	bodies := make([]funcBody, 0, count)
	for i := 0; i < count; i++ {
		// Body size is implied by the end marker.
		if _, err := r.ReadByte(); err != nil {
			return nil, err
		}
		locals, err := readValTypes(r)
		if err != nil {
			return nil, withPath(err, "func "+strconv.Itoa(i))
		}
		body, err := decodeInstructions(r)
		if err != nil {
			return nil, withPath(err, "func "+strconv.Itoa(i))
		}
		bodies = append(bodies, funcBody{locals: locals, body: body})
	}
	return bodies, nil
}

func readValTypes(r *binary.Reader) ([]ValType, error) {
	n, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	types := make([]ValType, 0, n)
	for i := 0; i < int(n); i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		vt := ValType(b)
		if !vt.Valid() {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidValueType).
				Value(b).
				Detail("at offset %d: unknown value type 0x%02x", r.Position()-1, b).
				Build()
		}
		types = append(types, vt)
	}
	return types, nil
}

// withPath prefixes the error path of a structured error.
func withPath(err error, elem string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = append([]string{elem}, e.Path...)
	}
	return err
}
