package parser

import (
	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
	"github.com/wippyai/zod/wat/internal/token"
)

// Field groups of a function, in the order they must appear.
const (
	groupExport = iota
	groupType
	groupParam
	groupResult
	groupLocal
)

var funcGroups = map[string]int{
	"export": groupExport,
	"type":   groupType,
	"param":  groupParam,
	"result": groupResult,
	"local":  groupLocal,
}

// parseFunc parses a function after "(func":
//
//	$name? (export "x")* (type $t)? (param ...)* (result ...)* (local ...)* instr*
func (p *Parser) parseFunc() error {
	start := p.peek()
	funcIdx := uint32(len(p.mod.Funcs))

	if name := p.optName(); name != "" {
		if _, dup := p.funcMap[name]; dup {
			return errors.ParseFailed(start.Line, "duplicate function %s", name)
		}
		p.funcMap[name] = funcIdx
	}

	var (
		ft       wasm.FuncType
		fn       wasm.Func
		typeUse  *uint32
		exports  []*token.Token
		inline   bool
		last     = groupExport
		localMap = make(map[string]uint32)
	)

	for {
		group, ok := funcGroups[p.peekKeyword()]
		if !ok {
			break
		}
		kw := p.tokens[p.pos+1]
		if group < last {
			return errors.ParseFailed(kw.Line, "%s must come before %s", kw.Value, groupName(last))
		}
		last = group
		p.pos += 2

		switch group {
		case groupExport:
			name, err := p.expect(token.String)
			if err != nil {
				return err
			}
			if _, err := p.expect(token.RParen); err != nil {
				return err
			}
			exports = append(exports, name)

		case groupType:
			if typeUse != nil {
				return errors.ParseFailed(kw.Line, "duplicate type use")
			}
			idx, err := p.parseIdx(p.typeMap, "type")
			if err != nil {
				return err
			}
			if int(idx) >= len(p.mod.Types) {
				return errors.ParseFailed(kw.Line, "type index %d out of range", idx)
			}
			if _, err := p.expect(token.RParen); err != nil {
				return err
			}
			typeUse = &idx

		case groupParam:
			inline = true
			if err := p.parseParams(&ft, localMap); err != nil {
				return err
			}

		case groupResult:
			inline = true
			if err := p.parseResults(&ft); err != nil {
				return err
			}

		case groupLocal:
			numParams := len(ft.Params)
			if typeUse != nil && !inline {
				numParams = len(p.mod.Types[*typeUse].Params)
			}
			if err := p.parseLocals(&fn, localMap, numParams); err != nil {
				return err
			}
		}
	}

	switch {
	case typeUse == nil:
		fn.TypeIdx = p.findOrAddType(ft)
	case inline && !ft.Equal(p.mod.Types[*typeUse]):
		return errors.ParseFailed(start.Line, "inline signature %s does not match type %d %s",
			ft, *typeUse, p.mod.Types[*typeUse])
	default:
		fn.TypeIdx = *typeUse
	}

	body, err := p.parseInstrs(localMap)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	fn.Body = body

	p.mod.Funcs = append(p.mod.Funcs, fn)
	for _, name := range exports {
		if err := p.addExport(name.Value, funcIdx, name.Line); err != nil {
			return err
		}
	}
	return nil
}

// parseLocals parses the body of a local field: either "$name type" or a
// list of types. Declared locals are numbered after the numParams parameters.
func (p *Parser) parseLocals(fn *wasm.Func, localMap map[string]uint32, numParams int) error {
	start := p.peek()
	if name := p.optName(); name != "" {
		vt, err := p.parseValType()
		if err != nil {
			return err
		}
		if _, dup := localMap[name]; dup {
			return errors.ParseFailed(start.Line, "duplicate local %s", name)
		}
		localMap[name] = uint32(numParams + len(fn.Locals))
		fn.Locals = append(fn.Locals, vt)
		_, err = p.expect(token.RParen)
		return err
	}

	types, err := p.parseValTypes()
	if err != nil {
		return err
	}
	fn.Locals = append(fn.Locals, types...)
	return nil
}

func groupName(group int) string {
	for name, g := range funcGroups {
		if g == group {
			return name
		}
	}
	return "?"
}
