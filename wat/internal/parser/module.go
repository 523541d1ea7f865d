package parser

import (
	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
	"github.com/wippyai/zod/wat/internal/token"
)

func (p *Parser) parseModule() (*wasm.Module, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("module"); err != nil {
		return nil, err
	}
	p.optName()

	// Types are collected first so functions can reference them before
	// their declaration.
	fields := p.pos
	if err := p.parseFields(true); err != nil {
		return nil, err
	}
	p.pos = fields
	if err := p.parseFields(false); err != nil {
		return nil, err
	}

	if t := p.next(); t != nil {
		return nil, errors.ParseFailed(t.Line, "unexpected %q after module", t.Value)
	}

	if err := p.resolveExports(); err != nil {
		return nil, err
	}
	return p.mod, nil
}

// parseFields walks the module fields up to the closing paren. The type
// pass handles only type definitions, the main pass everything else.
func (p *Parser) parseFields(typePass bool) error {
	for {
		t := p.next()
		if t == nil {
			return p.errEOF()
		}
		if t.Type == token.RParen {
			return nil
		}
		if t.Type != token.LParen {
			return errors.ParseFailed(t.Line, "expected module field, got %q", t.Value)
		}
		kw, err := p.expect(token.Ident)
		if err != nil {
			return err
		}

		if typePass != (kw.Value == "type") {
			if err := p.skipField(); err != nil {
				return err
			}
			continue
		}

		switch kw.Value {
		case "type":
			err = p.parseType()
		case "func":
			err = p.parseFunc()
		case "export":
			err = p.parseExport()
		default:
			err = errors.ParseFailed(kw.Line, "unsupported module field %q", kw.Value)
		}
		if err != nil {
			return err
		}
	}
}

// parseType parses "(type $name? (func (param ...)* (result ...)*))".
func (p *Parser) parseType() error {
	start := p.peek()
	name := p.optName()

	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	if err := p.expectKeyword("func"); err != nil {
		return err
	}
	var ft wasm.FuncType
	if err := p.parseFuncSig(&ft); err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	if name != "" {
		if _, dup := p.typeMap[name]; dup {
			return errors.ParseFailed(start.Line, "duplicate type %s", name)
		}
		p.typeMap[name] = uint32(len(p.mod.Types))
	}
	p.mod.Types = append(p.mod.Types, ft)
	return nil
}

// parseFuncSig parses the params and results of a type definition through
// its closing paren.
func (p *Parser) parseFuncSig(ft *wasm.FuncType) error {
	for {
		switch p.peekKeyword() {
		case "param":
			p.pos += 2
			if err := p.parseParams(ft, nil); err != nil {
				return err
			}
		case "result":
			p.pos += 2
			if err := p.parseResults(ft); err != nil {
				return err
			}
		default:
			_, err := p.expect(token.RParen)
			return err
		}
	}
}

// parseParams parses the body of a param field: either "$name type" or a
// list of types. Named params are recorded in locals when it is non-nil.
func (p *Parser) parseParams(ft *wasm.FuncType, locals map[string]uint32) error {
	start := p.peek()
	if name := p.optName(); name != "" {
		vt, err := p.parseValType()
		if err != nil {
			return err
		}
		if locals != nil {
			if _, dup := locals[name]; dup {
				return errors.ParseFailed(start.Line, "duplicate local %s", name)
			}
			locals[name] = uint32(len(ft.Params))
		}
		ft.Params = append(ft.Params, vt)
		_, err = p.expect(token.RParen)
		return err
	}

	types, err := p.parseValTypes()
	if err != nil {
		return err
	}
	ft.Params = append(ft.Params, types...)
	return nil
}

func (p *Parser) parseResults(ft *wasm.FuncType) error {
	types, err := p.parseValTypes()
	if err != nil {
		return err
	}
	ft.Results = append(ft.Results, types...)
	return nil
}

// parseValTypes reads value types through the closing paren.
func (p *Parser) parseValTypes() ([]wasm.ValType, error) {
	var types []wasm.ValType
	for {
		t := p.peek()
		if t == nil {
			return nil, p.errEOF()
		}
		if t.Type == token.RParen {
			p.next()
			return types, nil
		}
		vt, err := p.parseValType()
		if err != nil {
			return nil, err
		}
		types = append(types, vt)
	}
}

// parseExport parses `(export "name" (func $f))`. The function reference
// is resolved after all functions are parsed.
func (p *Parser) parseExport() error {
	name, err := p.expect(token.String)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	kind, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if kind.Value != "func" {
		return errors.ParseFailed(kind.Line, "unsupported export kind %q", kind.Value)
	}
	ref := p.next()
	if ref == nil {
		return p.errEOF()
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	p.exports = append(p.exports, pendingExport{name: name.Value, ref: *ref})
	return nil
}

func (p *Parser) resolveExports() error {
	for _, exp := range p.exports {
		idx, err := resolveIdx(&exp.ref, p.funcMap, "function")
		if err != nil {
			return err
		}
		if int(idx) >= len(p.mod.Funcs) {
			return errors.ParseFailed(exp.ref.Line, "function index %d out of range", idx)
		}
		if err := p.addExport(exp.name, idx, exp.ref.Line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) addExport(name string, funcIdx uint32, line int) error {
	if _, dup := p.mod.FindExport(name); dup {
		return errors.ParseFailed(line, "duplicate export %q", name)
	}
	p.mod.Exports = append(p.mod.Exports, wasm.Export{Name: name, Kind: wasm.KindFunc, Idx: funcIdx})
	return nil
}
