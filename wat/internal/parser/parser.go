package parser

import (
	"strconv"
	"strings"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
	"github.com/wippyai/zod/wat/internal/token"
)

// Parser builds a module from WAT tokens.
type Parser struct {
	mod     *wasm.Module
	typeMap map[string]uint32
	funcMap map[string]uint32
	exports []pendingExport
	tokens  []token.Token
	pos     int
}

// pendingExport is a module-level export whose function reference is
// resolved once every function is known.
type pendingExport struct {
	name string
	ref  token.Token
}

func New(tokens []token.Token) *Parser {
	return &Parser{
		mod:     &wasm.Module{},
		tokens:  tokens,
		typeMap: make(map[string]uint32),
		funcMap: make(map[string]uint32),
	}
}

func (p *Parser) Parse() (*wasm.Module, error) {
	return p.parseModule()
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

// peekKeyword returns the keyword of a field that starts at the current
// position, as in "(param".
func (p *Parser) peekKeyword() string {
	if p.pos+1 >= len(p.tokens) {
		return ""
	}
	if p.tokens[p.pos].Type != token.LParen || p.tokens[p.pos+1].Type != token.Ident {
		return ""
	}
	return p.tokens[p.pos+1].Value
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, p.errEOF()
	}
	if t.Type != typ {
		return nil, errors.ParseFailed(t.Line, "expected %v, got %q", typ, t.Value)
	}
	return t, nil
}

func (p *Parser) expectKeyword(kw string) error {
	t, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if t.Value != kw {
		return errors.ParseFailed(t.Line, "expected '%s', got %q", kw, t.Value)
	}
	return nil
}

func (p *Parser) errEOF() error {
	line := 1
	if n := len(p.tokens); n > 0 {
		line = p.tokens[n-1].Line
	}
	return errors.ParseFailed(line, "unexpected end of input")
}

func isName(t *token.Token) bool {
	return t != nil && t.Type == token.Ident && strings.HasPrefix(t.Value, "$")
}

// optName consumes a $name if one follows.
func (p *Parser) optName() string {
	if t := p.peek(); isName(t) {
		p.next()
		return t.Value
	}
	return ""
}

func (p *Parser) parseValType() (wasm.ValType, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	vt, err := wasm.ParseValType(t.Value)
	if err != nil {
		return 0, errors.ParseFailed(t.Line, "unknown value type: %s", t.Value)
	}
	return vt, nil
}

// parseIdx reads a numeric index or a $name resolved through names.
func (p *Parser) parseIdx(names map[string]uint32, what string) (uint32, error) {
	t := p.next()
	if t == nil {
		return 0, p.errEOF()
	}
	return resolveIdx(t, names, what)
}

func resolveIdx(t *token.Token, names map[string]uint32, what string) (uint32, error) {
	switch {
	case isName(t):
		if idx, ok := names[t.Value]; ok {
			return idx, nil
		}
		return 0, errors.ParseFailed(t.Line, "unknown %s: %s", what, t.Value)
	case t.Type == token.Number:
		val, err := strconv.ParseUint(strings.ReplaceAll(t.Value, "_", ""), 0, 32)
		if err != nil {
			return 0, errors.ParseFailed(t.Line, "invalid %s index: %s", what, t.Value)
		}
		return uint32(val), nil
	default:
		return 0, errors.ParseFailed(t.Line, "expected %s index, got %q", what, t.Value)
	}
}

func (p *Parser) findOrAddType(ft wasm.FuncType) uint32 {
	for i, t := range p.mod.Types {
		if t.Equal(ft) {
			return uint32(i)
		}
	}
	idx := uint32(len(p.mod.Types))
	p.mod.Types = append(p.mod.Types, ft)
	return idx
}

// skipField skips the rest of a field whose opening paren and keyword
// were already consumed.
func (p *Parser) skipField() error {
	depth := 1
	for depth > 0 {
		t := p.next()
		if t == nil {
			return p.errEOF()
		}
		switch t.Type {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
	}
	return nil
}
