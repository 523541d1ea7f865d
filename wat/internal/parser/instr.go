package parser

import (
	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm"
	"github.com/wippyai/zod/wat/internal/token"
)

// parseInstrs parses plain and folded instructions up to, but not
// including, the closing paren of the enclosing field.
func (p *Parser) parseInstrs(localMap map[string]uint32) ([]wasm.Instruction, error) {
	var instrs []wasm.Instruction

	for {
		t := p.peek()
		if t == nil {
			return nil, p.errEOF()
		}
		if t.Type == token.RParen {
			return instrs, nil
		}

		if t.Type == token.LParen {
			p.next()
			folded, err := p.parseFolded(localMap)
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, folded...)
			continue
		}

		instr, err := p.parsePlainInstr(localMap)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}
}

// parseFolded parses "(op imm? operand*)" after the opening paren. The
// operands are emitted before the operator.
func (p *Parser) parseFolded(localMap map[string]uint32) ([]wasm.Instruction, error) {
	op, err := p.parsePlainInstr(localMap)
	if err != nil {
		return nil, err
	}
	operands, err := p.parseInstrs(localMap)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return append(operands, op), nil
}

// parsePlainInstr parses a mnemonic and its immediate through the shared
// instruction table.
func (p *Parser) parsePlainInstr(localMap map[string]uint32) (wasm.Instruction, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return wasm.Instruction{}, err
	}
	op, info, ok := wasm.LookupName(t.Value)
	if !ok {
		return wasm.Instruction{}, errors.ParseFailed(t.Line, "unknown instruction: %s", t.Value)
	}

	instr := wasm.Instruction{Opcode: op}
	if info.ImmType == wasm.ImmIndex {
		idx, err := p.parseIdx(localMap, "local")
		if err != nil {
			return wasm.Instruction{}, err
		}
		instr.Imm = wasm.LocalImm{LocalIdx: idx}
	}
	return instr, nil
}
