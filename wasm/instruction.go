package wasm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/wasm/internal/binary"
)

// Instruction represents a decoded instruction. Imm is nil for
// instructions without immediates.
type Instruction struct {
	Imm    interface{}
	Opcode byte
}

// LocalImm holds the local index for local.get.
type LocalImm struct {
	LocalIdx uint32
}

// ImmKind describes the immediate operand that follows an opcode.
type ImmKind int

const (
	ImmNone  ImmKind = iota
	ImmIndex         // one index byte
)

// OpInfo is one entry of the instruction table.
type OpInfo struct {
	Name    string
	ImmType ImmKind
}

// opcodes is the instruction table. Adding an instruction means adding an
// opcode constant and one entry here.
var opcodes = map[byte]OpInfo{
	OpLocalGet: {"local.get", ImmIndex},
	OpI32Add:   {"i32.add", ImmNone},
}

var opcodesByName = func() map[string]byte {
	m := make(map[string]byte, len(opcodes))
	for op, info := range opcodes {
		m[info.Name] = op
	}
	return m
}()

// LookupOpcode returns the table entry for op.
func LookupOpcode(op byte) (OpInfo, bool) {
	info, ok := opcodes[op]
	return info, ok
}

// LookupName returns the opcode for a text mnemonic such as "i32.add".
func LookupName(name string) (byte, OpInfo, bool) {
	op, ok := opcodesByName[name]
	if !ok {
		return 0, OpInfo{}, false
	}
	return op, opcodes[op], true
}

// LocalGet returns a local.get instruction.
func LocalGet(idx uint32) Instruction {
	return Instruction{Opcode: OpLocalGet, Imm: LocalImm{LocalIdx: idx}}
}

// I32Add returns an i32.add instruction.
func I32Add() Instruction {
	return Instruction{Opcode: OpI32Add}
}

// Index returns the index immediate of the instruction.
func (i Instruction) Index() (uint32, bool) {
	if imm, ok := i.Imm.(LocalImm); ok {
		return imm.LocalIdx, true
	}
	return 0, false
}

// Equal reports whether two instructions have the same opcode and immediate.
func (i Instruction) Equal(other Instruction) bool {
	return i.Opcode == other.Opcode && i.Imm == other.Imm
}

func (i Instruction) String() string {
	info, ok := opcodes[i.Opcode]
	if !ok {
		return fmt.Sprintf("<0x%02x>", i.Opcode)
	}
	if info.ImmType == ImmIndex {
		idx, _ := i.Index()
		return info.Name + " " + strconv.FormatUint(uint64(idx), 10)
	}
	return info.Name
}

// ParseInstruction parses the text form produced by Instruction.String,
// e.g. "local.get 1" or "i32.add".
func ParseInstruction(text string) (Instruction, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Instruction{}, errors.InvalidInput(errors.PhaseParse, "empty instruction")
	}
	op, info, ok := LookupName(fields[0])
	if !ok {
		return Instruction{}, errors.New(errors.PhaseParse, errors.KindInvalidInstruction).
			Value(fields[0]).
			Detail("unknown instruction %q", fields[0]).
			Build()
	}
	switch info.ImmType {
	case ImmIndex:
		if len(fields) != 2 {
			return Instruction{}, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("%s takes one index", info.Name))
		}
		idx, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return Instruction{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse index of "+info.Name)
		}
		return Instruction{Opcode: op, Imm: LocalImm{LocalIdx: uint32(idx)}}, nil
	default:
		if len(fields) != 1 {
			return Instruction{}, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("%s takes no immediates", info.Name))
		}
		return Instruction{Opcode: op}, nil
	}
}

// encodeInstruction writes one instruction: its tag byte then its
// fixed-width immediates.
func encodeInstruction(w *binary.Writer, instr Instruction) error {
	info, ok := opcodes[instr.Opcode]
	if !ok {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInstruction).
			Value(instr.Opcode).
			Detail("unknown opcode 0x%02x", instr.Opcode).
			Build()
	}
	w.Byte(instr.Opcode)
	if info.ImmType == ImmIndex {
		idx, ok := instr.Index()
		if !ok {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Detail("%s without index immediate", info.Name).
				Build()
		}
		if idx > MaxCount || !w.Small(int(idx)) {
			return errors.Overflow(errors.PhaseEncode, []string{info.Name}, idx, MaxCount)
		}
	}
	return nil
}

// decodeInstructions reads instructions until the end marker. The loop is
// bounded only by the terminator and the input length.
func decodeInstructions(r *binary.Reader) ([]Instruction, error) {
	var instrs []Instruction
	for {
		op, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if op == OpEnd {
			return instrs, nil
		}
		info, ok := opcodes[op]
		if !ok {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidInstruction).
				Value(op).
				Detail("at offset %d: unknown opcode 0x%02x", r.Position()-1, op).
				Build()
		}
		instr := Instruction{Opcode: op}
		if info.ImmType == ImmIndex {
			idx, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			instr.Imm = LocalImm{LocalIdx: uint32(idx)}
		}
		instrs = append(instrs, instr)
	}
}
