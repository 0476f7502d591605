package cpu

import (
	"errors"
)

// Word is the value held by a single register.
type Word int64

// Mode is the addressing mode of an opcode operand.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_NONE = Mode(0) // -
	MODE_REG  = Mode(1) // r
	MODE_IMM  = Mode(2) // i
)

// OpCode selects one of the sixteen machine operations.
type OpCode int

//go:generate go tool stringer -linecomment -type=OpCode
const (
	OP_ADDR = OpCode(0)  // addr
	OP_ADDI = OpCode(1)  // addi
	OP_MULR = OpCode(2)  // mulr
	OP_MULI = OpCode(3)  // muli
	OP_BANR = OpCode(4)  // banr
	OP_BANI = OpCode(5)  // bani
	OP_BORR = OpCode(6)  // borr
	OP_BORI = OpCode(7)  // bori
	OP_SETR = OpCode(8)  // setr
	OP_SETI = OpCode(9)  // seti
	OP_GTIR = OpCode(10) // gtir
	OP_GTRI = OpCode(11) // gtri
	OP_GTRR = OpCode(12) // gtrr
	OP_EQIR = OpCode(13) // eqir
	OP_EQRI = OpCode(14) // eqri
	OP_EQRR = OpCode(15) // eqrr

	OP_COUNT = 16 // Number of opcodes.
)

// opcodeMap maps mnemonics to opcodes.
var opcodeMap = func() map[string]OpCode {
	ops := make(map[string]OpCode, OP_COUNT)
	for op := range OpCode(OP_COUNT) {
		ops[op.String()] = op
	}
	return ops
}()

// LookupOpCode returns the opcode for a lowercase mnemonic.
func LookupOpCode(name string) (op OpCode, err error) {
	op, ok := opcodeMap[name]
	if !ok {
		err = ErrOpcodeName(name)
	}
	return
}

// Valid returns true if the opcode is one of the sixteen defined opcodes.
func (op OpCode) Valid() bool {
	return op >= OP_ADDR && op <= OP_EQRR
}

// Modes returns the addressing modes of the a and b operands.
func (op OpCode) Modes() (a, b Mode) {
	switch op {
	case OP_ADDR, OP_MULR, OP_BANR, OP_BORR, OP_GTRR, OP_EQRR:
		a, b = MODE_REG, MODE_REG
	case OP_ADDI, OP_MULI, OP_BANI, OP_BORI, OP_GTRI, OP_EQRI:
		a, b = MODE_REG, MODE_IMM
	case OP_GTIR, OP_EQIR:
		a, b = MODE_IMM, MODE_REG
	case OP_SETR:
		a, b = MODE_REG, MODE_NONE
	case OP_SETI:
		a, b = MODE_IMM, MODE_NONE
	default:
		a, b = MODE_NONE, MODE_NONE
	}
	return
}

// boolWord converts a comparison result to 1 or 0.
func boolWord(cond bool) Word {
	if cond {
		return 1
	}
	return 0
}

// Eval computes the result of the opcode for operands a and b.
// The register bank is only read.
func (op OpCode) Eval(reg Registers, a, b Word) (value Word, err error) {
	if !op.Valid() {
		err = ErrDecode
		return
	}

	mode_a, mode_b := op.Modes()

	va, err := reg.operand(mode_a, a)
	if err != nil {
		err = errors.Join(ErrOperandA, err)
		return
	}
	vb, err := reg.operand(mode_b, b)
	if err != nil {
		err = errors.Join(ErrOperandB, err)
		return
	}

	switch op {
	case OP_ADDR, OP_ADDI:
		value = va + vb
	case OP_MULR, OP_MULI:
		value = va * vb
	case OP_BANR, OP_BANI:
		value = va & vb
	case OP_BORR, OP_BORI:
		value = va | vb
	case OP_SETR, OP_SETI:
		value = va
	case OP_GTIR, OP_GTRI, OP_GTRR:
		value = boolWord(va > vb)
	case OP_EQIR, OP_EQRI, OP_EQRR:
		value = boolWord(va == vb)
	}

	return
}
