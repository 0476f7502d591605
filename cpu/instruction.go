package cpu

import (
	"errors"
	"fmt"
)

// Instruction is a single decoded machine instruction.
type Instruction struct {
	Op OpCode // Operation.
	A  Word   // First operand, literal or register per Op.
	B  Word   // Second operand, literal or register per Op.
	C  Word   // Destination register.
}

// String returns the canonical text form, 'op a b c'.
func (ins Instruction) String() string {
	return fmt.Sprintf("%v %d %d %d", ins.Op, ins.A, ins.B, ins.C)
}

// Apply executes the instruction against the register bank.
// On error the bank is left unmodified.
func (ins Instruction) Apply(reg Registers) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction(ins), err)
		}
	}()

	value, err := ins.Op.Eval(reg, ins.A, ins.B)
	if err != nil {
		return
	}

	if !reg.Valid(ins.C) {
		err = errors.Join(ErrOperandC, ErrRegister(ins.C))
		return
	}

	reg[ins.C] = value

	return
}
