package cpu

import (
	"fmt"
	"strings"
)

const (
	REGISTERS_4 = 4 // Register bank size of the opcode sample device.
	REGISTERS_6 = 6 // Register bank size of the instruction pointer device.
)

// Registers is a register bank.
type Registers []Word

// NewRegisters creates a zeroed register bank.
func NewRegisters(size int) Registers {
	return make(Registers, size)
}

// Valid returns true if index names a register in the bank.
func (reg Registers) Valid(index Word) bool {
	return index >= 0 && index < Word(len(reg))
}

// Get returns the value of a register.
func (reg Registers) Get(index Word) (value Word, err error) {
	if !reg.Valid(index) {
		err = ErrRegister(index)
		return
	}

	value = reg[index]
	return
}

// Clone returns an independent copy of the register bank.
func (reg Registers) Clone() Registers {
	return append(Registers(nil), reg...)
}

// Equal returns true if both banks have the same size and values.
func (reg Registers) Equal(other Registers) bool {
	if len(reg) != len(other) {
		return false
	}
	for n := range reg {
		if reg[n] != other[n] {
			return false
		}
	}
	return true
}

// String returns the bank as '[r0, r1, ...]'.
func (reg Registers) String() string {
	vals := make([]string, len(reg))
	for n, val := range reg {
		vals[n] = fmt.Sprintf("%d", val)
	}
	return "[" + strings.Join(vals, ", ") + "]"
}

// operand resolves an operand by addressing mode.
func (reg Registers) operand(mode Mode, arg Word) (value Word, err error) {
	switch mode {
	case MODE_REG:
		value, err = reg.Get(arg)
	case MODE_IMM:
		value = arg
	}
	return
}
