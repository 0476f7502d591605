package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/wrist/internal"
)

// IP_UNBOUND is the IpRegister of a program without an '#ip' directive.
const IP_UNBOUND = -1

// Program is an instruction listing. A Program must not be modified once
// it is handed to a Cpu; it may then be shared by any number of runs.
type Program struct {
	IpRegister   int           // Register aliased to the instruction pointer, or IP_UNBOUND.
	Instructions []Instruction // Instructions, in offset order.
}

// NewProgram creates a program from a copy of the instructions.
func NewProgram(ip int, instructions ...Instruction) *Program {
	return &Program{
		IpRegister:   ip,
		Instructions: append([]Instruction(nil), instructions...),
	}
}

// Bound returns true if a register is aliased to the instruction pointer.
func (prog *Program) Bound() bool {
	return prog.IpRegister != IP_UNBOUND
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	return len(prog.Instructions)
}

// Contains returns true if offset addresses an instruction.
func (prog *Program) Contains(offset Word) bool {
	return offset >= 0 && offset < Word(len(prog.Instructions))
}

// Fetch returns the instruction at offset.
func (prog *Program) Fetch(offset Word) (ins Instruction, err error) {
	if !prog.Contains(offset) {
		err = ErrIpEmpty
		return
	}

	ins = prog.Instructions[offset]
	return
}

// Directive returns the '#ip' line, or an empty string if unbound.
func (prog *Program) Directive() string {
	if !prog.Bound() {
		return ""
	}
	return fmt.Sprintf("#ip %d", prog.IpRegister)
}

// Lines iterates over the canonical text lines of the program.
func (prog *Program) Lines() iter.Seq[string] {
	var directive iter.Seq[string]
	if prog.Bound() {
		directive = internal.IterSeqOf(prog.Directive())
	} else {
		directive = internal.IterSeqOf[string]()
	}

	var listing iter.Seq[string] = func(yield func(string) bool) {
		for _, ins := range prog.Instructions {
			if !yield(ins.String()) {
				return
			}
		}
	}

	return internal.IterSeqConcat(directive, listing)
}

// String returns the canonical program text.
func (prog *Program) String() string {
	var sb strings.Builder
	for line := range prog.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the canonical program text.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	count, err := io.WriteString(w, prog.String())
	n = int64(count)
	return
}
