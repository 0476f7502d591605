package cpu

import (
	"log"
)

// Cpu is the execution context of the register machine. A Cpu owns its
// register bank; programs are only read.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register Registers // Register bank.
	Ip       Word      // Instruction counter for programs without a bound ip register.
	Ticks    int       // Instructions executed since reset.
}

// NewCpu creates a CPU with a specifically sized register bank.
func NewCpu(size int) (cpu *Cpu) {
	cpu = &Cpu{
		Register: NewRegisters(size),
	}

	return
}

// Reset the CPU state.
// - Clears the registers, then sets r0 to seed.
// - Zeros the instruction counter and tick count.
func (cpu *Cpu) Reset(seed Word) {
	if cpu.Verbose {
		log.Printf("cpu: reset r0=%d", seed)
	}

	clear(cpu.Register)
	if len(cpu.Register) > 0 {
		cpu.Register[0] = seed
	}
	cpu.Ip = 0
	cpu.Ticks = 0
}

// Offset returns the offset of the next instruction to execute.
func (cpu *Cpu) Offset(prog *Program) (offset Word, err error) {
	if !prog.Bound() {
		offset = cpu.Ip
		return
	}

	if !cpu.Register.Valid(Word(prog.IpRegister)) {
		err = ErrIpRegister
		return
	}

	offset = cpu.Register[prog.IpRegister]
	return
}

// FetchCode fetches the next instruction to execute.
// Returns ErrIpEmpty when the offset is outside of the program.
func (cpu *Cpu) FetchCode(prog *Program) (ins Instruction, err error) {
	offset, err := cpu.Offset(prog)
	if err != nil {
		return
	}

	return prog.Fetch(offset)
}

// Tick executes a single instruction cycle.
func (cpu *Cpu) Tick(prog *Program) (err error) {
	ins, err := cpu.FetchCode(prog)
	if err != nil {
		return
	}

	return cpu.Execute(prog, ins)
}

// Execute executes a single decoded instruction, then advances the
// instruction pointer by one. The advance follows any write the
// instruction made to the ip register, which is how the program jumps.
func (cpu *Cpu) Execute(prog *Program, ins Instruction) (err error) {
	offset, err := cpu.Offset(prog)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%03d: %v %v", offset, cpu.Register, ins)
	}

	err = ins.Apply(cpu.Register)
	if err != nil {
		return
	}

	if prog.Bound() {
		cpu.Register[prog.IpRegister]++
	} else {
		cpu.Ip++
	}

	cpu.Ticks += 1

	return
}
