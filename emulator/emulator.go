// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"log"

	"github.com/ezrec/wrist/cpu"
)

// State is the execution state of the emulator.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_READY   = State(0) // ready
	STATE_RUNNING = State(1) // running
	STATE_HALTED  = State(2) // halted
)

// TraceRecord describes one executed instruction.
type TraceRecord struct {
	Offset      cpu.Word        // Offset of the instruction.
	Before      cpu.Registers   // Registers before execution.
	Instruction cpu.Instruction // Instruction executed.
	After       cpu.Registers   // Registers after execution, including the ip advance.
}

// Emulator state. CPU + program.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program.

	// OnTrace, if set, is called after every executed instruction.
	OnTrace func(rec TraceRecord)

	state  State
	exited bool
}

// NewEmulator creates a new emulator for a program, with a register
// bank of the given size.
func NewEmulator(prog *cpu.Program, size int) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(size),
		Program: prog,
	}

	return
}

// Reset the emulator to the Ready state, with r0 set to seed and all
// other registers cleared.
func (emu *Emulator) Reset(seed cpu.Word) (err error) {
	if emu.Program == nil {
		err = ErrProgramMissing
		return
	}

	if emu.Program.Bound() && !emu.Cpu.Register.Valid(cpu.Word(emu.Program.IpRegister)) {
		err = cpu.ErrIpRegister
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(seed)

	emu.state = STATE_READY
	emu.exited = false

	return
}

// State returns the current execution state.
func (emu *Emulator) State() State {
	return emu.state
}

// Exited returns true if the emulator halted because the instruction
// pointer left the program, rather than by a policy stop or a fault.
func (emu *Emulator) Exited() bool {
	return emu.exited
}

// Steps returns the number of instructions executed since a reset.
func (emu *Emulator) Steps() int {
	return emu.Cpu.Ticks
}

// Registers returns a copy of the register bank.
func (emu *Emulator) Registers() cpu.Registers {
	return emu.Cpu.Register.Clone()
}

// halt moves to the Halted state.
func (emu *Emulator) halt(exited bool) {
	if emu.Verbose {
		log.Printf("emulator: halted after %d steps %v", emu.Cpu.Ticks, emu.Cpu.Register)
	}

	emu.state = STATE_HALTED
	emu.exited = exited
}

// offset returns the next instruction offset, and whether it is inside
// the program.
func (emu *Emulator) offset() (offset cpu.Word, inside bool, err error) {
	offset, err = emu.Cpu.Offset(emu.Program)
	if err != nil {
		return
	}

	inside = emu.Program.Contains(offset)
	return
}

// Tick performs a single step of the emulator.
// done is set once the emulator has halted. A fault halts the emulator
// and leaves the registers as they were before the faulting step.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.state == STATE_HALTED {
		done = true
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	offset, inside, err := emu.offset()
	defer func() {
		if err != nil {
			emu.halt(false)
			done = true
			err = &ErrRuntime{Offset: offset, Err: err}
		}
	}()
	if err != nil {
		return
	}

	if !inside {
		emu.halt(true)
		done = true
		return
	}

	emu.state = STATE_RUNNING

	ins, err := emu.Program.Fetch(offset)
	if err != nil {
		return
	}

	var before cpu.Registers
	if emu.OnTrace != nil {
		before = emu.Cpu.Register.Clone()
	}

	err = emu.Cpu.Execute(emu.Program, ins)
	if err != nil {
		return
	}

	if emu.OnTrace != nil {
		emu.OnTrace(TraceRecord{
			Offset:      offset,
			Before:      before,
			Instruction: ins,
			After:       emu.Cpu.Register.Clone(),
		})
	}

	_, inside, err = emu.offset()
	if err != nil {
		return
	}

	if !inside {
		emu.halt(true)
		done = true
	}

	return
}

// Run executes until the program halts.
func (emu *Emulator) Run() (err error) {
	for done := emu.state == STATE_HALTED; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// RunSteps executes at most n instructions, then halts. The emulator
// stays Ready when n is zero.
func (emu *Emulator) RunSteps(n int) (err error) {
	if n <= 0 {
		return
	}

	for range n {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	emu.halt(false)

	return
}
