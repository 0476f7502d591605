package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(REGISTERS_6)
	cpu.Register[3] = 7
	cpu.Ip = 4
	cpu.Ticks = 10

	cpu.Reset(12)
	assert.Equal(Registers{12, 0, 0, 0, 0, 0}, cpu.Register)
	assert.Equal(Word(0), cpu.Ip)
	assert.Equal(0, cpu.Ticks)
}

func TestCpuTickBound(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(0, Instruction{OP_ADDI, 0, 1, 0})

	cpu := NewCpu(REGISTERS_4)

	err := cpu.Tick(prog)
	assert.NoError(err)
	assert.Equal(Registers{2, 0, 0, 0}, cpu.Register)
	assert.Equal(1, cpu.Ticks)

	err = cpu.Tick(prog)
	assert.ErrorIs(err, ErrIpEmpty)
	assert.Equal(1, cpu.Ticks)
}

func TestCpuTickJump(t *testing.T) {
	assert := assert.New(t)

	// seti to the ip register lands one past the written value.
	prog := NewProgram(2,
		Instruction{OP_SETI, 2, 0, 2},
		Instruction{OP_SETI, 9, 0, 1},
		Instruction{OP_SETI, 8, 0, 0},
		Instruction{OP_SETI, 7, 0, 3},
	)

	cpu := NewCpu(REGISTERS_4)

	assert.NoError(cpu.Tick(prog))
	offset, err := cpu.Offset(prog)
	assert.NoError(err)
	assert.Equal(Word(3), offset)

	assert.NoError(cpu.Tick(prog))
	assert.Equal(Registers{0, 0, 4, 7}, cpu.Register)

	err = cpu.Tick(prog)
	assert.ErrorIs(err, ErrIpEmpty)
}

func TestCpuTickUnbound(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(IP_UNBOUND,
		Instruction{OP_ADDI, 0, 1, 0},
		Instruction{OP_ADDI, 0, 1, 0},
		Instruction{OP_ADDI, 0, 1, 0},
	)

	cpu := NewCpu(REGISTERS_4)

	for n := range 3 {
		assert.Equal(Word(n), cpu.Ip)
		assert.NoError(cpu.Tick(prog))
	}
	assert.ErrorIs(cpu.Tick(prog), ErrIpEmpty)
	assert.Equal(Registers{3, 0, 0, 0}, cpu.Register)
	assert.Equal(3, cpu.Ticks)
}

func TestCpuTickFault(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(0,
		Instruction{OP_SETI, 5, 0, 1},
		Instruction{OP_ADDR, 9, 1, 2},
	)

	cpu := NewCpu(REGISTERS_4)

	assert.NoError(cpu.Tick(prog))
	assert.Equal(Registers{1, 5, 0, 0}, cpu.Register)

	err := cpu.Tick(prog)
	assert.ErrorIs(err, ErrRegisterRange)
	assert.ErrorIs(err, ErrOperandA)
	assert.Equal(Registers{1, 5, 0, 0}, cpu.Register)
	assert.Equal(1, cpu.Ticks)

	assert.Equal(Instruction{OP_ADDR, 9, 1, 2}, prog.Instructions[1])
}

func TestCpuIpRegisterInvalid(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(5, Instruction{OP_SETI, 1, 0, 0})

	cpu := NewCpu(REGISTERS_4)

	err := cpu.Tick(prog)
	assert.ErrorIs(err, ErrIpRegister)

	err = cpu.Execute(prog, prog.Instructions[0])
	assert.ErrorIs(err, ErrIpRegister)
	assert.Equal(Registers{0, 0, 0, 0}, cpu.Register)
}
