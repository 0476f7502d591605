package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, prog.Len())
	assert.False(prog.Bound())
	assert.Equal(IP_UNBOUND, prog.IpRegister)

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("4", asm.Equate["REGISTERS_4"])
	assert.Equal("6", asm.Equate["REGISTERS_6"])
}

func TestAssemblerIp(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"#ip 0",
		"seti 5 0 1",
		"seti 6 0 2",
		"addi 0 1 0",
		"addr 1 2 3",
		"setr 1 0 0",
		"seti 8 0 4",
		"seti 9 0 5",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Instruction{
		{OP_SETI, 5, 0, 1},
		{OP_SETI, 6, 0, 2},
		{OP_ADDI, 0, 1, 0},
		{OP_ADDR, 1, 2, 3},
		{OP_SETR, 1, 0, 0},
		{OP_SETI, 8, 0, 4},
		{OP_SETI, 9, 0, 5},
	}

	assert.True(prog.Bound())
	assert.Equal(0, prog.IpRegister)
	assert.Equal(expected, prog.Instructions)
}

func TestAssemblerRoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		"#ip 4\naddi 4 16 4\nseti 1 3 5\nmulr 5 1 2\neqrr 2 3 2\ngtrr 1 3 2\nseti -1 0 4\n",
		"seti 123 0 3\nbani 3 456 3\neqri 3 72 3\nborr 0 -7 1\ngtir 9 2 0\n",
		"#ip 2\n",
	}

	for _, text := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(text))
		assert.NoError(err, text)
		if err != nil {
			continue
		}
		assert.Equal(text, prog.String())

		var sb strings.Builder
		n, err := prog.WriteTo(&sb)
		assert.NoError(err)
		assert.Equal(int64(len(text)), n)
		assert.Equal(text, sb.String())
	}
}

func TestAssemblerComments(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; opcode sample program",
		"",
		"   #ip   3   ; bound",
		"  addi\t3 1   3",
		"",
		"seti 0 0 3 ; loop",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(3, prog.IpRegister)
	assert.Equal([]Instruction{
		{OP_ADDI, 3, 1, 3},
		{OP_SETI, 0, 0, 3},
	}, prog.Instructions)
	assert.Equal("#ip 3\naddi 3 1 3\nseti 0 0 3\n", prog.String())
}

func TestAssemblerExpressions(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ LOOP 17",
		".equ IP 5",
		"#ip IP",
		"seti $(LOOP - 1) 0 IP",
		"muli 1 $(1 << 8) 1",
		"addi 2 $(LINENO * 10) 2",
		"bori 3 $(BASE + 1) 3",
	}

	asm := &Assembler{}
	asm.Predefine("BASE", "100")

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(5, prog.IpRegister)
	assert.Equal([]Instruction{
		{OP_SETI, 16, 0, 5},
		{OP_MULI, 1, 256, 1},
		{OP_ADDI, 2, 60, 2},
		{OP_BORI, 3, 101, 3},
	}, prog.Instructions)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		text   string
		lineno int
		err    error
	}){
		{"unknown", "seti 1 2 3\ndivr 1 2 3", 2, ErrDecode},
		{"missing", "seti 1 2", 1, ErrOpcodeValueMissing},
		{"extra", "seti 1 2 3 4", 1, ErrOpcodeExtraArgs},
		{"number", "seti one 2 3", 1, ErrParseNumber("one")},
		{"float", "addi 0 1.5 0", 1, ErrParseNumber("1.5")},
		{"ip_syntax", "#ip", 1, ErrIpDirective},
		{"ip_negative", "#ip -1", 1, ErrIpDirective},
		{"ip_number", "#ip x", 1, ErrParseNumber("x")},
		{"ip_twice", "#ip 1\n#ip 2", 2, ErrIpDuplicate},
		{"ip_late", "seti 1 2 3\n#ip 2", 2, ErrIpLate},
		{"equ_syntax", ".equ A", 1, ErrEquateSyntax},
		{"equ_duplicate", ".equ A 1\n.equ A 2", 2, ErrEquateDuplicate},
		{"expression", "seti $(\"x\") 0 0", 1, ErrParseExpression("\"x\"")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(entry.text))
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}
