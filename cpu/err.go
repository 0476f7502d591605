package cpu

import (
	"errors"

	"github.com/ezrec/wrist/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpEmpty       = errors.New(f("ip empty"))
	ErrIpRegister    = errors.New(f("ip register invalid"))
	ErrRegisterRange = errors.New(f("register out of range"))

	// Instruction decode errors
	ErrDecode   = errors.New(f("decode"))
	ErrOperandA = errors.New(f("operand a"))
	ErrOperandB = errors.New(f("operand b"))
	ErrOperandC = errors.New(f("operand c"))

	// Assembler errors
	ErrIpDirective        = errors.New(f("#ip directive invalid"))
	ErrIpDuplicate        = errors.New(f("#ip duplicated"))
	ErrIpLate             = errors.New(f("#ip after first instruction"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))

	// Sample errors
	ErrSampleSyntax   = errors.New(f("sample syntax"))
	ErrSampleSize     = errors.New(f("sample register count mismatch"))
	ErrOpcodeConflict = errors.New(f("opcode has no candidates"))
	ErrOpcodeAmbiguous = errors.New(f("opcode ambiguous"))
)

// ErrOpcodeName is an unknown opcode mnemonic.
type ErrOpcodeName string

func (err ErrOpcodeName) Error() string {
	return f("opcode '%v' unknown", string(err))
}

func (err ErrOpcodeName) Is(target error) bool {
	return target == ErrDecode
}

// ErrOpcodeNumber is a numeric opcode with no resolved mnemonic.
type ErrOpcodeNumber Word

func (err ErrOpcodeNumber) Error() string {
	return f("opcode %d unresolved", int64(err))
}

func (err ErrOpcodeNumber) Is(target error) bool {
	return target == ErrDecode
}

// ErrRegister is a register index outside of the register bank.
type ErrRegister Word

func (err ErrRegister) Error() string {
	return f("register %d out of range", int64(err))
}

func (err ErrRegister) Is(target error) bool {
	return target == ErrRegisterRange
}

// ErrInstruction identifies the instruction that failed to execute.
type ErrInstruction Instruction

func (err ErrInstruction) Error() string {
	return f("bad instruction '%v'", Instruction(err).String())
}

func (err ErrInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrInstruction)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
