package cpu

import (
	"bufio"
	"errors"
	"io"
	"math/bits"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

// Code is a numeric instruction: opcode number, a, b, c.
type Code [4]Word

// Sample is one observation of a numeric instruction: the register bank
// before and after the instruction executed.
type Sample struct {
	LineNo int
	Before Registers
	Code   Code
	After  Registers
}

// OpCodeSet is a set of opcodes.
type OpCodeSet uint16

// OpCodeSetAll contains every opcode.
const OpCodeSetAll = OpCodeSet(1<<OP_COUNT - 1)

// Has returns true if op is in the set.
func (set OpCodeSet) Has(op OpCode) bool {
	return op.Valid() && set&(1<<op) != 0
}

// With returns the set including op.
func (set OpCodeSet) With(op OpCode) OpCodeSet {
	return set | (1 << op)
}

// Without returns the set excluding every member of other.
func (set OpCodeSet) Without(other OpCodeSet) OpCodeSet {
	return set &^ other
}

// Len returns the number of opcodes in the set.
func (set OpCodeSet) Len() int {
	return bits.OnesCount16(uint16(set))
}

// OpCodes returns the members in opcode order.
func (set OpCodeSet) OpCodes() (ops []OpCode) {
	for op := range OpCode(OP_COUNT) {
		if set.Has(op) {
			ops = append(ops, op)
		}
	}
	return
}

// Candidates returns the opcodes whose behaviour matches the sample.
func (s Sample) Candidates() (set OpCodeSet) {
	for op := range OpCode(OP_COUNT) {
		reg := s.Before.Clone()
		ins := Instruction{Op: op, A: s.Code[1], B: s.Code[2], C: s.Code[3]}
		if ins.Apply(reg) != nil {
			continue
		}
		if reg.Equal(s.After) {
			set = set.With(op)
		}
	}
	return
}

// OpCodeTable maps opcode numbers to opcodes.
type OpCodeTable map[Word]OpCode

// Decode translates a numeric instruction.
func (table OpCodeTable) Decode(code Code) (ins Instruction, err error) {
	op, ok := table[code[0]]
	if !ok {
		err = ErrOpcodeNumber(code[0])
		return
	}

	ins = Instruction{Op: op, A: code[1], B: code[2], C: code[3]}
	return
}

// Program translates numeric instructions into a program with no bound
// instruction pointer.
func (table OpCodeTable) Program(codes []Code) (prog *Program, err error) {
	prog = &Program{IpRegister: IP_UNBOUND}
	for _, code := range codes {
		var ins Instruction
		ins, err = table.Decode(code)
		if err != nil {
			prog = nil
			return
		}
		prog.Instructions = append(prog.Instructions, ins)
	}
	return
}

// ResolveOpCodes determines the opcode of each opcode number that
// appears in the samples.
func ResolveOpCodes(samples []Sample) (table OpCodeTable, err error) {
	sets := map[Word]OpCodeSet{}
	for _, s := range samples {
		set, ok := sets[s.Code[0]]
		if !ok {
			set = OpCodeSetAll
		}
		sets[s.Code[0]] = set & s.Candidates()
	}

	return resolve(sets)
}

// resolve narrows candidate sets by elimination: an opcode that is the
// only candidate for one number is removed from every other number.
func resolve(sets map[Word]OpCodeSet) (table OpCodeTable, err error) {
	numbers := maps.Keys(sets)
	slices.Sort(numbers)

	sets = maps.Clone(sets)
	table = OpCodeTable{}

	var assigned OpCodeSet
	for len(table) < len(numbers) {
		var fixed OpCodeSet
		for _, number := range numbers {
			if _, ok := table[number]; ok {
				continue
			}
			set := sets[number]
			switch {
			case set.Len() == 0, set.Len() == 1 && assigned&set != 0:
				err = ErrOpcodeConflict
			case set.Len() == 1:
				table[number] = set.OpCodes()[0]
				assigned |= set
				fixed |= set
			}
			if err != nil {
				err = errors.Join(ErrOpcodeNumber(number), err)
				table = nil
				return
			}
		}

		if fixed == 0 {
			err = ErrOpcodeAmbiguous
			table = nil
			return
		}

		for _, number := range numbers {
			if _, ok := table[number]; !ok {
				sets[number] = sets[number].Without(fixed)
			}
		}
	}

	return
}

// Sample parser stages.
const (
	sampleIdle   = iota // Between samples, or in the program.
	sampleBefore        // Read Before:, expecting the code.
	sampleCode          // Read the code, expecting After:.
)

var sampleRe = regexp.MustCompile(`^(Before|After):\s*\[(.*)\]$`)

// parseBank parses the bracketed register list of a Before:/After: line.
func parseBank(label string, line string) (reg Registers, err error) {
	m := sampleRe.FindStringSubmatch(line)
	if m == nil || m[1] != label {
		err = ErrSampleSyntax
		return
	}

	for _, word := range strings.Split(m[2], ",") {
		var v int64
		v, err = strconv.ParseInt(strings.TrimSpace(word), 10, 64)
		if err != nil {
			err = ErrParseNumber(strings.TrimSpace(word))
			return
		}
		reg = append(reg, Word(v))
	}

	return
}

// parseCode parses a numeric instruction line.
func parseCode(line string) (code Code, err error) {
	words := strings.Fields(line)
	switch {
	case len(words) < len(code):
		err = ErrOpcodeValueMissing
		return
	case len(words) > len(code):
		err = ErrOpcodeExtraArgs
		return
	}

	for n, word := range words {
		var v int64
		v, err = strconv.ParseInt(word, 10, 64)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		code[n] = Word(v)
	}

	return
}

// ParseSamples reads a list of samples followed by a numeric program.
//
// Each sample is three lines:
//
//	Before: [3, 2, 1, 1]
//	9 2 1 2
//	After:  [3, 2, 2, 1]
//
// Blank lines separate samples. The first numeric line that does not
// follow a Before: line starts the program.
func ParseSamples(input io.Reader) (samples []Sample, codes []Code, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			samples = nil
			codes = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	stage := sampleIdle
	var current Sample
	for scanner.Scan() {
		lineno += 1
		line = strings.TrimSpace(scanner.Text())

		if len(line) == 0 {
			if stage != sampleIdle {
				err = ErrSampleSyntax
				return
			}
			continue
		}

		switch stage {
		case sampleIdle:
			if !strings.HasPrefix(line, "Before") {
				var code Code
				code, err = parseCode(line)
				codes = append(codes, code)
				break
			}
			if len(codes) != 0 {
				err = ErrSampleSyntax
				break
			}
			current = Sample{LineNo: lineno}
			current.Before, err = parseBank("Before", line)
			stage = sampleBefore
		case sampleBefore:
			current.Code, err = parseCode(line)
			stage = sampleCode
		case sampleCode:
			current.After, err = parseBank("After", line)
			if err == nil && len(current.After) != len(current.Before) {
				err = ErrSampleSize
			}
			samples = append(samples, current)
			stage = sampleIdle
		}
		if err != nil {
			return
		}
	}

	if stage != sampleIdle {
		err = ErrSampleSyntax
		return
	}

	line = ""
	err = scanner.Err()

	return
}
