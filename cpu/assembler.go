// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"REGISTERS_4": fmt.Sprintf("%d", REGISTERS_4),
	"REGISTERS_6": fmt.Sprintf("%d", REGISTERS_6),
}

// parenRe matches $(...) compile-time expressions.
var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler reads the wrist device program text.
//
// Each line holds an opcode mnemonic followed by three integers. A
// leading '#ip N' directive binds register N to the instruction pointer.
// Text after ';' is a comment. Operands may also name an equate defined
// by '.equ NAME VALUE', or be a $(...) integer expression.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value Word, err error) {
	v64, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = Word(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v Word
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(int64(v))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = Word(st_int64)
	return
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	// .equ CONST VALUE
	if len(words) > 0 && words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parseDirective parses the words of an '#ip N' directive.
func (asm *Assembler) parseDirective(words []string) (ip int, err error) {
	if len(words) != 2 {
		err = ErrIpDirective
		return
	}

	value, err := asm.valueOf(words[1])
	if err != nil {
		return
	}

	if value < 0 {
		err = ErrIpDirective
		return
	}

	ip = int(value)
	return
}

// parseInstruction parses the words of a single instruction.
func (asm *Assembler) parseInstruction(words []string) (ins Instruction, err error) {
	ins.Op, err = LookupOpCode(words[0])
	if err != nil {
		return
	}

	args := words[1:]
	switch {
	case len(args) < 3:
		err = ErrOpcodeValueMissing
		return
	case len(args) > 3:
		err = ErrOpcodeExtraArgs
		return
	}

	vals := [3]*Word{&ins.A, &ins.B, &ins.C}
	for n, arg := range args {
		*vals[n], err = asm.valueOf(arg)
		if err != nil {
			return
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	prog = &Program{IpRegister: IP_UNBOUND}
	directive := false

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		if len(words) == 0 {
			continue
		}

		if words[0] == "#ip" {
			switch {
			case directive:
				err = ErrIpDuplicate
				return
			case prog.Len() != 0:
				err = ErrIpLate
				return
			}
			prog.IpRegister, err = asm.parseDirective(words)
			if err != nil {
				return
			}
			directive = true
			continue
		}

		var ins Instruction
		ins, err = asm.parseInstruction(words)
		if err != nil {
			return
		}

		prog.Instructions = append(prog.Instructions, ins)
	}

	line = ""
	err = scanner.Err()

	return
}
