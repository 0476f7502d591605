// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tebeka/atexit"

	"github.com/ezrec/wrist/cpu"
	"github.com/ezrec/wrist/emulator"
)

// openInput opens a file, or stdin for "-".
func openInput(name string) (inf io.ReadCloser) {
	if name == "-" {
		return io.NopCloser(os.Stdin)
	}

	inf, err := os.Open(name)
	if err != nil {
		atexit.Fatalf("%v: %v", name, err)
	}
	atexit.Register(func() { inf.Close() })

	return
}

// parseOffsets parses a comma separated list of offsets.
func parseOffsets(list string) (offsets []cpu.Word) {
	for _, word := range strings.Split(list, ",") {
		word = strings.TrimSpace(word)
		if len(word) == 0 {
			continue
		}
		v, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			atexit.Fatalf("-at: %v", err)
		}
		offsets = append(offsets, cpu.Word(v))
	}
	return
}

// loadSamples reads opcode samples, reports how many behave like three or
// more opcodes, and returns the decoded program.
func loadSamples(name string) (prog *cpu.Program, size int) {
	inf := openInput(name)

	samples, codes, err := cpu.ParseSamples(inf)
	if err != nil {
		atexit.Fatalf("%v: %v", name, err)
	}

	var ambiguous int
	for _, s := range samples {
		if s.Candidates().Len() >= 3 {
			ambiguous++
		}
	}
	fmt.Printf("samples: %d, behaving like 3 or more opcodes: %d\n", len(samples), ambiguous)

	table, err := cpu.ResolveOpCodes(samples)
	if err != nil {
		atexit.Fatalf("%v: %v", name, err)
	}
	for number := range cpu.Word(cpu.OP_COUNT) {
		if op, ok := table[number]; ok {
			fmt.Printf("opcode %2d: %v\n", number, op)
		}
	}

	prog, err = table.Program(codes)
	if err != nil {
		atexit.Fatalf("%v: %v", name, err)
	}

	size = cpu.REGISTERS_4
	if len(samples) > 0 {
		size = len(samples[0].Before)
	}

	return
}

func main() {
	var compile string
	var samples string
	var size int
	var seed int64
	var scan int
	var steps int
	var watch int
	var at string
	var snapshot bool
	var limit int
	var trace bool
	var timeout time.Duration
	var verbose bool

	defines := map[string]string{}

	flag.StringVar(&compile, "c", "", "program file to run, - for stdin")
	flag.StringVar(&samples, "samples", "", "opcode sample file to resolve and run")
	flag.IntVar(&size, "r", cpu.REGISTERS_6, "register bank size")
	flag.Int64Var(&seed, "seed", 0, "initial value of r0")
	flag.IntVar(&scan, "scan", 1, "number of consecutive r0 seeds to run")
	flag.IntVar(&steps, "n", 0, "stop after n steps, 0 to run to completion")
	flag.IntVar(&watch, "watch", -1, "stop when this register repeats a value")
	flag.StringVar(&at, "at", "", "comma separated offsets at which -watch samples")
	flag.BoolVar(&snapshot, "snapshot", false, "-watch compares the whole register bank")
	flag.IntVar(&limit, "limit", 0, "step ceiling for -watch, 0 for none")
	flag.BoolVar(&trace, "t", false, "Trace every instruction")
	flag.DurationVar(&timeout, "timeout", 0, "wall clock limit per run, 0 for none")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Func("D", "predefine NAME=VALUE equate", func(def string) error {
		name, value, ok := strings.Cut(def, "=")
		if !ok {
			return fmt.Errorf("expected NAME=VALUE")
		}
		defines[name] = value
		return nil
	})

	flag.Parse()

	if flag.NArg() != 0 {
		atexit.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	var prog *cpu.Program

	switch {
	case len(samples) != 0:
		prog, size = loadSamples(samples)
	case len(compile) != 0:
		inf := openInput(compile)

		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range defines {
			asm.Predefine(name, value)
		}

		var err error
		prog, err = asm.Parse(inf)
		if err != nil {
			atexit.Fatalf("%v: %v", compile, err)
		}
	default:
		atexit.Fatalf("%v: one of -c or -samples is required", os.Args[0])
	}

	emu := emulator.NewEmulator(prog, size)
	emu.Verbose = verbose
	if trace {
		emu.OnTrace = func(rec emulator.TraceRecord) {
			fmt.Printf("ip=%d %v %v %v\n", rec.Offset, rec.Before, rec.Instruction, rec.After)
		}
	}

	for n := range scan {
		r0 := cpu.Word(seed) + cpu.Word(n)

		err := emu.Reset(r0)
		if err != nil {
			atexit.Fatalf("%v", err)
		}

		switch {
		case watch >= 0:
			rep, err := emu.RunUntilRepeat(emulator.Watch{
				Register: watch,
				Snapshot: snapshot,
				Offsets:  parseOffsets(at),
				Limit:    limit,
			})
			if err != nil {
				log.Printf("r0=%d: %v", r0, err)
				continue
			}
			if rep.Found {
				fmt.Printf("r0=%d: r%d first %d, last before repeat %d, steps %d\n",
					r0, watch, rep.First, rep.Last, emu.Steps())
			} else {
				fmt.Printf("r0=%d: no repeat of r%d in %d steps\n", r0, watch, emu.Steps())
			}
			continue
		case steps > 0:
			err = emu.RunSteps(steps)
		case timeout > 0:
			deadline := time.Now().Add(timeout)
			for done := false; !done && err == nil; {
				if time.Now().After(deadline) {
					log.Printf("r0=%d: timeout after %d steps", r0, emu.Steps())
					break
				}
				done, err = emu.Tick()
			}
		default:
			err = emu.Run()
		}
		if err != nil {
			// A fault ends this run only.
			log.Printf("r0=%d: %v", r0, err)
			continue
		}

		fmt.Printf("r0=%d: %v %v after %d steps\n", r0, emu.Registers(), emu.State(), emu.Steps())
	}

	atexit.Exit(0)
}
