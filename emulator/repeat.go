package emulator

import (
	"slices"

	"tailscale.com/util/deephash"

	"github.com/ezrec/wrist/cpu"
)

// Watch selects what RunUntilRepeat samples.
//
// By default only the value of Register is remembered, one Word per
// sample. With Snapshot set, the whole register bank is compared; each
// sample then costs a bank hash and the run only stops when the machine
// state itself repeats, which for a long loop can take many more steps.
type Watch struct {
	Register int        // Register reported, and compared unless Snapshot is set.
	Snapshot bool       // Compare the whole register bank.
	Offsets  []cpu.Word // Sample only before these offsets. Empty samples before every step.
	Limit    int        // Step ceiling, zero for none.
}

// Repeat is the result of RunUntilRepeat.
type Repeat struct {
	Found    bool     // A repeated sample stopped the run.
	First    cpu.Word // Watch register value of the first sample.
	Last     cpu.Word // Watch register value of the last new sample before the repeat.
	Repeated cpu.Word // Watch register value of the repeated sample.
	Samples  int      // Number of distinct samples.
}

// at returns true if the watch samples before offset.
func (w *Watch) at(offset cpu.Word) bool {
	return len(w.Offsets) == 0 || slices.Contains(w.Offsets, offset)
}

// seenSet remembers samples. add returns false if the sample was seen.
type seenSet interface {
	add(reg cpu.Registers, value cpu.Word) bool
}

type valueSet map[cpu.Word]struct{}

func (vs valueSet) add(reg cpu.Registers, value cpu.Word) (ok bool) {
	_, seen := vs[value]
	if !seen {
		vs[value] = struct{}{}
	}
	return !seen
}

type snapshotSet struct {
	hash func(*cpu.Registers) deephash.Sum
	seen map[deephash.Sum]struct{}
}

func (ss *snapshotSet) add(reg cpu.Registers, value cpu.Word) (ok bool) {
	sum := ss.hash(&reg)
	_, seen := ss.seen[sum]
	if !seen {
		ss.seen[sum] = struct{}{}
	}
	return !seen
}

func newSeenSet(snapshot bool) seenSet {
	if snapshot {
		return &snapshotSet{
			hash: deephash.HasherForType[cpu.Registers](),
			seen: make(map[deephash.Sum]struct{}),
		}
	}
	return make(valueSet)
}

// RunUntilRepeat executes until a sample repeats, the program halts, or
// the step limit is reached. A sample is taken before each step selected
// by the watch, while the instruction pointer is inside the program.
//
// Both answers of a cycle are reported: the first value sampled, and the
// last new value sampled before the first repeat.
func (emu *Emulator) RunUntilRepeat(watch Watch) (rep Repeat, err error) {
	if !emu.Cpu.Register.Valid(cpu.Word(watch.Register)) {
		err = cpu.ErrRegister(watch.Register)
		return
	}

	seen := newSeenSet(watch.Snapshot)

	for emu.state != STATE_HALTED {
		if watch.Limit > 0 && emu.Cpu.Ticks >= watch.Limit {
			emu.halt(false)
			break
		}

		offset, inside, _ := emu.offset()
		if inside && watch.at(offset) {
			value := emu.Cpu.Register[watch.Register]
			if !seen.add(emu.Cpu.Register, value) {
				rep.Found = true
				rep.Repeated = value
				emu.halt(false)
				break
			}
			if rep.Samples == 0 {
				rep.First = value
			}
			rep.Last = value
			rep.Samples++
		}

		_, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
