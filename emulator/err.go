package emulator

import (
	"errors"

	"github.com/ezrec/wrist/cpu"
	"github.com/ezrec/wrist/translate"
)

var f = translate.From

var (
	ErrProgramMissing = errors.New(f("program missing"))
)

// ErrRuntime indicates the location of a runtime fault.
type ErrRuntime struct {
	Offset cpu.Word
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("offset %d %v", int64(err.Offset), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
