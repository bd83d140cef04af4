package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

func recoverPanicError(name string, pos func() int, errch chan<- error) {
	var pe panicError
	if pe.e = recover(); pe.e != nil {
		pe.name = name
		pe.stack = debug.Stack()
		pe.pos = -1
		if pos != nil {
			pe.pos = pos()
		}
		select {
		case errch <- pe:
		default:
		}
	}
}

type panicError struct {
	name  string
	e     interface{}
	stack []byte
	pos   int
}

func (pe panicError) Error() string {
	return fmt.Sprint(pe)
}

func (pe panicError) Format(f fmt.State, c rune) {
	switch {
	case pe.name == "" && pe.pos < 0:
		fmt.Fprintf(f, "paniced: %v", pe.e)
	case pe.name == "":
		fmt.Fprintf(f, "paniced at pos %d: %v", pe.pos, pe.e)
	case pe.pos < 0:
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.e)
	default:
		fmt.Fprintf(f, "%v paniced at pos %d: %v", pe.name, pe.pos, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsPanic returns true if err indicates a recovered goroutine panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns a non-empty stacktrace string if err is a recovered
// goroutine panic.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
