package panicerr

import (
	"errors"
	"fmt"
)

func recoverExitError(name string, pos func() int, errch chan<- error) {
	ee := exitError{name: name, pos: -1}
	if pos != nil {
		ee.pos = pos()
	}
	select {
	case errch <- ee:
	default:
		// assumes that that the happy path does a (maybe nil) send
	}
}

type exitError struct {
	name string
	pos  int
}

func (e exitError) Error() string {
	switch {
	case e.name == "" && e.pos < 0:
		return "runtime.Goexit called"
	case e.name == "":
		return fmt.Sprintf("runtime.Goexit called at pos %d", e.pos)
	case e.pos < 0:
		return fmt.Sprintf("%v called runtime.Goexit", e.name)
	default:
		return fmt.Sprintf("%v called runtime.Goexit at pos %d", e.name, e.pos)
	}
}

// IsExit returns true if err indicates a recovered goroutine exit.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}
