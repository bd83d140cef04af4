package panicerr

// Recover runs f in a new goroutine wrapped in a defer logic to recover any
// abnormal exits or panics as non-nil error returns. pos, if non-nil, is
// consulted to capture where execution had gotten to if a panic or exit is
// caught; callers driving a cell-addressed dispatch loop can pass the
// current program counter so a recovered native-word panic reports where
// in the body it happened, not just which word was running.
func Recover(name string, pos func() int, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExitError(name, pos, errch)
		defer recoverPanicError(name, pos, errch)
		errch <- f()
	}()
	return <-errch
}
