// Command wisp is a small harness around the wisp package: it compiles and
// runs programs given as files, or drives an interactive REPL when none are
// given. It exists to exercise the embedding API end to end; it is not
// itself part of the language.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/wisplang/wisp"
	"github.com/wisplang/wisp/internal/fileinput"
	"github.com/wisplang/wisp/internal/flushio"
	"github.com/wisplang/wisp/internal/logio"
	"github.com/wisplang/wisp/stdwords"
)

// Exit codes, distinct from the ad-hoc 0/1/2 logio.Logger.ExitCode() uses on
// its own: logio.ExitOK success, logio.ExitParseError a parse error (bad
// syntax, unknown word, unbalanced control construct), logio.ExitEffectError
// a stack-effect error (declared effect mismatch, underflow, overflow,
// inconsistent branches), logio.ExitRunError a run-time halt, and
// logio.ExitUsageError for harness-level failures (bad flags, an unreadable
// file) that never reach a compiler or Machine at all.

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("wisp", flag.ContinueOnError)
	trace := fs.Bool("trace", false, "log each instruction executed, to stderr")
	timeout := fs.Duration("timeout", 0, "abort the run after this long (0 disables)")
	maxInputs := fs.Int("max-inputs", 0, "maximum inputs the top-level program may declare (-1 for unbounded)")
	rawBranches := fs.Bool("raw-branches", false, "allow raw BRANCH/0BRANCH source forms")
	dump := fs.Bool("dump", false, "disassemble the compiled program instead of running it")
	if err := fs.Parse(args); err != nil {
		return logio.ExitUsageError
	}

	log := &logio.Logger{}
	log.SetOutput(nopCloser{os.Stderr})

	voc := wisp.NewVocabulary()
	stdwords.Register(voc)

	if fs.NArg() == 0 {
		return repl(voc, log, *trace)
	}

	src, err := readScripts(fs.Args())
	if err != nil {
		log.Errorf("%v", err)
		return logio.ExitUsageError
	}

	c := wisp.New(voc)
	c.SetMaxInputs(*maxInputs)
	if *rawBranches {
		c.AllowRawBranches(true)
	}
	if err := c.Parse(src); err != nil {
		log.Errorf("%v", err)
		return log.ExitCodeForError(err)
	}
	word, err := c.Finish()
	if err != nil {
		log.Errorf("%v", err)
		return log.ExitCodeForError(err)
	}

	if *dump {
		s, err := wisp.DisassembleString(word, voc)
		if err != nil {
			log.Errorf("%v", err)
			return log.ExitCodeForError(err)
		}
		fmt.Println(s)
		return logio.ExitOK
	}

	out := flushio.NewWriteFlusher(os.Stdout)
	defer out.Flush()

	opts := []wisp.RunOption{wisp.WithOutput(out)}
	if *trace {
		opts = append(opts, wisp.WithTrace(log.Leveledf("TRACE")), wisp.WithVocabulary(voc))
	}

	result, runErr := runWithTimeout(word, *timeout, opts...)
	if ferr := out.Flush(); ferr != nil && runErr == nil {
		runErr = ferr
	}
	if runErr != nil {
		log.Errorf("%v", runErr)
		return logio.ExitRunError
	}
	if !result.IsNull() {
		fmt.Println(result.String())
	}
	return logio.ExitOK
}

// runWithTimeout runs word with a deadline, if one was requested. wisp.Run
// already isolates its execution on its own goroutine (see
// internal/panicerr); this layers a second goroutine over that one purely
// to observe a deadline, since the Machine's dispatch loop has no
// cancellation hook of its own. A timed-out run's goroutine is abandoned
// rather than joined -- acceptable for a short-lived CLI process, where the
// whole program exits right behind it.
func runWithTimeout(word *wisp.Word, timeout time.Duration, opts ...wisp.RunOption) (wisp.Value, error) {
	if timeout <= 0 {
		return wisp.Run(word, opts...)
	}
	type outcome struct {
		v   wisp.Value
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := wisp.Run(word, opts...)
		ch <- outcome{v, err}
	}()
	select {
	case o := <-ch:
		return o.v, o.err
	case <-time.After(timeout):
		return wisp.Value{}, fmt.Errorf("wisp: run exceeded timeout of %v", timeout)
	}
}

// readScripts concatenates one or more source files into a single program,
// using fileinput.Input's multi-stream Queue so that "wisp a.wisp b.wisp"
// behaves as if the two files were pasted together.
func readScripts(paths []string) (string, error) {
	in := &fileinput.Input{}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return "", err
		}
		in.Queue = append(in.Queue, namedFile{f, p})
	}
	var b strings.Builder
	for {
		r, _, err := in.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if r == 0 {
			// fileinput reports a switch to the next queued file as a 0 rune
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

type namedFile struct {
	*os.File
	name string
}

func (nf namedFile) Name() string { return nf.name }

// repl drives an interactive read-eval-print loop over liner, sharing one
// Vocabulary across every line. Each line is compiled and run as an
// anonymous word through wisp.Eval, which registers nothing, so a line does
// not add words to that Vocabulary.
func repl(voc *wisp.Vocabulary, log *logio.Logger, trace bool) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	opts := []wisp.RunOption{wisp.WithOutput(os.Stdout)}
	if trace {
		opts = append(opts, wisp.WithTrace(log.Leveledf("TRACE")), wisp.WithVocabulary(voc))
	}

	for {
		text, err := line.Prompt("wisp> ")
		if err != nil {
			break // EOF or Ctrl-C/Ctrl-D
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		line.AppendHistory(text)

		v, err := wisp.Eval(voc, text, opts...)
		if err != nil {
			log.Errorf("%v", err)
			continue
		}
		if !v.IsNull() {
			fmt.Println(v.String())
		}
	}
	return logio.ExitOK
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
