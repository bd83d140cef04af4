package wisp

import (
	"fmt"
	"io"

	"github.com/wisplang/wisp/internal/panicerr"
)

// RunOption configures a Run call, following the options pattern used
// throughout this module for anything with more than one or two knobs.
type RunOption func(*runConfig)

type runConfig struct {
	voc      *Vocabulary
	logf     func(mess string, args ...interface{})
	retLimit int
	out      io.Writer
	in       io.RuneReader
}

// WithOutput gives the stdwords IO words ("." and EMIT) somewhere to write.
// Without it, calling one of them halts the Machine -- see stdwords.
func WithOutput(w io.Writer) RunOption {
	return func(c *runConfig) { c.out = w }
}

// WithInput gives the stdwords KEY word somewhere to read from. Without it,
// KEY pushes Null immediately rather than blocking forever.
func WithInput(r io.RuneReader) RunOption {
	return func(c *runConfig) { c.in = r }
}

// WithTrace enables per-instruction tracing through logf, in the format
// Machine.trace produces. voc, if set via WithVocabulary, is used to render
// native ops by name rather than as anonymous "<anon native>" entries.
func WithTrace(logf func(mess string, args ...interface{})) RunOption {
	return func(c *runConfig) { c.logf = logf }
}

// WithVocabulary supplies the Vocabulary a trace should use to recognize
// native words by identity. Only meaningful alongside WithTrace.
func WithVocabulary(voc *Vocabulary) RunOption {
	return func(c *runConfig) { c.voc = voc }
}

// WithReturnLimit bounds the return stack's depth; 0 means unbounded. The
// default, used when this option is omitted, is 1024.
func WithReturnLimit(n int) RunOption {
	return func(c *runConfig) { c.retLimit = n }
}

// Run executes word from a freshly allocated, empty operand stack -- sized
// to word's declared Effect().Max() -- and returns the single value word
// leaves behind, or the error that halted it.
//
// word must require zero inputs (Effect().In() == 0): a top-level Run has
// no caller to have pushed arguments for it. Use a Compiler with
// SetMaxInputs(0) (the default is unbounded) to guarantee this statically.
//
// Execution runs on its own goroutine, recovered through panicerr.Recover
// so that a panic or runtime.Goexit inside a native Op becomes a returned
// error rather than taking the embedder's goroutine down with it.
func Run(word *Word, opts ...RunOption) (Value, error) {
	if word.effect.in != 0 {
		return Value{}, fmt.Errorf("run: %q requires %d input(s), but a run has none to supply", word.name, word.effect.in)
	}

	cfg := &runConfig{retLimit: 1024}
	for _, opt := range opts {
		opt(cfg)
	}

	m := newMachine(word.effect.max, cfg.retLimit)
	m.voc = cfg.voc
	m.logf = cfg.logf
	m.out = cfg.out
	m.in = cfg.in

	err := panicerr.Recover(word.name, func() int { return m.ip }, func() error {
		m.run(word)
		return m.haltErr
	})
	if err != nil {
		return Value{}, err
	}
	if m.operands.depth() == 0 {
		return Null(), nil
	}
	return m.operands.top(), nil
}
