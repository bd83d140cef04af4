package wisp

// DefineOption configures Define, mirroring the Compiler setup a caller
// would otherwise do by hand with New/NewNamed plus SetStackEffect,
// SetMaxInputs, and AllowRawBranches.
type DefineOption func(*Compiler)

// WithDeclaredEffect asserts the effect a definition must compute to,
// surfacing any mismatch as EffectMismatch from Define rather than letting
// a typo silently produce a differently-shaped word.
func WithDeclaredEffect(e StackEffect) DefineOption {
	return func(c *Compiler) { c.SetStackEffect(e) }
}

// WithMaxInputs bounds how many values a definition may require a caller to
// have already pushed. The default is unbounded.
func WithMaxInputs(n int) DefineOption {
	return func(c *Compiler) { c.SetMaxInputs(n) }
}

// WithRawBranches enables the raw BRANCH/0BRANCH source forms for this one
// definition; see Compiler.AllowRawBranches.
func WithRawBranches() DefineOption {
	return func(c *Compiler) { c.AllowRawBranches(true) }
}

// Define compiles src as a named word and registers it in voc under name,
// an embedding-API convenience for turning source text into a callable word
// in one step. On a compile error, voc is left unmodified: a failed
// redefinition never clobbers the word previously registered under name.
func Define(voc *Vocabulary, name, src string, opts ...DefineOption) (*Word, error) {
	c := NewNamed(voc, name)
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Parse(src); err != nil {
		return nil, err
	}
	word, err := c.Finish()
	if err != nil {
		return nil, err
	}
	voc.Add(word)
	return word, nil
}

// Eval compiles src as an anonymous word against voc and immediately Runs
// it, the one-shot convenience a REPL line or a "-e" flag needs. Since Run
// requires a zero-input word, Eval rejects src that would need the caller
// to have pre-seeded the stack -- there is no caller stack for a top-level
// Eval to draw from.
func Eval(voc *Vocabulary, src string, opts ...RunOption) (Value, error) {
	c := New(voc)
	c.SetMaxInputs(0)
	if err := c.Parse(src); err != nil {
		return Value{}, err
	}
	word, err := c.Finish()
	if err != nil {
		return Value{}, err
	}
	return Run(word, opts...)
}
