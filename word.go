package wisp

// Flags classifies a Word.
type Flags uint8

const (
	// FlagNative marks a Word implemented directly as a Go Op rather than
	// as a compound body.
	FlagNative Flags = 1 << iota
	// FlagHasIntParam marks a native Word that consumes an inline integer
	// parameter cell at its call site, the way BRANCH and 0BRANCH do. The
	// compiler reads the operand straight out of the source text
	// immediately following the word's name (Compiler.addWordRef), reserves
	// the cell for it (WordRef.cells), and emits it (refToInstructions); the
	// disassembler reverses all three (decodeInstruction). A native Op
	// carrying this flag must itself consume that cell via Machine.NextOffset
	// before doing anything else, exactly as opBranch/opZBranch do.
	FlagHasIntParam
	// FlagHasValParam marks a native Word that consumes an inline Value
	// parameter cell at its call site, the way a LITERAL push does. Same
	// compiler/disassembler wiring as FlagHasIntParam, via Machine.NextVal.
	FlagHasValParam
	// FlagMagic marks a Word handled specially by the compiler or
	// dispatcher rather than behaving like an ordinary callable word (the
	// reserved dispatch ops).
	FlagMagic
)

// Has reports whether f includes all of want.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Word is an immutable, named-or-anonymous callable: either a native
// operation or a compound body of Instructions. Once returned from
// Compiler.Finish it never changes, and the Machine may safely run it any
// number of times.
type Word struct {
	name   string
	flags  Flags
	effect StackEffect

	native Op           // set when flags.Has(FlagNative)
	body   []Instruction // set otherwise; nul-terminated by a return-op cell
}

// Name returns w's name, or "" for an anonymous compound word (e.g. one
// produced by compiling a REPL line or a raw program string).
func (w *Word) Name() string { return w.name }

// Flags returns w's classification flags.
func (w *Word) Flags() Flags { return w.flags }

// Effect returns w's statically computed stack effect.
func (w *Word) Effect() StackEffect { return w.effect }

// IsNative reports whether w is implemented as a native Op rather than a
// compound body.
func (w *Word) IsNative() bool { return w.flags.Has(FlagNative) }

// NativeWord constructs a native Word around a Go Op and its declared
// effect. This is how the stdwords package and the dispatcher's own
// reserved ops (CALL, RETURN, LITERAL, BRANCH, ZBRANCH) are built.
func NativeWord(name string, effect StackEffect, op Op, extra ...Flags) *Word {
	flags := FlagNative
	for _, f := range extra {
		flags |= f
	}
	return &Word{name: name, flags: flags, effect: effect, native: op}
}
