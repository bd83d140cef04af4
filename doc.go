/*
Package wisp implements a minimal, embeddable interpreter for a
stack-oriented concatenative language in the Forth family.

A wisp program is a sequence of words operating on an implicit operand
stack. A word is either native, implemented directly in Go as an Op, or
compound, with a body made of references to other words. The Compiler turns
either a structured list of word references or a textual source string into
a finished, immutable compound Word, statically deriving its net effect on
the operand stack (how many values it consumes, how many it leaves, and how
deep the stack gets along the way) as it goes. A malformed program -- one
whose branches don't balance, or whose two arms of an IF disagree about how
many values they leave -- is rejected at compile time rather than at run
time.

Execution is direct-threaded: the Machine walks a compound body one
Instruction at a time, dispatching each native Op in turn, with CALL/RETURN
implementing nested word calls against a small bounded return stack that is
entirely separate from the operand stack.

The fixed library of arithmetic, stack-shuffling, and IO words that make a
program actually useful lives in the sibling stdwords package: this package
defines only the shape of a word, and how bodies, branches, and literals are
encoded and executed.

See cmd/wisp for a reference command-line harness built on this package.
*/
package wisp
