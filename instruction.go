package wisp

// Op is a native operation: a function from the Machine's current state
// (operand stack, return stack, and program counter) to its next state.
// Machine.step advances the program counter past the op cell before calling
// the Op; an Op is responsible for advancing it past any inline parameter
// cells of its own.
type Op func(m *Machine)

// Instruction is one cell of a compound Word's body. Exactly one of its
// fields is meaningful at any position:
//
//   - Op is set on every operation cell: either a native operation, or one of the reserved
//     dispatch ops (call, return, pushLiteral, branch, zbranch).
//   - Callee is set on the cell immediately following a call-op cell.
//   - Val is set on the cell immediately following a pushLiteral-op cell.
//   - Offset is set on the cell immediately following a branch or zbranch
//     op cell.
//
// A body is a []Instruction owned by the Word it belongs to, terminated by
// a cell whose Op is the reserved return op.
type Instruction struct {
	Op     Op
	Callee *Word
	Val    Value
	Offset int
}

// cells reports how many Instruction cells ref occupies once compiled: a
// call to a compound word, a literal push, or a branch are each two cells
// (the op, followed by its callee pointer, value, or offset); a call to a
// plain native word is one cell (the op itself). A call to a native word
// flagged HasIntParam or HasValParam is also two cells -- its Op consumes
// the inline parameter the same way BRANCH and LITERAL do, so the compiler
// has to reserve the cell for it regardless of which particular native word
// it is.
func (ref WordRef) cells() int {
	switch ref.Kind {
	case RefNativeWord:
		if ref.Word != nil && (ref.Word.flags.Has(FlagHasIntParam) || ref.Word.flags.Has(FlagHasValParam)) {
			return 2
		}
		return 1
	case RefCompoundWord, RefLiteral, RefBranch, RefZBranch:
		return 2
	default:
		return 1
	}
}
