package wisp

import "io"

// Machine is the direct-threaded dispatcher. It owns an operand stack, a
// return stack, and a program counter (code/ip), and walks a compound
// Word's body one Instruction at a time until the reserved return op finds
// an empty return stack.
//
// Go gives no guarantee of tail-call elimination, so dispatch is an
// explicit loop rather than a chain of direct Go calls: each Op reads and
// advances the program counter itself, then Machine.run reads the next
// cell and invokes it.
type Machine struct {
	operands *operandStack
	returns  *returnStack

	code []Instruction
	ip   int

	halted  bool
	haltErr error

	logf func(mess string, args ...interface{})
	voc  *Vocabulary // optional, used only to render trace lines

	out io.Writer     // optional, written to by the stdwords IO words
	in  io.RuneReader // optional, read from by the stdwords IO words
}

// newMachine allocates a Machine with an operand stack sized for maxDepth
// values (Run sizes this from the word's declared effect.max) and a return
// stack bounded to retLimit frames (0 means unbounded).
func newMachine(maxDepth, retLimit int) *Machine {
	return &Machine{
		operands: newOperandStack(maxDepth),
		returns:  newReturnStack(retLimit),
	}
}

// halt aborts the current run: err may be nil for a normal, successful
// termination.
func (m *Machine) halt(err error) {
	m.halted = true
	m.haltErr = err
}

// push and pop expose the operand stack to native Ops (the stdwords
// package's only way to touch the Machine's data).
func (m *Machine) Push(v Value)  { m.operands.push(v) }
func (m *Machine) Pop() Value    { return m.operands.pop() }
func (m *Machine) Top() Value    { return m.operands.top() }
func (m *Machine) Depth() int    { return m.operands.depth() }

// NextOffset reads the inline int parameter cell immediately following the
// currently executing instruction and advances the program counter past
// it. A native Op registered with FlagHasIntParam must call this (and
// nothing else may) to consume its own parameter cell, the same way
// opBranch and opZBranch consume theirs.
func (m *Machine) NextOffset() int {
	off := m.code[m.ip].Offset
	m.ip++
	return off
}

// NextVal reads the inline Value parameter cell immediately following the
// currently executing instruction and advances the program counter past
// it, for a native Op registered with FlagHasValParam.
func (m *Machine) NextVal() Value {
	v := m.code[m.ip].Val
	m.ip++
	return v
}

// Halt lets a native Op abort the run early with a runtime error (e.g. a
// builtin encountering a precondition it chooses to treat as fatal rather
// than reporting via a null Value -- see stdwords and DESIGN.md).
func (m *Machine) Halt(err error) { m.halt(err) }

// Out returns the Writer stdwords' IO words write to, or nil if Run was
// given no WithOutput option.
func (m *Machine) Out() io.Writer { return m.out }

// In returns the RuneReader stdwords' IO words read from, or nil if Run was
// given no WithInput option.
func (m *Machine) In() io.RuneReader { return m.in }

func (m *Machine) run(entry *Word) {
	m.code = entry.body
	m.ip = 0
	for !m.halted {
		m.step()
	}
}

func (m *Machine) step() {
	instr := &m.code[m.ip]
	if m.logf != nil {
		m.trace(instr)
	}
	m.ip++
	instr.Op(m)
}

func (m *Machine) trace(instr *Instruction) {
	ref, _, isReturn := decodeInstruction(m.code, m.ip, m.voc)
	label := "return"
	if !isReturn {
		label = describeRef(ref)
	}
	m.logf("exec %s -- r:%d s:%v", label, m.returns.depth(), m.operands.cells[m.operands.sp:])
}

// Reserved dispatch ops. These are the only Ops the core itself defines;
// everything else is native library code in stdwords.
var (
	// opCall implements CALL: the cell after it holds the callee *Word.
	opCall Op = func(m *Machine) {
		callee := m.code[m.ip].Callee
		m.ip++
		if err := m.returns.push(frame{code: m.code, ip: m.ip}); err != nil {
			m.halt(err)
			return
		}
		m.code = callee.body
		m.ip = 0
	}

	// opReturn implements RETURN: pop the return stack, or terminate the
	// run if it's empty.
	opReturn Op = func(m *Machine) {
		f, ok := m.returns.pop()
		if !ok {
			m.halt(nil)
			return
		}
		m.code = f.code
		m.ip = f.ip
	}

	// opLiteral implements LITERAL: the cell after it holds the Value to push.
	opLiteral Op = func(m *Machine) {
		v := m.code[m.ip].Val
		m.ip++
		m.operands.push(v)
	}

	// opBranch implements BRANCH: the cell after it holds a signed offset,
	// in instruction cells, relative to the cell after the offset cell.
	opBranch Op = func(m *Machine) {
		off := m.code[m.ip].Offset
		m.ip++
		m.ip += off
	}

	// opZBranch implements ZBRANCH: pop the predicate, then -- like
	// opBranch -- read the offset cell and branch only if the predicate
	// was false/zero.
	opZBranch Op = func(m *Machine) {
		cond := m.operands.pop()
		off := m.code[m.ip].Offset
		m.ip++
		if !cond.Truthy() {
			m.ip += off
		}
	}
)

// wordReturn, wordCall, wordLiteral, wordBranch, wordZBranch are the Word
// records behind the reserved ops. The compiler and the disassembler work
// with the op values themselves (opCall, opReturn, ...) and do not consult
// these records.
var (
	wordReturn  = NativeWord("", identityEffect, opReturn, FlagMagic)
	wordCall    = NativeWord("", identityEffect, opCall, FlagMagic)
	wordLiteral = NativeWord("", literalEffect, opLiteral, FlagMagic, FlagHasValParam)
	wordBranch  = NativeWord("", branchEffect, opBranch, FlagMagic, FlagHasIntParam)
	wordZBranch = NativeWord("", zbranchEffect, opZBranch, FlagMagic, FlagHasIntParam)
)
