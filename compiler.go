package wisp

import "fmt"

// Compiler assembles one Word's body from source text or from directly
// appended WordRefs. It tracks, alongside the WordRef sequence itself, the
// cell position each ref will occupy once materialized -- the bookkeeping
// FixBranch and BranchBackTo need to turn a structural back-patch request
// into the signed cell offset the dispatcher actually reads at run time.
type Compiler struct {
	voc  *Vocabulary
	name string

	declared  *StackEffect
	maxInputs int // -1 means unbounded

	allowRawBranches bool

	refs      []WordRef
	cellPos   []int       // cellPos[i]: cell offset where refs[i] begins
	posByCell map[int]int // inverse of cellPos; the end cell is handled by branchTarget
	cells     int         // running total of cells emitted so far

	control []controlEntry
}

// New starts an anonymous Compiler -- the shape used to compile a REPL line
// or a one-off program string that will never be looked up by name.
func New(voc *Vocabulary) *Compiler { return newCompiler(voc, "") }

// NewNamed starts a Compiler for a word that will be registered in voc under
// name once Finish succeeds. Finish itself does not register the word; the
// caller does that (see api.go), so a failed definition never shadows a
// previous one.
func NewNamed(voc *Vocabulary, name string) *Compiler { return newCompiler(voc, name) }

func newCompiler(voc *Vocabulary, name string) *Compiler {
	return &Compiler{
		voc:       voc,
		name:      name,
		maxInputs: -1,
		posByCell: make(map[int]int),
	}
}

// SetStackEffect declares the effect the finished word must have; Finish
// reports EffectMismatch if the computed effect differs. Not calling it
// leaves the computed effect unchecked -- the common case, since most
// bodies don't need to assert their own shape.
func (c *Compiler) SetStackEffect(e StackEffect) { c.declared = &e }

// SetMaxInputs bounds how many values a reachable path through the body may
// require the caller to have pushed; exceeding it is StackUnderflow at
// Finish. n < 0 means unbounded (the default).
func (c *Compiler) SetMaxInputs(n int) { c.maxInputs = n }

// AllowRawBranches enables the raw BRANCH/0BRANCH source forms, which take
// a literal signed cell offset instead of going through a structured
// construct. Embedders leave this off by default; it exists for tooling
// that round-trips a disassembly back through the Compiler.
func (c *Compiler) AllowRawBranches(allow bool) { c.allowRawBranches = allow }

// NextPosition reports the InstructionPos the next Add call will return,
// without appending anything -- BEGIN uses this to remember a loop's top.
func (c *Compiler) NextPosition() InstructionPos { return InstructionPos(len(c.refs)) }

// Add appends ref to the in-progress body and returns the position it was
// recorded at, for later use with FixBranch or BranchBackTo.
func (c *Compiler) Add(ref WordRef) InstructionPos {
	pos := len(c.refs)
	c.cellPos = append(c.cellPos, c.cells)
	c.posByCell[c.cells] = pos
	c.refs = append(c.refs, ref)
	c.cells += ref.cells()
	return InstructionPos(pos)
}

// FixBranch patches the branch or zbranch ref at src to target the position
// the body has reached right now -- the "jump past the construct I just
// closed" case used by IF/ELSE/THEN and WHILE's exit.
func (c *Compiler) FixBranch(src InstructionPos) error {
	i := int(src)
	if i < 0 || i >= len(c.refs) {
		return BadBranchTarget{Reason: "fix_branch: position out of range", At: NoPos}
	}
	ref := c.refs[i]
	if ref.Kind != RefBranch && ref.Kind != RefZBranch {
		return BadBranchTarget{Reason: "fix_branch: position is not a branch", At: NoPos}
	}
	ref.Offset = c.cells - (c.cellPos[i] + 2)
	c.refs[i] = ref
	return nil
}

// BranchBackTo appends an unconditional branch whose offset targets a
// position already emitted (or the body's current end) -- the "jump back
// to the top of the loop" case used by REPEAT.
func (c *Compiler) BranchBackTo(target InstructionPos) error {
	return c.branchBackToKind(target, RefBranch)
}

// branchBackToKind is BranchBackTo generalized to the ref kind, so UNTIL can
// append a backward ZBRANCH the same way REPEAT appends a backward BRANCH.
func (c *Compiler) branchBackToKind(target InstructionPos, kind RefKind) error {
	i := int(target)
	if i < 0 || i > len(c.refs) {
		return BadBranchTarget{Reason: "branch_back_to: target out of range", At: NoPos}
	}
	targetCell := c.cells
	if i < len(c.refs) {
		targetCell = c.cellPos[i]
	}
	pos := c.Add(WordRef{Kind: kind})
	ref := c.refs[pos]
	ref.Offset = targetCell - (c.cellPos[pos] + 2)
	c.refs[pos] = ref
	return nil
}

// Parse tokenizes src and compiles it into the in-progress body, resolving
// each name against the Compiler's Vocabulary as it goes.
func (c *Compiler) Parse(src string) error {
	tz := NewTokenizer(src)
	for {
		tok := tz.Next()
		switch tok.Kind {
		case TokEnd:
			return nil
		case TokValue:
			c.Add(WordRef{Kind: RefLiteral, Val: tok.Val})
		case TokString:
			c.Add(WordRef{Kind: RefLiteral, Val: String(tok.Str)})
		case TokName:
			if err := c.parseName(tz, tok); err != nil {
				return err
			}
		}
	}
}

func (c *Compiler) parseName(tz *Tokenizer, tok Token) error {
	if handler, ok := controlWords[tok.Name]; ok {
		return handler(c, tok.Pos)
	}
	if c.allowRawBranches && (tok.Name == "BRANCH" || tok.Name == "0BRANCH") {
		return c.parseRawBranch(tz, tok)
	}
	if w := c.voc.Lookup(tok.Name); w != nil {
		return c.addWordRef(tz, tok, w)
	}
	return UnknownWord{Token: tok.Name, At: tok.Pos}
}

// addWordRef appends the WordRef for a resolved word w. A native word
// flagged HasIntParam or HasValParam (see word.go) reads its inline
// parameter from the very next token, the same "op cell, then operand
// cell" shape the reserved LITERAL/BRANCH/0BRANCH ops use -- generalized
// here to any native word an embedder registers with one of those flags,
// not just the five reserved dispatch ops.
func (c *Compiler) addWordRef(tz *Tokenizer, tok Token, w *Word) error {
	switch {
	case w.flags.Has(FlagHasIntParam):
		operand := tz.Next()
		n, ok := operand.Val.Int64()
		if operand.Kind != TokValue || !ok {
			return BadBranchTarget{Reason: fmt.Sprintf("%s requires an integer operand", tok.Name), At: tok.Pos}
		}
		c.Add(WordRef{Kind: RefNativeWord, Word: w, Offset: int(n)})
	case w.flags.Has(FlagHasValParam):
		operand := tz.Next()
		if operand.Kind != TokValue && operand.Kind != TokString {
			return BadBranchTarget{Reason: fmt.Sprintf("%s requires a value operand", tok.Name), At: tok.Pos}
		}
		val := operand.Val
		if operand.Kind == TokString {
			val = String(operand.Str)
		}
		c.Add(WordRef{Kind: RefNativeWord, Word: w, Val: val})
	default:
		c.Add(callRef(w))
	}
	return nil
}

// parseRawBranch handles the raw "BRANCH n" / "0BRANCH n" source forms: n is
// taken verbatim as the final cell-level offset, bypassing FixBranch's
// InstructionPos bookkeeping entirely.
func (c *Compiler) parseRawBranch(tz *Tokenizer, tok Token) error {
	operand := tz.Next()
	n, ok := operand.Val.Int64()
	if operand.Kind != TokValue || !ok {
		return BadBranchTarget{Reason: fmt.Sprintf("%s requires an integer operand", tok.Name), At: tok.Pos}
	}
	kind := RefBranch
	if tok.Name == "0BRANCH" {
		kind = RefZBranch
	}
	c.Add(WordRef{Kind: kind, Offset: int(n)})
	return nil
}

// Finish closes out the body: it rejects an unbalanced structured
// construct, runs computeEffect, checks the result against SetMaxInputs and
// any SetStackEffect declaration, then materializes the WordRef sequence
// into a linear []Instruction terminated by the reserved return op.
func (c *Compiler) Finish() (*Word, error) {
	if len(c.control) > 0 {
		top := c.control[len(c.control)-1]
		return nil, UnbalancedControl{Opener: openerName(top.tag), At: NoPos}
	}

	computed, err := c.computeEffect()
	if err != nil {
		return nil, err
	}
	if c.maxInputs >= 0 && computed.In() > c.maxInputs {
		return nil, StackUnderflow{Required: computed.In(), Allowed: c.maxInputs, At: NoPos}
	}
	if c.declared != nil && *c.declared != computed {
		return nil, EffectMismatch{Declared: *c.declared, Computed: computed}
	}

	body := make([]Instruction, 0, c.cells+1)
	for _, ref := range c.refs {
		body = append(body, refToInstructions(ref)...)
	}
	body = append(body, Instruction{Op: opReturn})

	return &Word{name: c.name, effect: computed, body: body}, nil
}

// refToInstructions renders one WordRef as the Instruction cell(s) it
// compiles to.
func refToInstructions(ref WordRef) []Instruction {
	switch ref.Kind {
	case RefNativeWord:
		switch {
		case ref.Word.flags.Has(FlagHasIntParam):
			return []Instruction{{Op: ref.Word.native}, {Offset: ref.Offset}}
		case ref.Word.flags.Has(FlagHasValParam):
			return []Instruction{{Op: ref.Word.native}, {Val: ref.Val}}
		default:
			return []Instruction{{Op: ref.Word.native}}
		}
	case RefCompoundWord:
		return []Instruction{{Op: opCall}, {Callee: ref.Word}}
	case RefLiteral:
		return []Instruction{{Op: opLiteral}, {Val: ref.Val}}
	case RefBranch:
		return []Instruction{{Op: opBranch}, {Offset: ref.Offset}}
	case RefZBranch:
		return []Instruction{{Op: opZBranch}, {Offset: ref.Offset}}
	default:
		return nil
	}
}

func openerName(tag byte) string {
	switch tag {
	case tagIf:
		return "IF"
	case tagElse:
		return "ELSE"
	case tagBegin:
		return "BEGIN"
	case tagWhile:
		return "WHILE"
	default:
		return "?"
	}
}
