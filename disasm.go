package wisp

import "fmt"

// Disassemble walks word's body from the start, using the same cell
// conventions as the Machine's dispatcher, and returns the sequence of
// WordRefs that produced it. voc, if non-nil, is used to recognize native
// words by identity so they disassemble back to a named WordRef instead of
// an anonymous one; pass nil to get anonymous RefNativeWord entries that
// carry only their Op (their effect is left as the zero effect).
//
// A native word flagged HasIntParam or HasValParam can only be recognized
// as occupying two cells through that same voc lookup -- an anonymous
// native word is assumed to take no inline parameter, so disassembling a
// body that calls a parameterized native word with voc == nil will
// misalign on the cell immediately after it. Always pass the Vocabulary a
// body was compiled against when it might contain one.
//
// Disassemble stops at (and does not include) the body's terminating
// return cell, matching how Compiler.Finish appends that cell itself after
// the WordRefs a caller built up.
func Disassemble(word *Word, voc *Vocabulary) ([]WordRef, error) {
	if word.IsNative() {
		return nil, fmt.Errorf("disassemble: %q is a native word, has no body", word.name)
	}
	var refs []WordRef
	ip := 0
	for ip < len(word.body) {
		ref, next, isReturn := decodeInstruction(word.body, ip, voc)
		if isReturn {
			return refs, nil
		}
		refs = append(refs, ref)
		ip = next
	}
	return refs, fmt.Errorf("disassemble: %q: body not terminated by return", word.name)
}

// decodeInstruction decodes the single WordRef-shaped unit starting at
// code[ip], returning the ref, the index of the cell after it, and whether
// it was the reserved return op (in which case ref is the zero WordRef and
// should be ignored).
func decodeInstruction(code []Instruction, ip int, voc *Vocabulary) (ref WordRef, nextIP int, isReturn bool) {
	instr := code[ip]
	id := opIdentity(instr.Op)
	switch id {
	case opIdentity(opReturn):
		return WordRef{}, ip + 1, true
	case opIdentity(opCall):
		return callRef(code[ip+1].Callee), ip + 2, false
	case opIdentity(opLiteral):
		return WordRef{Kind: RefLiteral, Val: code[ip+1].Val}, ip + 2, false
	case opIdentity(opBranch):
		return WordRef{Kind: RefBranch, Offset: code[ip+1].Offset}, ip + 2, false
	case opIdentity(opZBranch):
		return WordRef{Kind: RefZBranch, Offset: code[ip+1].Offset}, ip + 2, false
	default:
		w := voc.lookupByOp(instr.Op)
		if w == nil {
			w = &Word{flags: FlagNative, native: instr.Op}
		}
		switch {
		case w.flags.Has(FlagHasIntParam):
			return WordRef{Kind: RefNativeWord, Word: w, Offset: code[ip+1].Offset}, ip + 2, false
		case w.flags.Has(FlagHasValParam):
			return WordRef{Kind: RefNativeWord, Word: w, Val: code[ip+1].Val}, ip + 2, false
		default:
			return WordRef{Kind: RefNativeWord, Word: w}, ip + 1, false
		}
	}
}

// describeRef renders a WordRef as a short human-readable label, used by
// Machine tracing and by String-ing a disassembly for debugging.
func describeRef(ref WordRef) string {
	switch ref.Kind {
	case RefNativeWord, RefCompoundWord:
		name := fmt.Sprintf("<anon %s>", ref.Kind)
		if ref.Word != nil && ref.Word.name != "" {
			name = ref.Word.name
		}
		if ref.Word != nil && ref.Word.flags.Has(FlagHasIntParam) {
			return fmt.Sprintf("%s %d", name, ref.Offset)
		}
		if ref.Word != nil && ref.Word.flags.Has(FlagHasValParam) {
			return fmt.Sprintf("%s %v", name, ref.Val)
		}
		return name
	case RefLiteral:
		return fmt.Sprintf("literal(%v)", ref.Val)
	case RefBranch:
		return fmt.Sprintf("branch(%+d)", ref.Offset)
	case RefZBranch:
		return fmt.Sprintf("0branch(%+d)", ref.Offset)
	default:
		return "?"
	}
}

// DisassembleString renders word's body as a single space-joined line, for
// quick human inspection (e.g. the CLI harness's -dump flag).
func DisassembleString(word *Word, voc *Vocabulary) (string, error) {
	refs, err := Disassemble(word, voc)
	if err != nil {
		return "", err
	}
	s := ""
	for i, ref := range refs {
		if i > 0 {
			s += " "
		}
		s += describeRef(ref)
	}
	return s, nil
}
