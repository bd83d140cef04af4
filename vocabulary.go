package wisp

import "reflect"

// Vocabulary is the name-to-Word registry: keys are unique and
// case-sensitive; insertion order carries no meaning; Add replaces any
// existing Word under the same name; Lookup never mutates.
//
// A Vocabulary is not safe for concurrent use while being mutated --
// embedders that share one across goroutines must either treat it as
// read-only after initial population, or synchronize externally.
type Vocabulary struct {
	words map[string]*Word
	byOp  map[uintptr]*Word // reverse index for native words, for the disassembler/tracer
}

// NewVocabulary returns an empty Vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{words: make(map[string]*Word), byOp: make(map[uintptr]*Word)}
}

// Add inserts word under its own Name, replacing any word already
// registered under that name. Add is a no-op if word's name actually parses
// as a number (see parseNumber) or a rune literal (see parseRuneLiteral), so
// that a defined word can never shadow a literal the tokenizer would
// otherwise recognize. Words like "+" or "-" begin with a character that
// numbers can also start with but do not themselves parse as numbers, so
// they register normally.
func (voc *Vocabulary) Add(word *Word) {
	if word.name == "" {
		return
	}
	if _, ok := parseNumber(word.name); ok {
		return
	}
	if _, ok := parseRuneLiteral(word.name); ok {
		return
	}
	voc.words[word.name] = word
	if word.IsNative() {
		voc.byOp[opIdentity(word.native)] = word
	}
}

// lookupByOp reverse-looks-up the Word a native Op belongs to, for
// disassembly and tracing. Returns nil if op was never registered (an
// anonymous or foreign native op).
func (voc *Vocabulary) lookupByOp(op Op) *Word {
	if voc == nil {
		return nil
	}
	return voc.byOp[opIdentity(op)]
}

// opIdentity returns a comparable identity for a func value. Go func values
// are not comparable with ==, but their code pointer is stable for the life
// of the process, which is all the disassembler and tracer need.
func opIdentity(op Op) uintptr {
	return reflect.ValueOf(op).Pointer()
}

// Lookup returns the Word registered under name, or nil if none is.
func (voc *Vocabulary) Lookup(name string) *Word {
	return voc.words[name]
}

// Len reports how many words are registered.
func (voc *Vocabulary) Len() int { return len(voc.words) }

// Each calls f once per registered word, in unspecified order.
func (voc *Vocabulary) Each(f func(*Word)) {
	for _, w := range voc.words {
		f(w)
	}
}

