package wisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVocabularyLookup(t *testing.T) {
	voc := NewVocabulary()
	dup := NativeWord("DUP", StackEffect{in: 0, net: 1, max: 1}, func(*Machine) {})
	voc.Add(dup)

	assert.Equal(t, dup, voc.Lookup("DUP"))
	assert.Nil(t, voc.Lookup("NOPE"))
	assert.Equal(t, 1, voc.Len())
}

func TestVocabularyRejectsNumericNames(t *testing.T) {
	voc := NewVocabulary()
	voc.Add(NativeWord("42", identityEffect, func(*Machine) {}))
	voc.Add(NativeWord("-3.5", identityEffect, func(*Machine) {}))
	assert.Equal(t, 0, voc.Len())
}

func TestVocabularyAllowsPlusAndMinus(t *testing.T) {
	// + and - begin with a reserved-looking character but do not themselves
	// parse as numbers, so they must remain definable.
	voc := NewVocabulary()
	plus := NativeWord("+", identityEffect, func(*Machine) {})
	minus := NativeWord("-", identityEffect, func(*Machine) {})
	voc.Add(plus)
	voc.Add(minus)
	assert.Equal(t, plus, voc.Lookup("+"))
	assert.Equal(t, minus, voc.Lookup("-"))
}

func TestVocabularyAddReplaces(t *testing.T) {
	voc := NewVocabulary()
	first := NativeWord("X", identityEffect, func(*Machine) {})
	second := NativeWord("X", identityEffect, func(*Machine) {})
	voc.Add(first)
	voc.Add(second)
	assert.Equal(t, second, voc.Lookup("X"))
	assert.Equal(t, 1, voc.Len())
}

func TestVocabularyLookupByOp(t *testing.T) {
	voc := NewVocabulary()
	op := func(*Machine) {}
	w := NativeWord("OP", identityEffect, op)
	voc.Add(w)
	assert.Equal(t, w, voc.lookupByOp(op))
}
