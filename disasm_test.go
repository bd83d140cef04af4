package wisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassembleRoundTrip(t *testing.T) {
	voc := testVocabulary()
	c := NewNamed(voc, "INC")
	c.SetMaxInputs(1)
	if err := c.Parse("1 +"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	word, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	refs, err := Disassemble(word, voc)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d: %v", len(refs), refs)
	}
	assert.Equal(t, RefLiteral, refs[0].Kind)
	n, _ := refs[0].Val.Int64()
	assert.Equal(t, int64(1), n)
	assert.Equal(t, RefNativeWord, refs[1].Kind)
	assert.Equal(t, "+", refs[1].Word.Name())
}

func TestDisassembleNativeRejected(t *testing.T) {
	plus := testVocabulary().Lookup("+")
	_, err := Disassemble(plus, nil)
	assert.Error(t, err)
}

func TestDisassembleStringIfElse(t *testing.T) {
	voc := testVocabulary()
	c := New(voc)
	c.SetMaxInputs(0)
	if err := c.Parse("1 2 < IF 10 ELSE 20 THEN"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	word, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	s, err := DisassembleString(word, voc)
	if err != nil {
		t.Fatalf("DisassembleString: %v", err)
	}
	if s == "" {
		t.Fatalf("expected a non-empty disassembly")
	}
}
