package wisp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errHalted = errors.New("boom")

func TestRunTrace(t *testing.T) {
	voc := testVocabulary()
	c := New(voc)
	c.SetMaxInputs(0)
	if err := c.Parse("1 2 +"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	word, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	var lines []string
	logf := func(mess string, args ...interface{}) {
		lines = append(lines, mess)
	}
	v, err := Run(word, WithTrace(logf), WithVocabulary(voc))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, _ := v.Int64()
	assert.Equal(t, int64(3), n)
	assert.NotEmpty(t, lines)
}

func TestRunRejectsNonZeroInput(t *testing.T) {
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
	_, err = Run(word)
	assert.Error(t, err)
}

func TestRunHaltFromNativeWord(t *testing.T) {
	voc := testVocabulary()
	boom := errHalted
	voc.Add(NativeWord("BOOM", identityEffect, func(m *Machine) {
		m.Halt(boom)
	}))
	c := New(voc)
	c.SetMaxInputs(0)
	if err := c.Parse("BOOM"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	word, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	_, err = Run(word)
	assert.Equal(t, boom, err)
}

func TestRunPanicRecovered(t *testing.T) {
	voc := testVocabulary()
	voc.Add(NativeWord("OOPS", identityEffect, func(m *Machine) {
		panic("native word gone wrong")
	}))
	c := New(voc)
	c.SetMaxInputs(0)
	if err := c.Parse("OOPS"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	word, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	_, err = Run(word)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "native word gone wrong")
	assert.Contains(t, err.Error(), "pos")
}
