package wisp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testVocabulary returns a small Vocabulary with enough native words to
// exercise the Compiler and control constructs, without depending on the
// stdwords package (which imports this one, and so can't be imported back
// from an internal test file without an import cycle).
func testVocabulary() *Vocabulary {
	voc := NewVocabulary()
	voc.Add(NativeWord("+", StackEffect{in: 2, net: -1, max: 2}, func(m *Machine) {
		b, a := m.Pop(), m.Pop()
		ai, _ := a.Int64()
		bi, _ := b.Int64()
		m.Push(Int(ai + bi))
	}))
	voc.Add(NativeWord("-", StackEffect{in: 2, net: -1, max: 2}, func(m *Machine) {
		b, a := m.Pop(), m.Pop()
		ai, _ := a.Int64()
		bi, _ := b.Int64()
		m.Push(Int(ai - bi))
	}))
	voc.Add(NativeWord("<", StackEffect{in: 2, net: -1, max: 2}, func(m *Machine) {
		b, a := m.Pop(), m.Pop()
		ai, _ := a.Int64()
		bi, _ := b.Int64()
		m.Push(BoolValue(ai < bi))
	}))
	voc.Add(NativeWord(">", StackEffect{in: 2, net: -1, max: 2}, func(m *Machine) {
		b, a := m.Pop(), m.Pop()
		ai, _ := a.Int64()
		bi, _ := b.Int64()
		m.Push(BoolValue(ai > bi))
	}))
	voc.Add(NativeWord("DUP", StackEffect{in: 1, net: 1, max: 2}, func(m *Machine) {
		m.Push(m.Top())
	}))
	voc.Add(NativeWord("DROP", StackEffect{in: 1, net: -1, max: 1}, func(m *Machine) {
		m.Pop()
	}))
	return voc
}

func compileAndRun(t *testing.T, voc *Vocabulary, src string) Value {
	t.Helper()
	c := New(voc)
	c.SetMaxInputs(0)
	if err := c.Parse(src); err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	word, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish(%q): %v", src, err)
	}
	v, err := Run(word)
	if err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}
	return v
}

func TestCompilerLiteralSequence(t *testing.T) {
	v := compileAndRun(t, testVocabulary(), "1 2 +")
	n, _ := v.Int64()
	assert.Equal(t, int64(3), n)
}

func TestCompilerUnknownWord(t *testing.T) {
	c := New(testVocabulary())
	err := c.Parse("1 BOGUS")
	var uw UnknownWord
	assert.True(t, errors.As(err, &uw))
}

func TestCompilerIfElseThen(t *testing.T) {
	voc := testVocabulary()
	v := compileAndRun(t, voc, "1 2 < IF 10 ELSE 20 THEN")
	n, _ := v.Int64()
	assert.Equal(t, int64(10), n)

	v = compileAndRun(t, voc, "2 1 < IF 10 ELSE 20 THEN")
	n, _ = v.Int64()
	assert.Equal(t, int64(20), n)
}

func TestCompilerIfWithoutElse(t *testing.T) {
	voc := testVocabulary()
	v := compileAndRun(t, voc, "99 0 0 < IF DROP 10 THEN")
	n, _ := v.Int64()
	assert.Equal(t, int64(99), n)
}

func TestCompilerBeginWhileRepeat(t *testing.T) {
	// count down from 3 to 0: DUP peeks the counter for the test, leaving
	// the real counter underneath for the body to decrement.
	voc := testVocabulary()
	v := compileAndRun(t, voc, "3 BEGIN DUP 0 > WHILE 1 - REPEAT")
	n, _ := v.Int64()
	assert.Equal(t, int64(0), n)
}

func TestCompilerBeginUntil(t *testing.T) {
	voc := testVocabulary()
	c := New(voc)
	c.SetMaxInputs(0)
	err := c.Parse("3 BEGIN 1 - DUP 0 < UNTIL")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	word, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	v, err := Run(word)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, _ := v.Int64()
	assert.Equal(t, int64(-1), n)
}

func TestCompilerUnbalancedControl(t *testing.T) {
	c := New(testVocabulary())
	err := c.Parse("1 THEN")
	var uc UnbalancedControl
	assert.True(t, errors.As(err, &uc))
}

func TestCompilerUnterminatedIf(t *testing.T) {
	c := New(testVocabulary())
	if err := c.Parse("1 0 < IF 2"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err := c.Finish()
	var uc UnbalancedControl
	assert.True(t, errors.As(err, &uc))
}

func TestCompilerDeclaredEffectMismatch(t *testing.T) {
	c := New(testVocabulary())
	wrong, _ := NewStackEffect(0, 5, 5)
	c.SetStackEffect(wrong)
	if err := c.Parse("1 2 +"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err := c.Finish()
	var em EffectMismatch
	assert.True(t, errors.As(err, &em))
}

func TestCompilerMaxInputsExceeded(t *testing.T) {
	c := New(testVocabulary())
	c.SetMaxInputs(0)
	if err := c.Parse("+"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err := c.Finish()
	var su StackUnderflow
	assert.True(t, errors.As(err, &su))
}

func TestCompilerRawBranches(t *testing.T) {
	voc := testVocabulary()
	c := New(voc)
	c.SetMaxInputs(0)
	c.AllowRawBranches(true)
	// BRANCH 2 skips the literal 99 cell pair, landing on 7.
	if err := c.Parse("BRANCH 2 99 7"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	word, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	v, err := Run(word)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, _ := v.Int64()
	assert.Equal(t, int64(7), n)
}

// TestCompilerNativeWordWithIntParam exercises FlagHasIntParam for an
// ordinary, Vocabulary-registered native word rather than one of the
// reserved dispatch ops: ADDN n adds its inline n to the top of the stack,
// the same "op cell, then operand cell" shape BRANCH uses.
func TestCompilerNativeWordWithIntParam(t *testing.T) {
	voc := testVocabulary()
	voc.Add(NativeWord("ADDN", StackEffect{in: 1, net: 0, max: 1}, func(m *Machine) {
		n := m.NextOffset()
		top, _ := m.Pop().Int64()
		m.Push(Int(top + int64(n)))
	}, FlagHasIntParam))

	v := compileAndRun(t, voc, "5 ADDN 3")
	n, _ := v.Int64()
	assert.Equal(t, int64(8), n)
}

// TestCompilerNativeWordWithValParam exercises FlagHasValParam the same
// way: PUSHC v pushes its inline Value, the shape LITERAL uses.
func TestCompilerNativeWordWithValParam(t *testing.T) {
	voc := testVocabulary()
	voc.Add(NativeWord("PUSHC", StackEffect{in: 0, net: 1, max: 1}, func(m *Machine) {
		m.Push(m.NextVal())
	}, FlagHasValParam))

	v := compileAndRun(t, voc, "PUSHC 42")
	n, _ := v.Int64()
	assert.Equal(t, int64(42), n)
}

// TestDisassembleNativeWordWithIntParam checks that decodeInstruction
// recovers a parameterized native word's inline operand rather than
// misreading its parameter cell as the next instruction.
func TestDisassembleNativeWordWithIntParam(t *testing.T) {
	voc := testVocabulary()
	voc.Add(NativeWord("ADDN", StackEffect{in: 1, net: 0, max: 1}, func(m *Machine) {
		n := m.NextOffset()
		top, _ := m.Pop().Int64()
		m.Push(Int(top + int64(n)))
	}, FlagHasIntParam))

	c := New(voc)
	c.SetMaxInputs(0)
	if err := c.Parse("5 ADDN 3"); err != nil {
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
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	assert.Equal(t, RefNativeWord, refs[1].Kind)
	assert.Equal(t, 3, refs[1].Offset)
}
