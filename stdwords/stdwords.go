// Package stdwords is the native word library: arithmetic, comparison,
// stack shuffling, and the IO primitives a program needs to do anything
// observable. None of it is part of the core dispatcher -- every word here
// is built the same way an embedder's own native extensions would be, on
// top of the exported Machine/Value/Word API.
package stdwords

import (
	"errors"
	"fmt"

	"github.com/wisplang/wisp"
	"github.com/wisplang/wisp/internal/runeio"
)

// Register defines every word this package provides into voc, replacing
// any word already registered under the same name. Embedders that want a
// usable language call this once against a fresh Vocabulary; those that
// want a stripped-down dialect can register a subset by hand instead,
// since every word below is also exported individually.
func Register(voc *wisp.Vocabulary) {
	for _, w := range nativeWords {
		voc.Add(w)
	}
	for _, d := range derivedWords {
		if _, err := wisp.Define(voc, d.name, d.src); err != nil {
			// These bodies are fixed and checked by this package's own
			// tests; a failure here means stdwords itself is broken, not
			// that the caller did anything wrong.
			panic(fmt.Sprintf("stdwords: %s: %v", d.name, err))
		}
	}
}

// effect builds a StackEffect from literal, known-valid field values. Used
// only for this package's own native words, all of whose effects are fixed
// constants -- a panic here during package init means a typo in this file,
// not a runtime condition.
func effect(in, net, max int) wisp.StackEffect {
	e, err := wisp.NewStackEffect(in, net, max)
	if err != nil {
		panic(err)
	}
	return e
}

var nativeWords = []*wisp.Word{
	wisp.NativeWord("+", effect(2, -1, 2), opAdd),
	wisp.NativeWord("-", effect(2, -1, 2), opSub),
	wisp.NativeWord("*", effect(2, -1, 2), opMul),
	wisp.NativeWord("/", effect(2, -1, 2), opDiv),
	wisp.NativeWord("ABS", effect(1, 0, 1), opAbs),
	wisp.NativeWord("MAX", effect(2, -1, 2), opMax),
	wisp.NativeWord("=", effect(2, -1, 2), opEq),
	wisp.NativeWord(">", effect(2, -1, 2), opGt),
	wisp.NativeWord(">=", effect(2, -1, 2), opGe),
	wisp.NativeWord("<", effect(2, -1, 2), opLt),
	wisp.NativeWord("<=", effect(2, -1, 2), opLe),
	wisp.NativeWord("DUP", effect(1, 1, 2), opDup),
	wisp.NativeWord("OVER", effect(2, 1, 3), opOver),
	wisp.NativeWord("ROT", effect(3, 0, 3), opRot),
	wisp.NativeWord("SWAP", effect(2, 0, 2), opSwap),
	wisp.NativeWord("DROP", effect(1, -1, 1), opDrop),
	wisp.NativeWord(".", effect(1, -1, 1), opDot),
	wisp.NativeWord("EMIT", effect(1, -1, 1), opEmit),
	wisp.NativeWord("KEY", effect(0, 1, 1), opKey),
}

// derivedWords are words defined in terms of the native ones above, through
// the ordinary Compiler path -- demonstrating that a compound word is
// nothing special, just a body of WordRefs like any program would compile.
var derivedWords = []struct{ name, src string }{
	{"SQUARE", "DUP *"},
}

var (
	errNoOutput = errors.New("stdwords: \".\" / EMIT used but Run was given no WithOutput")
)

func opAdd(m *wisp.Machine) {
	b, a := m.Pop(), m.Pop()
	if as, aIsStr := a.Text(); aIsStr {
		if bs, bIsStr := b.Text(); bIsStr {
			m.Push(wisp.String(as + bs))
			return
		}
	}
	numericBinary(m, a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

func opSub(m *wisp.Machine) {
	b, a := m.Pop(), m.Pop()
	numericBinary(m, a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
}

func opMul(m *wisp.Machine) {
	b, a := m.Pop(), m.Pop()
	numericBinary(m, a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
}

func opDiv(m *wisp.Machine) {
	b, a := m.Pop(), m.Pop()
	ai, aIsInt := a.Int64()
	bi, bIsInt := b.Int64()
	if aIsInt && bIsInt {
		if bi == 0 {
			m.Push(wisp.Null())
			return
		}
		m.Push(wisp.Int(ai / bi))
		return
	}
	af, aOK := floatOf(a)
	bf, bOK := floatOf(b)
	if !aOK || !bOK {
		m.Push(wisp.Null())
		return
	}
	if bf == 0 {
		m.Push(wisp.Null())
		return
	}
	m.Push(wisp.Float(af / bf))
}

func opAbs(m *wisp.Machine) {
	v := m.Pop()
	if n, ok := v.Int64(); ok {
		if n < 0 {
			n = -n
		}
		m.Push(wisp.Int(n))
		return
	}
	if f, ok := v.Float64(); ok {
		if f < 0 {
			f = -f
		}
		m.Push(wisp.Float(f))
		return
	}
	m.Push(wisp.Null())
}

func opMax(m *wisp.Machine) {
	b, a := m.Pop(), m.Pop()
	af, aOK := floatOf(a)
	bf, bOK := floatOf(b)
	if !aOK || !bOK {
		m.Push(wisp.Null())
		return
	}
	if af >= bf {
		m.Push(a)
	} else {
		m.Push(b)
	}
}

func opEq(m *wisp.Machine) {
	b, a := m.Pop(), m.Pop()
	m.Push(wisp.BoolValue(a.Equal(b)))
}

func opGt(m *wisp.Machine) { compare(m, func(c int) bool { return c > 0 }) }
func opGe(m *wisp.Machine) { compare(m, func(c int) bool { return c >= 0 }) }
func opLt(m *wisp.Machine) { compare(m, func(c int) bool { return c < 0 }) }
func opLe(m *wisp.Machine) { compare(m, func(c int) bool { return c <= 0 }) }

// compare pops b then a, orders them, and pushes want(cmp(a,b)) as a
// BoolValue -- or Null if a and b aren't both numeric or both strings.
func compare(m *wisp.Machine, want func(cmp int) bool) {
	b, a := m.Pop(), m.Pop()
	if as, aIsStr := a.Text(); aIsStr {
		if bs, bIsStr := b.Text(); bIsStr {
			switch {
			case as < bs:
				m.Push(wisp.BoolValue(want(-1)))
			case as > bs:
				m.Push(wisp.BoolValue(want(1)))
			default:
				m.Push(wisp.BoolValue(want(0)))
			}
			return
		}
	}
	af, aOK := floatOf(a)
	bf, bOK := floatOf(b)
	if !aOK || !bOK {
		m.Push(wisp.Null())
		return
	}
	switch {
	case af < bf:
		m.Push(wisp.BoolValue(want(-1)))
	case af > bf:
		m.Push(wisp.BoolValue(want(1)))
	default:
		m.Push(wisp.BoolValue(want(0)))
	}
}

func opDup(m *wisp.Machine)  { v := m.Top(); m.Push(v) }
func opOver(m *wisp.Machine) { b, a := m.Pop(), m.Pop(); m.Push(a); m.Push(b); m.Push(a) }
func opSwap(m *wisp.Machine) { b, a := m.Pop(), m.Pop(); m.Push(b); m.Push(a) }
func opDrop(m *wisp.Machine) { m.Pop() }
func opRot(m *wisp.Machine) {
	c, b, a := m.Pop(), m.Pop(), m.Pop()
	m.Push(b)
	m.Push(c)
	m.Push(a)
}

func opDot(m *wisp.Machine) {
	v := m.Pop()
	out := m.Out()
	if out == nil {
		m.Halt(errNoOutput)
		return
	}
	if _, err := runeio.WriteANSIString(out, v.String()+"\n"); err != nil {
		m.Halt(err)
	}
}

func opEmit(m *wisp.Machine) {
	v := m.Pop()
	out := m.Out()
	if out == nil {
		m.Halt(errNoOutput)
		return
	}
	n, ok := v.Int64()
	if !ok {
		m.Halt(fmt.Errorf("stdwords: EMIT requires an integer rune code, got %v", v))
		return
	}
	if _, err := runeio.WriteANSIRune(out, rune(n)); err != nil {
		m.Halt(err)
	}
}

func opKey(m *wisp.Machine) {
	in := m.In()
	if in == nil {
		m.Push(wisp.Null())
		return
	}
	r, _, err := in.ReadRune()
	if err != nil {
		m.Push(wisp.Null())
		return
	}
	m.Push(wisp.Int(int64(r)))
}

// numericBinary applies the int or float form of op to a and b (already
// popped in that order, a below b), pushing the result -- or Null if either
// operand isn't numeric.
func numericBinary(m *wisp.Machine, a, b wisp.Value, intOp func(x, y int64) int64, floatOp func(x, y float64) float64) {
	ai, aIsInt := a.Int64()
	bi, bIsInt := b.Int64()
	if aIsInt && bIsInt {
		m.Push(wisp.Int(intOp(ai, bi)))
		return
	}
	af, aOK := floatOf(a)
	bf, bOK := floatOf(b)
	if !aOK || !bOK {
		m.Push(wisp.Null())
		return
	}
	m.Push(wisp.Float(floatOp(af, bf)))
}

// floatOf widens a numeric Value of either kind to float64.
func floatOf(v wisp.Value) (float64, bool) {
	if n, ok := v.Int64(); ok {
		return float64(n), true
	}
	return v.Float64()
}
