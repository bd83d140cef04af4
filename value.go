package wisp

import (
	"fmt"
	"strconv"
)

// Kind identifies which alternative of a Value is populated.
type Kind uint8

// The four kinds of Value a stack cell may hold. Int and Float are the core
// numeric pair; String and Null round the set out into a small extended
// variant some embedders may not need -- this module always compiles all
// four in, see DESIGN.md.
const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	default:
		return "invalid"
	}
}

// Value is an opaque stack cell. The core interpreter only ever constructs,
// compares, and moves Values around; arithmetic and formatting semantics
// belong to native words (see the stdwords package), except for the default
// textual rendering String provides for tracing and disassembly.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int constructs an integer Value.
func Int(n int64) Value { return Value{kind: KindInt, i: n} }

// Float constructs a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String constructs a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Null returns the null sentinel Value, pushed by native words in place of
// halting on conditions like RuntimeDivByZero over non-numeric operands.
func Null() Value { return Value{kind: KindNull} }

// Kind reports which alternative v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null sentinel.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int64 returns v's integer payload, and whether v is a KindInt.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Float64 returns v's float payload, and whether v is a KindFloat.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// Text returns v's string payload, and whether v is a KindString.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Equal reports whether v and o hold the same kind and payload. Values of
// different kinds are never equal, even 0 and 0.0 -- a tagged scalar keeps
// its tag.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	default: // KindNull
		return true
	}
}

// Truthy reports whether v counts as "true" for ZBRANCH and friends: the
// null sentinel and numeric zero are false, everything else -- including the
// empty string -- is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindNull:
		return false
	default: // KindString
		return true
	}
}

// BoolValue converts a Go bool to the canonical Value a comparison word
// should push: integer 1 for true, 0 for false.
func BoolValue(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

// String renders v in its default textual form, used by the "." word, the
// disassembler, and trace logging.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("<invalid Value kind %d>", v.kind)
	}
}
