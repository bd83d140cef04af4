package wisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEqual(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same int", Int(3), Int(3), true},
		{"different int", Int(3), Int(4), false},
		{"int vs float never equal", Int(0), Float(0), false},
		{"same float", Float(1.5), Float(1.5), true},
		{"same string", String("hi"), String("hi"), true},
		{"different string", String("hi"), String("bye"), false},
		{"null equals null", Null(), Null(), true},
		{"null vs zero", Null(), Int(0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.equal, c.a.Equal(c.b))
			assert.Equal(t, c.equal, c.b.Equal(c.a))
		})
	}
}

func TestValueTruthy(t *testing.T) {
	cases := []struct {
		name   string
		v      Value
		truthy bool
	}{
		{"nonzero int", Int(1), true},
		{"zero int", Int(0), false},
		{"nonzero float", Float(0.5), true},
		{"zero float", Float(0), false},
		{"null", Null(), false},
		{"empty string", String(""), true},
		{"nonempty string", String("x"), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.truthy, c.v.Truthy())
		})
	}
}

func TestValueAccessors(t *testing.T) {
	if n, ok := Int(5).Int64(); !ok || n != 5 {
		t.Fatalf("Int64() = %v, %v", n, ok)
	}
	if _, ok := Int(5).Float64(); ok {
		t.Fatalf("Float64() on an int Value should report ok=false")
	}
	if f, ok := Float(2.5).Float64(); !ok || f != 2.5 {
		t.Fatalf("Float64() = %v, %v", f, ok)
	}
	if s, ok := String("hi").Text(); !ok || s != "hi" {
		t.Fatalf("Text() = %v, %v", s, ok)
	}
	if !Null().IsNull() {
		t.Fatalf("Null().IsNull() should be true")
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Int(42), "42"},
		{Int(-3), "-3"},
		{Float(1.5), "1.5"},
		{String("hi"), "hi"},
		{Null(), "null"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.String())
	}
}

func TestBoolValue(t *testing.T) {
	assert.True(t, BoolValue(true).Equal(Int(1)))
	assert.True(t, BoolValue(false).Equal(Int(0)))
}
