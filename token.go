package wisp

import (
	"regexp"
	"strconv"

	"github.com/wisplang/wisp/internal/runeio"
)

// TokenKind classifies a Token.
type TokenKind int

const (
	// TokEnd marks the end of input; Next keeps returning it once reached.
	TokEnd TokenKind = iota
	// TokValue is a token that parsed as a number or rune literal.
	TokValue
	// TokString is a double-quoted token, unquoted.
	TokString
	// TokName is any other non-empty token.
	TokName
)

// Token is one lexeme produced by a Tokenizer.
type Token struct {
	Kind TokenKind
	Pos  Pos
	Name string // set when Kind == TokName
	Val  Value  // set when Kind == TokValue
	Str  string // set when Kind == TokString, with quotes stripped
}

// Tokenizer splits UTF-8 source text into Tokens: tokens are delimited by
// ASCII whitespace (space, tab, CR, LF); a token starting with '"' runs to
// the matching closing '"', embedded whitespace included; anything else
// that doesn't parse as a number is a name.
type Tokenizer struct {
	src string
	pos int
}

// NewTokenizer returns a Tokenizer over src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Pos reports the tokenizer's current byte offset into its source.
func (t *Tokenizer) Pos() Pos { return Pos(t.pos) }

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// Next returns the next Token, advancing past it. Once the input is
// exhausted, Next keeps returning a TokEnd Token at the final position.
func (t *Tokenizer) Next() Token {
	for t.pos < len(t.src) && isASCIISpace(t.src[t.pos]) {
		t.pos++
	}
	if t.pos >= len(t.src) {
		return Token{Kind: TokEnd, Pos: Pos(t.pos)}
	}

	start := t.pos
	if t.src[t.pos] == '"' {
		t.pos++
		contentStart := t.pos
		for t.pos < len(t.src) && t.src[t.pos] != '"' {
			t.pos++
		}
		str := t.src[contentStart:t.pos]
		if t.pos < len(t.src) {
			t.pos++ // consume closing quote
		}
		return Token{Kind: TokString, Pos: Pos(start), Str: str}
	}

	for t.pos < len(t.src) && !isASCIISpace(t.src[t.pos]) {
		t.pos++
	}
	text := t.src[start:t.pos]
	if val, ok := parseNumber(text); ok {
		return Token{Kind: TokValue, Pos: Pos(start), Val: val}
	}
	if r, ok := parseRuneLiteral(text); ok {
		return Token{Kind: TokValue, Pos: Pos(start), Val: Int(int64(r))}
	}
	return Token{Kind: TokName, Pos: Pos(start), Name: text}
}

// parseRuneLiteral reports whether text is a rune literal -- 'X', a control
// mnemonic like <ESC>, or a caret form like ^C -- and if so, the codepoint it
// denotes, via internal/runeio's shared mnemonic table. Shared by the
// Tokenizer and by Vocabulary.Add, which must never let a defined word
// shadow a rune literal, the same way it already guards numeric literals.
func parseRuneLiteral(text string) (rune, bool) {
	r, err := runeio.UnquoteRune(text)
	if err != nil {
		return 0, false
	}
	return r, true
}

// numberPattern matches this module's number-literal grammar: an optional
// leading minus sign, decimal digits, an optional fractional part, and an
// optional signed exponent. A leading '+' is not part of the grammar, so
// "+5" tokenizes as a name, not a value.
var numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// isFloatPattern distinguishes a matched numeric token that needs a float
// Value (has a fractional part or an exponent) from a plain integer.
var isFloatPattern = regexp.MustCompile(`[.eE]`)

// parseNumber reports whether text is a number literal, and if so, the
// Value it denotes. Shared by the Tokenizer and by Vocabulary.Add, which
// must never let a defined word shadow a literal.
func parseNumber(text string) (Value, bool) {
	if !numberPattern.MatchString(text) {
		return Value{}, false
	}
	if isFloatPattern.MatchString(text) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, false
		}
		return Float(f), true
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, false
	}
	return Int(n), true
}
