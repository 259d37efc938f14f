package claro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.claro.dev/internal/test"
)

// kindValue strips positions so token streams can be compared by shape.
func kindValue(toks []Token) []Token {
	out := make([]Token, len(toks))
	for i, t := range toks {
		out[i] = Token{Typ: t.Typ, Value: t.Value}
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		expect []Token
	}{
		{
			"contador = 0",
			[]Token{
				{TokenIdentifier, "contador", nil},
				{TokenAssign, "=", nil},
				{TokenNumber, "0", nil},
			},
		},
		{
			// Two-rune operators must lex atomically
			"a <= b",
			[]Token{
				{TokenIdentifier, "a", nil},
				{TokenLessEq, "<=", nil},
				{TokenIdentifier, "b", nil},
			},
		},
		{
			"a == b != c >= d",
			[]Token{
				{TokenIdentifier, "a", nil},
				{TokenEquals, "==", nil},
				{TokenIdentifier, "b", nil},
				{TokenNotEquals, "!=", nil},
				{TokenIdentifier, "c", nil},
				{TokenGreaterEq, ">=", nil},
				{TokenIdentifier, "d", nil},
			},
		},
		{
			// Keywords are case-insensitive and beat identifiers
			"if While AND or Not eLsE",
			[]Token{
				{TokenIf, "if", nil},
				{TokenWhile, "While", nil},
				{TokenAnd, "AND", nil},
				{TokenOr, "or", nil},
				{TokenNot, "Not", nil},
				{TokenElse, "eLsE", nil},
			},
		},
		{
			"ifx = 1",
			[]Token{
				{TokenIdentifier, "ifx", nil},
				{TokenAssign, "=", nil},
				{TokenNumber, "1", nil},
			},
		},
		{
			"x = 3.14 + .5 + 123.",
			[]Token{
				{TokenIdentifier, "x", nil},
				{TokenAssign, "=", nil},
				{TokenNumber, "3.14", nil},
				{TokenPlus, "+", nil},
				{TokenNumber, ".5", nil},
				{TokenPlus, "+", nil},
				{TokenNumber, "123.", nil},
			},
		},
		{
			"# just a comment\nx = 1 # trailing\n",
			[]Token{
				{TokenIdentifier, "x", nil},
				{TokenAssign, "=", nil},
				{TokenNumber, "1", nil},
			},
		},
		{
			"WHILE (c < 5) { c = c + 1 }",
			[]Token{
				{TokenWhile, "WHILE", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenIdentifier, "c", nil},
				{TokenLess, "<", nil},
				{TokenNumber, "5", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenOpenCurly, "{", nil},
				{TokenIdentifier, "c", nil},
				{TokenAssign, "=", nil},
				{TokenIdentifier, "c", nil},
				{TokenPlus, "+", nil},
				{TokenNumber, "1", nil},
				{TokenCloseCurly, "}", nil},
			},
		},
	}

	for _, c := range cases {
		l := NewLexer(c.data)

		toks, errs := l.RunBlocking()
		assert.Empty(t, errs)
		assert.Equal(t, c.expect, kindValue(toks))
	}
}

func TestLexerIllegalCharacter(t *testing.T) {
	l := NewLexer("bad = $")
	toks, errs := l.RunBlocking()

	// Lexing continues: the valid tokens are still produced
	assert.Equal(t, []Token{
		{TokenIdentifier, "bad", nil},
		{TokenAssign, "=", nil},
	}, kindValue(toks))

	require.Len(t, errs, 1)

	illegal, ok := errs[0].(*IllegalCharError)
	require.True(t, ok)
	assert.Equal(t, '$', illegal.Char)
	assert.Equal(t, ErrLexical, illegal.Kind())
	assert.Equal(t, &Location{Line: 1, Column: 7}, illegal.Where())
}

func TestLexerIllegalCharacterPosition(t *testing.T) {
	l := NewLexer("x = 1\ny = @ + 2\n")
	toks, errs := l.RunBlocking()

	require.Len(t, errs, 1)
	assert.Equal(t, &Location{Line: 2, Column: 5}, errs[0].Where())

	// The + and 2 after the error are still lexed
	assert.Equal(t, TokenPlus, toks[len(toks)-2].Typ)
	assert.Equal(t, TokenNumber, toks[len(toks)-1].Typ)
}

func TestLexerMultiByteIllegalCharacter(t *testing.T) {
	// A multi-byte character is one character: one error, the real rune,
	// and it is skipped whole
	l := NewLexer("bad = ¿")
	toks, errs := l.RunBlocking()

	assert.Equal(t, []Token{
		{TokenIdentifier, "bad", nil},
		{TokenAssign, "=", nil},
	}, kindValue(toks))

	require.Len(t, errs, 1)

	illegal, ok := errs[0].(*IllegalCharError)
	require.True(t, ok)
	assert.Equal(t, '¿', illegal.Char)
	assert.Equal(t, &Location{Line: 1, Column: 7}, illegal.Where())
}

func TestLexerColumnsAfterMultiByteCharacter(t *testing.T) {
	// Columns count runes, not bytes: positions after a two-byte
	// character must not drift
	l := NewLexer("x = ¿ + 1")
	toks, errs := l.RunBlocking()

	require.Len(t, errs, 1)
	assert.Equal(t, &Location{Line: 1, Column: 5}, errs[0].Where())

	require.Len(t, toks, 4)
	assert.Equal(t, &Location{Line: 1, Column: 7}, toks[2].Loc) // +
	assert.Equal(t, &Location{Line: 1, Column: 9}, toks[3].Loc) // 1
}

func TestLexerBareBang(t *testing.T) {
	l := NewLexer("a ! b")
	toks, errs := l.RunBlocking()

	require.Len(t, errs, 1)
	assert.Equal(t, '!', errs[0].(*IllegalCharError).Char)
	assert.Equal(t, []Token{
		{TokenIdentifier, "a", nil},
		{TokenIdentifier, "b", nil},
	}, kindValue(toks))
}

func TestLexerLineTracking(t *testing.T) {
	l := NewLexer("x = 1\n\ny = 2")
	toks, errs := l.RunBlocking()

	assert.Empty(t, errs)
	require.Len(t, toks, 6)
	assert.Equal(t, &Location{Line: 1, Column: 1}, toks[0].Loc)
	assert.Equal(t, &Location{Line: 3, Column: 1}, toks[3].Loc)
	assert.Equal(t, &Location{Line: 3, Column: 5}, toks[5].Loc)
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.RandomSource(size)
		l := NewLexer(data)

		b.StartTimer()

		benchResult, _ = l.RunBlocking()
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
