package claro

import "fmt"

type TokenType uint64

const (
	TokenError TokenType = iota
	TokenEOF
	TokenNumber
	TokenIdentifier

	TokenIf
	TokenElse
	TokenWhile
	TokenAnd
	TokenOr
	TokenNot

	TokenPlus
	TokenMinus
	TokenMulti
	TokenDiv
	TokenAssign

	TokenLess
	TokenLessEq
	TokenGreater
	TokenGreaterEq
	TokenEquals
	TokenNotEquals

	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
)

// Keywords are matched case-insensitively: the lexer upper-cases the
// identifier before the lookup.
var keywordTable = map[string]TokenType{
	"IF":    TokenIf,
	"ELSE":  TokenElse,
	"WHILE": TokenWhile,
	"AND":   TokenAnd,
	"OR":    TokenOr,
	"NOT":   TokenNot,
}

// Two-rune operators must come before their one-rune prefixes, otherwise
// "<=" would lex as "<" followed by "=". The lexer tries the two-rune
// table first.
var doubleOperatorTable = map[string]TokenType{
	"<=": TokenLessEq,
	">=": TokenGreaterEq,
	"==": TokenEquals,
	"!=": TokenNotEquals,
}

var operatorTable = map[string]TokenType{
	"+": TokenPlus,
	"-": TokenMinus,
	"*": TokenMulti,
	"/": TokenDiv,
	"=": TokenAssign,
	"<": TokenLess,
	">": TokenGreater,
	"(": TokenOpenParentheses,
	")": TokenCloseParentheses,
	"{": TokenOpenCurly,
	"}": TokenCloseCurly,
}

type Location struct {
	Line   int
	Column int
}

func (l *Location) String() string {
	if l == nil {
		return "?:?"
	}

	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

// canStartStatement reports whether the token may open a statement. The
// parser synchronises on these after a syntax error.
func (t Token) canStartStatement() bool {
	switch t.Typ {
	case TokenIf, TokenWhile, TokenIdentifier:
		return true
	default:
		return false
	}
}
