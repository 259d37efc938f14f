package claro

import (
	"strings"
	"unicode/utf8"
)

const eof rune = 0

type stateFunc func(l *Lexer) stateFunc

// Tokenizer is the producer side of the token stream consumed by the
// parser. Lexical errors are collected, not emitted as tokens, and are
// complete once the stream has yielded TokenEOF.
type Tokenizer interface {
	Do()
	Get() Token
	Errors() []CompileError
}

// Lexer walks the source a rune at a time through a chain of state
// functions, emitting tokens on a channel. Illegal characters are
// recorded and skipped so lexing never aborts. A Lexer is single-use:
// build a fresh one per run.
type Lexer struct {
	src    string
	pos    int
	line   int
	lastNL int // index of the most recent newline, -1 before the first

	done   chan Token
	errors []CompileError
}

func NewLexer(src string) *Lexer {
	return &Lexer{
		src:    src,
		line:   1,
		lastNL: -1,
		done:   make(chan Token),
	}
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) Do() {
	l.Run()
}

func (l *Lexer) Get() Token {
	return <-l.done
}

func (l *Lexer) Errors() []CompileError {
	return l.errors
}

func (l *Lexer) Run() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

// RunBlocking drains the whole stream, returning the tokens (without the
// trailing EOF) and any lexical errors.
func (l *Lexer) RunBlocking() ([]Token, []CompileError) {
	go l.Run()

	var tokens []Token
	for t := range l.Chan() {
		if t.Typ == TokenEOF {
			break
		}

		tokens = append(tokens, t)
	}

	return tokens, l.errors
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == eof:
			l.emit(TokenEOF, "", l.location())
			return nil
		case r == '\n':
			l.next()
			l.line++
			l.lastNL = l.pos - 1
		case r == ' ' || r == '\t' || r == '\r':
			l.next()
		case r == '#':
			return lineCommentState
		case '0' <= r && r <= '9' || r == '.':
			return numberState
		case isIdentStart(r):
			return identifierState
		default:
			return operatorState
		}
	}
}

func lineCommentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != eof; r = l.peek() {
		l.next()
	}

	return defaultState
}

// numberState matches \d+(\.\d*)? as well as the bare-dot form \.\d+.
// Every literal is numeric; the language has no integer type.
func numberState(l *Lexer) stateFunc {
	loc := l.location()

	var num strings.Builder
	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		num.WriteRune(l.next())
	}

	if l.peek() == '.' {
		num.WriteRune(l.next())
		for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
			num.WriteRune(l.next())
		}
	}

	if num.String() == "." {
		// A lone dot matches no literal rule
		l.errorAt(loc, '.')
		return defaultState
	}

	l.emit(TokenNumber, num.String(), loc)
	return defaultState
}

func identifierState(l *Lexer) stateFunc {
	loc := l.location()

	var id strings.Builder
	for r := l.peek(); isIdentPart(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[strings.ToUpper(id.String())]; ok {
		l.emit(t, id.String(), loc)
		return defaultState
	}

	l.emit(TokenIdentifier, id.String(), loc)
	return defaultState
}

func operatorState(l *Lexer) stateFunc {
	loc := l.location()
	r := l.next()

	if l.peek() != eof {
		op := string(r) + string(l.peek())
		if tok, ok := doubleOperatorTable[op]; ok {
			l.next()
			l.emit(tok, op, loc)
			return defaultState
		}
	}

	if tok, ok := operatorTable[string(r)]; ok {
		l.emit(tok, string(r), loc)
		return defaultState
	}

	// A bare "!" is only valid as the prefix of "!=", so it falls through
	// here together with every other unrecognised character.
	l.errorAt(loc, r)
	return defaultState
}

func (l *Lexer) errorAt(loc *Location, r rune) {
	l.errors = append(l.errors, &IllegalCharError{
		Loc:  loc,
		Char: r,
	})
}

func (l *Lexer) emit(t TokenType, val string, loc *Location) {
	l.done <- Token{
		Typ:   t,
		Value: val,
		Loc:   loc,
	}
}

// location computes the column by counting the runes since the most
// recent newline rather than keeping a running counter, so an error
// deep in a line still reports the right position. Columns are rune
// positions, not byte offsets.
func (l *Lexer) location() *Location {
	return &Location{
		Line:   l.line,
		Column: utf8.RuneCountInString(l.src[l.lastNL+1:l.pos]) + 1,
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return eof
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.src) {
		return eof
	}

	r, width := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += width

	return r
}

func isIdentStart(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || '0' <= r && r <= '9'
}
