package test

import (
	"math/rand"
	"strings"
)

// vocabulary covers every token class plus comments and newlines, so a
// generated stream exercises all lexer states.
var vocabulary = []string{
	"IF", "ELSE", "WHILE", "AND", "OR", "NOT",
	"(", ")", "{", "}",
	"=", "==", "!=", "<", "<=", ">", ">=",
	"+", "-", "*", "/",
	"contador", "suma", "x", "y", "_tmp",
	"0", "1", "42", "3.14", ".5", "123.",
	"# a comment\n", "\n",
}

// RandomSource assembles a lexically valid (if meaningless) stream of
// size tokens for benchmarking the lexer and the parser error paths.
func RandomSource(size int) string {
	return RandomSourceSep(size, " ")
}

func RandomSourceSep(size int, sep string) string {
	var b strings.Builder
	for i := 0; i < size; i++ {
		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(vocabulary[rand.Intn(len(vocabulary))])
	}

	return b.String()
}
