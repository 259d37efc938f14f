package claro

import (
	"log/slog"

	"github.com/google/uuid"
)

// Result is what one compile+run request produces: the parsed program
// (possibly partial when parsing failed), the full error list in
// lexical, syntactic, semantic order, and the final value of every
// variable that evaluated successfully.
type Result struct {
	RunID  string
	AST    *AST
	Errors []ErrorRecord
	Values map[string]Value

	// Symbols exposes the request's symbol table so callers can show
	// each variable's inferred type alongside its value.
	Symbols *SymbolTable
}

// Runner is the primary entry point. It is stateless: every Run builds
// a fresh lexer, parser and symbol table, so concurrent runs never
// share anything and re-running the same source gives identical
// results.
type Runner struct {
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{logger: logger}
}

// Run lexes, parses and type-checks the source; if and only if no
// static error was found, it evaluates the program. Runtime errors are
// appended to the semantic list after the fact.
func (r *Runner) Run(source string) *Result {
	runID := uuid.NewString()

	ast, errs, stab := runFrontend(source)

	values := make(map[string]Value)
	if len(errs) == 0 {
		ev := NewEvaluator(stab)
		ev.Run(ast)
		errs = append(errs, ev.Errors()...)

		for name, sym := range stab.Entries {
			if sym.Value != nil {
				values[name] = sym.Value
			}
		}
	}

	r.logger.Debug("run finished",
		"run_id", runID,
		"statements", len(ast.Statements),
		"errors", len(errs),
		"values", len(values))

	return &Result{
		RunID:   runID,
		AST:     ast,
		Errors:  Report(errs),
		Values:  values,
		Symbols: stab,
	}
}

// Interpret is a convenience wrapper matching the classic
// parse-and-interpret shape: AST, errors, evaluated values.
func Interpret(source string) (*AST, []ErrorRecord, map[string]Value) {
	res := NewRunner(nil).Run(source)
	return res.AST, res.Errors, res.Values
}
