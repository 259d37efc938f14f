package claro

import (
	"io"
)

// Compiler runs the static phases and, when the program is error-free,
// lowers it to LLVM IR. It shares the Runner's per-request discipline:
// nothing survives between Compile calls.
type Compiler struct{}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Check runs lexing, parsing and type checking only.
func (c *Compiler) Check(source string) (*AST, []ErrorRecord) {
	ast, errs, _ := c.frontend(source)
	return ast, Report(errs)
}

// Compile returns the textual LLVM module for the source. Static errors
// come back as records; err reports programs the backend cannot express
// (for example a variable whose type changes between assignments).
func (c *Compiler) Compile(source string) (string, []ErrorRecord, error) {
	ast, errs, stab := c.frontend(source)
	if len(errs) != 0 {
		return "", Report(errs), nil
	}

	mod, err := NewLLVMGenerator(ast, stab).Do()
	if err != nil {
		return "", nil, err
	}

	return mod.String(), nil, nil
}

// CompileTo writes the module to w.
func (c *Compiler) CompileTo(w io.Writer, source string) ([]ErrorRecord, error) {
	out, records, err := c.Compile(source)
	if err != nil || len(records) != 0 {
		return records, err
	}

	_, err = io.WriteString(w, out)
	return nil, err
}

func (c *Compiler) frontend(source string) (*AST, []CompileError, *SymbolTable) {
	return runFrontend(source)
}

// runFrontend builds the request-scoped pipeline: fresh lexer, parser
// and symbol table. Errors come back ordered lexical, syntactic,
// semantic.
func runFrontend(source string) (*AST, []CompileError, *SymbolTable) {
	stab := NewSymbolTable()
	lexer := NewLexer(source)
	parser := NewParser(lexer, stab)

	ast := parser.Run()

	var errs []CompileError
	errs = append(errs, lexer.Errors()...)
	errs = append(errs, parser.SyntaxErrors()...)
	errs = append(errs, parser.SemanticErrors()...)

	return ast, errs, stab
}
