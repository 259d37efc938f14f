package claro

import "fmt"

// ErrorKind classifies an error by the phase that produced it. Runtime
// failures share the semantic kind with the static checks, as both are
// meaning-level faults in the program.
type ErrorKind int

const (
	ErrLexical ErrorKind = iota
	ErrSyntactic
	ErrSemantic
)

// String returns the report label fixed by the result contract.
func (k ErrorKind) String() string {
	switch k {
	case ErrLexical:
		return "Léxico"
	case ErrSyntactic:
		return "Sintáctico"
	default:
		return "Semántico"
	}
}

// CompileError is any error produced while lexing, parsing, checking or
// running a program. Where returns nil when no source position is known,
// such as runtime errors with no originating token.
type CompileError interface {
	fmt.Stringer
	Kind() ErrorKind
	Where() *Location
}

type IllegalCharError struct {
	Loc  *Location
	Char rune
}

func (e *IllegalCharError) String() string {
	return fmt.Sprintf("illegal character '%c'", e.Char)
}

func (e *IllegalCharError) Kind() ErrorKind  { return ErrLexical }
func (e *IllegalCharError) Where() *Location { return e.Loc }

// SyntaxError reports the offending token, or end of input when the
// stream ran out mid-production.
type SyntaxError struct {
	Loc   *Location
	Token string
}

func (e *SyntaxError) String() string {
	if e.Token == "" {
		return "syntax error: unexpected end of input"
	}

	return fmt.Sprintf("syntax error near '%s'", e.Token)
}

func (e *SyntaxError) Kind() ErrorKind  { return ErrSyntactic }
func (e *SyntaxError) Where() *Location { return e.Loc }

type UndeclaredError struct {
	Loc  *Location
	Name string
}

func (e *UndeclaredError) String() string {
	return fmt.Sprintf("variable '%s' not declared", e.Name)
}

func (e *UndeclaredError) Kind() ErrorKind  { return ErrSemantic }
func (e *UndeclaredError) Where() *Location { return e.Loc }

type IncompatibleTypesError struct {
	Loc   *Location
	Op    string
	Type1 Type
	Type2 Type
}

func (e *IncompatibleTypesError) String() string {
	return fmt.Sprintf("operation '%s' not defined for '%s' and '%s'", e.Op, e.Type1, e.Type2)
}

func (e *IncompatibleTypesError) Kind() ErrorKind  { return ErrSemantic }
func (e *IncompatibleTypesError) Where() *Location { return e.Loc }

// BadOperandError covers unary operators applied to the wrong type.
type BadOperandError struct {
	Loc  *Location
	Op   string
	Type Type
}

func (e *BadOperandError) String() string {
	return fmt.Sprintf("operator '%s' only applies to booleans, found '%s'", e.Op, e.Type)
}

func (e *BadOperandError) Kind() ErrorKind  { return ErrSemantic }
func (e *BadOperandError) Where() *Location { return e.Loc }

// ConditionError reports a non-boolean if/while condition caught
// statically.
type ConditionError struct {
	Loc  *Location
	Stmt string
	Type Type
}

func (e *ConditionError) String() string {
	return fmt.Sprintf("%s condition must be boolean, found '%s'", e.Stmt, e.Type)
}

func (e *ConditionError) Kind() ErrorKind  { return ErrSemantic }
func (e *ConditionError) Where() *Location { return e.Loc }

// RuntimeError is recorded by the evaluator. It carries no position:
// runtime faults surface from value flow, not from a token.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) String() string {
	return "execution error: " + e.Message
}

func (e *RuntimeError) Kind() ErrorKind  { return ErrSemantic }
func (e *RuntimeError) Where() *Location { return nil }

// ErrorRecord is the flattened, serialisable form handed to callers.
// Line and Column are nil when the position is unknown.
type ErrorRecord struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Line    *int   `json:"line"`
	Column  *int   `json:"column"`
}

func Report(errs []CompileError) []ErrorRecord {
	records := make([]ErrorRecord, 0, len(errs))
	for _, err := range errs {
		rec := ErrorRecord{
			Type:    err.Kind().String(),
			Message: err.String(),
		}

		if loc := err.Where(); loc != nil {
			line, col := loc.Line, loc.Column
			rec.Line = &line
			rec.Column = &col
		}

		records = append(records, rec)
	}

	return records
}
