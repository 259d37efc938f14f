package claro

// AST is an ordered sequence of top-level statements. Nodes are
// immutable once built; the symbol table, not the tree, carries all
// mutable run state.
type AST struct {
	Statements []Expr
}

type Expr interface{}

// BadExpr marks a span the parser could not make sense of. Its presence
// always comes with a recorded syntax error.
type BadExpr struct {
	Location *Location
	Error    string
}

// ErrorExpr marks a subexpression whose type check failed. It is kept in
// the tree so the shape survives for reporting and graph export, but the
// evaluator skips it and it never composes into further operations.
type ErrorExpr struct {
	Operation string
	Operands  []Expr
	Reason    string
}

type NumberLit struct {
	Value float64
}

type Ident struct {
	Name string
}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"

	BinaryLess      BinaryOp = "<"
	BinaryLessEq    BinaryOp = "<="
	BinaryGreater   BinaryOp = ">"
	BinaryGreaterEq BinaryOp = ">="
	BinaryEquals    BinaryOp = "=="
	BinaryNotEquals BinaryOp = "!="

	BinaryAnd BinaryOp = "AND"
	BinaryOr  BinaryOp = "OR"
)

func (op BinaryOp) isArithmetic() bool {
	switch op {
	case BinaryAddition, BinarySubtraction, BinaryMultiplication, BinaryDivision:
		return true
	default:
		return false
	}
}

func (op BinaryOp) isComparison() bool {
	switch op {
	case BinaryLess, BinaryLessEq, BinaryGreater, BinaryGreaterEq, BinaryEquals, BinaryNotEquals:
		return true
	default:
		return false
	}
}

func (op BinaryOp) isLogical() bool {
	return op == BinaryAnd || op == BinaryOr
}

type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

type UnaryOp string

const (
	UnaryNegative UnaryOp = "-"
	UnaryNot      UnaryOp = "NOT"
)

type UnaryExpr struct {
	Operation UnaryOp
	Operand   Expr
}

type AssignStmt struct {
	Name  string
	Value Expr
}

// IfStmt covers both plain conditionals and if/else: a nil Else slice
// means no else block was written.
type IfStmt struct {
	Cond Expr
	Then []Expr
	Else []Expr
}

type WhileStmt struct {
	Cond Expr
	Body []Expr
}
