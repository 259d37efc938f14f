package claro

import (
	"fmt"
	"math"
)

// Evaluator walks a checked AST, reading and writing variable values in
// the shared symbol table. It is strictly synchronous; runtime faults
// are recorded and absence propagates instead of aborting the walk.
type Evaluator struct {
	stab   *SymbolTable
	errors []CompileError
}

func NewEvaluator(stab *SymbolTable) *Evaluator {
	return &Evaluator{stab: stab}
}

// Errors returns the runtime errors recorded so far.
func (ev *Evaluator) Errors() []CompileError {
	return ev.errors
}

// Run executes the program's statements in order. Statements poisoned by
// the type checker are skipped. The final statement value is not
// surfaced; callers read results from the symbol table.
func (ev *Evaluator) Run(ast *AST) {
	for _, stmt := range ast.Statements {
		if _, poisoned := stmt.(*ErrorExpr); poisoned {
			continue
		}

		ev.eval(stmt)
	}
}

func (ev *Evaluator) errorf(format string, args ...interface{}) {
	ev.errors = append(ev.errors, &RuntimeError{
		Message: fmt.Sprintf(format, args...),
	})
}

// eval returns the node's value, or nil for absence. Absence means the
// value could not be produced; it is distinct from any real value and
// every composite operation must handle it.
func (ev *Evaluator) eval(expr Expr) Value {
	switch e := expr.(type) {
	case *NumberLit:
		return Number{V: e.Value}
	case *Ident:
		return ev.identValue(e)
	case *BinaryExpr:
		switch {
		case e.Operation.isArithmetic():
			return ev.arithmetic(e)
		case e.Operation.isComparison():
			return ev.comparison(e)
		default:
			return ev.logical(e)
		}
	case *UnaryExpr:
		if e.Operation == UnaryNot {
			return ev.not(e)
		}

		return ev.negate(e)
	case *AssignStmt:
		return ev.assign(e)
	case *IfStmt:
		return ev.ifStmt(e)
	case *WhileStmt:
		return ev.whileStmt(e)
	case *ErrorExpr, *BadExpr:
		return nil
	}

	return nil
}

// identValue resolves a variable read: the cached value if this run has
// already produced one, otherwise a one-time evaluation of its defining
// expression, memoized in the table. A variable's value is fixed at
// first use; only a top-level assignment overwrites it afterwards.
func (ev *Evaluator) identValue(e *Ident) Value {
	sym := ev.stab.Get(e.Name)
	if sym == nil {
		ev.errorf("variable '%s' not defined during execution", e.Name)
		return nil
	}

	if sym.Value != nil {
		return sym.Value
	}

	if sym.Def == nil {
		return nil
	}

	sym.Value = ev.eval(sym.Def)
	return sym.Value
}

func (ev *Evaluator) arithmetic(e *BinaryExpr) Value {
	left := ev.eval(e.Op1)
	right := ev.eval(e.Op2)

	if left == nil || right == nil {
		return nil
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		ev.errorf("operation '%s' with non-numeric operands", e.Operation)
		return nil
	}

	switch e.Operation {
	case BinaryAddition:
		return Number{V: l.V + r.V}
	case BinarySubtraction:
		return Number{V: l.V - r.V}
	case BinaryMultiplication:
		return Number{V: l.V * r.V}
	default:
		if r.V == 0 {
			ev.errorf("division by zero")
			return Number{V: math.Inf(1)}
		}

		return Number{V: l.V / r.V}
	}
}

func (ev *Evaluator) comparison(e *BinaryExpr) Value {
	left := ev.eval(e.Op1)
	right := ev.eval(e.Op2)

	if left == nil || right == nil {
		return nil
	}

	switch e.Operation {
	case BinaryEquals:
		return Boolean{V: valuesEqual(left, right)}
	case BinaryNotEquals:
		return Boolean{V: !valuesEqual(left, right)}
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		// The static check normally rules this out; only dynamic type
		// drift through reassignment can get here
		ev.errorf("comparison '%s' with non-numeric operands", e.Operation)
		return nil
	}

	switch e.Operation {
	case BinaryLess:
		return Boolean{V: l.V < r.V}
	case BinaryLessEq:
		return Boolean{V: l.V <= r.V}
	case BinaryGreater:
		return Boolean{V: l.V > r.V}
	default:
		return Boolean{V: l.V >= r.V}
	}
}

// logical evaluates AND/OR with short-circuiting: the right operand only
// runs when the left does not already decide the result. A non-boolean
// operand yields false, not absence.
func (ev *Evaluator) logical(e *BinaryExpr) Value {
	left := ev.eval(e.Op1)
	if left == nil {
		return nil
	}

	l, ok := left.(Boolean)
	if !ok {
		ev.errorf("operation '%s' with non-boolean left operand", e.Operation)
		return Boolean{V: false}
	}

	if e.Operation == BinaryAnd && !l.V {
		return Boolean{V: false}
	}

	if e.Operation == BinaryOr && l.V {
		return Boolean{V: true}
	}

	right := ev.eval(e.Op2)
	if right == nil {
		return nil
	}

	r, ok := right.(Boolean)
	if !ok {
		ev.errorf("operation '%s' with non-boolean right operand", e.Operation)
		return Boolean{V: false}
	}

	return Boolean{V: r.V}
}

func (ev *Evaluator) not(e *UnaryExpr) Value {
	val := ev.eval(e.Operand)
	if val == nil {
		return nil
	}

	b, ok := val.(Boolean)
	if !ok {
		ev.errorf("operation 'NOT' with non-boolean operand")
		return Boolean{V: false}
	}

	return Boolean{V: !b.V}
}

func (ev *Evaluator) negate(e *UnaryExpr) Value {
	val := ev.eval(e.Operand)
	if val == nil {
		return nil
	}

	n, ok := val.(Number)
	if !ok {
		ev.errorf("unary negation with non-numeric operand")
		return nil
	}

	return Number{V: -n.V}
}

// assign stores the right-hand side's value. A failed evaluation leaves
// the variable's prior state untouched.
func (ev *Evaluator) assign(e *AssignStmt) Value {
	val := ev.eval(e.Value)
	if val == nil {
		return nil
	}

	sym := ev.stab.Get(e.Name)
	if sym == nil {
		// Parsing records every assigned name; reaching here means the
		// table was not built by this run's parser
		sym = &Symbol{Name: e.Name}
		ev.stab.Add(e.Name, sym)
	}

	sym.Value = val
	return val
}

func (ev *Evaluator) ifStmt(e *IfStmt) Value {
	cond := ev.eval(e.Cond)
	if cond == nil {
		return nil
	}

	b, ok := cond.(Boolean)
	if !ok {
		ev.errorf("IF condition must be boolean")
		return nil
	}

	if b.V {
		return ev.runBlock(e.Then)
	}

	if e.Else != nil {
		return ev.runBlock(e.Else)
	}

	return nil
}

func (ev *Evaluator) whileStmt(e *WhileStmt) Value {
	var last Value
	for {
		cond := ev.eval(e.Cond)
		if cond == nil {
			return nil
		}

		b, ok := cond.(Boolean)
		if !ok {
			ev.errorf("WHILE condition must be boolean")
			return nil
		}

		if !b.V {
			return last
		}

		for _, stmt := range e.Body {
			if _, poisoned := stmt.(*ErrorExpr); poisoned {
				continue
			}

			result := ev.eval(stmt)
			if result == nil {
				if _, isAssign := stmt.(*AssignStmt); !isAssign {
					return nil
				}
			}

			last = result
		}
	}
}

// runBlock executes a block's statements in order, skipping poisoned
// ones. An absent result from anything but an assignment aborts the
// block; the last executed statement's value is the block's value.
func (ev *Evaluator) runBlock(stmts []Expr) Value {
	var last Value
	for _, stmt := range stmts {
		if _, poisoned := stmt.(*ErrorExpr); poisoned {
			continue
		}

		result := ev.eval(stmt)
		if result == nil {
			if _, isAssign := stmt.(*AssignStmt); !isAssign {
				return nil
			}
		}

		last = result
	}

	return last
}
