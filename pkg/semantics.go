package claro

// Type is the static type lattice of the language. Besides the two
// value types there are three bookkeeping types: TypeUnknown for
// expressions that cannot be classified, TypeUnknownErr for the
// placeholder entry an undeclared variable leaves behind, and TypeError
// for subexpressions whose check already failed.
type Type string

const (
	TypeFloat      Type = "float"
	TypeBoolean    Type = "boolean"
	TypeUnknown    Type = "unknown"
	TypeUnknownErr Type = "unknown_error"
	TypeError      Type = "error"
)

func (t Type) String() string {
	return string(t)
}

// isUndetermined reports whether the type carries no usable information.
// Undetermined operands suppress cascading errors: a single undeclared
// variable should not re-error at every operator above it.
func (t Type) isUndetermined() bool {
	return t == TypeUnknown || t == TypeUnknownErr
}

// Symbol is one variable's entry: the expression that defines it, its
// inferred type, and — after execution — its value. Def tracks the last
// assignment; Value is nil until first evaluated.
type Symbol struct {
	Name  string
	Def   Expr
	Type  Type
	Value Value
}

// SymbolTable is the single source of truth for a variable's current
// type and value. It lives for exactly one compile+run request; build a
// fresh one per request, never share.
type SymbolTable struct {
	Entries map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Entries: make(map[string]*Symbol),
	}
}

func (t *SymbolTable) Add(name string, sym *Symbol) {
	t.Entries[name] = sym
}

func (t *SymbolTable) Get(name string) *Symbol {
	sym, contains := t.Entries[name]
	if !contains {
		return nil
	}

	return sym
}

// checker runs type inference inline as the parser builds each node,
// synthesized-attribute style. It shares the request's symbol table and
// accumulates the static semantic errors.
type checker struct {
	stab   *SymbolTable
	errors []CompileError
}

func newChecker(stab *SymbolTable) *checker {
	return &checker{stab: stab}
}

func (c *checker) errorf(err CompileError) {
	c.errors = append(c.errors, err)
}

// typeOf infers a node's type from its shape and the symbol table. The
// inference is eager: it reflects the table at the time the node was
// built and is never redone at evaluation time.
func (c *checker) typeOf(expr Expr) Type {
	switch e := expr.(type) {
	case *NumberLit:
		return TypeFloat
	case *Ident:
		if sym := c.stab.Get(e.Name); sym != nil {
			return sym.Type
		}

		return TypeUnknown
	case *BinaryExpr:
		switch {
		case e.Operation.isArithmetic():
			if c.typeOf(e.Op1) == TypeFloat && c.typeOf(e.Op2) == TypeFloat {
				return TypeFloat
			}

			return TypeError
		case e.Operation.isComparison(), e.Operation.isLogical():
			return TypeBoolean
		}
	case *UnaryExpr:
		if e.Operation == UnaryNot {
			return TypeBoolean
		}

		// Unary minus passes the operand type through; the evaluator
		// enforces numeric-ness at runtime.
		return c.typeOf(e.Operand)
	case *ErrorExpr:
		return TypeError
	}

	return TypeUnknown
}

// ident resolves a variable use. First use of an undeclared name records
// one error and plants a TypeUnknownErr placeholder so later uses of the
// same name stay quiet.
func (c *checker) ident(name string, loc *Location) Expr {
	if c.stab.Get(name) == nil {
		c.errorf(&UndeclaredError{
			Loc:  loc,
			Name: name,
		})

		c.stab.Add(name, &Symbol{
			Name: name,
			Type: TypeUnknownErr,
		})
	}

	return &Ident{Name: name}
}

// binary validates operand types for a binary operator and returns the
// node, or an ErrorExpr when the combination is invalid.
func (c *checker) binary(op BinaryOp, lhs, rhs Expr, loc *Location) Expr {
	t1 := c.typeOf(lhs)
	t2 := c.typeOf(rhs)

	node := &BinaryExpr{
		Operation: op,
		Op1:       lhs,
		Op2:       rhs,
	}

	if t1.isUndetermined() || t2.isUndetermined() {
		// Can't prove anything about an undetermined operand
		return node
	}

	if t1 == TypeError || t2 == TypeError {
		// Already reported where the operand itself failed
		return node
	}

	if c.compatible(op, t1, t2) {
		return node
	}

	c.errorf(&IncompatibleTypesError{
		Loc:   loc,
		Op:    string(op),
		Type1: t1,
		Type2: t2,
	})

	return &ErrorExpr{
		Operation: string(op),
		Operands:  []Expr{lhs, rhs},
		Reason:    "incompatible types",
	}
}

func (c *checker) compatible(op BinaryOp, t1, t2 Type) bool {
	switch {
	case op.isArithmetic():
		return t1 == TypeFloat && t2 == TypeFloat
	case op.isComparison():
		if t1 == TypeFloat && t2 == TypeFloat {
			return true
		}

		// Equality also covers boolean pairs
		return t1 == TypeBoolean && t2 == TypeBoolean &&
			(op == BinaryEquals || op == BinaryNotEquals)
	case op.isLogical():
		return t1 == TypeBoolean && t2 == TypeBoolean
	}

	return false
}

func (c *checker) not(operand Expr, loc *Location) Expr {
	t := c.typeOf(operand)
	if t != TypeBoolean && !t.isUndetermined() && t != TypeError {
		c.errorf(&BadOperandError{
			Loc:  loc,
			Op:   string(UnaryNot),
			Type: t,
		})

		return &ErrorExpr{
			Operation: string(UnaryNot),
			Operands:  []Expr{operand},
			Reason:    "incompatible type for NOT",
		}
	}

	return &UnaryExpr{
		Operation: UnaryNot,
		Operand:   operand,
	}
}

// condition checks an if/while condition. Undetermined types are
// tolerated: they cannot be statically proven wrong.
func (c *checker) condition(stmt string, cond Expr, loc *Location) {
	t := c.typeOf(cond)
	if t != TypeBoolean && !t.isUndetermined() && t != TypeError {
		c.errorf(&ConditionError{
			Loc:  loc,
			Stmt: stmt,
			Type: t,
		})
	}
}

// assign records the variable with the right-hand side's inferred type.
// Last assignment wins: re-assignment may change the recorded type.
func (c *checker) assign(name string, value Expr) {
	c.stab.Add(name, &Symbol{
		Name: name,
		Def:  value,
		Type: c.typeOf(value),
	})
}
