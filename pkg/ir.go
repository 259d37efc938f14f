package claro

import (
	"fmt"
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ValueLookup maps names to LLVM values: variable allocas and builtin
// functions.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) value.Value {
	if val, ok := l.vals[id]; ok {
		return val
	}

	// The semantic analysis and the generator's pre-pass make sure this
	// doesn't happen
	panic("undefined identifier: " + id)
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

type IRGenerator interface {
	Do() (IR, error)
}

type IR interface {
	fmt.Stringer
}

// LLVMIRBuilder carries the module and the basic block currently being
// filled. Control statements move b.block forward as they branch.
type LLVMIRBuilder struct {
	mod    *ir.Module
	fn     *ir.Func
	block  *ir.Block
	values *ValueLookup
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	builder := &LLVMIRBuilder{
		mod:    ir.NewModule(),
		values: NewValueLookup(),
	}

	defineBuiltins(builder)
	return builder
}

// LLVMGenerator compiles a checked, error-free program to an LLVM
// module: doubles for numbers, i1 for booleans, one alloca per
// variable, and a print of every variable's final value at the end.
type LLVMGenerator struct {
	ast  *AST
	stab *SymbolTable
}

func NewLLVMGenerator(ast *AST, stab *SymbolTable) *LLVMGenerator {
	return &LLVMGenerator{
		ast:  ast,
		stab: stab,
	}
}

func (g *LLVMGenerator) Do() (IR, error) {
	if err := g.checkStaticTyping(); err != nil {
		return nil, err
	}

	b := NewLLVMIRBuilder()

	b.fn = b.mod.NewFunc("main", types.I32)
	b.block = b.fn.NewBlock("")

	names := g.variableNames()
	for _, name := range names {
		g.declare(b, g.stab.Get(name))
	}

	for _, stmt := range g.ast.Statements {
		g.statement(b, stmt)
	}

	for _, name := range names {
		g.printVariable(b, g.stab.Get(name))
	}

	b.block.NewRet(constant.NewInt(types.I32, 0))
	return b.mod, nil
}

// checkStaticTyping rejects the dynamic corner the interpreter allows
// but a compiled module cannot express: a variable whose type changes
// across assignments, or unary minus on a boolean.
func (g *LLVMGenerator) checkStaticTyping() error {
	var walk func(Expr) error
	walk = func(expr Expr) error {
		switch e := expr.(type) {
		case *AssignStmt:
			sym := g.stab.Get(e.Name)
			if t := g.exprType(e.Value); t != sym.Type {
				return fmt.Errorf("variable '%s' changes type from '%s' to '%s'; not compilable", e.Name, t, sym.Type)
			}

			return walk(e.Value)
		case *BinaryExpr:
			if err := walk(e.Op1); err != nil {
				return err
			}

			return walk(e.Op2)
		case *UnaryExpr:
			if e.Operation == UnaryNegative && g.exprType(e.Operand) != TypeFloat {
				return fmt.Errorf("unary minus on non-numeric value; not compilable")
			}

			return walk(e.Operand)
		case *IfStmt:
			if err := walk(e.Cond); err != nil {
				return err
			}

			for _, s := range e.Then {
				if err := walk(s); err != nil {
					return err
				}
			}

			for _, s := range e.Else {
				if err := walk(s); err != nil {
					return err
				}
			}
		case *WhileStmt:
			if err := walk(e.Cond); err != nil {
				return err
			}

			for _, s := range e.Body {
				if err := walk(s); err != nil {
					return err
				}
			}
		}

		return nil
	}

	for _, stmt := range g.ast.Statements {
		if err := walk(stmt); err != nil {
			return err
		}
	}

	return nil
}

// exprType mirrors the checker's inference against the final symbol
// table.
func (g *LLVMGenerator) exprType(expr Expr) Type {
	switch e := expr.(type) {
	case *NumberLit:
		return TypeFloat
	case *Ident:
		if sym := g.stab.Get(e.Name); sym != nil {
			return sym.Type
		}

		return TypeUnknown
	case *BinaryExpr:
		if e.Operation.isArithmetic() {
			return TypeFloat
		}

		return TypeBoolean
	case *UnaryExpr:
		if e.Operation == UnaryNot {
			return TypeBoolean
		}

		return g.exprType(e.Operand)
	default:
		return TypeUnknown
	}
}

func (g *LLVMGenerator) variableNames() []string {
	var names []string
	for name, sym := range g.stab.Entries {
		if sym.Type == TypeFloat || sym.Type == TypeBoolean {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}

func (g *LLVMGenerator) declare(b *LLVMIRBuilder, sym *Symbol) {
	if sym.Type == TypeBoolean {
		ptr := b.block.NewAlloca(types.I1)
		b.block.NewStore(constant.False, ptr)
		b.values.Set(sym.Name, ptr)
		return
	}

	ptr := b.block.NewAlloca(types.Double)
	b.block.NewStore(constant.NewFloat(types.Double, 0), ptr)
	b.values.Set(sym.Name, ptr)
}

func (g *LLVMGenerator) printVariable(b *LLVMIRBuilder, sym *Symbol) {
	ptr := b.values.Get(sym.Name)

	if sym.Type == TypeBoolean {
		v := b.block.NewLoad(types.I1, ptr)
		b.block.NewCall(b.values.Get("printb"), v)
		return
	}

	v := b.block.NewLoad(types.Double, ptr)
	b.block.NewCall(b.values.Get("print"), v)
}

func (g *LLVMGenerator) statement(b *LLVMIRBuilder, expr Expr) {
	switch e := expr.(type) {
	case *AssignStmt:
		v := g.load(b, e.Value)
		b.block.NewStore(v, b.values.Get(e.Name))
	case *IfStmt:
		g.ifStmt(b, e)
	case *WhileStmt:
		g.whileStmt(b, e)
	default:
		// A bare expression statement has no effect in the compiled
		// form; evaluate it anyway for faithfulness to the source
		g.load(b, expr)
	}
}

func (g *LLVMGenerator) ifStmt(b *LLVMIRBuilder, e *IfStmt) {
	cond := g.load(b, e.Cond)

	thenB := b.fn.NewBlock("")
	contB := b.fn.NewBlock("")

	elseTarget := contB
	var elseB *ir.Block
	if e.Else != nil {
		elseB = b.fn.NewBlock("")
		elseTarget = elseB
	}

	b.block.NewCondBr(cond, thenB, elseTarget)

	b.block = thenB
	for _, stmt := range e.Then {
		g.statement(b, stmt)
	}
	b.block.NewBr(contB)

	if elseB != nil {
		b.block = elseB
		for _, stmt := range e.Else {
			g.statement(b, stmt)
		}
		b.block.NewBr(contB)
	}

	b.block = contB
}

func (g *LLVMGenerator) whileStmt(b *LLVMIRBuilder, e *WhileStmt) {
	condB := b.fn.NewBlock("")
	bodyB := b.fn.NewBlock("")
	contB := b.fn.NewBlock("")

	b.block.NewBr(condB)

	b.block = condB
	cond := g.load(b, e.Cond)
	b.block.NewCondBr(cond, bodyB, contB)

	b.block = bodyB
	for _, stmt := range e.Body {
		g.statement(b, stmt)
	}
	b.block.NewBr(condB)

	b.block = contB
}

// load emits the instructions computing an expression and returns its
// value. Logical AND/OR compile to bitwise i1 operations: the compiled
// form evaluates both sides, unlike the interpreter's short-circuit.
func (g *LLVMGenerator) load(b *LLVMIRBuilder, expr Expr) value.Value {
	switch e := expr.(type) {
	case *NumberLit:
		return constant.NewFloat(types.Double, e.Value)
	case *Ident:
		ptr := b.values.Get(e.Name)
		if g.exprType(e) == TypeBoolean {
			return b.block.NewLoad(types.I1, ptr)
		}

		return b.block.NewLoad(types.Double, ptr)
	case *BinaryExpr:
		return g.binary(b, e)
	case *UnaryExpr:
		v := g.load(b, e.Operand)
		if e.Operation == UnaryNot {
			return b.block.NewXor(v, constant.True)
		}

		return b.block.NewFNeg(v)
	default:
		panic("not compilable")
	}
}

func (g *LLVMGenerator) binary(b *LLVMIRBuilder, e *BinaryExpr) value.Value {
	v1 := g.load(b, e.Op1)
	v2 := g.load(b, e.Op2)

	switch e.Operation {
	case BinaryAddition:
		return b.block.NewFAdd(v1, v2)
	case BinarySubtraction:
		return b.block.NewFSub(v1, v2)
	case BinaryMultiplication:
		return b.block.NewFMul(v1, v2)
	case BinaryDivision:
		// fdiv by zero yields inf, same as the interpreter
		return b.block.NewFDiv(v1, v2)
	case BinaryLess:
		return b.block.NewFCmp(enum.FPredOLT, v1, v2)
	case BinaryLessEq:
		return b.block.NewFCmp(enum.FPredOLE, v1, v2)
	case BinaryGreater:
		return b.block.NewFCmp(enum.FPredOGT, v1, v2)
	case BinaryGreaterEq:
		return b.block.NewFCmp(enum.FPredOGE, v1, v2)
	case BinaryEquals:
		if g.exprType(e.Op1) == TypeBoolean {
			return b.block.NewICmp(enum.IPredEQ, v1, v2)
		}

		return b.block.NewFCmp(enum.FPredOEQ, v1, v2)
	case BinaryNotEquals:
		if g.exprType(e.Op1) == TypeBoolean {
			return b.block.NewICmp(enum.IPredNE, v1, v2)
		}

		return b.block.NewFCmp(enum.FPredONE, v1, v2)
	case BinaryAnd:
		return b.block.NewAnd(v1, v2)
	default:
		return b.block.NewOr(v1, v2)
	}
}
