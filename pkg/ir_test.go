package claro

import (
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueLookup(t *testing.T) {
	vals := NewValueLookup()

	val1 := constant.NewFloat(types.Double, 1)
	val2 := constant.NewFloat(types.Double, 2)

	vals.Set("id1", val1)
	vals.Set("id2", val2)

	assert.Equal(t, val1, vals.Get("id1"))
	assert.Equal(t, val2, vals.Get("id2"))
}

func TestValueLookupUndefined(t *testing.T) {
	vals := NewValueLookup()

	assert.Panics(t, func() {
		vals.Get("missing")
	})
}

func compile(t *testing.T, src string) string {
	t.Helper()

	out, records, err := NewCompiler().Compile(src)
	require.NoError(t, err)
	require.Empty(t, records)

	return out
}

func TestCompileArithmetic(t *testing.T) {
	out := compile(t, "x = 1 + 2 * 3")

	assert.Contains(t, out, "define i32 @main()")
	assert.Contains(t, out, "fmul double")
	assert.Contains(t, out, "fadd double")
	assert.Contains(t, out, "alloca double")
	assert.Contains(t, out, "call i32 (i8*, ...) @printf")
}

func TestCompileComparisonAndLogic(t *testing.T) {
	out := compile(t, "a = 1 < 2\nb = a AND (2 >= 1)")

	assert.Contains(t, out, "fcmp olt")
	assert.Contains(t, out, "fcmp oge")
	assert.Contains(t, out, "alloca i1")
	assert.Contains(t, out, "and i1")
}

func TestCompileIfElseBranches(t *testing.T) {
	out := compile(t, `
x = 1
IF (x > 0) {
    y = 2
} ELSE {
    y = 3
}
`)

	assert.Contains(t, out, "br i1")
	assert.Contains(t, out, "fcmp ogt")
}

func TestCompileWhileLoops(t *testing.T) {
	out := compile(t, `
c = 0
WHILE (c < 3) {
    c = c + 1
}
`)

	// A loop needs an unconditional jump back to its condition block
	assert.Contains(t, out, "br i1")
	assert.Contains(t, out, "br label")
}

func TestCompileDivision(t *testing.T) {
	out := compile(t, "y = 5 / 0")

	// fdiv by zero yields inf at runtime, matching the interpreter
	assert.Contains(t, out, "fdiv double")
}

func TestCompileStaticErrorsReported(t *testing.T) {
	out, records, err := NewCompiler().Compile("z = unknown_var + 1")

	require.NoError(t, err)
	assert.Empty(t, out)
	require.Len(t, records, 1)
	assert.Equal(t, "Semántico", records[0].Type)
}

func TestCompileRejectsRetypedVariable(t *testing.T) {
	// The interpreter allows a variable to change type between
	// assignments; a compiled module cannot
	_, _, err := NewCompiler().Compile("a = 1\na = 1 == 1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "changes type")
}

func TestCompileRejectsNegatedBoolean(t *testing.T) {
	_, _, err := NewCompiler().Compile("b = 1 == 1\nc = -b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not compilable")
}

func TestCompilerCheck(t *testing.T) {
	ast, records := NewCompiler().Check("x = 1 + 2")

	assert.NotNil(t, ast)
	assert.Empty(t, records)

	_, records = NewCompiler().Check("x = ")
	assert.NotEmpty(t, records)
}
