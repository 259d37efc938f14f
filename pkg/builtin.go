package claro

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// The compiled module prints every variable's final value, mirroring
// the interpreter's evaluated-results table. print handles numbers,
// printb booleans.
func defineBuiltins(b *LLVMIRBuilder) {
	printf := b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	defineBuiltinFunc(b, "print", builtinPrint(printf))
	defineBuiltinFunc(b, "printb", builtinPrintBool(printf))
}

type funcDefinition = func(mod *ir.Module) *ir.Func

func defineBuiltinFunc(b *LLVMIRBuilder, name string, definition funcDefinition) {
	f := definition(b.mod)
	f.SetName(name)
	b.values.Set(name, f)
}

func builtinPrint(printf *ir.Func) funcDefinition {
	return func(mod *ir.Module) *ir.Func {
		f := mod.NewFunc("", types.Void, ir.NewParam("v", types.Double))
		b := f.NewBlock("")

		b.NewCall(printf, formatGlobal(mod, "._print_fmt", "%f\n\x00"), f.Params[0])
		b.NewRet(nil)

		return f
	}
}

func builtinPrintBool(printf *ir.Func) funcDefinition {
	return func(mod *ir.Module) *ir.Func {
		f := mod.NewFunc("", types.Void, ir.NewParam("v", types.I1))
		b := f.NewBlock("")

		widened := b.NewZExt(f.Params[0], types.I32)
		b.NewCall(printf, formatGlobal(mod, "._printb_fmt", "%d\n\x00"), widened)
		b.NewRet(nil)

		return f
	}
}

func formatGlobal(mod *ir.Module, name, format string) constant.Constant {
	zero := constant.NewInt(types.I32, 0)

	glob := mod.NewGlobalDef(name, constant.NewCharArrayFromString(format))
	return constant.NewGetElementPtr(types.NewArray(uint64(len(format)), types.I8), glob, zero, zero)
}
