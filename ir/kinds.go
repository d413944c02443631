package ir

import "github.com/mstoodle/jb2go/kind"

// Core ExtensibleKind registrations. Every IR-level
// polymorphic base, and every concrete core Type and Symbol refining one,
// gets exactly one static, process-wide kind ID here; every *Op reports
// KindOperation.
var (
	KindType      = kind.Register("ir.Type", kind.None)
	KindIntType   = kind.Register("ir.IntType", KindType)
	KindFloatType = kind.Register("ir.FloatType", KindType)
	KindAddress   = kind.Register("ir.AddressType", KindType)
	KindPointer   = kind.Register("ir.PointerType", KindType)
	KindStruct    = kind.Register("ir.StructType", KindType)
	KindField     = kind.Register("ir.FieldType", KindType)
	KindFunction  = kind.Register("ir.FunctionType", KindType)

	KindSymbol    = kind.Register("ir.Symbol", kind.None)
	KindLocal     = kind.Register("ir.LocalSymbol", KindSymbol)
	KindParameter = kind.Register("ir.ParameterSymbol", KindSymbol)
	KindFuncSym   = kind.Register("ir.FunctionSymbol", KindSymbol)
	KindFieldSym  = kind.Register("ir.FieldSymbol", KindSymbol)

	KindValue     = kind.Register("ir.Value", kind.None)
	KindOperation = kind.Register("ir.Operation", kind.None)
	KindBuilder   = kind.Register("ir.Builder", kind.None)
	KindContext   = kind.Register("ir.Context", kind.None)
	KindScope     = kind.Register("ir.Scope", kind.None)
	KindIR        = kind.Register("ir.IR", kind.None)
)
