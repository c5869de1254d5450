// Package demangle converts MSVC decorated C++ names to readable form.
package demangle

// PrimKind is the discriminator of a Type node.
type PrimKind uint8

const (
	PrimUnknown PrimKind = iota
	PrimNone
	PrimFunction
	PrimPtr
	PrimRef
	PrimArray

	PrimStruct
	PrimUnion
	PrimClass
	PrimEnum

	PrimVoid
	PrimBool
	PrimChar
	PrimSchar
	PrimUchar
	PrimShort
	PrimUshort
	PrimInt
	PrimUint
	PrimLong
	PrimUlong
	PrimLlong
	PrimUllong
	PrimWchar
	PrimFloat
	PrimDouble
	PrimLdouble

	PrimM64
	PrimM128
	PrimM128d
	PrimM128i
	PrimM256
	PrimM256d
	PrimM256i
	PrimM512
	PrimM512d
	PrimM512i
	PrimVarargs // no code produces this; parameter lists terminate on 'Z'
)

var primNames = map[PrimKind]string{
	PrimVoid:    "void",
	PrimBool:    "bool",
	PrimChar:    "char",
	PrimSchar:   "signed char",
	PrimUchar:   "unsigned char",
	PrimShort:   "short",
	PrimUshort:  "unsigned short",
	PrimInt:     "int",
	PrimUint:    "unsigned int",
	PrimLong:    "long",
	PrimUlong:   "unsigned long",
	PrimLlong:   "long long",
	PrimUllong:  "unsigned long long",
	PrimWchar:   "wchar_t",
	PrimFloat:   "float",
	PrimDouble:  "double",
	PrimLdouble: "long double",
	PrimM64:     "__m64",
	PrimM128:    "__m128",
	PrimM128d:   "__m128d",
	PrimM128i:   "__m128i",
	PrimM256:    "__m256",
	PrimM256d:   "__m256d",
	PrimM256i:   "__m256i",
	PrimM512:    "__m512",
	PrimM512d:   "__m512d",
	PrimM512i:   "__m512i",
	PrimVarargs: "...",
}

// StorageClass is a bitset of storage qualifiers on a single Type node.
// A Ptr node's Const bit means "const pointer"; the pointee's const-ness
// lives on Inner.SClass.
type StorageClass uint8

const (
	SCConst StorageClass = 1 << iota
	SCVolatile
	SCFar
	SCHuge
	SCUnaligned
	SCRestrict
)

// CallingConvention is valid when Prim is PrimFunction.
type CallingConvention uint8

const (
	CallCdecl CallingConvention = iota
	CallPascal
	CallThiscall
	CallStdcall
	CallFastcall
	CallRegcall // never produced; the scheme's second 'E' arm is unreachable
)

var callingConvNames = map[CallingConvention]string{
	CallCdecl:    "__cdecl",
	CallPascal:   "__pascal",
	CallThiscall: "__thiscall",
	CallStdcall:  "__stdcall",
	CallFastcall: "__fastcall",
	CallRegcall:  "__regcall",
}

// FuncClass is a bitset of member-function properties.
type FuncClass uint8

const (
	FCPublic FuncClass = 1 << iota
	FCProtected
	FCPrivate
	FCGlobal
	FCStatic
	FCVirtual
	FCFar
)

// Type is a tagged variant keyed by Prim.
type Type struct {
	Prim   PrimKind
	SClass StorageClass

	// Pointee for Ptr/Ref, element for Array, return type for Function.
	Inner *Type

	CallConv  CallingConvention // valid when Prim == PrimFunction
	FuncClass FuncClass         // valid for member functions

	Len int32 // valid when Prim == PrimArray

	// Qualified name, innermost fragment first. Valid when Prim is one of
	// Struct, Union, Class, Enum.
	Name []*Name

	// Function parameters, or template arguments on a template instance.
	Params []*Type
}

// Name is one fragment of a qualified name.
type Name struct {
	Text string

	// Non-empty iff this fragment is a template specialization.
	Params []*Type
}
