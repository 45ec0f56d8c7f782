// Package token implements the tokenizer (§4.1): a single-pass,
// branch-dispatched lexer producing a columnar token stream — a Tag+location
// array paired with a separate end-offset array, the way the source's
// Token/Tokenizer split them for cache locality (most tokens never need
// their textual extent).
package token

import "fmt"

// MaxSourceLen is the hard limit on source length: locations are packed into
// 24 bits (§3 Token).
const MaxSourceLen = 0x00FFFFFF

// Tag enumerates every token kind: keywords, primitive type names, literal
// kinds, operators, delimiters, and the two virtual kinds Error/EndOfFile.
type Tag uint8

const (
	Error Tag = iota
	EndOfFile

	ConstKeyword
	MutKeyword
	ComptimeKeyword
	ReturnKeyword
	ThrowKeyword
	FnKeyword
	PubKeyword
	IfKeyword
	ElseKeyword
	SwitchKeyword
	WhileKeyword
	ForKeyword
	BreakKeyword
	ContinueKeyword
	StructKeyword
	EnumKeyword
	DynKeyword
	TraitKeyword
	SyncKeyword
	TrueKeyword
	FalseKeyword
	NullKeyword
	AndKeyword
	OrKeyword
	UniqueKeyword
	SharedKeyword
	WeakKeyword

	BoolPrimitive
	I8Primitive
	I16Primitive
	I32Primitive
	I64Primitive
	U8Primitive
	U16Primitive
	U32Primitive
	U64Primitive
	USizePrimitive
	F32Primitive
	F64Primitive
	CharPrimitive
	StrPrimitive
	StringPrimitive
	TypePrimitive

	NumberLiteral
	CharLiteral
	StringLiteral

	Identifier

	EqualOperator
	AssignOperator
	NotEqualOperator
	ErrorUnwrapOperator
	OptionUnwrapOperator
	LessOrEqualOperator
	LessOperator
	GreaterOrEqualOperator
	GreaterOperator
	AddAssignOperator
	AddOperator
	SubtractAssignOperator
	SubtractOperator
	MultiplyAssignOperator
	MultiplyOperator
	DivideAssignOperator
	DivideOperator
	ModuloAssignOperator
	ModuloOperator
	BitshiftRightAssignOperator
	BitshiftRightOperator
	BitshiftLeftAssignOperator
	BitshiftLeftOperator
	BitAndAssignOperator
	BitOrAssignOperator
	BitOrOperator
	BitXorAssignOperator
	BitXorOperator
	BitNotAssignOperator
	BitNotOperator

	LeftParenthesesSymbol
	RightParenthesesSymbol
	LeftBracketSymbol
	RightBracketSymbol
	LeftBraceSymbol
	RightBraceSymbol
	ColonSymbol
	SemicolonSymbol
	DotSymbol
	CommaSymbol
	OptionalSymbol
	MutableReferenceSymbol
	AmpersandSymbol
	ExclamationSymbol
	AsteriskSymbol

	LifetimePointer
	ConcreteLifetime
)

var tagNames = map[Tag]string{
	Error: "Error", EndOfFile: "EndOfFile",
	ConstKeyword: "ConstKeyword", MutKeyword: "MutKeyword", ComptimeKeyword: "ComptimeKeyword",
	ReturnKeyword: "ReturnKeyword", ThrowKeyword: "ThrowKeyword", FnKeyword: "FnKeyword",
	PubKeyword: "PubKeyword", IfKeyword: "IfKeyword", ElseKeyword: "ElseKeyword",
	SwitchKeyword: "SwitchKeyword", WhileKeyword: "WhileKeyword", ForKeyword: "ForKeyword",
	BreakKeyword: "BreakKeyword", ContinueKeyword: "ContinueKeyword", StructKeyword: "StructKeyword",
	EnumKeyword: "EnumKeyword", DynKeyword: "DynKeyword", TraitKeyword: "TraitKeyword",
	SyncKeyword: "SyncKeyword", TrueKeyword: "TrueKeyword", FalseKeyword: "FalseKeyword",
	NullKeyword: "NullKeyword", AndKeyword: "AndKeyword", OrKeyword: "OrKeyword",
	UniqueKeyword: "UniqueKeyword", SharedKeyword: "SharedKeyword", WeakKeyword: "WeakKeyword",
	BoolPrimitive: "BoolPrimitive", I8Primitive: "I8Primitive", I16Primitive: "I16Primitive",
	I32Primitive: "I32Primitive", I64Primitive: "I64Primitive", U8Primitive: "U8Primitive",
	U16Primitive: "U16Primitive", U32Primitive: "U32Primitive", U64Primitive: "U64Primitive",
	USizePrimitive: "USizePrimitive", F32Primitive: "F32Primitive", F64Primitive: "F64Primitive",
	CharPrimitive: "CharPrimitive", StrPrimitive: "StrPrimitive", StringPrimitive: "StringPrimitive",
	TypePrimitive: "TypePrimitive",
	NumberLiteral: "NumberLiteral", CharLiteral: "CharLiteral", StringLiteral: "StringLiteral",
	Identifier: "Identifier",
	EqualOperator: "EqualOperator", AssignOperator: "AssignOperator", NotEqualOperator: "NotEqualOperator",
	ErrorUnwrapOperator: "ErrorUnwrapOperator", OptionUnwrapOperator: "OptionUnwrapOperator",
	LessOrEqualOperator: "LessOrEqualOperator", LessOperator: "LessOperator",
	GreaterOrEqualOperator: "GreaterOrEqualOperator", GreaterOperator: "GreaterOperator",
	AddAssignOperator: "AddAssignOperator", AddOperator: "AddOperator",
	SubtractAssignOperator: "SubtractAssignOperator", SubtractOperator: "SubtractOperator",
	MultiplyAssignOperator: "MultiplyAssignOperator", MultiplyOperator: "MultiplyOperator",
	DivideAssignOperator: "DivideAssignOperator", DivideOperator: "DivideOperator",
	ModuloAssignOperator: "ModuloAssignOperator", ModuloOperator: "ModuloOperator",
	BitshiftRightAssignOperator: "BitshiftRightAssignOperator", BitshiftRightOperator: "BitshiftRightOperator",
	BitshiftLeftAssignOperator: "BitshiftLeftAssignOperator", BitshiftLeftOperator: "BitshiftLeftOperator",
	BitAndAssignOperator: "BitAndAssignOperator", BitOrAssignOperator: "BitOrAssignOperator",
	BitOrOperator: "BitOrOperator", BitXorAssignOperator: "BitXorAssignOperator",
	BitXorOperator: "BitXorOperator", BitNotAssignOperator: "BitNotAssignOperator",
	BitNotOperator: "BitNotOperator",
	LeftParenthesesSymbol: "LeftParenthesesSymbol", RightParenthesesSymbol: "RightParenthesesSymbol",
	LeftBracketSymbol: "LeftBracketSymbol", RightBracketSymbol: "RightBracketSymbol",
	LeftBraceSymbol: "LeftBraceSymbol", RightBraceSymbol: "RightBraceSymbol",
	ColonSymbol: "ColonSymbol", SemicolonSymbol: "SemicolonSymbol", DotSymbol: "DotSymbol",
	CommaSymbol: "CommaSymbol", OptionalSymbol: "OptionalSymbol",
	MutableReferenceSymbol: "MutableReferenceSymbol", AmpersandSymbol: "AmpersandSymbol",
	ExclamationSymbol: "ExclamationSymbol", AsteriskSymbol: "AsteriskSymbol",
	LifetimePointer: "LifetimePointer", ConcreteLifetime: "ConcreteLifetime",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// keywords maps exact identifier text to its reserved tag. The scanner
// classifies every scanned identifier with a lookup in this map
// (scanIdentifierOrKeyword in scan.go); there is no separate per-letter
// dispatch tree.
var keywords = map[string]Tag{
	"const": ConstKeyword, "mut": MutKeyword, "comptime": ComptimeKeyword,
	"return": ReturnKeyword, "throw": ThrowKeyword, "fn": FnKeyword,
	"pub": PubKeyword, "if": IfKeyword, "else": ElseKeyword,
	"switch": SwitchKeyword, "while": WhileKeyword, "for": ForKeyword,
	"break": BreakKeyword, "continue": ContinueKeyword, "struct": StructKeyword,
	"enum": EnumKeyword, "dyn": DynKeyword, "trait": TraitKeyword,
	"sync": SyncKeyword, "true": TrueKeyword, "false": FalseKeyword,
	"null": NullKeyword, "and": AndKeyword, "or": OrKeyword,
	"Unique": UniqueKeyword, "Shared": SharedKeyword, "Weak": WeakKeyword,
	"bool": BoolPrimitive, "i8": I8Primitive, "i16": I16Primitive,
	"i32": I32Primitive, "i64": I64Primitive, "u8": U8Primitive,
	"u16": U16Primitive, "u32": U32Primitive, "u64": U64Primitive,
	"usize": USizePrimitive, "f32": F32Primitive, "f64": F64Primitive,
	"char": CharPrimitive, "str": StrPrimitive, "String": StringPrimitive,
	"Type": TypePrimitive,
}

// Token is a packed 32-bit record: an 8-bit tag and a 24-bit byte offset
// into the source (§3 Token). Go has no bitfields, so the packing is done
// explicitly; Pack/Tag/Location keep callers from reaching into the layout.
type Token uint32

const locationBits = 24
const locationMask = (1 << locationBits) - 1

func Pack(tag Tag, location uint32) Token {
	return Token(uint32(tag)<<locationBits | (location & locationMask))
}

func (t Token) Tag() Tag         { return Tag(uint32(t) >> locationBits) }
func (t Token) Location() uint32 { return uint32(t) & locationMask }
