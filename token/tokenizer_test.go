package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyproto/synclang/cerr"
)

func scanFirst(t *testing.T, src string) (Token, uint32) {
	t.Helper()
	tz, err := Create([]byte(src))
	require.Nil(t, err)
	require.NotEmpty(t, tz.Tokens)
	return tz.Tokens[0], tz.Ends[0]
}

func TestKeywords(t *testing.T) {
	cases := map[string]Tag{
		"const": ConstKeyword, "mut": MutKeyword, "comptime": ComptimeKeyword,
		"return": ReturnKeyword, "fn": FnKeyword, "pub": PubKeyword,
		"if": IfKeyword, "else": ElseKeyword, "while": WhileKeyword,
		"struct": StructKeyword, "enum": EnumKeyword, "dyn": DynKeyword,
		"sync": SyncKeyword, "true": TrueKeyword, "false": FalseKeyword,
		"null": NullKeyword, "and": AndKeyword, "or": OrKeyword,
		"i32": I32Primitive, "u64": U64Primitive, "usize": USizePrimitive,
		"f64": F64Primitive, "str": StrPrimitive, "String": StringPrimitive,
	}
	for src, want := range cases {
		tok, end := scanFirst(t, src)
		assert.Equal(t, want, tok.Tag(), "source %q", src)
		assert.EqualValues(t, 0, tok.Location())
		assert.GreaterOrEqual(t, end, uint32(len(src)))
	}
}

func TestKeywordPrefixDecaysToIdentifier(t *testing.T) {
	for _, src := range []string{"constt", "mutt", "returnn", "iff", "truee", "nulll", "whilee"} {
		tok, _ := scanFirst(t, src)
		assert.Equal(t, Identifier, tok.Tag(), "source %q", src)
	}
}

func TestSymbolsAndOperators(t *testing.T) {
	cases := map[string]Tag{
		"<": LessOperator, "<=": LessOrEqualOperator, "<<": BitshiftLeftOperator, "<<=": BitshiftLeftAssignOperator,
		">": GreaterOperator, ">=": GreaterOrEqualOperator, ">>": BitshiftRightOperator, ">>=": BitshiftRightAssignOperator,
		"=": AssignOperator, "==": EqualOperator, "!": ExclamationSymbol, "!=": NotEqualOperator,
		"+": AddOperator, "+=": AddAssignOperator, "-": SubtractOperator, "-=": SubtractAssignOperator,
		"*": MultiplyOperator, "/": DivideOperator, "%": ModuloOperator,
		".": DotSymbol, ".?": OptionUnwrapOperator, ".!": ErrorUnwrapOperator,
		"&": AmpersandSymbol, "(": LeftParenthesesSymbol, ")": RightParenthesesSymbol,
		"[": LeftBracketSymbol, "]": RightBracketSymbol, "{": LeftBraceSymbol, "}": RightBraceSymbol,
		":": ColonSymbol, ";": SemicolonSymbol, ",": CommaSymbol, "?": OptionalSymbol,
	}
	for src, want := range cases {
		tok, end := scanFirst(t, src)
		assert.Equal(t, want, tok.Tag(), "source %q", src)
		assert.GreaterOrEqual(t, end, uint32(len(src)))
	}
}

func TestMutableReferenceSymbol(t *testing.T) {
	tok, end := scanFirst(t, "&mut x")
	assert.Equal(t, MutableReferenceSymbol, tok.Tag())
	assert.EqualValues(t, 4, end)
}

func TestNegativeNumberLiterals(t *testing.T) {
	for _, src := range []string{"-0", "-1", "-9", "-1.1", "-9.", "-3..5"} {
		tok, _ := scanFirst(t, src)
		assert.Equal(t, NumberLiteral, tok.Tag(), "source %q", src)
	}
}

func TestPositiveNumberLiterals(t *testing.T) {
	for _, src := range []string{"0", "9", "1.0", "5.127640124", "0xFF", "0x01", "0b1", "0b1001"} {
		tok, _ := scanFirst(t, src)
		assert.Equal(t, NumberLiteral, tok.Tag(), "source %q", src)
	}
}

func TestStringLiterals(t *testing.T) {
	for _, src := range []string{`""`, `"a"`, `"abc"`, `"\""`, `"\'"`} {
		tok, end := scanFirst(t, src)
		assert.Equal(t, StringLiteral, tok.Tag(), "source %q", src)
		assert.GreaterOrEqual(t, end, uint32(len(src)))
	}
}

func TestStringLiteralInvalid(t *testing.T) {
	for _, src := range []string{"\"", "\" ", "\"\n\""} {
		tok, _ := scanFirst(t, src)
		assert.Equal(t, Error, tok.Tag(), "source %q", src)
	}
}

func TestCharLiterals(t *testing.T) {
	for _, src := range []string{"'a'", "'abc'", `'\"'`, `'\''`} {
		tok, _ := scanFirst(t, src)
		assert.Equal(t, CharLiteral, tok.Tag(), "source %q", src)
	}
}

func TestCharLiteralInvalid(t *testing.T) {
	for _, src := range []string{"''", "'", "'\n'"} {
		tok, _ := scanFirst(t, src)
		assert.Equal(t, Error, tok.Tag(), "source %q", src)
	}
}

func TestIdentifiers(t *testing.T) {
	for _, src := range []string{"aa", "ba", "foo_bar", "x1", "_leading"} {
		tok, end := scanFirst(t, src)
		assert.Equal(t, Identifier, tok.Tag(), "source %q", src)
		assert.GreaterOrEqual(t, end, uint32(len(src)))
	}
}

func TestWhitespaceSkippedBetweenTokens(t *testing.T) {
	tz, err := Create([]byte("  fn   main"))
	require.Nil(t, err)
	require.Len(t, tz.Tokens, 3)
	assert.Equal(t, FnKeyword, tz.Tokens[0].Tag())
	assert.EqualValues(t, 2, tz.Tokens[0].Location())
	assert.Equal(t, Identifier, tz.Tokens[1].Tag())
	assert.Equal(t, EndOfFile, tz.Tokens[2].Tag())
}

func TestEmptySourceYieldsOnlyEndOfFile(t *testing.T) {
	tz, err := Create([]byte(""))
	require.Nil(t, err)
	require.Len(t, tz.Tokens, 1)
	assert.Equal(t, EndOfFile, tz.Tokens[0].Tag())
}

func TestFileTooBig(t *testing.T) {
	_, err := Create(make([]byte, MaxSourceLen+1))
	require.NotNil(t, err)
	assert.Equal(t, cerr.KindFileTooBig, err.Kind)
}

func TestIterNavigatesWithoutConsumingOnPeek(t *testing.T) {
	tz, err := Create([]byte("fn main"))
	require.Nil(t, err)
	it := NewIter(tz)
	assert.Equal(t, FnKeyword, it.Current().Tag())
	assert.Equal(t, Identifier, it.Peek().Tag())
	assert.Equal(t, FnKeyword, it.Current().Tag())
	assert.Equal(t, Identifier, it.Next().Tag())
}

func TestNumberLiteralEvaluation(t *testing.T) {
	n, err := CreateNumberLiteral("42")
	require.Nil(t, err)
	u, err2 := n.AsUnsigned64()
	require.Nil(t, err2)
	assert.EqualValues(t, 42, u)

	n, err = CreateNumberLiteral("-42")
	require.Nil(t, err)
	s, err2 := n.AsSigned64()
	require.Nil(t, err2)
	assert.EqualValues(t, -42, s)

	n, err = CreateNumberLiteral("3.5")
	require.Nil(t, err)
	assert.InDelta(t, 3.5, n.AsFloat64(), 1e-9)
}

func TestNumberLiteralOverflowPromotesToFloat(t *testing.T) {
	n, err := CreateNumberLiteral("99999999999999999999999999999999")
	require.Nil(t, err)
	assert.Equal(t, Float64Kind, n.Kind)
}

func TestNumberLiteralNegativeToUnsignedRejected(t *testing.T) {
	n, err := CreateNumberLiteral("-1")
	require.Nil(t, err)
	_, convErr := n.AsUnsigned64()
	require.NotNil(t, convErr)
}
