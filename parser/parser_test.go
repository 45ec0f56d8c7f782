package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyproto/synclang/ast"
	"github.com/xyproto/synclang/token"
)

func newInfo(t *testing.T, src string) *Info {
	t.Helper()
	tz, err := token.Create([]byte(src))
	require.Nil(t, err)
	return NewInfo(token.NewIter(tz))
}

func TestParseStatementRightBrace(t *testing.T) {
	p := newInfo(t, "}")
	stmt, err := ParseStatement(p)
	require.Nil(t, err)
	assert.Nil(t, stmt)
}

func TestParseStatementReturnBare(t *testing.T) {
	p := newInfo(t, "return;")
	stmt, err := ParseStatement(p)
	require.Nil(t, err)
	require.NotNil(t, stmt)
	assert.Equal(t, ast.NodeReturn, stmt.Kind)
	assert.Nil(t, stmt.Return.Value)
}

func TestParseStatementReturnTrue(t *testing.T) {
	p := newInfo(t, "return true;")
	stmt, err := ParseStatement(p)
	require.Nil(t, err)
	require.NotNil(t, stmt.Return.Value)
	assert.Equal(t, ast.ExprBoolLit, stmt.Return.Value.Kind)
	assert.True(t, stmt.Return.Value.BoolValue)
}

func TestParseStatementReturnFalse(t *testing.T) {
	p := newInfo(t, "return false;")
	stmt, err := ParseStatement(p)
	require.Nil(t, err)
	assert.False(t, stmt.Return.Value.BoolValue)
}

func TestParseStatementReturnMissingSemicolonIsError(t *testing.T) {
	p := newInfo(t, "return true")
	_, err := ParseStatement(p)
	require.NotNil(t, err)
}

func TestParseFileEmpty(t *testing.T) {
	p := newInfo(t, "")
	file, err := ParseFile(p)
	require.Nil(t, err)
	assert.Empty(t, file.Functions)
	assert.Empty(t, file.TypeDefs)
}

func TestParseFileSingleFunction(t *testing.T) {
	p := newInfo(t, "fn main() { return 0; }")
	file, err := ParseFile(p)
	require.Nil(t, err)
	require.Len(t, file.Functions, 1)
	fn := file.Functions[0]
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body, 1)
	assert.Equal(t, ast.NodeReturn, fn.Body[0].Kind)
	assert.Equal(t, "0", fn.Body[0].Return.Value.NumberText)
}

func TestParseFilePublicFunctionWithParamsAndReturnType(t *testing.T) {
	p := newInfo(t, "pub fn add(a: i32, mut b: i32): i32 { return a; }")
	file, err := ParseFile(p)
	require.Nil(t, err)
	require.Len(t, file.Functions, 1)
	fn := file.Functions[0]
	assert.True(t, fn.Public)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.False(t, fn.Params[0].Mutable)
	assert.Equal(t, "b", fn.Params[1].Name)
	assert.True(t, fn.Params[1].Mutable)
	require.NotNil(t, fn.ReturnType)
}

func TestParseFileStructSkipsBody(t *testing.T) {
	p := newInfo(t, "struct Point { x: i32, y: i32 } fn main() { return; }")
	file, err := ParseFile(p)
	require.Nil(t, err)
	require.Len(t, file.TypeDefs, 1)
	assert.Equal(t, "Point", file.TypeDefs[0].Name)
	require.Len(t, file.Functions, 1)
}

func TestParseExpressionCharLiteral(t *testing.T) {
	p := newInfo(t, "'a'")
	expr, err := ParseExpression(p)
	require.Nil(t, err)
	assert.Equal(t, ast.ExprCharLit, expr.Kind)
	assert.Equal(t, "a", expr.CharText)
}

func TestParseExpressionEscapedCharLiteral(t *testing.T) {
	p := newInfo(t, `'\n'`)
	expr, err := ParseExpression(p)
	require.Nil(t, err)
	assert.Equal(t, ast.ExprCharLit, expr.Kind)
	assert.Equal(t, `\n`, expr.CharText)
}

func TestParseFileUnknownTopLevelTokenIsError(t *testing.T) {
	p := newInfo(t, "42")
	_, err := ParseFile(p)
	require.NotNil(t, err)
}
