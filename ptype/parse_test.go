package ptype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyproto/synclang/token"
)

func parse(t *testing.T, src string) *Tree {
	t.Helper()
	tz, err := token.Create([]byte(src))
	require.Nil(t, err)
	it := token.NewIter(tz)
	tree, perr := Parse(it)
	require.Nil(t, perr)
	return tree
}

func TestNamedType(t *testing.T) {
	tree := parse(t, "i32")
	assert.Equal(t, Named, tree.Nodes[tree.Root].Tag)
	assert.Equal(t, "i32", tree.Nodes[tree.Root].Name)
}

func TestNullablePointerType(t *testing.T) {
	tree := parse(t, "?*mut i32")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, Nullable, root.Tag)
	ptr := tree.Nodes[root.Of]
	assert.Equal(t, Pointer, ptr.Tag)
	assert.True(t, ptr.Mut)
	assert.Equal(t, Named, tree.Nodes[ptr.Of].Tag)
}

func TestNullablePointerTypeWithLifetime(t *testing.T) {
	tree := parse(t, "?*'a mut i32")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, Nullable, root.Tag)
	ptr := tree.Nodes[root.Of]
	assert.Equal(t, Pointer, ptr.Tag)
	assert.True(t, ptr.Mut)
	assert.Equal(t, "a", ptr.Lifetime)
	assert.Equal(t, Named, tree.Nodes[ptr.Of].Tag)
	assert.Equal(t, "i32", tree.Nodes[ptr.Of].Name)
}

func TestSliceType(t *testing.T) {
	tree := parse(t, "[]mut i32")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, Slice, root.Tag)
	assert.True(t, root.Mut)
}

func TestSliceTypeWithLifetime(t *testing.T) {
	tree := parse(t, "[]'a mut i32")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, Slice, root.Tag)
	assert.True(t, root.Mut)
	assert.Equal(t, "a", root.Lifetime)
	assert.Equal(t, Named, tree.Nodes[root.Of].Tag)
}

func TestPrimitiveNamedTypes(t *testing.T) {
	for _, name := range []string{"bool", "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64",
		"usize", "f32", "f64", "char", "str", "String", "Type"} {
		tree := parse(t, name)
		assert.Equal(t, Named, tree.Nodes[tree.Root].Tag, name)
		assert.Equal(t, name, tree.Nodes[tree.Root].Name, name)
	}
}

func TestGenericArguments(t *testing.T) {
	tree := parse(t, "Vec(3, f32)")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, Named, root.Tag)
	assert.Equal(t, "Vec", root.Name)
	require.Len(t, root.Elems, 2)
	assert.Equal(t, IntLiteral, tree.Nodes[root.Elems[0]].Tag)
	assert.EqualValues(t, 3, tree.Nodes[root.Elems[0]].Lit)
	assert.Equal(t, Named, tree.Nodes[root.Elems[1]].Tag)
	assert.Equal(t, "f32", tree.Nodes[root.Elems[1]].Name)
}

func TestPostfixLifetimeAnnotation(t *testing.T) {
	tree := parse(t, "i32@'a")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, Named, root.Tag)
	assert.Equal(t, "a", root.Lifetime)
}

func TestErrorUnionType(t *testing.T) {
	tree := parse(t, "i32!i32")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, ErrorUnion, root.Tag)
	require.Len(t, root.Elems, 2)
}

func TestStaticArrayType(t *testing.T) {
	tree := parse(t, "[3]f32")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, StaticArray, root.Tag)
	assert.EqualValues(t, 3, root.Length)
}

func TestTupleType(t *testing.T) {
	tree := parse(t, "(i32, f32, bool)")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, Tuple, root.Tag)
	require.Len(t, root.Elems, 3)
}

func TestSharedWrapper(t *testing.T) {
	tree := parse(t, "Shared(i32)")
	root := tree.Nodes[tree.Root]
	assert.Equal(t, Shared, root.Tag)
}

func TestIntegerLiteralInTupleIsError(t *testing.T) {
	tz, err := token.Create([]byte("(i32, 3)"))
	require.Nil(t, err)
	it := token.NewIter(tz)
	_, perr := Parse(it)
	require.NotNil(t, perr)
}

func TestRepeatedErrorUnionIsError(t *testing.T) {
	tz, err := token.Create([]byte("i32!i32!i32"))
	require.Nil(t, err)
	it := token.NewIter(tz)
	_, perr := Parse(it)
	require.NotNil(t, perr)
}

func TestExcessiveDepthIsError(t *testing.T) {
	src := ""
	for i := 0; i < MaxGenericDepth+2; i++ {
		src += "*"
	}
	src += "i32"
	tz, err := token.Create([]byte(src))
	require.Nil(t, err)
	it := token.NewIter(tz)
	_, perr := Parse(it)
	require.NotNil(t, perr)
}
