// Package ptype implements the parsed-type tree (§3, §4.2): the structural
// grammar that describes a type expression as written in source — pointer
// levels, optionality, slices, sync wrappers, static arrays, tuples, error
// unions and integer literals — before it is resolved against the actual
// type table.
package ptype

import "github.com/xyproto/synclang/cerr"

// Tag enumerates the parsed-type node kinds (§3 ptype.Tree).
type Tag uint8

const (
	Named Tag = iota
	Nullable
	Pointer
	Slice
	Dyn
	Unique
	Shared
	Weak
	StaticArray
	Tuple
	ErrorUnion
	IntLiteral
)

// MaxGenericDepth bounds nested generic-argument/pointer chains (§4.2 edge
// case: depth greater than 32 is a compile error).
const MaxGenericDepth = 32

// Node is one level of a parsed-type tree. Most tags reference a single
// child (Of); StaticArray additionally carries a Length, Tuple/ErrorUnion
// carry multiple children via Elems, and Named carries a source name
// instead of an Of child, plus its generic arguments (if any) in Elems.
type Node struct {
	Tag      Tag
	Of       int // index of child Node in Tree.Nodes, -1 if none
	Elems    []int
	Name     string
	Length   uint64 // StaticArray only
	Lit      int64  // IntLiteral only
	Mut      bool   // Pointer/Slice: whether the referent is mutable
	Lifetime string // possibly empty; set inline ("*'a", "[]'a", "dyn'a") or by a postfix "@'a" annotation
}

// Tree is a parsed-type expression: a flat node pool plus a root index, the
// way ast nodes are pooled through an allocator rather than individually
// heap-allocated (§9).
type Tree struct {
	Nodes []Node
	Root  int
}

func (t *Tree) add(n Node) int {
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1
}

// newErr is a shorthand for constructing parsed-type compile errors; ptype
// doesn't track fine-grained source offsets of its own (the caller — the
// parser — already knows the token location), so Offset is always 0 here
// and the parser wraps it with the real location if needed.
func newErr(kind cerr.Kind) *cerr.CompileError {
	return cerr.New(kind, 0)
}
