// Package ast defines the parsed syntax tree node types (§3, §4.2): tagged
// sum types dispatched statically (a Kind field plus a flat field set),
// replacing the source's virtual-dispatch node hierarchy per the
// tagged-union redesign the spec calls for.
package ast

import (
	"github.com/xyproto/synclang/ptype"
)

// StackVariable records one local variable's slot assignment within a
// function body (§3 ast.StackVariable): its name, declared type, and the
// stack slot index the interpreter will read/write it through.
type StackVariable struct {
	Name      string
	Type      *ptype.Tree
	SlotIndex uint32
	Mutable   bool
}

// Scope is a lexical block: the stack variables declared directly within
// it, and the enclosing scope (nil at function-body root).
type Scope struct {
	Parent    *Scope
	Variables []StackVariable
}

// Lookup searches this scope and its ancestors for a variable by name.
func (s *Scope) Lookup(name string) (StackVariable, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		for _, v := range sc.Variables {
			if v.Name == name {
				return v, true
			}
		}
	}
	return StackVariable{}, false
}

// Declare adds a new variable to this scope at the given slot index, which
// the caller is responsible for allocating uniquely (the parser owns the
// running slot counter, not the Scope).
func (s *Scope) Declare(name string, typ *ptype.Tree, slot uint32, mutable bool) {
	s.Variables = append(s.Variables, StackVariable{Name: name, Type: typ, SlotIndex: slot, Mutable: mutable})
}

// ExprKind tags which arm of Expression is active (§4.2 Expression::ExprType).
type ExprKind uint8

const (
	ExprVariable ExprKind = iota
	ExprBoolLit
	ExprNumLit
	ExprCharLit
	ExprDeref
	ExprMakeRef
	ExprNull
	ExprNested
)

// Expression is a parsed expression, represented as a tagged sum (static
// dispatch, §9) rather than a node hierarchy: Kind selects which of the
// remaining fields are meaningful.
type Expression struct {
	Kind ExprKind

	// ExprVariable
	VariableName string
	SlotIndex    uint32

	// ExprBoolLit
	BoolValue bool

	// ExprNumLit
	NumberText string

	// ExprCharLit: the literal's source text between (not including) the
	// enclosing quotes, decoded at compile time rather than by the
	// scanner (the scanner only records extent — see token.scanCharLiteral).
	CharText string

	// ExprDeref, ExprMakeRef, ExprNested
	Inner *Expression

	// DstVarIndex names the synthetic destination variable this
	// expression's result is stored into, mirroring the source's
	// getOrMakeDstVarIndex naming convention ("%true0", "%num3", ...).
	DstVarIndex uint32
}

// NodeKind tags top-level AST nodes that can appear in a function body or
// at file scope.
type NodeKind uint8

const (
	NodeReturn NodeKind = iota
	NodeFunctionDefinition
	NodeExpressionStatement
)

// ReturnNode is a `return [expr];` statement (§4.2 ast/return.cpp). Value
// is nil for a bare `return;`.
type ReturnNode struct {
	Value *Expression
}

// Statement is one entry of a function body: Kind selects which of
// Return/Expression is set — this keeps the sum type flat (a slice of
// tagged structs) instead of an interface slice, matching the "no virtual
// dispatch" redesign.
type Statement struct {
	Kind       NodeKind
	Return     *ReturnNode
	Expression *Expression
}

// FunctionDefinition is a parsed `fn` declaration: its name, parameter
// list, return type (nil if none), and body.
type FunctionDefinition struct {
	Name       string
	Params     []StackVariable
	ReturnType *ptype.Tree // nil if the function returns nothing
	Body       []Statement
	Scope      *Scope
	Public     bool
}

// TypeDefNode is a parsed `struct`/`enum`/`trait` declaration. Only the
// name and kind are modeled here; member-level detail is out of scope for
// this front end beyond what's needed to round-trip a definition through
// parsing (struct/enum body members aren't interpreted by the bytecode VM
// in this implementation).
type TypeDefKind uint8

const (
	TypeDefStruct TypeDefKind = iota
	TypeDefEnum
	TypeDefTrait
)

type TypeDefNode struct {
	Name string
	Kind TypeDefKind
}

// FileAst is the parsed result of one source file: its function and type
// definitions in declaration order.
type FileAst struct {
	Functions []*FunctionDefinition
	TypeDefs  []*TypeDefNode
}
