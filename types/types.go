// Package types implements the resolved type table (§6): Descriptor (size,
// alignment, name, and the operations every value of a type supports) and
// FunctionDescriptor (qualified name, signature, and the C/Script dispatch
// tag).
package types

import (
	"github.com/dchest/siphash"
	"github.com/google/uuid"
)

// Tag distinguishes a type's runtime representation kind, used by the
// interpreter to decide how a value of this type is copied/destroyed.
type Tag uint8

const (
	TagBool Tag = iota
	TagInt
	TagFloat
	TagString
	TagStruct
	TagEnum
	TagPointer
	TagSlice
	TagSync
	TagOrdering
)

// Descriptor is the resolved, canonical description of a type: everything
// the interpreter needs to store, copy, compare, and destroy a value of
// this type without static (compile-time monomorphized) knowledge of it
// (§6 External Interfaces).
type Descriptor struct {
	Name      string
	Size      uint64
	Align     uint64
	Tag       Tag
	Destroy   func(mem []byte)
	Copy      func(dst, src []byte)
	Equal     func(a, b []byte) bool
	Compare   func(a, b []byte) int // -1/0/1, only meaningful for Orderable types
	Orderable bool
}

// hashSeeds is a fixed key used by the default siphash-based Hash
// implementation; deterministic within a process run, not meant to resist
// hash-flooding across runs (no use case here calls for that).
var hashSeeds = [2]uint64{0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9}

// Hash returns the default siphash-2-4 digest of a value's raw bytes. It is
// a standalone helper: Descriptor has no hash field, so no Descriptor
// carries a hash function of its own or refers to this one.
func Hash(mem []byte) uint64 {
	return siphash.Hash(hashSeeds[0], hashSeeds[1], mem)
}

func plainCopy(dst, src []byte) { copy(dst, src) }
func noopDestroy(mem []byte)    {}

func newScalar(name string, size uint64, tag Tag, orderable bool) *Descriptor {
	return &Descriptor{
		Name:      name,
		Size:      size,
		Align:     size,
		Tag:       tag,
		Destroy:   noopDestroy,
		Copy:      plainCopy,
		Equal:     func(a, b []byte) bool { return string(a) == string(b) },
		Orderable: orderable,
	}
}

var (
	Bool     = newScalar("bool", 1, TagBool, true)
	I8       = newScalar("i8", 1, TagInt, true)
	I16      = newScalar("i16", 2, TagInt, true)
	I32      = newScalar("i32", 4, TagInt, true)
	I64      = newScalar("i64", 8, TagInt, true)
	U8       = newScalar("u8", 1, TagInt, true)
	U16      = newScalar("u16", 2, TagInt, true)
	U32      = newScalar("u32", 4, TagInt, true)
	U64      = newScalar("u64", 8, TagInt, true)
	USize    = newScalar("usize", 8, TagInt, true)
	F32      = newScalar("f32", 4, TagFloat, true)
	F64      = newScalar("f64", 8, TagFloat, true)
	Char     = newScalar("char", 4, TagInt, true)
	Ordering = &Descriptor{
		Name: "Ordering", Size: 1, Align: 1, Tag: TagOrdering,
		Destroy: noopDestroy, Copy: plainCopy,
		Equal:     func(a, b []byte) bool { return a[0] == b[0] },
		Compare:   func(a, b []byte) int { return int(a[0]) - int(b[0]) },
		Orderable: true,
	}
)

// String is the builtin owned string type: a length-prefixed byte buffer.
// Its Descriptor's Destroy is a no-op, and nothing in this module replaces
// it, so destroying a String does not release a backing buffer.
var String = &Descriptor{
	Name: "String", Size: 24, Align: 8, Tag: TagString,
	Destroy: noopDestroy,
	Copy:    plainCopy,
	Equal:   func(a, b []byte) bool { return string(a) == string(b) },
}

// StringSlice is the borrowed-string-view type (pointer + length, no
// ownership).
var StringSlice = &Descriptor{
	Name: "str", Size: 16, Align: 8, Tag: TagSlice,
	Destroy: noopDestroy,
	Copy:    plainCopy,
	Equal:   func(a, b []byte) bool { return string(a) == string(b) },
}

// FunctionTag distinguishes a script-defined function from a host-provided
// (C-ABI) function (§6 FunctionDescriptor).
type FunctionTag uint8

const (
	FunctionC FunctionTag = iota
	FunctionScript
)

// ScriptImpl is the script-function-specific payload of a FunctionDescriptor:
// which compiled program it belongs to, how many stack slots it needs, and
// its bytecode buffer. ProgramID ties it back to the owning Program via
// uuid identity rather than a raw pointer, so script functions can be
// serialized/relocated independently of their defining program's memory
// layout.
type ScriptImpl struct {
	ProgramID     uuid.UUID
	RequiredSlots uint32
	Bytecode      []uint64
}

// FunctionDescriptor is the resolved, canonical description of a callable
// (§6): its qualified and short names, return type (nullable — a function
// may return nothing), parameter types, and whether it's safe to invoke at
// comptime.
type FunctionDescriptor struct {
	QualifiedName string
	ShortName     string
	ReturnType    *Descriptor // nil if the function returns nothing
	ArgTypes      []*Descriptor
	Align         uint64
	ComptimeSafe  bool
	Tag           FunctionTag
	Script        *ScriptImpl // non-nil iff Tag == FunctionScript
}

// Program identifies one compiled translation unit; its UUID is the
// identity uuid.UUID-backed references use to tie a ScriptImpl back to its
// owner without holding a pointer into the program's own memory.
type Program struct {
	ID       uuid.UUID
	Name     string
	Funcs    map[string]*FunctionDescriptor
	FuncList []*FunctionDescriptor
}

func NewProgram(name string) *Program {
	return &Program{ID: uuid.New(), Name: name, Funcs: make(map[string]*FunctionDescriptor)}
}

// AddFunction registers fd under its qualified name and appends it to
// FuncList, returning the stable numeric index bytecode's CallImmediate*
// opcodes use to reference it (§4.4).
func (p *Program) AddFunction(fd *FunctionDescriptor) uint32 {
	idx := uint32(len(p.FuncList))
	p.FuncList = append(p.FuncList, fd)
	p.Funcs[fd.QualifiedName] = fd
	return idx
}

// FunctionAt resolves a CallImmediate* function-index operand back to its
// descriptor, or nil if the index is out of range.
func (p *Program) FunctionAt(index uint32) *FunctionDescriptor {
	if int(index) >= len(p.FuncList) {
		return nil
	}
	return p.FuncList[index]
}
