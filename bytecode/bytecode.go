// Package bytecode implements the 64-bit tagged-operand instruction word
// format (§4.4): an OpCode in the low 8 bits plus per-opcode operand
// bitfields packed into the remaining 56, the way the source's Bytecode
// union of bitfield structs does — Go has no bitfields, so Word packs and
// unpacks them explicitly via shift/mask accessor methods.
package bytecode

const opcodeBits = 8
const opcodeMask = (1 << opcodeBits) - 1

// OpCode enumerates the bytecode instruction set the interpreter's
// dispatch loop understands (§4.4).
type OpCode uint8

const (
	Noop OpCode = iota
	Return
	ReturnValue
	CallImmediateNoReturn
	CallSrcNoReturn
	CallImmediateWithReturn
	CallSrcWithReturn
	LoadDefault
	LoadImmediateScalar
	MemsetUninitialized
	SetType
	SetNullType
	Jump
	JumpIfFalse
	Destruct

	// Not yet exercised by the interpreter's dispatch loop, but present in
	// the instruction set per the source's bytecode.hpp (Sync/Unsync/Move/
	// Clone/Dereference/SetReference/MakeReference/GetMember/SetMember and
	// the scalar arithmetic/comparison family). Encoding is reserved so a
	// future interpreter extension doesn't have to renumber.
	Sync
	Unsync
	Move
	Clone
	Dereference
	SetReference
	MakeReference
	GetMember
	SetMember
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	Add
	Subtract
	Multiply
	Divide
)

// ScalarTag identifies the concrete scalar type an immediate-load or
// arithmetic operand carries (§4.4).
type ScalarTag uint8

const (
	ScalarBool ScalarTag = iota
	ScalarI8
	ScalarI16
	ScalarI32
	ScalarI64
	ScalarU8
	ScalarU16
	ScalarU32
	ScalarU64
	ScalarUSize
	ScalarF32
	ScalarF64
)

// Word is one 64-bit instruction: an OpCode plus operands packed into the
// remaining bits. Op() extracts the opcode; the New* constructors and Word
// accessor methods in operands.go pack/unpack each opcode's specific
// operand layout.
type Word uint64

func (w Word) Op() OpCode {
	return OpCode(uint64(w) & opcodeMask)
}

func packWord(op OpCode, operand uint64) Word {
	return Word(uint64(op) | (operand << opcodeBits))
}
