// Package stack implements the interpreter's growable, paged value+type
// stack (§4.3, §9): a Stack of Nodes, each Node a contiguous slab holding
// both the raw 8-byte value slots and a parallel TypeSlot array describing
// what's currently stored in each slot, plus Frame bookkeeping for
// function calls kept in the Stack's Frames slice. Two slots below each
// frame's base are reserved but not written.
package stack

import (
	"github.com/xyproto/synclang/numeric"
	"github.com/xyproto/synclang/types"
)

// BitsPerStackOperand is the width of a slot-operand in the bytecode word
// format. Resolved in DESIGN.md: the source's literal
// `BITS_PER_STACK_OPERAND = 16` constant overrides the spec prose's
// imprecise "15 bits".
const BitsPerStackOperand = 16

// MaxFrameLen bounds how many slots a single function's frame may occupy.
const MaxFrameLen = 1 << BitsPerStackOperand

// MinSlots is the minimum number of slots a freshly allocated Node holds
// (§9: "MIN_SLOTS = 128").
const MinSlots = 128

// oldFrameInfoReservedSlots is the number of slots reserved below the base
// of every frame (§4.3). The caller's bookkeeping (frame length, function
// index, return value destination) is kept in Stack.Frames, not in these
// slots; PushFrame and PopFrame only account for their size.
const oldFrameInfoReservedSlots = 2

// SlotState tags what a TypeSlot currently holds.
type SlotState uint8

const (
	SlotEmpty SlotState = iota
	SlotOwned
	SlotBorrowed
)

// TypeSlot is the per-slot type-tracking companion to a value slot,
// modeled as a tagged struct (an explicit State field) rather than a
// pointer with a stolen low bit (§9: Go's GC must always see a valid
// pointer-or-nil, so bit-stealing isn't available the way it is in the
// source's tagged-pointer TypeSlot).
type TypeSlot struct {
	State SlotState
	Desc  *types.Descriptor
}

// Frame describes one function activation's window into the stack: its
// base slot offset, length in slots, which function it's an activation of,
// and where its return value (if any) should be written in the caller's
// frame.
type Frame struct {
	BasePointerOffset uint32
	FrameLength       uint32
	FunctionIndex     uint32
	RetValueDst       uint32
	OldInstrPointer   uint32
	PrevBaseOffset    uint32
}

// Node is one slab of the stack: a contiguous run of value slots and their
// parallel type slots, sized to a power of two (§9).
type Node struct {
	Values         []uint64
	Types          []TypeSlot
	NextBaseOffset uint32
}

func newNode(slots int) *Node {
	return &Node{
		Values: make([]uint64, slots),
		Types:  make([]TypeSlot, slots),
	}
}

// Stack is the full growable stack: a slice of Nodes plus the index of the
// node currently being written to. Frames may span only within a single
// Node; when the current Node can't hold the next frame, PushFrame
// replaces it with a larger copy (see growCurrentNode). No further Node is
// appended, so Nodes holds a single Node and CurrentNode stays 0.
type Stack struct {
	Nodes       []*Node
	CurrentNode int
	Frames      []Frame
}

func New() *Stack {
	s := &Stack{}
	s.Nodes = append(s.Nodes, newNode(MinSlots))
	return s
}

// requiredBaseOffsetForByteAlignment returns the slot offset at or after
// offset that is aligned to alignBytes when interpreted as a byte address
// (slots are 8 bytes wide); alignment overhead for a new frame is charged
// to the *previous* frame's length, not the new one (§4.3), so the caller
// extends the previous frame by the padding before pushing.
func requiredBaseOffsetForByteAlignment(offset uint32, alignBytes uint64) uint32 {
	if alignBytes <= 8 {
		return offset
	}
	slotAlign := uint32(alignBytes / 8)
	rem := offset % slotAlign
	if rem == 0 {
		return offset
	}
	return offset + (slotAlign - rem)
}

// PushFrame reserves a new frame of the given length on top of the current
// node, growing that node (see growCurrentNode) if there isn't room.
// alignBytes is the strictest alignment requirement of any value the
// new frame will hold; any padding needed is charged against the
// previous frame's length.
func (s *Stack) PushFrame(length uint32, functionIndex uint32, retValueDst uint32, alignBytes uint64) *Frame {
	node := s.Nodes[s.CurrentNode]
	base := node.NextBaseOffset

	aligned := requiredBaseOffsetForByteAlignment(base, alignBytes)
	padding := aligned - base
	if padding > 0 && len(s.Frames) > 0 {
		s.Frames[len(s.Frames)-1].FrameLength += padding
	}

	total := aligned + oldFrameInfoReservedSlots + length
	if int(total) > len(node.Values) {
		s.growCurrentNode(int(total))
		node = s.Nodes[s.CurrentNode]
	}

	frame := Frame{
		BasePointerOffset: aligned + oldFrameInfoReservedSlots,
		FrameLength:       length,
		FunctionIndex:     functionIndex,
		RetValueDst:       retValueDst,
	}
	node.NextBaseOffset = frame.BasePointerOffset + length
	s.Frames = append(s.Frames, frame)
	return &s.Frames[len(s.Frames)-1]
}

// PushScriptFunctionArg stages one call argument into the *next* (not yet
// pushed) frame's slot layout (§4.3): value is the argument's raw payload,
// desc its type (nil for an untyped/placeholder slot), offset its slot
// index within that future frame, and frameLen/frameAlign describe the
// callee frame PushFrame will reserve immediately afterwards. Staging
// computes the same aligned base PushFrame itself will compute from the
// current node's cursor, so the two calls agree on where the frame lands;
// it grows the node first if the full frame wouldn't fit. Returns the next
// offset the following argument should pass.
func (s *Stack) PushScriptFunctionArg(value uint64, desc *types.Descriptor, offset uint32, frameLen uint32, frameAlign uint64) uint32 {
	node := s.Nodes[s.CurrentNode]
	aligned := requiredBaseOffsetForByteAlignment(node.NextBaseOffset, frameAlign)
	base := aligned + oldFrameInfoReservedSlots

	required := int(base) + int(frameLen)
	if required > len(node.Values) {
		s.growCurrentNode(required)
		node = s.Nodes[s.CurrentNode]
	}

	slot := base + offset
	node.Values[slot] = value
	state := SlotBorrowed
	if desc != nil {
		state = SlotOwned
	}
	node.Types[slot] = TypeSlot{State: state, Desc: desc}
	return offset + 1
}

// growCurrentNode replaces the current node with a copy sized to the next
// power of two of required (at least MinSlots), carrying over its values,
// types and cursor. The old node is dropped; no second node is kept
// alongside it.
func (s *Stack) growCurrentNode(required int) {
	node := s.Nodes[s.CurrentNode]
	newSize := numeric.Max(numeric.NextPowerOfTwo(required), MinSlots)
	grown := newNode(newSize)
	copy(grown.Values, node.Values)
	copy(grown.Types, node.Types)
	grown.NextBaseOffset = node.NextBaseOffset
	s.Nodes[s.CurrentNode] = grown
}

// PopFrame discards the topmost frame, restoring the stack's write cursor
// to just before it. Popping the last remaining frame has no previous
// frame to restore to, so the cursor floors at oldFrameInfoReservedSlots —
// the reserved-slot minimum every frame's base sits above (§8: popping the
// root frame leaves nextBaseOffset at 2, not 0).
func (s *Stack) PopFrame() {
	if len(s.Frames) == 0 {
		return
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames = s.Frames[:len(s.Frames)-1]
	node := s.Nodes[s.CurrentNode]
	if len(s.Frames) == 0 {
		node.NextBaseOffset = oldFrameInfoReservedSlots
		return
	}
	node.NextBaseOffset = f.BasePointerOffset - oldFrameInfoReservedSlots
}

func (s *Stack) CurrentFrame() *Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// slotIndex resolves a frame-relative slot index to an absolute index into
// the current node's Values/Types arrays.
func (f *Frame) slotIndex(rel uint32) uint32 {
	return f.BasePointerOffset + rel
}

func (s *Stack) ValueAt(rel uint32) uint64 {
	f := s.CurrentFrame()
	return s.Nodes[s.CurrentNode].Values[f.slotIndex(rel)]
}

func (s *Stack) SetValueAt(rel uint32, v uint64) {
	f := s.CurrentFrame()
	s.Nodes[s.CurrentNode].Values[f.slotIndex(rel)] = v
}

func (s *Stack) TypeAt(rel uint32) TypeSlot {
	f := s.CurrentFrame()
	return s.Nodes[s.CurrentNode].Types[f.slotIndex(rel)]
}

func (s *Stack) SetTypeAt(rel uint32, desc *types.Descriptor, owned bool) {
	f := s.CurrentFrame()
	state := SlotBorrowed
	if owned {
		state = SlotOwned
	}
	s.Nodes[s.CurrentNode].Types[f.slotIndex(rel)] = TypeSlot{State: state, Desc: desc}
}

func (s *Stack) SetNullTypeAt(rel uint32) {
	f := s.CurrentFrame()
	s.Nodes[s.CurrentNode].Types[f.slotIndex(rel)] = TypeSlot{State: SlotEmpty}
}

// FrameGuard pops its frame when Release is called, RAII-style via a
// caller-side `defer guard.Release()` (§9).
type FrameGuard struct {
	stack *Stack
}

func (s *Stack) PushFrameGuarded(length uint32, functionIndex uint32, retValueDst uint32, alignBytes uint64) (*Frame, FrameGuard) {
	f := s.PushFrame(length, functionIndex, retValueDst, alignBytes)
	return f, FrameGuard{stack: s}
}

func (g FrameGuard) Release() {
	g.stack.PopFrame()
}
