package interp

import (
	"encoding/binary"
	"math"

	"github.com/xyproto/synclang/bytecode"
	"github.com/xyproto/synclang/cerr"
	"github.com/xyproto/synclang/stack"
	"github.com/xyproto/synclang/types"
)

// Value is the interpreter's boxed result of running a function: the raw
// 64-bit payload plus which types.Tag it should be read as. A function
// that returns nothing yields a Value with HasValue false.
type Value struct {
	HasValue bool
	Tag      types.Tag
	Bits     uint64
}

func (v Value) AsBool() bool       { return v.Bits != 0 }
func (v Value) AsInt64() int64     { return int64(v.Bits) }
func (v Value) AsUint64() uint64   { return v.Bits }
func (v Value) AsFloat64() float64 { return math.Float64frombits(v.Bits) }

// MaxCallDepth bounds recursive/call nesting before the interpreter raises
// a stack-overflow runtime error (§7 RuntimeStackOverflow).
const MaxCallDepth = 4096

// CallStack tracks the interpreter's current nesting depth, independent of
// stack.Stack's own frame slots — it exists purely to cheaply check the
// depth limit without walking stack.Stack.Frames on every call.
type CallStack struct {
	depth int
}

func (c *CallStack) Push() cerr.ProgramRuntimeError {
	if c.depth >= MaxCallDepth {
		return cerr.RuntimeErr(cerr.RuntimeStackOverflow)
	}
	c.depth++
	return cerr.Ok
}

func (c *CallStack) Pop() {
	if c.depth > 0 {
		c.depth--
	}
}

// Interpreter executes compiled bytecode against a stack.Stack. Program, if
// set, resolves the function-index operand of CallImmediateNoReturn/
// CallImmediateWithReturn (and the stack-value operand of CallSrcNoReturn/
// CallSrcWithReturn); an Interpreter with no Program can still run bytecode
// that never calls another function.
type Interpreter struct {
	Stack   *stack.Stack
	Calls   CallStack
	Program *types.Program
}

func New() *Interpreter {
	return &Interpreter{Stack: stack.New()}
}

// NewWithProgram is New, additionally wiring prog's function table so call
// opcodes can resolve their callee.
func NewWithProgram(prog *types.Program) *Interpreter {
	return &Interpreter{Stack: stack.New(), Program: prog}
}

// Run executes impl's bytecode in a freshly pushed frame and returns its
// result. argValues pre-populates the frame's parameter slots (already
// laid out at slots 0..len(argValues)-1 by the compiler).
func (in *Interpreter) Run(impl *types.ScriptImpl, argValues []uint64) (Value, cerr.ProgramRuntimeError) {
	if rerr := in.Calls.Push(); rerr.Kind != cerr.RuntimeNone {
		return Value{}, rerr
	}
	defer in.Calls.Pop()

	in.Stack.PushFrame(impl.RequiredSlots, 0, 0, 8)
	for i, v := range argValues {
		in.Stack.SetValueAt(uint32(i), v)
	}
	defer in.Stack.PopFrame()

	return in.exec(impl.Bytecode)
}

// resolveFunction looks up a call opcode's function-index operand against
// Program's function table.
func (in *Interpreter) resolveFunction(index uint64) *types.FunctionDescriptor {
	if in.Program == nil {
		return nil
	}
	return in.Program.FunctionAt(uint32(index))
}

// callScriptFunction implements the §4.4 calling convention for a resolved
// script function: stage every argument into the callee's not-yet-pushed
// frame via Stack.PushScriptFunctionArg, push the frame, run the callee's
// bytecode, and restore the caller's frame (via the deferred PopFrame) on
// return.
func (in *Interpreter) callScriptFunction(fd *types.FunctionDescriptor, argSrcs []uint32) (Value, cerr.ProgramRuntimeError) {
	if fd == nil || fd.Tag != types.FunctionScript || fd.Script == nil {
		return Value{}, cerr.RuntimeErr(cerr.RuntimeUnknownFunction)
	}
	if rerr := in.Calls.Push(); rerr.Kind != cerr.RuntimeNone {
		return Value{}, rerr
	}
	defer in.Calls.Pop()

	impl := fd.Script
	offset := uint32(0)
	for _, src := range argSrcs {
		v := in.Stack.ValueAt(src)
		ts := in.Stack.TypeAt(src)
		offset = in.Stack.PushScriptFunctionArg(v, ts.Desc, offset, impl.RequiredSlots, 8)
	}
	in.Stack.PushFrame(impl.RequiredSlots, 0, 0, 8)
	defer in.Stack.PopFrame()

	return in.exec(impl.Bytecode)
}

// argSrcsFrom reads argCount packed 16-bit argument-source indices starting
// at code[wordStart], the layout every call opcode's arg words share.
func argSrcsFrom(code []uint64, wordStart int, argCount uint32) []uint32 {
	words := make([]bytecode.Word, bytecode.ArgWordCount(argCount))
	for i := range words {
		words[i] = bytecode.Word(code[wordStart+i])
	}
	return bytecode.UnpackArgWords(words, argCount)
}

// storeCallResult writes a with-return call's result into retDst, if the
// callee actually returned a value (a bare `return;` leaves retDst
// untouched).
func (in *Interpreter) storeCallResult(retDst uint32, result Value) {
	if !result.HasValue {
		return
	}
	in.Stack.SetValueAt(retDst, result.Bits)
	in.Stack.SetTypeAt(retDst, descriptorForTag(result.Tag), true)
}

func (in *Interpreter) exec(code []uint64) (Value, cerr.ProgramRuntimeError) {
	pc := 0
	for pc < len(code) {
		w := bytecode.Word(code[pc])
		switch w.Op() {
		case bytecode.Noop:
			pc++

		case bytecode.Return:
			return Value{}, cerr.Ok

		case bytecode.ReturnValue:
			src := w.ReturnValueSrc()
			ts := in.Stack.TypeAt(src)
			val := in.Stack.ValueAt(src)
			tag := types.TagInt
			if ts.Desc != nil {
				tag = ts.Desc.Tag
			}
			return Value{HasValue: true, Tag: tag, Bits: val}, cerr.Ok

		case bytecode.LoadImmediateScalar:
			dst := w.LoadImmediateScalarDst()
			pc++
			imm := uint64(bytecode.Word(code[pc]))
			in.Stack.SetValueAt(dst, imm)
			pc++
			continue

		case bytecode.SetType:
			dst := w.SetTypeDst()
			tag := types.Tag(w.SetTypeTypeIndex())
			in.Stack.SetTypeAt(dst, descriptorForTag(tag), true)
			pc++

		case bytecode.SetNullType:
			in.Stack.SetNullTypeAt(w.SetNullTypeDst())
			pc++

		case bytecode.LoadDefault:
			in.Stack.SetValueAt(w.LoadDefaultDst(), 0)
			pc++

		case bytecode.MemsetUninitialized:
			dst := w.MemsetDst()
			length := w.MemsetLength()
			for i := uint32(0); i < length; i++ {
				in.Stack.SetValueAt(dst+i, 0)
			}
			pc++

		case bytecode.Destruct:
			dst := w.DestructDst()
			ts := in.Stack.TypeAt(dst)
			if ts.State == stack.SlotOwned && ts.Desc != nil && ts.Desc.Destroy != nil {
				var mem [8]byte
				binary.LittleEndian.PutUint64(mem[:], in.Stack.ValueAt(dst))
				ts.Desc.Destroy(mem[:])
			}
			in.Stack.SetNullTypeAt(dst)
			pc++

		case bytecode.Jump:
			pc = int(w.JumpTarget())

		case bytecode.JumpIfFalse:
			cond := in.Stack.ValueAt(w.JumpIfFalseCond())
			if cond == 0 {
				pc = int(w.JumpIfFalseTarget())
			} else {
				pc++
			}

		case bytecode.CallImmediateNoReturn:
			argCount := w.CallArgCount()
			functionIndex := code[pc+1]
			argSrcs := argSrcsFrom(code, pc+2, argCount)
			if _, rerr := in.callScriptFunction(in.resolveFunction(functionIndex), argSrcs); rerr.Kind != cerr.RuntimeNone {
				return Value{}, rerr
			}
			pc += 2 + int(bytecode.ArgWordCount(argCount))

		case bytecode.CallSrcNoReturn:
			src := w.CallSrcNoReturnSrc()
			argCount := w.CallSrcNoReturnArgCount()
			argSrcs := argSrcsFrom(code, pc+1, argCount)
			functionIndex := in.Stack.ValueAt(src)
			if _, rerr := in.callScriptFunction(in.resolveFunction(functionIndex), argSrcs); rerr.Kind != cerr.RuntimeNone {
				return Value{}, rerr
			}
			pc += 1 + int(bytecode.ArgWordCount(argCount))

		case bytecode.CallImmediateWithReturn:
			argCount := w.CallImmediateWithReturnArgCount()
			retDst := w.CallImmediateWithReturnRetDst()
			functionIndex := code[pc+1]
			argSrcs := argSrcsFrom(code, pc+2, argCount)
			result, rerr := in.callScriptFunction(in.resolveFunction(functionIndex), argSrcs)
			if rerr.Kind != cerr.RuntimeNone {
				return Value{}, rerr
			}
			in.storeCallResult(retDst, result)
			pc += 2 + int(bytecode.ArgWordCount(argCount))

		case bytecode.CallSrcWithReturn:
			src := w.CallSrcWithReturnSrc()
			argCount := w.CallSrcWithReturnArgCount()
			retDst := w.CallSrcWithReturnRetDst()
			argSrcs := argSrcsFrom(code, pc+1, argCount)
			functionIndex := in.Stack.ValueAt(src)
			result, rerr := in.callScriptFunction(in.resolveFunction(functionIndex), argSrcs)
			if rerr.Kind != cerr.RuntimeNone {
				return Value{}, rerr
			}
			in.storeCallResult(retDst, result)
			pc += 1 + int(bytecode.ArgWordCount(argCount))

		default:
			pc++
		}
	}
	return Value{}, cerr.Ok
}

func descriptorForTag(tag types.Tag) *types.Descriptor {
	switch tag {
	case types.TagBool:
		return types.Bool
	case types.TagFloat:
		return types.F64
	case types.TagInt:
		return types.I64
	default:
		return types.I64
	}
}
