// Package interp implements the bytecode compiler (FunctionBuilder) and
// the dispatch loop that executes compiled functions against a stack.Stack
// (§4.3, §4.4, §4.5).
package interp

import (
	"math"
	"unicode/utf8"

	"github.com/xyproto/synclang/ast"
	"github.com/xyproto/synclang/bytecode"
	"github.com/xyproto/synclang/cerr"
	"github.com/xyproto/synclang/token"
	"github.com/xyproto/synclang/types"
)

// FunctionBuilder compiles one ast.FunctionDefinition into a flat bytecode
// buffer, allocating a stack slot per intermediate expression result the
// way the source's getOrMakeDstVarIndex scheme does.
type FunctionBuilder struct {
	code      []bytecode.Word
	nextSlot  uint32
	paramSlot map[string]uint32
}

// NewFunctionBuilder seeds slot allocation with fn's parameters, which
// already occupy the first len(fn.Params) slots per the parser's
// assignment.
func NewFunctionBuilder(fn *ast.FunctionDefinition) *FunctionBuilder {
	b := &FunctionBuilder{paramSlot: make(map[string]uint32)}
	for _, p := range fn.Params {
		b.paramSlot[p.Name] = p.SlotIndex
		if p.SlotIndex+1 > b.nextSlot {
			b.nextSlot = p.SlotIndex + 1
		}
	}
	return b
}

func (b *FunctionBuilder) allocSlot() uint32 {
	s := b.nextSlot
	b.nextSlot++
	return s
}

func (b *FunctionBuilder) emit(w bytecode.Word) {
	b.code = append(b.code, w)
}

// Build compiles fn's body into bytecode and returns the finished
// types.ScriptImpl (RequiredSlots set to the high-water mark of slots
// used).
func (b *FunctionBuilder) Build(fn *ast.FunctionDefinition) (*types.ScriptImpl, *cerr.CompileError) {
	for _, stmt := range fn.Body {
		if err := b.buildStatement(stmt); err != nil {
			return nil, err
		}
	}
	// A function whose body doesn't end in an explicit return falls off
	// the end; emit an implicit bare return.
	if len(fn.Body) == 0 || fn.Body[len(fn.Body)-1].Kind != ast.NodeReturn {
		b.emit(bytecode.NewReturn())
	}
	return &types.ScriptImpl{
		RequiredSlots: b.nextSlot,
		Bytecode:      wordsToUint64(b.code),
	}, nil
}

// decodeCharLiteral turns the text between a CharLiteral token's quotes
// into a single rune, resolving the one escape sequence a char body may
// contain. More than one decoded rune is KindTooManyCharsInCharLiteral
// (§9 Open Question #2: the scanner only records extent, the evaluator
// raises this); an unrecognized backslash escape is KindInvalidEscapeSequence.
func decodeCharLiteral(text string) (rune, *cerr.CompileError) {
	if text == "" {
		return 0, cerr.New(cerr.KindInvalidCharNumberLiteral, 0)
	}
	if text[0] == '\\' {
		if len(text) < 2 {
			return 0, cerr.New(cerr.KindInvalidEscapeSequence, 0)
		}
		var r rune
		switch text[1] {
		case 'n':
			r = '\n'
		case 't':
			r = '\t'
		case 'r':
			r = '\r'
		case '0':
			r = 0
		case '\\':
			r = '\\'
		case '\'':
			r = '\''
		default:
			return 0, cerr.New(cerr.KindInvalidEscapeSequence, 0)
		}
		if len(text) > 2 {
			return 0, cerr.New(cerr.KindTooManyCharsInCharLiteral, 0)
		}
		return r, nil
	}
	if utf8.RuneCountInString(text) > 1 {
		return 0, cerr.New(cerr.KindTooManyCharsInCharLiteral, 0)
	}
	r, _ := utf8.DecodeRuneInString(text)
	return r, nil
}

func wordsToUint64(ws []bytecode.Word) []uint64 {
	out := make([]uint64, len(ws))
	for i, w := range ws {
		out[i] = uint64(w)
	}
	return out
}

func (b *FunctionBuilder) buildStatement(stmt ast.Statement) *cerr.CompileError {
	switch stmt.Kind {
	case ast.NodeReturn:
		return b.buildReturn(stmt.Return)
	default:
		return cerr.New(cerr.KindInvalidStatement, 0)
	}
}

func (b *FunctionBuilder) buildReturn(ret *ast.ReturnNode) *cerr.CompileError {
	if ret.Value == nil {
		b.emit(bytecode.NewReturn())
		return nil
	}
	dst, err := b.buildExpression(ret.Value)
	if err != nil {
		return err
	}
	b.emit(bytecode.NewReturnValue(dst))
	return nil
}

// buildExpression compiles expr, returning the stack slot holding its
// result.
func (b *FunctionBuilder) buildExpression(expr *ast.Expression) (uint32, *cerr.CompileError) {
	switch expr.Kind {
	case ast.ExprBoolLit:
		dst := b.allocSlot()
		var v uint64
		if expr.BoolValue {
			v = 1
		}
		b.emit(bytecode.NewLoadImmediateScalar(dst, bytecode.ScalarBool))
		b.emit(bytecode.Word(v))
		b.emit(bytecode.NewSetType(dst, uint32(types.TagBool)))
		return dst, nil

	case ast.ExprNumLit:
		lit, litErr := token.CreateNumberLiteral(expr.NumberText)
		if litErr != nil {
			return 0, litErr
		}
		dst := b.allocSlot()
		switch lit.Kind {
		case token.Float64Kind:
			b.emit(bytecode.NewLoadImmediateScalar(dst, bytecode.ScalarF64))
			b.emit(bytecode.Word(math.Float64bits(lit.Float)))
			b.emit(bytecode.NewSetType(dst, uint32(types.TagFloat)))
		case token.Signed64:
			b.emit(bytecode.NewLoadImmediateScalar(dst, bytecode.ScalarI64))
			b.emit(bytecode.Word(uint64(lit.Signed)))
			b.emit(bytecode.NewSetType(dst, uint32(types.TagInt)))
		default:
			// A plain positive literal ("0", "42", ...) that fits in an
			// int64 compiles to the I64 scalar tag, not U64 — matching the
			// compiler's own default integer type for an untyped literal.
			// Only a literal too large for int64 actually needs the
			// unsigned tag.
			if lit.Unsigned <= math.MaxInt64 {
				b.emit(bytecode.NewLoadImmediateScalar(dst, bytecode.ScalarI64))
			} else {
				b.emit(bytecode.NewLoadImmediateScalar(dst, bytecode.ScalarU64))
			}
			b.emit(bytecode.Word(lit.Unsigned))
			b.emit(bytecode.NewSetType(dst, uint32(types.TagInt)))
		}
		return dst, nil

	case ast.ExprCharLit:
		r, litErr := decodeCharLiteral(expr.CharText)
		if litErr != nil {
			return 0, litErr
		}
		dst := b.allocSlot()
		b.emit(bytecode.NewLoadImmediateScalar(dst, bytecode.ScalarI64))
		b.emit(bytecode.Word(uint64(r)))
		b.emit(bytecode.NewSetType(dst, uint32(types.TagInt)))
		return dst, nil

	case ast.ExprNull:
		dst := b.allocSlot()
		b.emit(bytecode.NewLoadDefault(dst))
		b.emit(bytecode.NewSetNullType(dst))
		return dst, nil

	case ast.ExprVariable:
		if slot, ok := b.paramSlot[expr.VariableName]; ok {
			return slot, nil
		}
		return 0, cerr.New(cerr.KindUnknownType, 0)

	case ast.ExprDeref, ast.ExprMakeRef:
		// Reference expressions compile their inner operand and pass the
		// slot through; the interpreter's runtime object model (syncobj)
		// is what gives Deref/MakeRef their actual semantics, not the
		// compiler — see syncobj package.
		return b.buildExpression(expr.Inner)

	default:
		return 0, cerr.New(cerr.KindInvalidExpression, 0)
	}
}
