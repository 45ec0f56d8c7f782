package ptype

import (
	"strconv"

	"github.com/xyproto/synclang/cerr"
	"github.com/xyproto/synclang/token"
)

// state names the four states of the parsed-type state machine (§4.2):
// collecting a prefix (pointer/slice/sync-wrapper/optional) still leaves
// open whether a named type or another prefix follows; once a named type
// or a "closed" form (tuple, array literal) is consumed the machine either
// continues into postfix processing, is done, or — for bare generic
// argument lists — only a name is permitted next.
type state int

const (
	collectPrefixOrGetNamed state = iota
	collectPostfix
	doneParse
	getNamedOnly
)

// Parse consumes a single parsed-type expression from it, starting at the
// current token, and returns the resulting Tree.
func Parse(it *token.Iter) (*Tree, *cerr.CompileError) {
	t := &Tree{}
	root, err := parseOne(t, it, 0)
	if err != nil {
		return nil, err
	}
	t.Root = root
	return t, nil
}

func parseOne(t *Tree, it *token.Iter, depth int) (int, *cerr.CompileError) {
	if depth > MaxGenericDepth {
		return -1, newErr(cerr.KindInvalidExpression)
	}

	st := collectPrefixOrGetNamed
	for {
		switch st {
		case collectPrefixOrGetNamed:
			switch it.Current().Tag() {
			case token.OptionalSymbol:
				it.Next()
				child, err := parseOne(t, it, depth+1)
				if err != nil {
					return -1, err
				}
				idx := t.add(Node{Tag: Nullable, Of: child})
				return parsePostfix(t, it, idx, depth)
			case token.AsteriskSymbol, token.MultiplyOperator:
				it.Next()
				lifetime := parseOptionalLifetime(it)
				mut := false
				if it.Current().Tag() == token.MutKeyword {
					mut = true
					it.Next()
				}
				child, err := parseOne(t, it, depth+1)
				if err != nil {
					return -1, err
				}
				idx := t.add(Node{Tag: Pointer, Of: child, Mut: mut, Lifetime: lifetime})
				return parsePostfix(t, it, idx, depth)
			case token.LeftBracketSymbol:
				return parseBracketed(t, it, depth)
			case token.DynKeyword:
				it.Next()
				lifetime := parseOptionalLifetime(it)
				child, err := parseOne(t, it, depth+1)
				if err != nil {
					return -1, err
				}
				idx := t.add(Node{Tag: Dyn, Of: child, Lifetime: lifetime})
				return parsePostfix(t, it, idx, depth)
			case token.UniqueKeyword:
				return parseSyncWrapper(t, it, depth, Unique)
			case token.SharedKeyword:
				return parseSyncWrapper(t, it, depth, Shared)
			case token.WeakKeyword:
				return parseSyncWrapper(t, it, depth, Weak)
			case token.LeftParenthesesSymbol:
				return parseTuple(t, it, depth)
			case token.NumberLiteral:
				return parseIntLiteral(t, it)
			default:
				st = getNamedOnly
			}
		case getNamedOnly:
			if !isNamedTypeToken(it.Current().Tag()) {
				return -1, newErr(cerr.KindUnknownType)
			}
			name := string(it.CurrentText())
			it.Next()
			idx := t.add(Node{Tag: Named, Of: -1, Name: name})
			if it.Current().Tag() == token.LeftParenthesesSymbol {
				elems, err := parseGenericArgs(t, it, depth)
				if err != nil {
					return -1, err
				}
				t.Nodes[idx].Elems = elems
			}
			return parsePostfix(t, it, idx, depth)
		case collectPostfix, doneParse:
			return -1, newErr(cerr.KindInvalidExpression)
		}
	}
}

// parseSyncWrapper handles Unique/Shared/Weak(T) — the sync reference
// wrapper forms, always followed by a parenthesized inner type.
func parseSyncWrapper(t *Tree, it *token.Iter, depth int, tag Tag) (int, *cerr.CompileError) {
	it.Next()
	if it.Current().Tag() != token.LeftParenthesesSymbol {
		return -1, newErr(cerr.KindUnknownType)
	}
	it.Next()
	child, err := parseOne(t, it, depth+1)
	if err != nil {
		return -1, err
	}
	if it.Current().Tag() != token.RightParenthesesSymbol {
		return -1, newErr(cerr.KindUnknownType)
	}
	it.Next()
	idx := t.add(Node{Tag: tag, Of: child})
	return parsePostfix(t, it, idx, depth)
}

// parseBracketed handles "[]T" (Slice) and "[N]T" (StaticArray).
func parseBracketed(t *Tree, it *token.Iter, depth int) (int, *cerr.CompileError) {
	it.Next() // consume '['

	if it.Current().Tag() == token.RightBracketSymbol {
		it.Next()
		lifetime := parseOptionalLifetime(it)
		mut := false
		if it.Current().Tag() == token.MutKeyword {
			mut = true
			it.Next()
		}
		child, err := parseOne(t, it, depth+1)
		if err != nil {
			return -1, err
		}
		idx := t.add(Node{Tag: Slice, Of: child, Mut: mut, Lifetime: lifetime})
		return parsePostfix(t, it, idx, depth)
	}

	if it.Current().Tag() != token.NumberLiteral {
		return -1, newErr(cerr.KindUnknownType)
	}
	lenLit, litErr := token.CreateNumberLiteral(string(it.CurrentText()))
	if litErr != nil {
		return -1, litErr
	}
	length, convErr := lenLit.AsUnsigned64()
	if convErr != nil {
		return -1, convErr
	}
	it.Next()
	if it.Current().Tag() != token.RightBracketSymbol {
		return -1, newErr(cerr.KindUnknownType)
	}
	it.Next()
	child, err := parseOne(t, it, depth+1)
	if err != nil {
		return -1, err
	}
	idx := t.add(Node{Tag: StaticArray, Of: child, Length: length})
	return parsePostfix(t, it, idx, depth)
}

// parseTuple handles "(T, U, ...)". A bare integer literal is not a valid
// tuple element (§4.2 edge case: integer literal inside a tuple is a
// compile error — IntLiteral only stands alone as an array length, never
// as a tuple member).
func parseTuple(t *Tree, it *token.Iter, depth int) (int, *cerr.CompileError) {
	it.Next() // consume '('
	var elems []int
	for it.Current().Tag() != token.RightParenthesesSymbol {
		if it.Current().Tag() == token.NumberLiteral {
			return -1, newErr(cerr.KindInvalidExpression)
		}
		child, err := parseOne(t, it, depth+1)
		if err != nil {
			return -1, err
		}
		elems = append(elems, child)
		if it.Current().Tag() == token.CommaSymbol {
			it.Next()
			continue
		}
		break
	}
	if it.Current().Tag() != token.RightParenthesesSymbol {
		return -1, newErr(cerr.KindInvalidExpression)
	}
	it.Next()
	idx := t.add(Node{Tag: Tuple, Of: -1, Elems: elems})
	return parsePostfix(t, it, idx, depth)
}

func parseIntLiteral(t *Tree, it *token.Iter) (int, *cerr.CompileError) {
	text := string(it.CurrentText())
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return -1, newErr(cerr.KindInvalidDecimalNumberLiteral)
	}
	it.Next()
	return t.add(Node{Tag: IntLiteral, Of: -1, Lit: n}), nil
}

// isNamedTypeToken reports whether tag can seal a parsed-type tree as a
// Named node: a plain identifier or one of the primitive type tags the
// tokenizer classifies via its keyword table (§4.2: "the named type
// (identifier or primitive) seals the tree").
func isNamedTypeToken(tag token.Tag) bool {
	switch tag {
	case token.Identifier,
		token.BoolPrimitive, token.I8Primitive, token.I16Primitive, token.I32Primitive, token.I64Primitive,
		token.U8Primitive, token.U16Primitive, token.U32Primitive, token.U64Primitive, token.USizePrimitive,
		token.F32Primitive, token.F64Primitive, token.CharPrimitive, token.StrPrimitive, token.StringPrimitive,
		token.TypePrimitive:
		return true
	default:
		return false
	}
}

// parseOptionalLifetime consumes a leading ConcreteLifetime token if
// present, returning its name with the opening quote stripped ("'a" → "a").
// Used right after a prefix token that can carry an inline lifetime
// (*'a, []'a, dyn'a — §4.2).
func parseOptionalLifetime(it *token.Iter) string {
	if it.Current().Tag() != token.ConcreteLifetime {
		return ""
	}
	name := string(it.CurrentText()[1:])
	it.Next()
	return name
}

// parseGenericArgs parses "(arg, arg, ...)" immediately following a Named
// type (§4.2 "generic-arguments mode"). Unlike parseTuple, a bare integer
// literal is a valid argument here (a const-generic placeholder, e.g. the
// "3" in Vec(3, f32)). Nesting depth is bounded the same way prefix chains
// are — each argument recurses through parseOne with depth+1, so the
// MaxGenericDepth check at the top of parseOne rejects runaway nesting.
func parseGenericArgs(t *Tree, it *token.Iter, depth int) ([]int, *cerr.CompileError) {
	it.Next() // consume '('
	var elems []int
	for it.Current().Tag() != token.RightParenthesesSymbol {
		child, err := parseOne(t, it, depth+1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, child)
		if it.Current().Tag() == token.CommaSymbol {
			it.Next()
			continue
		}
		break
	}
	if it.Current().Tag() != token.RightParenthesesSymbol {
		return nil, newErr(cerr.KindInvalidExpression)
	}
	it.Next()
	return elems, nil
}

// parsePostfix handles the postfix forms that may follow any sealed node:
// zero or more "@'lifetime" annotations retarget the most-recently-added
// node's Lifetime field (§4.2: "`@'lifetime` annotates the
// most-recently-added node"), then a trailing "!T" error union is handled
// by parseErrorUnionSuffix.
func parsePostfix(t *Tree, it *token.Iter, idx int, depth int) (int, *cerr.CompileError) {
	for it.Current().Tag() == token.LifetimePointer {
		it.Next()
		if it.Current().Tag() != token.ConcreteLifetime {
			return -1, newErr(cerr.KindUnknownType)
		}
		t.Nodes[idx].Lifetime = string(it.CurrentText()[1:])
		it.Next()
	}
	return parseErrorUnionSuffix(t, it, idx, depth)
}

// parseErrorUnionSuffix handles a trailing "!T" error-union suffix after a
// named/wrapped/bracketed type has been parsed. Repeated error unions
// ("T!U!V") are rejected (§4.2 edge case: error unions may not nest).
func parseErrorUnionSuffix(t *Tree, it *token.Iter, okBranch int, depth int) (int, *cerr.CompileError) {
	if it.Current().Tag() != token.ExclamationSymbol {
		return okBranch, nil
	}
	it.Next()
	if it.Current().Tag() == token.NumberLiteral {
		return -1, newErr(cerr.KindInvalidExpression)
	}
	errBranch, err := parseOne(t, it, depth+1)
	if err != nil {
		return -1, err
	}
	if t.Nodes[errBranch].Tag == ErrorUnion || it.Current().Tag() == token.ExclamationSymbol {
		return -1, newErr(cerr.KindInvalidExpression)
	}
	return t.add(Node{Tag: ErrorUnion, Of: -1, Elems: []int{okBranch, errBranch}}), nil
}
