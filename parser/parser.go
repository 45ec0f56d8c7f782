// Package parser turns a token stream into a FileAst (§4.2): parseFile
// iterates top-level declarations, parseStatement handles one statement
// within a function body, and Expression parsing handles the (currently
// small) expression grammar the spec defines.
package parser

import (
	"github.com/xyproto/synclang/ast"
	"github.com/xyproto/synclang/cerr"
	"github.com/xyproto/synclang/ptype"
	"github.com/xyproto/synclang/token"
)

// Info carries the parser's working state through a single file's parse
// (§4.2 ParseInfo): the token cursor plus a running counter for synthetic
// destination-variable names the way the source's getOrMakeDstVarIndex
// does.
type Info struct {
	Iter        *token.Iter
	nextDstVar  uint32
	nextSlot    uint32
}

func NewInfo(it *token.Iter) *Info {
	return &Info{Iter: it}
}

func (p *Info) nextDst() uint32 {
	idx := p.nextDstVar
	p.nextDstVar++
	return idx
}

// ParseFile parses an entire source file into a FileAst (§4.2 parseFile):
// iterate tokens at file scope, dispatching FnKeyword to function
// definitions and StructKeyword/EnumKeyword/TraitKeyword to type
// definitions, until EndOfFile.
func ParseFile(p *Info) (*ast.FileAst, *cerr.CompileError) {
	file := &ast.FileAst{}
	for {
		switch p.Iter.Current().Tag() {
		case token.EndOfFile:
			return file, nil
		case token.FnKeyword:
			fn, err := parseFunctionDefinition(p)
			if err != nil {
				return nil, err
			}
			file.Functions = append(file.Functions, fn)
		case token.StructKeyword:
			td, err := parseTypeDef(p, ast.TypeDefStruct)
			if err != nil {
				return nil, err
			}
			file.TypeDefs = append(file.TypeDefs, td)
		case token.EnumKeyword:
			td, err := parseTypeDef(p, ast.TypeDefEnum)
			if err != nil {
				return nil, err
			}
			file.TypeDefs = append(file.TypeDefs, td)
		case token.TraitKeyword:
			td, err := parseTypeDef(p, ast.TypeDefTrait)
			if err != nil {
				return nil, err
			}
			file.TypeDefs = append(file.TypeDefs, td)
		case token.PubKeyword:
			// `pub` prefixes the next declaration: `pub fn` is handed to
			// parseFunctionDefinition, which consumes `pub` itself and
			// marks the function public; before struct/enum/trait the
			// `pub` is consumed and the declaration re-dispatched.
			if p.Iter.Peek().Tag() == token.FnKeyword {
				fn, err := parseFunctionDefinition(p)
				if err != nil {
					return nil, err
				}
				file.Functions = append(file.Functions, fn)
				continue
			}
			p.Iter.Next()
			continue
		default:
			return nil, cerr.New(cerr.KindCompileSymbol, p.Iter.Current().Location())
		}
	}
}

func parseTypeDef(p *Info, kind ast.TypeDefKind) (*ast.TypeDefNode, *cerr.CompileError) {
	p.Iter.Next() // consume struct/enum/trait keyword
	if p.Iter.Current().Tag() != token.Identifier {
		return nil, cerr.New(cerr.KindInvalidStatement, p.Iter.Current().Location())
	}
	name := string(p.Iter.CurrentText())
	p.Iter.Next()
	// Member-level parsing of struct/enum/trait bodies is out of scope for
	// this front end (see DESIGN.md); skip a balanced brace body if present.
	if p.Iter.Current().Tag() == token.LeftBraceSymbol {
		depth := 0
		for {
			tag := p.Iter.Current().Tag()
			if tag == token.LeftBraceSymbol {
				depth++
			} else if tag == token.RightBraceSymbol {
				depth--
				if depth == 0 {
					p.Iter.Next()
					break
				}
			} else if tag == token.EndOfFile {
				return nil, cerr.New(cerr.KindInvalidStatement, p.Iter.Current().Location())
			}
			p.Iter.Next()
		}
	}
	return &ast.TypeDefNode{Name: name, Kind: kind}, nil
}

// parseFunctionDefinition parses `[pub] fn name(params) [: ReturnType] { body }`.
func parseFunctionDefinition(p *Info) (*ast.FunctionDefinition, *cerr.CompileError) {
	public := false
	if p.Iter.Current().Tag() == token.PubKeyword {
		public = true
		p.Iter.Next()
	}
	if p.Iter.Current().Tag() != token.FnKeyword {
		return nil, cerr.New(cerr.KindInvalidFunctionSignature, p.Iter.Current().Location())
	}
	p.Iter.Next()

	if p.Iter.Current().Tag() != token.Identifier {
		return nil, cerr.New(cerr.KindInvalidFunctionSignature, p.Iter.Current().Location())
	}
	name := string(p.Iter.CurrentText())
	p.Iter.Next()

	if p.Iter.Current().Tag() != token.LeftParenthesesSymbol {
		return nil, cerr.New(cerr.KindInvalidFunctionSignature, p.Iter.Current().Location())
	}
	p.Iter.Next()

	scope := &ast.Scope{}
	var params []ast.StackVariable
	for p.Iter.Current().Tag() != token.RightParenthesesSymbol {
		mut := false
		if p.Iter.Current().Tag() == token.MutKeyword {
			mut = true
			p.Iter.Next()
		}
		if p.Iter.Current().Tag() != token.Identifier {
			return nil, cerr.New(cerr.KindInvalidFunctionSignature, p.Iter.Current().Location())
		}
		pname := string(p.Iter.CurrentText())
		p.Iter.Next()
		if p.Iter.Current().Tag() != token.ColonSymbol {
			return nil, cerr.New(cerr.KindInvalidFunctionSignature, p.Iter.Current().Location())
		}
		p.Iter.Next()
		ptyp, err := ptype.Parse(p.Iter)
		if err != nil {
			return nil, err
		}
		slot := p.nextSlot
		p.nextSlot++
		scope.Declare(pname, ptyp, slot, mut)
		params = append(params, ast.StackVariable{Name: pname, Type: ptyp, SlotIndex: slot, Mutable: mut})

		if p.Iter.Current().Tag() == token.CommaSymbol {
			p.Iter.Next()
			continue
		}
		break
	}
	if p.Iter.Current().Tag() != token.RightParenthesesSymbol {
		return nil, cerr.New(cerr.KindInvalidFunctionSignature, p.Iter.Current().Location())
	}
	p.Iter.Next()

	var retType *ptype.Tree
	if p.Iter.Current().Tag() == token.ColonSymbol {
		p.Iter.Next()
		rt, err := ptype.Parse(p.Iter)
		if err != nil {
			return nil, err
		}
		retType = rt
	}

	if p.Iter.Current().Tag() != token.LeftBraceSymbol {
		return nil, cerr.New(cerr.KindInvalidFunctionSignature, p.Iter.Current().Location())
	}
	p.Iter.Next()

	var body []ast.Statement
	for p.Iter.Current().Tag() != token.RightBraceSymbol {
		if p.Iter.Current().Tag() == token.EndOfFile {
			return nil, cerr.New(cerr.KindInvalidFunctionStatement, p.Iter.Current().Location())
		}
		stmt, err := ParseStatement(p)
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			break // RightBraceSymbol reached inside parseStatement
		}
		body = append(body, *stmt)
	}
	if p.Iter.Current().Tag() == token.RightBraceSymbol {
		p.Iter.Next()
	}

	return &ast.FunctionDefinition{
		Name: name, Params: params, ReturnType: retType,
		Body: body, Scope: scope, Public: public,
	}, nil
}

// ParseStatement parses one statement within a function body (§4.2
// parseStatement): a return statement, or — at a closing brace — a nil
// statement signaling the caller to stop. Anything else is
// KindInvalidFunctionStatement, since general statement parsing beyond
// `return` is not yet part of this front end's grammar (mirrors the
// source, which likewise only recognizes ReturnKeyword and RightBraceSymbol
// at this layer).
func ParseStatement(p *Info) (*ast.Statement, *cerr.CompileError) {
	switch p.Iter.Current().Tag() {
	case token.RightBraceSymbol:
		return nil, nil
	case token.ReturnKeyword:
		ret, err := parseReturn(p)
		if err != nil {
			return nil, err
		}
		return &ast.Statement{Kind: ast.NodeReturn, Return: ret}, nil
	default:
		return nil, cerr.New(cerr.KindInvalidFunctionStatement, p.Iter.Current().Location())
	}
}

// parseReturn parses `return;` or `return <expr>;` (§4.2 ast/return.cpp,
// resolved per DESIGN.md Open Question #1: the trailing `;` is required).
func parseReturn(p *Info) (*ast.ReturnNode, *cerr.CompileError) {
	p.Iter.Next() // consume 'return'

	if p.Iter.Current().Tag() == token.SemicolonSymbol {
		p.Iter.Next()
		return &ast.ReturnNode{}, nil
	}

	expr, err := ParseExpression(p)
	if err != nil {
		return nil, err
	}
	if p.Iter.Current().Tag() != token.SemicolonSymbol {
		return nil, cerr.New(cerr.KindInvalidFunctionStatement, p.Iter.Current().Location())
	}
	p.Iter.Next()
	return &ast.ReturnNode{Value: expr}, nil
}

// ParseExpression parses one expression (§4.2 Expression::parse). The
// grammar currently recognizes boolean, number and char literals, `null`,
// variable names, `&`/`&mut` references and `*` dereferences; anything else
// is KindInvalidExpression.
func ParseExpression(p *Info) (*ast.Expression, *cerr.CompileError) {
	switch p.Iter.Current().Tag() {
	case token.TrueKeyword:
		p.Iter.Next()
		return &ast.Expression{Kind: ast.ExprBoolLit, BoolValue: true, DstVarIndex: p.nextDst()}, nil
	case token.FalseKeyword:
		p.Iter.Next()
		return &ast.Expression{Kind: ast.ExprBoolLit, BoolValue: false, DstVarIndex: p.nextDst()}, nil
	case token.NullKeyword:
		p.Iter.Next()
		return &ast.Expression{Kind: ast.ExprNull, DstVarIndex: p.nextDst()}, nil
	case token.NumberLiteral:
		text := string(p.Iter.CurrentText())
		p.Iter.Next()
		return &ast.Expression{Kind: ast.ExprNumLit, NumberText: text, DstVarIndex: p.nextDst()}, nil
	case token.CharLiteral:
		text := p.Iter.CurrentText()
		loc := p.Iter.Current().Location()
		p.Iter.Next()
		if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
			return nil, cerr.New(cerr.KindInvalidCharNumberLiteral, loc)
		}
		return &ast.Expression{Kind: ast.ExprCharLit, CharText: string(text[1 : len(text)-1]), DstVarIndex: p.nextDst()}, nil
	case token.Identifier:
		name := string(p.Iter.CurrentText())
		p.Iter.Next()
		return &ast.Expression{Kind: ast.ExprVariable, VariableName: name, DstVarIndex: p.nextDst()}, nil
	case token.AmpersandSymbol, token.MutableReferenceSymbol:
		p.Iter.Next()
		inner, err := ParseExpression(p)
		if err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprMakeRef, Inner: inner, DstVarIndex: p.nextDst()}, nil
	case token.AsteriskSymbol:
		p.Iter.Next()
		inner, err := ParseExpression(p)
		if err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprDeref, Inner: inner, DstVarIndex: p.nextDst()}, nil
	default:
		return nil, cerr.New(cerr.KindInvalidExpression, p.Iter.Current().Location())
	}
}
