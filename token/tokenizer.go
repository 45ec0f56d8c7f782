package token

import "github.com/xyproto/synclang/cerr"

// Tokenizer holds the scanned token stream for one source file: a packed
// Token per lexeme plus, in parallel, the byte offset one past each
// lexeme's last character (§4.1, "end" array). Most tokens never need
// their end offset looked at (single-byte symbols, keywords whose length
// is implied by the tag); it is kept alongside rather than inside Token so
// that the common path — tag plus start — stays a 4-byte packed word.
type Tokenizer struct {
	Source []byte
	Tokens []Token
	Ends   []uint32
}

// Create scans source into a complete token stream in one linear pass
// (§4.1 Tokenizer.create): over-allocate to len(source) tokens (the
// worst case is one single-byte token per source byte), scan until
// EndOfFile, then return the slice trimmed to the actual count.
func Create(source []byte) (*Tokenizer, *cerr.CompileError) {
	if len(source) > MaxSourceLen {
		return nil, cerr.NewFileTooBig(uint64(len(source)), MaxSourceLen)
	}

	tokens := make([]Token, 0, len(source)+1)
	ends := make([]uint32, 0, len(source)+1)

	var pos uint32
	for {
		start := nonWhitespaceStartFrom(source, pos)
		if start >= uint32(len(source)) {
			tokens = append(tokens, Pack(EndOfFile, start))
			ends = append(ends, start)
			break
		}

		tag, end := scanOne(source, start)
		tokens = append(tokens, Pack(tag, start))
		ends = append(ends, end)
		pos = end
	}

	return &Tokenizer{Source: source, Tokens: tokens, Ends: ends}, nil
}

// scanOne dispatches on the first byte of the token starting at start,
// mirroring Token::parseToken's switch in the source (§4.1): letters go to
// the identifier/keyword scanner, digits and a leading '-' followed by a
// digit go to the number scanner, quotes go to the string/char scanners,
// and everything else is a symbol or operator.
func scanOne(source []byte, start uint32) (Tag, uint32) {
	b := source[start]

	switch {
	case isAlpha(b):
		return scanIdentifierOrKeyword(source, start)
	case isNumeric(b):
		return scanNumberLiteral(source, start)
	case b == '-':
		if start+1 < uint32(len(source)) && isNumeric(source[start+1]) {
			return scanNumberLiteral(source, start)
		}
		return scanMaybeAssign(source, start, SubtractOperator, SubtractAssignOperator)
	case b == '"':
		return scanStringLiteral(source, start)
	case b == '\'':
		return scanQuote(source, start)
	}

	switch b {
	case '(':
		return LeftParenthesesSymbol, start + 1
	case ')':
		return RightParenthesesSymbol, start + 1
	case '[':
		return LeftBracketSymbol, start + 1
	case ']':
		return RightBracketSymbol, start + 1
	case '{':
		return LeftBraceSymbol, start + 1
	case '}':
		return RightBraceSymbol, start + 1
	case ':':
		return ColonSymbol, start + 1
	case ';':
		return SemicolonSymbol, start + 1
	case ',':
		return CommaSymbol, start + 1
	case '?':
		return OptionalSymbol, start + 1
	case '@':
		return LifetimePointer, start + 1
	case '.':
		return scanDot(source, start)
	case '&':
		return scanAmpersand(source, start)
	case '!':
		return scanMaybeAssign(source, start, ExclamationSymbol, NotEqualOperator)
	case '=':
		return scanMaybeAssign(source, start, AssignOperator, EqualOperator)
	case '+':
		return scanMaybeAssign(source, start, AddOperator, AddAssignOperator)
	case '*':
		return scanMaybeAssign(source, start, MultiplyOperator, MultiplyAssignOperator)
	case '/':
		return scanMaybeAssign(source, start, DivideOperator, DivideAssignOperator)
	case '%':
		return scanMaybeAssign(source, start, ModuloOperator, ModuloAssignOperator)
	case '|':
		return scanMaybeAssign(source, start, BitOrOperator, BitOrAssignOperator)
	case '^':
		return scanMaybeAssign(source, start, BitXorOperator, BitXorAssignOperator)
	case '~':
		return scanMaybeAssign(source, start, BitNotOperator, BitNotAssignOperator)
	case '<':
		return scanShiftOrCompare(source, start, LessOperator, LessOrEqualOperator, BitshiftLeftOperator, BitshiftLeftAssignOperator)
	case '>':
		return scanShiftOrCompare(source, start, GreaterOperator, GreaterOrEqualOperator, BitshiftRightOperator, BitshiftRightAssignOperator)
	}

	return Error, start + 1
}

// scanMaybeAssign handles the common "op" vs "op=" pair (§4.1
// parseMathOperatorWithAssign).
func scanMaybeAssign(source []byte, start uint32, plain, withAssign Tag) (Tag, uint32) {
	next := start + 1
	if next < uint32(len(source)) && source[next] == '=' {
		return withAssign, next + 1
	}
	return plain, next
}

// scanShiftOrCompare handles '<'/'>', which branch three ways: bare
// comparison, "<=", or the doubled "<<"/"<<=" shift forms.
func scanShiftOrCompare(source []byte, start uint32, cmp, cmpEq, shift, shiftEq Tag) (Tag, uint32) {
	next := start + 1
	if next >= uint32(len(source)) {
		return cmp, next
	}
	if source[next] == '=' {
		return cmpEq, next + 1
	}
	if source[next] == source[start] {
		after := next + 1
		if after < uint32(len(source)) && source[after] == '=' {
			return shiftEq, after + 1
		}
		return shift, after
	}
	return cmp, next
}

// scanDot handles '.', ".?", ".!".
func scanDot(source []byte, start uint32) (Tag, uint32) {
	next := start + 1
	if next < uint32(len(source)) {
		switch source[next] {
		case '?':
			return OptionUnwrapOperator, next + 1
		case '!':
			return ErrorUnwrapOperator, next + 1
		}
	}
	return DotSymbol, next
}

// scanAmpersand handles '&' and the "&mut" mutable-reference symbol.
func scanAmpersand(source []byte, start uint32) (Tag, uint32) {
	next := start + 1
	if uint32(len(source))-next >= 3 && string(source[next:next+3]) == "mut" {
		after := next + 3
		if after >= uint32(len(source)) || isSeparator(source[after]) {
			return MutableReferenceSymbol, after
		}
	}
	return AmpersandSymbol, next
}

// scanNumberLiteral finds the extent of a NumberLiteral token: an optional
// leading '-', an optional "0x"/"0b" prefix, then digits/hex-digits and any
// '.' characters. It does not evaluate the literal (see CreateNumberLiteral)
// — per the source's design, extent extraction and evaluation are separate
// passes, so malformed extents like "3..5" or "1abcdef" are still extracted
// as a single NumberLiteral token and rejected later.
func scanNumberLiteral(source []byte, start uint32) (Tag, uint32) {
	i := start
	if source[i] == '-' {
		i++
	}

	hexOrBin := false
	if i+1 < uint32(len(source)) && source[i] == '0' && (source[i+1] == 'x' || source[i+1] == 'X' || source[i+1] == 'b' || source[i+1] == 'B') {
		hexOrBin = true
		i += 2
	}

	for i < uint32(len(source)) {
		c := source[i]
		if hexOrBin && isHexDigit(c) {
			i++
			continue
		}
		if !hexOrBin && isNumeric(c) {
			i++
			continue
		}
		if !hexOrBin && c == '.' {
			i++
			continue
		}
		if isAlpha(c) {
			// trailing alpha run (e.g. "1abcdefABCDEF") is still part of
			// the token's extent per the source; validity is judged later.
			i++
			continue
		}
		break
	}
	return NumberLiteral, i
}

// scanStringLiteral scans a double-quoted string, honoring backslash
// escapes and rejecting an unterminated literal or an embedded newline
// (§4.1, §8 edge cases).
func scanStringLiteral(source []byte, start uint32) (Tag, uint32) {
	i := start + 1
	for i < uint32(len(source)) {
		c := source[i]
		if c == '\n' {
			return Error, i
		}
		if c == '\\' && i+1 < uint32(len(source)) {
			i += 2
			continue
		}
		if c == '"' {
			return StringLiteral, i + 1
		}
		i++
	}
	return Error, i
}

// scanQuote disambiguates a leading "'" between a lifetime annotation
// ('a, no closing quote) and a char literal ('a', closing quote present):
// scan the identifier run after the quote, then check whether a closing
// quote immediately follows it.
func scanQuote(source []byte, start uint32) (Tag, uint32) {
	i := start + 1
	if i < uint32(len(source)) && isAlpha(source[i]) {
		end := endOfAlphaNumericOrUnderscore(source, i)
		if end >= uint32(len(source)) || source[end] != '\'' {
			return ConcreteLifetime, end
		}
	}
	return scanCharLiteral(source, start)
}

// scanCharLiteral scans a single-quoted char literal. Multi-rune bodies are
// still extracted as a CharLiteral token extent; cerr.KindTooManyCharsInCharLiteral
// is raised by the evaluator that reads the extracted text, not here (§9
// Open Question #2).
func scanCharLiteral(source []byte, start uint32) (Tag, uint32) {
	i := start + 1
	if i < uint32(len(source)) && source[i] == '\'' {
		return Error, i + 1 // empty char literal
	}
	for i < uint32(len(source)) {
		c := source[i]
		if c == '\n' {
			return Error, i
		}
		if c == '\\' && i+1 < uint32(len(source)) {
			i += 2
			continue
		}
		if c == '\'' {
			return CharLiteral, i + 1
		}
		i++
	}
	return Error, i
}

// Text returns the source slice a token spans.
func (t *Tokenizer) Text(i int) []byte {
	return t.Source[t.Tokens[i].Location():t.Ends[i]]
}
