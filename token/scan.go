package token

// Scanning helpers mirror the source's isSpace/isAlpha/isNumeric family:
// small, inlinable byte classifiers used by both the identifier scanner and
// the number/string/char literal scanners.

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isNumeric(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlphaNumericOrUnderscore(b byte) bool {
	return isAlpha(b) || isNumeric(b)
}

func isHexDigit(b byte) bool {
	return isNumeric(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// isSeparator reports whether b can legally follow a token without an
// intervening space: whitespace, EOF, or a symbol character.
func isSeparator(b byte) bool {
	if isSpace(b) {
		return true
	}
	switch b {
	case '(', ')', '[', ']', '{', '}', ':', ';', ',', '?', '.', '&', '!',
		'<', '>', '=', '+', '-', '*', '/', '%', '|', '^', '~', '"', '\'', '@':
		return true
	default:
		return false
	}
}

// nonWhitespaceStartFrom scans forward from start skipping whitespace,
// returning the index of the first non-whitespace byte, or len(source) if
// none remain (§4.1, "skip runs of whitespace between tokens").
func nonWhitespaceStartFrom(source []byte, start uint32) uint32 {
	i := start
	for i < uint32(len(source)) && isSpace(source[i]) {
		i++
	}
	return i
}

// endOfAlphaNumericOrUnderscore returns the index one past the last byte of
// the identifier run starting at start (start itself already consumed by
// the caller's dispatch on the first letter).
func endOfAlphaNumericOrUnderscore(source []byte, start uint32) uint32 {
	i := start
	for i < uint32(len(source)) && isAlphaNumericOrUnderscore(source[i]) {
		i++
	}
	return i
}

// scanIdentifierOrKeyword scans the full alphanumeric-or-underscore run
// starting at start (the index of the first letter) and classifies it: an
// exact match against the reserved word table is a keyword/primitive,
// anything else is a plain Identifier. Unlike the source's per-letter
// dispatch tree (hash-free, branch-predicted against the first few bytes
// only) this does one full scan plus a single map lookup — Go's map is the
// idiomatic table here, and it produces byte-identical classification: the
// source's tree only ever rejects to Identifier on a mismatch, never on a
// match of different length, so a whole-run exact match subsumes it.
func scanIdentifierOrKeyword(source []byte, start uint32) (Tag, uint32) {
	end := endOfAlphaNumericOrUnderscore(source, start)
	word := string(source[start:end])
	if tag, ok := keywords[word]; ok {
		return tag, end
	}
	return Identifier, end
}
