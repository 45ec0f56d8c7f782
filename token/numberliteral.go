package token

import (
	"math"
	"strconv"

	"github.com/xyproto/synclang/cerr"
)

// NumberKind tags which arm of NumberLiteral's union is active.
type NumberKind uint8

const (
	Unsigned64 NumberKind = iota
	Signed64
	Float64Kind
)

// NumberLiteral is the evaluated form of a NumberLiteral token's source
// text (§4.1, file_literals semantics): digits accumulate into an unsigned
// 64-bit value, promoting to float64 the instant a multiplication or
// addition would overflow; text containing a '.' is parsed as float64
// directly, and text with more than one '.' is rejected. A leading '-' is
// part of the token text (scanned by scanNumberLiteral) and is evaluated
// here into the Signed64 or negative Float64Kind form.
type NumberLiteral struct {
	Kind     NumberKind
	Unsigned uint64
	Signed   int64
	Float    float64
}

func wouldU64AddOverflow(acc uint64, digit uint64) bool {
	return acc > math.MaxUint64-digit
}

func wouldU64MulOverflow(acc, by uint64) bool {
	if acc == 0 {
		return false
	}
	return acc > math.MaxUint64/by
}

// CreateNumberLiteral evaluates the literal text of a NumberLiteral token
// (digits plus optional "0x"/"0b" prefix, optional single '.', optional
// leading '-'). The scanner only finds a literal's extent, so malformed
// text (multiple '.', a non-digit after "0x", etc.) reaches this function
// and is rejected here with a compile error; well-formed text is evaluated
// with the overflow-to-float promotion the source performs.
func CreateNumberLiteral(text string) (NumberLiteral, *cerr.CompileError) {
	negative := false
	if len(text) > 0 && text[0] == '-' {
		negative = true
		text = text[1:]
	}

	switch {
	case len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X'):
		return createRadix(text[2:], 16, negative)
	case len(text) > 2 && text[0] == '0' && (text[1] == 'b' || text[1] == 'B'):
		return createRadix(text[2:], 2, negative)
	}

	dot := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return createDecimalInt(text, negative)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return NumberLiteral{}, cerr.New(cerr.KindInvalidDecimalNumberLiteral, 0)
	}
	if negative {
		f = -f
	}
	return NumberLiteral{Kind: Float64Kind, Float: f}, nil
}

func createRadix(digits string, radix int, negative bool) (NumberLiteral, *cerr.CompileError) {
	var acc uint64
	promoted := false
	var facc float64
	for i := 0; i < len(digits); i++ {
		var d uint64
		c := digits[i]
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return NumberLiteral{}, cerr.New(cerr.KindInvalidDecimalNumberLiteral, 0)
		}
		if d >= uint64(radix) {
			return NumberLiteral{}, cerr.New(cerr.KindInvalidDecimalNumberLiteral, 0)
		}
		if !promoted {
			if wouldU64MulOverflow(acc, uint64(radix)) || wouldU64AddOverflow(acc*uint64(radix), d) {
				promoted = true
				facc = float64(acc)
			} else {
				acc = acc*uint64(radix) + d
				continue
			}
		}
		facc = facc*float64(radix) + float64(d)
	}
	if promoted {
		if negative {
			facc = -facc
		}
		return NumberLiteral{Kind: Float64Kind, Float: facc}, nil
	}
	if negative {
		if acc == uint64(math.MaxInt64)+1 {
			return NumberLiteral{Kind: Signed64, Signed: math.MinInt64}, nil
		}
		if acc > uint64(math.MaxInt64) {
			return NumberLiteral{Kind: Float64Kind, Float: -float64(acc)}, nil
		}
		return NumberLiteral{Kind: Signed64, Signed: -int64(acc)}, nil
	}
	return NumberLiteral{Kind: Unsigned64, Unsigned: acc}, nil
}

func createDecimalInt(digits string, negative bool) (NumberLiteral, *cerr.CompileError) {
	var acc uint64
	promoted := false
	var facc float64
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return NumberLiteral{}, cerr.New(cerr.KindInvalidDecimalNumberLiteral, 0)
		}
		d := uint64(c - '0')
		if !promoted {
			if wouldU64MulOverflow(acc, 10) || wouldU64AddOverflow(acc*10, d) {
				promoted = true
				facc = float64(acc)
			} else {
				acc = acc*10 + d
				continue
			}
		}
		facc = facc*10 + float64(d)
	}
	if promoted {
		if negative {
			facc = -facc
		}
		return NumberLiteral{Kind: Float64Kind, Float: facc}, nil
	}
	if negative {
		if acc == uint64(math.MaxInt64)+1 {
			return NumberLiteral{Kind: Signed64, Signed: math.MinInt64}, nil
		}
		if acc > uint64(math.MaxInt64) {
			return NumberLiteral{Kind: Float64Kind, Float: -float64(acc)}, nil
		}
		return NumberLiteral{Kind: Signed64, Signed: -int64(acc)}, nil
	}
	return NumberLiteral{Kind: Unsigned64, Unsigned: acc}, nil
}

// AsUnsigned64 converts the literal to uint64, rejecting negative signed
// values and out-of-range floats.
func (n NumberLiteral) AsUnsigned64() (uint64, *cerr.CompileError) {
	switch n.Kind {
	case Unsigned64:
		return n.Unsigned, nil
	case Signed64:
		if n.Signed < 0 {
			return 0, cerr.New(cerr.KindNegativeToUnsignedInt, 0)
		}
		return uint64(n.Signed), nil
	case Float64Kind:
		if n.Float < 0 || n.Float > float64(math.MaxUint64) {
			return 0, cerr.New(cerr.KindFloatOutsideIntRange, 0)
		}
		return uint64(n.Float), nil
	default:
		return 0, cerr.New(cerr.KindInvalidDecimalNumberLiteral, 0)
	}
}

// AsSigned64 converts the literal to int64, rejecting out-of-range
// unsigned/float values.
func (n NumberLiteral) AsSigned64() (int64, *cerr.CompileError) {
	switch n.Kind {
	case Signed64:
		return n.Signed, nil
	case Unsigned64:
		if n.Unsigned > uint64(math.MaxInt64) {
			return 0, cerr.New(cerr.KindUnsignedOutsideIntRange, 0)
		}
		return int64(n.Unsigned), nil
	case Float64Kind:
		if n.Float < float64(math.MinInt64) || n.Float > float64(math.MaxInt64) {
			return 0, cerr.New(cerr.KindFloatOutsideIntRange, 0)
		}
		return int64(n.Float), nil
	default:
		return 0, cerr.New(cerr.KindInvalidDecimalNumberLiteral, 0)
	}
}

// AsFloat64 converts the literal to float64; always succeeds since every
// representable u64/i64 fits (with rounding) into a float64's range.
func (n NumberLiteral) AsFloat64() float64 {
	switch n.Kind {
	case Float64Kind:
		return n.Float
	case Signed64:
		return float64(n.Signed)
	case Unsigned64:
		return float64(n.Unsigned)
	default:
		return 0
	}
}
