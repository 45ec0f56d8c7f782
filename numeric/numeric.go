// Package numeric holds small generic numeric helpers shared by stack,
// alloc, and bytecode — the kind of power-of-two/alignment arithmetic
// every one of those packages would otherwise reimplement per integer
// type, grounded on the numeric-kernel generic helpers SnellerInc/sneller
// writes over constraints.Integer for its vectorized vm ops.
package numeric

import "golang.org/x/exp/constraints"

// NextPowerOfTwo returns the smallest power of two >= n (1 if n <= 1).
func NextPowerOfTwo[T constraints.Integer](n T) T {
	if n <= 1 {
		return 1
	}
	p := T(1)
	for p < n {
		p *= 2
	}
	return p
}

// AlignUp rounds n up to the next multiple of align. align must be a
// power of two; align <= 1 is treated as "no alignment required".
func AlignUp[T constraints.Integer](n, align T) T {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
