// Package amount implements fixed-size, non-negative capacity vectors used
// throughout the solver to represent vehicle capacity, pickup/delivery
// quantities, and load sweeps.
//
// An Amount is a small value type: comparisons and arithmetic are all
// O(len) and allocate only on construction. Subtraction never clamps —
// callers MUST ensure b <= a before calling Sub(a, b); violating that
// invariant is a programmer error, not a recoverable one, so Sub panics
// rather than returning an error — the same rule the option constructors
// elsewhere in this module follow for programmer-error paths, as opposed
// to user-triggered error conditions, which return sentinels.
package amount

import "fmt"

// Amount is a fixed-size vector of non-negative component capacities
// (e.g. weight, volume, number of seats). The zero value is the empty
// vector (length 0), which compares equal only to itself.
type Amount []int64

// New returns a copy of vs as an Amount.
// Complexity: O(len(vs)).
func New(vs ...int64) Amount {
	out := make(Amount, len(vs))
	copy(out, vs)

	return out
}

// Zero returns the all-zero Amount of the given dimension.
// Complexity: O(n).
func Zero(n int) Amount {
	return make(Amount, n)
}

// sameLen panics if a and b have different dimensions; every binary
// operation in this package requires matching dimensions, since mixing
// amounts of different capacity-vector shapes is always a caller bug.
func sameLen(a, b Amount) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("amount: dimension mismatch %d != %d", len(a), len(b)))
	}
}

// Add returns the component-wise sum a + b.
// Complexity: O(len(a)).
func Add(a, b Amount) Amount {
	sameLen(a, b)
	out := make(Amount, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}

	return out
}

// Sub returns the component-wise difference a - b.
// Precondition: b.LessEq(a); callers in this solver never subtract an
// amount that could drive a component negative, since that would mean a
// route is already over capacity before the subtraction is evaluated.
// Complexity: O(len(a)).
func Sub(a, b Amount) Amount {
	sameLen(a, b)
	out := make(Amount, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}

	return out
}

// LessEq reports whether a <= b component-wise (the partial order used by
// every capacity feasibility check in the solver).
// Complexity: O(len(a)).
func (a Amount) LessEq(b Amount) bool {
	sameLen(a, b)
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}

	return true
}

// Less reports whether a is lexicographically strictly less than b — the
// total order used only where heuristics need a tie-break.
// Complexity: O(len(a)).
func (a Amount) Less(b Amount) bool {
	sameLen(a, b)
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return false
}

// Max returns the component-wise maximum of a and b (used to maintain the
// monotone peak sweeps in route.RawRoute).
// Complexity: O(len(a)).
func Max(a, b Amount) Amount {
	sameLen(a, b)
	out := make(Amount, len(a))
	for i := range a {
		if a[i] >= b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}

	return out
}

// Min returns the component-wise minimum of a and b (used by the
// forward/backward break-load-margin sweeps in route.TWRoute).
// Complexity: O(len(a)).
func Min(a, b Amount) Amount {
	sameLen(a, b)
	out := make(Amount, len(a))
	for i := range a {
		if a[i] <= b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}

	return out
}

// IsZero reports whether every component of a is zero.
// Complexity: O(len(a)).
func (a Amount) IsZero() bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}

	return true
}

// Equal reports whether a and b have identical components.
// Complexity: O(len(a)).
func (a Amount) Equal(b Amount) bool {
	sameLen(a, b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Clone returns an independent copy of a.
// Complexity: O(len(a)).
func (a Amount) Clone() Amount {
	out := make(Amount, len(a))
	copy(out, a)

	return out
}
