// Package quant implements the bounded/unbounded repetition counts used by
// repeat patterns.
package quant

import "fmt"

// Reluctance controls how a repeat chooses among the possible match widths
// it could consume.
type Reluctance uint8

const (
	// Greedy consumes the maximum width consistent with the remainder
	// still matching. Default for `*`, `+`, `{m,n}`.
	Greedy Reluctance = iota
	// Lazy consumes the minimum width consistent with the remainder still
	// matching. Written with a trailing `?` on the quantifier.
	Lazy
	// Possessive consumes the maximum width and never backtracks into it,
	// even if that causes the overall match to fail when backtracking
	// would have succeeded. Written with a trailing `+` on the quantifier.
	Possessive
)

func (r Reluctance) String() string {
	switch r {
	case Greedy:
		return "greedy"
	case Lazy:
		return "lazy"
	case Possessive:
		return "possessive"
	default:
		return fmt.Sprintf("Reluctance(%d)", uint8(r))
	}
}

// Unbounded marks a quantifier's Max as having no upper bound.
const Unbounded = -1

// Quantifier is `{min, max, reluctance}` attached to a repeat pattern.
type Quantifier struct {
	Min        int
	Max        int // Unbounded (-1) for infinity
	Reluctance Reluctance
}

// Star is `*`: {0, Unbounded, greedy}.
func Star() Quantifier { return Quantifier{Min: 0, Max: Unbounded, Reluctance: Greedy} }

// Plus is `+`: {1, Unbounded, greedy}.
func Plus() Quantifier { return Quantifier{Min: 1, Max: Unbounded, Reluctance: Greedy} }

// Opt is `?`: {0, 1, greedy}.
func Opt() Quantifier { return Quantifier{Min: 0, Max: 1, Reluctance: Greedy} }

// Exactly is `{n}`: {n, n, greedy}.
func Exactly(n int) Quantifier { return Quantifier{Min: n, Max: n, Reluctance: Greedy} }

// Range is `{min,max}`; pass Unbounded for an open-ended max.
func Range(min, max int) Quantifier { return Quantifier{Min: min, Max: max, Reluctance: Greedy} }

// WithReluctance returns a copy of q with its reluctance replaced.
func (q Quantifier) WithReluctance(r Reluctance) Quantifier {
	q.Reluctance = r
	return q
}

// Validate enforces invariant: 0 ≤ min ≤ max (Unbounded
// exempted from the upper comparison). Returns InvalidQuantifier-class
// errors the lexer/parser error taxonomy can wrap.
func (q Quantifier) Validate() error {
	if q.Min < 0 {
		return fmt.Errorf("quantifier: min must be >= 0, got %d", q.Min)
	}
	if q.Max != Unbounded && q.Max < q.Min {
		return fmt.Errorf("quantifier: max (%d) must be >= min (%d)", q.Max, q.Min)
	}
	return nil
}

// AllowsMore reports whether count additional repetitions are still
// permitted by this quantifier's upper bound.
func (q Quantifier) AllowsMore(count int) bool {
	return q.Max == Unbounded || count < q.Max
}

// Satisfied reports whether count repetitions already meet the minimum.
func (q Quantifier) Satisfied(count int) bool {
	return count >= q.Min
}
