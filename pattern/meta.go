package pattern

import (
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/quant"
)

// Any matches `any`: any single node.
type Any struct{}

func (Any) Kind() Kind                { return KindAny }
func (Any) Equal(other Pattern) bool  { _, ok := other.(Any); return ok }
func (Any) Matches(cbor.Value) bool   { return true }

// None matches `none`: nothing.
type None struct{}

func (None) Kind() Kind               { return KindNone }
func (None) Equal(other Pattern) bool { _, ok := other.(None); return ok }
func (None) Matches(cbor.Value) bool  { return false }

// And matches and(P1,...,Pn): all subpatterns match the same node.
type And struct{ Subs []Pattern }

func (And) Kind() Kind { return KindAnd }

func (a And) Equal(other Pattern) bool {
	o, ok := other.(And)
	return ok && childrenEqual(a.Subs, o.Subs)
}

func (a And) Matches(v cbor.Value) bool {
	for _, s := range a.Subs {
		if !s.Matches(v) {
			return false
		}
	}
	return true
}

// Or matches or(P1,...,Pn): at least one subpattern matches.
type Or struct{ Subs []Pattern }

func (Or) Kind() Kind { return KindOr }

func (o Or) Equal(other Pattern) bool {
	oo, ok := other.(Or)
	return ok && childrenEqual(o.Subs, oo.Subs)
}

func (o Or) Matches(v cbor.Value) bool {
	for _, s := range o.Subs {
		if s.Matches(v) {
			return true
		}
	}
	return false
}

// Not matches not(P): P does not match this node.
type Not struct{ Sub Pattern }

func (Not) Kind() Kind { return KindNot }

func (n Not) Equal(other Pattern) bool {
	o, ok := other.(Not)
	return ok && childEqual(n.Sub, o.Sub)
}

func (n Not) Matches(v cbor.Value) bool { return !n.Sub.Matches(v) }

// Repeat matches repeat(P, quantifier): only meaningful as a
// sequence element (see Sequence). Matches always returns false here —
// repeat's semantics are inherently about consuming 0..N sibling positions,
// which the single-node simple evaluator has no way to express; use vm.Run.
type Repeat struct {
	Sub   Pattern
	Quant quant.Quantifier
}

func (Repeat) Kind() Kind { return KindRepeat }

func (r Repeat) Equal(other Pattern) bool {
	o, ok := other.(Repeat)
	return ok && o.Quant == r.Quant && childEqual(r.Sub, o.Sub)
}

func (Repeat) Matches(cbor.Value) bool { return false }

// Capture matches capture(name, P): matches iff P matches;
// records the matched subtree under name. Matches always returns false —
// recording a capture is a side effect the single-node evaluator has no
// channel for; use vm.Run.
type Capture struct {
	Name string
	Sub  Pattern
}

func (Capture) Kind() Kind { return KindCapture }

func (c Capture) Equal(other Pattern) bool {
	o, ok := other.(Capture)
	return ok && o.Name == c.Name && childEqual(c.Sub, o.Sub)
}

func (Capture) Matches(cbor.Value) bool { return false }

// Search matches search(P): P matches some descendant
// (pre-order, root included). Matches always returns false — traversal
// needs to visit more than one node; use vm.Run.
type Search struct{ Sub Pattern }

func (Search) Kind() Kind { return KindSearch }

func (s Search) Equal(other Pattern) bool {
	o, ok := other.(Search)
	return ok && childEqual(s.Sub, o.Sub)
}

func (Search) Matches(cbor.Value) bool { return false }

// Sequence matches sequence(P1,...,Pn): only meaningful as the
// element-pattern of an array. Matches
// always returns false — use vm.Run, which drives a real array's element
// cursor.
type Sequence struct{ Subs []Pattern }

func (Sequence) Kind() Kind { return KindSequence }

func (s Sequence) Equal(other Pattern) bool {
	o, ok := other.(Sequence)
	return ok && childrenEqual(s.Subs, o.Subs)
}

func (Sequence) Matches(cbor.Value) bool { return false }
