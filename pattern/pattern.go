// Package pattern implements the dCBOR pattern algebra: the closed set of
// value predicates and meta combinators, plus a simple evaluator for the
// non-sequence, non-capture subset.
//
// Pattern trees are value types built once via constructors and never
// mutated afterward. The authoritative matcher for
// captures, repeat, and sequence patterns is vm.Run; Matches in this
// package only answers the single-node "does P match this node" question
// for the subset of the algebra that needs no backtracking state.
package pattern

import "github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"

// Kind discriminates pattern tree node types without reflection, an
// enum-and-switch style in place of type assertions on the hot path.
type Kind uint8

const (
	KindBool Kind = iota
	KindNumber
	KindText
	KindByteString
	KindDate
	KindDigest
	KindKnownValue
	KindNull
	KindArray
	KindMap
	KindTagged

	KindAny
	KindNone
	KindAnd
	KindOr
	KindNot
	KindRepeat
	KindCapture
	KindSearch
	KindSequence
)

func (k Kind) String() string {
	names := [...]string{
		"bool", "number", "text", "byte-string", "date", "digest", "known-value",
		"null", "array", "map", "tagged",
		"any", "none", "and", "or", "not", "repeat", "capture", "search", "sequence",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Pattern is any node of the pattern tree. Concrete implementations live in
// this package's other files; callers type-switch on Kind() to recover the
// concrete type.
type Pattern interface {
	Kind() Kind
	// Equal reports structural equality with another pattern, used by
	// parse(display(P)) = P round-trip tests and by literal-pool interning
	// in compile.Compile.
	Equal(other Pattern) bool
	// Matches answers the single-node matching question for the subset of
	// the algebra (value predicates, any, none, and, or, not) that never
	// needs backtracking state. Patterns that require it (capture, search,
	// repeat, sequence) always return false here — callers needing their
	// semantics must go through vm.Run.
	Matches(v cbor.Value) bool
}

// childEqual is a small helper for Equal implementations that hold a single
// child pattern.
func childEqual(a, b Pattern) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func childrenEqual(a, b []Pattern) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
