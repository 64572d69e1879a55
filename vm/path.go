package vm

import "github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"

// Path is an ordered sequence of CBOR nodes from root to
// match, inclusive on both ends.
type Path []cbor.Value

// Equal reports whether two paths are element-wise structurally equal.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Last returns the final node of the path (the match itself).
func (p Path) Last() cbor.Value { return p[len(p)-1] }

func (p Path) extend(v cbor.Value) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = v
	return out
}

// orderedPaths accumulates Path values in first-appearance order,
// deduplicated by Path.Equal.
type orderedPaths struct {
	items []Path
}

func (op *orderedPaths) add(p Path) bool {
	for _, existing := range op.items {
		if existing.Equal(p) {
			return false
		}
	}
	op.items = append(op.items, p)
	return true
}
