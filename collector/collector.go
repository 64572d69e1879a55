// Package collector defines the public path/capture result shape
// returned by a pattern match and converts the vm package's internal
// representation into it, the way coregex's Regex.FindStringSubmatch /
// SubexpNames (regex/example_subexpnames_test.go) turn a PikeVM's raw
// capture slots into a name-addressable result for callers outside the
// engine.
package collector

import (
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/vm"
)

// Path is the public root-to-match node chain.
type Path []cbor.Value

// Equal reports structural equality, node by node.
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

// Last returns the matched node itself, the final element of the path.
func (p Path) Last() cbor.Value { return p[len(p)-1] }

// Result is everything one Run produces: the top-level matching paths and
// whatever named captures were recorded while finding them.
type Result struct {
	Paths    []Path
	Captures map[string][]Path
}

// Matched reports whether the pattern matched at all.
func (r Result) Matched() bool { return len(r.Paths) > 0 }

// FromVM converts vm.Run's output into a Result. vm.Path and Path share
// the same underlying element type, so this is a direct, order-preserving
// copy — vm.Machine has already done the dedup and first-appearance
// ordering; this layer only exists to keep the public API decoupled
// from vm's internal types.
func FromVM(paths []vm.Path, captures map[string][]vm.Path) Result {
	out := Result{
		Paths:    make([]Path, len(paths)),
		Captures: make(map[string][]Path, len(captures)),
	}
	for i, p := range paths {
		out.Paths[i] = Path(p)
	}
	for name, ps := range captures {
		converted := make([]Path, len(ps))
		for i, p := range ps {
			converted[i] = Path(p)
		}
		out.Captures[name] = converted
	}
	return out
}
