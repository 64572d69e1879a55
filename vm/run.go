// Package vm runs a compiled pattern (compile.Program) against a CBOR
// value tree, producing the matched paths and any named captures.
// It is the counterpart of coregex's nfa package: where
// coregex's PikeVM walks a byte string thread-by-thread, this Machine
// walks a CBOR tree node-by-node, using plain recursive backtracking
// (with a step budget in place of coregex's sparse-set visited-state
// table — see Config.MaxSteps) since path/capture accumulation here is a
// value, not a fixed-width submatch slot array.
package vm

import (
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/compile"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
)

// Run executes prog against root and returns every top-level matching
// path plus whatever named captures were recorded along the accepted
// path(s). A bare top-level search(P) is the only pattern shape that can
// produce more than one path: every other
// pattern kind tests the root node itself and succeeds or fails as one.
func Run(prog *compile.Program, root cbor.Value, cfg Config) (paths []Path, captures map[string][]Path) {
	m := NewMachine(cfg)
	rootPath := Path{root}

	if s, ok := prog.Root.(pattern.Search); ok {
		found := m.searchAll(s.Sub, root, rootPath)
		return found, m.captures.snapshot()
	}

	if m.matchAtNode(prog.Root, root, rootPath) {
		return []Path{rootPath}, m.captures.snapshot()
	}
	return nil, m.captures.snapshot()
}

// Matches is a convenience wrapper reporting only whether prog matches
// root at all.
func Matches(prog *compile.Program, root cbor.Value, cfg Config) bool {
	paths, _ := Run(prog, root, cfg)
	return len(paths) > 0
}
