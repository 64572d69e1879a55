// Package dcborpattern is the public entry point for the pattern engine:
// parse a pattern from text, compile it, run it against a dCBOR value,
// and collect whatever it matched.
package dcborpattern

import (
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/collector"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/compile"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/format"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/parse"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/vm"
)

// Pattern is a compiled, ready-to-run pattern. It is safe for concurrent
// use by multiple goroutines: Compile never mutates the tree it wraps, and
// every Run call gets its own vm.Machine.
type Pattern struct {
	prog *compile.Program
}

// Parse parses src as a single complete pattern.
// Trailing input after the pattern is an error.
func Parse(src string) (Pattern, error) {
	p, err := parse.Parse(src)
	if err != nil {
		return Pattern{}, err
	}
	return fromTree(p)
}

// ParsePartial parses one pattern from the start of src and reports how
// many bytes it consumed, for callers
// embedding a pattern inside a larger document.
func ParsePartial(src string) (Pattern, int, error) {
	p, consumed, err := parse.ParsePartial(src)
	if err != nil {
		return Pattern{}, 0, err
	}
	pat, err := fromTree(p)
	return pat, consumed, err
}

func fromTree(p pattern.Pattern) (Pattern, error) {
	prog, err := compile.Compile(p)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{prog: prog}, nil
}

// Display renders the pattern back to its canonical surface form.
func (p Pattern) Display() string {
	return format.Display(p.prog.Root)
}

// Matches reports whether v satisfies the pattern, using the default
// step budget.
func (p Pattern) Matches(v cbor.Value) bool {
	return vm.Matches(p.prog, v, vm.DefaultConfig())
}

// MatchesWithConfig is Matches with an explicit step-budget override.
func (p Pattern) MatchesWithConfig(v cbor.Value, cfg vm.Config) bool {
	return vm.Matches(p.prog, v, cfg)
}

// Paths returns every distinct top-level path the pattern produces against
// v, in first-discovered order. A non-search
// top-level pattern yields at most one path.
func (p Pattern) Paths(v cbor.Value) []collector.Path {
	paths, _ := vm.Run(p.prog, v, vm.DefaultConfig())
	return collector.FromVM(paths, nil).Paths
}

// PathsWithCaptures returns both the top-level paths and every named
// capture's recorded path list.
func (p Pattern) PathsWithCaptures(v cbor.Value) collector.Result {
	paths, captures := vm.Run(p.prog, v, vm.DefaultConfig())
	return collector.FromVM(paths, captures)
}

// PathsWithConfig is PathsWithCaptures with an explicit step-budget
// override, for callers matching against deep or adversarial input who
// want to bound worst-case work below vm.DefaultConfig's step count.
func (p Pattern) PathsWithConfig(v cbor.Value, cfg vm.Config) collector.Result {
	paths, captures := vm.Run(p.prog, v, cfg)
	return collector.FromVM(paths, captures)
}
