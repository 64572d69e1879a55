package vm

import (
	"testing"
	"time"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/compile"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/quant"
)

func run(t *testing.T, p pattern.Pattern, v cbor.Value) ([]Path, map[string][]Path) {
	t.Helper()
	prog, err := compile.Compile(p)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return Run(prog, v, DefaultConfig())
}

func TestGreedyRepeatConsumesMaximal(t *testing.T) {
	arr := cbor.Array(cbor.Int(1), cbor.Int(1), cbor.Int(1))
	elem := pattern.Array{Element: pattern.Sequence{Subs: []pattern.Pattern{
		pattern.Repeat{Sub: pattern.ExactNumber(1), Quant: quant.Star()},
	}}}
	paths, _ := run(t, elem, arr)
	if len(paths) == 0 {
		t.Fatal("greedy star should consume all three elements and match")
	}
}

func TestLazyRepeatStillFindsOverallMatch(t *testing.T) {
	// [repeat(number,*)?] followed by nothing still has to consume every
	// element for the sequence to land on ei == len(elems); lazy only
	// changes search order, not whether the match is found.
	arr := cbor.Array(cbor.Int(1), cbor.Int(2))
	lazyQ := quant.Star().WithReluctance(quant.Lazy)
	elem := pattern.Array{Element: pattern.Sequence{Subs: []pattern.Pattern{
		pattern.Repeat{Sub: pattern.AnyNumber(), Quant: lazyQ},
	}}}
	paths, _ := run(t, elem, arr)
	if len(paths) == 0 {
		t.Fatal("lazy repeat should still find a match when the full array is the only way to reach the end")
	}
}

func TestPossessiveRepeatFailsWhenItOverconsumes(t *testing.T) {
	// [repeat(number,+ possessive), number] over [1,2,3]: possessive
	// consumes all three numbers and never gives one back, so the trailing
	// `number` sub-pattern finds nothing left and the whole match fails.
	arr := cbor.Array(cbor.Int(1), cbor.Int(2), cbor.Int(3))
	possessiveQ := quant.Plus().WithReluctance(quant.Possessive)
	seq := pattern.Sequence{Subs: []pattern.Pattern{
		pattern.Repeat{Sub: pattern.AnyNumber(), Quant: possessiveQ},
		pattern.AnyNumber(),
	}}
	elem := pattern.Array{Element: seq}
	paths, _ := run(t, elem, arr)
	if len(paths) != 0 {
		t.Fatal("possessive repeat must not backtrack, so this sequence should fail")
	}
}

func TestGreedyVersionOfSameShapeSucceeds(t *testing.T) {
	// Same sequence shape as above but greedy (which does backtrack):
	// consumes 1,2 then gives back 3 to the trailing number sub-pattern.
	arr := cbor.Array(cbor.Int(1), cbor.Int(2), cbor.Int(3))
	seq := pattern.Sequence{Subs: []pattern.Pattern{
		pattern.Repeat{Sub: pattern.AnyNumber(), Quant: quant.Plus()},
		pattern.AnyNumber(),
	}}
	elem := pattern.Array{Element: seq}
	paths, _ := run(t, elem, arr)
	if len(paths) == 0 {
		t.Fatal("greedy repeat should backtrack to let the trailing number match")
	}
}

func TestCaptureAccumulatesAcrossArrayElements(t *testing.T) {
	// [@item(number)] over [42, 100, 200]: scenario 2.
	arr := cbor.Array(cbor.Int(42), cbor.Int(100), cbor.Int(200))
	elem := pattern.Array{Element: pattern.Capture{Name: "item", Sub: pattern.AnyNumber()}}
	_, captures := run(t, elem, arr)
	got := captures["item"]
	if len(got) != 3 {
		t.Fatalf("expected 3 captured paths, got %d: %v", len(got), got)
	}
	want := []int64{42, 100, 200}
	for i, p := range got {
		last := p.Last()
		n, ok := last.AsFloat64()
		if !ok || int64(n) != want[i] {
			t.Errorf("capture[%d] = %v, want %d", i, last, want[i])
		}
	}
}

func TestCaptureDedupsRepeatedValues(t *testing.T) {
	// [@n(number)] over [1,1000000,2,1000000,3]: scenario 8 -
	// a path is the chain of node *values* from root to match, not node
	// indices, so the second 1000000 extends the array's path to a value
	// structurally equal to the first 1000000's path and dedups away,
	// leaving 4 distinct captures in first-appearance order.
	arr := cbor.Array(cbor.Int(1), cbor.Int(1000000), cbor.Int(2), cbor.Int(1000000), cbor.Int(3))
	elem := pattern.Array{Element: pattern.Capture{Name: "n", Sub: pattern.AnyNumber()}}
	_, captures := run(t, elem, arr)
	got := captures["n"]
	if len(got) != 4 {
		t.Fatalf("expected 4 distinct captures after dedup of the repeated 1000000, got %d", len(got))
	}
	want := []int64{1, 1000000, 2, 3}
	for i, p := range got {
		last := p.Last()
		n, ok := last.AsFloat64()
		if !ok || int64(n) != want[i] {
			t.Errorf("capture[%d] = %v, want %d", i, last, want[i])
		}
	}
}

func TestMapConstraintSatisfiedByDistinctEntries(t *testing.T) {
	m := cbor.Map(
		cbor.MapEntry{Key: cbor.Text("name"), Value: cbor.Text("Alice")},
		cbor.MapEntry{Key: cbor.Text("age"), Value: cbor.Int(30)},
	)
	mp := pattern.MapWithConstraints([]pattern.KV{
		{Key: pattern.ExactText("name"), Value: pattern.AnyText()},
		{Key: pattern.ExactText("age"), Value: pattern.NumberGreaterThan(18)},
	})
	paths, _ := run(t, mp, m)
	if len(paths) == 0 {
		t.Fatal("map with both constraints satisfiable should match")
	}
}

func TestTaggedDateRangeMatches(t *testing.T) {
	lo, hi := mustDate(t, "2023-01-01T00:00:00Z"), mustDate(t, "2023-12-31T00:00:00Z")
	d := pattern.DateRangeValue(lo, hi)
	v := cbor.Tagged(cbor.DateTag, cbor.Text("2023-06-15T00:00:00Z"))
	paths, _ := run(t, d, v)
	if len(paths) == 0 {
		t.Fatal("date within range should match")
	}
	out := cbor.Tagged(cbor.DateTag, cbor.Text("2024-01-01T00:00:00Z"))
	paths, _ = run(t, d, out)
	if len(paths) != 0 {
		t.Fatal("date outside range should not match")
	}
}

func TestSearchFindsAllDescendants(t *testing.T) {
	v := cbor.Array(cbor.Int(1), cbor.Array(cbor.Int(2), cbor.Int(1)), cbor.Int(3))
	s := pattern.Search{Sub: pattern.ExactNumber(1)}
	paths, _ := run(t, s, v)
	if len(paths) != 2 {
		t.Fatalf("expected 2 descendants equal to 1 (root-level and nested), got %d: %v", len(paths), paths)
	}
}

func TestOrIdentity(t *testing.T) {
	v := cbor.Int(5)
	or := pattern.Or{Subs: []pattern.Pattern{pattern.ExactNumber(5), pattern.ExactNumber(6)}}
	paths, _ := run(t, or, v)
	if len(paths) == 0 {
		t.Fatal("or should match when any branch matches")
	}
}

func TestAndRequiresAllBranches(t *testing.T) {
	v := cbor.Int(5)
	and := pattern.And{Subs: []pattern.Pattern{pattern.AnyNumber(), pattern.ExactNumber(5)}}
	paths, _ := run(t, and, v)
	if len(paths) == 0 {
		t.Fatal("and should match when every branch matches")
	}
	and2 := pattern.And{Subs: []pattern.Pattern{pattern.AnyNumber(), pattern.ExactNumber(6)}}
	paths, _ = run(t, and2, v)
	if len(paths) != 0 {
		t.Fatal("and should fail when any branch fails")
	}
}

func TestNotInvertsMatch(t *testing.T) {
	v := cbor.Int(5)
	n := pattern.Not{Sub: pattern.ExactNumber(6)}
	paths, _ := run(t, n, v)
	if len(paths) == 0 {
		t.Fatal("not(6) should match 5")
	}
}

func TestMatchesNonEmptyPathsAreConsistent(t *testing.T) {
	v := cbor.Int(5)
	p := pattern.ExactNumber(5)
	prog, err := compile.Compile(p)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	matched := Matches(prog, v, DefaultConfig())
	paths, _ := Run(prog, v, DefaultConfig())
	if matched != (len(paths) > 0) {
		t.Error("Matches must agree with len(paths) > 0")
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return parsed
}
