package compile

import (
	"errors"
	"testing"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/quant"
)

func TestCompileRejectsBadQuantifier(t *testing.T) {
	p := pattern.Repeat{Sub: pattern.Any{}, Quant: quant.Quantifier{Min: 5, Max: 2}}
	if _, err := Compile(p); err == nil {
		t.Fatal("expected an error for max < min")
	}
}

func TestCompileAcceptsSequenceInsideArrayElement(t *testing.T) {
	seq := pattern.Sequence{Subs: []pattern.Pattern{pattern.Any{}, pattern.Any{}}}
	arr := pattern.Array{Element: seq}
	if _, err := Compile(arr); err != nil {
		t.Fatalf("sequence inside an array element slot should compile: %v", err)
	}
}

func TestCompileAcceptsTopLevelSequence(t *testing.T) {
	seq := pattern.Sequence{Subs: []pattern.Pattern{pattern.Any{}, pattern.Any{}}}
	if _, err := Compile(seq); err != nil {
		t.Fatalf("top-level sequence is a decided allowance, should compile: %v", err)
	}
}

func TestCompileAcceptsSequenceDirectlyUnderCapture(t *testing.T) {
	seq := pattern.Sequence{Subs: []pattern.Pattern{pattern.Any{}, pattern.Any{}}}
	cap := pattern.Capture{Name: "x", Sub: seq}
	if _, err := Compile(cap); err != nil {
		t.Fatalf("sequence directly under a root capture should compile: %v", err)
	}
}

func TestCompileRejectsSequenceElsewhere(t *testing.T) {
	seq := pattern.Sequence{Subs: []pattern.Pattern{pattern.Any{}, pattern.Any{}}}
	or := pattern.Or{Subs: []pattern.Pattern{seq, pattern.Any{}}}
	_, err := Compile(or)
	if !errors.Is(err, ErrSequenceOutsideArray) {
		t.Fatalf("expected ErrSequenceOutsideArray, got %v", err)
	}
}

func TestLiteralPoolDedupsByStructuralEquality(t *testing.T) {
	five := pattern.ExactNumber(5)
	or := pattern.Or{Subs: []pattern.Pattern{five, pattern.ExactNumber(5), pattern.ExactNumber(6)}}
	prog, err := Compile(or)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(prog.Literals) != 2 {
		t.Fatalf("expected 2 distinct interned literals, got %d: %v", len(prog.Literals), prog.Literals)
	}
}

func TestNamePoolSharesSlotAcrossRepeatedCaptureName(t *testing.T) {
	p := pattern.Or{Subs: []pattern.Pattern{
		pattern.Capture{Name: "item", Sub: pattern.Any{}},
		pattern.Capture{Name: "item", Sub: pattern.ExactNumber(1)},
	}}
	prog, err := Compile(p)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	count := 0
	for _, n := range prog.CaptureNames {
		if n == "item" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected capture name pool to intern \"item\" once, got %d entries: %v", count, prog.CaptureNames)
	}
}

func TestDescribeListsEveryNode(t *testing.T) {
	prog, err := Compile(pattern.And{Subs: []pattern.Pattern{pattern.Any{}, pattern.None{}}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := prog.Describe()
	if out == "" {
		t.Fatal("Describe should produce a non-empty listing")
	}
}
