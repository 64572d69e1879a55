package format

import (
	"testing"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/parse"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
)

func TestDisplayLiterals(t *testing.T) {
	tests := []struct {
		p    pattern.Pattern
		want string
	}{
		{pattern.ExactBool(true), "true"},
		{pattern.ExactBool(false), "false"},
		{pattern.AnyBool(), "bool"},
		{pattern.Null{}, "null"},
		{pattern.Any{}, "any"},
		{pattern.None{}, "none"},
		{pattern.AnyNumber(), "number"},
		{pattern.ExactNumber(42), "42"},
		{pattern.NumberGreaterThan(5), "number(>5)"},
		{pattern.NumberRange(1, 10), "number(1...10)"},
		{pattern.NumberNaN(), "number(NaN)"},
		{pattern.AnyText(), "text"},
		{pattern.ExactText("hi"), `"hi"`},
		{pattern.AnyArray(), "[*]"},
		{pattern.ArrayWithCount(pattern.ExactCount(0)), "[]"},
		{pattern.ArrayWithCount(pattern.ExactCount(3)), "[3]"},
		{pattern.AnyMap(), "{*}"},
		{pattern.AnyTagged(), "tagged"},
	}
	for _, tt := range tests {
		got := Display(tt.p)
		if got != tt.want {
			t.Errorf("Display(%#v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

// TestRoundTrip checks parse(display(P)) = P over
// a representative sample covering every operator and a few tricky
// precedence/grouping cases.
func TestRoundTrip(t *testing.T) {
	srcs := []string{
		"true",
		"false",
		"null",
		"any",
		"none",
		"42",
		"-1.5",
		`"hi"`,
		"number(>5)",
		"number(1...10)",
		"number(NaN)",
		"number(Infinity)",
		"number(-Infinity)",
		"[*]",
		"[]",
		"[3]",
		"[2,5]",
		"[number(42)]",
		"{*}",
		"known(7)",
		"digest(1a2b...)",
		"bytes(deadbeef)",
		"tagged(1,any)",
		"@x(number)",
		"search(number(42))",
		"any*",
		"any+",
		"any?",
		"any{2,5}",
		"any*?",
		"any*+",
		"true|false",
		"true&false",
		"true>false>null",
		"!true",
		"(true|false)&null",
		"!(true|false)",
		"(true|false)>null",
	}
	for _, src := range srcs {
		p, err := parse.Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}
		rendered := Display(p)
		p2, err := parse.Parse(rendered)
		if err != nil {
			t.Fatalf("Parse(%q) [from display of %q]: %v", rendered, src, err)
		}
		if !p.Equal(p2) {
			t.Errorf("round trip mismatch: %q -> %q -> %#v, want %#v", src, rendered, p2, p)
		}
	}
}
