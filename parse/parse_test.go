package parse

import (
	"testing"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
)

func mustParse(t *testing.T, src string) pattern.Pattern {
	t.Helper()
	p, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return p
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want pattern.Pattern
	}{
		{"true", pattern.ExactBool(true)},
		{"false", pattern.ExactBool(false)},
		{"null", pattern.Null{}},
		{"any", pattern.Any{}},
		{"none", pattern.None{}},
		{"42", pattern.ExactNumber(42)},
		{"-1.5", pattern.ExactNumber(-1.5)},
		{`"hi"`, pattern.ExactText("hi")},
		{"bool", pattern.AnyBool()},
		{"number", pattern.AnyNumber()},
		{"text", pattern.AnyText()},
		{"bytes", pattern.AnyByteString()},
		{"date", pattern.AnyDate()},
		{"digest", pattern.AnyDigest()},
		{"known", pattern.AnyKnownValue()},
		{"tagged", pattern.AnyTagged()},
	}
	for _, tt := range tests {
		got := mustParse(t, tt.src)
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.src, got, tt.want)
		}
	}
}

func TestParseNumberBody(t *testing.T) {
	tests := []struct {
		src  string
		want pattern.Pattern
	}{
		{"number(>5)", pattern.NumberGreaterThan(5)},
		{"number(>=5)", pattern.NumberGreaterEqual(5)},
		{"number(<5)", pattern.NumberLessThan(5)},
		{"number(<=5)", pattern.NumberLessEqual(5)},
		{"number(1...10)", pattern.NumberRange(1, 10)},
		{"number(1...)", pattern.NumberGreaterEqual(1)},
		{"number(...10)", pattern.NumberLessEqual(10)},
		{"number(NaN)", pattern.NumberNaN()},
		{"number(Infinity)", pattern.NumberPosInf()},
		{"number(-Infinity)", pattern.NumberNegInf()},
	}
	for _, tt := range tests {
		got := mustParse(t, tt.src)
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.src, got, tt.want)
		}
	}
}

func TestParseBracketCountVsElement(t *testing.T) {
	got := mustParse(t, "[3]")
	want := pattern.ArrayWithCount(pattern.ExactCount(3))
	if !got.Equal(want) {
		t.Errorf("Parse([3]) = %#v, want count-3 array", got)
	}

	got = mustParse(t, "[number(42)]")
	if arr, ok := got.(pattern.Array); !ok || arr.HasCount {
		t.Errorf("Parse([number(42)]) = %#v, want element-pattern array", got)
	}
}

func TestParseArrayEmptyAndAny(t *testing.T) {
	got := mustParse(t, "[]")
	if !got.Equal(pattern.ArrayWithCount(pattern.ExactCount(0))) {
		t.Errorf("Parse([]) = %#v", got)
	}
	got = mustParse(t, "[*]")
	if !got.Equal(pattern.AnyArray()) {
		t.Errorf("Parse([*]) = %#v", got)
	}
}

func TestParseArrayMultiElementBuildsSequence(t *testing.T) {
	got, err := Parse("[(any)*, number(42), (any)*]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	arr, ok := got.(pattern.Array)
	if !ok {
		t.Fatalf("got %#v, want Array", got)
	}
	seq, ok := arr.Element.(pattern.Sequence)
	if !ok {
		t.Fatalf("got element %#v, want Sequence", arr.Element)
	}
	if len(seq.Subs) != 3 {
		t.Fatalf("got %d seq elements, want 3", len(seq.Subs))
	}
}

func TestParseQuantifiers(t *testing.T) {
	tests := []struct {
		src     string
		min     int
		max     int
		lazy    bool
		poss    bool
	}{
		{"any*", 0, -1, false, false},
		{"any+", 1, -1, false, false},
		{"any?", 0, 1, false, false},
		{"any*?", 0, -1, true, false},
		{"any*+", 0, -1, false, true},
		{"any{3}", 3, 3, false, false},
		{"any{2,5}", 2, 5, false, false},
		{"any{2,}", 2, -1, false, false},
	}
	for _, tt := range tests {
		got := mustParse(t, tt.src)
		rep, ok := got.(pattern.Repeat)
		if !ok {
			t.Fatalf("Parse(%q) = %#v, want Repeat", tt.src, got)
		}
		if rep.Quant.Min != tt.min || rep.Quant.Max != tt.max {
			t.Errorf("Parse(%q): got {%d,%d}, want {%d,%d}", tt.src, rep.Quant.Min, rep.Quant.Max, tt.min, tt.max)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	// '&' binds tighter than '|': "a|b&c" == Or(a, And(b,c))
	got := mustParse(t, "true|false&null")
	or, ok := got.(pattern.Or)
	if !ok || len(or.Subs) != 2 {
		t.Fatalf("got %#v, want 2-arm Or", got)
	}
	if _, ok := or.Subs[1].(pattern.And); !ok {
		t.Errorf("second arm = %#v, want And", or.Subs[1])
	}
}

func TestParseSequenceOperator(t *testing.T) {
	got := mustParse(t, "true>false>null")
	seq, ok := got.(pattern.Sequence)
	if !ok || len(seq.Subs) != 3 {
		t.Fatalf("got %#v, want 3-item Sequence", got)
	}
}

func TestParseCaptureAndSearch(t *testing.T) {
	got := mustParse(t, "@item(number)")
	cap, ok := got.(pattern.Capture)
	if !ok || cap.Name != "item" {
		t.Fatalf("got %#v", got)
	}
	got = mustParse(t, "search(number(42))")
	if _, ok := got.(pattern.Search); !ok {
		t.Fatalf("got %#v, want Search", got)
	}
}

func TestParseHexBodies(t *testing.T) {
	got := mustParse(t, "digest(1a2b3c...)")
	dg, ok := got.(pattern.Digest)
	if !ok || dg.DKind != pattern.DigestHexPrefix || dg.Hex != "1a2b3c" {
		t.Fatalf("got %#v", got)
	}
	got = mustParse(t, "bytes(deadbeef)")
	bs, ok := got.(pattern.ByteString)
	if !ok || bs.BKind != pattern.BytesExact {
		t.Fatalf("got %#v", got)
	}
}

func TestParseExtraDataError(t *testing.T) {
	_, err := Parse("true extra")
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("got %v, want *Error", err)
	}
	if perr.Kind != ExtraData {
		t.Errorf("got kind %v, want ExtraData", perr.Kind)
	}
}

func TestParsePartialReportsConsumed(t *testing.T) {
	pat, n, err := ParsePartial("true extra")
	if err != nil {
		t.Fatalf("ParsePartial: %v", err)
	}
	if !pat.Equal(pattern.ExactBool(true)) {
		t.Errorf("got %#v, want true", pat)
	}
	if n != 5 {
		t.Errorf("got consumed=%d, want 5", n)
	}
}

func TestParseUnknownIdentifierError(t *testing.T) {
	_, err := Parse("bogus")
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("got %v, want *Error", err)
	}
	if perr.Kind != UnknownIdentifier {
		t.Errorf("got kind %v, want UnknownIdentifier", perr.Kind)
	}
}

func TestParseMapConstraints(t *testing.T) {
	got := mustParse(t, `{"k":number}`)
	m, ok := got.(pattern.Map)
	if !ok || len(m.Constraints) != 1 {
		t.Fatalf("got %#v", got)
	}
	got = mustParse(t, "{*}")
	if !got.Equal(pattern.AnyMap()) {
		t.Fatalf("got %#v", got)
	}
	got = mustParse(t, "{{2,4}}")
	if !got.Equal(pattern.MapWithCount(pattern.CountSpec{Min: 2, Max: 4})) {
		t.Fatalf("got %#v", got)
	}
}
