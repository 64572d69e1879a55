package pattern

import (
	"math"
	"testing"
	"time"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
)

func TestNumberMatches(t *testing.T) {
	tests := []struct {
		name string
		p    Number
		v    cbor.Value
		want bool
	}{
		{"any matches int", AnyNumber(), cbor.Int(5), true},
		{"any rejects text", AnyNumber(), cbor.Text("5"), false},
		{"exact matches", ExactNumber(42), cbor.Int(42), true},
		{"exact rejects", ExactNumber(42), cbor.Int(41), false},
		{"range inclusive lo", NumberRange(1, 10), cbor.Int(1), true},
		{"range inclusive hi", NumberRange(1, 10), cbor.Int(10), true},
		{"range excludes below", NumberRange(1, 10), cbor.Int(0), false},
		{"gt", NumberGreaterThan(5), cbor.Int(6), true},
		{"gt boundary fails", NumberGreaterThan(5), cbor.Int(5), false},
		{"ge boundary passes", NumberGreaterEqual(5), cbor.Int(5), true},
		{"lt", NumberLessThan(5), cbor.Int(4), true},
		{"le boundary", NumberLessEqual(5), cbor.Int(5), true},
		{"NaN only matches NaN", NumberNaN(), cbor.Float(math.NaN()), true},
		{"NaN pattern rejects ordinary float", NumberNaN(), cbor.Float(1.0), false},
		{"range never matches NaN", NumberRange(0, 10), cbor.Float(math.NaN()), false},
		{"posInf", NumberPosInf(), cbor.Float(math.Inf(1)), true},
		{"negInf", NumberNegInf(), cbor.Float(math.Inf(-1)), true},
		{"int/float compare by value", ExactNumber(3), cbor.Float(3.0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Matches(tt.v); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestNumberEqualTreatsNaNAsEqualToItself(t *testing.T) {
	a := ExactNumber(math.NaN())
	b := ExactNumber(math.NaN())
	if !a.Equal(b) {
		t.Error("two NaN-exact number patterns should be structurally equal")
	}
}

func TestTextMatches(t *testing.T) {
	re, err := TextRegexPattern(`^a.*z$`)
	if err != nil {
		t.Fatalf("TextRegexPattern: %v", err)
	}
	tests := []struct {
		name string
		p    Text
		v    cbor.Value
		want bool
	}{
		{"any", AnyText(), cbor.Text("whatever"), true},
		{"exact match", ExactText("hi"), cbor.Text("hi"), true},
		{"exact mismatch", ExactText("hi"), cbor.Text("ho"), false},
		{"regex match", re, cbor.Text("abcz"), true},
		{"regex no match", re, cbor.Text("abc"), false},
		{"wrong kind", AnyText(), cbor.Int(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Matches(tt.v); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestByteStringMatches(t *testing.T) {
	re, err := ByteStringRegexHex(`^de`)
	if err != nil {
		t.Fatalf("ByteStringRegexHex: %v", err)
	}
	tests := []struct {
		name string
		p    ByteString
		v    cbor.Value
		want bool
	}{
		{"any", AnyByteString(), cbor.Bytes([]byte{1}), true},
		{"exact match", ExactByteString([]byte{0xde, 0xad}), cbor.Bytes([]byte{0xde, 0xad}), true},
		{"exact mismatch length", ExactByteString([]byte{0xde, 0xad}), cbor.Bytes([]byte{0xde}), false},
		{"regex over hex", re, cbor.Bytes([]byte{0xde, 0xad, 0xbe, 0xef}), true},
		{"regex over hex no match", re, cbor.Bytes([]byte{0xab}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Matches(tt.v); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestDateMatches(t *testing.T) {
	day := func(s string) cbor.Value {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("time.Parse(%q): %v", s, err)
		}
		return cbor.Tagged(cbor.DateTag, cbor.Text(ts.Format(time.RFC3339)))
	}
	lo, _ := time.Parse(time.RFC3339, "2023-12-24T00:00:00Z")
	hi, _ := time.Parse(time.RFC3339, "2023-12-26T00:00:00Z")
	rangeP := DateRangeValue(lo, hi)

	if !rangeP.Matches(day("2023-12-25T00:00:00Z")) {
		t.Error("date in range should match")
	}
	if rangeP.Matches(day("2023-12-27T00:00:00Z")) {
		t.Error("date outside range should not match")
	}
	if rangeP.Matches(cbor.Text("not tagged")) {
		t.Error("non-tag-1 value should never match a date pattern")
	}
	if rangeP.Matches(cbor.Tagged(2, cbor.Text("2023-12-25T00:00:00Z"))) {
		t.Error("tag other than 1 should not match date pattern")
	}
}

func TestDigestMatches(t *testing.T) {
	hx, err := DigestExactHexPattern("deadbeef")
	if err != nil {
		t.Fatalf("DigestExactHexPattern: %v", err)
	}
	if !hx.Matches(cbor.Bytes([]byte{0xde, 0xad, 0xbe, 0xef})) {
		t.Error("exact digest hex should match")
	}
	prefix, err := DigestHexPrefixPattern("dead")
	if err != nil {
		t.Fatalf("DigestHexPrefixPattern: %v", err)
	}
	if !prefix.Matches(cbor.Bytes([]byte{0xde, 0xad, 0xbe, 0xef})) {
		t.Error("hex-prefix digest should match")
	}
	// digests are frequently wrapped in a tag; the matcher unwraps transparently.
	if !hx.Matches(cbor.Tagged(99, cbor.Bytes([]byte{0xde, 0xad, 0xbe, 0xef}))) {
		t.Error("digest pattern should unwrap a tag wrapper")
	}
}

func TestDigestInvalidHex(t *testing.T) {
	if _, err := DigestExactHexPattern("abc"); err == nil {
		t.Error("odd-length hex should be rejected")
	}
	if _, err := DigestExactHexPattern("zz"); err == nil {
		t.Error("non-hex digits should be rejected")
	}
}

func TestKnownValueMatches(t *testing.T) {
	old := Resolver
	defer func() { Resolver = old }()
	Resolver = func(id uint64) (string, bool) {
		if id == 1 {
			return "isA", true
		}
		return "", false
	}
	re, err := KnownValueNameRegexPattern("^is")
	if err != nil {
		t.Fatalf("KnownValueNameRegexPattern: %v", err)
	}
	if !re.Matches(cbor.Int(1)) {
		t.Error("known-value name regex should match via Resolver")
	}
	if re.Matches(cbor.Int(2)) {
		t.Error("unresolvable id should not match")
	}
	if !ExactKnownValue(7).Matches(cbor.Int(7)) {
		t.Error("exact known-value id should match")
	}
}
