package pattern

import (
	"fmt"
	"math"

	coreregex "github.com/coregx/coregex"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
)

// Bool matches bool(any | exact b).
type Bool struct {
	Any      bool
	HasExact bool
	Exact    bool
}

func AnyBool() Bool             { return Bool{Any: true} }
func ExactBool(b bool) Bool     { return Bool{HasExact: true, Exact: b} }

func (Bool) Kind() Kind { return KindBool }

func (b Bool) Equal(other Pattern) bool {
	o, ok := other.(Bool)
	return ok && o.Any == b.Any && o.HasExact == b.HasExact && o.Exact == b.Exact
}

func (b Bool) Matches(v cbor.Value) bool {
	if v.Kind() != cbor.KindBool {
		return false
	}
	if b.Any {
		return true
	}
	return b.HasExact && v.Bool() == b.Exact
}

// NumberKind discriminates the variant form a Number pattern takes.
type NumberKind uint8

const (
	NumAny NumberKind = iota
	NumExact
	NumRange
	NumGreaterThan
	NumGreaterEqual
	NumLessThan
	NumLessEqual
	NumNaN
	NumPosInf
	NumNegInf
)

// Number matches number(...). Comparisons use IEEE-754 total
// order; NaN fails every ordered comparison and range test, and is only
// ever equal to the NumNaN variant.
type Number struct {
	NKind NumberKind
	Exact float64
	Lo    float64
	Hi    float64
	Bound float64
}

func AnyNumber() Number                    { return Number{NKind: NumAny} }
func ExactNumber(n float64) Number         { return Number{NKind: NumExact, Exact: n} }
func NumberRange(lo, hi float64) Number    { return Number{NKind: NumRange, Lo: lo, Hi: hi} }
func NumberGreaterThan(n float64) Number   { return Number{NKind: NumGreaterThan, Bound: n} }
func NumberGreaterEqual(n float64) Number  { return Number{NKind: NumGreaterEqual, Bound: n} }
func NumberLessThan(n float64) Number      { return Number{NKind: NumLessThan, Bound: n} }
func NumberLessEqual(n float64) Number     { return Number{NKind: NumLessEqual, Bound: n} }
func NumberNaN() Number                    { return Number{NKind: NumNaN} }
func NumberPosInf() Number                 { return Number{NKind: NumPosInf} }
func NumberNegInf() Number                 { return Number{NKind: NumNegInf} }

func (Number) Kind() Kind { return KindNumber }

func (n Number) Equal(other Pattern) bool {
	o, ok := other.(Number)
	if !ok || o.NKind != n.NKind {
		return false
	}
	switch n.NKind {
	case NumExact:
		return numEq(o.Exact, n.Exact)
	case NumRange:
		return numEq(o.Lo, n.Lo) && numEq(o.Hi, n.Hi)
	case NumGreaterThan, NumGreaterEqual, NumLessThan, NumLessEqual:
		return numEq(o.Bound, n.Bound)
	default:
		return true
	}
}

func numEq(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

func (n Number) Matches(v cbor.Value) bool {
	f, ok := v.AsFloat64()
	if !ok {
		return false
	}
	switch n.NKind {
	case NumAny:
		return true
	case NumExact:
		return numEq(f, n.Exact)
	case NumRange:
		if math.IsNaN(f) {
			return false
		}
		return f >= n.Lo && f <= n.Hi
	case NumGreaterThan:
		return !math.IsNaN(f) && f > n.Bound
	case NumGreaterEqual:
		return !math.IsNaN(f) && f >= n.Bound
	case NumLessThan:
		return !math.IsNaN(f) && f < n.Bound
	case NumLessEqual:
		return !math.IsNaN(f) && f <= n.Bound
	case NumNaN:
		return math.IsNaN(f)
	case NumPosInf:
		return math.IsInf(f, 1)
	case NumNegInf:
		return math.IsInf(f, -1)
	default:
		return false
	}
}

// TextKind discriminates the variant form a Text pattern takes.
type TextKind uint8

const (
	TextAny TextKind = iota
	TextExact
	TextRegex
)

// Text matches text(any | exact s | regex r). The regex body is
// compiled through github.com/coregx/coregex.
type Text struct {
	TKind     TextKind
	Exact     string
	RegexSrc  string
	re        *coreregex.Regex
}

func AnyText() Text            { return Text{TKind: TextAny} }
func ExactText(s string) Text  { return Text{TKind: TextExact, Exact: s} }

// TextRegexPattern compiles src (the `/…/` body, already escape-unwrapped
// by the lexer) into a regex-backed Text pattern. Returns an
// InvalidRegex-class error if src fails to compile.
func TextRegexPattern(src string) (Text, error) {
	re, err := coreregex.Compile(src)
	if err != nil {
		return Text{}, fmt.Errorf("invalid regex %q: %w", src, err)
	}
	return Text{TKind: TextRegex, RegexSrc: src, re: re}, nil
}

func (Text) Kind() Kind { return KindText }

func (t Text) Equal(other Pattern) bool {
	o, ok := other.(Text)
	if !ok || o.TKind != t.TKind {
		return false
	}
	switch t.TKind {
	case TextExact:
		return o.Exact == t.Exact
	case TextRegex:
		return o.RegexSrc == t.RegexSrc
	default:
		return true
	}
}

func (t Text) Matches(v cbor.Value) bool {
	if v.Kind() != cbor.KindText {
		return false
	}
	s := v.Text()
	switch t.TKind {
	case TextAny:
		return true
	case TextExact:
		return s == t.Exact
	case TextRegex:
		return t.re != nil && t.re.MatchString(s)
	default:
		return false
	}
}

// ByteStringKind discriminates the variant form a ByteString pattern takes.
type ByteStringKind uint8

const (
	BytesAny ByteStringKind = iota
	BytesExact
	BytesRegexHex
)

// ByteString matches byte-string(any | exact bytes | regex-over-hex).
// The regex-over-hex variant matches the lowercase-hex rendering of the
// byte string's contents, the same convention digest's hex-prefix form uses.
type ByteString struct {
	BKind    ByteStringKind
	Exact    []byte
	RegexSrc string
	re       *coreregex.Regex
}

func AnyByteString() ByteString           { return ByteString{BKind: BytesAny} }
func ExactByteString(b []byte) ByteString { return ByteString{BKind: BytesExact, Exact: append([]byte(nil), b...)} }

func ByteStringRegexHex(src string) (ByteString, error) {
	re, err := coreregex.Compile(src)
	if err != nil {
		return ByteString{}, fmt.Errorf("invalid hex regex %q: %w", src, err)
	}
	return ByteString{BKind: BytesRegexHex, RegexSrc: src, re: re}, nil
}

func (ByteString) Kind() Kind { return KindByteString }

func (b ByteString) Equal(other Pattern) bool {
	o, ok := other.(ByteString)
	if !ok || o.BKind != b.BKind {
		return false
	}
	switch b.BKind {
	case BytesExact:
		if len(o.Exact) != len(b.Exact) {
			return false
		}
		for i := range o.Exact {
			if o.Exact[i] != b.Exact[i] {
				return false
			}
		}
		return true
	case BytesRegexHex:
		return o.RegexSrc == b.RegexSrc
	default:
		return true
	}
}

func (b ByteString) Matches(v cbor.Value) bool {
	if v.Kind() != cbor.KindBytes {
		return false
	}
	raw := v.BytesVal()
	switch b.BKind {
	case BytesAny:
		return true
	case BytesExact:
		if len(raw) != len(b.Exact) {
			return false
		}
		for i := range raw {
			if raw[i] != b.Exact[i] {
				return false
			}
		}
		return true
	case BytesRegexHex:
		return b.re != nil && b.re.MatchString(fmt.Sprintf("%x", raw))
	default:
		return false
	}
}

// Null matches null.
type Null struct{}

func (Null) Kind() Kind             { return KindNull }
func (Null) Equal(other Pattern) bool {
	_, ok := other.(Null)
	return ok
}
func (Null) Matches(v cbor.Value) bool { return v.Kind() == cbor.KindNull }
