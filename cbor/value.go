// Package cbor provides the minimal dCBOR value model the pattern engine
// matches against: a typed sum over the CBOR major types plus tag 1 (date)
// convenience helpers.
//
// This package is the engine's one external collaborator: it exists to
// give the pattern, compile, and vm packages a concrete tree to walk.
// Encoding goes through
// github.com/fxamacker/cbor/v2; decoding is hand-rolled (see decode.go) so
// that map insertion order survives the round trip, which fxamacker's
// generic interface{} decode does not guarantee.
package cbor

import (
	"bytes"
	"fmt"
	"math"
)

// Kind identifies which CBOR major type (or pseudo-type, for tagged dates)
// a Value holds.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindText
	KindBytes
	KindArray
	KindMap
	KindTagged
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindTagged:
		return "tagged"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// MapEntry is a single key/value pair of a CBOR map, in the order it was
// decoded (or constructed).
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is an immutable CBOR node. The zero Value is Bool(false), since
// KindBool is the zero Kind; use Null() for the null simple value.
//
// Only one payload field is meaningful for a given Kind; callers should
// switch on Kind before reading payload accessors.
type Value struct {
	kind Kind

	b    bool
	i    int64 // KindInt: signed magnitude; negative ints are representable directly
	f    float64
	s    string
	bs   []byte
	arr  []Value
	m    []MapEntry
	tag  uint64
	cont *Value
}

func Bool(b bool) Value                { return Value{kind: KindBool, b: b} }
func Int(i int64) Value                 { return Value{kind: KindInt, i: i} }
func Float(f float64) Value             { return Value{kind: KindFloat, f: f} }
func Text(s string) Value               { return Value{kind: KindText, s: s} }
func Bytes(b []byte) Value              { return Value{kind: KindBytes, bs: append([]byte(nil), b...)} }
func Null() Value                       { return Value{kind: KindNull} }
func Array(elems ...Value) Value        { return Value{kind: KindArray, arr: elems} }
func Map(entries ...MapEntry) Value     { return Value{kind: KindMap, m: entries} }
func Tagged(tag uint64, content Value) Value {
	c := content
	return Value{kind: KindTagged, tag: tag, cont: &c}
}

// DateTag is the CBOR tag number for dates (tag 1, epoch-based per RFC 8949
// §3.4.2). A date pattern only ever matches values tagged with this number.
const DateTag = 1

func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() bool     { return v.b }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Text() string   { return v.s }
func (v Value) BytesVal() []byte {
	return v.bs
}
func (v Value) Array() []Value    { return v.arr }
func (v Value) MapEntries() []MapEntry { return v.m }
func (v Value) Tag() uint64       { return v.tag }
func (v Value) TagContent() Value {
	if v.cont == nil {
		return Value{}
	}
	return *v.cont
}

// AsFloat64 returns the value's numeric magnitude for int or float kinds,
// and ok=false for anything else. Used by number-range predicates which
// compare across the int/float divide by mathematical value.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// IsNaN reports whether this is a float NaN.
func (v Value) IsNaN() bool {
	return v.kind == KindFloat && math.IsNaN(v.f)
}

// Equal reports whether two values are structurally identical: same kind,
// same payload (recursively, preserving array/map order), same tag.
//
// This is the equality uses for Path identity and pattern/result
// deduplication: it is the equality operator backing every dedup set in
// collector and vm.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindText:
		return v.s == o.s
	case KindBytes:
		return bytes.Equal(v.bs, o.bs)
	case KindNull:
		return true
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for i := range v.m {
			if !v.m[i].Key.Equal(o.m[i].Key) || !v.m[i].Value.Equal(o.m[i].Value) {
				return false
			}
		}
		return true
	case KindTagged:
		return v.tag == o.tag && v.TagContent().Equal(o.TagContent())
	default:
		return false
	}
}

// String renders a compact debug form, used in test failure messages —
// never by the formatter, which renders patterns, not values.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindText:
		return fmt.Sprintf("%q", v.s)
	case KindBytes:
		return fmt.Sprintf("h'%x'", v.bs)
	case KindNull:
		return "null"
	case KindArray:
		s := "["
		for i, e := range v.arr {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	case KindMap:
		s := "{"
		for i, e := range v.m {
			if i > 0 {
				s += ", "
			}
			s += e.Key.String() + ": " + e.Value.String()
		}
		return s + "}"
	case KindTagged:
		return fmt.Sprintf("%d(%s)", v.tag, v.TagContent().String())
	default:
		return "?"
	}
}
