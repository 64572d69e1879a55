package pattern

import (
	"fmt"

	coreregex "github.com/coregx/coregex"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
)

// CountSpec bounds a container's entry count.
// Max of quant.Unbounded's sentinel value (-1) means "no upper bound" (the
// `INT ','` form of count_spec with a trailing comma: `{min,}`).
type CountSpec struct {
	Min int
	Max int // -1 = unbounded
}

func ExactCount(n int) CountSpec    { return CountSpec{Min: n, Max: n} }
func CountRange(min, max int) CountSpec { return CountSpec{Min: min, Max: max} }
func CountAtLeast(min int) CountSpec { return CountSpec{Min: min, Max: -1} }

func (c CountSpec) contains(n int) bool {
	if n < c.Min {
		return false
	}
	return c.Max == -1 || n <= c.Max
}

func (a CountSpec) equal(b CountSpec) bool { return a == b }

// Array matches array(any | exact-count | count-range |
// element-pattern P). Exactly one of Any/Count/Element should be set by a
// well-formed pattern. The parser sets Element to a Sequence for a comma
// list and to the bare item for a single one; the VM treats a bare
// element that is neither a Sequence nor a Repeat as a greedy `*` repeat
// of it, so it must match every element of the array.
type Array struct {
	Any      bool
	HasCount bool
	Count    CountSpec
	Element  Pattern // nil unless an element-pattern constraint is present
}

func AnyArray() Array { return Array{Any: true} }

func ArrayWithCount(c CountSpec) Array { return Array{HasCount: true, Count: c} }

func ArrayWithElement(p Pattern) Array { return Array{Element: p} }

func (Array) Kind() Kind { return KindArray }

func (a Array) Equal(other Pattern) bool {
	o, ok := other.(Array)
	if !ok || o.Any != a.Any || o.HasCount != a.HasCount {
		return false
	}
	if a.HasCount && !o.Count.equal(a.Count) {
		return false
	}
	return childEqual(a.Element, o.Element)
}

// Matches handles the Any and count-only forms directly. When an element
// pattern is present, the true answer requires the VM's sequence-matching
// machinery —
// this conservatively returns false so callers routing through vm.Run
// always get the authoritative answer, and callers that only care about
// shape (no element pattern) still get a fast, correct answer here.
func (a Array) Matches(v cbor.Value) bool {
	if v.Kind() != cbor.KindArray {
		return false
	}
	if a.Any {
		return true
	}
	if a.HasCount {
		return a.Count.contains(len(v.Array()))
	}
	return false
}

// KV is one key/value constraint of a Map pattern.
type KV struct {
	Key   Pattern
	Value Pattern
}

// Map matches map(any | exact-count | count-range | set of
// (keyPattern -> valuePattern) constraints). The same entry may satisfy
// multiple constraints (no uniqueness requirement), implemented in Matches
// via a plain per-constraint scan.
type Map struct {
	Any         bool
	HasCount    bool
	Count       CountSpec
	Constraints []KV
}

func AnyMap() Map { return Map{Any: true} }

func MapWithCount(c CountSpec) Map { return Map{HasCount: true, Count: c} }

func MapWithConstraints(kvs []KV) Map { return Map{Constraints: kvs} }

func (Map) Kind() Kind { return KindMap }

func (m Map) Equal(other Pattern) bool {
	o, ok := other.(Map)
	if !ok || o.Any != m.Any || o.HasCount != m.HasCount {
		return false
	}
	if m.HasCount && !o.Count.equal(m.Count) {
		return false
	}
	if len(o.Constraints) != len(m.Constraints) {
		return false
	}
	for i := range m.Constraints {
		if !m.Constraints[i].Key.Equal(o.Constraints[i].Key) ||
			!m.Constraints[i].Value.Equal(o.Constraints[i].Value) {
			return false
		}
	}
	return true
}

func (m Map) Matches(v cbor.Value) bool {
	if v.Kind() != cbor.KindMap {
		return false
	}
	entries := v.MapEntries()
	if m.Any {
		return true
	}
	if m.HasCount {
		return m.Count.contains(len(entries))
	}
	for _, c := range m.Constraints {
		satisfied := false
		for _, e := range entries {
			if c.Key.Matches(e.Key) && c.Value.Matches(e.Value) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// Tagged matches tagged(any | tag=T content=P | tag-name-regex
// content=P). Tag-name resolution (mapping a tag number to a registered
// name to match against a regex) is the same external-registry concern as
// KnownValue's NameRegex form, and is served by its own hook, TagResolver,
// shaped like the Resolver hook KnownValue uses.
type Tagged struct {
	Any          bool
	HasTag       bool
	Tag          uint64
	TagNameRegex *TagNameRegex
	Content      Pattern
}

type TagNameRegex struct {
	Src string
	re  *coreregex.Regex
}

// MatchString reports whether a resolved tag name satisfies the regex.
func (t *TagNameRegex) MatchString(s string) bool {
	return t != nil && t.re != nil && t.re.MatchString(s)
}

func AnyTagged() Tagged { return Tagged{Any: true} }

func TaggedWithTag(tag uint64, content Pattern) Tagged {
	return Tagged{HasTag: true, Tag: tag, Content: content}
}

// TaggedWithTagNameRegex compiles src and builds a tag-name-regex tagged
// pattern, resolving each candidate value's tag number via TagResolver at
// match time.
func TaggedWithTagNameRegex(src string, content Pattern) (Tagged, error) {
	re, err := coreregex.Compile(src)
	if err != nil {
		return Tagged{}, fmt.Errorf("invalid tag-name regex %q: %w", src, err)
	}
	return Tagged{TagNameRegex: &TagNameRegex{Src: src, re: re}, Content: content}, nil
}

func (Tagged) Kind() Kind { return KindTagged }

func (t Tagged) Equal(other Pattern) bool {
	o, ok := other.(Tagged)
	if !ok || o.Any != t.Any || o.HasTag != t.HasTag {
		return false
	}
	if t.HasTag && o.Tag != t.Tag {
		return false
	}
	if (t.TagNameRegex == nil) != (o.TagNameRegex == nil) {
		return false
	}
	if t.TagNameRegex != nil && t.TagNameRegex.Src != o.TagNameRegex.Src {
		return false
	}
	return childEqual(t.Content, o.Content)
}

func (t Tagged) Matches(v cbor.Value) bool {
	if v.Kind() != cbor.KindTagged {
		return false
	}
	if t.Any {
		return true
	}
	if t.HasTag {
		if v.Tag() != t.Tag {
			return false
		}
	} else if t.TagNameRegex != nil {
		if t.TagNameRegex.re == nil || TagResolver == nil {
			return false
		}
		name, ok := TagResolver(v.Tag())
		if !ok || !t.TagNameRegex.re.MatchString(name) {
			return false
		}
	}
	if t.Content == nil {
		return true
	}
	return t.Content.Matches(v.TagContent())
}

// TagResolver maps a tag number to its registered name, mirroring
// KnownValueResolver. Nil by default (no registry wired in).
var TagResolver func(tag uint64) (name string, ok bool)
