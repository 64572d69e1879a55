package pattern

import (
	"fmt"

	coreregex "github.com/coregx/coregex"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
)

// KnownValueKind discriminates the variant form a KnownValue pattern takes.
type KnownValueKind uint8

const (
	KnownAny KnownValueKind = iota
	KnownExact
	KnownNameRegex
)

// KnownValueResolver maps a known-value's numeric identifier to its
// registered name. Known-value name-registry lookup is an external
// collaborator per ("tag-registry lookup... pure adapters built
// on top of the core"); this engine defines the matching shape and calls
// out to a resolver a caller supplies, rather than bundling a registry.
type KnownValueResolver func(id uint64) (name string, ok bool)

// KnownValue matches known-value(any | exact | name-regex). Its
// wire representation is a plain unsigned integer (the known-value
// identifier), optionally tag-wrapped by a higher-level envelope format —
// both are accepted transparently, mirroring Digest's tag-unwrapping.
type KnownValue struct {
	KKind    KnownValueKind
	ExactID  uint64
	RegexSrc string
	re       *coreregex.Regex
}

func AnyKnownValue() KnownValue                 { return KnownValue{KKind: KnownAny} }
func ExactKnownValue(id uint64) KnownValue      { return KnownValue{KKind: KnownExact, ExactID: id} }

func KnownValueNameRegexPattern(src string) (KnownValue, error) {
	re, err := coreregex.Compile(src)
	if err != nil {
		return KnownValue{}, fmt.Errorf("invalid known-value name regex %q: %w", src, err)
	}
	return KnownValue{KKind: KnownNameRegex, RegexSrc: src, re: re}, nil
}

func (KnownValue) Kind() Kind { return KindKnownValue }

func (k KnownValue) Equal(other Pattern) bool {
	o, ok := other.(KnownValue)
	if !ok || o.KKind != k.KKind {
		return false
	}
	switch k.KKind {
	case KnownExact:
		return o.ExactID == k.ExactID
	case KnownNameRegex:
		return o.RegexSrc == k.RegexSrc
	default:
		return true
	}
}

func knownValueID(v cbor.Value) (uint64, bool) {
	if v.Kind() == cbor.KindTagged {
		return knownValueID(v.TagContent())
	}
	if v.Kind() != cbor.KindInt || v.Int() < 0 {
		return 0, false
	}
	return uint64(v.Int()), true
}

// Resolver, when non-nil, is consulted by KnownValue's NameRegex variant.
// It is a package-level hook (not a Matches parameter) so that pattern
// trees stay plain value types per and vm.Run's signature stays
// (program, root) with no extra threading of registry state through every
// call — set it once at program startup, same as how a time.Location
// default is configured process-wide.
var Resolver KnownValueResolver

func (k KnownValue) Matches(v cbor.Value) bool {
	id, ok := knownValueID(v)
	if !ok {
		return false
	}
	switch k.KKind {
	case KnownAny:
		return true
	case KnownExact:
		return id == k.ExactID
	case KnownNameRegex:
		if k.re == nil || Resolver == nil {
			return false
		}
		name, ok := Resolver(id)
		return ok && k.re.MatchString(name)
	default:
		return false
	}
}
