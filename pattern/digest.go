package pattern

import (
	"encoding/hex"
	"strings"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
)

// DigestKind discriminates the variant form a Digest pattern takes.
type DigestKind uint8

const (
	DigestAny DigestKind = iota
	DigestHexPrefix
	DigestExactHex
)

// Digest matches digest(any | hex-prefix | exact-hex). It
// operates on a byte-string value (optionally unwrapped from a tag, since
// real-world digests are usually carried as `tag(X, bytes)` — the concrete
// tag number is a registry concern, out of this engine's scope, so any
// tag wrapper is accepted transparently).
type Digest struct {
	DKind DigestKind
	Hex   string // already lowercased
}

func AnyDigest() Digest { return Digest{DKind: DigestAny} }

// DigestHexPrefixPattern matches any digest whose hex encoding starts with
// prefix (case-insensitive on input, stored lowercased).
func DigestHexPrefixPattern(prefix string) (Digest, error) {
	if err := validateHex(prefix); err != nil {
		return Digest{}, err
	}
	return Digest{DKind: DigestHexPrefix, Hex: strings.ToLower(prefix)}, nil
}

// DigestExactHexPattern matches a digest whose full hex encoding equals hx.
func DigestExactHexPattern(hx string) (Digest, error) {
	if err := validateHex(hx); err != nil {
		return Digest{}, err
	}
	return Digest{DKind: DigestExactHex, Hex: strings.ToLower(hx)}, nil
}

func validateHex(s string) error {
	if len(s)%2 != 0 {
		return &InvalidHexError{Hex: s, Reason: "odd length"}
	}
	if _, err := hex.DecodeString(s); err != nil {
		return &InvalidHexError{Hex: s, Reason: "non-hex digits"}
	}
	return nil
}

// InvalidHexError is the pattern-construction-time form of // InvalidHex error kind.
type InvalidHexError struct {
	Hex    string
	Reason string
}

func (e *InvalidHexError) Error() string {
	return "invalid hex body " + e.Hex + ": " + e.Reason
}

func (Digest) Kind() Kind { return KindDigest }

func (d Digest) Equal(other Pattern) bool {
	o, ok := other.(Digest)
	return ok && o.DKind == d.DKind && o.Hex == d.Hex
}

func digestBytes(v cbor.Value) ([]byte, bool) {
	if v.Kind() == cbor.KindTagged {
		return digestBytes(v.TagContent())
	}
	if v.Kind() != cbor.KindBytes {
		return nil, false
	}
	return v.BytesVal(), true
}

func (d Digest) Matches(v cbor.Value) bool {
	raw, ok := digestBytes(v)
	if !ok {
		return false
	}
	switch d.DKind {
	case DigestAny:
		return true
	case DigestHexPrefix:
		return strings.HasPrefix(hex.EncodeToString(raw), d.Hex)
	case DigestExactHex:
		return hex.EncodeToString(raw) == d.Hex
	default:
		return false
	}
}
