package pattern

import (
	"fmt"
	"time"

	coreregex "github.com/coregx/coregex"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
)

// DateKind discriminates the variant form a Date pattern takes.
type DateKind uint8

const (
	DateAny DateKind = iota
	DateExact
	DateRange
	DateEarliest // matches dates on or after Bound
	DateLatest   // matches dates on or before Bound
	DateRegex
)

// Date matches date(...): operates only on values tagged with
// cbor.DateTag whose content decodes to a date. time.Time/RFC3339 is used
// as the in-memory representation and ISO-8601 source form — no library in
// the retrieved pack touches dates at all, and time.Parse/time.Time are
// themselves the idiomatic, not-worth-wrapping way to do this in Go.
type Date struct {
	DKind    DateKind
	Exact    time.Time
	Lo, Hi   time.Time
	Bound    time.Time
	RegexSrc string
	re       *coreregex.Regex
}

func AnyDate() Date                      { return Date{DKind: DateAny} }
func ExactDate(t time.Time) Date         { return Date{DKind: DateExact, Exact: t} }
func DateRangeValue(lo, hi time.Time) Date { return Date{DKind: DateRange, Lo: lo, Hi: hi} }
func EarliestDate(t time.Time) Date      { return Date{DKind: DateEarliest, Bound: t} }
func LatestDate(t time.Time) Date        { return Date{DKind: DateLatest, Bound: t} }

func DateRegexPattern(src string) (Date, error) {
	re, err := coreregex.Compile(src)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date regex %q: %w", src, err)
	}
	return Date{DKind: DateRegex, RegexSrc: src, re: re}, nil
}

func (Date) Kind() Kind { return KindDate }

func (d Date) Equal(other Pattern) bool {
	o, ok := other.(Date)
	if !ok || o.DKind != d.DKind {
		return false
	}
	switch d.DKind {
	case DateExact:
		return o.Exact.Equal(d.Exact)
	case DateRange:
		return o.Lo.Equal(d.Lo) && o.Hi.Equal(d.Hi)
	case DateEarliest, DateLatest:
		return o.Bound.Equal(d.Bound)
	case DateRegex:
		return o.RegexSrc == d.RegexSrc
	default:
		return true
	}
}

// decodeDate extracts the date carried by a tag-1 value, or ok=false if v
// isn't tag 1 or its payload doesn't decode to a valid instant.
func decodeDate(v cbor.Value) (time.Time, bool) {
	if v.Kind() != cbor.KindTagged || v.Tag() != cbor.DateTag {
		return time.Time{}, false
	}
	content := v.TagContent()
	switch content.Kind() {
	case cbor.KindInt:
		return time.Unix(content.Int(), 0).UTC(), true
	case cbor.KindFloat:
		secs := content.Float()
		whole := int64(secs)
		frac := secs - float64(whole)
		return time.Unix(whole, int64(frac*1e9)).UTC(), true
	case cbor.KindText:
		t, err := time.Parse(time.RFC3339, content.Text())
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	default:
		return time.Time{}, false
	}
}

func (d Date) Matches(v cbor.Value) bool {
	t, ok := decodeDate(v)
	if !ok {
		return false
	}
	switch d.DKind {
	case DateAny:
		return true
	case DateExact:
		return t.Equal(d.Exact)
	case DateRange:
		return !t.Before(d.Lo) && !t.After(d.Hi)
	case DateEarliest:
		return !t.Before(d.Bound)
	case DateLatest:
		return !t.After(d.Bound)
	case DateRegex:
		return d.re != nil && d.re.MatchString(t.Format(time.RFC3339))
	default:
		return false
	}
}
