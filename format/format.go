// Package format renders a pattern tree back to its canonical surface
// form: no whitespace around operators, comma-separated
// array sequences, and quantifier suffixes matching the parser's
// grammar exactly, so that parse(display(P)) = P.
package format

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/quant"
)

// Display renders p in canonical form.
func Display(p pattern.Pattern) string {
	var sb strings.Builder
	write(&sb, p)
	return sb.String()
}

func write(sb *strings.Builder, p pattern.Pattern) {
	switch v := p.(type) {
	case pattern.Bool:
		writeBool(sb, v)
	case pattern.Number:
		writeNumber(sb, v)
	case pattern.Text:
		writeText(sb, v)
	case pattern.ByteString:
		writeBytes(sb, v)
	case pattern.Date:
		writeDate(sb, v)
	case pattern.Digest:
		writeDigest(sb, v)
	case pattern.KnownValue:
		writeKnown(sb, v)
	case pattern.Null:
		sb.WriteString("null")
	case pattern.Array:
		writeArray(sb, v)
	case pattern.Map:
		writeMap(sb, v)
	case pattern.Tagged:
		writeTagged(sb, v)
	case pattern.Any:
		sb.WriteString("any")
	case pattern.None:
		sb.WriteString("none")
	case pattern.And:
		writeJoined(sb, v.Subs, "&", isOrKind)
	case pattern.Or:
		writeJoined(sb, v.Subs, "|", func(pattern.Kind) bool { return false })
	case pattern.Not:
		sb.WriteString("!")
		writeGrouped(sb, v.Sub, isAndOrOrSeq)
	case pattern.Sequence:
		writeJoined(sb, v.Subs, ">", isAndOrKind)
	case pattern.Capture:
		sb.WriteString("@")
		sb.WriteString(v.Name)
		sb.WriteString("(")
		write(sb, v.Sub)
		sb.WriteString(")")
	case pattern.Search:
		sb.WriteString("search(")
		write(sb, v.Sub)
		sb.WriteString(")")
	case pattern.Repeat:
		writeGrouped(sb, v.Sub, needsGroupAsPrimary)
		writeQuantifier(sb, v.Quant)
	}
}

func isOrKind(k pattern.Kind) bool { return k == pattern.KindOr }

func isAndOrOrSeq(k pattern.Kind) bool {
	return k == pattern.KindAnd || k == pattern.KindOr || k == pattern.KindSequence
}

func isAndOrKind(k pattern.Kind) bool {
	return k == pattern.KindAnd || k == pattern.KindOr
}

func needsGroupAsPrimary(k pattern.Kind) bool {
	switch k {
	case pattern.KindAnd, pattern.KindOr, pattern.KindNot, pattern.KindSequence, pattern.KindRepeat:
		return true
	default:
		return false
	}
}

func writeJoined(sb *strings.Builder, subs []pattern.Pattern, op string, needsParen func(pattern.Kind) bool) {
	for i, s := range subs {
		if i > 0 {
			sb.WriteString(op)
		}
		writeGrouped(sb, s, needsParen)
	}
}

func writeGrouped(sb *strings.Builder, p pattern.Pattern, needsParen func(pattern.Kind) bool) {
	if needsParen(p.Kind()) {
		sb.WriteString("(")
		write(sb, p)
		sb.WriteString(")")
	} else {
		write(sb, p)
	}
}

func writeQuantifier(sb *strings.Builder, q quant.Quantifier) {
	switch {
	case q.Min == 0 && q.Max == quant.Unbounded:
		sb.WriteString("*")
	case q.Min == 1 && q.Max == quant.Unbounded:
		sb.WriteString("+")
	case q.Min == 0 && q.Max == 1:
		sb.WriteString("?")
	default:
		sb.WriteString("{")
		sb.WriteString(strconv.Itoa(q.Min))
		if q.Max != q.Min {
			sb.WriteString(",")
			if q.Max != quant.Unbounded {
				sb.WriteString(strconv.Itoa(q.Max))
			}
		}
		sb.WriteString("}")
	}
	switch q.Reluctance {
	case quant.Lazy:
		sb.WriteString("?")
	case quant.Possessive:
		sb.WriteString("+")
	}
}

func writeBool(sb *strings.Builder, b pattern.Bool) {
	switch {
	case b.Any:
		sb.WriteString("bool")
	case b.Exact:
		sb.WriteString("true")
	default:
		sb.WriteString("false")
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func writeNumber(sb *strings.Builder, n pattern.Number) {
	switch n.NKind {
	case pattern.NumAny:
		sb.WriteString("number")
	case pattern.NumExact:
		sb.WriteString(formatFloat(n.Exact))
	case pattern.NumRange:
		sb.WriteString("number(")
		sb.WriteString(formatFloat(n.Lo))
		sb.WriteString("...")
		sb.WriteString(formatFloat(n.Hi))
		sb.WriteString(")")
	case pattern.NumGreaterThan:
		sb.WriteString("number(>")
		sb.WriteString(formatFloat(n.Bound))
		sb.WriteString(")")
	case pattern.NumGreaterEqual:
		sb.WriteString("number(>=")
		sb.WriteString(formatFloat(n.Bound))
		sb.WriteString(")")
	case pattern.NumLessThan:
		sb.WriteString("number(<")
		sb.WriteString(formatFloat(n.Bound))
		sb.WriteString(")")
	case pattern.NumLessEqual:
		sb.WriteString("number(<=")
		sb.WriteString(formatFloat(n.Bound))
		sb.WriteString(")")
	case pattern.NumNaN:
		sb.WriteString("number(NaN)")
	case pattern.NumPosInf:
		sb.WriteString("number(Infinity)")
	case pattern.NumNegInf:
		sb.WriteString("number(-Infinity)")
	}
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteString(`"`)
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(`"`)
	return sb.String()
}

// escapeRegexBody re-escapes a literal '/' so the lexer's escape-
// preserving `/…/` scanner (lex.scanRegex) reads it back as the same
// body, rather than treating it as the closing delimiter.
func escapeRegexBody(src string) string {
	return strings.ReplaceAll(src, "/", `\/`)
}

func writeText(sb *strings.Builder, t pattern.Text) {
	switch t.TKind {
	case pattern.TextAny:
		sb.WriteString("text")
	case pattern.TextExact:
		sb.WriteString(quoteString(t.Exact))
	case pattern.TextRegex:
		sb.WriteString("text(/")
		sb.WriteString(escapeRegexBody(t.RegexSrc))
		sb.WriteString("/)")
	}
}

func writeBytes(sb *strings.Builder, b pattern.ByteString) {
	switch b.BKind {
	case pattern.BytesAny:
		sb.WriteString("bytes")
	case pattern.BytesExact:
		sb.WriteString("bytes(")
		sb.WriteString(hex.EncodeToString(b.Exact))
		sb.WriteString(")")
	case pattern.BytesRegexHex:
		sb.WriteString("bytes(/")
		sb.WriteString(escapeRegexBody(b.RegexSrc))
		sb.WriteString("/)")
	}
}

func dateLiteral(t time.Time) string { return quoteString(t.UTC().Format(time.RFC3339)) }

func writeDate(sb *strings.Builder, d pattern.Date) {
	switch d.DKind {
	case pattern.DateAny:
		sb.WriteString("date")
	case pattern.DateExact:
		sb.WriteString("date(")
		sb.WriteString(dateLiteral(d.Exact))
		sb.WriteString(")")
	case pattern.DateRange:
		sb.WriteString("date(")
		sb.WriteString(dateLiteral(d.Lo))
		sb.WriteString("...")
		sb.WriteString(dateLiteral(d.Hi))
		sb.WriteString(")")
	case pattern.DateEarliest:
		sb.WriteString("date(")
		sb.WriteString(dateLiteral(d.Bound))
		sb.WriteString("...)")
	case pattern.DateLatest:
		sb.WriteString("date(...")
		sb.WriteString(dateLiteral(d.Bound))
		sb.WriteString(")")
	case pattern.DateRegex:
		sb.WriteString("date(/")
		sb.WriteString(escapeRegexBody(d.RegexSrc))
		sb.WriteString("/)")
	}
}

func writeDigest(sb *strings.Builder, d pattern.Digest) {
	switch d.DKind {
	case pattern.DigestAny:
		sb.WriteString("digest")
	case pattern.DigestHexPrefix:
		sb.WriteString("digest(")
		sb.WriteString(d.Hex)
		sb.WriteString("...)")
	case pattern.DigestExactHex:
		sb.WriteString("digest(")
		sb.WriteString(d.Hex)
		sb.WriteString(")")
	}
}

func writeKnown(sb *strings.Builder, k pattern.KnownValue) {
	switch k.KKind {
	case pattern.KnownAny:
		sb.WriteString("known")
	case pattern.KnownExact:
		sb.WriteString("known(")
		sb.WriteString(strconv.FormatUint(k.ExactID, 10))
		sb.WriteString(")")
	case pattern.KnownNameRegex:
		sb.WriteString("known(/")
		sb.WriteString(escapeRegexBody(k.RegexSrc))
		sb.WriteString("/)")
	}
}

func writeCountSpec(sb *strings.Builder, c pattern.CountSpec) {
	sb.WriteString(strconv.Itoa(c.Min))
	if c.Max != c.Min {
		sb.WriteString(",")
		if c.Max != -1 {
			sb.WriteString(strconv.Itoa(c.Max))
		}
	}
}

func writeArray(sb *strings.Builder, a pattern.Array) {
	sb.WriteString("[")
	switch {
	case a.Any:
		sb.WriteString("*")
	case a.HasCount && a.Count.Min == 0 && a.Count.Max == 0:
		// empty array: canonical spelling is "[]", not "[0]"
	case a.HasCount:
		writeCountSpec(sb, a.Count)
	case a.Element != nil:
		if seq, ok := a.Element.(pattern.Sequence); ok {
			for i, s := range seq.Subs {
				if i > 0 {
					sb.WriteString(", ")
					write(sb, s)
				} else {
					writeFirstArrayItem(sb, s)
				}
			}
		} else {
			writeFirstArrayItem(sb, a.Element)
		}
	}
	sb.WriteString("]")
}

// writeFirstArrayItem writes the first element pattern of an array,
// parenthesized when its rendering starts with a digit: the parser reads a
// leading plain integer inside brackets as a count spec ("[42]" is an array
// of 42 elements), while "[(42)]" is an array of elements equal to 42.
func writeFirstArrayItem(sb *strings.Builder, p pattern.Pattern) {
	s := Display(p)
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "(" + s + ")"
	}
	sb.WriteString(s)
}

func writeMap(sb *strings.Builder, m pattern.Map) {
	switch {
	case m.Any:
		sb.WriteString("{*}")
	case m.HasCount:
		sb.WriteString("{{")
		writeCountSpec(sb, m.Count)
		sb.WriteString("}}")
	default:
		sb.WriteString("{")
		for i, kv := range m.Constraints {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, kv.Key)
			sb.WriteString(": ")
			write(sb, kv.Value)
		}
		sb.WriteString("}")
	}
}

func writeTagged(sb *strings.Builder, t pattern.Tagged) {
	switch {
	case t.Any:
		sb.WriteString("tagged")
	case t.HasTag:
		sb.WriteString("tagged(")
		sb.WriteString(strconv.FormatUint(t.Tag, 10))
		sb.WriteString(",")
		write(sb, t.Content)
		sb.WriteString(")")
	case t.TagNameRegex != nil:
		sb.WriteString("tagged(/")
		sb.WriteString(escapeRegexBody(t.TagNameRegex.Src))
		sb.WriteString("/,")
		write(sb, t.Content)
		sb.WriteString(")")
	}
}
