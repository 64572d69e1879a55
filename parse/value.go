package parse

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/lex"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
)

// parsePrimary implements the grammar's `primary := value | meta | group`.
func (p *parser) parsePrimary() (pattern.Pattern, error) {
	t := p.cur()
	switch t.Kind {
	case lex.LParen:
		p.advance()
		inner, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case lex.String:
		p.advance()
		return pattern.ExactText(t.Value), nil
	case lex.Number:
		n, err := parseFloatToken(t)
		if err != nil {
			return nil, err
		}
		p.advance()
		return pattern.ExactNumber(n), nil
	case lex.At:
		return p.parseCapture()
	case lex.LBracket:
		return p.parseArray()
	case lex.LBrace:
		return p.parseMap()
	case lex.Ident:
		return p.parseKeywordPrimary()
	}
	return nil, p.unexpected("pattern")
}

func (p *parser) parseKeywordPrimary() (pattern.Pattern, error) {
	t := p.cur()
	switch lowerIdent(t) {
	case "true":
		p.advance()
		return pattern.ExactBool(true), nil
	case "false":
		p.advance()
		return pattern.ExactBool(false), nil
	case "null":
		p.advance()
		return pattern.Null{}, nil
	case "any":
		p.advance()
		return pattern.Any{}, nil
	case "none":
		p.advance()
		return pattern.None{}, nil
	case "bool":
		return p.parseBool()
	case "number":
		return p.parseNumber()
	case "text":
		return p.parseText()
	case "bytes":
		return p.parseBytes()
	case "date":
		return p.parseDate()
	case "digest":
		return p.parseDigest()
	case "known":
		return p.parseKnown()
	case "tagged":
		return p.parseTagged()
	case "search":
		return p.parseSearch()
	}
	return nil, &Error{Kind: UnknownIdentifier, Offset: t.Offset, Message: "unrecognized identifier " + t.Text}
}

func (p *parser) parseBool() (pattern.Pattern, error) {
	p.advance() // 'bool'
	if p.cur().Kind != lex.LParen {
		return pattern.AnyBool(), nil
	}
	p.advance()
	b, err := p.parseBoolBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *parser) parseBoolBody() (pattern.Pattern, error) {
	t := p.cur()
	switch lowerIdent(t) {
	case "true":
		p.advance()
		return pattern.ExactBool(true), nil
	case "false":
		p.advance()
		return pattern.ExactBool(false), nil
	}
	return nil, p.unexpected("true or false")
}

func (p *parser) parseNumber() (pattern.Pattern, error) {
	p.advance() // 'number'
	if p.cur().Kind != lex.LParen {
		return pattern.AnyNumber(), nil
	}
	p.advance()
	n, err := p.parseNumBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return n, nil
}

// parseNumBody implements num_body, including the
// supplemented `+Infinity` spelling.
func (p *parser) parseNumBody() (pattern.Pattern, error) {
	switch p.cur().Kind {
	case lex.Gt:
		p.advance()
		n, err := p.parseNumLiteral()
		if err != nil {
			return nil, err
		}
		return pattern.NumberGreaterThan(n), nil
	case lex.GtEq:
		p.advance()
		n, err := p.parseNumLiteral()
		if err != nil {
			return nil, err
		}
		return pattern.NumberGreaterEqual(n), nil
	case lex.Lt:
		p.advance()
		n, err := p.parseNumLiteral()
		if err != nil {
			return nil, err
		}
		return pattern.NumberLessThan(n), nil
	case lex.LtEq:
		p.advance()
		n, err := p.parseNumLiteral()
		if err != nil {
			return nil, err
		}
		return pattern.NumberLessEqual(n), nil
	case lex.Ellipsis:
		p.advance()
		hi, err := p.parseNumLiteral()
		if err != nil {
			return nil, err
		}
		return pattern.NumberLessEqual(hi), nil
	case lex.Ident:
		switch lowerIdent(p.cur()) {
		case "nan":
			p.advance()
			return pattern.NumberNaN(), nil
		}
	}
	lo, err := p.parseNumLiteral()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == lex.Ellipsis {
		p.advance()
		if isNumLiteralStart(p.cur()) {
			hi, err := p.parseNumLiteral()
			if err != nil {
				return nil, err
			}
			return pattern.NumberRange(lo, hi), nil
		}
		return pattern.NumberGreaterEqual(lo), nil
	}
	switch {
	case math.IsInf(lo, 1):
		return pattern.NumberPosInf(), nil
	case math.IsInf(lo, -1):
		return pattern.NumberNegInf(), nil
	}
	return pattern.ExactNumber(lo), nil
}

func isNumLiteralStart(t lex.Token) bool { return t.Kind == lex.Number }

func (p *parser) parseNumLiteral() (float64, error) {
	t := p.cur()
	if t.Kind != lex.Number {
		return 0, p.unexpected("number")
	}
	n, err := parseFloatToken(t)
	if err != nil {
		return 0, err
	}
	p.advance()
	return n, nil
}

func parseFloatToken(t lex.Token) (float64, error) {
	switch strings.ToLower(t.Text) {
	case "infinity", "+infinity":
		return math.Inf(1), nil
	case "-infinity":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return 0, &Error{Kind: UnexpectedToken, Offset: t.Offset, Message: "invalid numeric literal " + t.Text}
	}
	return f, nil
}

func (p *parser) parseText() (pattern.Pattern, error) {
	p.advance() // 'text'
	if p.cur().Kind != lex.LParen {
		return pattern.AnyText(), nil
	}
	p.advance()
	var result pattern.Pattern
	switch p.cur().Kind {
	case lex.String:
		result = pattern.ExactText(p.cur().Value)
		p.advance()
	case lex.Regex:
		re, err := pattern.TextRegexPattern(p.cur().Value)
		if err != nil {
			return nil, &Error{Kind: InvalidRegex, Offset: p.cur().Offset, Message: err.Error()}
		}
		result = re
		p.advance()
	default:
		return nil, p.unexpected("string or /regex/")
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *parser) parseBytes() (pattern.Pattern, error) {
	p.advance() // 'bytes'
	if p.cur().Kind != lex.LParen {
		return pattern.AnyByteString(), nil
	}
	p.advance()
	var result pattern.Pattern
	switch p.cur().Kind {
	case lex.Regex:
		re, err := pattern.ByteStringRegexHex(p.cur().Value)
		if err != nil {
			return nil, &Error{Kind: InvalidRegex, Offset: p.cur().Offset, Message: err.Error()}
		}
		result = re
		p.advance()
	default:
		hexStr, err := p.parseHexBody()
		if err != nil {
			return nil, err
		}
		raw, err := hex.DecodeString(hexStr)
		if err != nil {
			return nil, &Error{Kind: InvalidHex, Offset: p.cur().Offset, Message: err.Error()}
		}
		result = pattern.ExactByteString(raw)
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return result, nil
}

// parseHexBody reads a raw hex run starting at the current token's
// offset (bypassing the pre-tokenized stream, since hex digit runs don't
// line up with general token boundaries — see lex.ScanHexBody) and
// resyncs the parser past it.
func (p *parser) parseHexBody() (string, error) {
	off := p.cur().Offset
	hexStr, end := lex.ScanHexBody(p.src, off)
	if hexStr == "" {
		return "", p.unexpected("hex digits")
	}
	if len(hexStr)%2 != 0 {
		return "", &Error{Kind: InvalidHex, Offset: off, Message: "odd number of hex digits"}
	}
	if err := p.resyncFrom(end); err != nil {
		return "", err
	}
	return hexStr, nil
}

func (p *parser) parseDate() (pattern.Pattern, error) {
	p.advance() // 'date'
	if p.cur().Kind != lex.LParen {
		return pattern.AnyDate(), nil
	}
	p.advance()
	d, err := p.parseDateBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *parser) parseDateBody() (pattern.Pattern, error) {
	if p.cur().Kind == lex.Regex {
		re, err := pattern.DateRegexPattern(p.cur().Value)
		if err != nil {
			return nil, &Error{Kind: InvalidRegex, Offset: p.cur().Offset, Message: err.Error()}
		}
		p.advance()
		return re, nil
	}
	if p.cur().Kind == lex.Ellipsis {
		p.advance()
		hi, err := p.parseDateLiteral()
		if err != nil {
			return nil, err
		}
		return pattern.LatestDate(hi), nil
	}
	lo, err := p.parseDateLiteral()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == lex.Ellipsis {
		p.advance()
		if p.cur().Kind == lex.String {
			hi, err := p.parseDateLiteral()
			if err != nil {
				return nil, err
			}
			return pattern.DateRangeValue(lo, hi), nil
		}
		return pattern.EarliestDate(lo), nil
	}
	return pattern.ExactDate(lo), nil
}

func (p *parser) parseDateLiteral() (time.Time, error) {
	t := p.cur()
	if t.Kind != lex.String {
		return time.Time{}, p.unexpected("date string")
	}
	parsed, err := time.Parse(time.RFC3339, t.Value)
	if err != nil {
		return time.Time{}, &Error{Kind: InvalidDate, Offset: t.Offset, Message: err.Error()}
	}
	p.advance()
	return parsed, nil
}

func (p *parser) parseDigest() (pattern.Pattern, error) {
	p.advance() // 'digest'
	if p.cur().Kind != lex.LParen {
		return pattern.AnyDigest(), nil
	}
	p.advance()
	hexStr, err := p.parseHexBody()
	if err != nil {
		return nil, err
	}
	var result pattern.Pattern
	if p.cur().Kind == lex.Ellipsis {
		p.advance()
		result, err = pattern.DigestHexPrefixPattern(hexStr)
	} else {
		result, err = pattern.DigestExactHexPattern(hexStr)
	}
	if err != nil {
		return nil, &Error{Kind: InvalidHex, Offset: p.cur().Offset, Message: err.Error()}
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *parser) parseKnown() (pattern.Pattern, error) {
	p.advance() // 'known'
	if p.cur().Kind != lex.LParen {
		return pattern.AnyKnownValue(), nil
	}
	p.advance()
	var result pattern.Pattern
	switch p.cur().Kind {
	case lex.Number:
		n, err := p.parsePlainInt()
		if err != nil {
			return nil, err
		}
		result = pattern.ExactKnownValue(uint64(n))
	case lex.Regex:
		re, err := pattern.KnownValueNameRegexPattern(p.cur().Value)
		if err != nil {
			return nil, &Error{Kind: InvalidRegex, Offset: p.cur().Offset, Message: err.Error()}
		}
		result = re
		p.advance()
	default:
		return nil, p.unexpected("known-value id or /regex/")
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return result, nil
}
