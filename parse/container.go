package parse

import (
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/lex"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
)

func (p *parser) parseCapture() (pattern.Pattern, error) {
	p.advance() // '@'
	name, err := p.expect(lex.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.LParen); err != nil {
		return nil, err
	}
	sub, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return pattern.Capture{Name: name.Text, Sub: sub}, nil
}

func (p *parser) parseSearch() (pattern.Pattern, error) {
	p.advance() // 'search'
	if _, err := p.expect(lex.LParen); err != nil {
		return nil, err
	}
	sub, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return pattern.Search{Sub: sub}, nil
}

func (p *parser) parseTagged() (pattern.Pattern, error) {
	p.advance() // 'tagged'
	if p.cur().Kind != lex.LParen {
		return pattern.AnyTagged(), nil
	}
	p.advance()
	var result pattern.Pattern
	var tagNum uint64
	var hasTag bool
	var nameRegexSrc string
	switch p.cur().Kind {
	case lex.Number:
		n, err := p.parsePlainInt()
		if err != nil {
			return nil, err
		}
		tagNum, hasTag = uint64(n), true
	case lex.Regex:
		nameRegexSrc = p.cur().Value
		p.advance()
	default:
		return nil, p.unexpected("tag number or /regex/")
	}
	if _, err := p.expect(lex.Comma); err != nil {
		return nil, err
	}
	content, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if hasTag {
		result = pattern.TaggedWithTag(tagNum, content)
	} else {
		result, err = pattern.TaggedWithTagNameRegex(nameRegexSrc, content)
		if err != nil {
			return nil, &Error{Kind: InvalidRegex, Offset: p.cur().Offset, Message: err.Error()}
		}
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return result, nil
}

// parseArray implements array_pat: `[]`, `[*]`, `[count_spec]`,
// or a comma-separated element-pattern list that becomes a Sequence.
func (p *parser) parseArray() (pattern.Pattern, error) {
	p.advance() // '['
	if p.cur().Kind == lex.RBracket {
		p.advance()
		return pattern.ArrayWithCount(pattern.ExactCount(0)), nil
	}
	if p.cur().Kind == lex.Star {
		p.advance()
		if _, err := p.expect(lex.RBracket); err != nil {
			return nil, err
		}
		return pattern.AnyArray(), nil
	}
	// A bracket whose very first token is a plain integer is read as a
	// bare count_spec, not a single-element number(n) pattern — see
	// decided reading of the array_pat/value ambiguity.
	if isPlainInt(p.cur()) {
		spec, err := p.parseCountSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RBracket); err != nil {
			return nil, err
		}
		return pattern.ArrayWithCount(pattern.CountSpec{Min: spec.min, Max: spec.max}), nil
	}
	items, err := p.parseCommaPatternList(lex.RBracket)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RBracket); err != nil {
		return nil, err
	}
	elem := buildElementPattern(items)
	return pattern.ArrayWithElement(elem), nil
}

// buildElementPattern flattens a comma list of (possibly already-sequence)
// items into one Sequence, unless there was exactly one bare item — in
// which case it's returned ungrouped so vm's implicit-repeat normalization
// applies to it rather than to an explicit one-item
// Sequence the user never wrote.
func buildElementPattern(items []pattern.Pattern) pattern.Pattern {
	if len(items) == 1 {
		return items[0]
	}
	var flat []pattern.Pattern
	for _, it := range items {
		flat = append(flat, flattenSequence(it)...)
	}
	return pattern.Sequence{Subs: flat}
}

func (p *parser) parseCommaPatternList(end lex.Kind) ([]pattern.Pattern, error) {
	var items []pattern.Pattern
	for {
		item, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur().Kind != lex.Comma {
			break
		}
		p.advance()
	}
	if p.cur().Kind != end {
		return nil, p.unexpected(end.String())
	}
	return items, nil
}

// parseMap implements map_pat: `{*}`, `{{count_spec}}`, or a comma-separated
// `key:value` constraint list.
func (p *parser) parseMap() (pattern.Pattern, error) {
	p.advance() // '{'
	if p.cur().Kind == lex.Star {
		p.advance()
		if _, err := p.expect(lex.RBrace); err != nil {
			return nil, err
		}
		return pattern.AnyMap(), nil
	}
	if p.cur().Kind == lex.LBrace {
		p.advance()
		spec, err := p.parseCountSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RBrace); err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RBrace); err != nil {
			return nil, err
		}
		return pattern.MapWithCount(pattern.CountSpec{Min: spec.min, Max: spec.max}), nil
	}
	var kvs []pattern.KV
	for {
		key, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.Colon); err != nil {
			return nil, err
		}
		val, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, pattern.KV{Key: key, Value: val})
		if p.cur().Kind != lex.Comma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lex.RBrace); err != nil {
		return nil, err
	}
	return pattern.MapWithConstraints(kvs), nil
}
