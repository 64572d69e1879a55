// Package parse implements the recursive-descent / operator-precedence
// parser for the pattern surface language: or → and
// → seq → not → primary, with quantifier suffixes attached at the
// primary level.
package parse

import (
	"strings"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/lex"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/quant"
)

type parser struct {
	src  string
	toks []lex.Token
	idx  int
}

func newParser(src string) (*parser, error) {
	toks, err := lex.Lex(src)
	if err != nil {
		return nil, &Error{Kind: UnrecognizedToken, Offset: err.(*lex.Error).Offset, Message: err.Error()}
	}
	return &parser{src: src, toks: toks}, nil
}

func (p *parser) cur() lex.Token { return p.toks[p.idx] }

func (p *parser) advance() lex.Token {
	t := p.toks[p.idx]
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	return t
}

func (p *parser) expect(k lex.Kind) (lex.Token, error) {
	if p.cur().Kind != k {
		return lex.Token{}, p.unexpected(k.String())
	}
	return p.advance(), nil
}

func (p *parser) unexpected(want string) error {
	return &Error{Kind: UnexpectedToken, Offset: p.cur().Offset,
		Message: "expected " + want + ", found " + p.cur().Kind.String()}
}

// resyncFrom re-lexes the tail of the source starting at offset and
// splices it in as the parser's remaining token stream. It is used after
// a raw, context-sensitive scan (hex bodies) that the general tokenizer
// cannot delimit on its own — see lex.ScanHexBody.
func (p *parser) resyncFrom(offset int) error {
	toks, err := lex.Lex(p.src[offset:])
	if err != nil {
		le := err.(*lex.Error)
		return &Error{Kind: UnrecognizedToken, Offset: offset + le.Offset, Message: le.Error()}
	}
	for i := range toks {
		toks[i].Offset += offset
	}
	p.toks = toks
	p.idx = 0
	return nil
}

// parsePattern is the grammar's `pattern := or` entry point.
func (p *parser) parsePattern() (pattern.Pattern, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (pattern.Pattern, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	items := []pattern.Pattern{first}
	for p.cur().Kind == lex.Pipe {
		p.advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return pattern.Or{Subs: items}, nil
}

func (p *parser) parseAnd() (pattern.Pattern, error) {
	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	items := []pattern.Pattern{first}
	for p.cur().Kind == lex.Amp {
		p.advance()
		next, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return pattern.And{Subs: items}, nil
}

// parseSeq implements `seq := not_ ('>' not_)*`. accepts a
// multi-item sequence built this way at the top level (for testing) or
// anywhere compile.Compile's validate pass allows a sequence cursor; it
// rejects it elsewhere, so parsing never needs to know its own position.
func (p *parser) parseSeq() (pattern.Pattern, error) {
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	items := flattenSequence(first)
	for p.cur().Kind == lex.Gt {
		p.advance()
		next, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		items = append(items, flattenSequence(next)...)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return pattern.Sequence{Subs: items}, nil
}

func flattenSequence(p pattern.Pattern) []pattern.Pattern {
	if s, ok := p.(pattern.Sequence); ok {
		return s.Subs
	}
	return []pattern.Pattern{p}
}

func (p *parser) parseNot() (pattern.Pattern, error) {
	if p.cur().Kind == lex.Bang {
		p.advance()
		sub, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return pattern.Not{Sub: sub}, nil
	}
	return p.parsePrimaryQuantified()
}

// parsePrimaryQuantified parses one primary and attaches a trailing
// quantifier (`*`, `+`, `?`, `{count_spec}`), itself optionally suffixed
// with `?` (lazy) or `+` (possessive) — quantifier rule.
func (p *parser) parsePrimaryQuantified() (pattern.Pattern, error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	q, has, err := p.parseQuantifierSuffix()
	if err != nil {
		return nil, err
	}
	if !has {
		return prim, nil
	}
	return pattern.Repeat{Sub: prim, Quant: q}, nil
}

func (p *parser) parseQuantifierSuffix() (quant.Quantifier, bool, error) {
	var q quant.Quantifier
	switch p.cur().Kind {
	case lex.Star:
		p.advance()
		q = quant.Star()
	case lex.Plus:
		p.advance()
		q = quant.Plus()
	case lex.Question:
		p.advance()
		q = quant.Opt()
	case lex.LBrace:
		p.advance()
		spec, err := p.parseCountSpec()
		if err != nil {
			return q, false, err
		}
		if _, err := p.expect(lex.RBrace); err != nil {
			return q, false, err
		}
		if spec.max == spec.min {
			q = quant.Exactly(spec.min)
		} else {
			q = quant.Range(spec.min, spec.max)
		}
	default:
		return q, false, nil
	}
	switch p.cur().Kind {
	case lex.Question:
		p.advance()
		q = q.WithReluctance(quant.Lazy)
	case lex.Plus:
		p.advance()
		q = q.WithReluctance(quant.Possessive)
	}
	if err := q.Validate(); err != nil {
		return q, false, &Error{Kind: InvalidQuantifier, Offset: p.cur().Offset, Message: err.Error()}
	}
	return q, true, nil
}

type countSpec struct{ min, max int }

// parseCountSpec implements `count_spec := INT | INT ',' INT | INT ','`.
func (p *parser) parseCountSpec() (countSpec, error) {
	n, err := p.parsePlainInt()
	if err != nil {
		return countSpec{}, err
	}
	if p.cur().Kind != lex.Comma {
		return countSpec{min: n, max: n}, nil
	}
	p.advance()
	if isPlainInt(p.cur()) {
		hi, err := p.parsePlainInt()
		if err != nil {
			return countSpec{}, err
		}
		if hi < n {
			return countSpec{}, &Error{Kind: InvalidQuantifier, Offset: p.cur().Offset,
				Message: "count max must be >= min"}
		}
		return countSpec{min: n, max: hi}, nil
	}
	return countSpec{min: n, max: quant.Unbounded}, nil
}

func isPlainInt(t lex.Token) bool {
	if t.Kind != lex.Number || t.Text == "" {
		return false
	}
	for i := 0; i < len(t.Text); i++ {
		if t.Text[i] < '0' || t.Text[i] > '9' {
			return false
		}
	}
	return true
}

func (p *parser) parsePlainInt() (int, error) {
	t := p.cur()
	if !isPlainInt(t) {
		return 0, p.unexpected("integer")
	}
	p.advance()
	n := 0
	for i := 0; i < len(t.Text); i++ {
		n = n*10 + int(t.Text[i]-'0')
	}
	return n, nil
}

func lowerIdent(t lex.Token) string { return strings.ToLower(t.Text) }
