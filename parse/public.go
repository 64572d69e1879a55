package parse

import (
	"fmt"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/lex"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
)

// ErrorKind names one of error taxonomy entries that
// originate in lexing or parsing.
type ErrorKind uint8

const (
	UnrecognizedToken ErrorKind = iota
	UnexpectedToken
	ExtraData
	InvalidQuantifier
	InvalidRegex
	InvalidHex
	InvalidDate
	UnknownIdentifier
)

func (k ErrorKind) String() string {
	names := [...]string{
		"UnrecognizedToken", "UnexpectedToken", "ExtraData", "InvalidQuantifier",
		"InvalidRegex", "InvalidHex", "InvalidDate", "UnknownIdentifier",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Error(?)"
}

// Error is a parse-time failure with the byte offset and short message
// requires ("parse errors include a byte offset and a short
// message").
type Error struct {
	Kind    ErrorKind
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Message)
}

// Parse fully consumes src as one pattern; any trailing tokens (other
// than EOF) produce an ExtraData error.
func Parse(src string) (pattern.Pattern, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lex.EOF {
		return nil, &Error{Kind: ExtraData, Offset: p.cur().Offset, Message: "unexpected trailing input"}
	}
	return pat, nil
}

// ParsePartial parses one pattern from the start of src and reports how
// many bytes (including any trailing whitespace skipped before the next
// token) it consumed, so callers can compose parsers over a larger
// document.
func ParsePartial(src string) (pattern.Pattern, int, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, 0, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, 0, err
	}
	consumed := p.cur().Offset
	return pat, consumed, nil
}
