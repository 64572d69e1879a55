// Package lex tokenizes the pattern surface language:
// keywords, numeric and string literals, hex and regex bodies, and the
// punctuation the operator-precedence parser in package parse consumes.
package lex

import "fmt"

// Kind identifies a token class.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	Number
	String
	Hex
	Regex
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Colon
	At
	Gt
	GtEq
	Lt
	LtEq
	Pipe
	Amp
	Bang
	Star
	Question
	Plus
	Ellipsis
)

func (k Kind) String() string {
	names := [...]string{
		"EOF", "Ident", "Number", "String", "Hex", "Regex",
		"(", ")", "[", "]", "{", "}", ",", ":", "@",
		">", ">=", "<", "<=", "|", "&", "!", "*", "?", "+", "...",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is one lexical unit, with its byte offset in the source for
// partial-parse bookkeeping.
type Token struct {
	Kind   Kind
	Text   string // literal text (identifiers/keywords, numbers as written)
	Value  string // decoded payload for String/Hex/Regex (quotes/slashes stripped, escapes resolved)
	Offset int
}

// keywords are case-insensitive, including the historical upper-case
// spellings (BOOL, NUMBER, …). The table holds the lower-case forms only;
// IsKeyword does not normalize, so callers lower-case the text first.
var keywords = map[string]bool{
	"bool": true, "number": true, "text": true, "date": true,
	"digest": true, "null": true, "map": true, "array": true,
	"tagged": true, "search": true, "any": true, "none": true,
	"true": true, "false": true, "nan": true, "known": true,
	"infinity": true, "bytes": true,
}

// IsKeyword reports whether the lower-cased text is a recognized keyword.
func IsKeyword(lowerText string) bool { return keywords[lowerText] }
