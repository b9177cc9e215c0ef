package ast

import (
	"github.com/nanov/jsasta/internal/source"
	"github.com/nanov/jsasta/internal/token"
)

// Base is embedded by every node to provide the common Node methods without
// repeating them per concrete type. Exported (rather than the more common
// lowercase `base`) so that internal/parser, which lives in a different
// package, can populate it directly in composite literals.
type Base struct {
	Tok token.Token
	Loc source.Location
}

// NewBase builds a Base for a token parsed from file.
func NewBase(file string, t token.Token) Base {
	return Base{Tok: t, Loc: NewLocation(file, t)}
}

func (b Base) TokenLiteral() string      { return b.Tok.Lexeme }
func (b Base) GetToken() token.Token     { return b.Tok }
func (b Base) Location() source.Location { return b.Loc }
