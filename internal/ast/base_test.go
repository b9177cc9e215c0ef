package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nanov/jsasta/internal/token"
	"github.com/nanov/jsasta/internal/typesystem"
)

func TestNewBasePopulatesTokenAndLocation(t *testing.T) {
	tok := token.Token{Type: token.IDENT, Lexeme: "x", Line: 3, Column: 7}
	b := NewBase("main.jst", tok)

	assert.Equal(t, "x", b.TokenLiteral())
	assert.Equal(t, tok, b.GetToken())
	assert.Equal(t, "main.jst", b.Location().File)
	assert.Equal(t, 3, b.Location().Line)
	assert.Equal(t, 7, b.Location().Column)
}

func TestNewLocationCopiesTokenPosition(t *testing.T) {
	tok := token.Token{Type: token.IDENT, Lexeme: "y", Line: 1, Column: 1}
	loc := NewLocation("a.jst", tok)
	assert.Equal(t, "a.jst", loc.File)
	assert.Equal(t, 1, loc.Line)
	assert.Equal(t, 1, loc.Column)
}

func TestBaseExprTypeRoundTrip(t *testing.T) {
	var b baseExpr
	assert.Nil(t, b.Type())

	r := typesystem.NewRegistry()
	b.SetType(r.Primitive(typesystem.I32))
	assert.Same(t, r.Primitive(typesystem.I32), b.Type())
}
