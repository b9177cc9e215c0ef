package parser

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/token"
)

// parseTypeAnnotation parses the small type grammar from spec.md §4.D:
// primitive names, identifier references, `[]` array suffixes, `ref`
// prefixes, and anonymous `{ name: Type, ... }` object types.
func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	base := p.parseTypeAtom()
	if base == nil {
		return nil
	}
	for p.curIs(token.LBRACKET) {
		tok := p.cur
		p.advance() // consume '['
		p.expect(token.RBRACKET)
		base = &ast.ArrayTypeAnnotation{Base: p.base(tok), Element: base}
	}
	return base
}

func (p *Parser) parseTypeAtom() ast.TypeAnnotation {
	switch p.cur.Type {
	case token.REF:
		// `ref` has no separate immutable-reference spelling in the fixed
		// keyword set (spec.md §6), so every Ref annotation is mutable.
		tok := p.cur
		p.advance()
		target := p.parseTypeAnnotation()
		return &ast.RefTypeAnnotation{Base: p.base(tok), Target: target, Mutable: true}
	case token.LBRACE:
		return p.parseObjectTypeAnnotation()
	case token.IDENT:
		tok := p.cur
		p.advance()
		return &ast.NamedTypeAnnotation{Base: p.base(tok), Name: tok.Lexeme}
	default:
		if token.IsIntegerKeyword(p.cur.Type) {
			tok := p.cur
			p.advance()
			return &ast.NamedTypeAnnotation{Base: p.base(tok), Name: tok.Lexeme}
		}
		p.errorf(diagnostics.CodeUnexpectedToken, "expected type, got %s", p.cur.Type)
		return nil
	}
}

func (p *Parser) parseObjectTypeAnnotation() ast.TypeAnnotation {
	tok := p.cur
	p.advance() // consume '{'
	o := &ast.ObjectTypeAnnotation{Base: p.base(tok)}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.errorf(diagnostics.CodeUnexpectedToken, "expected field name in object type, got %s", p.cur.Type)
			break
		}
		field := ast.ObjectTypeField{Name: p.cur.Lexeme}
		p.advance()
		p.expect(token.COLON)
		field.Annotation = p.parseTypeAnnotation()
		o.Fields = append(o.Fields, field)
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return o
}
