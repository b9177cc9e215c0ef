package parser

import (
	"strconv"
	"strings"

	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/token"
)

// parseExpression is the Pratt engine's entry point: it parses a prefix
// expression, then repeatedly folds in infix/postfix operators whose
// precedence exceeds minPrec, per the table in spec.md §6.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		prec, ok := precedences[p.cur.Type]
		if !ok || prec <= minPrec {
			break
		}
		left = p.parseInfix(left, prec)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case token.IDENT:
		return p.parseIdentifier()
	case token.INT, token.FLOAT:
		return p.parseNumber()
	case token.STRING:
		return p.parseString()
	case token.TRUE, token.FALSE:
		return p.parseBoolean()
	case token.BANG, token.MINUS, token.PLUS:
		return p.parseUnaryOrPrefix()
	case token.INCREMENT, token.DECREMENT:
		return p.parsePrefixIncDec()
	case token.LPAREN:
		return p.parseGroupedExpression()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	default:
		p.errorf(diagnostics.CodeUnexpectedToken, "unexpected token %s in expression", p.cur.Type)
		p.advance()
		return nil
	}
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.cur
	id := &ast.Identifier{Base: p.base(tok), Name: tok.Lexeme}
	p.advance()
	return id
}

func (p *Parser) parseNumber() ast.Expression {
	tok := p.cur
	n := &ast.Number{Base: p.base(tok)}

	// The lexer keeps an i8..u64 suffix in the lexeme ("1u8"); split it off
	// before parsing the digits.
	digits := tok.Lexeme
	if i := strings.IndexAny(digits, "iu"); i > 0 {
		if kw := token.LookupIdent(digits[i:]); token.IsIntegerKeyword(kw) {
			n.Suffix = kw
		}
		digits = digits[:i]
	}

	if tok.Type == token.FLOAT {
		n.IsFloat = true
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			p.errorf(diagnostics.CodeMalformedNumber, "invalid float literal %q", tok.Lexeme)
		}
		n.FloatValue = v
	} else {
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			// May overflow signed 64 bits; fall back to unsigned parse so
			// literals like 18446744073709551615 still carry a value.
			if uv, uerr := strconv.ParseUint(digits, 10, 64); uerr == nil {
				n.IntValue = int64(uv)
			} else {
				p.errorf(diagnostics.CodeMalformedNumber, "invalid integer literal %q", tok.Lexeme)
			}
		} else {
			n.IntValue = v
		}
	}
	p.advance()

	if token.IsIntegerKeyword(p.cur.Type) {
		n.Suffix = p.cur.Type
		p.advance()
	}
	return n
}

func (p *Parser) parseString() ast.Expression {
	tok := p.cur
	s := &ast.String{Base: p.base(tok), Value: tok.Lexeme}
	p.advance()
	return s
}

func (p *Parser) parseBoolean() ast.Expression {
	tok := p.cur
	b := &ast.Boolean{Base: p.base(tok), Value: tok.Type == token.TRUE}
	p.advance()
	return b
}

// parseUnaryOrPrefix handles `!`, unary `-`, and unary `+`.
func (p *Parser) parseUnaryOrPrefix() ast.Expression {
	tok := p.cur
	op := tok.Type
	p.advance()
	operand := p.parseExpression(UNARY)
	if op == token.BANG {
		return &ast.UnaryOp{Base: p.base(tok), Op: op, Operand: operand}
	}
	return &ast.PrefixOp{Base: p.base(tok), Op: op, Operand: operand}
}

// parsePrefixIncDec handles prefix `++x` / `--x`.
func (p *Parser) parsePrefixIncDec() ast.Expression {
	tok := p.cur
	op := tok.Type
	p.advance()
	operand := p.parseExpression(UNARY)
	return &ast.PrefixOp{Base: p.base(tok), Op: op, Operand: operand}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.advance() // consume '('
	expr := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.cur
	p.advance() // consume '['
	lit := &ast.ArrayLiteral{Base: p.base(tok)}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACKET)
	return lit
}

// parseObjectLiteral parses `{ name: value, ... }`. In expression position
// every `{` opens a literal; at the start of a statement, parseStatement
// first applies the `{`-vs-Block tie-break in looksLikeObjectLiteral.
func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.cur
	p.advance() // consume '{'
	lit := &ast.ObjectLiteral{Base: p.base(tok)}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.errorf(diagnostics.CodeUnexpectedToken, "expected field name in object literal, got %s", p.cur.Type)
			break
		}
		field := ast.ObjectField{Name: p.cur.Lexeme}
		p.advance()
		p.expect(token.COLON)
		field.Value = p.parseExpression(LOWEST)
		lit.Fields = append(lit.Fields, field)
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return lit
}

// looksLikeObjectLiteral peeks (without consuming) past a `{` to decide
// whether it opens an object literal: it does when the next two tokens are
// an identifier and `:`, per spec.md §4.D's tie-break rule.
func (p *Parser) looksLikeObjectLiteral() bool {
	if !p.curIs(token.LBRACE) {
		return false
	}
	return p.peekIs(token.IDENT) && p.peek2Is(token.COLON)
}

func (p *Parser) parseInfix(left ast.Expression, prec int) ast.Expression {
	switch p.cur.Type {
	case token.ASSIGN:
		return p.parseAssignment(left)
	case token.LPAREN:
		return p.parseCall(left)
	case token.LBRACKET:
		return p.parseIndex(left)
	case token.DOT:
		return p.parseMemberOrMethodCall(left)
	case token.QUESTION:
		return p.parseTernary(left)
	case token.INCREMENT, token.DECREMENT:
		return p.parsePostfixIncDec(left)
	default:
		if compoundAssignOps[p.cur.Type] {
			return p.parseCompoundAssignment(left)
		}
		return p.parseBinaryOp(left, prec)
	}
}

func (p *Parser) parseBinaryOp(left ast.Expression, prec int) ast.Expression {
	tok := p.cur
	op := tok.Type
	p.advance()
	right := p.parseExpression(prec)
	return &ast.BinaryOp{Base: p.base(tok), Op: op, Left: left, Right: right}
}

func (p *Parser) parseAssignment(left ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // consume '='
	// Right-associative: re-enter just below ASSIGNMENT.
	value := p.parseExpression(ASSIGNMENT - 1)
	switch t := left.(type) {
	case *ast.MemberAccess:
		return &ast.MemberAssignment{Base: p.base(tok), Object: t.Object, Member: t.Member, Value: value}
	case *ast.IndexAccess:
		return &ast.IndexAssignment{Base: p.base(tok), Object: t.Object, Index: t.Index, Value: value}
	default:
		return &ast.Assignment{Base: p.base(tok), Target: left, Value: value}
	}
}

func (p *Parser) parseCompoundAssignment(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Type
	p.advance()
	value := p.parseExpression(ASSIGNMENT - 1)
	return &ast.CompoundAssignment{Base: p.base(tok), Op: op, Target: left, Value: value}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // consume '('
	call := &ast.Call{Base: p.base(tok), Callee: callee}
	call.Args = p.parseArgumentList()
	return call
}

func (p *Parser) parseArgumentList() []ast.Expression {
	var args []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseIndex(object ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // consume '['
	index := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET)
	return &ast.IndexAccess{Base: p.base(tok), Object: object, Index: index}
}

func (p *Parser) parseMemberOrMethodCall(object ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // consume '.'
	if !p.curIs(token.IDENT) {
		p.errorf(diagnostics.CodeUnexpectedToken, "expected member name after '.', got %s", p.cur.Type)
		return object
	}
	name := p.cur.Lexeme
	p.advance()
	if p.curIs(token.LPAREN) {
		p.advance() // consume '('
		call := &ast.MethodCall{Base: p.base(tok), Receiver: object, Method: name}
		call.Args = p.parseArgumentList()
		return call
	}
	return &ast.MemberAccess{Base: p.base(tok), Object: object, Member: name}
}

func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // consume '?'
	then := p.parseExpression(TERNARY - 1)
	p.expect(token.COLON)
	els := p.parseExpression(TERNARY - 1)
	return &ast.Ternary{Base: p.base(tok), Condition: cond, Then: then, Else: els}
}

func (p *Parser) parsePostfixIncDec(operand ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Type
	p.advance()
	return &ast.PostfixOp{Base: p.base(tok), Op: op, Operand: operand}
}
