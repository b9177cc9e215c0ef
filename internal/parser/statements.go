package parser

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/token"
)

// parseVarDecl handles `var`/`let`/`const` bindings, including an optional
// `[size]` fixed-array suffix on the name and an optional type annotation.
func (p *Parser) parseVarDecl() ast.Statement {
	tok := p.cur
	isConst := p.curIs(token.CONST)
	p.advance() // consume var/let/const

	if !p.curIs(token.IDENT) {
		p.errorf(diagnostics.CodeUnexpectedToken, "expected identifier after %s, got %s", tok.Type, p.cur.Type)
		p.recover()
		return nil
	}
	nameTok := p.cur
	name := nameTok.Lexeme
	p.advance()

	// Located at the name, so CodeIndex definition ranges cover the identifier.
	decl := &ast.VarDecl{Base: p.base(nameTok), Name: name, Const: isConst}

	if p.curIs(token.LBRACKET) {
		p.advance()
		if !p.curIs(token.RBRACKET) {
			decl.ArraySize = p.parseExpression(LOWEST)
		}
		p.expect(token.RBRACKET)
	}

	if p.curIs(token.COLON) {
		p.advance()
		decl.Annotation = p.parseTypeAnnotation()
	}

	if p.curIs(token.ASSIGN) {
		p.advance()
		decl.Value = p.parseExpression(LOWEST)
	}

	if p.curIs(token.SEMICOLON) {
		p.advance()
	} else {
		p.errorf(diagnostics.CodeMissingTerminate, "expected ';' after declaration of %s", name)
	}
	return decl
}

// parseFunctionDecl handles both `function name(...) [: Type] { ... }` and
// `external function name(...) : Type;` prototypes.
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	tok := p.cur
	external := p.curIs(token.EXTERNAL)
	if external {
		p.advance()
		if !p.expect(token.FUNCTION) {
			p.recover()
			return nil
		}
	} else {
		p.advance() // consume 'function'
	}

	fn := &ast.FunctionDecl{Base: p.base(tok), External: external}

	if !p.curIs(token.IDENT) {
		p.errorf(diagnostics.CodeUnexpectedToken, "expected function name, got %s", p.cur.Type)
		p.recover()
		return fn
	}
	fn.Base = p.base(p.cur)
	fn.Name = p.cur.Lexeme
	p.advance()

	p.expect(token.LPAREN)
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.DOT) && p.peekIs(token.DOT) {
			// '...' variadic marker, scanned as three DOT tokens.
			p.advance()
			p.advance()
			p.advance() // third dot
			fn.Variadic = true
			if p.curIs(token.IDENT) {
				p.advance()
			}
			break
		}
		if !p.curIs(token.IDENT) {
			p.errorf(diagnostics.CodeUnexpectedToken, "expected parameter name, got %s", p.cur.Type)
			break
		}
		param := ast.Param{Name: p.cur.Lexeme}
		p.advance()
		if p.curIs(token.COLON) {
			p.advance()
			param.Annotation = p.parseTypeAnnotation()
		}
		fn.Params = append(fn.Params, param)
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)

	if p.curIs(token.COLON) {
		p.advance()
		fn.ReturnType = p.parseTypeAnnotation()
	}

	if external {
		if fn.ReturnType == nil {
			p.errorf(diagnostics.CodeExternalMissing, "external function %s must have a return type annotation", fn.Name)
		}
		for _, param := range fn.Params {
			if param.Annotation == nil {
				p.errorf(diagnostics.CodeExternalMissing, "external function %s parameter %s must be annotated", fn.Name, param.Name)
				break
			}
		}
		if p.curIs(token.SEMICOLON) {
			p.advance()
		}
		return fn
	}

	fn.Body = p.parseBlock()
	return fn
}

// parseStructDecl handles `struct Name { field[: Type] [= default], ...; function method(...) {...} }`.
func (p *Parser) parseStructDecl() ast.Statement {
	p.advance() // consume 'struct'

	if !p.curIs(token.IDENT) {
		p.errorf(diagnostics.CodeUnexpectedToken, "expected struct name, got %s", p.cur.Type)
		p.recover()
		return nil
	}
	decl := &ast.StructDecl{Base: p.base(p.cur), Name: p.cur.Lexeme}
	p.advance()

	if !p.expect(token.LBRACE) {
		p.recover()
		return decl
	}

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.FUNCTION) {
			if m := p.parseFunctionDecl(); m != nil {
				decl.Methods = append(decl.Methods, m)
			}
			continue
		}
		if !p.curIs(token.IDENT) {
			p.errorf(diagnostics.CodeUnexpectedToken, "expected field name, got %s", p.cur.Type)
			p.recover()
			continue
		}
		field := ast.StructField{Name: p.cur.Lexeme}
		p.advance()
		if p.curIs(token.COLON) {
			p.advance()
			field.Annotation = p.parseTypeAnnotation()
		}
		if p.curIs(token.ASSIGN) {
			p.advance()
			field.Default = p.parseExpression(LOWEST)
		}
		decl.Fields = append(decl.Fields, field)
		if p.curIs(token.COMMA) || p.curIs(token.SEMICOLON) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return decl
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.cur
	p.advance()
	ret := &ast.Return{Base: p.base(tok)}
	if !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		ret.Value = p.parseExpression(LOWEST)
	}
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
	return ret
}

func (p *Parser) parseBlock() *ast.Block {
	tok := p.cur
	block := &ast.Block{Base: p.base(tok)}
	if !p.expect(token.LBRACE) {
		return block
	}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(token.RBRACE)
	return block
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.cur
	p.advance() // consume 'if'
	p.expect(token.LPAREN)
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	then := p.parseBlock()

	stmt := &ast.If{Base: p.base(tok), Condition: cond, Then: then}
	if p.curIs(token.ELSE) {
		p.advance()
		if p.curIs(token.IF) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.cur
	p.advance() // consume 'for'
	p.expect(token.LPAREN)

	stmt := &ast.For{Base: p.base(tok)}
	if !p.curIs(token.SEMICOLON) {
		stmt.Init = p.parseStatement()
	} else {
		p.advance()
	}
	if !p.curIs(token.SEMICOLON) {
		stmt.Condition = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON)
	if !p.curIs(token.RPAREN) {
		postTok := p.cur
		postExpr := p.parseExpression(LOWEST)
		stmt.Post = &ast.ExprStmt{Base: p.base(postTok), Expr: postExpr}
	}
	p.expect(token.RPAREN)
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.cur
	p.advance() // consume 'while'
	p.expect(token.LPAREN)
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.While{Base: p.base(tok), Condition: cond, Body: body}
}

func (p *Parser) parseExprStmt() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)
	stmt := &ast.ExprStmt{Base: p.base(tok), Expr: expr}
	if p.curIs(token.SEMICOLON) {
		p.advance()
	} else if !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.errorf(diagnostics.CodeMissingTerminate, "expected ';' after expression statement")
		p.recover()
	}
	return stmt
}
