// Package parser implements the single-token-lookahead recursive-descent,
// Pratt-expression parser from spec.md §4.D. It builds the tree directly
// (no separate CST) and recovers from syntax errors by skipping to the next
// statement terminator, keeping whatever partial subtree it already built.
package parser

import (
	"fmt"

	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/lexer"
	"github.com/nanov/jsasta/internal/source"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/token"
)

// Precedence levels, tightest-binding last, from the table in spec.md §6.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT // right-associative
	TERNARY    // right-associative
	LOGICAL_OR
	LOGICAL_AND
	BIT_OR
	BIT_XOR
	BIT_AND
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX // call / index / member
)

var precedences = map[token.Type]int{
	token.ASSIGN:          ASSIGNMENT,
	token.PLUS_ASSIGN:     ASSIGNMENT,
	token.MINUS_ASSIGN:    ASSIGNMENT,
	token.ASTERISK_ASSIGN: ASSIGNMENT,
	token.SLASH_ASSIGN:    ASSIGNMENT,
	token.PERCENT_ASSIGN:  ASSIGNMENT,
	token.AMP_ASSIGN:      ASSIGNMENT,
	token.PIPE_ASSIGN:     ASSIGNMENT,
	token.CARET_ASSIGN:    ASSIGNMENT,
	token.LSHIFT_ASSIGN:   ASSIGNMENT,
	token.RSHIFT_ASSIGN:   ASSIGNMENT,
	token.QUESTION:        TERNARY,
	token.OR:              LOGICAL_OR,
	token.AND:             LOGICAL_AND,
	token.PIPE:            BIT_OR,
	token.CARET:           BIT_XOR,
	token.AMPERSAND:       BIT_AND,
	token.EQ:              EQUALITY,
	token.NOT_EQ:          EQUALITY,
	token.LT:              RELATIONAL,
	token.LTE:             RELATIONAL,
	token.GT:              RELATIONAL,
	token.GTE:             RELATIONAL,
	token.LSHIFT:          SHIFT,
	token.RSHIFT:          SHIFT,
	token.PLUS:            ADDITIVE,
	token.MINUS:           ADDITIVE,
	token.ASTERISK:        MULTIPLICATIVE,
	token.SLASH:           MULTIPLICATIVE,
	token.PERCENT:         MULTIPLICATIVE,
	token.LPAREN:          POSTFIX,
	token.LBRACKET:        POSTFIX,
	token.DOT:             POSTFIX,
	token.INCREMENT:       POSTFIX,
	token.DECREMENT:       POSTFIX,
}

var compoundAssignOps = map[token.Type]bool{
	token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true, token.ASTERISK_ASSIGN: true,
	token.SLASH_ASSIGN: true, token.PERCENT_ASSIGN: true, token.AMP_ASSIGN: true,
	token.PIPE_ASSIGN: true, token.CARET_ASSIGN: true,
	token.LSHIFT_ASSIGN: true, token.RSHIFT_ASSIGN: true,
}

// Parser consumes a Lexer's token stream and produces a *ast.Program.
type Parser struct {
	lex  *lexer.Lexer
	diag *diagnostics.Context
	file string

	cur   token.Token
	peek  token.Token
	peek2 token.Token // one token past peek, used only for the object-literal tie-break
}

// New returns a Parser reading from lex. Syntax errors are reported to diag.
func New(lex *lexer.Lexer, file string, diag *diagnostics.Context) *Parser {
	p := &Parser{lex: lex, diag: diag, file: file}
	p.advance()
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.peek2
	p.peek2 = p.lex.NextToken()
}

func (p *Parser) curIs(t token.Type) bool   { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool  { return p.peek.Type == t }
func (p *Parser) peek2Is(t token.Type) bool { return p.peek2.Type == t }

func (p *Parser) loc() source.Location { return ast.NewLocation(p.file, p.cur) }

// base builds an ast.Base anchored at token t using the parser's file path.
func (p *Parser) base(t token.Token) ast.Base { return ast.NewBase(p.file, t) }

// expect advances past cur if it has type t, else reports an Unexpected
// Token error and returns false without advancing.
func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.errorf(diagnostics.CodeUnexpectedToken, "expected %s, got %s", t, p.cur.Type)
	return false
}

func (p *Parser) errorf(code diagnostics.Code, format string, args ...any) {
	if p.diag == nil {
		return
	}
	p.diag.ReportErr(diagnostics.NewError(code, p.loc(), fmt.Sprintf(format, args...)))
}

// recover skips tokens up to the next statement terminator (`;`, `}`, or
// EOF), per spec.md §4.D error recovery. A `;` is consumed; a `}` is left
// for the enclosing block to close.
func (p *Parser) recover() {
	for !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.advance()
	}
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{File: p.file, Scope: symbols.New()}
	first := true
	for !p.curIs(token.EOF) {
		if first {
			prog.Tok = p.cur
			prog.Loc = p.loc()
			first = false
		}
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.VAR, token.LET, token.CONST:
		return p.parseVarDecl()
	case token.FUNCTION, token.EXTERNAL:
		return p.parseFunctionDecl()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		tok := p.cur
		p.advance()
		if p.curIs(token.SEMICOLON) {
			p.advance()
		}
		return &ast.Break{Base: ast.NewBase(p.file, tok)}
	case token.CONTINUE:
		tok := p.cur
		p.advance()
		if p.curIs(token.SEMICOLON) {
			p.advance()
		}
		return &ast.Continue{Base: ast.NewBase(p.file, tok)}
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.LBRACE:
		if p.looksLikeObjectLiteral() {
			return p.parseExprStmt()
		}
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}
