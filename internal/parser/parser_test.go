package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/lexer"
)

func parse(t *testing.T, src string) (*ast.Program, *diagnostics.Context) {
	t.Helper()
	diag := diagnostics.NewCollectContext()
	lx := lexer.New(src, "test.jst", diag)
	p := New(lx, "test.jst", diag)
	return p.ParseProgram(), diag
}

func TestParseVarDecl(t *testing.T) {
	prog, diag := parse(t, "var x = 1;")
	require.False(t, diag.HasErrors())
	require.Len(t, prog.Statements, 1)

	decl, ok := prog.Statements[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	assert.False(t, decl.Const)
	require.NotNil(t, decl.Value)
}

func TestParseConstDecl(t *testing.T) {
	prog, diag := parse(t, "const a = 10;")
	require.False(t, diag.HasErrors())
	decl := prog.Statements[0].(*ast.VarDecl)
	assert.True(t, decl.Const)
}

func TestParseFunctionDecl(t *testing.T) {
	prog, diag := parse(t, "function id(x){ return x; }")
	require.False(t, diag.HasErrors())
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "id", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Statements, 1)
	_, isReturn := fn.Body.Statements[0].(*ast.Return)
	assert.True(t, isReturn)
}

func TestParseCallExpression(t *testing.T) {
	prog, diag := parse(t, "id(1);")
	require.False(t, diag.HasErrors())
	stmt := prog.Statements[0].(*ast.ExprStmt)
	call, ok := stmt.Expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
}

func TestParseIfElse(t *testing.T) {
	prog, diag := parse(t, "if (x) { y; } else { z; }")
	require.False(t, diag.HasErrors())
	ifStmt, ok := prog.Statements[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Then)
	require.NotNil(t, ifStmt.Else)
}

func TestParseForLoop(t *testing.T) {
	prog, diag := parse(t, "for (var i = 0; i; i++) { x; }")
	require.False(t, diag.HasErrors())
	forStmt, ok := prog.Statements[0].(*ast.For)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Condition)
	require.NotNil(t, forStmt.Post)
}

func TestParseStructDecl(t *testing.T) {
	prog, diag := parse(t, `struct Point { x: i32, y: i32 }`)
	require.False(t, diag.HasErrors())
	s, ok := prog.Statements[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "Point", s.Name)
	require.Len(t, s.Fields, 2)
}

func TestParseExternalFunction(t *testing.T) {
	prog, diag := parse(t, "external function puts(s: i32): i32;")
	require.False(t, diag.HasErrors())
	fn := prog.Statements[0].(*ast.FunctionDecl)
	assert.True(t, fn.External)
	assert.Nil(t, fn.Body)
}

func TestParseTernary(t *testing.T) {
	prog, diag := parse(t, "a ? b : c;")
	require.False(t, diag.HasErrors())
	stmt := prog.Statements[0].(*ast.ExprStmt)
	_, ok := stmt.Expr.(*ast.Ternary)
	assert.True(t, ok)
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog, diag := parse(t, "1 + 2 * 3;")
	require.False(t, diag.HasErrors())
	stmt := prog.Statements[0].(*ast.ExprStmt)
	top, ok := stmt.Expr.(*ast.BinaryOp)
	require.True(t, ok)

	right, ok := top.Right.(*ast.BinaryOp)
	require.True(t, ok, "multiplication must bind tighter than addition")
	_ = right
}

func TestParseRecoversFromSyntaxError(t *testing.T) {
	prog, diag := parse(t, "var = ; var y = 2;")
	assert.True(t, diag.HasErrors())
	var sawY bool
	for _, stmt := range prog.Statements {
		if decl, ok := stmt.(*ast.VarDecl); ok && decl.Name == "y" {
			sawY = true
		}
	}
	assert.True(t, sawY, "the parser recovers past a syntax error and keeps parsing later statements")
}
