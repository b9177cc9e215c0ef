package codeindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanov/jsasta/internal/analyzer"
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/lexer"
	"github.com/nanov/jsasta/internal/parser"
	"github.com/nanov/jsasta/internal/typesystem"
)

func buildIndex(t *testing.T, src string) (*ast.Program, *Index) {
	t.Helper()
	diag := diagnostics.NewCollectContext()
	lx := lexer.New(src, "test.jst", diag)
	p := parser.New(lx, "test.jst", diag)
	prog := p.ParseProgram()
	require.False(t, diag.HasErrors())

	types := typesystem.NewRegistry()
	analyzer.New(types, diag).Run(prog)
	return prog, Build(prog)
}

// TestDefinitionLookupAtSecondReference mirrors spec.md §8's LSP go-to-
// definition scenario: `let x = 1; x;`, requesting the definition at the
// second `x`.
func TestDefinitionLookupAtSecondReference(t *testing.T) {
	prog, idx := buildIndex(t, "let x = 1; x;")

	decl := prog.Statements[0].(*ast.VarDecl)
	// The second `x` starts right after "let x = 1; " (11 chars in, 1-based column 12).
	res, ok := idx.FindAt("test.jst", 1, 12)
	require.True(t, ok)
	assert.False(t, res.IsDefinition)
	assert.Equal(t, decl.Name, res.Info.Name)

	rng, ok := idx.Definition(res.Info.Decl)
	require.True(t, ok)
	assert.Equal(t, decl.Location(), rng.Location)
	assert.Equal(t, decl.Location().Column+len(decl.Name), rng.EndColumn)
}

func TestFindAtOnDefinitionItself(t *testing.T) {
	prog, idx := buildIndex(t, "let x = 1; x;")
	decl := prog.Statements[0].(*ast.VarDecl)

	res, ok := idx.FindAt("test.jst", decl.Location().Line, decl.Location().Column)
	require.True(t, ok)
	assert.True(t, res.IsDefinition)
}

func TestReferencesListsEveryUse(t *testing.T) {
	_, idx := buildIndex(t, "let x = 1; x; x; x;")

	res, ok := idx.FindAt("test.jst", 1, 12)
	require.True(t, ok)

	refs := idx.References(res.Info.Decl)
	assert.Len(t, refs, 3)
}

func TestFindAtMissReturnsFalse(t *testing.T) {
	_, idx := buildIndex(t, "let x = 1;")
	_, ok := idx.FindAt("test.jst", 99, 99)
	assert.False(t, ok)
}

func TestFunctionDefinitionAndReferences(t *testing.T) {
	prog, idx := buildIndex(t, "function f(){ return 1; } f(); f();")
	fn := prog.Statements[0].(*ast.FunctionDecl)

	rng, ok := idx.Definition(fn)
	require.True(t, ok)
	assert.Equal(t, fn.Location(), rng.Location)

	refs := idx.References(fn)
	assert.Len(t, refs, 2)
}
