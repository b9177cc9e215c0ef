package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/lexer"
	"github.com/nanov/jsasta/internal/parser"
	"github.com/nanov/jsasta/internal/typesystem"
)

func analyze(t *testing.T, src string) (*ast.Program, *diagnostics.Context) {
	t.Helper()
	diag := diagnostics.NewCollectContext()
	lx := lexer.New(src, "test.jst", diag)
	p := parser.New(lx, "test.jst", diag)
	prog := p.ParseProgram()
	require.False(t, diag.HasErrors(), "fixture must parse cleanly before analysis runs")

	types := typesystem.NewRegistry()
	New(types, diag).Run(prog)
	return prog, diag
}

func TestGlobalCapturedInsideFunctionBody(t *testing.T) {
	_, diag := analyze(t, "var G = 0; function p(){ return G; }")
	assert.False(t, diag.HasErrors())
}

func TestFunctionSpecializesPerArgumentType(t *testing.T) {
	_, diag := analyze(t, `function id(x){ return x; } id(1); id(3.14); id("a");`)
	assert.False(t, diag.HasErrors(), "an untyped parameter specializes independently per call-site argument type")
}

func TestConstMutationIsError(t *testing.T) {
	_, diag := analyze(t, "const a = 10; a++;")
	collected := diag.Collected()
	require.Len(t, collected, 1)
	assert.Equal(t, diagnostics.CodeConstMutation, collected[0].Code)
}

func TestUndefinedVariableInFunctionBodyIsError(t *testing.T) {
	_, diag := analyze(t, "function f(){ return z; }")
	require.True(t, diag.HasErrors())
	var sawUndefined bool
	for _, d := range diag.Collected() {
		if d.Code == diagnostics.CodeUndefinedVariable {
			sawUndefined = true
		}
	}
	assert.True(t, sawUndefined)
}

func TestDuplicateConstDeclarationIsError(t *testing.T) {
	_, diag := analyze(t, "const a = 1; const a = 2;")
	require.True(t, diag.HasErrors())
}

func TestExternalFunctionRequiresAnnotations(t *testing.T) {
	_, diag := analyze(t, "external function f(x);")
	assert.True(t, diag.HasErrors(), "an external declaration missing parameter annotations is an error")
}

func TestUncalledZeroParamFunctionStillResolvesReturnType(t *testing.T) {
	prog, diag := analyze(t, "var G = 0; function p(){ return G; }")
	assert.False(t, diag.HasErrors())

	entry, ok := prog.Scope.LookupLocal("p")
	require.True(t, ok)
	fn, ok := entry.Type.(*typesystem.Function)
	require.True(t, ok)
	assert.Equal(t, "i32", fn.Return.String(), "p is never called but its body still types to i32")
	assert.Empty(t, fn.Specializations, "a zero-parameter function has no call-site argument types to specialize over")
}

func TestUncalledZeroParamFunctionWithUnresolvableBodyReportsErrorOnce(t *testing.T) {
	_, diag := analyze(t, "function f(){ return z; }")
	collected := diag.Collected()
	var undefinedCount int
	for _, d := range collected {
		if d.Code == diagnostics.CodeUndefinedVariable {
			undefinedCount++
		}
	}
	assert.Equal(t, 1, undefinedCount, "an unresolvable body must not be re-inferred once per fixed-point round")
}
