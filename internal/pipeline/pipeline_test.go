package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPipelineCleanProgram(t *testing.T) {
	ctx := NewContext("ok.jst", "var G = 0; function p(){ return G; }", "w1")
	StandardPipeline().Run(ctx)

	require.False(t, ctx.HasErrors())
	require.NotNil(t, ctx.AstRoot)
	require.NotNil(t, ctx.Types)
	require.NotNil(t, ctx.SymbolTable)
	require.NotNil(t, ctx.Index)
	assert.Len(t, ctx.AstRoot.Statements, 2)
	assert.Equal(t, "G", ctx.AstRoot.Scope.LocalEntries()[0].Name)
}

func TestStandardPipelineCollectsErrorsFromEveryStage(t *testing.T) {
	ctx := NewContext("bad.jst", `function f(){ return z; }`, "w2")
	StandardPipeline().Run(ctx)

	assert.True(t, ctx.HasErrors())
	// The tree still built and still got indexed, per the "continue where
	// semantically possible" tolerance for partially-typed trees.
	assert.NotNil(t, ctx.AstRoot)
	assert.NotNil(t, ctx.Index)
}

func TestLexProcessorProducesTokensIndependently(t *testing.T) {
	ctx := NewContext("x.jst", "var x = 1;", "w3")
	New(LexProcessor{}).Run(ctx)

	require.NotEmpty(t, ctx.Tokens)
	assert.Equal(t, "EOF", ctx.Tokens[len(ctx.Tokens)-1].Type.String())
}

func TestIndexProcessorToleratesMissingAstRoot(t *testing.T) {
	ctx := NewContext("x.jst", "var x = 1;", "w4")
	IndexProcessor{}.Process(ctx)
	assert.Nil(t, ctx.Index)
}

func TestWorkIDPropagatesToDiagnostics(t *testing.T) {
	ctx := NewContext("bad.jst", "const a = 10; a++;", "work-42")
	StandardPipeline().Run(ctx)

	require.True(t, ctx.HasErrors())
	for _, d := range ctx.Diagnostics.Collected() {
		assert.Equal(t, "work-42", d.WorkID)
	}
}
