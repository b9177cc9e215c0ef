// Package tests runs the end-to-end scenarios from spec.md §8 against the
// real lex-parse-analyze-index pipeline, each one loaded from a txtar
// archive bundling the source and its expected summary in one file.
package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/nanov/jsasta/internal/pipeline"
	"github.com/nanov/jsasta/internal/typesystem"
)

// renderSummary produces a deterministic text rendering of ctx's outcome:
// diagnostic count and each diagnostic's code, plus every top-level
// function's specialization count and parameter types — enough to pin down
// every scenario in spec.md §8 without comparing opaque pointers.
func renderSummary(ctx *pipeline.PipelineContext) string {
	var b strings.Builder

	diags := ctx.Diagnostics.Collected()
	fmt.Fprintf(&b, "diagnostics: %d\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(&b, "  %s %s: %s\n", d.Severity, d.Code, d.Message)
	}

	if ctx.AstRoot == nil {
		return b.String()
	}

	var names []string
	for _, e := range ctx.AstRoot.Scope.LocalEntries() {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry, _ := ctx.AstRoot.Scope.LookupLocal(name)
		fn, ok := entry.Type.(*typesystem.Function)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "function %s: return=%s specializations=%d\n", name, fn.Return, len(fn.Specializations))
		var mangled []string
		for _, spec := range fn.Specializations {
			mangled = append(mangled, spec.MangledName)
		}
		sort.Strings(mangled)
		for _, m := range mangled {
			fmt.Fprintf(&b, "  specialization: %s\n", m)
		}
	}

	return b.String()
}

func runScenarios(t *testing.T, dir string) {
	t.Helper()
	archives, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	require.NoError(t, err)
	require.NotEmpty(t, archives, "no scenario archives found under %s", dir)

	for _, path := range archives {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			ar := txtar.Parse(data)

			var input, expect []byte
			for _, f := range ar.Files {
				switch f.Name {
				case "input.jst":
					input = f.Data
				case "expect.txt":
					expect = f.Data
				}
			}
			require.NotNil(t, input, "archive missing input.jst")
			require.NotNil(t, expect, "archive missing expect.txt")

			ctx := pipeline.NewContext(filepath.Base(path), string(input), "scenario")
			pipeline.StandardPipeline().Run(ctx)

			assert.Equal(t, string(expect), renderSummary(ctx))
		})
	}
}

func TestEndToEndScenarios(t *testing.T) {
	runScenarios(t, "testdata")
}

// TestGlobalCaptureCodeIndexCrossReferences covers scenario 1's CodeIndex
// half directly (definition/reference counts are pointer-keyed and don't
// fit the txtar text-diff harness above).
func TestGlobalCaptureCodeIndexCrossReferences(t *testing.T) {
	ctx := pipeline.NewContext("globals.jst", "var G = 0; function p(){ return G; }", "scenario")
	pipeline.StandardPipeline().Run(ctx)
	require.False(t, ctx.HasErrors())
	require.NotNil(t, ctx.Index)

	entry, ok := ctx.AstRoot.Scope.LookupLocal("G")
	require.True(t, ok)

	_, found := ctx.Index.Definition(entry)
	assert.True(t, found)
	refs := ctx.Index.References(entry)
	assert.Len(t, refs, 1, "G is referenced exactly once, from inside p's body")
}

// TestGoToDefinitionCodeIndexScenario covers scenario 5 at the CodeIndex
// layer (LSP wiring for the same scenario is covered in cmd/lsp).
func TestGoToDefinitionCodeIndexScenario(t *testing.T) {
	ctx := pipeline.NewContext("goto.jst", "let x = 1; x;", "scenario")
	pipeline.StandardPipeline().Run(ctx)
	require.False(t, ctx.HasErrors())

	res, found := ctx.Index.FindAt("goto.jst", 1, 12) // second `x`, 1-based column
	require.True(t, found)

	loc, found := ctx.Index.Definition(res.Info.Decl)
	require.True(t, found)
	assert.Equal(t, 1, loc.Line)
	assert.Equal(t, 5, loc.Column, "the `x` declared in `let x = 1;`")
}
