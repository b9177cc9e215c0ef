// Package pipeline wires the compiler's stages — lex, parse, analyze,
// index — into a single ordered Run over a shared PipelineContext, the way
// the teacher's front end chains its own Processor stages.
package pipeline

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/codeindex"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/token"
	"github.com/nanov/jsasta/internal/typesystem"
)

// PipelineContext is threaded through every Processor in a Pipeline. Each
// stage reads what earlier stages produced and fills in its own fields;
// nothing is removed once set, so later stages (or a caller inspecting the
// context after Run) can see the full history of one compilation.
type PipelineContext struct {
	// Input.
	FilePath   string
	SourceCode string
	WorkID     string // correlation id for this compilation (SPEC_FULL.md §10.2)

	// Lexer output.
	Tokens []token.Token

	// Parser output.
	AstRoot *ast.Program

	// Analyzer output.
	SymbolTable *symbols.Table
	Types       *typesystem.Registry

	// Indexer output.
	Index *codeindex.Index

	// Diagnostics collected by every stage so far. A stage appends; it
	// never clears what a previous stage reported.
	Diagnostics *diagnostics.Context
}

// NewContext builds a PipelineContext ready for Run, collecting
// diagnostics rather than writing them out directly.
func NewContext(filePath, sourceCode, workID string) *PipelineContext {
	diag := diagnostics.NewCollectContext()
	diag.SetWorkID(workID)
	return &PipelineContext{
		FilePath:    filePath,
		SourceCode:  sourceCode,
		WorkID:      workID,
		Diagnostics: diag,
	}
}

// HasErrors reports whether any stage has reported an Error-severity
// diagnostic.
func (c *PipelineContext) HasErrors() bool {
	return c.Diagnostics.HasErrors()
}
