package pipeline

import (
	"github.com/nanov/jsasta/internal/analyzer"
	"github.com/nanov/jsasta/internal/codeindex"
	"github.com/nanov/jsasta/internal/lexer"
	"github.com/nanov/jsasta/internal/parser"
	"github.com/nanov/jsasta/internal/typesystem"
)

// LexProcessor tokenizes ctx.SourceCode eagerly into ctx.Tokens. The parser
// itself pulls tokens from a fresh Lexer on demand (spec.md §4.C "produced
// on demand and dropped"); this stage exists only so callers inspecting a
// PipelineContext after Run (debug dumps, tests) can see the raw token
// stream without re-lexing.
type LexProcessor struct{}

func (LexProcessor) Process(ctx *PipelineContext) *PipelineContext {
	lx := lexer.New(ctx.SourceCode, ctx.FilePath, ctx.Diagnostics)
	for {
		tok := lx.NextToken()
		ctx.Tokens = append(ctx.Tokens, tok)
		if tok.Type.String() == "EOF" {
			break
		}
	}
	return ctx
}

// ParseProcessor drives the parser over a fresh Lexer (spec.md §4.D) and
// stores the resulting Program.
type ParseProcessor struct{}

func (ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	lx := lexer.New(ctx.SourceCode, ctx.FilePath, ctx.Diagnostics)
	p := parser.New(lx, ctx.FilePath, ctx.Diagnostics)
	ctx.AstRoot = p.ParseProgram()
	return ctx
}

// AnalyzeProcessor runs the Type Engine (spec.md §4.G) over the parsed
// Program, producing the Type Registry and populating the Program's symbol
// table in place.
type AnalyzeProcessor struct{}

func (AnalyzeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	ctx.Types = typesystem.NewRegistry()
	eng := analyzer.New(ctx.Types, ctx.Diagnostics)
	eng.Run(ctx.AstRoot)
	ctx.SymbolTable = ctx.AstRoot.Scope
	return ctx
}

// IndexProcessor builds the CodeIndex once inference has completed
// (spec.md §4.H). It still builds an index over a partially-typed tree on
// error, per spec.md §4.A's "continue where semantically possible": a
// partial index beats none for LSP hover/definition requests mid-edit.
type IndexProcessor struct{}

func (IndexProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	ctx.Index = codeindex.Build(ctx.AstRoot)
	return ctx
}

// StandardPipeline is the parse→analyze→index sequence (lexing happens
// inside ParseProcessor) used by the compiler CLI. The LSP runs the same
// processors separately: ParseProcessor on its I/O loop, then
// AnalyzeProcessor and IndexProcessor on its analysis worker.
func StandardPipeline() *Pipeline {
	return New(ParseProcessor{}, AnalyzeProcessor{}, IndexProcessor{})
}
