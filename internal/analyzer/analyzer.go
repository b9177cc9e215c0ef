// Package analyzer implements the Type Engine from spec.md §4.G: the
// hardest subsystem in the front end. It runs a fixed sequence of passes
// over a Program with an empty top-level Symbol Table — types/constants/
// globals, function signatures, literal seeding, then iterative call-site
// specialization to a fixed point — writing a resolved TypeInfo onto every
// node it reaches and reporting diagnostics through a diagnostics.Context
// rather than aborting on first error.
package analyzer

import (
	"fmt"

	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/typesystem"
)

// maxIterations bounds pass 3+'s fixed-point loop (spec.md §4.G: "at
// least 8").
const maxIterations = 8

// Engine runs the full pass sequence over one Program. It is single-use:
// construct a fresh Engine per Program, mirroring spec.md §9's rejection of
// process-wide singletons for the Type Registry.
type Engine struct {
	types *typesystem.Registry
	diag  *diagnostics.Context

	// funcs maps each FunctionDecl (free function or struct method) to the
	// Function TypeInfo produced for it in pass 1, keyed by declaration
	// identity so pass 3+'s call-site traversal can find the right
	// specialization set.
	funcs map[*ast.FunctionDecl]*typesystem.Function

	// declOf is the reverse of funcs, used when a call site has already
	// resolved a callee to its Function TypeInfo and needs the original
	// AST body back to clone for a new specialization.
	declOf map[*typesystem.Function]*ast.FunctionDecl

	// moduleScope is the top-level scope every function body's scope chains
	// up to; functions do not close over their caller's locals.
	moduleScope *symbols.Table
}

// New returns an Engine that reports diagnostics to diag and allocates
// TypeInfos from types.
func New(types *typesystem.Registry, diag *diagnostics.Context) *Engine {
	return &Engine{
		types:  types,
		diag:   diag,
		funcs:  make(map[*ast.FunctionDecl]*typesystem.Function),
		declOf: make(map[*typesystem.Function]*ast.FunctionDecl),
	}
}

// Run executes every pass over prog. prog.Scope is populated as the
// top-level scope; callers should check diag.HasErrors() before trusting
// the resulting tree (spec.md §4.G "Failure semantics").
func (e *Engine) Run(prog *ast.Program) {
	if prog.Scope == nil {
		prog.Scope = symbols.New()
	}
	e.moduleScope = prog.Scope
	e.pass0Globals(prog)
	e.pass1Signatures(prog)
	e.pass2Literals(prog)
	e.pass3Specialize(prog)
}

func (e *Engine) errorf(code diagnostics.Code, node ast.Node, format string, args ...any) {
	e.diag.Report(diagnostics.Diagnostic{
		Severity: diagnostics.Error,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: node.Location(),
	})
}
