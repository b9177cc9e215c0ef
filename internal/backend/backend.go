// Package backend names the contract surface of the out-of-scope code
// generator: the front end (lexer, parser, type engine, CodeIndex) and the
// LSP server are this repository's concern; turning a fully-typed Program
// into machine code or bytecode is an external collaborator's job. This
// package exists only so that collaborator has a stable interface to
// implement against.
package backend

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
)

// Emitter consumes a fully type-checked Program (diag.HasErrors() false)
// and produces build artifacts. No implementation ships in this
// repository; Name identifies the emitter for CLI output and log
// correlation only.
type Emitter interface {
	// Emit lowers prog, whose every node already carries a resolved
	// TypeInfo, into whatever representation this backend targets. An
	// Emitter must not be called on a Program that failed analysis.
	Emit(prog *ast.Program, diag *diagnostics.Context) error

	// Name identifies the backend for --dump-types/log output.
	Name() string
}
