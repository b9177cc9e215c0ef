package analyzer

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/typesystem"
)

// pass1Signatures implements spec.md §4.G pass 1: build a Function
// TypeInfo per top-level FunctionDecl from its annotations (Unknown where
// absent), and insert a symbol bound to it in the top-level scope. Struct
// methods get a Function TypeInfo the same way but are not inserted into
// any scope under their own name — VisitMethodCall resolves them through
// the receiver's Object instead.
// External declarations require every parameter and the return type to be
// annotated.
func (e *Engine) pass1Signatures(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		switch decl := stmt.(type) {
		case *ast.FunctionDecl:
			e.declareFunction(decl, prog.Scope)
		case *ast.StructDecl:
			for _, m := range decl.Methods {
				e.declareMethod(m, prog.Scope)
			}
		}
	}
}

func (e *Engine) declareMethod(decl *ast.FunctionDecl, scope *symbols.Table) {
	fn := e.buildSignature(decl, scope)
	e.funcs[decl] = fn
	e.declOf[fn] = decl
}

func (e *Engine) declareFunction(decl *ast.FunctionDecl, scope *symbols.Table) {
	fn := e.buildSignature(decl, scope)
	e.funcs[decl] = fn
	e.declOf[fn] = decl

	if !scope.Insert(&symbols.Entry{Name: decl.Name, Decl: decl, Type: fn, Const: true}) {
		e.errorf(diagnostics.CodeDuplicateDecl, decl, "duplicate declaration: %s", decl.Name)
	}
}

// buildSignature constructs the Function TypeInfo shared by declareFunction
// and declareMethod.
func (e *Engine) buildSignature(decl *ast.FunctionDecl, scope *symbols.Table) *typesystem.Function {
	params := make([]typesystem.Type, 0, len(decl.Params))
	for _, p := range decl.Params {
		params = append(params, e.resolveAnnotation(p.Annotation, scope))
	}

	var ret typesystem.Type = typesystem.TheUnknown()
	if decl.ReturnType != nil {
		ret = e.resolveAnnotation(decl.ReturnType, scope)
	}

	if decl.External {
		if decl.ReturnType == nil {
			e.errorf(diagnostics.CodeExternalMissing, decl, "external function %s must declare a return type", decl.Name)
		}
		for i, p := range decl.Params {
			if p.Annotation == nil {
				e.errorf(diagnostics.CodeExternalMissing, decl, "external function %s parameter %s must be annotated", decl.Name, p.Name)
			}
			_ = i
		}
	}

	var body any
	if decl.Body != nil {
		body = decl.Body
	}
	return e.types.NewFunction(decl.Name, params, ret, decl.Variadic, body)
}
