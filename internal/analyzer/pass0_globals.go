package analyzer

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/typesystem"
)

// pass0Globals implements spec.md §4.G pass 0: struct declarations are
// registered first (so later const/var annotations can name them), then
// every top-level var/let/const is inserted in source order with its
// annotation type, the literal's type for an unannotated const with a
// literal initializer, or Unknown otherwise. This is what lets function
// bodies see module-level state.
func (e *Engine) pass0Globals(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		if s, ok := stmt.(*ast.StructDecl); ok {
			e.registerStruct(s, prog.Scope)
		}
	}

	for _, stmt := range prog.Statements {
		decl, ok := stmt.(*ast.VarDecl)
		if !ok {
			continue
		}
		e.declareGlobal(decl, prog.Scope)
	}
}

func (e *Engine) registerStruct(decl *ast.StructDecl, scope *symbols.Table) {
	fields := make([]typesystem.ObjectField, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		fields = append(fields, typesystem.ObjectField{
			Name: f.Name,
			Type: e.resolveAnnotation(f.Annotation, scope),
		})
	}
	obj, err := e.types.RegisterStruct(decl.Name, fields, decl)
	if err != nil {
		e.errorf(diagnostics.CodeDuplicateDecl, decl, "%s", err.Error())
		return
	}
	if !scope.Insert(&symbols.Entry{Name: decl.Name, Decl: decl, Type: obj, Const: true}) {
		e.errorf(diagnostics.CodeDuplicateDecl, decl, "duplicate declaration: %s", decl.Name)
	}
}

// declareGlobal inserts one top-level var/let/const, evaluating literal
// const initializers where possible; non-literal initializers are left for
// the later passes to type (spec.md §4.G pass 0 (b)).
func (e *Engine) declareGlobal(decl *ast.VarDecl, scope *symbols.Table) {
	var declType typesystem.Type
	if decl.Annotation != nil {
		declType = e.resolveAnnotation(decl.Annotation, scope)
	} else if decl.Const && isLiteral(decl.Value) {
		declType = e.literalType(decl.Value, scope)
	} else {
		declType = typesystem.TheUnknown()
	}

	entry := &symbols.Entry{Name: decl.Name, Decl: decl, Type: declType, Const: decl.Const}
	if decl.ArraySize != nil {
		entry.HasSize = true
		if n, ok := constantArraySize(decl.ArraySize); ok {
			entry.ArraySize = n
		} else {
			e.errorf(diagnostics.CodeInvalidArraySize, decl.ArraySize, "array size must be a constant integer")
		}
	}
	if !scope.Insert(entry) {
		e.errorf(diagnostics.CodeDuplicateDecl, decl, "duplicate declaration: %s", decl.Name)
	}
}

// isLiteral reports whether expr is one of the literal node kinds pass 0/2
// can seed a type for without running full inference.
func isLiteral(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Number, *ast.String, *ast.Boolean, *ast.ArrayLiteral, *ast.ObjectLiteral:
		return true
	default:
		return false
	}
}

// constantArraySize evaluates expr if it is a plain integer literal.
func constantArraySize(expr ast.Expression) (int, bool) {
	if n, ok := expr.(*ast.Number); ok && !n.IsFloat {
		return int(n.IntValue), true
	}
	return 0, false
}
