package analyzer

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/typesystem"
)

// resolveAnnotation turns a parsed TypeAnnotation into a TypeInfo handle via
// the registry (spec.md §4.D "Types in annotations ... produces a TypeInfo
// handle via the registry"). An unresolvable named type reports Unknown
// Type and yields Unknown so inference can continue.
func (e *Engine) resolveAnnotation(a ast.TypeAnnotation, scope *symbols.Table) typesystem.Type {
	if a == nil {
		return typesystem.TheUnknown()
	}
	switch t := a.(type) {
	case *ast.NamedTypeAnnotation:
		if prim := e.types.PrimitiveByName(t.Name); prim != nil {
			return prim
		}
		if s := e.types.LookupStruct(t.Name); s != nil {
			return s
		}
		if alias := e.types.LookupAlias(t.Name); alias != nil {
			return alias
		}
		if entry, ok := scope.Lookup(t.Name); ok {
			if _, isType := entry.Decl.(*ast.StructDecl); isType {
				return entry.Type
			}
		}
		e.errorf(diagnostics.CodeUnknownType, t, "unknown type %q", t.Name)
		return typesystem.TheUnknown()
	case *ast.ArrayTypeAnnotation:
		elem := e.resolveAnnotation(t.Element, scope)
		return e.types.NewArray(elem)
	case *ast.RefTypeAnnotation:
		target := e.resolveAnnotation(t.Target, scope)
		return e.types.NewRef(target, t.Mutable)
	case *ast.ObjectTypeAnnotation:
		fields := make([]typesystem.ObjectField, 0, len(t.Fields))
		for _, f := range t.Fields {
			fields = append(fields, typesystem.ObjectField{
				Name: f.Name,
				Type: e.resolveAnnotation(f.Annotation, scope),
			})
		}
		return e.types.InternObject(fields, t)
	default:
		return typesystem.TheUnknown()
	}
}
