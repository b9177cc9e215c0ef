package analyzer

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/token"
	"github.com/nanov/jsasta/internal/typesystem"
)

// pass2Literals implements spec.md §4.G pass 2: walk every expression
// subtree that is not inside a function body and seed literal TypeInfos.
// Non-literal expressions at module scope (e.g. a global initialized from
// another global) are left Unknown here; full operator/call typing happens
// only in pass 3+, which types both function bodies and the top-level
// statements and global initializers.
func (e *Engine) pass2Literals(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		e.seedStatement(stmt, prog.Scope)
	}
}

func (e *Engine) seedStatement(stmt ast.Statement, scope *symbols.Table) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if s.Value != nil {
			e.seedExprTree(s.Value, scope)
		}
	case *ast.StructDecl:
		for _, f := range s.Fields {
			if f.Default != nil {
				e.seedExprTree(f.Default, scope)
			}
		}
	case *ast.FunctionDecl:
		// Bodies are left untouched here; pass 3+ types them per call site.
	case *ast.ExprStmt:
		e.seedExprTree(s.Expr, scope)
	}
}

// seedExprTree recurses through expr's subtree, seeding every literal node
// it finds, without attempting to resolve operator or call result types.
func (e *Engine) seedExprTree(expr ast.Expression, scope *symbols.Table) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *ast.Number, *ast.String, *ast.Boolean:
		e.seedLiteral(expr, scope)
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			e.seedExprTree(el, scope)
		}
		e.seedLiteral(expr, scope)
	case *ast.ObjectLiteral:
		for _, f := range n.Fields {
			e.seedExprTree(f.Value, scope)
		}
		e.seedLiteral(expr, scope)
	case *ast.BinaryOp:
		e.seedExprTree(n.Left, scope)
		e.seedExprTree(n.Right, scope)
	case *ast.UnaryOp:
		e.seedExprTree(n.Operand, scope)
	case *ast.PrefixOp:
		e.seedExprTree(n.Operand, scope)
	case *ast.PostfixOp:
		e.seedExprTree(n.Operand, scope)
	case *ast.Call:
		e.seedExprTree(n.Callee, scope)
		for _, a := range n.Args {
			e.seedExprTree(a, scope)
		}
	case *ast.MethodCall:
		e.seedExprTree(n.Receiver, scope)
		for _, a := range n.Args {
			e.seedExprTree(a, scope)
		}
	case *ast.Assignment:
		e.seedExprTree(n.Target, scope)
		e.seedExprTree(n.Value, scope)
	case *ast.CompoundAssignment:
		e.seedExprTree(n.Target, scope)
		e.seedExprTree(n.Value, scope)
	case *ast.MemberAccess:
		e.seedExprTree(n.Object, scope)
	case *ast.MemberAssignment:
		e.seedExprTree(n.Object, scope)
		e.seedExprTree(n.Value, scope)
	case *ast.Ternary:
		e.seedExprTree(n.Condition, scope)
		e.seedExprTree(n.Then, scope)
		e.seedExprTree(n.Else, scope)
	case *ast.IndexAccess:
		e.seedExprTree(n.Object, scope)
		e.seedExprTree(n.Index, scope)
	case *ast.IndexAssignment:
		e.seedExprTree(n.Object, scope)
		e.seedExprTree(n.Index, scope)
		e.seedExprTree(n.Value, scope)
	}
}

// literalType is pass 0's narrow entry point: it only seeds and returns a
// type for initializers that are already known to be literal.
func (e *Engine) literalType(expr ast.Expression, scope *symbols.Table) typesystem.Type {
	return e.seedLiteral(expr, scope)
}

// seedLiteral computes and writes the TypeInfo for one literal node,
// recursing into array/object element expressions first so their own
// TypeInfos are available to key structural interning.
func (e *Engine) seedLiteral(expr ast.Expression, scope *symbols.Table) typesystem.Type {
	switch n := expr.(type) {
	case *ast.Number:
		t := e.numberLiteralType(n)
		n.SetType(t)
		return t
	case *ast.String:
		t := e.types.Primitive(typesystem.StringKind)
		n.SetType(t)
		return t
	case *ast.Boolean:
		t := e.types.Primitive(typesystem.Bool)
		n.SetType(t)
		return t
	case *ast.ArrayLiteral:
		var elem typesystem.Type = typesystem.TheUnknown()
		for i, el := range n.Elements {
			et := e.seedExprTreeTyped(el, scope)
			if i == 0 {
				elem = et
			}
		}
		t := e.types.NewArray(elem)
		n.SetType(t)
		return t
	case *ast.ObjectLiteral:
		fields := make([]typesystem.ObjectField, 0, len(n.Fields))
		for _, f := range n.Fields {
			ft := e.seedExprTreeTyped(f.Value, scope)
			fields = append(fields, typesystem.ObjectField{Name: f.Name, Type: ft})
		}
		t := e.types.InternObject(fields, n)
		n.SetType(t)
		return t
	default:
		return typesystem.TheUnknown()
	}
}

// seedExprTreeTyped seeds expr's subtree and returns its resulting type
// (Unknown for anything that isn't a literal).
func (e *Engine) seedExprTreeTyped(expr ast.Expression, scope *symbols.Table) typesystem.Type {
	e.seedExprTree(expr, scope)
	if expr == nil {
		return typesystem.TheUnknown()
	}
	if t := expr.Type(); t != nil {
		return t
	}
	return typesystem.TheUnknown()
}

// numberLiteralType maps a Number node's explicit suffix, or its literal
// form, to a concrete primitive: an explicit i8..u64 suffix wins; otherwise
// floats default to f64 and integers default to i32 (the `int` alias).
func (e *Engine) numberLiteralType(n *ast.Number) typesystem.Type {
	if n.Suffix != token.ILLEGAL {
		if prim := e.types.PrimitiveByName(n.Suffix.String()); prim != nil {
			return prim
		}
	}
	if n.IsFloat {
		return e.types.Primitive(typesystem.F64)
	}
	return e.types.Primitive(typesystem.I32)
}
