package analyzer

import "github.com/nanov/jsasta/internal/ast"

// cloneBlock deep-copies a function body so each specialization gets an
// "independently typed clone" (spec.md §3 FunctionSpecialization). Clones
// start with a nil TypeInfo/Scope on every node; the body-inference pass
// fills them in fresh for the clone's own argument types.
func cloneBlock(b *ast.Block) *ast.Block {
	if b == nil {
		return nil
	}
	out := &ast.Block{Base: b.Base}
	for _, s := range b.Statements {
		out.Statements = append(out.Statements, cloneStatement(s))
	}
	return out
}

func cloneStatement(stmt ast.Statement) ast.Statement {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return &ast.VarDecl{
			Base: s.Base, Name: s.Name, Const: s.Const,
			Annotation: cloneTypeAnnotation(s.Annotation),
			Value:      cloneExpression(s.Value),
			ArraySize:  cloneExpression(s.ArraySize),
		}
	case *ast.Return:
		return &ast.Return{Base: s.Base, Value: cloneExpression(s.Value)}
	case *ast.Break:
		return &ast.Break{Base: s.Base}
	case *ast.Continue:
		return &ast.Continue{Base: s.Base}
	case *ast.If:
		out := &ast.If{Base: s.Base, Condition: cloneExpression(s.Condition), Then: cloneBlock(s.Then)}
		if s.Else != nil {
			out.Else = cloneStatement(s.Else)
		}
		return out
	case *ast.For:
		out := &ast.For{Base: s.Base, Condition: cloneExpression(s.Condition), Body: cloneBlock(s.Body)}
		if s.Init != nil {
			out.Init = cloneStatement(s.Init)
		}
		if s.Post != nil {
			out.Post = cloneStatement(s.Post)
		}
		return out
	case *ast.While:
		return &ast.While{Base: s.Base, Condition: cloneExpression(s.Condition), Body: cloneBlock(s.Body)}
	case *ast.Block:
		return cloneBlock(s)
	case *ast.ExprStmt:
		return &ast.ExprStmt{Base: s.Base, Expr: cloneExpression(s.Expr)}
	default:
		return stmt
	}
}

func cloneExpression(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		return &ast.Identifier{Base: e.Base, Name: e.Name}
	case *ast.Number:
		return &ast.Number{Base: e.Base, IntValue: e.IntValue, FloatValue: e.FloatValue, IsFloat: e.IsFloat, Suffix: e.Suffix}
	case *ast.String:
		return &ast.String{Base: e.Base, Value: e.Value}
	case *ast.Boolean:
		return &ast.Boolean{Base: e.Base, Value: e.Value}
	case *ast.BinaryOp:
		return &ast.BinaryOp{Base: e.Base, Op: e.Op, Left: cloneExpression(e.Left), Right: cloneExpression(e.Right)}
	case *ast.UnaryOp:
		return &ast.UnaryOp{Base: e.Base, Op: e.Op, Operand: cloneExpression(e.Operand)}
	case *ast.PrefixOp:
		return &ast.PrefixOp{Base: e.Base, Op: e.Op, Operand: cloneExpression(e.Operand)}
	case *ast.PostfixOp:
		return &ast.PostfixOp{Base: e.Base, Op: e.Op, Operand: cloneExpression(e.Operand)}
	case *ast.Call:
		out := &ast.Call{Base: e.Base, Callee: cloneExpression(e.Callee)}
		for _, a := range e.Args {
			out.Args = append(out.Args, cloneExpression(a))
		}
		return out
	case *ast.MethodCall:
		out := &ast.MethodCall{Base: e.Base, Receiver: cloneExpression(e.Receiver), Method: e.Method}
		for _, a := range e.Args {
			out.Args = append(out.Args, cloneExpression(a))
		}
		return out
	case *ast.Assignment:
		return &ast.Assignment{Base: e.Base, Target: cloneExpression(e.Target), Value: cloneExpression(e.Value)}
	case *ast.CompoundAssignment:
		return &ast.CompoundAssignment{Base: e.Base, Op: e.Op, Target: cloneExpression(e.Target), Value: cloneExpression(e.Value)}
	case *ast.MemberAccess:
		return &ast.MemberAccess{Base: e.Base, Object: cloneExpression(e.Object), Member: e.Member}
	case *ast.MemberAssignment:
		return &ast.MemberAssignment{Base: e.Base, Object: cloneExpression(e.Object), Member: e.Member, Value: cloneExpression(e.Value)}
	case *ast.Ternary:
		return &ast.Ternary{Base: e.Base, Condition: cloneExpression(e.Condition), Then: cloneExpression(e.Then), Else: cloneExpression(e.Else)}
	case *ast.IndexAccess:
		return &ast.IndexAccess{Base: e.Base, Object: cloneExpression(e.Object), Index: cloneExpression(e.Index)}
	case *ast.IndexAssignment:
		return &ast.IndexAssignment{Base: e.Base, Object: cloneExpression(e.Object), Index: cloneExpression(e.Index), Value: cloneExpression(e.Value)}
	case *ast.ArrayLiteral:
		out := &ast.ArrayLiteral{Base: e.Base}
		for _, el := range e.Elements {
			out.Elements = append(out.Elements, cloneExpression(el))
		}
		return out
	case *ast.ObjectLiteral:
		out := &ast.ObjectLiteral{Base: e.Base}
		for _, f := range e.Fields {
			out.Fields = append(out.Fields, ast.ObjectField{Name: f.Name, Value: cloneExpression(f.Value)})
		}
		return out
	default:
		return expr
	}
}

func cloneTypeAnnotation(t ast.TypeAnnotation) ast.TypeAnnotation {
	switch a := t.(type) {
	case nil:
		return nil
	case *ast.NamedTypeAnnotation:
		return &ast.NamedTypeAnnotation{Base: a.Base, Name: a.Name}
	case *ast.ArrayTypeAnnotation:
		return &ast.ArrayTypeAnnotation{Base: a.Base, Element: cloneTypeAnnotation(a.Element)}
	case *ast.RefTypeAnnotation:
		return &ast.RefTypeAnnotation{Base: a.Base, Target: cloneTypeAnnotation(a.Target), Mutable: a.Mutable}
	case *ast.ObjectTypeAnnotation:
		out := &ast.ObjectTypeAnnotation{Base: a.Base}
		for _, f := range a.Fields {
			out.Fields = append(out.Fields, ast.ObjectTypeField{Name: f.Name, Annotation: cloneTypeAnnotation(f.Annotation)})
		}
		return out
	default:
		return t
	}
}
