package analyzer

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/token"
	"github.com/nanov/jsasta/internal/typesystem"
)

// inferer performs spec.md §4.G's "body inference": a recursive traversal
// that infers and writes TypeInfo on every expression node of one function
// body (original or specialized clone). It implements ast.Visitor; each
// VisitXxx method stores its node's resolved type in result so the caller
// (infer) can read it back after Accept returns.
type inferer struct {
	ast.BaseVisitor
	e       *Engine
	scope   *symbols.Table
	result  typesystem.Type
	returns []typesystem.Type
	changed *bool
}

// infer walks expr and returns its resolved TypeInfo (Unknown for nil).
func (in *inferer) infer(expr ast.Expression) typesystem.Type {
	if expr == nil {
		return typesystem.TheUnknown()
	}
	expr.Accept(in)
	return in.result
}

// inferFunctionBody runs body inference for one concrete parameter binding
// (spec.md §4.G pass 3+). It returns the join of every Return's type; void
// if the body has no Return statements.
func (e *Engine) inferFunctionBody(body *ast.Block, decl *ast.FunctionDecl, paramTypes []typesystem.Type, moduleScope *symbols.Table, changed *bool) typesystem.Type {
	fnScope := symbols.NewChild(moduleScope)
	for i := range decl.Params {
		var t typesystem.Type = typesystem.TheUnknown()
		if i < len(paramTypes) {
			t = paramTypes[i]
		}
		fnScope.Insert(&symbols.Entry{Name: decl.Params[i].Name, Decl: &decl.Params[i], Type: t})
	}

	in := &inferer{e: e, scope: fnScope, changed: changed}
	body.Scope = symbols.NewChild(fnScope)
	savedScope := in.scope
	in.scope = body.Scope
	for _, s := range body.Statements {
		s.Accept(in)
	}
	in.scope = savedScope

	return e.joinReturnTypes(body, in.returns)
}

// joinReturnTypes implements spec.md §4.G's Return rule: the function's
// return type is the join of all Return types, void with none, and a Type
// Mismatch if the returns disagree.
func (e *Engine) joinReturnTypes(node ast.Node, returns []typesystem.Type) typesystem.Type {
	if len(returns) == 0 {
		return e.types.Primitive(typesystem.Void)
	}
	joined := returns[0]
	for _, t := range returns[1:] {
		if typesystem.IsUnknown(joined) {
			joined = t
			continue
		}
		if typesystem.IsUnknown(t) {
			continue
		}
		if !e.types.TypesEqual(joined, t) {
			e.errorf(diagnostics.CodeTypeMismatch, node, "mismatched return types: %s and %s", joined.String(), t.String())
		}
	}
	return joined
}

func (in *inferer) VisitBlock(b *ast.Block) {
	saved := in.scope
	if b.Scope == nil {
		b.Scope = symbols.NewChild(in.scope)
	}
	in.scope = b.Scope
	for _, s := range b.Statements {
		s.Accept(in)
	}
	in.scope = saved
}

func (in *inferer) VisitVarDecl(v *ast.VarDecl) {
	var declType typesystem.Type = typesystem.TheUnknown()
	if v.Annotation != nil {
		declType = in.e.resolveAnnotation(v.Annotation, in.scope)
	}
	if v.Value != nil {
		valType := in.infer(v.Value)
		if v.Annotation == nil {
			declType = valType
		} else if !typesystem.IsUnknown(valType) && !typesystem.IsUnknown(declType) && !in.e.types.TypesEqual(declType, valType) {
			in.e.errorf(diagnostics.CodeTypeMismatch, v, "cannot initialize %s with %s", declType.String(), valType.String())
		}
	}
	entry := &symbols.Entry{Name: v.Name, Decl: v, Type: declType, Const: v.Const}
	if v.ArraySize != nil {
		entry.HasSize = true
		in.infer(v.ArraySize)
		if n, ok := constantArraySize(v.ArraySize); ok {
			entry.ArraySize = n
		} else {
			in.e.errorf(diagnostics.CodeInvalidArraySize, v.ArraySize, "array size must be a constant integer")
		}
	}
	if !in.scope.Insert(entry) {
		in.e.errorf(diagnostics.CodeDuplicateDecl, v, "duplicate declaration: %s", v.Name)
	}
}

func (in *inferer) VisitFunctionDecl(f *ast.FunctionDecl) {
	// Nested function declarations are out of spec.md scope; skip rather
	// than reinterpret them as closures.
}

func (in *inferer) VisitStructDecl(s *ast.StructDecl) {}

func (in *inferer) VisitReturn(r *ast.Return) {
	if r.Value == nil {
		in.returns = append(in.returns, in.e.types.Primitive(typesystem.Void))
		return
	}
	in.returns = append(in.returns, in.infer(r.Value))
}

func (in *inferer) VisitBreak(*ast.Break)       {}
func (in *inferer) VisitContinue(*ast.Continue) {}

func (in *inferer) VisitIf(i *ast.If) {
	condT := in.infer(i.Condition)
	if !typesystem.IsUnknown(condT) && !in.e.isBool(condT) {
		in.e.errorf(diagnostics.CodeNonBoolOperand, i.Condition, "if condition must be bool, got %s", condT.String())
	}
	i.Then.Accept(in)
	if i.Else != nil {
		i.Else.Accept(in)
	}
}

func (in *inferer) VisitFor(f *ast.For) {
	saved := in.scope
	loopScope := symbols.NewChild(saved)
	in.scope = loopScope
	if f.Init != nil {
		f.Init.Accept(in)
	}
	if f.Condition != nil {
		condT := in.infer(f.Condition)
		if !typesystem.IsUnknown(condT) && !in.e.isBool(condT) {
			in.e.errorf(diagnostics.CodeNonBoolOperand, f.Condition, "for condition must be bool, got %s", condT.String())
		}
	}
	if f.Post != nil {
		f.Post.Accept(in)
	}
	f.Body.Accept(in)
	in.scope = saved
}

func (in *inferer) VisitWhile(w *ast.While) {
	condT := in.infer(w.Condition)
	if !typesystem.IsUnknown(condT) && !in.e.isBool(condT) {
		in.e.errorf(diagnostics.CodeNonBoolOperand, w.Condition, "while condition must be bool, got %s", condT.String())
	}
	w.Body.Accept(in)
}

func (in *inferer) VisitExprStmt(s *ast.ExprStmt) { in.infer(s.Expr) }

func (in *inferer) VisitIdentifier(id *ast.Identifier) {
	entry, ok := in.scope.Lookup(id.Name)
	if !ok {
		in.e.errorf(diagnostics.CodeUndefinedVariable, id, "undefined variable %q", id.Name)
		in.result = typesystem.TheUnknown()
		id.SetType(in.result)
		return
	}
	id.Entry = entry
	in.result = entry.Type
	id.SetType(in.result)
}

func (in *inferer) VisitNumber(n *ast.Number) {
	in.result = in.e.numberLiteralType(n)
	n.SetType(in.result)
}

func (in *inferer) VisitString(s *ast.String) {
	in.result = in.e.types.Primitive(typesystem.StringKind)
	s.SetType(in.result)
}

func (in *inferer) VisitBoolean(b *ast.Boolean) {
	in.result = in.e.types.Primitive(typesystem.Bool)
	b.SetType(in.result)
}

func (in *inferer) VisitUnaryOp(u *ast.UnaryOp) {
	operandT := in.infer(u.Operand)
	if !typesystem.IsUnknown(operandT) && !in.e.isBool(operandT) {
		in.e.errorf(diagnostics.CodeNonBoolOperand, u, "operand of ! must be bool, got %s", operandT.String())
	}
	in.result = in.e.types.Primitive(typesystem.Bool)
	u.SetType(in.result)
}

func (in *inferer) VisitPrefixOp(p *ast.PrefixOp) {
	operandT := in.infer(p.Operand)
	if p.Op == token.INCREMENT || p.Op == token.DECREMENT {
		in.checkMutable(p, p.Operand)
	}
	in.result = in.numericUnaryResult(p, p.Op, operandT)
	p.SetType(in.result)
}

func (in *inferer) VisitPostfixOp(p *ast.PostfixOp) {
	operandT := in.infer(p.Operand)
	if p.Op == token.INCREMENT || p.Op == token.DECREMENT {
		in.checkMutable(p, p.Operand)
	}
	in.result = in.numericUnaryResult(p, p.Op, operandT)
	p.SetType(in.result)
}

// checkMutable reports a Const Mutation error when operand is an identifier
// bound to a const entry (spec.md §8: `const a = 10; a++;` is exactly one
// error at the location of the increment).
func (in *inferer) checkMutable(node ast.Node, operand ast.Expression) {
	if id, ok := operand.(*ast.Identifier); ok && id.Entry != nil && id.Entry.Const {
		in.e.errorf(diagnostics.CodeConstMutation, node, "cannot assign to const %s", id.Name)
	}
}

func (in *inferer) numericUnaryResult(node ast.Node, op token.Type, operandT typesystem.Type) typesystem.Type {
	if typesystem.IsUnknown(operandT) {
		return typesystem.TheUnknown()
	}
	if _, ok := in.e.asInteger(operandT); ok {
		return operandT
	}
	if _, ok := in.e.asFloat(operandT); ok {
		if op == token.INCREMENT || op == token.DECREMENT {
			in.e.errorf(diagnostics.CodeMissingOperatorType, node, "%s is only defined for integers", op)
			return typesystem.TheUnknown()
		}
		return operandT
	}
	in.e.errorf(diagnostics.CodeMissingOperatorType, node, "unary %s requires a numeric operand, got %s", op, operandT.String())
	return typesystem.TheUnknown()
}

func (in *inferer) VisitBinaryOp(b *ast.BinaryOp) {
	left := in.infer(b.Left)
	right := in.infer(b.Right)
	in.result = in.e.binaryOpType(b, b.Op, left, right)
	b.SetType(in.result)
}

func (in *inferer) VisitAssignment(a *ast.Assignment) {
	targetT := in.infer(a.Target)
	valueT := in.infer(a.Value)
	in.checkAssignable(a, a.Target, targetT, valueT)
	in.result = targetT
	a.SetType(in.result)
}

func (in *inferer) VisitCompoundAssignment(c *ast.CompoundAssignment) {
	targetT := in.infer(c.Target)
	valueT := in.infer(c.Value)
	in.checkAssignable(c, c.Target, targetT, valueT)
	in.result = targetT
	c.SetType(in.result)
}

// checkAssignable implements spec.md §4.G's Assignments rule: the target
// must exist (already guaranteed by infer(target) resolving it), be
// mutable (not const), and its type must match the value after alias
// resolution.
func (in *inferer) checkAssignable(node ast.Node, target ast.Expression, targetT, valueT typesystem.Type) {
	if id, ok := target.(*ast.Identifier); ok && id.Entry != nil && id.Entry.Const {
		in.e.errorf(diagnostics.CodeConstMutation, node, "cannot assign to const %s", id.Name)
	}
	if typesystem.IsUnknown(targetT) || typesystem.IsUnknown(valueT) {
		return
	}
	if !in.e.types.TypesEqual(targetT, valueT) {
		in.e.errorf(diagnostics.CodeTypeMismatch, node, "cannot assign %s to %s", valueT.String(), targetT.String())
	}
}

func (in *inferer) VisitMemberAccess(m *ast.MemberAccess) {
	objT := in.infer(m.Object)
	in.result = in.memberType(m, objT, m.Member)
	m.SetType(in.result)
}

func (in *inferer) VisitMemberAssignment(m *ast.MemberAssignment) {
	objT := in.infer(m.Object)
	fieldT := in.memberType(m, objT, m.Member)
	valT := in.infer(m.Value)
	if !typesystem.IsUnknown(fieldT) && !typesystem.IsUnknown(valT) && !in.e.types.TypesEqual(fieldT, valT) {
		in.e.errorf(diagnostics.CodeTypeMismatch, m, "cannot assign %s to field %s of type %s", valT.String(), m.Member, fieldT.String())
	}
	in.result = fieldT
	m.SetType(in.result)
}

func (in *inferer) memberType(node ast.Node, objT typesystem.Type, member string) typesystem.Type {
	if typesystem.IsUnknown(objT) {
		return typesystem.TheUnknown()
	}
	obj := in.objectOf(objT)
	if obj == nil {
		in.e.errorf(diagnostics.CodeUnknownMember, node, "member access on non-object type %s", objT.String())
		return typesystem.TheUnknown()
	}
	ft := obj.FieldType(member)
	if ft == nil {
		in.e.errorf(diagnostics.CodeUnknownMember, node, "unknown member %q on %s", member, objT.String())
		return typesystem.TheUnknown()
	}
	return ft
}

// objectOf unwraps a Ref-to-Object down to its Object, resolving aliases.
func (in *inferer) objectOf(t typesystem.Type) *typesystem.Object {
	rt := in.e.types.ResolveAlias(t)
	if ref, ok := rt.(*typesystem.Ref); ok {
		rt = in.e.types.ResolveAlias(ref.Target)
	}
	obj, _ := rt.(*typesystem.Object)
	return obj
}

// arrayOf unwraps a Ref-to-Array down to its Array, resolving aliases.
func (in *inferer) arrayOf(t typesystem.Type) *typesystem.Array {
	rt := in.e.types.ResolveAlias(t)
	if ref, ok := rt.(*typesystem.Ref); ok {
		rt = in.e.types.ResolveAlias(ref.Target)
	}
	arr, _ := rt.(*typesystem.Array)
	return arr
}

func (in *inferer) VisitTernary(t *ast.Ternary) {
	condT := in.infer(t.Condition)
	if !typesystem.IsUnknown(condT) && !in.e.isBool(condT) {
		in.e.errorf(diagnostics.CodeNonBoolOperand, t, "ternary condition must be bool, got %s", condT.String())
	}
	thenT := in.infer(t.Then)
	elseT := in.infer(t.Else)
	if !typesystem.IsUnknown(thenT) && !typesystem.IsUnknown(elseT) && !in.e.types.TypesEqual(thenT, elseT) {
		in.e.errorf(diagnostics.CodeTypeMismatch, t, "ternary branches disagree: %s vs %s", thenT.String(), elseT.String())
	}
	in.result = thenT
	if typesystem.IsUnknown(thenT) {
		in.result = elseT
	}
	t.SetType(in.result)
}

func (in *inferer) VisitIndexAccess(x *ast.IndexAccess) {
	objT := in.infer(x.Object)
	idxT := in.infer(x.Index)
	in.result = in.indexResultType(x, objT, idxT)
	x.SetType(in.result)
}

func (in *inferer) VisitIndexAssignment(x *ast.IndexAssignment) {
	objT := in.infer(x.Object)
	idxT := in.infer(x.Index)
	elemT := in.indexResultType(x, objT, idxT)
	valT := in.infer(x.Value)
	if id, ok := x.Object.(*ast.Identifier); ok && id.Entry != nil && id.Entry.Const {
		in.e.errorf(diagnostics.CodeConstMutation, x, "cannot index-assign into const %s", id.Name)
	}
	if !typesystem.IsUnknown(elemT) && !typesystem.IsUnknown(valT) && !in.e.types.TypesEqual(elemT, valT) {
		in.e.errorf(diagnostics.CodeTypeMismatch, x, "cannot assign %s to element of type %s", valT.String(), elemT.String())
	}
	in.result = elemT
	x.SetType(in.result)
}

func (in *inferer) indexResultType(node ast.Node, objT, idxT typesystem.Type) typesystem.Type {
	if typesystem.IsUnknown(objT) {
		return typesystem.TheUnknown()
	}
	if !typesystem.IsUnknown(idxT) {
		if _, ok := in.e.asInteger(idxT); !ok {
			in.e.errorf(diagnostics.CodeNonIntegerIndex, node, "array index must be an integer, got %s", idxT.String())
		}
	}
	arr := in.arrayOf(objT)
	if arr == nil {
		in.e.errorf(diagnostics.CodeTypeMismatch, node, "cannot index non-array type %s", objT.String())
		return typesystem.TheUnknown()
	}
	return arr.Elem
}

func (in *inferer) VisitArrayLiteral(a *ast.ArrayLiteral) {
	var elem typesystem.Type = typesystem.TheUnknown()
	for i, el := range a.Elements {
		t := in.infer(el)
		if i == 0 {
			elem = t
		} else if !typesystem.IsUnknown(elem) && !typesystem.IsUnknown(t) && !in.e.types.TypesEqual(elem, t) {
			in.e.errorf(diagnostics.CodeTypeMismatch, el, "array elements disagree: %s vs %s", elem.String(), t.String())
		}
	}
	in.result = in.e.types.NewArray(elem)
	a.SetType(in.result)
}

func (in *inferer) VisitObjectLiteral(o *ast.ObjectLiteral) {
	fields := make([]typesystem.ObjectField, 0, len(o.Fields))
	for _, f := range o.Fields {
		fields = append(fields, typesystem.ObjectField{Name: f.Name, Type: in.infer(f.Value)})
	}
	in.result = in.e.types.InternObject(fields, o)
	o.SetType(in.result)
}

func (in *inferer) VisitCall(c *ast.Call) {
	in.result = in.e.resolveCall(c, in)
	c.SetType(in.result)
}

func (in *inferer) VisitMethodCall(m *ast.MethodCall) {
	in.result = in.e.resolveMethodCall(m, in)
	m.SetType(in.result)
}
