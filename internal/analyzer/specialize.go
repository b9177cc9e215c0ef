package analyzer

import (
	"strings"

	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/typesystem"
)

// pass3Specialize implements spec.md §4.G pass 3+: iterate full-body
// inference to a fixed point. Each round retypes every fully-typed
// function's body (no specialization needed), retypes every specialization
// created so far (nested calls inside them may resolve further now that
// more specializations exist), and retypes top-level statements outside any
// function. Any VisitCall/VisitMethodCall that reaches a not-fully-typed
// callee resolves or creates a FunctionSpecialization inline, which is why
// a single round already drives most of the work; the outer loop exists for
// cases where a callee's inferred return type only stabilizes after another
// round (e.g. mutually recursive functions).
func (e *Engine) pass3Specialize(prog *ast.Program) {
	changed := true
	iterations := 0
	triedZeroParam := make(map[*typesystem.Function]bool)
	reportedGlobalMismatch := make(map[*ast.VarDecl]bool)
	for changed && iterations < maxIterations {
		changed = false
		iterations++

		// Retype top-level var/let/const initializers before the function
		// bodies below: a zero-parameter function's body (and any other
		// top-level statement) may read a global whose value is only a
		// literal seeded here, so globals need to be current for this
		// same round's body inference rather than a round behind it.
		top := &inferer{e: e, scope: e.moduleScope, changed: &changed}
		for _, stmt := range prog.Statements {
			switch s := stmt.(type) {
			case *ast.FunctionDecl, *ast.StructDecl:
				continue
			case *ast.VarDecl:
				e.reinferGlobalVar(s, top, reportedGlobalMismatch)
			default:
				stmt.Accept(top)
			}
		}

		for decl, fn := range e.funcs {
			if decl.Body == nil {
				continue
			}
			if fn.IsFullyTyped() {
				ret := e.inferFunctionBody(decl.Body, decl, fn.Params, e.moduleScope, &changed)
				if !typesystem.IsUnknown(ret) && !e.types.TypesEqual(ret, fn.Return) {
					e.errorf(diagnostics.CodeTypeMismatch, decl, "function %s returns %s, declared %s", decl.Name, ret.String(), fn.Return.String())
				}
				continue
			}
			if len(fn.Params) == 0 && len(fn.Specializations) == 0 {
				// A zero-parameter function has no call-site argument types
				// left to wait on; infer its body directly, once, so an
				// unannotated return type still resolves even when the
				// function is never called. Only one attempt: a body that
				// stays unresolved (e.g. it references an undefined name)
				// would otherwise report the same error once per round.
				if triedZeroParam[fn] {
					continue
				}
				triedZeroParam[fn] = true
				ret := e.inferFunctionBody(decl.Body, decl, fn.Params, e.moduleScope, &changed)
				if !typesystem.IsUnknown(ret) {
					fn.Return = ret
					changed = true
				}
				continue
			}
			for _, spec := range fn.Specializations {
				body, _ := spec.Body.(*ast.Block)
				if body == nil {
					continue
				}
				ret := e.inferFunctionBody(body, decl, spec.ParamTypes, e.moduleScope, &changed)
				if typesystem.IsUnknown(spec.ReturnType) || !e.types.TypesEqual(ret, spec.ReturnType) {
					spec.ReturnType = ret
					changed = true
				}
			}
		}
	}

	if changed {
		var names []string
		for _, fn := range e.funcs {
			if !fn.IsFullyTyped() && len(fn.Specializations) == 0 {
				names = append(names, fn.Name)
			}
		}
		e.errorf(diagnostics.CodeNonConvergence, prog, "type inference did not converge after %d iterations: %s", maxIterations, strings.Join(names, ", "))
	}
}

// reinferGlobalVar re-types one top-level var/let/const's initializer for
// the current round. pass0Globals already inserted decl's *symbols.Entry
// into moduleScope; re-running it through VisitVarDecl here would call
// Table.Insert a second time, which for a const is rejected outright as a
// duplicate declaration (spec.md §8 scenario 3 needs exactly one diagnostic
// for `const a = 10; a++;`, not a second spurious one here) and for a
// non-const silently swaps in a brand new *symbols.Entry, breaking
// CodeIndex's by-pointer correlation for any identifier already resolved
// against the old one. Update the existing entry's Type in place instead.
func (e *Engine) reinferGlobalVar(decl *ast.VarDecl, in *inferer, reportedMismatch map[*ast.VarDecl]bool) {
	entry, ok := e.moduleScope.LookupLocal(decl.Name)
	if !ok || decl.Value == nil {
		return
	}
	if entry.Decl != decl {
		return // a same-named later declaration pass0Globals already rejected as a duplicate
	}

	if decl.Annotation == nil && !typesystem.IsUnknown(entry.Type) {
		return // already resolved by a previous round; nothing left to do
	}

	valType := in.infer(decl.Value)
	if typesystem.IsUnknown(valType) {
		return // depends on something not yet resolved; retry next round
	}

	if decl.Annotation == nil {
		if !e.types.TypesEqual(entry.Type, valType) {
			entry.Type = valType
			*in.changed = true
		}
		return
	}

	if !reportedMismatch[decl] && !typesystem.IsUnknown(entry.Type) && !e.types.TypesEqual(entry.Type, valType) {
		e.errorf(diagnostics.CodeTypeMismatch, decl, "cannot initialize %s with %s", entry.Type.String(), valType.String())
		reportedMismatch[decl] = true
	}
}

// resolveCall implements spec.md §4.G's call-site rule for a plain
// `callee(args...)` expression: resolve the callee, infer each argument,
// and dispatch to typeCall.
func (e *Engine) resolveCall(c *ast.Call, in *inferer) typesystem.Type {
	calleeT := in.infer(c.Callee)
	if typesystem.IsUnknown(calleeT) {
		return typesystem.TheUnknown()
	}
	fn, ok := e.types.ResolveAlias(calleeT).(*typesystem.Function)
	if !ok {
		e.errorf(diagnostics.CodeTypeMismatch, c, "cannot call non-function type %s", calleeT.String())
		return typesystem.TheUnknown()
	}
	decl := e.declOf[fn]
	argTypes := e.inferArgs(c.Args, in)
	return e.typeCall(c, fn, decl, argTypes, in.changed)
}

// resolveMethodCall implements the equivalent rule for `receiver.method(args)`:
// the receiver's resolved type must be an Object (or a Ref to one) whose
// declaring StructDecl has a matching method.
func (e *Engine) resolveMethodCall(m *ast.MethodCall, in *inferer) typesystem.Type {
	recvT := in.infer(m.Receiver)
	if typesystem.IsUnknown(recvT) {
		return typesystem.TheUnknown()
	}
	obj := in.objectOf(recvT)
	if obj == nil {
		e.errorf(diagnostics.CodeUnknownMember, m, "method call on non-object type %s", recvT.String())
		return typesystem.TheUnknown()
	}
	structDecl, ok := obj.Decl.(*ast.StructDecl)
	if !ok {
		e.errorf(diagnostics.CodeUnknownMember, m, "type %s has no methods", recvT.String())
		return typesystem.TheUnknown()
	}
	var methodDecl *ast.FunctionDecl
	for _, md := range structDecl.Methods {
		if md.Name == m.Method {
			methodDecl = md
			break
		}
	}
	if methodDecl == nil {
		e.errorf(diagnostics.CodeUnknownMember, m, "unknown method %q on %s", m.Method, recvT.String())
		return typesystem.TheUnknown()
	}
	fn := e.funcs[methodDecl]
	argTypes := e.inferArgs(m.Args, in)
	return e.typeCall(m, fn, methodDecl, argTypes, in.changed)
}

func (e *Engine) inferArgs(args []ast.Expression, in *inferer) []typesystem.Type {
	out := make([]typesystem.Type, len(args))
	for i, a := range args {
		out[i] = in.infer(a)
	}
	return out
}

// typeCall is the shared call-site rule behind both resolveCall and
// resolveMethodCall (spec.md §4.G): if fn is fully typed, type-check
// argTypes against its signature directly; otherwise find or create a
// FunctionSpecialization whose parameters match argTypes element-wise.
func (e *Engine) typeCall(node ast.Node, fn *typesystem.Function, decl *ast.FunctionDecl, argTypes []typesystem.Type, changed *bool) typesystem.Type {
	if !e.checkArity(node, fn, len(argTypes)) {
		return typesystem.TheUnknown()
	}

	if fn.IsFullyTyped() {
		for i, pt := range fn.Params {
			if i >= len(argTypes) {
				break // variadic tail, untyped by design
			}
			if typesystem.IsUnknown(argTypes[i]) {
				continue
			}
			if !e.types.TypesEqual(pt, argTypes[i]) {
				e.errorf(diagnostics.CodeTypeMismatch, node, "argument %d: cannot use %s as %s", i+1, argTypes[i].String(), pt.String())
			}
		}
		return fn.Return
	}

	for _, t := range argTypes {
		if typesystem.IsUnknown(t) {
			// Argument types aren't settled yet; retry on a later round.
			return typesystem.TheUnknown()
		}
	}

	if spec := fn.FindSpecialization(argTypes, e.types.TypesEqual); spec != nil {
		return spec.ReturnType
	}

	if decl == nil || decl.Body == nil {
		e.errorf(diagnostics.CodeExternalMissing, node, "function %s has no body to specialize", fn.Name)
		return typesystem.TheUnknown()
	}

	clone := cloneBlock(decl.Body)
	spec := &typesystem.FunctionSpecialization{
		MangledName: typesystem.FormatMangledName(fn.Name, argTypes),
		ParamTypes:  argTypes,
		ReturnType:  typesystem.TheUnknown(),
		Body:        clone,
	}
	fn.Specializations = append(fn.Specializations, spec)
	if changed != nil {
		*changed = true
	}

	spec.ReturnType = e.inferFunctionBody(clone, decl, argTypes, e.moduleScope, changed)
	return spec.ReturnType
}

// checkArity reports a Type Mismatch and returns false when the call's
// argument count cannot match fn's signature.
func (e *Engine) checkArity(node ast.Node, fn *typesystem.Function, argc int) bool {
	if fn.Variadic {
		if argc < len(fn.Params) {
			e.errorf(diagnostics.CodeTypeMismatch, node, "%s expects at least %d argument(s), got %d", fn.Name, len(fn.Params), argc)
			return false
		}
		return true
	}
	if argc != len(fn.Params) {
		e.errorf(diagnostics.CodeTypeMismatch, node, "%s expects %d argument(s), got %d", fn.Name, len(fn.Params), argc)
		return false
	}
	return true
}
