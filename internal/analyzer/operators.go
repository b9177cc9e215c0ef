package analyzer

import (
	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/token"
	"github.com/nanov/jsasta/internal/typesystem"
)

func (e *Engine) isBool(t typesystem.Type) bool {
	p, ok := e.types.ResolveAlias(t).(*typesystem.Primitive)
	return ok && p.Kind == typesystem.Bool
}

func (e *Engine) isString(t typesystem.Type) bool {
	p, ok := e.types.ResolveAlias(t).(*typesystem.Primitive)
	return ok && p.Kind == typesystem.StringKind
}

func (e *Engine) asInteger(t typesystem.Type) (*typesystem.Primitive, bool) {
	p, ok := e.types.ResolveAlias(t).(*typesystem.Primitive)
	if !ok || !p.Kind.IsInteger() {
		return nil, false
	}
	return p, true
}

func (e *Engine) asFloat(t typesystem.Type) (*typesystem.Primitive, bool) {
	p, ok := e.types.ResolveAlias(t).(*typesystem.Primitive)
	if !ok || (p.Kind != typesystem.F32 && p.Kind != typesystem.F64) {
		return nil, false
	}
	return p, true
}

var comparisonOps = map[token.Type]bool{
	token.LT: true, token.LTE: true, token.GT: true, token.GTE: true,
	token.EQ: true, token.NOT_EQ: true,
}

var shiftOps = map[token.Type]bool{token.LSHIFT: true, token.RSHIFT: true}
var bitwiseOps = map[token.Type]bool{token.AMPERSAND: true, token.PIPE: true, token.CARET: true}
var logicalOps = map[token.Type]bool{token.AND: true, token.OR: true}

// binaryOpType implements the operator mapping from spec.md §6/§4.G: integer
// arithmetic promotes to the wider operand when widths differ and
// signedness agrees (mixed signedness is an Error); integer/float mixing is
// an Error; string `+` is defined only for two strings; comparisons yield
// bool; shifts require an integer left operand and an integer right
// operand; `&&`/`||` require bool operands.
func (e *Engine) binaryOpType(op ast.Node, opType token.Type, left, right typesystem.Type) typesystem.Type {
	boolT := e.types.Primitive(typesystem.Bool)

	if typesystem.IsUnknown(left) || typesystem.IsUnknown(right) {
		return typesystem.TheUnknown()
	}

	if logicalOps[opType] {
		if !e.isBool(left) || !e.isBool(right) {
			e.errorf(diagnostics.CodeNonBoolOperand, op, "operands of %s must be bool", opType)
			return typesystem.TheUnknown()
		}
		return boolT
	}

	if comparisonOps[opType] {
		if !e.types.TypesEqual(left, right) {
			if _, lok := e.asInteger(left); lok {
				if _, rok := e.asInteger(right); rok {
					// Allow comparison across widths/signedness; still flag
					// mismatched signedness explicitly per spec.md §4.G.
					lp, _ := e.asInteger(left)
					rp, _ := e.asInteger(right)
					if lp.Signed() != rp.Signed() {
						e.errorf(diagnostics.CodeSignednessMismatch, op, "cannot compare %s with %s: mismatched signedness", left.String(), right.String())
					}
					return boolT
				}
			}
			e.errorf(diagnostics.CodeTypeMismatch, op, "cannot compare %s with %s", left.String(), right.String())
			return boolT
		}
		return boolT
	}

	if shiftOps[opType] {
		lp, lok := e.asInteger(left)
		_, rok := e.asInteger(right)
		if !lok || !rok {
			e.errorf(diagnostics.CodeMissingOperatorType, op, "shift operands must be integers, got %s, %s", left.String(), right.String())
			return typesystem.TheUnknown()
		}
		return lp
	}

	if opType == token.PLUS && e.isString(left) && e.isString(right) {
		return e.types.Primitive(typesystem.StringKind)
	}
	if opType == token.PLUS && (e.isString(left) || e.isString(right)) {
		e.errorf(diagnostics.CodeTypeMismatch, op, "string + is only defined for two strings")
		return typesystem.TheUnknown()
	}

	if bitwiseOps[opType] || isArithmetic(opType) {
		lp, lok := e.asInteger(left)
		rp, rok := e.asInteger(right)
		if lok && rok {
			if lp.Signed() != rp.Signed() {
				e.errorf(diagnostics.CodeSignednessMismatch, op, "mismatched signedness: %s vs %s", left.String(), right.String())
				return typesystem.TheUnknown()
			}
			if lp.BitWidth() >= rp.BitWidth() {
				return lp
			}
			return rp
		}
		if isArithmetic(opType) {
			lf, lfok := e.asFloat(left)
			rf, rfok := e.asFloat(right)
			if lfok && rfok {
				if lf.Kind == typesystem.F64 || rf.Kind == typesystem.F64 {
					return e.types.Primitive(typesystem.F64)
				}
				return lf
			}
		}
		e.errorf(diagnostics.CodeTypeMismatch, op, "integer/float mismatch: %s and %s", left.String(), right.String())
		return typesystem.TheUnknown()
	}

	e.errorf(diagnostics.CodeMissingOperatorType, op, "operator %s is not defined for %s and %s", opType, left.String(), right.String())
	return typesystem.TheUnknown()
}

func isArithmetic(op token.Type) bool {
	switch op {
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT:
		return true
	default:
		return false
	}
}
