package ast

import (
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/token"
)

// Identifier is a name reference. Once inference resolves it, Entry points
// at the SymbolEntry it resolved to (spec.md §4.G), enabling CodeIndex to
// link references back to their declaration.
type Identifier struct {
	Base
	baseExpr
	Name  string
	Entry *symbols.Entry
}

func (i *Identifier) Accept(v Visitor) { v.VisitIdentifier(i) }

// Number is an integer or floating-point literal. IsFloat distinguishes the
// two; Suffix records an explicit `i8`…`u64` subtype hint when present.
type Number struct {
	Base
	baseExpr
	IntValue   int64
	FloatValue float64
	IsFloat    bool
	Suffix     token.Type // token.ILLEGAL when no suffix was given
}

func (n *Number) Accept(v Visitor) { v.VisitNumber(n) }

// String is a double-quoted string literal, already escape-decoded.
type String struct {
	Base
	baseExpr
	Value string
}

func (s *String) Accept(v Visitor) { v.VisitString(s) }

// Boolean is a `true`/`false` literal.
type Boolean struct {
	Base
	baseExpr
	Value bool
}

func (b *Boolean) Accept(v Visitor) { v.VisitBoolean(b) }

// BinaryOp is any left-associative infix operator (arithmetic, bitwise,
// comparison, shift, logical `&&`/`||`), per the precedence table in §6.
type BinaryOp struct {
	Base
	baseExpr
	Op    token.Type
	Left  Expression
	Right Expression
}

func (b *BinaryOp) Accept(v Visitor) { v.VisitBinaryOp(b) }

// UnaryOp is a logical `!` applied to a bool operand.
type UnaryOp struct {
	Base
	baseExpr
	Op      token.Type
	Operand Expression
}

func (u *UnaryOp) Accept(v Visitor) { v.VisitUnaryOp(u) }

// PrefixOp is a prefix `-`, `+`, `++`, or `--`.
type PrefixOp struct {
	Base
	baseExpr
	Op      token.Type
	Operand Expression
}

func (p *PrefixOp) Accept(v Visitor) { v.VisitPrefixOp(p) }

// PostfixOp is a postfix `++` or `--`.
type PostfixOp struct {
	Base
	baseExpr
	Op      token.Type
	Operand Expression
}

func (p *PostfixOp) Accept(v Visitor) { v.VisitPostfixOp(p) }

// Call is a plain function-call expression: `callee(args...)`.
type Call struct {
	Base
	baseExpr
	Callee Expression
	Args   []Expression
}

func (c *Call) Accept(v Visitor) { v.VisitCall(c) }

// MethodCall is a call through member-access syntax: `receiver.method(args)`.
type MethodCall struct {
	Base
	baseExpr
	Receiver Expression
	Method   string
	Args     []Expression
}

func (m *MethodCall) Accept(v Visitor) { v.VisitMethodCall(m) }

// Assignment is a plain `target = value` (target must be an lvalue:
// Identifier, MemberAccess, or IndexAccess).
type Assignment struct {
	Base
	baseExpr
	Target Expression
	Value  Expression
}

func (a *Assignment) Accept(v Visitor) { v.VisitAssignment(a) }

// CompoundAssignment is `target op= value` (`+=`, `-=`, etc.).
type CompoundAssignment struct {
	Base
	baseExpr
	Op     token.Type
	Target Expression
	Value  Expression
}

func (c *CompoundAssignment) Accept(v Visitor) { v.VisitCompoundAssignment(c) }

// MemberAccess is `object.field` read access.
type MemberAccess struct {
	Base
	baseExpr
	Object Expression
	Member string
}

func (m *MemberAccess) Accept(v Visitor) { v.VisitMemberAccess(m) }

// MemberAssignment is `object.field = value`.
type MemberAssignment struct {
	Base
	baseExpr
	Object Expression
	Member string
	Value  Expression
}

func (m *MemberAssignment) Accept(v Visitor) { v.VisitMemberAssignment(m) }

// Ternary is the right-associative `cond ? then : else` expression.
type Ternary struct {
	Base
	baseExpr
	Condition Expression
	Then      Expression
	Else      Expression
}

func (t *Ternary) Accept(v Visitor) { v.VisitTernary(t) }

// IndexAccess is `object[index]` read access.
type IndexAccess struct {
	Base
	baseExpr
	Object Expression
	Index  Expression
}

func (i *IndexAccess) Accept(v Visitor) { v.VisitIndexAccess(i) }

// IndexAssignment is `object[index] = value`.
type IndexAssignment struct {
	Base
	baseExpr
	Object Expression
	Index  Expression
	Value  Expression
}

func (i *IndexAssignment) Accept(v Visitor) { v.VisitIndexAssignment(i) }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Base
	baseExpr
	Elements []Expression
}

func (a *ArrayLiteral) Accept(v Visitor) { v.VisitArrayLiteral(a) }

// ObjectField is one (key, value) pair of an ObjectLiteral, in source order.
type ObjectField struct {
	Name  string
	Value Expression
}

// ObjectLiteral is `{ field: value, ... }`. Its TypeInfo is assigned by the
// type engine via structural interning (spec.md §4.D, §4.E).
type ObjectLiteral struct {
	Base
	baseExpr
	Fields []ObjectField
}

func (o *ObjectLiteral) Accept(v Visitor) { v.VisitObjectLiteral(o) }
