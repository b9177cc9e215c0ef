// Package ast defines the tagged-union AST produced by internal/parser and
// consumed by internal/analyzer and internal/codeindex. Each node kind is a
// concrete struct implementing Accept(Visitor) rather than relying on
// virtual dispatch (spec.md §9 Polymorphism), mirroring the teacher's
// internal/ast package.
package ast

import (
	"github.com/nanov/jsasta/internal/source"
	"github.com/nanov/jsasta/internal/token"
	"github.com/nanov/jsasta/internal/typesystem"
)

// Node is the base interface for every AST node.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Location() source.Location
	Accept(v Visitor)
}

// Statement is a Node appearing in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node appearing in expression position. Once inference has
// run, Type() holds the node's resolved TypeInfo (possibly Unknown for
// nodes inference never reached).
type Expression interface {
	Node
	expressionNode()
	Type() typesystem.Type
	SetType(typesystem.Type)
}

// TypeAnnotation is a Node appearing in type-annotation position (the small
// grammar from spec.md §4.D: primitive names, array suffixes, ref prefixes,
// named references, and anonymous object braces).
type TypeAnnotation interface {
	Node
	typeAnnotationNode()
}

// baseExpr centralizes the Type/SetType bookkeeping every Expression needs.
type baseExpr struct {
	typeInfo typesystem.Type
}

func (b *baseExpr) Type() typesystem.Type     { return b.typeInfo }
func (b *baseExpr) SetType(t typesystem.Type) { b.typeInfo = t }
func (b *baseExpr) expressionNode()           {}

// NewLocation builds the source.Location for a token parsed from file. The
// parser is the only place that knows the current file path, since Token
// itself only tracks line/column (spec.md §3 Token).
func NewLocation(file string, t token.Token) source.Location {
	return source.Location{File: file, Line: t.Line, Column: t.Column}
}
