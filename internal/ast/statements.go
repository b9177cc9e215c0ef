package ast

import (
	"github.com/nanov/jsasta/internal/symbols"
)

// Program is the root of every tree the parser produces. It owns every
// statement and the top-level scope inference runs against (spec.md §3:
// "Program and Block nodes carry their own symbol table").
type Program struct {
	Base
	File       string
	Statements []Statement
	Scope      *symbols.Table
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) statementNode()   {}

// Block is a brace-delimited statement sequence introducing its own scope.
type Block struct {
	Base
	Statements []Statement
	Scope      *symbols.Table
}

func (b *Block) Accept(v Visitor) { v.VisitBlock(b) }
func (b *Block) statementNode()   {}

// VarDecl covers `var`, `let`, and `const` bindings.
type VarDecl struct {
	Base
	Name       string
	Const      bool
	Annotation TypeAnnotation // nil if omitted
	Value      Expression     // nil for `var x: i32;` with no initializer
	ArraySize  Expression     // set for fixed-size array declarations, else nil
}

func (v *VarDecl) Accept(vis Visitor) { vis.VisitVarDecl(v) }
func (v *VarDecl) statementNode()     {}

// Param is one function parameter.
type Param struct {
	Name       string
	Annotation TypeAnnotation // nil when untyped (inferred from call sites)
}

// FunctionDecl covers both ordinary and `external` function declarations.
type FunctionDecl struct {
	Base
	Name       string
	Params     []Param
	ReturnType TypeAnnotation // nil if omitted
	Variadic   bool
	External   bool
	Body       *Block // nil for external declarations
}

func (f *FunctionDecl) Accept(v Visitor) { v.VisitFunctionDecl(f) }
func (f *FunctionDecl) statementNode()   {}

// StructField is one field in a StructDecl, with an optional default value.
type StructField struct {
	Name       string
	Annotation TypeAnnotation
	Default    Expression // nil if absent
}

// StructDecl declares a named struct type, optionally with method blocks.
type StructDecl struct {
	Base
	Name    string
	Fields  []StructField
	Methods []*FunctionDecl
}

func (s *StructDecl) Accept(v Visitor) { v.VisitStructDecl(s) }
func (s *StructDecl) statementNode()   {}

// Return is a `return [expr];` statement.
type Return struct {
	Base
	Value Expression // nil for bare `return;`
}

func (r *Return) Accept(v Visitor) { v.VisitReturn(r) }
func (r *Return) statementNode()   {}

// Break is a `break;` statement.
type Break struct{ Base }

func (b *Break) Accept(v Visitor) { v.VisitBreak(b) }
func (b *Break) statementNode()   {}

// Continue is a `continue;` statement.
type Continue struct{ Base }

func (c *Continue) Accept(v Visitor) { v.VisitContinue(c) }
func (c *Continue) statementNode()   {}

// If covers both `if` and `if/else`.
type If struct {
	Base
	Condition Expression
	Then      *Block
	Else      Statement // *Block, *If (else-if chain), or nil
}

func (i *If) Accept(v Visitor) { v.VisitIf(i) }
func (i *If) statementNode()   {}

// For is a classic three-clause loop: `for (init; cond; post) { ... }`.
type For struct {
	Base
	Init      Statement // nil if omitted
	Condition Expression
	Post      Statement // nil if omitted
	Body      *Block
}

func (f *For) Accept(v Visitor) { v.VisitFor(f) }
func (f *For) statementNode()   {}

// While is a `while (cond) { ... }` loop.
type While struct {
	Base
	Condition Expression
	Body      *Block
}

func (w *While) Accept(v Visitor) { v.VisitWhile(w) }
func (w *While) statementNode()   {}

// ExprStmt wraps an expression used for its side effects.
type ExprStmt struct {
	Base
	Expr Expression
}

func (e *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(e) }
func (e *ExprStmt) statementNode()   {}
