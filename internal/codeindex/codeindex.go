// Package codeindex implements the CodeIndex from spec.md §4.H: a flat,
// position-sorted array built once inference has completed, mapping every
// identifier occurrence (definition or reference) to its declaration.
package codeindex

import (
	"sort"

	"github.com/nanov/jsasta/internal/ast"
	"github.com/nanov/jsasta/internal/source"
	"github.com/nanov/jsasta/internal/symbols"
	"github.com/nanov/jsasta/internal/typesystem"
)

// DeclKind distinguishes the three definition-producing node kinds.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclFunction
	DeclStruct
)

// CodeInfo is what one index entry resolves to: the declaring name, its
// kind, its TypeInfo, and the declaration node itself (as `any`, mirroring
// symbols.Entry.Decl, so this package never needs to import back into
// whichever package ends up wanting the concrete node).
type CodeInfo struct {
	Name string
	Kind DeclKind
	Type typesystem.Type
	Decl any
}

// entry is one (location, info, isDefinition) triple, before sorting.
type entry struct {
	loc          source.Location
	endColumn    int
	info         *CodeInfo
	isDefinition bool
}

// Index is the built, queryable structure. entries is sorted by
// (File, Line, Column) per spec.md §3's CodeIndex invariant.
type Index struct {
	entries []entry
}

// Build walks prog — whose inference must already have completed — and
// collects one entry per VarDecl/FunctionDecl/StructDecl definition and one
// entry per resolved Identifier reference.
func Build(prog *ast.Program) *Index {
	b := &builder{declInfo: make(map[any]*CodeInfo)}
	b.walkProgram(prog)
	sort.SliceStable(b.entries, func(i, j int) bool {
		a, c := b.entries[i].loc, b.entries[j].loc
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Line != c.Line {
			return a.Line < c.Line
		}
		return a.Column < c.Column
	})
	return &Index{entries: b.entries}
}

// builder accumulates entries via a BaseVisitor-embedding walker; it is not
// itself exported since callers only need the finished Index.
type builder struct {
	ast.BaseVisitor
	entries  []entry
	declInfo map[any]*CodeInfo // declaration node -> its CodeInfo, shared between the definition entry and every reference entry
}

func (b *builder) walkProgram(prog *ast.Program) {
	for _, s := range prog.Statements {
		s.Accept(b)
	}
}

func (b *builder) addDefinition(decl ast.Node, name string, kind DeclKind, t typesystem.Type) *CodeInfo {
	info := &CodeInfo{Name: name, Kind: kind, Type: t, Decl: decl}
	b.declInfo[decl] = info
	b.entries = append(b.entries, entry{
		loc: decl.Location(), endColumn: decl.Location().Column + len(name),
		info: info, isDefinition: true,
	})
	return info
}

func (b *builder) VisitVarDecl(v *ast.VarDecl) {
	b.addDefinition(v, v.Name, DeclVar, exprType(v.Value))
	if v.Value != nil {
		v.Value.Accept(b)
	}
}

func (b *builder) VisitFunctionDecl(f *ast.FunctionDecl) {
	b.addDefinition(f, f.Name, DeclFunction, nil)
	if f.Body != nil {
		f.Body.Accept(b)
	}
}

func (b *builder) VisitStructDecl(s *ast.StructDecl) {
	b.addDefinition(s, s.Name, DeclStruct, nil)
	for _, f := range s.Fields {
		if f.Default != nil {
			f.Default.Accept(b)
		}
	}
	for _, m := range s.Methods {
		m.Accept(b)
	}
}

func (b *builder) VisitBlock(blk *ast.Block) {
	for _, s := range blk.Statements {
		s.Accept(b)
	}
}

func (b *builder) VisitReturn(r *ast.Return) {
	if r.Value != nil {
		r.Value.Accept(b)
	}
}

func (b *builder) VisitIf(i *ast.If) {
	i.Condition.Accept(b)
	i.Then.Accept(b)
	if i.Else != nil {
		i.Else.Accept(b)
	}
}

func (b *builder) VisitFor(f *ast.For) {
	if f.Init != nil {
		f.Init.Accept(b)
	}
	if f.Condition != nil {
		f.Condition.Accept(b)
	}
	if f.Post != nil {
		f.Post.Accept(b)
	}
	f.Body.Accept(b)
}

func (b *builder) VisitWhile(w *ast.While) {
	w.Condition.Accept(b)
	w.Body.Accept(b)
}

func (b *builder) VisitExprStmt(s *ast.ExprStmt) { s.Expr.Accept(b) }

func (b *builder) VisitIdentifier(id *ast.Identifier) {
	if id.Entry == nil {
		return
	}
	info := b.infoForEntry(id.Entry)
	b.entries = append(b.entries, entry{
		loc: id.Location(), endColumn: id.Location().Column + len(id.Name),
		info: info, isDefinition: false,
	})
}

// infoForEntry finds or lazily builds the CodeInfo for a resolved
// symbols.Entry, so references to declarations this walk hasn't directly
// visited (e.g. a function parameter) still resolve to a shared CodeInfo.
func (b *builder) infoForEntry(e *symbols.Entry) *CodeInfo {
	if info, ok := b.declInfo[e.Decl]; ok {
		return info
	}
	info := &CodeInfo{Name: e.Name, Kind: DeclVar, Type: e.Type, Decl: e.Decl}
	if _, ok := e.Decl.(*ast.FunctionDecl); ok {
		info.Kind = DeclFunction
	}
	b.declInfo[e.Decl] = info
	return info
}

func (b *builder) VisitBinaryOp(n *ast.BinaryOp) { n.Left.Accept(b); n.Right.Accept(b) }
func (b *builder) VisitUnaryOp(n *ast.UnaryOp)   { n.Operand.Accept(b) }
func (b *builder) VisitPrefixOp(n *ast.PrefixOp) { n.Operand.Accept(b) }
func (b *builder) VisitPostfixOp(n *ast.PostfixOp) { n.Operand.Accept(b) }
func (b *builder) VisitCall(n *ast.Call) {
	n.Callee.Accept(b)
	for _, a := range n.Args {
		a.Accept(b)
	}
}
func (b *builder) VisitMethodCall(n *ast.MethodCall) {
	n.Receiver.Accept(b)
	for _, a := range n.Args {
		a.Accept(b)
	}
}
func (b *builder) VisitAssignment(n *ast.Assignment) { n.Target.Accept(b); n.Value.Accept(b) }
func (b *builder) VisitCompoundAssignment(n *ast.CompoundAssignment) {
	n.Target.Accept(b)
	n.Value.Accept(b)
}
func (b *builder) VisitMemberAccess(n *ast.MemberAccess) { n.Object.Accept(b) }
func (b *builder) VisitMemberAssignment(n *ast.MemberAssignment) {
	n.Object.Accept(b)
	n.Value.Accept(b)
}
func (b *builder) VisitTernary(n *ast.Ternary) {
	n.Condition.Accept(b)
	n.Then.Accept(b)
	n.Else.Accept(b)
}
func (b *builder) VisitIndexAccess(n *ast.IndexAccess) { n.Object.Accept(b); n.Index.Accept(b) }
func (b *builder) VisitIndexAssignment(n *ast.IndexAssignment) {
	n.Object.Accept(b)
	n.Index.Accept(b)
	n.Value.Accept(b)
}
func (b *builder) VisitArrayLiteral(n *ast.ArrayLiteral) {
	for _, el := range n.Elements {
		el.Accept(b)
	}
}
func (b *builder) VisitObjectLiteral(n *ast.ObjectLiteral) {
	for _, f := range n.Fields {
		f.Value.Accept(b)
	}
}

func exprType(e ast.Expression) typesystem.Type {
	if e == nil {
		return nil
	}
	return e.Type()
}

// Result is what FindAt returns: the resolved CodeInfo plus whether the
// queried position landed on the definition itself.
type Result struct {
	Info         *CodeInfo
	IsDefinition bool
}

// Range describes a single-line span: a start Location plus the column one
// past its last character. The CodeIndex only ever indexes single-line
// identifier occurrences (spec.md §4.H), so a separate end line is never
// needed.
type Range struct {
	source.Location
	EndColumn int
}

// LSPEndColumn converts EndColumn to LSP's 0-based, exclusive-end column.
func (r Range) LSPEndColumn() int {
	if r.EndColumn <= 0 {
		return 0
	}
	return r.EndColumn - 1
}

// FindAt implements spec.md §4.H's `find_at_position`: binary search over
// start positions, then a small linear window (±5) to handle entries whose
// ranges overlap the query column.
func (idx *Index) FindAt(file string, line, column int) (Result, bool) {
	n := len(idx.entries)
	i := sort.Search(n, func(i int) bool {
		e := idx.entries[i].loc
		if e.File != file {
			return e.File >= file
		}
		if e.Line != line {
			return e.Line >= line
		}
		return e.Column >= column
	})

	lo := i - 5
	if lo < 0 {
		lo = 0
	}
	hi := i + 5
	if hi > n {
		hi = n
	}
	for k := lo; k < hi; k++ {
		e := idx.entries[k]
		if e.loc.File != file || e.loc.Line != line {
			continue
		}
		if column >= e.loc.Column && column <= e.endColumn {
			return Result{Info: e.info, IsDefinition: e.isDefinition}, true
		}
	}
	return Result{}, false
}

// References returns every reference entry (not the definition itself)
// whose CodeInfo points at decl.
func (idx *Index) References(decl any) []Range {
	var out []Range
	for _, e := range idx.entries {
		if e.isDefinition || e.info.Decl != decl {
			continue
		}
		out = append(out, Range{Location: e.loc, EndColumn: e.endColumn})
	}
	return out
}

// Definition returns the definition range for decl, if this index has one.
func (idx *Index) Definition(decl any) (Range, bool) {
	for _, e := range idx.entries {
		if e.isDefinition && e.info.Decl == decl {
			return Range{Location: e.loc, EndColumn: e.endColumn}, true
		}
	}
	return Range{}, false
}

// Len reports how many entries the index holds (definitions + references).
func (idx *Index) Len() int { return len(idx.entries) }
