// Package symbols implements the lexical scope chain from spec.md §4.F.
// Entry stores its declaration node as `any` rather than *ast.Node so this
// package stays import-free of internal/ast, which itself depends on
// symbols for Program/Block's owned scope and Identifier's resolved entry.
package symbols

import "github.com/nanov/jsasta/internal/typesystem"

// Entry is one binding in a scope: its declaration node, resolved type, and
// the const/array-size/back-end metadata the spec requires each entry to
// carry (spec.md §4.F).
type Entry struct {
	Name      string
	Decl      any // declaring *ast.VarDecl, *ast.FunctionDecl, *ast.Param, etc.
	Type      typesystem.Type
	Const     bool
	ArraySize int  // >0 for fixed-size array declarations, else 0
	HasSize   bool // distinguishes "no size" from "size 0"

	// BackendSlot is opaque storage for a downstream emitter (spec.md §3
	// "a slot for later back-end values (opaque to the core)"); the front
	// end never reads or writes it beyond passing it through.
	BackendSlot any
}

// Table is one scope, linked to its lexical parent.
type Table struct {
	parent  *Table
	entries map[string]*Entry
	order   []string // insertion order, for deterministic dumps/tests
}

// New creates a fresh root scope with no parent.
func New() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// NewChild creates a child scope linked to parent (spec.md §4.F `new(parent)`).
func NewChild(parent *Table) *Table {
	return &Table{parent: parent, entries: make(map[string]*Entry)}
}

// Parent returns t's lexical parent, or nil for the root.
func (t *Table) Parent() *Table { return t.parent }

// Insert inserts entry into the innermost scope (t). If a binding for
// entry.Name already exists directly in t and either the existing or the
// new entry is const, insertion fails (Duplicate Declaration); otherwise
// the new entry shadows the old one (spec.md §4.F `insert`).
func (t *Table) Insert(entry *Entry) (inserted bool) {
	if existing, ok := t.entries[entry.Name]; ok {
		if existing.Const || entry.Const {
			return false
		}
	} else {
		t.order = append(t.order, entry.Name)
	}
	t.entries[entry.Name] = entry
	return true
}

// Lookup searches t and its ancestors, innermost first, returning the first
// match (spec.md §4.F `lookup`).
func (t *Table) Lookup(name string) (*Entry, bool) {
	for s := t; s != nil; s = s.parent {
		if e, ok := s.entries[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// LookupLocal searches only t itself, not its ancestors.
func (t *Table) LookupLocal(name string) (*Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// LocalEntries returns t's own entries in insertion order (no ancestors).
func (t *Table) LocalEntries() []*Entry {
	out := make([]*Entry, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.entries[name])
	}
	return out
}
