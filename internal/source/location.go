// Package source holds the uniform location record shared by every stage
// of the pipeline, and the mutable text buffer that backs LSP documents.
package source

import "fmt"

// Location is a single point in a source file. Line and Column are 1-based.
// The zero value denotes "unknown" per spec.md §3.
type Location struct {
	File   string
	Line   int
	Column int
}

// IsUnknown reports whether loc is the zero value.
func (loc Location) IsUnknown() bool {
	return loc.Line == 0 && loc.Column == 0 && loc.File == ""
}

// String renders "file:line:col", used by the CLI's textual diagnostic
// sink (spec.md §6: `[SEVERITY] file:line:col: message`).
func (loc Location) String() string {
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}

// LSPLine returns the 0-based line used in LSP positions. Unknown locations
// (line 0) project to line 0, matching spec.md §4.A.
func (loc Location) LSPLine() int {
	if loc.Line <= 0 {
		return 0
	}
	return loc.Line - 1
}

// LSPColumn returns the 0-based character offset used in LSP positions.
func (loc Location) LSPColumn() int {
	if loc.Column <= 0 {
		return 0
	}
	return loc.Column - 1
}
