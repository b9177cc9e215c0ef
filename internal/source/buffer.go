package source

import (
	"errors"
	"strings"
)

// ErrOutOfRange is returned by Buffer.ApplyEdit when either endpoint of the
// edit range falls outside the current text; per spec.md §4.B the buffer is
// left unchanged in that case.
var ErrOutOfRange = errors.New("source: edit range out of bounds")

// Position is an LSP-style 0-based (line, character) pair. Newline is "\n".
type Position struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) span expressed in Positions.
type Range struct {
	Start Position
	End   Position
}

// Buffer is the mutable text buffer backing one LSP document. It maintains
// a line-offset table so position<->offset conversion does not rescan the
// whole document on every edit.
type Buffer struct {
	content     string
	lineOffsets []int // byte offset of the start of each line; lineOffsets[0] == 0
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.rebuildIndex()
	return b
}

// NewBufferFromString creates a buffer pre-populated with text.
func NewBufferFromString(text string) *Buffer {
	b := &Buffer{content: text}
	b.rebuildIndex()
	return b
}

// String returns the current full text.
func (b *Buffer) String() string { return b.content }

// Cstr returns the current text as a NUL-terminated byte slice, for callers
// that hand text to C-like downstream tooling.
func (b *Buffer) Cstr() []byte {
	out := make([]byte, len(b.content)+1)
	copy(out, b.content)
	return out
}

// Append adds text to the end of the buffer.
func (b *Buffer) Append(text string) {
	b.content += text
	b.rebuildIndex()
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.content = ""
	b.rebuildIndex()
}

// Replace overwrites the whole buffer (full-sync didChange).
func (b *Buffer) Replace(text string) {
	b.content = text
	b.rebuildIndex()
}

// ApplyEdit replaces the text spanned by r with replacement. If either
// endpoint is out of range, the buffer is left unchanged and ErrOutOfRange
// is returned (spec.md §4.B: edits are atomic).
func (b *Buffer) ApplyEdit(r Range, replacement string) error {
	startOff, ok := b.positionToOffsetChecked(r.Start)
	if !ok {
		return ErrOutOfRange
	}
	endOff, ok := b.positionToOffsetChecked(r.End)
	if !ok {
		return ErrOutOfRange
	}
	if endOff < startOff {
		return ErrOutOfRange
	}

	var sb strings.Builder
	sb.Grow(len(b.content) - (endOff - startOff) + len(replacement))
	sb.WriteString(b.content[:startOff])
	sb.WriteString(replacement)
	sb.WriteString(b.content[endOff:])
	b.content = sb.String()
	b.rebuildIndex()
	return nil
}

// PositionToOffset converts a 0-based (line, character) to a byte offset.
// Out-of-range positions clamp to the nearest valid offset.
func (b *Buffer) PositionToOffset(line, char int) int {
	if line < 0 {
		return 0
	}
	if line >= len(b.lineOffsets) {
		return len(b.content)
	}
	if char < 0 {
		char = 0
	}
	if off, ok := b.positionToOffsetChecked(Position{Line: line, Character: char}); ok {
		return off
	}
	// char runs past the end of the line: clamp to the line's end.
	if line+1 < len(b.lineOffsets) {
		return b.lineOffsets[line+1] - 1
	}
	return len(b.content)
}

func (b *Buffer) positionToOffsetChecked(pos Position) (int, bool) {
	if pos.Line < 0 || pos.Line >= len(b.lineOffsets) {
		return 0, false
	}
	lineStart := b.lineOffsets[pos.Line]
	lineEnd := len(b.content)
	if pos.Line+1 < len(b.lineOffsets) {
		lineEnd = b.lineOffsets[pos.Line+1] - 1 // exclude the newline itself
		if lineEnd < lineStart {
			lineEnd = lineStart
		}
	}
	off := lineStart + pos.Character
	if off < lineStart || off > lineEnd {
		return 0, false
	}
	return off, true
}

// OffsetToPosition converts a byte offset to a 0-based (line, character).
func (b *Buffer) OffsetToPosition(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.content) {
		offset = len(b.content)
	}
	line := 0
	for i := len(b.lineOffsets) - 1; i >= 0; i-- {
		if b.lineOffsets[i] <= offset {
			line = i
			break
		}
	}
	return Position{Line: line, Character: offset - b.lineOffsets[line]}
}

func (b *Buffer) rebuildIndex() {
	b.lineOffsets = b.lineOffsets[:0]
	b.lineOffsets = append(b.lineOffsets, 0)
	for i := 0; i < len(b.content); i++ {
		if b.content[i] == '\n' {
			b.lineOffsets = append(b.lineOffsets, i+1)
		}
	}
}
