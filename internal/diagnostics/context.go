package diagnostics

import (
	"fmt"
	"io"
	"sync"
)

// Mode selects how a Context disposes of diagnostics it receives
// (spec.md §4.A).
type Mode int

const (
	// Collect appends diagnostics to an ordered in-memory list.
	Collect Mode = iota
	// Direct writes diagnostics immediately to the attached sink and keeps
	// only running counts.
	Direct
)

// Context accumulates or emits diagnostics depending on Mode. Mode and sink
// may be switched at any time; switching never touches what has already
// been collected or emitted.
type Context struct {
	mu     sync.Mutex
	mode   Mode
	sink   io.Writer
	workID string

	collected []Diagnostic
	counts    [Hint + 1]int // indexed by Severity
}

// NewCollectContext returns a Context starting in Collect mode.
func NewCollectContext() *Context {
	return &Context{mode: Collect}
}

// NewDirectContext returns a Context starting in Direct mode, writing to sink.
func NewDirectContext(sink io.Writer) *Context {
	return &Context{mode: Direct, sink: sink}
}

// SetMode switches the active mode.
func (c *Context) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
}

// SetSink switches the Direct-mode output sink.
func (c *Context) SetSink(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = w
}

// SetWorkID stamps id onto every diagnostic Reported from now on that
// doesn't already carry one (SPEC_FULL.md §10.2: correlating a diagnostic
// back to the AnalysisWork that produced it).
func (c *Context) SetWorkID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workID = id
}

// Report records one diagnostic according to the current mode.
func (c *Context) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d.WorkID == "" {
		d.WorkID = c.workID
	}
	c.counts[d.Severity]++
	switch c.mode {
	case Collect:
		c.collected = append(c.collected, d)
	case Direct:
		if c.sink != nil {
			fmt.Fprintln(c.sink, FormatText(d))
		}
	}
}

// ReportErr is a convenience for Report(NewError(...).Diagnostic).
func (c *Context) ReportErr(err *DiagnosticError) {
	c.Report(err.Diagnostic)
}

// HasErrors reports whether any Error-severity diagnostic has been seen.
func (c *Context) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[Error] > 0
}

// Count returns the running total for one severity.
func (c *Context) Count(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(sev) < 0 || int(sev) >= len(c.counts) {
		return 0
	}
	return c.counts[sev]
}

// Collected returns a copy of the diagnostics gathered so far in Collect
// mode. Diagnostics reported while in Direct mode are not retained.
func (c *Context) Collected() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.collected))
	copy(out, c.collected)
	return out
}

// Reset clears collected diagnostics and counts, keeping mode and sink.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collected = nil
	c.counts = [Hint + 1]int{}
}
