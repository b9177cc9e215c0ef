package main

import (
	"sync/atomic"

	"github.com/nanov/jsasta/internal/codeindex"
	"github.com/nanov/jsasta/internal/pipeline"
	"github.com/nanov/jsasta/internal/source"
)

// document is one open text document (spec.md §3 "Documents own their
// current text, their CodeIndex, any queued AnalysisWork, and at most one
// completed AnalysisWork awaiting pickup").
type document struct {
	uri        string
	languageID string
	version    int
	buffer     *source.Buffer

	// index is the CodeIndex most recently built — either from the
	// untyped parse done synchronously on didOpen/didChange, or from a
	// completed AnalysisWork picked up on the next feature request
	// (spec.md §4.J "Code index refresh").
	index *codeindex.Index

	// pending is the queued-but-not-yet-picked-up AnalysisWork, guarded
	// by the server's workMu (spec.md §5).
	pending *pipeline.PipelineContext

	// completed is exchanged by the worker (store) and the I/O thread
	// (exchange-to-nil), per spec.md §5.
	completed atomic.Pointer[pipeline.PipelineContext]
}

func newDocument(uri, languageID, text string, version int) *document {
	return &document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		buffer:     source.NewBufferFromString(text),
	}
}

// takeCompleted atomically claims any AnalysisWork the worker has
// published, refreshing d.index from it (spec.md §4.J).
func (d *document) takeCompleted() {
	ctx := d.completed.Swap(nil)
	if ctx == nil {
		return
	}
	if ctx.Index != nil {
		d.index = ctx.Index
	}
}
