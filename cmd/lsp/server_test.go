package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() (*Server, *bytes.Buffer) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return newServer(&buf, log), &buf
}

// drainOneSynchronously claims and runs exactly one document's queued
// analysis work on the calling goroutine, standing in for workerLoop so
// tests stay deterministic (spec.md §4.J's worker is otherwise async).
func drainOneSynchronously(t *testing.T, s *Server, doc *document) {
	t.Helper()
	s.workMu.Lock()
	ctx := doc.pending
	doc.pending = nil
	s.workMu.Unlock()
	require.NotNil(t, ctx, "expected queued analysis work for the document")
	s.runAnalysis(doc, ctx)
	doc.takeCompleted()
}

func TestHandleInitializeRespondsWithCapabilities(t *testing.T) {
	s, buf := newTestServer()
	s.dispatch([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`))

	assert.Contains(t, buf.String(), `"hoverProvider":true`)
	assert.Contains(t, buf.String(), `"definitionProvider":true`)
	assert.Contains(t, buf.String(), `"id":1`)
}

func TestHandleUnknownMethodReturnsMethodNotFound(t *testing.T) {
	s, buf := newTestServer()
	s.dispatch([]byte(`{"jsonrpc":"2.0","id":2,"method":"textDocument/bogus","params":{}}`))

	assert.Contains(t, buf.String(), `"code":-32601`)
}

func TestDidOpenThenDefinitionAfterAnalysisCompletes(t *testing.T) {
	s, _ := newTestServer()
	s.dispatch([]byte(`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":` +
		`{"textDocument":{"uri":"file:///t.jst","languageId":"jsasta","version":1,"text":"let x = 1; x;"}}}`))

	doc, ok := s.getDocument("file:///t.jst")
	require.True(t, ok)
	drainOneSynchronously(t, s, doc)

	var out bytes.Buffer
	s.out = &out
	s.dispatch([]byte(`{"jsonrpc":"2.0","id":3,"method":"textDocument/definition","params":` +
		`{"textDocument":{"uri":"file:///t.jst"},"position":{"line":0,"character":11}}}`))

	assert.Contains(t, out.String(), `"uri":"file:///t.jst"`)
	assert.Contains(t, out.String(), `"start":{"line":0,"character":4}`, "definition resolves to the `x` in `let x = 1;`")
	assert.Contains(t, out.String(), `"end":{"line":0,"character":5}`, "the range covers the single-character identifier, not a zero-width point")
}

func TestDidOpenThenReferencesIncludesDeclarationOnRequest(t *testing.T) {
	s, _ := newTestServer()
	s.dispatch([]byte(`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":` +
		`{"textDocument":{"uri":"file:///r.jst","languageId":"jsasta","version":1,"text":"let x = 1; x; x;"}}}`))

	doc, ok := s.getDocument("file:///r.jst")
	require.True(t, ok)
	drainOneSynchronously(t, s, doc)

	var out bytes.Buffer
	s.out = &out
	s.dispatch([]byte(`{"jsonrpc":"2.0","id":4,"method":"textDocument/references","params":` +
		`{"textDocument":{"uri":"file:///r.jst"},"position":{"line":0,"character":11},"context":{"includeDeclaration":true}}}`))

	var count int
	body := out.String()
	for i := 0; i+len(`"uri":"file:///r.jst"`) <= len(body); i++ {
		if body[i:i+len(`"uri":"file:///r.jst"`)] == `"uri":"file:///r.jst"` {
			count++
		}
	}
	assert.Equal(t, 3, count, "two references plus the declaration itself")
}

func TestDidCloseRemovesDocument(t *testing.T) {
	s, _ := newTestServer()
	s.dispatch([]byte(`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":` +
		`{"textDocument":{"uri":"file:///c.jst","languageId":"jsasta","version":1,"text":"var x = 1;"}}}`))
	_, ok := s.getDocument("file:///c.jst")
	require.True(t, ok)

	s.dispatch([]byte(`{"jsonrpc":"2.0","method":"textDocument/didClose","params":{"textDocument":{"uri":"file:///c.jst"}}}`))
	_, ok = s.getDocument("file:///c.jst")
	assert.False(t, ok)
}

func TestHandleShutdownSetsFlagAndRespondsNull(t *testing.T) {
	s, buf := newTestServer()
	s.dispatch([]byte(`{"jsonrpc":"2.0","id":9,"method":"shutdown","params":{}}`))
	assert.True(t, s.shutdownReq)
	assert.Contains(t, buf.String(), `"result":null`)
}
