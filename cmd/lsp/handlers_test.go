package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanov/jsasta/internal/source"
)

func TestParseDidOpenParams(t *testing.T) {
	raw := []byte(`{"textDocument":{"uri":"file:///a.jst","languageId":"jsasta","version":1,"text":"var x = 1;"}}`)
	it, err := parseDidOpenParams(raw)
	require.NoError(t, err)
	assert.Equal(t, "file:///a.jst", it.uri)
	assert.Equal(t, "jsasta", it.languageID)
	assert.Equal(t, 1, it.version)
	assert.Equal(t, "var x = 1;", it.text)
}

func TestParseContentChangesFullSync(t *testing.T) {
	raw := []byte(`[{"text":"new content"}]`)
	changes, err := parseContentChanges(raw)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.False(t, changes[0].hasRange)
	assert.Equal(t, "new content", changes[0].text)
}

func TestParseContentChangesIncremental(t *testing.T) {
	raw := []byte(`[{"range":{"start":{"line":0,"character":1},"end":{"line":0,"character":2}},"text":"z"}]`)
	changes, err := parseContentChanges(raw)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.True(t, changes[0].hasRange)
	assert.Equal(t, source.Position{Line: 0, Character: 1}, changes[0].start)
	assert.Equal(t, source.Position{Line: 0, Character: 2}, changes[0].end)
	assert.Equal(t, "z", changes[0].text)
}

func TestParsePositionParams(t *testing.T) {
	raw := []byte(`{"textDocument":{"uri":"file:///a.jst"},"position":{"line":2,"character":7}}`)
	pp, err := parsePositionParams(raw)
	require.NoError(t, err)
	assert.Equal(t, "file:///a.jst", pp.uri)
	assert.Equal(t, source.Position{Line: 2, Character: 7}, pp.pos)
}

func TestParseReferenceParamsIncludeDeclaration(t *testing.T) {
	raw := []byte(`{"textDocument":{"uri":"file:///a.jst"},"position":{"line":0,"character":0},"context":{"includeDeclaration":true}}`)
	pp, includeDecl, err := parseReferenceParams(raw)
	require.NoError(t, err)
	assert.Equal(t, "file:///a.jst", pp.uri)
	assert.True(t, includeDecl)
}

func TestParseReferenceParamsDefaultsToExcludeDeclaration(t *testing.T) {
	raw := []byte(`{"textDocument":{"uri":"file:///a.jst"},"position":{"line":0,"character":0}}`)
	_, includeDecl, err := parseReferenceParams(raw)
	require.NoError(t, err)
	assert.False(t, includeDecl)
}

func TestParseURIOnly(t *testing.T) {
	uri, err := parseURIOnly([]byte(`{"textDocument":{"uri":"file:///b.jst"}}`))
	require.NoError(t, err)
	assert.Equal(t, "file:///b.jst", uri)
}
