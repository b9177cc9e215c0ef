package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanov/jsasta/internal/buildlog"
)

func TestFmtDuration(t *testing.T) {
	assert.Equal(t, "0ms", fmtDuration(0))
	assert.Equal(t, "125ms", fmtDuration(125))
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func openStatsTestLedger(t *testing.T) *buildlog.Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	ledger, err := buildlog.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

func TestPrintFileSummaryWithNoHistory(t *testing.T) {
	ledger := openStatsTestLedger(t)
	out := captureStdout(t, func() { printFileSummary(ledger, "missing.jst") })
	assert.Contains(t, out, "no history for missing.jst")
}

func TestPrintFileSummaryAggregatesRecords(t *testing.T) {
	ledger := openStatsTestLedger(t)
	require.NoError(t, ledger.Append(buildlog.Record{
		WorkID: "w1", FilePath: "main.jst", ContentHash: "h1",
		Errors: 1, Warnings: 2, DurationMS: 10, RecordedAt: time.Now(),
	}))
	require.NoError(t, ledger.Append(buildlog.Record{
		WorkID: "w2", FilePath: "main.jst", ContentHash: "h2",
		Errors: 0, Warnings: 1, DurationMS: 20, RecordedAt: time.Now(),
	}))

	out := captureStdout(t, func() { printFileSummary(ledger, "main.jst") })
	assert.Contains(t, out, "main.jst")
	assert.Contains(t, out, "2 build(s)")
	assert.Contains(t, out, "1 error(s)")
	assert.Contains(t, out, "3 warning(s)")
}

func TestPrintRecentWithNoHistory(t *testing.T) {
	ledger := openStatsTestLedger(t)
	out := captureStdout(t, func() { printRecent(ledger, 10) })
	assert.Contains(t, out, "no build history available")
}

func TestPrintRecentListsMostRecentFirst(t *testing.T) {
	ledger := openStatsTestLedger(t)
	require.NoError(t, ledger.Append(buildlog.Record{
		WorkID: "w1", FilePath: "a.jst", ContentHash: "h1",
		Errors: 0, DurationMS: 5, RecordedAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, ledger.Append(buildlog.Record{
		WorkID: "w2", FilePath: "b.jst", ContentHash: "h2",
		Errors: 2, DurationMS: 7, RecordedAt: time.Now(),
	}))

	out := captureStdout(t, func() { printRecent(ledger, 10) })
	assert.Contains(t, out, "a.jst")
	assert.Contains(t, out, "b.jst")
	assert.Contains(t, out, "2 error(s)")
}
