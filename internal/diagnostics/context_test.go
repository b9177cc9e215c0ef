package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nanov/jsasta/internal/source"
)

func TestCollectContextAccumulates(t *testing.T) {
	ctx := NewCollectContext()
	ctx.ReportErr(NewError(CodeUndefinedVariable, source.Location{File: "a.jst", Line: 1, Column: 1}, "undefined variable z"))
	ctx.Report(Diagnostic{Severity: Warning, Code: CodeNonConvergence, Message: "slow to converge"})

	assert.True(t, ctx.HasErrors())
	assert.Equal(t, 1, ctx.Count(Error))
	assert.Equal(t, 1, ctx.Count(Warning))

	collected := ctx.Collected()
	assert.Len(t, collected, 2)
	assert.Equal(t, CodeUndefinedVariable, collected[0].Code)
}

func TestDirectContextWritesImmediately(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewDirectContext(&buf)
	ctx.ReportErr(NewError(CodeTypeMismatch, source.Location{File: "b.jst", Line: 2, Column: 5}, "expected i32, got bool"))

	assert.True(t, ctx.HasErrors())
	assert.Empty(t, ctx.Collected(), "Direct mode never retains diagnostics")
	assert.Contains(t, buf.String(), "b.jst:2:5")
	assert.Contains(t, buf.String(), "expected i32, got bool")
}

func TestResetClearsCountsButKeepsMode(t *testing.T) {
	ctx := NewCollectContext()
	ctx.ReportErr(NewError(CodeDuplicateDecl, source.Location{}, "duplicate"))
	require := assert.New(t)
	require.True(ctx.HasErrors())

	ctx.Reset()
	require.False(ctx.HasErrors())
	require.Empty(ctx.Collected())

	ctx.Report(Diagnostic{Severity: Error, Message: "after reset"})
	require.True(ctx.HasErrors())
	require.Len(ctx.Collected(), 1, "Reset keeps Collect mode")
}

func TestSetModeSwitchesDisposition(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewCollectContext()
	ctx.SetSink(&buf)
	ctx.Report(Diagnostic{Severity: Error, Message: "collected"})
	assert.Len(t, ctx.Collected(), 1)

	ctx.SetMode(Direct)
	ctx.Report(Diagnostic{Severity: Error, Message: "direct"})
	assert.Len(t, ctx.Collected(), 1, "switching modes never touches what was already collected")
	assert.Contains(t, buf.String(), "direct")
}

func TestSetWorkIDStampsUntaggedDiagnostics(t *testing.T) {
	ctx := NewCollectContext()
	ctx.SetWorkID("w-1")
	ctx.Report(Diagnostic{Severity: Error, Message: "no id yet"})
	ctx.Report(Diagnostic{Severity: Error, Message: "already tagged", WorkID: "explicit"})

	collected := ctx.Collected()
	assert.Equal(t, "w-1", collected[0].WorkID)
	assert.Equal(t, "explicit", collected[1].WorkID, "an explicitly set WorkID is never overwritten")
}

func TestFormatTextShape(t *testing.T) {
	d := Diagnostic{Severity: Warning, Location: source.Location{File: "x.jst", Line: 4, Column: 2}, Message: "unused variable"}
	assert.Equal(t, "[WARNING] x.jst:4:2: unused variable", FormatText(d))
}
