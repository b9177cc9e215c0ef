package main

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/pipeline"
)

func TestOutputPathForExplicitOverridesDefault(t *testing.T) {
	assert.Equal(t, "out.bin", outputPathFor("src/main.jst", "out.bin"))
}

func TestOutputPathForDerivesFromSourceBasename(t *testing.T) {
	assert.Equal(t, "main.out", outputPathFor("src/main.jst", ""))
}

func TestEstimateOutputSizeIsSourceLength(t *testing.T) {
	ctx := pipeline.NewContext("a.jst", "var x = 1;", "w")
	assert.Equal(t, uint64(len("var x = 1;")), estimateOutputSize(ctx))
}

func TestContentHashIsSHA256Hex(t *testing.T) {
	want := sha256.Sum256([]byte("var x = 1;"))
	assert.Equal(t, hex.EncodeToString(want[:]), contentHash("var x = 1;"))
}

func TestContentHashDiffersOnDifferentInput(t *testing.T) {
	assert.NotEqual(t, contentHash("a"), contentHash("b"))
}

func TestColorizeWrapsWithANSIAndResets(t *testing.T) {
	line := colorize(diagnostics.Error, "boom")
	assert.Equal(t, "\x1b[31mboom\x1b[0m", line)

	line = colorize(diagnostics.Warning, "careful")
	assert.Equal(t, "\x1b[33mcareful\x1b[0m", line)

	line = colorize(diagnostics.Hint, "fyi")
	assert.Equal(t, "\x1b[36mfyi\x1b[0m", line)
}
