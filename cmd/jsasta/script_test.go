package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers "jsasta" as an in-process command so the txtar scripts
// under testdata/script exercise the real CLI entrypoint (SPEC_FULL.md
// §10.5), without spawning a separately built binary.
func TestMain(m *testing.M) {
	os.Exit(testscript.Main(m, map[string]func() int{
		"jsasta": func() int { return run(os.Args[1:]) },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
