// Command jsasta is the compiler front-end CLI: it drives the lex-parse-
// analyze pipeline over one or more source files and reports diagnostics
// (spec.md §6). No backend Emitter ships in this repository, so a clean
// file stops after analysis and no output file is written.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main's logic minus the os.Exit call, so it can also be driven
// in-process by the testscript-based CLI contract tests (SPEC_FULL.md
// §10.5) via TestMain's testscript.Main.
func run(args []string) int {
	if len(args) > 0 && args[0] == "stats" {
		runStats(args[1:])
		return 0
	}

	fs := flag.NewFlagSet("jsasta", flag.ContinueOnError)
	var (
		output     = fs.String("o", "", "output path (defaults to each source file's base name with .jst replaced by .out)")
		optLevel   = fs.Int("O", 0, "optimization level (0-2)")
		debugInfo  = fs.Bool("g", false, "emit debug info")
		sinkFormat = fs.String("sink", "", "diagnostic sink format: text or json (overrides jsasta.yaml)")
		configPath = fs.String("config", "", "path to jsasta.yaml (default: ./jsasta.yaml if present)")
		dumpTypes  = fs.Bool("dump-types", false, "also pretty-print each file's final Type Registry to stderr")
		verbose    = fs.Bool("v", false, "enable debug-level operational logging")
		logFormat  = fs.String("log-format", "text", "slog output format: text or json (SPEC_FULL.md §10.1)")
	)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: jsasta [flags] file.jst [file2.jst ...]")
		fmt.Fprintln(os.Stderr, "       jsasta stats [file.jst]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(*logFormat, *verbose)

	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		return 2
	}

	opts := compileOptions{
		output:     *output,
		optLevel:   *optLevel,
		debugInfo:  *debugInfo,
		sinkFormat: *sinkFormat,
		configPath: *configPath,
		dumpTypes:  *dumpTypes,
		logger:     logger,
	}

	return runCompile(files, opts)
}

func newLogger(format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
