// Command lsp is the jsasta Language Server: framed JSON-RPC over stdio
// serving diagnostics, go-to-definition, and find-references (spec.md §4.J).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	stdio := flag.Bool("stdio", true, "serve over stdin/stdout (the only supported transport)")
	logFormat := flag.String("log-format", "text", "slog output format: text or json (SPEC_FULL.md §10.1)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "jsasta-lsp: Language Server for jsasta")
		fmt.Fprintln(os.Stderr, "usage: jsasta-lsp [--stdio] [--log-format=text|json]")
		flag.PrintDefaults()
	}
	flag.Parse()

	var handler slog.Handler
	if *logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	if !*stdio {
		fmt.Fprintln(os.Stderr, "jsasta-lsp: only --stdio transport is supported")
		os.Exit(2)
	}

	srv := newServer(os.Stdout, logger)
	srv.Run(os.Stdin)
}
