package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/nanov/jsasta/internal/buildlog"
	"github.com/nanov/jsasta/internal/config"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/pipeline"
	"github.com/nanov/jsasta/internal/rpc"
)

type compileOptions struct {
	output     string
	optLevel   int
	debugInfo  bool
	sinkFormat string
	configPath string
	dumpTypes  bool
	logger     *slog.Logger
}

// fileResult is one source file's outcome, kept in input order regardless
// of which goroutine finished first (SPEC_FULL.md §10.4).
type fileResult struct {
	path    string
	ctx     *pipeline.PipelineContext
	elapsed time.Duration
}

// runCompile implements the multi-file batch flow from SPEC_FULL.md §10.4:
// each file gets its own AnalysisWork, Type Registry, and diagnostic
// stream, compiled concurrently bounded by GOMAXPROCS via errgroup, with
// results printed back in input order.
func runCompile(files []string, opts compileOptions) int {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsasta: %v\n", err)
		return 1
	}
	sink := cfg.DiagnosticSink
	if opts.sinkFormat != "" {
		sink = config.SinkFormat(opts.sinkFormat)
	}

	start := time.Now()
	results := make([]fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = compileOne(path, cfg, opts)
			return nil
		})
	}
	_ = g.Wait() // compileOne never returns an error; failures live in Diagnostics

	exitCode := 0
	var totalOutputSize uint64
	ledger := openLedger(opts.logger)
	if ledger != nil {
		defer ledger.Close()
	}

	for _, r := range results {
		diags := r.ctx.Diagnostics.Collected()
		writeSink(os.Stderr, sink, diags)
		if r.ctx.Diagnostics.HasErrors() {
			exitCode = 1
		} else {
			totalOutputSize += estimateOutputSize(r.ctx)
		}
		if opts.dumpTypes && r.ctx.Types != nil {
			fmt.Fprintf(os.Stderr, "--- types for %s ---\n", r.path)
			pretty.Println(r.ctx.Types)
		}
		recordBuild(ledger, r, opts.logger)
	}

	fmt.Fprintf(os.Stderr, "jsasta: compiled %d file(s), started %s, output size %s\n",
		len(results), humanize.Time(start), humanize.Bytes(totalOutputSize))

	return exitCode
}

func compileOne(path string, cfg *config.Config, opts compileOptions) fileResult {
	start := time.Now()
	workID := uuid.NewString()

	src, err := os.ReadFile(path)
	if err != nil {
		ctx := pipeline.NewContext(path, "", workID)
		ctx.Diagnostics.Report(diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Message:  fmt.Sprintf("reading %s: %v", path, err),
			WorkID:   workID,
		})
		return fileResult{path: path, ctx: ctx, elapsed: time.Since(start)}
	}

	ctx := pipeline.NewContext(path, string(src), workID)
	opts.logger.Debug("compiling", "file", path, "work_id", workID)
	pipeline.StandardPipeline().Run(ctx)

	for _, d := range ctx.Diagnostics.Collected() {
		opts.logger.Debug("diagnostic", "work_id", workID, "code", d.Code, "severity", d.Severity, "message", d.Message)
	}

	if !ctx.Diagnostics.HasErrors() {
		emitOutput(path, ctx, opts)
	}

	return fileResult{path: path, ctx: ctx, elapsed: time.Since(start)}
}

// emitOutput hands the fully typed tree to the configured backend. No
// concrete Emitter ships in this repository (spec.md §1's "deliberately
// out of scope"); absent one, compilation still succeeds up through
// analysis, which is what the exit code and diagnostics reflect.
func emitOutput(path string, ctx *pipeline.PipelineContext, opts compileOptions) {
	out := outputPathFor(path, opts.output)
	opts.logger.Debug("no backend Emitter configured; stopping after analysis",
		"file", path, "would_write", out, "opt_level", opts.optLevel, "debug_info", opts.debugInfo)
}

func outputPathFor(sourcePath, explicit string) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(filepath.Base(sourcePath), config.SourceFileExt)
	return base + ".out"
}

// estimateOutputSize is a placeholder measure (source size) for the build
// summary line until a real backend is wired in; it keeps the humanize
// byte-count formatting exercised end to end.
func estimateOutputSize(ctx *pipeline.PipelineContext) uint64 {
	return uint64(len(ctx.SourceCode))
}

func writeSink(w *os.File, format config.SinkFormat, diags []diagnostics.Diagnostic) {
	if format == config.SinkJSON {
		b := rpc.NewBuilder(512)
		diagnostics.WriteArrayJSON(b, diags)
		fmt.Fprintln(w, b.String())
		return
	}

	color := isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	for _, d := range diags {
		line := diagnostics.FormatText(d)
		if color {
			line = colorize(d.Severity, line)
		}
		fmt.Fprintln(w, line)
	}
}

func colorize(sev diagnostics.Severity, line string) string {
	const reset = "\x1b[0m"
	var code string
	switch sev {
	case diagnostics.Error:
		code = "\x1b[31m"
	case diagnostics.Warning:
		code = "\x1b[33m"
	default:
		code = "\x1b[36m"
	}
	return code + line + reset
}

func openLedger(log *slog.Logger) *buildlog.Ledger {
	dbPath := filepath.Join(config.CacheDir(), "history.db")
	ledger, err := buildlog.Open(dbPath)
	if err != nil {
		log.Warn("build ledger unavailable, history will not be recorded", "error", err)
		return nil
	}
	return ledger
}

func recordBuild(ledger *buildlog.Ledger, r fileResult, log *slog.Logger) {
	if ledger == nil {
		return
	}
	diags := r.ctx.Diagnostics.Collected()
	var errs, warns int
	for _, d := range diags {
		switch d.Severity {
		case diagnostics.Error:
			errs++
		case diagnostics.Warning:
			warns++
		}
	}
	rec := buildlog.Record{
		WorkID:      r.ctx.WorkID,
		FilePath:    r.path,
		ContentHash: contentHash(r.ctx.SourceCode),
		Errors:      errs,
		Warnings:    warns,
		DurationMS:  r.elapsed.Milliseconds(),
		RecordedAt:  time.Now(),
	}
	if err := ledger.Append(rec); err != nil {
		log.Warn("recording build history failed", "error", err)
	}
}

func contentHash(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}
