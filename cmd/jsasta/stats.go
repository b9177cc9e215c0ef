package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/nanov/jsasta/internal/buildlog"
	"github.com/nanov/jsasta/internal/config"
)

// runStats implements `jsasta stats [file.jst]` (SPEC_FULL.md §10.6): with
// no argument, print the most recent builds across all files; with one,
// summarize that file's history. A missing or unreadable ledger degrades
// to "no history" rather than an error, matching the compiler's own
// tolerance for a broken build log.
func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	limit := fs.Int("n", 10, "number of recent builds to list")
	fs.Parse(args)

	dbPath := filepath.Join(config.CacheDir(), "history.db")
	ledger, err := buildlog.Open(dbPath)
	if err != nil {
		fmt.Println("no build history available")
		return
	}
	defer ledger.Close()

	rest := fs.Args()
	if len(rest) == 1 {
		printFileSummary(ledger, rest[0])
		return
	}
	printRecent(ledger, *limit)
}

func printFileSummary(ledger *buildlog.Ledger, path string) {
	s, err := ledger.SummaryFor(path)
	if err != nil || s.BuildCount == 0 {
		fmt.Printf("no history for %s\n", path)
		return
	}
	fmt.Printf("%s: %d build(s), %d error(s), %d warning(s), last built %s\n",
		s.FilePath, s.BuildCount, s.TotalErrors, s.TotalWarning, humanize.Time(s.LastBuild))
}

func printRecent(ledger *buildlog.Ledger, limit int) {
	recs, err := ledger.Recent(limit)
	if err != nil || len(recs) == 0 {
		fmt.Println("no build history available")
		return
	}
	for _, r := range recs {
		status := "ok"
		if r.Errors > 0 {
			status = fmt.Sprintf("%d error(s)", r.Errors)
		}
		fmt.Printf("%-40s %-10s %8s  %s\n", r.FilePath, status, fmtDuration(r.DurationMS), humanize.Time(r.RecordedAt))
	}
}

func fmtDuration(ms int64) string {
	return fmt.Sprintf("%dms", ms)
}
