package ezctest

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/stefwlc/ezctest/registry"
	"github.com/stefwlc/ezctest/types"
	"github.com/stefwlc/ezctest/ui"
)

// printSummary renders the classic end-of-run block: totals, the failed
// tests of the final iteration, assertion counts when they are meaningful,
// and the all-passed banner.
func (h *Harness) printSummary(result *types.RunResult, selected []*registry.Entry) {
	stats := result.Stats

	h.printer.Tag(text.FgGreen, ui.TagBanner, "%d test(s) ran (%d ms total)",
		stats.TestsTotal, stats.Duration().Milliseconds())
	h.printer.Tag(text.FgGreen, ui.TagPassed, "%d test(s)", stats.TestsPassed)

	if stats.TestsFailed > 0 {
		h.printer.Tag(text.FgRed, ui.TagFailed, "%d test(s), listed below:", stats.TestsFailed)
		for _, e := range selected {
			if e.FailedThisRun {
				h.printer.FailName(e.FullName())
			}
		}
	}

	// Isolated children keep their assertion counts to themselves, so the
	// totals only mean something for in-process runs.
	if !result.IsolationOn {
		h.printer.Printf("\nAssertions: %d total, %d passed, %d failed\n",
			stats.AssertionsTotal,
			stats.AssertionsTotal-stats.AssertionsFailed,
			stats.AssertionsFailed)
	}

	if stats.TestsTotal == stats.TestsPassed {
		h.printer.Colored(text.FgGreen, "ALL %d TESTS PASSED!", stats.TestsTotal)
	}
}

// suiteTally aggregates results per suite for the report table.
type suiteTally struct {
	passed   int
	failed   int
	duration time.Duration
}

// printResultsTable prints a per-suite overview of the run.
func (h *Harness) printResultsTable(result *types.RunResult) {
	if len(result.Results) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(h.printer.Writer())
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatDuration(result.Stats.Duration())))

	t.AppendHeader(table.Row{"Suite", "Tests", "Passed", "Failed", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	order, tallies := tallyBySuite(result.Results)
	for _, suite := range order {
		s := tallies[suite]
		status := types.TestStatusPass
		if s.failed > 0 {
			status = types.TestStatusFail
		}
		t.AppendRow(table.Row{
			suite,
			s.passed + s.failed,
			s.passed,
			s.failed,
			formatDuration(s.duration),
			resultString(status),
		})
	}

	if result.Stats.AllPassed() {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	runStatus := types.TestStatusPass
	if !result.Stats.AllPassed() {
		runStatus = types.TestStatusFail
	}
	t.AppendFooter(table.Row{
		"TOTAL",
		result.Stats.TestsTotal,
		result.Stats.TestsPassed,
		result.Stats.TestsFailed,
		formatDuration(result.Stats.Duration()),
		resultString(runStatus),
	})

	t.Render()
}

// tallyBySuite folds results into per-suite counters, preserving the order
// suites first appeared in.
func tallyBySuite(results []*types.TestResult) ([]string, map[string]*suiteTally) {
	order := make([]string, 0)
	tallies := make(map[string]*suiteTally)
	for _, r := range results {
		s, ok := tallies[r.Suite]
		if !ok {
			s = &suiteTally{}
			tallies[r.Suite] = s
			order = append(order, r.Suite)
		}
		if r.Passed() {
			s.passed++
		} else {
			s.failed++
		}
		s.duration += r.Duration
	}
	return order, tallies
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// resultString returns a short status marker for table cells
func resultString(status types.TestStatus) string {
	switch status {
	case types.TestStatusPass:
		return "✓ pass"
	case types.TestStatusSkip:
		return "- skip"
	default:
		return "✗ fail"
	}
}
