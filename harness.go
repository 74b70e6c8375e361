package ezctest

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"

	"github.com/stefwlc/ezctest/filter"
	"github.com/stefwlc/ezctest/guard"
	"github.com/stefwlc/ezctest/logging"
	"github.com/stefwlc/ezctest/metrics"
	"github.com/stefwlc/ezctest/registry"
	"github.com/stefwlc/ezctest/runner"
	"github.com/stefwlc/ezctest/types"
	"github.com/stefwlc/ezctest/ui"
)

// Harness ties the registry, execution guard, isolation runner and result
// sinks together for one invocation.
type Harness struct {
	config   *Config
	registry *registry.Registry
	printer  *ui.Printer
	runID    string
	sinks    []logging.ResultSink
}

// NewHarness wires a harness from the given config. A nil registry uses the
// process-wide default, which is where the registration macros and suite
// scanner put their entries.
func NewHarness(config *Config, reg *registry.Registry) (*Harness, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if reg == nil {
		reg = registry.Default()
	}

	config.Log.Debug("Creating harness",
		"filter", config.Filter,
		"repeat", config.Repeat,
		"shuffle", config.Shuffle,
		"isolation", config.Isolation,
		"tests", reg.Len())

	return &Harness{
		config:   config,
		registry: reg,
		printer:  ui.NewPrinter(config.Stdout, config.UseColor),
		runID:    uuid.New().String(),
	}, nil
}

// RunID identifies this harness in metrics labels and log artifacts.
func (h *Harness) RunID() string {
	return h.runID
}

// AddSink registers a per-test result consumer, such as the file logger.
func (h *Harness) AddSink(s logging.ResultSink) {
	h.sinks = append(h.sinks, s)
}

// Run dispatches on the configured mode. The returned error encodes the
// process outcome: nil for success, TestFailureError when any test failed.
func (h *Harness) Run(ctx context.Context) error {
	switch {
	case h.config.WorkerIndex >= 0:
		return h.runWorker()
	case h.config.ListOnly:
		return h.listTests()
	case h.config.Interactive:
		return h.runInteractive(ctx)
	default:
		_, err := h.runAll(ctx)
		return err
	}
}

// runWorker executes exactly one test, addressed by its ordinal position in
// the canonical selection order. The parent already printed the [ RUN ]
// marker, so the guard runs in worker mode and only the result line and any
// failure details are written here.
func (h *Harness) runWorker() error {
	selected := h.registry.Selected(filter.New(h.config.Filter))
	idx := h.config.WorkerIndex
	if idx >= len(selected) {
		fmt.Fprintf(os.Stderr, "Error: Worker index %d not found (total enabled: %d)\n", idx, len(selected))
		return NewTestFailureError(fmt.Sprintf("worker index %d not found", idx))
	}

	entry := selected[idx]
	setUp, tearDown := h.registry.FixtureFor(entry.Suite)

	run := guard.NewRunner(h.printer, nil)
	run.SetWorkerMode(true)
	res := run.Run(entry.Suite, entry.Name, entry.Fn, setUp, tearDown)
	if !res.Passed() {
		return NewTestFailureError(res.FullName())
	}
	return nil
}

// listTests prints the selected tests grouped by suite, in registration
// order, without running anything.
func (h *Harness) listTests() error {
	selected := h.registry.Selected(filter.New(h.config.Filter))

	lastSuite := ""
	for _, e := range selected {
		if e.Suite != lastSuite {
			h.printer.Printf("%s.\n", e.Suite)
			lastSuite = e.Suite
		}
		h.printer.Printf("  %s\n", e.Name)
	}
	h.printer.Printf("\nTotal: %d test(s)\n", len(selected))
	return nil
}

// runAll executes the selected tests for the configured number of
// iterations and prints the aggregate report.
func (h *Harness) runAll(ctx context.Context) (*types.RunResult, error) {
	selected := h.registry.Selected(filter.New(h.config.Filter))
	if len(selected) == 0 {
		h.printer.Colored(text.FgYellow, "No tests to run")
		return &types.RunResult{RunID: h.runID}, nil
	}

	isolate := h.shouldIsolate(len(selected))

	var isoRunner *runner.Runner
	if isolate {
		var err error
		isoRunner, err = runner.New(h.config.Filter, h.config.UseColor, h.printer.Writer())
		if err != nil {
			h.config.Log.Warn("Process isolation unavailable, running in-process", "err", err)
			isolate = false
		}
	}

	banner := fmt.Sprintf("Running %d test(s)", len(selected))
	if h.config.Repeat > 1 {
		banner += fmt.Sprintf(" (%d iteration(s))", h.config.Repeat)
	}
	if isolate {
		banner += " [Process Isolation: ON]"
	} else {
		banner += " [Process Isolation: OFF]"
	}
	h.printer.Tag(text.FgGreen, ui.TagBanner, "%s", banner)

	result := &types.RunResult{
		RunID:       h.runID,
		IsolationOn: isolate,
		Iterations:  h.config.Repeat,
	}
	result.Stats.StartTime = time.Now()

	// Worker indexes are assigned in canonical selection order before any
	// shuffling, so parent and child always resolve the same test.
	canonicalIndex := make(map[*registry.Entry]int, len(selected))
	for i, e := range selected {
		canonicalIndex[e] = i
	}

	inProc := guard.NewRunner(h.printer, &result.Stats)

	runOrder := make([]*registry.Entry, len(selected))
	copy(runOrder, selected)

	for rep := 0; rep < h.config.Repeat; rep++ {
		for _, e := range runOrder {
			e.FailedThisRun = false
		}

		if h.config.Repeat > 1 {
			h.printer.Printf("\n")
			h.printer.Tag(text.FgCyan, ui.TagSection, "Iteration %d/%d", rep+1, h.config.Repeat)
		}

		if h.config.Shuffle && rep == 0 {
			h.shuffleOrder(runOrder)
		}

		for _, e := range runOrder {
			var res *types.TestResult
			if isolate {
				res = h.runIsolated(ctx, isoRunner, inProc, e, canonicalIndex[e])
			} else {
				setUp, tearDown := h.registry.FixtureFor(e.Suite)
				res = inProc.Run(e.Suite, e.Name, e.Fn, setUp, tearDown)
			}
			if !res.Passed() {
				e.FailedThisRun = true
			}

			result.AddResult(res)
			metrics.RecordTest(h.runID, e.Suite, res.Status)
			h.consume(res)
		}
	}
	result.Stats.EndTime = time.Now()

	h.printSummary(result, selected)
	h.printResultsTable(result)
	h.complete(result)

	if !result.Stats.AllPassed() {
		return result, NewTestFailureError(result.String())
	}
	return result, nil
}

// runIsolated runs one test in a child process and reconstructs the outcome
// purely from the exit status. The child writes its own result line to the
// shared stdout; the parent only reports what the child could not: spawn
// fallback and abnormal terminations.
func (h *Harness) runIsolated(ctx context.Context, iso *runner.Runner, inProc *guard.Runner, e *registry.Entry, index int) *types.TestResult {
	full := e.FullName()
	h.printer.Run(full)

	var captured bytes.Buffer
	start := time.Now()
	status := iso.RunIsolated(ctx, index, &captured)
	elapsed := time.Since(start)

	switch {
	case status.SpawnErr != nil:
		h.printer.Tag(text.FgYellow, ui.TagFallback, "Process isolation failed, running in-process")
		h.config.Log.Warn("Child spawn failed", "test", full, "err", status.SpawnErr)
		setUp, tearDown := h.registry.FixtureFor(e.Suite)
		return inProc.Run(e.Suite, e.Name, e.Fn, setUp, tearDown)

	case status.Passed():
		return &types.TestResult{
			Suite:    e.Suite,
			Name:     e.Name,
			Status:   types.TestStatusPass,
			Duration: elapsed,
			Output:   captured.String(),
			Isolated: true,
		}

	case status.Failed():
		return &types.TestResult{
			Suite:    e.Suite,
			Name:     e.Name,
			Status:   types.TestStatusFail,
			Duration: elapsed,
			Output:   captured.String(),
			Isolated: true,
			ExitCode: status.ExitCode,
		}

	default:
		reason := runner.ReasonForStatus(status.ExitCode)
		h.printer.Printf("  Test terminated abnormally with exit code %d\n", status.ExitCode)
		h.printer.Printf("  Reason: %s\n", reason)
		h.printer.FailName(full)
		return &types.TestResult{
			Suite:    e.Suite,
			Name:     e.Name,
			Status:   types.TestStatusError,
			Duration: elapsed,
			Output:   captured.String(),
			Reason:   reason,
			Isolated: true,
			ExitCode: status.ExitCode,
		}
	}
}

// shouldIsolate resolves the isolation policy. Explicit configuration wins;
// auto mode skips isolation for single-test runs and under a debugger, where
// the extra process hop only gets in the way.
func (h *Harness) shouldIsolate(selectedCount int) bool {
	switch h.config.Isolation {
	case IsolationOn:
		return true
	case IsolationOff:
		return false
	}
	if selectedCount <= 1 {
		return false
	}
	if runner.UnderDebugger() {
		h.config.Log.Info("Debugger detected, disabling process isolation")
		return false
	}
	return true
}

// shuffleOrder permutes the run order in place. The canonical selection
// order is untouched; only the execution sequence changes.
func (h *Harness) shuffleOrder(entries []*registry.Entry) {
	seed := h.config.ShuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	h.config.Log.Debug("Shuffling test order", "seed", seed)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
}

// consume hands one result to every sink. Sink errors are logged and
// swallowed; artifact trouble must not fail the run.
func (h *Harness) consume(res *types.TestResult) {
	for _, s := range h.sinks {
		if err := s.Consume(res, h.runID); err != nil {
			h.config.Log.Error("Result sink failed", "test", res.FullName(), "err", err)
		}
	}
}

// complete finishes the sinks and records run-level metrics.
func (h *Harness) complete(result *types.RunResult) {
	for _, s := range h.sinks {
		if err := s.Complete(h.runID); err != nil {
			h.config.Log.Error("Result sink completion failed", "err", err)
		}
	}

	runStatus := string(types.TestStatusPass)
	if !result.Stats.AllPassed() {
		runStatus = string(types.TestStatusFail)
	}
	metrics.RecordRun(h.runID, runStatus, result.Stats.TestsTotal, result.Stats.TestsFailed, result.Stats.Duration())
	if !result.IsolationOn {
		metrics.RecordAssertions(h.runID, result.Stats.AssertionsTotal, result.Stats.AssertionsFailed)
	}

	h.config.Log.Info("Test run completed",
		"run_id", h.runID,
		"total", result.Stats.TestsTotal,
		"passed", result.Stats.TestsPassed,
		"failed", result.Stats.TestsFailed)
}
