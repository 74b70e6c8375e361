// Package guard runs one test function at a time under a failure-containment
// boundary: fatal assertions unwind back to the guard, panics are caught and
// reported, and deferred cleanups plus suite teardown always run.
package guard

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/stefwlc/ezctest/types"
	"github.com/stefwlc/ezctest/ui"
)

const reasonFatalAssert = "terminated by fatal assertion"

// Runner executes tests sequentially and folds assertion counts into the
// run's aggregate stats.
type Runner struct {
	printer *ui.Printer
	stats   *types.RunStats
	worker  bool
}

// NewRunner returns a Runner printing through the given sink. stats may be
// nil when assertion totals are not wanted.
func NewRunner(printer *ui.Printer, stats *types.RunStats) *Runner {
	return &Runner{printer: printer, stats: stats}
}

// SetWorkerMode suppresses the start-of-test marker; in worker mode the
// parent process already printed it before spawning the child.
func (r *Runner) SetWorkerMode(on bool) {
	r.worker = on
}

// Run executes a single test under the containment protocol:
//
//  1. fresh T with clean flags and an empty defer stack
//  2. suite setup, outside the boundary (its panic propagates)
//  3. test body inside the boundary; fatal assertions unwind here, genuine
//     panics are caught and reported
//  4. deferred cleanups LIFO, then teardown, regardless of outcome
//  5. elapsed time and classification
//
// Failure details are captured alongside the live stream so result sinks
// get a per-test record.
func (r *Runner) Run(suite, name string, fn TestFunc, setUp, tearDown HookFunc) *types.TestResult {
	full := suite + "." + name

	if !r.worker {
		r.printer.Run(full)
	}

	var captured bytes.Buffer
	tee := ui.NewPrinter(io.MultiWriter(r.printer.Writer(), &captured), r.printer.ColorEnabled())
	t := &T{suite: suite, name: name, printer: tee}

	start := time.Now()

	if setUp != nil {
		setUp()
	}

	reason := r.invokeBody(t, fn)

	t.drainDefers()
	if tearDown != nil {
		tearDown()
	}

	elapsed := time.Since(start)

	switch reason {
	case "":
	case reasonFatalAssert:
		tee.Detail("(test terminated by fatal assertion)")
	default:
		tee.Detail("(test terminated by panic)")
	}

	if r.stats != nil {
		r.stats.AssertionsTotal += t.assertsTotal
		r.stats.AssertionsFailed += t.assertsFailed
	}

	res := &types.TestResult{
		Suite:    suite,
		Name:     name,
		Duration: elapsed,
		Reason:   reason,
		Output:   captured.String(),
	}
	if t.failed {
		res.Status = types.TestStatusFail
		r.printer.Fail(full, elapsed.Milliseconds())
	} else {
		res.Status = types.TestStatusPass
		r.printer.OK(full, elapsed.Milliseconds())
	}
	return res
}

// invokeBody runs the test function inside the containment boundary and
// returns a non-empty reason when the body did not return normally.
func (r *Runner) invokeBody(t *T, fn TestFunc) (reason string) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if _, ok := rec.(fatalToken); ok {
			reason = reasonFatalAssert
			return
		}
		t.failed = true
		t.printer.Detail("Uncaught panic: %v", rec)
		reason = fmt.Sprintf("uncaught panic: %v", rec)
	}()
	fn(t)
	return ""
}
