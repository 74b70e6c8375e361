package types

import (
	"fmt"
	"time"
)

// TestStatus represents the possible states of a test execution
type TestStatus string

const (
	TestStatusPass  TestStatus = "pass"
	TestStatusFail  TestStatus = "fail"
	TestStatusSkip  TestStatus = "skip"
	TestStatusError TestStatus = "error"
)

// TestResult captures the outcome of a single test execution
type TestResult struct {
	Suite    string
	Name     string
	Status   TestStatus
	Duration time.Duration
	Reason   string // fatal-failure or abnormal-termination description
	Output   string // captured test output, consumed by result sinks
	Isolated bool   // ran in a child process
	ExitCode int    // child exit status when Isolated
}

// FullName returns the canonical "Suite.Name" identifier used by filters,
// worker selection and reporting.
func (r *TestResult) FullName() string {
	return fmt.Sprintf("%s.%s", r.Suite, r.Name)
}

// Passed reports whether the test finished with a passing status.
func (r *TestResult) Passed() bool {
	return r.Status == TestStatusPass
}

// RunStats aggregates counters across a whole run. Test counters accumulate
// over repeat iterations; assertion counters are only populated when tests
// run in-process, since isolated children do not report assertion-level
// granularity back to the parent.
type RunStats struct {
	TestsTotal       int
	TestsPassed      int
	TestsFailed      int
	AssertionsTotal  int
	AssertionsFailed int
	StartTime        time.Time
	EndTime          time.Time
}

// Record folds a single test result into the totals.
func (s *RunStats) Record(r *TestResult) {
	s.TestsTotal++
	if r.Passed() {
		s.TestsPassed++
	} else {
		s.TestsFailed++
	}
}

// AllPassed reports whether every recorded test passed. A run with zero
// tests counts as passing.
func (s *RunStats) AllPassed() bool {
	return s.TestsFailed == 0 && s.TestsTotal == s.TestsPassed
}

// Duration returns the wall time between start and end of the run.
func (s *RunStats) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// RunResult is the complete outcome of one orchestrated run.
type RunResult struct {
	RunID       string
	Stats       RunStats
	Results     []*TestResult
	IsolationOn bool
	Iterations  int
}

// AddResult appends a test result and updates the aggregate counters.
func (rr *RunResult) AddResult(r *TestResult) {
	rr.Results = append(rr.Results, r)
	rr.Stats.Record(r)
}

// FailedResults returns the results that did not pass, in execution order.
func (rr *RunResult) FailedResults() []*TestResult {
	var failed []*TestResult
	for _, r := range rr.Results {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// String renders a one-line summary, useful in logs.
func (rr *RunResult) String() string {
	return fmt.Sprintf("run %s: %d ran, %d passed, %d failed",
		rr.RunID, rr.Stats.TestsTotal, rr.Stats.TestsPassed, rr.Stats.TestsFailed)
}
