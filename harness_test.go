package ezctest

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefwlc/ezctest/registry"
	"github.com/stefwlc/ezctest/types"
)

// newTestConfig returns an in-process, colorless config writing to buf.
func newTestConfig(buf *bytes.Buffer) *Config {
	return &Config{
		Repeat:      1,
		Color:       ColorNo,
		Isolation:   IsolationOff,
		WorkerIndex: -1,
		LogLevel:    "info",
		Stdout:      buf,
		Log:         log.New(),
	}
}

func newTestHarness(t *testing.T, cfg *Config, reg *registry.Registry) *Harness {
	t.Helper()
	h, err := NewHarness(cfg, reg)
	require.NoError(t, err)
	return h
}

// mixedRegistry registers two suites: Math with one pass, one soft failure
// and one fatal failure, and String with a single passing test.
func mixedRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Register("Math", "Addition", func(tt *T) {
		tt.ExpectEqual(4, 2+2)
	}))
	require.NoError(t, reg.Register("Math", "Division", func(tt *T) {
		tt.Errorf("remainder mismatch")
	}))
	require.NoError(t, reg.Register("Math", "Overflow", func(tt *T) {
		tt.Fatalf("value out of range")
		tt.Log("unreachable")
	}))
	require.NoError(t, reg.Register("String", "Concat", func(tt *T) {
		tt.ExpectEqual("ab", "a"+"b")
	}))
	return reg
}

func TestRunAllReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	h := newTestHarness(t, cfg, mixedRegistry(t))

	result, err := h.runAll(context.Background())
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err))

	assert.Equal(t, 4, result.Stats.TestsTotal)
	assert.Equal(t, 2, result.Stats.TestsPassed)
	assert.Equal(t, 2, result.Stats.TestsFailed)
	assert.Equal(t, result.Stats.TestsTotal, result.Stats.TestsPassed+result.Stats.TestsFailed)

	out := stripansi.Strip(buf.String())
	assert.Contains(t, out, "[==========] Running 4 test(s) [Process Isolation: OFF]")
	assert.Contains(t, out, "[  FAILED  ] 2 test(s), listed below:")
	assert.Contains(t, out, "[  FAILED  ] Math.Division\n")
	assert.Contains(t, out, "[  FAILED  ] Math.Overflow\n")
	assert.NotContains(t, out, "ALL 4 TESTS PASSED!")
}

func TestRunAllAllPass(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.Filter = "String.*:Math.Addition"
	h := newTestHarness(t, cfg, mixedRegistry(t))

	result, err := h.runAll(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Stats.AllPassed())
	assert.Equal(t, 2, result.Stats.TestsTotal)

	out := stripansi.Strip(buf.String())
	assert.Contains(t, out, "ALL 2 TESTS PASSED!")
	assert.Contains(t, out, "[  PASSED  ] 2 test(s)")
	assert.NotContains(t, out, "listed below")
}

func TestRunAllNoSelection(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.Filter = "Nope.*"
	h := newTestHarness(t, cfg, mixedRegistry(t))

	result, err := h.runAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Stats.TestsTotal)
	assert.Contains(t, stripansi.Strip(buf.String()), "No tests to run")
}

func TestRunAllFilterNegation(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.Filter = "-Math.Division:-Math.Overflow"
	h := newTestHarness(t, cfg, mixedRegistry(t))

	result, err := h.runAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.TestsTotal)
	assert.True(t, result.Stats.AllPassed())
}

func TestRepeatAccumulatesTotals(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.Filter = "Math.Addition:Math.Division"
	cfg.Repeat = 3
	h := newTestHarness(t, cfg, mixedRegistry(t))

	result, err := h.runAll(context.Background())
	require.Error(t, err)

	assert.Equal(t, 6, result.Stats.TestsTotal)
	assert.Equal(t, 3, result.Stats.TestsPassed)
	assert.Equal(t, 3, result.Stats.TestsFailed)

	out := stripansi.Strip(buf.String())
	assert.Contains(t, out, "Running 2 test(s) (3 iteration(s))")
	assert.Contains(t, out, "[----------] Iteration 1/3")
	assert.Contains(t, out, "[----------] Iteration 3/3")

	// The summary lists each failing test once, from the final iteration,
	// even though the counter reflects all iterations.
	assert.Equal(t, 1, strings.Count(out, "[  FAILED  ] Math.Division\n"))
	assert.Equal(t, 3, strings.Count(out, "[  FAILED  ] Math.Division ("))
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	runOrder := func(seed int64) []string {
		var order []string
		reg := registry.New()
		for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
			name := name
			require.NoError(t, reg.Register("Order", name, func(tt *T) {
				order = append(order, name)
			}))
		}
		var buf bytes.Buffer
		cfg := newTestConfig(&buf)
		cfg.Shuffle = true
		cfg.ShuffleSeed = seed
		h := newTestHarness(t, cfg, reg)
		_, err := h.runAll(context.Background())
		require.NoError(t, err)
		return order
	}

	first := runOrder(42)
	second := runOrder(42)
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E", "F"}, first)
}

func TestShuffleOnlyBeforeFirstIteration(t *testing.T) {
	var order []string
	reg := registry.New()
	for _, name := range []string{"A", "B", "C", "D"} {
		name := name
		require.NoError(t, reg.Register("Order", name, func(tt *T) {
			order = append(order, name)
		}))
	}

	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.Shuffle = true
	cfg.ShuffleSeed = 7
	cfg.Repeat = 2
	h := newTestHarness(t, cfg, reg)

	_, err := h.runAll(context.Background())
	require.NoError(t, err)

	require.Len(t, order, 8)
	assert.Equal(t, order[:4], order[4:], "iterations should share one shuffled order")
}

func TestListTestsGroupsBySuite(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.ListOnly = true
	h := newTestHarness(t, cfg, mixedRegistry(t))

	require.NoError(t, h.Run(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "Math.\n  Addition\n  Division\n  Overflow\nString.\n  Concat\n")
	assert.Contains(t, out, "\nTotal: 4 test(s)\n")
	assert.Equal(t, 1, strings.Count(out, "Math.\n"))
	assert.NotContains(t, out, "[ RUN      ]")
}

func TestWorkerModeRunsSingleTest(t *testing.T) {
	var ran []string
	reg := registry.New()
	for _, name := range []string{"First", "Second", "Third"} {
		name := name
		require.NoError(t, reg.Register("Pick", name, func(tt *T) {
			ran = append(ran, name)
		}))
	}

	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.WorkerIndex = 1
	h := newTestHarness(t, cfg, reg)

	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, []string{"Second"}, ran)

	out := stripansi.Strip(buf.String())
	assert.Contains(t, out, "[       OK ] Pick.Second")
	assert.NotContains(t, out, "[ RUN      ]", "parent prints the run marker, not the worker")
}

func TestWorkerModeFailureAndBadIndex(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("Pick", "Broken", func(tt *T) {
		tt.Fail()
	}))

	t.Run("failing test", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := newTestConfig(&buf)
		cfg.WorkerIndex = 0
		h := newTestHarness(t, cfg, reg)

		err := h.Run(context.Background())
		require.Error(t, err)
		assert.True(t, IsTestFailureError(err))
		assert.Contains(t, stripansi.Strip(buf.String()), "[  FAILED  ] Pick.Broken")
	})

	t.Run("index out of range", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := newTestConfig(&buf)
		cfg.WorkerIndex = 9
		h := newTestHarness(t, cfg, reg)

		err := h.Run(context.Background())
		require.Error(t, err)
		assert.True(t, IsTestFailureError(err))
	})
}

func TestFixtureHooksRunPerTest(t *testing.T) {
	var setUps, tearDowns int
	reg := registry.New()
	require.NoError(t, reg.RegisterSetUp("Hooked", func() { setUps++ }))
	require.NoError(t, reg.RegisterTearDown("Hooked", func() { tearDowns++ }))
	require.NoError(t, reg.Register("Hooked", "One", func(tt *T) {}))
	require.NoError(t, reg.Register("Hooked", "Two", func(tt *T) {}))

	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.Repeat = 2
	h := newTestHarness(t, cfg, reg)

	_, err := h.runAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, setUps)
	assert.Equal(t, 4, tearDowns)
}

func TestSummaryAssertionLineOnlyInProcess(t *testing.T) {
	summary := func(isolated bool) string {
		var buf bytes.Buffer
		cfg := newTestConfig(&buf)
		h := newTestHarness(t, cfg, registry.New())

		result := &types.RunResult{RunID: h.runID, IsolationOn: isolated}
		result.Stats.StartTime = time.Now()
		result.AddResult(&types.TestResult{Suite: "Math", Name: "Addition", Status: types.TestStatusPass})
		result.Stats.AssertionsTotal = 3
		result.Stats.EndTime = time.Now()

		h.printSummary(result, nil)
		return stripansi.Strip(buf.String())
	}

	assert.Contains(t, summary(false), "Assertions: 3 total, 3 passed, 0 failed")
	assert.NotContains(t, summary(true), "Assertions:")
}

func TestResultsTableAggregatesSuites(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	h := newTestHarness(t, cfg, mixedRegistry(t))

	result, err := h.runAll(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)

	out := stripansi.Strip(buf.String())
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "✗ fail")
	assert.Contains(t, out, "✓ pass")
	assert.Contains(t, out, "Test Results (")
}

func TestResultSinksReceiveEveryResult(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig(&buf)
	cfg.Filter = "Math.Addition:Math.Division"
	cfg.Repeat = 2
	h := newTestHarness(t, cfg, mixedRegistry(t))

	sink := &recordingSink{}
	h.AddSink(sink)

	_, err := h.runAll(context.Background())
	require.Error(t, err)

	assert.Equal(t, 4, len(sink.consumed))
	assert.Equal(t, 1, sink.completed)
	for _, r := range sink.consumed {
		assert.Equal(t, h.RunID(), sink.runID)
		assert.NotEmpty(t, r.FullName())
	}
}

type recordingSink struct {
	consumed  []*types.TestResult
	completed int
	runID     string
}

func (s *recordingSink) Consume(result *types.TestResult, runID string) error {
	s.consumed = append(s.consumed, result)
	s.runID = runID
	return nil
}

func (s *recordingSink) Complete(runID string) error {
	s.completed++
	return nil
}
