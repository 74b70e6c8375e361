package metrics

import (
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/stefwlc/ezctest/types"
)

const (
	MetricsNamespace = "ezctest"
)

var (
	Debug         bool = true
	validStatuses      = []types.TestStatus{
		types.TestStatusPass,
		types.TestStatusFail,
		types.TestStatusSkip,
		types.TestStatusError,
	}

	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_total",
		Help:      "Count of test executions",
	}, []string{
		"run_id",
		"suite",
		"status",
	})

	assertionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "assertions_total",
		Help:      "Count of assertions evaluated",
	}, []string{
		"run_id",
		"result",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_total",
		Help:      "Count of completed runs",
	}, []string{
		"result",
	})

	lastRunTests = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "last_run_tests",
		Help:      "Number of tests executed in the last run",
	}, []string{
		"run_id",
	})

	lastRunFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "last_run_failures",
		Help:      "Number of failed tests in the last run",
	}, []string{
		"run_id",
	})

	lastRunDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "last_run_duration_seconds",
		Help:      "Wall time of the last run",
	}, []string{
		"run_id",
	})
)

// RecordTest counts one executed test.
func RecordTest(runID, suite string, status types.TestStatus) {
	if !isValidStatus(status) {
		log.Error("RecordTest - invalid status", "status", status)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "tests_total",
			"run_id", runID,
			"suite", suite,
			"status", status)
	}
	testsTotal.WithLabelValues(runID, suite, string(status)).Inc()
}

// RecordAssertions counts the assertions evaluated during a run.
func RecordAssertions(runID string, total, failed int) {
	if total < 0 || failed < 0 || failed > total {
		log.Error("RecordAssertions - inconsistent counts", "total", total, "failed", failed)
		return
	}
	assertionsTotal.WithLabelValues(runID, "passed").Add(float64(total - failed))
	assertionsTotal.WithLabelValues(runID, "failed").Add(float64(failed))
}

// RecordRun records the aggregate outcome of a whole run.
func RecordRun(runID string, result string, total, failed int, duration time.Duration) {
	if Debug {
		log.Debug("metric inc",
			"m", "runs_total",
			"run_id", runID,
			"result", result,
			"total", total,
			"failed", failed)
	}
	runsTotal.WithLabelValues(result).Inc()
	lastRunTests.WithLabelValues(runID).Set(float64(total))
	lastRunFailures.WithLabelValues(runID).Set(float64(failed))
	lastRunDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isValidStatus(status types.TestStatus) bool {
	return slices.Contains(validStatuses, status)
}
