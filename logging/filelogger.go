package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/stefwlc/ezctest/types"
)

// RunDirectoryPrefix namespaces one run's artifacts under the log directory.
const RunDirectoryPrefix = "testrun-"

// ResultSink consumes test results as they are produced.
type ResultSink interface {
	// Consume processes a single test result.
	Consume(result *types.TestResult, runID string) error
	// Complete is called when all results have been consumed.
	Complete(runID string) error
}

// FileLogger writes one log file per test under
// <baseDir>/testrun-<runID>/<Suite>/<Name>.log, mirrors failures into a
// failed/ directory, and writes summary.log on completion. Writes are
// synchronous; tests run one at a time.
type FileLogger struct {
	baseDir   string
	logDir    string
	failedDir string

	mu       sync.Mutex
	runID    string
	total    int
	passed   int
	failed   int
	failures []string
}

// NewFileLogger creates the run directory tree under baseDir.
func NewFileLogger(baseDir, runID string) (*FileLogger, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir cannot be empty")
	}
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}

	logDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	failedDir := filepath.Join(logDir, "failed")
	for _, dir := range []string{baseDir, logDir, failedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &FileLogger{
		baseDir:   baseDir,
		logDir:    logDir,
		failedDir: failedDir,
		runID:     runID,
	}, nil
}

// Directory returns the run's root log directory.
func (l *FileLogger) Directory() string {
	return l.logDir
}

// FailedDirectory returns the directory collecting failed-test logs.
func (l *FileLogger) FailedDirectory() string {
	return l.failedDir
}

// SummaryFile returns the path summary.log is written to on Complete.
func (l *FileLogger) SummaryFile() string {
	return filepath.Join(l.logDir, "summary.log")
}

// RunID returns the run this logger was created for.
func (l *FileLogger) RunID() string {
	return l.runID
}

// Consume appends the result to the test's log file. Repeat iterations of
// the same test append to the same file, separated by headers.
func (l *FileLogger) Consume(result *types.TestResult, runID string) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.total++
	if result.Passed() {
		l.passed++
	} else {
		l.failed++
		l.failures = append(l.failures, result.FullName())
	}

	content := renderResult(result)

	suiteDir := filepath.Join(l.logDir, safeFilename(result.Suite))
	if err := os.MkdirAll(suiteDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", suiteDir, err)
	}
	path := filepath.Join(suiteDir, safeFilename(result.Name)+".log")
	if err := appendFile(path, content); err != nil {
		return err
	}

	if !result.Passed() {
		failPath := filepath.Join(l.failedDir, safeFilename(result.FullName())+".log")
		if err := appendFile(failPath, content); err != nil {
			return err
		}
	}
	return nil
}

// Complete writes summary.log for the run.
func (l *FileLogger) Complete(runID string) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Run:        %s\n", runID)
	fmt.Fprintf(&b, "Completed:  %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Tests:      %d\n", l.total)
	fmt.Fprintf(&b, "Passed:     %d\n", l.passed)
	fmt.Fprintf(&b, "Failed:     %d\n", l.failed)
	if len(l.failures) > 0 {
		fmt.Fprintf(&b, "\nFailed tests:\n")
		for _, name := range l.failures {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	return os.WriteFile(l.SummaryFile(), []byte(b.String()), 0644)
}

// renderResult formats one result for its log file, with ANSI escapes
// stripped so the files read clean in editors.
func renderResult(result *types.TestResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s\n", result.FullName())
	fmt.Fprintf(&b, "Status:   %s\n", result.Status)
	fmt.Fprintf(&b, "Duration: %dms\n", result.Duration.Milliseconds())
	if result.Isolated {
		fmt.Fprintf(&b, "Isolated: exit code %d\n", result.ExitCode)
	}
	if result.Reason != "" {
		fmt.Fprintf(&b, "Reason:   %s\n", result.Reason)
	}
	if out := strings.TrimRight(stripansi.Strip(result.Output), "\n"); out != "" {
		fmt.Fprintf(&b, "Output:\n%s\n", out)
	}
	b.WriteString("\n")
	return b.String()
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write log file %s: %w", path, err)
	}
	return nil
}

// safeFilename replaces characters that are unsafe in file names.
func safeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(s)
}
