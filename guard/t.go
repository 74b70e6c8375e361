package guard

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/stefwlc/ezctest/ui"
)

// TestFunc is the signature of a registered test body.
type TestFunc func(*T)

// HookFunc is a suite-level setup or teardown hook.
type HookFunc func()

// Deferred cleanups are bounded; registrations past the limit are refused.
const maxDeferCallbacks = 32

// fatalToken is the sentinel carried by the panic that unwinds a test body
// after a fatal assertion. Only this package can create one, so the guard
// can tell fatal unwinds apart from genuine panics.
type fatalToken struct{}

// T is the per-test execution context handed to every test body. It records
// assertion outcomes, carries the deferred-cleanup stack, and prints failure
// details through the run's output sink. A T is only valid for the duration
// of the test it was created for.
type T struct {
	suite string
	name  string

	printer *ui.Printer

	failed   bool
	fatalHit bool

	assertsTotal  int
	assertsFailed int

	defers []func()
}

// Suite returns the suite name of the running test.
func (t *T) Suite() string { return t.suite }

// Name returns the test name within its suite.
func (t *T) Name() string { return t.name }

// FullName returns the canonical "Suite.Name" identifier.
func (t *T) FullName() string { return t.suite + "." + t.name }

// Failed reports whether any assertion failed or the test was marked failed.
func (t *T) Failed() bool { return t.failed }

// Log prints an indented diagnostic line beneath the current test.
func (t *T) Log(args ...any) {
	t.printer.Detail("%s", fmt.Sprint(args...))
}

// Logf prints a formatted diagnostic line beneath the current test.
func (t *T) Logf(format string, args ...any) {
	t.printer.Detail(format, args...)
}

// Fail marks the test as failed without stopping it.
func (t *T) Fail() {
	t.failed = true
}

// FailNow marks the test as failed and unwinds the test body immediately.
// Deferred cleanups and teardown still run.
func (t *T) FailNow() {
	t.failed = true
	t.fatalHit = true
	panic(fatalToken{})
}

// Errorf records a soft failure with a message; execution continues.
func (t *T) Errorf(format string, args ...any) {
	t.failf(false, fmt.Sprintf(format, args...))
}

// Fatalf records a failure with a message and unwinds the test body.
func (t *T) Fatalf(format string, args ...any) {
	t.failf(true, fmt.Sprintf(format, args...))
}

// Defer registers fn to run when the test ends, in reverse registration
// order, regardless of outcome. Returns false when fn is nil or the stack
// is full; the registration is refused but the test continues.
func (t *T) Defer(fn func()) bool {
	if fn == nil {
		return false
	}
	if len(t.defers) >= maxDeferCallbacks {
		t.printer.Detail("defer stack full (%d callbacks), cleanup not registered", maxDeferCallbacks)
		return false
	}
	t.defers = append(t.defers, fn)
	return true
}

// pass counts a successful assertion.
func (t *T) pass() bool {
	t.assertsTotal++
	return true
}

// failf counts a failed assertion, prints the call site and message, and
// unwinds when fatal. Call depth matters: failf must be invoked directly by
// an exported method so the reported site is the user's line.
func (t *T) failf(fatal bool, message string) bool {
	t.assertsTotal++
	t.assertsFailed++
	t.failed = true
	t.printer.FailureAt(callSite(3), message)
	if fatal {
		t.fatalHit = true
		panic(fatalToken{})
	}
	return false
}

// drainDefers runs the deferred cleanups LIFO and clears the stack. A panic
// inside one cleanup is contained so the remaining cleanups still run.
func (t *T) drainDefers() {
	for i := len(t.defers) - 1; i >= 0; i-- {
		t.runCleanup(t.defers[i])
	}
	t.defers = t.defers[:0]
}

func (t *T) runCleanup(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			t.failed = true
			t.printer.Detail("panic in deferred cleanup: %v", rec)
		}
	}()
	fn()
}

func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
