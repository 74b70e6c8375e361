// Package ezctest is a small unit-test runner with GoogleTest-flavored
// output. Tests register themselves at init time (directly or through a
// reflective suite scanner), are selected by ':'-separated glob filters, and
// each run in a fresh child process so a crash in one test cannot take down
// the rest of the run. Soft failures record and continue; fatal failures
// unwind the test body while deferred cleanups and suite teardown still run.
package ezctest

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/stefwlc/ezctest/exitcodes"
	"github.com/stefwlc/ezctest/flags"
	"github.com/stefwlc/ezctest/guard"
	"github.com/stefwlc/ezctest/logging"
	"github.com/stefwlc/ezctest/registry"
	"github.com/stefwlc/ezctest/service"
)

// Version is reported by --version.
var Version = "v1.0.0"

// T is the handle passed to every test body. It carries the assertion API
// and the per-test defer stack.
type T = guard.T

// TestFunc is the signature every test body must have.
type TestFunc = guard.TestFunc

// Register adds a test to the default registry. A name or suite carrying
// the DISABLED_ prefix registers the test but keeps it out of every run.
func Register(suite, name string, fn TestFunc) error {
	return registry.Default().Register(suite, name, fn)
}

// MustRegister is Register for init-time use; it panics on invalid input.
func MustRegister(suite, name string, fn TestFunc) {
	registry.MustRegister(suite, name, fn)
}

// RegisterSetUp installs a hook that runs before every test of the suite.
func RegisterSetUp(suite string, fn func()) error {
	return registry.Default().RegisterSetUp(suite, fn)
}

// RegisterTearDown installs a hook that runs after every test of the suite.
func RegisterTearDown(suite string, fn func()) error {
	return registry.Default().RegisterTearDown(suite, fn)
}

// RegisterSuite discovers the Test* methods of a suite struct by reflection
// and registers each one, along with optional SetUp/TearDown hooks. The
// suite name is the struct type's name.
func RegisterSuite(s any) error {
	return registry.Default().ScanSuite(s)
}

// Main runs the CLI against os.Args and exits the process.
func Main() {
	os.Exit(Run(os.Args))
}

// Run executes the CLI with the given arguments and returns the process
// exit code: 0 when every selected test passed (also list and help modes),
// 1 when tests failed, 2 on runtime errors such as bad flags or an
// unreadable config file.
func Run(args []string) int {
	app := cli.NewApp()
	app.Name = "ezctest"
	app.Version = Version
	app.Usage = "register, filter and run unit tests with per-test process isolation"
	app.Description = `Filter patterns:
   *          Match any characters
   ?          Match single character
   :          Separate multiple patterns
   -PATTERN   Exclude tests matching PATTERN

Examples:
   ezctest --filter=MyTest.*
   ezctest --filter=*Fast*:*Quick*
   ezctest --filter=*:-*Slow*

Process Isolation:
   By default, tests run in separate processes for isolation.
   Under debugger or single test, isolation is auto-disabled.
   Use --no_exec to force single-process mode.`
	app.Flags = flags.Flags
	app.Action = run

	err := app.Run(args)
	if err == nil {
		return exitcodes.Success
	}
	if IsTestFailureError(err) {
		return exitcodes.TestFailure
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitcodes.RuntimeErr
}

func run(ctx *cli.Context) error {
	logger, err := logging.Setup(os.Stderr, ctx.String(flags.LogLevel.Name), resolveColor(ColorAuto, os.Stderr))
	if err != nil {
		return NewRuntimeError(err)
	}

	cfg, err := NewConfig(ctx, logger)
	if err != nil {
		return NewRuntimeError(errors.Wrap(err, "failed to create config"))
	}
	if cfg.LogLevel != ctx.String(flags.LogLevel.Name) {
		logger, err = logging.Setup(os.Stderr, cfg.LogLevel, resolveColor(ColorAuto, os.Stderr))
		if err != nil {
			return NewRuntimeError(err)
		}
		cfg.Log = logger
	}

	harness, err := NewHarness(cfg, nil)
	if err != nil {
		return NewRuntimeError(err)
	}

	// Worker children run one test and exit; the metrics service and result
	// sinks belong to the parent.
	if cfg.WorkerIndex < 0 {
		if cfg.Metrics.Enabled {
			svc := service.New()
			svc.Start(ctx.Context, fmt.Sprintf("%s:%d", cfg.Metrics.Addr, cfg.Metrics.Port))
			defer svc.Shutdown()
		}
		if cfg.LogDir != "" {
			fileLogger, err := logging.NewFileLogger(cfg.LogDir, harness.RunID())
			if err != nil {
				return NewRuntimeError(errors.Wrap(err, "failed to create file logger"))
			}
			harness.AddSink(fileLogger)
			logger.Info("Per-test logs enabled", "dir", fileLogger.Directory())
		}
	}

	return harness.Run(ctx.Context)
}
