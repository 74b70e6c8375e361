// Package logging wires the framework's diagnostic logger and the per-run
// result sinks. Diagnostics go through go-ethereum's slog-backed logger;
// test output itself is printed by the harness, not logged.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Setup builds a terminal logger at the given level and installs it as the
// default, returning it for injection into components that take a logger.
func Setup(out io.Writer, level string, color bool) (log.Logger, error) {
	lvl, err := LevelFromString(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(out, lvl, color))
	log.SetDefault(logger)
	return logger, nil
}

// LevelFromString parses the --log.level flag value.
func LevelFromString(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelInfo, fmt.Errorf("unknown log level %q, expected trace, debug, info, warn, error, or crit", s)
	}
}
