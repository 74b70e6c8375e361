package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "EZCTEST"

// prefixEnvVars renders the environment fallback names for a flag.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Filter = &cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"ezctest_filter"},
		Value:   "",
		EnvVars: prefixEnvVars("FILTER"),
		Usage:   "Run only tests matching PATTERN (':'-separated globs, '-' prefix excludes)",
	}
	Repeat = &cli.IntFlag{
		Name:    "repeat",
		Aliases: []string{"ezctest_repeat"},
		Value:   1,
		EnvVars: prefixEnvVars("REPEAT"),
		Usage:   "Run the selected tests COUNT times (values below 1 run once)",
	}
	Shuffle = &cli.BoolFlag{
		Name:    "shuffle",
		Aliases: []string{"ezctest_shuffle"},
		Value:   false,
		EnvVars: prefixEnvVars("SHUFFLE"),
		Usage:   "Randomize test order",
	}
	Color = &cli.StringFlag{
		Name:    "color",
		Aliases: []string{"ezctest_color"},
		Value:   "auto",
		EnvVars: prefixEnvVars("COLOR"),
		Usage:   "Colored output: auto, yes, or no",
	}
	ListTests = &cli.BoolFlag{
		Name:    "list_tests",
		Aliases: []string{"ezctest_list_tests"},
		Value:   false,
		EnvVars: prefixEnvVars("LIST_TESTS"),
		Usage:   "List selected tests without running them",
	}
	NoExec = &cli.BoolFlag{
		Name:    "no_exec",
		Aliases: []string{"ezctest_no_exec"},
		Value:   false,
		EnvVars: prefixEnvVars("NO_EXEC"),
		Usage:   "Disable process isolation (run every test in this process)",
	}
	Exec = &cli.BoolFlag{
		Name:    "exec",
		Aliases: []string{"ezctest_exec"},
		Value:   false,
		EnvVars: prefixEnvVars("EXEC"),
		Usage:   "Force process isolation even for a single test or under a debugger",
	}
	Worker = &cli.IntFlag{
		Name:    "worker",
		Aliases: []string{"ezctest_worker"},
		Value:   -1,
		Hidden:  true,
		EnvVars: prefixEnvVars("WORKER"),
		Usage:   "Internal: run only the Nth selected test and exit",
	}
	Interactive = &cli.BoolFlag{
		Name:    "interactive",
		Aliases: []string{"i"},
		Value:   false,
		EnvVars: prefixEnvVars("INTERACTIVE"),
		Usage:   "Start an interactive prompt instead of running once",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVars("CONFIG"),
		Usage:   "Path to a YAML config file providing flag defaults",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "",
		EnvVars: prefixEnvVars("LOGDIR"),
		Usage:   "Directory for per-test log files (disabled when empty)",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Diagnostic log level: trace, debug, info, warn, error, crit",
	}
	MetricsEnabled = &cli.BoolFlag{
		Name:    "metrics.enabled",
		Value:   false,
		EnvVars: prefixEnvVars("METRICS_ENABLED"),
		Usage:   "Serve Prometheus metrics and a health probe during the run",
	}
	MetricsAddr = &cli.StringFlag{
		Name:    "metrics.addr",
		Value:   "0.0.0.0",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
		Usage:   "Metrics listening address",
	}
	MetricsPort = &cli.IntFlag{
		Name:    "metrics.port",
		Value:   7300,
		EnvVars: prefixEnvVars("METRICS_PORT"),
		Usage:   "Metrics listening port",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	Filter,
	Repeat,
	Shuffle,
	Color,
	ListTests,
	NoExec,
	Exec,
	Worker,
	Interactive,
	ConfigFile,
	LogDir,
	LogLevel,
	MetricsEnabled,
	MetricsAddr,
	MetricsPort,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
