package ezctest

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/stefwlc/ezctest/flags"
)

// ColorMode controls ANSI color in test output.
type ColorMode string

const (
	ColorAuto ColorMode = "auto" // color when stdout is a terminal
	ColorYes  ColorMode = "yes"
	ColorNo   ColorMode = "no"
)

// IsolationMode controls whether tests run in child processes.
type IsolationMode string

const (
	IsolationAuto IsolationMode = "auto" // on for multi-test runs, off under a debugger
	IsolationOn   IsolationMode = "on"
	IsolationOff  IsolationMode = "off"
)

// MetricsConfig holds the metrics server settings.
type MetricsConfig struct {
	Enabled bool
	Addr    string
	Port    int
}

// Config holds the runner configuration for a single invocation
type Config struct {
	Filter      string        // test selection pattern, empty selects everything
	Repeat      int           // number of iterations over the selected tests, always >= 1
	Shuffle     bool          // randomize run order before the first iteration
	ShuffleSeed int64         // seed for shuffling, 0 derives one from the clock
	Color       ColorMode     // requested color mode
	UseColor    bool          // resolved color decision for Stdout
	ListOnly    bool          // print the selected tests and exit
	Isolation   IsolationMode // process isolation policy
	WorkerIndex int           // index of the single test to run in worker mode, -1 otherwise
	Interactive bool          // start the interactive prompt instead of a single run
	LogDir      string        // directory for per-test log files, empty disables the file sink
	LogLevel    string        // diagnostic log level
	Metrics     MetricsConfig
	Stdout      io.Writer
	Log         log.Logger
}

// fileConfig mirrors the optional YAML defaults file. File values fill in
// knobs the command line left at their defaults; explicit flags always win.
type fileConfig struct {
	Filter      string `yaml:"filter"`
	Repeat      int    `yaml:"repeat"`
	Shuffle     bool   `yaml:"shuffle"`
	ShuffleSeed int64  `yaml:"shuffle_seed"`
	Color       string `yaml:"color"`
	Isolation   string `yaml:"isolation"`
	ListTests   bool   `yaml:"list_tests"`
	LogDir      string `yaml:"logdir"`
	LogLevel    string `yaml:"log_level"`
	Metrics     struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
		Port    int    `yaml:"port"`
	} `yaml:"metrics"`
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, errors.Wrap(err, "missing required flags")
	}

	cfg := &Config{
		Filter:      ctx.String(flags.Filter.Name),
		Repeat:      ctx.Int(flags.Repeat.Name),
		Shuffle:     ctx.Bool(flags.Shuffle.Name),
		Color:       ColorMode(ctx.String(flags.Color.Name)),
		ListOnly:    ctx.Bool(flags.ListTests.Name),
		WorkerIndex: ctx.Int(flags.Worker.Name),
		Interactive: ctx.Bool(flags.Interactive.Name),
		LogDir:      ctx.String(flags.LogDir.Name),
		LogLevel:    ctx.String(flags.LogLevel.Name),
		Metrics: MetricsConfig{
			Enabled: ctx.Bool(flags.MetricsEnabled.Name),
			Addr:    ctx.String(flags.MetricsAddr.Name),
			Port:    ctx.Int(flags.MetricsPort.Name),
		},
		Stdout: os.Stdout,
		Log:    logger,
	}

	forceExec := ctx.Bool(flags.Exec.Name)
	noExec := ctx.Bool(flags.NoExec.Name)
	if forceExec && noExec {
		return nil, errors.New("--exec and --no_exec are mutually exclusive")
	}
	switch {
	case forceExec:
		cfg.Isolation = IsolationOn
	case noExec:
		cfg.Isolation = IsolationOff
	default:
		cfg.Isolation = IsolationAuto
	}

	if file := ctx.String(flags.ConfigFile.Name); file != "" {
		if err := cfg.applyFile(ctx, file); err != nil {
			return nil, err
		}
	}

	if cfg.Repeat < 1 {
		cfg.Repeat = 1
	}
	switch cfg.Color {
	case ColorAuto, ColorYes, ColorNo:
	default:
		return nil, errors.Errorf("invalid color mode %q, expected auto, yes or no", cfg.Color)
	}
	switch cfg.Isolation {
	case IsolationAuto, IsolationOn, IsolationOff:
	default:
		return nil, errors.Errorf("invalid isolation mode %q, expected auto, on or off", cfg.Isolation)
	}

	cfg.UseColor = resolveColor(cfg.Color, cfg.Stdout)
	return cfg, nil
}

// applyFile overlays values from a YAML defaults file onto cfg. A file value
// is used only when the corresponding flag was not set on the command line
// (or via environment), so explicit flags keep precedence.
func (c *Config) applyFile(ctx *cli.Context, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}
	fc := &fileConfig{}
	if err := yaml.Unmarshal(contents, fc); err != nil {
		return errors.Wrapf(err, "parsing config file %s", path)
	}

	if !ctx.IsSet(flags.Filter.Name) && fc.Filter != "" {
		c.Filter = fc.Filter
	}
	if !ctx.IsSet(flags.Repeat.Name) && fc.Repeat != 0 {
		c.Repeat = fc.Repeat
	}
	if !ctx.IsSet(flags.Shuffle.Name) && fc.Shuffle {
		c.Shuffle = true
	}
	if fc.ShuffleSeed != 0 {
		c.ShuffleSeed = fc.ShuffleSeed
	}
	if !ctx.IsSet(flags.Color.Name) && fc.Color != "" {
		c.Color = ColorMode(fc.Color)
	}
	if !ctx.IsSet(flags.Exec.Name) && !ctx.IsSet(flags.NoExec.Name) && fc.Isolation != "" {
		c.Isolation = IsolationMode(fc.Isolation)
	}
	if !ctx.IsSet(flags.ListTests.Name) && fc.ListTests {
		c.ListOnly = true
	}
	if !ctx.IsSet(flags.LogDir.Name) && fc.LogDir != "" {
		c.LogDir = fc.LogDir
	}
	if !ctx.IsSet(flags.LogLevel.Name) && fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if !ctx.IsSet(flags.MetricsEnabled.Name) && fc.Metrics.Enabled {
		c.Metrics.Enabled = true
	}
	if !ctx.IsSet(flags.MetricsAddr.Name) && fc.Metrics.Addr != "" {
		c.Metrics.Addr = fc.Metrics.Addr
	}
	if !ctx.IsSet(flags.MetricsPort.Name) && fc.Metrics.Port != 0 {
		c.Metrics.Port = fc.Metrics.Port
	}
	return nil
}

// resolveColor turns the requested mode into a concrete decision for w.
// Auto mode enables color only when w is a terminal, matching isatty.
func resolveColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorYes:
		return true
	case ColorNo:
		return false
	}
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
