package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doxybuilder/internal/build"
	"git.home.luguber.info/inful/doxybuilder/internal/config"
	"git.home.luguber.info/inful/doxybuilder/internal/console"
	derrors "git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuilder/internal/history"
	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
	"git.home.luguber.info/inful/doxybuilder/internal/metrics"
	"git.home.luguber.info/inful/doxybuilder/internal/notify"
)

// Global carries the process streams shared by all subcommands.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal returns a Global bound to the process streams.
func NewGlobal() *Global {
	return &Global{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (g *Global) printer() *console.Printer { return console.New(g.Stderr) }

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (.yaml or .toml)" default:"doxybuilder.yaml" env:"DOXYBUILDER_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate the Doxygen documentation (default)"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate the documentation whenever sources change"`
	Patch    PatchCmd    `cmd:"" help:"Patch a Doxyfile template with KEY=VALUE settings"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration and Doxyfile template"`
	History  HistoryCmd  `cmd:"" help:"List recorded builds"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.ParseLogLevel(os.Getenv(config.EnvLogLevel))
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// BuildFlags are the per-run overrides shared by generate and watch.
type BuildFlags struct {
	Root          string `name:"root" help:"Project root directory"`
	Template      string `name:"template" short:"t" help:"Doxyfile template path"`
	Output        string `name:"output" short:"o" help:"Output directory"`
	Name          string `name:"name" help:"Project name (skips CMake/README detection)"`
	NoOpen        bool   `name:"no-open" help:"Do not open the documentation in a browser"`
	SkipUnchanged bool   `name:"skip-unchanged" help:"Skip generation when sources, settings and Doxygen are unchanged since the last build"`
	CopyPath      bool   `name:"copy-path" help:"Copy the index.html path to the clipboard"`
	MetricsFile   string `name:"metrics-file" help:"Write Prometheus metrics to this textfile"`
}

// Apply overlays the flags that were set onto cfg.
func (f *BuildFlags) Apply(cfg *config.Config) {
	if f.Root != "" {
		cfg.Project.Root = f.Root
	}
	if f.Template != "" {
		cfg.Template.Path = f.Template
	}
	if f.Output != "" {
		cfg.Output.Directory = f.Output
	}
	if f.Name != "" {
		cfg.Project.Name = f.Name
	}
	if f.NoOpen {
		cfg.SetOpenBrowser(false)
	}
	if f.CopyPath {
		cfg.CopyPath = true
	}
	if f.MetricsFile != "" {
		cfg.Metrics.Textfile = f.MetricsFile
	}
}

// RunOptions returns the build options selected by the flags.
func (f *BuildFlags) RunOptions() build.RunOptions {
	return build.RunOptions{SkipUnchanged: f.SkipUnchanged}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newBuilder wires the optional history, metrics and notification backends
// selected by cfg. The returned cleanup releases them.
func newBuilder(cfg *config.Config, extra ...build.Option) (*build.Builder, func(), error) {
	var opts []build.Option
	var closers []func()

	if cfg.History.Path != "" {
		store, err := openHistory(cfg)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, build.WithHistory(store))
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close history store", logfields.Error(err))
			}
		})
	}

	if cfg.Metrics.Textfile != "" {
		opts = append(opts, build.WithRecorder(metrics.NewPrometheusRecorder(nil)))
	}

	if cfg.Notify.NATSURL != "" {
		n, err := notify.NewNATSNotifier(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			// Builds still run without notifications.
			slog.Warn("Build notifications disabled", logfields.Error(err))
		} else {
			opts = append(opts, build.WithNotifier(n))
			closers = append(closers, n.Close)
		}
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return build.New(cfg, append(opts, extra...)...), cleanup, nil
}

func openHistory(cfg *config.Config) (*history.SQLiteStore, error) {
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryHistory, "failed to open build history").
			WithContext("path", cfg.History.Path).
			Build()
	}
	return store, nil
}
