package commands

import (
	"git.home.luguber.info/inful/doxybuilder/internal/build"
	"git.home.luguber.info/inful/doxybuilder/internal/config"
	"git.home.luguber.info/inful/doxybuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildFlags `embed:""`
	Interval   string `name:"interval" help:"Also rebuild on this interval (e.g. 10m)"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	w.Apply(cfg)
	if w.Interval != "" {
		cfg.Watch.Interval = w.Interval
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	builder, cleanup, err := newBuilder(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	p := global.printer()
	watcher := watch.New(cfg, builder,
		watch.WithRunOptions(w.RunOptions()),
		watch.WithReportFunc(func(report *build.Report, err error) {
			if err != nil {
				if ctx.Err() == nil {
					p.Error("Build failed: %v", err)
				}
				return
			}
			printReport(p, report)
		}))
	return watcher.Run(ctx)
}
