package commands

import (
	"context"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/doxybuilder/internal/config"
	"git.home.luguber.info/inful/doxybuilder/internal/console"
	derrors "git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuilder/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `name:"limit" short:"n" help:"Number of builds to show (0 for all)" default:"10"`
}

func (h *HistoryCmd) Run(global *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return derrors.ConfigError("build history is disabled; set history.path in the configuration").Build()
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(context.Background(), h.Limit)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryHistory, "failed to list build history").Build()
	}
	return printHistory(console.New(global.Stdout), runs)
}

func printHistory(p *console.Printer, runs []history.Run) error {
	if len(runs) == 0 {
		p.Note("no builds recorded yet")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			r.Outcome,
			r.Project,
			r.Version,
			strconv.Itoa(r.Sources),
			r.Duration.Round(time.Millisecond).String(),
			strings.Join(r.Unmatched, ","),
		})
	}
	return p.Table([]string{"STARTED", "OUTCOME", "PROJECT", "VERSION", "SOURCES", "DURATION", "UNMATCHED"}, rows)
}
