package commands

import (
	"git.home.luguber.info/inful/doxybuilder/internal/build"
	"git.home.luguber.info/inful/doxybuilder/internal/config"
	"git.home.luguber.info/inful/doxybuilder/internal/console"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	BuildFlags `embed:""`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	g.Apply(cfg)

	builder, cleanup, err := newBuilder(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	report, err := builder.Run(ctx, g.RunOptions())
	printReport(global.printer(), report)
	return err
}

// printReport summarizes a finished build for the user.
func printReport(p *console.Printer, report *build.Report) {
	if report == nil {
		return
	}
	for _, key := range report.Unmatched {
		p.Note("setting %s has no line in the template and was not applied", key)
	}

	switch report.Status {
	case build.StatusSkipped:
		p.Success("Documentation is up to date (run without --skip-unchanged to regenerate)")
	case build.StatusSuccess:
		p.Success("Documentation generated for %s (%d source files)", report.Project, len(report.Sources))
	default:
		return
	}
	p.Detail("%s", report.IndexPath)

	if !report.HaveDot {
		p.Note("Install Graphviz (dot) for class diagrams generation")
	}

	if report.BrowserErr != nil {
		p.Note("Could not open browser; open %s manually", report.IndexPath)
	}
}
