package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doxybuilder/cmd/doxybuilder/commands"
	derrors "git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := commands.NewGlobal()
	parser := kong.Parse(cli,
		kong.Name("doxybuilder"),
		kong.Description("Generate Doxygen documentation from a Doxyfile template."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := parser.Run(global, cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}
