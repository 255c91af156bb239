package commands

import (
	"git.home.luguber.info/inful/doxybuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration and template"`
}

func (i *InitCmd) Run(global *Global, root *CLI) error {
	written, err := config.Init(root.Config, i.Force)
	if err != nil {
		return err
	}
	p := global.printer()
	for _, path := range written {
		p.Success("Wrote %s", path)
	}
	return nil
}
