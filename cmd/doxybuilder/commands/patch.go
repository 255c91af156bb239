package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/doxybuilder/internal/build"
	"git.home.luguber.info/inful/doxybuilder/internal/doxyfile"
	derrors "git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
)

// PatchCmd implements the 'patch' command: the template patcher on its own.
type PatchCmd struct {
	Template string   `name:"template" short:"t" required:"" help:"Doxyfile template to patch"`
	Set      []string `name:"set" short:"s" help:"KEY=VALUE setting (repeatable)"`
	Out      string   `name:"out" help:"Write the result here instead of stdout"`
	Encoding string   `name:"encoding" help:"Template encoding (IANA name, default UTF-8)"`
}

func (p *PatchCmd) Run(global *Global, _ *CLI) error {
	settings, err := ParseSettings(p.Set)
	if err != nil {
		return err
	}

	lines, err := doxyfile.ReadTemplate(p.Template, p.Encoding)
	if err != nil {
		return build.TemplateError(err, p.Template, p.Encoding)
	}

	patched := doxyfile.Patch(lines, settings)
	printer := global.printer()
	for _, key := range doxyfile.Unmatched(lines, settings) {
		printer.Note("setting %s has no line in the template and was not applied", key)
	}

	if p.Out == "" {
		_, err := fmt.Fprint(global.Stdout, doxyfile.Render(patched))
		return err
	}
	if err := doxyfile.WriteConfig(p.Out, patched); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write patched file").
			WithContext("out", p.Out).
			Build()
	}
	printer.Success("Wrote %s", p.Out)
	return nil
}

// ParseSettings turns KEY=VALUE pairs into Settings. Later pairs win.
func ParseSettings(pairs []string) (doxyfile.Settings, error) {
	settings := make(doxyfile.Settings, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, derrors.ValidationError(fmt.Sprintf("invalid setting %q, expected KEY=VALUE", pair)).Build()
		}
		settings[key] = strings.TrimSpace(value)
	}
	if err := settings.Validate(); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "invalid setting").Build()
	}
	return settings, nil
}
