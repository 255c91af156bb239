package config

import (
	"time"

	"git.home.luguber.info/inful/doxybuilder/internal/discovery"
	"git.home.luguber.info/inful/doxybuilder/internal/toolchain"
)

// Default locations relative to the project root.
const (
	DefaultTemplatePath  = "docs/Doxyfile.in"
	DefaultOutputDir     = "docs/doxygen_output"
	DefaultGraphvizBin   = "dot"
	DefaultNotifySubject = "doxybuilder.builds"
	DefaultDebounce      = 300 * time.Millisecond
)

func applyDefaults(cfg *Config) {
	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}
	if cfg.Template.Path == "" {
		cfg.Template.Path = DefaultTemplatePath
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if len(cfg.Discovery.Inputs) == 0 {
		cfg.Discovery.Inputs = append([]string(nil), discovery.DefaultInputs...)
	}
	if len(cfg.Discovery.Extensions) == 0 {
		cfg.Discovery.Extensions = append([]string(nil), discovery.DefaultExtensions...)
	}
	if cfg.Doxygen.Binary == "" {
		cfg.Doxygen.Binary = toolchain.DefaultDoxygenBinary()
	}
	if cfg.Graphviz.Binary == "" {
		cfg.Graphviz.Binary = DefaultGraphvizBin
	}
	if cfg.OpenBrowser == nil {
		cfg.SetOpenBrowser(true)
	}
	if cfg.Notify.NATSURL != "" && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce.String()
	}
}

// DiscoveryOptions converts the discovery section for the discovery package.
func (c *Config) DiscoveryOptions() discovery.Options {
	return discovery.Options{
		Inputs:     c.Discovery.Inputs,
		Extensions: c.Discovery.Extensions,
		Exclude:    c.Discovery.Exclude,
	}
}
