// Package config loads the doxybuilder configuration file.
//
// The file is YAML by default; a ".toml" extension selects TOML. A missing
// file is not an error: every field has a default, and the command line can
// override the most common ones.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
)

// DefaultPath is the configuration file looked up when -c is not given.
const DefaultPath = "doxybuilder.yaml"

// Config represents the application configuration.
type Config struct {
	Project   ProjectConfig     `yaml:"project" toml:"project"`
	Template  TemplateConfig    `yaml:"template" toml:"template"`
	Output    OutputConfig      `yaml:"output" toml:"output"`
	Discovery DiscoveryConfig   `yaml:"discovery" toml:"discovery"`
	Doxygen   DoxygenConfig     `yaml:"doxygen" toml:"doxygen"`
	Graphviz  GraphvizConfig    `yaml:"graphviz" toml:"graphviz"`
	Settings  map[string]string `yaml:"settings,omitempty" toml:"settings,omitempty"`
	// OpenBrowser defaults to true.
	OpenBrowser *bool         `yaml:"open_browser,omitempty" toml:"open_browser,omitempty"`
	CopyPath    bool          `yaml:"copy_path,omitempty" toml:"copy_path,omitempty"`
	Metrics     MetricsConfig `yaml:"metrics" toml:"metrics"`
	History     HistoryConfig `yaml:"history" toml:"history"`
	Notify      NotifyConfig  `yaml:"notify" toml:"notify"`
	Watch       WatchConfig   `yaml:"watch" toml:"watch"`
}

// ProjectConfig identifies the documented project.
type ProjectConfig struct {
	Root string `yaml:"root" toml:"root"`
	// Name overrides CMake/README detection when set.
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`
	// Mainpage is a Markdown file, relative to Root, used as the landing page.
	Mainpage string `yaml:"mainpage,omitempty" toml:"mainpage,omitempty"`
}

// TemplateConfig locates the Doxyfile template.
type TemplateConfig struct {
	Path     string `yaml:"path" toml:"path"`
	Encoding string `yaml:"encoding,omitempty" toml:"encoding,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory" toml:"directory"`
}

// DiscoveryConfig controls which source files are documented.
type DiscoveryConfig struct {
	Inputs     []string `yaml:"inputs" toml:"inputs"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
	Exclude    []string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
}

// DoxygenConfig configures the doxygen executable.
type DoxygenConfig struct {
	Binary     string `yaml:"binary" toml:"binary"`
	MinVersion string `yaml:"min_version,omitempty" toml:"min_version,omitempty"`
}

// GraphvizConfig configures the dot executable.
type GraphvizConfig struct {
	Binary string `yaml:"binary" toml:"binary"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" toml:"textfile,omitempty"`
}

// HistoryConfig enables the SQLite run history.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty" toml:"path,omitempty"`
}

// NotifyConfig enables NATS build notifications.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty" toml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty" toml:"subject,omitempty"`
}

// WatchConfig tunes watch mode. Durations use time.ParseDuration syntax.
type WatchConfig struct {
	Debounce string `yaml:"debounce" toml:"debounce"`
	// Interval schedules periodic rebuilds; empty disables them.
	Interval string `yaml:"interval,omitempty" toml:"interval,omitempty"`
}

// Load reads configPath, applies defaults and environment overrides and
// validates the result. A missing file yields the default configuration.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case err == nil:
		if err := decode(configPath, []byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").
				WithContext("path", configPath).
				Fatal().
				Build()
		}
		anchorPaths(cfg, filepath.Dir(configPath))
		slog.Debug("Loaded configuration", logfields.Path(configPath))
	case os.IsNotExist(err):
		slog.Debug("No configuration file, using defaults", logfields.Path(configPath))
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// anchorPaths resolves relative paths read from a configuration file against
// the directory holding it. Environment and flag overrides stay relative to
// the working directory.
func anchorPaths(cfg *Config, dir string) {
	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}
	for _, p := range []*string{&cfg.Project.Root, &cfg.History.Path, &cfg.Metrics.Textfile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decode(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func encode(path string, cfg *Config) ([]byte, error) {
	if isTOML(path) {
		return toml.Marshal(cfg)
	}
	return yaml.Marshal(cfg)
}

// ShouldOpenBrowser reports whether the generated index is opened after a build.
func (c *Config) ShouldOpenBrowser() bool {
	return c.OpenBrowser == nil || *c.OpenBrowser
}

// SetOpenBrowser overrides the open_browser setting.
func (c *Config) SetOpenBrowser(v bool) {
	c.OpenBrowser = &v
}

// RootDir returns the absolute project root.
func (c *Config) RootDir() (string, error) {
	return filepath.Abs(c.Project.Root)
}

// TemplatePath returns the template path resolved against the project root.
func (c *Config) TemplatePath(root string) string {
	return resolve(root, c.Template.Path)
}

// OutputDir returns the output directory resolved against the project root.
func (c *Config) OutputDir(root string) string {
	return resolve(root, c.Output.Directory)
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// DebounceDuration returns the parsed watch debounce.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// IntervalDuration returns the parsed rebuild interval, zero when disabled.
func (c *Config) IntervalDuration() time.Duration {
	if c.Watch.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil {
		return 0
	}
	return d
}
