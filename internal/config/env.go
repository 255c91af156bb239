package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
)

// Environment variables that override the configuration file.
const (
	EnvRoot          = "DOXYBUILDER_ROOT"
	EnvOutput        = "DOXYBUILDER_OUTPUT"
	EnvDoxygenBinary = "DOXYBUILDER_DOXYGEN"
	EnvLogLevel      = "DOXYBUILDER_LOG_LEVEL"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env and .env.local from the working directory.
// Variables already present in the process environment are kept.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", logfields.File(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.File(name))
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvRoot); v != "" {
		cfg.Project.Root = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output.Directory = v
	}
	if v := os.Getenv(EnvDoxygenBinary); v != "" {
		cfg.Doxygen.Binary = v
	}
}
