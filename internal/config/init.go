package config

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/doxybuilder/internal/doxyfile"
	"git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
)

// Init writes an example configuration file and, when missing, the starter
// Doxyfile template it refers to. Existing files are only replaced when
// force is set. It returns the paths written.
func Init(configPath string, force bool) ([]string, error) {
	if _, err := os.Stat(configPath); err == nil && !force {
		return nil, errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Project.Name = "My Project"
	example.Settings = map[string]string{"WARN_IF_UNDOCUMENTED": "NO"}
	example.History.Path = ".doxybuilder/history.db"

	data, err := encode(configPath, example)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to marshal example configuration").Build()
	}
	if err := writeFile(configPath, data); err != nil {
		return nil, err
	}
	written := []string{configPath}

	root := filepath.Dir(configPath)
	tmpl := example.TemplatePath(root)
	if _, err := os.Stat(tmpl); err == nil && !force {
		return written, nil
	}
	if err := writeFile(tmpl, doxyfile.DefaultTemplate()); err != nil {
		return written, err
	}
	return append(written, tmpl), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	// #nosec G306 -- configuration files are meant to be readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").
			WithContext("path", path).
			Build()
	}
	return nil
}
