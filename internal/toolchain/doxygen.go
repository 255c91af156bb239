package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"

	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
)

// DefaultDoxygenBinary returns the doxygen executable name for the host OS.
func DefaultDoxygenBinary() string {
	if runtime.GOOS == "windows" {
		return "doxygen.exe"
	}
	return "doxygen"
}

// Doxygen drives the doxygen executable.
type Doxygen struct {
	Binary string
	// MinVersion, when set, is the lowest acceptable version (e.g. "1.9").
	MinVersion string
	Runner     Runner
}

// NewDoxygen returns a Doxygen using ExecRunner and the host default binary
// when bin is empty.
func NewDoxygen(bin, minVersion string) *Doxygen {
	if bin == "" {
		bin = DefaultDoxygenBinary()
	}
	return &Doxygen{Binary: bin, MinVersion: minVersion, Runner: ExecRunner{}}
}

// Probe runs `doxygen --version` and returns the reported version.
func (d *Doxygen) Probe(ctx context.Context) (string, error) {
	res, err := d.Runner.Run(ctx, Command{Name: d.Binary, Args: []string{"--version"}})
	if err != nil {
		return "", fmt.Errorf("%w: %s --version: %w", ErrDoxygenUnavailable, d.Binary, err)
	}

	raw := strings.TrimSpace(res.Stdout)
	version := ParseVersion(raw)
	if version == "" {
		version = raw
	}
	if d.MinVersion == "" {
		return version, nil
	}

	have, want := canonical(version), canonical(d.MinVersion)
	if !semver.IsValid(have) || !semver.IsValid(want) {
		slog.Warn("Cannot compare doxygen versions; skipping minimum check",
			logfields.Version(version), slog.String("min_version", d.MinVersion))
		return version, nil
	}
	if semver.Compare(have, want) < 0 {
		return version, fmt.Errorf("%w: have %s, need %s", ErrDoxygenTooOld, version, d.MinVersion)
	}
	return version, nil
}

// Generate runs doxygen on doxyfile with workDir as working directory.
func (d *Doxygen) Generate(ctx context.Context, doxyfile, workDir string) error {
	res, err := d.Runner.Run(ctx, Command{Name: d.Binary, Args: []string{doxyfile}, Dir: workDir})

	if res.Stdout != "" {
		slog.Debug("doxygen stdout", slog.String("output", res.Stdout))
	}
	if res.Stderr != "" {
		slog.Warn("doxygen stderr", slog.String("error_output", res.Stderr))
	}

	if err != nil {
		if out := strings.TrimSpace(res.Output()); out != "" {
			return fmt.Errorf("%w: %w: %s", ErrGenerationFailed, err, out)
		}
		return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return nil
}

var versionRe = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts the first dotted version number from tool output,
// e.g. "1.9.8 (c2d3a6ad...)" yields "1.9.8". Empty when none is found.
func ParseVersion(output string) string {
	if m := versionRe.FindStringSubmatch(output); m != nil {
		return m[1]
	}
	return ""
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// GraphvizAvailable reports whether `dot -V` runs successfully.
func GraphvizAvailable(ctx context.Context, runner Runner, bin string) bool {
	if bin == "" {
		bin = "dot"
	}
	_, err := runner.Run(ctx, Command{Name: bin, Args: []string{"-V"}})
	if err != nil {
		slog.Debug("Graphviz not available", logfields.Binary(bin), logfields.Error(err))
		return false
	}
	return true
}
