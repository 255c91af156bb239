// Package browser opens generated documentation in the user's default
// browser and optionally copies its location to the clipboard.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/atotto/clipboard"

	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
	"git.home.luguber.info/inful/doxybuilder/internal/toolchain"
)

// Opener opens a local file in a viewer.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// SystemOpener opens files with the platform's default handler.
type SystemOpener struct {
	Runner toolchain.Runner
	// GOOS overrides runtime.GOOS; empty uses the host.
	GOOS string
}

// NewSystemOpener returns a SystemOpener backed by toolchain.ExecRunner.
func NewSystemOpener() *SystemOpener {
	return &SystemOpener{Runner: toolchain.ExecRunner{}}
}

// CommandFor returns the launcher invocation used on goos.
func CommandFor(goos, path string) toolchain.Command {
	switch goos {
	case "windows":
		return toolchain.Command{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler", path}}
	case "darwin":
		return toolchain.Command{Name: "open", Args: []string{path}}
	default:
		return toolchain.Command{Name: "xdg-open", Args: []string{path}}
	}
}

func (o *SystemOpener) Open(ctx context.Context, path string) error {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	cmd := CommandFor(goos, path)
	slog.Debug("Opening documentation", logfields.Path(path), logfields.Binary(cmd.Name))
	if _, err := o.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("open %s with %s: %w", path, cmd.Name, err)
	}
	return nil
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unsupported on %s", runtime.GOOS)
	}
	return clipboard.WriteAll(text)
}

// SystemClipboard is the host clipboard.
var SystemClipboard Clipboard = systemClipboard{}

// CopyPath copies path to cb, falling back to SystemClipboard when cb is nil.
func CopyPath(cb Clipboard, path string) error {
	if cb == nil {
		cb = SystemClipboard
	}
	if err := cb.WriteAll(path); err != nil {
		return fmt.Errorf("copy %s to clipboard: %w", path, err)
	}
	return nil
}
