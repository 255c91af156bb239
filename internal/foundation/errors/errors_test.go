package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "doxybuilder.yaml").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		require.Equal(t, "doxybuilder.yaml", file)
	})

	t.Run("Wrapping keeps the cause reachable", func(t *testing.T) {
		cause := stderrors.New("exit status 3")
		err := WrapError(cause, CategoryGeneration, "doxygen failed").Build()

		require.ErrorIs(t, err, cause)
		require.Equal(t, "[generation] doxygen failed: exit status 3", err.Error())
	})

	t.Run("Detection through fmt wrapping", func(t *testing.T) {
		inner := DiscoveryError("no source files found").Build()
		wrapped := fmt.Errorf("run: %w", inner)

		require.True(t, HasCategory(wrapped, CategoryDiscovery))
		require.Equal(t, CategoryDiscovery, GetCategory(wrapped))
		require.Equal(t, SeverityFatal, GetSeverity(wrapped))
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		err := stderrors.New("plain")
		require.Equal(t, CategoryInternal, GetCategory(err))
		require.Equal(t, SeverityError, GetSeverity(err))
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := ToolchainError("doxygen not found").Build()
		derived := base.WithContext("binary", "doxygen")

		_, ok := base.Context().Get("binary")
		require.False(t, ok)
		v, ok := derived.Context().GetString("binary")
		require.True(t, ok)
		require.Equal(t, "doxygen", v)
		require.ErrorIs(t, derived, base)
	})
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"missing input", DiscoveryError("no source files").Build(), 1},
		{"tool unavailable", ToolchainError("doxygen missing").Build(), 1},
		{"generation failure", GenerationError("doxygen failed").Build(), 1},
		{"verification failure", VerificationError("index.html missing").Build(), 1},
		{"browser failure is not fatal", BrowserError("xdg-open failed").Build(), 0},
		{"config error", ConfigError("bad yaml").Build(), 2},
		{"validation error", ValidationError("empty key").Build(), 2},
		{"filesystem error", FileSystemError("write failed").Build(), 1},
		{"unclassified error", stderrors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := stderrors.New("exit status 1")
	err := WrapError(cause, CategoryGeneration, "doxygen failed").Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	require.Equal(t, "Error: doxygen failed (use -v for details)", quiet.FormatError(err))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	require.Contains(t, verbose.FormatError(err), "exit status 1")

	require.Equal(t, "Error: [discovery] nothing", quiet.FormatError(DiscoveryError("nothing").Build()))
	require.Equal(t, "Error: boom", quiet.FormatError(stderrors.New("boom")))
	require.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(VerificationError("index.html missing").WithContext("path", "/tmp/x").Build())

	require.Equal(t, 1, code)
	require.Contains(t, out.String(), "index.html missing")
	require.Contains(t, logs.String(), "category=verification")
	require.Contains(t, logs.String(), "path=/tmp/x")
}
