package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxybuilder/internal/toolchain"
)

func TestCommandFor(t *testing.T) {
	tests := []struct {
		goos string
		want toolchain.Command
	}{
		{"windows", toolchain.Command{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler", "/d/index.html"}}},
		{"darwin", toolchain.Command{Name: "open", Args: []string{"/d/index.html"}}},
		{"linux", toolchain.Command{Name: "xdg-open", Args: []string{"/d/index.html"}}},
		{"freebsd", toolchain.Command{Name: "xdg-open", Args: []string{"/d/index.html"}}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			require.Equal(t, tt.want, CommandFor(tt.goos, "/d/index.html"))
		})
	}
}

func TestSystemOpener(t *testing.T) {
	runner := toolchain.NewFakeRunner().Respond("xdg-open", "", nil)
	o := &SystemOpener{Runner: runner, GOOS: "linux"}

	require.NoError(t, o.Open(context.Background(), "/d/index.html"))
	require.Len(t, runner.CallsTo("xdg-open"), 1)

	failing := &SystemOpener{Runner: toolchain.NewFakeRunner(), GOOS: "linux"}
	err := failing.Open(context.Background(), "/d/index.html")
	require.ErrorIs(t, err, toolchain.ErrBinaryNotFound)
	require.Contains(t, err.Error(), "xdg-open")
}

type memClipboard struct {
	text string
	err  error
}

func (m *memClipboard) WriteAll(text string) error {
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func TestCopyPath(t *testing.T) {
	cb := &memClipboard{}
	require.NoError(t, CopyPath(cb, "/d/index.html"))
	require.Equal(t, "/d/index.html", cb.text)

	err := CopyPath(&memClipboard{err: errors.New("no display")}, "/d/index.html")
	require.ErrorContains(t, err, "no display")
}
