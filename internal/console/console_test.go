package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrinter_PlainOutputForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Success("Documentation generated in %s", "/docs/html")
	p.Note("could not open browser")
	p.Error("doxygen failed")
	p.Detail("exit status %d", 1)
	p.Heading("History")

	require.Equal(t, strings.Join([]string{
		"✓ Documentation generated in /docs/html",
		"note: could not open browser",
		"✗ doxygen failed",
		"  exit status 1",
		"History",
		"",
	}, "\n"), buf.String())
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	require.NoError(t, p.Table([]string{"ID", "OUTCOME"}, [][]string{{"a1", "success"}, {"b22", "failed"}}))
	require.Equal(t, "ID   OUTCOME\na1   success\nb22  failed\n", buf.String())
}
