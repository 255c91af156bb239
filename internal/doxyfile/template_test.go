package doxyfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTemplate_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "Doxyfile.in")
	content := "# comment\nPROJECT_NAME = x\n\nINPUT =\n"
	require.NoError(t, os.WriteFile(in, []byte(content), 0o644))

	lines, err := ReadTemplate(in, "")
	require.NoError(t, err)
	require.Equal(t, []string{"# comment", "PROJECT_NAME = x", "", "INPUT =", ""}, lines)

	out := filepath.Join(dir, "Doxyfile")
	require.NoError(t, WriteConfig(out, lines))
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, content, string(written))
}

func TestReadTemplate_Missing(t *testing.T) {
	_, err := ReadTemplate(filepath.Join(t.TempDir(), "nope"), "")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeTemplate_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("PROJECT_NAME = x")...)
	lines, err := DecodeTemplate(bytes.NewReader(data), "")
	require.NoError(t, err)
	require.Equal(t, []string{"PROJECT_NAME = x"}, lines)

	key, ok := ParseLine(lines[0])
	require.True(t, ok)
	require.Equal(t, "PROJECT_NAME", key)
}

func TestDecodeTemplate_LegacyEncoding(t *testing.T) {
	data := []byte("PROJECT_BRIEF = Caf\xe9")
	lines, err := DecodeTemplate(bytes.NewReader(data), "windows-1252")
	require.NoError(t, err)
	require.Equal(t, []string{"PROJECT_BRIEF = Café"}, lines)
}

func TestDecodeTemplate_UnknownEncoding(t *testing.T) {
	_, err := DecodeTemplate(bytes.NewReader(nil), "no-such-charset")
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestDefaultTemplateIsCopy(t *testing.T) {
	a := DefaultTemplate()
	a[0] = 'X'
	require.NotEqual(t, a[0], DefaultTemplate()[0])
}
