package doxyfile

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for template encodings not in the IANA index.
var ErrUnknownEncoding = errors.New("unknown template encoding")

//go:embed assets/Doxyfile.in
var defaultTemplate []byte

// DefaultTemplate returns the starter template written by `doxybuilder init`.
func DefaultTemplate() []byte {
	out := make([]byte, len(defaultTemplate))
	copy(out, defaultTemplate)
	return out
}

// ReadTemplate reads a template file and splits it into lines.
// encodingName is an IANA charset name; empty means UTF-8. A leading
// byte-order mark is honored and removed.
func ReadTemplate(path, encodingName string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return DecodeTemplate(f, encodingName)
}

// DecodeTemplate is ReadTemplate for an already opened reader.
func DecodeTemplate(r io.Reader, encodingName string) ([]string, error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return SplitLines(string(data)), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownEncoding, name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w %q: not supported", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// SplitLines splits text on '\n' only. A trailing newline produces a final
// empty line so that Render(SplitLines(t)) == t.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Render joins lines back into file content.
func Render(lines []string) string {
	return strings.Join(lines, "\n")
}

// WriteConfig writes the patched lines to path.
func WriteConfig(path string, lines []string) error {
	// #nosec G306 -- the Doxyfile is not secret and is read by an external tool
	return os.WriteFile(path, []byte(Render(lines)), 0o644)
}
