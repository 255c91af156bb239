package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
)

// FingerprintFile is written into the output directory after a successful build.
const FingerprintFile = ".doxybuilder-fingerprint"

// Fingerprint hashes the patched configuration, the Doxygen version and the
// path and content of every source file.
func Fingerprint(doxyfile, doxygenVersion string, sources []string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "doxygen: %s\n", doxygenVersion)
	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", src, err)
		}
		fmt.Fprintf(&b, "%s: %s\n", src, mdfp.CalculateFingerprintFromParts(src, string(data)))
	}
	return mdfp.CalculateFingerprintFromParts(b.String(), doxyfile), nil
}

func readFingerprint(outputDir string) string {
	data, err := os.ReadFile(filepath.Join(outputDir, FingerprintFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func writeFingerprint(outputDir, fp string) error {
	// #nosec G306 -- not sensitive
	return os.WriteFile(filepath.Join(outputDir, FingerprintFile), []byte(fp+"\n"), 0o644)
}
