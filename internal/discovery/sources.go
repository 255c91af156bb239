// Package discovery finds the source files handed to Doxygen as INPUT.
package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/doxybuilder/internal/logfields"
)

// DefaultInputs are the directory patterns searched below the project root.
var DefaultInputs = []string{"include", "src", "lib/*/include", "lib/*/src"}

// DefaultExtensions are the file name patterns collected from input directories.
var DefaultExtensions = []string{"*.h", "*.hpp", "*.c", "*.cpp", "*.cc", "*.cxx", "*.py", "*.java"}

// Options controls which files Discover returns.
type Options struct {
	// Inputs are directory globs relative to the root. Empty means DefaultInputs.
	Inputs []string
	// Extensions are base-name globs. Empty means DefaultExtensions.
	Extensions []string
	// Exclude are globs matched against the slash-separated path relative to
	// the root and against the base name.
	Exclude []string
}

func (o Options) inputs() []string {
	if len(o.Inputs) == 0 {
		return DefaultInputs
	}
	return o.Inputs
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

// InputDirs expands the input globs and returns the existing directories, sorted.
func InputDirs(root string, opts Options) ([]string, error) {
	seen := map[string]struct{}{}
	var dirs []string
	for _, pattern := range opts.inputs() {
		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("input pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			st, err := os.Stat(m)
			if err != nil || !st.IsDir() {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			dirs = append(dirs, m)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ParentDirs returns the existing directories in which a new input directory
// can appear: root itself and every directory matching a leading part of an
// input pattern, sorted. For "lib/*/include" that is root, root/lib and each
// root/lib/<name>.
func ParentDirs(root string, opts Options) ([]string, error) {
	seen := map[string]struct{}{}
	var dirs []string
	add := func(dir string) {
		if _, dup := seen[dir]; dup {
			return
		}
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			return
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	add(root)
	for _, pattern := range opts.inputs() {
		segs := strings.Split(path.Clean(filepath.ToSlash(pattern)), "/")
		for i := 1; i < len(segs); i++ {
			prefix := filepath.Join(root, filepath.FromSlash(path.Join(segs[:i]...)))
			matches, err := filepath.Glob(prefix)
			if err != nil {
				return nil, fmt.Errorf("input pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Discover walks every input directory below root and returns the absolute,
// sorted, de-duplicated paths of files matching the extension patterns.
// Input directories that do not exist are skipped.
func Discover(root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	dirs, err := InputDirs(absRoot, opts)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var files []string
	for _, dir := range dirs {
		walkErr := filepath.WalkDir(dir, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				slog.Warn("Skipping unreadable path", logfields.Path(file), logfields.Error(err))
				return nil
			}
			if d.IsDir() || !matchAny(opts.extensions(), d.Name()) {
				return nil
			}
			if excluded(absRoot, file, opts.Exclude) {
				return nil
			}
			if _, dup := seen[file]; dup {
				return nil
			}
			seen[file] = struct{}{}
			files = append(files, file)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, walkErr)
		}
	}

	sort.Strings(files)
	slog.Debug("Source discovery finished", logfields.Count(len(files)), slog.Int("directories", len(dirs)))
	return files, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func excluded(root, file string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
		if ok, _ := path.Match(p, filepath.Base(file)); ok {
			return true
		}
	}
	return false
}
