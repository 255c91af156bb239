package doxyfile

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidSetting is wrapped by Settings.Validate failures.
var ErrInvalidSetting = errors.New("invalid doxyfile setting")

// DefaultFilePatterns is the FILE_PATTERNS value applied to every run.
const DefaultFilePatterns = "*.c *.cc *.cxx *.cpp *.c++ *.h *.hh *.hxx *.hpp *.h++ *.py"

// Merge returns a new Settings holding s overlaid with other.
func (s Settings) Merge(other Settings) Settings {
	out := make(Settings, len(s)+len(other))
	maps.Copy(out, s)
	maps.Copy(out, other)
	return out
}

// Validate rejects keys that could never match a template line and values
// that would break the one-line-per-setting layout.
func (s Settings) Validate() error {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch {
		case key == "":
			return fmt.Errorf("%w: empty key", ErrInvalidSetting)
		case strings.ContainsAny(key, "=#"+blank+"\n"):
			return fmt.Errorf("%w: key %q contains '=', '#' or whitespace", ErrInvalidSetting, key)
		case strings.ContainsAny(s[key], "\r\n"):
			return fmt.Errorf("%w: value of %s spans multiple lines", ErrInvalidSetting, key)
		}
	}
	return nil
}

// QuoteList renders paths the way Doxygen list values expect them: each
// entry double-quoted, separated by single spaces.
func QuoteList(paths []string) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = strconv.Quote(p)
	}
	return strings.Join(quoted, " ")
}

// YesNo renders a Doxygen boolean.
func YesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// Options carries the per-run facts BaseSettings folds into the fixed settings.
type Options struct {
	ProjectName string
	Version     string
	Sources     []string
	OutputDir   string
	HaveDot     bool
	// Mainpage is a Markdown file used as the documentation landing page.
	Mainpage string
}

// BaseSettings returns the settings every generated Doxyfile receives.
func BaseSettings(opts Options) Settings {
	inputs := opts.Sources
	if opts.Mainpage != "" {
		inputs = append([]string{opts.Mainpage}, opts.Sources...)
	}

	s := Settings{
		"PROJECT_NAME":           opts.ProjectName,
		"PROJECT_BRIEF":          opts.ProjectName + " API Documentation",
		"INPUT":                  QuoteList(inputs),
		"OUTPUT_DIRECTORY":       opts.OutputDir,
		"RECURSIVE":              "YES",
		"EXTRACT_ALL":            "YES",
		"EXTRACT_PRIVATE":        "YES",
		"EXTRACT_STATIC":         "YES",
		"EXTRACT_PACKAGE":        "YES",
		"SOURCE_BROWSER":         "YES",
		"REFERENCED_BY_RELATION": "YES",
		"REFERENCES_RELATION":    "YES",
		"GENERATE_TREEVIEW":      "YES",
		"FILE_PATTERNS":          DefaultFilePatterns,
		"ENABLE_PREPROCESSING":   "YES",
		"MACRO_EXPANSION":        "YES",
		"EXPAND_ONLY_PREDEF":     "YES",
		"PREDEFINED":             "DOXYGEN_SHOULD_SKIP_THIS",
		"HIDE_UNDOC_MEMBERS":     "NO",
		"HIDE_UNDOC_CLASSES":     "NO",

		"HAVE_DOT":            YesNo(opts.HaveDot),
		"DOT_IMAGE_FORMAT":    "svg",
		"INTERACTIVE_SVG":     "YES",
		"DOT_TRANSPARENT":     "YES",
		"CLASS_GRAPH":         "YES",
		"COLLABORATION_GRAPH": "YES",
		"GROUP_GRAPHS":        "YES",
		"UML_LOOK":            "YES",
		"CALL_GRAPH":          "YES",
		"CALLER_GRAPH":        "YES",
		"GRAPHICAL_HIERARCHY": "YES",
		"DIRECTORY_GRAPH":     "YES",
		"DOT_GRAPH_MAX_NODES": "100",
		"MAX_DOT_GRAPH_DEPTH": "3",
		"DOT_MULTI_TARGETS":   "YES",
		"GENERATE_LEGEND":     "YES",
		"DOT_CLEANUP":         "YES",
	}
	if opts.Version != "" {
		s["PROJECT_NUMBER"] = opts.Version
	}
	if opts.Mainpage != "" {
		s["USE_MDFILE_AS_MAINPAGE"] = opts.Mainpage
	}
	return s
}
