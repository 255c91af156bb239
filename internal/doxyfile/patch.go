package doxyfile

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// blank matches the characters a Doxyfile treats as spacing around keys.
const blank = " \t\r\f\v"

// Settings maps configuration keys to the values they should be set to.
type Settings map[string]string

// ParseLine returns the key of an assignment line ("  KEY  = value").
// Comment lines, "KEY += value" lines and lines without '=' report ok=false.
func ParseLine(line string) (key string, ok bool) {
	s := strings.TrimLeft(line, blank)
	idx := strings.IndexByte(s, '=')
	if idx <= 0 {
		return "", false
	}
	key = strings.TrimRight(s[:idx], blank)
	if key == "" || strings.HasPrefix(key, "#") || strings.HasSuffix(key, "+") {
		return "", false
	}
	return key, true
}

// Assignment renders a normalized KEY = VALUE line.
func Assignment(key, value string) string {
	return key + " = " + value
}

// Patch returns a copy of lines in which every assignment whose key is in
// settings is replaced by Assignment(key, settings[key]). The result always
// has the same length and order as lines. Patch is idempotent.
func Patch(lines []string, settings Settings) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line
		key, ok := ParseLine(line)
		if !ok {
			continue
		}
		if value, found := settings[key]; found {
			out[i] = Assignment(key, value)
		}
	}
	return out
}

// Keys lists the distinct assignment keys of lines in first-seen order.
func Keys(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	keys := make([]string, 0, len(lines))
	for _, line := range lines {
		key, ok := ParseLine(line)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Unmatched returns the sorted settings keys that no line of the template assigns.
func Unmatched(lines []string, settings Settings) []string {
	present := make(map[string]struct{}, len(lines))
	for _, key := range Keys(lines) {
		present[key] = struct{}{}
	}
	var missing []string
	for key := range settings {
		if _, ok := present[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// Suggest returns the template key that best fuzzy-matches key.
func Suggest(key string, candidates []string) (string, bool) {
	if key == "" || len(candidates) == 0 {
		return "", false
	}
	matches := fuzzy.Find(key, candidates)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}
