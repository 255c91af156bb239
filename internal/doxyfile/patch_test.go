package doxyfile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		key  string
		ok   bool
	}{
		{"PROJECT_NAME = x", "PROJECT_NAME", true},
		{"PROJECT_NAME=x", "PROJECT_NAME", true},
		{"   INPUT\t=  a b", "INPUT", true},
		{"EMPTY =", "EMPTY", true},
		{"# PROJECT_NAME = commented", "", false},
		{"#PROJECT_NAME=commented", "", false},
		{"INPUT += more.h", "", false},
		{"no assignment here", "", false},
		{"", "", false},
		{"= value", "", false},
		{"PREDEFINED = A=1 B=2", "PREDEFINED", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.line), func(t *testing.T) {
			key, ok := ParseLine(tt.line)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.key, key)
		})
	}
}

func TestPatch_ReplacesMatchingLine(t *testing.T) {
	out := Patch([]string{"FOO = bar"}, Settings{"FOO": "baz"})
	require.Equal(t, []string{"FOO = baz"}, out)
}

func TestPatch_NormalizesSpacing(t *testing.T) {
	out := Patch([]string{"FOO=bar", "  FOO\t\t=   bar  "}, Settings{"FOO": "baz"})
	require.Equal(t, []string{"FOO = baz", "FOO = baz"}, out)
}

func TestPatch_ProjectNameScenario(t *testing.T) {
	template := []string{
		"# Doxyfile",
		"",
		"PROJECT_NAME = x",
		"OUTPUT_DIRECTORY = out",
		"GENERATE_HTML = YES",
	}

	out := Patch(template, Settings{"PROJECT_NAME": "Widget"})

	require.Len(t, out, 5)
	for i := range template {
		if i == 2 {
			require.Equal(t, "PROJECT_NAME = Widget", out[i])
			continue
		}
		require.Equal(t, template[i], out[i], "line %d changed", i)
	}
}

func TestPatch_AnchoredAtLineStart(t *testing.T) {
	template := []string{
		"ALIASES = \"note=FOO = trap\"",
		"EXCLUDE_PATTERNS = */FOO=*",
	}
	out := Patch(template, Settings{"FOO": "baz"})
	require.Equal(t, template, out)
}

func TestPatch_PrefixKeysDoNotCollide(t *testing.T) {
	template := []string{"HTML = a", "HTML_OUTPUT = html", "GENERATE_HTML = YES"}
	out := Patch(template, Settings{"HTML": "b"})
	require.Equal(t, []string{"HTML = b", "HTML_OUTPUT = html", "GENERATE_HTML = YES"}, out)
}

func TestPatch_KeysAreLiteral(t *testing.T) {
	template := []string{"A.B = 1", "AxB = 2"}
	out := Patch(template, Settings{"A.B": "3"})
	require.Equal(t, []string{"A.B = 3", "AxB = 2"}, out)
}

func TestPatch_AppendLinesUntouched(t *testing.T) {
	template := []string{"INPUT = a.h", "INPUT += b.h"}
	out := Patch(template, Settings{"INPUT": "\"c.h\""})
	require.Equal(t, []string{"INPUT = \"c.h\"", "INPUT += b.h"}, out)
}

func TestPatch_EveryOccurrenceReplaced(t *testing.T) {
	out := Patch([]string{"X = 1", "Y = 2", "X = 3"}, Settings{"X": "9"})
	require.Equal(t, []string{"X = 9", "Y = 2", "X = 9"}, out)
}

func TestPatch_DoesNotMutateInput(t *testing.T) {
	template := []string{"FOO = bar"}
	_ = Patch(template, Settings{"FOO": "baz"})
	require.Equal(t, "FOO = bar", template[0])
}

func TestPatch_EmptyInputs(t *testing.T) {
	require.Empty(t, Patch(nil, Settings{"FOO": "x"}))
	require.Equal(t, []string{"FOO = bar"}, Patch([]string{"FOO = bar"}, nil))
}

// randomTemplate produces a mix of assignments, comments, blanks and appends.
func randomTemplate(r *rand.Rand, n int, keys []string) []string {
	lines := make([]string, n)
	for i := range lines {
		key := keys[r.Intn(len(keys))]
		switch r.Intn(6) {
		case 0:
			lines[i] = ""
		case 1:
			lines[i] = "# " + key + " = commented"
		case 2:
			lines[i] = key + " += extra"
		case 3:
			lines[i] = "  " + key + "=" + fmt.Sprint(r.Int())
		default:
			lines[i] = key + " = " + fmt.Sprint(r.Int())
		}
	}
	return lines
}

func TestPatch_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	keys := []string{"PROJECT_NAME", "INPUT", "HAVE_DOT", "UNRELATED", "OUTPUT_DIRECTORY", "HTML_OUTPUT"}
	settings := Settings{"PROJECT_NAME": "Widget", "INPUT": "\"a.h\"", "HAVE_DOT": "YES", "NOT_IN_TEMPLATE": "x"}

	for iter := 0; iter < 200; iter++ {
		lines := randomTemplate(r, r.Intn(40), keys)
		once := Patch(lines, settings)

		require.Len(t, once, len(lines))
		require.Equal(t, once, Patch(once, settings), "patch must be idempotent")

		for i, line := range lines {
			key, ok := ParseLine(line)
			value, wanted := settings[key]
			if ok && wanted {
				require.Equal(t, key+" = "+value, once[i])
			} else {
				require.Equal(t, line, once[i])
			}
		}
	}
}

func TestKeysAndUnmatched(t *testing.T) {
	template := []string{"# header", "PROJECT_NAME = x", "INPUT =", "INPUT += y", "PROJECT_NAME = again"}

	require.Equal(t, []string{"PROJECT_NAME", "INPUT"}, Keys(template))
	require.Equal(t,
		[]string{"HAVE_DOT", "PROJET_NAME"},
		Unmatched(template, Settings{"PROJECT_NAME": "a", "HAVE_DOT": "YES", "PROJET_NAME": "typo"}),
	)
	require.Empty(t, Unmatched(template, Settings{"INPUT": "z"}))
}

func TestSuggest(t *testing.T) {
	candidates := []string{"PROJECT_NAME", "PROJECT_BRIEF", "INPUT"}

	got, ok := Suggest("PROJET_NAME", candidates)
	require.True(t, ok)
	require.Equal(t, "PROJECT_NAME", got)

	_, ok = Suggest("ZZZ", candidates)
	require.False(t, ok)

	_, ok = Suggest("INPUT", nil)
	require.False(t, ok)
}
