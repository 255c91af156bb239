package doxyfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsMerge(t *testing.T) {
	base := Settings{"A": "1", "B": "2"}
	merged := base.Merge(Settings{"B": "3", "C": "4"})

	require.Equal(t, Settings{"A": "1", "B": "3", "C": "4"}, merged)
	require.Equal(t, "2", base["B"], "merge must not modify the receiver")
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{"valid", Settings{"PROJECT_NAME": "Widget", "INPUT": ""}, false},
		{"empty key", Settings{"": "x"}, true},
		{"key with space", Settings{"PROJECT NAME": "x"}, true},
		{"key with equals", Settings{"A=B": "x"}, true},
		{"comment key", Settings{"#A": "x"}, true},
		{"multiline value", Settings{"A": "x\ny"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSetting)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestQuoteList(t *testing.T) {
	require.Equal(t, `"/p/src/a.cpp" "/p/My Dir/b.h"`, QuoteList([]string{"/p/src/a.cpp", "/p/My Dir/b.h"}))
	require.Empty(t, QuoteList(nil))
}

func TestBaseSettings(t *testing.T) {
	s := BaseSettings(Options{
		ProjectName: "Widget",
		Sources:     []string{"/p/src/a.cpp"},
		OutputDir:   "/p/docs/doxygen_output",
		HaveDot:     false,
	})

	require.Equal(t, "Widget", s["PROJECT_NAME"])
	require.Equal(t, "Widget API Documentation", s["PROJECT_BRIEF"])
	require.Equal(t, `"/p/src/a.cpp"`, s["INPUT"])
	require.Equal(t, "/p/docs/doxygen_output", s["OUTPUT_DIRECTORY"])
	require.Equal(t, "NO", s["HAVE_DOT"])
	require.Equal(t, "svg", s["DOT_IMAGE_FORMAT"])
	require.Equal(t, "100", s["DOT_GRAPH_MAX_NODES"])
	require.Equal(t, "3", s["MAX_DOT_GRAPH_DEPTH"])
	require.NotContains(t, s, "PROJECT_NUMBER")
	require.NotContains(t, s, "USE_MDFILE_AS_MAINPAGE")
	require.NoError(t, s.Validate())
}

func TestBaseSettings_VersionAndMainpage(t *testing.T) {
	s := BaseSettings(Options{
		ProjectName: "Widget",
		Version:     "v1.2.0",
		Sources:     []string{"/p/src/a.cpp"},
		HaveDot:     true,
		Mainpage:    "/p/README.md",
	})

	require.Equal(t, "v1.2.0", s["PROJECT_NUMBER"])
	require.Equal(t, "/p/README.md", s["USE_MDFILE_AS_MAINPAGE"])
	require.Equal(t, `"/p/README.md" "/p/src/a.cpp"`, s["INPUT"])
	require.Equal(t, "YES", s["HAVE_DOT"])
}

func TestDefaultTemplateCoversBaseSettings(t *testing.T) {
	lines := SplitLines(string(DefaultTemplate()))
	s := BaseSettings(Options{ProjectName: "x", Version: "1", Mainpage: "README.md"})
	require.Empty(t, Unmatched(lines, s))
}
