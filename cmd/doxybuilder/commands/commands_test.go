package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxybuilder/internal/build"
	"git.home.luguber.info/inful/doxybuilder/internal/config"
	"git.home.luguber.info/inful/doxybuilder/internal/console"
	derrors "git.home.luguber.info/inful/doxybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuilder/internal/history"
)

func testGlobal() (*Global, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Global{Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

const sampleTemplate = "# Project\nPROJECT_NAME = \"My Project\"\nOUTPUT_DIRECTORY =\n\nINPUT = src\n"

func TestParseSettings(t *testing.T) {
	settings, err := ParseSettings([]string{"PROJECT_NAME=Widget", " INPUT = a b ", "INPUT=src", "EMPTY="})
	require.NoError(t, err)
	require.Equal(t, "Widget", settings["PROJECT_NAME"])
	require.Equal(t, "src", settings["INPUT"])
	require.Empty(t, settings["EMPTY"])

	for _, bad := range []string{"NOEQUALS", "=value", "BAD KEY=1"} {
		_, err := ParseSettings([]string{bad})
		require.True(t, derrors.HasCategory(err, derrors.CategoryValidation), bad)
	}
}

func TestPatchCmd_Stdout(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "Doxyfile.in")
	require.NoError(t, os.WriteFile(tmpl, []byte(sampleTemplate), 0o600))

	g, stdout, stderr := testGlobal()
	cmd := &PatchCmd{Template: tmpl, Set: []string{"PROJECT_NAME=Widget", "INPUT=include src", "MISSING_KEY=1"}}
	require.NoError(t, cmd.Run(g, &CLI{}))

	require.Equal(t, "# Project\nPROJECT_NAME = Widget\nOUTPUT_DIRECTORY =\n\nINPUT = include src\n", stdout.String())
	require.Contains(t, stderr.String(), "MISSING_KEY")
}

func TestPatchCmd_OutFile(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "Doxyfile.in")
	out := filepath.Join(dir, "Doxyfile")
	require.NoError(t, os.WriteFile(tmpl, []byte(sampleTemplate), 0o600))

	g, stdout, _ := testGlobal()
	cmd := &PatchCmd{Template: tmpl, Set: []string{"OUTPUT_DIRECTORY=/tmp/out"}, Out: out}
	require.NoError(t, cmd.Run(g, &CLI{}))
	require.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "\nOUTPUT_DIRECTORY = /tmp/out\n")
	require.Contains(t, string(data), "PROJECT_NAME = \"My Project\"")
}

func TestPatchCmd_MissingTemplate(t *testing.T) {
	g, _, _ := testGlobal()
	cmd := &PatchCmd{Template: filepath.Join(t.TempDir(), "nope.in")}
	err := cmd.Run(g, &CLI{})
	require.True(t, derrors.HasCategory(err, derrors.CategoryFileSystem))
	require.Contains(t, err.Error(), "doxybuilder init")
	require.Equal(t, 1, derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "doxybuilder.yaml")
	g, _, stderr := testGlobal()

	require.NoError(t, (&InitCmd{}).Run(g, &CLI{Config: cfgPath}))
	require.FileExists(t, cfgPath)
	require.FileExists(t, filepath.Join(dir, config.DefaultTemplatePath))
	require.Contains(t, stderr.String(), cfgPath)

	err := (&InitCmd{}).Run(g, &CLI{Config: cfgPath})
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
	require.Equal(t, 2, derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	require.NoError(t, (&InitCmd{Force: true}).Run(g, &CLI{Config: cfgPath}))
}

func TestBuildFlagsApply(t *testing.T) {
	cfg := config.Default()
	flags := BuildFlags{
		Root:        "/src/widget",
		Template:    "Doxyfile.in",
		Output:      "/tmp/docs",
		Name:        "Widget",
		NoOpen:      true,
		CopyPath:    true,
		MetricsFile: "/tmp/doxybuilder.prom",
		SkipUnchanged: true,
	}
	flags.Apply(cfg)

	require.Equal(t, "/src/widget", cfg.Project.Root)
	require.Equal(t, "Doxyfile.in", cfg.Template.Path)
	require.Equal(t, "/tmp/docs", cfg.Output.Directory)
	require.Equal(t, "Widget", cfg.Project.Name)
	require.False(t, cfg.ShouldOpenBrowser())
	require.True(t, cfg.CopyPath)
	require.Equal(t, "/tmp/doxybuilder.prom", cfg.Metrics.Textfile)
	require.Equal(t, build.RunOptions{SkipUnchanged: true}, flags.RunOptions())

	untouched := config.Default()
	(&BuildFlags{}).Apply(untouched)
	require.Equal(t, config.Default(), untouched)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := console.New(&buf)
	printReport(p, &build.Report{
		Status:     build.StatusSuccess,
		Project:    "Widget",
		Sources:    []string{"a.cpp", "b.h"},
		IndexPath:  "/out/html/index.html",
		Unmatched:  []string{"PROJET_LOGO"},
		BrowserErr: derrors.BrowserError("could not open browser").Warning().Build(),
	})
	out := buf.String()
	require.Contains(t, out, "Install Graphviz (dot) for class diagrams generation")
	require.Contains(t, out, "PROJET_LOGO")
	require.Contains(t, out, "Widget (2 source files)")
	require.Contains(t, out, "/out/html/index.html")
	require.Contains(t, out, "Could not open browser")

	buf.Reset()
	printReport(p, &build.Report{Status: build.StatusSkipped, Project: "Widget", HaveDot: true})
	require.Contains(t, buf.String(), "up to date")
	require.NotContains(t, buf.String(), "Graphviz")
}

func TestPrintReport_FailedRunHasNoGraphvizNote(t *testing.T) {
	var buf bytes.Buffer
	printReport(console.New(&buf), &build.Report{
		Status:  build.StatusFailed,
		Project: "Widget",
		Sources: []string{"a.cpp"},
	})
	require.NotContains(t, buf.String(), "Graphviz")
	require.NotContains(t, buf.String(), "Documentation generated")
}

func TestHistoryCmd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	cfgPath := filepath.Join(dir, "doxybuilder.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  path: "+dbPath+"\n"), 0o600))

	store, err := history.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), history.Run{
		BuildID:   "b1",
		StartedAt: time.Now(),
		Duration:  1500 * time.Millisecond,
		Project:   "Widget",
		Outcome:   "success",
		Sources:   3,
	}))
	require.NoError(t, store.Close())

	g, stdout, _ := testGlobal()
	require.NoError(t, (&HistoryCmd{Limit: 10}).Run(g, &CLI{Config: cfgPath}))
	require.Contains(t, stdout.String(), "OUTCOME")
	require.Contains(t, stdout.String(), "Widget")
	require.Contains(t, stdout.String(), "1.5s")
}

func TestHistoryCmd_Disabled(t *testing.T) {
	g, _, _ := testGlobal()
	err := (&HistoryCmd{}).Run(g, &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")})
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}
