package testing

import (
	"os"
	"testing"
)

func TestProjectBuilder(t *testing.T) {
	p := NewProject(t).
		WithCMake("Widget").
		WithReadme("Widget Library").
		WithFile("src/widget.cpp", "int w;\n").
		WithDir("include").
		WithTemplate("docs/Doxyfile.in")

	p.Files().
		AssertFileContains("CMakeLists.txt", "project(Widget CXX)").
		AssertLine("README.md", "# Widget Library").
		AssertDirExists("include").
		AssertFileExists("docs/Doxyfile.in").
		AssertFileNotExists("docs/Doxyfile").
		AssertFileContains("docs/Doxyfile.in", "PROJECT_NAME").
		AssertLineCount("src/widget.cpp", 2)

	if got := p.Files().GetFileContent("src/widget.cpp"); got != "int w;\n" {
		t.Errorf("GetFileContent = %q", got)
	}
	if _, err := os.Stat(p.Path("src/widget.cpp")); err != nil {
		t.Errorf("Path did not resolve to the written file: %v", err)
	}
}
