package testing

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/doxybuilder/internal/doxyfile"
)

// ProjectBuilder lays out a throwaway C/C++ project for tests.
type ProjectBuilder struct {
	t    testing.TB
	root string
}

// NewProject creates an empty project in a temporary directory.
func NewProject(t testing.TB) *ProjectBuilder {
	t.Helper()
	return &ProjectBuilder{t: t, root: t.TempDir()}
}

// Root returns the project directory.
func (p *ProjectBuilder) Root() string { return p.root }

// Path joins rel onto the project root.
func (p *ProjectBuilder) Path(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

// WithFile writes content to rel, creating parent directories.
func (p *ProjectBuilder) WithFile(rel, content string) *ProjectBuilder {
	p.t.Helper()
	path := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), testDirPermissions); err != nil {
		p.t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), testFilePermissions); err != nil {
		p.t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return p
}

// WithDir creates an empty directory.
func (p *ProjectBuilder) WithDir(rel string) *ProjectBuilder {
	p.t.Helper()
	if err := os.MkdirAll(p.Path(rel), testDirPermissions); err != nil {
		p.t.Fatalf("Failed to create %s: %v", rel, err)
	}
	return p
}

// WithCMake writes a CMakeLists.txt declaring project name.
func (p *ProjectBuilder) WithCMake(name string) *ProjectBuilder {
	return p.WithFile("CMakeLists.txt", "cmake_minimum_required(VERSION 3.20)\nproject("+name+" CXX)\n")
}

// WithReadme writes a README.md whose first heading is title.
func (p *ProjectBuilder) WithReadme(title string) *ProjectBuilder {
	return p.WithFile("README.md", "# "+title+"\n\nSome text.\n")
}

// WithTemplate writes the starter Doxyfile template to rel.
func (p *ProjectBuilder) WithTemplate(rel string) *ProjectBuilder {
	return p.WithFile(rel, string(doxyfile.DefaultTemplate()))
}

// Files returns assertions rooted at the project.
func (p *ProjectBuilder) Files() *FileAssertions {
	return NewFileAssertions(p.t, p.root)
}
