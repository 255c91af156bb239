// Package project detects metadata about the documented project: its name,
// its README landing page and a version string from git.
package project

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultName is used when nothing better can be detected.
const DefaultName = "API Documentation"

var cmakeProjectRe = regexp.MustCompile(`(?i)project\s*\(\s*([^\s\)]+)`)

// NameFromCMake returns the first project() name declared in CMakeLists.txt.
func NameFromCMake(root string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(root, "CMakeLists.txt"))
	if err != nil {
		return "", false
	}
	m := cmakeProjectRe.FindSubmatch(data)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// Readme returns the path of the project's README.md, if any.
func Readme(root string) (string, bool) {
	for _, name := range []string{"README.md", "Readme.md", "readme.md"} {
		p := filepath.Join(root, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}

// NameFromReadme returns the text of the README's first level-1 heading.
func NameFromReadme(root string) (string, bool) {
	p, ok := Readme(root)
	if !ok {
		return "", false
	}
	src, err := os.ReadFile(p)
	if err != nil {
		return "", false
	}
	title := firstHeading(src)
	return title, title != ""
}

func firstHeading(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var title string
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level != 1 {
			return gmast.WalkContinue, nil
		}
		title = strings.TrimSpace(inlineText(h, src))
		if title == "" {
			return gmast.WalkContinue, nil
		}
		return gmast.WalkStop, nil
	})
	return title
}

func inlineText(n gmast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

// DetectName picks the project name: explicit override, then CMake, then the
// README heading, then DefaultName. The second result names the source.
func DetectName(root, override string) (string, string) {
	if override = strings.TrimSpace(override); override != "" {
		return override, "config"
	}
	if name, ok := NameFromCMake(root); ok {
		return name, "cmake"
	}
	if name, ok := NameFromReadme(root); ok {
		return name, "readme"
	}
	return DefaultName, "default"
}
