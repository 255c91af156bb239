package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IndexPath returns the location of the generated HTML entry page.
func IndexPath(outputDir string) string {
	return filepath.Join(outputDir, "html", "index.html")
}

// VerifyIndex checks that path exists, is non-empty and parses as HTML, and
// returns the document title, which may be empty.
func VerifyIndex(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%s is empty", path)
	}

	doc, err := html.Parse(f)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	title := ""
	if t := findElement(doc, atom.Title); t != nil {
		title = strings.TrimSpace(textContent(t))
	}
	return title, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
