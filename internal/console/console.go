// Package console prints human-facing status lines for the CLI.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled messages to a writer. Colors are dropped when the
// writer is not a terminal.
type Printer struct {
	out     io.Writer
	ok      lipgloss.Style
	note    lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
	heading lipgloss.Style
}

// New returns a Printer for out.
func New(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		ok:      r.NewStyle().Foreground(lipgloss.Color("#00AA00")).Bold(true),
		note:    r.NewStyle().Foreground(lipgloss.Color("#D7A700")).Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("#CC0000")).Bold(true),
		dim:     r.NewStyle().Faint(true),
		heading: r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
	}
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.ok.Render("✓"), format, args...)
}

// Note prints a non-fatal warning.
func (p *Printer) Note(format string, args ...any) {
	p.line(p.note.Render("note:"), format, args...)
}

// Error prints a failure line.
func (p *Printer) Error(format string, args ...any) {
	p.line(p.err.Render("✗"), format, args...)
}

// Detail prints an indented, dimmed line.
func (p *Printer) Detail(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, "  "+p.dim.Render(fmt.Sprintf(format, args...)))
}

// Heading prints a section title.
func (p *Printer) Heading(text string) {
	_, _ = fmt.Fprintln(p.out, p.heading.Render(text))
}

func (p *Printer) line(prefix, format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, prefix+" "+fmt.Sprintf(format, args...))
}
