package console

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

const tablePadding = 2

// Table writes tab-aligned rows under a header.
func (p *Printer) Table(headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(p.out, 0, 0, tablePadding, ' ', 0)
	if len(headers) > 0 {
		_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}
