package converter

import (
	"strings"

	"github.com/okibox/confluence-export/internal/storage"
)

// tableRows collects rows from direct tr children and from
// thead/tbody/tfoot wrappers, in document order. The second return reports
// whether a header row was seen (a thead wrapper or th cells in the first
// row).
func tableRows(n *storage.Node, cellText func(*storage.Node) string) (rows [][]string, hasHeader bool) {
	appendRow := func(tr *storage.Node, header bool) {
		var row []string
		for _, cell := range tr.Children {
			if !cell.IsElement() {
				continue
			}
			if cell.Match("td") || cell.Match("th") {
				if cell.Match("th") && len(rows) == 0 {
					hasHeader = true
				}
				row = append(row, collapseInline(cellText(cell)))
			}
		}
		if header {
			hasHeader = true
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	for _, child := range n.Children {
		if !child.IsElement() {
			continue
		}
		switch {
		case child.Match("tr"):
			appendRow(child, false)
		case child.Match("thead"), child.Match("tbody"), child.Match("tfoot"):
			header := child.Match("thead")
			for _, tr := range child.ChildElements("tr") {
				appendRow(tr, header && len(rows) == 0)
			}
		}
	}
	return rows, hasHeader
}

// convertTable renders a Markdown pipe table. The first row is the header;
// columns are padded to the widest cell unless CompactTables is set, and the
// separator row uses at least three dashes per column.
func (c *markdownConverter) convertTable(n *storage.Node) string {
	rows, _ := tableRows(n, c.convertChildren)
	if len(rows) == 0 {
		return ""
	}

	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns == 0 {
		return ""
	}

	widths := make([]int, columns)
	empty := true
	for _, row := range rows {
		for i, cell := range row {
			if cell != "" {
				empty = false
			}
			if !c.opts.CompactTables && len([]rune(cell)) > widths[i] {
				widths[i] = len([]rune(cell))
			}
		}
	}
	if empty {
		return ""
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	pad := func(cell string, width int) string {
		if c.opts.CompactTables {
			return cell
		}
		return cell + strings.Repeat(" ", width-len([]rune(cell)))
	}

	var b strings.Builder
	b.WriteByte('\n')

	writeRow := func(row []string) {
		b.WriteByte('|')
		for i := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(" " + pad(cell, widths[i]) + " |")
		}
		b.WriteByte('\n')
	}

	writeRow(rows[0])

	b.WriteByte('|')
	for i := range columns {
		dashes := 3
		if !c.opts.CompactTables {
			dashes = widths[i]
		}
		b.WriteString(" " + strings.Repeat("-", dashes) + " |")
	}
	b.WriteByte('\n')

	for _, row := range rows[1:] {
		writeRow(row)
	}

	b.WriteByte('\n')
	return b.String()
}
