package report

import (
	"strings"
)

// Document is one Markdown report: a title, a subheading and a pipe table.
type Document struct {
	Title   string
	Heading string
	Header  []string
	Rows    [][]string
}

// AddRow appends one table row; cells are written as-is, pipes are not escaped.
func (d *Document) AddRow(cells ...string) {
	d.Rows = append(d.Rows, cells)
}

// Render returns the Markdown text of the document.
//
//	# Title
//
//	## Heading
//
//	| A | B |
//	|---|---|
//	|a|b|
func (d Document) Render() string {
	var sb strings.Builder
	sb.WriteString("# " + d.Title + "\n")
	sb.WriteString("\n## " + d.Heading + "\n")

	sb.WriteString("\n|")
	for _, h := range d.Header {
		sb.WriteString(" " + h + " |")
	}
	sb.WriteString("\n|")
	for _, h := range d.Header {
		sb.WriteString(strings.Repeat("-", len(h)+2) + "|")
	}
	sb.WriteString("\n")

	for _, row := range d.Rows {
		sb.WriteString("|" + strings.Join(row, "|") + "|\n")
	}
	return sb.String()
}
