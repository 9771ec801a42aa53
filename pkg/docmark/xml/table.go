package xml

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Table represents a table in the document
type Table struct {
	node *xmlquery.Node
}

// TableRow represents a row in a table
type TableRow struct {
	node *xmlquery.Node
}

// TableCell represents a cell in a table row
type TableCell struct {
	node *xmlquery.Node
}

// Node returns the underlying w:tbl element
func (t *Table) Node() *xmlquery.Node {
	return t.node
}

// Rows returns the table rows in order
func (t *Table) Rows() []*TableRow {
	nodes := childElements(t.node, "tr")
	rows := make([]*TableRow, len(nodes))
	for i, n := range nodes {
		rows[i] = &TableRow{node: n}
	}
	return rows
}

// Cells returns the cells of the row in order
func (r *TableRow) Cells() []*TableCell {
	nodes := childElements(r.node, "tc")
	cells := make([]*TableCell, len(nodes))
	for i, n := range nodes {
		cells[i] = &TableCell{node: n}
	}
	return cells
}

// Paragraphs returns the cell's own paragraphs. Paragraphs of nested
// tables are not included.
func (c *TableCell) Paragraphs() []*Paragraph {
	nodes := childElements(c.node, "p")
	paras := make([]*Paragraph, len(nodes))
	for i, n := range nodes {
		paras[i] = &Paragraph{node: n}
	}
	return paras
}

// GetText returns the text of the cell paragraphs joined by newlines
func (c *TableCell) GetText() string {
	var parts []string
	for _, p := range c.Paragraphs() {
		parts = append(parts, p.GetText())
	}
	return strings.Join(parts, "\n")
}
