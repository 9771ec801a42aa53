package xml

import (
	"bytes"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
)

// Header is the XML declaration written in front of every serialized part
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Document represents a Word document structure
type Document struct {
	element *xmlquery.Node // w:document
	Body    *Body
}

// Body represents the document body
type Body struct {
	node *xmlquery.Node
}

// ParseDocument parses a document.xml part
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document XML: %w", err)
	}

	var element *xmlquery.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			element = c
			break
		}
	}
	if !isWordElement(element, "document") {
		return nil, fmt.Errorf("root element is not w:document")
	}

	body := firstChildElement(element, "body")
	if body == nil {
		return nil, fmt.Errorf("w:document has no w:body")
	}

	return &Document{element: element, Body: &Body{node: body}}, nil
}

// Paragraphs returns the body-level paragraphs in document order.
// The slice is a snapshot; later edits to the tree do not change it.
func (d *Document) Paragraphs() []*Paragraph {
	return d.Body.Paragraphs()
}

// Tables returns the body-level tables in document order
func (d *Document) Tables() []*Table {
	return d.Body.Tables()
}

// Paragraphs returns the direct w:p children of the body
func (b *Body) Paragraphs() []*Paragraph {
	nodes := childElements(b.node, "p")
	paras := make([]*Paragraph, len(nodes))
	for i, n := range nodes {
		paras[i] = &Paragraph{node: n}
	}
	return paras
}

// Tables returns the direct w:tbl children of the body
func (b *Body) Tables() []*Table {
	nodes := childElements(b.node, "tbl")
	tables := make([]*Table, len(nodes))
	for i, n := range nodes {
		tables[i] = &Table{node: n}
	}
	return tables
}

// Node returns the underlying w:body element
func (b *Body) Node() *xmlquery.Node {
	return b.node
}

// WriteTo serializes the document with a standalone declaration
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString(d.element.OutputXMLWithOptions(
		xmlquery.WithOutputSelf(),
		xmlquery.WithPreserveSpace(),
		xmlquery.WithEmptyTagSupport(),
	))
	return buf.WriteTo(w)
}

// Bytes returns the serialized document
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
