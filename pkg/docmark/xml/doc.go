// Package xml provides an editable view of the WordprocessingML main part.
//
// DOCX files are ZIP archives whose body text lives in word/document.xml.
// This package parses that part into an antchfx/xmlquery node tree and wraps
// the elements docmark cares about in small handle types. Everything else in
// the tree (section properties, drawings, bookmarks, unknown extensions) is
// left untouched and written back as it was read.
//
// # Structure Organization
//
//   - types.go: element construction and tree splicing helpers
//   - document.go: Document and Body, parsing and serialization
//   - paragraph.go: Paragraph handles (style, runs, text, insertion)
//   - run.go: Run handles (style, text reading and writing)
//   - table.go: Table, TableRow and TableCell handles
//
// # Key Concepts
//
// Run: A contiguous sequence of text with consistent formatting. Runs are the
// atomic units of styling, so template instructions are detected per run.
//
// Handles are thin wrappers around *xmlquery.Node. Slices returned by
// Paragraphs, Runs, Rows and Cells are snapshots of the tree at call time;
// editing the tree afterwards does not invalidate the handles themselves.
//
// # Usage
//
//	doc, err := xml.ParseDocument(r)
//	if err != nil {
//	    return err
//	}
//	for _, p := range doc.Paragraphs() {
//	    fmt.Println(p.Style(), p.GetText())
//	}
//	out, err := doc.Bytes()
package xml
