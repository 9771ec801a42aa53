package docmark

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	markupParaStyle = "CoupaMarkUp"
	markupCharStyle = "CoupaMarkUpChar"
)

const testStylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="character" w:default="1" w:styleId="DefaultParagraphFont"><w:name w:val="Default Paragraph Font"/></w:style>
  <w:style w:type="paragraph" w:customStyle="1" w:styleId="CoupaMarkUp">
    <w:name w:val="CoupaMarkUp"/><w:basedOn w:val="Normal"/><w:link w:val="CoupaMarkUpChar"/>
  </w:style>
  <w:style w:type="character" w:customStyle="1" w:styleId="CoupaMarkUpChar">
    <w:name w:val="CoupaMarkUp Char"/><w:link w:val="CoupaMarkUp"/>
  </w:style>
  <w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/></w:style>
</w:styles>`

// textRun builds an unstyled run
func textRun(text string) string {
	return `<w:r><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

// styledRun builds a run with a character style
func styledRun(style, text string) string {
	return `<w:r><w:rPr><w:rStyle w:val="` + style + `"/></w:rPr><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

// markRun builds a run in the markup character style
func markRun(text string) string {
	return styledRun(markupCharStyle, text)
}

// para builds a paragraph in the default style
func para(runs ...string) string {
	return `<w:p>` + strings.Join(runs, "") + `</w:p>`
}

// markPara builds a paragraph in the markup paragraph style holding text
func markPara(text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + markupParaStyle + `"/></w:pPr>` + textRun(text) + `</w:p>`
}

// table builds a table with one paragraph XML string per cell
func table(rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr/>`)
	for _, row := range rows {
		sb.WriteString(`<w:tr>`)
		for _, cell := range row {
			sb.WriteString(`<w:tc>` + cell + `</w:tc>`)
		}
		sb.WriteString(`</w:tr>`)
	}
	sb.WriteString(`</w:tbl>`)
	return sb.String()
}

// createDOCXBytes creates a minimal DOCX package with the given body XML
// and the test styles part
func createDOCXBytes(body string) []byte {
	return createDOCXBytesWithStyles(body, testStylesXML)
}

func createDOCXBytesWithStyles(body, styles string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	ct, _ := w.Create("[Content_Types].xml")
	io.WriteString(ct, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`)

	rels, _ := w.Create("_rels/.rels")
	io.WriteString(rels, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`)

	doc, _ := w.Create("word/document.xml")
	io.WriteString(doc, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+
		body+
		`<w:sectPr/></w:body></w:document>`)

	wordRels, _ := w.Create("word/_rels/document.xml.rels")
	io.WriteString(wordRels, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`)

	if styles != "" {
		st, _ := w.Create("word/styles.xml")
		io.WriteString(st, styles)
	}

	w.Close()
	return buf.Bytes()
}

// loadTestDocument builds and loads a document from body XML
func loadTestDocument(t *testing.T, body ...string) *Document {
	t.Helper()
	doc, err := LoadBytes(createDOCXBytes(strings.Join(body, "")))
	require.NoError(t, err)
	return doc
}

// reloadDocument serializes doc and loads the result
func reloadDocument(t *testing.T, doc *Document) *Document {
	t.Helper()
	data, err := doc.Bytes()
	require.NoError(t, err)
	out, err := LoadBytes(data)
	require.NoError(t, err)
	return out
}

// paragraphTexts returns the text of every body paragraph
func paragraphTexts(doc *Document) []string {
	var out []string
	for _, p := range doc.Body().Paragraphs() {
		out = append(out, p.GetText())
	}
	return out
}

// runTexts returns the text of every run of body paragraph i
func runTexts(doc *Document, i int) []string {
	var out []string
	for _, r := range doc.Body().Paragraphs()[i].Runs() {
		out = append(out, r.GetText())
	}
	return out
}

// quietEngine returns an engine with a discarding logger
func quietEngine(opts ...Option) *Engine {
	opts = append([]Option{WithConfig(DefaultConfig()), WithLogger(NewLogger(io.Discard, LogOff))}, opts...)
	return NewWithOptions(opts...)
}
