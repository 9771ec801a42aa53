package docmark

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocxReader(t *testing.T) {
	data := createDOCXBytes(para(textRun("hello")))

	dr, err := NewDocxReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/document.xml",
		"word/styles.xml",
	}, dr.ListParts())
	assert.True(t, dr.HasPart("word/styles.xml"))

	main, err := dr.GetDocumentXML()
	require.NoError(t, err)
	assert.Contains(t, string(main), "hello")

	_, err = dr.GetPart("word/missing.xml")
	assert.Error(t, err)
}

func TestNewDocxReaderMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("readme.txt")
	io.WriteString(f, "not a docx")
	w.Close()

	_, err := NewDocxReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing word/document.xml")
}

func TestLoadBytesErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain text", []byte("hello world, not a zip"), "unsupported content type"},
		{"empty", nil, "unsupported content type"},
		{"broken document xml", createDOCXBytesWithStyles("<w:p>", testStylesXML), "failed to parse document XML"},
		{"broken styles", createDOCXBytesWithStyles(para(textRun("x")), "<w:styles"), "failed to parse styles XML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes(tt.data)
			require.Error(t, err)
			assert.True(t, IsDocumentLoadError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.docx")
	_, err := Load(path)
	require.Error(t, err)

	var le *DocumentLoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocumentWriteToKeepsParts(t *testing.T) {
	doc := loadTestDocument(t, para(textRun("a"), markRun("Val_1")))
	doc.Body().Paragraphs()[0].Runs()[1].SetText("edited")

	data, err := doc.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
	}, names, "parts keep their original order")

	out, err := LoadBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "edited"}, runTexts(out, 0))
	assert.Equal(t, doc.Styles().Len(), out.Styles().Len())
}

func TestDocumentSave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	require.NoError(t, os.WriteFile(src, createDOCXBytes(para(textRun("saved"))), 0o644))

	doc, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, src, doc.Path())
	assert.Len(t, doc.Revision(), 64)

	dst := filepath.Join(dir, "out.docx")
	result, err := doc.Save(dst)
	require.NoError(t, err)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), result.Size)
	assert.Len(t, result.Digest, 64)

	written, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, digest(written), result.Digest)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary file left behind")

	again, err := Load(dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"saved"}, paragraphTexts(again))
}

func TestDocumentSaveError(t *testing.T) {
	doc := loadTestDocument(t, para(textRun("x")))
	dst := filepath.Join(t.TempDir(), "no", "such", "dir", "out.docx")

	_, err := doc.Save(dst)
	require.Error(t, err)
	assert.True(t, IsDocumentSaveError(err))
	assert.Contains(t, err.Error(), dst)
}

func TestDocxReaderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.docx")
	require.NoError(t, os.WriteFile(path, createDOCXBytes(para(textRun("x"))), 0o644))

	dr, err := DocxReaderFromFile(path)
	require.NoError(t, err)
	assert.Len(t, dr.Parts, 5)

	_, err = DocxReaderFromFile(path + ".missing")
	assert.Error(t, err)
}
