package docmark

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/benjaminschreck/go-docmark/pkg/docmark/xml"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"
)

// DocxReader handles reading the parts of a DOCX package
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewDocxReader creates a new DOCX reader
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}

	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[documentPart]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", documentPart)
	}

	return dr, nil
}

// GetDocumentXML retrieves the content of word/document.xml
func (dr *DocxReader) GetDocumentXML() ([]byte, error) {
	return dr.GetPart(documentPart)
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}

	return content, nil
}

// HasPart reports whether the package contains partName
func (dr *DocxReader) HasPart(partName string) bool {
	_, ok := dr.Parts[partName]
	return ok
}

// ListParts returns the part names of the DOCX, sorted
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}

// DocxReaderFromFile creates a DocxReader from a file path
func DocxReaderFromFile(path string) (*DocxReader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return NewDocxReader(bytes.NewReader(content), int64(len(content)))
}

// Document is a loaded DOCX package with its main part parsed for editing
type Document struct {
	path     string
	reader   *DocxReader
	body     *xml.Document
	styles   *StyleCatalog
	revision string
}

// SaveResult describes a written package
type SaveResult struct {
	Path   string
	Size   int64
	Digest string // blake3, hex
}

// Load reads and parses the DOCX at path
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentLoadError(path, err)
	}
	doc, err := loadBytes(data)
	if err != nil {
		return nil, NewDocumentLoadError(path, err)
	}
	doc.path = path
	return doc, nil
}

// LoadBytes parses a DOCX held in memory
func LoadBytes(data []byte) (*Document, error) {
	doc, err := loadBytes(data)
	if err != nil {
		return nil, NewDocumentLoadError("", err)
	}
	return doc, nil
}

func loadBytes(data []byte) (*Document, error) {
	if err := checkContainer(data); err != nil {
		return nil, err
	}

	reader, err := NewDocxReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	main, err := reader.GetDocumentXML()
	if err != nil {
		return nil, err
	}
	body, err := xml.ParseDocument(bytes.NewReader(main))
	if err != nil {
		return nil, err
	}

	styles := EmptyStyleCatalog()
	if reader.HasPart(stylesPart) {
		raw, err := reader.GetPart(stylesPart)
		if err != nil {
			return nil, err
		}
		if styles, err = ParseStyles(raw); err != nil {
			return nil, err
		}
	}

	return &Document{
		reader:   reader,
		body:     body,
		styles:   styles,
		revision: digest(main),
	}, nil
}

// checkContainer rejects content that is not a ZIP based package
func checkContainer(data []byte) error {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return nil
		}
	}
	return fmt.Errorf("unsupported content type %s, expected a DOCX package", mt.String())
}

// Path returns the path the document was loaded from, if any
func (d *Document) Path() string {
	return d.path
}

// Body returns the editable main document part
func (d *Document) Body() *xml.Document {
	return d.body
}

// Styles returns the style catalog of the package
func (d *Document) Styles() *StyleCatalog {
	return d.styles
}

// Parts returns the part names of the package
func (d *Document) Parts() []string {
	return d.reader.ListParts()
}

// Revision returns the blake3 digest of word/document.xml as loaded
func (d *Document) Revision() string {
	return d.revision
}

// WriteTo writes the package to w. Every original part is copied in its
// original order; word/document.xml is replaced by the edited tree.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	main, err := d.body.Bytes()
	if err != nil {
		return 0, fmt.Errorf("failed to serialize document: %w", err)
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, file := range d.reader.reader.File {
		fw, err := zw.Create(file.Name)
		if err != nil {
			return cw.n, fmt.Errorf("failed to create %s: %w", file.Name, err)
		}

		if file.Name == documentPart {
			if _, err := fw.Write(main); err != nil {
				return cw.n, fmt.Errorf("failed to write %s: %w", file.Name, err)
			}
			continue
		}

		fr, err := file.Open()
		if err != nil {
			return cw.n, fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		_, err = io.Copy(fw, fr)
		fr.Close()
		if err != nil {
			return cw.n, fmt.Errorf("failed to copy %s: %w", file.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to close zip writer: %w", err)
	}
	return cw.n, nil
}

// Bytes returns the serialized package
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the package to path. The data goes to a temporary sibling
// file first and is renamed into place, so path never holds a partial file.
func (d *Document) Save(path string) (*SaveResult, error) {
	data, err := d.Bytes()
	if err != nil {
		return nil, NewDocumentSaveError(path, err)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, NewDocumentSaveError(path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, NewDocumentSaveError(path, err)
	}

	return &SaveResult{
		Path:   path,
		Size:   int64(len(data)),
		Digest: digest(data),
	}, nil
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
