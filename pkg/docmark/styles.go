package docmark

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
)

// Style is one w:style definition from word/styles.xml
type Style struct {
	ID      string
	Name    string
	Type    string // paragraph, character, table or numbering
	Link    string // id of the linked paragraph/character style
	Default bool
}

// StyleCatalog indexes the styles of a document by id
type StyleCatalog struct {
	byID             map[string]*Style
	defaultParagraph string
}

// EmptyStyleCatalog returns a catalog for packages without a styles part
func EmptyStyleCatalog() *StyleCatalog {
	return &StyleCatalog{byID: make(map[string]*Style)}
}

// ParseStyles parses the content of word/styles.xml
func ParseStyles(data []byte) (*StyleCatalog, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse styles XML: %w", err)
	}

	nodes, err := xmlquery.QueryAll(root, "//*[local-name()='styles']/*[local-name()='style']")
	if err != nil {
		return nil, fmt.Errorf("failed to query styles: %w", err)
	}

	catalog := EmptyStyleCatalog()
	for _, n := range nodes {
		s := &Style{
			ID:      n.SelectAttr("w:styleId"),
			Type:    n.SelectAttr("w:type"),
			Default: isOn(n.SelectAttr("w:default")),
		}
		if s.ID == "" {
			continue
		}
		if name := xmlquery.FindOne(n, "*[local-name()='name']"); name != nil {
			s.Name = name.SelectAttr("w:val")
		}
		if link := xmlquery.FindOne(n, "*[local-name()='link']"); link != nil {
			s.Link = link.SelectAttr("w:val")
		}
		catalog.byID[s.ID] = s
		if s.Default && s.Type == "paragraph" && catalog.defaultParagraph == "" {
			catalog.defaultParagraph = s.ID
		}
	}

	return catalog, nil
}

// isOn reads an OOXML on/off value
func isOn(v string) bool {
	return v == "1" || v == "true" || v == "on"
}

// Lookup returns the style with the given id
func (c *StyleCatalog) Lookup(id string) (*Style, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Len returns the number of styles in the catalog
func (c *StyleCatalog) Len() int {
	return len(c.byID)
}

// DefaultParagraphStyle returns the id of the default paragraph style, or ""
func (c *StyleCatalog) DefaultParagraphStyle() string {
	return c.defaultParagraph
}

// ResolveParagraphStyle maps an empty paragraph style id to the default
// paragraph style
func (c *StyleCatalog) ResolveParagraphStyle(id string) string {
	if id == "" {
		return c.defaultParagraph
	}
	return id
}

// IsMarkup reports whether styleID denotes the markup style named markup.
// A style matches by id, by display name, or through its w:link partner,
// which covers the "<Name> Char" character style Word generates for a
// linked paragraph style.
func (c *StyleCatalog) IsMarkup(styleID, markup string) bool {
	if styleID == "" || markup == "" {
		return false
	}
	if styleID == markup {
		return true
	}

	s, ok := c.byID[styleID]
	if !ok {
		return false
	}
	if s.Name == markup || s.Link == markup {
		return true
	}
	if s.Link != "" {
		if linked, ok := c.byID[s.Link]; ok && linked.Name == markup {
			return true
		}
	}
	return false
}
