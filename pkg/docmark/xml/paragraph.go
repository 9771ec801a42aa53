package xml

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Paragraph represents a paragraph in the document
type Paragraph struct {
	node *xmlquery.Node
}

// NewParagraph wraps an existing w:p element
func NewParagraph(n *xmlquery.Node) *Paragraph {
	return &Paragraph{node: n}
}

// Node returns the underlying w:p element
func (p *Paragraph) Node() *xmlquery.Node {
	return p.node
}

// Style returns the paragraph style id from w:pPr/w:pStyle, or "" when the
// paragraph uses the document default
func (p *Paragraph) Style() string {
	pPr := firstChildElement(p.node, "pPr")
	if pPr == nil {
		return ""
	}
	return wordAttr(firstChildElement(pPr, "pStyle"), "val")
}

// SetStyle sets the paragraph style id
func (p *Paragraph) SetStyle(id string) {
	pPr := firstChildElement(p.node, "pPr")
	if pPr == nil {
		pPr = newElement("pPr")
		prependChild(p.node, pPr)
	}
	ps := firstChildElement(pPr, "pStyle")
	if ps == nil {
		ps = newElement("pStyle")
		prependChild(pPr, ps)
	}
	setWordAttr(ps, "val", id)
}

// Runs returns the direct w:r children of the paragraph in document order
func (p *Paragraph) Runs() []*Run {
	nodes := childElements(p.node, "r")
	runs := make([]*Run, len(nodes))
	for i, n := range nodes {
		runs[i] = &Run{node: n}
	}
	return runs
}

// GetText returns the concatenated text of all runs in a paragraph
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.GetText())
	}
	return sb.String()
}

// SetText removes all paragraph content except w:pPr and adds a single
// unstyled run holding text
func (p *Paragraph) SetText(text string) {
	removeChildrenExcept(p.node, "pPr")
	if text != "" {
		xmlquery.AddChild(p.node, newRun(text).node)
	}
}

// InsertParagraphBefore creates a new paragraph containing text directly
// before p and returns it
func (p *Paragraph) InsertParagraphBefore(text string) *Paragraph {
	np := &Paragraph{node: newElement("p")}
	if text != "" {
		xmlquery.AddChild(np.node, newRun(text).node)
	}
	insertBefore(p.node, np.node)
	return np
}

// InsertCopyBefore inserts a deep copy of src directly before p and
// returns the copy. The copy carries no w14:paraId or w14:textId.
func (p *Paragraph) InsertCopyBefore(src *Paragraph) *Paragraph {
	cp := &Paragraph{node: cloneNode(src.node)}
	clearParagraphIDs(cp.node)
	insertBefore(p.node, cp.node)
	return cp
}

// InsertRunAfter creates an unstyled run holding text directly after r
func (p *Paragraph) InsertRunAfter(r *Run, text string) *Run {
	nr := newRun(text)
	insertAfter(r.node, nr.node)
	return nr
}

// Remove detaches the paragraph from its parent
func (p *Paragraph) Remove() {
	xmlquery.RemoveFromTree(p.node)
}

// Same reports whether p and other wrap the same element
func (p *Paragraph) Same(other *Paragraph) bool {
	return other != nil && p.node == other.node
}
