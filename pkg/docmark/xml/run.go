package xml

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Run represents a run of text with common properties
type Run struct {
	node *xmlquery.Node
}

// newRun creates a detached, unstyled w:r element holding text
func newRun(text string) *Run {
	r := &Run{node: newElement("r")}
	r.SetText(text)
	return r
}

// Node returns the underlying w:r element
func (r *Run) Node() *xmlquery.Node {
	return r.node
}

// Style returns the run style id from w:rPr/w:rStyle, or "" when unstyled
func (r *Run) Style() string {
	rPr := firstChildElement(r.node, "rPr")
	if rPr == nil {
		return ""
	}
	return wordAttr(firstChildElement(rPr, "rStyle"), "val")
}

// SetStyle sets the run style id. An empty id removes the run style.
func (r *Run) SetStyle(id string) {
	rPr := firstChildElement(r.node, "rPr")
	if id == "" {
		if rPr != nil {
			if rs := firstChildElement(rPr, "rStyle"); rs != nil {
				xmlquery.RemoveFromTree(rs)
			}
		}
		return
	}
	if rPr == nil {
		rPr = newElement("rPr")
		prependChild(r.node, rPr)
	}
	rs := firstChildElement(rPr, "rStyle")
	if rs == nil {
		rs = newElement("rStyle")
		// rStyle is the first child of rPr in the schema
		prependChild(rPr, rs)
	}
	setWordAttr(rs, "val", id)
}

// GetText returns the text content of a run. Tabs read as "\t" and
// text-wrapping breaks as "\n".
func (r *Run) GetText() string {
	var sb strings.Builder
	for c := r.node.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case isWordElement(c, "t"):
			sb.WriteString(c.InnerText())
		case isWordElement(c, "tab"):
			sb.WriteByte('\t')
		case isWordElement(c, "cr"):
			sb.WriteByte('\n')
		case isWordElement(c, "br"):
			if t := wordAttr(c, "type"); t == "" || t == "textWrapping" {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// SetText replaces the run content with text, keeping w:rPr
func (r *Run) SetText(text string) {
	removeChildrenExcept(r.node, "rPr")
	for _, n := range textNodes(text) {
		xmlquery.AddChild(r.node, n)
	}
}

// AppendText adds text after the existing run content
func (r *Run) AppendText(text string) {
	for _, n := range textNodes(text) {
		xmlquery.AddChild(r.node, n)
	}
}

// PrependText adds text before the existing run content (after w:rPr)
func (r *Run) PrependText(text string) {
	nodes := textNodes(text)
	if len(nodes) == 0 {
		return
	}
	anchor := r.node.FirstChild
	for anchor != nil && isWordElement(anchor, "rPr") {
		anchor = anchor.NextSibling
	}
	for _, n := range nodes {
		if anchor == nil {
			xmlquery.AddChild(r.node, n)
		} else {
			insertBefore(anchor, n)
		}
	}
}

// textNodes converts text into w:t, w:tab and w:br elements
func textNodes(text string) []*xmlquery.Node {
	var out []*xmlquery.Node
	var pending strings.Builder
	flush := func() {
		if pending.Len() == 0 {
			return
		}
		t := newElement("t")
		preserveSpace(t)
		xmlquery.AddChild(t, newText(pending.String()))
		out = append(out, t)
		pending.Reset()
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			out = append(out, newElement("tab"))
		case '\n':
			flush()
			out = append(out, newElement("br"))
		default:
			pending.WriteRune(ch)
		}
	}
	flush()
	return out
}
