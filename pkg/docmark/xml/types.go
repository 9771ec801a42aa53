package xml

import (
	"encoding/xml"

	"github.com/antchfx/xmlquery"
)

// Namespace URIs used by the element helpers
const (
	WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	XMLNamespace  = "http://www.w3.org/XML/1998/namespace"
)

// wordPrefix is the prefix Word uses for WordprocessingML elements
const wordPrefix = "w"

// newElement creates a detached w: element
func newElement(local string) *xmlquery.Node {
	return &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         local,
		Prefix:       wordPrefix,
		NamespaceURI: WordNamespace,
	}
}

// newText creates a detached text node
func newText(s string) *xmlquery.Node {
	return &xmlquery.Node{
		Type: xmlquery.TextNode,
		Data: s,
	}
}

// isWordElement reports whether n is the WordprocessingML element named local
func isWordElement(n *xmlquery.Node, local string) bool {
	if n == nil || n.Type != xmlquery.ElementNode || n.Data != local {
		return false
	}
	return n.NamespaceURI == WordNamespace || n.Prefix == wordPrefix
}

// childElements returns the direct children of n that are w:<local> elements
func childElements(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isWordElement(c, local) {
			out = append(out, c)
		}
	}
	return out
}

// firstChildElement returns the first direct w:<local> child of n, or nil
func firstChildElement(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isWordElement(c, local) {
			return c
		}
	}
	return nil
}

// wordAttr returns the value of the w:<local> attribute
func wordAttr(n *xmlquery.Node, local string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Name.Local == local && (a.Name.Space == wordPrefix || a.NamespaceURI == WordNamespace) {
			return a.Value
		}
	}
	return ""
}

// setWordAttr sets (or adds) the w:<local> attribute
func setWordAttr(n *xmlquery.Node, local, value string) {
	for i, a := range n.Attr {
		if a.Name.Local == local && (a.Name.Space == wordPrefix || a.NamespaceURI == WordNamespace) {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{
		Name:         xml.Name{Space: wordPrefix, Local: local},
		Value:        value,
		NamespaceURI: WordNamespace,
	})
}

// preserveSpace marks a w:t element so Word keeps leading and trailing blanks
func preserveSpace(n *xmlquery.Node) {
	for _, a := range n.Attr {
		if a.Name.Local == "space" && (a.Name.Space == "xml" || a.NamespaceURI == XMLNamespace) {
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{
		Name:         xml.Name{Space: "xml", Local: "space"},
		Value:        "preserve",
		NamespaceURI: XMLNamespace,
	})
}

// insertBefore links n into the tree as the previous sibling of ref
func insertBefore(ref, n *xmlquery.Node) {
	n.Parent = ref.Parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if ref.Parent != nil {
		ref.Parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// insertAfter links n into the tree as the next sibling of ref
func insertAfter(ref, n *xmlquery.Node) {
	if ref.NextSibling != nil {
		insertBefore(ref.NextSibling, n)
		return
	}
	if ref.Parent != nil {
		xmlquery.AddChild(ref.Parent, n)
		return
	}
	ref.NextSibling = n
	n.PrevSibling = ref
}

// prependChild links n as the first child of parent
func prependChild(parent, n *xmlquery.Node) {
	if parent.FirstChild == nil {
		xmlquery.AddChild(parent, n)
		return
	}
	insertBefore(parent.FirstChild, n)
}

// cloneNode returns a detached deep copy of n
func cloneNode(n *xmlquery.Node) *xmlquery.Node {
	cp := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if len(n.Attr) > 0 {
		cp.Attr = make([]xmlquery.Attr, len(n.Attr))
		copy(cp.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		xmlquery.AddChild(cp, cloneNode(c))
	}
	return cp
}

// w14Prefix is the prefix of the Word 2010 extension namespace
const w14Prefix = "w14"

// clearParagraphIDs drops w14:paraId and w14:textId from n and its
// descendants. Word requires both to be unique within a part.
func clearParagraphIDs(n *xmlquery.Node) {
	if len(n.Attr) > 0 {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if a.Name.Space == w14Prefix && (a.Name.Local == "paraId" || a.Name.Local == "textId") {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clearParagraphIDs(c)
	}
}

// removeChildrenExcept detaches every child of n except w:<keep> elements
func removeChildrenExcept(n *xmlquery.Node, keep string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !isWordElement(c, keep) {
			xmlquery.RemoveFromTree(c)
		}
		c = next
	}
}
