package docmark

import (
	"iter"
	"strings"

	"github.com/benjaminschreck/go-docmark/pkg/docmark/xml"
)

// Tag classifies a run or paragraph as author markup or ordinary content
type Tag int

const (
	TagContent Tag = iota
	TagMarkup
)

func (t Tag) String() string {
	if t == TagMarkup {
		return "markup"
	}
	return "content"
}

// Span is a maximal range of adjacent markup runs within one paragraph.
// End is inclusive and Text is the concatenated run text.
type Span struct {
	Start int
	End   int
	Text  string
}

// Len returns the number of runs in the span
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Scanner finds instruction text in paragraphs by style
type Scanner struct {
	styles *StyleCatalog
	markup string
}

// NewScanner creates a scanner for the markup style named markup
func NewScanner(styles *StyleCatalog, markup string) *Scanner {
	if styles == nil {
		styles = EmptyStyleCatalog()
	}
	return &Scanner{styles: styles, markup: markup}
}

// RunTag returns the tag of a run, from its own character style
func (s *Scanner) RunTag(r *xml.Run) Tag {
	if s.styles.IsMarkup(r.Style(), s.markup) {
		return TagMarkup
	}
	return TagContent
}

// ParagraphTag returns the tag of a paragraph, from its paragraph style
func (s *Scanner) ParagraphTag(p *xml.Paragraph) Tag {
	if s.styles.IsMarkup(s.styles.ResolveParagraphStyle(p.Style()), s.markup) {
		return TagMarkup
	}
	return TagContent
}

// ParagraphInstruction returns the full text of a paragraph whose own style
// is the markup style
func (s *Scanner) ParagraphInstruction(p *xml.Paragraph) (string, bool) {
	if s.ParagraphTag(p) != TagMarkup {
		return "", false
	}
	return p.GetText(), true
}

// Spans yields the markup spans of p in order. Runs are read when iteration
// starts, so each iteration reflects the current paragraph. A span that runs
// to the end of the paragraph is reported too.
func (s *Scanner) Spans(p *xml.Paragraph) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		runs := p.Runs()
		start := -1
		var text strings.Builder

		for i, r := range runs {
			if s.RunTag(r) == TagMarkup {
				if start < 0 {
					start = i
					text.Reset()
				}
				text.WriteString(r.GetText())
				continue
			}
			if start >= 0 {
				if !yield(Span{Start: start, End: i - 1, Text: text.String()}) {
					return
				}
				start = -1
			}
		}

		if start >= 0 {
			yield(Span{Start: start, End: len(runs) - 1, Text: text.String()})
		}
	}
}
