package docmark

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/benjaminschreck/go-docmark/pkg/docmark/xml"
)

// HostPolicy decides where a substituted value goes when every run of the
// paragraph belongs to the instruction span
type HostPolicy int

const (
	// HostRestyle drops the markup style from the first span run and lets it
	// hold the value. The run count does not change.
	HostRestyle HostPolicy = iota
	// HostInsertRun adds a new unstyled run after the span to hold the value
	HostInsertRun
)

func (h HostPolicy) String() string {
	switch h {
	case HostRestyle:
		return "restyle"
	case HostInsertRun:
		return "insert-run"
	default:
		return fmt.Sprintf("HostPolicy(%d)", int(h))
	}
}

// ParseHostPolicy parses "restyle" or "insert-run"
func ParseHostPolicy(s string) (HostPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "restyle":
		return HostRestyle, nil
	case "insert-run", "insert_run", "insert":
		return HostInsertRun, nil
	default:
		return 0, fmt.Errorf("invalid host policy: %q", s)
	}
}

// splitSpace returns the leading and trailing whitespace of s. For an
// all-space s the whole string is leading.
func splitSpace(s string) (lead, trail string) {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	lead = s[:len(s)-len(rest)]
	core := strings.TrimRightFunc(rest, unicode.IsSpace)
	trail = rest[len(core):]
	return lead, trail
}

// ReplaceSpan writes value in place of the instruction held by span.
// The whitespace around the merged instruction text is kept around the
// value, which is appended to the run before the span or, when the span
// starts the paragraph, prepended to the run after it. Every span run is
// then emptied; no run is removed.
func ReplaceSpan(p *xml.Paragraph, span Span, value string, policy HostPolicy) error {
	runs := p.Runs()
	if span.Start < 0 || span.Start > span.End || span.End >= len(runs) {
		return fmt.Errorf("span [%d,%d] out of range for %d runs", span.Start, span.End, len(runs))
	}

	var merged strings.Builder
	for _, r := range runs[span.Start : span.End+1] {
		merged.WriteString(r.GetText())
	}
	lead, trail := splitSpace(merged.String())
	replacement := lead + value + trail

	for _, r := range runs[span.Start : span.End+1] {
		r.SetText("")
	}

	switch {
	case span.Start > 0:
		runs[span.Start-1].AppendText(replacement)
	case span.End+1 < len(runs):
		runs[span.End+1].PrependText(replacement)
	case policy == HostInsertRun:
		p.InsertRunAfter(runs[span.End], replacement)
	default:
		host := runs[span.Start]
		host.SetStyle("")
		host.SetText(replacement)
	}
	return nil
}

// ReplaceParagraph replaces the first occurrence of key in the paragraph
// text with value. The paragraph keeps its properties and ends up with a
// single run.
func ReplaceParagraph(p *xml.Paragraph, key, value string) {
	p.SetText(strings.Replace(p.GetText(), key, value, 1))
}

// substituteVariables runs the variable pass over the body paragraphs
func (e *Engine) substituteVariables(doc *Document, vars Variables, scanner *Scanner, report *Report) error {
	logger := e.getLogger().WithField("pass", "variables")

	for i, p := range doc.Body().Paragraphs() {
		if text, ok := scanner.ParagraphInstruction(p); ok {
			inst, err := Classify(text)
			if err != nil {
				return atParagraph(err, i)
			}
			if inst.Kind == KindVariable {
				if value, found := vars[inst.Key]; found {
					ReplaceParagraph(p, inst.Key, value)
					report.VariablesSubstituted++
					logger.Debug("substituted paragraph variable %q at paragraph %d", inst.Key, i)
				} else {
					report.unresolved(inst.Key)
				}
			}
		}

		for span := range scanner.Spans(p) {
			inst := ClassifySpan(span.Text)
			if inst.Kind != KindVariable {
				continue
			}
			value, found := vars[inst.Key]
			if !found {
				report.unresolved(inst.Key)
				logger.Debug("no value for %q at paragraph %d", inst.Key, i)
				continue
			}

			hostless := span.Start == 0 && span.End == len(p.Runs())-1
			if err := ReplaceSpan(p, span, value, e.config.HostPolicy); err != nil {
				return WithContext(err, "replace span", map[string]interface{}{
					"paragraph": i,
					"key":       inst.Key,
				})
			}
			if hostless {
				logger.Warn("paragraph %d holds only instruction runs; value for %q placed by %s policy", i, inst.Key, e.config.HostPolicy)
			}
			report.VariablesSubstituted++
		}
	}
	return nil
}
