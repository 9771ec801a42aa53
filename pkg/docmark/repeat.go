package docmark

import (
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-docmark/pkg/docmark/xml"
)

// RepeatMode selects how a repeat_N block is expanded
type RepeatMode int

const (
	// RepeatSingle inserts one copy of the body whatever N is
	RepeatSingle RepeatMode = iota
	// RepeatCount makes the body appear N times in total; N=0 removes it
	RepeatCount
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatSingle:
		return "single"
	case RepeatCount:
		return "count"
	default:
		return fmt.Sprintf("RepeatMode(%d)", int(m))
	}
}

// ParseRepeatMode parses "single" or "count"
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return RepeatSingle, nil
	case "count":
		return RepeatCount, nil
	default:
		return 0, fmt.Errorf("invalid repeat mode: %q", s)
	}
}

type repeatState int

const (
	repeatIdle repeatState = iota
	repeatInBlock
)

// repeatBlock is a closed block; open and close index the marker paragraphs
type repeatBlock struct {
	open  int
	close int
	count int
}

type anomalyKind int

const (
	anomalySyntax anomalyKind = iota
	anomalyNested
	anomalyOrphanEnd
	anomalyUnclosed
)

// repeatAnomaly is a marker the state machine could not use
type repeatAnomaly struct {
	kind      anomalyKind
	paragraph int
	text      string
	err       error
}

// scanRepeats walks the paragraph-level instructions of paras and returns
// the closed blocks plus every marker it had to skip
func scanRepeats(paras []*xml.Paragraph, scanner *Scanner) ([]repeatBlock, []repeatAnomaly) {
	var (
		blocks    []repeatBlock
		anomalies []repeatAnomaly
		state     = repeatIdle
		open      int
		count     int
	)

	for i, p := range paras {
		text, ok := scanner.ParagraphInstruction(p)
		if !ok {
			continue
		}
		inst, err := Classify(text)
		if err != nil {
			anomalies = append(anomalies, repeatAnomaly{kind: anomalySyntax, paragraph: i, text: text, err: atParagraph(err, i)})
			continue
		}

		switch {
		case inst.Kind == KindRepeatStart && state == repeatIdle:
			open, count = i, inst.Count
			state = repeatInBlock
		case inst.Kind == KindRepeatStart:
			anomalies = append(anomalies, repeatAnomaly{kind: anomalyNested, paragraph: i, text: inst.Key})
		case inst.Kind == KindRepeatEnd && state == repeatInBlock:
			blocks = append(blocks, repeatBlock{open: open, close: i, count: count})
			state = repeatIdle
		case inst.Kind == KindRepeatEnd:
			anomalies = append(anomalies, repeatAnomaly{kind: anomalyOrphanEnd, paragraph: i, text: inst.Key})
		}
	}

	if state == repeatInBlock {
		anomalies = append(anomalies, repeatAnomaly{kind: anomalyUnclosed, paragraph: open, text: strings.TrimSpace(paras[open].GetText())})
	}
	return blocks, anomalies
}

// syntaxErrors collects the bad repeat markers of a scan in document order.
// It returns nil when there are none.
func syntaxErrors(anomalies []repeatAnomaly) error {
	m := NewMultiError()
	for _, a := range anomalies {
		if a.kind == anomalySyntax {
			m.Add(a.err)
		}
	}
	return m.Err()
}

// checkRepeatSyntax reports every bad repeat marker of the body
func checkRepeatSyntax(doc *Document, scanner *Scanner) error {
	_, anomalies := scanRepeats(doc.Body().Paragraphs(), scanner)
	return syntaxErrors(anomalies)
}

// expandRepeats runs the repeat pass over the body paragraphs. Bad repeat
// counts fail the pass before any paragraph is touched.
func (e *Engine) expandRepeats(doc *Document, scanner *Scanner, report *Report) error {
	logger := e.getLogger().WithField("pass", "repeat")
	paras := doc.Body().Paragraphs()
	blocks, anomalies := scanRepeats(paras, scanner)

	if err := syntaxErrors(anomalies); err != nil {
		return err
	}
	for _, a := range anomalies {
		switch a.kind {
		case anomalyNested:
			logger.Warn("ignoring nested %q at paragraph %d", a.text, a.paragraph)
		case anomalyOrphanEnd:
			logger.Warn("ignoring %q at paragraph %d with no open repeat block", a.text, a.paragraph)
		case anomalyUnclosed:
			logger.Debug("repeat block %q at paragraph %d is never closed", a.text, a.paragraph)
		}
	}

	for _, b := range blocks {
		body := paras[b.open+1 : b.close]
		terminator := paras[b.close]

		copies := 1
		if e.config.RepeatMode == RepeatCount {
			copies = b.count - 1
		}

		if copies < 0 {
			for _, p := range body {
				p.Remove()
			}
		}
		for n := 0; n < copies; n++ {
			for _, p := range body {
				terminator.InsertCopyBefore(p)
				report.ParagraphsInserted++
			}
		}

		if e.config.RemoveRepeatMarkers {
			paras[b.open].Remove()
			terminator.Remove()
		}

		report.BlocksExpanded++
		logger.Debug("expanded repeat block at paragraphs %d-%d: %d body paragraphs, %d copies", b.open, b.close, len(body), max(copies, 0))
	}
	return nil
}
