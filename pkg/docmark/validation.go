package docmark

import (
	"fmt"
	"strings"
)

// IssueSeverity indicates inspection issue severity.
type IssueSeverity string

const (
	IssueSeverityError   IssueSeverity = "error"
	IssueSeverityWarning IssueSeverity = "warning"
)

// IssueCode identifies the kind of problem found by Inspect.
type IssueCode string

const (
	IssueCodeSyntaxError     IssueCode = "SYNTAX_ERROR"
	IssueCodeUnclosedRepeat  IssueCode = "UNCLOSED_REPEAT"
	IssueCodeOrphanEnd       IssueCode = "ORPHAN_END"
	IssueCodeNestedRepeat    IssueCode = "NESTED_REPEAT"
	IssueCodeUnknownVariable IssueCode = "UNKNOWN_VARIABLE"
	IssueCodeNoHostRun       IssueCode = "NO_HOST_RUN"
)

// InstructionLevel tells where an instruction was found.
type InstructionLevel string

const (
	LevelParagraph InstructionLevel = "paragraph"
	LevelRun       InstructionLevel = "run"
	LevelCell      InstructionLevel = "cell"
)

// InstructionLocation identifies an instruction in word/document.xml.
// Paragraph indexes body paragraphs, or cell paragraphs for LevelCell.
// Unused fields are -1.
type InstructionLocation struct {
	Paragraph int `json:"paragraph"`
	RunStart  int `json:"runStart"`
	RunEnd    int `json:"runEnd"`
	Table     int `json:"table"`
	Row       int `json:"row"`
	Cell      int `json:"cell"`
}

func (l InstructionLocation) String() string {
	var sb strings.Builder
	if l.Table >= 0 {
		fmt.Fprintf(&sb, "table %d row %d cell %d ", l.Table, l.Row, l.Cell)
	}
	fmt.Fprintf(&sb, "paragraph %d", l.Paragraph)
	if l.RunStart >= 0 {
		if l.RunStart == l.RunEnd {
			fmt.Fprintf(&sb, " run %d", l.RunStart)
		} else {
			fmt.Fprintf(&sb, " runs %d-%d", l.RunStart, l.RunEnd)
		}
	}
	return sb.String()
}

// InstructionRef is one instruction found in the document.
type InstructionRef struct {
	Level    InstructionLevel    `json:"level"`
	Kind     Kind                `json:"kind"`
	Raw      string              `json:"raw"`
	Key      string              `json:"key,omitempty"`
	Count    int                 `json:"count,omitempty"`
	Location InstructionLocation `json:"location"`
}

// Issue is a problem found by Inspect.
type Issue struct {
	Severity IssueSeverity       `json:"severity"`
	Code     IssueCode           `json:"code"`
	Message  string              `json:"message"`
	Location InstructionLocation `json:"location"`
}

// InspectionResult lists the instructions and issues of a template.
type InspectionResult struct {
	Instructions     []InstructionRef `json:"instructions"`
	Issues           []Issue          `json:"issues"`
	TemplateRevision string           `json:"templateRevision"`
}

// Valid reports whether no error-severity issue was found.
func (r *InspectionResult) Valid() bool {
	return r.ErrorCount() == 0
}

// ErrorCount returns the number of error-severity issues.
func (r *InspectionResult) ErrorCount() int {
	return r.count(IssueSeverityError)
}

// WarningCount returns the number of warning-severity issues.
func (r *InspectionResult) WarningCount() int {
	return r.count(IssueSeverityWarning)
}

func (r *InspectionResult) count(sev IssueSeverity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

func bodyLocation(paragraph, runStart, runEnd int) InstructionLocation {
	return InstructionLocation{Paragraph: paragraph, RunStart: runStart, RunEnd: runEnd, Table: -1, Row: -1, Cell: -1}
}

// Inspect lists every instruction of doc without modifying it. Unknown
// variables are reported only when vars is not nil.
func (e *Engine) Inspect(doc *Document, vars Variables) *InspectionResult {
	result := &InspectionResult{TemplateRevision: doc.Revision()}
	scanner := e.scanner(doc)

	add := func(level InstructionLevel, raw string, loc InstructionLocation) {
		ref := InstructionRef{Level: level, Raw: raw, Location: loc}
		var (
			inst Instruction
			err  error
		)
		if level == LevelRun {
			inst = ClassifySpan(raw)
		} else {
			inst, err = Classify(raw)
		}
		if err != nil {
			result.Issues = append(result.Issues, Issue{
				Severity: IssueSeverityError,
				Code:     IssueCodeSyntaxError,
				Message:  err.Error(),
				Location: loc,
			})
			result.Instructions = append(result.Instructions, ref)
			return
		}
		ref.Kind, ref.Key, ref.Count = inst.Kind, inst.Key, inst.Count
		result.Instructions = append(result.Instructions, ref)

		if inst.Kind != KindVariable || vars == nil {
			return
		}
		if _, ok := vars[inst.Key]; !ok {
			result.Issues = append(result.Issues, Issue{
				Severity: IssueSeverityWarning,
				Code:     IssueCodeUnknownVariable,
				Message:  fmt.Sprintf("no value for variable %q", inst.Key),
				Location: loc,
			})
		}
	}

	paras := doc.Body().Paragraphs()
	for i, p := range paras {
		if text, ok := scanner.ParagraphInstruction(p); ok {
			add(LevelParagraph, text, bodyLocation(i, -1, -1))
		}

		runCount := len(p.Runs())
		for span := range scanner.Spans(p) {
			loc := bodyLocation(i, span.Start, span.End)
			add(LevelRun, span.Text, loc)
			if span.Start == 0 && span.End == runCount-1 && strings.TrimSpace(span.Text) != "" {
				result.Issues = append(result.Issues, Issue{
					Severity: IssueSeverityWarning,
					Code:     IssueCodeNoHostRun,
					Message:  fmt.Sprintf("paragraph holds only instruction runs; a value for %q is placed by the %s policy", strings.TrimSpace(span.Text), e.config.HostPolicy),
					Location: loc,
				})
			}
		}
	}

	_, anomalies := scanRepeats(paras, scanner)
	for _, a := range anomalies {
		loc := bodyLocation(a.paragraph, -1, -1)
		switch a.kind {
		case anomalyNested:
			result.Issues = append(result.Issues, Issue{
				Severity: IssueSeverityWarning,
				Code:     IssueCodeNestedRepeat,
				Message:  fmt.Sprintf("%q inside an open repeat block is ignored", a.text),
				Location: loc,
			})
		case anomalyOrphanEnd:
			result.Issues = append(result.Issues, Issue{
				Severity: IssueSeverityWarning,
				Code:     IssueCodeOrphanEnd,
				Message:  fmt.Sprintf("%q has no open repeat block", a.text),
				Location: loc,
			})
		case anomalyUnclosed:
			result.Issues = append(result.Issues, Issue{
				Severity: IssueSeverityWarning,
				Code:     IssueCodeUnclosedRepeat,
				Message:  fmt.Sprintf("%q is never closed and will not expand", a.text),
				Location: loc,
			})
		}
	}

	for ti, table := range doc.Body().Tables() {
		for ri, row := range table.Rows() {
			for ci, cell := range row.Cells() {
				for pi, p := range cell.Paragraphs() {
					text, ok := scanner.ParagraphInstruction(p)
					if !ok {
						continue
					}
					inst := ClassifyCell(text)
					result.Instructions = append(result.Instructions, InstructionRef{
						Level: LevelCell,
						Kind:  inst.Kind,
						Raw:   text,
						Key:   inst.Key,
						Location: InstructionLocation{
							Paragraph: pi, RunStart: -1, RunEnd: -1,
							Table: ti, Row: ri, Cell: ci,
						},
					})
				}
			}
		}
	}

	return result
}
