// Package docmark processes DOCX templates whose instructions are marked by
// a dedicated paragraph or character style.
//
// Authors write instructions in ordinary Word text and apply the markup
// style (CoupaMarkUp by default) to them. docmark finds that text and
// rewrites the document in place:
//
//   - a styled variable name, even when Word split it over several runs, is
//     replaced by its value with the surrounding whitespace kept
//   - paragraphs between a repeat_N paragraph and an end paragraph are
//     duplicated
//   - styled paragraphs inside table cells are replaced by a marker
//
// Basic Usage:
//
//	report, err := docmark.ProcessDocument("template.docx", "out.docx", docmark.Variables{
//	    "Val_1": "Replacement Value",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.VariablesSubstituted, report.Digest)
//
// For finer control load the document yourself:
//
//	doc, err := docmark.Load("template.docx")
//	...
//	engine := docmark.NewWithOptions(docmark.WithRepeatMode(docmark.RepeatCount))
//	report, err := engine.Process(doc, vars)
//	...
//	result, err := doc.Save("out.docx")
package docmark

import (
	"sort"
)

// Variables maps trimmed instruction text to replacement values
type Variables map[string]string

// Report summarizes one processing run
type Report struct {
	VariablesSubstituted int
	// Unresolved counts variable instructions with no value, by key
	Unresolved         map[string]int
	CellsMarked        int
	BlocksExpanded     int
	ParagraphsInserted int

	// Set when the document was saved
	OutputPath string
	Size       int64
	Digest     string
}

func newReport() *Report {
	return &Report{Unresolved: make(map[string]int)}
}

func (r *Report) unresolved(key string) {
	r.Unresolved[key]++
}

// UnresolvedKeys returns the keys of unresolved instructions, sorted
func (r *Report) UnresolvedKeys() []string {
	keys := make([]string, 0, len(r.Unresolved))
	for k := range r.Unresolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Engine runs the processing passes over loaded documents.
// Use New() to create a new engine instance.
type Engine struct {
	config *Config
	logger *Logger
}

// New creates a new engine with the global configuration.
func New() *Engine {
	return &Engine{
		config: GetGlobalConfig(),
	}
}

// NewWithConfig creates a new engine with custom configuration.
// Unset fields take their defaults.
func NewWithConfig(config *Config) *Engine {
	return &Engine{
		config: NewConfigWithDefaults(config),
	}
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = NewConfigWithDefaults(config)
	}
}

// WithLogger returns an option that sets the engine logger.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMarkupStyle returns an option that sets the markup style name.
func WithMarkupStyle(name string) Option {
	return func(e *Engine) {
		e.config.MarkupStyle = name
	}
}

// WithProcessedText returns an option that sets the table cell marker.
func WithProcessedText(text string) Option {
	return func(e *Engine) {
		e.config.ProcessedText = text
	}
}

// WithRepeatMode returns an option that sets the repeat expansion mode.
func WithRepeatMode(mode RepeatMode) Option {
	return func(e *Engine) {
		e.config.RepeatMode = mode
	}
}

// WithHostPolicy returns an option that sets the host policy for
// instruction-only paragraphs.
func WithHostPolicy(policy HostPolicy) Option {
	return func(e *Engine) {
		e.config.HostPolicy = policy
	}
}

// WithRemoveRepeatMarkers returns an option that removes repeat marker
// paragraphs after expansion.
func WithRemoveRepeatMarkers(remove bool) Option {
	return func(e *Engine) {
		e.config.RemoveRepeatMarkers = remove
	}
}

// NewWithOptions creates a new engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	engine := New()
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *Config {
	c := *e.config
	return &c
}

func (e *Engine) getLogger() *Logger {
	if e.logger != nil {
		return e.logger
	}
	return GetLogger()
}

func (e *Engine) scanner(doc *Document) *Scanner {
	return NewScanner(doc.Styles(), e.config.MarkupStyle)
}

// Process runs the variable, table and repeat passes over doc, in that
// order. Paragraphs created by the repeat pass are not scanned for
// variables. vars is not modified.
//
// Repeat markers are checked first: when any count is malformed the
// document is left untouched and every bad marker is reported, joined in a
// *MultiError when there is more than one.
func (e *Engine) Process(doc *Document, vars Variables) (*Report, error) {
	if err := e.config.Validate(); err != nil {
		return nil, WithContext(err, "process", map[string]interface{}{"stage": "config"})
	}

	logger := e.getLogger().WithField("markup", e.config.MarkupStyle)
	if doc.Path() != "" {
		logger = logger.WithField("document", doc.Path())
	}

	scanner := e.scanner(doc)
	report := newReport()

	if err := checkRepeatSyntax(doc, scanner); err != nil {
		return nil, err
	}

	if err := e.substituteVariables(doc, vars, scanner, report); err != nil {
		return nil, err
	}
	e.markTableCells(doc, scanner, report)
	if err := e.expandRepeats(doc, scanner, report); err != nil {
		return nil, err
	}

	logger.WithFields(Fields{
		"substituted": report.VariablesSubstituted,
		"unresolved":  len(report.Unresolved),
		"cells":       report.CellsMarked,
		"blocks":      report.BlocksExpanded,
	}).Info("processed document")
	return report, nil
}

// ProcessDocument loads inputPath, processes it with vars and saves the
// result to outputPath.
func (e *Engine) ProcessDocument(inputPath, outputPath string, vars Variables) (*Report, error) {
	doc, err := Load(inputPath)
	if err != nil {
		return nil, err
	}

	report, err := e.Process(doc, vars)
	if err != nil {
		return nil, err
	}

	result, err := doc.Save(outputPath)
	if err != nil {
		return nil, err
	}
	report.OutputPath = result.Path
	report.Size = result.Size
	report.Digest = result.Digest

	e.getLogger().WithFields(Fields{
		"output": result.Path,
		"bytes":  result.Size,
		"digest": result.Digest,
	}).Debug("saved document")
	return report, nil
}

// DefaultEngine is the global default engine instance.
// It uses the global configuration.
var DefaultEngine = New()

// ProcessDocument processes a template file using the default engine.
func ProcessDocument(inputPath, outputPath string, vars Variables) (*Report, error) {
	return DefaultEngine.ProcessDocument(inputPath, outputPath, vars)
}

// Inspect lists the instructions of doc using the default engine.
func Inspect(doc *Document, vars Variables) *InspectionResult {
	return DefaultEngine.Inspect(doc, vars)
}
