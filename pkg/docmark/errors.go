package docmark

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TemplateSyntaxError reports an instruction that looks like a directive but
// cannot be parsed, such as a repeat opener with a bad count
type TemplateSyntaxError struct {
	Instruction string
	// Paragraph is the body paragraph index, or -1 when unknown
	Paragraph int
	Cause     error
}

func (e *TemplateSyntaxError) Error() string {
	if e.Paragraph >= 0 {
		return fmt.Sprintf("template syntax error in paragraph %d near '%s': %v", e.Paragraph, e.Instruction, e.Cause)
	}
	return fmt.Sprintf("template syntax error near '%s': %v", e.Instruction, e.Cause)
}

func (e *TemplateSyntaxError) Unwrap() error {
	return e.Cause
}

// NewTemplateSyntaxError creates a syntax error without position information
func NewTemplateSyntaxError(instruction string, cause error) error {
	return &TemplateSyntaxError{
		Instruction: instruction,
		Paragraph:   -1,
		Cause:       cause,
	}
}

// atParagraph returns err with its paragraph index set when err is a
// *TemplateSyntaxError
func atParagraph(err error, index int) error {
	var syn *TemplateSyntaxError
	if errors.As(err, &syn) {
		cp := *syn
		cp.Paragraph = index
		return &cp
	}
	return err
}

// DocumentLoadError represents a failure to open or parse a DOCX package
type DocumentLoadError struct {
	Path  string
	Cause error
}

func (e *DocumentLoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to load document '%s': %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to load document: %v", e.Cause)
}

func (e *DocumentLoadError) Unwrap() error {
	return e.Cause
}

// NewDocumentLoadError creates a new load error
func NewDocumentLoadError(path string, cause error) error {
	return &DocumentLoadError{Path: path, Cause: cause}
}

// DocumentSaveError represents a failure to write a DOCX package
type DocumentSaveError struct {
	Path  string
	Cause error
}

func (e *DocumentSaveError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to save document '%s': %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to save document: %v", e.Cause)
}

func (e *DocumentSaveError) Unwrap() error {
	return e.Cause
}

// NewDocumentSaveError creates a new save error
func NewDocumentSaveError(path string, cause error) error {
	return &DocumentSaveError{Path: path, Cause: cause}
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var contextParts []string
	for _, k := range keys {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsTemplateSyntaxError checks if an error is a template syntax error
func IsTemplateSyntaxError(err error) bool {
	var syn *TemplateSyntaxError
	return errors.As(err, &syn)
}

// IsDocumentLoadError checks if an error is a document load error
func IsDocumentLoadError(err error) bool {
	var le *DocumentLoadError
	return errors.As(err, &le)
}

// IsDocumentSaveError checks if an error is a document save error
func IsDocumentSaveError(err error) bool {
	var se *DocumentSaveError
	return errors.As(err, &se)
}
