package docmark

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Instruction prefixes
const (
	repeatPrefix = "repeat_"
	endPrefix    = "end"
)

// Kind is the kind of a classified instruction
type Kind int

const (
	KindUnrecognized Kind = iota
	KindVariable
	KindRepeatStart
	KindRepeatEnd
	KindTableMarker
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindRepeatStart:
		return "repeat-start"
	case KindRepeatEnd:
		return "repeat-end"
	case KindTableMarker:
		return "table-marker"
	default:
		return "unrecognized"
	}
}

// MarshalText renders the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Instruction is the result of classifying instruction text
type Instruction struct {
	Kind Kind
	// Key is the trimmed text; for variables it is the lookup key
	Key string
	// Count is the repetition count of a repeat opener
	Count int
}

// MaxRepeatCount is the largest count a repeat_N opener may carry
const MaxRepeatCount = 1000

var (
	errBadRepeatCount      = errors.New("repeat count must be a non-negative integer")
	errRepeatCountTooLarge = errors.New("repeat count is too large")
)

// Classify determines the kind of an instruction from its merged text.
// Only a repeat opener with a bad count is an error.
func Classify(text string) (Instruction, error) {
	key := strings.TrimSpace(text)

	switch {
	case key == "":
		return Instruction{Kind: KindUnrecognized}, nil

	case strings.HasPrefix(key, repeatPrefix):
		count, err := parseCount(key[len(repeatPrefix):])
		if err != nil {
			return Instruction{}, NewTemplateSyntaxError(key, err)
		}
		return Instruction{Kind: KindRepeatStart, Key: key, Count: count}, nil

	case strings.HasPrefix(key, endPrefix):
		return Instruction{Kind: KindRepeatEnd, Key: key}, nil

	default:
		return Instruction{Kind: KindVariable, Key: key}, nil
	}
}

// ClassifySpan classifies the merged text of a run-level markup span.
// Repeat markers only exist at paragraph level, so any non-blank span is a
// variable reference, including text starting with repeat_ or end.
func ClassifySpan(text string) Instruction {
	key := strings.TrimSpace(text)
	if key == "" {
		return Instruction{Kind: KindUnrecognized}
	}
	return Instruction{Kind: KindVariable, Key: key}
}

// ClassifyCell classifies a markup paragraph inside a table cell. Cells only
// support whole-paragraph marking.
func ClassifyCell(text string) Instruction {
	return Instruction{Kind: KindTableMarker, Key: strings.TrimSpace(text)}
}

// parseCount accepts base-10 digits only; signs and spaces are rejected.
// Counts above MaxRepeatCount are rejected too.
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, errBadRepeatCount
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, errBadRepeatCount
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadRepeatCount, err)
	}
	if n > MaxRepeatCount {
		return 0, fmt.Errorf("%w: %d exceeds %d", errRepeatCountTooLarge, n, MaxRepeatCount)
	}
	return n, nil
}
