package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FormatError reports that no registered input format could interpret a note
// payload. With the plain-text fallback registered this is unreachable for
// non-empty input; it stays as a safety net against a misconfigured format
// chain.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized note format: %s", e.Reason)
}

// Format interprets one input encoding of a physician note. Detect inspects
// the trimmed raw input and reports whether this format claims it; Extract
// yields the plain note text.
type Format interface {
	Name() string
	Detect(raw string) bool
	Extract(raw string) (string, error)
}

// FormatSet tries formats in priority order, most specific first.
type FormatSet struct {
	formats []Format
}

// NewFormatSet builds a detector over the given formats, tried in order.
func NewFormatSet(formats ...Format) *FormatSet {
	return &FormatSet{formats: formats}
}

// DefaultFormats returns the standard chain: JSON wrapper, then plain text.
func DefaultFormats() *FormatSet {
	return NewFormatSet(jsonFormat{}, plainTextFormat{})
}

// DetectAndExtract classifies raw input and returns the plain note text.
func (s *FormatSet) DetectAndExtract(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, f := range s.formats {
		if f.Detect(trimmed) {
			return f.Extract(trimmed)
		}
	}
	return "", &FormatError{Reason: "no registered format accepts this input"}
}

// wrapperFields are the JSON object keys that may carry the note text, in
// priority order.
var wrapperFields = []string{"data", "note", "text", "content", "physicianNote", "physician_note"}

// jsonFormat handles notes wrapped in a JSON object or array.
type jsonFormat struct{}

func (jsonFormat) Name() string { return "json" }

func (jsonFormat) Detect(raw string) bool {
	if !strings.HasPrefix(raw, "{") && !strings.HasPrefix(raw, "[") {
		return false
	}
	return json.Valid([]byte(raw))
}

func (jsonFormat) Extract(raw string) (string, error) {
	if strings.HasPrefix(raw, "[") {
		return extractFromArray(raw)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", &FormatError{Reason: "malformed JSON object"}
	}

	for _, key := range wrapperFields {
		if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), nil
		}
	}

	// Last resort: every string-valued top-level field, newline-joined.
	// Keys are sorted so repeated runs over the same wrapper are
	// byte-identical.
	var keys []string
	for k, v := range fields {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		// A wrapper with no text is an extraction gap, not a format
		// failure: the empty note degrades to a default result downstream.
		return "", nil
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strings.TrimSpace(fields[k].(string)))
	}
	return strings.Join(parts, "\n"), nil
}

func extractFromArray(raw string) (string, error) {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return "", &FormatError{Reason: "malformed JSON array"}
	}
	var parts []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, "\n"), nil
}

// plainTextFormat accepts any input verbatim. Registered last.
type plainTextFormat struct{}

func (plainTextFormat) Name() string { return "plain" }

func (plainTextFormat) Detect(string) bool { return true }

func (plainTextFormat) Extract(raw string) (string, error) {
	return strings.TrimSpace(raw), nil
}
