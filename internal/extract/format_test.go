package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAndExtractPlainText(t *testing.T) {
	formats := DefaultFormats()

	note, err := formats.DetectAndExtract("  Patient needs a CPAP.  \n")
	require.NoError(t, err)
	assert.Equal(t, "Patient needs a CPAP.", note)
}

func TestDetectAndExtractJSONPriorityFields(t *testing.T) {
	formats := DefaultFormats()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "data field",
			raw:  `{"data": "note from data", "note": "note from note"}`,
			want: "note from data",
		},
		{
			name: "note field",
			raw:  `{"note": "note from note", "text": "note from text"}`,
			want: "note from note",
		},
		{
			name: "snake case physician note",
			raw:  `{"physician_note": "Patient needs oxygen."}`,
			want: "Patient needs oxygen.",
		},
		{
			name: "camel case physician note",
			raw:  `{"physicianNote": "Patient needs a wheelchair."}`,
			want: "Patient needs a wheelchair.",
		},
		{
			name: "whitespace trimmed",
			raw:  `{"note": "  padded note  "}`,
			want: "padded note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := formats.DetectAndExtract(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, note)
		})
	}
}

func TestDetectAndExtractJSONFallbackConcatenation(t *testing.T) {
	formats := DefaultFormats()

	// No priority field present: all string values, newline-joined in
	// stable key order.
	note, err := formats.DetectAndExtract(`{"b": "second line", "a": "first line", "n": 42}`)
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line", note)
}

func TestDetectAndExtractJSONArray(t *testing.T) {
	formats := DefaultFormats()

	note, err := formats.DetectAndExtract(`["line one", "line two", 3]`)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", note)
}

func TestDetectAndExtractJSONWithoutText(t *testing.T) {
	formats := DefaultFormats()

	// A wrapper carrying no note text degrades to an empty note; it is not
	// a format failure.
	note, err := formats.DetectAndExtract(`{"count": 3, "ok": true}`)
	require.NoError(t, err)
	assert.Empty(t, note)
}

func TestDetectAndExtractMalformedJSONFallsBackToPlainText(t *testing.T) {
	formats := DefaultFormats()

	// Looks like JSON but is not: the JSON format declines it and the
	// plain-text fallback returns it verbatim.
	raw := `{"note": "unterminated`
	note, err := formats.DetectAndExtract(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, note)
}

func TestDetectAndExtractNoFormats(t *testing.T) {
	// With an empty chain the safety-net error becomes reachable.
	formats := NewFormatSet()

	_, err := formats.DetectAndExtract("anything")
	require.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}
