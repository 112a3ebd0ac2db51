package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name string
		note string
		want DeviceType
	}{
		{"cpap", "Patient needs a CPAP machine.", DeviceCPAP},
		{"cpap lowercase", "patient needs a cpap", DeviceCPAP},
		{"oxygen", "Requires a portable oxygen tank.", DeviceOxygenTank},
		{"wheelchair", "Needs a manual Wheelchair.", DeviceWheelchair},
		{"none", "Patient needs some medical equipment.", DeviceUnknown},
		// Priority order: CPAP outranks oxygen even when both appear.
		{"cpap before oxygen", "CPAP therapy with supplemental oxygen.", DeviceCPAP},
		{"oxygen before wheelchair", "oxygen tank and a wheelchair", DeviceOxygenTank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyDevice(tt.note))
		})
	}
}

func TestExtractProvider(t *testing.T) {
	tests := []struct {
		name string
		note string
		want string
	}{
		{"labelled dr", "Ordering Physician: Dr. Cuddy", "Dr. Cuddy"},
		{"ordered by", "Ordered by Dr. Unknown.", "Dr. Unknown"},
		{"physician label", "Physician: Dr. Gregory House", "Dr. Gregory House"},
		{"credential suffix", "Ordering Physician: Dr. James Wilson, MD", "Dr. James Wilson, MD"},
		{"middle initial", "Ordered by Dr. Lisa B. Cuddy", "Dr. Lisa B. Cuddy"},
		{"no dr with credential", "Physician: Allison Cameron, MD", "Allison Cameron, MD"},
		{"bare dr fallback", "Follow up scheduled with Dr. Chase next week.", "Dr. Chase"},
		{"bare credential fallback", "Reviewed by Robert Chase, DO during rounds.", "Robert Chase, DO"},
		{"no provider", "Patient requires a walker.", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractProvider(tt.note))
		})
	}
}

func TestExtractProviderLengthValidation(t *testing.T) {
	// An absurdly long captured name fails the sanity check and the chain
	// falls through to Unknown.
	long := "Dr. " + strings.Repeat("Aa", 60)
	note := "Ordering Physician: " + long

	assert.Equal(t, "Unknown", extractProvider(note))
}

func TestValidProviderName(t *testing.T) {
	assert.False(t, validProviderName("Dr."))
	assert.False(t, validProviderName("ab"))
	assert.True(t, validProviderName("Dr. Cuddy"))
	assert.False(t, validProviderName(strings.Repeat("x", 100)))
	assert.True(t, validProviderName(strings.Repeat("x", 99)))
}

func TestExtractCommonFields(t *testing.T) {
	note := "Patient Name: Harold Finch\nDOB: 04/12/1952\nDiagnosis: COPD\n" +
		"Prescription: Requires a portable oxygen tank delivering 2 L per minute.\n" +
		"Ordering Physician: Dr. Cuddy"

	r := ExtractCommon(note)

	assert.Equal(t, DeviceOxygenTank, r.Device)
	assert.Equal(t, "Dr. Cuddy", r.OrderingProvider)
	assert.Equal(t, "Harold Finch", r.PatientName)
	assert.Equal(t, "04/12/1952", r.DateOfBirth)
	assert.Equal(t, "COPD", r.Diagnosis)
}

func TestExtractCommonMissingFieldsStayAbsent(t *testing.T) {
	r := ExtractCommon("Patient needs a CPAP.")

	assert.Equal(t, DeviceCPAP, r.Device)
	assert.Equal(t, "Unknown", r.OrderingProvider)
	assert.Empty(t, r.PatientName)
	assert.Empty(t, r.DateOfBirth)
	assert.Empty(t, r.Diagnosis)
}

func TestExtractCommonDOBCapturedVerbatim(t *testing.T) {
	// No calendar validation: the literal digits are kept as written.
	r := ExtractCommon("oxygen tank\nDOB: 13/45/9999")
	assert.Equal(t, "13/45/9999", r.DateOfBirth)
}
