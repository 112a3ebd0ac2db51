package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cpapExtract(note string) Result {
	r := DefaultResult()
	r.Device = DeviceCPAP
	return CPAPStrategy{}.Extract(note, r)
}

func TestCPAPMaskTypePrecedence(t *testing.T) {
	tests := []struct {
		name string
		note string
		want string
	}{
		{"full face", "CPAP with full face mask", "full face"},
		// "nasal pillow" contains "nasal"; the longer form must win.
		{"nasal pillow", "CPAP with nasal pillow mask", "nasal pillow"},
		{"nasal", "CPAP with nasal mask", "nasal"},
		{"case insensitive", "CPAP with Full Face mask", "full face"},
		{"none", "CPAP machine ordered", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cpapExtract(tt.note).MaskType)
		})
	}
}

func TestCPAPAddOns(t *testing.T) {
	assert.Equal(t, []string{"humidifier"},
		cpapExtract("CPAP with humidifier").AddOns)

	// The heated form replaces the generic mention, never both.
	assert.Equal(t, []string{"heated humidifier"},
		cpapExtract("CPAP with heated humidifier").AddOns)

	assert.Nil(t, cpapExtract("CPAP machine").AddOns)
}

func TestCPAPQualifierVerbatim(t *testing.T) {
	tests := []struct {
		name string
		note string
		want string
	}{
		{"greater than", "Severe apnea. AHI > 20.", "AHI > 20"},
		{"colon", "AHI: 32 on study", "AHI: 32"},
		{"tight spacing", "AHI>15", "AHI>15"},
		{"absent", "CPAP ordered", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cpapExtract(tt.note).Qualifier)
		})
	}
}

func TestCPAPLeavesOtherDeviceFieldsUnset(t *testing.T) {
	r := cpapExtract("CPAP with full face mask and humidifier. AHI > 20.")

	assert.Empty(t, r.Liters)
	assert.Empty(t, r.Usage)
}
