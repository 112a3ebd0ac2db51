package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func oxygenExtract(note string) Result {
	r := DefaultResult()
	r.Device = DeviceOxygenTank
	return OxygenTankStrategy{}.Extract(note, r)
}

func TestOxygenLitersNormalized(t *testing.T) {
	tests := []struct {
		name string
		note string
		want string
	}{
		{"spaced", "oxygen tank delivering 2 L per minute", "2 L"},
		{"tight", "oxygen at 2L", "2 L"},
		{"lowercase", "oxygen at 3 l during the day", "3 L"},
		{"decimal", "oxygen at 2.5L continuous", "2.5 L"},
		{"absent", "portable oxygen tank", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oxygenExtract(tt.note).Liters)
		})
	}
}

func TestOxygenUsage(t *testing.T) {
	tests := []struct {
		name string
		note string
		want string
	}{
		{"both", "Usage: During sleep and exertion.", "sleep and exertion"},
		{"both separated", "Use during sleep. Also needed on exertion.", "sleep and exertion"},
		{"sleep only", "for use during sleep", "sleep"},
		{"exertion only", "needed on exertion", "exertion"},
		{"neither", "continuous use", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oxygenExtract(tt.note).Usage)
		})
	}
}

func TestOxygenLeavesOtherDeviceFieldsUnset(t *testing.T) {
	r := oxygenExtract("oxygen tank at 2 L during sleep")

	assert.Empty(t, r.MaskType)
	assert.Nil(t, r.AddOns)
	assert.Empty(t, r.Qualifier)
}
