package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	device DeviceType
}

func (s stubStrategy) Device() DeviceType { return s.device }

func (s stubStrategy) Extract(_ string, r Result) Result { return r }

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(stubStrategy{DeviceCPAP}, stubStrategy{DeviceCPAP})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistryRejectsNilStrategy(t *testing.T) {
	_, err := NewRegistry(stubStrategy{DeviceCPAP}, nil)
	require.Error(t, err)
}

func TestNewRegistryRejectsBlankKey(t *testing.T) {
	_, err := NewRegistry(stubStrategy{DeviceType("  ")})
	require.Error(t, err)
}

func TestRegistryLookup(t *testing.T) {
	reg, err := NewRegistry(stubStrategy{DeviceCPAP})
	require.NoError(t, err)

	s, ok := reg.Lookup(DeviceCPAP)
	require.True(t, ok)
	assert.Equal(t, DeviceCPAP, s.Device())

	_, ok = reg.Lookup(DeviceOxygenTank)
	assert.False(t, ok)

	// Blank keys are absent, never an error.
	_, ok = reg.Lookup(DeviceType(""))
	assert.False(t, ok)
	_, ok = reg.Lookup(DeviceType("   "))
	assert.False(t, ok)
}

func TestDefaultRegistryContents(t *testing.T) {
	reg := DefaultRegistry()

	_, ok := reg.Lookup(DeviceCPAP)
	assert.True(t, ok)
	_, ok = reg.Lookup(DeviceOxygenTank)
	assert.True(t, ok)

	// Wheelchair is a known device with no device-specific fields, so it
	// deliberately has no strategy.
	_, ok = reg.Lookup(DeviceWheelchair)
	assert.False(t, ok)
}
