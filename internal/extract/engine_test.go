package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(DefaultRegistry(), nil)
}

func TestEngineOxygenTankNote(t *testing.T) {
	note := "Patient Name: Harold Finch\nDOB: 04/12/1952\nDiagnosis: COPD\n" +
		"Prescription: Requires a portable oxygen tank delivering 2 L per minute.\n" +
		"Usage: During sleep and exertion.\nOrdering Physician: Dr. Cuddy"

	r := newTestEngine(t).Extract(context.Background(), note)

	out, err := Serialize(r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"device":"OxygenTank","ordering_provider":"Dr. Cuddy","patient_name":"Harold Finch","dob":"04/12/1952","diagnosis":"COPD","liters":"2 L","usage":"sleep and exertion"}`,
		string(out))
}

func TestEngineCPAPNote(t *testing.T) {
	note := "Patient needs a CPAP with full face mask and heated humidifier. " +
		"AHI > 20. Ordering Physician: Dr. Smith"

	r := newTestEngine(t).Extract(context.Background(), note)

	assert.Equal(t, DeviceCPAP, r.Device)
	assert.Equal(t, "full face", r.MaskType)
	assert.Equal(t, []string{"heated humidifier"}, r.AddOns)
	assert.Equal(t, "AHI > 20", r.Qualifier)
	assert.Equal(t, "Dr. Smith", r.OrderingProvider)
}

func TestEngineUnknownDeviceSkipsStrategies(t *testing.T) {
	note := "Patient needs some medical equipment. Ordered by Dr. Unknown."

	r := newTestEngine(t).Extract(context.Background(), note)

	assert.Equal(t, DeviceUnknown, r.Device)
	assert.Equal(t, "Dr. Unknown", r.OrderingProvider)
	assert.Empty(t, r.MaskType)
	assert.Empty(t, r.Liters)
}

func TestEngineKnownDeviceWithoutStrategy(t *testing.T) {
	// Wheelchair is recognized but has no registered strategy: common
	// fields only, never an error.
	note := "Patient needs a wheelchair. Ordering Physician: Dr. Foreman"

	r := newTestEngine(t).Extract(context.Background(), note)

	assert.Equal(t, DeviceWheelchair, r.Device)
	assert.Equal(t, "Dr. Foreman", r.OrderingProvider)
}

func TestEngineEmptyNoteReturnsDefaults(t *testing.T) {
	engine := newTestEngine(t)

	for _, note := range []string{"", "   ", "\n\t  \n"} {
		r := engine.Extract(context.Background(), note)
		assert.Equal(t, DefaultResult(), r)
	}
}

func TestEngineIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	note := "Patient Name: Harold Finch\nDOB: 04/12/1952\nDiagnosis: COPD\n" +
		"Requires an oxygen tank at 2 L.\nUsage: sleep and exertion.\n" +
		"Ordering Physician: Dr. Cuddy"

	first, err := Serialize(engine.Extract(context.Background(), note))
	require.NoError(t, err)
	second, err := Serialize(engine.Extract(context.Background(), note))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewEngineNilRegistryPanics(t *testing.T) {
	assert.Panics(t, func() { NewEngine(nil, nil) })
}
