package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDefaults(t *testing.T) {
	out, err := Serialize(DefaultResult())
	require.NoError(t, err)
	assert.Equal(t, `{"device":"Unknown","ordering_provider":"Unknown"}`, string(out))
}

func TestSerializeOmitsAbsentFields(t *testing.T) {
	r := DefaultResult()
	r.Device = DeviceCPAP
	r.MaskType = "nasal"

	out, err := Serialize(r)
	require.NoError(t, err)
	assert.Equal(t, `{"device":"CPAP","ordering_provider":"Unknown","mask_type":"nasal"}`, string(out))
}

func TestSerializeEmptyAddOnsTreatedAsAbsent(t *testing.T) {
	r := DefaultResult()
	r.Device = DeviceCPAP
	r.AddOns = []string{}

	out, err := Serialize(r)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "add_ons")
}

func TestSerializeGatesOxygenFieldsOnDevice(t *testing.T) {
	// Liters and usage only belong to oxygen tank output: a populated value
	// on another device (a stale accumulator) must not leak.
	r := DefaultResult()
	r.Device = DeviceCPAP
	r.Liters = "2 L"
	r.Usage = "sleep"

	out, err := Serialize(r)
	require.NoError(t, err)
	assert.Equal(t, `{"device":"CPAP","ordering_provider":"Unknown"}`, string(out))

	r.Device = DeviceOxygenTank
	out, err = Serialize(r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"device":"OxygenTank","ordering_provider":"Unknown","liters":"2 L","usage":"sleep"}`,
		string(out))
}
