package idempotency

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyDeterministic(t *testing.T) {
	note := "Patient needs a CPAP. Ordering Physician: Dr. Smith"

	a := GenerateKey("clinic-42", note)
	b := GenerateKey("clinic-42", note)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestGenerateKeyDistinguishesClientAndNote(t *testing.T) {
	note := "Patient needs a CPAP."

	assert.NotEqual(t, GenerateKey("clinic-42", note), GenerateKey("clinic-43", note))
	assert.NotEqual(t, GenerateKey("clinic-42", note), GenerateKey("clinic-42", note+" "))
}

func TestIsTerminalError(t *testing.T) {
	assert.True(t, isTerminalError(errors.New("Invalid payload shape")))
	assert.True(t, isTerminalError(errors.New("order not found")))
	assert.False(t, isTerminalError(errors.New("connection refused")))
	assert.False(t, isTerminalError(errors.New("timeout waiting for broker")))
}
