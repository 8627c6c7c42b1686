package crc16

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_KnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"standard check string", "123456789", "29B1"},
		{"empty input", "", "FFFF"},
		{"single char", "A", "B915"},
		{"emv style body", "00020101021126", "204B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Checksum(tt.input))
		})
	}
}

func TestChecksum_Deterministic(t *testing.T) {
	input := "000201010211520460125303032"
	assert.Equal(t, Checksum(input), Checksum(input))
}

func TestValidate_RoundTrip(t *testing.T) {
	body := "0002010102115909Test Shop"
	payload := body + Checksum(body)
	assert.True(t, Validate(payload))
}

func TestValidate_Tampered(t *testing.T) {
	body := "0002010102115909Test Shop"
	payload := body + Checksum(body)
	require.True(t, Validate(payload))

	// Flipping any single character must break validation.
	for i := 0; i < len(payload); i++ {
		mutated := []byte(payload)
		mutated[i] ^= 0x01
		assert.False(t, Validate(string(mutated)), "mutation at index %d slipped through", i)
	}
}

func TestValidate_TooShort(t *testing.T) {
	assert.False(t, Validate(""))
	assert.False(t, Validate("AB1"))
}
