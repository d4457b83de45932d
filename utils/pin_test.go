package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePin(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		pin, err := GeneratePin()
		require.NoError(t, err)
		assert.True(t, IsValidPin(pin), "generated pin %q should be valid", pin)
		seen[pin] = true
	}
	// 50 draws from a million values colliding down to a handful would
	// point at a broken source of randomness.
	assert.Greater(t, len(seen), 40)
}

func TestIsValidPin(t *testing.T) {
	tests := []struct {
		name string
		pin  string
		want bool
	}{
		{name: "six digits", pin: "123456", want: true},
		{name: "leading zeros", pin: "000042", want: true},
		{name: "empty", pin: "", want: false},
		{name: "too short", pin: "12345", want: false},
		{name: "too long", pin: "1234567", want: false},
		{name: "letters", pin: "12a456", want: false},
		{name: "whitespace", pin: "12345 ", want: false},
		{name: "unicode digits", pin: "１２３４５６", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPin(tt.pin))
		})
	}
}
