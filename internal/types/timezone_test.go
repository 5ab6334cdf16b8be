package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimezone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "IST", input: "IST", expected: "Asia/Kolkata"},
		{name: "LowercaseAbbreviation", input: "pst", expected: "America/Los_Angeles"},
		{name: "IANAPassThrough", input: "Asia/Shanghai", expected: "Asia/Shanghai"},
		{name: "UTCPassThrough", input: "UTC", expected: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveTimezone(tt.input))
		})
	}
}

func TestLoadTimezone(t *testing.T) {
	loc, err := LoadTimezone("JST")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	_, err = LoadTimezone("Not/AZone")
	assert.Error(t, err)
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("est"))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))
}
