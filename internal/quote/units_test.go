package quote

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	cases := []struct {
		input    string
		decimals uint8
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"0.5", 6, "500000"},
		{" 12.34 ", 2, "1234"},
		{"0", 18, "0"},
		{"1000", 0, "1000"},
	}
	for _, tc := range cases {
		got, err := ParseUnits(tc.input, tc.decimals)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got.String(), tc.input)
	}

	got, err := ParseUnits("  ", 18)
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, bad := range []string{"abc", "-1", "1.2345"} {
		_, err := ParseUnits(bad, 3)
		assert.Error(t, err, bad)
	}
}

func TestFormatUnits(t *testing.T) {
	v, _ := new(big.Int).SetString("1992013962079806432", 10)
	assert.Equal(t, "1.992013962079806432", FormatUnits(v, 18))
	assert.Equal(t, "2", FormatUnits(big.NewInt(2_000_000), 6))
	assert.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
	assert.Equal(t, "-1.5", FormatUnits(big.NewInt(-15), 1))
	assert.Equal(t, "42", FormatUnits(big.NewInt(42), 0))
	assert.Equal(t, "0", FormatUnits(nil, 18))
}

func TestParseBps(t *testing.T) {
	cases := map[string]uint32{"5": 500, "0.5": 50, "0": 0, "12.25%": 1225}
	for input, want := range cases {
		got, err := ParseBps(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	for _, bad := range []string{"100", "-1", "0.001", "five"} {
		_, err := ParseBps(bad)
		assert.Error(t, err, bad)
	}
}
