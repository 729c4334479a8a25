package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseUint64(t *testing.T) {
	v, err := ParseUint64("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	v, err = ParseUint64("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), v)

	_, err = ParseUint64("18446744073709551616")
	require.ErrorIs(t, err, ErrOverflow)
	_, err = ParseUint64("-1")
	require.ErrorIs(t, err, ErrNegative)
	_, err = ParseUint64("1.5")
	require.ErrorIs(t, err, ErrNotNumeric)
	_, err = ParseUint64("")
	require.ErrorIs(t, err, ErrNotNumeric)
	_, err = ParseUint64("+1")
	require.ErrorIs(t, err, ErrNotNumeric)
}

func TestParseUint32(t *testing.T) {
	v, err := ParseUint32("4294967295")
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), v)

	_, err = ParseUint32("4294967296")
	require.ErrorIs(t, err, ErrOverflow)
}

func TestParseMina(t *testing.T) {
	cases := map[string]uint64{
		"1":           1_000_000_000,
		"1.5":         1_500_000_000,
		"0.1":         100_000_000,
		".001":        1_000_000,
		"0.000000001": 1,
		"2.":          2_000_000_000,
	}
	for in, want := range cases {
		got, err := ParseMina(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMina("0.0000000001")
	require.ErrorIs(t, err, ErrPrecision)
	_, err = ParseMina("-1")
	require.ErrorIs(t, err, ErrNegative)
	_, err = ParseMina(".")
	require.ErrorIs(t, err, ErrNotNumeric)
	_, err = ParseMina("18446744074")
	require.ErrorIs(t, err, ErrOverflow)
}

func TestFormatMina(t *testing.T) {
	assert.Equal(t, "1.5", FormatMina(1_500_000_000))
	assert.Equal(t, "0.001", FormatMina(1_000_000))
	assert.Equal(t, "3", FormatMina(3_000_000_000))
}

func TestFormatParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Uint64().Draw(t, "nanomina")
		back, err := ParseMina(FormatMina(n))
		if err != nil {
			t.Fatal(err)
		}
		if back != n {
			t.Fatalf("%d -> %s -> %d", n, FormatMina(n), back)
		}
	})
}
