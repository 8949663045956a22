package amount

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]int64{
		"0":                    0,
		"1":                    One,
		"0.0000001":            1,
		"12.5":                 125000000,
		"100.1234567":          1001234567,
		"922337203685.4775807": math.MaxInt64,
		"1.50000000":           15000000,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "0.00000001"} {
		_, err := Parse(in)
		assert.True(t, errors.Is(err, ErrInvalidAmount), in)
	}
	for _, in := range []string{"-1", "922337203685.4775808"} {
		_, err := Parse(in)
		assert.True(t, errors.Is(err, ErrAmountRange), in)
	}
	_, err := ParsePositive("0")
	assert.True(t, errors.Is(err, ErrAmountRange))
}

func TestString(t *testing.T) {
	assert.Equal(t, "1.0000000", String(One))
	assert.Equal(t, "0.0000001", String(1))
	assert.Equal(t, "922337203685.4775807", String(math.MaxInt64))
	assert.Equal(t, "12.5000000", String(MustParse("12.5")))
}
