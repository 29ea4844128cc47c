package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	tests := map[string]Unit{
		"":              Auto,
		"auto":          Auto,
		"default":       Auto,
		"s":             Seconds,
		"seconds":       Seconds,
		"MS":            Milliseconds,
		"milliseconds":  Milliseconds,
		"us":            Microseconds,
		"µs":            Microseconds,
		"ns":            Nanoseconds,
		" nanoseconds ": Nanoseconds,
	}

	for in, want := range tests {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseUnit("fortnights")
	assert.Error(t, err)
}

func TestUnitString(t *testing.T) {
	for _, u := range []Unit{Auto, Seconds, Milliseconds, Microseconds, Nanoseconds} {
		parsed, err := ParseUnit(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, parsed)
	}
	assert.Equal(t, "unit(9)", Unit(9).String())
}

func TestAutoUnitBoundaries(t *testing.T) {
	tests := []struct {
		ns   float64
		unit Unit
		text string
	}{
		{0, Nanoseconds, "0ns"},
		{4_999, Nanoseconds, "4999ns"},
		{5_000, Microseconds, "5.000us"},
		{4_999_999, Microseconds, "4999.999us"},
		{5_000_000, Milliseconds, "5.000ms"},
		{4_999_000_000, Milliseconds, "4999.000ms"},
		{4_999_999_999, Milliseconds, "5000.000ms"},
		{5_000_000_000, Seconds, "5.000s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.unit, Auto.Resolve(tt.ns), "%v", tt.ns)
		assert.Equal(t, tt.text, FormatDuration(tt.ns, Auto))
	}
}

func TestFixedUnits(t *testing.T) {
	assert.Equal(t, "1.500s", FormatDuration(1_500_000_000, Seconds))
	assert.Equal(t, "2.500ms", FormatDuration(2_500_000, Milliseconds))
	assert.Equal(t, "1.234us", FormatDuration(1_234, Microseconds))
	assert.Equal(t, "1234567ns", FormatDuration(1_234_567, Nanoseconds))
	assert.Equal(t, Seconds, Seconds.Resolve(1))
}
