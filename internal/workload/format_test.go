package workload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", Hash("test"))
	assert.Equal(t, "8f2136c4dae6441beb366b11495112fe621061fd912de45a49aeff6e055208ae", Hash("NOTFOUND"))
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		digits int
		want   string
	}{
		{name: "Plain six digits", value: 2.978295234, digits: 6, want: "2.978295"},
		{name: "Zero", value: 0, digits: 6, want: "0.000000"},
		{name: "Negative zero has no sign", value: math.Copysign(0, -1), digits: 6, want: "0.000000"},
		{name: "Tiny positive", value: 1e-7, digits: 6, want: "0.000000"},
		{name: "Tiny negative keeps sign", value: -1e-7, digits: 6, want: "-0.000000"},
		{name: "Exact tie rounds away from zero", value: 0.0078125, digits: 6, want: "0.007813"},
		{name: "Negative exact tie", value: -0.0078125, digits: 6, want: "-0.007813"},
		{name: "Tie at two digits", value: 0.125, digits: 2, want: "0.13"},
		{name: "Binary value below the tie", value: 2.675, digits: 2, want: "2.67"},
		{name: "Half at zero digits", value: 1.5, digits: 0, want: "2"},
		{name: "Negative half at zero digits", value: -1.5, digits: 0, want: "-2"},
		{name: "Integer at zero digits", value: 123.456, digits: 0, want: "123"},
		{name: "Ten digits", value: 3.176, digits: 10, want: "3.1760000000"},
		{name: "Exact binary at ten digits", value: 3.107421875, digits: 10, want: "3.1074218750"},
		{name: "Large value switches to exponent", value: 1e21, digits: 6, want: "1e+21"},
		{name: "NaN", value: math.NaN(), digits: 6, want: "NaN"},
		{name: "Positive infinity", value: math.Inf(1), digits: 6, want: "Infinity"},
		{name: "Negative infinity", value: math.Inf(-1), digits: 10, want: "-Infinity"},
		{name: "Negative digits clamp to zero", value: 2.5, digits: -1, want: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFixed(tt.value, tt.digits))
		})
	}
}

func TestFormatFixedMatchesStrconvAwayFromTies(t *testing.T) {
	// вне ничьих результат совпадает с обычным округлением
	values := []float64{0.1, 0.333333333, 1.0000004999, 12345.6789012, 0.5831, 7.9999999999}
	for _, v := range values {
		assert.Equal(t, formatExact(v, 6), FormatFixed(v, 6), "value %v", v)
	}
}
