package numeric

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float passthrough", 42.5, 42.5},
		{"int passthrough", 7, 7},
		{"plain string", "1234.5", 1234.5},
		{"currency and grouping", "$1,234.56", 1234.56},
		{"negative with symbol", "$-12.5", -12.5},
		{"trailing text", "12.5 USD", 12.5},
		{"placeholder", "-", 0},
		{"empty", "", 0},
		{"only letters", "abc", 0},
		{"double dot keeps prefix", "1.2.3", 1.2},
		{"leading dot", ".5", 0.5},
		{"double minus", "--5", 0},
		{"trailing minus", "12-", 12},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"json number", json.Number("3.25"), 3.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Number(tt.in)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"signed plus", "+3.2%", 3.2},
		{"negative with space", "-1.05 %", -1.05},
		{"integer", "4%", 4},
		{"placeholder", "-", 0},
		{"no digits", "n/a", 0},
		{"nil", nil, 0},
		{"numeric passthrough", -2.5, -2.5},
		{"embedded", "change: 0.75% today", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.in))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.00", Format(12, 2, 6))
	assert.Equal(t, "1,234.50", Format("1234.5", 2, 6))
	assert.Equal(t, "0.123457", Format(0.1234567, 2, 6))
	assert.Equal(t, "0.00", Format(nil, 2, 6))
	assert.Equal(t, "0.00", Format("", 2, 6))
	assert.Equal(t, "-", Format("-", 2, 6))
	assert.Equal(t, "-", Format(math.NaN(), 2, 6))
	assert.Equal(t, "-", Format("n/a-", 2, 6))
}

func TestFormatterLocale(t *testing.T) {
	de := NewFormatter("de")
	assert.Equal(t, "1.234,50", de.Display(1234.5))

	fallback := NewFormatter("not a locale!!")
	assert.Equal(t, "1,234.50", fallback.Display(1234.5))
}

func TestPercentText(t *testing.T) {
	assert.Equal(t, "1.23%", PercentText(1.234))
	assert.Equal(t, "-0.50%", PercentText(-0.5))
	assert.Equal(t, "0.00%", PercentText(0))
}

func TestLooseDecoding(t *testing.T) {
	var row struct {
		Price  Loose `json:"price"`
		Change Loose `json:"change"`
		Empty  Loose `json:"empty"`
		Gone   Loose `json:"gone"`
	}
	err := json.Unmarshal([]byte(`{"price":"1,050.25","change":"-2.10%","empty":"-","gone":null}`), &row)
	require.NoError(t, err)

	assert.Equal(t, 1050.25, row.Price.Float())
	assert.Equal(t, -2.10, row.Change.Percent())
	assert.Equal(t, 0.0, row.Empty.Float())
	assert.Equal(t, "-", Format(row.Empty, 2, 6))
	assert.Nil(t, row.Gone.Raw())
	assert.Equal(t, "0.00", Format(row.Gone, 2, 6))

	var n Loose
	require.NoError(t, json.Unmarshal([]byte(`64000.5`), &n))
	assert.Equal(t, 64000.5, n.Float())

	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `64000.5`, string(out))
}
