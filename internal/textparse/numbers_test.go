package textparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "integer", input: "12", want: 12, wantOK: true},
		{name: "dot decimal", input: "3.50", want: 3.5, wantOK: true},
		{name: "comma decimal", input: "3,50", want: 3.5, wantOK: true},
		{name: "currency symbol", input: "€4,99", want: 4.99, wantOK: true},
		{name: "both separators drop comma", input: "1,234.56", want: 1234.56, wantOK: true},
		{name: "european grouping misread", input: "1.234,56", want: 1.23456, wantOK: true},
		{name: "padded", input: "  7  ", want: 7, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "symbol only", input: "$", wantOK: false},
		{name: "letters", input: "abc", wantOK: false},
		{name: "negative", input: "-2", wantOK: false},
		{name: "exponent rejected", input: "1e5", wantOK: false},
		{name: "two decimal points", input: "1.2.3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFindPrices(t *testing.T) {
	t.Run("every symbol", func(t *testing.T) {
		for _, symbol := range []string{"", "$", "€", "£", "¥"} {
			prices := FindPrices("Cheese " + symbol + "12.40")
			require.Len(t, prices, 1, "symbol %q", symbol)
			assert.InDelta(t, 12.40, prices[0].Value, 1e-9)
			assert.Equal(t, symbol, prices[0].Symbol)
		}
	})

	t.Run("multiple in order", func(t *testing.T) {
		prices := FindPrices("Cola 2 x 1.50 = 3.00")
		require.Len(t, prices, 2)
		assert.InDelta(t, 1.50, prices[0].Value, 1e-9)
		assert.InDelta(t, 3.00, prices[1].Value, 1e-9)
	})

	t.Run("integers are not prices", func(t *testing.T) {
		assert.Empty(t, FindPrices("Apples 2kg 5"))
		assert.False(t, HasPrice("Table 12"))
	})

	t.Run("grouped thousands keep the known misread", func(t *testing.T) {
		v, ok := LastPrice("TV 1,234.56")
		require.True(t, ok)
		assert.InDelta(t, 234.56, v, 1e-9)
	})
}

func TestNormalizeUnit(t *testing.T) {
	tests := map[string]string{
		"g": "g", "Grams": "g", "kg": "kg", "KILOGRAM": "kg",
		"l": "l", "L": "l", "litre": "l", "liters": "l", "ml": "ml",
		"pcs": "piece", "unit": "piece", "Pieces": "piece",
		"oz": "oz", "lbs": "lb", "pack": "pack",
		"cup": "cup", "Cups": "cup", "pint": "pint", "pints": "pint",
		"item": "piece", "Items": "piece",
	}
	for input, want := range tests {
		got, ok := NormalizeUnit(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := NormalizeUnit("green")
	assert.False(t, ok)
}

func TestQuantityHint(t *testing.T) {
	assert.Contains(t, QuantityHint("Cheddar cheese"), "weight")
	assert.Contains(t, QuantityHint("Milk"), "volume")
	assert.Contains(t, QuantityHint("Eggs"), "6 units")
	assert.Contains(t, QuantityHint("Batteries"), "2kg, 1L, 3 units")
}
