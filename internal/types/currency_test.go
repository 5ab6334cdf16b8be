package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name       string
		currency   string
		minorUnits int64
		expected   string
	}{
		{
			name:       "USD_DividedBy100",
			currency:   "usd",
			minorUnits: 10000,
			expected:   "100",
		},
		{
			name:       "USD_Cents",
			currency:   "USD",
			minorUnits: 12345,
			expected:   "123.45",
		},
		{
			name:       "JPY_PassThrough",
			currency:   "jpy",
			minorUnits: 10000,
			expected:   "10000",
		},
		{
			name:       "KRW_PassThrough",
			currency:   "KRW",
			minorUnits: 500,
			expected:   "500",
		},
		{
			name:       "VND_PassThrough",
			currency:   "vnd",
			minorUnits: 250000,
			expected:   "250000",
		},
		{
			name:       "UnknownCurrency_TreatedAsTwoDecimal",
			currency:   "xyz",
			minorUnits: 999,
			expected:   "9.99",
		},
		{
			name:       "ZeroAmount",
			currency:   "eur",
			minorUnits: 0,
			expected:   "0",
		},
		{
			name:       "NegativeAmount",
			currency:   "usd",
			minorUnits: -150,
			expected:   "-1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDecimal(tt.currency, tt.minorUnits)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestRoundToCurrencyPrecision(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		expected string
	}{
		{name: "USD_HalfUp", amount: "10.275", currency: "usd", expected: "10.28"},
		{name: "USD_HalfDown", amount: "10.274", currency: "usd", expected: "10.27"},
		{name: "JPY_WholeUnits", amount: "1000.5", currency: "jpy", expected: "1001"},
		{name: "KRW_WholeUnits", amount: "999.4", currency: "krw", expected: "999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)
			got := RoundToCurrencyPrecision(amount, tt.currency)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestConvert(t *testing.T) {
	// Rates relative to USD
	rates := RateTable{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.9"),
		"JPY": decimal.NewFromInt(150),
	}

	t.Run("SameCurrency", func(t *testing.T) {
		amount := decimal.NewFromInt(100)
		got := Convert(amount, "usd", "USD", rates)
		assert.True(t, amount.Equal(got))
	})

	t.Run("ConvertsThroughBase", func(t *testing.T) {
		got := Convert(decimal.NewFromInt(150), "JPY", "USD", rates)
		assert.Equal(t, "1", got.String())
	})

	t.Run("MissingRatePassesThrough", func(t *testing.T) {
		amount := decimal.NewFromInt(500)
		got := Convert(amount, "GBP", "USD", rates)
		assert.True(t, amount.Equal(got))
	})

	t.Run("ZeroRatePassesThrough", func(t *testing.T) {
		zeroed := RateTable{"USD": decimal.NewFromInt(1), "EUR": decimal.Zero}
		amount := decimal.NewFromInt(42)
		got := Convert(amount, "EUR", "USD", zeroed)
		assert.True(t, amount.Equal(got))
	})
}

func TestConvertRevenue(t *testing.T) {
	rates := RateTable{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.5"),
	}
	revenue := map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(100),
		"EUR": decimal.NewFromInt(50),
		// No GBP rate, added unconverted
		"GBP": decimal.NewFromInt(10),
	}

	got := ConvertRevenue(revenue, "USD", rates)
	// 100 + 50/0.5 + 10
	assert.Equal(t, "210", got.String())
}

func TestMergeRevenue(t *testing.T) {
	a := map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(50),
		"JPY": decimal.NewFromInt(1000),
	}
	b := map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(75),
	}

	merged := MergeRevenue(a, b)
	assert.Equal(t, "125", merged["USD"].String())
	assert.Equal(t, "1000", merged["JPY"].String())
	assert.Len(t, merged, 2)
}
