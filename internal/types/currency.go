package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DEFAULT_PRECISION is the display precision used for currencies that are
// not zero-decimal
const DEFAULT_PRECISION = 2

// zeroDecimalCurrencies are currencies that have no minor unit: upstream
// amounts for these are already expressed in whole units.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
}

// RateTable holds exchange rates relative to a common base currency,
// keyed by uppercase ISO 4217 code.
type RateTable map[string]decimal.Decimal

// NormalizeCurrency returns the canonical uppercase ISO form of a currency code
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// IsZeroDecimalCurrency reports whether the currency has no minor unit
func IsZeroDecimalCurrency(currency string) bool {
	return zeroDecimalCurrencies[NormalizeCurrency(currency)]
}

// GetCurrencyPrecision returns the number of decimal places for a currency
func GetCurrencyPrecision(currency string) int32 {
	if IsZeroDecimalCurrency(currency) {
		return 0
	}
	return DEFAULT_PRECISION
}

// RoundToCurrencyPrecision rounds an amount half-up to the currency's precision
func RoundToCurrencyPrecision(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(GetCurrencyPrecision(currency))
}

// ToDecimal converts a minor-unit integer amount into a decimal amount per
// the currency's denomination rules. Zero-decimal currencies pass through
// unchanged; all others are divided by 100. The result is rounded half-up
// to two decimal places. Unknown currency codes are treated as 2-decimal.
func ToDecimal(currency string, minorUnits int64) decimal.Decimal {
	amount := decimal.NewFromInt(minorUnits)
	if !IsZeroDecimalCurrency(currency) {
		amount = amount.Div(decimal.NewFromInt(100))
	}
	return amount.Round(DEFAULT_PRECISION)
}

// Convert converts an amount between currencies using a rate table expressed
// relative to a common base. When either rate is missing or zero the amount
// is returned unconverted. Lenient degradation over hard failure is the
// documented policy here: a stale dashboard beats a broken one.
func Convert(amount decimal.Decimal, from, to string, rates RateTable) decimal.Decimal {
	from = NormalizeCurrency(from)
	to = NormalizeCurrency(to)
	if from == to {
		return amount
	}

	fromRate, okFrom := rates[from]
	toRate, okTo := rates[to]
	if !okFrom || !okTo || fromRate.IsZero() {
		return amount
	}

	return amount.Div(fromRate).Mul(toRate).Round(DEFAULT_PRECISION)
}

// ConvertRevenue collapses a currency->amount map into a single amount in the
// target currency. Entries whose rate is unknown are added unconverted, per
// the Convert fallback rule.
func ConvertRevenue(revenue map[string]decimal.Decimal, target string, rates RateTable) decimal.Decimal {
	total := decimal.Zero
	for currency, amount := range revenue {
		total = total.Add(Convert(amount, currency, target, rates))
	}
	return total.Round(DEFAULT_PRECISION)
}

// MergeRevenue sums currency->amount maps into a new map
func MergeRevenue(revenues ...map[string]decimal.Decimal) map[string]decimal.Decimal {
	merged := make(map[string]decimal.Decimal)
	for _, revenue := range revenues {
		for currency, amount := range revenue {
			merged[currency] = merged[currency].Add(amount)
		}
	}
	return merged
}
