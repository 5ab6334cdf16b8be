package types

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DailyStat is the per-calendar-day revenue bucket. Date is a DateFormat
// string and is unique within a stats sequence. Buckets are initialized to
// zero for every day in the range and only ever incremented.
type DailyStat struct {
	Date       string                     `json:"date"`
	OrderCount int                        `json:"order_count"`
	Revenue    map[string]decimal.Decimal `json:"revenue"`
}

// NewDailyStat returns a zeroed bucket for the given date key
func NewDailyStat(date string) DailyStat {
	return DailyStat{
		Date:    date,
		Revenue: make(map[string]decimal.Decimal),
	}
}

// RevenueBreakdown splits revenue into one-time and per-cadence subscription
// totals, each keyed by uppercase currency.
type RevenueBreakdown struct {
	OneTime      map[string]decimal.Decimal                    `json:"one_time"`
	Subscription map[PaymentCadence]map[string]decimal.Decimal `json:"subscription"`
}

// NewRevenueBreakdown returns a breakdown with every cadence bucket
// pre-initialized so consumers always see the full closed set.
func NewRevenueBreakdown() RevenueBreakdown {
	breakdown := RevenueBreakdown{
		OneTime:      make(map[string]decimal.Decimal),
		Subscription: make(map[PaymentCadence]map[string]decimal.Decimal),
	}
	for _, def := range SubscriptionCadences() {
		breakdown.Subscription[def.ID] = make(map[string]decimal.Decimal)
	}
	return breakdown
}

// Add accumulates an amount into the bucket for the given cadence
func (b RevenueBreakdown) Add(cadence PaymentCadence, currency string, amount decimal.Decimal) {
	currency = NormalizeCurrency(currency)
	if cadence == CadenceOneTime {
		b.OneTime[currency] = b.OneTime[currency].Add(amount)
		return
	}
	bucket, ok := b.Subscription[cadence]
	if !ok {
		bucket = make(map[string]decimal.Decimal)
		b.Subscription[cadence] = bucket
	}
	bucket[currency] = bucket[currency].Add(amount)
}

// Merge returns the elementwise sum of two breakdowns
func (b RevenueBreakdown) Merge(other RevenueBreakdown) RevenueBreakdown {
	merged := NewRevenueBreakdown()
	for _, src := range []RevenueBreakdown{b, other} {
		for currency, amount := range src.OneTime {
			merged.OneTime[currency] = merged.OneTime[currency].Add(amount)
		}
		for cadence, bucket := range src.Subscription {
			for currency, amount := range bucket {
				merged.Add(cadence, currency, amount)
			}
		}
	}
	return merged
}

// RenewalSummary counts active subscriptions due to renew within a window
// together with their unit amounts per currency.
type RenewalSummary struct {
	Count       int                        `json:"count"`
	TotalAmount map[string]decimal.Decimal `json:"total_amount"`
}

// NewRenewalSummary returns an empty summary
func NewRenewalSummary() RenewalSummary {
	return RenewalSummary{TotalAmount: make(map[string]decimal.Decimal)}
}

// MerchantRevenue is the per-merchant aggregation result. Revenue always
// equals the column sums of DailyStats; the combiner relies on that identity
// instead of re-deriving totals through an independent path.
type MerchantRevenue struct {
	MerchantName     string                     `json:"merchant_name"`
	Revenue          map[string]decimal.Decimal `json:"revenue"`
	Payouts          map[string]decimal.Decimal `json:"payouts"`
	DailyStats       []DailyStat                `json:"daily_stats"`
	RevenueBreakdown RevenueBreakdown           `json:"revenue_breakdown"`
	PendingRenewals  RenewalSummary             `json:"pending_renewals"`
}

// SortDailyStats orders a stats sequence ascending by date key in place.
// Date keys are zero-padded so lexical order is chronological order.
func SortDailyStats(stats []DailyStat) {
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date < stats[j].Date
	})
}
