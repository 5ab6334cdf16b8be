package service

import (
	"time"

	"github.com/revboard/revboard/internal/domain/payment"
	"github.com/revboard/revboard/internal/types"
	"github.com/shopspring/decimal"
)

// AggregateDaily buckets qualifying charges into per-calendar-day totals in
// the given location. One zeroed DailyStat is pre-populated for every day of
// the inclusive range, so charts render a continuous axis even for days with
// no orders. Day resolution uses the location's day boundaries: a charge
// settled near midnight can land on a different calendar day than it would
// in UTC. Charges resolving outside the pre-populated day set are dropped.
//
// Pure function of its inputs: aggregating the same charge set twice yields
// identical output.
func AggregateDaily(charges []*payment.Charge, dateRange types.DateRange, loc *time.Location) []types.DailyStat {
	days := dateRange.Days(loc)
	index := make(map[string]int, len(days))
	stats := make([]types.DailyStat, 0, len(days))
	for i, day := range days {
		stats = append(stats, types.NewDailyStat(day))
		index[day] = i
	}

	for _, charge := range charges {
		if !charge.CountsTowardRevenue() {
			continue
		}
		day := time.Unix(charge.Created, 0).In(loc).Format(types.DateFormat)
		i, ok := index[day]
		if !ok {
			continue
		}
		amount := types.ToDecimal(charge.Currency, charge.Amount)
		currency := types.NormalizeCurrency(charge.Currency)
		stats[i].OrderCount++
		stats[i].Revenue[currency] = stats[i].Revenue[currency].Add(amount)
	}

	return stats
}

// SumDailyRevenue collapses a stats sequence into a currency->amount map.
// The combiner derives every total through this sum so that flat totals can
// never drift from the daily buckets they are built from.
func SumDailyRevenue(stats []types.DailyStat) map[string]decimal.Decimal {
	total := make(map[string]decimal.Decimal)
	for _, stat := range stats {
		for currency, amount := range stat.Revenue {
			total[currency] = total[currency].Add(amount)
		}
	}
	return total
}

// MergeDailyStats merges stats sequences from multiple merchants by date
// key: order counts and per-currency revenue are summed. The result is
// sorted ascending by date.
func MergeDailyStats(sequences ...[]types.DailyStat) []types.DailyStat {
	index := make(map[string]int)
	var merged []types.DailyStat
	for _, stats := range sequences {
		for _, stat := range stats {
			i, ok := index[stat.Date]
			if !ok {
				i = len(merged)
				index[stat.Date] = i
				merged = append(merged, types.NewDailyStat(stat.Date))
			}
			merged[i].OrderCount += stat.OrderCount
			for currency, amount := range stat.Revenue {
				merged[i].Revenue[currency] = merged[i].Revenue[currency].Add(amount)
			}
		}
	}
	types.SortDailyStats(merged)
	return merged
}
