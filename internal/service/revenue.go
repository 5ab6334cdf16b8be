package service

import (
	"context"
	"time"

	"github.com/revboard/revboard/internal/domain/payment"
	"github.com/revboard/revboard/internal/types"
	"github.com/shopspring/decimal"
)

// RevenueService computes the per-merchant views that feed the dashboard
// combiner. Every method is a pure aggregation over freshly fetched upstream
// data; nothing is persisted.
type RevenueService interface {
	// GetRevenue returns the flat revenue total per currency for the range
	GetRevenue(ctx context.Context, provider payment.Provider, dateRange types.DateRange) (map[string]decimal.Decimal, error)

	// GetDailyStats returns per-calendar-day totals for the range in loc
	GetDailyStats(ctx context.Context, provider payment.Provider, dateRange types.DateRange, loc *time.Location) ([]types.DailyStat, error)

	// GetRevenueBreakdown returns one-time vs per-cadence totals for the range
	GetRevenueBreakdown(ctx context.Context, provider payment.Provider, dateRange types.DateRange) (types.RevenueBreakdown, error)

	// GetPayouts returns paid payout totals per currency for the range
	GetPayouts(ctx context.Context, provider payment.Provider, dateRange types.DateRange) (map[string]decimal.Decimal, error)

	// GetPendingRenewals summarizes active subscriptions whose current
	// period ends on or before the range end
	GetPendingRenewals(ctx context.Context, provider payment.Provider, dateRange types.DateRange, loc *time.Location) (types.RenewalSummary, error)
}

type revenueService struct {
	ServiceParams
	fetcher   FetcherService
	breakdown BreakdownService
}

// NewRevenueService creates a new revenue service
func NewRevenueService(params ServiceParams) RevenueService {
	return &revenueService{
		ServiceParams: params,
		fetcher:       NewFetcherService(params),
		breakdown:     NewBreakdownService(params),
	}
}

func (s *revenueService) GetRevenue(ctx context.Context, provider payment.Provider, dateRange types.DateRange) (map[string]decimal.Decimal, error) {
	charges, err := s.fetcher.FetchCharges(ctx, provider, dateRange)
	if err != nil {
		return nil, err
	}

	revenue := make(map[string]decimal.Decimal)
	for _, charge := range charges {
		if !charge.CountsTowardRevenue() {
			continue
		}
		currency := types.NormalizeCurrency(charge.Currency)
		revenue[currency] = revenue[currency].Add(types.ToDecimal(charge.Currency, charge.Amount))
	}
	return revenue, nil
}

func (s *revenueService) GetDailyStats(ctx context.Context, provider payment.Provider, dateRange types.DateRange, loc *time.Location) ([]types.DailyStat, error) {
	charges, err := s.fetcher.FetchCharges(ctx, provider, dateRange)
	if err != nil {
		return nil, err
	}
	return AggregateDaily(charges, dateRange, loc), nil
}

func (s *revenueService) GetRevenueBreakdown(ctx context.Context, provider payment.Provider, dateRange types.DateRange) (types.RevenueBreakdown, error) {
	charges, err := s.fetcher.FetchCharges(ctx, provider, dateRange)
	if err != nil {
		return types.NewRevenueBreakdown(), err
	}
	return s.breakdown.AggregateBreakdown(ctx, provider, charges), nil
}

func (s *revenueService) GetPayouts(ctx context.Context, provider payment.Provider, dateRange types.DateRange) (map[string]decimal.Decimal, error) {
	payouts, err := s.fetcher.FetchPaidPayouts(ctx, provider, dateRange)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, payout := range payouts {
		currency := types.NormalizeCurrency(payout.Currency)
		totals[currency] = totals[currency].Add(types.ToDecimal(payout.Currency, payout.Amount))
	}
	return totals, nil
}

func (s *revenueService) GetPendingRenewals(ctx context.Context, provider payment.Provider, dateRange types.DateRange, loc *time.Location) (types.RenewalSummary, error) {
	summary := types.NewRenewalSummary()

	subs, err := s.fetcher.FetchActiveSubscriptions(ctx, provider)
	if err != nil {
		return summary, err
	}

	cutoff := dateRange.End.In(loc)
	for _, sub := range subs {
		if !sub.IsActive() || sub.CurrentPeriodEnd == 0 {
			continue
		}
		renewal := time.Unix(sub.CurrentPeriodEnd, 0).In(loc)
		if renewal.After(cutoff) {
			continue
		}
		currency := types.NormalizeCurrency(sub.Currency)
		summary.Count++
		summary.TotalAmount[currency] = summary.TotalAmount[currency].Add(types.ToDecimal(sub.Currency, sub.UnitAmount))
	}
	return summary, nil
}
