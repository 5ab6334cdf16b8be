package service

import (
	"context"
	"time"

	"github.com/revboard/revboard/internal/api/dto"
	"github.com/revboard/revboard/internal/config"
	ierr "github.com/revboard/revboard/internal/errors"
	"github.com/revboard/revboard/internal/types"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

// UnknownMerchantName is substituted when account identity resolution fails
const UnknownMerchantName = "Unknown Merchant"

// DashboardService combines per-merchant aggregation results into the
// dashboard payload. Merchants are processed in parallel under a bounded
// pool; one merchant's failure degrades only that merchant's contribution.
type DashboardService interface {
	GetRevenueOverview(ctx context.Context, req dto.RevenueOverviewRequest) (*dto.RevenueOverviewResponse, error)
}

type dashboardService struct {
	ServiceParams
	revenue RevenueService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(params ServiceParams) DashboardService {
	return &dashboardService{
		ServiceParams: params,
		revenue:       NewRevenueService(params),
	}
}

// GetRevenueOverview aggregates every configured merchant account over the
// requested calendar month and merges the results
func (s *dashboardService) GetRevenueOverview(ctx context.Context, req dto.RevenueOverviewRequest) (*dto.RevenueOverviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(s.Config.Merchants) == 0 {
		return nil, ierr.NewError("no merchant accounts configured").
			WithHint("Configure at least one merchant credential").
			Mark(ierr.ErrValidation)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.Config.Analytics.Timezone
	}
	loc, err := types.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}
	dateRange := types.NewMonthRange(loc, req.Year, time.Month(req.Month))

	// Fan out per merchant; each task owns its own result cell so the
	// merchant ordering of the response follows configuration order, not
	// completion order.
	merchants := make([]types.MerchantRevenue, len(s.Config.Merchants))
	payoutTotals := make([]map[string]decimal.Decimal, len(s.Config.Merchants))
	p := pool.New().WithMaxGoroutines(s.Config.Analytics.MerchantConcurrency)
	for i, merchant := range s.Config.Merchants {
		i, merchant := i, merchant
		p.Go(func() {
			mctx := types.SetMerchant(ctx, merchant.Name)
			merchants[i], payoutTotals[i] = s.aggregateMerchant(mctx, merchant, dateRange, loc)
		})
	}
	p.Wait()

	sequences := make([][]types.DailyStat, 0, len(merchants))
	breakdowns := types.NewRevenueBreakdown()
	for _, m := range merchants {
		sequences = append(sequences, m.DailyStats)
		breakdowns = breakdowns.Merge(m.RevenueBreakdown)
	}
	dailyTotals := MergeDailyStats(sequences...)

	// Derive the grand total from the merged daily buckets. Summing the
	// per-merchant flat totals instead would let the two fetch paths drift
	// apart silently.
	totalRevenue := SumDailyRevenue(dailyTotals)

	response := &dto.RevenueOverviewResponse{
		Merchants:      merchants,
		TotalRevenue:   totalRevenue,
		TotalPayouts:   types.MergeRevenue(payoutTotals...),
		TotalBreakdown: breakdowns,
		DailyTotals:    dailyTotals,
		Period:         dto.NewPeriod(dateRange, loc),
	}

	displayCurrency := req.DisplayCurrency
	if displayCurrency == "" {
		displayCurrency = s.Config.Analytics.DisplayCurrency
	}
	response.TotalRevenueConverted = s.convertTotal(ctx, totalRevenue, displayCurrency)

	return response, nil
}

// aggregateMerchant runs the per-merchant sub-fetches concurrently. Each
// sub-fetch is independently failure-tolerant: on error it substitutes its
// empty default and the remaining sections still load.
func (s *dashboardService) aggregateMerchant(ctx context.Context, merchant config.MerchantConfig, dateRange types.DateRange, loc *time.Location) (types.MerchantRevenue, map[string]decimal.Decimal) {
	provider := s.ProviderFactory(merchant.APIKey)

	result := types.MerchantRevenue{
		MerchantName:     merchant.Name,
		Revenue:          make(map[string]decimal.Decimal),
		Payouts:          make(map[string]decimal.Decimal),
		DailyStats:       []types.DailyStat{},
		RevenueBreakdown: types.NewRevenueBreakdown(),
		PendingRenewals:  types.NewRenewalSummary(),
	}

	p := pool.New()

	p.Go(func() {
		name, err := provider.GetAccountName(ctx)
		if err != nil {
			s.Logger.Warnw("failed to resolve merchant name", "error", err)
			if result.MerchantName == "" {
				result.MerchantName = UnknownMerchantName
			}
			return
		}
		result.MerchantName = name
	})

	p.Go(func() {
		revenue, err := s.revenue.GetRevenue(ctx, provider, dateRange)
		if err != nil {
			s.Logger.Warnw("failed to fetch merchant revenue", "error", err)
			return
		}
		result.Revenue = revenue
	})

	p.Go(func() {
		stats, err := s.revenue.GetDailyStats(ctx, provider, dateRange, loc)
		if err != nil {
			s.Logger.Warnw("failed to fetch merchant daily stats", "error", err)
			return
		}
		result.DailyStats = stats
	})

	p.Go(func() {
		breakdown, err := s.revenue.GetRevenueBreakdown(ctx, provider, dateRange)
		if err != nil {
			s.Logger.Warnw("failed to fetch merchant revenue breakdown", "error", err)
			return
		}
		result.RevenueBreakdown = breakdown
	})

	p.Go(func() {
		renewals, err := s.revenue.GetPendingRenewals(ctx, provider, dateRange, loc)
		if err != nil {
			s.Logger.Warnw("failed to fetch merchant pending renewals", "error", err)
			return
		}
		result.PendingRenewals = renewals
	})

	var payouts map[string]decimal.Decimal
	p.Go(func() {
		totals, err := s.revenue.GetPayouts(ctx, provider, dateRange)
		if err != nil {
			s.Logger.Warnw("failed to fetch merchant payouts", "error", err)
			return
		}
		payouts = totals
		result.Payouts = totals
	})

	p.Wait()

	if result.MerchantName == "" {
		result.MerchantName = UnknownMerchantName
	}
	return result, payouts
}

// convertTotal collapses a currency->amount map into the display currency.
// On rate-table failure the conversion is skipped entirely: callers get nil
// and render the unconverted totals.
func (s *dashboardService) convertTotal(ctx context.Context, total map[string]decimal.Decimal, displayCurrency string) map[string]decimal.Decimal {
	if len(total) == 0 {
		return nil
	}

	rates, err := s.RateProvider.GetLatestRates(ctx, displayCurrency)
	if err != nil {
		s.Logger.Warnw("failed to fetch exchange rates, skipping conversion",
			"display_currency", displayCurrency,
			"error", err)
		return nil
	}

	displayCurrency = types.NormalizeCurrency(displayCurrency)
	return map[string]decimal.Decimal{
		displayCurrency: types.ConvertRevenue(total, displayCurrency, rates),
	}
}
