package dto

import (
	"time"

	ierr "github.com/revboard/revboard/internal/errors"
	"github.com/revboard/revboard/internal/types"
	"github.com/shopspring/decimal"
)

// RevenueOverviewRequest selects the reporting window and presentation
// options for the combined dashboard view
type RevenueOverviewRequest struct {
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	Timezone        string `json:"timezone,omitempty"`
	DisplayCurrency string `json:"display_currency,omitempty"`
}

// Validate validates the revenue overview request
func (r *RevenueOverviewRequest) Validate() error {
	if r.Year < 2000 || r.Year > 2200 {
		return ierr.NewError("year out of range").
			WithHint("Year must be a four digit year").
			WithReportableDetails(map[string]interface{}{
				"year": r.Year,
			}).
			Mark(ierr.ErrValidation)
	}
	if r.Month < 1 || r.Month > 12 {
		return ierr.NewError("month out of range").
			WithHint("Month must be between 1 and 12").
			WithReportableDetails(map[string]interface{}{
				"month": r.Month,
			}).
			Mark(ierr.ErrValidation)
	}
	if r.Timezone != "" {
		if err := types.ValidateTimezone(r.Timezone); err != nil {
			return err
		}
	}
	return nil
}

// Period is the resolved reporting window, dates as YYYY-MM-DD strings
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewPeriod formats a date range as a response period
func NewPeriod(dateRange types.DateRange, loc *time.Location) Period {
	return Period{
		Start: dateRange.Start.In(loc).Format(types.DateFormat),
		End:   dateRange.End.In(loc).Format(types.DateFormat),
	}
}

// RevenueOverviewResponse is the combined multi-merchant dashboard payload.
// All amounts are decimals, currency keys uppercase ISO codes, dates
// YYYY-MM-DD strings. TotalRevenue is derived from DailyTotals, never from
// the per-merchant flat totals.
type RevenueOverviewResponse struct {
	Merchants      []types.MerchantRevenue    `json:"merchants"`
	TotalRevenue   map[string]decimal.Decimal `json:"total_revenue"`
	TotalPayouts   map[string]decimal.Decimal `json:"total_payouts"`
	TotalBreakdown types.RevenueBreakdown     `json:"total_breakdown"`
	DailyTotals    []types.DailyStat          `json:"daily_totals"`
	// TotalRevenueConverted is TotalRevenue collapsed into the display
	// currency; omitted when the rate table was unavailable.
	TotalRevenueConverted map[string]decimal.Decimal `json:"total_revenue_converted,omitempty"`
	Period                Period                     `json:"period"`
}
