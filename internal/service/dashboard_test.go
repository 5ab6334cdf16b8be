package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/revboard/revboard/internal/api/dto"
	"github.com/revboard/revboard/internal/config"
	"github.com/revboard/revboard/internal/domain/payment"
	ierr "github.com/revboard/revboard/internal/errors"
	"github.com/revboard/revboard/internal/testutil"
	"github.com/revboard/revboard/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardParams(t *testing.T, providers map[string]*testutil.InMemoryPaymentProvider, merchants ...config.MerchantConfig) ServiceParams {
	t.Helper()
	params := newTestParams(t)
	params.Config.Merchants = merchants
	params.ProviderFactory = func(apiKey string) payment.Provider {
		return providers[apiKey]
	}
	params.RateProvider = testutil.NewInMemoryRateProvider(types.RateTable{
		"USD": decimal.NewFromInt(1),
	})
	return params
}

func TestGetRevenueOverview_MergesMerchants(t *testing.T) {
	dateRange := types.NewMonthRange(time.UTC, 2024, time.March)

	alpha := testutil.NewInMemoryPaymentProvider("Alpha Store")
	alpha.AddCharges(&payment.Charge{
		ID: "ch_a", Amount: 5000, Currency: "usd",
		Created: dateRange.StartUnix() + 3600, Status: payment.ChargeStatusSucceeded,
	})

	beta := testutil.NewInMemoryPaymentProvider("Beta Store")
	beta.AddCharges(&payment.Charge{
		ID: "ch_b", Amount: 7500, Currency: "usd",
		Created: dateRange.StartUnix() + 7200, Status: payment.ChargeStatusSucceeded,
	})

	params := newDashboardParams(t,
		map[string]*testutil.InMemoryPaymentProvider{"key_a": alpha, "key_b": beta},
		config.MerchantConfig{Name: "alpha", APIKey: "key_a"},
		config.MerchantConfig{Name: "beta", APIKey: "key_b"},
	)

	svc := NewDashboardService(params)
	resp, err := svc.GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3})
	require.NoError(t, err)

	require.Len(t, resp.Merchants, 2)
	// Configuration order, not completion order
	assert.Equal(t, "Alpha Store", resp.Merchants[0].MerchantName)
	assert.Equal(t, "Beta Store", resp.Merchants[1].MerchantName)

	assert.Equal(t, "125", resp.TotalRevenue["USD"].String())
	assert.Equal(t, "2024-03-01", resp.Period.Start)
	assert.Equal(t, "2024-03-31", resp.Period.End)
	require.Len(t, resp.DailyTotals, 31)
	assert.Equal(t, "125", resp.DailyTotals[0].Revenue["USD"].String())
	assert.Equal(t, 2, resp.DailyTotals[0].OrderCount)
}

func TestGetRevenueOverview_TotalDerivedFromDailyTotals(t *testing.T) {
	dateRange := types.NewMonthRange(time.UTC, 2024, time.March)

	provider := testutil.NewInMemoryPaymentProvider("Store")
	for i := 0; i < 10; i++ {
		provider.AddCharges(&payment.Charge{
			ID: fmt.Sprintf("ch_%d", i), Amount: 1234, Currency: "usd",
			Created: dateRange.StartUnix() + int64(i)*86400, Status: payment.ChargeStatusSucceeded,
		})
	}

	params := newDashboardParams(t,
		map[string]*testutil.InMemoryPaymentProvider{"key": provider},
		config.MerchantConfig{Name: "store", APIKey: "key"},
	)

	resp, err := NewDashboardService(params).GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3})
	require.NoError(t, err)

	recomputed := SumDailyRevenue(resp.DailyTotals)
	require.Len(t, resp.TotalRevenue, len(recomputed))
	for currency, amount := range recomputed {
		assert.True(t, amount.Equal(resp.TotalRevenue[currency]),
			"total for %s does not match daily bucket sum", currency)
	}
}

func TestGetRevenueOverview_MerchantFailureIsolated(t *testing.T) {
	dateRange := types.NewMonthRange(time.UTC, 2024, time.March)

	healthy := testutil.NewInMemoryPaymentProvider("Healthy Store")
	healthy.AddCharges(&payment.Charge{
		ID: "ch_ok", Amount: 10000, Currency: "usd",
		Created: dateRange.StartUnix() + 3600, Status: payment.ChargeStatusSucceeded,
	})

	broken := testutil.NewInMemoryPaymentProvider("Broken Store")
	broken.AccountNameErr = fmt.Errorf("unauthorized")
	broken.ChargesErr = fmt.Errorf("unauthorized")
	broken.PayoutsErr = fmt.Errorf("unauthorized")
	broken.SubscriptionsErr = fmt.Errorf("unauthorized")

	params := newDashboardParams(t,
		map[string]*testutil.InMemoryPaymentProvider{"key_ok": healthy, "key_broken": broken},
		config.MerchantConfig{Name: "", APIKey: "key_broken"},
		config.MerchantConfig{Name: "healthy", APIKey: "key_ok"},
	)

	resp, err := NewDashboardService(params).GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3})
	require.NoError(t, err)

	require.Len(t, resp.Merchants, 2)
	assert.Equal(t, "Unknown Merchant", resp.Merchants[0].MerchantName)
	assert.Empty(t, resp.Merchants[0].Revenue)
	assert.Equal(t, "Healthy Store", resp.Merchants[1].MerchantName)
	assert.Equal(t, "100", resp.TotalRevenue["USD"].String())
}

func TestGetRevenueOverview_ConfiguredNameSurvivesLookupFailure(t *testing.T) {
	provider := testutil.NewInMemoryPaymentProvider("ignored")
	provider.AccountNameErr = fmt.Errorf("lookup failed")

	params := newDashboardParams(t,
		map[string]*testutil.InMemoryPaymentProvider{"key": provider},
		config.MerchantConfig{Name: "configured-name", APIKey: "key"},
	)

	resp, err := NewDashboardService(params).GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, "configured-name", resp.Merchants[0].MerchantName)
}

func TestGetRevenueOverview_ConvertedTotal(t *testing.T) {
	dateRange := types.NewMonthRange(time.UTC, 2024, time.March)

	provider := testutil.NewInMemoryPaymentProvider("Store")
	provider.AddCharges(
		&payment.Charge{ID: "ch_usd", Amount: 10000, Currency: "usd", Created: dateRange.StartUnix() + 60, Status: payment.ChargeStatusSucceeded},
		&payment.Charge{ID: "ch_jpy", Amount: 15000, Currency: "jpy", Created: dateRange.StartUnix() + 60, Status: payment.ChargeStatusSucceeded},
	)

	params := newDashboardParams(t,
		map[string]*testutil.InMemoryPaymentProvider{"key": provider},
		config.MerchantConfig{Name: "store", APIKey: "key"},
	)
	params.RateProvider = testutil.NewInMemoryRateProvider(types.RateTable{
		"USD": decimal.NewFromInt(1),
		"JPY": decimal.NewFromInt(150),
	})

	resp, err := NewDashboardService(params).GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3})
	require.NoError(t, err)

	// 100 USD + 15000 JPY at 150 JPY/USD
	require.NotNil(t, resp.TotalRevenueConverted)
	assert.Equal(t, "200", resp.TotalRevenueConverted["USD"].String())
}

func TestGetRevenueOverview_RateFailureSkipsConversion(t *testing.T) {
	dateRange := types.NewMonthRange(time.UTC, 2024, time.March)

	provider := testutil.NewInMemoryPaymentProvider("Store")
	provider.AddCharges(&payment.Charge{
		ID: "ch_1", Amount: 100, Currency: "usd",
		Created: dateRange.StartUnix() + 60, Status: payment.ChargeStatusSucceeded,
	})

	params := newDashboardParams(t,
		map[string]*testutil.InMemoryPaymentProvider{"key": provider},
		config.MerchantConfig{Name: "store", APIKey: "key"},
	)
	rateProvider := testutil.NewInMemoryRateProvider(nil)
	rateProvider.Err = fmt.Errorf("provider down")
	params.RateProvider = rateProvider

	resp, err := NewDashboardService(params).GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Nil(t, resp.TotalRevenueConverted)
	assert.Equal(t, "1", resp.TotalRevenue["USD"].String())
}

func TestGetRevenueOverview_Validation(t *testing.T) {
	params := newDashboardParams(t, nil)
	svc := NewDashboardService(params)

	t.Run("BadMonth", func(t *testing.T) {
		_, err := svc.GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 13})
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("BadTimezone", func(t *testing.T) {
		_, err := svc.GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3, Timezone: "Not/AZone"})
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("NoMerchants", func(t *testing.T) {
		_, err := svc.GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3})
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestGetRevenueOverview_PendingRenewals(t *testing.T) {
	dateRange := types.NewMonthRange(time.UTC, 2024, time.March)

	provider := testutil.NewInMemoryPaymentProvider("Store")
	provider.AddSubscriptions(
		&payment.Subscription{ID: "sub_due", Currency: "usd", UnitAmount: 2900, IntervalUnit: "month", IntervalCount: 1, CurrentPeriodEnd: dateRange.EndUnix() - 3600, Status: payment.SubscriptionStatusActive},
		&payment.Subscription{ID: "sub_later", Currency: "usd", UnitAmount: 2900, IntervalUnit: "month", IntervalCount: 1, CurrentPeriodEnd: dateRange.EndUnix() + 864000, Status: payment.SubscriptionStatusActive},
	)

	params := newDashboardParams(t,
		map[string]*testutil.InMemoryPaymentProvider{"key": provider},
		config.MerchantConfig{Name: "store", APIKey: "key"},
	)

	resp, err := NewDashboardService(params).GetRevenueOverview(context.Background(), dto.RevenueOverviewRequest{Year: 2024, Month: 3})
	require.NoError(t, err)

	renewals := resp.Merchants[0].PendingRenewals
	assert.Equal(t, 1, renewals.Count)
	assert.Equal(t, "29", renewals.TotalAmount["USD"].String())
}
