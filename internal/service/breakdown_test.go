package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/revboard/revboard/internal/domain/payment"
	"github.com/revboard/revboard/internal/testutil"
	"github.com/revboard/revboard/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestAggregateBreakdown(t *testing.T) {
	provider := testutil.NewInMemoryPaymentProvider("acct")
	provider.AddSubscriptions(
		&payment.Subscription{ID: "sub_monthly", Currency: "usd", IntervalUnit: "month", IntervalCount: 1, Status: payment.SubscriptionStatusActive},
		&payment.Subscription{ID: "sub_quarterly", Currency: "usd", IntervalUnit: "month", IntervalCount: 3, Status: payment.SubscriptionStatusActive},
		&payment.Subscription{ID: "sub_annual", Currency: "usd", IntervalUnit: "year", IntervalCount: 1, Status: payment.SubscriptionStatusActive},
		&payment.Subscription{ID: "sub_weekly", Currency: "usd", IntervalUnit: "week", IntervalCount: 1, Status: payment.SubscriptionStatusActive},
	)

	charges := []*payment.Charge{
		{ID: "ch_1", Amount: 1000, Currency: "usd", Status: payment.ChargeStatusSucceeded},
		{ID: "ch_2", Amount: 2000, Currency: "usd", Status: payment.ChargeStatusSucceeded, SubscriptionID: "sub_monthly"},
		{ID: "ch_3", Amount: 3000, Currency: "usd", Status: payment.ChargeStatusSucceeded, SubscriptionID: "sub_quarterly"},
		{ID: "ch_4", Amount: 4000, Currency: "usd", Status: payment.ChargeStatusSucceeded, SubscriptionID: "sub_annual"},
		// Interval outside the cadence registry classifies as one-time
		{ID: "ch_5", Amount: 5000, Currency: "usd", Status: payment.ChargeStatusSucceeded, SubscriptionID: "sub_weekly"},
		// Refunded charges never count
		{ID: "ch_6", Amount: 9000, Currency: "usd", Status: payment.ChargeStatusSucceeded, Refunded: true, SubscriptionID: "sub_monthly"},
	}

	svc := NewBreakdownService(newTestParams(t))
	breakdown := svc.AggregateBreakdown(context.Background(), provider, charges)

	assert.Equal(t, "60", breakdown.OneTime["USD"].String())
	assert.Equal(t, "20", breakdown.Subscription[types.CadenceMonthly]["USD"].String())
	assert.Equal(t, "30", breakdown.Subscription[types.CadenceQuarterly]["USD"].String())
	assert.Equal(t, "40", breakdown.Subscription[types.CadenceAnnual]["USD"].String())
	assert.Empty(t, breakdown.Subscription[types.CadenceSemiannual])
}

func TestAggregateBreakdown_FailedRetrievalDegradesToOneTime(t *testing.T) {
	provider := testutil.NewInMemoryPaymentProvider("acct")
	provider.AddSubscriptions(
		&payment.Subscription{ID: "sub_ok", Currency: "usd", IntervalUnit: "month", IntervalCount: 1, Status: payment.SubscriptionStatusActive},
	)
	provider.GetSubErr["sub_broken"] = fmt.Errorf("retrieval failed")

	charges := []*payment.Charge{
		{ID: "ch_1", Amount: 1000, Currency: "usd", Status: payment.ChargeStatusSucceeded, SubscriptionID: "sub_ok"},
		{ID: "ch_2", Amount: 2000, Currency: "usd", Status: payment.ChargeStatusSucceeded, SubscriptionID: "sub_broken"},
	}

	svc := NewBreakdownService(newTestParams(t))
	breakdown := svc.AggregateBreakdown(context.Background(), provider, charges)

	assert.Equal(t, "10", breakdown.Subscription[types.CadenceMonthly]["USD"].String())
	assert.Equal(t, "20", breakdown.OneTime["USD"].String())
}

func TestAggregateBreakdown_BatchesDistinctSubscriptions(t *testing.T) {
	provider := testutil.NewInMemoryPaymentProvider("acct")
	provider.AddSubscriptions(
		&payment.Subscription{ID: "sub_1", Currency: "usd", IntervalUnit: "month", IntervalCount: 1, Status: payment.SubscriptionStatusActive},
	)

	// Many charges referencing the same subscription
	charges := make([]*payment.Charge, 0, 20)
	for i := 0; i < 20; i++ {
		charges = append(charges, &payment.Charge{
			ID:             fmt.Sprintf("ch_%d", i),
			Amount:         100,
			Currency:       "usd",
			Status:         payment.ChargeStatusSucceeded,
			SubscriptionID: "sub_1",
		})
	}

	svc := NewBreakdownService(newTestParams(t))
	breakdown := svc.AggregateBreakdown(context.Background(), provider, charges)

	assert.Equal(t, "20", breakdown.Subscription[types.CadenceMonthly]["USD"].String())
}

func TestAggregateBreakdown_NoSubscriptions(t *testing.T) {
	provider := testutil.NewInMemoryPaymentProvider("acct")
	charges := []*payment.Charge{
		{ID: "ch_1", Amount: 1500, Currency: "eur", Status: payment.ChargeStatusSucceeded},
	}

	svc := NewBreakdownService(newTestParams(t))
	breakdown := svc.AggregateBreakdown(context.Background(), provider, charges)

	assert.Equal(t, "15", breakdown.OneTime["EUR"].String())
}
