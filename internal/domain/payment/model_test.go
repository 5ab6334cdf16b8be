package payment

import (
	"testing"

	"github.com/revboard/revboard/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestChargeCountsTowardRevenue(t *testing.T) {
	tests := []struct {
		name     string
		charge   *Charge
		expected bool
	}{
		{name: "Succeeded", charge: &Charge{Status: ChargeStatusSucceeded}, expected: true},
		{name: "Refunded", charge: &Charge{Status: ChargeStatusSucceeded, Refunded: true}, expected: false},
		{name: "Pending", charge: &Charge{Status: ChargeStatusPending}, expected: false},
		{name: "Failed", charge: &Charge{Status: ChargeStatusFailed}, expected: false},
		{name: "Nil", charge: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.charge.CountsTowardRevenue())
		})
	}
}

func TestClassify(t *testing.T) {
	monthly := &Subscription{ID: "sub_1", IntervalUnit: "month", IntervalCount: 1}

	tests := []struct {
		name     string
		charge   *Charge
		sub      *Subscription
		expected types.PaymentCadence
	}{
		{
			name:     "NoLinkedSubscription",
			charge:   &Charge{ID: "ch_1"},
			sub:      nil,
			expected: types.CadenceOneTime,
		},
		{
			name:     "LinkedButUnresolved",
			charge:   &Charge{ID: "ch_1", SubscriptionID: "sub_gone"},
			sub:      nil,
			expected: types.CadenceOneTime,
		},
		{
			name:     "Monthly",
			charge:   &Charge{ID: "ch_1", SubscriptionID: "sub_1"},
			sub:      monthly,
			expected: types.CadenceMonthly,
		},
		{
			name:     "UnregisteredInterval",
			charge:   &Charge{ID: "ch_1", SubscriptionID: "sub_2"},
			sub:      &Subscription{ID: "sub_2", IntervalUnit: "day", IntervalCount: 1},
			expected: types.CadenceOneTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.charge, tt.sub))
		})
	}
}

func TestSubscriptionIsActive(t *testing.T) {
	assert.True(t, (&Subscription{Status: SubscriptionStatusActive}).IsActive())
	assert.False(t, (&Subscription{Status: SubscriptionStatusCanceled}).IsActive())
	assert.False(t, (*Subscription)(nil).IsActive())
}
