package payment

import (
	"github.com/revboard/revboard/internal/types"
)

// ChargeStatus is the settlement status reported by the payment provider
type ChargeStatus string

const (
	ChargeStatusSucceeded ChargeStatus = "succeeded"
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusFailed    ChargeStatus = "failed"
)

// SubscriptionStatus is the lifecycle status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// PayoutStatusPaid marks payouts that have settled to the merchant's bank
const PayoutStatusPaid = "paid"

// Charge is an immutable record of a settled charge as reported upstream.
// Amount is in minor units; Currency is uppercase ISO 4217; Created is epoch
// seconds. SubscriptionID is empty for one-time payments.
type Charge struct {
	ID             string       `json:"id"`
	Amount         int64        `json:"amount"`
	Currency       string       `json:"currency"`
	Created        int64        `json:"created"`
	Status         ChargeStatus `json:"status"`
	Refunded       bool         `json:"refunded"`
	SubscriptionID string       `json:"subscription_id,omitempty"`
}

// CountsTowardRevenue reports whether the charge qualifies for revenue
// aggregation: settled and not refunded.
func (c *Charge) CountsTowardRevenue() bool {
	return c != nil && c.Status == ChargeStatusSucceeded && !c.Refunded
}

// Subscription is the recurring-billing record a charge may link to.
// IntervalUnit and IntervalCount describe the billing cadence; UnitAmount is
// the minor-unit price of the first subscription item.
type Subscription struct {
	ID               string             `json:"id"`
	Currency         string             `json:"currency"`
	IntervalUnit     string             `json:"interval_unit"`
	IntervalCount    int64              `json:"interval_count"`
	UnitAmount       int64              `json:"unit_amount"`
	CurrentPeriodEnd int64              `json:"current_period_end"`
	Status           SubscriptionStatus `json:"status"`
}

// IsActive reports whether the subscription counts toward pending and
// renewal views
func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == SubscriptionStatusActive
}

// Payout is a settled transfer of funds to the merchant
type Payout struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Created  int64  `json:"created"`
	Status   string `json:"status"`
}

// Classify resolves a charge to its payment cadence given its linked
// subscription. No linked subscription, or an interval outside the cadence
// registry, classifies as one-time. Total by construction: it always
// returns a classification.
func Classify(charge *Charge, sub *Subscription) types.PaymentCadence {
	if charge == nil || charge.SubscriptionID == "" || sub == nil {
		return types.CadenceOneTime
	}
	return types.CadenceForInterval(sub.IntervalUnit, sub.IntervalCount)
}
