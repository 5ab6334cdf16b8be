package payment

import (
	"context"
)

// ChargeListParams filters one page of the charge listing. StartingAfter is
// the cursor: the ID of the last charge of the previous page.
type ChargeListParams struct {
	CreatedGTE    int64
	CreatedLTE    int64
	StartingAfter string
	Limit         int64
}

// ChargePage is one page of charges plus the upstream's more-pages signal
type ChargePage struct {
	Charges []*Charge
	HasMore bool
}

// SubscriptionListParams filters one page of the subscription listing
type SubscriptionListParams struct {
	Status        SubscriptionStatus
	CreatedGTE    int64
	CreatedLTE    int64
	StartingAfter string
	Limit         int64
}

// SubscriptionPage is one page of subscriptions plus the more-pages signal
type SubscriptionPage struct {
	Subscriptions []*Subscription
	HasMore       bool
}

// PayoutListParams filters one page of the payout listing
type PayoutListParams struct {
	CreatedGTE    int64
	CreatedLTE    int64
	Status        string
	StartingAfter string
	Limit         int64
}

// PayoutPage is one page of payouts plus the more-pages signal
type PayoutPage struct {
	Payouts []*Payout
	HasMore bool
}

// Provider is the read-only upstream payments API surface the aggregation
// pipeline consumes: cursor-paginated listings, retrieval by ID, and account
// identity lookup. Implementations never mutate upstream state.
type Provider interface {
	ListCharges(ctx context.Context, params *ChargeListParams) (*ChargePage, error)
	ListSubscriptions(ctx context.Context, params *SubscriptionListParams) (*SubscriptionPage, error)
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	ListPayouts(ctx context.Context, params *PayoutListParams) (*PayoutPage, error)
	GetAccountName(ctx context.Context) (string, error)
}

// ProviderFactory builds a Provider for one merchant account credential.
// The combiner uses it to fan out across configured merchants.
type ProviderFactory func(apiKey string) Provider
