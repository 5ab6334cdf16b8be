package stripe

import (
	"context"

	"github.com/revboard/revboard/internal/domain/payment"
	ierr "github.com/revboard/revboard/internal/errors"
	"github.com/revboard/revboard/internal/logger"
	"github.com/revboard/revboard/internal/types"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// defaultPageLimit is the upstream maximum page size
const defaultPageLimit int64 = 100

// Client implements payment.Provider against the Stripe API. Each client is
// bound to one merchant account's secret key. All calls are read-only.
type Client struct {
	api    *client.API
	logger *logger.Logger
}

// NewClient creates a Stripe-backed payment provider for one account
func NewClient(apiKey string, log *logger.Logger) payment.Provider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{
		api:    api,
		logger: log,
	}
}

// NewProviderFactory returns a factory the combiner can use to build one
// provider per configured merchant credential
func NewProviderFactory(log *logger.Logger) payment.ProviderFactory {
	return func(apiKey string) payment.Provider {
		return NewClient(apiKey, log)
	}
}

// ListCharges fetches a single page of charges created in the given range
func (c *Client) ListCharges(ctx context.Context, p *payment.ChargeListParams) (*payment.ChargePage, error) {
	params := &stripe.ChargeListParams{
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: p.CreatedGTE,
			LesserThanOrEqual:  p.CreatedLTE,
		},
	}
	params.Context = ctx
	params.Limit = stripe.Int64(pageLimit(p.Limit))
	params.Single = true
	if p.StartingAfter != "" {
		params.StartingAfter = stripe.String(p.StartingAfter)
	}
	// The invoice carries the subscription linkage for recurring charges
	params.AddExpand("data.invoice")

	iter := c.api.Charges.List(params)
	charges := make([]*payment.Charge, 0, pageLimit(p.Limit))
	for iter.Next() {
		charges = append(charges, fromStripeCharge(iter.Charge()))
	}
	if err := iter.Err(); err != nil {
		c.logger.Errorw("failed to list charges from Stripe",
			"error", err,
			"starting_after", p.StartingAfter)
		return nil, ierr.WithError(err).
			WithHint("Unable to list charges from Stripe").
			Mark(ierr.ErrHTTPClient)
	}

	return &payment.ChargePage{
		Charges: charges,
		HasMore: listHasMore(iter.ChargeList()),
	}, nil
}

// ListSubscriptions fetches a single page of subscriptions
func (c *Client) ListSubscriptions(ctx context.Context, p *payment.SubscriptionListParams) (*payment.SubscriptionPage, error) {
	params := &stripe.SubscriptionListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(pageLimit(p.Limit))
	params.Single = true
	if p.Status != "" {
		params.Status = stripe.String(string(p.Status))
	}
	if p.CreatedGTE > 0 || p.CreatedLTE > 0 {
		params.CreatedRange = &stripe.RangeQueryParams{
			GreaterThanOrEqual: p.CreatedGTE,
			LesserThanOrEqual:  p.CreatedLTE,
		}
	}
	if p.StartingAfter != "" {
		params.StartingAfter = stripe.String(p.StartingAfter)
	}

	iter := c.api.Subscriptions.List(params)
	subs := make([]*payment.Subscription, 0, pageLimit(p.Limit))
	for iter.Next() {
		subs = append(subs, fromStripeSubscription(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		c.logger.Errorw("failed to list subscriptions from Stripe",
			"error", err,
			"starting_after", p.StartingAfter)
		return nil, ierr.WithError(err).
			WithHint("Unable to list subscriptions from Stripe").
			Mark(ierr.ErrHTTPClient)
	}

	return &payment.SubscriptionPage{
		Subscriptions: subs,
		HasMore:       listHasMore(iter.SubscriptionList()),
	}, nil
}

// GetSubscription retrieves one subscription by ID
func (c *Client) GetSubscription(ctx context.Context, id string) (*payment.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := c.api.Subscriptions.Get(id, params)
	if err != nil {
		c.logger.Warnw("failed to retrieve subscription from Stripe",
			"error", err,
			"subscription_id", id)
		return nil, ierr.WithError(err).
			WithHint("Unable to retrieve subscription from Stripe").
			WithReportableDetails(map[string]interface{}{
				"subscription_id": id,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	return fromStripeSubscription(sub), nil
}

// ListPayouts fetches a single page of payouts created in the given range
func (c *Client) ListPayouts(ctx context.Context, p *payment.PayoutListParams) (*payment.PayoutPage, error) {
	params := &stripe.PayoutListParams{
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: p.CreatedGTE,
			LesserThanOrEqual:  p.CreatedLTE,
		},
	}
	params.Context = ctx
	params.Limit = stripe.Int64(pageLimit(p.Limit))
	params.Single = true
	if p.Status != "" {
		params.Status = stripe.String(p.Status)
	}
	if p.StartingAfter != "" {
		params.StartingAfter = stripe.String(p.StartingAfter)
	}

	iter := c.api.Payouts.List(params)
	payouts := make([]*payment.Payout, 0, pageLimit(p.Limit))
	for iter.Next() {
		payouts = append(payouts, fromStripePayout(iter.Payout()))
	}
	if err := iter.Err(); err != nil {
		c.logger.Errorw("failed to list payouts from Stripe",
			"error", err,
			"starting_after", p.StartingAfter)
		return nil, ierr.WithError(err).
			WithHint("Unable to list payouts from Stripe").
			Mark(ierr.ErrHTTPClient)
	}

	return &payment.PayoutPage{
		Payouts: payouts,
		HasMore: listHasMore(iter.PayoutList()),
	}, nil
}

// GetAccountName resolves a display name for the authenticated account.
// Falls through dashboard display name, business name, then account email.
func (c *Client) GetAccountName(ctx context.Context) (string, error) {
	acct, err := c.api.Accounts.Get()
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Unable to resolve Stripe account identity").
			Mark(ierr.ErrHTTPClient)
	}

	if acct.Settings != nil && acct.Settings.Dashboard != nil && acct.Settings.Dashboard.DisplayName != "" {
		return acct.Settings.Dashboard.DisplayName, nil
	}
	if acct.BusinessProfile != nil && acct.BusinessProfile.Name != "" {
		return acct.BusinessProfile.Name, nil
	}
	if acct.Email != "" {
		return acct.Email, nil
	}
	return acct.ID, nil
}

func pageLimit(limit int64) int64 {
	if limit <= 0 || limit > defaultPageLimit {
		return defaultPageLimit
	}
	return limit
}

type hasMoreLister interface {
	GetListMeta() *stripe.ListMeta
}

func listHasMore(list hasMoreLister) bool {
	if list == nil {
		return false
	}
	meta := list.GetListMeta()
	return meta != nil && meta.HasMore
}

func fromStripeCharge(ch *stripe.Charge) *payment.Charge {
	return &payment.Charge{
		ID:             ch.ID,
		Amount:         ch.Amount,
		Currency:       types.NormalizeCurrency(string(ch.Currency)),
		Created:        ch.Created,
		Status:         payment.ChargeStatus(ch.Status),
		Refunded:       ch.Refunded,
		SubscriptionID: subscriptionIDFromCharge(ch),
	}
}

// subscriptionIDFromCharge walks the expanded invoice to the subscription
// the charge settles, if any
func subscriptionIDFromCharge(ch *stripe.Charge) string {
	inv := ch.Invoice
	if inv == nil || inv.Parent == nil || inv.Parent.SubscriptionDetails == nil || inv.Parent.SubscriptionDetails.Subscription == nil {
		return ""
	}
	return inv.Parent.SubscriptionDetails.Subscription.ID
}

func fromStripeSubscription(sub *stripe.Subscription) *payment.Subscription {
	out := &payment.Subscription{
		ID:       sub.ID,
		Currency: types.NormalizeCurrency(string(sub.Currency)),
		Status:   payment.SubscriptionStatus(sub.Status),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		out.CurrentPeriodEnd = item.CurrentPeriodEnd
		if item.Price != nil {
			out.UnitAmount = item.Price.UnitAmount
			if item.Price.Recurring != nil {
				out.IntervalUnit = string(item.Price.Recurring.Interval)
				out.IntervalCount = item.Price.Recurring.IntervalCount
			}
		}
	}
	return out
}

func fromStripePayout(p *stripe.Payout) *payment.Payout {
	return &payment.Payout{
		ID:       p.ID,
		Amount:   p.Amount,
		Currency: types.NormalizeCurrency(string(p.Currency)),
		Created:  p.Created,
		Status:   string(p.Status),
	}
}
