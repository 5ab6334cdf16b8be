package service

import (
	"context"

	"github.com/revboard/revboard/internal/domain/payment"
	ierr "github.com/revboard/revboard/internal/errors"
	"github.com/revboard/revboard/internal/types"
	"golang.org/x/sync/errgroup"
)

// FetcherService retrieves complete result sets from the upstream's
// cursor-paginated listings. Fetching is strictly sequential per cursor
// chain; when fetch_slices > 1 the date range is partitioned into equal,
// contiguous sub-ranges that are paginated concurrently and concatenated in
// slice order. Both strategies yield the same multiset of records.
type FetcherService interface {
	FetchCharges(ctx context.Context, provider payment.Provider, dateRange types.DateRange) ([]*payment.Charge, error)
	FetchPaidPayouts(ctx context.Context, provider payment.Provider, dateRange types.DateRange) ([]*payment.Payout, error)
	FetchActiveSubscriptions(ctx context.Context, provider payment.Provider) ([]*payment.Subscription, error)
}

type fetcherService struct {
	ServiceParams
}

// NewFetcherService creates a new fetcher service
func NewFetcherService(params ServiceParams) FetcherService {
	return &fetcherService{ServiceParams: params}
}

// FetchCharges retrieves every charge created inside the range
func (s *fetcherService) FetchCharges(ctx context.Context, provider payment.Provider, dateRange types.DateRange) ([]*payment.Charge, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	slices := dateRange.Split(s.Config.Analytics.FetchSlices)
	if len(slices) == 1 {
		return s.fetchChargesRange(ctx, provider, slices[0])
	}

	// Each slice owns its own result cell; concatenation below is in slice
	// order, not completion order.
	results := make([][]*payment.Charge, len(slices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.Analytics.FetchConcurrency)
	for i, slice := range slices {
		i, slice := i, slice
		g.Go(func() error {
			charges, err := s.fetchChargesRange(gctx, provider, slice)
			if err != nil {
				return err
			}
			results[i] = charges
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var charges []*payment.Charge
	for _, part := range results {
		charges = append(charges, part...)
	}
	return charges, nil
}

// fetchChargesRange follows the cursor chain for one sub-range until the
// upstream signals no more pages
func (s *fetcherService) fetchChargesRange(ctx context.Context, provider payment.Provider, dateRange types.DateRange) ([]*payment.Charge, error) {
	var charges []*payment.Charge
	cursor := ""
	for {
		page, err := provider.ListCharges(ctx, &payment.ChargeListParams{
			CreatedGTE:    dateRange.StartUnix(),
			CreatedLTE:    dateRange.EndUnix(),
			StartingAfter: cursor,
			Limit:         s.Config.Analytics.PageLimit,
		})
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Charge pagination aborted").
				WithReportableDetails(map[string]interface{}{
					"cursor": cursor,
				}).
				Mark(ierr.ErrHTTPClient)
		}
		charges = append(charges, page.Charges...)
		if !page.HasMore || len(page.Charges) == 0 {
			return charges, nil
		}
		cursor = page.Charges[len(page.Charges)-1].ID
	}
}

// FetchPaidPayouts retrieves every paid payout created inside the range
func (s *fetcherService) FetchPaidPayouts(ctx context.Context, provider payment.Provider, dateRange types.DateRange) ([]*payment.Payout, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	var payouts []*payment.Payout
	cursor := ""
	for {
		page, err := provider.ListPayouts(ctx, &payment.PayoutListParams{
			CreatedGTE:    dateRange.StartUnix(),
			CreatedLTE:    dateRange.EndUnix(),
			Status:        payment.PayoutStatusPaid,
			StartingAfter: cursor,
			Limit:         s.Config.Analytics.PageLimit,
		})
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Payout pagination aborted").
				Mark(ierr.ErrHTTPClient)
		}
		payouts = append(payouts, page.Payouts...)
		if !page.HasMore || len(page.Payouts) == 0 {
			return payouts, nil
		}
		cursor = page.Payouts[len(page.Payouts)-1].ID
	}
}

// FetchActiveSubscriptions retrieves every active subscription on the account
func (s *fetcherService) FetchActiveSubscriptions(ctx context.Context, provider payment.Provider) ([]*payment.Subscription, error) {
	var subs []*payment.Subscription
	cursor := ""
	for {
		page, err := provider.ListSubscriptions(ctx, &payment.SubscriptionListParams{
			Status:        payment.SubscriptionStatusActive,
			StartingAfter: cursor,
			Limit:         s.Config.Analytics.PageLimit,
		})
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Subscription pagination aborted").
				Mark(ierr.ErrHTTPClient)
		}
		subs = append(subs, page.Subscriptions...)
		if !page.HasMore || len(page.Subscriptions) == 0 {
			return subs, nil
		}
		cursor = page.Subscriptions[len(page.Subscriptions)-1].ID
	}
}
