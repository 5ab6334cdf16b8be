package service

import (
	"context"
	"sync"

	"github.com/revboard/revboard/internal/domain/payment"
	"github.com/revboard/revboard/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// BreakdownService buckets charges into one-time vs per-cadence subscription
// revenue. Linked subscriptions are resolved in one batched pass before
// classification so a charge set of any size costs at most one retrieval per
// distinct subscription.
type BreakdownService interface {
	AggregateBreakdown(ctx context.Context, provider payment.Provider, charges []*payment.Charge) types.RevenueBreakdown
}

type breakdownService struct {
	ServiceParams
}

// NewBreakdownService creates a new breakdown service
func NewBreakdownService(params ServiceParams) BreakdownService {
	return &breakdownService{ServiceParams: params}
}

// AggregateBreakdown classifies every qualifying charge and accumulates its
// normalized amount into the matching cadence bucket. A failed subscription
// retrieval resolves that ID to absent, so charges referencing it degrade to
// one-time classification rather than aborting the whole breakdown.
func (s *breakdownService) AggregateBreakdown(ctx context.Context, provider payment.Provider, charges []*payment.Charge) types.RevenueBreakdown {
	subs := s.resolveSubscriptions(ctx, provider, charges)

	breakdown := types.NewRevenueBreakdown()
	for _, charge := range charges {
		if !charge.CountsTowardRevenue() {
			continue
		}
		cadence := payment.Classify(charge, subs[charge.SubscriptionID])
		breakdown.Add(cadence, charge.Currency, types.ToDecimal(charge.Currency, charge.Amount))
	}
	return breakdown
}

// resolveSubscriptions retrieves the distinct subscriptions referenced by
// the charge set, concurrently and bounded by the fetch concurrency cap.
// IDs whose retrieval fails are simply missing from the returned map.
func (s *breakdownService) resolveSubscriptions(ctx context.Context, provider payment.Provider, charges []*payment.Charge) map[string]*payment.Subscription {
	ids := lo.Uniq(lo.FilterMap(charges, func(c *payment.Charge, _ int) (string, bool) {
		return c.SubscriptionID, c.SubscriptionID != ""
	}))
	if len(ids) == 0 {
		return nil
	}

	var mu sync.Mutex
	subs := make(map[string]*payment.Subscription, len(ids))

	p := pool.New().WithMaxGoroutines(s.Config.Analytics.FetchConcurrency)
	for _, id := range ids {
		id := id
		p.Go(func() {
			sub, err := provider.GetSubscription(ctx, id)
			if err != nil {
				// Degrades the referencing charges to one-time; see the
				// classification fallback note in DESIGN.md.
				s.Logger.Warnw("failed to resolve subscription, charges will classify as one-time",
					"subscription_id", id,
					"error", err)
				return
			}
			mu.Lock()
			subs[id] = sub
			mu.Unlock()
		})
	}
	p.Wait()

	return subs
}
