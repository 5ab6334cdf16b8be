package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/revboard/revboard/internal/domain/payment"
	ierr "github.com/revboard/revboard/internal/errors"
)

// InMemoryPaymentProvider implements payment.Provider against fixture data.
// Listings honor the same cursor contract as the real upstream: records are
// returned in insertion order, StartingAfter resumes after the given ID, and
// HasMore signals remaining records. Per-method error injection simulates
// upstream failures.
type InMemoryPaymentProvider struct {
	mu            sync.Mutex
	accountName   string
	charges       []*payment.Charge
	subscriptions []*payment.Subscription
	payouts       []*payment.Payout

	// Injected failures, keyed per method
	AccountNameErr   error
	ChargesErr       error
	SubscriptionsErr error
	PayoutsErr       error
	GetSubErr        map[string]error

	// ListCalls counts charge list pages served, for pagination assertions
	ListCalls int
}

// NewInMemoryPaymentProvider creates an empty in-memory payment provider
func NewInMemoryPaymentProvider(accountName string) *InMemoryPaymentProvider {
	return &InMemoryPaymentProvider{
		accountName: accountName,
		GetSubErr:   make(map[string]error),
	}
}

func (p *InMemoryPaymentProvider) AddCharges(charges ...*payment.Charge) *InMemoryPaymentProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charges = append(p.charges, charges...)
	return p
}

func (p *InMemoryPaymentProvider) AddSubscriptions(subs ...*payment.Subscription) *InMemoryPaymentProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscriptions = append(p.subscriptions, subs...)
	return p
}

func (p *InMemoryPaymentProvider) AddPayouts(payouts ...*payment.Payout) *InMemoryPaymentProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payouts = append(p.payouts, payouts...)
	return p
}

func (p *InMemoryPaymentProvider) GetAccountName(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.AccountNameErr != nil {
		return "", p.AccountNameErr
	}
	return p.accountName, nil
}

func (p *InMemoryPaymentProvider) ListCharges(ctx context.Context, params *payment.ChargeListParams) (*payment.ChargePage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ListCalls++

	if p.ChargesErr != nil {
		return nil, p.ChargesErr
	}

	matched := make([]*payment.Charge, 0)
	for _, c := range p.charges {
		if params.CreatedGTE != 0 && c.Created < params.CreatedGTE {
			continue
		}
		if params.CreatedLTE != 0 && c.Created > params.CreatedLTE {
			continue
		}
		matched = append(matched, c)
	}
	// Upstream lists newest first; sort by created descending with ID as the
	// tiebreaker so cursoring is deterministic
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Created != matched[j].Created {
			return matched[i].Created > matched[j].Created
		}
		return matched[i].ID > matched[j].ID
	})

	start := 0
	if params.StartingAfter != "" {
		start = len(matched)
		for i, c := range matched {
			if c.ID == params.StartingAfter {
				start = i + 1
				break
			}
		}
	}
	end := start + int(params.Limit)
	if params.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	page := make([]*payment.Charge, 0, end-start)
	for _, c := range matched[start:end] {
		copied := *c
		page = append(page, &copied)
	}
	return &payment.ChargePage{
		Charges: page,
		HasMore: end < len(matched),
	}, nil
}

func (p *InMemoryPaymentProvider) ListSubscriptions(ctx context.Context, params *payment.SubscriptionListParams) (*payment.SubscriptionPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.SubscriptionsErr != nil {
		return nil, p.SubscriptionsErr
	}

	matched := make([]*payment.Subscription, 0)
	for _, s := range p.subscriptions {
		if params.Status != "" && s.Status != params.Status {
			continue
		}
		matched = append(matched, s)
	}

	start := 0
	if params.StartingAfter != "" {
		start = len(matched)
		for i, s := range matched {
			if s.ID == params.StartingAfter {
				start = i + 1
				break
			}
		}
	}
	end := start + int(params.Limit)
	if params.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	page := make([]*payment.Subscription, 0, end-start)
	for _, s := range matched[start:end] {
		copied := *s
		page = append(page, &copied)
	}
	return &payment.SubscriptionPage{
		Subscriptions: page,
		HasMore:       end < len(matched),
	}, nil
}

func (p *InMemoryPaymentProvider) GetSubscription(ctx context.Context, id string) (*payment.Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.GetSubErr[id]; err != nil {
		return nil, err
	}
	for _, s := range p.subscriptions {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, ierr.NewError("subscription not found").
		WithReportableDetails(map[string]interface{}{
			"subscription_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func (p *InMemoryPaymentProvider) ListPayouts(ctx context.Context, params *payment.PayoutListParams) (*payment.PayoutPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.PayoutsErr != nil {
		return nil, p.PayoutsErr
	}

	matched := make([]*payment.Payout, 0)
	for _, po := range p.payouts {
		if params.CreatedGTE != 0 && po.Created < params.CreatedGTE {
			continue
		}
		if params.CreatedLTE != 0 && po.Created > params.CreatedLTE {
			continue
		}
		if params.Status != "" && po.Status != params.Status {
			continue
		}
		matched = append(matched, po)
	}

	start := 0
	if params.StartingAfter != "" {
		start = len(matched)
		for i, po := range matched {
			if po.ID == params.StartingAfter {
				start = i + 1
				break
			}
		}
	}
	end := start + int(params.Limit)
	if params.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	page := make([]*payment.Payout, 0, end-start)
	for _, po := range matched[start:end] {
		copied := *po
		page = append(page, &copied)
	}
	return &payment.PayoutPage{
		Payouts: page,
		HasMore: end < len(matched),
	}, nil
}
