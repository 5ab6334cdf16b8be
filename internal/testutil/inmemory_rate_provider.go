package testutil

import (
	"context"

	"github.com/revboard/revboard/internal/types"
)

// InMemoryRateProvider implements exchangerate.RateProvider over a fixed table
type InMemoryRateProvider struct {
	Rates types.RateTable
	Err   error
}

func NewInMemoryRateProvider(rates types.RateTable) *InMemoryRateProvider {
	return &InMemoryRateProvider{Rates: rates}
}

func (p *InMemoryRateProvider) GetLatestRates(ctx context.Context, base string) (types.RateTable, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Rates, nil
}
