package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	gocache "github.com/patrickmn/go-cache"
	ierr "github.com/revboard/revboard/internal/errors"
	"github.com/revboard/revboard/internal/logger"
	"github.com/revboard/revboard/internal/types"
	"github.com/shopspring/decimal"
)

const (
	// cacheTTL bounds how stale a rate table can get; upstream refreshes daily
	cacheTTL      = 10 * time.Minute
	cacheCleanup  = 30 * time.Minute
	clientTimeout = 15 * time.Second
)

// RateProvider exposes the latest exchange rates relative to a base currency
type RateProvider interface {
	GetLatestRates(ctx context.Context, base string) (types.RateTable, error)
}

// Client fetches latest exchange rates over HTTP. Transient failures are
// retried at the transport level; persistent failures surface as errors and
// the caller substitutes an empty table.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *logger.Logger
}

// ratesResponse is the upstream /v4/latest payload
type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// NewClient creates a rate client against the given base URL
func NewClient(baseURL string, log *logger.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = clientTimeout
	retryClient.Logger = log.GetRetryableHTTPLogger()

	return &Client{
		baseURL:    baseURL,
		httpClient: retryClient.StandardClient(),
		cache:      gocache.New(cacheTTL, cacheCleanup),
		logger:     log,
	}
}

// GetLatestRates returns the latest rates relative to base. Results are
// cached per base currency for cacheTTL.
func (c *Client) GetLatestRates(ctx context.Context, base string) (types.RateTable, error) {
	base = types.NormalizeCurrency(base)
	if cached, found := c.cache.Get(base); found {
		return cached.(types.RateTable), nil
	}

	url := fmt.Sprintf("%s/v4/latest/%s", c.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build exchange rate request").
			Mark(ierr.ErrInternal)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorw("failed to fetch exchange rates", "error", err, "base", base)
		return nil, ierr.WithError(err).
			WithHint("Unable to reach exchange rate provider").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read exchange rate response").
			Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Errorw("exchange rate provider returned an error",
			"status", resp.StatusCode,
			"base", base)
		return nil, ierr.NewError("exchange rate provider error").
			WithHintf("HTTP status %d", resp.StatusCode).
			Mark(ierr.ErrHTTPClient)
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse exchange rate response").
			Mark(ierr.ErrHTTPClient)
	}

	rates := make(types.RateTable, len(parsed.Rates))
	for currency, rate := range parsed.Rates {
		rates[types.NormalizeCurrency(currency)] = decimal.NewFromFloat(rate)
	}

	c.cache.Set(base, rates, gocache.DefaultExpiration)
	c.logger.Infow("fetched exchange rates",
		"base", base,
		"currencies", len(rates),
		"date", parsed.Date)

	return rates, nil
}
