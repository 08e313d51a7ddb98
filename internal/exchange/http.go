package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

// DefaultRatesURL is the public currency API; {date} is replaced by the requested day.
const DefaultRatesURL = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@{date}/v1/currencies/eur.min.json"

// maxFallbackDays bounds how far back HTTPSource walks when a day is not published yet.
const maxFallbackDays = 7

var errNotPublished = errors.New("rates not published")

// HTTPSource fetches daily rates from a currency API.
type HTTPSource struct {
	urlTemplate string
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker
}

// NewHTTPSource creates a source for urlTemplate. A nil client uses a 10s timeout client.
func NewHTTPSource(urlTemplate string, client *http.Client) *HTTPSource {
	if urlTemplate == "" {
		urlTemplate = DefaultRatesURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "rates-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a missing day is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotPublished)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &HTTPSource{urlTemplate: urlTemplate, client: client, breaker: breaker}
}

// Rates returns the rates for date, falling back to earlier days while the API
// reports them as not published.
func (s *HTTPSource) Rates(ctx context.Context, date time.Time) (*Rates, error) {
	day := date
	for i := 0; i <= maxFallbackDays; i++ {
		rates, err := s.fetch(ctx, day.Format(DateLayout))
		if err == nil {
			return rates, nil
		}
		if !errors.Is(err, errNotPublished) {
			return nil, err
		}
		slog.Debug("Rates not published, trying previous day", "date", day.Format(DateLayout))
		day = day.AddDate(0, 0, -1)
	}
	return nil, fmt.Errorf("%w: %s", ErrRatesNotFound, date.Format(DateLayout))
}

func (s *HTTPSource) fetch(ctx context.Context, date string) (*Rates, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.get(ctx, date)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Rates), nil
}

func (s *HTTPSource) get(ctx context.Context, date string) (*Rates, error) {
	url := strings.ReplaceAll(s.urlTemplate, "{date}", date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates for %s: %w", date, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotPublished
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to fetch rates for %s: unexpected status %d", date, resp.StatusCode)
	}

	var body struct {
		Date string                     `json:"date"`
		EUR  map[string]decimal.Decimal `json:"eur"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates for %s: %w", date, err)
	}
	if body.EUR == nil {
		return nil, fmt.Errorf("failed to decode rates for %s: missing eur table", date)
	}
	if body.Date == "" {
		body.Date = date
	}
	return filter(body.Date, body.EUR), nil
}
