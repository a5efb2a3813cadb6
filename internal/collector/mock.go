package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ETFAdvisor/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// Tickers without an entry in Series or Errs report ErrNoData.
type MockProvider struct {
	Series map[model.Ticker]model.PriceSeries
	Errs   map[model.Ticker]error
	Delay  time.Duration

	mu    sync.Mutex
	calls map[model.Ticker]int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Fetch(ctx context.Context, ticker model.Ticker) (model.PriceSeries, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[model.Ticker]int)
	}
	m.calls[ticker]++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return model.PriceSeries{}, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if err, ok := m.Errs[ticker]; ok {
		return model.PriceSeries{}, err
	}
	s, ok := m.Series[ticker]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	return s, nil
}

// FetchHistory ignores the window and serves Fetch.
func (m *MockProvider) FetchHistory(ctx context.Context, ticker model.Ticker, _, _ time.Time) (model.PriceSeries, error) {
	return m.Fetch(ctx, ticker)
}

// Calls reports how many times ticker was fetched.
func (m *MockProvider) Calls(ticker model.Ticker) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[ticker]
}

// GenerateSeries builds n daily closes starting at base that grow by drift
// per day with an alternating swing, so volatility stays positive.
func GenerateSeries(ticker model.Ticker, base, drift, swing float64, n int) model.PriceSeries {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := model.PriceSeries{Ticker: ticker, FetchedAt: time.Now()}
	p := base
	for i := 0; i < n; i++ {
		if i > 0 {
			r := drift + swing
			if i%2 == 0 {
				r = drift - swing
			}
			p *= 1 + r
		}
		s.Points = append(s.Points, model.PricePoint{Date: start.AddDate(0, 0, i), Close: p})
	}
	return s
}
