package collector

import (
	"context"
	"errors"
	"time"

	"ETFAdvisor/internal/model"
)

// ErrNoData is returned when a source has no history for a ticker.
var ErrNoData = errors.New("no price data")

// Provider supplies the close history of a ticker, oldest first.
type Provider interface {
	Fetch(ctx context.Context, ticker model.Ticker) (model.PriceSeries, error)
	Name() string
}

// HistoryFetcher downloads daily closes for a date window from a market-data source.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, ticker model.Ticker, start, end time.Time) (model.PriceSeries, error)
	Name() string
}

// dateOf truncates t to its calendar date in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
