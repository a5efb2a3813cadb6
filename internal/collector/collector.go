package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ETFAdvisor/internal/metrics"
	"ETFAdvisor/internal/model"
)

// Store persists downloaded history.
type Store interface {
	Save(series model.PriceSeries) error
}

// RefreshResult summarises one refresh run.
type RefreshResult struct {
	Source   string
	OK       []model.Ticker
	Failed   map[model.Ticker]error
	Started  time.Time
	Duration time.Duration
}

// ErrRefreshFailed is returned when no ticker could be refreshed.
var ErrRefreshFailed = errors.New("refresh failed for every ticker")

// Collector downloads history for a ticker list and writes it to a Store.
type Collector struct {
	Fetcher HistoryFetcher
	Store   Store
	Tickers []model.Ticker
	Start   time.Time
	End     time.Time // zero means now
}

// NewCollector creates a new Collector.
func NewCollector(fetcher HistoryFetcher, store Store, tickers []model.Ticker, start, end time.Time) *Collector {
	return &Collector{Fetcher: fetcher, Store: store, Tickers: tickers, Start: start, End: end}
}

// Refresh fetches and saves every ticker in order. Individual failures are
// logged and reported in the result; an error is returned only when all fail.
func (c *Collector) Refresh(ctx context.Context) (*RefreshResult, error) {
	res := &RefreshResult{
		Source:  c.Fetcher.Name(),
		Failed:  make(map[model.Ticker]error),
		Started: time.Now(),
	}
	end := c.End
	if end.IsZero() {
		end = time.Now()
	}

	for _, t := range c.Tickers {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		log.Info().Str("ticker", string(t)).Str("source", res.Source).Msg("fetching history")
		series, err := c.Fetcher.FetchHistory(ctx, t, c.Start, end)
		if err == nil {
			err = c.Store.Save(series)
		}
		if err != nil {
			log.Warn().Err(err).Str("ticker", string(t)).Msg("refresh ticker failed")
			res.Failed[t] = err
			metrics.RefreshTickers.WithLabelValues("failed").Inc()
			continue
		}
		log.Info().Str("ticker", string(t)).Int("points", series.Len()).Msg("history saved")
		res.OK = append(res.OK, t)
		metrics.RefreshTickers.WithLabelValues("ok").Inc()
	}
	res.Duration = time.Since(res.Started)

	if len(res.OK) == 0 && len(c.Tickers) > 0 {
		return res, fmt.Errorf("%w (%d tickers)", ErrRefreshFailed, len(c.Tickers))
	}
	return res, nil
}
