package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ETFAdvisor/internal/calculator"
	"ETFAdvisor/internal/collector"
	"ETFAdvisor/internal/metrics"
	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/tier"
)

var (
	// ErrNoCandidates means every ticker in the tier is excluded or has no usable data.
	ErrNoCandidates = errors.New("no candidates left")
	// ErrInvalidTier means the tier label is not registered.
	ErrInvalidTier = tier.ErrInvalidTier
)

// Selector ranks the funds of a tier by Sharpe ratio.
type Selector struct {
	Registry *tier.Registry
	Provider collector.Provider
	// Workers bounds concurrent provider fetches; values below 1 fetch sequentially.
	Workers int
	// FetchTimeout bounds each provider call; zero means no per-ticker limit.
	FetchTimeout time.Duration
}

// NewSelector creates a Selector over registry and provider.
func NewSelector(registry *tier.Registry, provider collector.Provider, workers int, fetchTimeout time.Duration) *Selector {
	return &Selector{Registry: registry, Provider: provider, Workers: workers, FetchTimeout: fetchTimeout}
}

// Tiers lists the selectable tiers.
func (s *Selector) Tiers() []model.RiskTier {
	return s.Registry.Tiers()
}

// PickBest returns the highest-Sharpe fund of tier that is not in excluded.
// Tickers whose history is unavailable are skipped. Equal Sharpe ratios go to
// the ticker listed first in the registry. excluded is never modified.
func (s *Selector) PickBest(ctx context.Context, t model.RiskTier, excluded model.ExclusionSet) (*model.PerformanceMetrics, error) {
	candidates, err := s.Registry.Candidates(t)
	if err != nil {
		return nil, err
	}

	remaining := candidates[:0]
	for _, c := range candidates {
		if !excluded.Contains(c) {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		return nil, fmt.Errorf("%s: %w", t, ErrNoCandidates)
	}

	analysed, err := s.analyseAll(ctx, remaining)
	if err != nil {
		return nil, err
	}

	var best *model.PerformanceMetrics
	for _, m := range analysed {
		if m == nil {
			continue
		}
		if best == nil || m.SharpeRatio > best.SharpeRatio {
			best = m
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s: %w", t, ErrNoCandidates)
	}
	return best, nil
}

// analyseAll fetches and analyses tickers concurrently. Results keep the
// order of tickers; unavailable entries are nil. Only a malformed series
// is reported as an error.
func (s *Selector) analyseAll(ctx context.Context, tickers []model.Ticker) ([]*model.PerformanceMetrics, error) {
	out := make([]*model.PerformanceMetrics, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, t := range tickers {
		g.Go(func() error {
			m, err := s.analyse(gctx, t)
			switch {
			case err == nil:
				out[i] = m
			case errors.Is(err, calculator.ErrMalformedSeries):
				return err
			default:
				metrics.UnavailableTotal.WithLabelValues(string(t)).Inc()
				log.Info().Err(err).Str("ticker", string(t)).Msg("ticker unavailable, skipped")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Selector) analyse(ctx context.Context, t model.Ticker) (*model.PerformanceMetrics, error) {
	if s.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.FetchTimeout)
		defer cancel()
	}
	series, err := s.Provider.Fetch(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", calculator.ErrUnavailable, err)
	}
	if series.Ticker == "" {
		series.Ticker = t
	}
	return calculator.AnalyzePerformance(series)
}
