package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"ETFAdvisor/internal/metrics"
	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/strategy"
)

// Picker is the selection engine a session drives.
type Picker interface {
	PickBest(ctx context.Context, t model.RiskTier, excluded model.ExclusionSet) (*model.PerformanceMetrics, error)
}

// PickListener is notified after every successful pick.
type PickListener func(sessionID string, t model.RiskTier, m *model.PerformanceMetrics)

// Session is one user's interactive state: the chosen tier and, per tier,
// the tickers already shown.
type Session struct {
	ID string

	mu        sync.Mutex
	tier      model.RiskTier
	excluded  map[model.RiskTier]model.ExclusionSet
	last      *model.PerformanceMetrics
	updatedAt atomic.Int64 // unix nanos, read without mu by Manager.Prune
}

// New creates a session starting on the Low tier.
func New(id string) *Session {
	s := &Session{
		ID:       id,
		tier:     model.TierLow,
		excluded: make(map[model.RiskTier]model.ExclusionSet),
	}
	s.touch()
	return s
}

// Tier returns the current tier.
func (s *Session) Tier() model.RiskTier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

// SelectTier switches the current tier. Exclusions of other tiers are kept.
func (s *Session) SelectTier(t model.RiskTier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tier != t {
		s.last = nil
	}
	s.tier = t
	s.touch()
}

// Last returns the most recent pick in the current tier, or nil.
func (s *Session) Last() *model.PerformanceMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Seen returns the tickers already picked in the current tier.
func (s *Session) Seen() []model.Ticker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.excluded[s.tier].Sorted()
}

// Excluded returns the exclusion set of the current tier.
func (s *Session) Excluded() model.ExclusionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.excluded[s.tier]
}

// Next asks p for the best fund of the current tier not yet seen and records
// it as seen. On ErrNoCandidates the session is left unchanged.
func (s *Session) Next(ctx context.Context, p Picker, listeners ...PickListener) (*model.PerformanceMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tier
	m, err := p.PickBest(ctx, t, s.excluded[t])
	s.touch()
	if err != nil {
		metrics.PicksTotal.WithLabelValues(string(t), outcome(err)).Inc()
		return nil, err
	}
	s.excluded[t] = s.excluded[t].Add(m.Ticker)
	s.last = m
	metrics.PicksTotal.WithLabelValues(string(t), metrics.OutcomePicked).Inc()
	log.Debug().Str("session", s.ID).Str("tier", string(t)).Str("ticker", string(m.Ticker)).
		Float64("sharpe", m.SharpeRatio).Msg("pick served")

	for _, l := range listeners {
		l(s.ID, t, m)
	}
	return m, nil
}

// Reset clears the exclusions and last pick of the current tier.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.excluded, s.tier)
	s.last = nil
	s.touch()
}

// IdleSince returns the time of the last interaction.
func (s *Session) IdleSince() time.Time {
	return time.Unix(0, s.updatedAt.Load())
}

func (s *Session) touch() { s.updatedAt.Store(time.Now().UnixNano()) }

func outcome(err error) string {
	switch {
	case errors.Is(err, strategy.ErrNoCandidates):
		return metrics.OutcomeNoCandidates
	case errors.Is(err, strategy.ErrInvalidTier):
		return metrics.OutcomeInvalidTier
	default:
		return metrics.OutcomeError
	}
}
