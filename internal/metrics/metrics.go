package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pick outcomes.
const (
	OutcomePicked       = "picked"
	OutcomeNoCandidates = "no_candidates"
	OutcomeInvalidTier  = "invalid_tier"
	OutcomeError        = "error"
)

var (
	PicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_picks_total",
			Help: "Selections served, by tier and outcome",
		},
		[]string{"tier", "outcome"},
	)

	UnavailableTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_ticker_unavailable_total",
			Help: "Tickers dropped from ranking because no usable history was found",
		},
		[]string{"ticker"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_provider_fetch_seconds",
			Help:    "Price history fetch latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	RefreshTickers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_refresh_tickers_total",
			Help: "Tickers processed by data refresh runs, by result",
		},
		[]string{"result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_sessions_active",
			Help: "Interactive sessions currently held in memory",
		},
	)
)
