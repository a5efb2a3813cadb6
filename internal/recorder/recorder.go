package recorder

import (
	"time"

	"ETFAdvisor/internal/model"
)

// PickEvent records one fund shown to a user.
type PickEvent struct {
	SessionID string
	Tier      model.RiskTier
	Metrics   *model.PerformanceMetrics
}

// RefreshEvent records one data refresh run.
type RefreshEvent struct {
	Source   string
	OK       int
	Failed   int
	Duration time.Duration
	Note     string
}

// PickRecord is a stored pick.
type PickRecord struct {
	At           time.Time      `json:"at"`
	SessionID    string         `json:"session_id"`
	Tier         model.RiskTier `json:"tier"`
	Ticker       model.Ticker   `json:"ticker"`
	AnnualReturn float64        `json:"annual_return"`
	Volatility   float64        `json:"volatility"`
	SharpeRatio  float64        `json:"sharpe_ratio"`
}

// Recorder persists pick and refresh history.
type Recorder interface {
	RecordPick(evt *PickEvent) error
	RecordRefresh(evt *RefreshEvent) error
	RecentPicks(limit int) ([]PickRecord, error)
	Close() error
}
