package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ETFAdvisor/internal/model"
)

func TestSQLiteRecorder_PicksNewestFirst(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "advisor.db"))
	require.NoError(t, err)
	defer r.Close()

	for _, tk := range []model.Ticker{"VTI", "SPY", "BND"} {
		require.NoError(t, r.RecordPick(&PickEvent{
			SessionID: "s1",
			Tier:      model.TierLow,
			Metrics:   &model.PerformanceMetrics{Ticker: tk, AnnualReturn: 0.1, Volatility: 0.2, SharpeRatio: 0.5},
		}))
	}

	picks, err := r.RecentPicks(2)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, model.Ticker("BND"), picks[0].Ticker)
	assert.Equal(t, model.Ticker("SPY"), picks[1].Ticker)
	assert.Equal(t, model.TierLow, picks[0].Tier)
	assert.Equal(t, "s1", picks[0].SessionID)
	assert.Equal(t, 0.5, picks[0].SharpeRatio)
}

func TestSQLiteRecorder_Refresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRefresh(&RefreshEvent{Source: "yahoo", OK: 8, Failed: 1, Duration: 3 * time.Second}))
	require.NoError(t, r.Close())

	// reopening runs the migrations again over existing tables
	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	var ok, failed int
	require.NoError(t, r.db.QueryRow(`SELECT ok_count, failed FROM refreshes`).Scan(&ok, &failed))
	assert.Equal(t, 8, ok)
	assert.Equal(t, 1, failed)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordPick(&PickEvent{}))
	picks, err := r.RecentPicks(5)
	assert.NoError(t, err)
	assert.Empty(t, picks)
}
