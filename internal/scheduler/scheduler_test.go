package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ETFAdvisor/internal/collector"
	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/recorder"
	"ETFAdvisor/internal/session"
)

type refreshLog struct {
	recorder.NoopRecorder
	events []*recorder.RefreshEvent
}

func (r *refreshLog) RecordRefresh(evt *recorder.RefreshEvent) error {
	r.events = append(r.events, evt)
	return nil
}

func newCollector(t *testing.T, tickers ...model.Ticker) (*collector.Collector, *collector.CSVStore) {
	fetcher := &collector.MockProvider{Series: map[model.Ticker]model.PriceSeries{
		"VTI": collector.GenerateSeries("VTI", 100, 0.001, 0.01, 20),
	}}
	store := collector.NewCSVStore(filepath.Join(t.TempDir(), "data"))
	return collector.NewCollector(fetcher, store, tickers, time.Time{}, time.Time{}), store
}

func TestRunRefreshNow_RecordsRun(t *testing.T) {
	col, store := newCollector(t, "VTI", "BND")
	rec := &refreshLog{}
	s := NewScheduler(context.Background(), col, nil, time.Minute, nil, rec)

	res, err := s.RunRefreshNow()
	require.NoError(t, err)
	assert.Equal(t, []model.Ticker{"VTI"}, res.OK)

	require.Len(t, rec.events, 1)
	assert.Equal(t, 1, rec.events[0].OK)
	assert.Equal(t, 1, rec.events[0].Failed)
	assert.Equal(t, "mock", rec.events[0].Source)

	series, err := store.Fetch(context.Background(), "VTI")
	require.NoError(t, err)
	assert.Equal(t, 20, series.Len())
}

func TestRunRefreshNow_AllFailed(t *testing.T) {
	col, _ := newCollector(t, "BND")
	rec := &refreshLog{}
	s := NewScheduler(context.Background(), col, nil, time.Minute, nil, rec)

	_, err := s.RunRefreshNow()
	assert.True(t, errors.Is(err, collector.ErrRefreshFailed))
	require.Len(t, rec.events, 1)
	assert.NotEmpty(t, rec.events[0].Note)
}

func TestRegisterAll(t *testing.T) {
	col, _ := newCollector(t, "VTI")
	sessions := session.NewManager()
	s := NewScheduler(context.Background(), col, sessions, time.Minute, nil, nil)

	require.NoError(t, s.RegisterAll("0 30 22 * * 1-5", "0 */5 * * * *"))
	assert.Len(t, s.Cron.Entries(), 2)

	bad := NewScheduler(context.Background(), col, sessions, time.Minute, nil, nil)
	assert.Error(t, bad.RegisterAll("not a cron", "0 */5 * * * *"))
}

func TestPruneTask(t *testing.T) {
	col, _ := newCollector(t, "VTI")
	sessions := session.NewManager()
	sessions.Get("old")
	s := NewScheduler(context.Background(), col, sessions, -time.Second, nil, nil)

	s.pruneTask()
	assert.Equal(t, 0, sessions.Len())
}
