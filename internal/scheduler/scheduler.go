package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"ETFAdvisor/internal/collector"
	"ETFAdvisor/internal/notifier"
	"ETFAdvisor/internal/recorder"
	"ETFAdvisor/internal/session"
)

// Scheduler manages the cron tasks of the long-running shells.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Sessions   *session.Manager
	SessionTTL time.Duration
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler. sessions and tn may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, sessions *session.Manager, ttl time.Duration, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Sessions:   sessions,
		SessionTTL: ttl,
		Notifier:   tn,
		Recorder:   rec,
		Ctx:        ctx,
	}
}

// RegisterAll registers the refresh and session-prune tasks.
func (s *Scheduler) RegisterAll(refreshCron, pruneCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if s.Sessions != nil {
		if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunRefreshNow refreshes price history immediately, records the run and
// alerts the operations chat on failures.
func (s *Scheduler) RunRefreshNow() (*collector.RefreshResult, error) {
	log.Info().Int("tickers", len(s.Collector.Tickers)).Msg("running data refresh")
	res, err := s.Collector.Refresh(s.Ctx)
	if res == nil {
		return nil, err
	}

	note := ""
	if err != nil {
		note = err.Error()
	}
	if recErr := s.Recorder.RecordRefresh(&recorder.RefreshEvent{
		Source:   res.Source,
		OK:       len(res.OK),
		Failed:   len(res.Failed),
		Duration: res.Duration,
		Note:     note,
	}); recErr != nil {
		log.Error().Err(recErr).Msg("record refresh")
	}

	if len(res.Failed) > 0 {
		s.trySend(notifier.FormatRefresh(res))
	}
	log.Info().Int("ok", len(res.OK)).Int("failed", len(res.Failed)).Dur("took", res.Duration).Msg("data refresh finished")
	return res, err
}

func (s *Scheduler) refreshTask() {
	if _, err := s.RunRefreshNow(); err != nil {
		log.Error().Err(err).Msg("scheduled refresh")
	}
}

func (s *Scheduler) pruneTask() {
	if n := s.Sessions.Prune(s.SessionTTL); n > 0 {
		log.Info().Int("removed", n).Int("active", s.Sessions.Len()).Msg("idle sessions pruned")
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Alert(s.Ctx, text); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
