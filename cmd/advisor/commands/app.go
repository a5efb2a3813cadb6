package commands

import (
	"github.com/rs/zerolog/log"

	"ETFAdvisor/internal/collector"
	"ETFAdvisor/internal/config"
	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/notifier"
	"ETFAdvisor/internal/recorder"
	"ETFAdvisor/internal/strategy"
	"ETFAdvisor/internal/tier"
)

// app holds the components shared by the shells.
type app struct {
	cfg      *config.Config
	provider collector.Provider
	selector *strategy.Selector
	recorder recorder.Recorder
	notifier *notifier.TelegramNotifier
}

func newApp(c *config.Config) (*app, error) {
	start, err := c.StartDate()
	if err != nil {
		return nil, err
	}
	end, err := c.EndDate()
	if err != nil {
		return nil, err
	}
	timeout, err := c.FetchTimeout()
	if err != nil {
		return nil, err
	}

	var provider collector.Provider
	switch c.Data.Source {
	case "yahoo":
		yf := collector.NewYahooFetcher(c.Yahoo.BaseURL, c.Proxy, c.Yahoo.RequestsPerSecond)
		yf.Start, yf.End = start, end
		provider = yf
	default:
		provider = collector.NewCSVStore(c.Data.Dir)
	}
	log.Info().Str("provider", provider.Name()).Msg("price history source")

	return &app{
		cfg:      c,
		provider: provider,
		selector: strategy.NewSelector(tier.Default, provider, c.Selector.Workers, timeout),
		recorder: openRecorder(c.Database.SQLitePath),
		notifier: notifier.NewTelegramNotifier(c.Telegram.BotToken, c.Telegram.ChatID, c.Proxy),
	}, nil
}

func openRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newCollector builds the refresh pipeline: Yahoo downloads into the CSV directory.
func (a *app) newCollector() *collector.Collector {
	start, _ := a.cfg.StartDate()
	end, _ := a.cfg.EndDate()
	yf := collector.NewYahooFetcher(a.cfg.Yahoo.BaseURL, a.cfg.Proxy, a.cfg.Yahoo.RequestsPerSecond)
	return collector.NewCollector(yf, collector.NewCSVStore(a.cfg.Data.Dir), tier.Default.All(), start, end)
}

// recordPick is the pick listener every shell registers.
func (a *app) recordPick(sessionID string, t model.RiskTier, m *model.PerformanceMetrics) {
	if err := a.recorder.RecordPick(&recorder.PickEvent{SessionID: sessionID, Tier: t, Metrics: m}); err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("record pick")
	}
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
}
