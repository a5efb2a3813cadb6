package notifier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ETFAdvisor/internal/collector"
	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/recorder"
	"ETFAdvisor/internal/strategy"
	"ETFAdvisor/internal/tier"
)

// User-facing texts shared by the console, web and chat shells.
const (
	MsgInvalidTier  = "We can't help you choose unless you pick Low, Medium or High. Try again!"
	MsgNoCandidates = "No more ETFs left to check for this risk level"
	MsgSharpeWhy    = "Why the Sharpe Ratio matters: It tells you how much return you are getting per unit of risk."
	MsgSharpeHigher = "A higher Sharpe Ratio means better risk-adjusted performance."
)

// Percent formats a fraction as a percentage with two decimals.
func Percent(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

// Ratio formats a ratio with two decimals.
func Ratio(v float64) string { return fmt.Sprintf("%.2f", v) }

// MessageFor turns a selection error into the text shown to the user.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, strategy.ErrInvalidTier):
		return MsgInvalidTier
	case errors.Is(err, strategy.ErrNoCandidates):
		return MsgNoCandidates
	default:
		return fmt.Sprintf("Something went wrong while ranking ETFs: %v. Please try again.", err)
	}
}

// FormatPick formats a pick for a plain-text terminal.
func FormatPick(t model.RiskTier, m *model.PerformanceMetrics) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Best ETF for %s investors: %s\n", t, m.Ticker))
	b.WriteString(fmt.Sprintf("Sharpe Ratio: %s\n", Ratio(m.SharpeRatio)))
	b.WriteString(fmt.Sprintf("Annual Returns: %s | Volatility: %s\n", Percent(m.AnnualReturn), Percent(m.Volatility)))
	b.WriteString(MsgSharpeWhy)
	return b.String()
}

// FormatPickHTML formats a pick for Telegram's HTML parse mode.
func FormatPickHTML(t model.RiskTier, m *model.PerformanceMetrics) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>Best ETF for %s investors: %s</b>\n\n", t, m.Ticker))
	b.WriteString(fmt.Sprintf("Sharpe Ratio: %s\n", Ratio(m.SharpeRatio)))
	b.WriteString(fmt.Sprintf("Annual Returns: %s\n", Percent(m.AnnualReturn)))
	b.WriteString(fmt.Sprintf("Volatility: %s\n", Percent(m.Volatility)))
	if !m.From.IsZero() {
		b.WriteString(fmt.Sprintf("Data: %s → %s (%d days)\n", m.From.Format("2006-01-02"), m.To.Format("2006-01-02"), m.Observations))
	}
	b.WriteString("\n📌 " + MsgSharpeHigher)
	return b.String()
}

// FormatTiers lists every tier with its candidate tickers.
func FormatTiers(r *tier.Registry) string {
	var b strings.Builder
	for _, t := range r.Tiers() {
		tickers, _ := r.Candidates(t)
		names := make([]string, len(tickers))
		for i, tk := range tickers {
			names[i] = string(tk)
		}
		b.WriteString(fmt.Sprintf("%-6s %s\n", t, strings.Join(names, ", ")))
	}
	return b.String()
}

// FormatRefresh summarises a data refresh run.
func FormatRefresh(res *collector.RefreshResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔄 <b>Data refresh</b> (%s)\n\n", res.Source))
	b.WriteString(fmt.Sprintf("Updated: %d | Failed: %d | Took: %s\n", len(res.OK), len(res.Failed), res.Duration.Round(time.Millisecond)))
	for t, err := range res.Failed {
		b.WriteString(fmt.Sprintf("  %s: %v\n", t, err))
	}
	return b.String()
}

// FormatHistory renders recorded picks, newest first.
func FormatHistory(picks []recorder.PickRecord) string {
	if len(picks) == 0 {
		return "No picks recorded yet."
	}
	var b strings.Builder
	for _, p := range picks {
		b.WriteString(fmt.Sprintf("%s  %-6s %-5s sharpe %s  return %s  vol %s\n",
			p.At.Format("2006-01-02 15:04"), p.Tier, p.Ticker,
			Ratio(p.SharpeRatio), Percent(p.AnnualReturn), Percent(p.Volatility)))
	}
	return b.String()
}
