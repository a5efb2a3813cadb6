package notifier

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"ETFAdvisor/internal/collector"
	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/session"
	"ETFAdvisor/internal/strategy"
	"ETFAdvisor/internal/tier"
)

func newTestBot(listeners ...session.PickListener) *Bot {
	mk := func(tk model.Ticker, sharpe float64) model.PriceSeries {
		return collector.GenerateSeries(tk, 100, sharpe*0.01/math.Sqrt(252), 0.01, 101)
	}
	p := &collector.MockProvider{Series: map[model.Ticker]model.PriceSeries{
		"VTI": mk("VTI", 1.2), "BND": mk("BND", 0.5), "SPY": mk("SPY", 0.9),
		"BITO": mk("BITO", -0.2),
	}}
	sel := strategy.NewSelector(tier.Default, p, 3, 0)
	return NewBot(session.NewManager(), sel, tier.Default, listeners...)
}

func TestBot_TierThenNext(t *testing.T) {
	b := newTestBot()
	ctx := context.Background()

	assert.Contains(t, b.HandleCommand(ctx, "1", "/low"), "Low investors: VTI")
	assert.Contains(t, b.HandleCommand(ctx, "1", "/next"), "Low investors: SPY")
	assert.Contains(t, b.HandleCommand(ctx, "1", "/next@AdvisorBot"), "Low investors: BND")
	assert.Equal(t, MsgNoCandidates, b.HandleCommand(ctx, "1", "/next"))

	assert.Equal(t, "Selection for Low cleared.", b.HandleCommand(ctx, "1", "/reset"))
	assert.Contains(t, b.HandleCommand(ctx, "1", "low"), "Low investors: VTI")
}

func TestBot_ChatsAreIndependent(t *testing.T) {
	b := newTestBot()
	ctx := context.Background()

	assert.Contains(t, b.HandleCommand(ctx, "1", "/low"), "VTI")
	assert.Contains(t, b.HandleCommand(ctx, "2", "/low"), "VTI")
	assert.Contains(t, b.HandleCommand(ctx, "1", "/next"), "SPY")
}

func TestBot_PickArgument(t *testing.T) {
	b := newTestBot()
	ctx := context.Background()

	assert.Contains(t, b.HandleCommand(ctx, "1", "/pick high"), "High investors: BITO")
	assert.Equal(t, MsgInvalidTier, b.HandleCommand(ctx, "1", "/pick Medium-Risk"))
	assert.Equal(t, MsgInvalidTier, b.HandleCommand(ctx, "1", "/pick"))
}

func TestBot_BadPickKeepsPreviousTier(t *testing.T) {
	b := newTestBot()
	ctx := context.Background()

	assert.Contains(t, b.HandleCommand(ctx, "1", "/low"), "Low investors: VTI")
	assert.Equal(t, MsgInvalidTier, b.HandleCommand(ctx, "1", "/pick <b>oops"))
	assert.Contains(t, b.HandleCommand(ctx, "1", "/next"), "Low investors: SPY")
	assert.Equal(t, "Selection for Low cleared.", b.HandleCommand(ctx, "1", "/reset"))
}

func TestBot_ResetEscapesTier(t *testing.T) {
	b := newTestBot()
	s := b.Sessions.Get("7")
	s.SelectTier(model.RiskTier("<b>oops"))

	reply := b.HandleCommand(context.Background(), "7", "/reset")
	assert.Equal(t, "Selection for &lt;b&gt;oops cleared.", reply)
}

func TestBot_HelpAndTiers(t *testing.T) {
	b := newTestBot()
	ctx := context.Background()

	assert.Equal(t, botHelp, b.HandleCommand(ctx, "1", "hello"))
	assert.Contains(t, b.HandleCommand(ctx, "1", "/tiers"), "VOO, VXUS, QQQ")
}

func TestBot_ListenerSeesPicks(t *testing.T) {
	var seen []model.Ticker
	b := newTestBot(func(id string, _ model.RiskTier, m *model.PerformanceMetrics) {
		assert.Equal(t, "42", id)
		seen = append(seen, m.Ticker)
	})
	b.HandleCommand(context.Background(), "42", "/low")
	b.HandleCommand(context.Background(), "42", "/next")
	assert.Equal(t, []model.Ticker{"VTI", "SPY"}, seen)
}
