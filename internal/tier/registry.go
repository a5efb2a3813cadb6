package tier

import (
	"errors"
	"fmt"

	"ETFAdvisor/internal/model"
)

// ErrInvalidTier is returned for a label that is not a registered risk tier.
var ErrInvalidTier = errors.New("invalid risk tier")

// Group is one risk tier and its candidate tickers in ranking order.
type Group struct {
	Tier    model.RiskTier
	Tickers []model.Ticker
}

// Registry is the fixed tier to ticker mapping shared by the engine and every shell.
type Registry struct {
	groups []Group
}

// Default is the registry used by the advisor.
var Default = New([]Group{
	{model.TierLow, []model.Ticker{"VTI", "BND", "SPY"}},
	{model.TierMedium, []model.Ticker{"VOO", "VXUS", "QQQ"}},
	{model.TierHigh, []model.Ticker{"BITO", "XBI", "ARKK"}},
})

// New builds a registry from groups. Order of groups and tickers is kept.
func New(groups []Group) *Registry {
	r := &Registry{groups: make([]Group, len(groups))}
	for i, g := range groups {
		r.groups[i] = Group{Tier: g.Tier, Tickers: append([]model.Ticker(nil), g.Tickers...)}
	}
	return r
}

// Tiers lists the tier labels in registry order.
func (r *Registry) Tiers() []model.RiskTier {
	out := make([]model.RiskTier, len(r.groups))
	for i, g := range r.groups {
		out[i] = g.Tier
	}
	return out
}

// Candidates returns a copy of the tickers for tier.
func (r *Registry) Candidates(t model.RiskTier) ([]model.Ticker, error) {
	for _, g := range r.groups {
		if g.Tier == t {
			return append([]model.Ticker(nil), g.Tickers...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidTier, t)
}

// Valid reports whether t is a registered tier.
func (r *Registry) Valid(t model.RiskTier) bool {
	_, err := r.Candidates(t)
	return err == nil
}

// All returns every ticker across tiers, registry order, without duplicates.
func (r *Registry) All() []model.Ticker {
	seen := make(map[model.Ticker]bool)
	var out []model.Ticker
	for _, g := range r.groups {
		for _, t := range g.Tickers {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
