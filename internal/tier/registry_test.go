package tier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ETFAdvisor/internal/model"
)

func TestDefault_Tiers(t *testing.T) {
	assert.Equal(t, []model.RiskTier{model.TierLow, model.TierMedium, model.TierHigh}, Default.Tiers())
}

func TestDefault_Candidates(t *testing.T) {
	tests := []struct {
		tier model.RiskTier
		want []model.Ticker
	}{
		{model.TierLow, []model.Ticker{"VTI", "BND", "SPY"}},
		{model.TierMedium, []model.Ticker{"VOO", "VXUS", "QQQ"}},
		{model.TierHigh, []model.Ticker{"BITO", "XBI", "ARKK"}},
	}
	for _, tt := range tests {
		got, err := Default.Candidates(tt.tier)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "tier %s", tt.tier)
	}
}

func TestCandidates_Unknown(t *testing.T) {
	_, err := Default.Candidates("Medium-Risk")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTier))
	assert.False(t, Default.Valid("low"))
}

func TestCandidates_ReturnsCopy(t *testing.T) {
	got, err := Default.Candidates(model.TierLow)
	require.NoError(t, err)
	got[0] = "XXX"

	again, err := Default.Candidates(model.TierLow)
	require.NoError(t, err)
	assert.Equal(t, model.Ticker("VTI"), again[0])
}

func TestAll_Dedup(t *testing.T) {
	r := New([]Group{
		{"A", []model.Ticker{"X", "Y"}},
		{"B", []model.Ticker{"Y", "Z"}},
	})
	assert.Equal(t, []model.Ticker{"X", "Y", "Z"}, r.All())
	assert.Len(t, Default.All(), 9)
}
