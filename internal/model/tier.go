package model

import "strings"

// RiskTier groups candidate funds by intended risk profile.
type RiskTier string

const (
	TierLow    RiskTier = "Low"
	TierMedium RiskTier = "Medium"
	TierHigh   RiskTier = "High"
)

// ParseRiskTier normalises user input the way the prompts expect it:
// surrounding space is dropped and the label is capitalised ("low" -> "Low").
// The result is not validated; unknown labels are rejected by the tier registry.
func ParseRiskTier(s string) RiskTier {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return RiskTier(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
}

func (t RiskTier) String() string { return string(t) }
