package model

import "time"

// ConfidenceTier grades a screener recommendation.
type ConfidenceTier string

const (
	TierLow    ConfidenceTier = "LOW"
	TierMedium ConfidenceTier = "MEDIUM"
	TierHigh   ConfidenceTier = "HIGH"
)

// Rank orders tiers so minimum-tier checks can compare them. Unknown tiers
// rank below LOW.
func (t ConfidenceTier) Rank() int {
	switch t {
	case TierLow:
		return 1
	case TierMedium:
		return 2
	case TierHigh:
		return 3
	default:
		return 0
	}
}

// Recommendation is a screener's proposed entry for one symbol. Read-only to
// the trading core.
type Recommendation struct {
	Symbol      string         `json:"symbol"`
	EntryLow    float64        `json:"entry_low"`
	EntryHigh   float64        `json:"entry_high"`
	StopLoss    float64        `json:"stop_loss"`
	Target      float64        `json:"target"`
	Confidence  ConfidenceTier `json:"confidence"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Stale reports whether the recommendation is older than maxAge at now.
func (r *Recommendation) Stale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.GeneratedAt) > maxAge
}
