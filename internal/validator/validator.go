package validator

import (
	"fmt"
	"time"

	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

// Result is the outcome of validating a proposed entry.
type Result struct {
	Accepted       bool
	Reason         string
	Recommendation *model.Recommendation
}

// Validator checks proposed entries against screener recommendations.
type Validator struct {
	cfg config.ValidatorConfig
	now func() time.Time
}

// New creates a Validator. The clock is injectable for tests via WithClock.
func New(cfg config.ValidatorConfig) *Validator {
	return &Validator{cfg: cfg, now: time.Now}
}

// WithClock replaces the validator's clock.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// ValidateEntry runs the entry checks in order, short-circuiting on the first
// failure: staleness, confidence tier, price range, stop-loss buffer. It has
// no side effects.
//
// A nil recommendation is accepted: the screener simply has no opinion on the
// symbol, and the reason records that the entry went unvalidated.
func (v *Validator) ValidateEntry(entryPrice, stopPrice float64, rec *model.Recommendation) Result {
	if rec == nil {
		return Result{Accepted: true, Reason: "no recommendation on file, allowed by default"}
	}
	if rec.Stale(v.now(), v.cfg.MaxAge()) {
		return Result{
			Reason:         fmt.Sprintf("recommendation stale: generated %s, limit %s", rec.GeneratedAt.Format(time.RFC3339), v.cfg.MaxAge()),
			Recommendation: rec,
		}
	}
	if rec.Confidence.Rank() < v.cfg.MinConfidence.Rank() {
		return Result{
			Reason:         fmt.Sprintf("confidence %s below minimum %s", rec.Confidence, v.cfg.MinConfidence),
			Recommendation: rec,
		}
	}
	if entryPrice < rec.EntryLow || entryPrice > rec.EntryHigh {
		return Result{
			Reason:         fmt.Sprintf("entry %.2f outside range [%.2f, %.2f]", entryPrice, rec.EntryLow, rec.EntryHigh),
			Recommendation: rec,
		}
	}
	buffer := (entryPrice - stopPrice) / entryPrice
	if buffer < v.cfg.MinStopBuffer {
		return Result{
			Reason:         fmt.Sprintf("stop buffer %.2f%% below minimum %.2f%%", buffer*100, v.cfg.MinStopBuffer*100),
			Recommendation: rec,
		}
	}
	return Result{Accepted: true, Reason: "all checks passed", Recommendation: rec}
}
