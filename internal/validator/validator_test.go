package validator

import (
	"strings"
	"testing"
	"time"

	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

var fixedNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newValidator() *Validator {
	cfg := config.ValidatorConfig{
		MinStopBuffer: 0.05,
		MinConfidence: model.TierMedium,
		MaxAgeHours:   24,
	}
	return New(cfg).WithClock(func() time.Time { return fixedNow })
}

func freshRec() *model.Recommendation {
	return &model.Recommendation{
		Symbol:      "ABTC",
		EntryLow:    2.00,
		EntryHigh:   2.05,
		StopLoss:    1.90,
		Target:      2.19,
		Confidence:  model.TierHigh,
		GeneratedAt: fixedNow.Add(-1 * time.Hour),
	}
}

func TestValidateEntry_Accepted(t *testing.T) {
	v := newValidator()
	res := v.ValidateEntry(2.03, 1.90, freshRec())
	if !res.Accepted {
		t.Fatalf("expected acceptance, got rejection: %s", res.Reason)
	}
}

func TestValidateEntry_NoRecommendationAllowed(t *testing.T) {
	v := newValidator()
	res := v.ValidateEntry(2.03, 1.90, nil)
	if !res.Accepted {
		t.Fatalf("expected acceptance with no recommendation, got: %s", res.Reason)
	}
	if !strings.Contains(res.Reason, "no recommendation") {
		t.Errorf("reason should record the unvalidated entry, got %q", res.Reason)
	}
}

func TestValidateEntry_RangeBoundariesInclusive(t *testing.T) {
	v := newValidator()

	if res := v.ValidateEntry(2.00, 1.90, freshRec()); !res.Accepted {
		t.Errorf("entry at low boundary should be accepted, got: %s", res.Reason)
	}
	if res := v.ValidateEntry(2.05, 1.90, freshRec()); !res.Accepted {
		t.Errorf("entry at high boundary should be accepted, got: %s", res.Reason)
	}
	if res := v.ValidateEntry(2.06, 1.90, freshRec()); res.Accepted {
		t.Error("entry above range should be rejected")
	}
	if res := v.ValidateEntry(1.99, 1.85, freshRec()); res.Accepted {
		t.Error("entry below range should be rejected")
	}
}

func TestValidateEntry_StopBuffer(t *testing.T) {
	v := newValidator()
	rec := freshRec()
	rec.EntryLow = 90
	rec.EntryHigh = 110

	// Exactly at the minimum buffer: (100 - 95) / 100 = 5%.
	if res := v.ValidateEntry(100, 95, rec); !res.Accepted {
		t.Errorf("buffer exactly at minimum should be accepted, got: %s", res.Reason)
	}
	// Just under: (100 - 95.01) / 100 = 4.99%.
	res := v.ValidateEntry(100, 95.01, rec)
	if res.Accepted {
		t.Fatal("buffer below minimum should be rejected")
	}
	if !strings.Contains(res.Reason, "stop buffer") {
		t.Errorf("expected stop buffer reason, got %q", res.Reason)
	}
}

func TestValidateEntry_Staleness(t *testing.T) {
	v := newValidator()
	rec := freshRec()
	rec.GeneratedAt = fixedNow.Add(-25 * time.Hour)
	// Out-of-range price too: staleness must be reported first.
	res := v.ValidateEntry(9.99, 1.90, rec)
	if res.Accepted {
		t.Fatal("stale recommendation should be rejected")
	}
	if !strings.Contains(res.Reason, "stale") {
		t.Errorf("expected staleness reason, got %q", res.Reason)
	}
}

func TestValidateEntry_ConfidenceTier(t *testing.T) {
	v := newValidator()

	rec := freshRec()
	rec.Confidence = model.TierLow
	res := v.ValidateEntry(2.03, 1.90, rec)
	if res.Accepted {
		t.Fatal("LOW confidence should be rejected with MEDIUM minimum")
	}
	if !strings.Contains(res.Reason, "confidence") {
		t.Errorf("expected confidence reason, got %q", res.Reason)
	}

	rec = freshRec()
	rec.Confidence = model.TierMedium
	if res := v.ValidateEntry(2.03, 1.90, rec); !res.Accepted {
		t.Errorf("MEDIUM confidence should pass MEDIUM minimum, got: %s", res.Reason)
	}
}

func TestValidateEntry_NoSideEffects(t *testing.T) {
	v := newValidator()
	rec := freshRec()
	before := *rec
	v.ValidateEntry(2.03, 1.90, rec)
	v.ValidateEntry(9.99, 0.01, rec)
	if *rec != before {
		t.Error("validation mutated the recommendation")
	}
}
