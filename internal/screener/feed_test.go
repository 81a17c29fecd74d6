package screener

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"TradeFalcon/internal/model"
)

func TestFileFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screened_stocks.json")
	content := `[
  {
    "symbol": "ABTC",
    "entry_low": 2.00,
    "entry_high": 2.05,
    "stop_loss": 1.90,
    "target": 2.19,
    "confidence": "HIGH",
    "generated_at": "2026-08-28T11:00:00Z"
  },
  {
    "symbol": "XYZ",
    "entry_low": 40,
    "entry_high": 45,
    "stop_loss": 37,
    "target": 50,
    "confidence": "MEDIUM",
    "generated_at": "2026-08-28T11:00:00Z"
  },
  {"symbol": ""}
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	feed := NewFileFeed(path)
	recs, err := feed.Recommendations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations (blank symbol dropped), got %d", len(recs))
	}
	rec, ok := recs["ABTC"]
	if !ok {
		t.Fatal("missing ABTC recommendation")
	}
	if rec.EntryLow != 2.00 || rec.EntryHigh != 2.05 || rec.StopLoss != 1.90 {
		t.Errorf("unexpected levels: %+v", rec)
	}
	if rec.Confidence != model.TierHigh {
		t.Errorf("confidence = %s, want HIGH", rec.Confidence)
	}
	want := time.Date(2026, 8, 28, 11, 0, 0, 0, time.UTC)
	if !rec.GeneratedAt.Equal(want) {
		t.Errorf("generated_at = %v, want %v", rec.GeneratedAt, want)
	}
}

func TestFileFeed_MissingFile(t *testing.T) {
	feed := NewFileFeed(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := feed.Recommendations(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileFeed_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	feed := NewFileFeed(path)
	if _, err := feed.Recommendations(); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

// flakyFeed fails after the first successful read.
type flakyFeed struct {
	recs  map[string]model.Recommendation
	calls int
}

func (f *flakyFeed) Name() string { return "flaky" }

func (f *flakyFeed) Recommendations() (map[string]model.Recommendation, error) {
	f.calls++
	if f.calls > 1 {
		return nil, errors.New("feed down")
	}
	return f.recs, nil
}

func TestCachedFeed_ServesWithinTTL(t *testing.T) {
	inner := &flakyFeed{recs: map[string]model.Recommendation{"ABTC": {Symbol: "ABTC"}}}
	feed := NewCachedFeed(inner, time.Hour)

	for i := 0; i < 3; i++ {
		recs, err := feed.Recommendations()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if len(recs) != 1 {
			t.Fatalf("read %d: expected 1 recommendation, got %d", i, len(recs))
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner feed called %d times, want 1", inner.calls)
	}
}

func TestCachedFeed_ServesStaleOnError(t *testing.T) {
	inner := &flakyFeed{recs: map[string]model.Recommendation{"ABTC": {Symbol: "ABTC"}}}
	feed := NewCachedFeed(inner, time.Nanosecond) // expire immediately

	if _, err := feed.Recommendations(); err != nil {
		t.Fatalf("first read: %v", err)
	}
	time.Sleep(time.Millisecond)

	// The inner feed now fails; the cached snapshot carries the reader.
	recs, err := feed.Recommendations()
	if err != nil {
		t.Fatalf("expected stale snapshot, got error: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 cached recommendation, got %d", len(recs))
	}
}

func TestCachedFeed_PropagatesErrorWithoutSnapshot(t *testing.T) {
	feed := NewCachedFeed(&StaticFeed{Err: errors.New("feed down")}, time.Hour)
	if _, err := feed.Recommendations(); err == nil {
		t.Error("expected error when no snapshot exists")
	}
}
