package screener

import (
	"encoding/json"
	"fmt"
	"os"

	"TradeFalcon/internal/model"
)

// FileFeed reads recommendations from a JSON file written by the screening
// process. The file holds an array of recommendation objects.
type FileFeed struct {
	Path string
}

// NewFileFeed creates a feed backed by the given JSON file.
func NewFileFeed(path string) *FileFeed {
	return &FileFeed{Path: path}
}

func (f *FileFeed) Name() string { return "file" }

func (f *FileFeed) Recommendations() (map[string]model.Recommendation, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read screener file: %w", err)
	}
	var recs []model.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse screener file: %w", err)
	}
	out := make(map[string]model.Recommendation, len(recs))
	for _, r := range recs {
		if r.Symbol == "" {
			continue
		}
		out[r.Symbol] = r
	}
	return out, nil
}
