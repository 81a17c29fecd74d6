package screener

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"TradeFalcon/internal/model"
)

// RESTFeed pulls recommendations from a screener HTTP endpoint.
type RESTFeed struct {
	BaseURL string
	Client  *http.Client
}

// NewRESTFeed creates a feed against the screener API, with optional proxy.
func NewRESTFeed(baseURL, proxyURL string) *RESTFeed {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFeed{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFeed) Name() string { return "rest" }

func (f *RESTFeed) Recommendations() (map[string]model.Recommendation, error) {
	endpoint := fmt.Sprintf("%s/api/v1/recommendations", f.BaseURL)
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read recommendations: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch recommendations: status %d, body: %s", resp.StatusCode, string(body))
	}
	var recs []model.Recommendation
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
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
