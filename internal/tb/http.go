package tb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"samplegen/internal/sample"
)

// ErrNoResult reports a position the tablebase does not cover (or covers
// only with an inconclusive category).
var ErrNoResult = errors.New("no tablebase result")

// HTTPConfig configures the HTTP tablebase client.
type HTTPConfig struct {
	BaseURL string        // service root, e.g. http://tablebase.lichess.ovh
	Variant string        // endpoint path segment, defaults to "atomic"
	Timeout time.Duration // per-probe timeout, defaults to 10s
}

// HTTPTable probes a tablebase HTTP service. The service answers
// GET {base}/{variant}?fen=... with a JSON body whose "category" field
// holds the outcome for the side to move.
type HTTPTable struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTable creates an HTTP tablebase client.
func NewHTTPTable(cfg HTTPConfig) (*HTTPTable, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tablebase url required")
	}
	if cfg.Variant == "" {
		cfg.Variant = "atomic"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &HTTPTable{
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.Variant,
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Probe implements Table. Cursed wins and blessed losses count as wins and
// losses; categories the service cannot prove map to ErrNoResult.
func (t *HTTPTable) Probe(ctx context.Context, fen string) (sample.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?fen="+url.QueryEscape(fen), nil)
	if err != nil {
		return 0, fmt.Errorf("probe: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("probe: status %d", resp.StatusCode)
	}

	var body struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("probe: decode: %w", err)
	}

	switch body.Category {
	case "win", "cursed-win":
		return sample.Win, nil
	case "draw":
		return sample.Draw, nil
	case "loss", "blessed-loss":
		return sample.Loss, nil
	default:
		return 0, fmt.Errorf("%w: category %q", ErrNoResult, body.Category)
	}
}
