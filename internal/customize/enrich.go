package customize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrEnrichmentUnavailable signals the asset service could not serve the
// request; callers treat it as a degraded-but-successful customization.
var ErrEnrichmentUnavailable = errors.New("asset enrichment unavailable")

// Assets is the optional visual payload an enricher returns for a
// catalog candidate.
type Assets struct {
	PreviewURL  string   `json:"preview_url"`
	Screenshots []string `json:"screenshots,omitempty"`
	Icons       []string `json:"icons,omitempty"`
}

// Enricher fetches richer visual data for a candidate. Implementations
// must honor the context deadline.
type Enricher interface {
	Enrich(ctx context.Context, candidateID string) (Assets, error)
}

// HTTPEnricher fetches assets from an external asset service over HTTP.
type HTTPEnricher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEnricher returns an enricher for the asset service at baseURL.
// The client timeout bounds the whole exchange independently of the
// per-call context.
func NewHTTPEnricher(baseURL string, timeout time.Duration) (*HTTPEnricher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid enrichment base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("enrichment base URL must be http or https, got %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPEnricher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Enrich fetches assets for the candidate. Any transport or status
// failure maps to ErrEnrichmentUnavailable.
func (e *HTTPEnricher) Enrich(ctx context.Context, candidateID string) (Assets, error) {
	endpoint := fmt.Sprintf("%s/v1/assets/%s", e.baseURL, url.PathEscape(candidateID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Assets{}, fmt.Errorf("%w: %v", ErrEnrichmentUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return Assets{}, fmt.Errorf("%w: %v", ErrEnrichmentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Assets{}, fmt.Errorf("%w: status %d", ErrEnrichmentUnavailable, resp.StatusCode)
	}

	var assets Assets
	if err := json.NewDecoder(resp.Body).Decode(&assets); err != nil {
		return Assets{}, fmt.Errorf("%w: decode: %v", ErrEnrichmentUnavailable, err)
	}
	return assets, nil
}
