// Package connectivity turns a raw reachability primitive into a debounced,
// edge-triggered online/offline signal.
package connectivity

import (
	"context"
	"io"
	"net/http"
	"time"

	"mariiahub/internal/config"
)

// HTTPProvider answers connectivity by probing a URL with a HEAD request.
// Any HTTP response counts as online; whether the endpoint is happy is the
// submitter's problem, not the monitor's.
type HTTPProvider struct {
	url    string
	client *http.Client
}

func NewHTTPProvider(cfg config.ConnectivityConfig) *HTTPProvider {
	return &HTTPProvider{
		url: cfg.ProbeURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.ProbeTimeoutSeconds) * time.Second,
		},
	}
}

func (p *HTTPProvider) Check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return true
}
