package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fetcher is the opaque capability the gateway uses to reach rate sources.
// Implementations decide routing and credentials; the gateway only knows
// resource paths, never upstream hosts.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// ProxyFetcher routes every request through a configured proxy with an API
// key header. Upstream URLs and credentials are deployment configuration;
// nothing in this package hardcodes them.
type ProxyFetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewProxyFetcher builds a fetcher for the given proxy base URL.
func NewProxyFetcher(baseURL, apiKey string) *ProxyFetcher {
	return &ProxyFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Fetch performs a GET for the given resource path. Any transport error or
// non-2xx status maps to ErrNetworkFailure.
func (f *ProxyFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	url := f.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	if f.apiKey != "" {
		req.Header.Set("X-Api-Key", f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrNetworkFailure, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNetworkFailure, path, err)
	}
	return body, nil
}
