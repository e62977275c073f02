package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/taller-autos/neoauto-etl/internal"
)

// fixed identity headers, the catalog blocks anonymous default clients
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	acceptLanguage = "en-US,en;q=0.9"
)

// Fetcher performs plain GET requests against catalog pages.
// Retry policy, if any, belongs to the caller.
type Fetcher struct {
	client *http.Client
}

func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the response body for url, or a *internal.FetchError on a
// transport failure or any non-200 status.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, internal.NewFetchError(url, 0, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, internal.NewFetchError(url, 0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, internal.NewFetchError(url, resp.StatusCode, nil)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internal.NewFetchError(url, resp.StatusCode, err)
	}

	return content, nil
}
