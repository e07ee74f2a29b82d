// Package http provides an HTTP-based implementation of
// pgbook.PageFetcher backed by a local file cache, so that repeated
// builds do not hammer the source site.
package http

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goc9000/pgbook"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRequestsPerSecond is the default rate limit applied to cache
// misses.
const DefaultRequestsPerSecond = 2.0

// cacheKeyEncoding is an invertible, filesystem-safe encoding of the
// fetched URL: base64 with "()" in place of "+/" and "_" padding. Cache
// file names can be decoded back to the URL they hold.
var cacheKeyEncoding = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789()",
).WithPadding('_')

// Ensure CachingFetcher implements pgbook.PageFetcher at compile time.
var _ pgbook.PageFetcher = (*CachingFetcher)(nil)

// CachingFetcher retrieves pages and images over HTTP, storing every
// response in a local cache directory keyed by URL. Cache hits bypass
// the network and the rate limiter entirely.
type CachingFetcher struct {
	cacheDir string
	client   *http.Client
	limiter  *rate.Limiter
	timeout  time.Duration
	rps      float64
}

// Option configures a CachingFetcher.
type Option func(*CachingFetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *CachingFetcher) {
		f.timeout = d
	}
}

// WithRateLimit sets the requests-per-second limit for cache misses.
// Defaults to DefaultRequestsPerSecond if not specified.
func WithRateLimit(rps float64) Option {
	return func(f *CachingFetcher) {
		f.rps = rps
	}
}

// NewCachingFetcher creates a CachingFetcher storing responses under
// cacheDir.
func NewCachingFetcher(cacheDir string, opts ...Option) *CachingFetcher {
	f := &CachingFetcher{
		cacheDir: cacheDir,
		timeout:  DefaultFetchTimeout,
		rps:      DefaultRequestsPerSecond,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}
	f.limiter = rate.NewLimiter(rate.Limit(f.rps), 1)

	return f
}

// CachePath returns the local cache file path for the reference,
// whether or not it has been fetched yet.
func (f *CachingFetcher) CachePath(ref string) string {
	url := absoluteURL(ref)
	return filepath.Join(f.cacheDir, cacheKeyEncoding.EncodeToString([]byte(url)))
}

// Fetch returns the bytes for the reference, downloading and caching
// them on first access. Site-relative references are resolved against
// the site root.
func (f *CachingFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	path := f.CachePath(ref)
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	url := absoluteURL(ref)

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pgbook.Errorf(pgbook.EUNAVAILABLE, "cannot fetch %s: %v", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pgbook.Errorf(pgbook.EUNAVAILABLE, "cannot fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pgbook.Errorf(pgbook.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pgbook.Errorf(pgbook.EUNAVAILABLE, "cannot fetch %s: %v", url, err)
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}

	return data, nil
}

// absoluteURL resolves a site-relative reference against the site root.
func absoluteURL(ref string) string {
	if pgbook.IsExternalURL(ref) {
		return ref
	}
	return pgbook.RootURL + ref
}
