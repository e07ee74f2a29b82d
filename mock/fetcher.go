package mock

import (
	"context"

	"github.com/goc9000/pgbook"
)

var _ pgbook.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of pgbook.PageFetcher.
type PageFetcher struct {
	FetchFn     func(ctx context.Context, ref string) ([]byte, error)
	CachePathFn func(ref string) string
}

func (f *PageFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f.FetchFn(ctx, ref)
}

func (f *PageFetcher) CachePath(ref string) string {
	return f.CachePathFn(ref)
}
