package pgbook

import "context"

// PageFetcher retrieves raw bytes for a reference (an absolute URL or a
// site-relative link), backed by a content-addressed local cache keyed
// by an invertible encoding of the reference string. Repeated fetches of
// the same reference are inexpensive and side-effect-free, so the
// pipeline may be re-run safely after a partial failure.
type PageFetcher interface {
	// Fetch returns the bytes for the reference, from cache when
	// available. Returns EUNAVAILABLE when the remote resource cannot
	// be retrieved.
	Fetch(ctx context.Context, ref string) ([]byte, error)

	// CachePath returns the local cache file path for the reference,
	// whether or not it has been fetched yet.
	CachePath(ref string) string
}
