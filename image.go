package pgbook

import "context"

// ImageAsset is one deduplicated embedded image. Its canonical identity
// is the content hash of its fetched bytes: two images with identical
// bytes always map to the same asset, no matter how many pages reference
// them or under how many source paths.
type ImageAsset struct {
	// Hash is the content hash of the image bytes.
	Hash uint64

	// CachePath is where the fetched bytes live in the local cache.
	CachePath string

	// Name is the assigned sequential output name, with an extension
	// inferred from the image's binary signature (e.g. "img3.gif").
	Name string
}

// ImageResolver resolves an image source reference to its canonical
// output name, fetching and deduplicating the bytes as needed.
type ImageResolver interface {
	// ResolveImage fetches the referenced image, registers it in the
	// book's image registry keyed by content hash, and returns the
	// assigned output name. Fetch failures are recovered by
	// substituting a fixed placeholder image.
	ResolveImage(ctx context.Context, book *Book, src string) (string, error)
}
