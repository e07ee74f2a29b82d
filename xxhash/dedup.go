// Package xxhash deduplicates embedded images by content hash.
//
// The source pages embed the same images under many different paths, so
// identity is decided by hashing the fetched bytes rather than by URL.
// Each distinct image is assigned a sequential output name whose
// extension is inferred from the image's binary signature.
package xxhash

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/goc9000/pgbook"
)

// Ensure Deduplicator implements pgbook.ImageResolver at compile time.
var _ pgbook.ImageResolver = (*Deduplicator)(nil)

// Deduplicator resolves image references against a book's image
// registry, fetching the bytes through Fetcher.
type Deduplicator struct {
	Fetcher pgbook.PageFetcher
}

// NewDeduplicator creates a Deduplicator backed by the given fetcher.
func NewDeduplicator(fetcher pgbook.PageFetcher) *Deduplicator {
	return &Deduplicator{Fetcher: fetcher}
}

// ResolveImage fetches the image at src, registers its bytes in the
// book's image registry, and returns the canonical output name. An
// unfetchable image is substituted with a fixed transparent placeholder
// so that broken source references never break the build.
func (d *Deduplicator) ResolveImage(ctx context.Context, book *pgbook.Book, src string) (string, error) {
	ref := src
	data, err := d.Fetcher.Fetch(ctx, ref)
	if err != nil {
		ref = pgbook.PlaceholderImageURL
		data, err = d.Fetcher.Fetch(ctx, ref)
		if err != nil {
			return "", err
		}
	}

	hash := xxhash.Sum64(data)
	if asset, ok := book.Images[hash]; ok {
		return asset.Name, nil
	}

	ext, err := imageExt(data)
	if err != nil {
		return "", err
	}
	asset := &pgbook.ImageAsset{
		Hash:      hash,
		CachePath: d.Fetcher.CachePath(ref),
		Name:      fmt.Sprintf("img%d.%s", len(book.Images)+1, ext),
	}
	book.Images[hash] = asset

	return asset.Name, nil
}

// imageExt infers the output file extension from the image's binary
// signature.
func imageExt(data []byte) (string, error) {
	switch {
	case hasPrefix(data, "GIF87a"), hasPrefix(data, "GIF89a"):
		return "gif", nil
	case hasPrefix(data, "\x89PNG\r\n\x1a\n"):
		return "png", nil
	case hasPrefix(data, "\xff\xd8"):
		return "jpeg", nil
	case hasPrefix(data, "BM"):
		return "bmp", nil
	case hasPrefix(data, "II*\x00"), hasPrefix(data, "MM\x00*"):
		return "tiff", nil
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "webp", nil
	}
	head := data
	if len(head) > 16 {
		head = head[:16]
	}
	return "", pgbook.Errorf(pgbook.EINVALID, "unrecognized image format (signature % x)", head)
}

func hasPrefix(data []byte, prefix string) bool {
	return len(data) >= len(prefix) && string(data[:len(prefix)]) == prefix
}
