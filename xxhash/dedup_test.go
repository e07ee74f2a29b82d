package xxhash_test

import (
	"context"
	"testing"

	"github.com/goc9000/pgbook"
	"github.com/goc9000/pgbook/mock"
	"github.com/goc9000/pgbook/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gifBytes = []byte("GIF89a\x01\x00\x01\x00")

func cachingFetcher(pages map[string][]byte) *mock.PageFetcher {
	return &mock.PageFetcher{
		FetchFn: func(_ context.Context, ref string) ([]byte, error) {
			data, ok := pages[ref]
			if !ok {
				return nil, pgbook.Errorf(pgbook.EUNAVAILABLE, "no such page %s", ref)
			}
			return data, nil
		},
		CachePathFn: func(ref string) string {
			return "cache/" + ref
		},
	}
}

func TestResolveImage_IdenticalBytesShareOneAsset(t *testing.T) {
	t.Parallel()

	fetcher := cachingFetcher(map[string][]byte{
		"a.gif":                              gifBytes,
		"http://example.com/elsewhere/b.gif": gifBytes,
	})
	d := xxhash.NewDeduplicator(fetcher)
	book := pgbook.NewBook()

	name1, err := d.ResolveImage(context.Background(), book, "a.gif")
	require.NoError(t, err)
	name2, err := d.ResolveImage(context.Background(), book, "http://example.com/elsewhere/b.gif")
	require.NoError(t, err)

	assert.Equal(t, "img1.gif", name1)
	assert.Equal(t, name1, name2)
	assert.Len(t, book.Images, 1)
}

func TestResolveImage_DistinctBytesGetSequentialNames(t *testing.T) {
	t.Parallel()

	fetcher := cachingFetcher(map[string][]byte{
		"a.gif": gifBytes,
		"b.png": []byte("\x89PNG\r\n\x1a\n0000"),
	})
	d := xxhash.NewDeduplicator(fetcher)
	book := pgbook.NewBook()

	name1, err := d.ResolveImage(context.Background(), book, "a.gif")
	require.NoError(t, err)
	name2, err := d.ResolveImage(context.Background(), book, "b.png")
	require.NoError(t, err)

	assert.Equal(t, "img1.gif", name1)
	assert.Equal(t, "img2.png", name2)
	require.Len(t, book.Images, 2)

	for _, asset := range book.Images {
		assert.NotEmpty(t, asset.CachePath)
		assert.NotZero(t, asset.Hash)
	}
}

func TestResolveImage_FetchFailureSubstitutesPlaceholder(t *testing.T) {
	t.Parallel()

	fetcher := cachingFetcher(map[string][]byte{
		pgbook.PlaceholderImageURL: gifBytes,
	})
	d := xxhash.NewDeduplicator(fetcher)
	book := pgbook.NewBook()

	name, err := d.ResolveImage(context.Background(), book, "missing.gif")
	require.NoError(t, err)

	assert.Equal(t, "img1.gif", name)
	require.Len(t, book.Images, 1)
	for _, asset := range book.Images {
		assert.Equal(t, "cache/"+pgbook.PlaceholderImageURL, asset.CachePath)
	}
}

func TestResolveImage_UnknownSignature(t *testing.T) {
	t.Parallel()

	fetcher := cachingFetcher(map[string][]byte{
		"odd.bin": []byte("not an image at all"),
	})
	d := xxhash.NewDeduplicator(fetcher)

	_, err := d.ResolveImage(context.Background(), pgbook.NewBook(), "odd.bin")
	assert.Equal(t, pgbook.EINVALID, pgbook.ErrorCode(err))
}

func TestResolveImage_PlaceholderAlsoUnavailable(t *testing.T) {
	t.Parallel()

	fetcher := cachingFetcher(nil)
	d := xxhash.NewDeduplicator(fetcher)

	_, err := d.ResolveImage(context.Background(), pgbook.NewBook(), "missing.gif")
	assert.Equal(t, pgbook.EUNAVAILABLE, pgbook.ErrorCode(err))
}
