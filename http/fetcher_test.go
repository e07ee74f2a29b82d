package http_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/goc9000/pgbook"
	pghttp "github.com/goc9000/pgbook/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingFetcher_FetchAndCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("page content"))
	}))
	defer srv.Close()

	f := pghttp.NewCachingFetcher(t.TempDir(), pghttp.WithRateLimit(1000))

	data, err := f.Fetch(context.Background(), srv.URL+"/a.html")
	require.NoError(t, err)
	assert.Equal(t, "page content", string(data))

	// Second fetch is served from cache.
	data, err = f.Fetch(context.Background(), srv.URL+"/a.html")
	require.NoError(t, err)
	assert.Equal(t, "page content", string(data))
	assert.Equal(t, int64(1), hits.Load())
}

func TestCachingFetcher_HTTPErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := pghttp.NewCachingFetcher(t.TempDir(), pghttp.WithRateLimit(1000))

	_, err := f.Fetch(context.Background(), srv.URL+"/missing.html")
	assert.Equal(t, pgbook.EUNAVAILABLE, pgbook.ErrorCode(err))
}

func TestCachingFetcher_UnreachableHostIsUnavailable(t *testing.T) {
	t.Parallel()

	f := pghttp.NewCachingFetcher(t.TempDir(), pghttp.WithRateLimit(1000))

	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/nothing.html")
	assert.Equal(t, pgbook.EUNAVAILABLE, pgbook.ErrorCode(err))
}

func TestCachingFetcher_CachePath(t *testing.T) {
	t.Parallel()

	f := pghttp.NewCachingFetcher("cache")

	// The file name is an invertible encoding of the absolute URL.
	enc := base64.NewEncoding(
		"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789()",
	).WithPadding('_')

	t.Run("relative references resolve against the site root", func(t *testing.T) {
		t.Parallel()

		name := filepath.Base(f.CachePath("articles.html"))
		decoded, err := enc.DecodeString(name)
		require.NoError(t, err)
		assert.Equal(t, pgbook.RootURL+"articles.html", string(decoded))
	})

	t.Run("absolute references are keyed as-is", func(t *testing.T) {
		t.Parallel()

		name := filepath.Base(f.CachePath("http://example.com/x?y=1"))
		decoded, err := enc.DecodeString(name)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/x?y=1", string(decoded))
	})

	t.Run("the same reference always maps to the same file", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, f.CachePath("avg.html"), f.CachePath("avg.html"))
		assert.Equal(t,
			f.CachePath("avg.html"),
			f.CachePath(pgbook.RootURL+"avg.html"),
		)
	})
}
