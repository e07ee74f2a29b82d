package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/goc9000/pgbook/mock"
	pgslog "github.com/goc9000/pgbook/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	next := &mock.PageFetcher{
		FetchFn: func(_ context.Context, ref string) ([]byte, error) {
			return []byte("payload"), nil
		},
		CachePathFn: func(ref string) string {
			return "cache/" + ref
		},
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	f := pgslog.NewLoggingFetcher(next, logger)

	data, err := f.Fetch(context.Background(), "avg.html")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	out := buf.String()
	assert.Contains(t, out, "msg=fetch")
	assert.Contains(t, out, "ref=avg.html")
	assert.Contains(t, out, "bytes=7")

	assert.Equal(t, "cache/avg.html", f.CachePath("avg.html"))
}
