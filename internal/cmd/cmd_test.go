package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body>
<div><h2><a href="https://skift.com/a/">Hotel Demand Rebounds</a></h2><time>3 hours ago</time></div>
<div><h2><a href="https://skift.com/b/">Airline Capacity Update</a></h2><time>No Time Found</time></div>
</body></html>`

const feed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>PW</title>
<item><title>Booking Funding Round</title><link>https://pw.com/1</link><pubDate>Mon, 02 Jun 2025 08:00:00 +0000</pubDate></item>
</channel></rss>`

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func setup(t *testing.T, sourcesYAML string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sourcesYAML), 0o644))
	t.Setenv("SOURCES_FILE", path)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("FETCH_MAX_ATTEMPTS", "1")

	prev := Stderr
	Stderr = io.Discard
	t.Cleanup(func() { Stderr = prev })
}

func TestIngest(t *testing.T) {
	htmlURL := serve(t, http.StatusOK, listingPage)
	rssURL := serve(t, http.StatusOK, feed)
	badURL := serve(t, http.StatusInternalServerError, "")
	setup(t, fmt.Sprintf(`
sources:
  - {name: Skift, url: %q, kind: html}
  - {name: Phocuswire, url: %q, kind: rss}
  - {name: Broken, url: %q, kind: rss}
`, htmlURL, rssURL, badURL))

	var out bytes.Buffer
	require.NoError(t, Ingest(context.Background(), []string{"--workers", "3", "--num", "5"}, &out))

	s := out.String()
	assert.Contains(t, s, "Skift: 1 new\n")
	assert.Contains(t, s, "Phocuswire: 1 new\n")
	assert.Contains(t, s, "Broken: 0 new, error:")
	assert.Contains(t, s, "Total new articles: 2")
	assert.Contains(t, s, "Hotel Demand Rebounds")
	assert.Contains(t, s, "Booking Funding Round")
	assert.NotContains(t, s, "Airline Capacity Update")
}

func TestIngest_AllSourcesFail(t *testing.T) {
	badURL := serve(t, http.StatusNotFound, "")
	setup(t, fmt.Sprintf("sources:\n  - {name: Gone, url: %q, kind: html}\n", badURL))

	var out bytes.Buffer
	err := Ingest(context.Background(), nil, &out)
	assert.ErrorContains(t, err, "all 1 sources failed")
}

func TestIngest_InvalidWorkers(t *testing.T) {
	setup(t, fmt.Sprintf("sources:\n  - {name: Skift, url: %q, kind: html}\n", serve(t, http.StatusOK, listingPage)))

	err := Ingest(context.Background(), []string{"--workers", "0"}, io.Discard)
	assert.ErrorContains(t, err, "invalid --workers")
}

func TestIngest_PublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	setup(t, fmt.Sprintf("sources:\n  - {name: Phocuswire, url: %q, kind: rss}\n", serve(t, http.StatusOK, feed)))
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("REDIS_QUEUE", "test:articles")

	require.NoError(t, Ingest(context.Background(), []string{"--num", "0"}, io.Discard))

	items, err := mr.List("test:articles")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestIngest_RedisDownIsNotFatal(t *testing.T) {
	setup(t, fmt.Sprintf("sources:\n  - {name: Phocuswire, url: %q, kind: rss}\n", serve(t, http.StatusOK, feed)))
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	var out bytes.Buffer
	require.NoError(t, Ingest(context.Background(), []string{"--num", "0"}, &out))
	assert.Contains(t, out.String(), "Phocuswire: 1 new")
}

func TestSources(t *testing.T) {
	setup(t, `
sources:
  - {name: Skift, url: "https://skift.com/news/", kind: html}
  - {name: Old, url: "https://old.example.com/rss", kind: rss, enabled: false}
`)

	var out bytes.Buffer
	require.NoError(t, Sources(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "1. Skift [html]\n")
	assert.Contains(t, out.String(), "2. Old [rss] (disabled)")
}

func TestLatestAllReset_RejectMemoryStore(t *testing.T) {
	setup(t, "sources:\n  - {name: Skift, url: \"https://skift.com/news/\", kind: html}\n")
	ctx := context.Background()

	assert.ErrorIs(t, Latest(ctx, []string{"--num", "3"}, io.Discard), ErrStoreNotPersistent)
	assert.ErrorIs(t, All(ctx, nil, io.Discard), ErrStoreNotPersistent)
	assert.ErrorIs(t, Reset(ctx, []string{"--yes"}, io.Discard), ErrStoreNotPersistent)

	assert.ErrorContains(t, Latest(ctx, []string{"--num", "0"}, io.Discard), "--num")
	assert.ErrorContains(t, Reset(ctx, nil, io.Discard), "--yes")
}
