package httpfetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsingest/domain"
)

func newTestFetcher(timeout time.Duration) (*HTTPFetcher, *[]time.Duration) {
	f := NewHTTPFetcher(Options{Timeout: timeout, BaseBackoff: time.Second}, nil)
	var slept []time.Duration
	f.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return f, &slept
}

func TestFetch_Success(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<h2>hello</h2>"))
	}))
	defer srv.Close()

	f, slept := newTestFetcher(time.Second)
	body, err := f.Fetch(context.Background(), srv.URL, http.Header{"Accept": []string{"text/html"}})

	require.NoError(t, err)
	assert.Equal(t, "<h2>hello</h2>", body)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "text/html", gotAccept)
	assert.Empty(t, *slept)
}

func TestFetch_CustomUserAgentHeader(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	f, _ := newTestFetcher(time.Second)
	_, err := f.Fetch(context.Background(), srv.URL, http.Header{"User-Agent": []string{"newsingest-test"}})

	require.NoError(t, err)
	assert.Equal(t, "newsingest-test", gotUA)
}

func TestFetch_DecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
	}))
	defer srv.Close()

	f, _ := newTestFetcher(time.Second)
	body, err := f.Fetch(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "café", body)
}

func TestFetch_NonSuccessStatusFailsWithoutRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f, slept := newTestFetcher(time.Second)
	_, err := f.Fetch(context.Background(), srv.URL, nil)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.False(t, fe.Exhausted)
	assert.Contains(t, fe.Reason, "503")
	assert.Equal(t, int32(1), hits.Load())
	assert.Empty(t, *slept)
}

func TestFetch_ConnectionRefusedFailsWithoutRetry(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f, slept := newTestFetcher(time.Second)
	_, err := f.Fetch(context.Background(), url, nil)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.False(t, fe.Exhausted)
	assert.Empty(t, *slept)
}

func TestFetch_TimeoutRetriesWithBackoffThenExhausts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f, slept := newTestFetcher(50 * time.Millisecond)
	_, err := f.Fetch(context.Background(), srv.URL, nil)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.Exhausted)
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestFetch_TimeoutThenSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f, slept := newTestFetcher(50 * time.Millisecond)
	body, err := f.Fetch(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, []time.Duration{time.Second}, *slept)
}

func TestFetch_CancelledContextDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Options{Timeout: 50 * time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	f.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}
	_, err := f.Fetch(ctx, srv.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, isTimeout(context.DeadlineExceeded))
	assert.False(t, isTimeout(errors.New("boom")))
}
