package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"newsingest/domain"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	maxBodyBytes = 8 << 20
)

// Options configures an HTTPFetcher. Zero values fall back to the defaults.
type Options struct {
	MaxAttempts int
	BaseBackoff time.Duration
	Timeout     time.Duration
	UserAgent   string
}

type HTTPFetcher struct {
	client *http.Client
	opts   Options
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewHTTPFetcher(opts Options, logger *slog.Logger) *HTTPFetcher {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = DefaultBaseBackoff
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		logger: logger,
		sleep:  sleepContext,
	}
}

// Fetch GETs url and returns the body decoded to UTF-8. Only timeouts are
// retried, waiting BaseBackoff * 2^attempt between attempts. Any other
// failure, including a non-2xx status, is returned at once.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers http.Header) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.opts.MaxAttempts; attempt++ {
		body, err := f.get(ctx, url, headers)
		if err == nil {
			return body, nil
		}
		if !isTimeout(err) || ctx.Err() != nil {
			return "", &domain.FetchError{URL: url, Reason: err.Error(), Err: err}
		}
		lastErr = err

		if attempt == f.opts.MaxAttempts-1 {
			break
		}
		delay := f.opts.BaseBackoff << attempt
		f.logger.Warn("fetch timed out, retrying",
			"url", url,
			"attempt", attempt+1,
			"max_attempts", f.opts.MaxAttempts,
			"backoff", delay)
		if err := f.sleep(ctx, delay); err != nil {
			return "", &domain.FetchError{URL: url, Reason: err.Error(), Err: err}
		}
	}
	return "", &domain.FetchError{
		URL:       url,
		Reason:    fmt.Sprintf("%d attempts timed out", f.opts.MaxAttempts),
		Exhausted: true,
		Err:       lastErr,
	}
}

func (f *HTTPFetcher) get(ctx context.Context, url string, headers http.Header) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	r, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
