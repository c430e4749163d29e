package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage wraps connection and write failures from an ArticleStore.
	ErrStorage = errors.New("storage error")
	// ErrUnknownExtractor is returned for a source kind with no extractor.
	ErrUnknownExtractor = errors.New("unknown extractor kind")
)

// FetchError is a terminal failure to download a source.
type FetchError struct {
	URL       string
	Reason    string
	Exhausted bool
	Err       error
}

func (e *FetchError) Error() string {
	if e.Exhausted {
		return fmt.Sprintf("fetch %s: retries exhausted: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }
