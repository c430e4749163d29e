package helper

import (
	"fmt"
	"net/url"
)

// IsValidURL checks that a source URL is absolute http(s).
func IsValidURL(sourceURL string) error {
	u, err := url.ParseRequestURI(sourceURL)
	if err != nil {
		return fmt.Errorf("invalid source URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("missing host in URL: %s", sourceURL)
	}

	return nil
}
