package descriptor

import (
	"fmt"
	"net/url"
	"strings"
)

// IDFromURL derives the logo id from a website address. The id is the
// lower-cased host name without port and without a leading "www.", so
// "https://WWW.Example.com:8080/about" and "example.com" map to the same id.
func IDFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("descriptor: empty url: %w", ErrInvalidInput)
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("descriptor: parse url %q: %v: %w", raw, err, ErrInvalidInput)
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimSuffix(host, ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", fmt.Errorf("descriptor: url %q has no host: %w", raw, ErrInvalidInput)
	}
	return host, nil
}
