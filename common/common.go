package common

import (
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	errEmptyURL       = errors.New("URL cannot be empty")
	errInvalidScheme  = errors.New("URL scheme must be http or https")
	errMissingURLHost = errors.New("URL host cannot be empty")
)

// NewHTTPClientWithTimeout initialises a new HTTP client and its underlying
// transport IdleConnTimeout with the specified timeout duration
func NewHTTPClientWithTimeout(t time.Duration) *http.Client {
	return NewHTTPClient(t, false)
}

// NewHTTPClient returns an HTTP client with the supplied timeout. Setting
// insecureSkipVerify disables TLS certificate verification, which exposes
// requests and credentials to interception and must only be used against
// trusted test endpoints.
func NewHTTPClient(t time.Duration, insecureSkipVerify bool) *http.Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   t,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		IdleConnTimeout:     t,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // explicit opt-out, warned on at client construction
		},
	}
	return &http.Client{
		Transport: tr,
		Timeout:   t,
	}
}

// CheckURL validates that u is an absolute http or https URL and returns it
// without a trailing slash
func CheckURL(u string) (string, error) {
	if u == "" {
		return "", errEmptyURL
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errInvalidScheme
	}
	if parsed.Host == "" {
		return "", errMissingURLHost
	}
	return strings.TrimSuffix(u, "/"), nil
}

// IsEnabled takes in a boolean param and returns a string if it is enabled
// or disabled
func IsEnabled(isEnabled bool) string {
	if isEnabled {
		return "Enabled"
	}
	return "Disabled"
}
