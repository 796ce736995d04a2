package request

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	userAgent = "User-Agent"
	// maxErrorBodyLength bounds how much of a bad payload is kept on an
	// InvalidResponseError
	maxErrorBodyLength = 512
)

// Sentinel errors matched by TransportError and InvalidResponseError through
// errors.Is
var (
	ErrTransport       = errors.New("transport failure")
	ErrInvalidResponse = errors.New("invalid data received")
)

// Requester performs exactly one HTTP round trip per SendPayload call
type Requester struct {
	HTTPClient *http.Client
	Name       string
	UserAgent  string
}

// RequesterOption is a function option for a Requester
type RequesterOption func(*Requester)

// WithUserAgent sets the User-Agent header sent on every request
func WithUserAgent(ua string) RequesterOption {
	return func(r *Requester) {
		r.UserAgent = ua
	}
}

// Item is a temporary item for a request
type Item struct {
	Method        string
	Path          string
	Headers       map[string]string
	Body          io.Reader
	Result        interface{}
	Verbose       bool
	HTTPDebugging bool

	// EmptyCheck reports whether a decoded payload counts as no data.
	// IsEmptyResult is used when nil.
	EmptyCheck func(interface{}) bool
}

// Generate defines a closure for functionality outside of the requester to
// build the request item lazily, immediately before it is sent.
type Generate func() (*Item, error)

// TransportError is returned when the request could not complete a round
// trip, for example on a refused connection, a timeout or a cancelled
// context. The underlying cause is available through errors.Unwrap.
type TransportError struct {
	Name   string
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s %s: %v: %v", e.Name, e.Method, e.Path, ErrTransport, e.Err)
}

// Unwrap returns the underlying network error
func (e *TransportError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransport
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// InvalidResponseError is returned when the round trip succeeded but the
// payload is empty, not JSON, or decodes to a falsy value such as null,
// false, 0, "" or an empty array/object.
type InvalidResponseError struct {
	Name       string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *InvalidResponseError) Error() string {
	msg := fmt.Sprintf("%s %s: %v, please make sure connection is working and requested API exists (HTTP %d)",
		e.Name, e.Path, ErrInvalidResponse, e.StatusCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the decode error, if any
func (e *InvalidResponseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidResponse
func (e *InvalidResponseError) Is(target error) bool { return target == ErrInvalidResponse }
