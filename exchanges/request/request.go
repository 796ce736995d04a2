package request

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httputil"

	"github.com/upbitdev/goupbit/encoding/json"
	"github.com/upbitdev/goupbit/log"
)

var (
	errRequestSystemIsNil   = errors.New("request system is nil")
	errRequestFunctionIsNil = errors.New("request function is nil")
	errServiceNameUnset     = errors.New("service name unset")
	errHTTPClientIsNil      = errors.New("http client is nil")
	errRequestItemNil       = errors.New("request item is nil")
	errInvalidPath          = errors.New("invalid path")
)

// New returns a new Requester
func New(name string, httpRequester *http.Client, opts ...RequesterOption) (*Requester, error) {
	if name == "" {
		return nil, errServiceNameUnset
	}
	if httpRequester == nil {
		return nil, errHTTPClientIsNil
	}
	r := &Requester{
		HTTPClient: httpRequester,
		Name:       name,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// SendPayload handles sending HTTP/HTTPS requests. There are no retries, each
// call is a single round trip.
func (r *Requester) SendPayload(ctx context.Context, newRequest Generate) error {
	if r == nil {
		return errRequestSystemIsNil
	}
	if newRequest == nil {
		return errRequestFunctionIsNil
	}
	p, err := newRequest()
	if err != nil {
		return err
	}
	req, err := p.validateRequest(ctx, r)
	if err != nil {
		return err
	}
	return r.doRequest(req, p)
}

// validateRequest validates the requester item fields
func (i *Item) validateRequest(ctx context.Context, r *Requester) (*http.Request, error) {
	if i == nil {
		return nil, errRequestItemNil
	}

	if i.Path == "" {
		return nil, errInvalidPath
	}

	req, err := http.NewRequestWithContext(ctx, i.Method, i.Path, i.Body)
	if err != nil {
		return nil, err
	}

	if i.HTTPDebugging {
		// Err not evaluated due to validation check above
		dump, _ := httputil.DumpRequestOut(req, true)
		log.Debugf(log.RequestSys, "DumpRequest:\n%s", dump)
	}

	for k, v := range i.Headers {
		req.Header.Add(k, v)
	}

	if r.UserAgent != "" && req.Header.Get(userAgent) == "" {
		req.Header.Add(userAgent, r.UserAgent)
	}

	return req, nil
}

func (r *Requester) doRequest(req *http.Request, p *Item) error {
	verbose := IsVerbose(req.Context(), p.Verbose)
	if verbose {
		log.Debugf(log.RequestSys, "%s request path: %s", r.Name, p.Path)
		log.Debugf(log.RequestSys, "%s request type: %s", r.Name, p.Method)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return &TransportError{Name: r.Name, Method: p.Method, Path: p.Path, Err: err}
	}
	defer resp.Body.Close()

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Name: r.Name, Method: p.Method, Path: p.Path, Err: err}
	}

	if p.HTTPDebugging {
		dump, err := httputil.DumpResponse(resp, false)
		if err != nil {
			log.Errorf(log.RequestSys, "DumpResponse invalid response: %v:", err)
		}
		log.Debugf(log.RequestSys, "DumpResponse Headers (%v):\n%s", p.Path, dump)
		log.Debugf(log.RequestSys, "DumpResponse Body (%v):\n %s", p.Path, string(contents))
	}

	if verbose {
		log.Debugf(log.RequestSys,
			"HTTP status: %s, Code: %v",
			resp.Status,
			resp.StatusCode)
		if !p.HTTPDebugging {
			log.Debugf(log.RequestSys,
				"%s raw response: %s",
				r.Name,
				string(contents))
		}
	}

	isEmpty := p.EmptyCheck
	if isEmpty == nil {
		isEmpty = IsEmptyResult
	}
	var decoded interface{}
	if err := json.Unmarshal(contents, &decoded); err != nil || isEmpty(decoded) {
		return &InvalidResponseError{
			Name:       r.Name,
			Path:       p.Path,
			StatusCode: resp.StatusCode,
			Body:       truncate(contents),
			Err:        err,
		}
	}

	switch result := p.Result.(type) {
	case nil:
		return nil
	case *interface{}:
		*result = decoded
		return nil
	}
	if err := json.Unmarshal(contents, p.Result); err != nil {
		return &InvalidResponseError{
			Name:       r.Name,
			Path:       p.Path,
			StatusCode: resp.StatusCode,
			Body:       truncate(contents),
			Err:        err,
		}
	}
	return nil
}

// IsEmptyResult reports whether a decoded JSON value is falsy: null, false,
// zero, an empty or "0" string, or an empty array or object
func IsEmptyResult(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == "" || val == "0"
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	}
	return false
}

// IsNullResult reports whether a decoded JSON value carries no data at all:
// null, false or an empty string. Empty arrays and objects are valid results.
func IsNullResult(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	}
	return false
}

func truncate(b []byte) string {
	if len(b) > maxErrorBodyLength {
		return string(b[:maxErrorBodyLength])
	}
	return string(b)
}
