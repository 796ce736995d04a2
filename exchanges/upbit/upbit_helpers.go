package upbit

import (
	"fmt"

	"github.com/upbitdev/goupbit/encoding/json"
)

// Decode maps a result returned by the client onto out, for example a
// map[string]Ticker for GetTicker or a Response for authenticated calls
func Decode(result, out interface{}) error {
	if out == nil {
		return errDecodeTargetNil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

// RemoteError returns an *APIError when result is an authenticated response
// reporting failure, such as {"success":0,"error":"invalid nonce"}. Any other
// shape, including public market data, yields nil.
func RemoteError(result interface{}) error {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil
	}
	success, ok := m["success"]
	if !ok {
		return nil
	}
	if s, ok := success.(float64); ok && s == 1 {
		return nil
	}
	switch msg := m["error"].(type) {
	case string:
		return &APIError{Message: msg}
	case nil:
		return &APIError{Message: "unknown error"}
	default:
		return &APIError{Message: fmt.Sprint(msg)}
	}
}

// Return extracts the payload of a successful authenticated response and
// decodes it into out. Failed responses yield the *APIError from RemoteError.
func Return(result, out interface{}) error {
	if err := RemoteError(result); err != nil {
		return err
	}
	var resp Response
	if err := Decode(result, &resp); err != nil {
		return err
	}
	return Decode(resp.Return, out)
}
