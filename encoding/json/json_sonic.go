//go:build sonic

package json

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Implementation is a constant string that represents the current JSON implementation package
const Implementation = "bytedance/sonic"

var (
	sonicStd = sonic.ConfigStd

	Marshal       = sonicStd.Marshal
	Unmarshal     = sonicStd.Unmarshal
	MarshalIndent = sonicStd.MarshalIndent
	NewDecoder    = sonicStd.NewDecoder
	NewEncoder    = sonicStd.NewEncoder
	Valid         = sonicStd.Valid
)

// Type aliases so callers never import encoding/json directly
type (
	RawMessage  = json.RawMessage
	Number      = json.Number
	Marshaler   = json.Marshaler
	Unmarshaler = json.Unmarshaler
)
