//go:build !sonic

package json

import "encoding/json"

// Implementation is a constant string that represents the current JSON implementation package
const Implementation = "encoding/json"

// Aliases for the stdlib JSON package
var (
	Marshal       = json.Marshal
	Unmarshal     = json.Unmarshal
	MarshalIndent = json.MarshalIndent
	NewDecoder    = json.NewDecoder
	NewEncoder    = json.NewEncoder
	Valid         = json.Valid
)

// Type aliases so callers never import encoding/json directly
type (
	RawMessage  = json.RawMessage
	Number      = json.Number
	Marshaler   = json.Marshaler
	Unmarshaler = json.Unmarshaler
)
