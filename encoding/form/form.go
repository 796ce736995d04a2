// Package form builds application/x-www-form-urlencoded bodies and query
// strings whose parameter order is the order the caller added them in.
// url.Values sorts keys on Encode, which changes the signed payload.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NullPolicy decides how nil parameter values are rendered
type NullPolicy uint8

// Null rendering policies
const (
	// IncludeNull renders a nil value as an empty field, key=
	IncludeNull NullPolicy = iota
	// OmitNull drops nil valued fields from the encoding entirely
	OmitNull
)

var errUnsupportedValue = errors.New("unsupported parameter value type")

type field struct {
	key   string
	value any
}

// Values is an insertion ordered set of parameters. The zero value is ready
// to use.
type Values struct {
	fields []field
}

// New returns Values populated with the supplied key/value pairs, in order.
// An odd trailing key is added with a nil value.
func New(kv ...any) *Values {
	v := &Values{fields: make([]field, 0, (len(kv)+1)/2)}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		var val any
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		v.Set(key, val)
	}
	return v
}

// Set replaces the value of an existing key in place, or appends the key
func (v *Values) Set(key string, value any) *Values {
	for i := range v.fields {
		if v.fields[i].key == key {
			v.fields[i].value = value
			return v
		}
	}
	v.fields = append(v.fields, field{key: key, value: value})
	return v
}

// Get returns the raw value stored against key
func (v *Values) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	for i := range v.fields {
		if v.fields[i].key == key {
			return v.fields[i].value, true
		}
	}
	return nil, false
}

// Keys returns parameter names in encoding order
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	keys := make([]string, len(v.fields))
	for i := range v.fields {
		keys[i] = v.fields[i].key
	}
	return keys
}

// Len returns the number of parameters held
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.fields)
}

// Merge appends every parameter of other, in order, using Set semantics
func (v *Values) Merge(other *Values) *Values {
	if other == nil {
		return v
	}
	for i := range other.fields {
		v.Set(other.fields[i].key, other.fields[i].value)
	}
	return v
}

// Encode joins the parameters as key=value pairs separated by '&'. Keys are
// written verbatim, values are percent-encoded with space encoded as '+'.
func (v *Values) Encode(policy NullPolicy) (string, error) {
	if v == nil || len(v.fields) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for i := range v.fields {
		s, isNull, err := stringify(v.fields[i].value)
		if err != nil {
			return "", fmt.Errorf("%w: %q is %T", err, v.fields[i].key, v.fields[i].value)
		}
		if isNull && policy == OmitNull {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(v.fields[i].key)
		sb.WriteByte('=')
		sb.WriteString(escape(s))
	}
	return sb.String(), nil
}

// escape percent-encodes a value the way urlencoding form builders do: space
// becomes '+' and only alphanumerics and "-_." pass through, so '~' is sent as
// %7E
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "~", "%7E")
}

func stringify(value any) (s string, isNull bool, err error) {
	switch val := value.(type) {
	case nil:
		return "", true, nil
	case string:
		return val, false, nil
	case *string:
		if val == nil {
			return "", true, nil
		}
		return *val, false, nil
	case int:
		return strconv.Itoa(val), false, nil
	case int32:
		return strconv.FormatInt(int64(val), 10), false, nil
	case int64:
		return strconv.FormatInt(val, 10), false, nil
	case *int64:
		if val == nil {
			return "", true, nil
		}
		return strconv.FormatInt(*val, 10), false, nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), false, nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), false, nil
	case uint64:
		return strconv.FormatUint(val, 10), false, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), false, nil
	case bool:
		if val {
			return "1", false, nil
		}
		return "0", false, nil
	case decimal.Decimal:
		return val.String(), false, nil
	case *decimal.Decimal:
		if val == nil {
			return "", true, nil
		}
		return val.String(), false, nil
	case fmt.Stringer:
		return val.String(), false, nil
	}
	return "", false, errUnsupportedValue
}
