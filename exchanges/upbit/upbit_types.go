package upbit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/upbitdev/goupbit/config"
)

// OrderSide is the direction of an order
type OrderSide string

// Order sides accepted by Trade and GetOrders
const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// OrderStatus filters GetOrders results
type OrderStatus string

// Order statuses accepted by GetOrders
const (
	Open      OrderStatus = "open"
	Closed    OrderStatus = "closed"
	Cancelled OrderStatus = "cancelled"
)

// SortOrder is the result ordering for history and order listings
type SortOrder string

// Sort orders
const (
	Ascending  SortOrder = "ASC"
	Descending SortOrder = "DESC"
)

// Defaults applied to history and order list requests
const (
	DefaultPair  = "btc_usd"
	DefaultLimit = 1000
	DefaultOrder = Descending
)

// Sentinel errors
var (
	ErrValidation          = errors.New("validation failure")
	ErrCredentialsMissing  = errors.New("api secret cannot be empty")
	ErrAuthenticationNotOn = errors.New("authenticated API support not enabled")
	errReservedParameter   = errors.New("parameter name is reserved")
	errExchangeConfigNil   = errors.New("exchange config is nil")
	errDecodeTargetNil     = errors.New("decode target is nil")
)

// Credentials hold the API key pair and the optional nonce start value. A
// zero StartNonce seeds the nonce from the current Unix time.
type Credentials struct {
	Key        string
	Secret     string
	StartNonce int64
}

// Option adjusts the exchange configuration used by New
type Option func(*config.ExchangeConfig)

// WithPublicURL sets the market data base URL
func WithPublicURL(u string) Option {
	return func(e *config.ExchangeConfig) { e.PublicURL = u }
}

// WithPrivateURL sets the single authenticated endpoint URL
func WithPrivateURL(u string) Option {
	return func(e *config.ExchangeConfig) { e.PrivateURL = u }
}

// WithInsecureSkipVerify disables TLS certificate verification. Unsafe, only
// for trusted test endpoints.
func WithInsecureSkipVerify(skip bool) Option {
	return func(e *config.ExchangeConfig) { e.InsecureSkipVerify = skip }
}

// WithTimeouts sets the public and private HTTP timeouts
func WithTimeouts(public, private time.Duration) Option {
	return func(e *config.ExchangeConfig) {
		e.PublicTimeout = public
		e.PrivateTimeout = private
	}
}

// WithOmitNullParameters drops nil valued fields from signed bodies instead
// of sending them as key=
func WithOmitNullParameters(omit bool) Option {
	return func(e *config.ExchangeConfig) { e.OmitNullParameters = omit }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(e *config.ExchangeConfig) { e.UserAgent = ua }
}

// WithVerbose enables request debug logging
func WithVerbose(verbose bool) Option {
	return func(e *config.ExchangeConfig) { e.Verbose = verbose }
}

// TradeHistoryRequest holds getTradeHistory parameters. Zero values take the
// defaults: pair btc_usd, limit 1000, order DESC. Since and End are Unix
// timestamps and are sent empty when zero.
type TradeHistoryRequest struct {
	Pair  string
	Limit int64
	Order SortOrder
	Since int64
	End   int64
}

// OrdersRequest holds getOrders parameters. Empty Pair, Type and Status are
// sent empty, as are zero Since and End. Limit and Order default to 1000 and
// DESC.
type OrdersRequest struct {
	Pair   string
	Type   OrderSide
	Status OrderStatus
	Limit  int64
	Order  SortOrder
	Since  int64
	End    int64
}

// ValidationError is returned before any network activity when an argument
// falls outside its allowed set of values
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: invalid %s %q, must be one of [%s]",
		ErrValidation, e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// APIError is an exchange reported failure carried inside a successful HTTP
// response, for example {"success":0,"error":"invalid nonce"}
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "exchange error: " + e.Message
}

// Response is the envelope of authenticated responses
type Response struct {
	Success int         `json:"success"`
	Return  interface{} `json:"return"`
	Error   string      `json:"error"`
}

// AccountInfo stores the account information for a user
type AccountInfo struct {
	Funds  map[string]float64 `json:"funds"`
	Rights struct {
		Info     int `json:"info"`
		Trade    int `json:"trade"`
		Withdraw int `json:"withdraw"`
	} `json:"rights"`
	TransactionCount int   `json:"transaction_count"`
	OpenOrders       int   `json:"open_orders"`
	ServerTime       int64 `json:"server_time"`
}

// OrderInfo stores order information
type OrderInfo struct {
	Pair             string  `json:"pair"`
	Type             string  `json:"type"`
	StartAmount      float64 `json:"start_amount"`
	Amount           float64 `json:"amount"`
	Rate             float64 `json:"rate"`
	TimestampCreated int64   `json:"timestamp_created"`
	Status           int     `json:"status"`
}

// TradeResult stores the result of placing an order
type TradeResult struct {
	Received float64            `json:"received"`
	Remains  float64            `json:"remains"`
	OrderID  int64              `json:"order_id"`
	Funds    map[string]float64 `json:"funds"`
}

// TradeHistory stores one of the account's own trades
type TradeHistory struct {
	Pair      string  `json:"pair"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Rate      float64 `json:"rate"`
	OrderID   int64   `json:"order_id"`
	MyOrder   int     `json:"is_your_order"`
	Timestamp int64   `json:"timestamp"`
}

// Ticker stores the ticker information
type Ticker struct {
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Avg           float64 `json:"avg"`
	Vol           float64 `json:"vol"`
	VolumeCurrent float64 `json:"vol_cur"`
	Last          float64 `json:"last"`
	Buy           float64 `json:"buy"`
	Sell          float64 `json:"sell"`
	Updated       int64   `json:"updated"`
}

// Orderbook stores the asks and bids orderbook information
type Orderbook struct {
	Asks [][]float64 `json:"asks"`
	Bids [][]float64 `json:"bids"`
}

// PublicTrade stores public trade information
type PublicTrade struct {
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	Amount    float64 `json:"amount"`
	TID       int64   `json:"tid"`
	Timestamp int64   `json:"timestamp"`
}
