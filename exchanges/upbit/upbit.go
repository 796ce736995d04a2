package upbit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/upbitdev/goupbit/common"
	"github.com/upbitdev/goupbit/common/crypto"
	"github.com/upbitdev/goupbit/common/timedmutex"
	"github.com/upbitdev/goupbit/config"
	"github.com/upbitdev/goupbit/encoding/form"
	"github.com/upbitdev/goupbit/exchanges/nonce"
	"github.com/upbitdev/goupbit/exchanges/request"
	"github.com/upbitdev/goupbit/log"
)

const (
	publicTicker    = "/ticker/"
	publicHistory   = "/history/"
	publicOrderbook = "/orderbook/"

	privateAccountInfo  = "getInfo"
	privateTradeHistory = "getTradeHistory"
	privateOrderInfo    = "getOrder"
	privateOrders       = "getOrders"
	privateTrade        = "trade"
	privateCancelOrder  = "cancelOrder"
)

// Client is the overarching type across the upbit package. It is safe for
// concurrent use; nonce issuance is serialised.
type Client struct {
	Name          string
	Verbose       bool
	HTTPDebugging bool

	apiKey        string
	apiSecret     []byte
	authenticated bool
	publicURL     string
	privateURL    string
	nullPolicy    form.NullPolicy

	nonce     *nonce.Nonce
	nonceLock *timedmutex.TimedMutex
	public    *request.Requester
	private   *request.Requester
}

// New returns a client holding creds. An empty secret is rejected here so
// signing can never fail at call time.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if creds.Secret == "" {
		return nil, ErrCredentialsMissing
	}
	exch := config.GetDefaultConfig().Exchange
	exch.APIKey = creds.Key
	exch.APISecret = creds.Secret
	exch.StartNonce = creds.StartNonce
	for _, o := range opts {
		o(&exch)
	}
	// New always authenticates, skip the placeholder credential check
	exch.AuthenticatedAPISupport = false
	if err := exch.CheckExchangeConfig(); err != nil {
		return nil, err
	}
	return newClient(&exch, true)
}

// NewPublicClient returns a client limited to market data. Authenticated
// calls fail with ErrAuthenticationNotOn.
func NewPublicClient(opts ...Option) (*Client, error) {
	exch := config.GetDefaultConfig().Exchange
	for _, o := range opts {
		o(&exch)
	}
	exch.AuthenticatedAPISupport = false
	if err := exch.CheckExchangeConfig(); err != nil {
		return nil, err
	}
	return newClient(&exch, false)
}

// NewFromConfig returns a client built from exchange settings. Authenticated
// calls are only available when the config carries usable credentials.
func NewFromConfig(exch *config.ExchangeConfig) (*Client, error) {
	if exch == nil {
		return nil, errExchangeConfigNil
	}
	e := *exch
	if err := e.CheckExchangeConfig(); err != nil {
		return nil, err
	}
	return newClient(&e, e.AuthenticatedAPISupport)
}

func newClient(exch *config.ExchangeConfig, authenticated bool) (*Client, error) {
	c := &Client{
		Name:          exch.Name,
		Verbose:       exch.Verbose,
		HTTPDebugging: exch.HTTPDebugging,
		apiKey:        exch.APIKey,
		apiSecret:     []byte(exch.APISecret),
		authenticated: authenticated,
		publicURL:     exch.PublicURL,
		privateURL:    exch.PrivateURL,
		nonce:         nonce.New(exch.StartNonce),
	}
	// Held from nonce issue until the response arrives so nonces reach the
	// exchange in order. Expires with the private timeout.
	c.nonceLock = timedmutex.NewTimedMutex(exch.PrivateTimeout)
	if exch.OmitNullParameters {
		c.nullPolicy = form.OmitNull
	}
	if exch.InsecureSkipVerify {
		log.Warnf(log.ExchangeSys, config.WarningInsecureSkipVerify, c.Name)
	}

	var err error
	c.public, err = request.New(c.Name,
		common.NewHTTPClient(exch.PublicTimeout, exch.InsecureSkipVerify),
		request.WithUserAgent(exch.UserAgent))
	if err != nil {
		return nil, err
	}
	c.private, err = request.New(c.Name,
		common.NewHTTPClient(exch.PrivateTimeout, exch.InsecureSkipVerify),
		request.WithUserAgent(exch.UserAgent))
	if err != nil {
		return nil, err
	}
	if c.Verbose {
		log.Debugf(log.ExchangeSys, "%s public API %s, private API %s, authenticated API support: %s",
			c.Name, c.publicURL, c.privateURL, common.IsEnabled(c.authenticated))
	}
	return c, nil
}

// Nonce returns the last nonce handed out, or the seed if none has been.
// Callers persisting it across restarts pass it back as StartNonce.
func (c *Client) Nonce() int64 {
	return int64(c.nonce.Get())
}

// GetInfo returns account balances and API key rights
func (c *Client) GetInfo(ctx context.Context) (interface{}, error) {
	return c.SendAuthenticatedHTTPRequest(ctx, privateAccountInfo, nil)
}

// GetTradeHistory returns the account's own trades. A nil request uses the
// defaults.
func (c *Client) GetTradeHistory(ctx context.Context, r *TradeHistoryRequest) (interface{}, error) {
	if r == nil {
		r = &TradeHistoryRequest{}
	}
	pair := r.Pair
	if pair == "" {
		pair = DefaultPair
	}
	params := form.New(
		"pair", pair,
		"limit", limitOrDefault(r.Limit),
		"order", orderOrDefault(r.Order),
		"since", optionalInt(r.Since),
		"end", optionalInt(r.End),
	)
	return c.SendAuthenticatedHTTPRequest(ctx, privateTradeHistory, params)
}

// GetOrder returns the order info for a specific order ID
func (c *Client) GetOrder(ctx context.Context, orderID int64) (interface{}, error) {
	return c.SendAuthenticatedHTTPRequest(ctx, privateOrderInfo, form.New("order_id", orderID))
}

// GetOrders returns the account's orders filtered by r. A nil request uses
// the defaults.
func (c *Client) GetOrders(ctx context.Context, r *OrdersRequest) (interface{}, error) {
	if r == nil {
		r = &OrdersRequest{}
	}
	params := form.New(
		"pair", optionalString(r.Pair),
		"type", optionalString(string(r.Type)),
		"status", optionalString(string(r.Status)),
		"limit", limitOrDefault(r.Limit),
		"order", orderOrDefault(r.Order),
		"since", optionalInt(r.Since),
		"end", optionalInt(r.End),
	)
	return c.SendAuthenticatedHTTPRequest(ctx, privateOrders, params)
}

// Trade places an order. side must be Buy or Sell, anything else fails with
// a ValidationError without contacting the exchange.
func (c *Client) Trade(ctx context.Context, pair string, price, amount decimal.Decimal, side OrderSide) (interface{}, error) {
	if side != Buy && side != Sell {
		return nil, &ValidationError{
			Field:   "type",
			Value:   string(side),
			Allowed: []string{string(Buy), string(Sell)},
		}
	}
	params := form.New(
		"pair", pair,
		"price", price,
		"amount", amount,
		"type", string(side),
	)
	return c.SendAuthenticatedHTTPRequest(ctx, privateTrade, params)
}

// CancelOrder cancels an order for a specific order ID
func (c *Client) CancelOrder(ctx context.Context, orderID int64) (interface{}, error) {
	return c.SendAuthenticatedHTTPRequest(ctx, privateCancelOrder, form.New("order_id", orderID))
}

// GetTicker returns the ticker for pair, or for every pair when pair is empty
func (c *Client) GetTicker(ctx context.Context, pair string) (interface{}, error) {
	return c.SendHTTPRequest(ctx, publicTicker+url.PathEscape(pair), nil)
}

// GetAllTradeHistory returns recent public trades for pair. Zero limit or
// since are left out of the query.
func (c *Client) GetAllTradeHistory(ctx context.Context, pair string, limit, since int64) (interface{}, error) {
	return c.SendHTTPRequest(ctx, publicHistory+url.PathEscape(pair),
		form.New("limit", optionalInt(limit), "since", optionalInt(since)))
}

// GetOrderBook returns the order book for pair. A zero limit is left out of
// the query.
func (c *Client) GetOrderBook(ctx context.Context, pair string, limit int64) (interface{}, error) {
	return c.SendHTTPRequest(ctx, publicOrderbook+url.PathEscape(pair),
		form.New("limit", optionalInt(limit)))
}

// SendHTTPRequest sends an unauthenticated GET request to the public API
func (c *Client) SendHTTPRequest(ctx context.Context, path string, query *form.Values) (interface{}, error) {
	q, err := query.Encode(form.OmitNull)
	if err != nil {
		return nil, err
	}
	endpoint := c.publicURL + path
	if q != "" {
		endpoint += "?" + q
	}

	var result interface{}
	err = c.public.SendPayload(ctx, func() (*request.Item, error) {
		return &request.Item{
			Method:        http.MethodGet,
			Path:          endpoint,
			Result:        &result,
			Verbose:       c.Verbose,
			HTTPDebugging: c.HTTPDebugging,
			EmptyCheck:    request.IsNullResult,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SendAuthenticatedHTTPRequest signs and POSTs method with params to the
// private API. The body starts with method and nonce followed by params in
// their insertion order.
func (c *Client) SendAuthenticatedHTTPRequest(ctx context.Context, method string, params *form.Values) (interface{}, error) {
	if !c.authenticated {
		return nil, fmt.Errorf("%s %w", c.Name, ErrAuthenticationNotOn)
	}
	for _, reserved := range []string{"method", "nonce"} {
		if _, ok := params.Get(reserved); ok {
			return nil, fmt.Errorf("%w: %s", errReservedParameter, reserved)
		}
	}
	// Encoding the caller params up front means a bad value never burns a
	// nonce.
	if _, err := params.Encode(c.nullPolicy); err != nil {
		return nil, err
	}

	// A caller whose context ends while queued behind another request gives
	// up before a nonce is issued.
	unlock, err := c.nonceLock.LockContext(ctx)
	if err != nil {
		return nil, &request.TransportError{Name: c.Name, Method: http.MethodPost, Path: c.privateURL, Err: err}
	}
	defer unlock()

	n := c.nonce.GetInc()
	encoded, err := form.New("method", method, "nonce", int64(n)).Merge(params).Encode(c.nullPolicy)
	if err != nil {
		return nil, err
	}
	sign, err := crypto.Sign(c.apiSecret, []byte(encoded))
	if err != nil {
		return nil, err
	}

	if request.IsVerbose(ctx, c.Verbose) {
		log.Debugf(log.ExchangeSys, "%s sending POST request to %s calling method %s with params %s",
			c.Name, c.privateURL, method, encoded)
	}

	headers := map[string]string{
		"Key":          c.apiKey,
		"Sign":         sign,
		"Content-Type": "application/x-www-form-urlencoded",
	}

	var result interface{}
	err = c.private.SendPayload(ctx, func() (*request.Item, error) {
		return &request.Item{
			Method:        http.MethodPost,
			Path:          c.privateURL,
			Headers:       headers,
			Body:          strings.NewReader(encoded),
			Result:        &result,
			Verbose:       c.Verbose,
			HTTPDebugging: c.HTTPDebugging,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func limitOrDefault(limit int64) int64 {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func orderOrDefault(o SortOrder) string {
	if o == "" {
		return string(DefaultOrder)
	}
	return string(o)
}

// optionalString maps an empty string onto a nil parameter
func optionalString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// optionalInt maps a non-positive value onto a nil parameter
func optionalInt(i int64) interface{} {
	if i <= 0 {
		return nil
	}
	return i
}
