package upbit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upbitdev/goupbit/common/crypto"
	"github.com/upbitdev/goupbit/config"
	"github.com/upbitdev/goupbit/encoding/form"
	"github.com/upbitdev/goupbit/exchanges/mock"
	"github.com/upbitdev/goupbit/exchanges/request"
)

const (
	testKey    = "test-key"
	testSecret = "test-secret"
	testSeed   = 100
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *mock.Server) {
	t.Helper()
	s := mock.NewServer(testKey, testSecret)
	t.Cleanup(s.Close)
	opts = append([]Option{WithPublicURL(s.PublicURL()), WithPrivateURL(s.PrivateURL())}, opts...)
	c, err := New(Credentials{Key: testKey, Secret: testSecret, StartNonce: testSeed}, opts...)
	require.NoError(t, err)
	return c, s
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(Credentials{Key: testKey})
	require.ErrorIs(t, err, ErrCredentialsMissing)

	_, err = New(Credentials{Key: testKey, Secret: testSecret, StartNonce: -1})
	require.Error(t, err)

	_, err = New(Credentials{Key: testKey, Secret: testSecret}, WithPrivateURL("ftp://example.com"))
	require.Error(t, err)

	c, err := New(Credentials{Key: testKey, Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultExchangeName, c.Name)
	assert.Equal(t, config.DefaultPublicURL, c.publicURL)
	assert.Equal(t, config.DefaultPrivateURL, c.privateURL)
	assert.Equal(t, config.DefaultPublicTimeout, c.public.HTTPClient.Timeout)
	assert.Equal(t, config.DefaultPrivateTimeout, c.private.HTTPClient.Timeout)
	assert.True(t, c.authenticated)
	assert.InDelta(t, time.Now().Unix(), c.Nonce(), 5, "zero start nonce must seed from the clock")
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	_, err := NewFromConfig(nil)
	require.ErrorIs(t, err, errExchangeConfigNil)

	exch := config.GetDefaultConfig().Exchange
	c, err := NewFromConfig(&exch)
	require.NoError(t, err)
	assert.False(t, c.authenticated, "missing credentials must disable authenticated calls")
	_, err = c.GetInfo(t.Context())
	require.ErrorIs(t, err, ErrAuthenticationNotOn)

	exch.APIKey = testKey
	exch.APISecret = testSecret
	exch.OmitNullParameters = true
	c, err = NewFromConfig(&exch)
	require.NoError(t, err)
	assert.True(t, c.authenticated)
	assert.Equal(t, form.OmitNull, c.nullPolicy)
}

func TestNewPublicClient(t *testing.T) {
	t.Parallel()
	s := mock.NewServer(testKey, testSecret)
	defer s.Close()
	c, err := NewPublicClient(WithPublicURL(s.PublicURL()), WithPrivateURL(s.PrivateURL()))
	require.NoError(t, err)

	_, err = c.GetTicker(t.Context(), "btc_usd")
	require.NoError(t, err)
	_, err = c.CancelOrder(t.Context(), 1)
	require.ErrorIs(t, err, ErrAuthenticationNotOn)
	assert.Len(t, s.Requests(), 1, "unauthenticated client must not reach the private endpoint")
}

func TestGetInfo(t *testing.T) {
	t.Parallel()
	c, s := newTestClient(t, WithUserAgent("tester/2"))
	result, err := c.GetInfo(t.Context())
	require.NoError(t, err)
	require.NoError(t, RemoteError(result))

	var info AccountInfo
	require.NoError(t, Return(result, &info))
	assert.Equal(t, 325.0, info.Funds["usd"])
	assert.Equal(t, 1, info.Rights.Trade)
	assert.Equal(t, int64(1342123547), info.ServerTime)

	reqs := s.Requests()
	require.Len(t, reqs, 1)
	r := reqs[0]
	assert.Equal(t, http.MethodPost, r.Method)
	assert.Equal(t, mock.PrivatePath, r.Path)
	assert.Equal(t, "method=getInfo&nonce=101", r.Body, "first nonce must be seed+1")
	sign, err := crypto.Sign([]byte(testSecret), []byte(r.Body))
	require.NoError(t, err)
	assert.Equal(t, sign, r.Header.Get("Sign"))
	assert.Equal(t, testKey, r.Header.Get("Key"))
	assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
	assert.Equal(t, "tester/2", r.Header.Get("User-Agent"))
	assert.Equal(t, int64(101), c.Nonce())
}

func TestPrivateRequestBodies(t *testing.T) {
	t.Parallel()
	price := decimal.RequireFromString("101.5")
	amount := decimal.RequireFromString("0.25")
	for _, tc := range []struct {
		name string
		opts []Option
		call func(*Client) (interface{}, error)
		body string
	}{
		{
			name: "trade history defaults",
			call: func(c *Client) (interface{}, error) { return c.GetTradeHistory(t.Context(), nil) },
			body: "method=getTradeHistory&nonce=101&pair=btc_usd&limit=1000&order=DESC&since=&end=",
		},
		{
			name: "trade history explicit",
			call: func(c *Client) (interface{}, error) {
				return c.GetTradeHistory(t.Context(), &TradeHistoryRequest{
					Pair: "ltc_btc", Limit: 5, Order: Ascending, Since: 1342000000, End: 1343000000,
				})
			},
			body: "method=getTradeHistory&nonce=101&pair=ltc_btc&limit=5&order=ASC&since=1342000000&end=1343000000",
		},
		{
			name: "orders defaults",
			call: func(c *Client) (interface{}, error) { return c.GetOrders(t.Context(), nil) },
			body: "method=getOrders&nonce=101&pair=&type=&status=&limit=1000&order=DESC&since=&end=",
		},
		{
			name: "orders omitting null parameters",
			opts: []Option{WithOmitNullParameters(true)},
			call: func(c *Client) (interface{}, error) {
				return c.GetOrders(t.Context(), &OrdersRequest{Type: Sell, Status: Open})
			},
			body: "method=getOrders&nonce=101&type=sell&status=open&limit=1000&order=DESC",
		},
		{
			name: "order",
			call: func(c *Client) (interface{}, error) { return c.GetOrder(t.Context(), 343152) },
			body: "method=getOrder&nonce=101&order_id=343152",
		},
		{
			name: "trade",
			call: func(c *Client) (interface{}, error) { return c.Trade(t.Context(), "btc_usd", price, amount, Buy) },
			body: "method=trade&nonce=101&pair=btc_usd&price=101.5&amount=0.25&type=buy",
		},
		{
			name: "cancel order",
			call: func(c *Client) (interface{}, error) { return c.CancelOrder(t.Context(), 343154) },
			body: "method=cancelOrder&nonce=101&order_id=343154",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, s := newTestClient(t, tc.opts...)
			result, err := tc.call(c)
			require.NoError(t, err)
			require.NoError(t, RemoteError(result), "mock must accept the signature and nonce")
			reqs := s.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tc.body, reqs[0].Body)
		})
	}
}

func TestTradeValidation(t *testing.T) {
	t.Parallel()
	c, s := newTestClient(t)
	_, err := c.Trade(t.Context(), "btc_usd", decimal.NewFromInt(1), decimal.NewFromInt(1), OrderSide("hold"))
	require.ErrorIs(t, err, ErrValidation)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "type", validation.Field)
	assert.Equal(t, "hold", validation.Value)
	assert.Equal(t, []string{"buy", "sell"}, validation.Allowed)
	assert.Empty(t, s.Requests(), "validation must happen before any network activity")
	assert.Equal(t, int64(testSeed), c.Nonce(), "validation failure must not consume a nonce")

	var trade TradeResult
	result, err := c.Trade(t.Context(), "btc_usd", decimal.NewFromInt(1), decimal.NewFromInt(1), Sell)
	require.NoError(t, err)
	require.NoError(t, Return(result, &trade))
	assert.Equal(t, 0.1, trade.Received)
}

func TestReservedAndUnsupportedParameters(t *testing.T) {
	t.Parallel()
	c, s := newTestClient(t)
	_, err := c.SendAuthenticatedHTTPRequest(t.Context(), "getInfo", form.New("nonce", 5))
	require.ErrorIs(t, err, errReservedParameter)
	_, err = c.SendAuthenticatedHTTPRequest(t.Context(), "getInfo", form.New("bad", struct{}{}))
	require.Error(t, err)
	assert.Empty(t, s.Requests())
	assert.Equal(t, int64(testSeed), c.Nonce())
}

func TestBusinessErrorIsData(t *testing.T) {
	t.Parallel()
	c, s := newTestClient(t)
	s.SetResponse("getInfo", `{"success":0,"error":"invalid nonce"}`)
	result, err := c.GetInfo(t.Context())
	require.NoError(t, err, "exchange reported failures are returned as data")
	m, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "invalid nonce", m["error"])

	apiErr := RemoteError(result)
	require.Error(t, apiErr)
	var e *APIError
	require.ErrorAs(t, apiErr, &e)
	assert.Equal(t, "invalid nonce", e.Message)
	require.ErrorAs(t, Return(result, &AccountInfo{}), &e)
}

func TestInvalidResponses(t *testing.T) {
	t.Parallel()
	for _, body := range []string{"", "null", "false", "0", `""`, "[]", "{}", "<html>down</html>"} {
		t.Run("private "+body, func(t *testing.T) {
			t.Parallel()
			c, s := newTestClient(t)
			s.SetResponse("getInfo", body)
			_, err := c.GetInfo(t.Context())
			require.ErrorIs(t, err, request.ErrInvalidResponse)
			var invalid *request.InvalidResponseError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, body, invalid.Body)
		})
	}
	for _, body := range []string{"", "null", "false", `""`, "<html>down</html>"} {
		t.Run("public "+body, func(t *testing.T) {
			t.Parallel()
			c, s := newTestClient(t)
			s.SetResponse(mock.TickerRoute, body)
			_, err := c.GetTicker(t.Context(), "btc_usd")
			require.ErrorIs(t, err, request.ErrInvalidResponse)
		})
	}
}

func TestPublicEmptyCollections(t *testing.T) {
	t.Parallel()
	for body, want := range map[string]interface{}{
		"[]": []interface{}{},
		"{}": map[string]interface{}{},
		"0":  float64(0),
	} {
		t.Run(body, func(t *testing.T) {
			t.Parallel()
			c, s := newTestClient(t)
			s.SetResponse(mock.HistoryRoute, body)
			result, err := c.GetAllTradeHistory(t.Context(), "btc_usd", 0, 0)
			require.NoError(t, err, "an empty public result is data")
			assert.Equal(t, want, result)
		})
	}
}

func TestTransportErrors(t *testing.T) {
	t.Parallel()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := "http://" + l.Addr().String()
	require.NoError(t, l.Close())

	c, err := New(Credentials{Key: testKey, Secret: testSecret}, WithPublicURL(addr), WithPrivateURL(addr))
	require.NoError(t, err)
	_, err = c.GetInfo(t.Context())
	require.ErrorIs(t, err, request.ErrTransport)
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	_, err = c.GetOrderBook(t.Context(), "btc_usd", 0)
	require.ErrorIs(t, err, request.ErrTransport)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":1}`))
	}))
	defer slow.Close()
	c, err = New(Credentials{Key: testKey, Secret: testSecret},
		WithPrivateURL(slow.URL), WithTimeouts(time.Second, 50*time.Millisecond))
	require.NoError(t, err)
	_, err = c.GetInfo(t.Context())
	require.ErrorIs(t, err, request.ErrTransport)
	var transport *request.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, http.MethodPost, transport.Method)
}

func TestQueuedCallerDeadline(t *testing.T) {
	t.Parallel()
	inFlight := make(chan struct{})
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(inFlight)
		<-release
		_, _ = w.Write([]byte(`{"success":1}`))
	}))
	defer slow.Close()

	c, err := New(Credentials{Key: testKey, Secret: testSecret, StartNonce: testSeed}, WithPrivateURL(slow.URL))
	require.NoError(t, err)

	first := make(chan error, 1)
	go func() {
		_, err := c.GetInfo(context.Background())
		first <- err
	}()
	<-inFlight

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = c.GetInfo(ctx)
	require.ErrorIs(t, err, request.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "a queued caller must stop at its deadline")
	assert.Equal(t, int64(testSeed+1), c.Nonce(), "a caller that never sends must not consume a nonce")

	close(release)
	require.NoError(t, <-first)
}

func TestPublicPaths(t *testing.T) {
	t.Parallel()
	c, s := newTestClient(t)

	result, err := c.GetTicker(t.Context(), "")
	require.NoError(t, err)
	var all map[string]Ticker
	require.NoError(t, Decode(result, &all))
	assert.Equal(t, 101.773, all["btc_usd"].Last)

	result, err = c.GetTicker(t.Context(), "btc_usd-ltc_usd")
	require.NoError(t, err)
	var tickers map[string]Ticker
	require.NoError(t, Decode(result, &tickers))
	assert.Len(t, tickers, 2)

	result, err = c.GetOrderBook(t.Context(), "btc_usd", 50)
	require.NoError(t, err)
	var books map[string]Orderbook
	require.NoError(t, Decode(result, &books))
	require.Len(t, books["btc_usd"].Asks, 2)
	assert.Equal(t, 103.426, books["btc_usd"].Asks[0][0])

	_, err = c.GetAllTradeHistory(t.Context(), "btc_usd", 0, 0)
	require.NoError(t, err)
	result, err = c.GetAllTradeHistory(t.Context(), "btc_usd", 10, 1370000000)
	require.NoError(t, err)
	var trades map[string][]PublicTrade
	require.NoError(t, Decode(result, &trades))
	require.Len(t, trades["btc_usd"], 2)
	assert.Equal(t, int64(4861261), trades["btc_usd"][0].TID)

	reqs := s.Requests()
	require.Len(t, reqs, 5)
	for _, r := range reqs {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Sign"), "public requests must not be signed")
	}
	assert.Equal(t, mock.PublicPath+"/ticker/", reqs[0].Path)
	assert.Empty(t, reqs[0].RawQuery)
	assert.Equal(t, mock.PublicPath+"/ticker/btc_usd-ltc_usd", reqs[1].Path)
	assert.Equal(t, mock.PublicPath+"/orderbook/btc_usd", reqs[2].Path)
	assert.Equal(t, "limit=50", reqs[2].RawQuery)
	assert.Equal(t, mock.PublicPath+"/history/btc_usd", reqs[3].Path)
	assert.Empty(t, reqs[3].RawQuery)
	assert.Equal(t, "limit=10&since=1370000000", reqs[4].RawQuery)
	assert.Equal(t, int64(testSeed), c.Nonce(), "public calls must not consume nonces")
}

func TestConcurrentNonces(t *testing.T) {
	t.Parallel()
	c, s := newTestClient(t)
	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := c.GetInfo(t.Context())
			if err == nil {
				err = RemoteError(result)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err, "every nonce must arrive strictly increasing")
	}
	assert.Equal(t, int64(testSeed+workers), s.LastNonce())
	assert.Equal(t, int64(testSeed+workers), c.Nonce())
}

func TestInsecureSkipVerify(t *testing.T) {
	t.Parallel()
	s := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"btc_usd":{"last":1}}`))
	}))
	defer s.Close()

	c, err := NewPublicClient(WithPublicURL(s.URL))
	require.NoError(t, err)
	_, err = c.GetTicker(t.Context(), "btc_usd")
	require.ErrorIs(t, err, request.ErrTransport, "certificate verification must be on by default")

	c, err = NewPublicClient(WithPublicURL(s.URL), WithInsecureSkipVerify(true))
	require.NoError(t, err)
	_, err = c.GetTicker(t.Context(), "btc_usd")
	require.NoError(t, err)
}

func TestRemoteError(t *testing.T) {
	t.Parallel()
	assert.NoError(t, RemoteError(nil))
	assert.NoError(t, RemoteError([]interface{}{1}))
	assert.NoError(t, RemoteError(map[string]interface{}{"btc_usd": 1}))
	assert.NoError(t, RemoteError(map[string]interface{}{"success": float64(1)}))
	err := RemoteError(map[string]interface{}{"success": float64(0)})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unknown error", apiErr.Message)
	assert.ErrorIs(t, Decode(nil, nil), errDecodeTargetNil)
}
