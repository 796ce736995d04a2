package mock

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upbitdev/goupbit/common/crypto"
	"github.com/upbitdev/goupbit/encoding/json"
)

func postSigned(t *testing.T, s *Server, key, secret, body string) map[string]interface{} {
	t.Helper()
	sign, err := crypto.Sign([]byte(secret), []byte(body))
	require.NoError(t, err)
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, s.PrivateURL(), strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Key", key)
	req.Header.Set("Sign", sign)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestPrivateEndpoint(t *testing.T) {
	t.Parallel()
	s := NewServer("key", "secret")
	defer s.Close()

	out := postSigned(t, s, "key", "secret", "method=getInfo&nonce=10")
	assert.Equal(t, float64(1), out["success"])
	assert.Equal(t, int64(10), s.LastNonce())

	out = postSigned(t, s, "key", "secret", "method=getInfo&nonce=10")
	assert.Equal(t, float64(0), out["success"], "replayed nonce must be rejected")
	assert.Contains(t, out["error"], "you should send:11")

	out = postSigned(t, s, "key", "wrong", "method=getInfo&nonce=11")
	assert.Equal(t, "invalid sign", out["error"])

	out = postSigned(t, s, "other", "secret", "method=getInfo&nonce=12")
	assert.Equal(t, "invalid api key", out["error"])

	out = postSigned(t, s, "key", "secret", "method=withdraw&nonce=13")
	assert.Equal(t, "invalid method", out["error"])

	s.SetResponse("getInfo", `{"success":0,"error":"api disabled"}`)
	out = postSigned(t, s, "key", "secret", "method=getInfo&nonce=14")
	assert.Equal(t, "api disabled", out["error"])

	reqs := s.Requests()
	require.Len(t, reqs, 6)
	assert.Equal(t, "method=getInfo&nonce=10", reqs[0].Body)
	assert.Equal(t, PrivatePath, reqs[0].Path)
}

func TestPublicEndpoints(t *testing.T) {
	t.Parallel()
	s := NewServer("key", "secret")
	defer s.Close()

	for _, tc := range []struct {
		path, rawQuery, key string
	}{
		{TickerRoute + "btc_usd", "", "btc_usd"},
		{TickerRoute, "", "btc_usd"},
		{HistoryRoute + "ltc_btc", "limit=5&since=10", "ltc_btc"},
		{OrderbookRoute + "eth_usd", "limit=50", "eth_usd"},
	} {
		u := s.PublicURL() + tc.path
		if tc.rawQuery != "" {
			u += "?" + tc.rawQuery
		}
		resp, err := http.Get(u) //nolint:noctx // test helper
		require.NoError(t, err, tc.path)
		contents, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(contents, &out), tc.path)
		assert.Contains(t, out, tc.key, tc.path)
	}

	reqs := s.Requests()
	require.Len(t, reqs, 4)
	assert.Equal(t, PublicPath+HistoryRoute+"ltc_btc", reqs[2].Path)
	q, err := url.ParseQuery(reqs[2].RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "5", q.Get("limit"))

	s.SetResponse(TickerRoute, "")
	resp, err := http.Get(s.PublicURL() + TickerRoute + "btc_usd") //nolint:noctx // test helper
	require.NoError(t, err)
	contents, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Empty(t, contents)

	resp, err = http.Get(s.URL + "/unknown") //nolint:noctx // test helper
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
