// Package mock provides an in-process stand-in for the exchange HTTP API.
// It verifies request signatures and nonce ordering the way the live
// service does and records every request it receives.
package mock

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/upbitdev/goupbit/common/crypto"
	"github.com/upbitdev/goupbit/encoding/json"
)

// Endpoint paths served by the mock
const (
	PrivatePath    = "/tapi"
	PublicPath     = "/data/public/v1"
	TickerRoute    = "/ticker/"
	HistoryRoute   = "/history/"
	OrderbookRoute = "/orderbook/"
)

// Request is a recorded inbound request
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
	Header   http.Header
}

// Server is a mock exchange backed by httptest
type Server struct {
	*httptest.Server
	Key    string
	Secret string

	mu        sync.Mutex
	lastNonce int64
	requests  []Request
	responses map[string]string
}

// NewServer starts a mock exchange accepting the supplied credentials
func NewServer(key, secret string) *Server {
	s := &Server{
		Key:       key,
		Secret:    secret,
		responses: make(map[string]string),
	}
	r := mux.NewRouter()
	r.HandleFunc(PrivatePath, s.handlePrivate).Methods(http.MethodPost)
	pub := r.PathPrefix(PublicPath).Subrouter()
	pub.HandleFunc(TickerRoute, s.publicHandler(TickerRoute)).Methods(http.MethodGet)
	pub.HandleFunc(TickerRoute+"{pair}", s.publicHandler(TickerRoute)).Methods(http.MethodGet)
	pub.HandleFunc(HistoryRoute+"{pair}", s.publicHandler(HistoryRoute)).Methods(http.MethodGet)
	pub.HandleFunc(OrderbookRoute+"{pair}", s.publicHandler(OrderbookRoute)).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.record(req, "")
		w.WriteHeader(http.StatusNotFound)
	})
	s.Server = httptest.NewServer(r)
	return s
}

// PublicURL returns the base URL for unauthenticated requests
func (s *Server) PublicURL() string { return s.URL + PublicPath }

// PrivateURL returns the URL for authenticated requests
func (s *Server) PrivateURL() string { return s.URL + PrivatePath }

// SetResponse overrides the raw body returned for a private method name
// (e.g. "getInfo") or a public route (e.g. TickerRoute)
func (s *Server) SetResponse(route, body string) {
	s.mu.Lock()
	s.responses[route] = body
	s.mu.Unlock()
}

// Requests returns a copy of every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastNonce returns the highest accepted nonce
func (s *Server) LastNonce() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNonce
}

func (s *Server) record(req *http.Request, body string) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   req.Method,
		Path:     req.URL.Path,
		RawQuery: req.URL.RawQuery,
		Body:     body,
		Header:   req.Header.Clone(),
	})
	s.mu.Unlock()
}

func (s *Server) handlePrivate(w http.ResponseWriter, req *http.Request) {
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body := string(raw)
	s.record(req, body)

	if req.Header.Get("Key") != s.Key {
		writeError(w, "invalid api key")
		return
	}
	expected, err := crypto.Sign([]byte(s.Secret), raw)
	if err != nil || req.Header.Get("Sign") != expected {
		writeError(w, "invalid sign")
		return
	}
	params, err := url.ParseQuery(body)
	if err != nil {
		writeError(w, "invalid parameters")
		return
	}
	n, err := strconv.ParseInt(params.Get("nonce"), 10, 64)
	if err != nil {
		writeError(w, "invalid nonce parameter")
		return
	}

	s.mu.Lock()
	if n <= s.lastNonce {
		last := s.lastNonce
		s.mu.Unlock()
		writeError(w, "invalid nonce parameter; on key:"+s.Key+", you sent:'"+strconv.FormatInt(n, 10)+
			"', you should send:"+strconv.FormatInt(last+1, 10))
		return
	}
	s.lastNonce = n
	override, ok := s.responses[params.Get("method")]
	s.mu.Unlock()

	if ok {
		writeRaw(w, override)
		return
	}
	ret, ok := privateResponses[params.Get("method")]
	if !ok {
		writeError(w, "invalid method")
		return
	}
	writeJSON(w, map[string]interface{}{"success": 1, "return": ret})
}

func (s *Server) publicHandler(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.record(req, "")

		s.mu.Lock()
		override, ok := s.responses[route]
		s.mu.Unlock()
		if ok {
			writeRaw(w, override)
			return
		}

		pairs := strings.Split(mux.Vars(req)["pair"], "-")
		result := make(map[string]interface{}, len(pairs))
		for _, pair := range pairs {
			if pair == "" {
				pair = "btc_usd"
			}
			switch route {
			case HistoryRoute:
				result[pair] = publicTrades
			case OrderbookRoute:
				result[pair] = publicOrderbook
			default:
				result[pair] = publicTicker
			}
		}
		writeJSON(w, result)
	}
}

func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, map[string]interface{}{"success": 0, "error": msg})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, string(payload))
}

func writeRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}
