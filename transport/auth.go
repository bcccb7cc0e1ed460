package transport

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/inferenco/inferenco-mcp/middleware"
	"github.com/inferenco/inferenco-mcp/protocol"
)

// DefaultAuthHeader carries the API key when no header is configured.
const DefaultAuthHeader = "x-api-key"

// APIKeyAuth rejects HTTP requests that do not carry one of a fixed set of
// keys in a header. It runs before any JSON-RPC decoding, so a rejected
// request never reaches the dispatcher.
type APIKeyAuth struct {
	header string
	keys   [][]byte
	logger middleware.Logger
}

// NewAPIKeyAuth creates the guard. Empty keys are ignored.
func NewAPIKeyAuth(header string, keys []string, logger middleware.Logger) *APIKeyAuth {
	if header == "" {
		header = DefaultAuthHeader
	}
	if logger == nil {
		logger = middleware.NopLogger{}
	}
	a := &APIKeyAuth{header: header, logger: logger}
	for _, k := range keys {
		if k != "" {
			a.keys = append(a.keys, []byte(k))
		}
	}
	return a
}

// Header returns the header name the guard reads.
func (a *APIKeyAuth) Header() string {
	return a.header
}

// Authenticate reports which key matched, as "key-<n>" counting from 1. Every
// key is compared in constant time.
func (a *APIKeyAuth) Authenticate(r *http.Request) (string, bool) {
	got := []byte(r.Header.Get(a.header))
	if len(got) == 0 {
		return "", false
	}
	match := 0
	for i, k := range a.keys {
		if subtle.ConstantTimeCompare(got, k) == 1 && match == 0 {
			match = i + 1
		}
	}
	if match == 0 {
		return "", false
	}
	return "key-" + strconv.Itoa(match), true
}

// Middleware wraps next with the key check. Accepted requests carry the
// matching key's id as the client_id request metadata.
func (a *APIKeyAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.Authenticate(r)
		if !ok {
			a.logger.Warn("unauthorized request",
				middleware.F("path", r.URL.Path),
				middleware.F("remote_addr", r.RemoteAddr),
				middleware.F("header_present", r.Header.Get(a.header) != ""),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		ctx := protocol.SetRequestMeta(r.Context(), protocol.MetaClientID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
