package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inferenco/inferenco-mcp/middleware"
)

// sseEndpoint is the first event of every stream. It tells the client where
// to POST its messages.
type sseEndpoint struct {
	ClientID string      `json:"clientId"`
	Endpoint string      `json:"endpoint"`
	Server   ServiceInfo `json:"server"`
}

// handleSSE opens an event stream: one endpoint event, then a keepalive
// comment every keepAlive until the client leaves or the server shuts down.
func (h *HTTP) handleSSE(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	id := ulid.Make().String()
	data, err := json.Marshal(sseEndpoint{
		ClientID: id,
		Endpoint: "/rpc",
		Server:   h.info,
	})
	if err != nil {
		return
	}
	if _, err := fmt.Fprintf(w, "event: endpoint\ndata: %s\n\n", data); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.Warn("event stream unsupported", middleware.F("error", err.Error()))
		return
	}

	h.logger.Debug("event stream opened", middleware.F("client_id", id))
	defer h.logger.Debug("event stream closed", middleware.F("client_id", id))

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.closing:
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
