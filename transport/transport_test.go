package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/inferenco/inferenco-mcp/protocol"
)

// counterHandler is a small stand-in for the dispatcher: "increment" bumps
// a counter, "echo" returns its params, "fail" and "boom" return errors, and
// anything without an id is swallowed.
type counterHandler struct {
	mu    sync.Mutex
	count int
	calls int
}

func (h *counterHandler) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()

	if req.JSONRPC != protocol.JSONRPCVersion {
		return nil, protocol.NewInvalidRequest("bad version")
	}
	if req.IsNotification() {
		return nil, nil
	}
	switch req.Method {
	case "increment":
		h.mu.Lock()
		h.count++
		n := h.count
		h.mu.Unlock()
		return protocol.NewResponse(req.ID, map[string]int{"value": n}), nil
	case "echo":
		return protocol.NewResponse(req.ID, json.RawMessage(req.Params)), nil
	case "meta":
		return protocol.NewResponse(req.ID, protocol.RequestMetaFromContext(ctx)), nil
	case "fail":
		return nil, protocol.NewInvalidParams("bad params")
	case "boom":
		return nil, errors.New("boom")
	case "silent":
		return nil, nil
	default:
		return nil, protocol.NewMethodNotFound("method not found: " + req.Method)
	}
}

func (h *counterHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *counterHandler) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// wireResponse is the decoded form of a response line.
type wireResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *protocol.Error `json:"error"`
}
