package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

// Drainer tracks in-flight requests so shutdown can wait for them. Once
// draining starts, new requests are refused with 503.
type Drainer struct {
	mu       sync.Mutex
	draining bool
	inFlight int
	idle     chan struct{}
}

// NewDrainer creates a drainer that accepts requests.
func NewDrainer() *Drainer {
	return &Drainer{idle: make(chan struct{})}
}

// Begin registers a request. It returns false once draining has started.
func (d *Drainer) Begin() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draining {
		return false
	}
	d.inFlight++
	return true
}

// End marks a request registered by Begin as finished.
func (d *Drainer) End() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight--
	if d.draining && d.inFlight == 0 {
		close(d.idle)
	}
}

// InFlight returns the number of registered requests.
func (d *Drainer) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}

// Draining reports whether Drain has been called.
func (d *Drainer) Draining() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draining
}

// Drain stops accepting requests and waits for in-flight ones to finish or
// for ctx to end. Calling it again only waits.
func (d *Drainer) Drain(ctx context.Context) error {
	d.mu.Lock()
	if !d.draining {
		d.draining = true
		if d.inFlight == 0 {
			close(d.idle)
		}
	}
	d.mu.Unlock()

	select {
	case <-d.idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Middleware refuses requests with 503 while draining.
func (d *Drainer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !d.Begin() {
			w.Header().Set("Connection", "close")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "server is shutting down"})
			return
		}
		defer d.End()
		next.ServeHTTP(w, r)
	})
}
