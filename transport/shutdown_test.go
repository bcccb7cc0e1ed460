package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDrainer(t *testing.T) {
	t.Run("drain with nothing in flight returns at once", func(t *testing.T) {
		d := NewDrainer()
		if err := d.Drain(context.Background()); err != nil {
			t.Fatalf("Drain() error = %v", err)
		}
		if !d.Draining() {
			t.Error("expected draining")
		}
		if d.Begin() {
			t.Error("Begin should fail while draining")
		}
	})

	t.Run("waits for in-flight requests", func(t *testing.T) {
		d := NewDrainer()
		if !d.Begin() {
			t.Fatal("Begin failed")
		}

		done := make(chan error, 1)
		go func() { done <- d.Drain(context.Background()) }()

		select {
		case <-done:
			t.Fatal("Drain returned with a request in flight")
		case <-time.After(50 * time.Millisecond):
		}

		d.End()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Drain() error = %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Drain did not return after End")
		}
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		d := NewDrainer()
		d.Begin()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if err := d.Drain(ctx); err != context.DeadlineExceeded {
			t.Errorf("Drain() error = %v, want deadline exceeded", err)
		}
		if d.InFlight() != 1 {
			t.Errorf("in flight = %d", d.InFlight())
		}
	})

	t.Run("second drain only waits", func(t *testing.T) {
		d := NewDrainer()
		_ = d.Drain(context.Background())
		if err := d.Drain(context.Background()); err != nil {
			t.Errorf("second Drain() error = %v", err)
		}
	})
}

func TestDrainer_Middleware(t *testing.T) {
	d := NewDrainer()
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d.InFlight() != 1 {
			t.Errorf("in flight inside handler = %d", d.InFlight())
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if d.InFlight() != 0 {
		t.Errorf("in flight after request = %d", d.InFlight())
	}

	_ = d.Drain(context.Background())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status while draining = %d, want 503", rec.Code)
	}
}

func TestHTTP_HealthWhileDraining(t *testing.T) {
	h := NewHTTP(":0")
	_ = h.drainer.Drain(context.Background())

	rec := httptest.NewRecorder()
	h.Handler(&counterHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
