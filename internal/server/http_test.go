package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"freightdesk/backend/internal/server/interceptors"
	"freightdesk/backend/internal/telemetry"
)

type routeFunc func(r gin.IRouter)

func (f routeFunc) RegisterRoutes(r gin.IRouter) { f(r) }

type chanEmitter chan *telemetry.Event

func (e chanEmitter) Emit(ctx context.Context, ev *telemetry.Event) error {
	e <- ev
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter_RequestIDAndTelemetry(t *testing.T) {
	events := make(chanEmitter, 2)
	var seen string
	router := NewRouter(false, events, routeFunc(func(r gin.IRouter) {
		r.GET("/v1/ping", func(c *gin.Context) {
			seen, _ = interceptors.GetRequestID(c.Request.Context())
			c.Status(http.StatusTeapot)
		})
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set(interceptors.RequestIDHeader, "req-9")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", w.Code)
	}
	if seen != "req-9" || w.Header().Get(interceptors.RequestIDHeader) != "req-9" {
		t.Errorf("request id = %q / header %q, want req-9", seen, w.Header().Get(interceptors.RequestIDHeader))
	}
	select {
	case ev := <-events:
		if ev.EventType != telemetry.EventHTTPRequest || ev.Outcome != "error" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no telemetry event")
	}
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	router := NewRouter(false, nil, routeFunc(func(r gin.IRouter) {
		r.GET("/boom", func(c *gin.Context) { panic("boom") })
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestNewRouter_SkipsNilRegistrar(t *testing.T) {
	router := NewRouter(false, nil, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
