package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cleanbook/pkg/client"
	"cleanbook/pkg/config"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/ping", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})
	router.POST("/api/echo", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusCreated)
	})
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{
		Log:               logger.Discard(),
		Client:            client.NewClient(),
		Port:              "0",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1 << 20,
	}
	a := NewApplication(cfg)
	a.SetApp(echoHandler{})
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a
}

func TestApplication_Routing(t *testing.T) {
	a := newTestApp(t)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		wantStatus  int
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK},
		{"readiness without store", http.MethodGet, "/ready", "", http.StatusServiceUnavailable},
		{"app route", http.MethodGet, "/api/ping", "", http.StatusOK},
		{"json post", http.MethodPost, "/api/echo", "application/json", http.StatusCreated},
		{"non-json post", http.MethodPost, "/api/echo", "text/plain", http.StatusUnsupportedMediaType},
		{"unknown route", http.MethodGet, "/api/missing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			a.Handler().ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if w.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("expected a request ID on every response")
			}
		})
	}
}
