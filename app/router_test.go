package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fairway-bot/app/modules/handicap"
	"github.com/Black-And-White-Club/fairway-bot/app/observability"
	"github.com/Black-And-White-Club/fairway-bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModule(t *testing.T) (*handicap.Module, *observability.Observability) {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{RateLimit: 100, RateBurst: 100, AllowedOrigins: []string{"https://fairway.example"}},
		JWT:  config.JWTConfig{Secret: "test-secret", Issuer: "fairway-bot"},
	}
	obs := observability.Init(config.ObservabilityConfig{LogLevel: "error"})
	module, err := handicap.NewHandicapModule(context.Background(), cfg, handicap.Dependencies{Observability: obs})
	require.NoError(t, err)
	return module, obs
}

func TestHTTPRouter_Health(t *testing.T) {
	module, obs := newTestModule(t)
	h := newHTTPRouter(module, nil, obs.Registry, time.Second)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHTTPRouter_Metrics(t *testing.T) {
	module, obs := newTestModule(t)
	h := newHTTPRouter(module, nil, obs.Registry, time.Second)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHTTPRouter_WriteRoutesRequireToken(t *testing.T) {
	module, obs := newTestModule(t)
	h := newHTTPRouter(module, nil, obs.Registry, time.Second)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rounds", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPRouter_CORSPreflight(t *testing.T) {
	module, obs := newTestModule(t)
	h := newHTTPRouter(module, nil, obs.Registry, time.Second)

	req := httptest.NewRequest(http.MethodOptions, "/api/rounds", nil)
	req.Header.Set("Origin", "https://fairway.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://fairway.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
