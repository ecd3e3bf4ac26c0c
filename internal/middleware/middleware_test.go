package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/metrics"
)

func okHandler(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func TestBearerToken(t *testing.T) {
	e := echo.New()
	for header, want := range map[string]string{
		"":              "",
		"abc":           "abc",
		"Bearer abc":    "abc",
		"bearer   abc ": "abc",
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, header)
		c := e.NewContext(req, httptest.NewRecorder())
		assert.Equal(t, want, BearerToken(c), header)
	}
}

func TestTokenBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: 10 * time.Minute,
		KeyStrategy: "ip_route", Prefix: "rl",
	}
	e := echo.New()
	e.POST("/api/v1/logon", okHandler, NewTokenBucket(cfg, rdb, nil))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/logon", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := do()
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusNoContent, do().Code)

	blocked := do()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
}

func TestTokenBucket_DebugLogsMaskToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	core, logs := observer.New(zapcore.DebugLevel)
	cfg := config.RateLimitConfig{
		Enabled: true, Debug: true, Capacity: 1, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: time.Minute,
		KeyStrategy: "user", Prefix: "rl",
	}
	e := echo.New()
	e.GET("/me", okHandler, NewTokenBucket(cfg, rdb, zap.New(core)))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer 1b4e28ba-2fa1-11d2")
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	for _, msg := range []string{"request allowed", "request blocked"} {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		fields := entries[0].ContextMap()
		assert.Equal(t, "1b4e***", fields["token"])
		assert.NotContains(t, fields["key"], "1b4e28ba")
	}
}

func TestTokenBucket_Disabled(t *testing.T) {
	e := echo.New()
	e.GET("/", okHandler, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTokenBucket_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	e := echo.New()
	e.GET("/", okHandler, NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1, Prefix: "rl"}, rdb, nil))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBuildRateKey_HidesToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer super-secret")
	c := e.NewContext(req, httptest.NewRecorder())

	key := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c)
	assert.NotContains(t, key, "super-secret")
	assert.Contains(t, key, "rl:user:")
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = RequestIDFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}, RequestID())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "given")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "given", seen)
}

func TestMetricsAndAccessLog(t *testing.T) {
	m, err := metrics.New()
	require.NoError(t, err)

	e := echo.New()
	e.Use(AccessLog(nil), Metrics(m))
	e.GET("/api/v1/password/:recoveryToken", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/password/abc", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/password/:recoveryToken", "418")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPInFlight))
}
