package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"trego/internal/config"
	"trego/internal/logger"
	"trego/internal/services"
	"trego/internal/testutil"
)

func newTestApp(t *testing.T) Dependencies {
	t.Helper()
	return Dependencies{
		Config: &config.Config{
			JWT:     config.JWTConfig{Secret: "test_jwt_secret", TTL: time.Hour},
			Payment: config.PaymentConfig{Timeout: time.Second},
		},
		DB:        testutil.NewDB(t),
		Publisher: services.NoopPublisher{},
		Settlement: services.SettlementFunc(func(context.Context, services.SettlementRequest) (services.SettlementResult, error) {
			return services.SettlementResult{Approved: true, Reference: "test"}, nil
		}),
		Log: logger.Nop(),
	}
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	app, _ := NewApp(newTestApp(t))

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"status":"healthy"`)
		assert.Contains(t, string(body), `"database":"connected"`)
	})

	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		for _, path := range []string{"/api/v1/products", "/api/v1/cart", "/api/v1/orders"} {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for %s without token", path)
		}
	})

	t.Run("RequestIDHeader", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})
}

func TestEnsureAdminThroughApp(t *testing.T) {
	app, authService := NewApp(newTestApp(t))
	require.NotNil(t, app)

	ctx := context.Background()
	require.NoError(t, authService.EnsureAdmin(ctx, "root", "root@example.com", "secret123"))
	// Second call is a no-op.
	require.NoError(t, authService.EnsureAdmin(ctx, "root", "root@example.com", "secret123"))

	token, err := authService.LoginUser(ctx, "root", "secret123")
	require.NoError(t, err)
	principal, err := authService.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", string(principal.Role))
}

func TestPanicIsRecoveredAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	deps := newTestApp(t)
	deps.Log = zap.New(core)
	app, _ := NewApp(deps)
	app.Get("/boom", func(*fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	entries := logs.FilterMessage("request").FilterField(zap.String("path", "/boom")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.EqualValues(t, http.StatusInternalServerError, entries[0].ContextMap()["status"])
}

func TestRunReturnsStartupErrors(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "oracle", DSN: "x"}}
	err := run(cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}
