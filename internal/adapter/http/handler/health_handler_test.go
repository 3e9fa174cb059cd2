package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"senepay/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	name string
	err  error
}

func (f *fakeChecker) Ping(ctx context.Context) error { return f.err }
func (f *fakeChecker) Name() string                   { return f.name }

func healthRouter(checkers ...ports.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", HealthCheck(checkers...))
	return r
}

func TestHealthCheck_AllHealthy(t *testing.T) {
	router := healthRouter(&fakeChecker{name: "postgresql"}, &fakeChecker{name: "redis"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])

	deps, ok := body["dependencies"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "healthy", deps["postgresql"])
	assert.Equal(t, "healthy", deps["redis"])
}

func TestHealthCheck_OneUnhealthy(t *testing.T) {
	router := healthRouter(
		&fakeChecker{name: "postgresql"},
		&fakeChecker{name: "redis", err: errors.New("connection refused")},
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])

	deps, ok := body["dependencies"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "healthy", deps["postgresql"])
	assert.Contains(t, deps["redis"], "unhealthy")
}

func TestHealthCheck_NoCheckers(t *testing.T) {
	router := healthRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
