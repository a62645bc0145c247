package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/middleware"
)

func callbackRouter(t *testing.T, secret string) (*gin.Engine, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	require.NoError(t, err)
	reached := false
	router := gin.New()
	mw := middleware.NewCallbackSecretMiddleware(log, secret)
	router.POST("/api/n8n/callback", mw.RequireSecret(), func(c *gin.Context) {
		reached = true
		c.JSON(http.StatusOK, gin.H{"received": true})
	})
	return router, &reached
}

func TestCallbackSecretRejectsMismatch(t *testing.T) {
	router, reached := callbackRouter(t, "right-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/n8n/callback", nil)
	req.Header.Set(n8n.CallbackSecretHeader, "wrong-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached, "handler must not run on secret mismatch")
}

func TestCallbackSecretRejectsMissingHeader(t *testing.T) {
	router, reached := callbackRouter(t, "right-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/n8n/callback", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestCallbackSecretAcceptsMatch(t *testing.T) {
	router, reached := callbackRouter(t, "right-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/n8n/callback", nil)
	req.Header.Set(n8n.CallbackSecretHeader, "right-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestCallbackSecretEmptyConfigRejectsEverything(t *testing.T) {
	router, reached := callbackRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/n8n/callback", nil)
	req.Header.Set(n8n.CallbackSecretHeader, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}
