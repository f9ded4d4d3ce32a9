package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_LocalMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthHandler("portfolio-backend", "1.0.0", nil).RegisterRoutes(r)

	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, w.Code, path)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "portfolio-backend", resp.Service)
		assert.Equal(t, "1.0.0", resp.Version)
		assert.Equal(t, "local", resp.Firestore)
		assert.Equal(t, "local", resp.Storage)
		assert.False(t, resp.Timestamp.IsZero())
	}
}

func TestFirebaseStatus_LocalMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHealthHandler("portfolio-backend", "1.0.0", nil)
	r.GET("/health/firebase", h.FirebaseStatus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/firebase", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ready":false,"error":null}`, w.Body.String())
}
