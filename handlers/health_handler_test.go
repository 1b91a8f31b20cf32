package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/section3-pro/compliance-backend/errors"
	"github.com/section3-pro/compliance-backend/internal/probe"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/middleware"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
}

func setupHealthRouter(svc *MockHealthService) *gin.Engine {
	h := NewHealthHandler(svc)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/health", h.DetailedHealth)
	r.GET("/health/liveness", h.LivenessCheck)
	r.GET("/health/readiness", h.ReadinessCheck)
	r.GET("/health/database", h.DatabaseHealth)
	r.GET("/health/ai", h.AIHealth)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler_DetailedHealth(t *testing.T) {
	tests := []struct {
		status   types.HealthStatus
		expected int
	}{
		{types.HealthStatusHealthy, http.StatusOK},
		{types.HealthStatusDegraded, http.StatusOK},
		{types.HealthStatusUnhealthy, http.StatusServiceUnavailable},
		{types.HealthStatusError, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		for _, path := range []string{"/health", "/health/readiness"} {
			t.Run(string(tt.status)+" "+path, func(t *testing.T) {
				svc := new(MockHealthService)
				svc.On("CheckHealth", mock.Anything).Return(types.AggregateHealth{
					OverallStatus: tt.status,
					Services: map[string]types.ProbeResult{
						"database": {Component: "database", Status: types.ProbeStatusHealthy},
					},
				})

				w := get(setupHealthRouter(svc), path)
				assert.Equal(t, tt.expected, w.Code)

				var body types.AggregateHealth
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.status, body.OverallStatus)
				assert.Contains(t, body.Services, "database")
				svc.AssertExpectations(t)
			})
		}
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	svc := new(MockHealthService)
	w := get(setupHealthRouter(svc), "/health/liveness")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertNotCalled(t, "CheckHealth", mock.Anything)
}

func TestHealthHandler_DatabaseHealth(t *testing.T) {
	tests := []struct {
		status   types.ProbeStatus
		expected int
	}{
		{types.ProbeStatusHealthy, http.StatusOK},
		{types.ProbeStatusDegraded, http.StatusOK},
		{types.ProbeStatusDemoMode, http.StatusOK},
		{types.ProbeStatusUnhealthy, http.StatusInternalServerError},
		{types.ProbeStatusError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			svc := new(MockHealthService)
			svc.On("CheckComponent", mock.Anything, probe.KindDatabase).
				Return(types.ProbeResult{Component: "database", Status: tt.status}, nil)

			w := get(setupHealthRouter(svc), "/health/database")
			assert.Equal(t, tt.expected, w.Code)

			var body types.ComponentHealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Empty(t, body.Warning)
		})
	}
}

func TestHealthHandler_AIHealth(t *testing.T) {
	t.Run("missing key adds warning", func(t *testing.T) {
		svc := new(MockHealthService)
		svc.On("CheckComponent", mock.Anything, probe.KindAI).
			Return(types.ProbeResult{Component: "ai", Status: types.ProbeStatusNotConfigured}, nil)

		w := get(setupHealthRouter(svc), "/health/ai")
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "not_configured", body["status"])
		assert.Equal(t, probe.AIMissingKeyMessage, body["warning"])
	})

	t.Run("unhealthy provider still answers 200", func(t *testing.T) {
		svc := new(MockHealthService)
		svc.On("CheckComponent", mock.Anything, probe.KindAI).
			Return(types.ProbeResult{Component: "ai", Status: types.ProbeStatusUnhealthy, Error: "status 401"}, nil)

		w := get(setupHealthRouter(svc), "/health/ai")
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body["status"])
		assert.NotContains(t, body, "warning")
	})

	t.Run("unregistered probe", func(t *testing.T) {
		svc := new(MockHealthService)
		svc.On("CheckComponent", mock.Anything, probe.KindAI).
			Return(types.ProbeResult{}, apperrors.NotFound("Component", "ai"))

		w := get(setupHealthRouter(svc), "/health/ai")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
