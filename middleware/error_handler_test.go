package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/section3-pro/compliance-backend/errors"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func serveWithError(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware(), ErrorHandler())
	r.POST("/test", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	r.ServeHTTP(w, req)

	var body ErrorResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		errType        gin.ErrorType
		expectedStatus int
		expectedType   string
		expectedMsg    string
		expectDetails  bool
	}{
		{
			name:           "validation error keeps details",
			err:            apperrors.ValidationFailed("unsupported action", "action must be check-prerequisites"),
			errType:        gin.ErrorTypePrivate,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "VALIDATION_ERROR",
			expectedMsg:    "unsupported action",
			expectDetails:  true,
		},
		{
			name:           "not found error",
			err:            apperrors.NotFound("Component", "payments"),
			errType:        gin.ErrorTypePrivate,
			expectedStatus: http.StatusNotFound,
			expectedType:   "NOT_FOUND",
			expectDetails:  true,
		},
		{
			name:           "dependency error hides details",
			err:            apperrors.DependencyUnavailable("redis", errors.New("dial tcp: refused")),
			errType:        gin.ErrorTypePrivate,
			expectedStatus: http.StatusServiceUnavailable,
			expectedType:   "DEPENDENCY_ERROR",
		},
		{
			name:           "wrapped app error",
			err:            errors.Join(errors.New("context"), apperrors.NewDatabaseError(errors.New("conn reset"))),
			errType:        gin.ErrorTypePrivate,
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "DATABASE_ERROR",
		},
		{
			name:           "bind error",
			err:            errors.New("EOF"),
			errType:        gin.ErrorTypeBind,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "VALIDATION_ERROR",
			expectedMsg:    "Failed to bind request",
		},
		{
			name:           "unknown error",
			err:            errors.New("boom"),
			errType:        gin.ErrorTypePrivate,
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "SERVER_ERROR",
			expectedMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serveWithError(t, func(c *gin.Context) {
				_ = c.Error(tt.err).SetType(tt.errType)
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedType, body.Type)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, body.Message)
			}
			if tt.expectDetails {
				assert.NotEmpty(t, body.Details)
			} else {
				assert.Empty(t, body.Details)
			}
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestErrorHandler_ResponseAlreadyWritten(t *testing.T) {
	w, body := serveWithError(t, func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"overallStatus": "unhealthy"})
		_ = c.Error(errors.New("late error"))
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, body.Type)
}

func TestErrorHandler_NoErrors(t *testing.T) {
	w, _ := serveWithError(t, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecovery_RendersServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), RequestIDMiddleware(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("nil map write")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SERVER_ERROR", body.Type)
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.Equal(t, "500", body.Code)
	assert.Empty(t, body.Details)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
