package logger

import (
	"github.com/gin-gonic/gin"
)

// LogHTTPError logs an error raised while serving a request together with the
// request metadata the error handler has available.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	log := GetLogger()

	fields := []interface{}{
		"error", err,
		"status_code", statusCode,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	switch {
	case statusCode >= 500:
		log.Errorw(message, fields...)
	case statusCode >= 400:
		log.Warnw(message, fields...)
	default:
		log.Infow(message, fields...)
	}
}
