package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/section3-pro/compliance-backend/config"
)

// SecurityHeadersMiddleware adds security-related HTTP headers to all
// responses. HSTS is only sent in production.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// Health and status responses must never be served stale by a proxy.
		c.Header("Cache-Control", "no-store")

		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
