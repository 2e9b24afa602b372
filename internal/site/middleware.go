package site

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeharbor/portfolio/internal/logging"
	"github.com/codeharbor/portfolio/internal/session"
)

const headerRequestID = "X-Request-Id"

// RequestIDMiddleware ensures every request has a stable request ID.
// The ID is read from X-Request-Id or generated, stored in the gin and
// standard contexts, echoed back and forwarded on upstream API calls.
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if strings.TrimSpace(rid) == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), rid))
		c.Writer.Header().Set(headerRequestID, rid)

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("request_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// SessionMiddleware carries the caller's own token on the request context.
// The token comes from an Authorization bearer header or, failing that, the
// auth_token cookie. Nothing is shared between callers.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := callerToken(c); token != "" {
			c.Request = c.Request.WithContext(session.WithToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

func callerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

func isAuthenticated(c *gin.Context) bool {
	return session.TokenFromContext(c.Request.Context()) != ""
}

// RequireSession rejects requests that carry no token of their own.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAuthenticated(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}
