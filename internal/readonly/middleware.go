// Package readonly serves the catalog without allowing edits.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKey marks read-only mode in the Gin context for template rendering.
const ContextKey = "read_only"

const blockedMessage = "The catalog is read-only"

// Middleware blocks write operations in read-only mode.
// GET, HEAD and OPTIONS requests always pass.
type Middleware struct {
	enabled bool
}

// NewMiddleware creates a read-only mode middleware.
func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

// IsEnabled returns whether read-only mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKey, m.enabled)
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		m.respondBlocked(c)
	}
}

func (m *Middleware) respondBlocked(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": blockedMessage,
			"code":  "read_only",
		})
		return
	}

	c.String(http.StatusForbidden, blockedMessage)
	c.Abort()
}

// Enabled reports whether the request passed through an enabled middleware.
func Enabled(c *gin.Context) bool {
	return c.GetBool(ContextKey)
}
