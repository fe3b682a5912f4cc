// Package requestid tags every HTTP request with an identifier that follows
// it through logs and audit records.
package requestid

import (
	"context"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const Header = "X-Request-ID"

type ctxKey int

const ctxKeyRequestID ctxKey = iota

var ridRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,64}$`)

// Middleware reuses a well-formed incoming X-Request-ID or generates a new
// one, and exposes it on the request context and the response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(Header)
		if !ridRe.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(WithID(c.Request.Context(), rid))
		c.Set("request_id", rid)
		c.Header(Header, rid)
		c.Next()
	}
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// FromContext returns the request id stored by Middleware, or "".
func FromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}
