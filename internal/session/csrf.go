package session

import (
	"crypto/rand"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header name for CSRF token in AJAX requests.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFFieldName is the form field gorilla/csrf reads the token from.
const CSRFFieldName = "gorilla.csrf.Token"

const csrfContextKey = "csrf_token"

// CSRFKey returns the configured key, or 32 random bytes when none is set.
// A random key invalidates outstanding forms on every restart.
func CSRFKey(configured string) ([]byte, error) {
	if configured != "" {
		if len(configured) != 32 {
			return nil, fmt.Errorf("csrf key must be 32 bytes, got %d", len(configured))
		}
		return []byte(configured), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return key, nil
}

// CSRFMiddleware creates a Gin middleware for CSRF protection.
// JSON requests to /api/ are exempt: browsers cannot send them cross-site
// without a CORS preflight, and the API has no cookie-based state.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if isJSONAPIRequest(c) {
			c.Next()
			return
		}

		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(csrfContextKey, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		r := c.Request
		if !secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		handler.ServeHTTP(c.Writer, r)
		if !passed {
			c.Abort()
		}
	}
}

// csrfErrorHandler handles CSRF validation failures.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing","code":"csrf"}`))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form Expired</title></head>
<body style="font-family: system-ui; max-width: 400px; margin: 100px auto; text-align: center;">
<h1>Form Expired</h1>
<p>The form you submitted is no longer valid.</p>
<p><a href="/">Back to the catalog</a></p>
</body>
</html>`))
}

func isJSONAPIRequest(c *gin.Context) bool {
	if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return false
	}
	return strings.HasPrefix(c.ContentType(), "application/json")
}

// CSRFToken retrieves the CSRF token from the Gin context.
func CSRFToken(c *gin.Context) string {
	if token, exists := c.Get(csrfContextKey); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// CSRFField returns a hidden input carrying the CSRF token, or nothing when
// protection is disabled.
func CSRFField(c *gin.Context) template.HTML {
	token := CSRFToken(c)
	if token == "" {
		return ""
	}
	return template.HTML(`<input type="hidden" name="` + CSRFFieldName + `" value="` + template.HTMLEscapeString(token) + `">`)
}
