package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		*seen = FromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestMiddleware_GeneratesID(t *testing.T) {
	var seen string
	r := newRouter(&seen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	rid := w.Header().Get(Header)
	require.NotEmpty(t, rid)
	assert.Equal(t, rid, seen)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
}

func TestMiddleware_KeepsValidIncomingID(t *testing.T) {
	var seen string
	r := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "abc-123.req_1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123.req_1", w.Header().Get(Header))
	assert.Equal(t, "abc-123.req_1", seen)
}

func TestMiddleware_ReplacesMalformedID(t *testing.T) {
	var seen string
	r := newRouter(&seen)

	for _, bad := range []string{"has spaces", "semi;colon", strings.Repeat("x", 65)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(Header, bad)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, bad, w.Header().Get(Header))
		assert.Equal(t, w.Header().Get(Header), seen)
	}
}

func TestFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", FromContext(req.Context()))
}
