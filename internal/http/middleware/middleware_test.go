package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/logging"
)

type staticParser map[string]domain.RequestContext

func (p staticParser) ParseToken(raw string) (domain.RequestContext, error) {
	caller, ok := p[raw]
	if !ok {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "Invalid or expired token"}
	}
	return caller, nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Auth(staticParser{"good": {UserID: "u1", Role: "ROLE_USER"}}))
	r.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"caller":     Caller(c).UserID,
			"request_id": logging.RequestIDFromContext(c.Request.Context()),
		})
	})
	r.GET("/closed", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func serve(r *gin.Engine, path, auth string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDPropagates(t *testing.T) {
	r := newEngine()

	w := serve(r, "/open", "", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"caller":"","request_id":"abc-123"}`, w.Body.String())

	w = serve(r, "/open", "", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestAuth(t *testing.T) {
	r := newEngine()

	w := serve(r, "/open", "Bearer good", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"caller":"u1"`)

	w = serve(r, "/open", "Bearer bad", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"errors":[{"title":"Invalid or expired token","code":401}]}`, w.Body.String())

	w = serve(r, "/open", "Basic Zm9vOmJhcg==", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	r := newEngine()

	w := serve(r, "/closed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"errors":[{"title":"401 (Unauthorized)","code":401}]}`, w.Body.String())

	w = serve(r, "/closed", "Bearer good", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
