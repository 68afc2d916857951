package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/resource"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	ParseToken(raw string) (domain.RequestContext, error)
}

// Auth identifies the caller from an "Authorization: Bearer" header. Requests
// without a header continue anonymously; a bad token is rejected with 401.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			abort(c, http.StatusUnauthorized, "Invalid authorization header")
			return
		}
		caller, err := parser.ParseToken(strings.TrimSpace(token))
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("token rejected")
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(userIDKey, caller.UserID)
		c.Set(userRoleKey, caller.Role)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(userIDKey) == "" {
			abort(c, http.StatusUnauthorized, "")
			return
		}
		c.Next()
	}
}

// Caller returns the identity set by Auth.
func Caller(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{UserID: c.GetString(userIDKey), Role: c.GetString(userRoleKey)}
}

func abort(c *gin.Context, status int, msg string) {
	resp := resource.Error(status, msg)
	c.AbortWithStatusJSON(resp.Status, resp.Body)
}
