package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager-api/internal/domain/entity"
	"github.com/oksasatya/go-task-manager-api/pkg/response"
)

// Gin context keys populated by Auth.
const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
	CtxTokenKey  = "token"
)

// TokenValidator resolves a bearer token to the user it belongs to.
// Implemented by application.UserService.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*entity.User, error)
}

// Auth is the single authentication checkpoint. It extracts the bearer
// token from the Authorization header, validates it against the user's
// stored token set and attaches the resolved (user, token) pair to the
// context. Handlers behind it never do their own auth.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		u, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid or revoked token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserFromContext returns the authenticated user attached by Auth.
func UserFromContext(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}
