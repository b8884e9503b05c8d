package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"secondhand-market/internal/app"
	"secondhand-market/internal/pkg/logger"
	"secondhand-market/internal/transport/http/response"
)

const ContextCallerKey = "caller"

type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (*app.Caller, error)
}

// ResolveCaller attaches the caller identity when the request carries a valid
// bearer token. Requests without one, or with a bad one, continue anonymously
// and the workflows decide whether that is allowed.
func ResolveCaller(resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if authHeader == "" || !strings.HasPrefix(authHeader, prefix) {
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		caller, err := resolver.ResolveCaller(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(ContextCallerKey, caller)
		case errors.Is(err, app.ErrUnauthenticated):
			logger.FromContext(c.Request.Context()).Debug("bearer token rejected")
		default:
			logger.FromContext(c.Request.Context()).Error("resolve caller failed", logger.Err(err))
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "an unexpected error occurred")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFromContext returns nil for anonymous requests.
func CallerFromContext(c *gin.Context) *app.Caller {
	v, ok := c.Get(ContextCallerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*app.Caller)
	return caller
}
