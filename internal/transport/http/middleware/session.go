package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/usecase"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// SessionValidator validates a raw session token and returns the identity it proves.
type SessionValidator interface {
	ValidateToken(ctx context.Context, raw string) (domain.Identity, error)
}

// RequireSession gates protected routes on the session cookie. A missing cookie
// is 401; a revoked, invalid, or expired token is 403. The downstream handler
// never runs on failure.
func RequireSession(auth SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "unauthorized: no token provided"))
			return
		}

		identity, err := auth.ValidateToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrNoToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "unauthorized: no token provided"))
			case errors.Is(err, usecase.ErrTokenRevoked):
				c.AbortWithStatusJSON(http.StatusForbidden,
					newErrorResponse(c, "forbidden: token has been invalidated"))
			case errors.Is(err, usecase.ErrTokenExpired), errors.Is(err, usecase.ErrTokenInvalid):
				c.AbortWithStatusJSON(http.StatusForbidden,
					newErrorResponse(c, "forbidden: invalid or expired token"))
			case errors.Is(err, usecase.ErrRevocationUnavailable):
				c.AbortWithStatusJSON(http.StatusServiceUnavailable,
					newErrorResponse(c, "session validation unavailable"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
			return
		}

		c.Set(IdentityKey, identity)

		c.Next()
	}
}
