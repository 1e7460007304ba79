package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/security"
)

const (
	// CSRFCookieName is the cookie holding the per-session CSRF secret.
	CSRFCookieName = "csrf_secret"
	// CSRFHeaderName is the header clients must supply on mutating requests.
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRFGuard verifies the double-submit token on every mutating request. The
// header token must match the MAC derived from the cookie secret. Safe methods
// pass through. This gate is independent of the session gate; mutating routes
// behind authentication carry both.
func CSRFGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		secret, err := c.Cookie(CSRFCookieName)
		if err != nil || secret == "" {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "forbidden: missing csrf token"))
			return
		}

		token := c.GetHeader(CSRFHeaderName)
		if !security.VerifyCSRFToken(secret, token) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "forbidden: invalid csrf token"))
			return
		}

		c.Next()
	}
}
