package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/security"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/transport/http/middleware"
)

const csrfSecretBytes = 32

// CSRFHandler issues anti-forgery tokens bound to the caller's cookie secret.
type CSRFHandler struct {
	secureCookie bool
}

// NewCSRFHandler constructs CSRFHandler.
func NewCSRFHandler(secureCookie bool) *CSRFHandler {
	return &CSRFHandler{secureCookie: secureCookie}
}

// Token returns a fresh CSRF token, minting the cookie secret first when the
// client does not hold one yet.
func (h *CSRFHandler) Token(c *gin.Context) {
	secret, err := c.Cookie(middleware.CSRFCookieName)
	if err != nil || secret == "" {
		secret, err = security.GenerateSecureToken(csrfSecretBytes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue csrf token"))
			return
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     middleware.CSRFCookieName,
			Value:    secret,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteStrictMode,
		})
	}

	token, err := security.MintCSRFToken(secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue csrf token"))
		return
	}

	c.JSON(http.StatusOK, CSRFTokenResponse{CSRFToken: token})
}
