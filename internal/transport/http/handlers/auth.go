package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/transport/http/middleware"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/usecase"
)

// AuthHandler exposes login, logout, and the protected probe endpoint.
type AuthHandler struct {
	auth         *usecase.AuthService
	secureCookie bool
}

// NewAuthHandler constructs AuthHandler. secureCookie controls the Secure flag
// on issued cookies and should be true in production.
func NewAuthHandler(auth *usecase.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes binds authentication routes, applying optional middleware ahead of login.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, sessionGate gin.HandlerFunc, loginMiddlewares ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	chain = append(chain, h.login)
	r.POST("/login", chain...)

	r.POST("/logout", h.logout)
	r.GET("/protected", sessionGate, h.protected)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
		}, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setSessionCookie(c, result.Token, int(result.TTL.Seconds()))

	h.auth.PublishLoginSucceeded(c.Request.Context(), result.User.Email, c.ClientIP(), req.RememberMe)

	c.JSON(http.StatusOK, LoginResponse{
		Message:   "Login successful",
		FirstName: result.User.FirstName,
		LastName:  result.User.LastName,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "no token provided"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTokenInvalid, Status: http.StatusBadRequest, Message: "invalid token"},
			{Err: usecase.ErrTokenExpired, Status: http.StatusBadRequest, Message: "token expired"},
		}, http.StatusInternalServerError, "failed to process logout")
		return
	}

	h.setSessionCookie(c, "", -1)

	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) protected(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "identity missing from context"))
		return
	}

	c.JSON(http.StatusOK, ProtectedResponse{
		Message: "Request is valid and token verified",
		User:    IdentityEcho{Email: identity.Email},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
