package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/transport/http/middleware"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: middleware.GetTraceID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// LoginResponse describes the response returned for a successful login. The
// token itself travels only in the httpOnly cookie, never in the body.
type LoginResponse struct {
	Message   string `json:"message"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// IdentityEcho is the payload returned by the protected probe endpoint.
type IdentityEcho struct {
	Email string `json:"email"`
}

// ProtectedResponse wraps the identity echo for the protected probe endpoint.
type ProtectedResponse struct {
	Message string       `json:"message"`
	User    IdentityEcho `json:"user"`
}

// CSRFTokenResponse delivers the anti-forgery token to the client.
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// InventoryResponse carries the proxied spreadsheet rows.
type InventoryResponse struct {
	Range string     `json:"range"`
	Rows  [][]string `json:"rows"`
}
