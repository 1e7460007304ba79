package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
)

// InventoryHandler serves inventory rows proxied from the backing spreadsheet.
type InventoryHandler struct {
	source port.InventorySource
	logger *zap.Logger
}

// NewInventoryHandler constructs InventoryHandler. A nil source is tolerated
// and reported as unavailable, so the service can run without Sheets credentials.
func NewInventoryHandler(source port.InventorySource, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{source: source, logger: logger}
}

// Items returns the current inventory rows.
func (h *InventoryHandler) Items(c *gin.Context) {
	if h.source == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "inventory source not configured"))
		return
	}

	rng, err := h.source.FetchRows(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch inventory rows failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "error fetching data"))
		return
	}

	c.JSON(http.StatusOK, InventoryResponse{
		Range: rng.Range,
		Rows:  rng.Rows,
	})
}
