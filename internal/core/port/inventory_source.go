package port

import (
	"context"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
)

// InventorySource retrieves the current inventory rows from the upstream sheet.
type InventorySource interface {
	FetchRows(ctx context.Context) (domain.InventoryRange, error)
}
