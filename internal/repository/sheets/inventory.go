package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/config"
)

// InventoryRepository proxies inventory rows from a Google Sheets range using a
// service account. Rows are passed through as-is; the sheet owns the schema.
type InventoryRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	readRange     string
}

// NewInventoryRepository builds a Sheets-backed inventory source from service
// account credentials.
func NewInventoryRepository(ctx context.Context, cfg config.SheetsSettings) (*InventoryRepository, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	if cfg.ReadRange == "" {
		return nil, fmt.Errorf("sheets: read range is required")
	}

	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: init service: %w", err)
	}

	return &InventoryRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.ReadRange,
	}, nil
}

// FetchRows retrieves the configured range from the spreadsheet.
func (r *InventoryRepository) FetchRows(ctx context.Context) (domain.InventoryRange, error) {
	resp, err := r.service.Spreadsheets.Values.
		Get(r.spreadsheetID, r.readRange).
		Context(ctx).
		Do()
	if err != nil {
		return domain.InventoryRange{}, fmt.Errorf("sheets: get values: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}

	return domain.InventoryRange{
		Range: resp.Range,
		Rows:  rows,
	}, nil
}

var _ port.InventorySource = (*InventoryRepository)(nil)
