package domain

// InventoryRange is a slice of inventory rows read from the backing spreadsheet.
// Rows pass through untouched; the front end owns interpretation of the cells.
type InventoryRange struct {
	Range string
	Rows  [][]string
}
