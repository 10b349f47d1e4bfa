package models

import "github.com/shopspring/decimal"

type InventoryItem struct {
	ItemId            string          `json:"item_id"`
	ItemName          string          `json:"item_name"`
	Category          string          `json:"category"`
	Unit              string          `json:"unit"`
	CurrentStock      int             `json:"current_stock"`
	MinThreshold      int             `json:"min_threshold"`
	ReorderQuantity   int             `json:"reorder_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	PreferredVendorId string          `json:"preferred_vendor_id"`
}

// An item is flagged for procurement at or below its minimum threshold.
func (i *InventoryItem) NeedsReorder() bool {
	return i.CurrentStock <= i.MinThreshold
}

func (i *InventoryItem) StockStatus() StockStatus {
	switch {
	case i.CurrentStock <= i.MinThreshold:
		return StockStatusLow
	case i.CurrentStock*2 <= i.MinThreshold*3: // within 1.5x of threshold
		return StockStatusMedium
	default:
		return StockStatusOK
	}
}
