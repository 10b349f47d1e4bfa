package models

import "github.com/shopspring/decimal"

// VendorItemOffer is one (vendor, item) row of the price catalog.
type VendorItemOffer struct {
	VendorId          string             `json:"vendor_id"`
	ItemId            string             `json:"item_id"`
	UnitPrice         decimal.Decimal    `json:"unit_price"`
	MinimumOrderQty   int                `json:"minimum_order_qty"`
	BulkDiscountQty   int                `json:"bulk_discount_qty"`
	BulkDiscountPrice decimal.Decimal    `json:"bulk_discount_price"`
	Availability      AvailabilityStatus `json:"availability_status"`
}

// EffectivePrice is the unit price adjusted for the bulk discount tier:
// the discounted price applies once the ordered quantity reaches the tier
// threshold. A zero threshold means no tier exists.
func (o *VendorItemOffer) EffectivePrice(quantity int) decimal.Decimal {
	if o.BulkDiscountQty > 0 && quantity >= o.BulkDiscountQty {
		return o.BulkDiscountPrice
	}
	return o.UnitPrice
}

func (o *VendorItemOffer) IsAvailable() bool {
	return o.Availability != AvailabilityOutOfStock
}
