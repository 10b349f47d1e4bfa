package models

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Catalog is the full tabular input for one procurement cycle: inventory,
// vendors and vendor-item offers, loaded wholesale before the cycle starts.
// It is an explicit value passed into the cycle; nothing in the process
// holds catalog state between cycles.
type Catalog struct {
	Items   []*InventoryItem
	Vendors []*Vendor

	itemsById    map[string]*InventoryItem
	vendorsById  map[string]*Vendor
	offersByItem map[string][]*VendorItemOffer
}

// LoadCatalog reads the three catalog CSV files. A missing or malformed file
// is a configuration error; the cycle must not start on partial data.
func LoadCatalog(inventoryPath, vendorsPath, offersPath string) (*Catalog, error) {
	c := &Catalog{
		itemsById:    make(map[string]*InventoryItem),
		vendorsById:  make(map[string]*Vendor),
		offersByItem: make(map[string][]*VendorItemOffer),
	}
	if err := c.loadInventory(inventoryPath); err != nil {
		return nil, err
	}
	if err := c.loadVendors(vendorsPath); err != nil {
		return nil, err
	}
	if err := c.loadOffers(offersPath); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadInventory(path string) error {
	rows, err := readCSVTable(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		unitCost, err := row.decimal("unit_cost")
		if err != nil {
			return err
		}
		item := &InventoryItem{
			ItemId:            row.field("item_id"),
			ItemName:          row.field("item_name"),
			Category:          row.field("category"),
			Unit:              row.field("unit"),
			UnitCost:          unitCost,
			PreferredVendorId: row.field("preferred_vendor_id"),
		}
		if item.CurrentStock, err = row.int("current_stock"); err != nil {
			return err
		}
		if item.MinThreshold, err = row.int("min_threshold"); err != nil {
			return err
		}
		if item.ReorderQuantity, err = row.int("reorder_quantity"); err != nil {
			return err
		}
		if item.ItemId == "" {
			return fmt.Errorf("%s line %d: empty item_id", path, row.line)
		}
		if item.ReorderQuantity <= 0 {
			return fmt.Errorf("%s line %d: reorder_quantity must be positive", path, row.line)
		}
		c.Items = append(c.Items, item)
		c.itemsById[item.ItemId] = item
	}
	return nil
}

func (c *Catalog) loadVendors(path string) error {
	rows, err := readCSVTable(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		minOrder, err := row.decimal("minimum_order_value")
		if err != nil {
			return err
		}
		vendor := &Vendor{
			VendorId:          row.field("vendor_id"),
			VendorName:        row.field("vendor_name"),
			ContactPerson:     row.field("contact_person"),
			PhoneNumber:       row.field("phone_number"),
			Email:             row.field("email"),
			PaymentTerms:      row.field("payment_terms"),
			MinimumOrderValue: minOrder,
			Status:            VendorStatus(row.field("status")),
		}
		if vendor.Rating, err = row.float("rating"); err != nil {
			return err
		}
		if vendor.DeliveryTimeDays, err = row.int("delivery_time_days"); err != nil {
			return err
		}
		if vendor.VendorId == "" {
			return fmt.Errorf("%s line %d: empty vendor_id", path, row.line)
		}
		if vendor.Status == "" {
			vendor.Status = VendorStatusActive
		}
		c.Vendors = append(c.Vendors, vendor)
		c.vendorsById[vendor.VendorId] = vendor
	}
	return nil
}

func (c *Catalog) loadOffers(path string) error {
	rows, err := readCSVTable(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		offer := &VendorItemOffer{
			VendorId:     row.field("vendor_id"),
			ItemId:       row.field("item_id"),
			Availability: AvailabilityStatus(row.field("availability_status")),
		}
		if offer.UnitPrice, err = row.decimal("unit_price"); err != nil {
			return err
		}
		if offer.MinimumOrderQty, err = row.int("minimum_order_qty"); err != nil {
			return err
		}
		if offer.BulkDiscountQty, err = row.int("bulk_discount_qty"); err != nil {
			return err
		}
		if offer.BulkDiscountPrice, err = row.decimal("bulk_discount_price"); err != nil {
			return err
		}
		if offer.Availability == "" {
			offer.Availability = AvailabilityInStock
		}
		c.offersByItem[offer.ItemId] = append(c.offersByItem[offer.ItemId], offer)
	}
	return nil
}

func (c *Catalog) ItemById(itemId string) *InventoryItem {
	return c.itemsById[itemId]
}

func (c *Catalog) VendorById(vendorId string) *Vendor {
	return c.vendorsById[vendorId]
}

func (c *Catalog) OffersForItem(itemId string) []*VendorItemOffer {
	return c.offersByItem[itemId]
}

// OfferFor returns the offer a vendor has for one item, or nil.
func (c *Catalog) OfferFor(vendorId, itemId string) *VendorItemOffer {
	for _, offer := range c.offersByItem[itemId] {
		if offer.VendorId == vendorId {
			return offer
		}
	}
	return nil
}

// ItemsNeedingReorder preserves catalog file order so downstream tie-breaks
// stay deterministic.
func (c *Catalog) ItemsNeedingReorder() []*InventoryItem {
	var needed []*InventoryItem
	for _, item := range c.Items {
		if item.NeedsReorder() {
			needed = append(needed, item)
		}
	}
	return needed
}

type CatalogStats struct {
	TotalItems          int
	TotalVendors        int
	TotalOffers         int
	ItemsNeedingReorder int
	AuthorizedVendors   int
}

func (c *Catalog) Stats(allowedNumber string) CatalogStats {
	stats := CatalogStats{
		TotalItems:          len(c.Items),
		TotalVendors:        len(c.Vendors),
		ItemsNeedingReorder: len(c.ItemsNeedingReorder()),
	}
	for _, offers := range c.offersByItem {
		stats.TotalOffers += len(offers)
	}
	for _, vendor := range c.Vendors {
		if vendor.IsAuthorizedForCalls(allowedNumber) {
			stats.AuthorizedVendors++
		}
	}
	return stats
}

// csvRow gives DictReader-style access to one CSV record.
type csvRow struct {
	path   string
	line   int
	index  map[string]int
	fields []string
}

func (r *csvRow) field(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r *csvRow) int(name string) (int, error) {
	raw := r.field(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: %w", r.path, r.line, name, err)
	}
	return n, nil
}

func (r *csvRow) float(name string) (float64, error) {
	raw := r.field(name)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: %w", r.path, r.line, name, err)
	}
	return f, nil
}

func (r *csvRow) decimal(name string) (decimal.Decimal, error) {
	raw := r.field(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s line %d: column %s: %w", r.path, r.line, name, err)
	}
	return d, nil
}

func readCSVTable(path string) ([]*csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("catalog file %s: missing header row", path)
	}

	index := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		index[name] = i
	}
	rows := make([]*csvRow, 0, len(all)-1)
	for i, fields := range all[1:] {
		rows = append(rows, &csvRow{path: path, line: i + 2, index: index, fields: fields})
	}
	return rows, nil
}
