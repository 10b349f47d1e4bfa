package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorQuote is the result of one solicitation attempt. Exactly one quote
// exists per called vendor per cycle; it is immutable after creation and
// compared only by total cost.
type VendorQuote struct {
	VendorId   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	ItemIds    []string        `json:"item_ids"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	CallSid    string          `json:"call_sid,omitempty"`
	QuotedAt   time.Time       `json:"quoted_at"`
	Provenance QuoteProvenance `json:"provenance"`
}

func (q *VendorQuote) IsEstimated() bool {
	return q.Provenance == QuoteProvenanceFallback
}
