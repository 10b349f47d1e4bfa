package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

type Vendor struct {
	VendorId          string          `json:"vendor_id"`
	VendorName        string          `json:"vendor_name"`
	ContactPerson     string          `json:"contact_person"`
	PhoneNumber       string          `json:"phone_number"`
	Email             string          `json:"email"`
	Rating            float64         `json:"rating"`
	DeliveryTimeDays  int             `json:"delivery_time_days"`
	PaymentTerms      string          `json:"payment_terms"`
	MinimumOrderValue decimal.Decimal `json:"minimum_order_value"`
	Status            VendorStatus    `json:"status"`
}

func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}

// IsAuthorizedForCalls reports whether this vendor's phone number is the
// single allow-listed number. Both sides are normalized to E.164 so
// formatting differences in the CSV cannot widen the allow list.
func (v *Vendor) IsAuthorizedForCalls(allowedNumber string) bool {
	vendorE164, err := NormalizeE164(v.PhoneNumber)
	if err != nil {
		return false
	}
	allowedE164, err := NormalizeE164(allowedNumber)
	if err != nil {
		return false
	}
	return vendorE164 == allowedE164
}

// NormalizeE164 parses a phone number and returns its E.164 form. Numbers
// without a country prefix are rejected rather than guessed at; the allow
// list must not depend on a default region.
func NormalizeE164(raw string) (string, error) {
	parsed, err := libphonenumber.Parse(strings.TrimSpace(raw), "")
	if err != nil {
		return "", err
	}
	return libphonenumber.Format(parsed, libphonenumber.E164), nil
}

// PaymentTermDays parses free-text payment terms ("15 days", "Net 30",
// "COD") into a day count. The second return is false when the text is
// unparsable; scoring then falls back to a fixed default instead of failing.
func (v *Vendor) PaymentTermDays() (int, bool) {
	terms := strings.ToLower(strings.TrimSpace(v.PaymentTerms))
	if terms == "cod" || terms == "cash on delivery" {
		return 0, true
	}
	for _, field := range strings.Fields(terms) {
		if days, err := strconv.Atoi(field); err == nil && days >= 0 {
			return days, true
		}
	}
	return 0, false
}
