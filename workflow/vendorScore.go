package workflow

import (
	"bitbucket.org/biomacls/procurement_backend/models"
	"github.com/shopspring/decimal"
)

// Scoring weights: price 40%, rating 30%, delivery speed 20%, payment terms 10%.
const (
	priceWeight    = 0.4
	ratingWeight   = 0.3
	deliveryWeight = 0.2
	termsWeight    = 0.1
)

// Sub-score used when payment terms cannot be parsed; a documented fallback,
// not an error.
const defaultTermsScore = 0.5

// VendorScore rates a vendor for an item set in (0, 1]. Each sub-score is
// normalized to (0, 1] and the result is their weighted sum, so the score is
// strictly decreasing in total cost with everything else fixed.
func VendorScore(vendor *models.Vendor, totalCost decimal.Decimal) float64 {
	cost, _ := totalCost.Float64()

	priceScore := 1 / (cost/1000 + 1)
	ratingScore := vendor.Rating / 5.0
	deliveryScore := 1 / (float64(vendor.DeliveryTimeDays)/10 + 1)

	termsScore := defaultTermsScore
	if days, ok := vendor.PaymentTermDays(); ok {
		termsScore = 1 / (float64(days)/30 + 1)
	}

	return priceWeight*priceScore +
		ratingWeight*ratingScore +
		deliveryWeight*deliveryScore +
		termsWeight*termsScore
}
