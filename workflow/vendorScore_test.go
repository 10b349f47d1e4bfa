package workflow

import (
	"testing"

	"bitbucket.org/biomacls/procurement_backend/models"
	"github.com/shopspring/decimal"
)

func scoringVendor(terms string) *models.Vendor {
	return &models.Vendor{
		VendorId:         "V001",
		Rating:           4.0,
		DeliveryTimeDays: 5,
		PaymentTerms:     terms,
	}
}

func TestVendorScore_Bounds(t *testing.T) {
	costs := []int64{0, 1, 1000, 5000, 10000000}
	for _, cost := range costs {
		score := VendorScore(scoringVendor("15 days"), decimal.NewFromInt(cost))
		if score <= 0 || score > 1 {
			t.Fatalf("score %f for cost %d outside (0, 1]", score, cost)
		}
	}
}

func TestVendorScore_StrictlyDecreasingInCost(t *testing.T) {
	vendor := scoringVendor("15 days")
	prev := VendorScore(vendor, decimal.NewFromInt(100))
	for _, cost := range []int64{500, 1000, 5000, 50000} {
		score := VendorScore(vendor, decimal.NewFromInt(cost))
		if score >= prev {
			t.Fatalf("score did not decrease: cost %d scored %f, previous %f", cost, score, prev)
		}
		prev = score
	}
}

func TestVendorScore_PaymentTerms(t *testing.T) {
	cost := decimal.NewFromInt(5000)

	cod := VendorScore(scoringVendor("COD"), cost)
	net45 := VendorScore(scoringVendor("45 days"), cost)
	if cod <= net45 {
		t.Fatalf("COD should outscore 45 day terms: %f vs %f", cod, net45)
	}

	// Unparsable terms degrade to the fixed default sub-score, never an error.
	unparsable := VendorScore(scoringVendor("negotiable on request"), cost)
	net30 := VendorScore(scoringVendor("30 days"), cost)
	// 1/(30/30+1) = 0.5, identical to the default.
	if diff := unparsable - net30; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("default terms score should equal the 30 day score: %f vs %f", unparsable, net30)
	}
}

func TestVendorScore_WeightsSumToOne(t *testing.T) {
	// Perfect vendor on every axis approaches but never exceeds 1.
	vendor := &models.Vendor{Rating: 5.0, DeliveryTimeDays: 0, PaymentTerms: "COD"}
	score := VendorScore(vendor, decimal.Zero)
	if score != 1.0 {
		t.Fatalf("ideal vendor should score exactly 1, got %f", score)
	}
}
