package workflow

import (
	"errors"
	"time"

	"bitbucket.org/biomacls/procurement_backend/config"
	"bitbucket.org/biomacls/procurement_backend/models"
	"bitbucket.org/biomacls/procurement_backend/telephony"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ItemRequirement pairs an item flagged for reorder with the quantity to
// procure.
type ItemRequirement struct {
	Item     *models.InventoryItem
	Offer    *models.VendorItemOffer
	Quantity int
}

// QuoteResult is what one solicitation over the live channel produced. Total
// is nil when the channel completed without a parsed price; the collector
// then prices the quote from the catalog.
type QuoteResult struct {
	CallSid string
	Total   *decimal.Decimal
}

// QuoteSource solicits one quote from one vendor. The live implementation
// rides on the call channel; tests use a deterministic stub.
type QuoteSource interface {
	SolicitQuote(vendor *models.Vendor, reqs []ItemRequirement) (*QuoteResult, error)
}

// CallQuoteSource requests quotes over the telephony channel. Speech
// recognition of the spoken reply is out of scope, so a successful call
// yields a call sid and no parsed total; the collector prices the quote from
// the vendor's effective catalog prices.
type CallQuoteSource struct {
	Caller      telephony.Caller
	CompanyName string
}

func (s *CallQuoteSource) SolicitQuote(vendor *models.Vendor, reqs []ItemRequirement) (*QuoteResult, error) {
	itemNames := make([]string, 0, len(reqs))
	for _, req := range reqs {
		itemNames = append(itemNames, req.Item.ItemName)
	}
	sid, err := s.Caller.PlaceCall(vendor.PhoneNumber, telephony.QuoteRequestMessage(s.CompanyName, itemNames))
	if err != nil {
		return nil, err
	}
	return &QuoteResult{CallSid: sid}, nil
}

// UnavailableQuoteSource stands in when the call channel is not configured;
// every solicitation fails so collection degrades to fallback pricing.
type UnavailableQuoteSource struct{}

func (UnavailableQuoteSource) SolicitQuote(*models.Vendor, []ItemRequirement) (*QuoteResult, error) {
	return nil, telephony.ErrNotConfigured
}

// QuoteCollector runs phase one: one solicitation per eligible vendor, with
// a fixed pause between successive calls. Every called vendor ends the phase
// with exactly one quote, confirmed or fallback-estimated.
type QuoteCollector struct {
	cfg    *config.AppConfig
	logger *logrus.Logger
	source QuoteSource
}

func NewQuoteCollector(cfg *config.AppConfig, logger *logrus.Logger, source QuoteSource) *QuoteCollector {
	return &QuoteCollector{cfg: cfg, logger: logger, source: source}
}

// Collect solicits quotes for the given items from every vendor that is
// active, authorized and able to supply at least one of them. Skipped
// vendors produce no quote and no error.
func (qc *QuoteCollector) Collect(catalog *models.Catalog, items []*models.InventoryItem) []*models.VendorQuote {
	quotes := make([]*models.VendorQuote, 0, len(catalog.Vendors))
	throttled := false

	for _, vendor := range catalog.Vendors {
		if !vendor.IsActive() {
			qc.logger.WithFields(logrus.Fields{"vendor": vendor.VendorId}).Debug("skipping inactive vendor")
			continue
		}
		if !vendor.IsAuthorizedForCalls(qc.cfg.AllowedPhoneNumber) {
			qc.logger.WithFields(logrus.Fields{"vendor": vendor.VendorId}).Warn("skipping unauthorized vendor")
			continue
		}
		reqs := supplyableRequirements(catalog, vendor, items)
		if len(reqs) == 0 {
			continue
		}

		if throttled {
			// Fixed inter-call throttle; the allow-listed number is a
			// serially accessed resource.
			time.Sleep(qc.cfg.CallDelay)
		}
		throttled = true

		quote := qc.solicitVendor(vendor, reqs)
		if quote != nil {
			quotes = append(quotes, quote)
		}
	}
	return quotes
}

// solicitVendor returns exactly one quote for a called vendor, or nil when
// the call channel reports the vendor blocked.
func (qc *QuoteCollector) solicitVendor(vendor *models.Vendor, reqs []ItemRequirement) *models.VendorQuote {
	var callSid string
	var total decimal.Decimal
	confirmed := true

	if qc.cfg.Granularity == config.GranularityPerItem {
		for i, req := range reqs {
			if i > 0 {
				time.Sleep(qc.cfg.CallDelay)
			}
			result, err := qc.source.SolicitQuote(vendor, []ItemRequirement{req})
			if errors.Is(err, telephony.ErrCallBlocked) {
				return nil
			}
			if err != nil {
				config.LogError(qc.logger, "quoteCollector.go", "solicitVendor", "SolicitQuote per-item", vendor.VendorId, err)
				confirmed = false
				continue
			}
			if callSid == "" {
				callSid = result.CallSid
			}
			if result.Total != nil {
				total = total.Add(*result.Total)
			} else {
				total = total.Add(effectiveTotal([]ItemRequirement{req}))
			}
		}
	} else {
		result, err := qc.source.SolicitQuote(vendor, reqs)
		switch {
		case errors.Is(err, telephony.ErrCallBlocked):
			return nil
		case err != nil:
			config.LogError(qc.logger, "quoteCollector.go", "solicitVendor", "SolicitQuote batch", vendor.VendorId, err)
			confirmed = false
		case result.Total != nil:
			callSid, total = result.CallSid, *result.Total
		default:
			callSid, total = result.CallSid, effectiveTotal(reqs)
		}
	}

	quote := &models.VendorQuote{
		VendorId:   vendor.VendorId,
		VendorName: vendor.VendorName,
		ItemIds:    itemIds(reqs),
		QuotedAt:   time.Now().UTC(),
	}
	if confirmed {
		quote.CallSid = callSid
		quote.TotalCost = total
		quote.Provenance = models.QuoteProvenanceVoice
	} else {
		// Fallback quote: estimated from catalog list prices.
		quote.CallSid = callSid
		quote.TotalCost = listTotal(reqs)
		quote.Provenance = models.QuoteProvenanceFallback
	}

	qc.logger.WithFields(logrus.Fields{
		"vendor":     vendor.VendorId,
		"totalCost":  quote.TotalCost.String(),
		"provenance": quote.Provenance,
	}).Info("quote collected")
	return quote
}

// supplyableRequirements is the subset of requested items this vendor offers
// and has available; a vendor need not cover the whole item set.
func supplyableRequirements(catalog *models.Catalog, vendor *models.Vendor, items []*models.InventoryItem) []ItemRequirement {
	var reqs []ItemRequirement
	for _, item := range items {
		offer := catalog.OfferFor(vendor.VendorId, item.ItemId)
		if offer == nil || !offer.IsAvailable() {
			continue
		}
		quantity := item.ReorderQuantity
		if quantity < offer.MinimumOrderQty {
			quantity = offer.MinimumOrderQty
		}
		reqs = append(reqs, ItemRequirement{Item: item, Offer: offer, Quantity: quantity})
	}
	return reqs
}

func effectiveTotal(reqs []ItemRequirement) decimal.Decimal {
	total := decimal.Zero
	for _, req := range reqs {
		price := req.Offer.EffectivePrice(req.Quantity)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(req.Quantity))))
	}
	return total
}

func listTotal(reqs []ItemRequirement) decimal.Decimal {
	total := decimal.Zero
	for _, req := range reqs {
		total = total.Add(req.Offer.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))))
	}
	return total
}

func itemIds(reqs []ItemRequirement) []string {
	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.Item.ItemId)
	}
	return ids
}
