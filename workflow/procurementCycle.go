package workflow

import (
	"time"

	"bitbucket.org/biomacls/procurement_backend/config"
	"bitbucket.org/biomacls/procurement_backend/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CycleSummary is what one run of the procurement cycle produced. Record is
// nil only for the NoActionNeeded outcome, which terminates before the
// recording state.
type CycleSummary struct {
	Outcome models.CycleOutcome
	Record  *models.ProcurementRecord
	Quotes  []*models.VendorQuote
	Savings decimal.Decimal
}

// ProcurementCycle drives one pass of the decision workflow:
// Idle -> CheckingInventory -> CollectingQuotes -> ComparingQuotes ->
// PlacingOrder -> Recording -> Idle. Execution is single-threaded and
// non-reentrant; no two cycles share a ledger.
type ProcurementCycle struct {
	cfg       *config.AppConfig
	logger    *logrus.Logger
	collector *QuoteCollector
	placer    *OrderPlacer
	ledger    *models.Ledger
	state     models.CycleState
}

func NewProcurementCycle(cfg *config.AppConfig, logger *logrus.Logger, collector *QuoteCollector, placer *OrderPlacer, ledger *models.Ledger) *ProcurementCycle {
	return &ProcurementCycle{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		placer:    placer,
		ledger:    ledger,
		state:     models.CycleStateIdle,
	}
}

func (pc *ProcurementCycle) State() models.CycleState {
	return pc.state
}

func (pc *ProcurementCycle) transition(next models.CycleState) {
	pc.logger.WithFields(logrus.Fields{
		"from": pc.state,
		"to":   next,
	}).Debug("cycle state transition")
	pc.state = next
}

// Run executes one procurement cycle against a freshly loaded catalog.
// Every terminal path except NoActionNeeded appends exactly one record
// before the cycle returns to idle.
func (pc *ProcurementCycle) Run(catalog *models.Catalog) (*CycleSummary, error) {
	defer pc.transition(models.CycleStateIdle)

	pc.transition(models.CycleStateCheckingInventory)
	items := catalog.ItemsNeedingReorder()
	if len(items) == 0 {
		pc.logger.Info("all stock levels adequate, no procurement needed")
		return &CycleSummary{Outcome: models.CycleOutcomeNoActionNeeded}, nil
	}
	for _, item := range items {
		pc.logger.WithFields(logrus.Fields{
			"item":      item.ItemId,
			"stock":     item.CurrentStock,
			"threshold": item.MinThreshold,
		}).Info("item flagged for reorder")
	}

	pc.transition(models.CycleStateCollectingQuotes)
	quotes := pc.collector.Collect(catalog, items)

	if len(quotes) == 0 {
		// Every vendor was skipped or blocked; nothing to compare.
		pc.logger.Warn("no quotes collected, recording NoVendorFound")
		return pc.record(models.ProcurementRecord{
			ItemsRequired: itemNames(items),
			Status:        models.CycleOutcomeNoVendorFound,
			TotalCost:     decimal.Zero,
		}, nil, decimal.Zero)
	}

	pc.transition(models.CycleStateComparingQuotes)
	selection, err := SelectQuote(quotes)
	if err != nil {
		// Unreachable with a non-empty list; kept as a guard so a selector
		// regression records the cycle instead of dropping it.
		return pc.record(models.ProcurementRecord{
			ItemsRequired: itemNames(items),
			Status:        models.CycleOutcomeNoVendorFound,
			TotalCost:     decimal.Zero,
		}, quotes, decimal.Zero)
	}
	winner := selection.Winner
	vendor := catalog.VendorById(winner.VendorId)
	pc.logger.WithFields(logrus.Fields{
		"vendor":    winner.VendorId,
		"totalCost": winner.TotalCost.String(),
		"savings":   selection.Savings.String(),
		"score":     VendorScore(vendor, winner.TotalCost),
	}).Info("winning quote selected")

	if winner.TotalCost.GreaterThan(pc.cfg.AutoApproveThreshold) {
		pc.logger.WithFields(logrus.Fields{
			"totalCost": winner.TotalCost.String(),
			"threshold": pc.cfg.AutoApproveThreshold.String(),
		}).Warn("order exceeds auto-approve threshold, stopping at quotes")
		return pc.record(models.ProcurementRecord{
			ItemsRequired:      quotedItemNames(catalog, winner),
			SelectedVendorId:   winner.VendorId,
			SelectedVendorName: winner.VendorName,
			TotalCost:          winner.TotalCost,
			TotalItems:         totalQuantity(catalog, winner),
			Status:             models.CycleOutcomeQuotesOnly,
			CallSid:            winner.CallSid,
			ApprovalRequired:   true,
		}, quotes, selection.Savings)
	}

	pc.transition(models.CycleStatePlacingOrder)
	names := quotedItemNames(catalog, winner)
	result := pc.placer.PlaceOrder(vendor, names, winner.TotalCost)

	return pc.record(models.ProcurementRecord{
		ItemsRequired:      names,
		SelectedVendorId:   winner.VendorId,
		SelectedVendorName: winner.VendorName,
		TotalCost:          winner.TotalCost,
		TotalItems:         totalQuantity(catalog, winner),
		Status:             result.Outcome(),
		CallSid:            result.CallSid,
		EmailSent:          result.EmailSent,
		OrderNumber:        models.OrderNumberFor(winner.VendorId, time.Now()),
	}, quotes, selection.Savings)
}

// record finalizes the cycle: stamp the entry, append it to the ledger and
// report the summary. Ledger append failures surface to the operator but the
// outcome is still returned so the caller can see what happened.
func (pc *ProcurementCycle) record(entry models.ProcurementRecord, quotes []*models.VendorQuote, savings decimal.Decimal) (*CycleSummary, error) {
	pc.transition(models.CycleStateRecording)
	entry.RecordId = uuid.NewString()
	entry.Timestamp = time.Now().UTC().Truncate(time.Second)

	err := pc.ledger.Append(entry)
	if err != nil {
		config.LogError(pc.logger, "procurementCycle.go", "record", "ledger append", entry.RecordId, err)
	}
	return &CycleSummary{
		Outcome: entry.Status,
		Record:  &entry,
		Quotes:  quotes,
		Savings: savings,
	}, err
}

func itemNames(items []*models.InventoryItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.ItemName)
	}
	return names
}

func quotedItemNames(catalog *models.Catalog, quote *models.VendorQuote) []string {
	names := make([]string, 0, len(quote.ItemIds))
	for _, id := range quote.ItemIds {
		if item := catalog.ItemById(id); item != nil {
			names = append(names, item.ItemName)
		}
	}
	return names
}

func totalQuantity(catalog *models.Catalog, quote *models.VendorQuote) int {
	total := 0
	for _, id := range quote.ItemIds {
		if item := catalog.ItemById(id); item != nil {
			total += item.ReorderQuantity
		}
	}
	return total
}
