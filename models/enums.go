package models

import "errors"

type CycleState string

const (
	CycleStateIdle              CycleState = "Idle"
	CycleStateCheckingInventory CycleState = "CheckingInventory"
	CycleStateCollectingQuotes  CycleState = "CollectingQuotes"
	CycleStateComparingQuotes   CycleState = "ComparingQuotes"
	CycleStatePlacingOrder      CycleState = "PlacingOrder"
	CycleStateRecording         CycleState = "Recording"
)

type CycleOutcome string

const (
	CycleOutcomeNoActionNeeded CycleOutcome = "NoActionNeeded"
	CycleOutcomeCompleted      CycleOutcome = "Completed"
	CycleOutcomeCallFailed     CycleOutcome = "CallFailed"
	CycleOutcomeEmailFailed    CycleOutcome = "EmailFailed"
	CycleOutcomeNoVendorFound  CycleOutcome = "NoVendorFound"
	CycleOutcomeQuotesOnly     CycleOutcome = "QuotesOnly"
)

type StockStatus string

const (
	StockStatusLow    StockStatus = "LOW"
	StockStatusMedium StockStatus = "MEDIUM"
	StockStatusOK     StockStatus = "OK"
)

type AvailabilityStatus string

const (
	AvailabilityInStock    AvailabilityStatus = "In Stock"
	AvailabilityLimited    AvailabilityStatus = "Limited"
	AvailabilityOutOfStock AvailabilityStatus = "Out of Stock"
)

// Provenance of a vendor quote: collected over the live call channel, or
// estimated from catalog list prices when the channel yields no data.
type QuoteProvenance string

const (
	QuoteProvenanceVoice    QuoteProvenance = "voice-collected"
	QuoteProvenanceFallback QuoteProvenance = "fallback-estimated"
)

type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "Active"
	VendorStatusInactive VendorStatus = "Inactive"
)

var ErrNoQuotes = errors.New("no quotes available for comparison")
