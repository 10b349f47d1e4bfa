package workflow

import (
	"errors"
	"testing"

	"bitbucket.org/biomacls/procurement_backend/models"
	"github.com/shopspring/decimal"
)

type fakeCaller struct {
	sid   string
	err   error
	calls int
}

func (f *fakeCaller) PlaceCall(to, message string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.sid, nil
}

type fakeSender struct {
	err  error
	sent int
}

func (f *fakeSender) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	return nil
}

func newCycle(t *testing.T, catalog *models.Catalog, source QuoteSource, caller *fakeCaller, sender *fakeSender) (*ProcurementCycle, *models.Ledger, func(*models.Catalog) (*CycleSummary, error)) {
	t.Helper()
	cfg := testConfig(t)
	logger := testLogger()
	ledger := models.NewLedger(cfg.LedgerFile, cfg.ReportCSV)
	collector := NewQuoteCollector(cfg, logger, source)

	var placer *OrderPlacer
	if caller != nil && sender != nil {
		placer = NewOrderPlacer(cfg, logger, caller, sender)
	} else if caller != nil {
		placer = NewOrderPlacer(cfg, logger, caller, nil)
	} else if sender != nil {
		placer = NewOrderPlacer(cfg, logger, nil, sender)
	} else {
		placer = NewOrderPlacer(cfg, logger, nil, nil)
	}

	cycle := NewProcurementCycle(cfg, logger, collector, placer, ledger)
	return cycle, ledger, cycle.Run
}

// Scenario: item at stock 10 with threshold 20 is flagged; the single vendor
// offers Rs. 50/unit for a reorder of 100, so the order totals Rs. 5000.
func TestCycle_SingleVendorCompletes(t *testing.T) {
	catalog := writeCatalog(t,
		[]string{"ITM001,Nitrile Gloves,Consumables,box,10,20,100,50,V001"},
		[]string{"V001,Sharma Scientific,Rakesh,+918800000488,sales@sharma.example,4.5,5,15 days,0,Active"},
		[]string{"V001,ITM001,50,10,0,0,In Stock"})
	caller := &fakeCaller{sid: "CA123"}
	sender := &fakeSender{}
	cycle, ledger, run := newCycle(t, catalog, &stubSource{}, caller, sender)

	summary, err := run(catalog)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Outcome != models.CycleOutcomeCompleted {
		t.Fatalf("expected Completed, got %s", summary.Outcome)
	}
	if !summary.Record.TotalCost.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected total 5000, got %s", summary.Record.TotalCost)
	}
	if summary.Record.CallSid != "CA123" {
		t.Fatalf("expected confirmation call sid on the record, got %q", summary.Record.CallSid)
	}
	if !summary.Record.EmailSent || sender.sent != 1 {
		t.Fatal("confirmation email should have been sent once")
	}
	if cycle.State() != models.CycleStateIdle {
		t.Fatalf("cycle should return to idle, got %s", cycle.State())
	}

	records, err := ledger.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one ledger record, got %d", len(records))
	}
}

// Scenario: two vendors quote 5000 and 4000 for the same item set; the 4000
// vendor wins and the spread is 1000.
func TestCycle_CheapestQuoteWins(t *testing.T) {
	catalog := defaultCatalog(t)
	source := &stubSource{totals: map[string]decimal.Decimal{
		"V001": decimal.NewFromInt(5000),
		"V002": decimal.NewFromInt(4000),
	}}
	_, _, run := newCycle(t, catalog, source, &fakeCaller{sid: "CA456"}, &fakeSender{})

	summary, err := run(catalog)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Record.SelectedVendorId != "V002" {
		t.Fatalf("expected V002 to win, got %s", summary.Record.SelectedVendorId)
	}
	if !summary.Record.TotalCost.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("expected winning cost 4000, got %s", summary.Record.TotalCost)
	}
	if !summary.Savings.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected savings 1000, got %s", summary.Savings)
	}
}

// Scenario: every solicitation is blocked and no fallback exists; the cycle
// records NoVendorFound exactly once.
func TestCycle_NoQuotesRecordsNoVendorFound(t *testing.T) {
	catalog := writeCatalog(t,
		[]string{"ITM001,Nitrile Gloves,Consumables,box,10,20,100,50,V001"},
		[]string{"V001,Unauthorized,A,+919900112233,a@example.com,4.0,5,15 days,0,Active"},
		[]string{"V001,ITM001,50,10,0,0,In Stock"})
	_, ledger, run := newCycle(t, catalog, &stubSource{}, &fakeCaller{sid: "CA1"}, &fakeSender{})

	summary, err := run(catalog)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Outcome != models.CycleOutcomeNoVendorFound {
		t.Fatalf("expected NoVendorFound, got %s", summary.Outcome)
	}

	records, err := ledger.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	if records[0].Status != models.CycleOutcomeNoVendorFound {
		t.Fatalf("recorded status %s", records[0].Status)
	}
}

func TestCycle_NoActionNeededWritesNoRecord(t *testing.T) {
	catalog := writeCatalog(t,
		[]string{"ITM001,Nitrile Gloves,Consumables,box,100,20,100,50,V001"},
		[]string{"V001,Sharma Scientific,Rakesh,+918800000488,sales@sharma.example,4.5,5,15 days,0,Active"},
		[]string{"V001,ITM001,50,10,0,0,In Stock"})
	_, ledger, run := newCycle(t, catalog, &stubSource{}, &fakeCaller{}, &fakeSender{})

	summary, err := run(catalog)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Outcome != models.CycleOutcomeNoActionNeeded {
		t.Fatalf("expected NoActionNeeded, got %s", summary.Outcome)
	}
	if summary.Record != nil {
		t.Fatal("no record should exist when nothing needed reordering")
	}
	records, err := ledger.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("ledger should stay empty, got %d records", len(records))
	}
}

func TestCycle_AboveThresholdStopsAtQuotes(t *testing.T) {
	catalog := writeCatalog(t,
		[]string{"ITM001,Nitrile Gloves,Consumables,box,10,20,100,50,V001"},
		[]string{"V001,Sharma Scientific,Rakesh,+918800000488,sales@sharma.example,4.5,5,15 days,0,Active"},
		[]string{"V001,ITM001,50,10,0,0,In Stock"})
	caller := &fakeCaller{sid: "CA1"}
	cfg := testConfig(t)
	cfg.AutoApproveThreshold = decimal.NewFromInt(1000)
	logger := testLogger()
	ledger := models.NewLedger(cfg.LedgerFile, cfg.ReportCSV)
	cycle := NewProcurementCycle(cfg, logger,
		NewQuoteCollector(cfg, logger, &stubSource{}),
		NewOrderPlacer(cfg, logger, caller, &fakeSender{}),
		ledger)

	summary, err := cycle.Run(catalog)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Outcome != models.CycleOutcomeQuotesOnly {
		t.Fatalf("expected QuotesOnly, got %s", summary.Outcome)
	}
	if !summary.Record.ApprovalRequired {
		t.Fatal("record should be flagged for approval")
	}
	if caller.calls != 0 {
		t.Fatalf("no confirmation call may be placed above the threshold, got %d", caller.calls)
	}
}

func TestCycle_CallFailureWithoutEmailRecordsCallFailed(t *testing.T) {
	catalog := writeCatalog(t,
		[]string{"ITM001,Nitrile Gloves,Consumables,box,10,20,100,50,V001"},
		[]string{"V001,Sharma Scientific,Rakesh,+918800000488,sales@sharma.example,4.5,5,15 days,0,Active"},
		[]string{"V001,ITM001,50,10,0,0,In Stock"})
	caller := &fakeCaller{err: errors.New("provider unreachable")}
	_, _, run := newCycle(t, catalog, &stubSource{}, caller, nil)

	summary, err := run(catalog)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Outcome != models.CycleOutcomeCallFailed {
		t.Fatalf("expected CallFailed, got %s", summary.Outcome)
	}
}

func TestCycle_EmailFailureWithoutCallChannelRecordsEmailFailed(t *testing.T) {
	catalog := writeCatalog(t,
		[]string{"ITM001,Nitrile Gloves,Consumables,box,10,20,100,50,V001"},
		[]string{"V001,Sharma Scientific,Rakesh,+918800000488,sales@sharma.example,4.5,5,15 days,0,Active"},
		[]string{"V001,ITM001,50,10,0,0,In Stock"})
	sender := &fakeSender{err: errors.New("smtp rejected")}
	_, _, run := newCycle(t, catalog, &stubSource{}, nil, sender)

	summary, err := run(catalog)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Outcome != models.CycleOutcomeEmailFailed {
		t.Fatalf("expected EmailFailed, got %s", summary.Outcome)
	}
}
