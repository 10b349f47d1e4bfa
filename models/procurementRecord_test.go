package models

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	dir := t.TempDir()
	return NewLedger(
		filepath.Join(dir, "procurement_data.json"),
		filepath.Join(dir, "procurement_report.csv"),
	)
}

func sampleRecord(id string) ProcurementRecord {
	return ProcurementRecord{
		RecordId:           id,
		Timestamp:          time.Date(2025, 1, 14, 10, 30, 0, 0, time.UTC),
		ItemsRequired:      []string{"Nitrile Gloves", "Ethanol"},
		SelectedVendorId:   "V001",
		SelectedVendorName: "Sharma Scientific",
		TotalCost:          decimal.NewFromInt(5000),
		TotalItems:         150,
		Status:             CycleOutcomeCompleted,
		CallSid:            "CA123",
		EmailSent:          true,
		OrderNumber:        "PO-20250114-V001",
	}
}

func TestLedger_MissingFileIsEmptyHistory(t *testing.T) {
	ledger := testLedger(t)
	records, err := ledger.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
}

func TestLedger_AppendRoundTrip(t *testing.T) {
	ledger := testLedger(t)
	want := sampleRecord("rec-1")
	if err := ledger.Append(want); err != nil {
		t.Fatal(err)
	}

	records, err := ledger.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.RecordId != want.RecordId ||
		got.SelectedVendorId != want.SelectedVendorId ||
		got.SelectedVendorName != want.SelectedVendorName ||
		got.TotalItems != want.TotalItems ||
		got.Status != want.Status ||
		got.CallSid != want.CallSid ||
		got.EmailSent != want.EmailSent ||
		got.ApprovalRequired != want.ApprovalRequired ||
		got.OrderNumber != want.OrderNumber {
		t.Fatalf("record changed across the round trip: %+v", got)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("timestamp changed: %s vs %s", got.Timestamp, want.Timestamp)
	}
	if !got.TotalCost.Equal(want.TotalCost) {
		t.Fatalf("total cost changed: %s vs %s", got.TotalCost, want.TotalCost)
	}
	if len(got.ItemsRequired) != 2 || got.ItemsRequired[0] != "Nitrile Gloves" {
		t.Fatalf("items changed: %v", got.ItemsRequired)
	}
}

func TestLedger_AppendPreservesOrder(t *testing.T) {
	ledger := testLedger(t)
	for _, id := range []string{"rec-1", "rec-2", "rec-3"} {
		if err := ledger.Append(sampleRecord(id)); err != nil {
			t.Fatal(err)
		}
	}
	records, err := ledger.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, id := range []string{"rec-1", "rec-2", "rec-3"} {
		if records[i].RecordId != id {
			t.Fatalf("position %d holds %s, want %s", i, records[i].RecordId, id)
		}
	}
}

func TestLedger_CSVMirror(t *testing.T) {
	ledger := testLedger(t)
	if err := ledger.Append(sampleRecord("rec-1")); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(ledger.csvPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if rows[0][0] != "record_id" || len(rows[0]) != 12 {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	row := rows[1]
	if row[0] != "rec-1" || row[3] != "V001" || row[5] != "5000" || row[7] != string(CycleOutcomeCompleted) {
		t.Fatalf("unexpected mirror row: %v", row)
	}
	if row[2] != "Nitrile Gloves; Ethanol" {
		t.Fatalf("items column: %q", row[2])
	}
}

func TestOrderNumberFor(t *testing.T) {
	at := time.Date(2025, 1, 14, 23, 59, 0, 0, time.UTC)
	if got := OrderNumberFor("V001", at); got != "PO-20250114-V001" {
		t.Fatalf("got %q", got)
	}
}
