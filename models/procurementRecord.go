package models

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProcurementRecord is the immutable audit entry written at the end of every
// procurement cycle. Records are appended to the ledger and never mutated.
type ProcurementRecord struct {
	RecordId           string          `json:"record_id"`
	Timestamp          time.Time       `json:"timestamp"`
	ItemsRequired      []string        `json:"items_required"`
	SelectedVendorId   string          `json:"selected_vendor_id"`
	SelectedVendorName string          `json:"selected_vendor_name"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	TotalItems         int             `json:"total_items"`
	Status             CycleOutcome    `json:"status"`
	CallSid            string          `json:"call_sid,omitempty"`
	EmailSent          bool            `json:"email_sent"`
	ApprovalRequired   bool            `json:"approval_required"`
	OrderNumber        string          `json:"order_number,omitempty"`
}

type ledgerFile struct {
	Records     []ProcurementRecord `json:"records"`
	LastUpdated time.Time           `json:"last_updated"`
}

// Ledger is the append-only JSON procurement history, mirrored to a CSV
// report for human review. A single cycle writes at a time; concurrent
// cycles are out of scope.
type Ledger struct {
	jsonPath string
	csvPath  string
}

func NewLedger(jsonPath, csvPath string) *Ledger {
	return &Ledger{jsonPath: jsonPath, csvPath: csvPath}
}

// Load reads the full ordered history. A missing ledger file is an empty
// history, not an error.
func (l *Ledger) Load() ([]ProcurementRecord, error) {
	raw, err := os.ReadFile(l.jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var file ledgerFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("ledger %s is corrupt: %w", l.jsonPath, err)
	}
	return file.Records, nil
}

// Append adds one record to the ledger and rewrites the CSV mirror.
func (l *Ledger) Append(record ProcurementRecord) error {
	records, err := l.Load()
	if err != nil {
		return err
	}
	records = append(records, record)

	if err := os.MkdirAll(filepath.Dir(l.jsonPath), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(ledgerFile{
		Records:     records,
		LastUpdated: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(l.jsonPath, payload, 0o644); err != nil {
		return err
	}
	return l.writeCSVMirror(records)
}

// ExportCSV rewrites the CSV report from the current ledger contents.
func (l *Ledger) ExportCSV() error {
	records, err := l.Load()
	if err != nil {
		return err
	}
	return l.writeCSVMirror(records)
}

func (l *Ledger) writeCSVMirror(records []ProcurementRecord) error {
	if err := os.MkdirAll(filepath.Dir(l.csvPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(l.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"record_id", "timestamp", "items_required", "selected_vendor_id",
		"selected_vendor_name", "total_cost", "total_items", "status",
		"call_sid", "email_sent", "approval_required", "order_number",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.RecordId,
			r.Timestamp.Format(time.RFC3339),
			strings.Join(r.ItemsRequired, "; "),
			r.SelectedVendorId,
			r.SelectedVendorName,
			r.TotalCost.String(),
			strconv.Itoa(r.TotalItems),
			string(r.Status),
			r.CallSid,
			strconv.FormatBool(r.EmailSent),
			strconv.FormatBool(r.ApprovalRequired),
			r.OrderNumber,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// OrderNumberFor builds the purchase order number for a vendor on a date,
// e.g. PO-20250114-V001.
func OrderNumberFor(vendorId string, at time.Time) string {
	return "PO-" + at.Format("20060102") + "-" + vendorId
}
