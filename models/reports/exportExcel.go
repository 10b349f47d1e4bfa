package reports

import (
	"fmt"
	"strings"
	"time"

	"bitbucket.org/biomacls/procurement_backend/models"
	"github.com/xuri/excelize/v2"
)

// ExportHistoryExcel writes the procurement history to an XLSX workbook for
// review. The CSV mirror remains the canonical report; this is the
// spreadsheet-friendly copy.
func ExportHistoryExcel(records []models.ProcurementRecord, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"RecordId", "Timestamp", "Items", "VendorId", "VendorName",
		"TotalCost", "TotalItems", "Status", "CallSid", "EmailSent", "OrderNumber",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range records {
		row := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), r.RecordId)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), r.Timestamp.Format(time.RFC3339))
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), strings.Join(r.ItemsRequired, "; "))
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), r.SelectedVendorId)
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), r.SelectedVendorName)
		f.SetCellValue(sheet, "F"+fmt.Sprint(row), r.TotalCost.String())
		f.SetCellValue(sheet, "G"+fmt.Sprint(row), r.TotalItems)
		f.SetCellValue(sheet, "H"+fmt.Sprint(row), string(r.Status))
		f.SetCellValue(sheet, "I"+fmt.Sprint(row), r.CallSid)
		f.SetCellValue(sheet, "J"+fmt.Sprint(row), r.EmailSent)
		f.SetCellValue(sheet, "K"+fmt.Sprint(row), r.OrderNumber)
	}

	return f.SaveAs(filename)
}
