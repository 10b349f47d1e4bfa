// export-report rewrites the CSV mirror and the XLSX workbook from the
// procurement ledger. Handy after hand-pruning data files or for scheduled
// report generation.
//
// Usage:
//
//	go run ./cmd/export-report [output.xlsx]
package main

import (
	"fmt"
	"os"
	"strings"

	"bitbucket.org/biomacls/procurement_backend/config"
	"bitbucket.org/biomacls/procurement_backend/models"
	"bitbucket.org/biomacls/procurement_backend/models/reports"
)

func main() {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	ledger := models.NewLedger(cfg.LedgerFile, cfg.ReportCSV)
	if err := ledger.ExportCSV(); err != nil {
		fmt.Fprintf(os.Stderr, "CSV export failed: %v\n", err)
		os.Exit(2)
	}

	xlsxPath := strings.TrimSuffix(cfg.ReportCSV, ".csv") + ".xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	records, err := ledger.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load ledger: %v\n", err)
		os.Exit(2)
	}
	if err := reports.ExportHistoryExcel(records, xlsxPath); err != nil {
		fmt.Fprintf(os.Stderr, "XLSX export failed: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Wrote %s and %s (%d records)\n", cfg.ReportCSV, xlsxPath, len(records))
}
