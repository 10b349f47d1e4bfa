// Procurement automation CLI: checks inventory thresholds, collects vendor
// quotes over the allow-listed call channel, orders from the cheapest vendor
// and appends the outcome to the audit ledger.
//
// Run with a single flag for one action, or with no flags for the
// interactive menu. Exit code is non-zero only for configuration errors.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/biomacls/procurement_backend/config"
	"bitbucket.org/biomacls/procurement_backend/mailer"
	"bitbucket.org/biomacls/procurement_backend/models"
	"bitbucket.org/biomacls/procurement_backend/models/reports"
	"bitbucket.org/biomacls/procurement_backend/telephony"
	"bitbucket.org/biomacls/procurement_backend/workflow"
	"github.com/sirupsen/logrus"
)

type app struct {
	cfg    *config.AppConfig
	logger *logrus.Logger
	ledger *models.Ledger
}

func main() {
	runCycle := flag.Bool("cycle", false, "run one full procurement cycle")
	showInventory := flag.Bool("inventory", false, "show inventory status")
	showVendors := flag.Bool("vendors", false, "show vendor status")
	showHistory := flag.Bool("history", false, "show procurement history")
	exportReport := flag.Bool("export", false, "export history to CSV and XLSX")
	testCall := flag.Bool("test-call", false, "place a connectivity test call")
	flag.Parse()

	cfg, err := config.LoadAppConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	a := &app{
		cfg:    cfg,
		logger: config.GetLogger(),
		ledger: models.NewLedger(cfg.LedgerFile, cfg.ReportCSV),
	}

	switch {
	case *runCycle:
		a.runCycle()
	case *showInventory:
		a.showInventory()
	case *showVendors:
		a.showVendors()
	case *showHistory:
		a.showHistory()
	case *exportReport:
		a.exportReport()
	case *testCall:
		a.testCall()
	default:
		a.interactiveMenu()
	}
}

func (a *app) interactiveMenu() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println()
		fmt.Println("=== " + a.cfg.CompanyName + " Procurement System ===")
		fmt.Println("1. Run full procurement cycle")
		fmt.Println("2. Show inventory status")
		fmt.Println("3. Show vendor status")
		fmt.Println("4. Show procurement history")
		fmt.Println("5. Export report (CSV + XLSX)")
		fmt.Println("6. Test call connectivity")
		fmt.Println("7. Exit")
		fmt.Print("Enter your choice (1-7): ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		switch strings.TrimSpace(line) {
		case "1":
			a.runCycle()
		case "2":
			a.showInventory()
		case "3":
			a.showVendors()
		case "4":
			a.showHistory()
		case "5":
			a.exportReport()
		case "6":
			a.testCall()
		case "7":
			return
		default:
			fmt.Println("Invalid choice, please try again.")
		}
	}
}

// loadCatalog is called before every action touching catalog data; the
// files are re-read wholesale so edits between cycles are picked up.
func (a *app) loadCatalog() *models.Catalog {
	catalog, err := models.LoadCatalog(a.cfg.InventoryCSV, a.cfg.VendorsCSV, a.cfg.VendorItemCSV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	return catalog
}

func (a *app) buildCaller() telephony.Caller {
	caller, err := telephony.NewTwilioCaller(a.cfg, a.logger)
	if err != nil {
		a.logger.WithField("reason", err.Error()).Warn("call channel unavailable")
		return nil
	}
	return caller
}

func (a *app) buildSender() mailer.Sender {
	sender, err := mailer.NewSMTPSender(a.cfg, a.logger)
	if err != nil {
		a.logger.WithField("reason", err.Error()).Warn("email channel unavailable")
		return nil
	}
	return sender
}

func (a *app) runCycle() {
	catalog := a.loadCatalog()
	caller := a.buildCaller()

	var source workflow.QuoteSource
	if caller != nil {
		source = &workflow.CallQuoteSource{Caller: caller, CompanyName: a.cfg.CompanyName}
	} else {
		source = workflow.UnavailableQuoteSource{}
	}

	collector := workflow.NewQuoteCollector(a.cfg, a.logger, source)
	placer := workflow.NewOrderPlacer(a.cfg, a.logger, caller, a.buildSender())
	cycle := workflow.NewProcurementCycle(a.cfg, a.logger, collector, placer, a.ledger)

	summary, err := cycle.Run(catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cycle finished with errors: %v\n", err)
	}

	fmt.Println()
	fmt.Println("============ PROCUREMENT SUMMARY ============")
	fmt.Printf("Outcome: %s\n", summary.Outcome)
	if summary.Record != nil {
		r := summary.Record
		fmt.Printf("Items: %s\n", strings.Join(r.ItemsRequired, ", "))
		if r.SelectedVendorName != "" {
			fmt.Printf("Selected vendor: %s\n", r.SelectedVendorName)
			fmt.Printf("Total cost: Rs. %s\n", r.TotalCost.StringFixed(2))
			fmt.Printf("Savings over highest quote: Rs. %s\n", summary.Savings.StringFixed(2))
		}
		fmt.Printf("Quotes collected: %d\n", len(summary.Quotes))
		fmt.Printf("Call SID: %s\n", orDash(r.CallSid))
		fmt.Printf("Email sent: %v\n", r.EmailSent)
		fmt.Printf("Record ID: %s\n", r.RecordId)
	}
	fmt.Println("=============================================")
}

func (a *app) showInventory() {
	catalog := a.loadCatalog()
	fmt.Println()
	fmt.Println("ITEM        NAME                      STOCK  THRESHOLD  STATUS")
	for _, item := range catalog.Items {
		fmt.Printf("%-11s %-25s %5d  %9d  %s\n",
			item.ItemId, item.ItemName, item.CurrentStock, item.MinThreshold, item.StockStatus())
	}
	stats := catalog.Stats(a.cfg.AllowedPhoneNumber)
	fmt.Printf("\n%d items, %d flagged for reorder\n", stats.TotalItems, stats.ItemsNeedingReorder)
}

func (a *app) showVendors() {
	catalog := a.loadCatalog()
	fmt.Println()
	fmt.Println("VENDOR      NAME                      RATING  DELIVERY  AUTHORIZED  STATUS")
	for _, vendor := range catalog.Vendors {
		fmt.Printf("%-11s %-25s %6.1f  %5d d   %-10v  %s\n",
			vendor.VendorId, vendor.VendorName, vendor.Rating, vendor.DeliveryTimeDays,
			vendor.IsAuthorizedForCalls(a.cfg.AllowedPhoneNumber), vendor.Status)
	}
	stats := catalog.Stats(a.cfg.AllowedPhoneNumber)
	fmt.Printf("\n%d vendors, %d authorized for calls, %d offers\n",
		stats.TotalVendors, stats.AuthorizedVendors, stats.TotalOffers)
}

func (a *app) showHistory() {
	records, err := a.ledger.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load ledger: %v\n", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("No procurement history yet.")
		return
	}
	fmt.Println()
	for _, r := range records {
		fmt.Printf("%s  %-14s %-20s Rs. %-10s %s\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.Status, r.SelectedVendorName,
			r.TotalCost.StringFixed(2), strings.Join(r.ItemsRequired, ", "))
	}
	fmt.Printf("\n%d records\n", len(records))
}

func (a *app) exportReport() {
	if err := a.ledger.ExportCSV(); err != nil {
		fmt.Fprintf(os.Stderr, "CSV export failed: %v\n", err)
		return
	}
	fmt.Printf("CSV report written to %s\n", a.cfg.ReportCSV)

	records, err := a.ledger.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load ledger: %v\n", err)
		return
	}
	xlsxPath := strings.TrimSuffix(a.cfg.ReportCSV, ".csv") + ".xlsx"
	if err := reports.ExportHistoryExcel(records, xlsxPath); err != nil {
		fmt.Fprintf(os.Stderr, "XLSX export failed: %v\n", err)
		return
	}
	fmt.Printf("XLSX report written to %s\n", xlsxPath)
}

func (a *app) testCall() {
	caller := a.buildCaller()
	if caller == nil {
		fmt.Println("Telephony is not configured; set TWILIO_* environment variables.")
		return
	}
	sid, err := caller.PlaceCall(a.cfg.AllowedPhoneNumber, telephony.TestCallMessage(a.cfg.CompanyName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "test call failed: %v\n", err)
		return
	}
	fmt.Printf("Test call placed, SID %s\n", sid)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
