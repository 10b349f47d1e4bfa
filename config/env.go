package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Collection granularity for the quote phase. Batch places one solicitation
// call per vendor covering every item it can supply; per-item places one call
// per vendor per item.
const (
	GranularityBatch   = "batch"
	GranularityPerItem = "per-item"
)

// AppConfig holds every runtime setting. It is loaded once at startup and
// passed by reference; nothing re-reads the environment mid-cycle.
type AppConfig struct {
	CompanyName      string `validate:"required"`
	ProcurementEmail string `validate:"required,email"`

	// The single phone number the system is permitted to call.
	AllowedPhoneNumber string `validate:"required,e164"`

	TwilioAccountSid  string
	TwilioAuthToken   string
	TwilioPhoneNumber string `validate:"omitempty,e164"`

	SMTPServer    string `validate:"required"`
	SMTPPort      int    `validate:"required,gt=0"`
	EmailAddress  string `validate:"omitempty,email"`
	EmailPassword string

	InventoryCSV  string `validate:"required"`
	VendorsCSV    string `validate:"required"`
	VendorItemCSV string `validate:"required"`
	LedgerFile    string `validate:"required"`
	ReportCSV     string `validate:"required"`

	MaxRetries           int           `validate:"gte=1,lte=5"`
	RetryDelay           time.Duration `validate:"gte=0"`
	CallDelay            time.Duration `validate:"gte=0"`
	CallTimeout          time.Duration `validate:"gt=0"`
	AutoApproveThreshold decimal.Decimal
	Granularity          string `validate:"oneof=batch per-item"`
}

// LoadAppConfig reads .env (if present) and the process environment into a
// validated AppConfig. Validation failures are configuration errors; the
// caller is expected to refuse to start a cycle.
func LoadAppConfig() (*AppConfig, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &AppConfig{
		CompanyName:        envOr("COMPANY_NAME", "Bio Mac Lifesciences"),
		ProcurementEmail:   envOr("PROCUREMENT_EMAIL", "procurement@org1.com"),
		AllowedPhoneNumber: envOr("ALLOWED_PHONE_NUMBER", "+918800000488"),

		TwilioAccountSid:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		SMTPServer:    envOr("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:      envInt("SMTP_PORT", 587),
		EmailAddress:  os.Getenv("EMAIL_ADDRESS"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),

		InventoryCSV:  envOr("INVENTORY_CSV", "data/inventory.csv"),
		VendorsCSV:    envOr("VENDORS_CSV", "data/vendors.csv"),
		VendorItemCSV: envOr("VENDOR_ITEMS_CSV", "data/vendor_items_mapping.csv"),
		LedgerFile:    envOr("DATA_FILE", "data/procurement_data.json"),
		ReportCSV:     envOr("REPORT_CSV", "logs/procurement_report.csv"),

		MaxRetries:  envInt("MAX_RETRIES", 3),
		RetryDelay:  time.Duration(envInt("RETRY_DELAY", 5)) * time.Second,
		CallDelay:   time.Duration(envInt("CALL_DELAY", 2)) * time.Second,
		CallTimeout: time.Duration(envInt("CALL_TIMEOUT", 30)) * time.Second,
		Granularity: envOr("COLLECTION_GRANULARITY", GranularityBatch),
	}

	threshold, err := decimal.NewFromString(envOr("AUTO_APPROVE_THRESHOLD", "1000"))
	if err != nil {
		return nil, fmt.Errorf("AUTO_APPROVE_THRESHOLD: %w", err)
	}
	if threshold.IsNegative() {
		return nil, fmt.Errorf("AUTO_APPROVE_THRESHOLD must not be negative")
	}
	cfg.AutoApproveThreshold = threshold

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// TelephonyConfigured reports whether the Twilio credentials are usable.
// Placeholder values from sample .env files count as unconfigured.
func (c *AppConfig) TelephonyConfigured() bool {
	return c.TwilioAccountSid != "" && c.TwilioAuthToken != "" &&
		c.TwilioPhoneNumber != "" &&
		!strings.Contains(c.TwilioAccountSid, "YOUR_TWILIO")
}

func (c *AppConfig) EmailConfigured() bool {
	return c.EmailAddress != "" && c.EmailPassword != ""
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
