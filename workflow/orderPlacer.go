package workflow

import (
	"errors"

	"bitbucket.org/biomacls/procurement_backend/config"
	"bitbucket.org/biomacls/procurement_backend/mailer"
	"bitbucket.org/biomacls/procurement_backend/models"
	"bitbucket.org/biomacls/procurement_backend/telephony"
	"bitbucket.org/biomacls/procurement_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var errNoVendorEmail = errors.New("vendor has no usable email address")

// OrderResult reports what the two independent confirmation channels did.
type OrderResult struct {
	CallSid   string
	CallErr   error
	EmailSent bool
	EmailErr  error
}

// OrderPlacer issues the winning vendor's confirmation call and email. The
// channels are best-effort and independent: one failing never blocks the
// other, and nothing here is retried beyond the caller's own bounded
// attempts.
type OrderPlacer struct {
	cfg    *config.AppConfig
	logger *logrus.Logger
	caller telephony.Caller
	sender mailer.Sender
}

// Caller and sender may be nil when the corresponding channel is not
// configured; placement then records the channel as failed without
// attempting it.
func NewOrderPlacer(cfg *config.AppConfig, logger *logrus.Logger, caller telephony.Caller, sender mailer.Sender) *OrderPlacer {
	return &OrderPlacer{cfg: cfg, logger: logger, caller: caller, sender: sender}
}

func (op *OrderPlacer) PlaceOrder(vendor *models.Vendor, itemNames []string, totalCost decimal.Decimal) OrderResult {
	var result OrderResult

	if op.caller == nil {
		result.CallErr = telephony.ErrNotConfigured
	} else {
		message := telephony.ProcurementCallMessage(op.cfg.CompanyName, itemNames)
		result.CallSid, result.CallErr = op.caller.PlaceCall(vendor.PhoneNumber, message)
		if result.CallErr != nil {
			config.LogError(op.logger, "orderPlacer.go", "PlaceOrder", "confirmation call", vendor.VendorId, result.CallErr)
		}
	}

	switch {
	case op.sender == nil:
		result.EmailErr = mailer.ErrNotConfigured
	case !utils.IsValidEmail(vendor.Email):
		result.EmailErr = errNoVendorEmail
		config.LogError(op.logger, "orderPlacer.go", "PlaceOrder", "confirmation email", vendor.VendorId, result.EmailErr)
	default:
		result.EmailErr = op.sender.Send(
			vendor.Email,
			mailer.ConfirmationSubject(op.cfg.CompanyName),
			mailer.ConfirmationBody(op.cfg.CompanyName, vendor, itemNames, totalCost),
		)
		result.EmailSent = result.EmailErr == nil
	}

	op.logger.WithFields(logrus.Fields{
		"vendor":    vendor.VendorId,
		"callSid":   result.CallSid,
		"emailSent": result.EmailSent,
	}).Info("order placement finished")
	return result
}

// Outcome maps the channel results to the recorded cycle outcome: either
// channel succeeding completes the cycle. CallFailed is reserved for an
// attempted call that failed; when the call channel was unavailable or
// blocked, a failed email yields EmailFailed.
func (r OrderResult) Outcome() models.CycleOutcome {
	if r.CallSid != "" || r.EmailSent {
		return models.CycleOutcomeCompleted
	}
	if r.CallErr != nil &&
		!errors.Is(r.CallErr, telephony.ErrNotConfigured) &&
		!errors.Is(r.CallErr, telephony.ErrCallBlocked) {
		return models.CycleOutcomeCallFailed
	}
	return models.CycleOutcomeEmailFailed
}
