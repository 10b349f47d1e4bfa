// Package telephony wraps the Twilio voice API behind the single-number
// safety gate: calls to anything but the allow-listed number are refused
// before any network traffic happens.
package telephony

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/biomacls/procurement_backend/config"
	"bitbucket.org/biomacls/procurement_backend/models"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrCallBlocked marks a refused call to a number outside the allow list.
// It is a distinguished result, not a transport failure.
var ErrCallBlocked = errors.New("call blocked: number is not allow-listed")

// ErrNotConfigured is returned when Twilio credentials are absent.
var ErrNotConfigured = errors.New("telephony credentials not configured")

// Caller places one voice call and returns the provider call identifier.
type Caller interface {
	PlaceCall(toNumber, message string) (string, error)
}

type TwilioCaller struct {
	client        *twilio.RestClient
	logger        *logrus.Logger
	fromNumber    string
	allowedNumber string
	maxRetries    int
	retryDelay    time.Duration
}

func NewTwilioCaller(cfg *config.AppConfig, logger *logrus.Logger) (*TwilioCaller, error) {
	if !cfg.TelephonyConfigured() {
		return nil, ErrNotConfigured
	}
	allowed, err := models.NormalizeE164(cfg.AllowedPhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("allow-listed number: %w", err)
	}

	httpClient := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(cfg.TwilioAccountSid, cfg.TwilioAuthToken),
	}
	httpClient.SetTimeout(cfg.CallTimeout)
	httpClient.SetAccountSid(cfg.TwilioAccountSid)

	return &TwilioCaller{
		client:        twilio.NewRestClientWithParams(twilio.ClientParams{Client: httpClient}),
		logger:        logger,
		fromNumber:    cfg.TwilioPhoneNumber,
		allowedNumber: allowed,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
	}, nil
}

// PlaceCall speaks the message to the destination number. The allow-list
// gate runs first and is independent of every other validation; a blocked
// destination never reaches the provider.
func (t *TwilioCaller) PlaceCall(toNumber, message string) (string, error) {
	destination, err := models.NormalizeE164(toNumber)
	if err != nil || destination != t.allowedNumber {
		t.logger.WithFields(logrus.Fields{
			"module": "telephony",
			"to":     toNumber,
		}).Warn("blocked call to number outside allow list")
		return "", ErrCallBlocked
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(destination)
	params.SetFrom(t.fromNumber)
	params.SetTwiml(speechTwiml(message))

	var lastErr error
	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		resp, err := t.client.Api.CreateCall(params)
		if err == nil && resp.Sid != nil {
			t.logger.WithFields(logrus.Fields{
				"module":  "telephony",
				"callSid": *resp.Sid,
				"attempt": attempt,
			}).Info("call placed")
			return *resp.Sid, nil
		}
		if err == nil {
			err = errors.New("provider returned no call sid")
		}
		lastErr = err
		config.LogError(t.logger, "twilio.go", "PlaceCall", fmt.Sprintf("attempt %d", attempt), nil, err)
		if attempt < t.maxRetries {
			time.Sleep(t.retryDelay)
		}
	}
	return "", fmt.Errorf("all %d call attempts failed: %w", t.maxRetries, lastErr)
}

var twimlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func speechTwiml(message string) string {
	return "<Response><Say voice='alice' language='en-IN'>" +
		twimlEscaper.Replace(message) + "</Say></Response>"
}

// ProcurementCallMessage is the confirmation script spoken to the winning
// vendor.
func ProcurementCallMessage(companyName string, itemNames []string) string {
	return fmt.Sprintf(
		"Namaste, this is an automated procurement call from %s. "+
			"You have been selected as our preferred supplier for %s "+
			"based on your competitive quote and excellent service record. "+
			"A formal purchase order and email confirmation will be sent to you shortly. "+
			"Thank you for your continued partnership with %s.",
		companyName, strings.Join(itemNames, ", "), companyName)
}

// QuoteRequestMessage is the phase-one solicitation script.
func QuoteRequestMessage(companyName string, itemNames []string) string {
	return fmt.Sprintf(
		"Namaste, this is an automated quote request from %s. "+
			"We would like your best price for the following items: %s. "+
			"Please share your quotation at the earliest. Thank you.",
		companyName, strings.Join(itemNames, ", "))
}

// TestCallMessage verifies connectivity end to end.
func TestCallMessage(companyName string) string {
	return fmt.Sprintf(
		"Namaste, this is a test call from %s procurement system. "+
			"This confirms that the automated calling system is working correctly "+
			"and ready for production use. Thank you.", companyName)
}
