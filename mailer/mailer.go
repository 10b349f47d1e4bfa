// Package mailer sends procurement confirmation email over SMTP.
package mailer

import (
	"errors"
	"fmt"
	"strings"

	"bitbucket.org/biomacls/procurement_backend/config"
	"bitbucket.org/biomacls/procurement_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("email credentials not configured")

// Sender delivers one message; implementations are best-effort and report
// success as a plain error.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *logrus.Logger
}

func NewSMTPSender(cfg *config.AppConfig, logger *logrus.Logger) (*SMTPSender, error) {
	if !cfg.EmailConfigured() {
		return nil, ErrNotConfigured
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.EmailAddress, cfg.EmailPassword),
		from:   cfg.EmailAddress,
		logger: logger,
	}, nil
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		config.LogError(s.logger, "mailer.go", "Send", "DialAndSend", to, err)
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"module": "mailer",
		"to":     to,
	}).Info("confirmation email sent")
	return nil
}

// ConfirmationSubject and ConfirmationBody follow the purchase-order email
// the workflow has always sent.
func ConfirmationSubject(companyName string) string {
	return fmt.Sprintf("Purchase Order Confirmation - %s", companyName)
}

func ConfirmationBody(companyName string, vendor *models.Vendor, itemNames []string, totalCost decimal.Decimal) string {
	return fmt.Sprintf(
		"Dear %s,\n\n"+
			"This confirms your selection as our supplier for the following items:\n%s\n\n"+
			"Total order value: Rs. %s\n"+
			"Expected delivery: %d days\n"+
			"Payment terms: %s\n\n"+
			"A formal purchase order follows.\n\n"+
			"Regards,\n%s Procurement",
		vendor.VendorName,
		"- "+strings.Join(itemNames, "\n- "),
		totalCost.StringFixed(2),
		vendor.DeliveryTimeDays,
		vendor.PaymentTerms,
		companyName)
}
