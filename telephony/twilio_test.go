package telephony

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func gateOnlyCaller() *TwilioCaller {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	// No REST client: the gate must refuse before the client is ever touched.
	return &TwilioCaller{
		logger:        logger,
		allowedNumber: "+918800000488",
		maxRetries:    1,
	}
}

func TestPlaceCall_BlocksNumbersOutsideAllowList(t *testing.T) {
	caller := gateOnlyCaller()
	for _, number := range []string{"+919900112233", "8800000488", "not-a-number", ""} {
		_, err := caller.PlaceCall(number, "hello")
		if !errors.Is(err, ErrCallBlocked) {
			t.Fatalf("PlaceCall(%q) = %v, want ErrCallBlocked", number, err)
		}
	}
}

func TestPlaceCall_NormalizesDestinationBeforeGate(t *testing.T) {
	caller := gateOnlyCaller()
	// Same number, different formatting: passes the gate and panics on the
	// nil client, proving the gate compared normalized forms.
	defer func() {
		if recover() == nil {
			t.Fatal("expected the call to reach the nil client")
		}
	}()
	caller.PlaceCall("+91 88000 00488", "hello")
}

func TestSpeechTwimlEscapesMarkup(t *testing.T) {
	twiml := speechTwiml("prices < 100 & quantities > 5")
	if strings.Contains(twiml, "prices <") || strings.Contains(twiml, "& quantities") {
		t.Fatalf("markup not escaped: %s", twiml)
	}
	if !strings.Contains(twiml, "prices &lt; 100 &amp; quantities &gt; 5") {
		t.Fatalf("unexpected escaping: %s", twiml)
	}
	if !strings.HasPrefix(twiml, "<Response><Say") || !strings.HasSuffix(twiml, "</Say></Response>") {
		t.Fatalf("malformed envelope: %s", twiml)
	}
}

func TestCallMessages(t *testing.T) {
	items := []string{"Nitrile Gloves", "Ethanol"}
	confirm := ProcurementCallMessage("Bio Mac Lifesciences", items)
	if !strings.Contains(confirm, "Nitrile Gloves, Ethanol") || !strings.Contains(confirm, "Bio Mac Lifesciences") {
		t.Fatalf("confirmation script incomplete: %s", confirm)
	}
	quote := QuoteRequestMessage("Bio Mac Lifesciences", items)
	if !strings.Contains(quote, "best price") || !strings.Contains(quote, "Ethanol") {
		t.Fatalf("quote script incomplete: %s", quote)
	}
}
