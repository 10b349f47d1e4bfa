// test-call places one connectivity test call to the allow-listed number.
//
// Usage:
//
//	TWILIO_ACCOUNT_SID=... TWILIO_AUTH_TOKEN=... TWILIO_PHONE_NUMBER=... go run ./cmd/test-call
package main

import (
	"fmt"
	"os"

	"bitbucket.org/biomacls/procurement_backend/config"
	"bitbucket.org/biomacls/procurement_backend/telephony"
)

func main() {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	caller, err := telephony.NewTwilioCaller(cfg, config.GetLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "telephony unavailable: %v\n", err)
		os.Exit(1)
	}

	sid, err := caller.PlaceCall(cfg.AllowedPhoneNumber, telephony.TestCallMessage(cfg.CompanyName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "test call failed: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Test call placed, SID %s\n", sid)
}
