// Package saslclient bridges SASL mechanisms to the codec's authentication
// types: it turns a sasl.Client into AUTHENTICATE commands and
// authenticate-data lines, and feeds decoded continuation-request
// challenges back into the mechanism.
//
// The package performs no I/O; the caller moves the produced values over
// its own transport.
package saslclient

import (
	"fmt"

	"github.com/emersion/go-sasl"

	imap "github.com/coalooball/imap-codec"
)

// Command starts a SASL exchange: it runs the mechanism's initial step and
// returns the AUTHENTICATE command to send.
//
// The initial response is only included when the server advertises SASL-IR;
// pass withIR accordingly. Without it, the mechanism's initial response is
// returned separately and must be sent in reply to the server's first empty
// challenge.
func Command(tag string, client sasl.Client, withIR bool) (*imap.Command, []byte, error) {
	mech, ir, err := client.Start()
	if err != nil {
		return nil, nil, fmt.Errorf("saslclient: %v", err)
	}
	body := &imap.AuthenticateCommand{Mechanism: imap.NewAuthMechanism(mech)}
	if withIR {
		body.InitialResponse = ir
		ir = nil
	}
	return &imap.Command{Tag: tag, Body: body}, ir, nil
}

// Next answers a server continuation request with the mechanism's next
// response line.
func Next(client sasl.Client, cont *imap.ContinuationRequest) (*imap.AuthenticateData, error) {
	challenge := cont.Challenge
	if !cont.Base64 {
		challenge = []byte(cont.Text)
	}
	resp, err := client.Next(challenge)
	if err != nil {
		return nil, fmt.Errorf("saslclient: %v", err)
	}
	return &imap.AuthenticateData{Data: resp}, nil
}

// Cancel returns the "*" line aborting the exchange.
func Cancel() *imap.AuthenticateData {
	return &imap.AuthenticateData{Cancel: true}
}
