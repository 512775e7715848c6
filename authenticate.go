package imap

import "strings"

// AuthMechanism is a SASL mechanism name, e.g. "PLAIN".
type AuthMechanism string

const (
	AuthPlain   AuthMechanism = "PLAIN"
	AuthLogin   AuthMechanism = "LOGIN"
	AuthXOAuth2 AuthMechanism = "XOAUTH2"
)

// NewAuthMechanism canonicalizes a mechanism atom to upper case.
func NewAuthMechanism(atom string) AuthMechanism {
	return AuthMechanism(strings.ToUpper(atom))
}

// AuthenticateData is a single client line during a SASL exchange: a base64
// response or the "*" cancellation marker.
type AuthenticateData struct {
	// Cancel marks the "*" line aborting the exchange.
	Cancel bool
	// Data carries the decoded response bytes.
	Data []byte
}
