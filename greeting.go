package imap

// GreetingKind is the status of a server greeting.
type GreetingKind string

const (
	// GreetingOK means the connection is not yet authenticated.
	GreetingOK GreetingKind = "OK"
	// GreetingPreAuth means the connection has already been authenticated
	// by external means.
	GreetingPreAuth GreetingKind = "PREAUTH"
	// GreetingBye means the server is about to close the connection.
	GreetingBye GreetingKind = "BYE"
)

// Greeting is the server's initial unsolicited message.
type Greeting struct {
	Kind GreetingKind
	// Code is the optional bracketed response code.
	Code *Code
	// Text is the required human-readable text.
	Text string
}
