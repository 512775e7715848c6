package imap

// Capability is a server capability advertised in a CAPABILITY response or
// response code.
type Capability string

const (
	CapIMAP4rev1 Capability = "IMAP4REV1"

	CapStartTLS      Capability = "STARTTLS"
	CapLoginDisabled Capability = "LOGINDISABLED"

	CapIdle        Capability = "IDLE"
	CapUnselect    Capability = "UNSELECT"
	CapEnable      Capability = "ENABLE"
	CapCondStore   Capability = "CONDSTORE"
	CapQResync     Capability = "QRESYNC"
	CapLiteralPlus Capability = "LITERAL+"
	CapSASLIR      Capability = "SASL-IR"

	CapLoginReferrals   Capability = "LOGIN-REFERRALS"
	CapMailboxReferrals Capability = "MAILBOX-REFERRALS"

	CapCompressDeflate Capability = "COMPRESS=DEFLATE"
)

// AuthCap returns the capability advertising a SASL mechanism, e.g.
// "AUTH=PLAIN".
func AuthCap(mech AuthMechanism) Capability {
	return Capability("AUTH=" + string(mech))
}
