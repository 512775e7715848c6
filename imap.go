// Package imap implements the IMAP4rev1 wire format.
//
// IMAP4rev1 is defined in RFC 3501; the formal syntax in its section 9 is
// the authoritative grammar. The package converts between raw bytes and
// typed messages in both directions: a streaming, resumable decoder (see
// DecodeGreeting, DecodeCommand, DecodeResponse, DecodeAuthenticateData)
// and a deterministic fragment-producing encoder (see EncodeGreeting,
// EncodeCommand, EncodeResponse, EncodeAuthenticateData).
//
// The package performs no I/O and keeps no connection state. Decoding
// operates on an in-memory buffer and, instead of blocking, reports
// incomplete input or a pending synchronizing-literal handshake to the
// caller, who owns the transport.
package imap

import (
	"github.com/coalooball/imap-codec/internal/imapwire"
)

// ExtensionSet selects which IMAP extensions the codec recognizes. A
// keyword belonging to a disabled extension decodes the same way an unknown
// keyword would.
type ExtensionSet uint

const (
	// ExtStartTLS adds the STARTTLS command.
	ExtStartTLS ExtensionSet = 1 << iota
	// ExtCondStoreQResync adds the CONDSTORE and QRESYNC grammar: 64-bit
	// mod-sequences, the MODSEQ fetch item and search key, the
	// CHANGEDSINCE and UNCHANGEDSINCE modifiers, HIGHESTMODSEQ, NOMODSEQ,
	// MODIFIED and CLOSED response codes, and VANISHED responses.
	ExtCondStoreQResync
	// ExtLoginReferrals adds the REFERRAL response code on LOGIN failures.
	ExtLoginReferrals
	// ExtMailboxReferrals adds the REFERRAL response code on mailbox
	// operations.
	ExtMailboxReferrals
)

// Has reports whether all extensions in other are enabled.
func (set ExtensionSet) Has(other ExtensionSet) bool {
	return set&other == other
}

// Options configures the codec.
//
// Quirks are additive relaxations of the strict RFC 3501 grammar, each
// widening a single production's accept set to cope with a known
// implementation deviation. They commute.
type Options struct {
	// CRLFRelaxed accepts a bare LF anywhere CRLF is required.
	CRLFRelaxed bool
	// RectifyNumbers accepts the string "-1" where a non-negative number is
	// required and rectifies it to 0. Dovecot emits such numbers.
	RectifyNumbers bool
	// MissingText accepts a status line that ends directly after its
	// bracketed response code and synthesizes the text "<missing text>".
	// Gmail emits such lines.
	MissingText bool
	// MaxLiteralSize caps the declared length of literals; a larger literal
	// fails with LiteralTooLarge. Zero means no ceiling below the wire
	// maximum of 2^32-1 octets.
	MaxLiteralSize uint32
	// Extensions selects the recognized IMAP extensions.
	Extensions ExtensionSet
}

// AllExtensions enables every extension the codec implements.
const AllExtensions = ExtStartTLS | ExtCondStoreQResync | ExtLoginReferrals | ExtMailboxReferrals

// DefaultOptions returns the default codec configuration: RectifyNumbers
// and MissingText on, CRLFRelaxed off, all extensions enabled.
func DefaultOptions() *Options {
	return &Options{
		RectifyNumbers: true,
		MissingText:    true,
		Extensions:     AllExtensions,
	}
}

func (opts *Options) orDefault() *Options {
	if opts == nil {
		return DefaultOptions()
	}
	return opts
}

func (opts *Options) newDecoder(src []byte) *imapwire.Decoder {
	dec := imapwire.NewDecoder(src)
	dec.CRLFRelaxed = opts.CRLFRelaxed
	dec.RectifyNumbers = opts.RectifyNumbers
	dec.MaxLiteralSize = opts.MaxLiteralSize
	return dec
}
