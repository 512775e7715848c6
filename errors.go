package imap

import (
	"errors"

	"github.com/coalooball/imap-codec/internal/imapwire"
)

// ErrorKind classifies a decode failure.
type ErrorKind = imapwire.ErrorKind

// Decode failure kinds.
const (
	GrammarViolation    = imapwire.GrammarViolation
	InvalidTerminal     = imapwire.InvalidTerminal
	LiteralTooLarge     = imapwire.LiteralTooLarge
	UnknownCommand      = imapwire.UnknownCommand
	UnknownResponseCode = imapwire.UnknownResponseCode
	TrailingGarbage     = imapwire.TrailingGarbage
)

// DecodeError is a terminal decode failure: the input violates the grammar
// at a concrete byte offset. The decoder never recovers internally; the
// caller typically answers with a tagged BAD status or drops the
// connection.
type DecodeError = imapwire.DecodeError

// IncompleteError reports input that ends before the message does. The
// caller must re-invoke the decoder with the original bytes plus newly
// arrived bytes, from the same starting offset.
type IncompleteError = imapwire.IncompleteError

// LiteralAckError reports a synchronizing literal whose payload has not
// arrived yet. The caller must write a continuation request ("+ ...\r\n")
// to the peer, then re-invoke the decoder once more bytes arrive.
type LiteralAckError = imapwire.LiteralAckError

// IsIncomplete reports whether err asks for more input, counting both plain
// incompleteness and a pending literal continuation.
func IsIncomplete(err error) bool {
	var incomplete *IncompleteError
	var ack *LiteralAckError
	return errors.As(err, &incomplete) || errors.As(err, &ack)
}
