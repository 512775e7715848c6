package imap

import (
	"strings"

	"github.com/coalooball/imap-codec/internal/imapwire"
)

// The primary mailbox, as defined in RFC 3501 section 5.1.
const InboxName = "INBOX"

// A Mailbox is a mailbox name: either the canonical INBOX or an astring.
// Any case variant of "inbox" decodes to the canonical Inbox value.
//
// Mailbox names in a hierarchy may be encoded in modified UTF-7; the codec
// passes such names through opaquely. See the utf7 package for explicit
// conversion.
type Mailbox struct {
	// Inbox marks the canonical INBOX mailbox; Name is ignored when set.
	Inbox bool
	Name  String
}

// Inbox is the canonical INBOX mailbox.
var Inbox = Mailbox{Inbox: true}

// NewMailbox returns the mailbox with the given decoded name, folding case
// variants of INBOX to the canonical value.
func NewMailbox(name string) Mailbox {
	if strings.EqualFold(name, InboxName) {
		return Inbox
	}
	return Mailbox{Name: NewString(name)}
}

func mailboxFromString(s String) Mailbox {
	if strings.EqualFold(s.Value, InboxName) {
		return Inbox
	}
	return Mailbox{Name: s}
}

// NameString returns the mailbox name.
func (mbox Mailbox) NameString() string {
	if mbox.Inbox {
		return InboxName
	}
	return mbox.Name.Value
}

// A ListMailbox is the mailbox argument of LIST and LSUB: a pattern token
// that may additionally contain the "%" and "*" wildcards, or a string.
type ListMailbox struct {
	// Token holds a bare pattern when Str is zero.
	Token string
	Str   String
}

// NewListMailbox returns a LIST pattern argument.
func NewListMailbox(pattern string) ListMailbox {
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		if !imapwire.IsListChar(ch) {
			return ListMailbox{Str: NewString(pattern)}
		}
	}
	if pattern == "" {
		return ListMailbox{Str: Quoted("")}
	}
	return ListMailbox{Token: pattern}
}

// Pattern returns the decoded pattern.
func (lm ListMailbox) Pattern() string {
	if lm.Token != "" {
		return lm.Token
	}
	return lm.Str.Value
}
