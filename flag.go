package imap

import "github.com/coalooball/imap-codec/internal/imapwire"

// Flag is a message flag: a system flag such as "\Seen" or a keyword atom.
//
// In a FETCH response the "\Recent" flag may additionally appear; in a
// PERMANENTFLAGS code the special "\*" flag indicates that clients may
// create new keywords.
type Flag string

// System flags defined in RFC 3501 section 2.3.2.
const (
	FlagSeen     Flag = "\\Seen"
	FlagAnswered Flag = "\\Answered"
	FlagFlagged  Flag = "\\Flagged"
	FlagDeleted  Flag = "\\Deleted"
	FlagDraft    Flag = "\\Draft"
	FlagRecent   Flag = "\\Recent"
	// FlagWildcard is the "\*" entry of a PERMANENTFLAGS code.
	FlagWildcard Flag = "\\*"
)

// IsValidFlag reports whether s satisfies flag / flag-keyword /
// flag-extension, or is the PERMANENTFLAGS wildcard.
func IsValidFlag(s string) bool {
	if s == string(FlagWildcard) {
		return true
	}
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' {
			if i != 0 {
				return false
			}
		} else if !imapwire.IsAtomChar(ch) {
			return false
		}
	}
	return s != "\\"
}

// MailboxAttr is a mailbox name attribute carried in LIST and LSUB
// responses. Attributes are defined in RFC 3501 section 7.2.2.
type MailboxAttr string

const (
	// It is not possible for any child levels of hierarchy to exist under
	// this name.
	MailboxAttrNoInferiors MailboxAttr = "\\Noinferiors"
	// It is not possible to use this name as a selectable mailbox.
	MailboxAttrNoSelect MailboxAttr = "\\Noselect"
	// The mailbox has been marked "interesting" by the server.
	MailboxAttrMarked MailboxAttr = "\\Marked"
	// The mailbox does not contain any additional messages since the last
	// time it was selected.
	MailboxAttrUnmarked MailboxAttr = "\\Unmarked"
)
