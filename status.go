package imap

// StatusItem is a mailbox status data item requested by and reported for
// the STATUS command.
type StatusItem string

const (
	StatusMessages    StatusItem = "MESSAGES"
	StatusRecent      StatusItem = "RECENT"
	StatusUIDNext     StatusItem = "UIDNEXT"
	StatusUIDValidity StatusItem = "UIDVALIDITY"
	StatusUnseen      StatusItem = "UNSEEN"
	// StatusHighestModSeq requires ExtCondStoreQResync.
	StatusHighestModSeq StatusItem = "HIGHESTMODSEQ"
)

// StatusItemValue is one "item number" pair of a STATUS response.
//
// The pair representation keeps the server's item ordering so a decoded
// response re-encodes verbatim.
type StatusItemValue struct {
	Item StatusItem
	// Value holds the counter; HIGHESTMODSEQ is the only 64-bit item.
	Value uint64
}
