package imap

import "time"

// Command is a single client command: a tag and a typed body.
type Command struct {
	Tag  string
	Body CommandBody
}

// CommandBody is the typed body of a client command.
type CommandBody interface {
	// CommandName returns the upper-case command keyword, e.g. "LOGIN".
	CommandName() string
}

// CapabilityCommand requests the server's capability list.
type CapabilityCommand struct{}

func (*CapabilityCommand) CommandName() string { return "CAPABILITY" }

// NoopCommand does nothing; it is commonly used to poll for updates.
type NoopCommand struct{}

func (*NoopCommand) CommandName() string { return "NOOP" }

// LogoutCommand ends the session.
type LogoutCommand struct{}

func (*LogoutCommand) CommandName() string { return "LOGOUT" }

// StartTLSCommand begins TLS negotiation. The negotiation itself is the
// transport's concern; recognizing the command requires ExtStartTLS.
type StartTLSCommand struct{}

func (*StartTLSCommand) CommandName() string { return "STARTTLS" }

// AuthenticateCommand starts a SASL exchange.
type AuthenticateCommand struct {
	Mechanism AuthMechanism
	// InitialResponse carries a SASL-IR initial response; nil when absent.
	// An empty non-nil slice encodes as "=".
	InitialResponse []byte
}

func (*AuthenticateCommand) CommandName() string { return "AUTHENTICATE" }

// LoginCommand authenticates with a username and password.
type LoginCommand struct {
	Username String
	Password String
}

func (*LoginCommand) CommandName() string { return "LOGIN" }

// SelectCommand opens a mailbox read-write.
type SelectCommand struct {
	Mailbox Mailbox
	// QResync is the optional "(QRESYNC ...)" parameter, requiring
	// ExtCondStoreQResync.
	QResync *QResyncParam
	// CondStore is the optional "(CONDSTORE)" parameter.
	CondStore bool
}

func (*SelectCommand) CommandName() string { return "SELECT" }

// QResyncParam is the QRESYNC parameter of SELECT and EXAMINE.
type QResyncParam struct {
	UIDValidity uint32
	ModSeq      uint64
	// KnownUIDs is the optional known-uids set.
	KnownUIDs SeqSet
}

// ExamineCommand opens a mailbox read-only.
type ExamineCommand struct {
	Mailbox   Mailbox
	QResync   *QResyncParam
	CondStore bool
}

func (*ExamineCommand) CommandName() string { return "EXAMINE" }

// CreateCommand creates a mailbox.
type CreateCommand struct {
	Mailbox Mailbox
}

func (*CreateCommand) CommandName() string { return "CREATE" }

// DeleteCommand deletes a mailbox.
type DeleteCommand struct {
	Mailbox Mailbox
}

func (*DeleteCommand) CommandName() string { return "DELETE" }

// RenameCommand renames a mailbox.
type RenameCommand struct {
	Mailbox Mailbox
	NewName Mailbox
}

func (*RenameCommand) CommandName() string { return "RENAME" }

// SubscribeCommand adds a mailbox to the subscription list.
type SubscribeCommand struct {
	Mailbox Mailbox
}

func (*SubscribeCommand) CommandName() string { return "SUBSCRIBE" }

// UnsubscribeCommand removes a mailbox from the subscription list.
type UnsubscribeCommand struct {
	Mailbox Mailbox
}

func (*UnsubscribeCommand) CommandName() string { return "UNSUBSCRIBE" }

// ListCommand lists mailboxes matching a pattern.
type ListCommand struct {
	Ref     Mailbox
	Pattern ListMailbox
}

func (*ListCommand) CommandName() string { return "LIST" }

// LsubCommand lists subscribed mailboxes matching a pattern.
type LsubCommand struct {
	Ref     Mailbox
	Pattern ListMailbox
}

func (*LsubCommand) CommandName() string { return "LSUB" }

// StatusCommand requests status items of a mailbox.
type StatusCommand struct {
	Mailbox Mailbox
	Items   []StatusItem
}

func (*StatusCommand) CommandName() string { return "STATUS" }

// AppendCommand appends a message to a mailbox.
type AppendCommand struct {
	Mailbox Mailbox
	// Flags is the optional flag list; nil when absent (an explicit empty
	// list is kept as a non-nil empty slice).
	Flags []Flag
	// InternalDate is the optional date-time; the zero time when absent.
	InternalDate time.Time
	// Message is the message literal.
	Message String
}

func (*AppendCommand) CommandName() string { return "APPEND" }

// CheckCommand requests a checkpoint of the selected mailbox.
type CheckCommand struct{}

func (*CheckCommand) CommandName() string { return "CHECK" }

// CloseCommand closes the selected mailbox, expunging deleted messages.
type CloseCommand struct{}

func (*CloseCommand) CommandName() string { return "CLOSE" }

// UnselectCommand closes the selected mailbox without expunging.
type UnselectCommand struct{}

func (*UnselectCommand) CommandName() string { return "UNSELECT" }

// ExpungeCommand permanently removes deleted messages. UID EXPUNGE
// restricts the operation to the given UID set.
type ExpungeCommand struct {
	// UID marks the UID EXPUNGE form; UIDs is its set.
	UID  bool
	UIDs SeqSet
}

func (*ExpungeCommand) CommandName() string { return "EXPUNGE" }

// SearchCommand searches the mailbox. The keys form an implicit
// conjunction.
type SearchCommand struct {
	UID bool
	// Charset is the optional CHARSET argument.
	Charset Charset
	Keys    []SearchKey
}

func (*SearchCommand) CommandName() string { return "SEARCH" }

// FetchCommand retrieves message data items.
type FetchCommand struct {
	UID    bool
	SeqSet SeqSet
	// Macro is set when a macro was used instead of an item list.
	Macro FetchMacro
	Items []FetchItem
	// ChangedSince is the CONDSTORE "(CHANGEDSINCE n)" modifier; zero when
	// absent.
	ChangedSince uint64
	// Vanished is the QRESYNC "VANISHED" modifier, valid only for UID FETCH
	// together with ChangedSince.
	Vanished bool
}

func (*FetchCommand) CommandName() string { return "FETCH" }

// StoreFlagsOp is the operation applied by a STORE command.
type StoreFlagsOp string

const (
	StoreFlagsSet StoreFlagsOp = "FLAGS"
	StoreFlagsAdd StoreFlagsOp = "+FLAGS"
	StoreFlagsDel StoreFlagsOp = "-FLAGS"
)

// StoreCommand alters message flags.
type StoreCommand struct {
	UID    bool
	SeqSet SeqSet
	Op     StoreFlagsOp
	// Silent suppresses the untagged FETCH replies (".SILENT").
	Silent bool
	Flags  []Flag
	// UnchangedSince is the CONDSTORE "(UNCHANGEDSINCE n)" modifier; zero
	// when absent.
	UnchangedSince uint64
}

func (*StoreCommand) CommandName() string { return "STORE" }

// CopyCommand copies messages to another mailbox.
type CopyCommand struct {
	UID     bool
	SeqSet  SeqSet
	Mailbox Mailbox
}

func (*CopyCommand) CommandName() string { return "COPY" }

// IdleCommand asks for real-time updates until the client sends "DONE".
// The DONE follow-up is a framing concern, not part of the command line.
type IdleCommand struct{}

func (*IdleCommand) CommandName() string { return "IDLE" }

// EnableCommand activates capabilities.
type EnableCommand struct {
	Caps []Capability
}

func (*EnableCommand) CommandName() string { return "ENABLE" }

// CompressCommand activates a compression algorithm (RFC 4978).
type CompressCommand struct {
	Algorithm string
}

func (*CompressCommand) CommandName() string { return "COMPRESS" }
