package imap

// CodeKind identifies a response code variant.
type CodeKind int

const (
	// CodeOther is a response code the codec does not know under the active
	// extension set; Atom and Args carry it verbatim.
	CodeOther CodeKind = iota
	CodeAlert
	CodeBadCharset
	CodeCapability
	CodeParse
	CodePermanentFlags
	CodeReadOnly
	CodeReadWrite
	CodeTryCreate
	CodeUIDNext
	CodeUIDValidity
	CodeUnseen
	// CodeCompressionActive is the RFC 4978 COMPRESSIONACTIVE code.
	CodeCompressionActive
	CodeOverQuota
	CodeTooBig

	// CONDSTORE and QRESYNC codes, recognized under ExtCondStoreQResync.
	CodeHighestModSeq
	CodeNoModSeq
	CodeModified
	CodeClosed

	// CodeReferral is recognized under ExtLoginReferrals and
	// ExtMailboxReferrals.
	CodeReferral
)

var codeNames = map[CodeKind]string{
	CodeAlert:             "ALERT",
	CodeBadCharset:        "BADCHARSET",
	CodeCapability:        "CAPABILITY",
	CodeParse:             "PARSE",
	CodePermanentFlags:    "PERMANENTFLAGS",
	CodeReadOnly:          "READ-ONLY",
	CodeReadWrite:         "READ-WRITE",
	CodeTryCreate:         "TRYCREATE",
	CodeUIDNext:           "UIDNEXT",
	CodeUIDValidity:       "UIDVALIDITY",
	CodeUnseen:            "UNSEEN",
	CodeCompressionActive: "COMPRESSIONACTIVE",
	CodeOverQuota:         "OVERQUOTA",
	CodeTooBig:            "TOOBIG",
	CodeHighestModSeq:     "HIGHESTMODSEQ",
	CodeNoModSeq:          "NOMODSEQ",
	CodeModified:          "MODIFIED",
	CodeClosed:            "CLOSED",
	CodeReferral:          "REFERRAL",
}

// String returns the code's keyword. It returns the empty string for
// CodeOther, whose keyword is carried in Code.Atom.
func (kind CodeKind) String() string {
	return codeNames[kind]
}

// A Code is a bracketed response code in a status response or greeting.
//
// Exactly the fields matching Kind are meaningful; the rest stay zero.
type Code struct {
	Kind CodeKind

	// Num is the UIDNEXT, UIDVALIDITY or UNSEEN argument.
	Num uint32
	// ModSeq is the HIGHESTMODSEQ argument.
	ModSeq uint64
	// Flags is the PERMANENTFLAGS argument.
	Flags []Flag
	// Caps is the CAPABILITY argument.
	Caps []Capability
	// Charsets is the BADCHARSET argument; empty when the code carries no
	// parenthesized list.
	Charsets []Charset
	// Modified is the MODIFIED argument: the set of messages that failed an
	// UNCHANGEDSINCE store.
	Modified SeqSet
	// Referral is the REFERRAL argument, an IMAP URL.
	Referral string
	// Atom and Args carry an unrecognized code verbatim. Args is empty when
	// the code has no arguments.
	Atom string
	Args string
}

// CodeUIDValidityOf returns a UIDVALIDITY code.
func CodeUIDValidityOf(v uint32) *Code {
	return &Code{Kind: CodeUIDValidity, Num: v}
}

// CodeUIDNextOf returns a UIDNEXT code.
func CodeUIDNextOf(v uint32) *Code {
	return &Code{Kind: CodeUIDNext, Num: v}
}

// CodeUnseenOf returns an UNSEEN code.
func CodeUnseenOf(v uint32) *Code {
	return &Code{Kind: CodeUnseen, Num: v}
}

// CodeHighestModSeqOf returns a HIGHESTMODSEQ code.
func CodeHighestModSeqOf(v uint64) *Code {
	return &Code{Kind: CodeHighestModSeq, ModSeq: v}
}
