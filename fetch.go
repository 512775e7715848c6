package imap

import "time"

// FetchItem is a message data item that can be requested by a FETCH
// command: a keyword item or a body section.
type FetchItem interface {
	fetchItem()
}

var (
	_ FetchItem = FetchItemKeyword("")
	_ FetchItem = (*FetchItemBodySection)(nil)
)

// FetchItemKeyword is a FETCH item described by a single keyword.
type FetchItemKeyword string

func (FetchItemKeyword) fetchItem() {}

var (
	FetchItemBody          FetchItem = FetchItemKeyword("BODY")
	FetchItemBodyStructure FetchItem = FetchItemKeyword("BODYSTRUCTURE")
	FetchItemEnvelope      FetchItem = FetchItemKeyword("ENVELOPE")
	FetchItemFlags         FetchItem = FetchItemKeyword("FLAGS")
	FetchItemInternalDate  FetchItem = FetchItemKeyword("INTERNALDATE")
	FetchItemRFC822        FetchItem = FetchItemKeyword("RFC822")
	FetchItemRFC822Header  FetchItem = FetchItemKeyword("RFC822.HEADER")
	FetchItemRFC822Size    FetchItem = FetchItemKeyword("RFC822.SIZE")
	FetchItemRFC822Text    FetchItem = FetchItemKeyword("RFC822.TEXT")
	FetchItemUID           FetchItem = FetchItemKeyword("UID")
	// FetchItemModSeq requires ExtCondStoreQResync.
	FetchItemModSeq FetchItem = FetchItemKeyword("MODSEQ")
)

// FetchMacro is a FETCH macro expanding to a fixed item list. A macro must
// be used by itself.
type FetchMacro string

const (
	// FetchMacroAll is shorthand for (FLAGS INTERNALDATE RFC822.SIZE
	// ENVELOPE).
	FetchMacroAll FetchMacro = "ALL"
	// FetchMacroFast is shorthand for (FLAGS INTERNALDATE RFC822.SIZE).
	FetchMacroFast FetchMacro = "FAST"
	// FetchMacroFull is shorthand for (FLAGS INTERNALDATE RFC822.SIZE
	// ENVELOPE BODY).
	FetchMacroFull FetchMacro = "FULL"
)

// Expand returns the item list the macro stands for.
func (m FetchMacro) Expand() []FetchItem {
	switch m {
	case FetchMacroAll:
		return []FetchItem{FetchItemFlags, FetchItemInternalDate, FetchItemRFC822Size, FetchItemEnvelope}
	case FetchMacroFast:
		return []FetchItem{FetchItemFlags, FetchItemInternalDate, FetchItemRFC822Size}
	case FetchMacroFull:
		return []FetchItem{FetchItemFlags, FetchItemInternalDate, FetchItemRFC822Size, FetchItemEnvelope, FetchItemBody}
	default:
		return nil
	}
}

// PartSpecifier is the trailing specifier of a body section.
type PartSpecifier string

const (
	PartSpecifierNone            PartSpecifier = ""
	PartSpecifierHeader          PartSpecifier = "HEADER"
	PartSpecifierHeaderFields    PartSpecifier = "HEADER.FIELDS"
	PartSpecifierHeaderFieldsNot PartSpecifier = "HEADER.FIELDS.NOT"
	PartSpecifierMIME            PartSpecifier = "MIME"
	PartSpecifierText            PartSpecifier = "TEXT"
)

// SectionPartial is the "<offset.size>" suffix of a body section request.
type SectionPartial struct {
	Offset, Size uint32
}

// FetchItemBodySection is a FETCH BODY[...] data item.
type FetchItemBodySection struct {
	// Part is the dotted part number path, empty for the whole message.
	Part []int
	// Specifier addresses the header, text or MIME fields of the part.
	Specifier PartSpecifier
	// HeaderFields holds the field names of HEADER.FIELDS and
	// HEADER.FIELDS.NOT specifiers.
	HeaderFields []String
	// Partial requests a substring of the section.
	Partial *SectionPartial
	// Peek selects BODY.PEEK, which does not set the \Seen flag.
	Peek bool
}

func (*FetchItemBodySection) fetchItem() {}

// FetchItemData is one message data item of a FETCH response.
type FetchItemData interface {
	fetchItemData()
}

var (
	_ FetchItemData = FetchItemDataFlags(nil)
	_ FetchItemData = (*FetchItemDataEnvelope)(nil)
	_ FetchItemData = (*FetchItemDataInternalDate)(nil)
	_ FetchItemData = (*FetchItemDataRFC822)(nil)
	_ FetchItemData = (*FetchItemDataRFC822Size)(nil)
	_ FetchItemData = (*FetchItemDataBodyStructure)(nil)
	_ FetchItemData = (*FetchItemDataBodySection)(nil)
	_ FetchItemData = (*FetchItemDataUID)(nil)
	_ FetchItemData = (*FetchItemDataModSeq)(nil)
)

// FetchItemDataFlags is the FLAGS item of a FETCH response.
type FetchItemDataFlags []Flag

func (FetchItemDataFlags) fetchItemData() {}

// FetchItemDataEnvelope is the ENVELOPE item of a FETCH response.
type FetchItemDataEnvelope struct {
	Envelope *Envelope
}

func (*FetchItemDataEnvelope) fetchItemData() {}

// FetchItemDataInternalDate is the INTERNALDATE item of a FETCH response.
type FetchItemDataInternalDate struct {
	Time time.Time
}

func (*FetchItemDataInternalDate) fetchItemData() {}

// RFC822Kind selects between the RFC822 family of fetch items.
type RFC822Kind string

const (
	RFC822Full   RFC822Kind = "RFC822"
	RFC822Header RFC822Kind = "RFC822.HEADER"
	RFC822Text   RFC822Kind = "RFC822.TEXT"
)

// FetchItemDataRFC822 is an RFC822, RFC822.HEADER or RFC822.TEXT item of a
// FETCH response.
type FetchItemDataRFC822 struct {
	Kind RFC822Kind
	Data NString
}

func (*FetchItemDataRFC822) fetchItemData() {}

// FetchItemDataRFC822Size is the RFC822.SIZE item of a FETCH response.
type FetchItemDataRFC822Size struct {
	Size uint32
}

func (*FetchItemDataRFC822Size) fetchItemData() {}

// FetchItemDataBodyStructure is the BODY or BODYSTRUCTURE item of a FETCH
// response.
type FetchItemDataBodyStructure struct {
	BodyStructure BodyStructure
	// Extended is set for BODYSTRUCTURE, the form that may carry extension
	// data.
	Extended bool
}

func (*FetchItemDataBodyStructure) fetchItemData() {}

// FetchItemDataBodySection is a BODY[...] item of a FETCH response.
type FetchItemDataBodySection struct {
	Section *FetchItemBodySection
	// Origin is the "<offset>" marker of a partial response.
	Origin *uint32
	Data   NString
}

func (*FetchItemDataBodySection) fetchItemData() {}

// FetchItemDataUID is the UID item of a FETCH response.
type FetchItemDataUID struct {
	UID uint32
}

func (*FetchItemDataUID) fetchItemData() {}

// FetchItemDataModSeq is the MODSEQ item of a FETCH response, requiring
// ExtCondStoreQResync.
type FetchItemDataModSeq struct {
	ModSeq uint64
}

func (*FetchItemDataModSeq) fetchItemData() {}
