package imap

import "time"

// SearchKeyKind identifies a search key variant.
type SearchKeyKind int

const (
	// SearchSeqSet matches the messages in SeqSet.
	SearchSeqSet SearchKeyKind = iota
	// SearchList is a parenthesized key list, matching their conjunction.
	SearchList

	SearchAll
	SearchAnswered
	SearchDeleted
	SearchDraft
	SearchFlagged
	SearchNew
	SearchOld
	SearchRecent
	SearchSeen
	SearchUnanswered
	SearchUndeleted
	SearchUndraft
	SearchUnflagged
	SearchUnseen

	// SearchKeyword and SearchUnkeyword match a keyword flag in Flag.
	SearchKeyword
	SearchUnkeyword

	// Astring-valued keys; Str carries the value.
	SearchBcc
	SearchBody
	SearchCc
	SearchFrom
	SearchSubject
	SearchText
	SearchTo

	// SearchHeader matches a header field; Header carries the field name,
	// Str the value.
	SearchHeader

	// Date-valued keys; Date carries the day.
	SearchBefore
	SearchOn
	SearchSince
	SearchSentBefore
	SearchSentOn
	SearchSentSince

	// Number-valued keys; Num carries the octet count.
	SearchLarger
	SearchSmaller

	// SearchNot negates its single child key.
	SearchNot
	// SearchOr matches the disjunction of its two child keys.
	SearchOr

	// SearchUID matches UIDs in SeqSet.
	SearchUID

	// SearchModSeq matches messages with a mod-sequence of at least ModSeq,
	// requiring ExtCondStoreQResync.
	SearchModSeq
)

// SearchKey is one key of a SEARCH command, mirroring the grammar so that
// a decoded key list re-encodes with its structure intact.
type SearchKey struct {
	Kind SearchKeyKind

	// Keys holds the children of SearchList (one or more), SearchNot
	// (exactly one) and SearchOr (exactly two).
	Keys []SearchKey
	// SeqSet is the argument of SearchSeqSet and SearchUID.
	SeqSet SeqSet
	// Flag is the argument of SearchKeyword and SearchUnkeyword.
	Flag Flag
	// Str is the value argument of the astring-valued keys and
	// SearchHeader.
	Str String
	// Header is the field name argument of SearchHeader.
	Header String
	// Date is the argument of the date-valued keys.
	Date time.Time
	// Num is the argument of SearchLarger and SearchSmaller.
	Num uint32
	// ModSeq is the argument of SearchModSeq.
	ModSeq uint64
}

var searchKeyNames = map[SearchKeyKind]string{
	SearchAll:        "ALL",
	SearchAnswered:   "ANSWERED",
	SearchDeleted:    "DELETED",
	SearchDraft:      "DRAFT",
	SearchFlagged:    "FLAGGED",
	SearchNew:        "NEW",
	SearchOld:        "OLD",
	SearchRecent:     "RECENT",
	SearchSeen:       "SEEN",
	SearchUnanswered: "UNANSWERED",
	SearchUndeleted:  "UNDELETED",
	SearchUndraft:    "UNDRAFT",
	SearchUnflagged:  "UNFLAGGED",
	SearchUnseen:     "UNSEEN",
	SearchKeyword:    "KEYWORD",
	SearchUnkeyword:  "UNKEYWORD",
	SearchBcc:        "BCC",
	SearchBody:       "BODY",
	SearchCc:         "CC",
	SearchFrom:       "FROM",
	SearchSubject:    "SUBJECT",
	SearchText:       "TEXT",
	SearchTo:         "TO",
	SearchHeader:     "HEADER",
	SearchBefore:     "BEFORE",
	SearchOn:         "ON",
	SearchSince:      "SINCE",
	SearchSentBefore: "SENTBEFORE",
	SearchSentOn:     "SENTON",
	SearchSentSince:  "SENTSINCE",
	SearchLarger:     "LARGER",
	SearchSmaller:    "SMALLER",
	SearchNot:        "NOT",
	SearchOr:         "OR",
	SearchUID:        "UID",
	SearchModSeq:     "MODSEQ",
}
