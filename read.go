package imap

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/coalooball/imap-codec/internal/imapwire"
)

// bodyDepthLimit bounds the recursion of nested body structures, body
// extensions and search keys, so that adversarial input cannot overflow
// the stack.
const bodyDepthLimit = 32

func isSeqSetChar(ch byte) bool {
	return ch >= '0' && ch <= '9' || ch == ':' || ch == ',' || ch == '*'
}

func isBase64Char(ch byte) bool {
	return ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' ||
		ch >= '0' && ch <= '9' || ch == '+' || ch == '/' || ch == '='
}

// expectEnd requires the line terminator that completes a message. Leftover
// bytes at this point are trailing garbage, not a plain grammar violation,
// so callers can tell a stray suffix apart from a malformed production.
func expectEnd(dec *imapwire.Decoder) bool {
	if dec.CRLF() {
		return true
	}
	if dec.Err() != nil {
		return false
	}
	return dec.Failf(TrailingGarbage, "trailing bytes before CRLF")
}

// readString parses the string production: a quoted string or a literal.
func readString(dec *imapwire.Decoder) (String, bool) {
	b, ok := dec.PeekByte()
	if !ok {
		return String{}, false
	}
	switch b {
	case '"':
		var s string
		if !dec.Quoted(&s) {
			return String{}, false
		}
		return Quoted(s), true
	case '{', '~':
		var data []byte
		var info imapwire.LiteralInfo
		if !dec.Literal(&data, &info) {
			return String{}, false
		}
		return String{
			Value:    string(data),
			Form:     FormLiteral,
			Literal8: info.Literal8,
			NonSync:  info.NonSync,
		}, true
	}
	return String{}, false
}

// readAString parses the astring production.
func readAString(dec *imapwire.Decoder) (String, bool) {
	b, ok := dec.PeekByte()
	if !ok {
		return String{}, false
	}
	if b == '"' || b == '{' || b == '~' {
		return readString(dec)
	}
	var atom string
	if !dec.AStringAtom(&atom) {
		return String{}, false
	}
	return Atom(atom), true
}

func expectAString(dec *imapwire.Decoder) (String, bool) {
	s, ok := readAString(dec)
	if !ok {
		dec.Expect(false, "astring")
	}
	return s, ok
}

// readNString parses the nstring production: NIL or a string.
func readNString(dec *imapwire.Decoder) (NString, bool) {
	b, ok := dec.PeekByte()
	if !ok {
		return NString{}, false
	}
	if b == 'N' || b == 'n' {
		var atom string
		if !dec.ExpectAtom(&atom) {
			return NString{}, false
		}
		if !strings.EqualFold(atom, "NIL") {
			dec.Failf(GrammarViolation, "expected NIL, got %q", atom)
			return NString{}, false
		}
		return NilString(), true
	}
	s, ok := readString(dec)
	if !ok {
		dec.Expect(false, "nstring")
		return NString{}, false
	}
	return NString{String: s}, true
}

func readMailbox(dec *imapwire.Decoder) (Mailbox, bool) {
	s, ok := expectAString(dec)
	if !ok {
		return Mailbox{}, false
	}
	return mailboxFromString(s), true
}

func readListMailbox(dec *imapwire.Decoder) (ListMailbox, bool) {
	b, ok := dec.PeekByte()
	if !ok {
		return ListMailbox{}, false
	}
	if b == '"' || b == '{' || b == '~' {
		s, ok := readString(dec)
		return ListMailbox{Str: s}, ok
	}
	var token string
	if !dec.Expect(dec.ListChars(&token), "list-mailbox") {
		return ListMailbox{}, false
	}
	return ListMailbox{Token: token}, true
}

// readFlag parses a single flag. The PERMANENTFLAGS wildcard "\*" is only
// accepted when perm is set.
func readFlag(dec *imapwire.Decoder, perm bool) (Flag, bool) {
	if dec.Special('\\') {
		if perm && dec.Special('*') {
			return FlagWildcard, true
		}
		var name string
		if !dec.ExpectAtom(&name) {
			return "", false
		}
		return Flag("\\" + name), true
	}
	if dec.Err() != nil {
		return "", false
	}
	var name string
	if !dec.ExpectAtom(&name) {
		return "", false
	}
	return Flag(name), true
}

// readFlagList parses "(" [flag list] ")".
func readFlagList(dec *imapwire.Decoder, perm bool) ([]Flag, bool) {
	flags := []Flag{}
	ok := dec.ExpectList(func() bool {
		flag, ok := readFlag(dec, perm)
		if !ok {
			return false
		}
		flags = append(flags, flag)
		return true
	})
	return flags, ok
}

func readSeqSet(dec *imapwire.Decoder) (SeqSet, bool) {
	var token string
	if !dec.Expect(dec.TakeWhile1(isSeqSetChar, &token), "sequence set") {
		return nil, false
	}
	set, err := ParseSeqSet(token)
	if err != nil {
		dec.Failf(InvalidTerminal, "%v", err)
		return nil, false
	}
	return set, true
}

func readDate(dec *imapwire.Decoder) (time.Time, bool) {
	var s string
	if b, ok := dec.PeekByte(); ok && b == '"' {
		if !dec.Quoted(&s) {
			return time.Time{}, false
		}
	} else if !dec.ExpectAtom(&s) {
		return time.Time{}, false
	}
	t, err := ParseDate(s)
	if err != nil {
		dec.Failf(InvalidTerminal, "%v", err)
		return time.Time{}, false
	}
	return t, true
}

func readDateTime(dec *imapwire.Decoder) (time.Time, bool) {
	var s string
	if !dec.Expect(dec.Quoted(&s), "date-time") {
		return time.Time{}, false
	}
	t, err := ParseDateTime(s)
	if err != nil {
		dec.Failf(InvalidTerminal, "%v", err)
		return time.Time{}, false
	}
	return t, true
}

func readCapability(dec *imapwire.Decoder) (Capability, bool) {
	var atom string
	if !dec.ExpectAtom(&atom) {
		return "", false
	}
	return Capability(strings.ToUpper(atom)), true
}

// readRespText parses resp-text: an optional bracketed code followed by
// text. Under the MissingText quirk a line ending directly after the code
// gets the synthesized text "<missing text>".
func readRespText(dec *imapwire.Decoder, opts *Options) (*Code, string, bool) {
	var code *Code
	if dec.Special('[') {
		var ok bool
		code, ok = readCode(dec, opts)
		if !ok || !dec.ExpectSpecial(']') {
			return nil, "", false
		}
		if !dec.SP() {
			if dec.Err() != nil {
				return nil, "", false
			}
			if opts.MissingText && dec.AtCRLF() {
				return code, "<missing text>", true
			}
			if dec.Err() != nil {
				return nil, "", false
			}
			dec.Expect(false, "SP")
			return nil, "", false
		}
	} else if dec.Err() != nil {
		return nil, "", false
	}
	var text string
	if !dec.ExpectText(&text) {
		return nil, "", false
	}
	return code, text, true
}

// readCode parses the resp-text-code production, after the opening bracket.
// Codes gated behind a disabled extension and unrecognized codes decode as
// CodeOther.
func readCode(dec *imapwire.Decoder, opts *Options) (*Code, bool) {
	var atom string
	if !dec.ExpectKeyword(&atom) {
		return nil, false
	}
	exts := opts.Extensions
	code := &Code{}
	switch strings.ToUpper(atom) {
	case "ALERT":
		code.Kind = CodeAlert
	case "PARSE":
		code.Kind = CodeParse
	case "READ-ONLY":
		code.Kind = CodeReadOnly
	case "READ-WRITE":
		code.Kind = CodeReadWrite
	case "TRYCREATE":
		code.Kind = CodeTryCreate
	case "COMPRESSIONACTIVE":
		code.Kind = CodeCompressionActive
	case "OVERQUOTA":
		code.Kind = CodeOverQuota
	case "TOOBIG":
		code.Kind = CodeTooBig
	case "BADCHARSET":
		code.Kind = CodeBadCharset
		if dec.SP() {
			ok := dec.ExpectList(func() bool {
				s, ok := expectAString(dec)
				if !ok {
					return false
				}
				code.Charsets = append(code.Charsets, Charset(s.Value))
				return true
			})
			if !ok {
				return nil, false
			}
		} else if dec.Err() != nil {
			return nil, false
		}
	case "CAPABILITY":
		code.Kind = CodeCapability
		for dec.SP() {
			cap, ok := readCapability(dec)
			if !ok {
				return nil, false
			}
			code.Caps = append(code.Caps, cap)
		}
		if dec.Err() != nil {
			return nil, false
		}
		if len(code.Caps) == 0 {
			dec.Failf(GrammarViolation, "empty capability list")
			return nil, false
		}
	case "PERMANENTFLAGS":
		code.Kind = CodePermanentFlags
		if !dec.ExpectSP() {
			return nil, false
		}
		flags, ok := readFlagList(dec, true)
		if !ok {
			return nil, false
		}
		code.Flags = flags
	case "UIDNEXT":
		code.Kind = CodeUIDNext
		if !dec.ExpectSP() || !dec.ExpectNZNumber(&code.Num) {
			return nil, false
		}
	case "UIDVALIDITY":
		code.Kind = CodeUIDValidity
		if !dec.ExpectSP() || !dec.ExpectNZNumber(&code.Num) {
			return nil, false
		}
	case "UNSEEN":
		code.Kind = CodeUnseen
		if !dec.ExpectSP() || !dec.ExpectNZNumber(&code.Num) {
			return nil, false
		}
	case "HIGHESTMODSEQ":
		if !exts.Has(ExtCondStoreQResync) {
			return readCodeOther(dec, atom)
		}
		code.Kind = CodeHighestModSeq
		if !dec.ExpectSP() || !dec.ExpectNumber64(&code.ModSeq) {
			return nil, false
		}
	case "NOMODSEQ":
		if !exts.Has(ExtCondStoreQResync) {
			return readCodeOther(dec, atom)
		}
		code.Kind = CodeNoModSeq
	case "CLOSED":
		if !exts.Has(ExtCondStoreQResync) {
			return readCodeOther(dec, atom)
		}
		code.Kind = CodeClosed
	case "MODIFIED":
		if !exts.Has(ExtCondStoreQResync) {
			return readCodeOther(dec, atom)
		}
		code.Kind = CodeModified
		if !dec.ExpectSP() {
			return nil, false
		}
		set, ok := readSeqSet(dec)
		if !ok {
			return nil, false
		}
		code.Modified = set
	case "REFERRAL":
		if !exts.Has(ExtLoginReferrals) && !exts.Has(ExtMailboxReferrals) {
			return readCodeOther(dec, atom)
		}
		code.Kind = CodeReferral
		if !dec.ExpectSP() {
			return nil, false
		}
		var url string
		if !dec.Expect(dec.TakeWhile1(func(ch byte) bool {
			return ch > 0x1f && ch < 0x7f && ch != ']' && ch != ' '
		}, &url), "imap-url") {
			return nil, false
		}
		code.Referral = url
	default:
		return readCodeOther(dec, atom)
	}
	return code, true
}

// readCodeOther consumes the rest of an unrecognized code verbatim:
// [SP 1*<any TEXT-CHAR except "]">].
func readCodeOther(dec *imapwire.Decoder, atom string) (*Code, bool) {
	code := &Code{Kind: CodeOther, Atom: atom}
	if dec.SP() {
		if !dec.Expect(dec.TakeWhile1(func(ch byte) bool {
			return ch != ']' && ch != '\r' && ch != '\n'
		}, &code.Args), "code arguments") {
			return nil, false
		}
	} else if dec.Err() != nil {
		return nil, false
	}
	return code, true
}

// readGreeting parses a complete greeting line.
func readGreeting(dec *imapwire.Decoder, opts *Options) *Greeting {
	if !dec.ExpectSpecial('*') || !dec.ExpectSP() {
		return nil
	}
	var atom string
	if !dec.ExpectKeyword(&atom) {
		return nil
	}
	var kind GreetingKind
	switch strings.ToUpper(atom) {
	case "OK":
		kind = GreetingOK
	case "PREAUTH":
		kind = GreetingPreAuth
	case "BYE":
		kind = GreetingBye
	default:
		dec.Failf(GrammarViolation, "unknown greeting condition %q", atom)
		return nil
	}
	if !dec.ExpectSP() {
		return nil
	}
	code, text, ok := readRespText(dec, opts)
	if !ok || !expectEnd(dec) {
		return nil
	}
	return &Greeting{Kind: kind, Code: code, Text: text}
}

// readContinuation parses a continuation line after the leading "+". The
// line is interpreted as a base64 challenge when its whole payload decodes
// cleanly, else as resp-text.
func readContinuation(dec *imapwire.Decoder, opts *Options) Response {
	if !dec.ExpectSP() {
		return nil
	}
	line, ok := dec.PeekLine()
	if !ok {
		return nil
	}
	valid := true
	for _, ch := range line {
		if !isBase64Char(ch) {
			valid = false
			break
		}
	}
	if valid {
		challenge, err := base64.StdEncoding.DecodeString(string(line))
		if err == nil {
			dec.Advance(len(line))
			if !expectEnd(dec) {
				return nil
			}
			return &ContinuationRequest{Base64: true, Challenge: challenge}
		}
	}
	code, text, ok := readRespText(dec, opts)
	if !ok || !expectEnd(dec) {
		return nil
	}
	return &ContinuationRequest{Code: code, Text: text}
}

// readResponse parses a complete response line, plus any embedded
// literals.
func readResponse(dec *imapwire.Decoder, opts *Options) Response {
	if dec.Special('+') {
		return readContinuation(dec, opts)
	}
	if dec.Err() != nil {
		return nil
	}
	if dec.Special('*') {
		return readUntagged(dec, opts)
	}
	if dec.Err() != nil {
		return nil
	}
	return readTaggedStatus(dec, opts)
}

func readTaggedStatus(dec *imapwire.Decoder, opts *Options) Response {
	var tag string
	if !dec.ExpectTag(&tag) || !dec.ExpectSP() {
		return nil
	}
	var atom string
	if !dec.ExpectKeyword(&atom) {
		return nil
	}
	var kind StatusKind
	switch strings.ToUpper(atom) {
	case "OK":
		kind = StatusOK
	case "NO":
		kind = StatusNo
	case "BAD":
		kind = StatusBad
	default:
		dec.Failf(GrammarViolation, "unknown status condition %q", atom)
		return nil
	}
	if !dec.ExpectSP() {
		return nil
	}
	code, text, ok := readRespText(dec, opts)
	if !ok || !expectEnd(dec) {
		return nil
	}
	return &StatusResponse{Kind: kind, Tag: tag, Code: code, Text: text}
}

func readUntagged(dec *imapwire.Decoder, opts *Options) Response {
	if !dec.ExpectSP() {
		return nil
	}
	b, ok := dec.PeekByte()
	if !ok {
		return nil
	}
	if b >= '0' && b <= '9' {
		return readMessageData(dec, opts)
	}
	var atom string
	if !dec.ExpectKeyword(&atom) {
		return nil
	}
	var resp Response
	switch strings.ToUpper(atom) {
	case "OK", "NO", "BAD", "PREAUTH":
		var kind StatusKind
		switch strings.ToUpper(atom) {
		case "OK":
			kind = StatusOK
		case "NO":
			kind = StatusNo
		case "BAD":
			kind = StatusBad
		case "PREAUTH":
			kind = StatusPreAuth
		}
		if !dec.ExpectSP() {
			return nil
		}
		code, text, ok := readRespText(dec, opts)
		if !ok {
			return nil
		}
		resp = &StatusResponse{Kind: kind, Code: code, Text: text}
	case "BYE":
		if !dec.ExpectSP() {
			return nil
		}
		code, text, ok := readRespText(dec, opts)
		if !ok {
			return nil
		}
		resp = &StatusResponse{Kind: StatusBye, Code: code, Text: text}
	case "FLAGS":
		if !dec.ExpectSP() {
			return nil
		}
		flags, ok := readFlagList(dec, false)
		if !ok {
			return nil
		}
		resp = &FlagsData{Flags: flags}
	case "LIST", "LSUB":
		data, ok := readMailboxList(dec)
		if !ok {
			return nil
		}
		data.Lsub = strings.EqualFold(atom, "LSUB")
		resp = data
	case "SEARCH":
		data := &SearchData{}
		for dec.SP() {
			var num uint32
			if !dec.ExpectNZNumber(&num) {
				return nil
			}
			data.Nums = append(data.Nums, num)
		}
		if dec.Err() != nil {
			return nil
		}
		resp = data
	case "STATUS":
		data, ok := readStatusData(dec, opts)
		if !ok {
			return nil
		}
		resp = data
	case "CAPABILITY":
		data := &CapabilityData{}
		for dec.SP() {
			cap, ok := readCapability(dec)
			if !ok {
				return nil
			}
			data.Caps = append(data.Caps, cap)
		}
		if dec.Err() != nil {
			return nil
		}
		if len(data.Caps) == 0 {
			dec.Failf(GrammarViolation, "empty capability list")
			return nil
		}
		resp = data
	case "ENABLED":
		data := &EnabledData{}
		for dec.SP() {
			cap, ok := readCapability(dec)
			if !ok {
				return nil
			}
			data.Caps = append(data.Caps, cap)
		}
		if dec.Err() != nil {
			return nil
		}
		resp = data
	case "VANISHED":
		if !opts.Extensions.Has(ExtCondStoreQResync) {
			dec.Failf(UnknownResponseCode, "unknown response %q", atom)
			return nil
		}
		data := &VanishedData{}
		if !dec.ExpectSP() {
			return nil
		}
		if dec.Special('(') {
			var earlier string
			if !dec.ExpectKeyword(&earlier) || !dec.ExpectSpecial(')') || !dec.ExpectSP() {
				return nil
			}
			if !strings.EqualFold(earlier, "EARLIER") {
				dec.Failf(GrammarViolation, "unknown VANISHED modifier %q", earlier)
				return nil
			}
			data.Earlier = true
		} else if dec.Err() != nil {
			return nil
		}
		uids, ok := readSeqSet(dec)
		if !ok {
			return nil
		}
		data.UIDs = uids
		resp = data
	default:
		dec.Failf(UnknownResponseCode, "unknown response %q", atom)
		return nil
	}
	if !expectEnd(dec) {
		return nil
	}
	return resp
}

// readMessageData parses message-data and the number-prefixed mailbox-data
// forms: "nz-number SP (EXPUNGE / EXISTS / RECENT / FETCH ...)".
func readMessageData(dec *imapwire.Decoder, opts *Options) Response {
	var num uint32
	if !dec.ExpectNumber(&num) || !dec.ExpectSP() {
		return nil
	}
	var atom string
	if !dec.ExpectKeyword(&atom) {
		return nil
	}
	var resp Response
	switch strings.ToUpper(atom) {
	case "EXISTS":
		resp = &ExistsData{Count: num}
	case "RECENT":
		resp = &RecentData{Count: num}
	case "EXPUNGE":
		resp = &ExpungeData{SeqNum: num}
	case "FETCH":
		if !dec.ExpectSP() {
			return nil
		}
		items, ok := readMsgAtt(dec, opts)
		if !ok {
			return nil
		}
		resp = &FetchData{SeqNum: num, Items: items}
	default:
		dec.Failf(UnknownResponseCode, "unknown response %q", atom)
		return nil
	}
	if !expectEnd(dec) {
		return nil
	}
	return resp
}

// readMailboxList parses mailbox-list, after the LIST or LSUB keyword.
func readMailboxList(dec *imapwire.Decoder) (*ListData, bool) {
	if !dec.ExpectSP() {
		return nil, false
	}
	data := &ListData{}
	ok := dec.ExpectList(func() bool {
		flag, ok := readFlag(dec, false)
		if !ok {
			return false
		}
		data.Attrs = append(data.Attrs, MailboxAttr(flag))
		return true
	})
	if !ok || !dec.ExpectSP() {
		return nil, false
	}
	if b, ok := dec.PeekByte(); ok && b == '"' {
		var delim string
		if !dec.Quoted(&delim) {
			return nil, false
		}
		if len(delim) != 1 {
			dec.Failf(InvalidTerminal, "hierarchy delimiter %q is not a single character", delim)
			return nil, false
		}
		data.Delim = delim[0]
	} else {
		if dec.Err() != nil {
			return nil, false
		}
		var atom string
		if !dec.ExpectAtom(&atom) {
			return nil, false
		}
		if !strings.EqualFold(atom, "NIL") {
			dec.Failf(GrammarViolation, "expected NIL or quoted delimiter, got %q", atom)
			return nil, false
		}
	}
	if !dec.ExpectSP() {
		return nil, false
	}
	mbox, ok := readMailbox(dec)
	if !ok {
		return nil, false
	}
	data.Mailbox = mbox
	return data, true
}

// readStatusData parses the STATUS reply payload, after the keyword.
func readStatusData(dec *imapwire.Decoder, opts *Options) (*StatusData, bool) {
	if !dec.ExpectSP() {
		return nil, false
	}
	mbox, ok := readMailbox(dec)
	if !ok || !dec.ExpectSP() {
		return nil, false
	}
	data := &StatusData{Mailbox: mbox}
	ok = dec.ExpectList(func() bool {
		var atom string
		if !dec.ExpectKeyword(&atom) || !dec.ExpectSP() {
			return false
		}
		item := StatusItem(strings.ToUpper(atom))
		switch item {
		case StatusMessages, StatusRecent, StatusUIDNext, StatusUIDValidity, StatusUnseen:
			var num uint32
			if !dec.ExpectNumber(&num) {
				return false
			}
			data.Items = append(data.Items, StatusItemValue{Item: item, Value: uint64(num)})
		case StatusHighestModSeq:
			if !opts.Extensions.Has(ExtCondStoreQResync) {
				dec.Failf(GrammarViolation, "unknown status item %q", atom)
				return false
			}
			var num uint64
			if !dec.ExpectNumber64(&num) {
				return false
			}
			data.Items = append(data.Items, StatusItemValue{Item: item, Value: num})
		default:
			dec.Failf(GrammarViolation, "unknown status item %q", atom)
			return false
		}
		return true
	})
	return data, ok
}

// readAuthenticateData parses a single SASL exchange line.
func readAuthenticateData(dec *imapwire.Decoder) *AuthenticateData {
	if dec.Special('*') {
		if !expectEnd(dec) {
			return nil
		}
		return &AuthenticateData{Cancel: true}
	}
	if dec.Err() != nil {
		return nil
	}
	line, ok := dec.PeekLine()
	if !ok {
		return nil
	}
	for _, ch := range line {
		if !isBase64Char(ch) {
			dec.Failf(InvalidTerminal, "invalid base64 byte %q", ch)
			return nil
		}
	}
	data, err := base64.StdEncoding.DecodeString(string(line))
	if err != nil {
		dec.Failf(InvalidTerminal, "invalid base64: %v", err)
		return nil
	}
	dec.Advance(len(line))
	if !expectEnd(dec) {
		return nil
	}
	return &AuthenticateData{Data: data}
}
