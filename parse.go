package imap

import (
	"encoding/base64"
	"strings"

	"github.com/coalooball/imap-codec/internal/imapwire"
)

// readCommand parses a complete command line, plus any embedded literals.
func readCommand(dec *imapwire.Decoder, opts *Options) *Command {
	var tag string
	if !dec.ExpectTag(&tag) || !dec.ExpectSP() {
		return nil
	}
	var name string
	if !dec.ExpectKeyword(&name) {
		return nil
	}
	var uid bool
	if strings.EqualFold(name, "UID") {
		uid = true
		if !dec.ExpectSP() || !dec.ExpectKeyword(&name) {
			return nil
		}
	}
	body := readCommandBody(dec, opts, strings.ToUpper(name), uid)
	if body == nil {
		return nil
	}
	if !expectEnd(dec) {
		return nil
	}
	return &Command{Tag: tag, Body: body}
}

func readCommandBody(dec *imapwire.Decoder, opts *Options, name string, uid bool) CommandBody {
	if uid {
		switch name {
		case "FETCH", "STORE", "COPY", "SEARCH", "EXPUNGE":
		default:
			dec.Failf(UnknownCommand, "unknown UID command %q", name)
			return nil
		}
	}
	switch name {
	case "CAPABILITY":
		return &CapabilityCommand{}
	case "NOOP":
		return &NoopCommand{}
	case "LOGOUT":
		return &LogoutCommand{}
	case "CHECK":
		return &CheckCommand{}
	case "CLOSE":
		return &CloseCommand{}
	case "UNSELECT":
		return &UnselectCommand{}
	case "IDLE":
		return &IdleCommand{}
	case "STARTTLS":
		if !opts.Extensions.Has(ExtStartTLS) {
			dec.Failf(UnknownCommand, "unknown command %q", name)
			return nil
		}
		return &StartTLSCommand{}
	case "EXPUNGE":
		cmd := &ExpungeCommand{UID: uid}
		if uid {
			if !dec.ExpectSP() {
				return nil
			}
			uids, ok := readSeqSet(dec)
			if !ok {
				return nil
			}
			cmd.UIDs = uids
		}
		return cmd
	case "AUTHENTICATE":
		return readAuthenticateCommand(dec)
	case "LOGIN":
		if !dec.ExpectSP() {
			return nil
		}
		user, ok := expectAString(dec)
		if !ok || !dec.ExpectSP() {
			return nil
		}
		pass, ok := expectAString(dec)
		if !ok {
			return nil
		}
		return &LoginCommand{Username: user, Password: pass}
	case "SELECT", "EXAMINE":
		return readSelectCommand(dec, opts, name)
	case "CREATE", "DELETE", "SUBSCRIBE", "UNSUBSCRIBE":
		if !dec.ExpectSP() {
			return nil
		}
		mbox, ok := readMailbox(dec)
		if !ok {
			return nil
		}
		switch name {
		case "CREATE":
			return &CreateCommand{Mailbox: mbox}
		case "DELETE":
			return &DeleteCommand{Mailbox: mbox}
		case "SUBSCRIBE":
			return &SubscribeCommand{Mailbox: mbox}
		default:
			return &UnsubscribeCommand{Mailbox: mbox}
		}
	case "RENAME":
		if !dec.ExpectSP() {
			return nil
		}
		from, ok := readMailbox(dec)
		if !ok || !dec.ExpectSP() {
			return nil
		}
		to, ok := readMailbox(dec)
		if !ok {
			return nil
		}
		return &RenameCommand{Mailbox: from, NewName: to}
	case "LIST", "LSUB":
		if !dec.ExpectSP() {
			return nil
		}
		ref, ok := readMailbox(dec)
		if !ok || !dec.ExpectSP() {
			return nil
		}
		pattern, ok := readListMailbox(dec)
		if !ok {
			return nil
		}
		if name == "LIST" {
			return &ListCommand{Ref: ref, Pattern: pattern}
		}
		return &LsubCommand{Ref: ref, Pattern: pattern}
	case "STATUS":
		return readStatusCommand(dec, opts)
	case "APPEND":
		return readAppendCommand(dec)
	case "SEARCH":
		return readSearchCommand(dec, opts, uid)
	case "FETCH":
		return readFetchCommand(dec, opts, uid)
	case "STORE":
		return readStoreCommand(dec, opts, uid)
	case "COPY":
		if !dec.ExpectSP() {
			return nil
		}
		set, ok := readSeqSet(dec)
		if !ok || !dec.ExpectSP() {
			return nil
		}
		mbox, ok := readMailbox(dec)
		if !ok {
			return nil
		}
		return &CopyCommand{UID: uid, SeqSet: set, Mailbox: mbox}
	case "ENABLE":
		cmd := &EnableCommand{}
		for dec.SP() {
			cap, ok := readCapability(dec)
			if !ok {
				return nil
			}
			cmd.Caps = append(cmd.Caps, cap)
		}
		if dec.Err() != nil {
			return nil
		}
		if len(cmd.Caps) == 0 {
			dec.Failf(GrammarViolation, "ENABLE requires at least one capability")
			return nil
		}
		return cmd
	case "COMPRESS":
		if !dec.ExpectSP() {
			return nil
		}
		var alg string
		if !dec.ExpectAtom(&alg) {
			return nil
		}
		return &CompressCommand{Algorithm: strings.ToUpper(alg)}
	default:
		dec.Failf(UnknownCommand, "unknown command %q", name)
		return nil
	}
}

func readAuthenticateCommand(dec *imapwire.Decoder) CommandBody {
	if !dec.ExpectSP() {
		return nil
	}
	var mech string
	if !dec.ExpectAtom(&mech) {
		return nil
	}
	cmd := &AuthenticateCommand{Mechanism: NewAuthMechanism(mech)}
	if dec.SP() {
		var token string
		if !dec.Expect(dec.TakeWhile1(isBase64Char, &token), "initial response") {
			return nil
		}
		if token == "=" {
			cmd.InitialResponse = []byte{}
		} else {
			raw, err := base64.StdEncoding.DecodeString(token)
			if err != nil {
				dec.Failf(InvalidTerminal, "invalid base64: %v", err)
				return nil
			}
			cmd.InitialResponse = raw
		}
	} else if dec.Err() != nil {
		return nil
	}
	return cmd
}

func readSelectCommand(dec *imapwire.Decoder, opts *Options, name string) CommandBody {
	if !dec.ExpectSP() {
		return nil
	}
	mbox, ok := readMailbox(dec)
	if !ok {
		return nil
	}
	var condStore bool
	var qresync *QResyncParam
	if dec.SP() {
		ok := dec.ExpectList(func() bool {
			var param string
			if !dec.ExpectKeyword(&param) {
				return false
			}
			switch strings.ToUpper(param) {
			case "CONDSTORE":
				if !opts.Extensions.Has(ExtCondStoreQResync) {
					return dec.Failf(GrammarViolation, "unknown select parameter %q", param)
				}
				condStore = true
				return true
			case "QRESYNC":
				if !opts.Extensions.Has(ExtCondStoreQResync) {
					return dec.Failf(GrammarViolation, "unknown select parameter %q", param)
				}
				q, ok := readQResyncParam(dec)
				if !ok {
					return false
				}
				qresync = q
				return true
			default:
				return dec.Failf(GrammarViolation, "unknown select parameter %q", param)
			}
		})
		if !ok {
			return nil
		}
	} else if dec.Err() != nil {
		return nil
	}
	if name == "SELECT" {
		return &SelectCommand{Mailbox: mbox, QResync: qresync, CondStore: condStore}
	}
	return &ExamineCommand{Mailbox: mbox, QResync: qresync, CondStore: condStore}
}

func readQResyncParam(dec *imapwire.Decoder) (*QResyncParam, bool) {
	if !dec.ExpectSP() || !dec.ExpectSpecial('(') {
		return nil, false
	}
	q := &QResyncParam{}
	if !dec.ExpectNZNumber(&q.UIDValidity) || !dec.ExpectSP() || !dec.ExpectNumber64(&q.ModSeq) {
		return nil, false
	}
	if dec.SP() {
		uids, ok := readSeqSet(dec)
		if !ok {
			return nil, false
		}
		q.KnownUIDs = uids
	} else if dec.Err() != nil {
		return nil, false
	}
	if !dec.ExpectSpecial(')') {
		return nil, false
	}
	return q, true
}

func readStatusCommand(dec *imapwire.Decoder, opts *Options) CommandBody {
	if !dec.ExpectSP() {
		return nil
	}
	mbox, ok := readMailbox(dec)
	if !ok || !dec.ExpectSP() {
		return nil
	}
	cmd := &StatusCommand{Mailbox: mbox}
	ok = dec.ExpectList(func() bool {
		var atom string
		if !dec.ExpectKeyword(&atom) {
			return false
		}
		item := StatusItem(strings.ToUpper(atom))
		switch item {
		case StatusMessages, StatusRecent, StatusUIDNext, StatusUIDValidity, StatusUnseen:
		case StatusHighestModSeq:
			if !opts.Extensions.Has(ExtCondStoreQResync) {
				return dec.Failf(GrammarViolation, "unknown status item %q", atom)
			}
		default:
			return dec.Failf(GrammarViolation, "unknown status item %q", atom)
		}
		cmd.Items = append(cmd.Items, item)
		return true
	})
	if !ok {
		return nil
	}
	if len(cmd.Items) == 0 {
		dec.Failf(GrammarViolation, "STATUS requires at least one item")
		return nil
	}
	return cmd
}

func readAppendCommand(dec *imapwire.Decoder) CommandBody {
	if !dec.ExpectSP() {
		return nil
	}
	mbox, ok := readMailbox(dec)
	if !ok || !dec.ExpectSP() {
		return nil
	}
	cmd := &AppendCommand{Mailbox: mbox}
	if b, ok := dec.PeekByte(); ok && b == '(' {
		flags, ok := readFlagList(dec, false)
		if !ok || !dec.ExpectSP() {
			return nil
		}
		cmd.Flags = flags
	} else if dec.Err() != nil {
		return nil
	}
	if b, ok := dec.PeekByte(); ok && b == '"' {
		t, ok := readDateTime(dec)
		if !ok || !dec.ExpectSP() {
			return nil
		}
		cmd.InternalDate = t
	} else if dec.Err() != nil {
		return nil
	}
	var data []byte
	var info imapwire.LiteralInfo
	if !dec.Expect(dec.Literal(&data, &info), "literal") {
		return nil
	}
	cmd.Message = String{
		Value:    string(data),
		Form:     FormLiteral,
		Literal8: info.Literal8,
		NonSync:  info.NonSync,
	}
	return cmd
}

func readSearchCommand(dec *imapwire.Decoder, opts *Options, uid bool) CommandBody {
	cmd := &SearchCommand{UID: uid}
	if !dec.ExpectSP() {
		return nil
	}
	m := dec.Mark()
	var first string
	if dec.Keyword(&first) && strings.EqualFold(first, "CHARSET") {
		if !dec.ExpectSP() {
			return nil
		}
		cs, ok := expectAString(dec)
		if !ok || !dec.ExpectSP() {
			return nil
		}
		cmd.Charset = Charset(cs.Value)
	} else {
		if dec.Err() != nil {
			return nil
		}
		dec.Reset(m)
	}
	for {
		key, ok := readSearchKey(dec, opts, bodyDepthLimit)
		if !ok {
			return nil
		}
		cmd.Keys = append(cmd.Keys, key)
		if !dec.SP() {
			break
		}
	}
	if dec.Err() != nil {
		return nil
	}
	return cmd
}

func readSearchKey(dec *imapwire.Decoder, opts *Options, depth int) (SearchKey, bool) {
	if depth == 0 {
		dec.Failf(GrammarViolation, "search keys nested too deeply")
		return SearchKey{}, false
	}
	b, ok := dec.PeekByte()
	if !ok {
		return SearchKey{}, false
	}
	if b == '(' {
		key := SearchKey{Kind: SearchList}
		ok := dec.ExpectList(func() bool {
			sub, ok := readSearchKey(dec, opts, depth-1)
			if !ok {
				return false
			}
			key.Keys = append(key.Keys, sub)
			return true
		})
		if !ok {
			return SearchKey{}, false
		}
		if len(key.Keys) == 0 {
			dec.Failf(GrammarViolation, "empty search key list")
			return SearchKey{}, false
		}
		return key, true
	}
	if b >= '0' && b <= '9' || b == '*' {
		set, ok := readSeqSet(dec)
		if !ok {
			return SearchKey{}, false
		}
		return SearchKey{Kind: SearchSeqSet, SeqSet: set}, true
	}
	var atom string
	if !dec.ExpectKeyword(&atom) {
		return SearchKey{}, false
	}
	kind, known := searchKeyKinds[strings.ToUpper(atom)]
	if !known {
		dec.Failf(GrammarViolation, "unknown search key %q", atom)
		return SearchKey{}, false
	}
	key := SearchKey{Kind: kind}
	switch kind {
	case SearchAll, SearchAnswered, SearchDeleted, SearchDraft, SearchFlagged,
		SearchNew, SearchOld, SearchRecent, SearchSeen, SearchUnanswered,
		SearchUndeleted, SearchUndraft, SearchUnflagged, SearchUnseen:
		// No argument.
	case SearchKeyword, SearchUnkeyword:
		if !dec.ExpectSP() {
			return SearchKey{}, false
		}
		flag, ok := readFlag(dec, false)
		if !ok {
			return SearchKey{}, false
		}
		key.Flag = flag
	case SearchBcc, SearchBody, SearchCc, SearchFrom, SearchSubject, SearchText, SearchTo:
		if !dec.ExpectSP() {
			return SearchKey{}, false
		}
		s, ok := expectAString(dec)
		if !ok {
			return SearchKey{}, false
		}
		key.Str = s
	case SearchHeader:
		if !dec.ExpectSP() {
			return SearchKey{}, false
		}
		field, ok := expectAString(dec)
		if !ok || !dec.ExpectSP() {
			return SearchKey{}, false
		}
		value, ok := expectAString(dec)
		if !ok {
			return SearchKey{}, false
		}
		key.Header = field
		key.Str = value
	case SearchBefore, SearchOn, SearchSince, SearchSentBefore, SearchSentOn, SearchSentSince:
		if !dec.ExpectSP() {
			return SearchKey{}, false
		}
		t, ok := readDate(dec)
		if !ok {
			return SearchKey{}, false
		}
		key.Date = t
	case SearchLarger, SearchSmaller:
		if !dec.ExpectSP() || !dec.ExpectNumber(&key.Num) {
			return SearchKey{}, false
		}
	case SearchNot:
		if !dec.ExpectSP() {
			return SearchKey{}, false
		}
		sub, ok := readSearchKey(dec, opts, depth-1)
		if !ok {
			return SearchKey{}, false
		}
		key.Keys = []SearchKey{sub}
	case SearchOr:
		if !dec.ExpectSP() {
			return SearchKey{}, false
		}
		left, ok := readSearchKey(dec, opts, depth-1)
		if !ok || !dec.ExpectSP() {
			return SearchKey{}, false
		}
		right, ok := readSearchKey(dec, opts, depth-1)
		if !ok {
			return SearchKey{}, false
		}
		key.Keys = []SearchKey{left, right}
	case SearchUID:
		if !dec.ExpectSP() {
			return SearchKey{}, false
		}
		set, ok := readSeqSet(dec)
		if !ok {
			return SearchKey{}, false
		}
		key.SeqSet = set
	case SearchModSeq:
		if !opts.Extensions.Has(ExtCondStoreQResync) {
			dec.Failf(GrammarViolation, "unknown search key %q", atom)
			return SearchKey{}, false
		}
		if !dec.ExpectSP() || !dec.ExpectNumber64(&key.ModSeq) {
			return SearchKey{}, false
		}
	}
	return key, true
}

var searchKeyKinds = func() map[string]SearchKeyKind {
	m := make(map[string]SearchKeyKind, len(searchKeyNames))
	for kind, name := range searchKeyNames {
		m[name] = kind
	}
	return m
}()

func readFetchCommand(dec *imapwire.Decoder, opts *Options, uid bool) CommandBody {
	if !dec.ExpectSP() {
		return nil
	}
	set, ok := readSeqSet(dec)
	if !ok || !dec.ExpectSP() {
		return nil
	}
	cmd := &FetchCommand{UID: uid, SeqSet: set}
	if b, ok := dec.PeekByte(); ok && b == '(' {
		ok := dec.ExpectList(func() bool {
			item, ok := readFetchItem(dec, opts)
			if !ok {
				return false
			}
			cmd.Items = append(cmd.Items, item)
			return true
		})
		if !ok {
			return nil
		}
		if len(cmd.Items) == 0 {
			dec.Failf(GrammarViolation, "empty fetch item list")
			return nil
		}
	} else {
		if dec.Err() != nil {
			return nil
		}
		m := dec.Mark()
		var atom string
		if !dec.ExpectKeyword(&atom) {
			return nil
		}
		switch FetchMacro(strings.ToUpper(atom)) {
		case FetchMacroAll, FetchMacroFast, FetchMacroFull:
			cmd.Macro = FetchMacro(strings.ToUpper(atom))
		default:
			dec.Reset(m)
			item, ok := readFetchItem(dec, opts)
			if !ok {
				return nil
			}
			cmd.Items = []FetchItem{item}
		}
	}
	if dec.SP() {
		ok := dec.ExpectList(func() bool {
			var mod string
			if !dec.ExpectKeyword(&mod) {
				return false
			}
			switch strings.ToUpper(mod) {
			case "CHANGEDSINCE":
				if !opts.Extensions.Has(ExtCondStoreQResync) {
					return dec.Failf(GrammarViolation, "unknown fetch modifier %q", mod)
				}
				return dec.ExpectSP() && dec.ExpectNumber64(&cmd.ChangedSince)
			case "VANISHED":
				if !opts.Extensions.Has(ExtCondStoreQResync) || !uid {
					return dec.Failf(GrammarViolation, "unknown fetch modifier %q", mod)
				}
				cmd.Vanished = true
				return true
			default:
				return dec.Failf(GrammarViolation, "unknown fetch modifier %q", mod)
			}
		})
		if !ok {
			return nil
		}
	} else if dec.Err() != nil {
		return nil
	}
	return cmd
}

// readFetchItem parses a fetch-att of a FETCH command.
func readFetchItem(dec *imapwire.Decoder, opts *Options) (FetchItem, bool) {
	var atom string
	if !dec.ExpectKeyword(&atom) {
		return nil, false
	}
	name := strings.ToUpper(atom)
	switch name {
	case "BODY", "BODY.PEEK":
		if b, ok := dec.PeekByte(); ok && b == '[' {
			section, ok := readSection(dec)
			if !ok {
				return nil, false
			}
			section.Peek = name == "BODY.PEEK"
			partial, ok := readSectionPartial(dec)
			if !ok {
				return nil, false
			}
			section.Partial = partial
			return section, true
		}
		if dec.Err() != nil {
			return nil, false
		}
		if name == "BODY.PEEK" {
			dec.Failf(GrammarViolation, "BODY.PEEK requires a section")
			return nil, false
		}
		return FetchItemBody, true
	case "BODYSTRUCTURE", "ENVELOPE", "FLAGS", "INTERNALDATE", "RFC822",
		"RFC822.HEADER", "RFC822.SIZE", "RFC822.TEXT", "UID":
		return FetchItemKeyword(name), true
	case "MODSEQ":
		if !opts.Extensions.Has(ExtCondStoreQResync) {
			dec.Failf(GrammarViolation, "unknown fetch item %q", atom)
			return nil, false
		}
		return FetchItemKeyword(name), true
	default:
		dec.Failf(GrammarViolation, "unknown fetch item %q", atom)
		return nil, false
	}
}

// readSection parses "[" section "]".
func readSection(dec *imapwire.Decoder) (*FetchItemBodySection, bool) {
	if !dec.ExpectSpecial('[') {
		return nil, false
	}
	section := &FetchItemBodySection{}
	if dec.Special(']') {
		return section, true
	}
	if dec.Err() != nil {
		return nil, false
	}
	for {
		b, ok := dec.PeekByte()
		if !ok {
			return nil, false
		}
		if b < '0' || b > '9' {
			break
		}
		var num uint32
		if !dec.ExpectNZNumber(&num) {
			return nil, false
		}
		section.Part = append(section.Part, int(num))
		if !dec.Special('.') {
			if dec.Err() != nil {
				return nil, false
			}
			if !dec.ExpectSpecial(']') {
				return nil, false
			}
			return section, true
		}
	}
	var atom string
	if !dec.Expect(dec.TakeWhile1(func(ch byte) bool {
		return imapwire.IsAtomChar(ch)
	}, &atom), "section specifier") {
		return nil, false
	}
	switch spec := PartSpecifier(strings.ToUpper(atom)); spec {
	case PartSpecifierHeader, PartSpecifierText:
		section.Specifier = spec
	case PartSpecifierMIME:
		if len(section.Part) == 0 {
			dec.Failf(GrammarViolation, "MIME requires a part number")
			return nil, false
		}
		section.Specifier = spec
	case PartSpecifierHeaderFields, PartSpecifierHeaderFieldsNot:
		section.Specifier = spec
		if !dec.ExpectSP() {
			return nil, false
		}
		ok := dec.ExpectList(func() bool {
			field, ok := expectAString(dec)
			if !ok {
				return false
			}
			section.HeaderFields = append(section.HeaderFields, field)
			return true
		})
		if !ok {
			return nil, false
		}
		if len(section.HeaderFields) == 0 {
			dec.Failf(GrammarViolation, "empty header field list")
			return nil, false
		}
	default:
		dec.Failf(GrammarViolation, "unknown section specifier %q", atom)
		return nil, false
	}
	if !dec.ExpectSpecial(']') {
		return nil, false
	}
	return section, true
}

// readSectionPartial parses the optional "<offset.size>" suffix of a FETCH
// command body section.
func readSectionPartial(dec *imapwire.Decoder) (*SectionPartial, bool) {
	if !dec.Special('<') {
		if dec.Err() != nil {
			return nil, false
		}
		return nil, true
	}
	partial := &SectionPartial{}
	if !dec.ExpectNumber(&partial.Offset) || !dec.ExpectSpecial('.') ||
		!dec.ExpectNZNumber(&partial.Size) || !dec.ExpectSpecial('>') {
		return nil, false
	}
	return partial, true
}

func readStoreCommand(dec *imapwire.Decoder, opts *Options, uid bool) CommandBody {
	if !dec.ExpectSP() {
		return nil
	}
	set, ok := readSeqSet(dec)
	if !ok || !dec.ExpectSP() {
		return nil
	}
	cmd := &StoreCommand{UID: uid, SeqSet: set}
	if dec.Special('(') {
		var mod string
		if !dec.ExpectKeyword(&mod) {
			return nil
		}
		if !strings.EqualFold(mod, "UNCHANGEDSINCE") || !opts.Extensions.Has(ExtCondStoreQResync) {
			dec.Failf(GrammarViolation, "unknown store modifier %q", mod)
			return nil
		}
		if !dec.ExpectSP() || !dec.ExpectNumber64(&cmd.UnchangedSince) ||
			!dec.ExpectSpecial(')') || !dec.ExpectSP() {
			return nil
		}
	} else if dec.Err() != nil {
		return nil
	}
	var op string
	if !dec.ExpectKeyword(&op) {
		return nil
	}
	upper := strings.ToUpper(op)
	if silent := strings.TrimSuffix(upper, ".SILENT"); silent != upper {
		cmd.Silent = true
		upper = silent
	}
	switch StoreFlagsOp(upper) {
	case StoreFlagsSet, StoreFlagsAdd, StoreFlagsDel:
		cmd.Op = StoreFlagsOp(upper)
	default:
		dec.Failf(GrammarViolation, "unknown store operation %q", op)
		return nil
	}
	if !dec.ExpectSP() {
		return nil
	}
	if b, ok := dec.PeekByte(); ok && b == '(' {
		flags, ok := readFlagList(dec, false)
		if !ok {
			return nil
		}
		cmd.Flags = flags
	} else {
		if dec.Err() != nil {
			return nil
		}
		for {
			flag, ok := readFlag(dec, false)
			if !ok {
				return nil
			}
			cmd.Flags = append(cmd.Flags, flag)
			if !dec.SP() {
				break
			}
		}
		if dec.Err() != nil {
			return nil
		}
	}
	return cmd
}
