package imap

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/coalooball/imap-codec/internal/imapwire"
)

func canAStringAtom(s string) bool {
	if len(s) == 0 || len(s) > 4096 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !imapwire.IsAStringChar(s[i]) {
			return false
		}
	}
	// As an atom the NIL keyword would decode as the nstring NIL.
	return !(len(s) == 3 && (s[0] == 'N' || s[0] == 'n') &&
		(s[1] == 'I' || s[1] == 'i') && (s[2] == 'L' || s[2] == 'l'))
}

// writeAString writes s as an astring, widening the form when the value
// does not fit it.
func writeAString(enc *imapwire.Encoder, s String) {
	form := s.Form
	if form == FormAtom && !canAStringAtom(s.Value) {
		form = FormQuoted
	}
	if form == FormQuoted && !imapwire.CanQuoted(s.Value) {
		form = FormLiteral
	}
	switch form {
	case FormAtom:
		enc.Atom(s.Value)
	case FormQuoted:
		enc.Quoted(s.Value)
	default:
		writeLiteral(enc, s)
	}
}

// writeString writes s as the string production, which has no atom form.
func writeString(enc *imapwire.Encoder, s String) {
	form := s.Form
	if form == FormAtom {
		form = FormQuoted
	}
	if form == FormQuoted && !imapwire.CanQuoted(s.Value) {
		form = FormLiteral
	}
	if form == FormQuoted {
		enc.Quoted(s.Value)
	} else {
		writeLiteral(enc, s)
	}
}

func writeLiteral(enc *imapwire.Encoder, s String) {
	enc.Literal([]byte(s.Value), imapwire.LiteralInfo{
		Length:   uint32(len(s.Value)),
		Literal8: s.Literal8,
		NonSync:  s.NonSync,
	})
}

func writeNString(enc *imapwire.Encoder, ns NString) {
	if ns.Null {
		enc.NIL()
		return
	}
	writeString(enc, ns.String)
}

func writeMailbox(enc *imapwire.Encoder, mbox Mailbox) {
	if mbox.Inbox {
		enc.Atom(InboxName)
		return
	}
	writeAString(enc, mbox.Name)
}

func writeListMailbox(enc *imapwire.Encoder, lm ListMailbox) {
	if lm.Token != "" {
		enc.Atom(lm.Token)
		return
	}
	writeString(enc, lm.Str)
}

func writeFlags(enc *imapwire.Encoder, flags []Flag) {
	enc.List(len(flags), func(i int) {
		enc.Atom(string(flags[i]))
	})
}

func writeDateTime(enc *imapwire.Encoder, t time.Time) {
	enc.Quoted(FormatDateTime(t))
}

// writeRespText writes resp-text: the optional bracketed code, then the
// text.
func writeRespText(enc *imapwire.Encoder, code *Code, text string) {
	if code != nil {
		enc.Special('[')
		writeCode(enc, code)
		enc.Special(']').SP()
	}
	enc.Text(text)
}

func writeCode(enc *imapwire.Encoder, code *Code) {
	if code.Kind == CodeOther {
		enc.Atom(code.Atom)
		if code.Args != "" {
			enc.SP().Text(code.Args)
		}
		return
	}
	enc.Atom(code.Kind.String())
	switch code.Kind {
	case CodeBadCharset:
		if len(code.Charsets) > 0 {
			enc.SP().List(len(code.Charsets), func(i int) {
				writeAString(enc, NewString(string(code.Charsets[i])))
			})
		}
	case CodeCapability:
		for _, cap := range code.Caps {
			enc.SP().Atom(string(cap))
		}
	case CodePermanentFlags:
		enc.SP()
		writeFlags(enc, code.Flags)
	case CodeUIDNext, CodeUIDValidity, CodeUnseen:
		enc.SP().Number(code.Num)
	case CodeHighestModSeq:
		enc.SP().Number64(code.ModSeq)
	case CodeModified:
		enc.SP().Raw(code.Modified.String())
	case CodeReferral:
		enc.SP().Text(code.Referral)
	}
}

func writeGreeting(enc *imapwire.Encoder, g *Greeting) {
	enc.Special('*').SP().Atom(string(g.Kind)).SP()
	writeRespText(enc, g.Code, g.Text)
	enc.CRLF()
}

func writeResponse(enc *imapwire.Encoder, resp Response) {
	switch resp := resp.(type) {
	case *StatusResponse:
		writeStatusResponse(enc, resp)
	case *ContinuationRequest:
		writeContinuationRequest(enc, resp)
	case *ExistsData:
		enc.Special('*').SP().Number(resp.Count).SP().Atom("EXISTS").CRLF()
	case *RecentData:
		enc.Special('*').SP().Number(resp.Count).SP().Atom("RECENT").CRLF()
	case *ExpungeData:
		enc.Special('*').SP().Number(resp.SeqNum).SP().Atom("EXPUNGE").CRLF()
	case *FlagsData:
		enc.Special('*').SP().Atom("FLAGS").SP()
		writeFlags(enc, resp.Flags)
		enc.CRLF()
	case *ListData:
		writeListData(enc, resp)
	case *SearchData:
		enc.Special('*').SP().Atom("SEARCH")
		for _, num := range resp.Nums {
			enc.SP().Number(num)
		}
		enc.CRLF()
	case *StatusData:
		enc.Special('*').SP().Atom("STATUS").SP()
		writeMailbox(enc, resp.Mailbox)
		enc.SP().List(len(resp.Items), func(i int) {
			item := resp.Items[i]
			enc.Atom(string(item.Item)).SP().Number64(item.Value)
		})
		enc.CRLF()
	case *CapabilityData:
		enc.Special('*').SP().Atom("CAPABILITY")
		for _, cap := range resp.Caps {
			enc.SP().Atom(string(cap))
		}
		enc.CRLF()
	case *EnabledData:
		enc.Special('*').SP().Atom("ENABLED")
		for _, cap := range resp.Caps {
			enc.SP().Atom(string(cap))
		}
		enc.CRLF()
	case *FetchData:
		enc.Special('*').SP().Number(resp.SeqNum).SP().Atom("FETCH").SP()
		enc.List(len(resp.Items), func(i int) {
			writeFetchItemData(enc, resp.Items[i])
		})
		enc.CRLF()
	case *VanishedData:
		enc.Special('*').SP().Atom("VANISHED")
		if resp.Earlier {
			enc.SP().Raw("(EARLIER)")
		}
		enc.SP().Raw(resp.UIDs.String()).CRLF()
	default:
		panic("imap: unknown response type")
	}
}

func writeStatusResponse(enc *imapwire.Encoder, resp *StatusResponse) {
	if resp.Tag != "" {
		enc.Atom(resp.Tag)
	} else {
		enc.Special('*')
	}
	enc.SP().Atom(string(resp.Kind)).SP()
	writeRespText(enc, resp.Code, resp.Text)
	enc.CRLF()
}

func writeContinuationRequest(enc *imapwire.Encoder, resp *ContinuationRequest) {
	enc.Special('+').SP()
	if resp.Base64 {
		enc.Raw(base64.StdEncoding.EncodeToString(resp.Challenge))
	} else {
		writeRespText(enc, resp.Code, resp.Text)
	}
	enc.CRLF()
}

func writeListData(enc *imapwire.Encoder, data *ListData) {
	enc.Special('*').SP()
	if data.Lsub {
		enc.Atom("LSUB")
	} else {
		enc.Atom("LIST")
	}
	enc.SP().List(len(data.Attrs), func(i int) {
		enc.Atom(string(data.Attrs[i]))
	})
	enc.SP()
	if data.Delim == 0 {
		enc.NIL()
	} else {
		enc.Quoted(string(data.Delim))
	}
	enc.SP()
	writeMailbox(enc, data.Mailbox)
	enc.CRLF()
}

func writeFetchItemData(enc *imapwire.Encoder, item FetchItemData) {
	switch item := item.(type) {
	case FetchItemDataFlags:
		enc.Atom("FLAGS").SP()
		writeFlags(enc, item)
	case *FetchItemDataEnvelope:
		enc.Atom("ENVELOPE").SP()
		writeEnvelope(enc, item.Envelope)
	case *FetchItemDataInternalDate:
		enc.Atom("INTERNALDATE").SP()
		writeDateTime(enc, item.Time)
	case *FetchItemDataRFC822:
		enc.Atom(string(item.Kind)).SP()
		writeNString(enc, item.Data)
	case *FetchItemDataRFC822Size:
		enc.Atom("RFC822.SIZE").SP().Number(item.Size)
	case *FetchItemDataBodyStructure:
		if item.Extended {
			enc.Atom("BODYSTRUCTURE")
		} else {
			enc.Atom("BODY")
		}
		enc.SP()
		writeBody(enc, item.BodyStructure)
	case *FetchItemDataBodySection:
		writeSection(enc, item.Section)
		if item.Origin != nil {
			enc.Special('<').Number(*item.Origin).Special('>')
		}
		enc.SP()
		writeNString(enc, item.Data)
	case *FetchItemDataUID:
		enc.Atom("UID").SP().Number(item.UID)
	case *FetchItemDataModSeq:
		enc.Atom("MODSEQ").SP().Special('(').Number64(item.ModSeq).Special(')')
	default:
		panic("imap: unknown fetch item data type")
	}
}

func writeEnvelope(enc *imapwire.Encoder, env *Envelope) {
	enc.Special('(')
	writeNString(enc, env.Date)
	enc.SP()
	writeNString(enc, env.Subject)
	enc.SP()
	writeAddressList(enc, env.From)
	enc.SP()
	writeAddressList(enc, env.Sender)
	enc.SP()
	writeAddressList(enc, env.ReplyTo)
	enc.SP()
	writeAddressList(enc, env.To)
	enc.SP()
	writeAddressList(enc, env.Cc)
	enc.SP()
	writeAddressList(enc, env.Bcc)
	enc.SP()
	writeNString(enc, env.InReplyTo)
	enc.SP()
	writeNString(enc, env.MessageID)
	enc.Special(')')
}

func writeAddressList(enc *imapwire.Encoder, addrs []Address) {
	if addrs == nil {
		enc.NIL()
		return
	}
	enc.Special('(')
	for _, addr := range addrs {
		enc.Special('(')
		writeNString(enc, addr.Name)
		enc.SP()
		writeNString(enc, addr.ADL)
		enc.SP()
		writeNString(enc, addr.Mailbox)
		enc.SP()
		writeNString(enc, addr.Host)
		enc.Special(')')
	}
	enc.Special(')')
}

func writeBody(enc *imapwire.Encoder, bs BodyStructure) {
	enc.Special('(')
	switch bs := bs.(type) {
	case *BodyStructureSinglePart:
		writeBodySinglePart(enc, bs)
	case *BodyStructureMultiPart:
		writeBodyMultiPart(enc, bs)
	default:
		panic("imap: unknown body structure type")
	}
	enc.Special(')')
}

func writeBodySinglePart(enc *imapwire.Encoder, part *BodyStructureSinglePart) {
	writeString(enc, part.Type)
	enc.SP()
	writeString(enc, part.Subtype)
	enc.SP()
	writeBodyParams(enc, part.Params)
	enc.SP()
	writeNString(enc, part.ID)
	enc.SP()
	writeNString(enc, part.Description)
	enc.SP()
	writeString(enc, part.Encoding)
	enc.SP().Number(part.Size)
	if part.Message != nil {
		enc.SP()
		writeEnvelope(enc, part.Message.Envelope)
		enc.SP()
		writeBody(enc, part.Message.BodyStructure)
		enc.SP().Number(part.Message.NumLines)
	} else if part.Text != nil {
		enc.SP().Number(part.Text.NumLines)
	}
	if ext := part.Extension; ext != nil {
		enc.SP()
		writeNString(enc, ext.MD5)
		writeDispositionExt(enc, ext.Disposition)
	}
}

func writeBodyMultiPart(enc *imapwire.Encoder, part *BodyStructureMultiPart) {
	for _, child := range part.Children {
		writeBody(enc, child)
	}
	enc.SP()
	writeString(enc, part.Subtype)
	if ext := part.Extension; ext != nil {
		enc.SP()
		writeBodyParams(enc, ext.Params)
		writeDispositionExt(enc, ext.Disposition)
	}
}

func writeBodyParams(enc *imapwire.Encoder, params []BodyParam) {
	if params == nil {
		enc.NIL()
		return
	}
	enc.List(len(params), func(i int) {
		writeString(enc, params[i].Key)
		enc.SP()
		writeString(enc, params[i].Value)
	})
}

func writeDispositionExt(enc *imapwire.Encoder, ext *DispositionExt) {
	if ext == nil {
		return
	}
	enc.SP()
	if ext.Value == nil {
		enc.NIL()
	} else {
		enc.Special('(')
		writeString(enc, ext.Value.Value)
		enc.SP()
		writeBodyParams(enc, ext.Value.Params)
		enc.Special(')')
	}
	writeLanguageExt(enc, ext.Language)
}

func writeLanguageExt(enc *imapwire.Encoder, ext *LanguageExt) {
	if ext == nil {
		return
	}
	enc.SP()
	if ext.List {
		enc.List(len(ext.Values), func(i int) {
			writeString(enc, ext.Values[i])
		})
	} else if len(ext.Values) == 0 {
		enc.NIL()
	} else {
		writeString(enc, ext.Values[0])
	}
	writeLocationExt(enc, ext.Location)
}

func writeLocationExt(enc *imapwire.Encoder, ext *LocationExt) {
	if ext == nil {
		return
	}
	enc.SP()
	writeNString(enc, ext.Value)
	for i := range ext.Extensions {
		enc.SP()
		writeBodyExtension(enc, &ext.Extensions[i])
	}
}

func writeBodyExtension(enc *imapwire.Encoder, ext *BodyExtension) {
	switch {
	case ext.Str != nil:
		writeNString(enc, *ext.Str)
	case ext.Num != nil:
		enc.Number(*ext.Num)
	default:
		enc.List(len(ext.List), func(i int) {
			writeBodyExtension(enc, &ext.List[i])
		})
	}
}

func writeCommand(enc *imapwire.Encoder, cmd *Command) {
	enc.Atom(cmd.Tag).SP()
	writeCommandBody(enc, cmd.Body)
	enc.CRLF()
}

func writeCommandBody(enc *imapwire.Encoder, body CommandBody) {
	switch body := body.(type) {
	case *CapabilityCommand, *NoopCommand, *LogoutCommand, *StartTLSCommand,
		*CheckCommand, *CloseCommand, *UnselectCommand, *IdleCommand:
		enc.Atom(body.CommandName())
	case *AuthenticateCommand:
		enc.Atom("AUTHENTICATE").SP().Atom(string(body.Mechanism))
		if body.InitialResponse != nil {
			enc.SP()
			if len(body.InitialResponse) == 0 {
				enc.Special('=')
			} else {
				enc.Raw(base64.StdEncoding.EncodeToString(body.InitialResponse))
			}
		}
	case *LoginCommand:
		enc.Atom("LOGIN").SP()
		writeAString(enc, body.Username)
		enc.SP()
		writeAString(enc, body.Password)
	case *SelectCommand:
		writeSelectCommand(enc, "SELECT", body.Mailbox, body.QResync, body.CondStore)
	case *ExamineCommand:
		writeSelectCommand(enc, "EXAMINE", body.Mailbox, body.QResync, body.CondStore)
	case *CreateCommand:
		enc.Atom("CREATE").SP()
		writeMailbox(enc, body.Mailbox)
	case *DeleteCommand:
		enc.Atom("DELETE").SP()
		writeMailbox(enc, body.Mailbox)
	case *RenameCommand:
		enc.Atom("RENAME").SP()
		writeMailbox(enc, body.Mailbox)
		enc.SP()
		writeMailbox(enc, body.NewName)
	case *SubscribeCommand:
		enc.Atom("SUBSCRIBE").SP()
		writeMailbox(enc, body.Mailbox)
	case *UnsubscribeCommand:
		enc.Atom("UNSUBSCRIBE").SP()
		writeMailbox(enc, body.Mailbox)
	case *ListCommand:
		enc.Atom("LIST").SP()
		writeMailbox(enc, body.Ref)
		enc.SP()
		writeListMailbox(enc, body.Pattern)
	case *LsubCommand:
		enc.Atom("LSUB").SP()
		writeMailbox(enc, body.Ref)
		enc.SP()
		writeListMailbox(enc, body.Pattern)
	case *StatusCommand:
		enc.Atom("STATUS").SP()
		writeMailbox(enc, body.Mailbox)
		enc.SP().List(len(body.Items), func(i int) {
			enc.Atom(string(body.Items[i]))
		})
	case *AppendCommand:
		enc.Atom("APPEND").SP()
		writeMailbox(enc, body.Mailbox)
		if body.Flags != nil {
			enc.SP()
			writeFlags(enc, body.Flags)
		}
		if !body.InternalDate.IsZero() {
			enc.SP()
			writeDateTime(enc, body.InternalDate)
		}
		enc.SP()
		msg := body.Message
		msg.Form = FormLiteral
		writeLiteral(enc, msg)
	case *ExpungeCommand:
		if body.UID {
			enc.Atom("UID").SP().Atom("EXPUNGE").SP().Raw(body.UIDs.String())
		} else {
			enc.Atom("EXPUNGE")
		}
	case *SearchCommand:
		if body.UID {
			enc.Atom("UID").SP()
		}
		enc.Atom("SEARCH")
		if body.Charset != "" {
			enc.SP().Atom("CHARSET").SP()
			writeAString(enc, NewString(string(body.Charset)))
		}
		for i := range body.Keys {
			enc.SP()
			writeSearchKey(enc, &body.Keys[i])
		}
	case *FetchCommand:
		writeFetchCommand(enc, body)
	case *StoreCommand:
		writeStoreCommand(enc, body)
	case *CopyCommand:
		if body.UID {
			enc.Atom("UID").SP()
		}
		enc.Atom("COPY").SP().Raw(body.SeqSet.String()).SP()
		writeMailbox(enc, body.Mailbox)
	case *EnableCommand:
		enc.Atom("ENABLE")
		for _, cap := range body.Caps {
			enc.SP().Atom(string(cap))
		}
	case *CompressCommand:
		enc.Atom("COMPRESS").SP().Atom(body.Algorithm)
	default:
		panic("imap: unknown command body type")
	}
}

func writeSelectCommand(enc *imapwire.Encoder, name string, mbox Mailbox, qresync *QResyncParam, condStore bool) {
	enc.Atom(name).SP()
	writeMailbox(enc, mbox)
	if qresync == nil && !condStore {
		return
	}
	enc.SP().Special('(')
	if condStore {
		enc.Atom("CONDSTORE")
	}
	if qresync != nil {
		if condStore {
			enc.SP()
		}
		enc.Atom("QRESYNC").SP().Special('(')
		enc.Number(qresync.UIDValidity).SP().Number64(qresync.ModSeq)
		if qresync.KnownUIDs != nil {
			enc.SP().Raw(qresync.KnownUIDs.String())
		}
		enc.Special(')')
	}
	enc.Special(')')
}

func writeFetchCommand(enc *imapwire.Encoder, cmd *FetchCommand) {
	if cmd.UID {
		enc.Atom("UID").SP()
	}
	enc.Atom("FETCH").SP().Raw(cmd.SeqSet.String()).SP()
	if cmd.Macro != "" {
		enc.Atom(string(cmd.Macro))
	} else {
		enc.List(len(cmd.Items), func(i int) {
			writeFetchItem(enc, cmd.Items[i])
		})
	}
	if cmd.ChangedSince != 0 || cmd.Vanished {
		enc.SP().Special('(')
		if cmd.ChangedSince != 0 {
			enc.Atom("CHANGEDSINCE").SP().Number64(cmd.ChangedSince)
			if cmd.Vanished {
				enc.SP()
			}
		}
		if cmd.Vanished {
			enc.Atom("VANISHED")
		}
		enc.Special(')')
	}
}

func writeFetchItem(enc *imapwire.Encoder, item FetchItem) {
	switch item := item.(type) {
	case FetchItemKeyword:
		enc.Atom(string(item))
	case *FetchItemBodySection:
		writeSection(enc, item)
		if item.Partial != nil {
			enc.Special('<').Number(item.Partial.Offset).Special('.').
				Number(item.Partial.Size).Special('>')
		}
	default:
		panic("imap: unknown fetch item type")
	}
}

func writeSection(enc *imapwire.Encoder, section *FetchItemBodySection) {
	enc.Atom("BODY")
	if section.Peek {
		enc.Atom(".PEEK")
	}
	enc.Special('[')
	for i, part := range section.Part {
		if i > 0 {
			enc.Special('.')
		}
		enc.Raw(strconv.Itoa(part))
	}
	if section.Specifier != PartSpecifierNone {
		if len(section.Part) > 0 {
			enc.Special('.')
		}
		enc.Atom(string(section.Specifier))
		if section.Specifier == PartSpecifierHeaderFields || section.Specifier == PartSpecifierHeaderFieldsNot {
			enc.SP().List(len(section.HeaderFields), func(i int) {
				writeAString(enc, section.HeaderFields[i])
			})
		}
	}
	enc.Special(']')
}

func writeStoreCommand(enc *imapwire.Encoder, cmd *StoreCommand) {
	if cmd.UID {
		enc.Atom("UID").SP()
	}
	enc.Atom("STORE").SP().Raw(cmd.SeqSet.String()).SP()
	if cmd.UnchangedSince != 0 {
		enc.Special('(').Atom("UNCHANGEDSINCE").SP().Number64(cmd.UnchangedSince).Special(')').SP()
	}
	enc.Atom(string(cmd.Op))
	if cmd.Silent {
		enc.Atom(".SILENT")
	}
	enc.SP()
	writeFlags(enc, cmd.Flags)
}

func writeSearchKey(enc *imapwire.Encoder, key *SearchKey) {
	switch key.Kind {
	case SearchSeqSet:
		enc.Raw(key.SeqSet.String())
		return
	case SearchList:
		enc.List(len(key.Keys), func(i int) {
			writeSearchKey(enc, &key.Keys[i])
		})
		return
	}
	enc.Atom(searchKeyNames[key.Kind])
	switch key.Kind {
	case SearchKeyword, SearchUnkeyword:
		enc.SP().Atom(string(key.Flag))
	case SearchBcc, SearchBody, SearchCc, SearchFrom, SearchSubject, SearchText, SearchTo:
		enc.SP()
		writeAString(enc, key.Str)
	case SearchHeader:
		enc.SP()
		writeAString(enc, key.Header)
		enc.SP()
		writeAString(enc, key.Str)
	case SearchBefore, SearchOn, SearchSince, SearchSentBefore, SearchSentOn, SearchSentSince:
		enc.SP().Raw(FormatDate(key.Date))
	case SearchLarger, SearchSmaller:
		enc.SP().Number(key.Num)
	case SearchNot:
		enc.SP()
		writeSearchKey(enc, &key.Keys[0])
	case SearchOr:
		enc.SP()
		writeSearchKey(enc, &key.Keys[0])
		enc.SP()
		writeSearchKey(enc, &key.Keys[1])
	case SearchUID:
		enc.SP().Raw(key.SeqSet.String())
	case SearchModSeq:
		enc.SP().Number64(key.ModSeq)
	}
}

func writeAuthenticateData(enc *imapwire.Encoder, data *AuthenticateData) {
	if data.Cancel {
		enc.Special('*')
	} else {
		enc.Raw(base64.StdEncoding.EncodeToString(data.Data))
	}
	enc.CRLF()
}
