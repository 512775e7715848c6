package imap

import (
	"strings"

	"github.com/coalooball/imap-codec/internal/imapwire"
)

// readMsgAtt parses the msg-att production of a FETCH response: a
// parenthesized list of message data items.
func readMsgAtt(dec *imapwire.Decoder, opts *Options) ([]FetchItemData, bool) {
	var items []FetchItemData
	ok := dec.ExpectList(func() bool {
		item, ok := readFetchItemData(dec, opts)
		if !ok {
			return false
		}
		items = append(items, item)
		return true
	})
	if !ok {
		return nil, false
	}
	if len(items) == 0 {
		dec.Failf(GrammarViolation, "empty message attribute list")
		return nil, false
	}
	return items, true
}

func readFetchItemData(dec *imapwire.Decoder, opts *Options) (FetchItemData, bool) {
	var atom string
	if !dec.ExpectKeyword(&atom) {
		return nil, false
	}
	switch name := strings.ToUpper(atom); name {
	case "FLAGS":
		if !dec.ExpectSP() {
			return nil, false
		}
		flags, ok := readFlagList(dec, false)
		if !ok {
			return nil, false
		}
		return FetchItemDataFlags(flags), true
	case "ENVELOPE":
		if !dec.ExpectSP() {
			return nil, false
		}
		env, ok := readEnvelope(dec)
		if !ok {
			return nil, false
		}
		return &FetchItemDataEnvelope{Envelope: env}, true
	case "INTERNALDATE":
		if !dec.ExpectSP() {
			return nil, false
		}
		t, ok := readDateTime(dec)
		if !ok {
			return nil, false
		}
		return &FetchItemDataInternalDate{Time: t}, true
	case "RFC822", "RFC822.HEADER", "RFC822.TEXT":
		if !dec.ExpectSP() {
			return nil, false
		}
		data, ok := readNString(dec)
		if !ok {
			return nil, false
		}
		return &FetchItemDataRFC822{Kind: RFC822Kind(name), Data: data}, true
	case "RFC822.SIZE":
		var size uint32
		if !dec.ExpectSP() || !dec.ExpectNumber(&size) {
			return nil, false
		}
		return &FetchItemDataRFC822Size{Size: size}, true
	case "BODY", "BODY.PEEK":
		if b, ok := dec.PeekByte(); ok && b == '[' {
			return readBodySectionData(dec, name == "BODY.PEEK")
		}
		if dec.Err() != nil {
			return nil, false
		}
		if name == "BODY.PEEK" {
			dec.Failf(GrammarViolation, "BODY.PEEK requires a section")
			return nil, false
		}
		if !dec.ExpectSP() {
			return nil, false
		}
		bs, ok := readBody(dec, bodyDepthLimit)
		if !ok {
			return nil, false
		}
		return &FetchItemDataBodyStructure{BodyStructure: bs}, true
	case "BODYSTRUCTURE":
		if !dec.ExpectSP() {
			return nil, false
		}
		bs, ok := readBody(dec, bodyDepthLimit)
		if !ok {
			return nil, false
		}
		return &FetchItemDataBodyStructure{BodyStructure: bs, Extended: true}, true
	case "UID":
		var uid uint32
		if !dec.ExpectSP() || !dec.ExpectNZNumber(&uid) {
			return nil, false
		}
		return &FetchItemDataUID{UID: uid}, true
	case "MODSEQ":
		if !opts.Extensions.Has(ExtCondStoreQResync) {
			dec.Failf(GrammarViolation, "unknown message data item %q", atom)
			return nil, false
		}
		var modSeq uint64
		if !dec.ExpectSP() || !dec.ExpectSpecial('(') ||
			!dec.ExpectNumber64(&modSeq) || !dec.ExpectSpecial(')') {
			return nil, false
		}
		return &FetchItemDataModSeq{ModSeq: modSeq}, true
	default:
		dec.Failf(GrammarViolation, "unknown message data item %q", atom)
		return nil, false
	}
}

// readBodySectionData parses "BODY[...]<origin> SP nstring". The peek
// variant never appears in responses, but decoding it costs nothing.
func readBodySectionData(dec *imapwire.Decoder, peek bool) (FetchItemData, bool) {
	section, ok := readSection(dec)
	if !ok {
		return nil, false
	}
	section.Peek = peek
	item := &FetchItemDataBodySection{Section: section}
	if dec.Special('<') {
		var origin uint32
		if !dec.ExpectNumber(&origin) || !dec.ExpectSpecial('>') {
			return nil, false
		}
		item.Origin = &origin
	} else if dec.Err() != nil {
		return nil, false
	}
	if !dec.ExpectSP() {
		return nil, false
	}
	data, ok := readNString(dec)
	if !ok {
		return nil, false
	}
	item.Data = data
	return item, true
}

// readEnvelope parses the envelope production.
func readEnvelope(dec *imapwire.Decoder) (*Envelope, bool) {
	if !dec.ExpectSpecial('(') {
		return nil, false
	}
	env := &Envelope{}
	var ok bool
	if env.Date, ok = readNString(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.Subject, ok = readNString(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.From, ok = readAddressList(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.Sender, ok = readAddressList(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.ReplyTo, ok = readAddressList(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.To, ok = readAddressList(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.Cc, ok = readAddressList(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.Bcc, ok = readAddressList(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.InReplyTo, ok = readNString(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if env.MessageID, ok = readNString(dec); !ok {
		return nil, false
	}
	if !dec.ExpectSpecial(')') {
		return nil, false
	}
	return env, true
}

// readAddressList parses "(" 1*address ")" or NIL. NIL decodes to a nil
// slice.
func readAddressList(dec *imapwire.Decoder) ([]Address, bool) {
	b, ok := dec.PeekByte()
	if !ok {
		return nil, false
	}
	if b != '(' {
		var atom string
		if !dec.ExpectAtom(&atom) {
			return nil, false
		}
		if !strings.EqualFold(atom, "NIL") {
			dec.Failf(GrammarViolation, "expected address list or NIL, got %q", atom)
			return nil, false
		}
		return nil, true
	}
	dec.Advance(1)
	var addrs []Address
	for {
		addr, ok := readAddress(dec)
		if !ok {
			return nil, false
		}
		addrs = append(addrs, addr)
		if b, ok := dec.PeekByte(); !ok {
			return nil, false
		} else if b != '(' {
			break
		}
	}
	if !dec.ExpectSpecial(')') {
		return nil, false
	}
	return addrs, true
}

func readAddress(dec *imapwire.Decoder) (Address, bool) {
	var addr Address
	if !dec.ExpectSpecial('(') {
		return addr, false
	}
	var ok bool
	if addr.Name, ok = readNString(dec); !ok || !dec.ExpectSP() {
		return addr, false
	}
	if addr.ADL, ok = readNString(dec); !ok || !dec.ExpectSP() {
		return addr, false
	}
	if addr.Mailbox, ok = readNString(dec); !ok || !dec.ExpectSP() {
		return addr, false
	}
	if addr.Host, ok = readNString(dec); !ok {
		return addr, false
	}
	if !dec.ExpectSpecial(')') {
		return addr, false
	}
	return addr, true
}

// readBody parses the body production: "(" (1part / mpart) ")". The
// production is recursive; depth bounds the nesting.
func readBody(dec *imapwire.Decoder, depth int) (BodyStructure, bool) {
	if depth == 0 {
		dec.Failf(GrammarViolation, "body structure nested too deeply")
		return nil, false
	}
	if !dec.ExpectSpecial('(') {
		return nil, false
	}
	b, ok := dec.PeekByte()
	if !ok {
		return nil, false
	}
	var bs BodyStructure
	if b == '(' {
		bs, ok = readBodyMultiPart(dec, depth)
	} else {
		bs, ok = readBodySinglePart(dec, depth)
	}
	if !ok {
		return nil, false
	}
	if !dec.ExpectSpecial(')') {
		return nil, false
	}
	return bs, true
}

func readBodySinglePart(dec *imapwire.Decoder, depth int) (BodyStructure, bool) {
	part := &BodyStructureSinglePart{}
	var ok bool
	if part.Type, ok = readString(dec); !ok {
		dec.Expect(false, "media type")
		return nil, false
	}
	if !dec.ExpectSP() {
		return nil, false
	}
	if part.Subtype, ok = readString(dec); !ok {
		dec.Expect(false, "media subtype")
		return nil, false
	}
	if !dec.ExpectSP() {
		return nil, false
	}
	if part.Params, ok = readBodyParams(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if part.ID, ok = readNString(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if part.Description, ok = readNString(dec); !ok || !dec.ExpectSP() {
		return nil, false
	}
	if part.Encoding, ok = readString(dec); !ok {
		dec.Expect(false, "content transfer encoding")
		return nil, false
	}
	if !dec.ExpectSP() || !dec.ExpectNumber(&part.Size) {
		return nil, false
	}
	if strings.EqualFold(part.Type.Value, "message") && strings.EqualFold(part.Subtype.Value, "rfc822") {
		msg := &BodyStructureMessageRFC822{}
		if !dec.ExpectSP() {
			return nil, false
		}
		if msg.Envelope, ok = readEnvelope(dec); !ok || !dec.ExpectSP() {
			return nil, false
		}
		if msg.BodyStructure, ok = readBody(dec, depth-1); !ok || !dec.ExpectSP() {
			return nil, false
		}
		if !dec.ExpectNumber(&msg.NumLines) {
			return nil, false
		}
		part.Message = msg
	} else if strings.EqualFold(part.Type.Value, "text") {
		text := &BodyStructureText{}
		if !dec.ExpectSP() || !dec.ExpectNumber(&text.NumLines) {
			return nil, false
		}
		part.Text = text
	}
	if dec.SP() {
		ext := &SinglePartExtension{}
		if ext.MD5, ok = readNString(dec); !ok {
			return nil, false
		}
		if ext.Disposition, ok = readDispositionExt(dec, depth); !ok {
			return nil, false
		}
		part.Extension = ext
	} else if dec.Err() != nil {
		return nil, false
	}
	return part, true
}

func readBodyMultiPart(dec *imapwire.Decoder, depth int) (BodyStructure, bool) {
	part := &BodyStructureMultiPart{}
	for {
		child, ok := readBody(dec, depth-1)
		if !ok {
			return nil, false
		}
		part.Children = append(part.Children, child)
		if b, ok := dec.PeekByte(); !ok {
			return nil, false
		} else if b != '(' {
			break
		}
	}
	if !dec.ExpectSP() {
		return nil, false
	}
	var ok bool
	if part.Subtype, ok = readString(dec); !ok {
		dec.Expect(false, "media subtype")
		return nil, false
	}
	if dec.SP() {
		ext := &MultiPartExtension{}
		if ext.Params, ok = readBodyParams(dec); !ok {
			return nil, false
		}
		if ext.Disposition, ok = readDispositionExt(dec, depth); !ok {
			return nil, false
		}
		part.Extension = ext
	} else if dec.Err() != nil {
		return nil, false
	}
	return part, true
}

// readBodyParams parses body-fld-param: a list of key value string pairs or
// NIL. NIL decodes to a nil slice.
func readBodyParams(dec *imapwire.Decoder) ([]BodyParam, bool) {
	b, ok := dec.PeekByte()
	if !ok {
		return nil, false
	}
	if b != '(' {
		var atom string
		if !dec.ExpectAtom(&atom) {
			return nil, false
		}
		if !strings.EqualFold(atom, "NIL") {
			dec.Failf(GrammarViolation, "expected parameter list or NIL, got %q", atom)
			return nil, false
		}
		return nil, true
	}
	var params []BodyParam
	ok = dec.ExpectList(func() bool {
		key, ok := readString(dec)
		if !ok {
			dec.Expect(false, "parameter name")
			return false
		}
		if !dec.ExpectSP() {
			return false
		}
		value, ok := readString(dec)
		if !ok {
			dec.Expect(false, "parameter value")
			return false
		}
		params = append(params, BodyParam{Key: key, Value: value})
		return true
	})
	if !ok {
		return nil, false
	}
	if len(params) == 0 {
		dec.Failf(GrammarViolation, "empty parameter list")
		return nil, false
	}
	return params, true
}

// readDispositionExt parses the optional tail of an extension chain:
// [SP body-fld-dsp [SP body-fld-lang [SP body-fld-loc *(SP extension)]]].
func readDispositionExt(dec *imapwire.Decoder, depth int) (*DispositionExt, bool) {
	if !dec.SP() {
		if dec.Err() != nil {
			return nil, false
		}
		return nil, true
	}
	ext := &DispositionExt{}
	b, ok := dec.PeekByte()
	if !ok {
		return nil, false
	}
	if b == '(' {
		dec.Advance(1)
		disp := &Disposition{}
		if disp.Value, ok = readString(dec); !ok {
			dec.Expect(false, "disposition")
			return nil, false
		}
		if !dec.ExpectSP() {
			return nil, false
		}
		if disp.Params, ok = readBodyParams(dec); !ok || !dec.ExpectSpecial(')') {
			return nil, false
		}
		ext.Value = disp
	} else {
		var atom string
		if !dec.ExpectAtom(&atom) {
			return nil, false
		}
		if !strings.EqualFold(atom, "NIL") {
			dec.Failf(GrammarViolation, "expected disposition or NIL, got %q", atom)
			return nil, false
		}
	}
	if ext.Language, ok = readLanguageExt(dec, depth); !ok {
		return nil, false
	}
	return ext, true
}

func readLanguageExt(dec *imapwire.Decoder, depth int) (*LanguageExt, bool) {
	if !dec.SP() {
		if dec.Err() != nil {
			return nil, false
		}
		return nil, true
	}
	ext := &LanguageExt{}
	b, ok := dec.PeekByte()
	if !ok {
		return nil, false
	}
	if b == '(' {
		ext.List = true
		ok = dec.ExpectList(func() bool {
			s, ok := readString(dec)
			if !ok {
				dec.Expect(false, "language")
				return false
			}
			ext.Values = append(ext.Values, s)
			return true
		})
		if !ok {
			return nil, false
		}
		if len(ext.Values) == 0 {
			dec.Failf(GrammarViolation, "empty language list")
			return nil, false
		}
	} else {
		ns, ok := readNString(dec)
		if !ok {
			return nil, false
		}
		if !ns.Null {
			ext.Values = []String{ns.String}
		}
	}
	if ext.Location, ok = readLocationExt(dec, depth); !ok {
		return nil, false
	}
	return ext, true
}

func readLocationExt(dec *imapwire.Decoder, depth int) (*LocationExt, bool) {
	if !dec.SP() {
		if dec.Err() != nil {
			return nil, false
		}
		return nil, true
	}
	ext := &LocationExt{}
	var ok bool
	if ext.Value, ok = readNString(dec); !ok {
		return nil, false
	}
	for dec.SP() {
		e, ok := readBodyExtension(dec, depth)
		if !ok {
			return nil, false
		}
		ext.Extensions = append(ext.Extensions, e)
	}
	if dec.Err() != nil {
		return nil, false
	}
	return ext, true
}

// readBodyExtension parses body-extension: an nstring, a number or a list.
func readBodyExtension(dec *imapwire.Decoder, depth int) (BodyExtension, bool) {
	if depth == 0 {
		dec.Failf(GrammarViolation, "body extension nested too deeply")
		return BodyExtension{}, false
	}
	b, ok := dec.PeekByte()
	if !ok {
		return BodyExtension{}, false
	}
	switch {
	case b == '(':
		var ext BodyExtension
		ok := dec.ExpectList(func() bool {
			child, ok := readBodyExtension(dec, depth-1)
			if !ok {
				return false
			}
			ext.List = append(ext.List, child)
			return true
		})
		if !ok {
			return BodyExtension{}, false
		}
		if len(ext.List) == 0 {
			dec.Failf(GrammarViolation, "empty body extension list")
			return BodyExtension{}, false
		}
		return ext, true
	case b >= '0' && b <= '9':
		var num uint32
		if !dec.ExpectNumber(&num) {
			return BodyExtension{}, false
		}
		return BodyExtension{Num: &num}, true
	default:
		ns, ok := readNString(dec)
		if !ok {
			return BodyExtension{}, false
		}
		return BodyExtension{Str: &ns}, true
	}
}
