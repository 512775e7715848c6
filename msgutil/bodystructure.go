package msgutil

import (
	"bufio"
	"io"
	"strings"

	"github.com/emersion/go-message"

	imap "github.com/coalooball/imap-codec"
)

// FetchBodyStructure computes a message's body structure from its content.
// The entity's body is consumed to count octets and lines. Extension data
// (content disposition) is only filled in when extended is set, matching
// the BODYSTRUCTURE fetch item.
func FetchBodyStructure(e *message.Entity, extended bool) (imap.BodyStructure, error) {
	mediaType, mediaParams, _ := e.Header.ContentType()
	typeParts := strings.SplitN(mediaType, "/", 2)
	primary := typeParts[0]
	var subtype string
	if len(typeParts) == 2 {
		subtype = typeParts[1]
	}

	if mr := e.MultipartReader(); mr != nil {
		bs := &imap.BodyStructureMultiPart{Subtype: imap.Quoted(subtype)}
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			} else if err != nil {
				return nil, err
			}

			child, err := FetchBodyStructure(p, extended)
			if err != nil {
				return nil, err
			}
			bs.Children = append(bs.Children, child)
		}
		if extended {
			bs.Extension = &imap.MultiPartExtension{Params: bodyParams(mediaParams)}
			if disp := dispositionExt(e); disp != nil {
				bs.Extension.Disposition = disp
			}
		}
		return bs, nil
	}

	bs := &imap.BodyStructureSinglePart{
		Type:        imap.Quoted(primary),
		Subtype:     imap.Quoted(subtype),
		Params:      bodyParams(mediaParams),
		ID:          nstring(e.Header.Get("Content-Id")),
		Description: nstring(e.Header.Get("Content-Description")),
		Encoding:    imap.Quoted(encoding(e)),
	}

	size, lines, err := countBody(e.Body)
	if err != nil {
		return nil, err
	}
	bs.Size = size
	if strings.EqualFold(primary, "text") {
		bs.Text = &imap.BodyStructureText{NumLines: lines}
	}

	if extended {
		bs.Extension = &imap.SinglePartExtension{MD5: imap.NilString()}
		if disp := dispositionExt(e); disp != nil {
			bs.Extension.Disposition = disp
		}
	}
	return bs, nil
}

func encoding(e *message.Entity) string {
	if enc := e.Header.Get("Content-Transfer-Encoding"); enc != "" {
		return strings.ToUpper(enc)
	}
	return "7BIT"
}

func bodyParams(params map[string]string) []imap.BodyParam {
	if len(params) == 0 {
		return nil
	}
	list := make([]imap.BodyParam, 0, len(params))
	for k, v := range params {
		list = append(list, imap.BodyParam{Key: imap.Quoted(strings.ToUpper(k)), Value: imap.Quoted(v)})
	}
	sortParams(list)
	return list
}

// sortParams keeps parameter output deterministic.
func sortParams(params []imap.BodyParam) {
	for i := 1; i < len(params); i++ {
		for j := i; j > 0 && params[j].Key.Value < params[j-1].Key.Value; j-- {
			params[j], params[j-1] = params[j-1], params[j]
		}
	}
}

func dispositionExt(e *message.Entity) *imap.DispositionExt {
	disp, dispParams, err := e.Header.ContentDisposition()
	if err != nil || disp == "" {
		return nil
	}
	return &imap.DispositionExt{Value: &imap.Disposition{
		Value:  imap.Quoted(strings.ToUpper(disp)),
		Params: bodyParams(dispParams),
	}}
}

// countBody consumes r, counting octets and CRLF delimited lines.
func countBody(r io.Reader) (size, lines uint32, err error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return 0, 0, err
		}
		size++
		if b == '\n' {
			lines++
		}
	}
	return size, lines, nil
}
