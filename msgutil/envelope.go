// Package msgutil derives typed IMAP values from parsed mail messages: the
// envelope and body structure a server reports for FETCH ENVELOPE, BODY
// and BODYSTRUCTURE.
package msgutil

import (
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"

	imap "github.com/coalooball/imap-codec"
)

func headerAddressList(h mail.Header, key string) ([]imap.Address, error) {
	addrs, err := h.AddressList(key)
	if len(addrs) == 0 {
		return nil, err
	}

	list := make([]imap.Address, len(addrs))
	for i, a := range addrs {
		parts := strings.SplitN(a.Address, "@", 2)
		mailbox := parts[0]
		var hostname string
		if len(parts) == 2 {
			hostname = parts[1]
		}

		list[i] = imap.Address{
			Name:    nstring(a.Name),
			ADL:     imap.NilString(),
			Mailbox: nstring(mailbox),
			Host:    nstring(hostname),
		}
	}

	return list, err
}

func nstring(s string) imap.NString {
	if s == "" {
		return imap.NilString()
	}
	return imap.NewNString(s)
}

// FetchEnvelope returns a message's envelope from its header.
func FetchEnvelope(h message.Header) (*imap.Envelope, error) {
	mh := mail.Header{Header: h}

	env := new(imap.Envelope)
	env.Date = nstring(h.Get("Date"))
	subject, _ := mh.Subject()
	env.Subject = nstring(subject)
	env.From, _ = headerAddressList(mh, "From")
	env.Sender, _ = headerAddressList(mh, "Sender")
	env.ReplyTo, _ = headerAddressList(mh, "Reply-To")
	env.To, _ = headerAddressList(mh, "To")
	env.Cc, _ = headerAddressList(mh, "Cc")
	env.Bcc, _ = headerAddressList(mh, "Bcc")
	env.InReplyTo = nstring(h.Get("In-Reply-To"))
	env.MessageID = nstring(h.Get("Message-Id"))

	return env, nil
}
