package msgutil

import (
	"strings"
	"testing"

	"github.com/emersion/go-message"
	"github.com/stretchr/testify/require"

	imap "github.com/coalooball/imap-codec"
)

var testMailString = strings.ReplaceAll(`Date: Sat, 3 Dec 2016 12:00:00 +0900
From: Mitsuha Miyamizu <mitsuha.miyamizu@example.org>
To: Taki Tachibana <taki.tachibana@example.org>
Subject: Your Name.
Message-Id: <42@example.org>
Content-Type: text/plain; charset=utf-8

Have we met before?
`, "\n", "\r\n")

func TestFetchEnvelope(t *testing.T) {
	e, err := message.Read(strings.NewReader(testMailString))
	require.NoError(t, err)

	env, err := FetchEnvelope(e.Header)
	require.NoError(t, err)

	require.Equal(t, "Your Name.", env.Subject.Value)
	require.True(t, env.InReplyTo.Null)
	require.Equal(t, "<42@example.org>", env.MessageID.Value)
	require.Len(t, env.From, 1)
	require.Equal(t, "Mitsuha Miyamizu", env.From[0].Name.Value)
	require.Equal(t, "mitsuha.miyamizu@example.org", env.From[0].Addr())
	require.Nil(t, env.Cc)
}

func TestFetchEnvelopeRoundTrip(t *testing.T) {
	e, err := message.Read(strings.NewReader(testMailString))
	require.NoError(t, err)

	env, err := FetchEnvelope(e.Header)
	require.NoError(t, err)

	resp := &imap.FetchData{
		SeqNum: 1,
		Items:  []imap.FetchItemData{&imap.FetchItemDataEnvelope{Envelope: env}},
	}
	wire := imap.EncodeResponse(resp).Bytes()

	decoded, rest, err := imap.DecodeResponse(wire, nil)
	require.NoError(t, err)
	require.Empty(t, rest)
	data := decoded.(*imap.FetchData)
	require.Equal(t, env, data.Items[0].(*imap.FetchItemDataEnvelope).Envelope)
}

func TestFetchBodyStructure(t *testing.T) {
	e, err := message.Read(strings.NewReader(testMailString))
	require.NoError(t, err)

	bs, err := FetchBodyStructure(e, false)
	require.NoError(t, err)

	part, ok := bs.(*imap.BodyStructureSinglePart)
	require.True(t, ok)
	require.Equal(t, "text", part.Type.Value)
	require.Equal(t, "plain", part.Subtype.Value)
	require.NotNil(t, part.Text)
	require.Equal(t, uint32(1), part.Text.NumLines)
	require.Equal(t, uint32(len("Have we met before?\r\n")), part.Size)
	require.Nil(t, part.Extension)
}

func TestFetchBodyStructureMultiPart(t *testing.T) {
	raw := strings.ReplaceAll(`Content-Type: multipart/mixed; boundary=frontier

--frontier
Content-Type: text/plain

Body text.
--frontier
Content-Type: application/octet-stream
Content-Transfer-Encoding: base64
Content-Disposition: attachment; filename=data.bin

AAECAw==
--frontier--
`, "\n", "\r\n")

	e, err := message.Read(strings.NewReader(raw))
	require.NoError(t, err)

	bs, err := FetchBodyStructure(e, true)
	require.NoError(t, err)

	part, ok := bs.(*imap.BodyStructureMultiPart)
	require.True(t, ok)
	require.Equal(t, "mixed", part.Subtype.Value)
	require.Len(t, part.Children, 2)

	attachment := part.Children[1].(*imap.BodyStructureSinglePart)
	require.Equal(t, "application", attachment.Type.Value)
	require.Equal(t, "BASE64", attachment.Encoding.Value)
	require.NotNil(t, attachment.Extension)
	require.NotNil(t, attachment.Extension.Disposition)
	require.Equal(t, "ATTACHMENT", attachment.Extension.Disposition.Value.Value.Value)

	// The derived structure must be expressible on the wire and re-readable.
	resp := &imap.FetchData{
		SeqNum: 7,
		Items:  []imap.FetchItemData{&imap.FetchItemDataBodyStructure{BodyStructure: bs, Extended: true}},
	}
	wire := imap.EncodeResponse(resp).Bytes()
	decoded, _, err := imap.DecodeResponse(wire, nil)
	require.NoError(t, err)
	got := decoded.(*imap.FetchData).Items[0].(*imap.FetchItemDataBodyStructure)
	require.Equal(t, bs, got.BodyStructure)
}
