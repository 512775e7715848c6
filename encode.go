package imap

import "github.com/coalooball/imap-codec/internal/imapwire"

// LiteralGate marks a fragment boundary at a synchronizing literal: the
// peer owes a continuation request before the next fragment may be sent.
type LiteralGate struct {
	// Length is the announced literal length in octets.
	Length uint32
}

// A Fragment is a run of wire bytes. A non-nil Wait means the fragment
// ends with a "{N}\r\n" literal header: the caller flushes Data, waits for
// the peer's continuation, then proceeds with the next fragment.
type Fragment struct {
	Data []byte
	Wait *LiteralGate
}

// Encoded is the wire form of a message: an ordered list of fragments.
//
// Only client-side encodings (commands, authenticate data) ever contain
// gated fragments; a server dictates flow and streams its literals
// without pauses.
type Encoded struct {
	Fragments []Fragment
}

// Bytes joins all fragments, ignoring gates. This is the form a server
// sends directly, and the form tests feed back into the decoder.
func (e *Encoded) Bytes() []byte {
	if len(e.Fragments) == 1 {
		return e.Fragments[0].Data
	}
	var n int
	for _, frag := range e.Fragments {
		n += len(frag.Data)
	}
	b := make([]byte, 0, n)
	for _, frag := range e.Fragments {
		b = append(b, frag.Data...)
	}
	return b
}

func newEncoded(enc *imapwire.Encoder) *Encoded {
	frags := enc.Fragments()
	e := &Encoded{Fragments: make([]Fragment, len(frags))}
	for i, frag := range frags {
		e.Fragments[i] = Fragment{Data: frag.Data}
		if frag.Gated {
			e.Fragments[i].Wait = &LiteralGate{Length: frag.GateLength}
		}
	}
	return e
}

// EncodeGreeting encodes a greeting to its canonical wire form. Encoding
// cannot fail; two equal values encode to identical bytes.
func EncodeGreeting(g *Greeting) *Encoded {
	enc := imapwire.NewEncoder(imapwire.ConnSideServer)
	writeGreeting(enc, g)
	return newEncoded(enc)
}

// EncodeCommand encodes a command to its canonical wire form. Fragments are
// gated at every synchronizing literal boundary.
func EncodeCommand(cmd *Command) *Encoded {
	enc := imapwire.NewEncoder(imapwire.ConnSideClient)
	writeCommand(enc, cmd)
	return newEncoded(enc)
}

// EncodeResponse encodes a response to its canonical wire form. Server
// literals never gate.
func EncodeResponse(resp Response) *Encoded {
	enc := imapwire.NewEncoder(imapwire.ConnSideServer)
	writeResponse(enc, resp)
	return newEncoded(enc)
}

// EncodeAuthenticateData encodes a SASL exchange line.
func EncodeAuthenticateData(data *AuthenticateData) *Encoded {
	enc := imapwire.NewEncoder(imapwire.ConnSideClient)
	writeAuthenticateData(enc, data)
	return newEncoded(enc)
}
