package imapwire

import (
	"strconv"
	"strings"
)

// A Fragment is a run of wire bytes produced by an Encoder.
//
// When GateLength is set together with Gated, Data ends with a
// synchronizing literal header "{N}\r\n": the caller must flush Data and
// wait for the peer's continuation request before emitting the next
// fragment.
type Fragment struct {
	Data       []byte
	Gated      bool
	GateLength uint32
}

// An Encoder builds the canonical wire form of a message as an ordered list
// of fragments.
//
// Methods return the Encoder so that calls can be chained. Encoding cannot
// fail: values that do not fit their narrowest representation are widened
// (atom to quoted to literal) instead of being rejected.
type Encoder struct {
	side  ConnSide
	buf   []byte
	frags []Fragment
}

// NewEncoder creates a new encoder. The side decides whether synchronizing
// literals produce gated fragments: only clients wait for continuations.
func NewEncoder(side ConnSide) *Encoder {
	return &Encoder{side: side}
}

// Side returns the connection side the encoder was created for.
func (enc *Encoder) Side() ConnSide {
	return enc.side
}

func (enc *Encoder) writeString(s string) *Encoder {
	enc.buf = append(enc.buf, s...)
	return enc
}

func (enc *Encoder) writeBytes(b []byte) *Encoder {
	enc.buf = append(enc.buf, b...)
	return enc
}

// Raw writes s verbatim.
func (enc *Encoder) Raw(s string) *Encoder {
	return enc.writeString(s)
}

// Atom writes an atom keyword verbatim.
func (enc *Encoder) Atom(s string) *Encoder {
	return enc.writeString(s)
}

// SP writes a single space.
func (enc *Encoder) SP() *Encoder {
	return enc.writeString(" ")
}

// Special writes a single byte.
func (enc *Encoder) Special(ch byte) *Encoder {
	enc.buf = append(enc.buf, ch)
	return enc
}

// CRLF writes a line terminator.
func (enc *Encoder) CRLF() *Encoder {
	return enc.writeString("\r\n")
}

// NIL writes the NIL atom.
func (enc *Encoder) NIL() *Encoder {
	return enc.writeString("NIL")
}

// Text writes human-readable text verbatim.
func (enc *Encoder) Text(s string) *Encoder {
	return enc.writeString(s)
}

// Number writes an unsigned 32-bit number.
func (enc *Encoder) Number(v uint32) *Encoder {
	enc.buf = strconv.AppendUint(enc.buf, uint64(v), 10)
	return enc
}

// Number64 writes an unsigned 64-bit number.
func (enc *Encoder) Number64(v uint64) *Encoder {
	enc.buf = strconv.AppendUint(enc.buf, v, 10)
	return enc
}

// Quoted writes s as a quoted string, escaping '"' and '\'.
func (enc *Encoder) Quoted(s string) *Encoder {
	enc.buf = append(enc.buf, '"')
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '"' || ch == '\\' {
			enc.buf = append(enc.buf, '\\')
		}
		enc.buf = append(enc.buf, ch)
	}
	enc.buf = append(enc.buf, '"')
	return enc
}

// CanQuoted reports whether s can be carried in a quoted string: NUL, CR and
// LF are forbidden, and IMAP4rev1 quoted strings are 7-bit.
func CanQuoted(s string) bool {
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == 0 || ch == '\r' || ch == '\n':
			return false
		case ch > 0x7e:
			return false
		}
	}
	return true
}

// CanAtom reports whether s can be carried as an atom. The NIL keyword is
// excluded: as an atom it would decode as nstring NIL.
func CanAtom(s string) bool {
	if len(s) == 0 || strings.EqualFold(s, "NIL") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsAtomChar(s[i]) {
			return false
		}
	}
	return true
}

// String writes s as a quoted string when possible, else as a literal.
func (enc *Encoder) String(s string) *Encoder {
	if CanQuoted(s) {
		return enc.Quoted(s)
	}
	return enc.Literal([]byte(s), LiteralInfo{Length: uint32(len(s))})
}

// Literal writes a literal: its header, then its payload. The info length
// must match len(data).
//
// A synchronizing literal encoded on the client side closes the current
// fragment with a gate after the header: the payload starts the next
// fragment, to be sent once the peer acknowledges. Non-synchronizing
// literals and all server-side literals stream without pauses.
func (enc *Encoder) Literal(data []byte, info LiteralInfo) *Encoder {
	if info.Literal8 {
		enc.buf = append(enc.buf, '~')
	}
	enc.buf = append(enc.buf, '{')
	enc.Number(info.Length)
	if info.NonSync {
		enc.buf = append(enc.buf, '+')
	}
	enc.buf = append(enc.buf, '}')
	enc.CRLF()
	if !info.NonSync && enc.side == ConnSideClient {
		enc.gate(info.Length)
	}
	return enc.writeBytes(data)
}

// gate closes the pending bytes as a gated fragment.
func (enc *Encoder) gate(n uint32) {
	enc.frags = append(enc.frags, Fragment{Data: enc.buf, Gated: true, GateLength: n})
	enc.buf = nil
}

// List writes a parenthesized list with n elements, invoking f for each.
func (enc *Encoder) List(n int, f func(i int)) *Encoder {
	enc.Special('(')
	for i := 0; i < n; i++ {
		if i > 0 {
			enc.SP()
		}
		f(i)
	}
	return enc.Special(')')
}

// Fragments closes the pending bytes and returns the ordered fragment list.
func (enc *Encoder) Fragments() []Fragment {
	if len(enc.buf) > 0 || len(enc.frags) == 0 {
		enc.frags = append(enc.frags, Fragment{Data: enc.buf})
		enc.buf = nil
	}
	return enc.frags
}
