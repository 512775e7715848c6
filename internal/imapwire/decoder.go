package imapwire

import (
	"fmt"
	"strconv"
)

// A Decoder walks an input byte slice.
//
// Most methods return a bool and defer error handling: the first failure is
// recorded and every later call becomes a no-op returning false. The
// recorded error is one of *DecodeError, *IncompleteError or
// *LiteralAckError; see Err.
//
// Running out of input is never a syntax error. Any read past the end of the
// buffer records an IncompleteError, because the missing bytes could still
// complete the production. This is what makes the decoder resumable: the
// caller re-invokes it with the original bytes plus newly arrived bytes.
type Decoder struct {
	// CRLFRelaxed accepts a bare LF wherever CRLF is required.
	CRLFRelaxed bool
	// RectifyNumbers accepts the string "-1" where a non-negative number is
	// required and rectifies it to 0.
	RectifyNumbers bool
	// MaxLiteralSize caps the declared length of literals. Zero means no
	// ceiling below the wire maximum of 2^32-1.
	MaxLiteralSize uint32

	src []byte
	pos int
	err error
}

// NewDecoder creates a decoder over src.
func NewDecoder(src []byte) *Decoder {
	return &Decoder{src: src}
}

// Err returns the recorded error, if any.
func (dec *Decoder) Err() error {
	return dec.err
}

// Pos returns the current offset into the input.
func (dec *Decoder) Pos() int {
	return dec.pos
}

// Rest returns the bytes after the current offset.
func (dec *Decoder) Rest() []byte {
	return dec.src[dec.pos:]
}

// Failf records a decode failure at the current offset. It keeps an earlier
// recorded error, mirroring the rest of the decoder.
func (dec *Decoder) Failf(kind ErrorKind, format string, args ...interface{}) bool {
	if dec.err == nil {
		dec.err = &DecodeError{Kind: kind, Offset: dec.pos, Message: fmt.Sprintf(format, args...)}
	}
	return false
}

func (dec *Decoder) incomplete(needed int64) bool {
	if dec.err == nil {
		dec.err = &IncompleteError{Needed: needed}
	}
	return false
}

func (dec *Decoder) literalAck(n uint32) bool {
	if dec.err == nil {
		dec.err = &LiteralAckError{Length: n}
	}
	return false
}

// A Mark is a saved decoder position, used for bounded lookahead.
type Mark struct {
	pos int
	err error
}

// Mark saves the current position.
func (dec *Decoder) Mark() Mark {
	return Mark{pos: dec.pos, err: dec.err}
}

// Reset rewinds to a saved position. A recorded syntax error is discarded so
// that another branch can be tried; Incomplete and LiteralAck signals are
// kept, because a branch that ran out of input can never be ruled out.
func (dec *Decoder) Reset(m Mark) {
	if _, ok := dec.err.(*DecodeError); ok || dec.err == nil {
		dec.pos = m.pos
		dec.err = m.err
	}
}

func (dec *Decoder) readByte() (byte, bool) {
	if dec.err != nil {
		return 0, false
	}
	if dec.pos >= len(dec.src) {
		return 0, dec.incomplete(0)
	}
	b := dec.src[dec.pos]
	dec.pos++
	return b, true
}

// PeekByte returns the next byte without consuming it. ok is false when the
// input is exhausted (recording an IncompleteError) or a failure was
// recorded earlier.
func (dec *Decoder) PeekByte() (byte, bool) {
	if dec.err != nil {
		return 0, false
	}
	if dec.pos >= len(dec.src) {
		return 0, dec.incomplete(0)
	}
	return dec.src[dec.pos], true
}

func (dec *Decoder) acceptByte(want byte) bool {
	if dec.err != nil {
		return false
	}
	if dec.pos >= len(dec.src) {
		return dec.incomplete(0)
	}
	if dec.src[dec.pos] != want {
		return false
	}
	dec.pos++
	return true
}

// Expect records a grammar violation when ok is false and no other failure
// is pending.
func (dec *Decoder) Expect(ok bool, name string) bool {
	if ok {
		return true
	}
	if dec.err != nil {
		return false
	}
	if dec.pos < len(dec.src) {
		return dec.Failf(GrammarViolation, "expected %v, got %q", name, dec.src[dec.pos])
	}
	return dec.Failf(GrammarViolation, "expected %v", name)
}

// SP accepts a single space.
func (dec *Decoder) SP() bool {
	return dec.acceptByte(' ')
}

// ExpectSP requires a single space.
func (dec *Decoder) ExpectSP() bool {
	return dec.Expect(dec.SP(), "SP")
}

// CRLF accepts a line terminator. A bare LF is accepted under CRLFRelaxed.
func (dec *Decoder) CRLF() bool {
	if dec.CRLFRelaxed && dec.acceptByte('\n') {
		return true
	}
	if !dec.acceptByte('\r') {
		return false
	}
	return dec.acceptByte('\n')
}

// ExpectCRLF requires a line terminator.
func (dec *Decoder) ExpectCRLF() bool {
	return dec.Expect(dec.CRLF(), "CRLF")
}

// AtCRLF reports whether the next bytes form a line terminator, without
// consuming them. Running out of input records an IncompleteError.
func (dec *Decoder) AtCRLF() bool {
	b, ok := dec.PeekByte()
	if !ok {
		return false
	}
	if dec.CRLFRelaxed && b == '\n' {
		return true
	}
	if b != '\r' {
		return false
	}
	if dec.pos+1 >= len(dec.src) {
		dec.incomplete(0)
		return false
	}
	return dec.src[dec.pos+1] == '\n'
}

// Special accepts a single specific byte.
func (dec *Decoder) Special(b byte) bool {
	return dec.acceptByte(b)
}

// ExpectSpecial requires a single specific byte.
func (dec *Decoder) ExpectSpecial(b byte) bool {
	return dec.Expect(dec.Special(b), fmt.Sprintf("%q", string(b)))
}

func (dec *Decoder) takeWhile1(valid func(byte) bool) (string, bool) {
	start := dec.pos
	for dec.pos < len(dec.src) && valid(dec.src[dec.pos]) {
		dec.pos++
	}
	if dec.pos >= len(dec.src) {
		// The token might continue in the next chunk.
		return "", dec.incomplete(0)
	}
	if dec.pos == start {
		return "", false
	}
	return string(dec.src[start:dec.pos]), true
}

// TakeWhile1 accepts a non-empty run of bytes satisfying valid.
func (dec *Decoder) TakeWhile1(valid func(byte) bool, ptr *string) bool {
	s, ok := dec.takeWhile1(valid)
	if !ok {
		return false
	}
	*ptr = s
	return true
}

// Keyword accepts an atom restricted to keyword positions: "[" is excluded
// so that "BODY[" splits at the section bracket.
func (dec *Decoder) Keyword(ptr *string) bool {
	s, ok := dec.takeWhile1(func(ch byte) bool {
		return IsAtomChar(ch) && ch != '['
	})
	if !ok {
		return false
	}
	*ptr = s
	return true
}

// ExpectKeyword requires a keyword atom.
func (dec *Decoder) ExpectKeyword(ptr *string) bool {
	return dec.Expect(dec.Keyword(ptr), "keyword")
}

// PeekLine returns the bytes from the current position up to the next line
// terminator without consuming anything. Finding no terminator records an
// IncompleteError.
func (dec *Decoder) PeekLine() ([]byte, bool) {
	if dec.err != nil {
		return nil, false
	}
	for i := dec.pos; i < len(dec.src); i++ {
		switch dec.src[i] {
		case '\r':
			if i+1 >= len(dec.src) {
				return nil, dec.incomplete(0)
			}
			if dec.src[i+1] == '\n' {
				return dec.src[dec.pos:i], true
			}
		case '\n':
			if dec.CRLFRelaxed {
				return dec.src[dec.pos:i], true
			}
		}
	}
	return nil, dec.incomplete(0)
}

// Advance consumes n bytes. The caller must have peeked them already.
func (dec *Decoder) Advance(n int) {
	if dec.err == nil {
		dec.pos += n
	}
}

// Atom accepts a non-empty run of ATOM-CHAR.
func (dec *Decoder) Atom(ptr *string) bool {
	s, ok := dec.takeWhile1(IsAtomChar)
	if !ok {
		return false
	}
	*ptr = s
	return true
}

// ExpectAtom requires an atom.
func (dec *Decoder) ExpectAtom(ptr *string) bool {
	return dec.Expect(dec.Atom(ptr), "atom")
}

// AStringAtom accepts the atom form of an astring (ASTRING-CHAR).
func (dec *Decoder) AStringAtom(ptr *string) bool {
	s, ok := dec.takeWhile1(IsAStringChar)
	if !ok {
		return false
	}
	*ptr = s
	return true
}

// ListChars accepts a non-empty run of list-char.
func (dec *Decoder) ListChars(ptr *string) bool {
	s, ok := dec.takeWhile1(IsListChar)
	if !ok {
		return false
	}
	*ptr = s
	return true
}

// Tag accepts a command tag: a non-empty run of ASTRING-CHAR except "+".
func (dec *Decoder) Tag(ptr *string) bool {
	s, ok := dec.takeWhile1(func(ch byte) bool {
		return IsAStringChar(ch) && ch != '+'
	})
	if !ok {
		return false
	}
	*ptr = s
	return true
}

// ExpectTag requires a command tag.
func (dec *Decoder) ExpectTag(ptr *string) bool {
	return dec.Expect(dec.Tag(ptr), "tag")
}

// Text accepts a non-empty run of TEXT-CHAR, i.e. everything up to CR or LF.
func (dec *Decoder) Text(ptr *string) bool {
	start := dec.pos
	for dec.pos < len(dec.src) {
		ch := dec.src[dec.pos]
		if ch == '\r' || ch == '\n' {
			break
		}
		dec.pos++
	}
	if dec.pos >= len(dec.src) {
		return dec.incomplete(0)
	}
	if dec.pos == start {
		return false
	}
	*ptr = string(dec.src[start:dec.pos])
	return true
}

// ExpectText requires a non-empty text run.
func (dec *Decoder) ExpectText(ptr *string) bool {
	return dec.Expect(dec.Text(ptr), "text")
}

func (dec *Decoder) digits() (s string, rectified, ok bool) {
	if dec.RectifyNumbers {
		m := dec.Mark()
		if dec.acceptByte('-') {
			if dec.acceptByte('1') {
				// Guard against "-10": the next byte must not be a digit.
				if b, ok := dec.PeekByte(); ok && (b < '0' || b > '9') {
					return "0", true, true
				}
			}
			dec.Reset(m)
		}
	}
	s, ok = dec.takeWhile1(func(ch byte) bool {
		return ch >= '0' && ch <= '9'
	})
	return s, false, ok
}

// Number accepts an unsigned 32-bit number.
func (dec *Decoder) Number(ptr *uint32) bool {
	s, _, ok := dec.digits()
	if !ok {
		return false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return dec.Failf(InvalidTerminal, "number %q out of range", s)
	}
	*ptr = uint32(v)
	return true
}

// ExpectNumber requires an unsigned 32-bit number.
func (dec *Decoder) ExpectNumber(ptr *uint32) bool {
	return dec.Expect(dec.Number(ptr), "number")
}

// NZNumber accepts a non-zero unsigned 32-bit number. A rectified "-1" is
// let through as 0: the quirk would be pointless if the zero it produces
// were rejected right away.
func (dec *Decoder) NZNumber(ptr *uint32) bool {
	s, rectified, ok := dec.digits()
	if !ok {
		return false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return dec.Failf(InvalidTerminal, "number %q out of range", s)
	}
	if v == 0 && !rectified {
		return dec.Failf(InvalidTerminal, "expected nz-number, got 0")
	}
	*ptr = uint32(v)
	return true
}

// ExpectNZNumber requires a non-zero unsigned 32-bit number.
func (dec *Decoder) ExpectNZNumber(ptr *uint32) bool {
	return dec.Expect(dec.NZNumber(ptr), "nz-number")
}

// Number64 accepts an unsigned 64-bit number (CONDSTORE mod-sequences).
func (dec *Decoder) Number64(ptr *uint64) bool {
	s, _, ok := dec.digits()
	if !ok {
		return false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return dec.Failf(InvalidTerminal, "number %q out of range", s)
	}
	*ptr = v
	return true
}

// ExpectNumber64 requires an unsigned 64-bit number.
func (dec *Decoder) ExpectNumber64(ptr *uint64) bool {
	return dec.Expect(dec.Number64(ptr), "number64")
}

// Quoted accepts a quoted string and stores the unescaped contents.
func (dec *Decoder) Quoted(ptr *string) bool {
	if !dec.acceptByte('"') {
		return false
	}
	var contents []byte
	for {
		b, ok := dec.readByte()
		if !ok {
			return false
		}
		switch b {
		case '"':
			*ptr = string(contents)
			return true
		case '\\':
			b, ok = dec.readByte()
			if !ok {
				return false
			}
			if b != '"' && b != '\\' {
				return dec.Failf(InvalidTerminal, "invalid escape %q in quoted string", b)
			}
			contents = append(contents, b)
		case '\r', '\n':
			return dec.Failf(InvalidTerminal, "CR and LF not allowed in quoted string")
		default:
			contents = append(contents, b)
		}
	}
}

// LiteralInfo describes a literal header.
type LiteralInfo struct {
	// Length is the declared number of octets.
	Length uint32
	// Literal8 marks a "~{...}" literal carrying 8-bit data.
	Literal8 bool
	// NonSync marks a "{...+}" literal requiring no continuation.
	NonSync bool
}

// Literal accepts a complete literal: header, CRLF and payload. The payload
// borrows from the input buffer.
//
// When the payload of a synchronizing literal is not fully buffered, a
// LiteralAckError is recorded: the caller owes the peer a continuation
// request. A short non-synchronizing literal records an IncompleteError with
// the exact octet count still missing.
func (dec *Decoder) Literal(ptr *[]byte, info *LiteralInfo) bool {
	var li LiteralInfo
	li.Literal8 = dec.acceptByte('~')
	if !dec.acceptByte('{') {
		if li.Literal8 {
			return dec.Failf(GrammarViolation, "expected literal after '~'")
		}
		return false
	}
	if !dec.ExpectNumber(&li.Length) {
		return false
	}
	li.NonSync = dec.acceptByte('+')
	if dec.err != nil {
		return false
	}
	if !dec.ExpectSpecial('}') || !dec.ExpectCRLF() {
		return false
	}
	if dec.MaxLiteralSize != 0 && li.Length > dec.MaxLiteralSize {
		return dec.Failf(LiteralTooLarge, "literal of %v octets exceeds the %v octet ceiling", li.Length, dec.MaxLiteralSize)
	}
	avail := len(dec.src) - dec.pos
	if int64(avail) < int64(li.Length) {
		if li.NonSync {
			return dec.incomplete(int64(li.Length) - int64(avail))
		}
		return dec.literalAck(li.Length)
	}
	*ptr = dec.src[dec.pos : dec.pos+int(li.Length) : dec.pos+int(li.Length)]
	dec.pos += int(li.Length)
	if info != nil {
		*info = li
	}
	return true
}

// List parses a parenthesized list, invoking f for each element. An empty
// list "()" invokes f zero times.
func (dec *Decoder) List(f func() bool) bool {
	if !dec.acceptByte('(') {
		return false
	}
	if dec.acceptByte(')') {
		return true
	}
	if dec.err != nil {
		return false
	}
	for {
		if !f() {
			if dec.err == nil {
				dec.Failf(GrammarViolation, "expected list element")
			}
			return false
		}
		if dec.acceptByte(')') {
			return true
		}
		if !dec.ExpectSP() {
			return false
		}
	}
}

// ExpectList requires a parenthesized list.
func (dec *Decoder) ExpectList(f func() bool) bool {
	return dec.Expect(dec.List(f), "parenthesized list")
}
