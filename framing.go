package imap

import "strconv"

// A LineFramer reduces a byte stream to line-or-literal records: a record
// is a full line including its terminator plus, when the line announces
// literals, the literal payloads and every follow-up line until one
// carries no trailing literal header.
//
// This is the canonical pre-parser a transport wrapper employs to cut an
// incoming stream into units the decoder can consume. The framer owns no
// socket; bytes go in via Push, records come out via Next.
type LineFramer struct {
	// CRLFRelaxed accepts a bare LF as a line terminator.
	CRLFRelaxed bool

	buf []byte
	off int
}

// Push appends newly received bytes.
func (f *LineFramer) Push(b []byte) {
	if f.off > 0 && f.off == len(f.buf) {
		f.buf = f.buf[:0]
		f.off = 0
	}
	f.buf = append(f.buf, b...)
}

// Next returns the next complete record. The returned slice stays valid
// until the next Push.
func (f *LineFramer) Next() ([]byte, bool) {
	n, _, complete := f.scan()
	if !complete {
		return nil, false
	}
	rec := f.buf[f.off : f.off+n]
	f.off += n
	return rec, true
}

// AckDue reports a synchronizing literal whose header is buffered but whose
// payload has not fully arrived: the transport owes the peer a continuation
// request of the returned length. Non-synchronizing literals never ack.
func (f *LineFramer) AckDue() (uint32, bool) {
	_, ack, complete := f.scan()
	if complete || ack == nil {
		return 0, false
	}
	return *ack, true
}

// scan walks the buffered bytes from the current offset. It returns the
// record length when a full record is buffered, else the length of a
// pending synchronizing literal, if any.
func (f *LineFramer) scan() (n int, ack *uint32, complete bool) {
	rest := f.buf[f.off:]
	pos := 0
	for {
		eol, termLen := f.findTerm(rest[pos:])
		if eol < 0 {
			return 0, nil, false
		}
		line := rest[pos : pos+eol]
		pos += eol + termLen
		size, sync, ok := literalHeader(line)
		if !ok {
			return pos, nil, true
		}
		if len(rest)-pos < int(size) {
			if sync {
				ack = &size
			}
			return 0, ack, false
		}
		pos += int(size)
	}
}

// findTerm locates the next line terminator, returning its offset and
// length.
func (f *LineFramer) findTerm(b []byte) (int, int) {
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\r':
			if i+1 < len(b) && b[i+1] == '\n' {
				return i, 2
			}
		case '\n':
			if f.CRLFRelaxed {
				return i, 1
			}
		}
	}
	return -1, 0
}

// literalHeader recognizes a "{N}", "{N+}", "~{N}" or "~{N+}" suffix.
func literalHeader(line []byte) (size uint32, sync bool, ok bool) {
	if len(line) < 3 || line[len(line)-1] != '}' {
		return 0, false, false
	}
	open := -1
	for i := len(line) - 2; i >= 0; i-- {
		if line[i] == '{' {
			open = i
			break
		}
	}
	if open < 0 {
		return 0, false, false
	}
	digits := line[open+1 : len(line)-1]
	sync = true
	if len(digits) > 0 && digits[len(digits)-1] == '+' {
		sync = false
		digits = digits[:len(digits)-1]
	}
	if len(digits) == 0 {
		return 0, false, false
	}
	v, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		return 0, false, false
	}
	return uint32(v), sync, true
}
