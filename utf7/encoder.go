package utf7

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

type encoder struct {
	// pending accumulates consecutive non-representable runes so they are
	// emitted as a single shift sequence.
	pending []rune
}

func (e *encoder) Reset() {
	e.pending = nil
}

func (e *encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size <= 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				err = transform.ErrShortSrc
				break
			}
			// Invalid byte; encode the replacement character.
			r = '�'
			size = 1
		}
		if r >= min && r <= max {
			n := e.flushLen()
			need := n + 1
			if r == '&' {
				need++
			}
			if len(dst)-nDst < need {
				err = transform.ErrShortDst
				break
			}
			nDst += e.flush(dst[nDst:])
			dst[nDst] = byte(r)
			nDst++
			if r == '&' {
				dst[nDst] = '-'
				nDst++
			}
		} else {
			e.pending = append(e.pending, r)
		}
		nSrc += size
	}
	if err != nil {
		return nDst, nSrc, err
	}
	if atEOF {
		if len(dst)-nDst < e.flushLen() {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += e.flush(dst[nDst:])
	}
	return nDst, nSrc, nil
}

func (e *encoder) flushLen() int {
	if len(e.pending) == 0 {
		return 0
	}
	return 2 + b64.EncodedLen(2*len(utf16.Encode(e.pending)))
}

// flush writes the pending runes as a "&...-" shift sequence and returns
// the number of bytes written.
func (e *encoder) flush(dst []byte) int {
	if len(e.pending) == 0 {
		return 0
	}
	units := utf16.Encode(e.pending)
	raw := make([]byte, 2*len(units))
	for i, u := range units {
		raw[2*i] = byte(u >> 8)
		raw[2*i+1] = byte(u)
	}
	dst[0] = '&'
	n := 1
	b64.Encode(dst[n:], raw)
	n += b64.EncodedLen(len(raw))
	dst[n] = '-'
	n++
	e.pending = nil
	return n
}
