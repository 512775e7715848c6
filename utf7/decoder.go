package utf7

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

type decoder struct {
	// afterShift is set right after a non-empty shift sequence; a second
	// shift may not follow immediately (null shift).
	afterShift bool
}

func (d *decoder) Reset() {
	d.afterShift = false
}

// Transform converts atomically: nothing is written or consumed unless the
// convertible prefix of src is entirely valid, so a failing input yields no
// partial output.
func (d *decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	out, consumed, afterShift, err := d.convert(src, atEOF)
	if err != nil && err != transform.ErrShortSrc {
		return 0, 0, err
	}
	if len(dst) < len(out) {
		return 0, 0, transform.ErrShortDst
	}
	d.afterShift = afterShift
	copy(dst, out)
	return len(out), consumed, err
}

func (d *decoder) convert(src []byte, atEOF bool) (out []byte, nSrc int, afterShift bool, err error) {
	afterShift = d.afterShift
	for nSrc < len(src) {
		b := src[nSrc]
		if b < min || b > max {
			return nil, 0, false, errInvalidUTF7
		}
		if b != '&' {
			out = append(out, b)
			nSrc++
			afterShift = false
			continue
		}
		end := bytes.IndexByte(src[nSrc+1:], '-')
		if end < 0 {
			if !atEOF {
				return out, nSrc, afterShift, transform.ErrShortSrc
			}
			return nil, 0, false, errInvalidUTF7
		}
		seq := src[nSrc+1 : nSrc+1+end]
		if len(seq) == 0 {
			// "&-" is the escaped ampersand.
			out = append(out, '&')
			nSrc += 2
			afterShift = false
			continue
		}
		if afterShift {
			return nil, 0, false, errInvalidUTF7
		}
		decoded, err := decodeShift(seq)
		if err != nil {
			return nil, 0, false, err
		}
		out = append(out, decoded...)
		nSrc += 1 + end + 1
		afterShift = true
	}
	return out, nSrc, afterShift, nil
}

// decodeShift converts the base64 payload of one shift sequence to UTF-8.
func decodeShift(seq []byte) ([]byte, error) {
	// The base64 decoder skips CR and LF, which are not in the alphabet.
	if bytes.ContainsAny(seq, "\r\n") {
		return nil, errInvalidUTF7
	}
	raw := make([]byte, b64.DecodedLen(len(seq)))
	n, err := b64.Decode(raw, seq)
	if err != nil {
		return nil, errInvalidUTF7
	}
	raw = raw[:n]
	if len(raw) == 0 || len(raw)%2 != 0 {
		return nil, errInvalidUTF7
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	var out []byte
	for i := 0; i < len(units); i++ {
		var r rune
		switch {
		case utf16.IsSurrogate(rune(units[i])):
			if i+1 >= len(units) {
				return nil, errInvalidUTF7
			}
			r = utf16.DecodeRune(rune(units[i]), rune(units[i+1]))
			if r == utf8.RuneError {
				return nil, errInvalidUTF7
			}
			i++
		default:
			r = rune(units[i])
		}
		if r >= min && r <= max {
			// Self-representing characters must not be base64 encoded.
			return nil, errInvalidUTF7
		}
		out = utf8.AppendRune(out, r)
	}
	return out, nil
}
