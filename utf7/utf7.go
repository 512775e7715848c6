// Package utf7 implements the modified UTF-7 encoding defined in RFC 3501
// section 5.1.3, used for international characters in mailbox names.
//
// The codec itself passes mailbox names through opaquely; conversion is an
// explicit caller decision made through this package.
package utf7

import (
	"encoding/base64"
	"errors"

	"golang.org/x/text/encoding"
)

const (
	min = 0x20 // Minimum self-representing UTF-7 value
	max = 0x7E // Maximum self-representing UTF-7 value
)

var errInvalidUTF7 = errors.New("utf7: invalid modified UTF-7")

// The modified base64 alphabet: "," replaces "/", and padding is omitted.
var b64 = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+,").WithPadding(base64.NoPadding).Strict()

type enc struct{}

func (enc) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &encoder{}}
}

func (enc) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decoder{}}
}

// Encoding is the modified UTF-7 encoding.
var Encoding encoding.Encoding = enc{}
