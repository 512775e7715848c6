package utf7_test

import (
	"testing"

	"github.com/coalooball/imap-codec/utf7"
)

var encode = []struct {
	in  string
	out string
}{
	{"", ""},
	{"abc", "abc"},
	{"&", "&-"},
	{"&abc", "&-abc"},
	{"abc&", "abc&-"},
	{"a&b&c", "a&-b&-c"},
	{"\x19", "&ABk-"},
	{"\x1F", "&AB8-"},
	{"&,&ÿ&", "&-,&-&AP8-&-"},
	{"abc & ÿÿÿ & xyz", "abc &- &AP8A,wD,- &- xyz"},
	{"\U0001f60a", "&2D3eCg-"},
	{"☺!", "&Jjo-!"},
	{"Hello, 世界", "Hello, &ThZ1TA-"},
}

func TestEncoder(t *testing.T) {
	enc := utf7.Encoding.NewEncoder()

	for _, test := range encode {
		out, err := enc.String(test.in)
		if err != nil {
			t.Errorf("UTF7Encode(%+q) unexpected error; %v", test.in, err)
			continue
		}
		if out != test.out {
			t.Errorf("UTF7Encode(%+q) expected %+q; got %+q", test.in, test.out, out)
		}
	}
}

func TestEncodeDecodeInverse(t *testing.T) {
	enc := utf7.Encoding.NewEncoder()
	dec := utf7.Encoding.NewDecoder()

	for _, test := range encode {
		encoded, err := enc.String(test.in)
		if err != nil {
			t.Fatalf("UTF7Encode(%+q) unexpected error; %v", test.in, err)
		}
		decoded, err := dec.String(encoded)
		if err != nil {
			t.Errorf("UTF7Decode(%+q) unexpected error; %v", encoded, err)
			continue
		}
		if decoded != test.in {
			t.Errorf("UTF7Decode(UTF7Encode(%+q)) = %+q", test.in, decoded)
		}
	}
}
