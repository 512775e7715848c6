package imap

import "testing"

func TestParseSeqSet(t *testing.T) {
	tests := []struct {
		in  string
		out SeqSet
		ok  bool
	}{
		{"1", SeqSet{SeqNumOnly(1)}, true},
		{"*", SeqSet{SeqNumOnly(Star)}, true},
		{"1:*", SeqSet{SeqRange(1, Star)}, true},
		{"*:*", SeqSet{SeqRange(Star, Star)}, true},
		{"2:2", SeqSet{SeqRange(2, 2)}, true},
		{"1,2:4,*", SeqSet{SeqNumOnly(1), SeqRange(2, 4), SeqNumOnly(Star)}, true},
		// Ordering and duplicates are preserved verbatim.
		{"9,1,9", SeqSet{SeqNumOnly(9), SeqNumOnly(1), SeqNumOnly(9)}, true},
		{"4:2", SeqSet{SeqRange(4, 2)}, true},
		{"", nil, false},
		{"0", nil, false},
		{"01", nil, false},
		{"1,,2", nil, false},
		{"1:", nil, false},
		{"a", nil, false},
		{"4294967296", nil, false},
	}
	for _, test := range tests {
		got, err := ParseSeqSet(test.in)
		if test.ok {
			if err != nil {
				t.Errorf("ParseSeqSet(%q) = %v", test.in, err)
				continue
			}
			if got.String() != test.in {
				t.Errorf("ParseSeqSet(%q).String() = %q", test.in, got.String())
			}
			if len(got) != len(test.out) {
				t.Errorf("ParseSeqSet(%q) = %v, want %v", test.in, got, test.out)
				continue
			}
			for i := range got {
				if got[i] != test.out[i] {
					t.Errorf("ParseSeqSet(%q)[%d] = %v, want %v", test.in, i, got[i], test.out[i])
				}
			}
		} else if err == nil {
			t.Errorf("ParseSeqSet(%q) expected error, got %v", test.in, got)
		}
	}
}

func TestSeqSetString(t *testing.T) {
	set := SeqSet{SeqNumOnly(1), SeqRange(2, Star)}
	if got := set.String(); got != "1,2:*" {
		t.Errorf("String() = %q, want %q", got, "1,2:*")
	}
	if got := SeqSetNum(3, 1, 4).String(); got != "3,1,4" {
		t.Errorf("SeqSetNum String() = %q, want %q", got, "3,1,4")
	}
}
