package imap

import "testing"

func TestNewString(t *testing.T) {
	tests := []struct {
		in   string
		form StringForm
	}{
		{"plain", FormAtom},
		{"user@example.org", FormAtom},
		{"two words", FormQuoted},
		{"", FormQuoted},
		{"NIL", FormQuoted},
		{"nil", FormQuoted},
		{"par(en", FormQuoted},
		{"line\nbreak", FormLiteral},
		{"\x00", FormLiteral},
		{"caf\xc3\xa9", FormLiteral},
	}
	for _, test := range tests {
		if got := NewString(test.in); got.Form != test.form {
			t.Errorf("NewString(%q).Form = %v, want %v", test.in, got.Form, test.form)
		}
	}
}

func TestIsValidTag(t *testing.T) {
	for _, tag := range []string{"a001", "ABCD", "tag.1"} {
		if !IsValidTag(tag) {
			t.Errorf("IsValidTag(%q) = false", tag)
		}
	}
	for _, tag := range []string{"", "a+b", "a b", "a\x01"} {
		if IsValidTag(tag) {
			t.Errorf("IsValidTag(%q) = true", tag)
		}
	}
}

func TestIsValidFlag(t *testing.T) {
	for _, flag := range []string{"\\Seen", "\\*", "$Forwarded", "keyword"} {
		if !IsValidFlag(flag) {
			t.Errorf("IsValidFlag(%q) = false", flag)
		}
	}
	for _, flag := range []string{"", "\\", "\\a\\b", "sp ace"} {
		if IsValidFlag(flag) {
			t.Errorf("IsValidFlag(%q) = true", flag)
		}
	}
}

func TestNewMailbox(t *testing.T) {
	for _, name := range []string{"INBOX", "inbox", "iNbOx"} {
		if mbox := NewMailbox(name); !mbox.Inbox {
			t.Errorf("NewMailbox(%q).Inbox = false", name)
		}
	}
	mbox := NewMailbox("Drafts")
	if mbox.Inbox || mbox.NameString() != "Drafts" {
		t.Errorf("NewMailbox(Drafts) = %+v", mbox)
	}
	if Inbox.NameString() != "INBOX" {
		t.Errorf("Inbox.NameString() = %q", Inbox.NameString())
	}
}

func TestNStringOr(t *testing.T) {
	if got := NilString().Or("fallback"); got != "fallback" {
		t.Errorf("NilString().Or() = %q", got)
	}
	if got := NewNString("value").Or("fallback"); got != "value" {
		t.Errorf("NewNString().Or() = %q", got)
	}
}
