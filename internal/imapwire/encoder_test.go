package imapwire

import "testing"

func join(frags []Fragment) string {
	var b []byte
	for _, frag := range frags {
		b = append(b, frag.Data...)
	}
	return string(b)
}

func TestEncoderChaining(t *testing.T) {
	enc := NewEncoder(ConnSideServer)
	enc.Special('*').SP().Atom("OK").SP().Text("ready").CRLF()
	frags := enc.Fragments()
	if len(frags) != 1 {
		t.Fatalf("Fragments() = %d fragments", len(frags))
	}
	if got := join(frags); got != "* OK ready\r\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestEncoderQuoted(t *testing.T) {
	enc := NewEncoder(ConnSideServer)
	enc.Quoted(`say "hi" \ bye`)
	if got := join(enc.Fragments()); got != `"say \"hi\" \\ bye"` {
		t.Fatalf("output = %q", got)
	}
}

func TestEncoderString(t *testing.T) {
	enc := NewEncoder(ConnSideServer)
	enc.String("plain")
	if got := join(enc.Fragments()); got != `"plain"` {
		t.Fatalf("output = %q", got)
	}

	// Strings that cannot be quoted become literals.
	enc = NewEncoder(ConnSideServer)
	enc.String("line\r\nbreak")
	if got := join(enc.Fragments()); got != "{11}\r\nline\r\nbreak" {
		t.Fatalf("output = %q", got)
	}
}

func TestEncoderLiteralGates(t *testing.T) {
	// Client side synchronizing literals close gated fragments.
	enc := NewEncoder(ConnSideClient)
	enc.Atom("a1").SP().Atom("LOGIN").SP()
	enc.Literal([]byte("mrc"), LiteralInfo{Length: 3})
	enc.SP()
	enc.Literal([]byte("secret"), LiteralInfo{Length: 6})
	enc.CRLF()

	frags := enc.Fragments()
	if len(frags) != 3 {
		t.Fatalf("Fragments() = %d fragments", len(frags))
	}
	if string(frags[0].Data) != "a1 LOGIN {3}\r\n" || !frags[0].Gated || frags[0].GateLength != 3 {
		t.Fatalf("fragment 0 = %q gated=%v", frags[0].Data, frags[0].Gated)
	}
	if string(frags[1].Data) != "mrc {6}\r\n" || !frags[1].Gated || frags[1].GateLength != 6 {
		t.Fatalf("fragment 1 = %q gated=%v", frags[1].Data, frags[1].Gated)
	}
	if string(frags[2].Data) != "secret\r\n" || frags[2].Gated {
		t.Fatalf("fragment 2 = %q gated=%v", frags[2].Data, frags[2].Gated)
	}
}

func TestEncoderLiteralNoGate(t *testing.T) {
	// Non-synchronizing literals stream without pauses.
	enc := NewEncoder(ConnSideClient)
	enc.Literal([]byte("abc"), LiteralInfo{Length: 3, NonSync: true})
	frags := enc.Fragments()
	if len(frags) != 1 || frags[0].Gated {
		t.Fatalf("Fragments() = %+v", frags)
	}
	if string(frags[0].Data) != "{3+}\r\nabc" {
		t.Fatalf("output = %q", frags[0].Data)
	}

	// Servers dictate flow: even synchronizing literals do not gate.
	enc = NewEncoder(ConnSideServer)
	enc.Literal([]byte("abc"), LiteralInfo{Length: 3})
	frags = enc.Fragments()
	if len(frags) != 1 || frags[0].Gated {
		t.Fatalf("Fragments() = %+v", frags)
	}
	if string(frags[0].Data) != "{3}\r\nabc" {
		t.Fatalf("output = %q", frags[0].Data)
	}

	// Extended literals carry the "~" marker.
	enc = NewEncoder(ConnSideServer)
	enc.Literal([]byte{0, 1}, LiteralInfo{Length: 2, Literal8: true, NonSync: true})
	if got := join(enc.Fragments()); got != "~{2+}\r\n\x00\x01" {
		t.Fatalf("output = %q", got)
	}
}

func TestEncoderList(t *testing.T) {
	enc := NewEncoder(ConnSideServer)
	items := []string{"a", "b", "c"}
	enc.List(len(items), func(i int) {
		enc.Atom(items[i])
	})
	if got := join(enc.Fragments()); got != "(a b c)" {
		t.Fatalf("output = %q", got)
	}

	enc = NewEncoder(ConnSideServer)
	enc.List(0, nil)
	if got := join(enc.Fragments()); got != "()" {
		t.Fatalf("output = %q", got)
	}
}
