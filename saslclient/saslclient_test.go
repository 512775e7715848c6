package saslclient_test

import (
	"bytes"
	"testing"

	"github.com/emersion/go-sasl"

	imap "github.com/coalooball/imap-codec"
	"github.com/coalooball/imap-codec/saslclient"
)

func TestPlainWithInitialResponse(t *testing.T) {
	client := sasl.NewPlainClient("", "mrc", "secret")

	cmd, rest, err := saslclient.Command("a001", client, true)
	if err != nil {
		t.Fatalf("Command() = %v", err)
	}
	if rest != nil {
		t.Errorf("Command() returned a deferred initial response with SASL-IR")
	}
	body, ok := cmd.Body.(*imap.AuthenticateCommand)
	if !ok {
		t.Fatalf("Command() body = %T", cmd.Body)
	}
	if body.Mechanism != imap.AuthPlain {
		t.Errorf("mechanism = %q, want %q", body.Mechanism, imap.AuthPlain)
	}
	want := []byte("\x00mrc\x00secret")
	if !bytes.Equal(body.InitialResponse, want) {
		t.Errorf("initial response = %q, want %q", body.InitialResponse, want)
	}

	encoded := imap.EncodeCommand(cmd).Bytes()
	wantWire := "a001 AUTHENTICATE PLAIN AG1yYwBzZWNyZXQ=\r\n"
	if string(encoded) != wantWire {
		t.Errorf("encoded = %q, want %q", encoded, wantWire)
	}
}

func TestPlainWithoutInitialResponse(t *testing.T) {
	client := sasl.NewPlainClient("", "mrc", "secret")

	cmd, rest, err := saslclient.Command("a001", client, false)
	if err != nil {
		t.Fatalf("Command() = %v", err)
	}
	if cmd.Body.(*imap.AuthenticateCommand).InitialResponse != nil {
		t.Errorf("initial response included without SASL-IR")
	}
	if !bytes.Equal(rest, []byte("\x00mrc\x00secret")) {
		t.Errorf("deferred initial response = %q", rest)
	}

	data := &imap.AuthenticateData{Data: rest}
	wire := imap.EncodeAuthenticateData(data).Bytes()
	if string(wire) != "AG1yYwBzZWNyZXQ=\r\n" {
		t.Errorf("encoded authenticate data = %q", wire)
	}
}

func TestCancel(t *testing.T) {
	wire := imap.EncodeAuthenticateData(saslclient.Cancel()).Bytes()
	if string(wire) != "*\r\n" {
		t.Errorf("encoded cancel = %q", wire)
	}
}
