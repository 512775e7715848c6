package imap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Known-answer command tests: the input decodes to the value, the value
// encodes to the canonical wire form, and the canonical form decodes back
// to the same value.
var commandTests = []struct {
	name  string
	in    string
	cmd   *Command
	canon string
}{
	{
		name:  "login",
		in:    "a001 login mrc secret\r\n",
		cmd:   &Command{Tag: "a001", Body: &LoginCommand{Username: Atom("mrc"), Password: Atom("secret")}},
		canon: "a001 LOGIN mrc secret\r\n",
	},
	{
		name:  "login quoted",
		in:    "a001 LOGIN \"mrc\" \"my secret\"\r\n",
		cmd:   &Command{Tag: "a001", Body: &LoginCommand{Username: Quoted("mrc"), Password: Quoted("my secret")}},
		canon: "a001 LOGIN \"mrc\" \"my secret\"\r\n",
	},
	{
		name:  "select inbox case fold",
		in:    "a002 select inbox\r\n",
		cmd:   &Command{Tag: "a002", Body: &SelectCommand{Mailbox: Inbox}},
		canon: "a002 SELECT INBOX\r\n",
	},
	{
		name:  "examine condstore",
		in:    "s100 EXAMINE archive (CONDSTORE)\r\n",
		cmd:   &Command{Tag: "s100", Body: &ExamineCommand{Mailbox: Mailbox{Name: Atom("archive")}, CondStore: true}},
		canon: "s100 EXAMINE archive (CONDSTORE)\r\n",
	},
	{
		name: "select qresync",
		in:   "s101 SELECT inbox (QRESYNC (67890007 90060115194045000 41,43:211))\r\n",
		cmd: &Command{Tag: "s101", Body: &SelectCommand{Mailbox: Inbox, QResync: &QResyncParam{
			UIDValidity: 67890007,
			ModSeq:      90060115194045000,
			KnownUIDs:   SeqSet{SeqNumOnly(41), SeqRange(43, 211)},
		}}},
		canon: "s101 SELECT INBOX (QRESYNC (67890007 90060115194045000 41,43:211))\r\n",
	},
	{
		name:  "capability",
		in:    "abcd CAPABILITY\r\n",
		cmd:   &Command{Tag: "abcd", Body: &CapabilityCommand{}},
		canon: "abcd CAPABILITY\r\n",
	},
	{
		name:  "noop",
		in:    "a047 noop\r\n",
		cmd:   &Command{Tag: "a047", Body: &NoopCommand{}},
		canon: "a047 NOOP\r\n",
	},
	{
		name:  "starttls",
		in:    "a002 STARTTLS\r\n",
		cmd:   &Command{Tag: "a002", Body: &StartTLSCommand{}},
		canon: "a002 STARTTLS\r\n",
	},
	{
		name:  "idle",
		in:    "a003 IDLE\r\n",
		cmd:   &Command{Tag: "a003", Body: &IdleCommand{}},
		canon: "a003 IDLE\r\n",
	},
	{
		name: "authenticate with initial response",
		in:   "a001 AUTHENTICATE PLAIN AG1yYwBzZWNyZXQ=\r\n",
		cmd: &Command{Tag: "a001", Body: &AuthenticateCommand{
			Mechanism:       AuthPlain,
			InitialResponse: []byte("\x00mrc\x00secret"),
		}},
		canon: "a001 AUTHENTICATE PLAIN AG1yYwBzZWNyZXQ=\r\n",
	},
	{
		name:  "authenticate empty initial response",
		in:    "a001 AUTHENTICATE EXTERNAL =\r\n",
		cmd:   &Command{Tag: "a001", Body: &AuthenticateCommand{Mechanism: "EXTERNAL", InitialResponse: []byte{}}},
		canon: "a001 AUTHENTICATE EXTERNAL =\r\n",
	},
	{
		name:  "create",
		in:    "A003 CREATE owatagusiam/\r\n",
		cmd:   &Command{Tag: "A003", Body: &CreateCommand{Mailbox: Mailbox{Name: Atom("owatagusiam/")}}},
		canon: "A003 CREATE owatagusiam/\r\n",
	},
	{
		name:  "rename",
		in:    "A683 RENAME blurdybloop sarasoop\r\n",
		cmd:   &Command{Tag: "A683", Body: &RenameCommand{Mailbox: Mailbox{Name: Atom("blurdybloop")}, NewName: Mailbox{Name: Atom("sarasoop")}}},
		canon: "A683 RENAME blurdybloop sarasoop\r\n",
	},
	{
		name:  "list",
		in:    "A101 LIST \"\" *\r\n",
		cmd:   &Command{Tag: "A101", Body: &ListCommand{Ref: Mailbox{Name: Quoted("")}, Pattern: ListMailbox{Token: "*"}}},
		canon: "A101 LIST \"\" *\r\n",
	},
	{
		name:  "lsub",
		in:    "A002 LSUB \"#news.\" \"comp.mail.%\"\r\n",
		cmd:   &Command{Tag: "A002", Body: &LsubCommand{Ref: Mailbox{Name: Quoted("#news.")}, Pattern: ListMailbox{Str: Quoted("comp.mail.%")}}},
		canon: "A002 LSUB \"#news.\" \"comp.mail.%\"\r\n",
	},
	{
		name: "status",
		in:   "A042 STATUS blurdybloop (UIDNEXT MESSAGES)\r\n",
		cmd: &Command{Tag: "A042", Body: &StatusCommand{
			Mailbox: Mailbox{Name: Atom("blurdybloop")},
			Items:   []StatusItem{StatusUIDNext, StatusMessages},
		}},
		canon: "A042 STATUS blurdybloop (UIDNEXT MESSAGES)\r\n",
	},
	{
		name: "append",
		in:   "A003 APPEND saved (\\Seen) \"21-Jun-2025 12:00:00 +0000\" {5+}\r\nhello\r\n",
		cmd: &Command{Tag: "A003", Body: &AppendCommand{
			Mailbox:      Mailbox{Name: Atom("saved")},
			Flags:        []Flag{FlagSeen},
			InternalDate: time.Date(2025, time.June, 21, 12, 0, 0, 0, time.UTC),
			Message:      NonSyncLiteral([]byte("hello")),
		}},
		canon: "A003 APPEND saved (\\Seen) \"21-Jun-2025 12:00:00 +0000\" {5+}\r\nhello\r\n",
	},
	{
		name:  "check",
		in:    "FXXZ CHECK\r\n",
		cmd:   &Command{Tag: "FXXZ", Body: &CheckCommand{}},
		canon: "FXXZ CHECK\r\n",
	},
	{
		name:  "expunge",
		in:    "A202 EXPUNGE\r\n",
		cmd:   &Command{Tag: "A202", Body: &ExpungeCommand{}},
		canon: "A202 EXPUNGE\r\n",
	},
	{
		name:  "uid expunge",
		in:    "A003 UID EXPUNGE 3000:3002\r\n",
		cmd:   &Command{Tag: "A003", Body: &ExpungeCommand{UID: true, UIDs: SeqSet{SeqRange(3000, 3002)}}},
		canon: "A003 UID EXPUNGE 3000:3002\r\n",
	},
	{
		name: "search",
		in:   "A282 SEARCH FLAGGED SINCE 1-Feb-1994 NOT FROM \"Smith\"\r\n",
		cmd: &Command{Tag: "A282", Body: &SearchCommand{Keys: []SearchKey{
			{Kind: SearchFlagged},
			{Kind: SearchSince, Date: time.Date(1994, time.February, 1, 0, 0, 0, 0, time.UTC)},
			{Kind: SearchNot, Keys: []SearchKey{{Kind: SearchFrom, Str: Quoted("Smith")}}},
		}}},
		canon: "A282 SEARCH FLAGGED SINCE 1-Feb-1994 NOT FROM \"Smith\"\r\n",
	},
	{
		name: "search charset or",
		in:   "A283 SEARCH CHARSET UTF-8 OR 1:5 UNSEEN\r\n",
		cmd: &Command{Tag: "A283", Body: &SearchCommand{Charset: "UTF-8", Keys: []SearchKey{
			{Kind: SearchOr, Keys: []SearchKey{
				{Kind: SearchSeqSet, SeqSet: SeqSet{SeqRange(1, 5)}},
				{Kind: SearchUnseen},
			}},
		}}},
		canon: "A283 SEARCH CHARSET UTF-8 OR 1:5 UNSEEN\r\n",
	},
	{
		name: "uid search modseq",
		in:   "a UID SEARCH MODSEQ 620162338 (UNDELETED)\r\n",
		cmd: &Command{Tag: "a", Body: &SearchCommand{UID: true, Keys: []SearchKey{
			{Kind: SearchModSeq, ModSeq: 620162338},
			{Kind: SearchList, Keys: []SearchKey{{Kind: SearchUndeleted}}},
		}}},
		canon: "a UID SEARCH MODSEQ 620162338 (UNDELETED)\r\n",
	},
	{
		name: "fetch macro",
		in:   "A654 FETCH 2:4 FULL\r\n",
		cmd: &Command{Tag: "A654", Body: &FetchCommand{
			SeqSet: SeqSet{SeqRange(2, 4)},
			Macro:  FetchMacroFull,
		}},
		canon: "A654 FETCH 2:4 FULL\r\n",
	},
	{
		name: "fetch single bare item",
		in:   "A654 FETCH 1 FLAGS\r\n",
		cmd: &Command{Tag: "A654", Body: &FetchCommand{
			SeqSet: SeqSet{SeqNumOnly(1)},
			Items:  []FetchItem{FetchItemFlags},
		}},
		canon: "A654 FETCH 1 (FLAGS)\r\n",
	},
	{
		name: "uid fetch body peek section partial",
		in:   "ABCD UID FETCH 1,2:* (BODY.PEEK[1.2.3.4.MIME]<42.1337>)\r\n",
		cmd: &Command{Tag: "ABCD", Body: &FetchCommand{
			UID:    true,
			SeqSet: SeqSet{SeqNumOnly(1), SeqRange(2, Star)},
			Items: []FetchItem{&FetchItemBodySection{
				Part:      []int{1, 2, 3, 4},
				Specifier: PartSpecifierMIME,
				Partial:   &SectionPartial{Offset: 42, Size: 1337},
				Peek:      true,
			}},
		}},
		canon: "ABCD UID FETCH 1,2:* (BODY.PEEK[1.2.3.4.MIME]<42.1337>)\r\n",
	},
	{
		name: "fetch header fields",
		in:   "a FETCH 1 (BODY[HEADER.FIELDS (DATE FROM)])\r\n",
		cmd: &Command{Tag: "a", Body: &FetchCommand{
			SeqSet: SeqSet{SeqNumOnly(1)},
			Items: []FetchItem{&FetchItemBodySection{
				Specifier:    PartSpecifierHeaderFields,
				HeaderFields: []String{Atom("DATE"), Atom("FROM")},
			}},
		}},
		canon: "a FETCH 1 (BODY[HEADER.FIELDS (DATE FROM)])\r\n",
	},
	{
		name: "uid fetch changedsince vanished",
		in:   "s100 UID FETCH 300:500 (FLAGS) (CHANGEDSINCE 12345 VANISHED)\r\n",
		cmd: &Command{Tag: "s100", Body: &FetchCommand{
			UID:          true,
			SeqSet:       SeqSet{SeqRange(300, 500)},
			Items:        []FetchItem{FetchItemFlags},
			ChangedSince: 12345,
			Vanished:     true,
		}},
		canon: "s100 UID FETCH 300:500 (FLAGS) (CHANGEDSINCE 12345 VANISHED)\r\n",
	},
	{
		name: "store",
		in:   "A003 STORE 2:4 +FLAGS (\\Deleted)\r\n",
		cmd: &Command{Tag: "A003", Body: &StoreCommand{
			SeqSet: SeqSet{SeqRange(2, 4)},
			Op:     StoreFlagsAdd,
			Flags:  []Flag{FlagDeleted},
		}},
		canon: "A003 STORE 2:4 +FLAGS (\\Deleted)\r\n",
	},
	{
		name: "store silent bare flags",
		in:   "A003 STORE 1 -FLAGS.SILENT \\Seen \\Draft\r\n",
		cmd: &Command{Tag: "A003", Body: &StoreCommand{
			SeqSet: SeqSet{SeqNumOnly(1)},
			Op:     StoreFlagsDel,
			Silent: true,
			Flags:  []Flag{FlagSeen, FlagDraft},
		}},
		canon: "A003 STORE 1 -FLAGS.SILENT (\\Seen \\Draft)\r\n",
	},
	{
		name: "store unchangedsince",
		in:   "d105 STORE 7,5,9 (UNCHANGEDSINCE 320162338) +FLAGS.SILENT (\\Deleted)\r\n",
		cmd: &Command{Tag: "d105", Body: &StoreCommand{
			SeqSet:         SeqSet{SeqNumOnly(7), SeqNumOnly(5), SeqNumOnly(9)},
			Op:             StoreFlagsAdd,
			Silent:         true,
			Flags:          []Flag{FlagDeleted},
			UnchangedSince: 320162338,
		}},
		canon: "d105 STORE 7,5,9 (UNCHANGEDSINCE 320162338) +FLAGS.SILENT (\\Deleted)\r\n",
	},
	{
		name: "uid copy",
		in:   "A003 UID COPY 2:4 meeting\r\n",
		cmd: &Command{Tag: "A003", Body: &CopyCommand{
			UID:     true,
			SeqSet:  SeqSet{SeqRange(2, 4)},
			Mailbox: Mailbox{Name: Atom("meeting")},
		}},
		canon: "A003 UID COPY 2:4 meeting\r\n",
	},
	{
		name:  "enable",
		in:    "t1 ENABLE QRESYNC CONDSTORE\r\n",
		cmd:   &Command{Tag: "t1", Body: &EnableCommand{Caps: []Capability{CapQResync, CapCondStore}}},
		canon: "t1 ENABLE QRESYNC CONDSTORE\r\n",
	},
	{
		name:  "compress",
		in:    "a COMPRESS DEFLATE\r\n",
		cmd:   &Command{Tag: "a", Body: &CompressCommand{Algorithm: "DEFLATE"}},
		canon: "a COMPRESS DEFLATE\r\n",
	},
	{
		name:  "logout",
		in:    "A023 LOGOUT\r\n",
		cmd:   &Command{Tag: "A023", Body: &LogoutCommand{}},
		canon: "A023 LOGOUT\r\n",
	},
}

func TestDecodeCommand(t *testing.T) {
	for _, test := range commandTests {
		t.Run(test.name, func(t *testing.T) {
			cmd, rest, err := DecodeCommand([]byte(test.in), nil)
			require.NoError(t, err)
			require.Empty(t, rest)
			require.Equal(t, test.cmd, cmd)
		})
	}
}

func TestEncodeCommand(t *testing.T) {
	for _, test := range commandTests {
		t.Run(test.name, func(t *testing.T) {
			encoded := EncodeCommand(test.cmd)
			require.Equal(t, test.canon, string(encoded.Bytes()))

			// The canonical form must decode back to the same value.
			cmd, rest, err := DecodeCommand(encoded.Bytes(), nil)
			require.NoError(t, err)
			require.Empty(t, rest)
			require.Equal(t, test.cmd, cmd)
		})
	}
}

func TestDecodeCommandResidual(t *testing.T) {
	cmd, rest, err := DecodeCommand([]byte("a1 NOOP\r\na2 CAPA"), nil)
	require.NoError(t, err)
	require.Equal(t, "a2 CAPA", string(rest))
	require.Equal(t, &Command{Tag: "a1", Body: &NoopCommand{}}, cmd)
}

func TestDecodeCommandSynchronizingLiterals(t *testing.T) {
	// First chunk announces a synchronizing literal: the decoder demands a
	// continuation before the peer will send the payload.
	_, _, err := DecodeCommand([]byte("a007 login {3}\r\n"), nil)
	var ack *LiteralAckError
	require.ErrorAs(t, err, &ack)
	require.Equal(t, uint32(3), ack.Length)

	// After the ack the payload and a second literal header arrive.
	_, _, err = DecodeCommand([]byte("a007 login {3}\r\nmrc {6}\r\n"), nil)
	ack = nil
	require.ErrorAs(t, err, &ack)
	require.Equal(t, uint32(6), ack.Length)

	// The full exchange decodes.
	cmd, rest, err := DecodeCommand([]byte("a007 login {3}\r\nmrc {6}\r\nsecret\r\n"), nil)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, &Command{Tag: "a007", Body: &LoginCommand{
		Username: Literal([]byte("mrc")),
		Password: Literal([]byte("secret")),
	}}, cmd)

	// Encoding the value gates after each synchronizing literal header.
	frags := EncodeCommand(cmd).Fragments
	require.Len(t, frags, 3)
	require.Equal(t, "a007 LOGIN {3}\r\n", string(frags[0].Data))
	require.NotNil(t, frags[0].Wait)
	require.Equal(t, uint32(3), frags[0].Wait.Length)
	require.Equal(t, "mrc {6}\r\n", string(frags[1].Data))
	require.NotNil(t, frags[1].Wait)
	require.Equal(t, "secret\r\n", string(frags[2].Data))
	require.Nil(t, frags[2].Wait)
}

func TestDecodeCommandErrors(t *testing.T) {
	for _, test := range []struct {
		in   string
		kind ErrorKind
	}{
		{"a001 FROBNICATE\r\n", UnknownCommand},
		{"a001 UID NOOP\r\n", UnknownCommand},
		{"a001 NOOP garbage\r\n", TrailingGarbage},
		{"+tag NOOP\r\n", GrammarViolation},
		{"a001 FETCH 0:z FLAGS\r\n", InvalidTerminal},
		{"a001 AUTHENTICATE PLAIN !!\r\n", GrammarViolation},
		{"a001 LOGIN \"unterminated\r\n", InvalidTerminal},
	} {
		_, _, err := DecodeCommand([]byte(test.in), nil)
		var decErr *DecodeError
		require.ErrorAs(t, err, &decErr, "input %q", test.in)
		require.Equal(t, test.kind, decErr.Kind, "input %q: %v", test.in, err)
	}
}

func TestDecodeCommandStartTLSDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Extensions &^= ExtStartTLS
	_, _, err := DecodeCommand([]byte("a002 STARTTLS\r\n"), opts)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, UnknownCommand, decErr.Kind)
}

func TestDecodeCommandLiteralTooLarge(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxLiteralSize = 1024
	_, _, err := DecodeCommand([]byte("a1 LOGIN {2048}\r\n"), opts)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, LiteralTooLarge, decErr.Kind)
}
