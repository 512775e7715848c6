package imap

import (
	"fmt"
	"strings"
	"time"
)

// Date and time layouts.
const (
	// DateLayout is the IMAP date-text form, RFC 3501 section 9.
	DateLayout = "2-Jan-2006"
	// DateTimeLayout is the IMAP date-time form. On the wire it is always
	// surrounded by double quotes.
	DateTimeLayout = "2-Jan-2006 15:04:05 -0700"
)

// ParseDate parses an IMAP date, as used in SEARCH keys. s is the date text
// without surrounding quotes; a quoted wire value must be unquoted first.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("imap: date %q could not be parsed", s)
	}
	return t, nil
}

// ParseDateTime parses an IMAP date-time, as used in APPEND and
// INTERNALDATE. The leading day may be space padded. A "+0000" zone yields
// a UTC time; any other offset yields a fixed zone.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("imap: date-time %q could not be parsed", s)
	}
	return t, nil
}

// FormatDate returns the wire form of an IMAP date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime returns the wire form of an IMAP date-time, without the
// surrounding quotes.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
