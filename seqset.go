package imap

import (
	"fmt"
	"strconv"
	"strings"
)

// SeqNum is a message sequence number or UID. The zero value represents
// "*", the largest number in the mailbox, which is safe because the wire
// grammar uses the nz-number rule.
type SeqNum uint32

// Star is the "*" sequence number.
const Star SeqNum = 0

// String returns the wire form of the number.
func (num SeqNum) String() string {
	if num == Star {
		return "*"
	}
	return strconv.FormatUint(uint64(num), 10)
}

// Seq is a single seq-number or seq-range. A range is kept even when both
// bounds are equal, so that "2:2" survives a round trip.
type Seq struct {
	Start, Stop SeqNum
	// Range distinguishes "n:m" from a single "n".
	Range bool
}

// SeqNumOnly returns a singleton sequence value.
func SeqNumOnly(num SeqNum) Seq {
	return Seq{Start: num, Stop: num}
}

// SeqRange returns a range sequence value. "*:*" is permitted.
func SeqRange(start, stop SeqNum) Seq {
	return Seq{Start: start, Stop: stop, Range: true}
}

// String returns the wire form of the value.
func (s Seq) String() string {
	if !s.Range {
		return s.Start.String()
	}
	return s.Start.String() + ":" + s.Stop.String()
}

// SeqSet is a non-empty list of sequence numbers and ranges. Unlike a
// normalized set, ordering and duplicates are preserved verbatim: the codec
// re-emits exactly the structure it decoded.
type SeqSet []Seq

// String returns the wire form of the set.
func (set SeqSet) String() string {
	var sb strings.Builder
	for i, s := range set {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// SeqSetNum returns a set of singleton sequence numbers.
func SeqSetNum(nums ...SeqNum) SeqSet {
	set := make(SeqSet, len(nums))
	for i, num := range nums {
		set[i] = SeqNumOnly(num)
	}
	return set
}

// errBadSeqSet is used to report problems with the format of a sequence set
// value.
type errBadSeqSet string

func (err errBadSeqSet) Error() string {
	return fmt.Sprintf("imap: bad sequence set value %q", string(err))
}

func parseSeqNum(v string) (SeqNum, error) {
	if v == "*" {
		return Star, nil
	}
	if n, err := strconv.ParseUint(v, 10, 32); err == nil && v[0] != '0' {
		return SeqNum(n), nil
	}
	return 0, errBadSeqSet(v)
}

func parseSeq(v string) (Seq, error) {
	sep := strings.IndexByte(v, ':')
	if sep < 0 {
		num, err := parseSeqNum(v)
		if err != nil {
			return Seq{}, err
		}
		return SeqNumOnly(num), nil
	}
	start, err := parseSeqNum(v[:sep])
	if err != nil {
		return Seq{}, err
	}
	stop, err := parseSeqNum(v[sep+1:])
	if err != nil {
		return Seq{}, err
	}
	return SeqRange(start, stop), nil
}

// ParseSeqSet parses a sequence set string such as "1,2:4,*".
func ParseSeqSet(set string) (SeqSet, error) {
	if set == "" {
		return nil, errBadSeqSet(set)
	}
	var s SeqSet
	for _, sv := range strings.Split(set, ",") {
		v, err := parseSeq(sv)
		if err != nil {
			return nil, err
		}
		s = append(s, v)
	}
	return s, nil
}
