// Package parse extracts structure from human-entered room numbers.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var digitsRe = regexp.MustCompile(`(\d+)\s*$`)

// ParsedNumber holds the structured data parsed from a room number such
// as "203", "A-203" or "B 12".
type ParsedNumber struct {
	Block string
	Floor int
	Seq   int
}

// RoomNumber splits a room number into an optional block prefix, a
// floor, and a sequence on that floor. The trailing digit run is read
// as floor*100+seq when it has three or more digits ("203" is room 3 on
// floor 2); one or two digits mean a ground-floor room ("7", "12").
func RoomNumber(raw string) (ParsedNumber, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "#", " ")
	s = strings.TrimSpace(regexp.MustCompile(`\s+`).ReplaceAllString(s, " "))

	loc := digitsRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return ParsedNumber{}, fmt.Errorf("no digits in room number %q", raw)
	}
	digits := s[loc[2]:loc[3]]
	block := strings.TrimRight(strings.TrimSpace(s[:loc[0]]), "-_ ")

	n, err := strconv.Atoi(digits)
	if err != nil {
		return ParsedNumber{}, fmt.Errorf("unable to parse room number %q", raw)
	}

	if len(digits) < 3 {
		return ParsedNumber{Block: block, Floor: 0, Seq: n}, nil
	}
	return ParsedNumber{Block: block, Floor: n / 100, Seq: n % 100}, nil
}
