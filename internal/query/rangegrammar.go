// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// IntegerRangeRegex accepts a single non-negative integer or two integers
// joined by one of "-", ",", ";". The separator group is optional on its
// own, so "5-" matches with no upper bound.
var IntegerRangeRegex = regexp.MustCompile(`^(\d+)(?:[-,;])?(\d+)?$`)

var (
	// ErrMalformedRange is wrapped by RangeError when a start or end
	// value does not match the range grammar during query building.
	ErrMalformedRange = errors.New("malformed range")

	// ErrRangeFormat is the advisory result of CheckIntegerRange for
	// input that does not match the range grammar.
	ErrRangeFormat = errors.New("Input should be a range (ex: 1-5) or a single value")

	// ErrRangeOrder is the advisory result of CheckIntegerRange for a
	// range whose lower bound exceeds its upper bound.
	ErrRangeOrder = errors.New("Incorrect range input, max should be greater than min")
)

// RangeError reports a start or end value that failed the range grammar.
// It aborts query building.
type RangeError struct {
	Field string
	Input string
}

func (e *RangeError) Error() string { return "incorrect " + e.Field + " range" }

func (e *RangeError) Unwrap() error { return ErrMalformedRange }

// RangeMatch holds the raw digit tokens of a matched range. Upper is
// empty when only one bound was given.
type RangeMatch struct {
	Lower string
	Upper string
}

// HasUpper reports whether the match carries a second bound.
func (m RangeMatch) HasUpper() bool { return m.Upper != "" }

// MatchRange applies the range grammar to s.
func MatchRange(s string) (RangeMatch, bool) {
	sub := IntegerRangeRegex.FindStringSubmatch(s)
	if sub == nil {
		return RangeMatch{}, false
	}
	return RangeMatch{Lower: sub[1], Upper: sub[2]}, true
}

// CheckIntegerRange validates optional range input for form feedback.
// Empty input is valid. It returns ErrRangeFormat or ErrRangeOrder;
// equal bounds are allowed.
func CheckIntegerRange(s string) error {
	if s == "" {
		return nil
	}
	m, ok := MatchRange(s)
	if !ok {
		return ErrRangeFormat
	}
	if m.HasUpper() && compareDigits(m.Lower, m.Upper) > 0 {
		return ErrRangeOrder
	}
	return nil
}

// compareDigits compares two unsigned decimal strings by value without
// overflowing on long inputs.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// StartTokens converts a start position or range to backend tokens. The
// first bound becomes an int64 one less than entered (0 gives -1); a
// second bound is passed on as its raw string. Empty input yields no
// tokens.
func StartTokens(s string) ([]any, error) {
	if s == "" {
		return nil, nil
	}
	m, ok := MatchRange(s)
	if !ok {
		return nil, &RangeError{Field: "start", Input: s}
	}
	lower, err := strconv.ParseInt(m.Lower, 10, 64)
	if err != nil {
		return nil, &RangeError{Field: "start", Input: s}
	}
	tokens := []any{lower - 1}
	if m.HasUpper() {
		tokens = append(tokens, m.Upper)
	}
	return tokens, nil
}

// EndTokens converts an end position or range to backend tokens. A
// positive first bound becomes an int64 one less than entered; a zero
// first bound is passed on as its raw string. A second bound is passed
// on as its raw string.
func EndTokens(s string) ([]any, error) {
	if s == "" {
		return nil, nil
	}
	m, ok := MatchRange(s)
	if !ok {
		return nil, &RangeError{Field: "end", Input: s}
	}
	lower, err := strconv.ParseInt(m.Lower, 10, 64)
	if err != nil {
		return nil, &RangeError{Field: "end", Input: s}
	}
	var tokens []any
	if lower > 0 {
		tokens = append(tokens, lower-1)
	} else {
		tokens = append(tokens, m.Lower)
	}
	if m.HasUpper() {
		tokens = append(tokens, m.Upper)
	}
	return tokens, nil
}
