// Package keys builds composite partition and sort keys for the paper table.
package keys

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Delimiter separates the kind prefix from the value, and the date from the
// id inside sort keys. Values containing it would produce ambiguous keys.
const Delimiter = "#"

// DateLayout is the sortable date form used in sort keys. Lexicographic
// comparison of encoded dates matches chronological order.
const DateLayout = "2006-01-02"

// highSortSuffix sorts after every encoded id, closing an inclusive
// upper bound on a date range.
const highSortSuffix = "\xff\xff\xff\xff"

// Key kinds for partition keys.
const (
	KindID       = "ID"
	KindCategory = "CATEGORY"
	KindAuthor   = "AUTHOR"
	KindKeyword  = "KEYWORD"
)

// ErrMalformedKey is returned when a key component is empty or contains the
// delimiter. Re-exported as store.ErrMalformedKey.
var ErrMalformedKey = errors.New("paperdex: malformed key")

// Partition encodes a partition key as "<KIND>#<value>". The kind is
// uppercased; the value is used verbatim, so callers must normalize case
// (e.g. lower-case keywords) before encoding.
func Partition(kind, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: empty %s value", ErrMalformedKey, strings.ToLower(kind))
	}
	if strings.Contains(value, Delimiter) {
		return "", fmt.Errorf("%w: %s value %q contains %q", ErrMalformedKey, strings.ToLower(kind), value, Delimiter)
	}
	return strings.ToUpper(kind) + Delimiter + value, nil
}

// Sort encodes a sort key as "<date>#<id>" with the date in DateLayout form.
func Sort(date, id string) (string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date %q is not %s", ErrMalformedKey, date, DateLayout)
	}
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrMalformedKey)
	}
	if strings.Contains(id, Delimiter) {
		return "", fmt.Errorf("%w: id %q contains %q", ErrMalformedKey, id, Delimiter)
	}
	return date + Delimiter + id, nil
}

// SortRange returns the inclusive sort-key bounds covering every entry dated
// within [start, end]. An inverted range is not an error; it simply matches
// nothing.
func SortRange(start, end string) (lo, hi string, err error) {
	if _, err := time.Parse(DateLayout, start); err != nil {
		return "", "", fmt.Errorf("%w: date %q is not %s", ErrMalformedKey, start, DateLayout)
	}
	if _, err := time.Parse(DateLayout, end); err != nil {
		return "", "", fmt.Errorf("%w: date %q is not %s", ErrMalformedKey, end, DateLayout)
	}
	return start + Delimiter, end + Delimiter + highSortSuffix, nil
}
