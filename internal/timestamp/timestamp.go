// Package timestamp parses the three accepted forms of a point-in-time
// argument (spec §6: POSIX integer, or one of
// {YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS, YYYY-MM-DD HH:MM:SS} in local time)
// into an integer POSIX timestamp, or fails with serac.ErrBadTimestamp.
//
// Grounded on original_source/serac/commands.py's Timestamp(click.DateTime)
// custom type: digit strings parse directly as an int; anything else is
// tried against each accepted layout in turn.
package timestamp

import (
	"strconv"
	"time"

	"github.com/prn-tf/serac/internal/serac"
)

var layouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Parse converts value into an integer POSIX timestamp. An empty string
// yields the current time; digit strings are read directly as a
// timestamp; the three date/time layouts above are tried in local time;
// anything else fails with serac.ErrBadTimestamp.
func Parse(value string) (int64, error) {
	if value == "" {
		return time.Now().Unix(), nil
	}
	if isAllDigits(value) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, serac.ErrBadTimestamp
		}
		return n, nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, serac.ErrBadTimestamp
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
