// Package timerange encodes and decodes the reservation service's compact
// "HH:MM-HH:MM" slot notation.
package timerange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layouts the service has been seen emitting. Output always uses minute
// precision.
const (
	clockMinute = "15:04"
	clockSecond = "15:04:05"
)

// ErrMalformed reports slot text that does not decode. It signals a service
// contract change, not a transient failure, so callers must not retry it.
var ErrMalformed = errors.New("malformed time range")

// Parse decodes "HH:MM-HH:MM" (seconds tolerated) into two times of day.
// The returned values carry the zero date; combine them with a calendar date
// before use. Inverse of Format.
func Parse(s string) (start, end time.Time, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if start, err = parseClock(parts[0]); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if end, err = parseClock(parts[1]); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return start, end, nil
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse(clockMinute, s)
	if err != nil {
		t, err = time.Parse(clockSecond, s)
	}
	return t, err
}

// Format encodes two times of day as "HH:MM-HH:MM". Inverse of Parse.
func Format(start, end time.Time) string {
	return start.Format(clockMinute) + "-" + end.Format(clockMinute)
}

// FormatDisplay renders a dated range for humans. Both halves carry the date
// unless the range stays within one calendar day. Display only; it is not
// meant to be parsed back.
func FormatDisplay(start, end time.Time) string {
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return start.Format("2006-01-02 15:04") + "–" + end.Format(clockMinute)
	}
	return start.Format("2006-01-02 15:04") + "–" + end.Format("2006-01-02 15:04")
}
