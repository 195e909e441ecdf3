package legacy

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"

	// NoDate is how the central server encodes an absent date.
	NoDate = "0000-00-00"
)

// ParseDate parses a legacy date. Empty strings and NoDate mean absent.
func ParseDate(s string) (*time.Time, error) {
	if s == "" || s == NoDate {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t *time.Time) string {
	if t == nil {
		return NoDate
	}
	return t.UTC().Format(dateLayout)
}

// ParseDateTime combines a legacy date with a time of day given in seconds
// since midnight. The date must be present.
func ParseDateTime(date string, seconds int64) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, fmt.Errorf("parse datetime: date is absent")
	}
	if seconds < 0 || seconds >= 24*60*60 {
		return time.Time{}, fmt.Errorf("parse datetime: time %d out of range", seconds)
	}
	return d.Add(time.Duration(seconds) * time.Second), nil
}

// FormatDateTime splits t into a legacy date and seconds since midnight.
func FormatDateTime(t time.Time) (string, int64) {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return t.Format(dateLayout), int64(t.Sub(midnight) / time.Second)
}

// OptionalString maps the empty string to nil.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue maps nil to the empty string.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
