package helper

import (
	"fmt"
	"time"
)

const ISODate = "2006-01-02"

// LoadLocation resolves an IANA zone name, treating "" and "Local" as time.Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// ParseDate reads either a bare date ("2025-03-10") or an RFC 3339 timestamp
// and returns midnight of that calendar day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(ISODate, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// Today returns the current date in loc formatted as YYYY-MM-DD.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(ISODate)
}
