package attendance

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalidMark       = errors.New("attendance: mark must be P, A or R")
	ErrInvalidSessionKey = errors.New("attendance: invalid session key")
)

// Mark is a recorded attendance value. An unrecorded session has no Mark at all.
type Mark string

const (
	Present   Mark = "P"
	Absent    Mark = "A"
	Justified Mark = "R"
)

func (m Mark) Valid() bool {
	return m == Present || m == Absent || m == Justified
}

// points is the attendance credit of a mark: a justified absence counts half.
func (m Mark) points() float64 {
	switch m {
	case Present:
		return 1
	case Justified:
		return 0.5
	}
	return 0
}

// ParseMark normalizes raw cell input. It returns "" with a nil error for
// empty input, which means "clear the cell".
func ParseMark(raw string) (Mark, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", nil
	}
	if m := Mark(v); m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMark, raw)
}

// SessionKey identifies one class meeting. Its text form is "MONTH-DAY".
type SessionKey struct {
	Month Month
	Day   int
}

func (k SessionKey) String() string {
	return string(k.Month) + "-" + strconv.Itoa(k.Day)
}

// ParseSessionKey reads the "MONTH-DAY" form. The month token is case-insensitive.
func ParseSessionKey(s string) (SessionKey, error) {
	token, day, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return SessionKey{}, fmt.Errorf("%w: %q", ErrInvalidSessionKey, s)
	}
	m, ok := ParseMonth(token)
	if !ok {
		return SessionKey{}, fmt.Errorf("%w: unknown month in %q", ErrInvalidSessionKey, s)
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || d < 1 || d > 31 {
		return SessionKey{}, fmt.Errorf("%w: bad day in %q", ErrInvalidSessionKey, s)
	}
	return SessionKey{Month: m, Day: d}, nil
}

func (k SessionKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SessionKey) UnmarshalText(b []byte) error {
	parsed, err := ParseSessionKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Ledger maps student id to the marks recorded for that student.
// It serializes as {"student_x": {"MARZO-3": "P"}}.
type Ledger map[string]map[SessionKey]Mark

// Get returns the mark for a session, or "" if unrecorded.
func (l Ledger) Get(studentID string, key SessionKey) Mark {
	return l[studentID][key]
}

// Set applies raw input to one cell. Empty input deletes the entry, P/A/R
// (any case) stores it, anything else returns ErrInvalidMark and leaves the
// ledger untouched.
func (l Ledger) Set(studentID string, key SessionKey, raw string) error {
	m, err := ParseMark(raw)
	if err != nil {
		return err
	}
	if m == "" {
		if marks, ok := l[studentID]; ok {
			delete(marks, key)
			if len(marks) == 0 {
				delete(l, studentID)
			}
		}
		return nil
	}
	if l[studentID] == nil {
		l[studentID] = map[SessionKey]Mark{}
	}
	l[studentID][key] = m
	return nil
}

// Forget drops every mark of a student.
func (l Ledger) Forget(studentID string) {
	delete(l, studentID)
}

// Clone returns a deep copy.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for id, marks := range l {
		out[id] = maps.Clone(marks)
	}
	return out
}

// TermStats is the attendance of one student over a set of months.
type TermStats struct {
	Percentage float64
	Sessions   int
}

// GoodStandingThreshold is the minimum percentage shown as good standing.
const GoodStandingThreshold = 75.0

func (s TermStats) Good() bool {
	return s.Percentage >= GoodStandingThreshold
}

// Stats aggregates the marks recorded for studentID in the given months.
// Only recorded marks are visited; the class-day calendar is not consulted, so
// a mark left on a day later removed from the calendar still counts.
func (l Ledger) Stats(studentID string, months []Month) TermStats {
	var (
		sessions int
		points   float64
	)
	for key, m := range l[studentID] {
		if !m.Valid() || !slices.Contains(months, key.Month) {
			continue
		}
		sessions++
		points += m.points()
	}
	if sessions == 0 {
		return TermStats{}
	}
	return TermStats{Percentage: points / float64(sessions) * 100, Sessions: sessions}
}

// Summary is the per-student line of the attendance screen.
type Summary struct {
	First  TermStats
	Second TermStats
}

func (s Summary) TotalSessions() int {
	return s.First.Sessions + s.Second.Sessions
}

func (l Ledger) Summary(studentID string) Summary {
	return Summary{
		First:  l.Stats(studentID, FirstTerm.Months()),
		Second: l.Stats(studentID, SecondTerm.Months()),
	}
}
