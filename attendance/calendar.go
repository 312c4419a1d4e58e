package attendance

import (
	"slices"
	"strings"
	"time"

	"github.com/lorbeafus/Listas-y-Notas/helper"
)

// Scheme names the representation a course uses for its class days.
type Scheme string

const (
	SchemeWeekdays Scheme = "weekdays"
	SchemeDays     Scheme = "days"
)

// ParseScheme maps a configuration string to a Scheme.
func ParseScheme(s string) (Scheme, bool) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeWeekdays:
		return SchemeWeekdays, true
	case SchemeDays:
		return SchemeDays, true
	}
	return "", false
}

// ClassDays decides which calendar days of a month are class sessions.
// It is implemented by ExplicitDays and WeekdayPattern; a course uses exactly one.
type ClassDays interface {
	Scheme() Scheme
	// SessionDays returns the ascending, distinct days of m that are sessions.
	SessionDays(year int, m Month) []int
	// Empty reports whether no month has any class day configured.
	Empty() bool
}

// ResolveSessionDays returns the session days of month m in year under cfg.
// A nil cfg or an unconfigured month yields an empty sequence.
func ResolveSessionDays(year int, m Month, cfg ClassDays) []int {
	if cfg == nil || !m.Valid() {
		return nil
	}
	return cfg.SessionDays(year, m)
}

// Columns lists every session of the year, month by month, day by day.
func Columns(year int, cfg ClassDays) []SessionKey {
	var keys []SessionKey
	for _, m := range Months() {
		for _, d := range ResolveSessionDays(year, m, cfg) {
			keys = append(keys, SessionKey{Month: m, Day: d})
		}
	}
	return keys
}

// Configured is false when cfg has no class days in any month, which is the
// "no class days configured" state of the attendance screen.
func Configured(cfg ClassDays) bool {
	return cfg != nil && !cfg.Empty()
}

// ExplicitDays lists the days of the month that are sessions.
type ExplicitDays map[Month][]int

func (ExplicitDays) Scheme() Scheme { return SchemeDays }

func (e ExplicitDays) SessionDays(year int, m Month) []int {
	return normalizeDays(e[m], m.DaysIn(year))
}

func (e ExplicitDays) Empty() bool {
	for m, days := range e {
		if m.Valid() && len(days) > 0 {
			return false
		}
	}
	return true
}

// ParseDayList turns the free-text field of the configuration form ("3, 5,10")
// into sorted distinct days valid for m in year. Tokens that are not integers
// are dropped.
func ParseDayList(text string, year int, m Month) []int {
	return normalizeDays(helper.ParseInts(strings.Split(text, ",")...), m.DaysIn(year))
}

func normalizeDays(days []int, max int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d >= 1 && d <= max {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// WeekdayPattern selects every date of a month that falls on one of the
// configured weekdays, optionally only from Start onwards.
type WeekdayPattern struct {
	Weekdays map[Month][]Weekday
	// Start is compared as a calendar date in its own location, inclusive.
	Start *time.Time
}

func (WeekdayPattern) Scheme() Scheme { return SchemeWeekdays }

func (p WeekdayPattern) Empty() bool {
	for m, wds := range p.Weekdays {
		if m.Valid() && len(NormalizeWeekdays(wds)) > 0 {
			return false
		}
	}
	return true
}

func (p WeekdayPattern) SessionDays(year int, m Month) []int {
	wds := NormalizeWeekdays(p.Weekdays[m])
	if len(wds) == 0 {
		return nil
	}

	var cutoff time.Time
	if p.Start != nil {
		y, mo, d := p.Start.Date()
		cutoff = time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	}

	var days []int
	date := time.Date(year, m.Number(), 1, 0, 0, 0, 0, time.UTC)
	for date.Month() == m.Number() {
		if slices.Contains(wds, isoWeekday(date)) && (p.Start == nil || !date.Before(cutoff)) {
			days = append(days, date.Day())
		}
		date = date.AddDate(0, 0, 1)
	}
	return days
}

// NormalizeWeekdays keeps the Monday..Friday tokens, sorted and distinct.
func NormalizeWeekdays(wds []Weekday) []Weekday {
	out := make([]Weekday, 0, len(wds))
	for _, w := range wds {
		if w.Valid() {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
