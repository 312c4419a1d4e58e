package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/helper"
)

func LoadLedger(s *Store, courseId string) (attendance.Ledger, error) {
	ledger, err := Get[attendance.Ledger](s, Buckets["gradebook"], CourseKey(courseId, KindAttendance))
	if errors.Is(err, ErrNotFound) {
		return attendance.Ledger{}, nil
	}
	if err != nil {
		return nil, err
	}
	if *ledger == nil {
		return attendance.Ledger{}, nil
	}
	return *ledger, nil
}

// LoadClassDays returns the calendar configuration of a course. The stored
// document decides the scheme: "_classDays" means explicit days, "_weekdays"
// a weekday pattern. With neither, an empty configuration of fallback is
// returned. The start date is read in loc.
func LoadClassDays(s *Store, courseId string, fallback attendance.Scheme, loc *time.Location) (attendance.ClassDays, error) {
	bucket := Buckets["gradebook"]

	days, err := Get[attendance.ExplicitDays](s, bucket, CourseKey(courseId, KindClassDays))
	switch {
	case err == nil:
		if *days == nil {
			return attendance.ExplicitDays{}, nil
		}
		return *days, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	weekdays, err := Get[map[attendance.Month][]attendance.Weekday](s, bucket, CourseKey(courseId, KindWeekdays))
	switch {
	case errors.Is(err, ErrNotFound):
		if fallback == attendance.SchemeDays {
			return attendance.ExplicitDays{}, nil
		}
		return attendance.WeekdayPattern{Weekdays: map[attendance.Month][]attendance.Weekday{}}, nil
	case err != nil:
		return nil, err
	}

	pattern := attendance.WeekdayPattern{Weekdays: *weekdays}
	if pattern.Weekdays == nil {
		pattern.Weekdays = map[attendance.Month][]attendance.Weekday{}
	}

	start, err := Get[string](s, bucket, CourseKey(courseId, KindStartDate))
	switch {
	case err == nil && *start != "":
		t, err := helper.ParseDate(*start, loc)
		if err != nil {
			return nil, fmt.Errorf("course %s start date: %w", courseId, err)
		}
		pattern.Start = &t
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	}
	return pattern, nil
}

// ClassDaysBatch adds the writes that store cfg to bt, removing the documents
// of the other scheme so only one representation is ever active.
func ClassDaysBatch(bt *Batch, courseId string, cfg attendance.ClassDays) error {
	switch c := cfg.(type) {
	case attendance.ExplicitDays:
		bt.Put(CourseKey(courseId, KindClassDays), c).
			Delete(CourseKey(courseId, KindWeekdays), CourseKey(courseId, KindStartDate))
	case attendance.WeekdayPattern:
		bt.Put(CourseKey(courseId, KindWeekdays), c.Weekdays).
			Delete(CourseKey(courseId, KindClassDays))
		if c.Start != nil {
			bt.Put(CourseKey(courseId, KindStartDate), c.Start.Format(time.RFC3339))
		} else {
			bt.Delete(CourseKey(courseId, KindStartDate))
		}
	default:
		return fmt.Errorf("unsupported class day configuration %T", cfg)
	}
	return nil
}
