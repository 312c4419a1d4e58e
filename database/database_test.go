package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Init(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func commit(t *testing.T, s *Store, fill func(bt *Batch)) {
	t.Helper()
	var bt Batch
	fill(&bt)
	require.NoError(t, Commit(s, Buckets["gradebook"], &bt))
}

func saveClassDays(t *testing.T, s *Store, courseId string, cfg attendance.ClassDays) {
	t.Helper()
	var bt Batch
	require.NoError(t, ClassDaysBatch(&bt, courseId, cfg))
	require.NoError(t, Commit(s, Buckets["gradebook"], &bt))
}

func exists(t *testing.T, s *Store, key string) bool {
	t.Helper()
	_, err := Get[json.RawMessage](s, Buckets["gradebook"], key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestCreateListAndGetCourse(t *testing.T) {
	s := openStore(t)

	courses, err := ListCourses(s)
	require.NoError(t, err)
	assert.Empty(t, courses)

	a, err := CreateCourse(s, "Matemática 3A", 2025, time.Now())
	require.NoError(t, err)
	b, err := CreateCourse(s, "Historia", 2025, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a.Id, b.Id)

	courses, err = ListCourses(s)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, a.Id, courses[0].Id)

	got, err := GetCourse(s, b.Id)
	require.NoError(t, err)
	assert.Equal(t, "Historia", got.Name)

	_, err = GetCourse(s, "course_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCourseCascades(t *testing.T) {
	s := openStore(t)
	c, err := CreateCourse(s, "Física", 2025, time.Now())
	require.NoError(t, err)
	other, err := CreateCourse(s, "Química", 2025, time.Now())
	require.NoError(t, err)

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	saveClassDays(t, s, c.Id, attendance.WeekdayPattern{
		Weekdays: map[attendance.Month][]attendance.Weekday{attendance.Marzo: {attendance.Lunes}},
		Start:    &start,
	})
	commit(t, s, func(bt *Batch) {
		bt.Put(CourseKey(c.Id, KindData), gradebook.New()).
			Put(CourseKey(c.Id, KindAttendance), attendance.Ledger{"s1": {{Month: attendance.Marzo, Day: 3}: attendance.Present}}).
			Put(CourseKey(c.Id, KindClassDays), map[string][]int{}).
			Put(c.Id+"_legacy", "left over by an older version").
			Put(CourseKey(other.Id, KindData), gradebook.New())
	})

	require.NoError(t, DeleteCourse(s, c.Id))

	for _, kind := range []Kind{KindData, KindAttendance, KindWeekdays, KindClassDays, KindStartDate, "legacy"} {
		assert.False(t, exists(t, s, CourseKey(c.Id, kind)), kind)
	}
	assert.True(t, exists(t, s, CourseKey(other.Id, KindData)))
	assert.True(t, exists(t, s, CoursesKey))

	_, err = GetCourse(s, c.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, DeleteCourse(s, c.Id), ErrNotFound)
}

func TestClassDaysSchemeSwitch(t *testing.T) {
	s := openStore(t)
	loc := time.UTC
	id := "course_x"

	cfg, err := LoadClassDays(s, id, attendance.SchemeDays, loc)
	require.NoError(t, err)
	assert.Equal(t, attendance.ExplicitDays{}, cfg)
	cfg, err = LoadClassDays(s, id, attendance.SchemeWeekdays, loc)
	require.NoError(t, err)
	assert.Equal(t, attendance.SchemeWeekdays, cfg.Scheme())

	start := time.Date(2024, time.April, 10, 0, 0, 0, 0, loc)
	pattern := attendance.WeekdayPattern{
		Weekdays: map[attendance.Month][]attendance.Weekday{attendance.Abril: {attendance.Lunes, attendance.Miercoles}},
		Start:    &start,
	}
	saveClassDays(t, s, id, pattern)

	cfg, err = LoadClassDays(s, id, attendance.SchemeDays, loc)
	require.NoError(t, err)
	got, ok := cfg.(attendance.WeekdayPattern)
	require.True(t, ok)
	require.NotNil(t, got.Start)
	assert.True(t, start.Equal(*got.Start))
	assert.Equal(t, []int{10, 15, 17, 22, 24, 29}, attendance.ResolveSessionDays(2024, attendance.Abril, cfg))

	saveClassDays(t, s, id, attendance.ExplicitDays{attendance.Mayo: {2, 9}})
	assert.False(t, exists(t, s, CourseKey(id, KindWeekdays)))
	assert.False(t, exists(t, s, CourseKey(id, KindStartDate)))

	cfg, err = LoadClassDays(s, id, attendance.SchemeWeekdays, loc)
	require.NoError(t, err)
	assert.Equal(t, attendance.ExplicitDays{attendance.Mayo: {2, 9}}, cfg)
}

func TestLedgerAndCourseDataDefaults(t *testing.T) {
	s := openStore(t)

	ledger, err := LoadLedger(s, "course_x")
	require.NoError(t, err)
	assert.NotNil(t, ledger)
	assert.Empty(t, ledger)

	data, err := LoadCourseData(s, "course_x")
	require.NoError(t, err)
	assert.Equal(t, gradebook.New(), data)

	stats, err := GetCourseStats(s, "course_x")
	require.NoError(t, err)
	assert.Equal(t, CourseStats{Students: 0, Evaluations: 6}, stats)
}

func TestCommitIsAtomic(t *testing.T) {
	s := openStore(t)
	commit(t, s, func(bt *Batch) { bt.Put("a", 1) })

	var bt Batch
	bt.Put("b", 2).Put("c", func() {}).Delete("a")
	assert.Error(t, Commit(s, Buckets["gradebook"], &bt))

	assert.True(t, exists(t, s, "a"))
	assert.False(t, exists(t, s, "b"))
}

func TestBackupIsAReadableDatabase(t *testing.T) {
	s := openStore(t)
	c, err := CreateCourse(s, "Arte", 2025, time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := s.Backup(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	path := filepath.Join(t.TempDir(), "copy.db")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	restored := &Store{db: db}
	defer restored.Close()

	got, err := GetCourse(restored, c.Id)
	require.NoError(t, err)
	assert.Equal(t, "Arte", got.Name)
}
