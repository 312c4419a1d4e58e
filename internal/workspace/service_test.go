package workspace

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
	"github.com/lorbeafus/Listas-y-Notas/spreadsheet"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := database.Init(filepath.Join(t.TempDir(), "gradebook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	svc := NewService(store, attendance.SchemeWeekdays, time.UTC)
	svc.now = func() time.Time { return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

// courseWithStudent creates a 2025 course with Ana and the given class days.
func courseWithStudent(t *testing.T, svc *Service, days attendance.ClassDays) (models.Course, models.Student) {
	t.Helper()
	c, err := svc.CreateCourse(CourseRequest{Name: "Física"})
	require.NoError(t, err)
	g, err := svc.UpdateGrades(c.Id, StudentAdded{Name: "Ana"})
	require.NoError(t, err)
	_, err = svc.UpdateAttendance(c.Id, ClassDaysConfigured{Days: days})
	require.NoError(t, err)
	return *c, g.Students[0]
}

func TestCreateCourseValidation(t *testing.T) {
	svc := newService(t)

	c, err := svc.CreateCourse(CourseRequest{Name: "  Física 4B "})
	require.NoError(t, err)
	assert.Equal(t, "Física 4B", c.Name)
	assert.Equal(t, 2025, c.Year)

	_, err = svc.CreateCourse(CourseRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = svc.CreateCourse(CourseRequest{Name: "Historia", Year: 1999})
	assert.ErrorIs(t, err, ErrInvalid)

	cards, err := svc.Courses()
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 6, cards[0].Stats.Evaluations)
}

func TestMarkIsPersisted(t *testing.T) {
	svc := newService(t)
	c, ana := courseWithStudent(t, svc, attendance.ExplicitDays{attendance.Marzo: {3}})

	key := attendance.SessionKey{Month: attendance.Marzo, Day: 3}
	_, err := svc.UpdateAttendance(c.Id, MarkEntered{StudentID: ana.Id, Key: key, Raw: "p"})
	require.NoError(t, err)

	reloaded, err := svc.Attendance(c.Id)
	require.NoError(t, err)
	assert.Equal(t, attendance.Present, reloaded.Ledger.Get(ana.Id, key))

	prior, err := svc.UpdateAttendance(c.Id, MarkEntered{StudentID: ana.Id, Key: key, Raw: "z"})
	assert.ErrorIs(t, err, attendance.ErrInvalidMark)
	assert.Equal(t, attendance.Present, prior.Ledger.Get(ana.Id, key))

	reloaded, err = svc.Attendance(c.Id)
	require.NoError(t, err)
	assert.Equal(t, attendance.Present, reloaded.Ledger.Get(ana.Id, key))
}

func TestConcurrentMarksAreAllKept(t *testing.T) {
	svc := newService(t)
	days := make([]int, 31)
	for i := range days {
		days[i] = i + 1
	}
	c, ana := courseWithStudent(t, svc, attendance.ExplicitDays{attendance.Marzo: days})

	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, d := range days {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			<-start
			_, err := svc.UpdateAttendance(c.Id, MarkEntered{
				StudentID: ana.Id,
				Key:       attendance.SessionKey{Month: attendance.Marzo, Day: day},
				Raw:       "P",
			})
			assert.NoError(t, err)
		}(d)
	}
	close(start)
	wg.Wait()

	state, err := svc.Attendance(c.Id)
	require.NoError(t, err)
	assert.Len(t, state.Ledger[ana.Id], len(days))
	assert.Equal(t, len(days), state.Ledger.Summary(ana.Id).TotalSessions())
}

func TestConcurrentRosterEditsAreAllKept(t *testing.T) {
	svc := newService(t)
	c, err := svc.CreateCourse(CourseRequest{Name: "Física"})
	require.NoError(t, err)

	const n = 12
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.UpdateGrades(c.Id, StudentAdded{Name: "Estudiante"})
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	g, err := svc.Grades(c.Id)
	require.NoError(t, err)
	assert.Len(t, g.Students, n)
}

func TestClassDaysArePersisted(t *testing.T) {
	svc := newService(t)
	c, err := svc.CreateCourse(CourseRequest{Name: "Física", Year: 2024})
	require.NoError(t, err)

	state, err := svc.Attendance(c.Id)
	require.NoError(t, err)
	assert.False(t, state.Configured())

	_, err = svc.UpdateAttendance(c.Id, ClassDaysConfigured{Days: attendance.WeekdayPattern{
		Weekdays: map[attendance.Month][]attendance.Weekday{attendance.Abril: {attendance.Lunes, attendance.Miercoles}},
	}})
	require.NoError(t, err)

	state, err = svc.Attendance(c.Id)
	require.NoError(t, err)
	assert.True(t, state.Configured())
	assert.Len(t, state.Columns(), 9)
}

func TestRemovingAStudentClearsTheirAttendance(t *testing.T) {
	svc := newService(t)
	c, err := svc.CreateCourse(CourseRequest{Name: "Física"})
	require.NoError(t, err)
	g, err := svc.UpdateGrades(c.Id, StudentAdded{Name: "Ana"})
	require.NoError(t, err)
	ana := g.Students[0]
	_, err = svc.UpdateAttendance(c.Id, SheetImported{Table: spreadsheet.Table{{"Student", "MAYO-6"}, {"Ana", "A"}}})
	require.NoError(t, err)

	_, err = svc.UpdateGrades(c.Id, StudentRemoved{StudentID: ana.Id})
	require.NoError(t, err)

	state, err := svc.Attendance(c.Id)
	require.NoError(t, err)
	assert.Empty(t, state.Students)
	assert.Empty(t, state.Ledger)
}

func TestUpdateGradesValidatesEvents(t *testing.T) {
	svc := newService(t)
	c, err := svc.CreateCourse(CourseRequest{Name: "Física"})
	require.NoError(t, err)

	_, err = svc.UpdateGrades(c.Id, StudentAdded{Name: ""})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.UpdateGrades("course_missing", StudentAdded{Name: "Ana"})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteCourse(t *testing.T) {
	svc := newService(t)
	c, err := svc.CreateCourse(CourseRequest{Name: "Física"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(c.Id))
	_, err = svc.Attendance(c.Id)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
