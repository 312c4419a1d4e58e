package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
	"github.com/lorbeafus/Listas-y-Notas/spreadsheet"
)

var marzo3 = attendance.SessionKey{Month: attendance.Marzo, Day: 3}

func attendanceState() Attendance {
	return Attendance{
		Course:   models.Course{Id: "course_1", Name: "Física", Year: 2025},
		Students: []models.Student{{Id: "s1", Name: "Ana"}},
		Ledger:   attendance.Ledger{"s1": {marzo3: attendance.Present}},
		Days:     attendance.ExplicitDays{attendance.Marzo: {3, 5}},
	}
}

func TestMarkEnteredDoesNotMutateInput(t *testing.T) {
	cur := attendanceState()

	next, err := ApplyAttendance(cur, MarkEntered{StudentID: "s1", Key: marzo3, Raw: "a"})
	require.NoError(t, err)

	assert.Equal(t, attendance.Absent, next.Ledger.Get("s1", marzo3))
	assert.Equal(t, attendance.Present, cur.Ledger.Get("s1", marzo3))
}

func TestMarkEnteredRejections(t *testing.T) {
	cur := attendanceState()

	next, err := ApplyAttendance(cur, MarkEntered{StudentID: "s1", Key: marzo3, Raw: "x"})
	assert.ErrorIs(t, err, attendance.ErrInvalidMark)
	assert.Equal(t, cur, next)

	_, err = ApplyAttendance(cur, MarkEntered{StudentID: "nobody", Key: marzo3, Raw: "P"})
	assert.ErrorIs(t, err, ErrUnknownStudent)

	_, err = ApplyAttendance(cur, MarkEntered{StudentID: "s1", Key: attendance.SessionKey{Month: "ENERO", Day: 3}, Raw: "P"})
	assert.ErrorIs(t, err, attendance.ErrInvalidSessionKey)
}

func TestMarkEnteredOnlyOnClassDays(t *testing.T) {
	cur := attendanceState()
	cur.Course.Year = 2024
	cur.Days = attendance.ExplicitDays{attendance.Abril: {1, 3}}

	for _, key := range []attendance.SessionKey{
		{Month: attendance.Abril, Day: 31},
		{Month: attendance.Abril, Day: 2},
		{Month: attendance.Marzo, Day: 3},
	} {
		next, err := ApplyAttendance(cur, MarkEntered{StudentID: "s1", Key: key, Raw: "A"})
		assert.ErrorIs(t, err, attendance.ErrInvalidSessionKey, key.String())
		assert.Equal(t, attendance.Mark(""), next.Ledger.Get("s1", key), key.String())
	}
	assert.Equal(t, 1, cur.Ledger.Summary("s1").TotalSessions())

	abril3 := attendance.SessionKey{Month: attendance.Abril, Day: 3}
	next, err := ApplyAttendance(cur, MarkEntered{StudentID: "s1", Key: abril3, Raw: "A"})
	require.NoError(t, err)
	assert.Equal(t, attendance.Absent, next.Ledger.Get("s1", abril3))
}

func TestClassDaysConfiguredKeepsMarks(t *testing.T) {
	cur := attendanceState()

	next, err := ApplyAttendance(cur, ClassDaysConfigured{Days: attendance.ExplicitDays{attendance.Abril: {1}}})
	require.NoError(t, err)

	assert.Equal(t, []attendance.SessionKey{{Month: attendance.Abril, Day: 1}}, next.Columns())
	assert.Equal(t, attendance.Present, next.Ledger.Get("s1", marzo3))
	assert.Equal(t, 1, next.Ledger.Summary("s1").TotalSessions())

	_, err = ApplyAttendance(cur, ClassDaysConfigured{})
	assert.Error(t, err)
}

func TestSheetImportedReportsAndMerges(t *testing.T) {
	cur := attendanceState()
	table := spreadsheet.Table{{"Student", "MARZO-5"}, {"Ana", "r"}, {"Otro", "P"}}

	next, err := ApplyAttendance(cur, SheetImported{Table: table})
	require.NoError(t, err)

	require.NotNil(t, next.LastImport)
	assert.Equal(t, []string{"Otro"}, next.LastImport.Unmatched)
	assert.Equal(t, attendance.Justified, next.Ledger.Get("s1", attendance.SessionKey{Month: attendance.Marzo, Day: 5}))
	assert.Equal(t, attendance.Mark(""), cur.Ledger.Get("s1", attendance.SessionKey{Month: attendance.Marzo, Day: 5}))
}

func gradesState(t *testing.T) (Grades, models.Student) {
	t.Helper()
	d := gradebook.New()
	s, err := d.AddStudent("Ana")
	require.NoError(t, err)
	return Grades{
		Course:   models.Course{Id: "course_1", Name: "Física", Year: 2025},
		Data:     d,
		Students: d.Students,
		Ledger:   attendance.Ledger{s.Id: {marzo3: attendance.Present}},
	}, s
}

func TestStudentRemovedDropsAttendance(t *testing.T) {
	cur, s := gradesState(t)

	next, err := ApplyGrades(cur, StudentRemoved{StudentID: s.Id})
	require.NoError(t, err)

	assert.Empty(t, next.Students)
	assert.NotContains(t, next.Ledger, s.Id)
	assert.Contains(t, cur.Ledger, s.Id)
	assert.Len(t, cur.Data.Students, 1)

	_, err = ApplyGrades(cur, StudentRemoved{StudentID: "nobody"})
	assert.ErrorIs(t, err, ErrUnknownStudent)
}

func TestStudentAddedKeepsDisplayOrder(t *testing.T) {
	cur, _ := gradesState(t)

	next, err := ApplyGrades(cur, StudentAdded{Name: "Abel"})
	require.NoError(t, err)
	require.Len(t, next.Students, 2)
	assert.Equal(t, "Abel", next.Students[0].Name)
}

func TestGradeEnteredRejectsOutOfRange(t *testing.T) {
	cur, s := gradesState(t)

	next, err := ApplyGrades(cur, GradeEntered{StudentID: s.Id, Term: attendance.FirstTerm, Index: 0, Raw: "12"})
	assert.ErrorIs(t, err, gradebook.ErrInvalidGrade)
	assert.Same(t, cur.Data, next.Data)

	next, err = ApplyGrades(cur, GradeEntered{StudentID: s.Id, Term: attendance.FirstTerm, Index: 0, Raw: "9,5"})
	require.NoError(t, err)
	v, ok := next.Data.Grade(s.Id, attendance.FirstTerm, 0)
	assert.True(t, ok)
	assert.Equal(t, 9.5, v)
	_, ok = cur.Data.Grade(s.Id, attendance.FirstTerm, 0)
	assert.False(t, ok)
}

func TestGradesReplacedValidates(t *testing.T) {
	cur, _ := gradesState(t)

	bad := gradebook.New()
	bad.Students = []models.Student{{Id: "x", Name: "A"}, {Id: "x", Name: "B"}}
	_, err := ApplyGrades(cur, GradesReplaced{Data: bad})
	assert.Error(t, err)

	_, err = ApplyGrades(cur, GradesReplaced{})
	assert.Error(t, err)

	good := gradebook.New()
	next, err := ApplyGrades(cur, GradesReplaced{Data: good})
	require.NoError(t, err)
	assert.Empty(t, next.Students)
}
