package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
)

func TestAttendanceFromState(t *testing.T) {
	start := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)
	state := workspace.Attendance{
		Course:   models.Course{Id: "course_1", Name: "Física", Year: 2024},
		Students: []models.Student{{Id: "s1", Name: "Ana"}},
		Ledger:   attendance.Ledger{"s1": {{Month: attendance.Abril, Day: 10}: attendance.Present}},
		Days: attendance.WeekdayPattern{
			Weekdays: map[attendance.Month][]attendance.Weekday{attendance.Abril: {attendance.Miercoles}},
			Start:    &start,
		},
	}

	view := AttendanceFromState(state)

	assert.Equal(t, "weekdays", view.Scheme)
	assert.Equal(t, "2024-04-10", view.StartDate)
	assert.True(t, view.Configured)
	require.Len(t, view.Months, 1)
	assert.Equal(t, MonthGroup{Month: "ABRIL", Color: attendance.Abril.Color(), Days: []int{10, 17, 24}}, view.Months[0])
	require.Len(t, view.Config, 10)
	assert.True(t, view.Config[1].Weekdays[2].Checked)
	assert.False(t, view.Config[1].Weekdays[0].Checked)

	row, ok := view.Row("s1")
	require.True(t, ok)
	assert.Equal(t, "P", row.Cells[0].Value)
	assert.Equal(t, "ABRIL-10", row.Cells[0].Key)
	assert.Equal(t, TermCell{Percent: "100%", Good: true}, row.First)
	assert.Equal(t, 1, row.Total)
}

func TestExplicitDaysConfigText(t *testing.T) {
	view := AttendanceFromState(workspace.Attendance{
		Course: models.Course{Year: 2025},
		Days:   attendance.ExplicitDays{attendance.Mayo: {9, 2}},
	})
	assert.Equal(t, "days", view.Scheme)
	assert.Equal(t, "2, 9", view.Config[2].DaysText)
	assert.False(t, view.HasStudents)
}

func TestGradesFromState(t *testing.T) {
	d := gradebook.New()
	ana, err := d.AddStudent("Ana")
	require.NoError(t, err)
	require.NoError(t, d.SetGrade(ana.Id, attendance.FirstTerm, 0, "6,5"))

	view := GradesFromState(workspace.Grades{
		Course:   models.Course{Id: "course_1", Name: "Física", Year: 2025},
		Data:     d,
		Students: d.Students,
	})

	require.Len(t, view.Terms, 2)
	row := view.Terms[0].Rows[0]
	assert.Equal(t, "6,5", row.Cells[0].Value)
	assert.Equal(t, "grade-fail", row.Cells[0].Class)
	assert.Equal(t, "6,50", row.Average)
	assert.Equal(t, "—", view.Terms[1].Rows[0].Average)
	assert.Equal(t, "6,50", view.Final[0].Final)
}

func TestGradeClass(t *testing.T) {
	assert.Equal(t, "grade-pass", GradeClass(7, true))
	assert.Equal(t, "grade-fail", GradeClass(6.99, true))
	assert.Equal(t, "grade-fail", GradeClass(0, true))
	assert.Equal(t, "", GradeClass(0, false))
}
