// Package workspace holds the explicit application state of the two course
// screens and the transitions that change it. Transitions never mutate their
// input; persistence happens in Service after a transition succeeds.
package workspace

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
	"github.com/lorbeafus/Listas-y-Notas/spreadsheet"
)

var ErrUnknownStudent = errors.New("workspace: student not in roster")

// Attendance is everything the attendance screen renders.
type Attendance struct {
	Course   models.Course
	Students []models.Student // display order
	Ledger   attendance.Ledger
	Days     attendance.ClassDays

	// LastImport is set by the transition that imported a sheet.
	LastImport *spreadsheet.ImportReport
}

// Columns lists the editable sessions of the course year.
func (a Attendance) Columns() []attendance.SessionKey {
	return attendance.Columns(a.Course.Year, a.Days)
}

func (a Attendance) Configured() bool {
	return attendance.Configured(a.Days)
}

func (a Attendance) hasStudent(id string) bool {
	for _, s := range a.Students {
		if s.Id == id {
			return true
		}
	}
	return false
}

// AttendanceEvent is a user action on the attendance screen.
type AttendanceEvent interface {
	applyAttendance(Attendance) (Attendance, error)
}

// ApplyAttendance returns the state that results from ev. On error the
// returned state is the unchanged input.
func ApplyAttendance(a Attendance, ev AttendanceEvent) (Attendance, error) {
	next, err := ev.applyAttendance(a)
	if err != nil {
		return a, err
	}
	return next, nil
}

// MarkEntered is a keystroke in one attendance cell. Only sessions of the
// current calendar are editable.
type MarkEntered struct {
	StudentID string
	Key       attendance.SessionKey
	Raw       string
}

func (e MarkEntered) applyAttendance(a Attendance) (Attendance, error) {
	if !a.hasStudent(e.StudentID) {
		return a, fmt.Errorf("%w: %s", ErrUnknownStudent, e.StudentID)
	}
	if !slices.Contains(a.Columns(), e.Key) {
		return a, fmt.Errorf("%w: %s is not a class day", attendance.ErrInvalidSessionKey, e.Key)
	}
	ledger := a.Ledger.Clone()
	if err := ledger.Set(e.StudentID, e.Key, e.Raw); err != nil {
		return a, err
	}
	a.Ledger = ledger
	a.LastImport = nil
	return a, nil
}

// ClassDaysConfigured replaces the calendar configuration. Marks already in
// the ledger are kept even if their day is no longer a class day.
type ClassDaysConfigured struct {
	Days attendance.ClassDays
}

func (e ClassDaysConfigured) applyAttendance(a Attendance) (Attendance, error) {
	if e.Days == nil {
		return a, errors.New("workspace: missing class day configuration")
	}
	a.Days = e.Days
	a.LastImport = nil
	return a, nil
}

// SheetImported merges an uploaded attendance table into the ledger.
type SheetImported struct {
	Table spreadsheet.Table
}

func (e SheetImported) applyAttendance(a Attendance) (Attendance, error) {
	ledger := a.Ledger.Clone()
	report, err := spreadsheet.ImportAttendance(e.Table, a.Students, ledger)
	if err != nil {
		return a, err
	}
	a.Ledger = ledger
	a.LastImport = &report
	return a, nil
}

// Grades is everything the grades screen renders.
type Grades struct {
	Course   models.Course
	Data     *gradebook.CourseData
	Students []models.Student // display order
	Ledger   attendance.Ledger

	LastImport *spreadsheet.ImportReport
}

func (g Grades) withData(d *gradebook.CourseData) Grades {
	g.Data = d
	g.Students = gradebook.SortStudents(d.Students)
	g.LastImport = nil
	return g
}

// GradesEvent is a user action on the grades screen.
type GradesEvent interface {
	applyGrades(Grades) (Grades, error)
}

func ApplyGrades(g Grades, ev GradesEvent) (Grades, error) {
	next, err := ev.applyGrades(g)
	if err != nil {
		return g, err
	}
	return next, nil
}

type StudentAdded struct {
	Name string `validate:"required,max=120"`
}

func (e StudentAdded) applyGrades(g Grades) (Grades, error) {
	d := g.Data.Clone()
	if _, err := d.AddStudent(e.Name); err != nil {
		return g, err
	}
	return g.withData(d), nil
}

// StudentRemoved also drops the student's attendance marks.
type StudentRemoved struct {
	StudentID string
}

func (e StudentRemoved) applyGrades(g Grades) (Grades, error) {
	d := g.Data.Clone()
	if !d.RemoveStudent(e.StudentID) {
		return g, fmt.Errorf("%w: %s", ErrUnknownStudent, e.StudentID)
	}
	ledger := g.Ledger.Clone()
	ledger.Forget(e.StudentID)
	g = g.withData(d)
	g.Ledger = ledger
	return g, nil
}

type EvaluationAdded struct {
	Term attendance.Term
	Name string `validate:"required,max=80"`
}

func (e EvaluationAdded) applyGrades(g Grades) (Grades, error) {
	d := g.Data.Clone()
	if err := d.AddEvaluation(e.Term, e.Name); err != nil {
		return g, err
	}
	return g.withData(d), nil
}

type EvaluationRenamed struct {
	Term  attendance.Term
	Index int
	Name  string `validate:"max=80"`
}

func (e EvaluationRenamed) applyGrades(g Grades) (Grades, error) {
	d := g.Data.Clone()
	if err := d.RenameEvaluation(e.Term, e.Index, e.Name); err != nil {
		return g, err
	}
	return g.withData(d), nil
}

type GradeEntered struct {
	StudentID string
	Term      attendance.Term
	Index     int
	Raw       string
}

func (e GradeEntered) applyGrades(g Grades) (Grades, error) {
	d := g.Data.Clone()
	if err := d.SetGrade(e.StudentID, e.Term, e.Index, e.Raw); err != nil {
		return g, err
	}
	return g.withData(d), nil
}

// GradesImported merges an uploaded grades table.
type GradesImported struct {
	Table spreadsheet.Table
}

func (e GradesImported) applyGrades(g Grades) (Grades, error) {
	d := g.Data.Clone()
	report, err := spreadsheet.ImportGrades(e.Table, d)
	if err != nil {
		return g, err
	}
	g = g.withData(d)
	g.LastImport = &report
	return g, nil
}

// GradesReplaced swaps in a whole document read from a JSON export.
type GradesReplaced struct {
	Data *gradebook.CourseData
}

func (e GradesReplaced) applyGrades(g Grades) (Grades, error) {
	if e.Data == nil {
		return g, errors.New("workspace: empty grades document")
	}
	if err := e.Data.Validate(); err != nil {
		return g, err
	}
	return g.withData(e.Data.Clone()), nil
}
