package dto

import (
	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
	"github.com/lorbeafus/Listas-y-Notas/helper"
	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
	"github.com/lorbeafus/Listas-y-Notas/spreadsheet"
)

// GradeClass is the css class of a grade: pass, fail or none for no data.
func GradeClass(v float64, ok bool) string {
	switch {
	case !ok:
		return ""
	case v >= gradebook.PassingGrade:
		return "grade-pass"
	}
	return "grade-fail"
}

type GradeCell struct {
	Index int
	Value string
	Class string
}

type GradeRow struct {
	StudentId string
	Name      string
	Cells     []GradeCell
	Average   string
	Class     string
}

type TermGrades struct {
	Term        int
	Label       string
	Evaluations []string
	Rows        []GradeRow
}

type FinalRow struct {
	Name  string
	Final string
	Class string
}

type Grades struct {
	CourseId   string
	CourseName string
	Year       int
	Terms      []TermGrades
	Final      []FinalRow
	Import     *spreadsheet.ImportReport
	Error      string
}

// average renders an average with two decimals, or "—" when there is no data.
func average(v float64, ok bool) string {
	if !ok {
		return "—"
	}
	return helper.FormatDecimal(v, 2)
}

func GradesFromState(g workspace.Grades) *Grades {
	view := &Grades{
		CourseId:   g.Course.Id,
		CourseName: g.Course.Name,
		Year:       g.Course.Year,
		Import:     g.LastImport,
	}

	for _, term := range []attendance.Term{attendance.FirstTerm, attendance.SecondTerm} {
		tg := TermGrades{Term: int(term), Label: term.String(), Evaluations: g.Data.EvaluationNames(term)}
		for _, s := range g.Students {
			row := GradeRow{StudentId: s.Id, Name: s.Name}
			for i := range tg.Evaluations {
				cell := GradeCell{Index: i}
				if v, ok := g.Data.Grade(s.Id, term, i); ok {
					cell.Value = helper.FormatDecimal(v, 1)
					cell.Class = GradeClass(v, true)
				}
				row.Cells = append(row.Cells, cell)
			}
			avg, ok := g.Data.Average(s.Id, term)
			row.Average = average(avg, ok)
			row.Class = GradeClass(avg, ok)
			tg.Rows = append(tg.Rows, row)
		}
		view.Terms = append(view.Terms, tg)
	}

	for _, s := range g.Students {
		final, ok := g.Data.Final(s.Id)
		view.Final = append(view.Final, FinalRow{Name: s.Name, Final: average(final, ok), Class: GradeClass(final, ok)})
	}
	return view
}
