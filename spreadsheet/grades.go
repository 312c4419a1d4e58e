package spreadsheet

import (
	"strconv"
	"strings"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
	"github.com/lorbeafus/Listas-y-Notas/helper"
)

const (
	HeaderAverage1 = "Promedio 1er Cuatri"
	HeaderAverage2 = "Promedio 2do Cuatri"
	HeaderFinal    = "Nota Final"
)

func formatGrade(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

func formatAverage(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return helper.FormatDecimal(v, 2)
}

// GradesTable lays out both terms side by side, each followed by its average,
// and the final grade last. Decimals use a comma.
func GradesTable(d *gradebook.CourseData, students []models.Student) Table {
	evals1 := d.EvaluationNames(attendance.FirstTerm)
	evals2 := d.EvaluationNames(attendance.SecondTerm)

	header := []string{HeaderStudent}
	header = append(header, evals1...)
	header = append(header, HeaderAverage1)
	header = append(header, evals2...)
	header = append(header, HeaderAverage2, HeaderFinal)

	t := Table{header}
	for _, s := range students {
		row := []string{s.Name}
		for _, term := range []attendance.Term{attendance.FirstTerm, attendance.SecondTerm} {
			for i := range d.EvaluationNames(term) {
				if v, ok := d.Grade(s.Id, term, i); ok {
					row = append(row, formatGrade(v))
				} else {
					row = append(row, "")
				}
			}
			row = append(row, formatAverage(d.Average(s.Id, term)))
		}
		row = append(row, formatAverage(d.Final(s.Id)))
		t = append(t, row)
	}
	return t
}

type gradeColumn struct {
	term attendance.Term
	idx  int
}

// gradeColumns maps header positions to evaluation slots. Evaluations are
// matched by position inside their term block; blocks end at the average
// columns. Columns beyond the existing evaluations create new ones named
// after the header.
func gradeColumns(header []string, d *gradebook.CourseData) (map[int]gradeColumn, error) {
	cols := map[int]gradeColumn{}
	term := attendance.FirstTerm
	pos := 0
	for i := 1; i < len(header); i++ {
		name := strings.TrimSpace(header[i])
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, "promedio"):
			if term == attendance.FirstTerm {
				term, pos = attendance.SecondTerm, 0
				continue
			}
			return cols, nil
		case lower == strings.ToLower(HeaderFinal):
			return cols, nil
		}

		if pos >= len(d.EvaluationNames(term)) {
			if name == "" {
				name = "Evaluación " + strconv.Itoa(pos+1)
			}
			if err := d.AddEvaluation(term, name); err != nil {
				return nil, err
			}
		}
		cols[i] = gradeColumn{term: term, idx: pos}
		pos++
	}
	return cols, nil
}

// ImportGrades writes the numeric cells of t into d. Students are matched by
// exact name; cells that are empty or not a grade between 0 and 10 are
// skipped.
func ImportGrades(t Table, d *gradebook.CourseData) (ImportReport, error) {
	var report ImportReport
	if len(t) == 0 {
		return report, ErrEmptyTable
	}

	cols, err := gradeColumns(t.Header(), d)
	if err != nil {
		return report, err
	}

	roster := newRosterIndex(d.Students)
	for r := 1; r < len(t); r++ {
		name := t.Cell(r, 0)
		if name == "" {
			continue
		}
		report.Rows++

		s, ok := roster.resolve(name, &report)
		if !ok {
			continue
		}
		for col, gc := range cols {
			v := t.Cell(r, col)
			if v == "" {
				continue
			}
			if err := d.SetGrade(s.Id, gc.term, gc.idx, v); err != nil {
				report.Ignored++
				continue
			}
			report.Applied++
		}
	}
	return report, nil
}
