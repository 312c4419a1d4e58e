package spreadsheet

import (
	"fmt"
	"math"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
)

const (
	HeaderStudent    = "Student"
	HeaderFirstTerm  = "term-1 %"
	HeaderSecondTerm = "term-2 %"
	HeaderTotal      = "total sessions"
)

// FormatPercent renders a percentage the way the attendance screen does: "83%".
// Halves round away from zero.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(p))
}

// AttendanceTable lays out the ledger with one column per session. students
// must already be in display order.
func AttendanceTable(students []models.Student, columns []attendance.SessionKey, ledger attendance.Ledger) Table {
	header := make([]string, 0, len(columns)+4)
	header = append(header, HeaderStudent)
	for _, k := range columns {
		header = append(header, k.String())
	}
	header = append(header, HeaderFirstTerm, HeaderSecondTerm, HeaderTotal)

	t := Table{header}
	for _, s := range students {
		row := make([]string, 0, len(header))
		row = append(row, s.Name)
		for _, k := range columns {
			row = append(row, string(ledger.Get(s.Id, k)))
		}
		sum := ledger.Summary(s.Id)
		row = append(row,
			FormatPercent(sum.First.Percentage),
			FormatPercent(sum.Second.Percentage),
			strconv.Itoa(sum.TotalSessions()),
		)
		t = append(t, row)
	}
	return t
}

// ClassifyHeader decides whether a header cell names a session. Text headers
// such as "MARZO-3" qualify when they contain "-" and are not a percentage or
// a "Clases" total. Numeric headers are spreadsheet date serials whose month
// is mapped back to a month token.
func ClassifyHeader(cell string) (attendance.SessionKey, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return attendance.SessionKey{}, false
	}

	if strings.Contains(cell, "-") {
		if strings.Contains(cell, "%") || strings.Contains(cell, "Clases") {
			return attendance.SessionKey{}, false
		}
		k, err := attendance.ParseSessionKey(cell)
		if err != nil {
			return attendance.SessionKey{}, false
		}
		return k, true
	}

	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil || serial <= 0 {
		return attendance.SessionKey{}, false
	}
	date, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return attendance.SessionKey{}, false
	}
	m, ok := attendance.MonthFor(date.Month())
	if !ok {
		return attendance.SessionKey{}, false
	}
	return attendance.SessionKey{Month: m, Day: date.Day()}, true
}

// ImportReport summarizes what an import touched.
type ImportReport struct {
	Rows      int
	Applied   int
	Ignored   int
	Unmatched []string
	Ambiguous []string
}

// Skipped counts rows that could not be matched to exactly one student.
func (r ImportReport) Skipped() int {
	return len(r.Unmatched) + len(r.Ambiguous)
}

// rosterIndex resolves names to students. Names shared by several students
// are kept apart so their rows are never merged into one of them.
type rosterIndex map[string][]models.Student

func newRosterIndex(students []models.Student) rosterIndex {
	idx := rosterIndex{}
	for _, s := range students {
		idx[s.Name] = append(idx[s.Name], s)
	}
	return idx
}

func (idx rosterIndex) resolve(name string, report *ImportReport) (models.Student, bool) {
	matches := idx[name]
	switch len(matches) {
	case 1:
		return matches[0], true
	case 0:
		slog.Warn("import: student not in roster, row skipped", "name", name)
		report.Unmatched = append(report.Unmatched, name)
	default:
		slog.Warn("import: several students share this name, row skipped", "name", name, "matches", len(matches))
		report.Ambiguous = append(report.Ambiguous, name)
	}
	return models.Student{}, false
}

// ImportAttendance copies the marks of t into ledger. Only cells under a
// session column with a P, A or R value are written; other cells and columns
// are left alone, as are sessions the file does not mention. Callers that
// need all-or-nothing behaviour pass a clone and keep it only on success.
func ImportAttendance(t Table, students []models.Student, ledger attendance.Ledger) (ImportReport, error) {
	var report ImportReport
	if len(t) == 0 {
		return report, ErrEmptyTable
	}

	sessions := map[int]attendance.SessionKey{}
	for i, cell := range t.Header() {
		if i == 0 {
			continue
		}
		if k, ok := ClassifyHeader(cell); ok {
			sessions[i] = k
		}
	}

	roster := newRosterIndex(students)
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
		for col, key := range sessions {
			v := t.Cell(r, col)
			if v == "" {
				continue
			}
			m, err := attendance.ParseMark(v)
			if err != nil {
				report.Ignored++
				continue
			}
			if err := ledger.Set(s.Id, key, string(m)); err != nil {
				return report, err
			}
			report.Applied++
		}
	}
	return report, nil
}
