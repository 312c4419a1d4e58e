package dto

import (
	"strconv"
	"strings"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/helper"
	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
	"github.com/lorbeafus/Listas-y-Notas/spreadsheet"
)

type MonthGroup struct {
	Month string
	Color string
	Days  []int
}

type AttendanceCell struct {
	Key   string
	Value string
	Color string
}

type TermCell struct {
	Percent string
	Good    bool
}

type AttendanceRow struct {
	StudentId string
	Name      string
	Cells     []AttendanceCell
	First     TermCell
	Second    TermCell
	Total     int
}

type WeekdayOption struct {
	Value   int
	Name    string
	Checked bool
}

type MonthConfig struct {
	Month    string
	Color    string
	Weekdays []WeekdayOption
	DaysText string
}

type Attendance struct {
	CourseId    string
	CourseName  string
	Year        int
	Scheme      string
	StartDate   string
	HasStudents bool
	Configured  bool
	Months      []MonthGroup
	Rows        []AttendanceRow
	Config      []MonthConfig
	Import      *spreadsheet.ImportReport
	Error       string
}

func termCell(s attendance.TermStats) TermCell {
	return TermCell{Percent: spreadsheet.FormatPercent(s.Percentage), Good: s.Good()}
}

// AttendanceFromState flattens the screen state into what the templates print.
func AttendanceFromState(a workspace.Attendance) *Attendance {
	view := &Attendance{
		CourseId:    a.Course.Id,
		CourseName:  a.Course.Name,
		Year:        a.Course.Year,
		HasStudents: len(a.Students) > 0,
		Configured:  a.Configured(),
		Import:      a.LastImport,
	}
	if a.Days != nil {
		view.Scheme = string(a.Days.Scheme())
	}
	if p, ok := a.Days.(attendance.WeekdayPattern); ok && p.Start != nil {
		view.StartDate = p.Start.Format(helper.ISODate)
	}

	columns := a.Columns()
	for _, m := range attendance.Months() {
		days := attendance.ResolveSessionDays(a.Course.Year, m, a.Days)
		if len(days) > 0 {
			view.Months = append(view.Months, MonthGroup{Month: string(m), Color: m.Color(), Days: days})
		}
		view.Config = append(view.Config, monthConfig(a.Days, m))
	}

	for _, s := range a.Students {
		row := AttendanceRow{StudentId: s.Id, Name: s.Name}
		for _, k := range columns {
			row.Cells = append(row.Cells, AttendanceCell{
				Key:   k.String(),
				Value: string(a.Ledger.Get(s.Id, k)),
				Color: k.Month.Color(),
			})
		}
		sum := a.Ledger.Summary(s.Id)
		row.First = termCell(sum.First)
		row.Second = termCell(sum.Second)
		row.Total = sum.TotalSessions()
		view.Rows = append(view.Rows, row)
	}
	return view
}

func monthConfig(days attendance.ClassDays, m attendance.Month) MonthConfig {
	mc := MonthConfig{Month: string(m), Color: m.Color()}

	var selected []attendance.Weekday
	switch c := days.(type) {
	case attendance.WeekdayPattern:
		selected = attendance.NormalizeWeekdays(c.Weekdays[m])
	case attendance.ExplicitDays:
		parts := make([]string, 0, len(c[m]))
		for _, d := range c[m] {
			parts = append(parts, strconv.Itoa(d))
		}
		mc.DaysText = strings.Join(parts, ", ")
	}
	for _, wd := range attendance.Weekdays() {
		checked := false
		for _, s := range selected {
			if s == wd {
				checked = true
			}
		}
		mc.Weekdays = append(mc.Weekdays, WeekdayOption{Value: int(wd), Name: wd.String(), Checked: checked})
	}
	return mc
}

// Row finds the line of one student.
func (a *Attendance) Row(studentId string) (AttendanceRow, bool) {
	for _, r := range a.Rows {
		if r.StudentId == studentId {
			return r, true
		}
	}
	return AttendanceRow{}, false
}
