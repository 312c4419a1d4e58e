package attendance

import (
	"strings"
	"time"
)

// Month is one of the ten school-year month tokens.
type Month string

const (
	Marzo      Month = "MARZO"
	Abril      Month = "ABRIL"
	Mayo       Month = "MAYO"
	Junio      Month = "JUNIO"
	Julio      Month = "JULIO"
	Agosto     Month = "AGOSTO"
	Septiembre Month = "SEPTIEMBRE"
	Octubre    Month = "OCTUBRE"
	Noviembre  Month = "NOVIEMBRE"
	Diciembre  Month = "DICIEMBRE"
)

type monthInfo struct {
	token  Month
	number time.Month
	color  string
}

var months = []monthInfo{
	{Marzo, time.March, "#90EE90"},
	{Abril, time.April, "#87CEEB"},
	{Mayo, time.May, "#FFA500"},
	{Junio, time.June, "#FFB6C1"},
	{Julio, time.July, "#D3D3D3"},
	{Agosto, time.August, "#87CEFA"},
	{Septiembre, time.September, "#FFB6C1"},
	{Octubre, time.October, "#90EE90"},
	{Noviembre, time.November, "#D8BFD8"},
	{Diciembre, time.December, "#87CEEB"},
}

// Months returns the school-year months in calendar order.
func Months() []Month {
	out := make([]Month, len(months))
	for i, m := range months {
		out[i] = m.token
	}
	return out
}

func (m Month) info() (monthInfo, bool) {
	for _, mi := range months {
		if mi.token == m {
			return mi, true
		}
	}
	return monthInfo{}, false
}

// Valid reports whether m is one of the ten known tokens.
func (m Month) Valid() bool {
	_, ok := m.info()
	return ok
}

// Number is the calendar month, or 0 for an unknown token.
func (m Month) Number() time.Month {
	mi, _ := m.info()
	return mi.number
}

// Color is the display colour used for the month's columns.
func (m Month) Color() string {
	mi, _ := m.info()
	return mi.color
}

// DaysIn returns how many days m has in year.
func (m Month) DaysIn(year int) int {
	n := m.Number()
	if n == 0 {
		return 0
	}
	// day 0 of the next month is the last day of this one
	return time.Date(year, n+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseMonth accepts a token in any letter case.
func ParseMonth(s string) (Month, bool) {
	m := Month(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.Valid()
}

// MonthFor maps a calendar month back to its token. January and February have none.
func MonthFor(n time.Month) (Month, bool) {
	for _, mi := range months {
		if mi.number == n {
			return mi.token, true
		}
	}
	return "", false
}

// Term is one of the two fixed five-month halves of the school year.
type Term int

const (
	FirstTerm Term = iota + 1
	SecondTerm
)

// Months returns the months that belong to t.
func (t Term) Months() []Month {
	switch t {
	case FirstTerm:
		return []Month{Marzo, Abril, Mayo, Junio, Julio}
	case SecondTerm:
		return []Month{Agosto, Septiembre, Octubre, Noviembre, Diciembre}
	}
	return nil
}

func (t Term) String() string {
	switch t {
	case FirstTerm:
		return "1er Cuatrimestre"
	case SecondTerm:
		return "2do Cuatrimestre"
	}
	return "?"
}

// Weekday uses ISO numbering: Monday is 1 and Sunday is 7.
// Only Monday through Friday can be configured as class days.
type Weekday int

const (
	Lunes Weekday = iota + 1
	Martes
	Miercoles
	Jueves
	Viernes
)

var weekdayNames = map[Weekday]string{
	Lunes:     "Lunes",
	Martes:    "Martes",
	Miercoles: "Miércoles",
	Jueves:    "Jueves",
	Viernes:   "Viernes",
}

// Weekdays returns the selectable weekdays in order.
func Weekdays() []Weekday {
	return []Weekday{Lunes, Martes, Miercoles, Jueves, Viernes}
}

func (w Weekday) Valid() bool {
	return w >= Lunes && w <= Viernes
}

func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return "?"
}

// isoWeekday maps time.Weekday (Sunday=0) to 1..7 with Sunday as 7.
func isoWeekday(t time.Time) Weekday {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return Weekday(wd)
}
