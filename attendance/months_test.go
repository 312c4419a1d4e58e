package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthTable(t *testing.T) {
	ms := Months()
	assert.Len(t, ms, 10)
	assert.Equal(t, Marzo, ms[0])
	assert.Equal(t, Diciembre, ms[9])

	assert.Equal(t, time.September, Septiembre.Number())
	assert.Equal(t, 30, Abril.DaysIn(2024))
	assert.Equal(t, 31, Diciembre.DaysIn(2025))
	assert.Equal(t, 0, Month("ENERO").DaysIn(2025))

	m, ok := MonthFor(time.March)
	assert.True(t, ok)
	assert.Equal(t, Marzo, m)
	_, ok = MonthFor(time.January)
	assert.False(t, ok)
}

func TestTermsSplitTheYear(t *testing.T) {
	all := append(FirstTerm.Months(), SecondTerm.Months()...)
	assert.Equal(t, Months(), all)
	assert.Equal(t, "1er Cuatrimestre", FirstTerm.String())
}

func TestISOWeekday(t *testing.T) {
	// 2024-04-07 is a Sunday, 2024-04-08 a Monday
	assert.Equal(t, Weekday(7), isoWeekday(time.Date(2024, time.April, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Lunes, isoWeekday(time.Date(2024, time.April, 8, 0, 0, 0, 0, time.UTC)))
}
