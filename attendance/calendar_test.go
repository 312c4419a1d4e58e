package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayPatternMondaysAndWednesdays(t *testing.T) {
	cfg := WeekdayPattern{Weekdays: map[Month][]Weekday{Abril: {Lunes, Miercoles}}}

	assert.Equal(t, []int{1, 3, 8, 10, 15, 17, 22, 24, 29}, ResolveSessionDays(2024, Abril, cfg))
	assert.Empty(t, ResolveSessionDays(2024, Mayo, cfg))
}

func TestWeekdayPatternStartCutoffIsInclusive(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	start := time.Date(2024, time.April, 10, 0, 0, 0, 0, loc)

	cfg := WeekdayPattern{
		Weekdays: map[Month][]Weekday{Marzo: {Lunes}, Abril: {Lunes, Miercoles}},
		Start:    &start,
	}

	assert.Empty(t, ResolveSessionDays(2024, Marzo, cfg))
	assert.Equal(t, []int{10, 15, 17, 22, 24, 29}, ResolveSessionDays(2024, Abril, cfg))
}

func TestWeekdayPatternIgnoresWeekendTokens(t *testing.T) {
	cfg := WeekdayPattern{Weekdays: map[Month][]Weekday{Abril: {Weekday(6), Weekday(7), Viernes, Viernes}}}

	// Fridays of April 2024
	assert.Equal(t, []int{5, 12, 19, 26}, ResolveSessionDays(2024, Abril, cfg))
}

func TestExplicitDaysAreFilteredSortedAndDistinct(t *testing.T) {
	cfg := ExplicitDays{Abril: {31, 5, 3, 5, 0}, Junio: {30}}

	assert.Equal(t, []int{3, 5}, ResolveSessionDays(2024, Abril, cfg))
	assert.Equal(t, []int{30}, ResolveSessionDays(2024, Junio, cfg))
	assert.Empty(t, ResolveSessionDays(2024, Julio, cfg))
}

func TestResolveSessionDaysProperties(t *testing.T) {
	configs := []ClassDays{
		ExplicitDays{Marzo: {31, 1, 31, 15}, Septiembre: {31, 30, 2}},
		WeekdayPattern{Weekdays: map[Month][]Weekday{Marzo: {Viernes, Lunes}, Septiembre: {Martes, Jueves}}},
	}
	for _, cfg := range configs {
		for _, year := range []int{2024, 2025} {
			for _, m := range Months() {
				days := ResolveSessionDays(year, m, cfg)
				for i, d := range days {
					assert.GreaterOrEqual(t, d, 1)
					assert.LessOrEqual(t, d, m.DaysIn(year))
					if i > 0 {
						assert.Greater(t, d, days[i-1], "%s %d %s not strictly ascending", cfg.Scheme(), year, m)
					}
				}
			}
		}
	}
}

func TestResolveSessionDaysWithoutConfig(t *testing.T) {
	assert.Empty(t, ResolveSessionDays(2024, Marzo, nil))
	assert.Empty(t, ResolveSessionDays(2024, Month("ENERO"), ExplicitDays{Month("ENERO"): {1}}))
}

func TestParseDayList(t *testing.T) {
	assert.Equal(t, []int{3, 5, 10}, ParseDayList("10, x,5,,40, 3, 5", 2024, Marzo))
	assert.Empty(t, ParseDayList("", 2024, Marzo))
	assert.Equal(t, []int{30}, ParseDayList("31, 30", 2024, Abril))
}

func TestColumnsAndConfigured(t *testing.T) {
	cfg := ExplicitDays{Abril: {2}, Marzo: {5, 3}}

	assert.Equal(t, []SessionKey{{Marzo, 3}, {Marzo, 5}, {Abril, 2}}, Columns(2024, cfg))
	assert.True(t, Configured(cfg))

	assert.False(t, Configured(nil))
	assert.False(t, Configured(ExplicitDays{Marzo: {}}))
	assert.False(t, Configured(WeekdayPattern{Weekdays: map[Month][]Weekday{Marzo: {Weekday(7)}}}))
	assert.Empty(t, Columns(2024, WeekdayPattern{}))
}

func TestParseScheme(t *testing.T) {
	s, ok := ParseScheme(" Days ")
	assert.True(t, ok)
	assert.Equal(t, SchemeDays, s)

	_, ok = ParseScheme("calendar")
	assert.False(t, ok)
}
