package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilename(t *testing.T) {
	assert.Equal(t, "matematicas_3.csv", NormalizeFilename("Matemáticas 3.csv"))
	assert.Equal(t, "nino_ano.json", NormalizeFilename("Niño Año.json"))
	assert.Equal(t, "ninoano", NormalizeFilename("Niño/Año"))
	assert.Equal(t, "lista_final.xlsx", NormalizeFilename("Lista FINAL.XLSX"))
	assert.Equal(t, "notas.json", NormalizeFilename("../../notas.json"))
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "attendance_fisica_4b_2025-03-10.csv", ExportFilename("attendance", "Física 4B", "2025-03-10", ".csv"))
	assert.Equal(t, "grades_3ro_a_2025-03-10.json", ExportFilename("grades", "3ro A", "2025-03-10", ".json"))
	assert.Equal(t, "grades_3b_2025-03-10.json", ExportFilename("grades", "3.B", "2025-03-10", ".json"))
	assert.Equal(t, "grades_curso_2025-03-10.json", ExportFilename("grades", "¿?", "2025-03-10", ".json"))
}

func TestParseInts(t *testing.T) {
	assert.Equal(t, []int{3, 5}, ParseInts("3", " x", " 5 ", ""))

	_, err := StringsToInts("1", "dos")
	assert.Error(t, err)
	ints, err := StringsToInts(" 1", "2 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ints)
}

func TestDecimals(t *testing.T) {
	v, err := ParseDecimal(" 7,5 ")
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)
	_, err = ParseDecimal("siete")
	assert.Error(t, err)

	assert.Equal(t, "8,17", FormatDecimal(8.1666, 2))
}

func TestParseDate(t *testing.T) {
	loc, err := LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	d, err := ParseDate("2025-03-10", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, loc).Equal(d))

	// 02:00 UTC is still the previous evening in Buenos Aires
	d, err = ParseDate("2025-03-10T02:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 9, d.Day())

	_, err = ParseDate("10/03/2025", loc)
	assert.Error(t, err)
}

func TestSliceHelpers(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	assert.Equal(t, []int{1, 3}, Remove([]int{1, 2, 3, 4}, even))
	assert.Equal(t, 1, IndexFunc([]int{1, 2, 3}, even))
	assert.Equal(t, -1, IndexFunc([]int{1, 3}, even))
}
