package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
)

func gradedCourse(t *testing.T) *gradebook.CourseData {
	t.Helper()
	d := gradebook.New()
	ana, err := d.AddStudent("Ana")
	require.NoError(t, err)
	_, err = d.AddStudent("Bruno")
	require.NoError(t, err)
	require.NoError(t, d.SetGrade(ana.Id, attendance.FirstTerm, 0, "7,5"))
	require.NoError(t, d.SetGrade(ana.Id, attendance.FirstTerm, 1, "9"))
	require.NoError(t, d.SetGrade(ana.Id, attendance.FirstTerm, 2, "8"))
	require.NoError(t, d.SetGrade(ana.Id, attendance.SecondTerm, 2, "6"))
	return d
}

func TestGradesTable(t *testing.T) {
	d := gradedCourse(t)
	table := GradesTable(d, gradebook.SortStudents(d.Students))

	assert.Equal(t, []string{
		"Student", "Evaluación 1", "Evaluación 2", "Evaluación 3", "Promedio 1er Cuatri",
		"Evaluación 1", "Evaluación 2", "Evaluación 3", "Promedio 2do Cuatri", "Nota Final",
	}, table[0])
	assert.Equal(t, []string{"Ana", "7,5", "9", "8", "8,17", "", "", "6", "6,00", "7,08"}, table[1])
	assert.Equal(t, []string{"Bruno", "", "", "", "", "", "", "", "", ""}, table[2])
}

func TestGradesCSVRoundTrip(t *testing.T) {
	d := gradedCourse(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, GradesTable(d, gradebook.SortStudents(d.Students))))
	table, err := ReadTable(&buf, "notas.csv")
	require.NoError(t, err)

	back := gradebook.New()
	back.Students = d.Students
	rep, err := ImportGrades(table, back)
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Applied)
	for _, s := range d.Students {
		for _, term := range []attendance.Term{attendance.FirstTerm, attendance.SecondTerm} {
			want, wantOK := d.Average(s.Id, term)
			got, gotOK := back.Average(s.Id, term)
			assert.Equal(t, wantOK, gotOK)
			assert.InDelta(t, want, got, 1e-9)
		}
	}
}

func TestImportGradesAddsMissingEvaluations(t *testing.T) {
	d := gradebook.New()
	ana, err := d.AddStudent("Ana")
	require.NoError(t, err)

	table := Table{
		{"Student", "E1", "E2", "E3", "Oral", "Promedio 1er Cuatri", "TP", "Nota Final"},
		{"Ana", "", "", "", "10", "10", "quince", ""},
		{"Carla", "5"},
	}
	rep, err := ImportGrades(table, d)
	require.NoError(t, err)

	assert.Equal(t, []string{"Evaluación 1", "Evaluación 2", "Evaluación 3", "Oral"}, d.EvaluationNames(attendance.FirstTerm))
	v, ok := d.Grade(ana.Id, attendance.FirstTerm, 3)
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, 1, rep.Applied)
	assert.Equal(t, 1, rep.Ignored)
	assert.Equal(t, []string{"Carla"}, rep.Unmatched)
}

func TestSummaryCSV(t *testing.T) {
	ledger := attendance.Ledger{
		"s1": {{Month: attendance.Marzo, Day: 3}: attendance.Present, {Month: attendance.Agosto, Day: 4}: attendance.Present},
		"s2": {{Month: attendance.Marzo, Day: 3}: attendance.Absent},
	}
	rows := SummaryRows(roster, ledger)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sí", rows[0].Regular)
	assert.Equal(t, 2, rows[0].Sessions)
	assert.Equal(t, "No", rows[1].Regular)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, rows))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\uFEFFEstudiante;1er Cuatrimestre;2do Cuatrimestre;Asistencia Total;Clases Totales;Regular\r\n"))
	assert.Contains(t, out, "Ana;100%;100%;100%;2;Sí\r\n")
}
