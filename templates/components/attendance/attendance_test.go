package attendance

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorbeafus/Listas-y-Notas/dto"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestRowEncodesIdsInMarkURL(t *testing.T) {
	row := dto.AttendanceRow{
		StudentId: "student_a&b",
		Name:      "Ana <b>",
		Cells: []dto.AttendanceCell{
			{Key: "MARZO-3", Value: "P", Color: "#dbeafe"},
			{Key: "MARZO-5", Value: "", Color: "#dbeafe"},
		},
		First: dto.TermCell{Percent: "100%", Good: true},
	}

	html := render(t, Row("5º A&B", row, "MARZO-5"))

	assert.Contains(t, html, `hx-post="/asistencia/mark?curso=5%C2%BA+A%26B&amp;key=MARZO-3&amp;student=student_a%26b"`)
	assert.Contains(t, html, `class="mark invalid"`)
	assert.Contains(t, html, `<input class="mark" name="value" value="P"`)
	assert.Contains(t, html, `style="background:#dbeafe"`)
	assert.Contains(t, html, "Ana &lt;b&gt;")
	assert.Contains(t, html, `<td class="good">100%</td>`)
}

func TestSummaryOutOfBand(t *testing.T) {
	rows := []dto.AttendanceRow{{Name: "Ana", First: dto.TermCell{Percent: "50%"}}}

	assert.Contains(t, render(t, Summary(rows, true)), `<section id="attendance-summary" hx-swap-oob="true">`)
	plain := render(t, Summary(rows, false))
	assert.NotContains(t, plain, "hx-swap-oob")
	assert.Contains(t, plain, `<p class="bad">1er Cuatrimestre: 50%</p>`)
}

func TestImportReportIsEmptyWithoutImport(t *testing.T) {
	assert.Empty(t, render(t, ImportReport(nil)))
}
