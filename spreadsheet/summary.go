package spreadsheet

import (
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
)

// SummaryRow is one line of the attendance summary export.
type SummaryRow struct {
	Student    string `csv:"Estudiante"`
	FirstTerm  string `csv:"1er Cuatrimestre"`
	SecondTerm string `csv:"2do Cuatrimestre"`
	Overall    string `csv:"Asistencia Total"`
	Sessions   int    `csv:"Clases Totales"`
	Regular    string `csv:"Regular"`
}

func SummaryRows(students []models.Student, ledger attendance.Ledger) []*SummaryRow {
	rows := make([]*SummaryRow, 0, len(students))
	for _, s := range students {
		sum := ledger.Summary(s.Id)
		overall := ledger.Stats(s.Id, attendance.Months())
		regular := "No"
		if overall.Good() {
			regular = "Sí"
		}
		rows = append(rows, &SummaryRow{
			Student:    s.Name,
			FirstTerm:  FormatPercent(sum.First.Percentage),
			SecondTerm: FormatPercent(sum.Second.Percentage),
			Overall:    FormatPercent(overall.Percentage),
			Sessions:   sum.TotalSessions(),
			Regular:    regular,
		})
	}
	return rows
}

// WriteSummaryCSV writes one row per student with the same BOM and separator
// as the other exports.
func WriteSummaryCSV(w io.Writer, rows []*SummaryRow) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	cw.UseCRLF = true
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
