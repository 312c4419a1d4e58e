package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// bom lets spreadsheet applications detect UTF-8.
const bom = "\uFEFF"

// Separator is the field separator of exported files.
const Separator = ';'

// WriteCSV writes t with a byte-order mark, ";" separators and every cell
// quoted. Embedded quotes are doubled so names survive a round trip.
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(bom); err != nil {
		return err
	}
	for _, row := range t {
		for i, cell := range row {
			if i > 0 {
				bw.WriteByte(Separator)
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			bw.WriteByte('"')
		}
		bw.WriteString("\r\n")
	}
	return bw.Flush()
}

func readCSV(data []byte) (Table, error) {
	data = bytes.TrimPrefix(data, []byte(bom))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffSeparator(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Table(rows), nil
}

// sniffSeparator picks ";" or "," by counting both on the header line.
func sniffSeparator(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(line, []byte(",")) > bytes.Count(line, []byte(";")) {
		return ','
	}
	return Separator
}
