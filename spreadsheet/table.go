// Package spreadsheet converts gradebook and attendance documents to and from
// tabular files: ";"-separated CSV, XLSX and legacy XLS.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyTable        = errors.New("spreadsheet: no rows")
	ErrUnsupportedFormat = errors.New("spreadsheet: unsupported file format")
)

// Table is a grid of text cells. Row 0 is the header.
type Table [][]string

// Cell returns the trimmed value at (row, col), or "" outside the grid.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t) || col < 0 || col >= len(t[row]) {
		return ""
	}
	return strings.TrimSpace(t[row][col])
}

// Header returns row 0.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// ReadTable parses an uploaded file, choosing the reader by extension.
// Anything that is not .xlsx/.xlsm/.xls is read as delimited text.
func ReadTable(r io.Reader, filename string) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var t Table
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		t, err = readXLSX(data)
	case ".xls":
		t, err = readXLS(data)
	case ".json":
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	default:
		t, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	if len(t) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}
