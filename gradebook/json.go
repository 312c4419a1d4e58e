package gradebook

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes d as indented JSON, the format of the grade export file.
func Encode(w io.Writer, d *CourseData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Decode reads a JSON export. The result is validated, so a caller can
// replace the stored document with it directly.
func Decode(r io.Reader) (*CourseData, error) {
	var d CourseData
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode grades: %w", err)
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
