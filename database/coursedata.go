package database

import (
	"errors"

	"github.com/lorbeafus/Listas-y-Notas/gradebook"
)

// LoadCourseData returns the roster and grades of a course. A course that was
// never saved gets the default document.
func LoadCourseData(s *Store, courseId string) (*gradebook.CourseData, error) {
	data, err := Get[gradebook.CourseData](s, Buckets["gradebook"], CourseKey(courseId, KindData))
	if errors.Is(err, ErrNotFound) {
		return gradebook.New(), nil
	}
	if err != nil {
		return nil, err
	}
	data.Normalize()
	return data, nil
}
