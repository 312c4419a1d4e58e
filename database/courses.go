package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/lorbeafus/Listas-y-Notas/database/models"
)

func NewCourseID() string {
	return "course_" + uuid.Must(uuid.NewV7()).String()
}

// ListCourses returns the registry in creation order.
func ListCourses(s *Store) ([]models.Course, error) {
	courses, err := Get[[]models.Course](s, Buckets["gradebook"], CoursesKey)
	if errors.Is(err, ErrNotFound) {
		return []models.Course{}, nil
	}
	if err != nil {
		return nil, err
	}
	return *courses, nil
}

func GetCourse(s *Store, courseId string) (*models.Course, error) {
	courses, err := ListCourses(s)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		if c.Id == courseId {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("course %s: %w", courseId, ErrNotFound)
}

func updateCourses(s *Store, updater func([]models.Course) ([]models.Course, error), extra func(*bbolt.Bucket) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(Buckets["gradebook"])
		if err != nil {
			return err
		}

		var courses []models.Course
		if err := get(b, CoursesKey, &courses); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		courses, err = updater(courses)
		if err != nil {
			return err
		}
		if extra != nil {
			if err := extra(b); err != nil {
				return err
			}
		}
		return put(b, CoursesKey, courses)
	})
}

// CreateCourse appends a course to the registry. Validation of name and year
// is the caller's job.
func CreateCourse(s *Store, name string, year int, now time.Time) (*models.Course, error) {
	c := models.Course{
		Id:        NewCourseID(),
		Name:      name,
		Year:      year,
		CreatedAt: now.UTC(),
	}
	err := updateCourses(s, func(courses []models.Course) ([]models.Course, error) {
		return append(courses, c), nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCourse removes the course from the registry together with every
// document stored under its id, in one transaction.
func DeleteCourse(s *Store, courseId string) error {
	return updateCourses(s, func(courses []models.Course) ([]models.Course, error) {
		out := make([]models.Course, 0, len(courses))
		for _, c := range courses {
			if c.Id != courseId {
				out = append(out, c)
			}
		}
		if len(out) == len(courses) {
			return nil, fmt.Errorf("course %s: %w", courseId, ErrNotFound)
		}
		return out, nil
	}, func(b *bbolt.Bucket) error {
		// collect first, bbolt cursors must not see deletes mid-scan
		for _, k := range prefixKeys(b, courseId+"_") {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// CourseStats is what the course list shows on each card.
type CourseStats struct {
	Students    int
	Evaluations int
}

func GetCourseStats(s *Store, courseId string) (CourseStats, error) {
	data, err := LoadCourseData(s, courseId)
	if err != nil {
		return CourseStats{}, err
	}
	return CourseStats{
		Students:    len(data.Students),
		Evaluations: len(data.Evaluations.Term1) + len(data.Evaluations.Term2),
	}, nil
}
