package database

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var Buckets = map[string][]byte{
	"gradebook": []byte("Gradebook"),
}

// CoursesKey holds the ordered list of courses.
const CoursesKey = "courses"

// Kind is the suffix of a per-course document key.
type Kind string

const (
	KindData       Kind = "data"
	KindAttendance Kind = "attendance"
	KindWeekdays   Kind = "weekdays"
	KindClassDays  Kind = "classDays"
	KindStartDate  Kind = "startDate"
)

// CourseKey builds "{courseId}_{kind}".
func CourseKey(courseId string, kind Kind) string {
	return courseId + "_" + string(kind)
}

// Init opens (or creates) the database file and its bucket.
func Init(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range Buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("database ready", "path", path)
	return &Store{db: db}, nil
}
