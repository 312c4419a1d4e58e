package workspace

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
)

// ErrInvalid wraps request validation failures.
var ErrInvalid = errors.New("invalid input")

// Service loads state from the store, applies one event and writes the
// affected documents back before returning the new state. Mutations run one
// at a time; reads never wait.
type Service struct {
	mu       sync.Mutex // held from load to commit of every mutation
	store    *database.Store
	scheme   attendance.Scheme
	loc      *time.Location
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store *database.Store, scheme attendance.Scheme, loc *time.Location) *Service {
	return &Service{
		store:    store,
		scheme:   scheme,
		loc:      loc,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *Service) Location() *time.Location { return s.loc }

// Scheme is the calendar representation new courses start with.
func (s *Service) Scheme() attendance.Scheme { return s.scheme }

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

type CourseRequest struct {
	Name string `validate:"required,max=120"`
	Year int    `validate:"gte=2000,lte=2100"`
}

// CourseCard is one entry of the course list.
type CourseCard struct {
	Course models.Course
	Stats  database.CourseStats
}

func (s *Service) Courses() ([]CourseCard, error) {
	courses, err := database.ListCourses(s.store)
	if err != nil {
		return nil, err
	}
	cards := make([]CourseCard, 0, len(courses))
	for _, c := range courses {
		stats, err := database.GetCourseStats(s.store, c.Id)
		if err != nil {
			return nil, err
		}
		cards = append(cards, CourseCard{Course: c, Stats: stats})
	}
	return cards, nil
}

// CreateCourse validates req and registers the course. A zero year means the
// current one.
func (s *Service) CreateCourse(req CourseRequest) (*models.Course, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Year == 0 {
		req.Year = s.now().In(s.loc).Year()
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return database.CreateCourse(s.store, req.Name, req.Year, s.now())
}

func (s *Service) DeleteCourse(courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return database.DeleteCourse(s.store, courseID)
}

func (s *Service) Course(courseID string) (*models.Course, error) {
	return database.GetCourse(s.store, courseID)
}

func (s *Service) Attendance(courseID string) (Attendance, error) {
	course, err := database.GetCourse(s.store, courseID)
	if err != nil {
		return Attendance{}, err
	}
	data, err := database.LoadCourseData(s.store, courseID)
	if err != nil {
		return Attendance{}, err
	}
	ledger, err := database.LoadLedger(s.store, courseID)
	if err != nil {
		return Attendance{}, err
	}
	days, err := database.LoadClassDays(s.store, courseID, s.scheme, s.loc)
	if err != nil {
		return Attendance{}, err
	}
	return Attendance{
		Course:   *course,
		Students: gradebook.SortStudents(data.Students),
		Ledger:   ledger,
		Days:     days,
	}, nil
}

// UpdateAttendance applies ev to the stored state of a course and persists
// the result. The store is not touched when ev is rejected.
func (s *Service) UpdateAttendance(courseID string, ev AttendanceEvent) (Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Attendance(courseID)
	if err != nil {
		return Attendance{}, err
	}
	next, err := ApplyAttendance(cur, ev)
	if err != nil {
		return cur, err
	}

	var bt database.Batch
	switch ev.(type) {
	case ClassDaysConfigured:
		if err := database.ClassDaysBatch(&bt, courseID, next.Days); err != nil {
			return cur, err
		}
	default:
		bt.Put(database.CourseKey(courseID, database.KindAttendance), next.Ledger)
	}
	if err := database.Commit(s.store, database.Buckets["gradebook"], &bt); err != nil {
		return cur, fmt.Errorf("save attendance of %s: %w", courseID, err)
	}
	return next, nil
}

func (s *Service) Grades(courseID string) (Grades, error) {
	course, err := database.GetCourse(s.store, courseID)
	if err != nil {
		return Grades{}, err
	}
	data, err := database.LoadCourseData(s.store, courseID)
	if err != nil {
		return Grades{}, err
	}
	ledger, err := database.LoadLedger(s.store, courseID)
	if err != nil {
		return Grades{}, err
	}
	return Grades{
		Course:   *course,
		Data:     data,
		Students: gradebook.SortStudents(data.Students),
		Ledger:   ledger,
	}, nil
}

// UpdateGrades applies ev and writes the grade document, plus the ledger
// when a student was removed.
func (s *Service) UpdateGrades(courseID string, ev GradesEvent) (Grades, error) {
	if err := s.check(ev); err != nil {
		return Grades{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Grades(courseID)
	if err != nil {
		return Grades{}, err
	}
	next, err := ApplyGrades(cur, ev)
	if err != nil {
		return cur, err
	}

	var bt database.Batch
	bt.Put(database.CourseKey(courseID, database.KindData), next.Data)
	if _, ok := ev.(StudentRemoved); ok {
		bt.Put(database.CourseKey(courseID, database.KindAttendance), next.Ledger)
	}
	if err := database.Commit(s.store, database.Buckets["gradebook"], &bt); err != nil {
		return cur, fmt.Errorf("save grades of %s: %w", courseID, err)
	}
	return next, nil
}

// Backup streams a consistent copy of the whole database.
func (s *Service) Backup(w io.Writer) (int64, error) {
	return s.store.Backup(w)
}
