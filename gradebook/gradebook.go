// Package gradebook holds the per-course roster and evaluation matrix: the
// document stored under "{courseId}_data".
package gradebook

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database/models"
	"github.com/lorbeafus/Listas-y-Notas/helper"
)

var (
	ErrEmptyName      = errors.New("gradebook: name is required")
	ErrUnknownStudent = errors.New("gradebook: unknown student")
	ErrNoEvaluation   = errors.New("gradebook: no such evaluation")
	ErrInvalidGrade   = errors.New("gradebook: grade must be a number between 0 and 10")
	ErrInvalidTerm    = errors.New("gradebook: invalid term")
)

const (
	MinGrade     = 0.0
	MaxGrade     = 10.0
	PassingGrade = 7.0
)

type Evaluations struct {
	Term1 []string `json:"term1"`
	Term2 []string `json:"term2"`
}

// StudentGrades is sparse: a missing index means no grade was entered.
type StudentGrades struct {
	Term1 map[int]float64 `json:"term1"`
	Term2 map[int]float64 `json:"term2"`
}

type CourseData struct {
	Students    []models.Student         `json:"students"`
	Evaluations Evaluations              `json:"evaluations"`
	Grades      map[string]StudentGrades `json:"grades"`
}

// New returns the document of a course that has no data yet.
func New() *CourseData {
	return &CourseData{
		Students: []models.Student{},
		Evaluations: Evaluations{
			Term1: []string{"Evaluación 1", "Evaluación 2", "Evaluación 3"},
			Term2: []string{"Evaluación 1", "Evaluación 2", "Evaluación 3"},
		},
		Grades: map[string]StudentGrades{},
	}
}

func NewStudentID() string {
	return "student_" + uuid.Must(uuid.NewV7()).String()
}

func (d *CourseData) evaluations(t attendance.Term) (*[]string, error) {
	switch t {
	case attendance.FirstTerm:
		return &d.Evaluations.Term1, nil
	case attendance.SecondTerm:
		return &d.Evaluations.Term2, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidTerm, t)
}

// EvaluationNames returns the evaluation columns of a term.
func (d *CourseData) EvaluationNames(t attendance.Term) []string {
	evals, err := d.evaluations(t)
	if err != nil {
		return nil
	}
	return *evals
}

func (g StudentGrades) term(t attendance.Term) map[int]float64 {
	if t == attendance.FirstTerm {
		return g.Term1
	}
	return g.Term2
}

func (d *CourseData) AddStudent(name string) (models.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Student{}, ErrEmptyName
	}
	s := models.Student{Id: NewStudentID(), Name: name}
	d.Students = append(d.Students, s)
	if d.Grades == nil {
		d.Grades = map[string]StudentGrades{}
	}
	d.Grades[s.Id] = StudentGrades{Term1: map[int]float64{}, Term2: map[int]float64{}}
	return s, nil
}

// RemoveStudent drops the student and their grades. It reports whether the
// student existed.
func (d *CourseData) RemoveStudent(id string) bool {
	n := len(d.Students)
	d.Students = helper.Remove(d.Students, func(s models.Student) bool { return s.Id == id })
	delete(d.Grades, id)
	return len(d.Students) != n
}

func (d *CourseData) Student(id string) (models.Student, bool) {
	i := helper.IndexFunc(d.Students, func(s models.Student) bool { return s.Id == id })
	if i < 0 {
		return models.Student{}, false
	}
	return d.Students[i], true
}

// StudentsNamed returns every roster entry whose name is exactly name.
func (d *CourseData) StudentsNamed(name string) []models.Student {
	var out []models.Student
	for _, s := range d.Students {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

func (d *CourseData) AddEvaluation(t attendance.Term, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	evals, err := d.evaluations(t)
	if err != nil {
		return err
	}
	*evals = append(*evals, name)
	return nil
}

func (d *CourseData) RenameEvaluation(t attendance.Term, idx int, name string) error {
	evals, err := d.evaluations(t)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(*evals) {
		return fmt.Errorf("%w: %d", ErrNoEvaluation, idx)
	}
	(*evals)[idx] = strings.TrimSpace(name)
	return nil
}

// SetGrade records raw input for one evaluation. Empty input clears the grade.
func (d *CourseData) SetGrade(studentID string, t attendance.Term, idx int, raw string) error {
	if _, ok := d.Student(studentID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStudent, studentID)
	}
	evals, err := d.evaluations(t)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(*evals) {
		return fmt.Errorf("%w: %d", ErrNoEvaluation, idx)
	}

	if d.Grades == nil {
		d.Grades = map[string]StudentGrades{}
	}
	g := d.Grades[studentID]
	if g.Term1 == nil {
		g.Term1 = map[int]float64{}
	}
	if g.Term2 == nil {
		g.Term2 = map[int]float64{}
	}
	grades := g.term(t)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		delete(grades, idx)
		d.Grades[studentID] = g
		return nil
	}
	v, err := helper.ParseDecimal(raw)
	if err != nil || v < MinGrade || v > MaxGrade {
		return fmt.Errorf("%w: %q", ErrInvalidGrade, raw)
	}
	grades[idx] = v
	d.Grades[studentID] = g
	return nil
}

// Grade returns the grade entered for one evaluation, if any.
func (d *CourseData) Grade(studentID string, t attendance.Term, idx int) (float64, bool) {
	v, ok := d.Grades[studentID].term(t)[idx]
	return v, ok
}

// Average is the mean of the grades entered in a term. ok is false when the
// student has no grade in that term, which is distinct from a real 0 average.
func (d *CourseData) Average(studentID string, t attendance.Term) (avg float64, ok bool) {
	grades := d.Grades[studentID].term(t)
	if len(grades) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range grades {
		sum += v
	}
	return sum / float64(len(grades)), true
}

// Final is the mean of the term averages that exist.
func (d *CourseData) Final(studentID string) (float64, bool) {
	var (
		sum float64
		n   int
	)
	for _, t := range []attendance.Term{attendance.FirstTerm, attendance.SecondTerm} {
		if avg, ok := d.Average(studentID, t); ok {
			sum += avg
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Validate checks a document coming from an import before it replaces the
// stored one.
func (d *CourseData) Validate() error {
	seen := map[string]bool{}
	for _, s := range d.Students {
		if s.Id == "" {
			return errors.New("gradebook: student without id")
		}
		if seen[s.Id] {
			return fmt.Errorf("gradebook: duplicate student id %s", s.Id)
		}
		seen[s.Id] = true
	}
	for id, g := range d.Grades {
		for _, grades := range []map[int]float64{g.Term1, g.Term2} {
			for idx, v := range grades {
				if v < MinGrade || v > MaxGrade {
					return fmt.Errorf("%w: student %s evaluation %d = %v", ErrInvalidGrade, id, idx, v)
				}
			}
		}
	}
	return nil
}

// Normalize fills the nil collections a hand-edited JSON file may leave out.
func (d *CourseData) Normalize() {
	if d.Students == nil {
		d.Students = []models.Student{}
	}
	if d.Evaluations.Term1 == nil {
		d.Evaluations.Term1 = []string{}
	}
	if d.Evaluations.Term2 == nil {
		d.Evaluations.Term2 = []string{}
	}
	if d.Grades == nil {
		d.Grades = map[string]StudentGrades{}
	}
}

func (d *CourseData) Clone() *CourseData {
	out := &CourseData{
		Students: slices.Clone(d.Students),
		Evaluations: Evaluations{
			Term1: slices.Clone(d.Evaluations.Term1),
			Term2: slices.Clone(d.Evaluations.Term2),
		},
		Grades: make(map[string]StudentGrades, len(d.Grades)),
	}
	for id, g := range d.Grades {
		out.Grades[id] = StudentGrades{Term1: maps.Clone(g.Term1), Term2: maps.Clone(g.Term2)}
	}
	return out
}

// SortStudents orders students by name using Spanish collation, so "Ángel"
// sorts next to "Andrea" rather than after "Zoe".
func SortStudents(students []models.Student) []models.Student {
	out := slices.Clone(students)
	c := collate.New(language.Spanish, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b models.Student) int {
		return c.CompareString(a.Name, b.Name)
	})
	return out
}
