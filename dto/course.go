package dto

import (
	"strconv"

	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
)

type CourseCard struct {
	Id          string
	Name        string
	Year        string
	Students    int
	Evaluations int
}

func CourseCardFromModel(c workspace.CourseCard) CourseCard {
	return CourseCard{
		Id:          c.Course.Id,
		Name:        c.Course.Name,
		Year:        strconv.Itoa(c.Course.Year),
		Students:    c.Stats.Students,
		Evaluations: c.Stats.Evaluations,
	}
}

func CourseCardFromModels(cards []workspace.CourseCard) []CourseCard {
	result := make([]CourseCard, len(cards))
	for i, c := range cards {
		result[i] = CourseCardFromModel(c)
	}
	return result
}
