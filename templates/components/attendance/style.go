package attendance

import (
	"github.com/a-h/templ"

	"github.com/lorbeafus/Listas-y-Notas/dto"
)

func standing(t dto.TermCell) string {
	if t.Good {
		return "good"
	}
	return "bad"
}

func background(color string) templ.Attributes {
	return templ.Attributes{"style": "background:" + color}
}

// swapOOB marks the summary for an out of band swap next to a row update.
func swapOOB(oob bool) templ.Attributes {
	if !oob {
		return templ.Attributes{}
	}
	return templ.Attributes{"hx-swap-oob": "true"}
}

type schemeOption struct {
	Value string
	Label string
}

var schemeOptions = []schemeOption{
	{"weekdays", "Días de la semana"},
	{"days", "Fechas del mes"},
}
