package links

import (
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
)

func TestQueryEncodesValues(t *testing.T) {
	assert.Equal(t, "/asistencia", Query("/asistencia"))
	assert.Equal(t, "/asistencia/mark?curso=a%26b+c&key=MARZO-3&student=s%3D1",
		Query("/asistencia/mark", "curso", "a&b c", "student", "s=1", "key", "MARZO-3"))
	assert.Equal(t, templ.SafeURL("/notas?curso=5%C2%BAA"), Href("/notas", "curso", "5ºA"))
}
