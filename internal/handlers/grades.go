package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/lorbeafus/Listas-y-Notas/database"
	"github.com/lorbeafus/Listas-y-Notas/dto"
	"github.com/lorbeafus/Listas-y-Notas/gradebook"
	"github.com/lorbeafus/Listas-y-Notas/helper"
	"github.com/lorbeafus/Listas-y-Notas/internal/metrics"
	"github.com/lorbeafus/Listas-y-Notas/internal/render"
	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
	"github.com/lorbeafus/Listas-y-Notas/spreadsheet"
	"github.com/lorbeafus/Listas-y-Notas/templates/body"
	"github.com/lorbeafus/Listas-y-Notas/templates/components/grades"
)

func renderGrades(w http.ResponseWriter, r *http.Request, status int, state workspace.Grades, errMsg string) {
	view := dto.GradesFromState(state)
	view.Error = errMsg
	if status != http.StatusOK {
		render.Fragment(w, r, status, grades.Page(view))
		return
	}
	render.RenderWithLayout(w, r, grades.Page(view), body.Home)
}

// gradesMessage is the text shown for a rejected grades edit.
func gradesMessage(err error) string {
	switch {
	case errors.Is(err, gradebook.ErrInvalidGrade):
		return "La nota debe ser un número entre 0 y 10"
	case errors.Is(err, gradebook.ErrEmptyName), errors.Is(err, workspace.ErrInvalid):
		return "Ingresá un nombre (máximo 120 caracteres)"
	case errors.Is(err, gradebook.ErrUnknownStudent), errors.Is(err, workspace.ErrUnknownStudent):
		return "El estudiante no existe"
	case errors.Is(err, gradebook.ErrNoEvaluation), errors.Is(err, gradebook.ErrInvalidTerm):
		return "La evaluación no existe"
	}
	return ""
}

// updateGrades applies ev and answers with the grades screen. Rejected edits
// get 422 and the stored values.
func updateGrades(env *Env, w http.ResponseWriter, r *http.Request, ev workspace.GradesEvent) {
	courseId := r.URL.Query().Get("curso")
	state, err := env.Service.UpdateGrades(courseId, ev)
	if err == nil {
		metrics.Grades.WithLabelValues(metrics.Accepted).Inc()
		renderGrades(w, r, http.StatusOK, state, "")
		return
	}

	if msg := gradesMessage(err); msg != "" {
		if state.Course.Id == "" {
			// validation failed before the course was loaded
			if state, err = env.Service.Grades(courseId); err != nil {
				loadFailed(w, r, courseId, err)
				return
			}
		}
		slog.Debug("grades edit rejected", "course", courseId, "msg", msg)
		metrics.Grades.WithLabelValues(metrics.Rejected).Inc()
		renderGrades(w, r, http.StatusUnprocessableEntity, state, msg)
		return
	}
	if state.Course.Id == "" || errors.Is(err, database.ErrNotFound) {
		loadFailed(w, r, courseId, err)
		return
	}
	slog.Error("save grades", "course", courseId, "err", err)
	http.Error(w, "Error interno", http.StatusInternalServerError)
}

func HandleGradesPage(env *Env, w http.ResponseWriter, r *http.Request) {
	courseId := r.URL.Query().Get("curso")
	state, err := env.Service.Grades(courseId)
	if err != nil {
		loadFailed(w, r, courseId, err)
		return
	}
	renderGrades(w, r, http.StatusOK, state, "")
}

func HandleStudentAdd(env *Env, w http.ResponseWriter, r *http.Request) {
	updateGrades(env, w, r, workspace.StudentAdded{Name: strings.TrimSpace(r.FormValue("name"))})
}

func HandleStudentDelete(env *Env, w http.ResponseWriter, r *http.Request) {
	updateGrades(env, w, r, workspace.StudentRemoved{StudentID: r.URL.Query().Get("student")})
}

func HandleEvaluationAdd(env *Env, w http.ResponseWriter, r *http.Request) {
	term, ok := parseTerm(r.URL.Query().Get("term"))
	if !ok {
		http.Error(w, "Cuatrimestre inválido", http.StatusBadRequest)
		return
	}
	updateGrades(env, w, r, workspace.EvaluationAdded{Term: term, Name: strings.TrimSpace(r.FormValue("name"))})
}

func HandleEvaluationRename(env *Env, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term, ok := parseTerm(q.Get("term"))
	index, okIdx := parseIndex(q.Get("index"))
	if !ok || !okIdx {
		http.Error(w, "Evaluación inválida", http.StatusBadRequest)
		return
	}
	updateGrades(env, w, r, workspace.EvaluationRenamed{Term: term, Index: index, Name: strings.TrimSpace(r.FormValue("name"))})
}

func HandleGradeSet(env *Env, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term, ok := parseTerm(q.Get("term"))
	index, okIdx := parseIndex(q.Get("index"))
	if !ok || !okIdx {
		http.Error(w, "Evaluación inválida", http.StatusBadRequest)
		return
	}
	updateGrades(env, w, r, workspace.GradeEntered{
		StudentID: q.Get("student"),
		Term:      term,
		Index:     index,
		Raw:       r.FormValue("value"),
	})
}

// HandleGradesImport replaces the document with a JSON export or merges a
// spreadsheet, depending on the file extension.
func HandleGradesImport(env *Env, w http.ResponseWriter, r *http.Request) {
	courseId := r.URL.Query().Get("curso")
	cur, err := env.Service.Grades(courseId)
	if err != nil {
		loadFailed(w, r, courseId, err)
		return
	}

	body, filename, err := readUpload(env, w, r)
	if err != nil {
		slog.Warn("grades import unreadable", "course", courseId, "err", err)
		metrics.Imports.WithLabelValues("grades", metrics.Rejected).Inc()
		renderGrades(w, r, http.StatusBadRequest, cur, "No se pudo leer el archivo")
		return
	}

	var ev workspace.GradesEvent
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		data, err := gradebook.Decode(body)
		if err != nil {
			slog.Warn("grades import rejected", "course", courseId, "file", filename, "err", err)
			metrics.Imports.WithLabelValues("grades", metrics.Rejected).Inc()
			renderGrades(w, r, http.StatusBadRequest, cur, "No se pudo leer el archivo")
			return
		}
		ev = workspace.GradesReplaced{Data: data}
	} else {
		table, err := spreadsheet.ReadTable(body, filename)
		if err != nil {
			slog.Warn("grades import rejected", "course", courseId, "file", filename, "err", err)
			metrics.Imports.WithLabelValues("grades", metrics.Rejected).Inc()
			renderGrades(w, r, http.StatusBadRequest, cur, "No se pudo leer el archivo")
			return
		}
		ev = workspace.GradesImported{Table: table}
	}

	state, err := env.Service.UpdateGrades(courseId, ev)
	if err != nil {
		slog.Warn("grades import rejected", "course", courseId, "file", filename, "err", err)
		metrics.Imports.WithLabelValues("grades", metrics.Rejected).Inc()
		renderGrades(w, r, http.StatusBadRequest, cur, "No se pudo leer el archivo")
		return
	}
	metrics.Imports.WithLabelValues("grades", metrics.Accepted).Inc()
	slog.Info("grades imported", "course", courseId, "file", filename, "students", len(state.Students))
	renderGrades(w, r, http.StatusOK, state, "")
}

// HandleGradesExport downloads the grade book as "json" or "csv".
func HandleGradesExport(env *Env, w http.ResponseWriter, r *http.Request, format string) {
	courseId := r.URL.Query().Get("curso")
	state, err := env.Service.Grades(courseId)
	if err != nil {
		loadFailed(w, r, courseId, err)
		return
	}

	today := helper.Today(env.Service.Location())
	var buf bytes.Buffer
	var filename, contentType string
	switch format {
	case "json":
		err = gradebook.Encode(&buf, state.Data)
		filename = helper.ExportFilename("grades", state.Course.Name, today, ".json")
		contentType = "application/json"
	default:
		err = spreadsheet.WriteCSV(&buf, spreadsheet.GradesTable(state.Data, state.Students))
		filename = helper.ExportFilename("grades", state.Course.Name, today, ".csv")
		contentType = csvContentType
	}
	if err != nil {
		slog.Error("grades export", "course", courseId, "format", format, "err", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}
	metrics.Exports.WithLabelValues("grades", format).Inc()
	serveExport(env, w, r, courseId, filename, contentType, buf.Bytes())
}
