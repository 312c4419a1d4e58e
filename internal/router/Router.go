package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/lorbeafus/Listas-y-Notas/internal/handlers"
)

func Router(env *handlers.Env, w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	slog.Debug("request", "method", r.Method, "path", r.URL.Path, "htmx", r.Header.Get("HX-Request") == "true")

	switch parts[0] {
	case "":
		if allow(w, r, http.MethodGet) {
			handlers.HandleCourseList(env, w, r)
		}

	case "courses":
		switch {
		case len(parts) == 1 && allow(w, r, http.MethodPost):
			handlers.HandleCourseCreate(env, w, r)
		case len(parts) == 2 && parts[1] == "delete" && allow(w, r, http.MethodPost):
			handlers.HandleCourseDelete(env, w, r)
		case len(parts) > 2 || (len(parts) == 2 && parts[1] != "delete"):
			http.NotFound(w, r)
		}

	case "notas":
		if !hasCourse(w, r) {
			return
		}
		if len(parts) == 1 {
			if allow(w, r, http.MethodGet) {
				handlers.HandleGradesPage(env, w, r)
			}
			return
		}
		routeGrades(env, w, r, parts[1:])

	case "asistencia":
		if !hasCourse(w, r) {
			return
		}
		if len(parts) == 1 {
			if allow(w, r, http.MethodGet) {
				handlers.HandleAttendancePage(env, w, r)
			}
			return
		}
		routeAttendance(env, w, r, parts[1:])

	case "backup":
		if allow(w, r, http.MethodGet) {
			handlers.HandleBackup(env, w, r)
		}

	default:
		http.NotFound(w, r)
	}
}

func routeGrades(env *handlers.Env, w http.ResponseWriter, r *http.Request, parts []string) {
	switch strings.Join(parts, "/") {
	case "students":
		if allow(w, r, http.MethodPost) {
			handlers.HandleStudentAdd(env, w, r)
		}
	case "students/delete":
		if allow(w, r, http.MethodPost) {
			handlers.HandleStudentDelete(env, w, r)
		}
	case "evaluations":
		if allow(w, r, http.MethodPost) {
			handlers.HandleEvaluationAdd(env, w, r)
		}
	case "evaluations/rename":
		if allow(w, r, http.MethodPost) {
			handlers.HandleEvaluationRename(env, w, r)
		}
	case "grade":
		if allow(w, r, http.MethodPost) {
			handlers.HandleGradeSet(env, w, r)
		}
	case "import":
		if allow(w, r, http.MethodPost) {
			handlers.HandleGradesImport(env, w, r)
		}
	case "export.json":
		if allow(w, r, http.MethodGet) {
			handlers.HandleGradesExport(env, w, r, "json")
		}
	case "export.csv":
		if allow(w, r, http.MethodGet) {
			handlers.HandleGradesExport(env, w, r, "csv")
		}
	default:
		http.NotFound(w, r)
	}
}

func routeAttendance(env *handlers.Env, w http.ResponseWriter, r *http.Request, parts []string) {
	switch strings.Join(parts, "/") {
	case "mark":
		if allow(w, r, http.MethodPost) {
			handlers.HandleAttendanceMark(env, w, r)
		}
	case "calendar":
		if allow(w, r, http.MethodPost) {
			handlers.HandleAttendanceCalendar(env, w, r)
		}
	case "import":
		if allow(w, r, http.MethodPost) {
			handlers.HandleAttendanceImport(env, w, r)
		}
	case "export.csv":
		if allow(w, r, http.MethodGet) {
			handlers.HandleAttendanceExport(env, w, r, "csv")
		}
	case "export.xlsx":
		if allow(w, r, http.MethodGet) {
			handlers.HandleAttendanceExport(env, w, r, "xlsx")
		}
	case "summary.csv":
		if allow(w, r, http.MethodGet) {
			handlers.HandleAttendanceSummary(env, w, r)
		}
	default:
		http.NotFound(w, r)
	}
}
