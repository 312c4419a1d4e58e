package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/dto"
	"github.com/lorbeafus/Listas-y-Notas/helper"
	"github.com/lorbeafus/Listas-y-Notas/internal/metrics"
	"github.com/lorbeafus/Listas-y-Notas/internal/render"
	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
	"github.com/lorbeafus/Listas-y-Notas/spreadsheet"
	"github.com/lorbeafus/Listas-y-Notas/templates/body"
	attendanceView "github.com/lorbeafus/Listas-y-Notas/templates/components/attendance"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func renderAttendance(w http.ResponseWriter, r *http.Request, status int, state workspace.Attendance, errMsg string) {
	view := dto.AttendanceFromState(state)
	view.Error = errMsg
	if status != http.StatusOK {
		render.Fragment(w, r, status, attendanceView.Page(view))
		return
	}
	render.RenderWithLayout(w, r, attendanceView.Page(view), body.Home)
}

func HandleAttendancePage(env *Env, w http.ResponseWriter, r *http.Request) {
	courseId := r.URL.Query().Get("curso")
	state, err := env.Service.Attendance(courseId)
	if err != nil {
		loadFailed(w, r, courseId, err)
		return
	}
	renderAttendance(w, r, http.StatusOK, state, "")
}

// rejectMark answers a mark request that names no editable cell. The row on
// the page stays as it is.
func rejectMark(w http.ResponseWriter, msg string) {
	w.Header().Set("HX-Reswap", "none")
	http.Error(w, msg, http.StatusBadRequest)
}

// HandleAttendanceMark stores one cell. The response is the student's row
// plus the summary; a rejected value answers 422 with the stored value back.
func HandleAttendanceMark(env *Env, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courseId, studentId := q.Get("curso"), q.Get("student")
	key, err := attendance.ParseSessionKey(q.Get("key"))
	if err != nil {
		rejectMark(w, "Clase inválida")
		return
	}

	state, err := env.Service.UpdateAttendance(courseId, workspace.MarkEntered{
		StudentID: studentId,
		Key:       key,
		Raw:       r.FormValue("value"),
	})
	status := http.StatusOK
	invalidKey := ""
	switch {
	case errors.Is(err, attendance.ErrInvalidMark):
		slog.Debug("mark rejected", "course", courseId, "student", studentId, "key", key, "value", r.FormValue("value"))
		metrics.Marks.WithLabelValues(metrics.Rejected).Inc()
		status = http.StatusUnprocessableEntity
		invalidKey = key.String()
	case errors.Is(err, workspace.ErrUnknownStudent), errors.Is(err, attendance.ErrInvalidSessionKey):
		metrics.Marks.WithLabelValues(metrics.Rejected).Inc()
		rejectMark(w, "Estudiante o clase inválidos")
		return
	case err != nil && state.Course.Id == "":
		loadFailed(w, r, courseId, err)
		return
	case err != nil:
		slog.Error("save mark", "course", courseId, "err", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	default:
		metrics.Marks.WithLabelValues(metrics.Accepted).Inc()
	}

	view := dto.AttendanceFromState(state)
	row, ok := view.Row(studentId)
	if !ok {
		rejectMark(w, "Estudiante inválido")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := attendanceView.Row(courseId, row, invalidKey).Render(r.Context(), w); err != nil {
		slog.Error("render row", "err", err)
		return
	}
	if err := attendanceView.Summary(view.Rows, true).Render(r.Context(), w); err != nil {
		slog.Error("render summary", "err", err)
	}
}

// classDaysFromForm reads the calendar form in the chosen scheme.
func classDaysFromForm(r *http.Request, year int, fallback attendance.Scheme, loc *time.Location) (attendance.ClassDays, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	scheme, ok := attendance.ParseScheme(r.FormValue("scheme"))
	if !ok {
		scheme = fallback
	}

	if scheme == attendance.SchemeDays {
		days := attendance.ExplicitDays{}
		for _, m := range attendance.Months() {
			if d := attendance.ParseDayList(r.FormValue("days-"+string(m)), year, m); len(d) > 0 {
				days[m] = d
			}
		}
		return days, nil
	}

	pattern := attendance.WeekdayPattern{Weekdays: map[attendance.Month][]attendance.Weekday{}}
	for _, m := range attendance.Months() {
		values, err := helper.StringsToInts(r.Form["wd-"+string(m)]...)
		if err != nil {
			return nil, err
		}
		var wds []attendance.Weekday
		for _, v := range values {
			wds = append(wds, attendance.Weekday(v))
		}
		if wds = attendance.NormalizeWeekdays(wds); len(wds) > 0 {
			pattern.Weekdays[m] = wds
		}
	}
	if start := strings.TrimSpace(r.FormValue("start")); start != "" {
		t, err := helper.ParseDate(start, loc)
		if err != nil {
			return nil, err
		}
		pattern.Start = &t
	}
	return pattern, nil
}

func HandleAttendanceCalendar(env *Env, w http.ResponseWriter, r *http.Request) {
	courseId := r.URL.Query().Get("curso")
	cur, err := env.Service.Attendance(courseId)
	if err != nil {
		loadFailed(w, r, courseId, err)
		return
	}

	days, err := classDaysFromForm(r, cur.Course.Year, env.Service.Scheme(), env.Service.Location())
	if err != nil {
		renderAttendance(w, r, http.StatusBadRequest, cur, "Configuración de días inválida")
		return
	}
	state, err := env.Service.UpdateAttendance(courseId, workspace.ClassDaysConfigured{Days: days})
	if err != nil {
		slog.Error("save class days", "course", courseId, "err", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}
	slog.Info("class days saved", "course", courseId, "scheme", days.Scheme(), "sessions", len(state.Columns()))
	renderAttendance(w, r, http.StatusOK, state, "")
}

// HandleAttendanceImport merges an uploaded sheet. A file that cannot be read
// leaves the course untouched.
func HandleAttendanceImport(env *Env, w http.ResponseWriter, r *http.Request) {
	courseId := r.URL.Query().Get("curso")
	cur, err := env.Service.Attendance(courseId)
	if err != nil {
		loadFailed(w, r, courseId, err)
		return
	}

	table, err := readTable(env, w, r)
	if err != nil {
		slog.Warn("attendance import unreadable", "course", courseId, "err", err)
		metrics.Imports.WithLabelValues("attendance", metrics.Rejected).Inc()
		renderAttendance(w, r, http.StatusBadRequest, cur, "No se pudo leer el archivo")
		return
	}
	state, err := env.Service.UpdateAttendance(courseId, workspace.SheetImported{Table: table})
	if err != nil {
		slog.Warn("attendance import rejected", "course", courseId, "err", err)
		metrics.Imports.WithLabelValues("attendance", metrics.Rejected).Inc()
		renderAttendance(w, r, http.StatusBadRequest, cur, "No se pudo leer el archivo")
		return
	}
	metrics.Imports.WithLabelValues("attendance", metrics.Accepted).Inc()
	rep := state.LastImport
	slog.Info("attendance imported", "course", courseId, "rows", rep.Rows, "applied", rep.Applied, "skipped", rep.Skipped())
	renderAttendance(w, r, http.StatusOK, state, "")
}

// HandleAttendanceExport downloads the grid as "csv" or "xlsx".
func HandleAttendanceExport(env *Env, w http.ResponseWriter, r *http.Request, format string) {
	courseId := r.URL.Query().Get("curso")
	state, err := env.Service.Attendance(courseId)
	if err != nil {
		loadFailed(w, r, courseId, err)
		return
	}

	table := spreadsheet.AttendanceTable(state.Students, state.Columns(), state.Ledger)
	today := helper.Today(env.Service.Location())

	var buf bytes.Buffer
	var filename, contentType string
	switch format {
	case "xlsx":
		err = spreadsheet.WriteXLSX(&buf, table, "Asistencia")
		filename = helper.ExportFilename("attendance", state.Course.Name, today, ".xlsx")
		contentType = xlsxContentType
	default:
		err = spreadsheet.WriteCSV(&buf, table)
		filename = helper.ExportFilename("attendance", state.Course.Name, today, ".csv")
		contentType = csvContentType
	}
	if err != nil {
		slog.Error("attendance export", "course", courseId, "format", format, "err", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}
	metrics.Exports.WithLabelValues("attendance", format).Inc()
	serveExport(env, w, r, courseId, filename, contentType, buf.Bytes())
}

func HandleAttendanceSummary(env *Env, w http.ResponseWriter, r *http.Request) {
	courseId := r.URL.Query().Get("curso")
	state, err := env.Service.Attendance(courseId)
	if err != nil {
		loadFailed(w, r, courseId, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteSummaryCSV(&buf, spreadsheet.SummaryRows(state.Students, state.Ledger)); err != nil {
		slog.Error("summary export", "course", courseId, "err", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}
	metrics.Exports.WithLabelValues("attendance", "summary").Inc()
	filename := helper.ExportFilename("attendance_summary", state.Course.Name, helper.Today(env.Service.Location()), ".csv")
	serveExport(env, w, r, courseId, filename, csvContentType, buf.Bytes())
}
