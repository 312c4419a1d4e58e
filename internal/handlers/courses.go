package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lorbeafus/Listas-y-Notas/database"
	"github.com/lorbeafus/Listas-y-Notas/dto"
	"github.com/lorbeafus/Listas-y-Notas/helper"
	"github.com/lorbeafus/Listas-y-Notas/internal/render"
	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
	"github.com/lorbeafus/Listas-y-Notas/templates/body"
	"github.com/lorbeafus/Listas-y-Notas/templates/components/courses"
)

func renderCourses(env *Env, w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	cards, err := env.Service.Courses()
	if err != nil {
		slog.Error("list courses", "err", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}
	year := time.Now().In(env.Service.Location()).Year()
	content := courses.CourseList(dto.CourseCardFromModels(cards), year, errMsg)
	if status != http.StatusOK {
		render.Fragment(w, r, status, content)
		return
	}
	render.RenderWithLayout(w, r, content, body.Home)
}

func HandleCourseList(env *Env, w http.ResponseWriter, r *http.Request) {
	renderCourses(env, w, r, http.StatusOK, "")
}

func HandleCourseCreate(env *Env, w http.ResponseWriter, r *http.Request) {
	req := workspace.CourseRequest{Name: r.FormValue("name")}
	if y := strings.TrimSpace(r.FormValue("year")); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			renderCourses(env, w, r, http.StatusUnprocessableEntity, "El año debe ser un número")
			return
		}
		req.Year = year
	}

	course, err := env.Service.CreateCourse(req)
	if errors.Is(err, workspace.ErrInvalid) {
		renderCourses(env, w, r, http.StatusUnprocessableEntity, "Ingresá un nombre y un año entre 2000 y 2100")
		return
	}
	if err != nil {
		slog.Error("create course", "err", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}

	slog.Info("course created", "course", course.Id, "name", course.Name, "year", course.Year)
	renderCourses(env, w, r, http.StatusOK, "")
}

func HandleCourseDelete(env *Env, w http.ResponseWriter, r *http.Request) {
	courseId := r.URL.Query().Get("curso")
	err := env.Service.DeleteCourse(courseId)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		slog.Error("delete course", "course", courseId, "err", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}
	if err == nil {
		slog.Info("course deleted", "course", courseId)
	}
	renderCourses(env, w, r, http.StatusOK, "")
}

// HandleBackup streams a snapshot of the database file.
func HandleBackup(env *Env, w http.ResponseWriter, r *http.Request) {
	filename := "listas_y_notas_" + helper.Today(env.Service.Location()) + ".db"
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	n, err := env.Service.Backup(w)
	if err != nil {
		slog.Error("backup", "written", n, "err", err)
		return
	}
	slog.Info("backup sent", "bytes", n)
}
