package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/database"
	"github.com/lorbeafus/Listas-y-Notas/helper"
	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
	"github.com/lorbeafus/Listas-y-Notas/spreadsheet"
	"github.com/lorbeafus/Listas-y-Notas/storage"
)

// Archiver keeps a copy of exported files. *storage.Archive implements it.
type Archiver interface {
	UploadFile(ctx context.Context, key string, r io.Reader) (string, error)
}

// Env is what every handler needs.
type Env struct {
	Service   *workspace.Service
	Archive   Archiver // nil when archiving is off
	MaxUpload int64
}

const archiveTimeout = 30 * time.Second

// redirectHome sends the browser back to the course list, through htmx when
// the request came from it.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// loadFailed answers a failed state load: unknown courses go home, anything
// else is a server error.
func loadFailed(w http.ResponseWriter, r *http.Request, courseId string, err error) {
	if errors.Is(err, database.ErrNotFound) {
		slog.Info("unknown course, redirecting", "course", courseId)
		redirectHome(w, r)
		return
	}
	slog.Error("load course", "course", courseId, "err", err)
	http.Error(w, "Error interno", http.StatusInternalServerError)
}

func parseTerm(s string) (attendance.Term, bool) {
	switch s {
	case "1":
		return attendance.FirstTerm, true
	case "2":
		return attendance.SecondTerm, true
	}
	return 0, false
}

func parseIndex(s string) (int, bool) {
	i, err := strconv.Atoi(s)
	return i, err == nil && i >= 0
}

// readUpload reads the "file" field of a multipart upload and returns it with
// its normalized filename.
func readUpload(env *Env, w http.ResponseWriter, r *http.Request) (io.Reader, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, env.MaxUpload)
	if err := r.ParseMultipartForm(env.MaxUpload); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, "", err
	}
	return &buf, helper.NormalizeFilename(header.Filename), nil
}

func readTable(env *Env, w http.ResponseWriter, r *http.Request) (spreadsheet.Table, error) {
	body, filename, err := readUpload(env, w, r)
	if err != nil {
		return nil, err
	}
	return spreadsheet.ReadTable(body, filename)
}

// serveExport sends data as a download and, when archiving is on, keeps a
// copy in the bucket. A failed upload never fails the download.
func serveExport(env *Env, w http.ResponseWriter, r *http.Request, courseId, filename, contentType string, data []byte) {
	if env.Archive != nil {
		ctx, cancel := context.WithTimeout(r.Context(), archiveTimeout)
		url, err := env.Archive.UploadFile(ctx, storage.ExportKey(courseId, filename), bytes.NewReader(data))
		cancel()
		if err != nil {
			slog.Warn("archive export", "file", filename, "err", err)
		} else {
			slog.Info("export archived", "file", filename, "url", url)
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		slog.Warn("write export", "file", filename, "err", err)
	}
}
