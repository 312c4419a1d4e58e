package render

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/lorbeafus/Listas-y-Notas/templates/views"
)

// RenderWithLayout writes content alone for htmx requests and wrapped in the
// page layout otherwise.
func RenderWithLayout(
	w http.ResponseWriter,
	r *http.Request,
	content templ.Component,
	wrappers ...func(templ.Component) templ.Component,
) {
	if r.Header.Get("HX-Request") == "true" {
		Fragment(w, r, http.StatusOK, content)
		return
	}

	// Apply wrappers in order
	wrapped := content
	for _, wrap := range wrappers {
		wrapped = wrap(wrapped)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Layout(wrapped).Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "err", err)
	}
}

// Fragment writes a partial with the given status code.
func Fragment(w http.ResponseWriter, r *http.Request, status int, content templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := content.Render(r.Context(), w); err != nil {
		slog.Error("render fragment", "path", r.URL.Path, "err", err)
	}
}
