package router

import (
	"net/http"
)

// allow answers 405 unless the request uses method.
func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
	return false
}

// hasCourse sends requests without a course back to the course list.
func hasCourse(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("curso") != "" {
		return true
	}
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		return false
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return false
}
