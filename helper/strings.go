package helper

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// NormalizeFilename ensures only safe characters remain. Separators are
// dropped from the base name and the extension is lowercased.
func NormalizeFilename(name string) string {
	ext := filepath.Ext(name)
	base := sanitize(strings.TrimSuffix(name, ext))
	if ext = sanitize(strings.TrimPrefix(ext, ".")); ext != "" {
		return base + "." + ext
	}
	return base
}

// "Matemáticas 3" -> "matematicas_3"
func sanitize(base string) string {
	base = StripAccents(base)
	base = strings.ReplaceAll(base, " ", "_")
	base = unsafeFilenameChars.ReplaceAllString(base, "")
	return strings.ToLower(base)
}

// StripAccents removes combining marks, so "Evaluación" becomes "Evaluacion".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ExportFilename builds "{kind}_{course}_{date}{ext}".
func ExportFilename(kind, courseName, isoDate, ext string) string {
	course := sanitize(courseName)
	if course == "" {
		course = "curso"
	}
	return kind + "_" + course + "_" + isoDate + ext
}
