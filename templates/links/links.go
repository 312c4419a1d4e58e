package links

import (
	"net/url"

	"github.com/a-h/templ"
)

// Query appends the name/value pairs to path as an encoded query string.
func Query(path string, pairs ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		q.Add(pairs[i], pairs[i+1])
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Href is Query for anchors.
func Href(path string, pairs ...string) templ.SafeURL {
	return templ.URL(Query(path, pairs...))
}
