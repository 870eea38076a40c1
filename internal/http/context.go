package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// pathID returns the trimmed chi URL parameter name.
func pathID(r *http.Request, name string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	return id, id != ""
}
