package utils

import (
	"net/http"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseID reads the named URL parameter and checks it is a well-formed UUID.
func ParseID(r *http.Request, param string) (string, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return "", apierror.InvalidID("Invalid ID format")
	}
	return id.String(), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns user input into a lower-cased substring pattern for
// `LOWER(col) LIKE ? ESCAPE '\'`.
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// SearchTerm returns the trimmed search query parameter.
func SearchTerm(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("search"))
}
