package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
)

// Timeout cancels the request context after d and answers 503 with a JSON
// REQUEST_TIMEOUT body if the handler has not finished.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(apierror.Body{
		Success: false,
		Message: "Request timeout",
		Error:   apierror.CodeTimeout,
	})

	return func(next http.Handler) http.Handler {
		th := http.TimeoutHandler(next, d, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Handlers set their own Content-Type; this one only survives on the
			// timeout path.
			w.Header().Set("Content-Type", "application/json")
			th.ServeHTTP(w, r)
		})
	}
}
