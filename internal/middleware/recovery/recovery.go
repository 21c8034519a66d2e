// Package recovery turns handler panics into 500 responses.
package recovery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"contas/internal/log"
)

// Middleware recovers from panics, logs the stack and answers with a JSON
// 500 unless the handler already started writing.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// Let the server abort the connection as it normally would.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log.FromContext(r.Context()).ErrorContext(r.Context(), "Panic recovered",
				log.FieldError, fmt.Sprint(rec),
				log.FieldErrorType, log.ErrorTypeInternal,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				"stack", string(debug.Stack()))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
		}()

		next.ServeHTTP(w, r)
	})
}
