package middleware

import (
	"fmt"
	"log"
	"net/http"
)

// Recover is the single top-level boundary for unexpected panics. The
// incident is logged server-side; in production the response carries only
// a generic message to avoid leaking internals.
func Recover(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("panic [%s %s] [rid=%s]: %v",
						r.Method, r.URL.Path, r.Header.Get("X-Request-Id"), rec)
					msg := "Internal Server Error"
					if !production {
						msg = fmt.Sprintf("%v", rec)
					}
					respondError(w, http.StatusInternalServerError, msg)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
