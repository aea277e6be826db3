// Package middleware provides HTTP middleware for the EyeNav API.
package middleware

import "net/http"

// CORS returns middleware that handles CORS headers. The browser extension
// posts recorded actions from arbitrary page origins, so the allow list
// usually contains "*".
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				// Language carries the recognition language for /start.
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Language")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
