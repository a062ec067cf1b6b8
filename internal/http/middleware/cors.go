package middleware

import "net/http"

// CORS allows browser clients from any origin and answers preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(`Access-Control-Allow-Origin`, `*`)
		w.Header().Set(`Access-Control-Allow-Methods`, `POST, GET, OPTIONS`)
		w.Header().Set(`Access-Control-Allow-Headers`, `Content-Type, `+requestIDHeader)
		w.Header().Set(`Access-Control-Expose-Headers`, `Content-Disposition, `+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
