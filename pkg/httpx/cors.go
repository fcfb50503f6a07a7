package httpx

import "net/http"

// corsAllowedHeaders covers the headers the browser clients send: the
// session bearer token, the backend api key and client info, and the JSON
// content type.
const corsAllowedHeaders = "authorization, x-client-info, apikey, content-type"

// CORS sets permissive cross-origin headers on every response and answers
// preflight OPTIONS requests with an empty body.
func CORS() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
