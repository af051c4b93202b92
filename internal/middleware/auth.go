package middleware

import (
	"net/http"
	"strings"
)

// BearerAuth only checks that a non-empty bearer token is present.
// Token validity is left to the gateway in front of the service.
func BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="nlp-service"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized","message":"missing bearer token"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
