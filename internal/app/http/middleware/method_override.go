package middleware

import (
	"net/http"
	"strings"
)

// MethodOverride lets HTML forms send PATCH, PUT and DELETE as POST with a
// _method field or an X-HTTP-Method-Override header. It wraps the router
// because gin picks the route before any gin middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := r.Header.Get("X-HTTP-Method-Override")
			if method == "" && isFormPost(r) {
				if err := r.ParseMultipartForm(32 << 20); err == nil || err == http.ErrNotMultipart {
					method = r.PostForm.Get("_method")
				}
			}
			switch m := strings.ToUpper(method); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isFormPost(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
