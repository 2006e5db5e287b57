package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

// AuthCookie is the name of the dashboard session cookie.
const AuthCookie = "authenticated"

// SessionToken derives the cookie value issued after a successful login.
func SessionToken(password string) string {
	sum := sha256.Sum256([]byte("cropclassify-session:" + password))
	return hex.EncodeToString(sum[:])
}

// publicPath reports whether path is reachable without logging in: the login
// flow, health checks and the machine-facing submission endpoints.
func publicPath(path string) bool {
	switch path {
	case "/login", "/auth/login", "/auth/logout", "/health", "/classify", "/api/upload":
		return true
	}
	return false
}

// AuthMiddleware requires the session cookie when a password is configured.
// With an empty password every request passes.
func AuthMiddleware(password string, next http.Handler) http.Handler {
	if password == "" {
		return next
	}
	token := SessionToken(password)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(AuthCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(token)) != 1 {
			// API and AJAX callers get a status, browsers get the login page.
			if strings.HasPrefix(r.URL.Path, "/api/") ||
				r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
				r.Header.Get("Content-Type") == "application/json" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
