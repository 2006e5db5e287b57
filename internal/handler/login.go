package handler

import (
	"crypto/subtle"
	"html/template"
	"net/http"

	"cropclassify/internal/config"
	"cropclassify/internal/logger"
	"cropclassify/internal/middleware"
)

var loginTemplate = template.Must(template.ParseFS(templateFiles, "templates/login.html"))

// LoginPageHandler renders the password form.
func LoginPageHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := loginTemplate.Execute(w, r.URL.Query().Get("error")); err != nil {
			logger.Error("Error rendering login page: %v", err)
		}
	}
}

// LoginHandler handles POST /auth/login by validating password and issuing an auth cookie.
func LoginHandler(config *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		password := r.FormValue("password")
		if config.Password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(config.Password)) != 1 {
			logger.Warning("Failed login attempt from %s", r.RemoteAddr)
			http.Redirect(w, r, "/login?error=Invalid+password", http.StatusSeeOther)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.AuthCookie,
			Value:    middleware.SessionToken(config.Password),
			Path:     "/",
			MaxAge:   2592000, // 30 days
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// LogoutHandler clears the authentication cookie and redirects to the login page.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   middleware.AuthCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
