package http

import (
	"net/http"

	"momodash/internal/auth"
)

// withSession resolves the session cookie into the request context. A
// request without a valid cookie gets a fresh unauthenticated session.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := s.sessions.FromRequest(r)
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
	})
}

// requirePage sends unauthenticated browsers to the login page.
func (s *Server) requirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.SessionFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAPI answers 401 for unauthenticated API and websocket requests.
func (s *Server) requireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.SessionFrom(r.Context()).Authenticated() {
			ErrorJSON(http.StatusUnauthorized, "authentication required").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
