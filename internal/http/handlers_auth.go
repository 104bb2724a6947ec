package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"momodash/internal/auth"
)

type loginPage struct {
	Error    string
	Username string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "component", "http", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.SessionFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", loginPage{})
}

// handleLogin runs the gate against the submitted form. Credentials are
// compared exactly as typed, with no trimming or case folding.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", loginPage{Error: "Malformed request"})
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	sess := auth.SessionFrom(r.Context())
	next, res := s.login.Login(r.Context(), sess, username, password, s.detector.ExtractClientIP(r))
	if !res.Success {
		s.render(w, r, http.StatusUnauthorized, "login.html", loginPage{Error: res.Message, Username: sanitizeInput(username)})
		return
	}
	if err := s.sessions.Write(w, next); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write session cookie", "component", "auth", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	s.sessions.Clear(w)
	slog.InfoContext(r.Context(), "Logged out", "component", "auth", "session_id", sess.ID)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
