package http

import (
	"log/slog"
	"net/http"
	"strings"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	userID, err := s.creds.Register(r.Context(), username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.openSession(w, r, userID); err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user registered", "username", username)
	writeJSON(w, http.StatusCreated, map[string]any{"user_id": userID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("username and password are required"))
		return
	}

	ok, err := s.creds.Authenticate(r.Context(), username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		// Unknown user and wrong password answer identically.
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
		return
	}

	user, err := s.store.GetUser(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.openSession(w, r, user.ID); err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user logged in", "username", username)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.closeSession(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
