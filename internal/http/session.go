package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

// usernameKey carries the authenticated username through the request
// context; downstream services receive it explicitly, never from globals.
const usernameKey contextKey = "username"

// sessionCookie is the name of the session cookie.
const sessionCookie = "session"

// usernameFrom returns the authenticated username, or "" outside a
// session-guarded handler.
func usernameFrom(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

// requireSession resolves the session cookie to a username and rejects
// unauthenticated requests.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody("not logged in"))
			return
		}
		session, err := s.store.GetSession(r.Context(), cookie.Value)
		if err != nil {
			s.clearSessionCookie(w)
			writeJSON(w, http.StatusUnauthorized, errorBody("not logged in"))
			return
		}
		ctx := context.WithValue(r.Context(), usernameKey, session.Username)
		next(w, r.WithContext(ctx))
	}
}

// openSession creates a session row and sets the cookie.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	token := uuid.NewString()
	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.store.CreateSession(r.Context(), token, userID, expiresAt); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		_ = s.store.DeleteSession(r.Context(), cookie.Value)
	}
	s.clearSessionCookie(w)
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
