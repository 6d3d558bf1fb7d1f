// Package http wires the finance tracker services behind a net/http
// server: session-cookie auth, JSON responses, security headers, a login
// rate limiter, and request tracing.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/credentials"
	"fintrack/internal/importer"
	"fintrack/internal/ledger"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/storage"
)

type Server struct {
	http.Server

	store    *storage.SQLiteRepository
	creds    *credentials.Service
	ledger   *ledger.Service
	importer *importer.Service

	sessionTTL    time.Duration
	secureCookies bool

	rateLimiter *rateLimiter
	traceMW     *trace.Middleware
}

// Options carries the tunables NewServer does not default.
type Options struct {
	SessionTTL    time.Duration
	SecureCookies bool
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, store *storage.SQLiteRepository, creds *credentials.Service, ledgerSvc *ledger.Service, importerSvc *importer.Service, opts Options) *Server {
	mux := http.NewServeMux()

	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 720 * time.Hour
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:         store,
		creds:         creds,
		ledger:        ledgerSvc,
		importer:      importerSvc,
		sessionTTL:    opts.SessionTTL,
		secureCookies: opts.SecureCookies,
		rateLimiter:   newRateLimiter(),
	}
	s.traceMW = trace.NewMiddleware(clientIP)
	s.Server.Handler = s.traceMW.Middleware(mux)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.requireSession(s.handleLogout)))

	mux.HandleFunc("/monthly", s.withSecurityHeaders(s.requireSession(s.handleMonthlyView)))

	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.requireSession(s.handleExpenses)))
	mux.HandleFunc("/spending", s.withSecurityHeaders(s.requireSession(s.handleSpending)))
	mux.HandleFunc("/income", s.withSecurityHeaders(s.requireSession(s.handleIncome)))
	mux.HandleFunc("/debt", s.withSecurityHeaders(s.requireSession(s.handleDebt)))
	mux.HandleFunc("/goals", s.withSecurityHeaders(s.requireSession(s.handleGoals)))

	mux.HandleFunc("/records/delete", s.withSecurityHeaders(s.requireSession(s.handleDeleteRecord)))
	mux.HandleFunc("/import", s.withSecurityHeaders(s.requireSession(s.handleImport)))

	return s
}

// withSecurityHeaders adds security headers and rate limiting.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Rate limit credential guessing
		if r.Method == http.MethodPost && (r.URL.Path == "/login" || r.URL.Path == "/register") {
			if !s.rateLimiter.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")

		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory rate limiter, at most 20 auth attempts per minute per
// client address.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{clients: make(map[string]*clientInfo)}
}

func (rl *rateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[addr]
	if !exists || now.Sub(client.lastRequest) > time.Minute {
		rl.clients[addr] = &clientInfo{lastRequest: now, requests: 1}
		rl.evictStale(now)
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 20
}

// evictStale drops entries idle for ten minutes. Called under rl.mu from
// the request path so no cleanup goroutine is needed.
func (rl *rateLimiter) evictStale(now time.Time) {
	cutoff := now.Add(-10 * time.Minute)
	for addr, c := range rl.clients {
		if c.lastRequest.Before(cutoff) {
			delete(rl.clients, addr)
		}
	}
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}
