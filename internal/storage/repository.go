// Package storage persists users, sessions, and the five ledger row kinds
// in SQLite. All ledger queries are scoped by user_id; callers resolve a
// username to its id first and pass the id down.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = sql.ErrNoRows

// StoredUser is a users row including the password hash.
type StoredUser struct {
	ID           int64
	Username     string
	PasswordHash string
}

// GetUser returns the users row for a username, or ErrNotFound.
func (r *SQLiteRepository) GetUser(ctx context.Context, username string) (StoredUser, error) {
	var u StoredUser
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, username, password FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		return StoredUser{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserID resolves a username to its id, or ErrNotFound.
func (r *SQLiteRepository) GetUserID(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM users WHERE username = ?`, username).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("get user id: %w", err)
	}
	return id, nil
}

// CreateUser inserts a users row and returns the new id.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user id: %w", err)
	}
	return id, nil
}

// Session is a sessions row joined with its user.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

// CreateSession stores a session token for a user.
func (r *SQLiteRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession returns the session for a token, or ErrNotFound. Expired
// sessions are deleted on sight and reported as not found.
func (r *SQLiteRepository) GetSession(ctx context.Context, token string) (Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx,
		`SELECT s.token, s.user_id, u.username, s.expires_at
		 FROM sessions s JOIN users u ON u.user_id = s.user_id
		 WHERE s.token = ?`, token).
		Scan(&s.Token, &s.UserID, &s.Username, &s.ExpiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if time.Now().After(s.ExpiresAt) {
		_ = r.DeleteSession(ctx, token)
		return Session{}, fmt.Errorf("get session: %w", ErrNotFound)
	}
	return s, nil
}

// DeleteSession removes a session token. Unknown tokens are a no-op.
func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
