// Package credentials stores and verifies salted password hashes.
//
// A password is stretched with PBKDF2-HMAC-SHA256 (100k iterations) over a
// fresh 32-byte random salt; hex(salt||key) is what the store persists.
package credentials

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"fintrack/internal/apperr"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const (
	saltLen    = 32
	keyLen     = 32
	iterations = 100_000
)

type Service struct {
	store *storage.SQLiteRepository
}

func NewService(store *storage.SQLiteRepository) *Service {
	return &Service{store: store}
}

// Register creates a user and returns its id. Fails with a duplicate-user
// error when the username is taken.
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, apperr.ValidationErr(core.ErrEmptyUsername)
	}
	if password == "" {
		return 0, apperr.ValidationErr(core.ErrEmptyPassword)
	}

	// Uniqueness is enforced by a lookup before the insert, matching how
	// the rest of the system resolves usernames. The schema's UNIQUE
	// constraint backstops races.
	if _, err := s.store.GetUser(ctx, username); err == nil {
		return 0, apperr.DuplicateUser(username)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, apperr.Internal("look up username", err)
	}

	hash, err := hashPassword(password, nil)
	if err != nil {
		return 0, apperr.Internal("hash password", err)
	}

	id, err := s.store.CreateUser(ctx, username, hash)
	if err != nil {
		return 0, apperr.Internal("create user", err)
	}
	return id, nil
}

// Authenticate reports whether the username/password pair is valid. An
// unknown username and a wrong password both come back as plain false;
// callers cannot tell them apart.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	u, err := s.store.GetUser(ctx, strings.TrimSpace(username))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Internal("look up username", err)
	}

	stored, err := hex.DecodeString(u.PasswordHash)
	if err != nil || len(stored) != saltLen+keyLen {
		return false, apperr.Internal("stored hash malformed", err)
	}
	salt, key := stored[:saltLen], stored[saltLen:]

	derived := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	return subtle.ConstantTimeCompare(derived, key) == 1, nil
}

// hashPassword derives hex(salt||key) for a password. A nil salt means
// generate a fresh random one.
func hashPassword(password string, salt []byte) (string, error) {
	if salt == nil {
		salt = make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
	}
	key := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	return hex.EncodeToString(append(append([]byte{}, salt...), key...)), nil
}
