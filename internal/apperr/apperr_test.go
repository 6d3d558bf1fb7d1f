package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIsMatchesByKind(t *testing.T) {
	tests := []struct {
		err      error
		sentinel *Error
	}{
		{Validation("bad input"), ErrValidation},
		{DuplicateUser("alice"), ErrDuplicateUser},
		{DuplicateExpenseName("Rent"), ErrDuplicateExpenseName},
		{UserNotFound("ghost"), ErrUserNotFound},
		{BadImport("row 3", nil), ErrBadImport},
		{Internal("db down", errors.New("boom")), ErrInternal},
	}

	for _, tt := range tests {
		if !errors.Is(tt.err, tt.sentinel) {
			t.Errorf("%v does not match sentinel %v", tt.err, tt.sentinel.Kind)
		}
	}

	if errors.Is(Validation("x"), ErrDuplicateUser) {
		t.Error("validation error matched duplicate-user sentinel")
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("write failed", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}

	wrapped := fmt.Errorf("saving record: %w", err)
	var appErr *Error
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed through wrapping")
	}
	if appErr.Kind != KindInternal {
		t.Errorf("Kind = %v, want KindInternal", appErr.Kind)
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"validation shows message", Validation("amount must be positive"), "amount must be positive"},
		{"duplicate user shows message", DuplicateUser("alice"), "username already exists"},
		{"bad import is generic", BadImport("row 7: missing column", errors.New("detail")), "import failed, check your data"},
		{"internal is generic", Internal("sql: connection refused", nil), "something went wrong"},
		{"user not found is generic", UserNotFound("alice"), "something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(Validation("x")); got != KindValidation {
		t.Errorf("KindOf = %v, want KindValidation", got)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %v, want KindInternal", got)
	}
}
