package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/apperr"
	"fintrack/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps the error taxonomy onto HTTP statuses. Validation and
// duplicate errors surface their message; anything internal gets logged
// in full and answered generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("unclassified error", err)
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation, apperr.KindBadImport:
		status = http.StatusBadRequest
	case apperr.KindDuplicateUser, apperr.KindDuplicateExpenseName:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"error", err,
			"kind", appErr.Kind.String(),
			"method", r.Method,
			"path", r.URL.Path)
	} else {
		slog.WarnContext(r.Context(), "request rejected",
			"kind", appErr.Kind.String(),
			"method", r.Method,
			"path", r.URL.Path)
	}

	writeJSON(w, status, errorBody(appErr.Message()))
}

// requirePost rejects anything but POST.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return false
	}
	return true
}

// formAmount parses a decimal form value into Money. Empty input maps to
// zero cents so required-field checks happen in one place, the domain
// validation.
func formAmount(form map[string][]string, key string) (core.Money, error) {
	v := strings.TrimSpace(formValue(form, key))
	if v == "" {
		return core.Money{}, nil
	}
	cents, err := core.ParseDecimalToCents(v)
	if err != nil {
		return core.Money{}, apperr.Validation("invalid %s", key)
	}
	return core.Money{Cents: cents}, nil
}

// formDate parses a YYYY-MM-DD form value. Empty input maps to the zero
// Date; services default it or reject it per field.
func formDate(form map[string][]string, key string) (core.Date, error) {
	v := strings.TrimSpace(formValue(form, key))
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, apperr.Validation("invalid %s, want YYYY-MM-DD", key)
	}
	return d, nil
}

func formValue(form map[string][]string, key string) string {
	if vs := form[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// monthParams reads optional year/month query values; zero means "use the
// current month".
func monthParams(r *http.Request) (int, int, error) {
	var year, month int
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperr.Validation("invalid year")
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperr.Validation("invalid month")
		}
		month = m
	}
	if (year == 0) != (month == 0) {
		return 0, 0, apperr.Validation("year and month must be given together")
	}
	return year, month, nil
}
