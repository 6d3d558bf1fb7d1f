package http

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"fintrack/internal/apperr"
	"fintrack/internal/importer"
)

// maxImportBody bounds the multipart upload size.
const maxImportBody = 8 << 20

// handleImport accepts a CSV upload under the "file" form field plus a
// "table" field naming the destination. The first CSV record is the
// header; every following record becomes one row keyed by those headers.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBody)
	if err := r.ParseMultipartForm(maxImportBody); err != nil {
		writeError(w, r, apperr.BadImport("could not read upload", err))
		return
	}

	table := strings.TrimSpace(r.FormValue("table"))
	if table == "" {
		writeError(w, r, apperr.Validation("table is required"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Validation("file is required"))
		return
	}
	defer file.Close()

	rows, err := readCSVRows(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	inserted, err := s.importer.Import(r.Context(), usernameFrom(r.Context()), table, rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inserted": inserted})
}

// readCSVRows turns a header-prefixed CSV stream into column-keyed rows.
func readCSVRows(src io.Reader) ([]importer.Row, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.BadImport("empty file", nil)
	}
	if err != nil {
		return nil, apperr.BadImport("unreadable header row", err)
	}
	for i, col := range header {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	var rows []importer.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.BadImport("unreadable data row", err)
		}
		row := make(importer.Row, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
