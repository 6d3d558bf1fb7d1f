// Package importer bulk-loads tabular rows into the ledger store.
//
// Rows arrive as column-name keyed maps (typically from a CSV header
// row). Each table has a fixed set of required columns; values are
// trimmed, names and owners capitalized, tags lower-cased. A batch either
// lands whole or not at all.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/apperr"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type Service struct {
	store  *storage.SQLiteRepository
	logger *log.Logger

	// MaxRows caps a single batch; zero means no cap.
	MaxRows int
}

func NewService(store *storage.SQLiteRepository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentImporter)
	}
	return &Service{store: store, logger: logger}
}

// Row is one tabular input row keyed by column name.
type Row map[string]string

// Import normalizes and bulk-inserts rows into the named table for the
// user. It returns the number of rows inserted; on any bad row, unknown
// table, or store rejection nothing is inserted and a bad-import error
// comes back.
func (s *Service) Import(ctx context.Context, username, table string, rows []Row) (int, error) {
	userID, err := s.store.GetUserID(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, apperr.UserNotFound(username)
	}
	if err != nil {
		return 0, apperr.Internal("resolve user", err)
	}

	if s.MaxRows > 0 && len(rows) > s.MaxRows {
		return 0, apperr.BadImport(fmt.Sprintf("too many rows (max %d)", s.MaxRows), nil)
	}

	normalize, ok := rowNormalizers[table]
	if !ok {
		return 0, apperr.BadImport(fmt.Sprintf("unknown table %q", table), nil)
	}

	batch := make([][]any, 0, len(rows))
	for i, row := range rows {
		values, err := normalize(row, userID)
		if err != nil {
			return 0, apperr.BadImport(fmt.Sprintf("row %d", i+1), err)
		}
		batch = append(batch, values)
	}

	if err := s.store.InsertBatch(ctx, table, batch); err != nil {
		return 0, apperr.BadImport("store rejected batch", err)
	}

	s.logger.InfoContext(ctx, "rows imported",
		log.FieldUsername, username,
		log.FieldTable, table,
		log.FieldRowCount, len(batch),
		log.FieldOperation, log.OpImport)

	return len(batch), nil
}

// rowNormalizers maps a table to its field extraction. The produced value
// order matches the storage layer's batch insert statements.
var rowNormalizers = map[string]func(Row, int64) ([]any, error){
	storage.TableSpending: func(r Row, userID int64) ([]any, error) {
		name, err := nameField(r, "name")
		if err != nil {
			return nil, err
		}
		amount, err := amountField(r, "amount")
		if err != nil {
			return nil, err
		}
		date, err := dateField(r, "date")
		if err != nil {
			return nil, err
		}
		category, err := tagField(r, "category")
		if err != nil {
			return nil, err
		}
		owner, err := nameField(r, "owner")
		if err != nil {
			return nil, err
		}
		expenseName, err := nameField(r, "expense_name")
		if err != nil {
			return nil, err
		}
		return []any{name, amount, date, category, owner, expenseName, userID}, nil
	},
	storage.TableExpenses: func(r Row, userID int64) ([]any, error) {
		name, err := nameField(r, "name")
		if err != nil {
			return nil, err
		}
		expected, err := amountField(r, "expected")
		if err != nil {
			return nil, err
		}
		dueDate, err := dateField(r, "due_date")
		if err != nil {
			return nil, err
		}
		repeat, err := tagField(r, "repeat_type")
		if err != nil {
			return nil, err
		}
		if err := core.RepeatType(repeat).Validate(); err != nil {
			return nil, fmt.Errorf("column repeat_type: %w", err)
		}
		owner, err := nameField(r, "owner")
		if err != nil {
			return nil, err
		}
		return []any{name, expected, dueDate, repeat, owner, userID}, nil
	},
	storage.TableGoals: func(r Row, userID int64) ([]any, error) {
		name, err := nameField(r, "name")
		if err != nil {
			return nil, err
		}
		target, err := amountField(r, "target")
		if err != nil {
			return nil, err
		}
		amount, err := amountField(r, "amount")
		if err != nil {
			return nil, err
		}
		targetDate, err := dateField(r, "target_date")
		if err != nil {
			return nil, err
		}
		owner, err := nameField(r, "owner")
		if err != nil {
			return nil, err
		}
		return []any{name, target, amount, targetDate, owner, userID}, nil
	},
	storage.TableDebt: func(r Row, userID int64) ([]any, error) {
		name, err := nameField(r, "name")
		if err != nil {
			return nil, err
		}
		amount, err := amountField(r, "amount")
		if err != nil {
			return nil, err
		}
		targetDate, err := dateField(r, "target_date")
		if err != nil {
			return nil, err
		}
		owner, err := nameField(r, "owner")
		if err != nil {
			return nil, err
		}
		return []any{name, amount, targetDate, owner, userID}, nil
	},
	storage.TableIncome: func(r Row, userID int64) ([]any, error) {
		name, err := nameField(r, "name")
		if err != nil {
			return nil, err
		}
		amount, err := amountField(r, "amount")
		if err != nil {
			return nil, err
		}
		date, err := dateField(r, "date")
		if err != nil {
			return nil, err
		}
		typ, err := tagField(r, "type")
		if err != nil {
			return nil, err
		}
		owner, err := nameField(r, "owner")
		if err != nil {
			return nil, err
		}
		return []any{name, amount, date, typ, owner, userID}, nil
	},
}

func rawField(r Row, key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", fmt.Errorf("missing column %q", key)
	}
	return strings.TrimSpace(v), nil
}

func nameField(r Row, key string) (string, error) {
	v, err := rawField(r, key)
	if err != nil {
		return "", err
	}
	return core.Capitalize(v), nil
}

func tagField(r Row, key string) (string, error) {
	v, err := rawField(r, key)
	if err != nil {
		return "", err
	}
	return core.NormalizeTag(v), nil
}

func amountField(r Row, key string) (int64, error) {
	v, err := rawField(r, key)
	if err != nil {
		return 0, err
	}
	cents, err := core.ParseDecimalToCents(v)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return cents, nil
}

func dateField(r Row, key string) (string, error) {
	v, err := rawField(r, key)
	if err != nil {
		return "", err
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return "", fmt.Errorf("column %q: %w", key, err)
	}
	return d.String(), nil
}
